package cli

import (
	"context"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/laporan-latin/laporan-latin/internal/masterdata/gerbang"
	"github.com/laporan-latin/laporan-latin/internal/platform/db"
	"github.com/laporan-latin/laporan-latin/internal/upstream"
)

type gateLister interface {
	ListGerbang(ctx context.Context, token string) ([]upstream.Gerbang, error)
}

type gateUpserter interface {
	Upsert(ctx context.Context, gates []gerbang.Gerbang) (int, error)
}

func newGerbangCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gerbang",
		Short: "Manage the gate master table",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "sync",
		Short: "Import every gate from the traffic API into Postgres",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, err := rt.config()
			if err != nil {
				return err
			}
			client, token, err := rt.login(ctx, cfg)
			if err != nil {
				return err
			}
			pool, err := db.New(ctx, cfg.PGDSN, db.PoolOptions{MaxConns: 2})
			if err != nil {
				return err
			}
			defer pool.Close()

			n, err := syncGates(ctx, client, token, gerbang.NewService(gerbang.NewRepository(pool)))
			if err != nil {
				return err
			}
			fmt.Fprintln(rt.out, pterm.Success.Sprintf("%d gerbang disinkronkan", n))
			return nil
		},
	})
	return cmd
}

func syncGates(ctx context.Context, source gateLister, token string, target gateUpserter) (int, error) {
	remote, err := source.ListGerbang(ctx, token)
	if err != nil {
		return 0, fmt.Errorf("list gerbang: %w", err)
	}
	if len(remote) == 0 {
		return 0, nil
	}
	gates := make([]gerbang.Gerbang, 0, len(remote))
	for _, g := range remote {
		gates = append(gates, gerbang.Gerbang{
			ID:         g.ID,
			BranchID:   g.BranchID,
			GateName:   g.GateName,
			BranchName: g.BranchName,
		})
	}
	return target.Upsert(ctx, gates)
}
