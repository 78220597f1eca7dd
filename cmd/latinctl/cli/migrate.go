package cli

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/laporan-latin/laporan-latin/internal/platform/db"
)

func newMigrateCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate up|down",
		Short:     "Apply or roll back the gate master schema",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{string(db.Up), string(db.Down)},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rt.config()
			if err != nil {
				return err
			}
			version, err := db.Migrate(cfg.PGDSN, db.Direction(args[0]))
			if err != nil {
				return err
			}
			fmt.Fprintln(rt.out, pterm.Success.Sprintf("migrate %s selesai, versi skema %d", args[0], version))
			return nil
		},
	}
}
