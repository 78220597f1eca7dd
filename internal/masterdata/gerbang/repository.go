package gerbang

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/laporan-latin/laporan-latin/internal/masterdata/shared"
	"github.com/laporan-latin/laporan-latin/internal/platform/db"
)

//go:generate mockgen -source=repository.go -destination=gerbang_mocks/repository_mock.go -package=gerbang_mocks

const uniqueViolation = "23505"

// Repository persists gates in the gerbangs table.
type Repository interface {
	List(ctx context.Context, filters shared.ListFilters) ([]Gerbang, int, error)
	Get(ctx context.Context, id, branchID int64) (Gerbang, error)
	Create(ctx context.Context, g Gerbang) (Gerbang, error)
	Update(ctx context.Context, id, branchID int64, g Gerbang) error
	Delete(ctx context.Context, id, branchID int64) error
	Upsert(ctx context.Context, gates []Gerbang) (int, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository returns a pgx-backed Repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const selectColumns = `SELECT id, id_cabang, nama_gerbang, nama_cabang, created_at, updated_at FROM gerbangs`

func (r *repository) List(ctx context.Context, filters shared.ListFilters) ([]Gerbang, int, error) {
	filters = filters.Normalize()
	where, args := listWhere(filters)

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM gerbangs`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("gerbang: count: %w", err)
	}

	query := selectColumns + where + " ORDER BY " + sortOrder(filters.SortBy, filters.SortDir) +
		" LIMIT $" + strconv.Itoa(len(args)+1) + " OFFSET $" + strconv.Itoa(len(args)+2)
	args = append(args, filters.Limit, filters.Offset())

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("gerbang: list: %w", err)
	}
	gates, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Gerbang, error) {
		return scanGerbang(row)
	})
	if err != nil {
		return nil, 0, fmt.Errorf("gerbang: scan: %w", err)
	}
	return gates, total, nil
}

func (r *repository) Get(ctx context.Context, id, branchID int64) (Gerbang, error) {
	row := r.pool.QueryRow(ctx, selectColumns+` WHERE id = $1 AND id_cabang = $2`, id, branchID)
	g, err := scanGerbang(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Gerbang{}, shared.ErrNotFound
	}
	return g, err
}

func (r *repository) Create(ctx context.Context, g Gerbang) (Gerbang, error) {
	row := r.pool.QueryRow(ctx, `INSERT INTO gerbangs (id, id_cabang, nama_gerbang, nama_cabang)
		VALUES ($1, $2, $3, $4) RETURNING created_at, updated_at`, g.ID, g.BranchID, g.GateName, g.BranchName)
	if err := row.Scan(&g.CreatedAt, &g.UpdatedAt); err != nil {
		return Gerbang{}, mapError(err)
	}
	return g, nil
}

func (r *repository) Update(ctx context.Context, id, branchID int64, g Gerbang) error {
	tag, err := r.pool.Exec(ctx, `UPDATE gerbangs
		SET id = $1, id_cabang = $2, nama_gerbang = $3, nama_cabang = $4, updated_at = now()
		WHERE id = $5 AND id_cabang = $6`, g.ID, g.BranchID, g.GateName, g.BranchName, id, branchID)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id, branchID int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM gerbangs WHERE id = $1 AND id_cabang = $2`, id, branchID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Upsert inserts or renames gates in one transaction and returns how many
// rows were written.
func (r *repository) Upsert(ctx context.Context, gates []Gerbang) (int, error) {
	if len(gates) == 0 {
		return 0, nil
	}
	written := 0
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, g := range gates {
			batch.Queue(`INSERT INTO gerbangs (id, id_cabang, nama_gerbang, nama_cabang)
				VALUES ($1, $2, $3, $4)
				ON CONFLICT (id, id_cabang) DO UPDATE
				SET nama_gerbang = EXCLUDED.nama_gerbang, nama_cabang = EXCLUDED.nama_cabang, updated_at = now()`,
				g.ID, g.BranchID, g.GateName, g.BranchName)
		}
		results := tx.SendBatch(ctx, batch)
		for range gates {
			tag, err := results.Exec()
			if err != nil {
				_ = results.Close()
				return mapError(err)
			}
			written += int(tag.RowsAffected())
		}
		return results.Close()
	})
	if err != nil {
		return 0, err
	}
	return written, nil
}

func listWhere(filters shared.ListFilters) (string, []any) {
	var (
		clauses []string
		args    []any
	)
	if filters.BranchID != nil {
		args = append(args, *filters.BranchID)
		clauses = append(clauses, "id_cabang = $"+strconv.Itoa(len(args)))
	}
	if search := strings.TrimSpace(filters.Search); search != "" {
		args = append(args, "%"+search+"%")
		n := strconv.Itoa(len(args))
		clauses = append(clauses, "(nama_gerbang ILIKE $"+n+" OR nama_cabang ILIKE $"+n+")")
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func sortOrder(sortBy, sortDir string) string {
	dir := "ASC"
	if sortDir == shared.SortDesc {
		dir = "DESC"
	}
	switch sortBy {
	case "nama_gerbang":
		return "nama_gerbang " + dir + ", id_cabang, id"
	case "nama_cabang":
		return "nama_cabang " + dir + ", id"
	case "id":
		return "id " + dir + ", id_cabang"
	default:
		return "id_cabang " + dir + ", id " + dir
	}
}

func scanGerbang(row pgx.Row) (Gerbang, error) {
	var g Gerbang
	err := row.Scan(&g.ID, &g.BranchID, &g.GateName, &g.BranchName, &g.CreatedAt, &g.UpdatedAt)
	return g, err
}

func mapError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", shared.ErrDuplicate, pgErr.Detail)
	}
	return err
}
