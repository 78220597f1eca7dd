package gerbang

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/laporan-latin/laporan-latin/internal/masterdata/shared"
)

func TestMapErrorDuplicate(t *testing.T) {
	err := mapError(&pgconn.PgError{Code: "23505", Detail: "Key (id, id_cabang)=(1, 1) already exists."})
	assert.ErrorIs(t, err, shared.ErrDuplicate)

	other := errors.New("boom")
	assert.Same(t, other, mapError(other))
}

func TestListWhere(t *testing.T) {
	where, args := listWhere(shared.ListFilters{})
	assert.Empty(t, where)
	assert.Empty(t, args)

	branch := int64(4)
	where, args = listWhere(shared.ListFilters{BranchID: &branch, Search: " utama "})
	assert.Equal(t, " WHERE id_cabang = $1 AND (nama_gerbang ILIKE $2 OR nama_cabang ILIKE $2)", where)
	assert.Equal(t, []any{int64(4), "%utama%"}, args)
}

func TestSortOrderWhitelist(t *testing.T) {
	assert.Equal(t, "nama_gerbang DESC, id_cabang, id", sortOrder("nama_gerbang", shared.SortDesc))
	assert.Equal(t, "id_cabang ASC, id ASC", sortOrder("id; DROP TABLE gerbangs", "asc"))
}
