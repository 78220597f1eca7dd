package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laporan-latin/laporan-latin/internal/masterdata/gerbang"
	"github.com/laporan-latin/laporan-latin/internal/upstream"
)

const recordsJSON = `[
  {"id":1,"IdCabang":1,"IdGerbang":2,"IdGardu":1,"Tanggal":"2023-11-01","Golongan":1,"Tunai":"10000"},
  {"id":2,"IdCabang":1,"IdGerbang":2,"IdGardu":1,"Tanggal":"2023-11-01","Golongan":2,"Tunai":5000},
  {"id":3,"IdCabang":2,"IdGerbang":7,"IdGardu":3,"Tanggal":"2023-11-01","Golongan":1,"Tunai":0,"eBca":"2500"}
]`

func init() {
	pterm.DisableStyling()
}

func writeInput(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lalin.json")
	require.NoError(t, os.WriteFile(path, []byte(recordsJSON), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCommand(Options{
		Stdout: &out,
		Config: func() (Config, error) { return Config{}, errors.New("config not available in tests") },
	})
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestReportFromInputFile(t *testing.T) {
	out, err := run(t, "report", "--input", writeInput(t), "--mode", "tunai")
	require.NoError(t, err)

	assert.Contains(t, out, "Tunai")
	assert.Contains(t, out, "Total Ruas 1")
	assert.Contains(t, out, "15.000")
	assert.Contains(t, out, "Total Keseluruhan")
	assert.NotContains(t, out, "Total Ruas 2", "zero cash rows are skipped in tunai mode")
}

func TestReportTotalModeIncludesEveryChannel(t *testing.T) {
	out, err := run(t, "report", "--input", writeInput(t), "--mode", "total")
	require.NoError(t, err)
	assert.Contains(t, out, "Total Ruas 2")
	assert.Contains(t, out, "17.500")
}

func TestReportWritesExport(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "out.csv")
	_, err := run(t, "report", "--input", writeInput(t), "--out", dest)
	require.NoError(t, err)

	body, err := os.ReadFile(dest)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(body)), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasSuffix(strings.TrimSpace(lines[3]), ",15000"))
}

func TestReportRejectsBadFlags(t *testing.T) {
	input := writeInput(t)
	cases := [][]string{
		{"report", "--input", input, "--mode", "cheque"},
		{"report", "--input", input, "--date", "01-11-2023"},
		{"report", "--input", input, "--page", "0"},
		{"report", "--input", input, "--out", "report.docx"},
	}
	for _, args := range cases {
		_, err := run(t, args...)
		assert.Error(t, err, strings.Join(args, " "))
	}
}

func TestReportWithoutInputNeedsConfig(t *testing.T) {
	_, err := run(t, "report")
	assert.ErrorContains(t, err, "config not available")
}

func TestMigrateValidatesDirection(t *testing.T) {
	_, err := run(t, "migrate", "sideways")
	assert.Error(t, err)
	_, err = run(t, "migrate")
	assert.Error(t, err)
}

func TestJobsTriggerUnknownJob(t *testing.T) {
	_, err := (&JobsCLI{}).Trigger(context.Background(), "mail:send", "", 1)
	assert.ErrorContains(t, err, "unsupported job")
}

type stubLister struct {
	gates []upstream.Gerbang
	err   error
}

func (s stubLister) ListGerbang(context.Context, string) ([]upstream.Gerbang, error) {
	return s.gates, s.err
}

type stubUpserter struct {
	got []gerbang.Gerbang
}

func (s *stubUpserter) Upsert(_ context.Context, gates []gerbang.Gerbang) (int, error) {
	s.got = gates
	return len(gates), nil
}

func TestSyncGates(t *testing.T) {
	target := &stubUpserter{}
	n, err := syncGates(context.Background(), stubLister{gates: []upstream.Gerbang{
		{ID: 1, BranchID: 16, GateName: "Kalihurip", BranchName: "Jakarta-Cikampek"},
		{ID: 2, BranchID: 16, GateName: "Cikampek", BranchName: "Jakarta-Cikampek"},
	}}, "tok", target)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, gerbang.Gerbang{ID: 1, BranchID: 16, GateName: "Kalihurip", BranchName: "Jakarta-Cikampek"}, target.got[0])
}

func TestSyncGatesEmptyAndError(t *testing.T) {
	target := &stubUpserter{}
	n, err := syncGates(context.Background(), stubLister{}, "tok", target)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Nil(t, target.got)

	_, err = syncGates(context.Background(), stubLister{err: upstream.ErrUnauthorized}, "tok", target)
	assert.ErrorIs(t, err, upstream.ErrUnauthorized)
}
