package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laporan-latin/laporan-latin/internal/lalin"
)

func TestBuildPager(t *testing.T) {
	filters := ReportFilters{Date: "2023-11-01", Page: 6, Mode: lalin.ModeFlo}
	pager := BuildPager("/laporan-latin", filters, 6, 20)

	require.Len(t, pager.Links, 5)
	assert.Equal(t, 4, pager.Links[0].Number)
	assert.True(t, pager.Links[2].Active)
	assert.Equal(t, "/laporan-latin?mode=flo&page=5&tanggal=2023-11-01", pager.PrevURL)
	assert.Equal(t, "/laporan-latin?mode=flo&page=7&tanggal=2023-11-01", pager.NextURL)
}

func TestBuildPagerEdges(t *testing.T) {
	pager := BuildPager("/x", ReportFilters{Date: "2023-11-01"}, 1, 1)
	assert.Empty(t, pager.PrevURL)
	assert.Empty(t, pager.NextURL)
	assert.Len(t, pager.Links, 1)
}

func TestBuildTabsResetPage(t *testing.T) {
	tabs := BuildTabs("/laporan-latin", ReportFilters{Date: "2023-11-01", Page: 3, Mode: lalin.ModeTotal})
	require.Len(t, tabs, len(lalin.Modes()))
	assert.Equal(t, "Tunai", tabs[0].Label)
	assert.Equal(t, "/laporan-latin?mode=tunai&page=1&tanggal=2023-11-01", tabs[0].URL)
	assert.True(t, tabs[len(tabs)-1].Active)
}

func TestBuildExports(t *testing.T) {
	links := BuildExports("/laporan-latin", ReportFilters{Date: "2023-11-01", Page: 2, Mode: lalin.ModeCash})
	assert.Equal(t, "/laporan-latin/export.xlsx?mode=tunai&page=2&tanggal=2023-11-01", links.XLSX)
}
