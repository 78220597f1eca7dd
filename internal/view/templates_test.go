package view

import (
	"html/template"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEngine(t *testing.T) {
	engine, err := NewEngine()
	require.NoError(t, err, "templates should parse without error")
	assert.NotNil(t, engine)
}

func TestRenderLogin(t *testing.T) {
	engine, err := NewEngine()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	err = engine.Render(rec, "pages/login.html", TemplateData{
		Title:     "Masuk",
		CSRFToken: "tok123",
		Data:      map[string]any{"From": "/laporan-latin", "Username": "", "Errors": map[string]string{}},
	})
	require.NoError(t, err)
	body := rec.Body.String()
	assert.Contains(t, body, `name="csrf_token" value="tok123"`)
	assert.Contains(t, body, `value="/laporan-latin"`)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
}

func TestFuncs(t *testing.T) {
	funcs := Funcs()
	rupiah := funcs["rupiah"].(func(int64) string)
	assert.Equal(t, "Rp 15.000", rupiah(15000))

	query := funcs["query"].(func(...any) (template.URL, error))
	q, err := query("tanggal", "2023-11-01", "page", 2)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(q), "page=2"))
	assert.True(t, strings.Contains(string(q), "tanggal=2023-11-01"))

	_, err = query("odd")
	assert.Error(t, err)

	active := funcs["active"].(func(string, string) bool)
	assert.True(t, active("/laporan-latin/per-hari", "/laporan-latin"))
	assert.False(t, active("/dashboard", "/laporan-latin"))
}

func TestRenderNilEngine(t *testing.T) {
	var engine *Engine
	assert.Error(t, engine.Render(httptest.NewRecorder(), "pages/login.html", TemplateData{}))
}
