package gerbang

import (
	"net/url"
	"strconv"
	"strings"
)

// GerbangForm is the submitted create/edit form.
type GerbangForm struct {
	ID         string
	BranchID   string
	GateName   string
	BranchName string
}

// FormFromValues reads a posted form.
func FormFromValues(v url.Values) GerbangForm {
	return GerbangForm{
		ID:         strings.TrimSpace(v.Get("id")),
		BranchID:   strings.TrimSpace(v.Get("id_cabang")),
		GateName:   strings.TrimSpace(v.Get("nama_gerbang")),
		BranchName: strings.TrimSpace(v.Get("nama_cabang")),
	}
}

// FormFromGerbang pre-fills the edit form.
func FormFromGerbang(g Gerbang) GerbangForm {
	return GerbangForm{
		ID:         strconv.FormatInt(g.ID, 10),
		BranchID:   strconv.FormatInt(g.BranchID, 10),
		GateName:   g.GateName,
		BranchName: g.BranchName,
	}
}

// Gerbang converts the form; unparsable ids become 0 and fail validation.
func (f GerbangForm) Gerbang() Gerbang {
	id, _ := strconv.ParseInt(f.ID, 10, 64)
	branchID, _ := strconv.ParseInt(f.BranchID, 10, 64)
	return Gerbang{ID: id, BranchID: branchID, GateName: f.GateName, BranchName: f.BranchName}
}
