package gerbang

import "time"

// Gerbang is a toll gate within a branch (ruas). ID alone is not unique;
// gates are keyed by (ID, BranchID).
type Gerbang struct {
	ID         int64     `json:"id" validate:"gt=0"`
	BranchID   int64     `json:"id_cabang" validate:"gt=0"`
	GateName   string    `json:"nama_gerbang" validate:"required,max=100"`
	BranchName string    `json:"nama_cabang" validate:"required,max=100"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
