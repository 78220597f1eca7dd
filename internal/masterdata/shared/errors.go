package shared

import (
	"errors"

	"github.com/laporan-latin/laporan-latin/internal/platform/httpx"
)

// Master data errors share the httpx sentinels so JSON callers map them
// with httpx.RespondError.
var (
	ErrNotFound   = httpx.ErrNotFound
	ErrDuplicate  = httpx.ErrDuplicate
	ErrValidation = httpx.ErrValidation
	ErrInvalidID  = errors.New("invalid ID")
)
