package gerbang

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/laporan-latin/laporan-latin/internal/masterdata/shared"
)

// ValidationError lists field messages keyed by form field name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("gerbang: %d invalid field(s)", len(e.Fields))
}

func (e *ValidationError) Unwrap() error { return shared.ErrValidation }

var formField = map[string]string{
	"ID":         "id",
	"BranchID":   "id_cabang",
	"GateName":   "nama_gerbang",
	"BranchName": "nama_cabang",
}

func (s *Service) validate(g Gerbang) error {
	err := s.rules.Struct(g)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[formField[fe.Field()]] = fieldMessage(fe)
	}
	return &ValidationError{Fields: fields}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Wajib diisi"
	case "max":
		return fmt.Sprintf("Maksimal %s karakter", fe.Param())
	case "gt":
		return "Harus lebih dari 0"
	default:
		return "Tidak valid"
	}
}
