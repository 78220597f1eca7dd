package gerbang

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/laporan-latin/laporan-latin/internal/masterdata/shared"
)

// Service applies validation on top of the Repository.
type Service struct {
	repo  Repository
	rules *validator.Validate
}

// NewService wires a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, rules: validator.New()}
}

func (s *Service) List(ctx context.Context, filters shared.ListFilters) ([]Gerbang, int, error) {
	return s.repo.List(ctx, filters.Normalize())
}

func (s *Service) Get(ctx context.Context, id, branchID int64) (Gerbang, error) {
	if id <= 0 || branchID <= 0 {
		return Gerbang{}, shared.ErrInvalidID
	}
	return s.repo.Get(ctx, id, branchID)
}

func (s *Service) Create(ctx context.Context, g Gerbang) (Gerbang, error) {
	g = clean(g)
	if err := s.validate(g); err != nil {
		return Gerbang{}, err
	}
	return s.repo.Create(ctx, g)
}

func (s *Service) Update(ctx context.Context, id, branchID int64, g Gerbang) error {
	if id <= 0 || branchID <= 0 {
		return shared.ErrInvalidID
	}
	g = clean(g)
	if err := s.validate(g); err != nil {
		return err
	}
	return s.repo.Update(ctx, id, branchID, g)
}

func (s *Service) Delete(ctx context.Context, id, branchID int64) error {
	if id <= 0 || branchID <= 0 {
		return shared.ErrInvalidID
	}
	return s.repo.Delete(ctx, id, branchID)
}

// Upsert validates every gate before writing any of them.
func (s *Service) Upsert(ctx context.Context, gates []Gerbang) (int, error) {
	cleaned := make([]Gerbang, 0, len(gates))
	for i, g := range gates {
		g = clean(g)
		if err := s.validate(g); err != nil {
			return 0, fmt.Errorf("gerbang %d: %w", i, err)
		}
		cleaned = append(cleaned, g)
	}
	return s.repo.Upsert(ctx, cleaned)
}

func clean(g Gerbang) Gerbang {
	g.GateName = strings.TrimSpace(g.GateName)
	g.BranchName = strings.TrimSpace(g.BranchName)
	return g
}
