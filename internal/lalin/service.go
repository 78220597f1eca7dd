package lalin

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

//go:generate mockgen -source=service.go -destination=lalin_mocks/source_mock.go -package=lalin_mocks

const (
	// DefaultPageLimit mirrors the upstream default page size.
	DefaultPageLimit   = 100
	defaultConcurrency = 4
	defaultLoadTimeout = 30 * time.Second
	maxDayPages        = 500
)

// ErrTooManyPages is returned when a day spans more pages than Day will fetch.
var ErrTooManyPages = errors.New("lalin: too many pages for a single day")

// Query selects one upstream page of records.
type Query struct {
	Date  string `json:"date"`
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
}

// Page is one upstream page of records in server order.
type Page struct {
	Records     []TransactionRecord `json:"records"`
	TotalPages  int                 `json:"total_pages"`
	CurrentPage int                 `json:"current_page"`
	Count       int                 `json:"count"`
}

// Source fetches raw records from the traffic API.
type Source interface {
	ListLalin(ctx context.Context, token string, q Query) (Page, error)
}

// ReportResult is an aggregated page plus its paging metadata.
type ReportResult struct {
	Query       Query  `json:"query"`
	Report      Report `json:"report"`
	TotalPages  int    `json:"total_pages"`
	CurrentPage int    `json:"current_page"`
	Count       int    `json:"count"`
}

// ServiceOptions tunes paging and fan-out. LoadTimeout bounds one shared
// upstream page load.
type ServiceOptions struct {
	PageLimit   int
	Concurrency int
	LoadTimeout time.Duration
}

// Service loads records through the cache and derives reports from them.
type Service struct {
	source      Source
	cache       *Cache
	group       singleflight.Group
	pageLimit   int
	concurrency int
	loadTimeout time.Duration
}

// NewService wires a Source with a Cache.
func NewService(source Source, cache *Cache, opts ServiceOptions) *Service {
	if opts.PageLimit <= 0 {
		opts.PageLimit = DefaultPageLimit
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = defaultConcurrency
	}
	if opts.LoadTimeout <= 0 {
		opts.LoadTimeout = defaultLoadTimeout
	}
	return &Service{
		source:      source,
		cache:       cache,
		pageLimit:   opts.PageLimit,
		concurrency: opts.Concurrency,
		loadTimeout: opts.LoadTimeout,
	}
}

// Page returns one page of records, served from cache when possible.
func (s *Service) Page(ctx context.Context, token string, q Query) (Page, error) {
	if s.source == nil {
		return Page{}, errors.New("lalin: source not configured")
	}
	q = s.normalize(q)
	if _, err := ParseDate(q.Date); err != nil {
		return Page{}, err
	}
	key, err := s.cache.BuildKey(ctx, "lalin", "page", q.Date, strconv.Itoa(q.Page), strconv.Itoa(q.Limit))
	if err != nil {
		return Page{}, fmt.Errorf("lalin: build cache key: %w", err)
	}
	return s.loadShared(ctx, key, func(ctx context.Context) (Page, error) {
		var page Page
		err := s.cache.FetchJSON(ctx, key, &page, func(ctx context.Context) (any, error) {
			return s.source.ListLalin(ctx, token, q)
		})
		return page, err
	})
}

// loadShared merges concurrent loads of one key. The load runs detached from
// any single caller so one caller cancelling does not fail the others; each
// caller still stops waiting when its own context ends.
func (s *Service) loadShared(ctx context.Context, key string, load func(context.Context) (Page, error)) (Page, error) {
	ch := s.group.DoChan(key, func() (any, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.loadTimeout)
		defer cancel()
		return load(loadCtx)
	})
	select {
	case <-ctx.Done():
		return Page{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return Page{}, res.Err
		}
		return res.Val.(Page), nil
	}
}

// Report aggregates one page under the given mode.
func (s *Service) Report(ctx context.Context, token string, q Query, mode PaymentMode) (ReportResult, error) {
	if !mode.Valid() {
		return ReportResult{}, fmt.Errorf("lalin: invalid payment mode %d", int(mode))
	}
	q = s.normalize(q)
	page, err := s.Page(ctx, token, q)
	if err != nil {
		return ReportResult{}, err
	}
	return ReportResult{
		Query:       q,
		Report:      Aggregate(page.Records, mode),
		TotalPages:  page.TotalPages,
		CurrentPage: page.CurrentPage,
		Count:       page.Count,
	}, nil
}

// Day returns every record of a date. Pages after the first are fetched
// concurrently and concatenated in page order.
func (s *Service) Day(ctx context.Context, token, date string) ([]TransactionRecord, error) {
	first, err := s.Page(ctx, token, Query{Date: date, Page: 1, Limit: s.pageLimit})
	if err != nil {
		return nil, err
	}
	if first.TotalPages <= 1 {
		return first.Records, nil
	}
	if first.TotalPages > maxDayPages {
		return nil, fmt.Errorf("%w: %d", ErrTooManyPages, first.TotalPages)
	}

	rest := make([][]TransactionRecord, first.TotalPages-1)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i := range rest {
		pageNo := i + 2
		g.Go(func() error {
			page, err := s.Page(gctx, token, Query{Date: date, Page: pageNo, Limit: s.pageLimit})
			if err != nil {
				return fmt.Errorf("lalin: page %d: %w", pageNo, err)
			}
			rest[i] = page.Records
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Pages may be shared with concurrent callers; build a fresh slice.
	total := len(first.Records)
	for _, chunk := range rest {
		total += len(chunk)
	}
	records := make([]TransactionRecord, 0, total)
	records = append(records, first.Records...)
	for _, chunk := range rest {
		records = append(records, chunk...)
	}
	return records, nil
}

// Dashboard computes the chart breakdowns for a whole day.
func (s *Service) Dashboard(ctx context.Context, token, date string) (Dashboard, error) {
	records, err := s.Day(ctx, token, date)
	if err != nil {
		return Dashboard{}, err
	}
	return BuildDashboard(date, records), nil
}

// Invalidate drops every cached page.
func (s *Service) Invalidate(ctx context.Context) error {
	return s.cache.Bump(ctx)
}

func (s *Service) normalize(q Query) Query {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit <= 0 {
		q.Limit = s.pageLimit
	}
	return q
}
