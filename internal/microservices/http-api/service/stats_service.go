package service

import (
	"context"
	"time"

	"libmanage/internal/microservices/http-api/repository"
)

const (
	recentPeriod = 30 * 24 * time.Hour
	topN         = 5
)

// LibraryStatus is the dashboard snapshot of the catalog and ledger.
type LibraryStatus struct {
	repository.LibraryTotals
	TopBooks      []repository.BookBorrowCount     `json:"top_books"`
	TopCategories []repository.CategoryBorrowCount `json:"top_categories"`
	TopReaders    []repository.ReaderBorrowCount   `json:"top_readers"`
	Categories    []repository.CategoryStock       `json:"categories"`
	GeneratedAt   time.Time                        `json:"generated_at"`
}

type StatsService interface {
	Status(ctx context.Context) (*LibraryStatus, error)
	// ReaderSummary counts one reader's borrowings as of now.
	ReaderSummary(ctx context.Context, userID string) (*repository.ReaderCounters, error)
}

type statsService struct {
	repo repository.StatsRepository
	now  Clock
}

func NewStatsService(repo repository.StatsRepository, clock Clock) StatsService {
	if clock == nil {
		clock = func() time.Time { return time.Now().UTC() }
	}
	return &statsService{repo: repo, now: clock}
}

func (s *statsService) Status(ctx context.Context) (*LibraryStatus, error) {
	now := s.now()

	totals, err := s.repo.Totals(ctx, now, now.Add(-recentPeriod))
	if err != nil {
		return nil, err
	}
	books, err := s.repo.TopBooks(ctx, topN)
	if err != nil {
		return nil, err
	}
	categories, err := s.repo.TopCategories(ctx, topN)
	if err != nil {
		return nil, err
	}
	readers, err := s.repo.TopReaders(ctx, topN)
	if err != nil {
		return nil, err
	}
	stock, err := s.repo.CategoryStock(ctx)
	if err != nil {
		return nil, err
	}

	return &LibraryStatus{
		LibraryTotals: *totals,
		TopBooks:      books,
		TopCategories: categories,
		TopReaders:    readers,
		Categories:    stock,
		GeneratedAt:   now,
	}, nil
}

func (s *statsService) ReaderSummary(ctx context.Context, userID string) (*repository.ReaderCounters, error) {
	return s.repo.ReaderCounters(ctx, userID, s.now())
}
