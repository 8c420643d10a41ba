package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"libmanage/internal/microservices/http-api/models"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"  // dialect registration
	"gorm.io/gorm"
)

var ErrBuildingQueryFailed = errors.New("building query failed")

type BookBorrowCount struct {
	BookID      int64  `json:"book_id"`
	Title       string `json:"title"`
	BorrowCount int64  `json:"borrow_count"`
}

type CategoryBorrowCount struct {
	CategoryID  int64  `json:"category_id"`
	Name        string `json:"name"`
	BorrowCount int64  `json:"borrow_count"`
}

type ReaderBorrowCount struct {
	BorrowerID  string `json:"borrower_id"`
	BorrowCount int64  `json:"borrow_count"`
}

type LibraryTotals struct {
	TotalBooks        int64 `json:"total_books"`
	AvailableTitles   int64 `json:"available_titles"`
	TitlesOnLoan      int64 `json:"titles_on_loan"`
	TotalCategories   int64 `json:"total_categories"`
	TotalBorrowings   int64 `json:"total_borrowings"`
	ActiveBorrowings  int64 `json:"active_borrowings"`
	OverdueBorrowings int64 `json:"overdue_borrowings"`
	RecentBorrowings  int64 `json:"recent_borrowings"`
}

// CategoryStock counts the titles filed under a category and the copies of
// them currently on the shelf.
type CategoryStock struct {
	CategoryID      int64  `json:"category_id"`
	Name            string `json:"name"`
	Books           int64  `json:"books"`
	AvailableCopies int64  `json:"available_copies"`
}

type ReaderCounters struct {
	TotalBorrowings   int64 `json:"total_borrowings"`
	CurrentBorrowings int64 `json:"current_borrowings"`
	OverdueBorrowings int64 `json:"overdue_borrowings"`
}

// StatsRepository exposes read-only aggregates over the catalog and ledger.
type StatsRepository interface {
	Totals(ctx context.Context, now, recentSince time.Time) (*LibraryTotals, error)
	TopBooks(ctx context.Context, limit int) ([]BookBorrowCount, error)
	TopCategories(ctx context.Context, limit int) ([]CategoryBorrowCount, error)
	TopReaders(ctx context.Context, limit int) ([]ReaderBorrowCount, error)
	CategoryStock(ctx context.Context) ([]CategoryStock, error)
	ReaderCounters(ctx context.Context, userID string, now time.Time) (*ReaderCounters, error)
}

type statsRepository struct {
	db      *gorm.DB
	dialect goqu.DialectWrapper
}

func NewStatsRepository(db *gorm.DB) StatsRepository {
	return &statsRepository{db: db, dialect: goqu.Dialect(goquDialect(db.Dialector.Name()))}
}

func goquDialect(gormName string) string {
	switch gormName {
	case "sqlite":
		return "sqlite3"
	default:
		return gormName
	}
}

const (
	tblBooks      = "books"
	tblBorrowings = "book_borrowings"
	tblCategories = "categories"
	colBorrowCnt  = "borrow_count"
)

func (r *statsRepository) Totals(ctx context.Context, now, recentSince time.Time) (*LibraryTotals, error) {
	db := r.db.WithContext(ctx)
	t := &LibraryTotals{}

	counts := []struct {
		target *int64
		query  *gorm.DB
	}{
		{&t.TotalBooks, db.Model(&models.Book{})},
		{&t.AvailableTitles, db.Model(&models.Book{}).Where("available > 0")},
		{&t.TitlesOnLoan, db.Model(&models.Book{}).Where("available < quantity")},
		{&t.TotalCategories, db.Model(&models.Category{})},
		{&t.TotalBorrowings, db.Model(&models.BookBorrowing{})},
		{&t.ActiveBorrowings, db.Model(&models.BookBorrowing{}).Where("returned = ?", false)},
		{&t.OverdueBorrowings, db.Model(&models.BookBorrowing{}).Where("returned = ? AND due_date < ?", false, now)},
		{&t.RecentBorrowings, db.Model(&models.BookBorrowing{}).Where("borrowed_date >= ?", recentSince)},
	}
	for _, c := range counts {
		if err := c.query.Count(c.target).Error; err != nil {
			return nil, fmt.Errorf("count totals: %w", err)
		}
	}
	return t, nil
}

func (r *statsRepository) TopBooks(ctx context.Context, limit int) ([]BookBorrowCount, error) {
	ds := r.dialect.
		From(goqu.T(tblBorrowings).As("bb")).
		Join(goqu.T(tblBooks).As("b"), goqu.On(goqu.Ex{"bb.book_id": goqu.I("b.id")})).
		Select(
			goqu.I("b.id").As("book_id"),
			goqu.I("b.title").As("title"),
			goqu.COUNT(goqu.I("bb.id")).As(colBorrowCnt),
		).
		GroupBy(goqu.I("b.id"), goqu.I("b.title")).
		Order(goqu.C(colBorrowCnt).Desc(), goqu.I("b.id").Asc()).
		Limit(uint(clampLimit(limit)))

	var rows []BookBorrowCount
	if err := r.scan(ctx, ds, &rows); err != nil {
		return nil, fmt.Errorf("top books: %w", err)
	}
	return rows, nil
}

func (r *statsRepository) TopCategories(ctx context.Context, limit int) ([]CategoryBorrowCount, error) {
	ds := r.dialect.
		From(goqu.T(tblBorrowings).As("bb")).
		Join(goqu.T(tblBooks).As("b"), goqu.On(goqu.Ex{"bb.book_id": goqu.I("b.id")})).
		Join(goqu.T(tblCategories).As("c"), goqu.On(goqu.Ex{"b.category_id": goqu.I("c.id")})).
		Select(
			goqu.I("c.id").As("category_id"),
			goqu.I("c.name").As("name"),
			goqu.COUNT(goqu.I("bb.id")).As(colBorrowCnt),
		).
		GroupBy(goqu.I("c.id"), goqu.I("c.name")).
		Order(goqu.C(colBorrowCnt).Desc(), goqu.I("c.id").Asc()).
		Limit(uint(clampLimit(limit)))

	var rows []CategoryBorrowCount
	if err := r.scan(ctx, ds, &rows); err != nil {
		return nil, fmt.Errorf("top categories: %w", err)
	}
	return rows, nil
}

func (r *statsRepository) TopReaders(ctx context.Context, limit int) ([]ReaderBorrowCount, error) {
	ds := r.dialect.
		From(goqu.T(tblBorrowings)).
		Select(
			goqu.C("borrower_id"),
			goqu.COUNT(goqu.C("id")).As(colBorrowCnt),
		).
		GroupBy(goqu.C("borrower_id")).
		Order(goqu.C(colBorrowCnt).Desc(), goqu.C("borrower_id").Asc()).
		Limit(uint(clampLimit(limit)))

	var rows []ReaderBorrowCount
	if err := r.scan(ctx, ds, &rows); err != nil {
		return nil, fmt.Errorf("top readers: %w", err)
	}
	return rows, nil
}

func (r *statsRepository) CategoryStock(ctx context.Context) ([]CategoryStock, error) {
	ds := r.dialect.
		From(goqu.T(tblCategories).As("c")).
		LeftJoin(goqu.T(tblBooks).As("b"), goqu.On(goqu.Ex{"b.category_id": goqu.I("c.id")})).
		Select(
			goqu.I("c.id").As("category_id"),
			goqu.I("c.name").As("name"),
			goqu.COUNT(goqu.I("b.id")).As("books"),
			goqu.COALESCE(goqu.SUM(goqu.I("b.available")), 0).As("available_copies"),
		).
		GroupBy(goqu.I("c.id"), goqu.I("c.name")).
		Order(goqu.I("c.name").Asc(), goqu.I("c.id").Asc())

	var rows []CategoryStock
	if err := r.scan(ctx, ds, &rows); err != nil {
		return nil, fmt.Errorf("category stock: %w", err)
	}
	return rows, nil
}

func (r *statsRepository) ReaderCounters(ctx context.Context, userID string, now time.Time) (*ReaderCounters, error) {
	mine := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&models.BookBorrowing{}).Where("borrower_id = ?", userID)
	}
	rc := &ReaderCounters{}

	counts := []struct {
		target *int64
		query  *gorm.DB
	}{
		{&rc.TotalBorrowings, mine()},
		{&rc.CurrentBorrowings, mine().Where("returned = ?", false)},
		{&rc.OverdueBorrowings, mine().Where("returned = ? AND due_date < ?", false, now)},
	}
	for _, c := range counts {
		if err := c.query.Count(c.target).Error; err != nil {
			return nil, fmt.Errorf("count reader borrowings: %w", err)
		}
	}
	return rc, nil
}

func (r *statsRepository) scan(ctx context.Context, ds *goqu.SelectDataset, dest any) error {
	query, _, err := ds.ToSQL()
	if err != nil {
		return errors.Join(ErrBuildingQueryFailed, err)
	}
	return r.db.WithContext(ctx).Raw(query).Scan(dest).Error
}

func clampLimit(limit int) int {
	if limit < 1 {
		return 5
	}
	if limit > 100 {
		return 100
	}
	return limit
}
