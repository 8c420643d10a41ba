package repository

import (
	"context"
	"testing"
	"time"

	"libmanage/database/dbtest"
	"libmanage/internal/microservices/http-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestBookRepository_Search(t *testing.T) {
	db := dbtest.New(t)
	repo := NewBookRepository(db)
	ctx := context.Background()

	fiction := &models.Category{Name: "Fiction"}
	require.NoError(t, NewCategoryRepository(db).Create(ctx, fiction))

	dune := seedBook(t, db, "Dune", 2, 0)
	dune.CategoryID = &fiction.ID
	require.NoError(t, repo.Update(ctx, dune))
	seedBook(t, db, "Emma", 1, 1)
	seedBook(t, db, "Dubliners", 3, 3)

	tests := []struct {
		name   string
		filter BookFilter
		want   []string
	}{
		{"all", BookFilter{}, []string{"Dubliners", "Dune", "Emma"}},
		{"case insensitive title", BookFilter{Query: "DU"}, []string{"Dubliners", "Dune"}},
		{"author", BookFilter{Query: "author of emma"}, []string{"Emma"}},
		{"category", BookFilter{CategoryID: &fiction.ID}, []string{"Dune"}},
		{"available only", BookFilter{AvailableOnly: true}, []string{"Dubliners", "Emma"}},
		{"query and available", BookFilter{Query: "du", AvailableOnly: true}, []string{"Dubliners"}},
		{"paged", BookFilter{Page: 2, PageSize: 2}, []string{"Emma"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, total, err := repo.Search(ctx, tt.filter)
			require.NoError(t, err)

			var titles []string
			for _, b := range list {
				titles = append(titles, b.Title)
			}
			assert.Equal(t, tt.want, titles)
			if tt.filter.Page == 0 {
				assert.Equal(t, int64(len(tt.want)), total)
			} else {
				assert.Equal(t, int64(3), total)
			}
		})
	}
}

func TestBookRepository_SearchTreatsWildcardsLiterally(t *testing.T) {
	db := dbtest.New(t)
	repo := NewBookRepository(db)
	ctx := context.Background()

	seedBook(t, db, "100% Cotton", 1, 1)
	seedBook(t, db, "1000 Cotton Tales", 1, 1)
	seedBook(t, db, "A_B", 1, 1)
	seedBook(t, db, "AXB", 1, 1)
	seedBook(t, db, `C:\Temp`, 1, 1)

	tests := []struct {
		query string
		want  []string
	}{
		{"100%", []string{"100% Cotton"}},
		{"a_b", []string{"A_B"}},
		{`c:\t`, []string{`C:\Temp`}},
		{"cotton", []string{"100% Cotton", "1000 Cotton Tales"}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			list, total, err := repo.Search(ctx, BookFilter{Query: tt.query})
			require.NoError(t, err)

			var titles []string
			for _, b := range list {
				titles = append(titles, b.Title)
			}
			assert.Equal(t, tt.want, titles)
			assert.Equal(t, int64(len(tt.want)), total)
		})
	}
}

func TestBookRepository_UpdateShiftsAvailable(t *testing.T) {
	db := dbtest.New(t)
	repo := NewBookRepository(db)
	ctx := context.Background()

	book := seedBook(t, db, "Nostromo", 3, 1) // two on loan

	book.Quantity = 5
	require.NoError(t, repo.Update(ctx, book))
	assert.Equal(t, 3, book.Available)

	book.Quantity = 2
	require.NoError(t, repo.Update(ctx, book))
	assert.Equal(t, 0, book.Available)

	book.Quantity = 1
	assert.ErrorIs(t, repo.Update(ctx, book), ErrQuantityBelowOnLoan)
	assert.Equal(t, 2, reloadBook(t, db, book.ID).Quantity)

	missing := &models.Book{ID: 999, Title: "x", Quantity: 1}
	assert.ErrorIs(t, repo.Update(ctx, missing), gorm.ErrRecordNotFound)
}

func TestBookRepository_DeleteCascades(t *testing.T) {
	db := dbtest.New(t)
	books := NewBookRepository(db)
	lending := NewLendingRepository(db)
	comments := NewCommentRepository(db)
	notifications := NewNotificationRepository(db)
	ctx := context.Background()
	now := time.Now().UTC()

	book := seedBook(t, db, "Orlando", 2, 2)
	keep := seedBook(t, db, "Rebecca", 1, 1)

	_, err := lending.Borrow(ctx, alice, book.ID, now, now.Add(time.Hour))
	require.NoError(t, err)
	_, err = lending.Return(ctx, alice, book.ID, now)
	require.NoError(t, err)
	_, err = lending.Borrow(ctx, bob, keep.ID, now, now.Add(time.Hour))
	require.NoError(t, err)
	require.NoError(t, comments.CreateComment(ctx, &models.BookComment{BookID: book.ID, CommenterID: alice, Comment: "good", CommentDate: now}))
	require.NoError(t, comments.CreateRecommendation(ctx, &models.BookRecommendation{BookID: book.ID, RecommenderID: alice, Reason: "classic", RecommendationDate: now}))
	n := &models.Notification{RecipientID: alice, Type: models.NotificationReturn, Title: "t", Message: "m", RelatedBookID: &book.ID}
	require.NoError(t, notifications.Create(ctx, n))

	require.NoError(t, books.Delete(ctx, book.ID))

	_, err = books.GetByID(ctx, book.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	for _, m := range []any{&models.BookBorrowing{}, &models.BookReturn{}, &models.BookComment{}, &models.BookRecommendation{}} {
		var count int64
		require.NoError(t, db.Model(m).Where("book_id = ?", book.ID).Count(&count).Error)
		assert.Zero(t, count, "%T rows left behind", m)
	}

	var kept int64
	require.NoError(t, db.Model(&models.BookBorrowing{}).Where("book_id = ?", keep.ID).Count(&kept).Error)
	assert.Equal(t, int64(1), kept)

	var survived models.Notification
	require.NoError(t, db.First(&survived, n.ID).Error)
	assert.Nil(t, survived.RelatedBookID)

	assert.ErrorIs(t, books.Delete(ctx, book.ID), gorm.ErrRecordNotFound)
}

func TestBookRepository_DuplicateISBN(t *testing.T) {
	db := dbtest.New(t)
	repo := NewBookRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.Book{Title: "A", ISBN: "9780000000001", Quantity: 1, Available: 1}))
	assert.ErrorIs(t, repo.Create(ctx, &models.Book{Title: "B", ISBN: "9780000000001", Quantity: 1, Available: 1}), gorm.ErrDuplicatedKey)
}
