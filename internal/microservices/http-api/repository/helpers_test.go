package repository

import (
	"context"
	"fmt"
	"testing"

	"libmanage/internal/microservices/http-api/models"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const (
	alice = "11111111-1111-4111-8111-111111111111"
	bob   = "22222222-2222-4222-8222-222222222222"
)

var isbnSeq int

func seedBook(t *testing.T, db *gorm.DB, title string, quantity, available int) *models.Book {
	t.Helper()
	isbnSeq++
	b := &models.Book{
		Title:     title,
		Author:    "Author of " + title,
		ISBN:      fmt.Sprintf("978%010d", isbnSeq),
		Quantity:  quantity,
		Available: available,
	}
	require.NoError(t, NewBookRepository(db).Create(context.Background(), b))
	return b
}

func reloadBook(t *testing.T, db *gorm.DB, id int64) models.Book {
	t.Helper()
	var b models.Book
	require.NoError(t, db.First(&b, id).Error)
	return b
}
