package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	books := DefaultCatalog()
	require.Len(t, books, 4)

	titles := make([]string, len(books))
	for i, b := range books {
		titles[i] = b.Title
	}
	assert.Equal(t, []string{"The Great Gatsby", "1984", "I Ching", "Moby Dick"}, titles)
}

func TestFindByExactTitle(t *testing.T) {
	repo := NewBookRepository(DefaultCatalog())

	book, err := repo.Find("I Ching")
	require.NoError(t, err)
	assert.Equal(t, "Traditional", book.Genre)
	assert.Equal(t, "18.99", book.Price.StringFixed(2))
}

func TestFindUnknownTitle(t *testing.T) {
	repo := NewBookRepository(DefaultCatalog())

	_, err := repo.Find("the great gatsby") // lookup is case-sensitive
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.Find("Ulysses")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAllReturnsCopy(t *testing.T) {
	repo := NewBookRepository(DefaultCatalog())

	books := repo.All()
	books[0].Title = "mutated"

	again := repo.All()
	assert.Equal(t, "The Great Gatsby", again[0].Title)
}
