package repositories

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/yasithJay/online-bookstore-final-assessment/app/models"
	"github.com/yasithJay/online-bookstore-final-assessment/pkg/collection"
)

// ErrNotFound is returned by repositories when a lookup matches nothing.
var ErrNotFound = errors.New("record not found")

// DefaultCatalog returns the store's fixed stock list.
func DefaultCatalog() []models.Book {
	return []models.Book{
		{Title: "The Great Gatsby", Genre: "Fiction", Price: decimal.NewFromFloat(10.99), Image: "/images/books/the_great_gatsby.jpg"},
		{Title: "1984", Genre: "Dystopia", Price: decimal.NewFromFloat(8.99), Image: "/images/books/1984.jpg"},
		{Title: "I Ching", Genre: "Traditional", Price: decimal.NewFromFloat(18.99), Image: "/images/books/I-Ching.jpg"},
		{Title: "Moby Dick", Genre: "Adventure", Price: decimal.NewFromFloat(12.49), Image: "/images/books/moby_dick.jpg"},
	}
}

// BookRepository serves the catalogue from memory. The stock list is fixed
// at construction, so reads need no locking.
type BookRepository struct {
	books []models.Book
	index map[string]models.Book
}

// NewBookRepository builds a repository over the given catalogue.
func NewBookRepository(books []models.Book) *BookRepository {
	return &BookRepository{
		books: books,
		index: collection.KeyBy(books, func(b models.Book) string { return b.Title }),
	}
}

// All returns the catalogue in its display order.
func (r *BookRepository) All() []models.Book {
	out := make([]models.Book, len(r.books))
	copy(out, r.books)
	return out
}

// Find looks up a book by its exact title.
func (r *BookRepository) Find(title string) (models.Book, error) {
	book, ok := r.index[title]
	if !ok {
		return models.Book{}, ErrNotFound
	}
	return book, nil
}
