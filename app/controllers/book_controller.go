package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yasithJay/online-bookstore-final-assessment/app/repositories"
	"github.com/yasithJay/online-bookstore-final-assessment/app/resources"
	"github.com/yasithJay/online-bookstore-final-assessment/pkg/resource"
)

// BookController serves the catalogue.
type BookController struct {
	books *repositories.BookRepository
}

func NewBookController(books *repositories.BookRepository) *BookController {
	return &BookController{books: books}
}

// List returns every book in the catalogue.
func (c *BookController) List(w http.ResponseWriter, r *http.Request) {
	resource.CollectionOf(&resources.BookResource{}, c.books.All()).Respond(w)
}

// Show returns one book by its exact title.
func (c *BookController) Show(w http.ResponseWriter, r *http.Request) {
	title := chi.URLParam(r, "title")
	book, err := c.books.Find(title)
	if err != nil {
		renderError(w, r, err)
		return
	}
	resource.New(&resources.BookResource{}, book).Respond(w)
}
