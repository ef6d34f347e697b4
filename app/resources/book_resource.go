// Package resources defines the JSON shapes the API returns for each model.
package resources

import (
	"github.com/yasithJay/online-bookstore-final-assessment/app/models"
	"github.com/yasithJay/online-bookstore-final-assessment/pkg/resource"
)

// BookResource renders a catalogue entry.
type BookResource struct{ resource.Base }

func (r *BookResource) ToArray(v interface{}) resource.Map {
	b := v.(models.Book)
	return resource.Map{
		"title": b.Title,
		"genre": b.Genre,
		"price": b.Price,
		"image": b.Image,
	}
}
