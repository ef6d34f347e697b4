// Package resource provides API Resource transformers.
//
// Define a Resource to control exactly what JSON shape your API returns:
//
//	type BookResource struct{ resource.Base }
//	func (r *BookResource) ToArray(v interface{}) resource.Map {
//	    b := v.(models.Book)
//	    return resource.Map{
//	        "title": b.Title,
//	        "genre": b.Genre,
//	        "price": b.Price,
//	    }
//	}
//
// Respond:
//
//	resource.New(&BookResource{}, book).Respond(w)
//	resource.CollectionOf(&BookResource{}, books).Respond(w)
package resource

import (
	"encoding/json"
	"net/http"
	"reflect"
)

// Map is a convenient alias for the output of ToArray.
type Map = map[string]interface{}

// Transformer defines the single method a Resource must implement.
type Transformer interface {
	// ToArray converts one model instance into a Map.
	ToArray(v interface{}) Map
}

// Base can be embedded in any Resource to satisfy future extension points.
type Base struct{}

// ------------------- Single resource -------------------

// Resource wraps a single model with its transformer.
type Resource struct {
	transformer Transformer
	data        interface{}
	meta        Map
}

// New creates a Resource for a single model instance.
func New(t Transformer, data interface{}) *Resource {
	return &Resource{transformer: t, data: data}
}

// WithMeta attaches additional metadata to the response envelope.
func (r *Resource) WithMeta(meta Map) *Resource {
	r.meta = meta
	return r
}

// ToArray applies the transformer; use this to embed a resource inside a
// larger response body.
func (r *Resource) ToArray() Map {
	return r.transformer.ToArray(r.data)
}

// MarshalJSON implements json.Marshaler so Resource can be nested.
func (r *Resource) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.transformer.ToArray(r.data))
}

// Respond writes the resource as JSON with status 200.
func (r *Resource) Respond(w http.ResponseWriter) {
	out := Map{"data": r.transformer.ToArray(r.data)}
	if r.meta != nil {
		out["meta"] = r.meta
	}
	writeJSON(w, http.StatusOK, out)
}

// ------------------- Collection resource -------------------

// Collection wraps a slice of models with a transformer.
type Collection struct {
	transformer Transformer
	items       interface{}
	meta        Map
}

// CollectionOf creates a Collection from a slice (passed as interface{}).
// items should be a []SomeModel.
func CollectionOf(t Transformer, items interface{}) *Collection {
	return &Collection{transformer: t, items: items}
}

// WithMeta attaches extra metadata.
func (c *Collection) WithMeta(meta Map) *Collection {
	c.meta = meta
	return c
}

// ToArray transforms every element of the wrapped slice.
func (c *Collection) ToArray() []Map {
	rv := reflect.ValueOf(c.items)
	if rv.Kind() != reflect.Slice {
		return nil
	}

	result := make([]Map, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		result = append(result, c.transformer.ToArray(rv.Index(i).Interface()))
	}
	return result
}

// MarshalJSON implements json.Marshaler so Collection can be nested.
func (c *Collection) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.ToArray())
}

// Respond writes the collection as JSON with status 200.
func (c *Collection) Respond(w http.ResponseWriter) {
	out := Map{"data": c.ToArray()}
	if c.meta != nil {
		out["meta"] = c.meta
	}
	writeJSON(w, http.StatusOK, out)
}

// ------------------- Helpers -------------------

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}
