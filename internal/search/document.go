// Package search provides full-text search over bestseller records using an
// in-memory Bleve index.
package search

import (
	"strconv"

	"github.com/listenupapp/bestsellers/internal/domain"
	"github.com/listenupapp/bestsellers/internal/genre"
)

// Document is what gets indexed for each record.
type Document struct {
	Title    string  `json:"title"`
	Author   string  `json:"author"`
	Genre    string  `json:"genre"`
	GenreKey string  `json:"genre_key"`
	Year     float64 `json:"year"`
}

// docID converts a record id to a Bleve document id.
func docID(id int) string {
	return strconv.Itoa(id)
}

// NewDocument builds the search document for a record.
func NewDocument(r domain.BookRecord) Document {
	return Document{
		Title:    r.Title,
		Author:   r.Author,
		Genre:    r.Genre,
		GenreKey: genre.Key(r.Genre),
		Year:     float64(r.Year),
	}
}
