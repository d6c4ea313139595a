// Package search provides full-text search over the novel catalog using Bleve.
// It complements the exact substring search of the catalog with relevance
// ranking, CJK bigram matching, fuzzy matching and genre/status filters.
package search

import (
	"strconv"
	"strings"

	"github.com/inovelapp/inovel-server/internal/domain"
)

const docIDPrefix = "novel-"

// NovelDocument is the indexed shape of a novel.
//
// Chapter bodies are not indexed; the intro and the chapter titles are enough
// to find a book and keep the index small.
type NovelDocument struct {
	ID            string `json:"id"`
	NovelID       int    `json:"novel_id"`
	Title         string `json:"title"`
	Author        string `json:"author"`
	Intro         string `json:"intro,omitempty"`
	ChapterTitles string `json:"chapter_titles,omitempty"`
	Genre         string `json:"genre"`
	GenreSlug     string `json:"genre_slug,omitempty"`
	Status        string `json:"status"`
	Views         int    `json:"views"`
	Votes         int    `json:"votes"`
	Favorites     int    `json:"favorites"`
	UpdateTime    string `json:"update_time,omitempty"`
}

// DocID returns the index id of a novel.
func DocID(novelID int) string {
	return docIDPrefix + strconv.Itoa(novelID)
}

// ParseDocID is the inverse of DocID.
func ParseDocID(docID string) (int, bool) {
	raw, ok := strings.CutPrefix(docID, docIDPrefix)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}

// NovelToDocument converts a domain novel to its index document.
func NovelToDocument(n *domain.Novel) *NovelDocument {
	doc := &NovelDocument{
		ID:         DocID(n.ID),
		NovelID:    n.ID,
		Title:      n.Title,
		Author:     n.Author,
		Intro:      n.Intro,
		Genre:      n.Genre,
		Status:     string(n.Status),
		Views:      n.Views,
		Votes:      n.Votes,
		Favorites:  n.Favorites,
		UpdateTime: n.UpdateTime,
	}
	if g, ok := domain.LookupGenre(n.Genre); ok {
		doc.GenreSlug = g.Slug
	}

	titles := make([]string, 0, len(n.Chapters))
	for _, ch := range n.Chapters {
		titles = append(titles, ch.Title)
	}
	doc.ChapterTitles = strings.Join(titles, "\n")

	return doc
}

// ToMap converts the document to a map keyed by the mapped field names.
// Bleve would otherwise index exported Go field names.
func (d *NovelDocument) ToMap() map[string]any {
	m := map[string]any{
		"id":        d.ID,
		"novel_id":  d.NovelID,
		"title":     d.Title,
		"author":    d.Author,
		"genre":     d.Genre,
		"status":    d.Status,
		"views":     d.Views,
		"votes":     d.Votes,
		"favorites": d.Favorites,
	}

	if d.Intro != "" {
		m["intro"] = d.Intro
	}
	if d.ChapterTitles != "" {
		m["chapter_titles"] = d.ChapterTitles
	}
	if d.GenreSlug != "" {
		m["genre_slug"] = d.GenreSlug
	}
	if d.UpdateTime != "" {
		m["update_time"] = d.UpdateTime
	}

	return m
}
