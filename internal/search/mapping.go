package search

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/lang/cjk"
	"github.com/blevesearch/bleve/v2/mapping"
)

// buildIndexMapping creates the Bleve index mapping for novel documents.
//
// Text fields use the CJK analyzer: Chinese runs are split into overlapping
// bigrams and Latin words are lowercased, so both 苍穹 and "sky" match.
// Genre and status are keyword fields used as exact filters and facets.
func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = cjk.AnalyzerName

	docMapping := bleve.NewDocumentMapping()

	// --- Text fields ---

	titleFieldMapping := bleve.NewTextFieldMapping()
	titleFieldMapping.Analyzer = cjk.AnalyzerName
	titleFieldMapping.Store = true
	titleFieldMapping.IncludeTermVectors = true // For highlighting
	docMapping.AddFieldMappingsAt("title", titleFieldMapping)

	authorFieldMapping := bleve.NewTextFieldMapping()
	authorFieldMapping.Analyzer = cjk.AnalyzerName
	authorFieldMapping.Store = true
	authorFieldMapping.IncludeTermVectors = true
	docMapping.AddFieldMappingsAt("author", authorFieldMapping)

	// Intro is searchable but not stored
	introFieldMapping := bleve.NewTextFieldMapping()
	introFieldMapping.Analyzer = cjk.AnalyzerName
	introFieldMapping.Store = false
	docMapping.AddFieldMappingsAt("intro", introFieldMapping)

	chapterFieldMapping := bleve.NewTextFieldMapping()
	chapterFieldMapping.Analyzer = cjk.AnalyzerName
	chapterFieldMapping.Store = false
	docMapping.AddFieldMappingsAt("chapter_titles", chapterFieldMapping)

	// --- Keyword fields (exact match, facetable) ---

	idFieldMapping := bleve.NewTextFieldMapping()
	idFieldMapping.Analyzer = keyword.Name
	docMapping.AddFieldMappingsAt("id", idFieldMapping)

	genreFieldMapping := bleve.NewTextFieldMapping()
	genreFieldMapping.Analyzer = keyword.Name
	genreFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("genre", genreFieldMapping)

	genreSlugFieldMapping := bleve.NewTextFieldMapping()
	genreSlugFieldMapping.Analyzer = keyword.Name
	genreSlugFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("genre_slug", genreSlugFieldMapping)

	statusFieldMapping := bleve.NewTextFieldMapping()
	statusFieldMapping.Analyzer = keyword.Name
	statusFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("status", statusFieldMapping)

	updateFieldMapping := bleve.NewTextFieldMapping()
	updateFieldMapping.Analyzer = keyword.Name
	updateFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("update_time", updateFieldMapping)

	// --- Numeric fields (sorting) ---

	for _, field := range []string{"novel_id", "views", "votes", "favorites"} {
		numericFieldMapping := bleve.NewNumericFieldMapping()
		numericFieldMapping.Store = true
		docMapping.AddFieldMappingsAt(field, numericFieldMapping)
	}

	indexMapping.AddDocumentMapping("_default", docMapping)

	return indexMapping
}
