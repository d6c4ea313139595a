package domain

import "encoding/json/jsontext"

// Status is a novel's publication state.
type Status string

const (
	StatusOngoing   Status = "ongoing"
	StatusCompleted Status = "completed"
)

// StatusAll is the category filter value that disables status filtering.
const StatusAll = "all"

// IsAllStatuses reports whether a status filter selects every novel: empty,
// StatusAll or its legacy label 全部.
func IsAllStatuses(raw string) bool {
	return raw == "" || raw == StatusAll || raw == "全部"
}

// legacyStatuses maps the labels found in older catalog files.
var legacyStatuses = map[string]Status{
	"连载": StatusOngoing,
	"完本": StatusCompleted,
}

// ParseStatus resolves a canonical value or a legacy label. Unknown values
// are kept verbatim.
func ParseStatus(raw string) Status {
	if canonical, ok := legacyStatuses[raw]; ok {
		return canonical
	}
	return Status(raw)
}

// UnmarshalText accepts both the canonical values and the legacy labels.
func (s *Status) UnmarshalText(text []byte) error {
	*s = ParseStatus(string(text))
	return nil
}

// Label returns the display label for the status.
func (s Status) Label() string {
	for label, status := range legacyStatuses {
		if status == s {
			return label
		}
	}
	return string(s)
}

// Chapter is one readable unit of a novel. Content is stored as HTML.
type Chapter struct {
	ID      int    `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
	// Unknown holds members this version does not model, written back as is.
	Unknown jsontext.Value `json:",unknown"`
}

// Novel is a catalog entry. IDs are unique across the catalog and chapter IDs
// are unique within their novel.
type Novel struct {
	ID         int       `json:"id"`
	Title      string    `json:"title"`
	Author     string    `json:"author"`
	Genre      string    `json:"genre"`
	Status     Status    `json:"status"`
	Views      int       `json:"views"`
	Favorites  int       `json:"favorites"`
	Votes      int       `json:"votes,omitzero"`
	UpdateTime string    `json:"updateTime"`
	Intro      string    `json:"intro,omitempty"`
	Chapters   []Chapter `json:"chapters"`

	Unknown jsontext.Value `json:",unknown"`
}

// Chapter returns the chapter with the given id.
func (n *Novel) Chapter(chapterID int) (*Chapter, bool) {
	for i := range n.Chapters {
		if n.Chapters[i].ID == chapterID {
			return &n.Chapters[i], true
		}
	}
	return nil, false
}

// Neighbors returns the ids of the chapters before and after chapterID in
// reading order. Either is nil at the ends of the novel.
func (n *Novel) Neighbors(chapterID int) (prev, next *int) {
	for i, ch := range n.Chapters {
		if ch.ID != chapterID {
			continue
		}
		if i > 0 {
			prev = &n.Chapters[i-1].ID
		}
		if i+1 < len(n.Chapters) {
			next = &n.Chapters[i+1].ID
		}
		return prev, next
	}
	return nil, nil
}

// IsCompleted reports whether the novel has finished publishing.
func (n *Novel) IsCompleted() bool {
	return n.Status == StatusCompleted
}
