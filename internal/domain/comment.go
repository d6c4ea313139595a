package domain

import (
	"cmp"
	"encoding/json/jsontext"
	"slices"
	"time"
)

// CommentTimeLayout is the minute-resolution layout of Comment.Timestamp.
const CommentTimeLayout = "2006-01-02 15:04"

// Comment is a reader comment on a novel or on one of its chapters.
type Comment struct {
	ID      int `json:"id"`
	NovelID int `json:"novel_id"`
	// ChapterID is nil for comments on the novel as a whole.
	ChapterID *int   `json:"chapter_id,omitempty"`
	Username  string `json:"username"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`

	Unknown jsontext.Value `json:",unknown"`
}

// FormatCommentTime renders t in CommentTimeLayout.
func FormatCommentTime(t time.Time) string {
	return t.Format(CommentTimeLayout)
}

// IsNovelLevel reports whether the comment is not attached to a chapter.
func (c *Comment) IsNovelLevel() bool {
	return c.ChapterID == nil
}

// OnChapter reports whether the comment belongs to the given chapter.
func (c *Comment) OnChapter(chapterID int) bool {
	return c.ChapterID != nil && *c.ChapterID == chapterID
}

// SortNewestFirst orders comments by timestamp, newest first. The layout is
// zero padded, so string order is chronological. Equal timestamps keep their
// relative order.
func SortNewestFirst(comments []Comment) {
	slices.SortStableFunc(comments, func(a, b Comment) int {
		return cmp.Compare(b.Timestamp, a.Timestamp)
	})
}
