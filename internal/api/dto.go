package api

import (
	"time"

	"github.com/inovelapp/inovel-server/internal/domain"
	"github.com/inovelapp/inovel-server/internal/service"
)

const timeLayout = time.RFC3339

// NovelSummary is a novel without chapter bodies, used in every listing.
type NovelSummary struct {
	ID           int    `json:"id"`
	Title        string `json:"title"`
	Author       string `json:"author"`
	Genre        string `json:"genre"`
	Status       string `json:"status" doc:"ongoing or completed"`
	StatusLabel  string `json:"status_label" doc:"Display label of the status"`
	Views        int    `json:"views"`
	Favorites    int    `json:"favorites"`
	Votes        int    `json:"votes"`
	UpdateTime   string `json:"update_time"`
	Intro        string `json:"intro,omitempty"`
	ChapterCount int    `json:"chapter_count"`
}

// ChapterRef is a chapter in a table of contents.
type ChapterRef struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

// NovelResponse is a novel with its table of contents.
type NovelResponse struct {
	NovelSummary
	Chapters []ChapterRef `json:"chapters"`
}

func toNovelSummary(n *domain.Novel) NovelSummary {
	return NovelSummary{
		ID:           n.ID,
		Title:        n.Title,
		Author:       n.Author,
		Genre:        n.Genre,
		Status:       string(n.Status),
		StatusLabel:  n.Status.Label(),
		Views:        n.Views,
		Favorites:    n.Favorites,
		Votes:        n.Votes,
		UpdateTime:   n.UpdateTime,
		Intro:        n.Intro,
		ChapterCount: len(n.Chapters),
	}
}

func toNovelSummaries(novels []domain.Novel) []NovelSummary {
	out := make([]NovelSummary, 0, len(novels))
	for i := range novels {
		out = append(out, toNovelSummary(&novels[i]))
	}
	return out
}

func toNovelResponse(n *domain.Novel) NovelResponse {
	chapters := make([]ChapterRef, 0, len(n.Chapters))
	for _, c := range n.Chapters {
		chapters = append(chapters, ChapterRef{ID: c.ID, Title: c.Title})
	}
	return NovelResponse{NovelSummary: toNovelSummary(n), Chapters: chapters}
}

// ChapterContentResponse is a chapter body rendered in the requested format.
type ChapterContentResponse struct {
	ID      int    `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

func toChapterContent(c *domain.Chapter) ChapterContentResponse {
	return ChapterContentResponse{ID: c.ID, Title: c.Title, Content: c.Content}
}

// CommentResponse is a reader comment.
type CommentResponse struct {
	ID        int    `json:"id"`
	NovelID   int    `json:"novel_id"`
	ChapterID *int   `json:"chapter_id,omitempty" doc:"Omitted for a comment on the novel"`
	Username  string `json:"username"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp" doc:"YYYY-MM-DD HH:MM"`
}

func toCommentResponse(c *domain.Comment) CommentResponse {
	return CommentResponse{
		ID:        c.ID,
		NovelID:   c.NovelID,
		ChapterID: c.ChapterID,
		Username:  c.Username,
		Content:   c.Content,
		Timestamp: c.Timestamp,
	}
}

// toCommentResponses never returns nil, so empty lists encode as [].
func toCommentResponses(comments []domain.Comment) []CommentResponse {
	out := make([]CommentResponse, 0, len(comments))
	for i := range comments {
		out = append(out, toCommentResponse(&comments[i]))
	}
	return out
}

// ProfileCommentResponse is one of the reader's comments with the title of
// the novel it is on.
type ProfileCommentResponse struct {
	CommentResponse
	NovelTitle string `json:"novel_title"`
}

// ProfileResponse is the reader's own page.
type ProfileResponse struct {
	User           service.UserSummary      `json:"user"`
	FavoriteNovels []NovelSummary           `json:"favorite_novels"`
	RecentNovels   []NovelSummary           `json:"recent_novels"`
	Comments       []ProfileCommentResponse `json:"comments"`
}

func toProfileResponse(p *service.Profile) ProfileResponse {
	comments := make([]ProfileCommentResponse, 0, len(p.Comments))
	for _, c := range p.Comments {
		comments = append(comments, ProfileCommentResponse{CommentResponse: toCommentResponse(&c.Comment), NovelTitle: c.NovelTitle})
	}
	return ProfileResponse{
		User:           p.User,
		FavoriteNovels: toNovelSummaries(p.FavoriteNovels),
		RecentNovels:   toNovelSummaries(p.RecentNovels),
		Comments:       comments,
	}
}
