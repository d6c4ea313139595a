package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/inovelapp/inovel-server/internal/content"
	domainerrors "github.com/inovelapp/inovel-server/internal/errors"
	"github.com/inovelapp/inovel-server/internal/service"
)

func (s *Server) registerNovelRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getNovel",
		Method:      http.MethodGet,
		Path:        "/api/v1/novels/{id}",
		Summary:     "Novel detail",
		Description: "Returns a novel with its table of contents and comments. Each call counts one view.",
		Tags:        []string{"Novels"},
	}, s.handleGetNovel)

	huma.Register(s.api, huma.Operation{
		OperationID: "readChapter",
		Method:      http.MethodGet,
		Path:        "/api/v1/novels/{id}/chapters/{chapterID}",
		Summary:     "Read chapter",
		Description: "Returns a chapter and records the novel in the reader's recently read list. Requires login.",
		Tags:        []string{"Novels"},
		Security:    requireLogin,
	}, s.handleReadChapter)
}

// === DTOs ===

// NovelIDInput identifies a novel.
type NovelIDInput struct {
	ID int `path:"id" minimum:"1" doc:"Novel ID"`
}

// NovelDetailResponse is the detail page of a novel.
type NovelDetailResponse struct {
	Novel      NovelResponse     `json:"novel"`
	IsFavorite bool              `json:"is_favorite" doc:"Whether the novel is in the reader's favorites"`
	Favorites  []int             `json:"favorites" doc:"The reader's favorite novel IDs, empty when anonymous"`
	Comments   []CommentResponse `json:"comments" doc:"Novel-level comments, newest first"`
}

// NovelDetailOutput wraps the detail page for Huma.
type NovelDetailOutput struct {
	Body NovelDetailResponse
}

// ReadChapterInput selects a chapter and its body format.
type ReadChapterInput struct {
	ID        int    `path:"id" minimum:"1" doc:"Novel ID"`
	ChapterID int    `path:"chapterID" minimum:"1" doc:"Chapter ID"`
	Format    string `query:"format" doc:"Body format: html (default), markdown or text"`
}

// ChapterResponse is the reading page of one chapter.
type ChapterResponse struct {
	Novel    NovelResponse          `json:"novel"`
	Chapter  ChapterContentResponse `json:"chapter"`
	Format   string                 `json:"format"`
	Prev     *int                   `json:"prev,omitempty" doc:"Previous chapter ID"`
	Next     *int                   `json:"next,omitempty" doc:"Next chapter ID"`
	Comments []CommentResponse      `json:"comments" doc:"Chapter comments, newest first"`
}

// ChapterOutput wraps the reading page for Huma.
type ChapterOutput struct {
	Body ChapterResponse
}

// === Handlers ===

func (s *Server) handleGetNovel(ctx context.Context, input *NovelIDInput) (*NovelDetailOutput, error) {
	detail, err := s.services.Reading.ViewNovel(ctx, sessionFromContext(ctx), input.ID)
	if err != nil {
		return nil, err
	}

	return &NovelDetailOutput{
		Body: NovelDetailResponse{
			Novel:      toNovelResponse(&detail.Novel),
			IsFavorite: detail.IsFavorite,
			Favorites:  detail.Favorites,
			Comments:   toCommentResponses(detail.Comments),
		},
	}, nil
}

func (s *Server) handleReadChapter(ctx context.Context, input *ReadChapterInput) (*ChapterOutput, error) {
	format, err := content.ParseFormat(input.Format)
	if err != nil {
		return nil, domainerrors.Validation(err.Error())
	}

	view, err := s.services.Reading.ReadChapter(ctx, sessionFromContext(ctx), service.ReadChapterRequest{
		NovelID:   input.ID,
		ChapterID: input.ChapterID,
		Format:    format,
	})
	if err != nil {
		return nil, err
	}

	return &ChapterOutput{
		Body: ChapterResponse{
			Novel:    toNovelResponse(&view.Novel),
			Chapter:  toChapterContent(&view.Chapter),
			Format:   string(view.Format),
			Prev:     view.Prev,
			Next:     view.Next,
			Comments: toCommentResponses(view.Comments),
		},
	}, nil
}
