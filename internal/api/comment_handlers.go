package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/inovelapp/inovel-server/internal/domain"
	"github.com/inovelapp/inovel-server/internal/service"
)

func (s *Server) registerCommentRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "addComment",
		Method:        http.MethodPost,
		Path:          "/api/v1/comments",
		Summary:       "Add comment",
		Description:   "Comments on a novel, or on one of its chapters when chapter_id is given. Requires login.",
		Tags:          []string{"Comments"},
		DefaultStatus: http.StatusCreated,
		Security:      requireLogin,
	}, s.handleAddComment)

	huma.Register(s.api, huma.Operation{
		OperationID: "listComments",
		Method:      http.MethodGet,
		Path:        "/api/v1/novels/{id}/comments",
		Summary:     "List comments",
		Description: "Lists the novel-level comments, or the comments of one chapter, newest first",
		Tags:        []string{"Comments"},
	}, s.handleListComments)
}

// === DTOs ===

// AddCommentRequest is the request body for a new comment.
type AddCommentRequest struct {
	NovelID   int    `json:"novel_id" minimum:"1" doc:"Novel ID"`
	ChapterID *int   `json:"chapter_id,omitempty" minimum:"1" doc:"Chapter ID, omitted for a comment on the novel"`
	Content   string `json:"content" minLength:"1" maxLength:"2000" doc:"Comment text"`
}

// AddCommentInput wraps the comment for Huma.
type AddCommentInput struct {
	Body AddCommentRequest
}

// CommentOutput wraps a comment for Huma.
type CommentOutput struct {
	Body CommentResponse
}

// ListCommentsInput selects the comments of a novel or of one chapter.
type ListCommentsInput struct {
	ID        int `path:"id" minimum:"1" doc:"Novel ID"`
	ChapterID int `query:"chapter" minimum:"0" doc:"Chapter ID; 0 lists the novel-level comments"`
}

// CommentListResponse is a list of comments.
type CommentListResponse struct {
	Comments []CommentResponse `json:"comments"`
}

// CommentListOutput wraps a comment list for Huma.
type CommentListOutput struct {
	Body CommentListResponse
}

// === Handlers ===

func (s *Server) handleAddComment(ctx context.Context, input *AddCommentInput) (*CommentOutput, error) {
	comment, err := s.services.Comment.Add(ctx, sessionFromContext(ctx), service.AddCommentRequest{
		NovelID:   input.Body.NovelID,
		ChapterID: input.Body.ChapterID,
		Content:   input.Body.Content,
	})
	if err != nil {
		return nil, err
	}

	return &CommentOutput{Body: toCommentResponse(comment)}, nil
}

func (s *Server) handleListComments(ctx context.Context, input *ListCommentsInput) (*CommentListOutput, error) {
	var (
		comments []domain.Comment
		err      error
	)
	if input.ChapterID > 0 {
		comments, err = s.services.Comment.ForChapter(ctx, input.ID, input.ChapterID)
	} else {
		comments, err = s.services.Comment.ForNovel(ctx, input.ID)
	}
	if err != nil {
		return nil, err
	}

	return &CommentListOutput{Body: CommentListResponse{Comments: toCommentResponses(comments)}}, nil
}
