package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/inovelapp/inovel-server/internal/content"
	"github.com/inovelapp/inovel-server/internal/domain"
	"github.com/inovelapp/inovel-server/internal/id"
	"github.com/inovelapp/inovel-server/internal/store"
)

// CommentService creates and lists reader comments.
type CommentService struct {
	store  *store.Store
	logger *slog.Logger
	now    func() time.Time
}

// NewCommentService creates a new comment service.
func NewCommentService(store *store.Store, logger *slog.Logger) *CommentService {
	return &CommentService{store: store, logger: logger, now: time.Now}
}

// WithClock replaces the time source used for comment timestamps.
func (s *CommentService) WithClock(now func() time.Time) *CommentService {
	s.now = now
	return s
}

// AddCommentRequest is a new comment. A nil ChapterID comments on the novel
// as a whole.
type AddCommentRequest struct {
	NovelID   int    `json:"novel_id" validate:"gt=0"`
	ChapterID *int   `json:"chapter_id,omitempty" validate:"omitempty,gt=0"`
	Content   string `json:"content" validate:"required,notblank,max=2000"`
}

// Add stores a comment by the session user. Content is trimmed and
// NFC-normalized before it is validated and saved.
func (s *CommentService) Add(ctx context.Context, session domain.Session, req AddCommentRequest) (*domain.Comment, error) {
	if !session.Authenticated() {
		return nil, errLoginRequired
	}

	req.Content = content.NormalizeText(req.Content)
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	users, err := s.store.Users.Load(ctx)
	if err != nil {
		return nil, err
	}
	user, err := store.FindUserIn(users, session.UserID)
	if err != nil {
		return nil, err
	}

	var created domain.Comment
	err = s.store.Comments.Update(ctx, func(comments []domain.Comment) ([]domain.Comment, error) {
		created = domain.Comment{
			ID:        id.Next(comments, func(c domain.Comment) int { return c.ID }),
			NovelID:   req.NovelID,
			ChapterID: req.ChapterID,
			Username:  user.Username,
			Content:   req.Content,
			Timestamp: domain.FormatCommentTime(s.now()),
		}
		return append(comments, created), nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Comment added",
		"comment_id", created.ID,
		"novel_id", created.NovelID,
		"username", created.Username,
	)
	return &created, nil
}

// ForNovel lists the novel-level comments of a novel, newest first.
func (s *CommentService) ForNovel(ctx context.Context, novelID int) ([]domain.Comment, error) {
	return s.list(ctx, func(c *domain.Comment) bool {
		return c.NovelID == novelID && c.IsNovelLevel()
	})
}

// ForChapter lists the comments of one chapter, newest first.
func (s *CommentService) ForChapter(ctx context.Context, novelID, chapterID int) ([]domain.Comment, error) {
	return s.list(ctx, func(c *domain.Comment) bool {
		return c.NovelID == novelID && c.OnChapter(chapterID)
	})
}

// ByUser lists every comment written by username, newest first.
func (s *CommentService) ByUser(ctx context.Context, username string) ([]domain.Comment, error) {
	return s.list(ctx, func(c *domain.Comment) bool {
		return c.Username == username
	})
}

func (s *CommentService) list(ctx context.Context, keep func(*domain.Comment) bool) ([]domain.Comment, error) {
	comments, err := s.store.Comments.Load(ctx)
	if err != nil {
		return nil, err
	}
	return filterComments(comments, keep), nil
}
