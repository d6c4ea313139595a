package service

import (
	"context"
	"log/slog"

	"github.com/inovelapp/inovel-server/internal/content"
	"github.com/inovelapp/inovel-server/internal/domain"
	domainerrors "github.com/inovelapp/inovel-server/internal/errors"
	"github.com/inovelapp/inovel-server/internal/store"
)

// ReadingService implements the novel detail and chapter views, which
// record views and reading history as a side effect.
type ReadingService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewReadingService creates a new reading service.
func NewReadingService(store *store.Store, logger *slog.Logger) *ReadingService {
	return &ReadingService{store: store, logger: logger}
}

// NovelDetail is the detail page of a novel.
type NovelDetail struct {
	Novel domain.Novel
	// Favorites are the session user's favorite novel ids, empty when
	// anonymous.
	Favorites  []int
	IsFavorite bool
	// Comments are the novel-level comments, newest first.
	Comments []domain.Comment
}

// ViewNovel returns a novel's detail page and counts the view.
func (s *ReadingService) ViewNovel(ctx context.Context, session domain.Session, novelID int) (*NovelDetail, error) {
	var novel domain.Novel
	err := s.store.Novels.Update(ctx, func(novels []domain.Novel) ([]domain.Novel, error) {
		n, err := store.FindNovelIn(novels, novelID)
		if err != nil {
			return nil, err
		}
		n.Views++
		novel = *n
		return novels, nil
	})
	if err != nil {
		return nil, err
	}

	detail := &NovelDetail{Novel: novel, Favorites: []int{}}

	if session.Authenticated() {
		users, err := s.store.Users.Load(ctx)
		if err != nil {
			return nil, err
		}
		if user, err := store.FindUserIn(users, session.UserID); err == nil {
			detail.Favorites = append(detail.Favorites, user.Favorites...)
			detail.IsFavorite = user.HasFavorite(novelID)
		}
	}

	comments, err := s.store.Comments.Load(ctx)
	if err != nil {
		return nil, err
	}
	detail.Comments = filterComments(comments, func(c *domain.Comment) bool {
		return c.NovelID == novelID && c.IsNovelLevel()
	})

	return detail, nil
}

// ReadChapterRequest selects a chapter and the format of its body.
type ReadChapterRequest struct {
	NovelID   int
	ChapterID int
	Format    content.Format
}

// ChapterView is the reading page of one chapter.
type ChapterView struct {
	Novel   domain.Novel
	Chapter domain.Chapter
	Format  content.Format
	// Prev and Next are the neighbouring chapter ids, nil at either end.
	Prev *int
	Next *int
	// Comments are the chapter's comments, newest first.
	Comments []domain.Comment
}

// ReadChapter returns a chapter and records the novel in the reader's
// recently read list. It requires a logged-in session.
func (s *ReadingService) ReadChapter(ctx context.Context, session domain.Session, req ReadChapterRequest) (*ChapterView, error) {
	if !session.Authenticated() {
		return nil, errLoginRequired
	}

	novels, err := s.store.Novels.Load(ctx)
	if err != nil {
		return nil, err
	}
	novel, err := store.FindNovelIn(novels, req.NovelID)
	if err != nil {
		return nil, err
	}
	chapter, ok := novel.Chapter(req.ChapterID)
	if !ok {
		return nil, domainerrors.NotFoundf("chapter %d of novel %d not found", req.ChapterID, req.NovelID)
	}

	err = s.store.Users.Update(ctx, func(users []domain.User) ([]domain.User, error) {
		user, err := store.FindUserIn(users, session.UserID)
		if err != nil {
			return nil, err
		}
		if user.MarkRead(req.NovelID) {
			s.logger.Debug("recent read updated", "user_id", user.ID, "novel_id", req.NovelID)
		}
		return users, nil
	})
	if err != nil {
		return nil, err
	}

	comments, err := s.store.Comments.Load(ctx)
	if err != nil {
		return nil, err
	}

	format := req.Format
	if format == "" {
		format = content.FormatHTML
	}

	view := &ChapterView{
		Novel:   *novel,
		Chapter: *chapter,
		Format:  format,
		Comments: filterComments(comments, func(c *domain.Comment) bool {
			return c.NovelID == req.NovelID && c.OnChapter(req.ChapterID)
		}),
	}
	view.Chapter.Content = content.Render(chapter.Content, format)
	view.Prev, view.Next = novel.Neighbors(req.ChapterID)

	return view, nil
}

// filterComments returns the matching comments, newest first.
func filterComments(comments []domain.Comment, keep func(*domain.Comment) bool) []domain.Comment {
	out := selectComments(comments, keep)
	domain.SortNewestFirst(out)
	return out
}

// selectComments returns the matching comments in collection order.
func selectComments(comments []domain.Comment, keep func(*domain.Comment) bool) []domain.Comment {
	out := []domain.Comment{}
	for i := range comments {
		if keep(&comments[i]) {
			out = append(out, comments[i])
		}
	}
	return out
}
