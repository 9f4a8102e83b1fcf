package service

import (
	"context"
	"time"

	"github.com/christa-jose1/student-migration-portal/internal/domain"
	"github.com/christa-jose1/student-migration-portal/internal/repository"
	"github.com/christa-jose1/student-migration-portal/pkg/log"
)

// PostService implements the community forum: posts with embedded
// comments and a toggleable like list.
type PostService struct {
	posts repository.PostRepository
	users repository.UserRepository
	now   func() time.Time
}

// NewPostService creates a PostService.
func NewPostService(posts repository.PostRepository, users repository.UserRepository) *PostService {
	return &PostService{posts: posts, users: users, now: time.Now}
}

// Create publishes a new forum post authored by userID.
func (s *PostService) Create(ctx context.Context, userID string, req domain.CreatePostRequest) (*domain.Post, error) {
	author, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	post := &domain.Post{
		Title:     req.Title,
		Category:  req.Category,
		Content:   req.Content,
		UserID:    author.ID,
		UserName:  author.Name,
		Likes:     []string{},
		Comments:  []domain.Comment{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// List returns every post, newest first, with author names resolved.
func (s *PostService) List(ctx context.Context) ([]domain.Post, error) {
	posts, err := s.posts.List(ctx)
	if err != nil {
		return nil, err
	}

	refs := make([]*domain.Post, len(posts))
	for i := range posts {
		refs[i] = &posts[i]
	}
	if err := s.resolveAuthors(ctx, refs...); err != nil {
		return nil, err
	}
	return posts, nil
}

// Get returns one post by id with author names resolved.
func (s *PostService) Get(ctx context.Context, postID string) (*domain.Post, error) {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if err := s.resolveAuthors(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// ToggleLike flips userID's like on a post. It returns the updated post
// and whether it ended up liked.
func (s *PostService) ToggleLike(ctx context.Context, postID, userID string) (*domain.Post, bool, error) {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, false, err
	}

	liked := post.ToggleLike(userID)
	updated, err := s.posts.SetLikes(ctx, postID, post.Likes)
	if err != nil {
		return nil, false, err
	}
	if err := s.resolveAuthors(ctx, updated); err != nil {
		return nil, false, err
	}
	return updated, liked, nil
}

// AddComment appends a comment authored by userID.
func (s *PostService) AddComment(ctx context.Context, postID, userID string, req domain.CommentRequest) (*domain.Post, error) {
	author, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	comment := domain.Comment{
		UserID:    author.ID,
		UserName:  author.Name,
		Text:      req.Text,
		CreatedAt: s.now(),
	}
	updated, err := s.posts.AddComment(ctx, postID, comment)
	if err != nil {
		return nil, err
	}
	if err := s.resolveAuthors(ctx, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// ReportComment flags a comment for moderator review. Any signed-in
// user may report.
func (s *PostService) ReportComment(ctx context.Context, postID, commentID, reporterID string) (*domain.Post, error) {
	updated, err := s.posts.SetCommentReported(ctx, postID, commentID, true)
	if err != nil {
		return nil, err
	}

	l := log.Ctx(ctx)
	l.Info().
		Str(log.FieldLogType, log.LogTypeAudit).
		Str("post_id", postID).
		Str("comment_id", commentID).
		Str(log.FieldUserID, reporterID).
		Msg("comment reported")

	if err := s.resolveAuthors(ctx, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// ListReportedComments returns every flagged comment with author names
// resolved, for the moderation queue.
func (s *PostService) ListReportedComments(ctx context.Context) ([]domain.ReportedComment, error) {
	reported, err := s.posts.ListReportedComments(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(reported))
	for _, rc := range reported {
		ids = append(ids, rc.Comment.UserID)
	}
	names, err := s.users.FindManyByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range reported {
		reported[i].Comment.UserName = names[reported[i].Comment.UserID].Name
	}
	return reported, nil
}

// DeleteComment removes a comment outright. Admin-only.
func (s *PostService) DeleteComment(ctx context.Context, commentID, requesterID string) error {
	if err := s.posts.DeleteComment(ctx, commentID); err != nil {
		return err
	}

	l := log.Ctx(ctx)
	l.Info().
		Str(log.FieldLogType, log.LogTypeAudit).
		Str("comment_id", commentID).
		Str(log.FieldUserID, requesterID).
		Msg("comment deleted")
	return nil
}

// Delete removes a post. Authors delete their own posts; admins delete
// any post.
func (s *PostService) Delete(ctx context.Context, postID, requesterID string, isAdmin bool) error {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.UserID != requesterID && !isAdmin {
		return ErrNotAuthor
	}

	if err := s.posts.Delete(ctx, postID); err != nil {
		return err
	}

	l := log.Ctx(ctx)
	l.Info().Str("post_id", postID).Str(log.FieldUserID, requesterID).Msg("post deleted")
	return nil
}

// resolveAuthors fills post and comment author names from the user
// store. The store never persists display names alongside posts, so
// every read path resolves them here. Missing directory entries degrade
// to empty names rather than failing the request.
func (s *PostService) resolveAuthors(ctx context.Context, posts ...*domain.Post) error {
	seen := make(map[string]bool)
	ids := make([]string, 0, len(posts))
	add := func(id string) {
		if id != "" && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	for _, p := range posts {
		add(p.UserID)
		for _, c := range p.Comments {
			add(c.UserID)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	names, err := s.users.FindManyByIDs(ctx, ids)
	if err != nil {
		return err
	}
	for _, p := range posts {
		p.UserName = names[p.UserID].Name
		for i := range p.Comments {
			p.Comments[i].UserName = names[p.Comments[i].UserID].Name
		}
	}
	return nil
}
