package repository

import (
	"context"
	"errors"

	"github.com/christa-jose1/student-migration-portal/internal/domain"
)

var (
	ErrChatNotFound    = errors.New("chat not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrPostNotFound    = errors.New("post not found")
	ErrCommentNotFound = errors.New("comment not found")
	ErrCourseNotFound  = errors.New("course not found")
	ErrFAQNotFound     = errors.New("faq not found")
	ErrGuideNotFound   = errors.New("guide not found")
	ErrDuplicate       = errors.New("duplicate record")
)

// ChatRepository persists two-party chat aggregates. One document per
// conversation; messages are embedded and append-only.
type ChatRepository interface {
	Create(ctx context.Context, chat *domain.Chat) error
	// FindByParticipants matches on the participant *set*: the order of
	// idA and idB never matters.
	FindByParticipants(ctx context.Context, idA, idB string) (*domain.Chat, error)
	FindByID(ctx context.Context, id string) (*domain.Chat, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Chat, error)
	// AppendMessage pushes msg, refreshes lastMessage and updatedAt, and
	// returns the updated aggregate.
	AppendMessage(ctx context.Context, chatID string, msg domain.Message) (*domain.Chat, error)
	// MarkRead flips isRead on every message sent by senderID.
	MarkRead(ctx context.Context, chatID, senderID string) (*domain.Chat, error)
	// Delete removes the aggregate and returns it so callers can notify
	// its participants.
	Delete(ctx context.Context, chatID string) (*domain.Chat, error)
}

// UserRepository persists local user records.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByUID(ctx context.Context, uid string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindManyByIDs(ctx context.Context, ids []string) (map[string]domain.User, error)
	List(ctx context.Context) ([]domain.DirectoryEntry, error)
	UpdateRole(ctx context.Context, email, role string) (*domain.User, error)
	DeleteByUID(ctx context.Context, uid string) error

	ApplyCourse(ctx context.Context, userID, country, course string, universities []string) (*domain.User, error)
	RemoveCourse(ctx context.Context, userID, course string) (*domain.User, error)
	RemoveCountry(ctx context.Context, userID, country string) (*domain.User, error)
	RemoveUniversity(ctx context.Context, userID, university string) (*domain.User, error)
	UpdatePhone(ctx context.Context, userID, phone string) (*domain.User, error)
	UpdateEducation(ctx context.Context, userID, education string) (*domain.User, error)
}

// PostRepository persists forum posts with embedded comments.
type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) error
	List(ctx context.Context) ([]domain.Post, error)
	FindByID(ctx context.Context, id string) (*domain.Post, error)
	SetLikes(ctx context.Context, postID string, likes []string) (*domain.Post, error)
	AddComment(ctx context.Context, postID string, comment domain.Comment) (*domain.Post, error)
	Delete(ctx context.Context, postID string) error

	// SetCommentReported flips the reported flag on one embedded comment
	// and returns the updated post.
	SetCommentReported(ctx context.Context, postID, commentID string, reported bool) (*domain.Post, error)
	// ListReportedComments collects every flagged comment across all posts.
	ListReportedComments(ctx context.Context) ([]domain.ReportedComment, error)
	// DeleteComment pulls a comment out of whichever post embeds it.
	DeleteComment(ctx context.Context, commentID string) error
}

// CourseRepository persists catalog courses.
type CourseRepository interface {
	Create(ctx context.Context, course *domain.Course) error
	List(ctx context.Context, countryCode string) ([]domain.Course, error)
	Update(ctx context.Context, id string, req domain.CourseRequest) (*domain.Course, error)
	Delete(ctx context.Context, id string) error
}

// FAQRepository persists FAQ entries.
type FAQRepository interface {
	Create(ctx context.Context, faq *domain.FAQ) error
	List(ctx context.Context) ([]domain.FAQ, error)
	Update(ctx context.Context, id string, req domain.FAQRequest) (*domain.FAQ, error)
	Delete(ctx context.Context, id string) error
}

// GuideRepository persists guide metadata records.
type GuideRepository interface {
	Create(ctx context.Context, guide *domain.Guide) error
	List(ctx context.Context, countryCode string) ([]domain.Guide, error)
	Delete(ctx context.Context, id string) error
}
