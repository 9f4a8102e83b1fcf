package domain

import "time"

// Post categories accepted by the forum.
const (
	CategoryAccommodation = "Accommodation"
	CategoryEducation     = "Education"
	CategoryVisa          = "Visa"
)

// Comment is an embedded forum comment.
type Comment struct {
	ID        string    `json:"_id"`
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName,omitempty"`
	Text      string    `json:"text"`
	Reported  bool      `json:"reported"`
	CreatedAt time.Time `json:"createdAt"`
}

// Post is a forum post with embedded comments and like references.
type Post struct {
	ID        string    `json:"_id"`
	Title     string    `json:"title"`
	Category  string    `json:"category"`
	Content   string    `json:"content"`
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName,omitempty"`
	Likes     []string  `json:"likes"`
	Comments  []Comment `json:"comments"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ToggleLike adds userID to the like list, or removes it when present.
// It returns true when the post ends up liked.
func (p *Post) ToggleLike(userID string) bool {
	for i, id := range p.Likes {
		if id == userID {
			p.Likes = append(p.Likes[:i], p.Likes[i+1:]...)
			return false
		}
	}
	p.Likes = append(p.Likes, userID)
	return true
}

// ReportedComment is a comment flagged for moderation, paired with the
// post it lives on so moderators have context.
type ReportedComment struct {
	PostID    string  `json:"postId"`
	PostTitle string  `json:"postTitle"`
	Comment   Comment `json:"comment"`
}

// CreatePostRequest creates a forum post.
type CreatePostRequest struct {
	Title    string `json:"title" binding:"required,max=100"`
	Category string `json:"category" binding:"required,oneof=Accommodation Education Visa"`
	Content  string `json:"content" binding:"required"`
}

// CommentRequest adds a comment to a post.
type CommentRequest struct {
	Text string `json:"text" binding:"required"`
}
