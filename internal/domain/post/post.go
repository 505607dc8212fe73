package post

import (
	"time"

	"github.com/geocoder89/heartspace/internal/domain/user"
)

const AnonymousName = "Anonymous"

type Post struct {
	ID         string    `json:"_id"`
	UserID     string    `json:"userId"`
	Name       string    `json:"name"`
	ProfilePic string    `json:"profilePic"`
	Content    string    `json:"content"`
	Likes      int       `json:"likes"`
	Comments   []string  `json:"comments"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type CreatePostRequest struct {
	Content string `json:"content" binding:"required"`
}

// New snapshots the author's display fields at creation time. Later profile
// changes are not reflected on existing posts.
func New(userID, name, profilePic, content string, now time.Time) Post {
	if name == "" {
		name = AnonymousName
	}

	if profilePic == "" {
		profilePic = user.DefaultProfilePic
	}

	return Post{
		UserID:     userID,
		Name:       name,
		ProfilePic: profilePic,
		Content:    content,
		Likes:      0,
		Comments:   []string{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}
