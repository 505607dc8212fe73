package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/geocoder89/heartspace/internal/domain/post"
	"github.com/geocoder89/heartspace/internal/domain/user"
	"github.com/geocoder89/heartspace/internal/validation"
)

const (
	MsgEmptyContent = "Post content cannot be empty"
	MsgNoPosts      = "No posts found for this user."
	MsgLoginFirst   = "Unauthorized. Please log in."
)

type PostStore interface {
	Create(ctx context.Context, p post.Post) (post.Post, error)
	List(ctx context.Context) ([]post.Post, error)
	ListByUser(ctx context.Context, userID string) ([]post.Post, error)
}

// AuthorLookup resolves the display fields snapshotted onto new posts.
type AuthorLookup interface {
	GetByID(ctx context.Context, id string) (user.User, error)
}

type CreatePostInput struct {
	AuthorID         string
	AuthorName       string
	AuthorProfilePic string
	Content          string
}

type PostService struct {
	posts   PostStore
	authors AuthorLookup
	now     func() time.Time
}

func NewPostService(posts PostStore, authors AuthorLookup) *PostService {
	return &PostService{
		posts:   posts,
		authors: authors,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *PostService) ListAllPosts(ctx context.Context) ([]post.Post, error) {
	posts, err := s.posts.List(ctx)
	if err != nil {
		return nil, InternalError("Could not list posts", err)
	}

	if posts == nil {
		posts = []post.Post{}
	}

	return posts, nil
}

// CreatePost expects AuthorID to come from an already verified token.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (post.Post, error) {
	if in.AuthorID == "" {
		return post.Post{}, AuthError(MsgLoginFirst, nil)
	}

	if strings.TrimSpace(in.Content) == "" {
		return post.Post{}, ValidationError(MsgEmptyContent, []validation.FieldError{{
			Field:   "content",
			Rule:    "required",
			Message: MsgEmptyContent,
		}})
	}

	name, pic := in.AuthorName, in.AuthorProfilePic

	if (name == "" || pic == "") && s.authors != nil {
		author, err := s.authors.GetByID(ctx, in.AuthorID)
		switch {
		case err == nil:
			if name == "" {
				name = author.Name
			}
			if pic == "" {
				pic = author.ProfilePic
			}
		case !errors.Is(err, user.ErrNotFound):
			return post.Post{}, InternalError("Could not create post", err)
		}
	}

	created, err := s.posts.Create(ctx, post.New(in.AuthorID, name, pic, in.Content, s.now()))
	if err != nil {
		return post.Post{}, InternalError("Could not create post", err)
	}

	return created, nil
}

// ListPostsByUser reports an empty result as not found, so an unknown user and
// a user without posts look the same.
func (s *PostService) ListPostsByUser(ctx context.Context, userID string) ([]post.Post, error) {
	posts, err := s.posts.ListByUser(ctx, userID)
	if err != nil {
		return nil, InternalError("Could not list posts", err)
	}

	if len(posts) == 0 {
		return nil, NotFoundError(MsgNoPosts)
	}

	return posts, nil
}
