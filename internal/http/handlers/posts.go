package handlers

import (
	"context"
	"net/http"

	"github.com/geocoder89/heartspace/internal/domain/post"
	"github.com/geocoder89/heartspace/internal/http/middlewares"
	"github.com/geocoder89/heartspace/internal/service"
	"github.com/gin-gonic/gin"
)

type PostsAPI interface {
	ListAllPosts(ctx context.Context) ([]post.Post, error)
	CreatePost(ctx context.Context, in service.CreatePostInput) (post.Post, error)
	ListPostsByUser(ctx context.Context, userID string) ([]post.Post, error)
}

type PostsHandler struct {
	posts PostsAPI
}

func NewPostsHandler(posts PostsAPI) *PostsHandler {
	return &PostsHandler{posts: posts}
}

func (h *PostsHandler) ListPosts(ctx *gin.Context) {
	cctx, cancel := requestContext(ctx)
	defer cancel()

	posts, err := h.posts.ListAllPosts(cctx)
	if err != nil {
		RespondServiceError(ctx, err)
		return
	}

	RespondOK(ctx, http.StatusOK, "", gin.H{
		"posts": posts,
		"count": len(posts),
	})
}

// CreatePost must sit behind RequireAuth.
func (h *PostsHandler) CreatePost(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", service.MsgLoginFirst)
		return
	}

	var req post.CreatePostRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := requestContext(ctx)
	defer cancel()

	created, err := h.posts.CreatePost(cctx, service.CreatePostInput{
		AuthorID: userID,
		Content:  req.Content,
	})
	if err != nil {
		RespondServiceError(ctx, err)
		return
	}

	RespondOK(ctx, http.StatusCreated, "Post created successfully", gin.H{"post": created})
}

func (h *PostsHandler) ListUserPosts(ctx *gin.Context) {
	cctx, cancel := requestContext(ctx)
	defer cancel()

	posts, err := h.posts.ListPostsByUser(cctx, ctx.Param("userId"))
	if err != nil {
		RespondServiceError(ctx, err)
		return
	}

	RespondOK(ctx, http.StatusOK, "", gin.H{
		"posts": posts,
		"count": len(posts),
	})
}
