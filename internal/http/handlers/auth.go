package handlers

import (
	"context"
	"net/http"

	"github.com/geocoder89/heartspace/internal/domain/user"
	"github.com/geocoder89/heartspace/internal/service"
	"github.com/gin-gonic/gin"
)

type AuthAPI interface {
	Register(ctx context.Context, req user.SignUpRequest) (service.AuthResult, error)
	Login(ctx context.Context, req user.LoginRequest) (service.AuthResult, error)
	ListUsers(ctx context.Context) ([]user.User, error)
	GetUser(ctx context.Context, id string) (user.User, error)
}

type AuthHandler struct {
	auth AuthAPI
}

func NewAuthHandler(auth AuthAPI) *AuthHandler {
	return &AuthHandler{auth: auth}
}

func (h *AuthHandler) SignUp(ctx *gin.Context) {
	var req user.SignUpRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := requestContext(ctx)
	defer cancel()

	res, err := h.auth.Register(cctx, req)
	if err != nil {
		RespondServiceError(ctx, err)
		return
	}

	RespondOK(ctx, http.StatusCreated, "User registered successfully", gin.H{
		"token":     res.Token,
		"expiresIn": res.ExpiresIn,
		"user":      res.User,
	})
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req user.LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := requestContext(ctx)
	defer cancel()

	res, err := h.auth.Login(cctx, req)
	if err != nil {
		// bad credentials are a 400 on this route, same body either way
		if service.KindOf(err) == service.KindAuth {
			RespondError(ctx, http.StatusBadRequest, "invalid_credentials", service.MsgInvalidCredentials, nil)
			return
		}
		RespondServiceError(ctx, err)
		return
	}

	RespondOK(ctx, http.StatusOK, "Login successful", gin.H{
		"token":     res.Token,
		"expiresIn": res.ExpiresIn,
		"user":      res.User,
	})
}

func (h *AuthHandler) ListUsers(ctx *gin.Context) {
	cctx, cancel := requestContext(ctx)
	defer cancel()

	users, err := h.auth.ListUsers(cctx)
	if err != nil {
		RespondServiceError(ctx, err)
		return
	}

	RespondOK(ctx, http.StatusOK, "", gin.H{
		"users": users,
		"count": len(users),
	})
}

func (h *AuthHandler) Profile(ctx *gin.Context) {
	cctx, cancel := requestContext(ctx)
	defer cancel()

	u, err := h.auth.GetUser(cctx, ctx.Param("id"))
	if err != nil {
		RespondServiceError(ctx, err)
		return
	}

	RespondOK(ctx, http.StatusOK, "", gin.H{"user": u})
}
