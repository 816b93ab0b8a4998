package handlers

import (
	"encoding/json"

	"github.com/valyala/fasthttp"

	"github.com/backsoul/teamquiz/pkg/models"
	"github.com/backsoul/teamquiz/pkg/services"
)

// AuthHandler registro y login de administradores
type AuthHandler struct {
	users *services.UserService
}

func NewAuthHandler(users *services.UserService) *AuthHandler {
	return &AuthHandler{users: users}
}

// Register maneja POST /api/auth/register
func (h *AuthHandler) Register(ctx *fasthttp.RequestCtx) {
	var req models.RegisterRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		respondWithError(ctx, fasthttp.StatusBadRequest, "invalid JSON body")
		return
	}

	resp, err := h.users.Register(req.Email, req.Password)
	if err != nil {
		respondWithDomainError(ctx, err)
		return
	}
	respondWithSuccess(ctx, resp, "Account created")
}

// Login maneja POST /api/auth/login
func (h *AuthHandler) Login(ctx *fasthttp.RequestCtx) {
	var req models.RegisterRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		respondWithError(ctx, fasthttp.StatusBadRequest, "invalid JSON body")
		return
	}

	resp, err := h.users.Login(req.Email, req.Password)
	if err != nil {
		respondWithDomainError(ctx, err)
		return
	}
	respondWithSuccess(ctx, resp, "Logged in")
}
