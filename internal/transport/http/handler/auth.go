package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ErlanBelekov/voltforge-storefront/internal/domain"
	"github.com/ErlanBelekov/voltforge-storefront/internal/usecase"
)

// sessionUsecaser is the subset of SessionUsecase the handler needs.
type sessionUsecaser interface {
	SignUp(ctx context.Context, v domain.Visitor, in usecase.SignUpInput) (*usecase.AuthResult, error)
	SignIn(ctx context.Context, v domain.Visitor, email, password string) (*usecase.AuthResult, error)
	SignOut(ctx context.Context, clientID string) (string, error)
	CurrentUser(ctx context.Context, clientID string) (*domain.User, error)
	Navigation(ctx context.Context, clientID string) (domain.Navigation, error)
}

type AuthHandler struct {
	session sessionUsecaser
	logger  *slog.Logger
}

func NewAuthHandler(session sessionUsecaser, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		session: session,
		logger:  logger.With("component", "auth_handler"),
	}
}

type signUpRequest struct {
	Name            string `json:"name"             binding:"required"`
	Email           string `json:"email"            binding:"required,email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type signInRequest struct {
	Email    string `json:"email"    binding:"required"`
	Password string `json:"password"`
}

type userResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type authResponse struct {
	User            userResponse `json:"user"`
	Message         string       `json:"message"`
	Redirect        string       `json:"redirect"`
	RedirectAfterMS int64        `json:"redirect_after_ms"`
}

func toAuthResponse(res *usecase.AuthResult) authResponse {
	return authResponse{
		User:            userResponse{ID: res.User.ID, Name: res.User.Name, Email: res.User.Email},
		Message:         res.Message,
		Redirect:        res.Redirect,
		RedirectAfterMS: res.RedirectAfter.Milliseconds(),
	}
}

// POST /auth/signup
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req signUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.session.SignUp(c.Request.Context(), visitorFrom(c), usecase.SignUpInput{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		respondError(c, h.logger, "sign up", err)
		return
	}
	c.JSON(http.StatusCreated, toAuthResponse(res))
}

// POST /auth/signin
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req signInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.session.SignIn(c.Request.Context(), visitorFrom(c), req.Email, req.Password)
	if err != nil {
		respondError(c, h.logger, "sign in", err)
		return
	}
	c.JSON(http.StatusOK, toAuthResponse(res))
}

// POST /auth/signout
func (h *AuthHandler) SignOut(c *gin.Context) {
	redirect, err := h.session.SignOut(c.Request.Context(), c.GetString("clientID"))
	if err != nil {
		respondError(c, h.logger, "sign out", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"redirect": redirect})
}

// GET /auth/me
// Returns the navigation chrome, plus the user when logged in.
func (h *AuthHandler) Me(c *gin.Context) {
	ctx := c.Request.Context()
	clientID := c.GetString("clientID")

	nav, err := h.session.Navigation(ctx, clientID)
	if err != nil {
		respondError(c, h.logger, "navigation", err)
		return
	}
	user, err := h.session.CurrentUser(ctx, clientID)
	if err != nil {
		respondError(c, h.logger, "current user", err)
		return
	}

	body := gin.H{"navigation": nav}
	if user != nil {
		body["user"] = userResponse{ID: user.ID, Name: user.Name, Email: user.Email}
	}
	c.JSON(http.StatusOK, body)
}
