package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"interviewbuddy/app"
	"interviewbuddy/domain/core"
	"interviewbuddy/models"
)

// AuthHandler handles signup, login and logout
type AuthHandler struct {
	auth       *app.AuthService
	interviews *app.InterviewService
	tokens     *TokenIssuer
	log        *zap.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(auth *app.AuthService, interviews *app.InterviewService, tokens *TokenIssuer, log *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, interviews: interviews, tokens: tokens, log: log}
}

type signupRequest struct {
	Name     string `json:"name" form:"name"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type loginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type authResponse struct {
	User      *models.User `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// Signup creates an account and logs it in.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, "Invalid signup request")
		return
	}

	user, err := h.auth.Signup(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	h.startSession(c, user, http.StatusCreated)
}

// Login checks credentials and starts a session.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, "Invalid login request")
		return
	}

	user, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	h.startSession(c, user, http.StatusOK)
}

// Logout drops the running interview and clears the session cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	if id, ok := session.Get(userIDKey).(string); ok && id != "" {
		if err := h.interviews.Abandon(c.Request.Context(), core.UserID(id)); err != nil {
			h.log.Warn("failed to clear interview on logout", zap.String("user_id", id), zap.Error(err))
		}
	}

	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	if err := session.Save(); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// Me returns the logged-in account.
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.auth.User(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *AuthHandler) startSession(c *gin.Context, user *models.User, status int) {
	session := sessions.Default(c)
	session.Set(userIDKey, user.UserID().String())
	if err := session.Save(); err != nil {
		respondError(c, err)
		return
	}

	token, expires, err := h.tokens.GenerateToken(user.UserID(), user.Email)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(status, authResponse{User: user, Token: token, ExpiresAt: expires})
}
