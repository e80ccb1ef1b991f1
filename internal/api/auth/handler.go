package auth

import (
	"net/http"
	"regexp"
	"strings"
	"time"

	"subscription-app/internal/apperr"
	"subscription-app/internal/app/http/middleware"
	"subscription-app/internal/domain/access"
	"subscription-app/internal/domain/users"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

type Handler struct {
	svc *Service
	log zerolog.Logger
	now func() time.Time
}

func NewHandler(svc *Service, log zerolog.Logger) *Handler {
	return &Handler{svc: svc, log: log, now: time.Now}
}

type credentials struct {
	Email           string  `json:"email"`
	Password        string  `json:"password"`
	ConfirmPassword *string `json:"confirmPassword"`
}

type authResponse struct {
	User  *users.User `json:"user"`
	Token string      `json:"token"`
}

func bindCredentials(c *gin.Context) (credentials, error) {
	var in credentials
	if err := c.ShouldBindJSON(&in); err != nil {
		return in, apperr.Validation("Email and password required")
	}
	in.Email = strings.TrimSpace(in.Email)
	if in.Email == "" || in.Password == "" {
		return in, apperr.Validation("Email and password required")
	}
	return in, nil
}

func (h *Handler) Signup(c *gin.Context) {
	in, err := bindCredentials(c)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	if !emailPattern.MatchString(in.Email) {
		apperr.Respond(c, apperr.Validation("Invalid email format"))
		return
	}
	if in.ConfirmPassword != nil && *in.ConfirmPassword != in.Password {
		apperr.Respond(c, apperr.Validation("Passwords do not match"))
		return
	}

	u, tok, err := h.svc.Signup(c.Request.Context(), in.Email, in.Password)
	if err != nil {
		h.log.Warn().Err(err).Msg("signup failed")
		apperr.Respond(c, err)
		return
	}

	h.log.Info().Str("user_id", u.ID).Msg("user signed up")
	c.JSON(http.StatusOK, authResponse{User: u, Token: tok})
}

func (h *Handler) Login(c *gin.Context) {
	in, err := bindCredentials(c)
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	u, tok, err := h.svc.Login(c.Request.Context(), in.Email, in.Password)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, authResponse{User: u, Token: tok})
}

type meResponse struct {
	*users.User
	Access access.Entitlements `json:"access"`
}

func (h *Handler) Me(c *gin.Context) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		apperr.Respond(c, apperr.Auth("Unauthorized"))
		return
	}

	u, err := h.svc.Me(c.Request.Context(), id.UserID)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, meResponse{User: u, Access: access.For(h.now(), u.Subscription)})
}
