package controllers

import (
	"context"
	"net/http"
	"strings"

	"foodorder/apperr"
	"foodorder/middleware"
	"foodorder/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthController struct {
	auth   services.AuthService
	logger *zap.Logger
}

func NewAuthController(auth services.AuthService, logger *zap.Logger) *AuthController {
	return &AuthController{auth: auth, logger: logger}
}

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone"`
	Password string `json:"password" binding:"required,min=6"`
}

func (r registerRequest) input() services.RegisterInput {
	return services.RegisterInput{Name: r.Name, Email: r.Email, Phone: r.Phone, Password: r.Password}
}

// loginRequest accepts the login under "login", "email" or "phone".
type loginRequest struct {
	Login    string `json:"login"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password" binding:"required"`
}

func (r loginRequest) login() string {
	for _, v := range []string{r.Login, r.Email, r.Phone} {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

func (h *AuthController) Register(c *gin.Context) {
	var input registerRequest
	if !bindJSON(c, h.logger, &input) {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	session, err := h.auth.Register(ctx, input.input())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, session)
}

func (h *AuthController) CreateAdmin(c *gin.Context) {
	var input registerRequest
	if !bindJSON(c, h.logger, &input) {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	session, err := h.auth.CreateAdmin(ctx, input.input())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, session)
}

func (h *AuthController) Login(c *gin.Context) {
	var input loginRequest
	if !bindJSON(c, h.logger, &input) {
		return
	}

	login := input.login()
	if login == "" {
		respondError(c, h.logger, apperr.InvalidInput("email or phone is required"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	session, err := h.auth.Login(ctx, login, input.Password)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

func (h *AuthController) Logout(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	if err := h.auth.Logout(ctx, middleware.CurrentToken(c)); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

func (h *AuthController) Me(c *gin.Context) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		respondError(c, h.logger, apperr.Unauthenticated("token required"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	user, err := h.auth.Me(ctx, identity)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, user)
}
