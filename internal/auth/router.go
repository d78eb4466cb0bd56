package auth

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/shadows-market/storefront/pkg/global"
	"github.com/shadows-market/storefront/pkg/metrics"
	"github.com/shadows-market/storefront/pkg/models"
)

// Service is the identity service: it owns accounts, issues bearer tokens and
// answers the validate calls the other services make.
type Service struct {
	users  UserStore
	tokens *Tokens
}

func NewService(users UserStore, tokens *Tokens) *Service {
	return &Service{users: users, tokens: tokens}
}

// SeedAdmin creates the bootstrap admin account if it does not exist yet.
func (s *Service) SeedAdmin(ctx context.Context, username, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	err = s.users.Create(ctx, &models.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
		CreatedAt:    time.Now(),
	})
	if errors.Is(err, ErrUserExists) {
		return nil
	}
	return err
}

func (s *Service) Router(m *metrics.ServerMetrics) *gin.Engine {
	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(m.GinMiddleware())
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group("/auth-service/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, global.SuccessResponse(map[string]string{"status": "OK"}))
		})
		api.POST("/register", s.Register)
		api.POST("/login", s.Login)
		api.POST("/validate", s.Validate)
	}
	return r
}

func (s *Service) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid request data", []global.ValidationError{
			{Field: "request", Message: err.Error(), Code: "validation_error"},
		}))
		return
	}

	// Self-service registration only hands out buyer and seller roles.
	role := models.RoleClient
	if req.Role != "" {
		parsed, ok := models.ParseRole(req.Role)
		if !ok || parsed == models.RoleAdmin {
			c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid role", []global.ValidationError{
				{Field: "role", Message: "role must be CLIENT or SHOP", Code: "invalid_role"},
			}))
			return
		}
		role = parsed
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to process password", nil))
		return
	}

	user := &models.User{
		Username:     req.Username,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    time.Now(),
	}
	if err := s.users.Create(c.Request.Context(), user); err != nil {
		if errors.Is(err, ErrUserExists) {
			c.JSON(http.StatusConflict, global.ErrorResponse("Username already registered", []global.ValidationError{
				{Field: "username", Message: "This username is already in use", Code: "duplicate_username"},
			}))
			return
		}
		log.Printf("Error creating user: %v", err)
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to create user", nil))
		return
	}

	c.JSON(http.StatusCreated, global.SuccessResponse(user))
}

func (s *Service) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid request data", []global.ValidationError{
			{Field: "request", Message: err.Error(), Code: "validation_error"},
		}))
		return
	}

	user, err := s.users.FindByUsername(c.Request.Context(), req.Username)
	if err != nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, global.ErrorResponse("Invalid username or password", nil))
		return
	}

	token, err := s.tokens.Issue(user.Username, user.Role)
	if err != nil {
		log.Printf("Error issuing token: %v", err)
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to issue token", nil))
		return
	}

	c.JSON(http.StatusOK, global.SuccessResponse(map[string]interface{}{
		"token":    token,
		"username": user.Username,
		"role":     user.Role,
	}))
}

// Validate implements the token-verifier capability consumed by the other
// services: verify(token) -> {valid, username, role}.
func (s *Service) Validate(c *gin.Context) {
	var req struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Missing token", nil))
		return
	}

	username, role, err := s.tokens.Verify(req.Token)
	if err != nil {
		c.JSON(http.StatusOK, global.SuccessResponse(map[string]interface{}{"valid": false}))
		return
	}

	c.JSON(http.StatusOK, global.SuccessResponse(map[string]interface{}{
		"valid":    true,
		"username": username,
		"role":     role,
	}))
}
