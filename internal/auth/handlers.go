package auth

import (
	"context"

	"equitymd-backend/internal/middleware"
	"equitymd-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const userSessionsPrefix = "user_sessions:"

// SignupNotifier fires the admin notice after a successful signup.
type SignupNotifier interface {
	NotifySignup(ctx context.Context, role, name, email, company string)
}

// Handlers holds dependencies for auth endpoints.
type Handlers struct {
	DB       *gorm.DB
	Finder   ProfileFinder
	Rdb      *redis.Client
	Config   middleware.SessionConfig
	Notifier SignupNotifier
}

// Signup POST /api/v1/auth/signup
func (h *Handlers) Signup(c *fiber.Ctx) error {
	var req SignupInput
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Email and password are required", fiber.StatusBadRequest, nil)
	}

	profile, err := SignupProfile(h.DB, req)
	if err != nil {
		switch err {
		case ErrEmailTaken:
			return response.Error(c, err.Error(), fiber.StatusConflict, nil)
		case ErrEmailPasswordRequired, ErrInvalidEmail, ErrInvalidRole, ErrWeakPassword:
			return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
		default:
			return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
		}
	}

	if h.Notifier != nil {
		h.Notifier.NotifySignup(c.Context(), profile.Role, profile.FullName, profile.Email, profile.CompanyName)
	}

	return response.SuccessCreated(c, "Account created successfully", fiber.Map{
		"user": fiber.Map{
			"user_id":   profile.UserID.String(),
			"full_name": profile.FullName,
			"email":     profile.Email,
			"role":      profile.Role,
		},
	}, nil)
}

// Login POST /api/v1/auth/login
func (h *Handlers) Login(c *fiber.Ctx) error {
	if h.Finder == nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Email and password are required", fiber.StatusBadRequest, nil)
	}
	if req.Email == "" || req.Password == "" {
		return response.Error(c, "Email and password are required", fiber.StatusBadRequest, nil)
	}

	profile, err := h.Finder.FindByEmailAndPassword(req.Email, req.Password)
	if err != nil {
		switch err {
		case ErrEmailPasswordRequired:
			return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
		case ErrInvalidEmail, ErrIncorrectPassword:
			return response.Error(c, err.Error(), fiber.StatusUnauthorized, nil)
		default:
			return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
		}
	}

	// New session id for this login
	sessionID := middleware.RegenerateSessionID(c)

	middleware.SetSessionUser(c, middleware.SessionUser{
		UserID:   profile.UserID.String(),
		FullName: profile.FullName,
		Email:    profile.Email,
		Role:     profile.Role,
	})

	ctx := context.Background()
	if err := h.Rdb.SAdd(ctx, userSessionsPrefix+profile.UserID.String(), sessionID).Err(); err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}

	cookie := middleware.SessionCookieConfig(h.Config)
	cookie.Value = "s:" + sessionID
	c.Cookie(&cookie)

	return response.Success(c, "Login successful", fiber.Map{
		"user": fiber.Map{
			"user_id":   profile.UserID.String(),
			"full_name": profile.FullName,
			"email":     profile.Email,
			"role":      profile.Role,
		},
	}, nil)
}

// LoginRequest body.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Me GET /api/v1/auth/me
func (h *Handlers) Me(c *fiber.Ctx) error {
	sessionUser := middleware.GetUser(c)

	user, err := VerifyUser(sessionUser)
	if err != nil {
		return response.Error(c, "Not authenticated", fiber.StatusUnauthorized, nil)
	}
	return response.Success(c, "Authenticated", fiber.Map{"user": user}, nil)
}

// Logout DELETE /api/v1/auth/logout
func (h *Handlers) Logout(c *fiber.Ctx) error {
	sessionID := middleware.GetSessionID(c)
	sessionUser := middleware.GetUser(c)

	ctx := context.Background()

	if sessionUser != nil && sessionID != "" {
		if m, ok := sessionUser.(map[string]interface{}); ok {
			if userID, _ := m["user_id"].(string); userID != "" {
				if err := h.Rdb.SRem(ctx, userSessionsPrefix+userID, sessionID).Err(); err != nil {
					log.Warn().Err(err).Msg("Failed to remove session from user session set")
				}
			}
		}
	}

	if sessionID != "" {
		_ = h.Rdb.Del(ctx, middleware.SessionRedisPrefix+sessionID).Err()
	}

	middleware.DestroySession(c)

	cookie := middleware.SessionCookieConfig(h.Config)
	cookie.Value = ""
	cookie.MaxAge = -1
	c.Cookie(&cookie)

	return response.Success(c, "Logged out successfully", nil, nil)
}
