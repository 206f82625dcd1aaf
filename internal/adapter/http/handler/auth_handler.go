package handler

import (
	"fmt"
	"net/http"

	"spendwiser/internal/adapter/http/dto"
	"spendwiser/internal/adapter/http/middleware"
	"spendwiser/internal/core/domain"
	"spendwiser/internal/core/ports"
	"spendwiser/pkg/apperror"
	"spendwiser/pkg/response"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles registration, login and the session.
type AuthHandler struct {
	sessions ports.SessionDirectory
	tokenSvc ports.TokenService
}

func NewAuthHandler(sessions ports.SessionDirectory, tokenSvc ports.TokenService) *AuthHandler {
	return &AuthHandler{sessions: sessions, tokenSvc: tokenSvc}
}

// Register handles POST /api/v1/auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}
	dto.TrimStruct(&req)

	user, err := h.sessions.Register(c.Request.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		response.Error(c, err)
		return
	}

	resp, err := h.issue(user)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, resp)
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}
	dto.TrimStruct(&req)

	user, err := h.sessions.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}

	resp, err := h.issue(user)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, resp)
}

// Logout handles POST /api/v1/auth/logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.sessions.Logout(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"logged_out": true})
}

// Me handles GET /api/v1/auth/me.
func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := c.Get(middleware.CtxUser)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}
	response.OK(c, dto.NewUserResponse(user.(*domain.User)))
}

func (h *AuthHandler) issue(user *domain.User) (dto.AuthResponse, error) {
	token, expiry, err := h.tokenSvc.Generate(user.ID)
	if err != nil {
		return dto.AuthResponse{}, apperror.InternalError(fmt.Errorf("issue token: %w", err))
	}
	return dto.AuthResponse{
		User:      dto.NewUserResponse(user),
		Token:     token,
		ExpiresAt: expiry.Unix(),
	}, nil
}

// HealthCheck handles GET /health, pinging every dependency.
func HealthCheck(checkers ...ports.HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		type depStatus struct {
			Status string `json:"status"`
			Error  string `json:"error,omitempty"`
		}

		deps := make(map[string]depStatus)
		allHealthy := true

		for _, checker := range checkers {
			if err := checker.Ping(c.Request.Context()); err != nil {
				deps[checker.Name()] = depStatus{Status: "unhealthy", Error: err.Error()}
				allHealthy = false
			} else {
				deps[checker.Name()] = depStatus{Status: "healthy"}
			}
		}

		status := "healthy"
		httpCode := http.StatusOK
		if !allHealthy {
			status = "degraded"
			httpCode = http.StatusServiceUnavailable
		}

		c.JSON(httpCode, gin.H{
			"status":       status,
			"dependencies": deps,
		})
	}
}
