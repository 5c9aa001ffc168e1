package webapi

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kei-test/mega/internal/domain/auth"
	httptransport "github.com/kei-test/mega/internal/transport/http"
)

// AuthService exposes the login endpoint.
type AuthService struct {
	auth   *auth.Service
	logger *slog.Logger
}

func NewAuthService(authSvc *auth.Service, logger *slog.Logger) *AuthService {
	return &AuthService{auth: authSvc, logger: logger}
}

// Register wires the authentication routes.
func (s *AuthService) Register(router *gin.RouterGroup) {
	router.POST("/auth/login", s.handleLogin)
}

type loginPayload struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	User   any `json:"user"`
	Wallet any `json:"wallet,omitempty"`
}

// handleLogin authenticates a member. The session token travels in the
// Authorization response header; the body carries the account summary.
func (s *AuthService) handleLogin(c *gin.Context) {
	var payload loginPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		httptransport.RespondError(c, http.StatusUnauthorized, auth.GenericFailure, nil)
		return
	}

	result, err := s.auth.Login(c.Request.Context(), auth.LoginRequest{
		Username:  payload.Username,
		Password:  payload.Password,
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.Header("Authorization", "Bearer "+result.Token)
	resp := loginResponse{User: result.User}
	if result.Wallet != nil {
		resp.Wallet = result.Wallet
	}
	httptransport.RespondSuccess(c, http.StatusOK, resp, "login ok")
}
