package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"weatherlog.app/internal/core/auth"
	"weatherlog.app/internal/ports"
)

// register handles POST /api/auth/register requests
func (s *HTTPServerAdapter) register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		// an unreadable body is treated as missing fields
		s.logger.Debug("Register body not bound", ports.F("error", err))
	}

	session, err := s.authUseCase.Register(c.Request.Context(), auth.RegisterParams{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newSessionResponse(session))
}

// login handles POST /api/auth/login requests
func (s *HTTPServerAdapter) login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		s.logger.Debug("Login body not bound", ports.F("error", err))
	}

	session, err := s.authUseCase.Login(c.Request.Context(), auth.LoginParams{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, newSessionResponse(session))
}

// logout handles POST /api/auth/logout requests
func (s *HTTPServerAdapter) logout(c *gin.Context) {
	if err := s.authUseCase.Logout(c.Request.Context(), callerFrom(c)); err != nil {
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, LogoutResponse{Success: "Successfully logged out"})
}

// currentUser handles GET /api/auth/user requests
func (s *HTTPServerAdapter) currentUser(c *gin.Context) {
	user, err := s.authUseCase.CurrentUser(c.Request.Context(), callerFrom(c))
	if err != nil {
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, newUserResponse(user))
}
