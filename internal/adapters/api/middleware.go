package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"weatherlog.app/internal/core/identity"
	"weatherlog.app/internal/ports"
	"weatherlog.app/pkg/errors"
)

const (
	headerRequestID = "X-Request-ID"
	ctxRequestID    = "request_id"
	ctxCaller       = "caller"

	msgInvalidToken     = "Invalid token."
	msgNotAuthenticated = "Authentication credentials were not provided."
)

// requestIDMiddleware reuses an incoming X-Request-ID or generates one
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(headerRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(ctxRequestID, requestID)
		c.Header(headerRequestID, requestID)
		c.Next()
	}
}

func (s *HTTPServerAdapter) accessLogMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []ports.Field{
			ports.F("method", c.Request.Method),
			ports.F("path", c.Request.URL.Path),
			ports.F("status", c.Writer.Status()),
			ports.F("duration_ms", time.Since(start).Milliseconds()),
			ports.F("client_ip", c.ClientIP()),
			ports.F("request_id", c.GetString(ctxRequestID)),
		}
		if caller := callerFrom(c); caller.IsAuthenticated() {
			fields = append(fields, ports.F("userID", caller.UserID))
		}

		if c.Writer.Status() >= http.StatusInternalServerError {
			s.logger.Warn("HTTP request", fields...)
			return
		}
		s.logger.Info("HTTP request", fields...)
	}
}

// metricsMiddleware labels by route template to keep cardinality bounded
func (s *HTTPServerAdapter) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		s.metrics.ObserveHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}

// optionalAuth resolves a presented token; no header means anonymous,
// but a bad token is still rejected.
func (s *HTTPServerAdapter) optionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		s.authenticate(c)
	}
}

func (s *HTTPServerAdapter) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.authenticate(c) {
			return
		}
		if !callerFrom(c).IsAuthenticated() {
			s.abortWithError(c, errors.NewUnauthorizedError(msgNotAuthenticated))
		}
	}
}

// authenticate stores the resolved caller in the context. It reports false
// after aborting the request.
func (s *HTTPServerAdapter) authenticate(c *gin.Context) bool {
	token, presented := bearerToken(c.GetHeader("Authorization"))
	if !presented {
		c.Set(ctxCaller, identity.Anonymous())
		return true
	}
	if token == "" {
		s.abortWithError(c, errors.NewUnauthorizedError(msgInvalidToken))
		return false
	}

	caller, err := s.authUseCase.Authenticate(c.Request.Context(), token)
	if err != nil {
		s.abortWithError(c, err)
		return false
	}

	c.Set(ctxCaller, caller)
	return true
}

// bearerToken accepts "Bearer <t>" and "Token <t>". presented is false when
// the header is absent or uses another scheme.
func bearerToken(header string) (token string, presented bool) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", false
	}

	scheme, rest, _ := strings.Cut(header, " ")
	if !strings.EqualFold(scheme, "Bearer") && !strings.EqualFold(scheme, "Token") {
		return "", false
	}

	rest = strings.TrimSpace(rest)
	if rest == "" || strings.ContainsAny(rest, " \t") {
		return "", true
	}
	return rest, true
}

func callerFrom(c *gin.Context) identity.Caller {
	if value, ok := c.Get(ctxCaller); ok {
		if caller, ok := value.(identity.Caller); ok {
			return caller
		}
	}
	return identity.Anonymous()
}

func (s *HTTPServerAdapter) abortWithError(c *gin.Context, err error) {
	s.handleError(c, err)
	c.Abort()
}
