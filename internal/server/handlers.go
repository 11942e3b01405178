package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/eion/userstore/internal/users"
)

func healthCheck(s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		report := s.health.RuntimeHealthCheck(c.Request.Context())

		status := "healthy"
		code := http.StatusOK
		if !report.Healthy {
			status = "unhealthy"
			code = http.StatusServiceUnavailable
		}

		c.JSON(code, gin.H{
			"status":     status,
			"deployment": s.deployment,
			"timestamp":  time.Now().Format(time.RFC3339),
			"services":   report.Services,
		})
	}
}

func createUser(s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		data, ok := s.readBody(c)
		if !ok {
			return
		}

		rec, err := users.ParseRecord(data)
		if err != nil {
			s.badRequest(c, err)
			return
		}

		s.respond(c, s.store.Create(c.Request.Context(), rec))
	}
}

func readUser(s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		s.respond(c, s.store.Read(c.Request.Context(), pathID(c)))
	}
}

func updateUser(s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		data, ok := s.readBody(c)
		if !ok {
			return
		}

		rec, err := users.ParseRecord(data)
		if err != nil {
			s.badRequest(c, err)
			return
		}

		s.respond(c, s.store.Update(c.Request.Context(), rec))
	}
}

func patchUser(s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		data, ok := s.readBody(c)
		if !ok {
			return
		}

		rec, err := users.ParseRecordForID(data, pathID(c))
		if err != nil {
			s.badRequest(c, err)
			return
		}

		s.respond(c, s.store.Update(c.Request.Context(), rec))
	}
}

func deleteUser(s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		s.respond(c, s.store.Delete(c.Request.Context(), pathID(c)))
	}
}

func listUsers(s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		s.respond(c, s.store.ListAll(c.Request.Context()))
	}
}

// respond is the single place store outcomes become status codes.
func (s *Server) respond(c *gin.Context, result users.Result) {
	if result.Err != nil {
		_ = c.Error(result.Err)
	}
	env := s.codes.Envelope(result)
	c.JSON(env.Status, env.Body)
}

// pathID trims the :id parameter the same way body ids are trimmed.
func pathID(c *gin.Context) string {
	return strings.TrimSpace(c.Param("id"))
}

func (s *Server) readBody(c *gin.Context) ([]byte, bool) {
	if s.maxRequestSize > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxRequestSize)
	}

	data, err := c.GetRawData()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "request body too large"})
			return nil, false
		}
		s.logger.Warn("Failed to read request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return nil, false
	}
	return data, true
}

func (s *Server) badRequest(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
