package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/eion/userstore/internal/health"
	"github.com/eion/userstore/internal/users"
)

// RequestIDHeader carries the per-request id in both directions
const RequestIDHeader = "X-Request-ID"

// Options holds the collaborators of the HTTP layer
type Options struct {
	Deployment     string
	Store          users.UserStore
	StatusCodes    users.StatusTable
	Health         *health.Manager
	Logger         *zap.Logger
	ListAll        bool
	MaxRequestSize int64
}

// Server translates HTTP requests into store operations and store results into responses.
type Server struct {
	deployment     string
	store          users.UserStore
	codes          users.StatusTable
	health         *health.Manager
	logger         *zap.Logger
	listAll        bool
	maxRequestSize int64
}

// New creates a server; a nil status table selects the legacy codes.
func New(opts Options) *Server {
	codes := opts.StatusCodes
	if codes == nil {
		codes = users.LegacyStatusCodes
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	hm := opts.Health
	if hm == nil {
		hm = health.NewManager(logger)
	}

	return &Server{
		deployment:     opts.Deployment,
		store:          opts.Store,
		codes:          codes,
		health:         hm,
		logger:         logger,
		listAll:        opts.ListAll,
		maxRequestSize: opts.MaxRequestSize,
	}
}

// Router builds the gin engine with every route registered.
func (s *Server) Router() *gin.Engine {
	router := gin.New()

	router.Use(cors.Default())
	router.Use(RequestLogger(s.logger))
	router.Use(gin.Recovery())

	router.GET("/health", healthCheck(s))

	userRoutes := router.Group("/users")
	{
		userRoutes.POST("", createUser(s))
		userRoutes.GET("/:id", readUser(s))
		userRoutes.PUT("", updateUser(s))
		userRoutes.PATCH("/:id", patchUser(s))
		userRoutes.DELETE("/:id", deleteUser(s))
		if s.listAll {
			userRoutes.GET("", listUsers(s))
		}
	}

	return router
}

// RequestLogger logs each request once it has been served, tagged with a
// request id taken from the X-Request-ID header or freshly generated.
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Header(RequestIDHeader, requestID)

		c.Next()

		fields := []zap.Field{
			zap.String("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("remote_addr", c.ClientIP()),
		}

		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			logger.Error("Request failed", fields...)
		case len(c.Errors) > 0:
			logger.Warn("Request completed with errors", append(fields, zap.String("errors", c.Errors.String()))...)
		default:
			logger.Info("Request served", fields...)
		}
	}
}
