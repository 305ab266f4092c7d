// Package devserver is a local stand-in for the news chat backend. It serves
// the same HTTP contract from memory so the client can be tried offline.
package devserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/iksnae/newschat/internal"
)

// Answerer produces the assistant reply for one chat turn. history holds the
// session's turns before message.
type Answerer func(ctx context.Context, sessionID, message string, history []internal.Turn) (string, error)

// EchoAnswerer answers by quoting the question back
func EchoAnswerer(_ context.Context, _ string, message string, history []internal.Turn) (string, error) {
	return fmt.Sprintf("You asked: %q\n\n_Dev backend, %d earlier turns in this session._", message, len(history)), nil
}

// Server serves the chat API from an in-memory Store
type Server struct {
	store          *Store
	answer         Answerer
	allowedOrigins []string
}

// Option configures a Server
type Option func(*Server)

// WithAnswerer replaces EchoAnswerer
func WithAnswerer(fn Answerer) Option {
	return func(s *Server) {
		s.answer = fn
	}
}

// WithAllowedOrigins sets the CORS origins, "*" allows any
func WithAllowedOrigins(origins []string) Option {
	return func(s *Server) {
		s.allowedOrigins = origins
	}
}

// WithStore shares a Store between servers or with tests
func WithStore(store *Store) Option {
	return func(s *Server) {
		s.store = store
	}
}

// New creates a Server
func New(opts ...Option) *Server {
	s := &Server{
		store:          NewStore(),
		answer:         EchoAnswerer,
		allowedOrigins: []string{"*"},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store returns the backing store
func (s *Server) Store() *Store {
	return s.store
}

// Handler builds the gin router
func (s *Server) Handler() http.Handler {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(requestLogger())
	router.Use(gin.Recovery())
	router.Use(cors.New(s.corsConfig()))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"sessions":  s.store.Len(),
			"timestamp": time.Now().Unix(),
		})
	})

	api := router.Group("/api")
	{
		api.GET("/session/:session_id/history", s.getHistory)
		api.DELETE("/session/:session_id/reset", s.resetSession)
		api.POST("/chat", s.chat)
	}

	return router
}

// Run serves on addr until ctx is canceled
func (s *Server) Run(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		internal.LogInfo("Dev backend listening on %s", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("dev backend failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	internal.LogInfo("Dev backend shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("dev backend shutdown failed: %w", err)
	}
	return nil
}

func (s *Server) corsConfig() cors.Config {
	cfg := cors.Config{
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
		MaxAge:       12 * time.Hour,
	}
	if len(s.allowedOrigins) == 0 || (len(s.allowedOrigins) == 1 && s.allowedOrigins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = s.allowedOrigins
	}
	return cfg
}

func (s *Server) getHistory(c *gin.Context) {
	sessionID := c.Param("session_id")
	c.JSON(http.StatusOK, internal.HistoryResponse{History: s.store.History(sessionID)})
}

func (s *Server) resetSession(c *gin.Context) {
	sessionID := c.Param("session_id")
	existed := s.store.Reset(sessionID)
	internal.Logger().WithField("session_id", sessionID).Debugf("Reset session (existed=%v)", existed)
	c.Status(http.StatusNoContent)
}

func (s *Server) chat(c *gin.Context) {
	var req internal.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	message := strings.TrimSpace(req.Message)
	if req.SessionID == "" || message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sessionId and message are required"})
		return
	}

	history := s.store.History(req.SessionID)
	answer, err := s.answer(c.Request.Context(), req.SessionID, message, history)
	if err != nil {
		internal.Logger().WithField("session_id", req.SessionID).WithError(err).Warn("answerer failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	s.store.Append(req.SessionID, internal.UserTurn(message), internal.AssistantTurn(answer))
	c.JSON(http.StatusOK, internal.ChatResponse{Answer: answer})
}

// requestLogger logs each request through the client's logger
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		internal.Logger().WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
		}).Debug("dev backend request")
	}
}
