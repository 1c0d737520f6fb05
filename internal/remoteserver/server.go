// Package remoteserver exposes a core.RemoteStore over HTTP for
// httpremote clients.
package remoteserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"golang.org/x/time/rate"

	"github.com/NUMNIMx/noteflow/pkg/adapters/remote/httpremote"
	"github.com/NUMNIMx/noteflow/pkg/core"
)

// Defaults for Config.
const (
	DefaultRateRPS      = 5
	DefaultRateBurst    = 20
	DefaultStoreTimeout = 8 * time.Second
	// MaxDocumentBytes bounds a PUT body.
	MaxDocumentBytes = 8 << 20
)

// Config configures a Server.
type Config struct {
	Store        core.RemoteStore
	JWTSecret    []byte
	RateRPS      float64
	RateBurst    int
	StoreTimeout time.Duration
	Logger       *slog.Logger
	Clock        clockwork.Clock
}

// Server routes document requests to the backing store.
type Server struct {
	cfg    Config
	router *gin.Engine
}

// New builds the router. The secret must not be empty.
func New(cfg Config) (*Server, error) {
	if cfg.Store == nil {
		return nil, errors.New("remoteserver: store is required")
	}
	if len(cfg.JWTSecret) == 0 {
		return nil, errors.New("remoteserver: jwt secret is required")
	}
	if cfg.RateRPS <= 0 {
		cfg.RateRPS = DefaultRateRPS
	}
	if cfg.RateBurst <= 0 {
		cfg.RateBurst = DefaultRateBurst
	}
	if cfg.StoreTimeout <= 0 {
		cfg.StoreTimeout = DefaultStoreTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}

	s := &Server{cfg: cfg}
	r := gin.New()
	r.Use(requestID())
	r.Use(accessLog(cfg.Logger, cfg.Clock))
	r.Use(gin.Recovery())

	r.GET("/healthz", s.health)

	docs := r.Group(httpremote.DocumentsPath,
		authenticate(cfg.JWTSecret),
		rateLimit(newLimiterStore(rate.Limit(cfg.RateRPS), cfg.RateBurst, cfg.Clock)),
	)
	docs.GET(":uid", s.getDocument)
	docs.PUT(":uid", s.putDocument)

	s.router = r
	return s, nil
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	lifecycle.Go(ctx, func(context.Context) error {
		s.cfg.Logger.Info("remote server listening", "addr", addr)
		errc <- srv.ListenAndServe()
		return nil
	}, lifecycle.WithErrorHandler(func(err error) {
		select {
		case errc <- fmt.Errorf("listener panicked: %w", err):
		default:
		}
	}))

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": s.cfg.Clock.Now().UTC().Format(time.RFC3339),
	})
}

// owner checks that the path user matches the token subject.
func (s *Server) owner(c *gin.Context) (string, bool) {
	uid := c.Param("uid")
	if uid == "" || uid != c.GetString(ctxUserID) {
		abortWith(c, http.StatusForbidden, httpremote.CodePermissionDenied, "token does not grant access to this document")
		return "", false
	}
	return uid, true
}

func (s *Server) getDocument(c *gin.Context) {
	uid, ok := s.owner(c)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), s.cfg.StoreTimeout)
	defer cancel()

	rec, found, err := s.cfg.Store.Read(ctx, core.UserKey(uid))
	if err != nil {
		s.storeError(c, err)
		return
	}
	if !found {
		abortWith(c, http.StatusNotFound, httpremote.CodeDocumentAbsent, "no document for this user")
		return
	}
	c.JSON(http.StatusOK, httpremote.Document{State: string(rec.Payload), UpdatedAt: rec.UpdatedAt})
}

func (s *Server) putDocument(c *gin.Context) {
	uid, ok := s.owner(c)
	if !ok {
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxDocumentBytes)

	var doc httpremote.Document
	if err := c.ShouldBindJSON(&doc); err != nil {
		abortWith(c, http.StatusBadRequest, httpremote.CodeBadRequest, err.Error())
		return
	}
	if !json.Valid([]byte(doc.State)) {
		abortWith(c, http.StatusBadRequest, httpremote.CodeBadRequest, "state_str must hold a JSON document")
		return
	}
	if doc.UpdatedAt == 0 {
		doc.UpdatedAt = s.cfg.Clock.Now().UnixMilli()
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.cfg.StoreTimeout)
	defer cancel()

	if err := s.cfg.Store.Write(ctx, core.UserKey(uid), core.Record{Payload: []byte(doc.State), UpdatedAt: doc.UpdatedAt}); err != nil {
		s.storeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// storeError maps a backing store failure onto the wire error codes.
func (s *Server) storeError(c *gin.Context, err error) {
	_ = c.Error(err)
	switch {
	case errors.Is(err, core.ErrNotProvisioned):
		abortWith(c, http.StatusNotFound, httpremote.CodeNotFound, "remote database has not been provisioned")
	case errors.Is(err, core.ErrPermissionDenied):
		abortWith(c, http.StatusForbidden, httpremote.CodePermissionDenied, "backing store denied access")
	case errors.Is(err, core.ErrRemoteTimeout), errors.Is(err, context.DeadlineExceeded):
		abortWith(c, http.StatusGatewayTimeout, httpremote.CodeTimeout, "backing store did not respond")
	default:
		abortWith(c, http.StatusInternalServerError, httpremote.CodeUnknown, "backing store failed")
	}
}
