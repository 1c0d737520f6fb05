package remoteserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"golang.org/x/time/rate"

	"github.com/NUMNIMx/noteflow/pkg/adapters/remote/httpremote"
)

// Context keys set by the middleware.
const (
	ctxRequestID = "requestId"
	ctxUserID    = "userId"
)

// requestID propagates X-Request-ID, generating one when absent.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Writer.Header().Set("X-Request-ID", id)
		c.Set(ctxRequestID, id)
		c.Next()
	}
}

// accessLog writes one structured line per request. Bodies are never logged.
func accessLog(logger *slog.Logger, clock clockwork.Clock) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := clock.Now()
		c.Next()

		attrs := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", clock.Since(start),
			"ip", c.ClientIP(),
			"request_id", c.GetString(ctxRequestID),
		}
		if uid := c.GetString(ctxUserID); uid != "" {
			attrs = append(attrs, "user", uid)
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, "error", c.Errors.String())
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			logger.Error("request", attrs...)
			return
		}
		logger.Info("request", attrs...)
	}
}

func abortWith(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, httpremote.ErrorBody{Code: code, Message: message})
}

// authenticate validates an HS256 bearer token and stores its subject as the user id.
func authenticate(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			abortWith(c, http.StatusUnauthorized, httpremote.CodeUnauthenticated, "bearer token required")
			return
		}
		uid, err := ParseToken(secret, raw)
		if err != nil {
			abortWith(c, http.StatusUnauthorized, httpremote.CodeUnauthenticated, "invalid token")
			return
		}
		c.Set(ctxUserID, uid)
		c.Next()
	}
}

// MintToken signs a token whose subject is uid.
func MintToken(secret []byte, uid string, now time.Time, ttl time.Duration) (string, error) {
	if uid == "" {
		return "", errors.New("user id is required")
	}
	claims := jwt.MapClaims{
		"sub": uid,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// ParseToken verifies raw and returns its subject.
func ParseToken(secret []byte, raw string) (string, error) {
	token, err := jwt.Parse(raw, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return secret, nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", jwt.ErrTokenSignatureInvalid
	}
	sub, err := token.Claims.GetSubject()
	if err != nil {
		return "", err
	}
	if sub == "" {
		return "", errors.New("token has no subject")
	}
	return sub, nil
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// limiterStore maps a user to its token bucket. Entries unused for
// staleAfter are pruned on access.
type limiterStore struct {
	mu         sync.Mutex
	entries    map[string]*limiterEntry
	limit      rate.Limit
	burst      int
	staleAfter time.Duration
	lastPrune  time.Time
	clock      clockwork.Clock
}

func newLimiterStore(limit rate.Limit, burst int, clock clockwork.Clock) *limiterStore {
	return &limiterStore{
		entries:    make(map[string]*limiterEntry),
		limit:      limit,
		burst:      burst,
		staleAfter: 10 * time.Minute,
		lastPrune:  clock.Now(),
		clock:      clock,
	}
}

func (s *limiterStore) get(key string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock.Now()
	if now.Sub(s.lastPrune) > s.staleAfter {
		for k, e := range s.entries {
			if now.Sub(e.lastSeen) > s.staleAfter {
				delete(s.entries, k)
			}
		}
		s.lastPrune = now
	}
	if e, ok := s.entries[key]; ok {
		e.lastSeen = now
		return e.limiter
	}
	lim := rate.NewLimiter(s.limit, s.burst)
	s.entries[key] = &limiterEntry{limiter: lim, lastSeen: now}
	return lim
}

// rateLimit applies a per-user token bucket. It must run after authenticate.
func rateLimit(store *limiterStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "uid:" + c.GetString(ctxUserID)
		if !store.get(key).AllowN(store.clock.Now(), 1) {
			c.Header("Retry-After", "1")
			abortWith(c, http.StatusTooManyRequests, httpremote.CodeRateLimited, "too many requests")
			return
		}
		c.Next()
	}
}
