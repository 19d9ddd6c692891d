package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"humanaid/internal/utils"
	"humanaid/pkg/types"

	"github.com/sirupsen/logrus"
)

type contextKey string

const (
	contextKeyRequestID contextKey = "request_id"
	contextKeyIdentity  contextKey = "identity"
	contextKeyUser      contextKey = "user"
)

const requestIDHeader = "X-Request-Id"

var errUnauthenticated = errors.New("authentication required")

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (s *Service) LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()

		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = utils.NanoID()
		}
		w.Header().Set(requestIDHeader, requestID)

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		ctx := context.WithValue(r.Context(), contextKeyRequestID, requestID)

		next.ServeHTTP(rw, r.WithContext(ctx))

		s.logger.WithFields(logrus.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      rw.statusCode,
			"duration_ms": time.Since(started).Milliseconds(),
			"request_id":  requestID,
		}).Info("http request")
	})
}

func (s *Service) requestLogger(r *http.Request) *logrus.Entry {
	requestID, _ := r.Context().Value(contextKeyRequestID).(string)
	return s.logger.WithFields(logrus.Fields{
		"method":     r.Method,
		"path":       r.URL.Path,
		"request_id": requestID,
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if len(header) < 7 || !strings.EqualFold(header[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}

func (s *Service) authenticate(r *http.Request) (*Identity, error) {
	raw := bearerToken(r)
	if raw == "" || s.verifier == nil {
		return nil, errUnauthenticated
	}

	identity, err := s.verifier.Verify(r.Context(), raw)
	if err != nil {
		return nil, err
	}

	return identity, nil
}

// RequireAuth verifies the bearer token and adds the caller's identity to
// the request context.
func (s *Service) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, err := s.authenticate(r)
		if err != nil {
			s.requestLogger(r).WithError(err).Debug("rejected unauthenticated request")
			writeMessage(w, http.StatusUnauthorized, "authentication required")
			return
		}

		s.requestLogger(r).WithField("subject", identity.Subject).Debug("authenticated user")

		ctx := context.WithValue(r.Context(), contextKeyIdentity, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalAuth attaches an identity when a valid token is present and lets
// anonymous requests through untouched.
func (s *Service) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if bearerToken(r) == "" {
			next.ServeHTTP(w, r)
			return
		}

		identity, err := s.authenticate(r)
		if err != nil {
			s.requestLogger(r).WithError(err).Warn("ignoring invalid bearer token")
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), contextKeyIdentity, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin must run after RequireAuth. It loads the caller's user row
// and rejects anyone without is_admin.
func (s *Service) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := s.currentUser(r.Context())
		if err != nil {
			if errors.Is(err, types.ErrUserNotFound) {
				writeMessage(w, http.StatusForbidden, "admin access required")
				return
			}
			s.writeError(w, r, err)
			return
		}

		if !user.IsAdmin {
			writeMessage(w, http.StatusForbidden, "admin access required")
			return
		}

		ctx := context.WithValue(r.Context(), contextKeyUser, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func identityFromContext(ctx context.Context) *Identity {
	identity, _ := ctx.Value(contextKeyIdentity).(*Identity)
	return identity
}

// currentUser resolves the authenticated identity to its user row.
func (s *Service) currentUser(ctx context.Context) (*types.User, error) {
	if user, ok := ctx.Value(contextKeyUser).(*types.User); ok {
		return user, nil
	}

	identity := identityFromContext(ctx)
	if identity == nil {
		return nil, errUnauthenticated
	}

	return s.users.UserByExternalUID(ctx, identity.Subject)
}

func (s *Service) StripTrailingSlash(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		// Only strip if path is not root and has trailing slash
		if path != "/" && strings.HasSuffix(path, "/") {
			newURL := *r.URL
			newURL.Path = strings.TrimSuffix(path, "/")

			// Preserve query string
			http.Redirect(w, r, newURL.String(), http.StatusMovedPermanently)
			return
		}

		next.ServeHTTP(w, r)
	})
}
