package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/rs/xid"

	"blogapi/internal/apperror"
	"blogapi/internal/auth"
	handlers "blogapi/internal/handler"
)

type Middleware func(http.Handler) http.Handler

const (
	tokenCookie     = "token"
	requestIDHeader = "X-Request-ID"
)

var bearerPattern = regexp.MustCompile(`^Bearer (?P<token>[a-zA-Z0-9\-_.]+)$`)

var ErrMalformedHeader = errors.New("authorization header is not a bearer token")

// ExtractToken reads the bearer token from the Authorization header, falling
// back to the token cookie. An empty result means no credentials were sent.
func ExtractToken(r *http.Request) (string, error) {
	if header := r.Header.Get("Authorization"); header != "" {
		match := bearerPattern.FindStringSubmatch(header)
		if match == nil {
			return "", ErrMalformedHeader
		}
		return match[bearerPattern.SubexpIndex("token")], nil
	}

	if cookie, err := r.Cookie(tokenCookie); err == nil {
		return cookie.Value, nil
	}

	return "", nil
}

// AuthMiddleware attaches verified claims to the request context. Missing
// and expired tokens leave the request anonymous; anything else is rejected.
func AuthMiddleware(tokens *auth.TokenCodec) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, err := ExtractToken(r)
			if err != nil {
				handlers.WriteError(w, apperror.Wrap(apperror.KindMalformedHeader, err.Error(), err))
				return
			}

			claims, err := tokens.Verify(raw)
			if err != nil {
				if auth.Soft(err) {
					next.ServeHTTP(w, r)
					return
				}
				handlers.WriteError(w, apperror.Wrap(apperror.KindInvalidToken, err.Error(), err))
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithClaims(r.Context(), claims)))
		})
	}
}

func RequireIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := auth.ClaimsFromContext(r.Context()); !ok {
			handlers.WriteError(w, apperror.New(apperror.KindUnauthenticated, "authentication required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// CORSMiddleware echoes allowed origins with credentials enabled. An empty
// allow-list accepts every origin.
func CORSMiddleware(allowedOrigins []string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && (len(allowedOrigins) == 0 || slices.Contains(allowedOrigins, origin)) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Credentials", "true")
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
				w.Header().Add("Vary", "Origin")
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := strings.TrimSpace(r.Header.Get(requestIDHeader))
		if requestID == "" {
			requestID = xid.New().String()
		}
		w.Header().Set(requestIDHeader, requestID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)

		slog.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
			"request_id", requestID,
		)
	})
}

// Chain wraps h so that the last middleware runs first.
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for _, m := range middlewares {
		h = m(h)
	}
	return h
}
