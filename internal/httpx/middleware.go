package httpx

import (
	"context"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/nikolayk812/littlelemon/internal/domain"
	"github.com/nikolayk812/littlelemon/internal/ratelimit"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
)

type callerKey struct{}

func withCaller(ctx context.Context, caller domain.Caller) context.Context {
	return context.WithValue(ctx, callerKey{}, caller)
}

// callerFrom returns the anonymous caller when Authenticate did not run.
func callerFrom(ctx context.Context) domain.Caller {
	caller, _ := ctx.Value(callerKey{}).(domain.Caller)
	return caller
}

// requestIDField adds chi's request id to the request logger.
func requestIDField(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := middleware.GetReqID(r.Context()); id != "" {
			hlog.FromRequest(r).UpdateContext(func(c zerolog.Context) zerolog.Context {
				return c.Str("request_id", id)
			})
		}
		next.ServeHTTP(w, r)
	})
}

// Authenticate resolves the identity header forwarded by the gateway into a
// caller with its groups. A missing header is the anonymous caller.
func (h *Handler) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller, err := h.groups.Identify(r.Context(), r.Header.Get(h.identityHeader))
		if err != nil {
			h.writeError(w, r, err)
			return
		}

		if caller.Authenticated() {
			hlog.FromRequest(r).UpdateContext(func(c zerolog.Context) zerolog.Context {
				return c.Str("user_id", caller.UserID).Stringer("role", caller.Role)
			})
		}

		next.ServeHTTP(w, r.WithContext(withCaller(r.Context(), caller)))
	})
}

// Throttle spends one request of the caller's budget before any membership
// lookup. Requests carrying the identity header are counted per user,
// anonymous ones per client address. Limiter errors let the request through.
func (h *Handler) Throttle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.limiter == nil {
			next.ServeHTTP(w, r)
			return
		}

		class, bucket := ratelimit.ClassAnon, clientIP(r)
		if userID := r.Header.Get(h.identityHeader); userID != "" {
			class, bucket = ratelimit.ClassUser, userID
		}

		decision, err := h.limiter.Allow(r.Context(), class, bucket)
		if err != nil {
			hlog.FromRequest(r).Warn().Err(err).Str("class", class).Msg("rate limiter unavailable")
			next.ServeHTTP(w, r)
			return
		}

		if !decision.Allowed {
			h.writeError(w, r, &domain.RateLimitedError{RetryAfter: decision.RetryAfter})
			return
		}

		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
