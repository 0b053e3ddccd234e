package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/nikolayk812/littlelemon/internal/domain"
	"github.com/rs/zerolog/hlog"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

var errorStatuses = []struct {
	err     error
	status  int
	code    string
	message string
}{
	// EmptyCart before NotFound: both answer 404 but carry different codes
	{domain.ErrEmptyCart, http.StatusNotFound, "empty_cart", "the cart is empty"},
	{domain.ErrNotFound, http.StatusNotFound, "not_found", "resource not found"},
	{domain.ErrInvalidAssignee, http.StatusBadRequest, "invalid_assignee", "assignee is not a member of the delivery crew"},
	{domain.ErrValidation, http.StatusBadRequest, "validation_error", "request is invalid"},
	{domain.ErrUnauthenticated, http.StatusUnauthorized, "unauthenticated", "authentication required"},
	{domain.ErrForbidden, http.StatusForbidden, "forbidden", "not allowed"},
	{domain.ErrConflict, http.StatusConflict, "conflict", "resource already exists or is still in use"},
	{domain.ErrRateLimited, http.StatusTooManyRequests, "rate_limited", "too many requests"},
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps err onto the error taxonomy. Only curated messages reach the
// client; unknown errors are logged and answered with a generic 500.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var limited *domain.RateLimitedError
	if errors.As(err, &limited) {
		w.Header().Set("Retry-After", strconv.Itoa(max(limited.RetryAfterSeconds(), 1)))
	}

	for _, e := range errorStatuses {
		if errors.Is(err, e.err) {
			writeJSON(w, e.status, ErrorResponse{Error: e.code, Message: clientMessage(err, e.message)})
			return
		}
	}

	hlog.FromRequest(r).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: http.StatusText(http.StatusInternalServerError),
	})
}

func clientMessage(err error, fallback string) string {
	var invalid *domain.ValidationError
	if errors.As(err, &invalid) {
		return invalid.Reason
	}
	return fallback
}
