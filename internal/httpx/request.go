package httpx

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/nikolayk812/littlelemon/internal/domain"
)

const maxBodyBytes = 1 << 20

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return domain.Invalid("request body is not valid JSON")
	}
	return nil
}

// pathID parses a uuid route parameter. A malformed id cannot name anything,
// so it is reported as not found.
func pathID(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s %q: %w", name, raw, domain.ErrNotFound)
	}
	return id, nil
}

// parseListQuery reads paging, search, ordering and the filters a listing
// accepts. Filters that do not apply to a listing are ignored.
func parseListQuery(values url.Values, ordering []string) (domain.ListQuery, error) {
	var (
		q   domain.ListQuery
		err error
	)

	if q.Page, err = intParam(values, "page"); err != nil {
		return q, err
	}
	if q.PageSize, err = intParam(values, "page_size", "perpage"); err != nil {
		return q, err
	}

	q.Search = values.Get("search")

	if q.Ordering, err = domain.ParseOrdering(values.Get("ordering"), ordering); err != nil {
		return q, err
	}

	if raw := values.Get("category"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return q, domain.Invalid("category must be an id")
		}
		q.CategoryID = &id
	}

	if q.Featured, err = boolParam(values, "featured"); err != nil {
		return q, err
	}
	if q.Delivered, err = boolParam(values, "status"); err != nil {
		return q, err
	}

	return q, nil
}

// intParam reads the first of names that is present.
func intParam(values url.Values, names ...string) (int, error) {
	for _, name := range names {
		raw := values.Get(name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return 0, domain.Invalid("%s must be a number", name)
		}
		return n, nil
	}
	return 0, nil
}

func boolParam(values url.Values, name string) (*bool, error) {
	raw := values.Get(name)
	if raw == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, domain.Invalid("%s must be true or false", name)
	}
	return &b, nil
}
