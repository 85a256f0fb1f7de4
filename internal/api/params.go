package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mmynk/listling/internal/service"
)

const (
	defaultPageSize = 50
	maxPageSize     = 50
)

// parsePagination reads limit and page from the query string with
// defaults limit=50, page=1. Limit must be in [1,50] and page at
// least 1.
func parsePagination(r *http.Request) (limit, page int, err error) {
	limit = defaultPageSize
	page = 1

	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > maxPageSize {
			return 0, 0, service.Validationf("limit must be an integer between 1 and %d", maxPageSize)
		}
	}
	if raw := r.URL.Query().Get("page"); raw != "" {
		page, err = strconv.Atoi(raw)
		if err != nil || page < 1 {
			return 0, 0, service.Validationf("page must be a positive integer")
		}
	}
	return limit, page, nil
}

// queryBool reads an optional boolean query parameter; nil when
// absent.
func queryBool(r *http.Request, name string) (*bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	val, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, service.Validationf("%s must be a boolean", name)
	}
	return &val, nil
}

// queryIDs reads an optional comma-separated id list query parameter.
func queryIDs(r *http.Request, name string) ([]int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil || id < 1 {
			return nil, service.Validationf("%s must be a comma-separated list of ids", name)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// idParam reads a positive integer URL parameter.
func idParam(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id < 1 {
		return 0, service.Validationf("%s must be a positive integer", name)
	}
	return id, nil
}
