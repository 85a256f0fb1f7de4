package api

import (
	"net/http"

	"github.com/mmynk/listling/internal/service"
)

// handleFindUsers serves the paginated user directory with optional
// search and exclusions. Backs the member picker.
func (a *API) handleFindUsers(w http.ResponseWriter, r *http.Request) {
	limit, page, err := parsePagination(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	search := r.URL.Query().Get("search")
	if search != "" && len(search) < 3 {
		writeError(w, r, service.Validationf("search must be at least 3 characters"))
		return
	}

	excludeIDs, err := queryIDs(r, "exclude_ids")
	if err != nil {
		writeError(w, r, err)
		return
	}

	result, err := a.users.Find(r.Context(), service.UserFilter{
		Limit:      limit,
		Page:       page,
		Search:     search,
		ExcludeIDs: excludeIDs,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
