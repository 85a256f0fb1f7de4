package api

import (
	"net/http"

	"github.com/mmynk/listling/internal/middleware"
	"github.com/mmynk/listling/internal/models"
	"github.com/mmynk/listling/internal/service"
)

// principal pulls the authenticated principal out of the context. The
// auth middleware guarantees it is set on every guarded route.
func principal(r *http.Request) (models.Principal, bool) {
	return middleware.GetPrincipal(r.Context())
}

// authorizeList runs the per-request list authorization check and
// writes the error response when it fails.
func (a *API) authorizeList(w http.ResponseWriter, r *http.Request) (int64, models.Principal, bool) {
	p, ok := principal(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "authentication required"})
		return 0, models.Principal{}, false
	}
	listID, err := idParam(r, "list_id")
	if err != nil {
		writeError(w, r, err)
		return 0, models.Principal{}, false
	}
	if err := a.lists.Authorize(r.Context(), listID, p); err != nil {
		writeError(w, r, err)
		return 0, models.Principal{}, false
	}
	return listID, p, true
}

type createListRequest struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Items       []service.ItemInput `json:"items"`
	MemberIDs   []int64             `json:"member_ids"`
}

func (req *createListRequest) validate() error {
	if req.Title == "" {
		return service.Validationf("title is required")
	}
	if req.Description == "" {
		return service.Validationf("description is required")
	}
	for _, item := range req.Items {
		if item.Title == "" {
			return service.Validationf("item title is required")
		}
		if item.Amount < 1 {
			return service.Validationf("item amount must be a positive integer")
		}
	}
	return nil
}

// handleCreateList creates a list owned by the acting user.
func (a *API) handleCreateList(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "authentication required"})
		return
	}

	var req createListRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, r, err)
		return
	}

	list, err := a.lists.Create(r.Context(), p, service.CreateListInput{
		Title:       req.Title,
		Description: req.Description,
		Items:       req.Items,
		MemberIDs:   req.MemberIDs,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, list)
}

// handleListLists serves the paginated, scoped listing with optional
// is_owned and is_done filters.
func (a *API) handleListLists(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "authentication required"})
		return
	}

	limit, page, err := parsePagination(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	isOwned, err := queryBool(r, "is_owned")
	if err != nil {
		writeError(w, r, err)
		return
	}
	isDone, err := queryBool(r, "is_done")
	if err != nil {
		writeError(w, r, err)
		return
	}

	result, err := a.lists.List(r.Context(), p, service.ListFilter{
		Limit:   limit,
		Page:    page,
		IsOwned: isOwned,
		IsDone:  isDone,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleListActive serves the unpaginated active listing: lists with
// at least one open item, newest first.
func (a *API) handleListActive(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "authentication required"})
		return
	}

	lists, err := a.lists.ListActive(r.Context(), p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, lists)
}

// handleListHistory serves the paginated history listing: lists with
// no open items, including empty lists.
func (a *API) handleListHistory(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "authentication required"})
		return
	}

	limit, page, err := parsePagination(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	result, err := a.lists.ListHistory(r.Context(), p, limit, page)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleGetList returns the full projection of one list.
func (a *API) handleGetList(w http.ResponseWriter, r *http.Request) {
	listID, _, ok := a.authorizeList(w, r)
	if !ok {
		return
	}

	list, err := a.lists.Get(r.Context(), listID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

type updateListRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

func (req *updateListRequest) validate() error {
	if req.Title == nil && req.Description == nil {
		return service.Validationf("at least one of title or description is required")
	}
	if req.Title != nil && *req.Title == "" {
		return service.Validationf("title must not be empty")
	}
	if req.Description != nil && *req.Description == "" {
		return service.Validationf("description must not be empty")
	}
	return nil
}

// handleUpdateList applies a partial update to a list.
func (a *API) handleUpdateList(w http.ResponseWriter, r *http.Request) {
	listID, _, ok := a.authorizeList(w, r)
	if !ok {
		return
	}

	var req updateListRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, r, err)
		return
	}

	list, err := a.lists.Update(r.Context(), listID, service.UpdateListInput{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// handleDeleteList hard-deletes a list and returns the pre-delete
// snapshot.
func (a *API) handleDeleteList(w http.ResponseWriter, r *http.Request) {
	listID, _, ok := a.authorizeList(w, r)
	if !ok {
		return
	}

	list, err := a.lists.Delete(r.Context(), listID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}
