package api

import (
	"net/http"

	"github.com/mmynk/listling/internal/service"
)

type addMembersRequest struct {
	UserIDs []int64 `json:"user_ids"`
}

// handleListMembers returns the public projections of the list's
// members.
func (a *API) handleListMembers(w http.ResponseWriter, r *http.Request) {
	listID, _, ok := a.authorizeList(w, r)
	if !ok {
		return
	}

	members, err := a.members.ListMembers(r.Context(), listID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, members)
}

// handleAddMembers grants membership to the named users. The add is
// idempotent: pairs that already exist are absorbed, not errored.
func (a *API) handleAddMembers(w http.ResponseWriter, r *http.Request) {
	listID, _, ok := a.authorizeList(w, r)
	if !ok {
		return
	}

	var req addMembersRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if len(req.UserIDs) == 0 {
		writeError(w, r, service.Validationf("user_ids must not be empty"))
		return
	}

	members, err := a.members.AddMembers(r.Context(), listID, req.UserIDs)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, members)
}

// handleRemoveMember revokes one user's membership.
func (a *API) handleRemoveMember(w http.ResponseWriter, r *http.Request) {
	listID, _, ok := a.authorizeList(w, r)
	if !ok {
		return
	}
	userID, err := idParam(r, "user_id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	member, err := a.members.RemoveMember(r.Context(), listID, userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, member)
}
