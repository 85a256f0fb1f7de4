package api

import (
	"net/http"

	"github.com/mmynk/listling/internal/service"
)

type createItemRequest struct {
	Title  string `json:"title"`
	Amount int64  `json:"amount"`
}

func (req *createItemRequest) validate() error {
	if req.Title == "" {
		return service.Validationf("title is required")
	}
	if req.Amount < 1 {
		return service.Validationf("amount must be a positive integer")
	}
	return nil
}

// handleCreateItem adds an open item to the list.
func (a *API) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	listID, _, ok := a.authorizeList(w, r)
	if !ok {
		return
	}

	var req createItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, r, err)
		return
	}

	item, err := a.lists.CreateItem(r.Context(), listID, service.ItemInput{
		Title:  req.Title,
		Amount: req.Amount,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

type updateItemRequest struct {
	Title  *string `json:"title"`
	Amount *int64  `json:"amount"`
	Status *bool   `json:"status"`
}

func (req *updateItemRequest) validate() error {
	if req.Title == nil && req.Amount == nil && req.Status == nil {
		return service.Validationf("at least one of title, amount or status is required")
	}
	if req.Title != nil && *req.Title == "" {
		return service.Validationf("title must not be empty")
	}
	if req.Amount != nil && *req.Amount < 1 {
		return service.Validationf("amount must be a positive integer")
	}
	return nil
}

// handleUpdateItem applies a partial update to an item of the list.
func (a *API) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	listID, _, ok := a.authorizeList(w, r)
	if !ok {
		return
	}
	itemID, err := idParam(r, "item_id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req updateItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, r, err)
		return
	}

	item, err := a.lists.UpdateItem(r.Context(), listID, itemID, service.UpdateItemInput{
		Title:  req.Title,
		Amount: req.Amount,
		Status: req.Status,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// handleDeleteItem removes an item and returns the pre-delete
// snapshot.
func (a *API) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	listID, _, ok := a.authorizeList(w, r)
	if !ok {
		return
	}
	itemID, err := idParam(r, "item_id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	item, err := a.lists.DeleteItem(r.Context(), listID, itemID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}
