// Package api exposes the HTTP surface of the list backend: JSON
// handlers on a chi router, with validation at the edge and the
// service layer behind it.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mmynk/listling/internal/auth"
	"github.com/mmynk/listling/internal/middleware"
	"github.com/mmynk/listling/internal/service"
)

// API bundles the services behind the HTTP handlers.
type API struct {
	auth    *service.AuthService
	users   *service.UserService
	lists   *service.ListService
	members *service.MemberService
}

// New creates the API with its service dependencies.
func New(authSvc *service.AuthService, users *service.UserService, lists *service.ListService, members *service.MemberService) *API {
	return &API{
		auth:    authSvc,
		users:   users,
		lists:   lists,
		members: members,
	}
}

// Router builds the full route tree. Everything below /lists and
// /users requires a valid bearer token.
func (a *API) Router(tokens *auth.JWTManager) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", a.handleRegister)
		r.Post("/login", a.handleLogin)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(tokens))

		r.Get("/users", a.handleFindUsers)

		r.Route("/lists", func(r chi.Router) {
			r.Post("/", a.handleCreateList)
			r.Get("/", a.handleListLists)
			r.Get("/active", a.handleListActive)
			r.Get("/history", a.handleListHistory)

			r.Route("/{list_id}", func(r chi.Router) {
				r.Get("/", a.handleGetList)
				r.Put("/", a.handleUpdateList)
				r.Delete("/", a.handleDeleteList)

				r.Post("/items", a.handleCreateItem)
				r.Put("/items/{item_id}", a.handleUpdateItem)
				r.Delete("/items/{item_id}", a.handleDeleteItem)

				r.Get("/members", a.handleListMembers)
				r.Post("/members", a.handleAddMembers)
				r.Delete("/members/{user_id}", a.handleRemoveMember)
			})
		})
	})

	return r
}
