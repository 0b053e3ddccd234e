package httpx

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/rs/zerolog/hlog"
)

const apiPrefix = "/api/v1"

func NewRouter(h *Handler, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(hlog.NewHandler(h.log))
	r.Use(requestIDField)
	r.Use(hlog.AccessHandler(accessLog))
	r.Use(middleware.Recoverer)
	r.Use(cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete,
		},
		AllowedHeaders: []string{"Content-Type", h.identityHeader},
		ExposedHeaders: []string{"Retry-After"},
	}).Handler)

	r.Get("/healthz", h.Healthz)

	r.Route(apiPrefix, func(r chi.Router) {
		r.Use(h.Throttle)
		r.Use(h.Authenticate)

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", h.ListOrders)
			r.Post("/", h.PlaceOrder)
			r.Get("/{id}", h.GetOrder)
			r.Put("/{id}", h.ReplaceOrder)
			r.Patch("/{id}", h.PatchOrder)
			r.Delete("/{id}", h.DeleteOrder)
		})

		r.Route("/cart/menu-items", func(r chi.Router) {
			r.Get("/", h.GetCart)
			r.Post("/", h.AddCartItem)
			r.Delete("/", h.ClearCart)
			r.Delete("/{id}", h.RemoveCartItem)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", h.ListCategories)
			r.Post("/", h.CreateCategory)
			r.Get("/{id}", h.GetCategory)
			r.Delete("/{id}", h.DeleteCategory)
		})

		r.Route("/menu-items", func(r chi.Router) {
			r.Get("/", h.ListMenuItems)
			r.Post("/", h.CreateMenuItem)
			r.Get("/{id}", h.GetMenuItem)
			r.Put("/{id}", h.ReplaceMenuItem)
			r.Patch("/{id}", h.PatchMenuItem)
			r.Delete("/{id}", h.DeleteMenuItem)
		})

		r.Get("/book-categories", h.ListBookCategories)
		r.Post("/book-categories", h.CreateBookCategory)

		r.Route("/books", func(r chi.Router) {
			r.Get("/", h.ListBooks)
			r.Post("/", h.CreateBook)
			r.Get("/{id}", h.GetBook)
			r.Put("/{id}", h.ReplaceBook)
			r.Patch("/{id}", h.PatchBook)
			r.Delete("/{id}", h.DeleteBook)
		})

		r.Get("/ratings", h.ListRatings)
		r.Post("/ratings", h.RateBook)

		r.Route("/groups/{group}/users", func(r chi.Router) {
			r.Get("/", h.ListGroupMembers)
			r.Post("/", h.AddGroupMember)
			r.Delete("/{userID}", h.RemoveGroupMember)
		})
	})

	return r
}

func accessLog(r *http.Request, status, size int, duration time.Duration) {
	hlog.FromRequest(r).Info().
		Str("method", r.Method).
		Stringer("url", r.URL).
		Int("status", status).
		Int("size", size).
		Dur("duration", duration).
		Msg("request")
}
