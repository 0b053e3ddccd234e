package httpx

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/nikolayk812/littlelemon/internal/domain"
	"github.com/nikolayk812/littlelemon/internal/service"
	"golang.org/x/text/currency"
)

func (h *Handler) ListBookCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.books.ListBookCategories(r.Context(), callerFrom(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, mapAll(categories, toBookCategory))
}

func (h *Handler) CreateBookCategory(w http.ResponseWriter, r *http.Request) {
	var req BookCategoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	category, err := h.books.CreateBookCategory(r.Context(), callerFrom(r.Context()), req.Name)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toBookCategory(category))
}

func (h *Handler) ListBooks(w http.ResponseWriter, r *http.Request) {
	query, err := parseListQuery(r.URL.Query(), domain.BookOrderingFields)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	page, err := h.books.ListBooks(r.Context(), callerFrom(r.Context()), query)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toPage(page, toBook))
}

func (h *Handler) GetBook(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	book, err := h.books.GetBook(r.Context(), callerFrom(r.Context()), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toBook(book))
}

func (h *Handler) CreateBook(w http.ResponseWriter, r *http.Request) {
	var req BookRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	book, err := h.books.CreateBook(r.Context(), callerFrom(r.Context()), req.input())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toBook(book))
}

func (h *Handler) ReplaceBook(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var req BookRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	book, err := h.books.ReplaceBook(r.Context(), callerFrom(r.Context()), id, req.input())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toBook(book))
}

func (h *Handler) PatchBook(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var req BookPatchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	patch := domain.BookPatch{Title: req.Title, Author: req.Author, CategoryID: req.Category}
	if req.Price != nil {
		p := domain.NewMoney(*req.Price, currency.Unit{})
		patch.Price = &p
	}

	book, err := h.books.PatchBook(r.Context(), callerFrom(r.Context()), id, patch)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toBook(book))
}

func (h *Handler) DeleteBook(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.books.DeleteBook(r.Context(), callerFrom(r.Context()), id); err != nil {
		h.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListRatings accepts an optional ?book= filter.
func (h *Handler) ListRatings(w http.ResponseWriter, r *http.Request) {
	var bookID *uuid.UUID
	if raw := r.URL.Query().Get("book"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.writeError(w, r, domain.Invalid("book must be an id"))
			return
		}
		bookID = &id
	}

	ratings, err := h.books.ListRatings(r.Context(), callerFrom(r.Context()), bookID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, mapAll(ratings, toRating))
}

func (h *Handler) RateBook(w http.ResponseWriter, r *http.Request) {
	var req RatingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if req.Rating == nil {
		h.writeError(w, r, domain.Invalid("rating is required"))
		return
	}

	rating, err := h.books.RateBook(r.Context(), callerFrom(r.Context()), req.Book, *req.Rating)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toRating(rating))
}

func (r BookRequest) input() service.BookInput {
	return service.BookInput{
		Title:      r.Title,
		Author:     r.Author,
		CategoryID: r.Category,
		Price:      r.Price,
	}
}
