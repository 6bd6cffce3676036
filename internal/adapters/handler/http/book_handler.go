package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/vncsmyrnk/bookswap/internal/core/ports"
)

type BookHandler struct {
	service       ports.BookService
	maxUploadSize int64
	log           *zap.Logger
}

func NewBookHandler(service ports.BookService, maxUploadSize int64, log *zap.Logger) *BookHandler {
	return &BookHandler{
		service:       service,
		maxUploadSize: maxUploadSize,
		log:           log,
	}
}

type locationRequest struct {
	City  *string `json:"city"`
	State *string `json:"state"`
}

type bookRequest struct {
	Title    *string          `json:"title"`
	Author   *string          `json:"author"`
	Genre    *string          `json:"genre"`
	Location *locationRequest `json:"location"`
}

// readBookRequest accepts JSON, urlencoded or multipart bodies. Form
// bodies carry the location as location[city] and location[state].
func (h *BookHandler) readBookRequest(w http.ResponseWriter, r *http.Request) (bookRequest, *ports.CoverImage, error) {
	var req bookRequest
	if isJSON(r) {
		if err := decodeJSON(w, r, &req); err != nil {
			return req, nil, err
		}
		return req, nil, nil
	}

	if err := parseForm(w, r, h.maxUploadSize); err != nil {
		return req, nil, err
	}
	req.Title = formValue(r, "title")
	req.Author = formValue(r, "author")
	req.Genre = formValue(r, "genre")

	city, state := formValue(r, "location[city]"), formValue(r, "location[state]")
	if city != nil || state != nil {
		req.Location = &locationRequest{City: city, State: state}
	}

	cover, err := readCover(r, h.maxUploadSize)
	if err != nil {
		return req, nil, err
	}
	return req, cover, nil
}

func (h *BookHandler) ListBook(w http.ResponseWriter, r *http.Request) {
	req, cover, err := h.readBookRequest(w, r)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	input := ports.CreateBookInput{
		Title:  deref(req.Title),
		Author: deref(req.Author),
		Genre:  deref(req.Genre),
		Cover:  cover,
	}
	if req.Location != nil {
		input.City = deref(req.Location.City)
		input.State = deref(req.Location.State)
	}

	book, err := h.service.ListBook(r.Context(), CurrentUser(r), input)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	respond(w, http.StatusCreated, book, "Book listed successfully")
}

func (h *BookHandler) UpdateBook(w http.ResponseWriter, r *http.Request) {
	req, cover, err := h.readBookRequest(w, r)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	input := ports.UpdateBookInput{
		Title:  req.Title,
		Author: req.Author,
		Genre:  req.Genre,
		Cover:  cover,
	}
	if req.Location != nil {
		input.City = req.Location.City
		input.State = req.Location.State
	}

	book, err := h.service.UpdateBook(r.Context(), CurrentUser(r), chi.URLParam(r, "id"), input)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	respond(w, http.StatusCreated, book, "Book updated successfully")
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *BookHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if isJSON(r) {
		if err := decodeJSON(w, r, &req); err != nil {
			respondError(w, r, h.log, err)
			return
		}
	} else {
		if err := parseForm(w, r, 0); err != nil {
			respondError(w, r, h.log, err)
			return
		}
		req.Status = r.PostFormValue("status")
	}

	book, err := h.service.UpdateStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	respond(w, http.StatusOK, book, "Book status updated successfully")
}

func (h *BookHandler) ListBooks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	result, err := h.service.ListBooks(r.Context(), ports.ListBooksInput{
		Page:  page,
		Limit: limit,
		Title: q.Get("title"),
		City:  q.Get("city"),
		State: q.Get("state"),
	})
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	respond(w, http.StatusOK, result, "Books fetched successfully")
}

func (h *BookHandler) GetBook(w http.ResponseWriter, r *http.Request) {
	book, err := h.service.GetBook(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	respond(w, http.StatusOK, map[string]any{"book": book}, "Book fetched successfully")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
