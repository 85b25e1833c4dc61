package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/fourloop/sourceflow/internal/domain"
	"github.com/fourloop/sourceflow/internal/service"
	"github.com/fourloop/sourceflow/internal/view"
	"go.uber.org/zap"
)

type RequestHandler struct {
	requestService *service.RequestService
	renderer       *view.Renderer
	logger         *zap.Logger
	maxFormBytes   int64
}

func NewRequestHandler(requestService *service.RequestService, renderer *view.Renderer, maxFormBytes int64, logger *zap.Logger) *RequestHandler {
	return &RequestHandler{
		requestService: requestService,
		renderer:       renderer,
		logger:         logger,
		maxFormBytes:   maxFormBytes,
	}
}

// Home redirects to the request list
func (h *RequestHandler) Home(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/requests", http.StatusSeeOther)
}

// List renders every request, newest first
func (h *RequestHandler) List(w http.ResponseWriter, r *http.Request) {
	requests, err := h.requestService.List(r.Context())
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, view.PageList, "Requests", view.ListData{Requests: requests})
}

// New renders the empty create form
func (h *RequestHandler) New(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, http.StatusOK, 0, domain.RequestForm{}, nil)
}

// Create stores a new request and redirects to its detail page
func (h *RequestHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(w, r, h.maxFormBytes); err != nil {
		h.badRequest(w, r, "The submitted form could not be read.", "/requests/new")
		return
	}

	form := requestFormFrom(r)
	if err := validate.Struct(&form); err != nil {
		h.renderForm(w, r, http.StatusBadRequest, 0, form, validationErrors(err))
		return
	}

	input, err := form.ToInput()
	if err != nil {
		h.renderForm(w, r, http.StatusBadRequest, 0, form, conversionErrors(err))
		return
	}

	request, err := h.requestService.Create(r.Context(), input)
	if err != nil {
		if errors.Is(err, service.ErrUnknownStatus) {
			h.renderForm(w, r, http.StatusBadRequest, 0, form, domain.FieldErrors{"status_id": "Unknown status"})
			return
		}
		h.internalError(w, r, err)
		return
	}

	http.Redirect(w, r, requestURL(request.ID), http.StatusSeeOther)
}

// Show renders the detail page of one request
func (h *RequestHandler) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		h.notFound(w, r)
		return
	}
	h.renderDetail(w, r, http.StatusOK, id, "", "")
}

// Edit renders the edit form pre-filled with the stored request
func (h *RequestHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		h.notFound(w, r)
		return
	}

	form, err := h.requestService.GetForm(r.Context(), id)
	if err != nil {
		h.handleLookupError(w, r, err)
		return
	}
	h.renderForm(w, r, http.StatusOK, id, *form, nil)
}

// Update stores the edited request and redirects to its detail page
func (h *RequestHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		h.notFound(w, r)
		return
	}

	if _, err := h.requestService.Get(r.Context(), id); err != nil {
		h.handleLookupError(w, r, err)
		return
	}

	if err := parseForm(w, r, h.maxFormBytes); err != nil {
		h.badRequest(w, r, "The submitted form could not be read.", editURL(id))
		return
	}

	form := requestFormFrom(r)
	if err := validate.Struct(&form); err != nil {
		h.renderForm(w, r, http.StatusBadRequest, id, form, validationErrors(err))
		return
	}

	input, err := form.ToInput()
	if err != nil {
		h.renderForm(w, r, http.StatusBadRequest, id, form, conversionErrors(err))
		return
	}

	if err := h.requestService.Update(r.Context(), id, input); err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownStatus):
			h.renderForm(w, r, http.StatusBadRequest, id, form, domain.FieldErrors{"status_id": "Unknown status"})
		case errors.Is(err, service.ErrRequestNotFound):
			h.notFound(w, r)
		default:
			h.internalError(w, r, err)
		}
		return
	}

	http.Redirect(w, r, requestURL(id), http.StatusSeeOther)
}

// AddNote appends a note from the detail page
func (h *RequestHandler) AddNote(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		h.notFound(w, r)
		return
	}

	if err := parseForm(w, r, h.maxFormBytes); err != nil {
		h.badRequest(w, r, "The submitted form could not be read.", requestURL(id))
		return
	}

	form := domain.NoteForm{Notes: strings.TrimSpace(r.PostForm.Get("notes"))}
	if err := validate.Struct(&form); err != nil {
		h.renderDetail(w, r, http.StatusBadRequest, id, form.Notes, validationErrors(err)["notes"])
		return
	}

	if err := h.requestService.AddNote(r.Context(), id, form.Notes); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			h.renderDetail(w, r, http.StatusBadRequest, id, form.Notes, "Note is required")
		default:
			h.handleLookupError(w, r, err)
		}
		return
	}

	http.Redirect(w, r, requestURL(id), http.StatusSeeOther)
}

// Delete removes a request with its notes and redirects to the list
func (h *RequestHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		h.notFound(w, r)
		return
	}

	if err := h.requestService.Delete(r.Context(), id); err != nil {
		h.handleLookupError(w, r, err)
		return
	}

	http.Redirect(w, r, "/requests", http.StatusSeeOther)
}

// NotFound renders the 404 page for unmatched routes
func (h *RequestHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.renderError(w, r, http.StatusNotFound, "Not found", "Page not found.", "/requests")
}

func (h *RequestHandler) renderForm(w http.ResponseWriter, r *http.Request, status int, id int64, form domain.RequestForm, errs domain.FieldErrors) {
	statuses, err := h.requestService.ListStatusOptions(r.Context(), form.StatusID)
	if err != nil {
		h.internalError(w, r, err)
		return
	}

	data := view.FormData{RequestID: id, Form: form, Errors: errs, Statuses: statuses}
	if id == 0 {
		h.render(w, r, status, view.PageNew, "New Request", data)
		return
	}
	h.render(w, r, status, view.PageEdit, fmt.Sprintf("Edit Request #%d", id), data)
}

func (h *RequestHandler) renderDetail(w http.ResponseWriter, r *http.Request, status int, id int64, noteText, noteError string) {
	detail, err := h.requestService.GetDetail(r.Context(), id)
	if err != nil {
		h.handleLookupError(w, r, err)
		return
	}

	data := view.DetailData{Detail: detail, NoteText: noteText, NoteError: noteError}
	h.render(w, r, status, view.PageDetail, fmt.Sprintf("Request #%d", id), data)
}

// handleLookupError answers 404 for a missing request and 500 otherwise
func (h *RequestHandler) handleLookupError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, service.ErrRequestNotFound) {
		h.notFound(w, r)
		return
	}
	h.internalError(w, r, err)
}

func (h *RequestHandler) notFound(w http.ResponseWriter, r *http.Request) {
	h.renderError(w, r, http.StatusNotFound, "Not found", "Request not found.", "/requests")
}

func (h *RequestHandler) badRequest(w http.ResponseWriter, r *http.Request, message, backURL string) {
	h.renderError(w, r, http.StatusBadRequest, "Bad request", message, backURL)
}

func (h *RequestHandler) internalError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error("Request handling failed",
		zap.Error(err),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	)
	h.InternalServerError(w, r)
}

// InternalServerError renders the 500 page. The caller logs the cause.
func (h *RequestHandler) InternalServerError(w http.ResponseWriter, r *http.Request) {
	h.renderError(w, r, http.StatusInternalServerError, "Something went wrong", "The request could not be completed. Please try again.", "/requests")
}

func (h *RequestHandler) renderError(w http.ResponseWriter, r *http.Request, status int, heading, message, backURL string) {
	data := view.ErrorData{Heading: heading, Message: message, BackURL: backURL}
	if err := h.renderer.Render(w, status, view.PageError, heading, data); err != nil {
		h.logger.Error("Failed to render error page", zap.Error(err), zap.String("path", r.URL.Path))
		http.Error(w, http.StatusText(status), status)
	}
}

func (h *RequestHandler) render(w http.ResponseWriter, r *http.Request, status int, page, title string, data any) {
	if err := h.renderer.Render(w, status, page, title, data); err != nil {
		h.internalError(w, r, err)
	}
}

func requestURL(id int64) string {
	return "/requests/" + strconv.FormatInt(id, 10)
}

func editURL(id int64) string {
	return requestURL(id) + "/edit"
}
