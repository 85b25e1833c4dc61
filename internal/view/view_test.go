package view_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fourloop/sourceflow/internal/domain"
	"github.com/fourloop/sourceflow/internal/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRenderer(t *testing.T) *view.Renderer {
	t.Helper()
	r, err := view.NewRenderer("SourceFlow")
	require.NoError(t, err)
	return r
}

func TestRender_ListEmptyState(t *testing.T) {
	r := newRenderer(t)
	rr := httptest.NewRecorder()

	require.NoError(t, r.Render(rr, http.StatusOK, view.PageList, "Requests", view.ListData{}))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/html; charset=utf-8", rr.Header().Get("Content-Type"))
	body := rr.Body.String()
	assert.Contains(t, body, "<title>Requests — SourceFlow</title>")
	assert.Contains(t, body, "No requests yet. Create one.")
	assert.Contains(t, body, `href="/requests/new"`)
}

func TestRender_EscapesUserInput(t *testing.T) {
	r := newRenderer(t)
	rr := httptest.NewRecorder()

	data := view.ListData{Requests: []domain.RequestView{
		{ID: 7, ItemName: `<script>alert("x")</script>`, Brand: "A & B", StatusName: "New"},
	}}
	require.NoError(t, r.Render(rr, http.StatusOK, view.PageList, "Requests", data))

	body := rr.Body.String()
	assert.NotContains(t, body, `<script>alert`)
	assert.Contains(t, body, "&lt;script&gt;")
	assert.Contains(t, body, "A &amp; B")
	assert.Contains(t, body, `href="/requests/7"`)
}

func TestRender_FormWithErrors(t *testing.T) {
	r := newRenderer(t)
	rr := httptest.NewRecorder()

	data := view.FormData{
		Form:   domain.RequestForm{ItemName: `"quoted"`},
		Errors: domain.FieldErrors{"item_name": "This field is required"},
		Statuses: []domain.StatusOption{
			{ID: 1, Name: "New"},
			{ID: 2, Name: "In Progress", Selected: true},
		},
	}
	require.NoError(t, r.Render(rr, http.StatusBadRequest, view.PageNew, "New Request", data))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, `action="/requests"`)
	assert.Contains(t, body, "This field is required")
	assert.Contains(t, body, `value="&#34;quoted&#34;"`)
	assert.Contains(t, body, `<option value="2" selected>In Progress</option>`)
	assert.Contains(t, body, "Initial status")
}

func TestRender_EditForm(t *testing.T) {
	r := newRenderer(t)
	rr := httptest.NewRecorder()

	data := view.FormData{RequestID: 12, Form: domain.RequestForm{ItemName: "Scarf"}}
	require.NoError(t, r.Render(rr, http.StatusOK, view.PageEdit, "Edit Request #12", data))

	body := rr.Body.String()
	assert.Contains(t, body, "Edit Request #12")
	assert.Contains(t, body, `action="/requests/12/update"`)
	assert.Contains(t, body, "Add note (optional)")
}

func TestRender_Detail(t *testing.T) {
	r := newRenderer(t)
	rr := httptest.NewRecorder()

	data := view.DetailData{Detail: &domain.RequestDetail{
		Request:  domain.RequestView{ID: 3, ItemName: "Loafers", Budget: "12.5", StatusName: "Sourced"},
		Customer: domain.CustomerView{FullName: "Demo Customer", Email: "demo@sourceflow.local"},
		Notes:    []domain.NoteView{{ID: 1, Text: "<b>bold</b>", CreatedAt: "2024-01-02 03:04:05"}},
	}}
	require.NoError(t, r.Render(rr, http.StatusOK, view.PageDetail, "Request #3", data))

	body := rr.Body.String()
	assert.Contains(t, body, "Request #3")
	assert.Contains(t, body, "<strong>Budget:</strong> 12.5")
	assert.Contains(t, body, "Demo Customer (demo@sourceflow.local)")
	assert.Contains(t, body, "&lt;b&gt;bold&lt;/b&gt;")
	assert.Contains(t, body, `action="/requests/3/delete"`)
	assert.Contains(t, body, `data-confirm="Delete this request?"`)
	assert.Contains(t, body, `action="/requests/3/notes"`)
}

func TestRender_DetailWithoutNotes(t *testing.T) {
	r := newRenderer(t)
	rr := httptest.NewRecorder()

	data := view.DetailData{Detail: &domain.RequestDetail{Request: domain.RequestView{ID: 3}}}
	require.NoError(t, r.Render(rr, http.StatusOK, view.PageDetail, "Request #3", data))
	assert.Contains(t, rr.Body.String(), "No notes yet.")
}

func TestRender_UnknownPage(t *testing.T) {
	r := newRenderer(t)
	rr := httptest.NewRecorder()

	assert.Error(t, r.Render(rr, http.StatusOK, "missing", "Missing", nil))
	assert.Equal(t, 0, rr.Body.Len())
}

func TestStatic(t *testing.T) {
	handler := http.StripPrefix("/static/", view.Static())

	for _, path := range []string{"/static/style.css", "/static/app.js"} {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rr.Code, path)
		assert.NotZero(t, rr.Body.Len(), path)
	}
}
