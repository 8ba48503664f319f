package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raisehub/admin-manager/internal/apperr"
	"github.com/raisehub/admin-manager/internal/entity"
)

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestRenderDataEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/admin/languages", nil)

	renderData(rec, req, http.StatusCreated, "Language created", map[string]string{"name": "English"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.True(t, resp.Success)
	assert.Equal(t, "Language created", resp.Message)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.False(t, resp.Timestamp.IsZero())
	assert.Empty(t, resp.Error)
}

func TestRenderPageIncludesPagination(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/admin/countries", nil)

	pg := entity.NewPagination(42, entity.ListOptions{Limit: 20, Offset: 20})
	renderPage(rec, req, "Countries", []string{"a", "b"}, pg)

	resp := decodeEnvelope(t, rec)
	require.NotNil(t, resp.Pagination)
	assert.Equal(t, 2, resp.Pagination.CurrentPage)
	assert.Equal(t, 3, resp.Pagination.TotalPages)
	assert.Equal(t, 42, resp.Pagination.TotalCount)
	assert.True(t, resp.Pagination.HasNext)
	assert.True(t, resp.Pagination.HasPrev)
}

func TestRenderErrorMapsKnownKinds(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", apperr.NotFound("language not found"), http.StatusNotFound, "NOT_FOUND"},
		{"already exists", apperr.AlreadyExists("duplicate ISO code"), http.StatusConflict, "ALREADY_EXISTS"},
		{"in use", apperr.InUse("currency is referenced"), http.StatusConflict, "IN_USE"},
		{"validation", apperr.Validation("name is required"), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"unauthenticated", apperr.Unauthenticated("bad credentials"), http.StatusUnauthorized, "UNAUTHENTICATED"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/admin/languages", nil)

			renderError(rec, req, tc.err)

			assert.Equal(t, tc.status, rec.Code)
			resp := decodeEnvelope(t, rec)
			assert.False(t, resp.Success)
			assert.Equal(t, tc.code, resp.Code)
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestRenderErrorHidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/admin/languages", nil)

	renderError(rec, req, apperr.OperationFailed(errors.New("pq: connection refused"), "failed to list languages"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.NotContains(t, rec.Body.String(), "connection refused")
	assert.Equal(t, "OPERATION_FAILED", resp.Code)
}

func TestRenderErrorUnknownError(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/admin/languages", nil)

	renderError(rec, req, errors.New("boom"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "boom")
}

func TestListOptionsFromQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/admin/languages?limit=50&offset=100", nil)
	opts := listOptions(req)
	assert.Equal(t, 50, opts.Limit)
	assert.Equal(t, 100, opts.Offset)

	req = httptest.NewRequest(http.MethodGet, "/api/admin/languages?limit=junk", nil)
	opts = listOptions(req)
	assert.Equal(t, 0, opts.Limit)
	assert.Equal(t, 0, opts.Offset)
}

func TestBoolFilter(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/admin/languages?isActive=true", nil)
	v := boolFilter(req, "isActive")
	require.NotNil(t, v)
	assert.True(t, *v)

	req = httptest.NewRequest(http.MethodGet, "/api/admin/languages", nil)
	assert.Nil(t, boolFilter(req, "isActive"))

	req = httptest.NewRequest(http.MethodGet, "/api/admin/languages?isActive=maybe", nil)
	assert.Nil(t, boolFilter(req, "isActive"))
}
