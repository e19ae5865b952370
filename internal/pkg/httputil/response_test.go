package httputil

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOK_WritesJSON(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	OK(w, r, map[string]string{"name": "New list"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
	assert.JSONEq(t, `{"name":"New list"}`, w.Body.String())
}

func TestOK_EmptyObject(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodDelete, "/", nil)

	OK(w, r, Empty)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{}`, w.Body.String())
}

func TestNotFound_MessageOnly(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	NotFound(w, r, "MailChimpMember[abc] not found")

	assert.Equal(t, http.StatusNotFound, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, map[string]any{"message": "MailChimpMember[abc] not found"}, body)
}

func TestInvalid_IncludesFieldErrors(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/", nil)

	Invalid(w, r, "Invalid data given", map[string][]string{
		"status": {"The status field is required."},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"Invalid data given","errors":{"status":["The status field is required."]}}`, w.Body.String())
}

func TestInternalError_HidesCause(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/", nil)

	InternalError(w, r, errors.New("pq: password authentication failed"), "A database error occurred.")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "password")
	assert.JSONEq(t, `{"message":"A database error occurred."}`, w.Body.String())
}

func TestReadBody(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"a":1}`))
	body, err := ReadBody(httptest.NewRecorder(), r)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(body))
}

func TestReadBody_TooLarge(t *testing.T) {
	big := `{"a":"` + strings.Repeat("x", maxBodyBytes) + `"}`
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(big))

	_, err := ReadBody(httptest.NewRecorder(), r)
	assert.ErrorIs(t, err, ErrBodyTooLarge)
}
