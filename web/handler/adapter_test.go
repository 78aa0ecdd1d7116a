package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWrapEncodesJSON(t *testing.T) {
	h := Wrap(func(w http.ResponseWriter, r *http.Request) (map[string]int, error) {
		return map[string]int{"answer": 42}, nil
	})

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.JSONEq(t, `{"answer":42}`, rec.Body.String())
}

func TestWrapNoResponse(t *testing.T) {
	h := Wrap(func(w http.ResponseWriter, r *http.Request) (NoResponse, error) {
		return nil, nil
	})

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodDelete, "/", nil))

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Empty(t, rec.Body.String())
}

func TestWrapErrors(t *testing.T) {
	notFound := Wrap(func(w http.ResponseWriter, r *http.Request) (NoResponse, error) {
		return nil, ErrNotFound
	})

	rec := httptest.NewRecorder()
	notFound(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)

	failed := Wrap(func(w http.ResponseWriter, r *http.Request) (NoResponse, error) {
		return nil, errors.New("boom")
	})

	rec = httptest.NewRecorder()
	failed(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	done := Wrap(func(w http.ResponseWriter, r *http.Request) (NoResponse, error) {
		w.WriteHeader(http.StatusTeapot)
		return nil, ErrDone
	})

	rec = httptest.NewRecorder()
	done(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusTeapot, rec.Code)
}
