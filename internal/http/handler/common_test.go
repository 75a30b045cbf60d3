package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/domain"
	"github.com/renatoeco/app-cepf-gestao-sub000/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func requestWithCode(code, ifMatch string) *http.Request {
	r := httptest.NewRequest(http.MethodPut, "/projects/"+code, nil)
	if ifMatch != "" {
		r.Header.Set("If-Match", ifMatch)
	}
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("code", code)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestEditFromRequest(t *testing.T) {
	tests := []struct {
		name     string
		ifMatch  string
		expected *int
		wantErr  bool
	}{
		{name: "no header", ifMatch: ""},
		{name: "wildcard", ifMatch: "*"},
		{name: "quoted", ifMatch: `"4"`, expected: intPtr(4)},
		{name: "weak", ifMatch: `W/"7"`, expected: intPtr(7)},
		{name: "bare", ifMatch: "2", expected: intPtr(2)},
		{name: "not a number", ifMatch: `"abc"`, wantErr: true},
		{name: "zero", ifMatch: "0", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			edit, err := editFromRequest(requestWithCode("CEPF-1", tt.ifMatch))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "CEPF-1", edit.Code)
			assert.Equal(t, tt.expected, edit.ExpectedVersion)
		})
	}
}

func TestHandleServiceError(t *testing.T) {
	tests := []struct {
		err    error
		status int
		typ    string
	}{
		{fmt.Errorf("%w: bad date", service.ErrInvalidInput), http.StatusBadRequest, domain.ErrorTypeBadRequest},
		{service.ErrPermissionDenied, http.StatusForbidden, domain.ErrorTypeForbidden},
		{service.ErrProjectNotFound, http.StatusNotFound, domain.ErrorTypeNotFound},
		{service.ErrNodeNotFound, http.StatusNotFound, domain.ErrorTypeNotFound},
		{service.ErrVersionConflict, http.StatusConflict, domain.ErrorTypeConflict},
		{service.ErrDuplicateEmail, http.StatusConflict, domain.ErrorTypeConflict},
		{fmt.Errorf("%w: timeout", service.ErrExternal), http.StatusBadGateway, domain.ErrorTypeBadGateway},
		{errors.New("boom"), http.StatusInternalServerError, domain.ErrorTypeInternal},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		handleServiceError(rec, zap.NewNop(), tt.err)

		assert.Equal(t, tt.status, rec.Code, tt.err.Error())
		var body domain.APIError
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, tt.typ, body.Type)
	}
}

func TestDecodeAndValidate_DateTag(t *testing.T) {
	var req domain.SubmitReportRequest

	r := httptest.NewRequest(http.MethodPost, "/", jsonBody(`{"submittedDate":"31/02/2024"}`))
	rec := httptest.NewRecorder()
	assert.False(t, decodeAndValidate(rec, r, &req))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body domain.APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, domain.ErrorTypeValidation, body.Type)
	assert.Contains(t, body.Errors, "submittedDate")

	r = httptest.NewRequest(http.MethodPost, "/", jsonBody(`{"submittedDate":"29/02/2024"}`))
	assert.True(t, decodeAndValidate(httptest.NewRecorder(), r, &req))
	assert.Equal(t, "29/02/2024", req.SubmittedDate)
}

func TestRespondEdit_SetsETag(t *testing.T) {
	rec := httptest.NewRecorder()
	respondEdit(rec, http.StatusOK, 12, map[string]string{"ok": "yes"})
	assert.Equal(t, `"12"`, rec.Header().Get("ETag"))
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func intPtr(i int) *int { return &i }

func jsonBody(s string) *strings.Reader { return strings.NewReader(s) }
