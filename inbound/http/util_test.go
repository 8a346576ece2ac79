package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"turnos/common/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSONResponse(t *testing.T) {
	tests := []struct {
		name           string
		statusCode     int
		data           interface{}
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "success with data",
			statusCode:     http.StatusOK,
			data:           map[string]interface{}{"success": true},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"success":true}`,
		},
		{
			name:           "success with nil data",
			statusCode:     http.StatusCreated,
			data:           nil,
			expectedStatus: http.StatusCreated,
			expectedBody:   "",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()

			writeJSONResponse(w, tc.statusCode, tc.data)

			assert.Equal(t, tc.expectedStatus, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			assert.Equal(t, tc.expectedBody, strings.TrimSpace(w.Body.String()))
		})
	}
}

func TestWriteErrorResponse(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedBody   string
		checkFields    func(t *testing.T, body map[string]interface{})
	}{
		{
			name:           "http error",
			err:            &errs.HttpError{Code: http.StatusBadRequest, Message: "Invalid request"},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"success":false,"error":"Invalid request"}`,
		},
		{
			name:           "validation error",
			err:            &errs.ValidationError{Fields: map[string]string{"curp": "CURP no válida"}},
			expectedStatus: http.StatusBadRequest,
			checkFields: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "Validation failed", body["error"])
				data, ok := body["data"].(map[string]interface{})
				require.True(t, ok)
				assert.Equal(t, "CURP no válida", data["curp"])
			},
		},
		{
			name:           "backend rejection keeps its message",
			err:            &errs.BackendError{Status: http.StatusConflict, Message: "CURP ya registrada"},
			expectedStatus: http.StatusConflict,
			expectedBody:   `{"success":false,"error":"CURP ya registrada"}`,
		},
		{
			name:           "backend server error",
			err:            &errs.BackendError{Status: http.StatusInternalServerError},
			expectedStatus: http.StatusBadGateway,
			expectedBody:   `{"success":false,"error":"Error al procesar la solicitud"}`,
		},
		{
			name:           "transport failure",
			err:            &errs.TransportError{Op: "CreateTicket", Err: errors.New("connection refused")},
			expectedStatus: http.StatusBadGateway,
			expectedBody:   `{"success":false,"error":"No se pudo comunicar con el servidor"}`,
		},
		{
			name:           "busy",
			err:            fmt.Errorf("create: %w", errs.ErrBusy),
			expectedStatus: http.StatusConflict,
			expectedBody:   `{"success":false,"error":"Solicitud en proceso"}`,
		},
		{
			name:           "not confirmed",
			err:            errs.ErrNotConfirmed,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"success":false,"error":"Se requiere confirmación"}`,
		},
		{
			name:           "no located ticket",
			err:            errs.ErrNoLocatedTicket,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"success":false,"error":"Primero busque su turno"}`,
		},
		{
			name:           "key changed",
			err:            errs.ErrKeyChanged,
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "not found",
			err:            errs.ErrNotFound,
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"success":false,"error":"No se encontró el turno"}`,
		},
		{
			name:           "generic error",
			err:            errors.New("something went wrong"),
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"success":false,"error":"Internal Server Error"}`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()

			writeErrorResponse(w, tc.err)

			assert.Equal(t, tc.expectedStatus, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

			if tc.expectedBody != "" {
				assert.Equal(t, tc.expectedBody, strings.TrimSpace(w.Body.String()))
			}

			if tc.checkFields != nil {
				var responseBody map[string]interface{}
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &responseBody))
				tc.checkFields(t, responseBody)
			}
		})
	}
}

func TestWriteErrorResponseNil(t *testing.T) {
	w := httptest.NewRecorder()

	writeErrorResponse(w, nil)

	assert.Empty(t, w.Body.String())
}

func TestConfirmed(t *testing.T) {
	tests := []struct {
		query    string
		expected bool
	}{
		{query: "", expected: false},
		{query: "?confirm=false", expected: false},
		{query: "?confirm=yes", expected: false},
		{query: "?confirm=true", expected: true},
		{query: "?confirm=1", expected: true},
	}

	for _, tc := range tests {
		t.Run(tc.query, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodDelete, "/api/turno/1"+tc.query, nil)
			assert.Equal(t, tc.expected, confirmed(r))
		})
	}
}
