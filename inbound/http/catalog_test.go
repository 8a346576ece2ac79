package http

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"turnos/core/binder"
	"turnos/core/catalog"
	"turnos/core/validate"
	"turnos/outbound/backend"

	"github.com/stretchr/testify/suite"
)

type CatalogHttpTestSuite struct {
	suite.Suite

	Backend *backendStub
	handler http.Handler
}

func (s *CatalogHttpTestSuite) SetupTest() {
	s.Backend = newBackendStub()

	client := backend.New(s.Backend.server.URL, 2*time.Second, "")
	validator := validate.New()

	store := catalog.NewStore(client, nil, validator)
	public := catalog.NewStore(backend.PublicCatalogs{Client: client}, nil, validator)

	mux := http.NewServeMux()
	RegisterCatalogHttp(mux, store, binder.New(public))
	s.handler = mux

	slog.SetLogLoggerLevel(slog.LevelDebug)
}

func (s *CatalogHttpTestSuite) TearDownTest() {
	s.Backend.server.Close()
}

func TestCatalogHttpTestSuite(t *testing.T) {
	suite.Run(t, new(CatalogHttpTestSuite))
}

func (s *CatalogHttpTestSuite) TestRoutes() {
	tests := []struct {
		name           string
		method         string
		target         string
		reqBody        string
		backend        http.HandlerFunc
		expectedStatus int
		expectedBody   string
		backendCalls   int32
	}{
		{
			name:           "public options mark the selected entry",
			method:         http.MethodGet,
			target:         "/api/public/catalogs/municipio?selected=TOLUCA",
			expectedStatus: http.StatusOK,
			expectedBody: `{"success":true,"items":[{"value":"primaria","label":"Primaria"},` +
				`{"value":"toluca","label":"Toluca","selected":true},{"value":"inscripción","label":"Inscripción"}]}`,
		},
		{
			name:           "unknown category",
			method:         http.MethodGet,
			target:         "/api/public/catalogs/estado",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"success":false,"error":"Validation failed","data":{"category":"Catálogo inválido"}}`,
		},
		{
			name:   "admin list",
			method: http.MethodGet,
			target: "/api/catalogs/nivel",
			backend: func(w http.ResponseWriter, r *http.Request) {
				s.Equal("/api/catalogs/nivel", r.URL.Path)
				respond(http.StatusOK, `{"success":true,"items":[{"id":1,"name":"Secundaria"}]}`)(w, r)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"success":true,"items":[{"id":1,"name":"Secundaria","category":"nivel"}]}`,
			backendCalls:   1,
		},
		{
			name:           "add with blank name",
			method:         http.MethodPost,
			target:         "/api/catalogs/asunto",
			reqBody:        `{"name":"   "}`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"success":false,"error":"Validation failed","data":{"name":"Nombre requerido"}}`,
		},
		{
			name:           "add",
			method:         http.MethodPost,
			target:         "/api/catalogs/asunto",
			reqBody:        `{"name":" Baja "}`,
			backend:        respond(http.StatusOK, `{"success":true,"item":{"id":9,"name":"Baja"}}`),
			expectedStatus: http.StatusCreated,
			expectedBody:   `{"success":true,"item":{"id":9,"name":"Baja","category":"asunto"}}`,
			backendCalls:   1,
		},
		{
			name:           "rename with bad id",
			method:         http.MethodPut,
			target:         "/api/catalogs/asunto/abc",
			reqBody:        `{"name":"Baja"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "rename rejected by backend",
			method:         http.MethodPut,
			target:         "/api/catalogs/asunto/9",
			reqBody:        `{"name":"Baja"}`,
			backend:        respond(http.StatusConflict, `{"success":false,"error":"Ya existe"}`),
			expectedStatus: http.StatusConflict,
			expectedBody:   `{"success":false,"error":"Ya existe"}`,
			backendCalls:   1,
		},
		{
			name:           "remove without confirmation",
			method:         http.MethodDelete,
			target:         "/api/catalogs/asunto/9",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"success":false,"error":"Se requiere confirmación"}`,
		},
		{
			name:   "remove",
			method: http.MethodDelete,
			target: "/api/catalogs/asunto/9?confirm=true",
			backend: func(w http.ResponseWriter, r *http.Request) {
				s.Equal("DELETE /api/catalogs/asunto/9", r.Method+" "+r.URL.Path)
				respond(http.StatusOK, `{"success":true}`)(w, r)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"success":true}`,
			backendCalls:   1,
		},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			s.Backend.fn = tc.backend
			s.Backend.calls.Store(0)

			req := httptest.NewRequest(tc.method, tc.target, strings.NewReader(tc.reqBody))
			w := httptest.NewRecorder()
			s.handler.ServeHTTP(w, req)

			s.Equal(tc.expectedStatus, w.Code)
			if tc.expectedBody != "" {
				s.Equal(tc.expectedBody, strings.TrimSpace(w.Body.String()))
			}
			s.Equal(tc.backendCalls, s.Backend.calls.Load())
		})
	}
}
