package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"turnos/common/constant"
	jetstreamMock "turnos/common/jetstream/mocks"
	"turnos/core/admin"
	"turnos/core/binder"
	"turnos/core/catalog"
	"turnos/core/validate"
	"turnos/model"
	"turnos/outbound/backend"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type AdminHttpTestSuite struct {
	suite.Suite

	Backend   *backendStub
	Publisher *jetstreamMock.MockPublisher

	handler http.Handler
}

func (s *AdminHttpTestSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())

	s.Backend = newBackendStub()
	s.Publisher = jetstreamMock.NewMockPublisher(ctrl)

	client := backend.New(s.Backend.server.URL, 2*time.Second, "")
	validator := validate.New()
	store := catalog.NewStore(backend.PublicCatalogs{Client: client}, nil, validator)

	console := admin.NewConsole(client, validator, binder.New(store), nil, s.Publisher)

	mux := http.NewServeMux()
	RegisterAdminHttp(mux, console, client, store)
	s.handler = CookieMiddleware(mux)

	slog.SetLogLoggerLevel(slog.LevelDebug)
}

func (s *AdminHttpTestSuite) TearDownTest() {
	s.Backend.server.Close()
}

func TestAdminHttpTestSuite(t *testing.T) {
	suite.Run(t, new(AdminHttpTestSuite))
}

type adminCase struct {
	name           string
	method         string
	target         string
	reqBody        string
	backend        http.HandlerFunc
	setupMock      func()
	expectedStatus int
	expectedBody   string
	checkBody      func(body map[string]any)
	backendCalls   int32
}

func (s *AdminHttpTestSuite) runCases(tests []adminCase) {
	for _, tc := range tests {
		s.Run(tc.name, func() {
			s.Backend.fn = tc.backend
			s.Backend.calls.Store(0)
			if tc.setupMock != nil {
				tc.setupMock()
			}

			req := httptest.NewRequest(tc.method, tc.target, strings.NewReader(tc.reqBody))
			req.Header.Set("Cookie", "session=admin")
			w := httptest.NewRecorder()
			s.handler.ServeHTTP(w, req)

			s.Equal(tc.expectedStatus, w.Code)
			if tc.expectedBody != "" {
				s.Equal(tc.expectedBody, strings.TrimSpace(w.Body.String()))
			}
			if tc.checkBody != nil {
				var body map[string]any
				s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
				tc.checkBody(body)
			}
			s.Equal(tc.backendCalls, s.Backend.calls.Load())
		})
	}
}

func (s *AdminHttpTestSuite) TestTickets() {
	s.runCases([]adminCase{
		{
			name:    "search upper-cases the curp",
			method:  http.MethodPost,
			target:  "/api/admin/search-turnos",
			reqBody: `{"curp":" abcd010101hdfrrl09 "}`,
			backend: func(w http.ResponseWriter, r *http.Request) {
				s.Equal("session=admin", r.Header.Get("Cookie"))

				var req model.AdminSearchRequest
				s.Require().NoError(json.NewDecoder(r.Body).Decode(&req))
				s.Equal(testCurp, req.Curp)

				respond(http.StatusOK, `{"success":true,"turnos":[{"id":7,"numero_turno":12,"curp":"`+testCurp+`","nombre_municipio":"Toluca"}]}`)(w, r)
			},
			expectedStatus: http.StatusOK,
			backendCalls:   1,
			checkBody: func(body map[string]any) {
				turnos := body["turnos"].([]any)
				s.Len(turnos, 1)
				s.Equal("Toluca", turnos[0].(map[string]any)["municipio"])
			},
		},
		{
			name:           "delete without confirmation",
			method:         http.MethodDelete,
			target:         "/api/turno/7",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"success":false,"error":"Se requiere confirmación"}`,
		},
		{
			name:    "delete",
			method:  http.MethodDelete,
			target:  "/api/turno/7?confirm=true",
			backend: respond(http.StatusOK, `{"success":true}`),
			setupMock: func() {
				s.Publisher.EXPECT().
					Publish(gomock.Any(), constant.SubjectTurnoDeleted, gomock.Any()).
					Return(&jetstream.PubAck{}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"success":true}`,
			backendCalls:   1,
		},
		{
			name:           "invalid status",
			method:         http.MethodPut,
			target:         "/api/turno/7/status",
			reqBody:        `{"estatus":"Cerrado"}`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"success":false,"error":"Validation failed","data":{"estatus":"Estatus inválido"}}`,
		},
		{
			name:    "status",
			method:  http.MethodPut,
			target:  "/api/turno/7/status",
			reqBody: `{"estatus":"Resuelto"}`,
			backend: respond(http.StatusOK, `{"success":true}`),
			setupMock: func() {
				s.Publisher.EXPECT().
					Publish(gomock.Any(), constant.SubjectTurnoStatus, gomock.Any()).
					Return(&jetstream.PubAck{}, nil)
			},
			expectedStatus: http.StatusOK,
			backendCalls:   1,
			checkBody: func(body map[string]any) {
				turno := body["turno"].(map[string]any)
				s.EqualValues(7, turno["id"])
				s.Equal("Resuelto", turno["estatus"])
			},
		},
		{
			name:   "update without celular",
			method: http.MethodPut,
			target: "/api/admin/turnos/7",
			reqBody: `{"numero_turno":12,"curp":"` + testCurp + `","nombre":"Ana","paterno":"Pérez","materno":"López",
				"telefono":"5512345678","correo":"ana@example.com","nivel":"Primaria","municipio":"Toluca","asunto":"Baja"}`,
			backend: func(w http.ResponseWriter, r *http.Request) {
				var req model.UpdateTicketRequest
				s.Require().NoError(json.NewDecoder(r.Body).Decode(&req))
				s.EqualValues(7, req.ID)
				s.Equal(12, req.NumeroTurno)
				s.Empty(req.Celular)

				respond(http.StatusOK, `{"success":true,"turno":{"id":7,"numero_turno":12,"curp":"`+testCurp+`","asunto":"Baja"}}`)(w, r)
			},
			setupMock: func() {
				s.Publisher.EXPECT().
					Publish(gomock.Any(), constant.SubjectTurnoUpdated, gomock.Any()).
					Return(&jetstream.PubAck{}, nil)
			},
			expectedStatus: http.StatusOK,
			backendCalls:   1,
		},
		{
			name:           "update without ticket number",
			method:         http.MethodPut,
			target:         "/api/admin/turnos/7",
			reqBody:        `{"curp":"` + testCurp + `"}`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"success":false,"error":"Primero busque su turno"}`,
		},
		{
			name:           "edit form",
			method:         http.MethodPost,
			target:         "/api/admin/turnos/edit-form",
			reqBody:        `{"id":7,"numero_turno":12,"curp":"` + testCurp + `","nombre_nivel":"primaria","municipio":"Otro"}`,
			expectedStatus: http.StatusOK,
			checkBody: func(body map[string]any) {
				s.Equal("primaria", body["form"].(map[string]any)["nivel"])
				selections := body["selections"].(map[string]any)
				s.Equal(true, selections["nivel"].(map[string]any)["found"])
				s.Equal(false, selections["municipio"].(map[string]any)["found"])
				s.Len(body["suggestions"].(map[string]any)["asunto"], 3)
			},
		},
	})
}

func (s *AdminHttpTestSuite) TestDashboardStats() {
	tickets := `{"success":true,"turnos":[
		{"id":1,"municipio":"Toluca","estatus":"Resuelto"},
		{"id":2,"municipio":"Toluca","estatus":"Pendiente"},
		{"id":3,"municipio":"Metepec","estatus":"Pendiente"}]}`

	s.runCases([]adminCase{
		{
			name:           "all municipalities",
			method:         http.MethodGet,
			target:         "/api/admin/dashboard-stats",
			backend:        respond(http.StatusOK, tickets),
			expectedStatus: http.StatusOK,
			backendCalls:   1,
			checkBody: func(body map[string]any) {
				s.Equal("todos", body["filter"])
				stats := body["stats"].(map[string]any)
				s.Equal(map[string]any{"Resuelto": float64(1), "Pendiente": float64(2)}, stats["total"])
				s.Equal([]any{"Metepec", "Toluca"}, stats["municipios"])

				charts := body["charts"].(map[string]any)
				byMunicipio := charts["by_municipio"].(map[string]any)
				s.Equal([]any{"Metepec", "Toluca"}, byMunicipio["labels"])
				s.Equal([]any{float64(0), float64(1)}, byMunicipio["resuelto"])
				s.Equal([]any{float64(1), float64(1)}, byMunicipio["pendiente"])
			},
		},
		{
			name:           "one municipality",
			method:         http.MethodGet,
			target:         "/api/admin/dashboard-stats?municipio=Metepec",
			backend:        respond(http.StatusOK, tickets),
			expectedStatus: http.StatusOK,
			backendCalls:   1,
			checkBody: func(body map[string]any) {
				stats := body["stats"].(map[string]any)
				s.Equal(map[string]any{"Resuelto": float64(0), "Pendiente": float64(1)}, stats["total"])
				s.Equal([]any{"Metepec", "Toluca"}, stats["municipios"])
				s.Len(stats["by_municipio"], 1)
			},
		},
		{
			name:   "server aggregation",
			method: http.MethodGet,
			target: "/api/admin/dashboard-stats?municipio=todos&source=server",
			backend: func(w http.ResponseWriter, r *http.Request) {
				s.Equal("/api/admin/dashboard-stats", r.URL.Path)
				s.Empty(r.URL.Query().Get("municipio"))
				respond(http.StatusOK, `{"success":true,"stats":{"total":{"Resuelto":4},"by_municipio":{"Toluca":{"Resuelto":4}}}}`)(w, r)
			},
			expectedStatus: http.StatusOK,
			backendCalls:   1,
			checkBody: func(body map[string]any) {
				stats := body["stats"].(map[string]any)
				s.Equal(map[string]any{"Resuelto": float64(4), "Pendiente": float64(0)}, stats["total"])
				s.Equal([]any{"Toluca"}, stats["municipios"])
			},
		},
		{
			name:           "backend unreachable",
			method:         http.MethodGet,
			target:         "/api/admin/dashboard-stats",
			backend:        respond(http.StatusOK, `oops`),
			expectedStatus: http.StatusBadGateway,
			backendCalls:   1,
		},
	})
}

func (s *AdminHttpTestSuite) TestDashboardStatsPreloadsMunicipios() {
	s.Backend.fn = respond(http.StatusOK, `{"success":true,"turnos":[]}`)
	s.Backend.catalogReads.Store(0)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/dashboard-stats", nil)
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)

	s.Equal(http.StatusOK, w.Code)
	s.Equal(int32(1), s.Backend.catalogReads.Load())
}

func (s *AdminHttpTestSuite) TestUsers() {
	s.runCases([]adminCase{
		{
			name:           "list",
			method:         http.MethodGet,
			target:         "/api/admin/users",
			backend:        respond(http.StatusOK, `{"success":true,"users":[{"id":1,"username":"root","role":"admin"}]}`),
			expectedStatus: http.StatusOK,
			expectedBody:   `{"success":true,"users":[{"id":1,"username":"root","role":"admin"}]}`,
			backendCalls:   1,
		},
		{
			name:           "create rejected locally",
			method:         http.MethodPost,
			target:         "/api/admin/users",
			reqBody:        `{"username":"ab","email":"nomail","password":"123"}`,
			expectedStatus: http.StatusBadRequest,
			checkBody: func(body map[string]any) {
				data := body["data"].(map[string]any)
				s.Equal(constant.MsgUsernameTooShort, data["username"])
				s.Equal(constant.MsgInvalidEmail, data["email"])
				s.Equal(constant.MsgPasswordTooShort, data["password"])
			},
		},
		{
			name:    "create",
			method:  http.MethodPost,
			target:  "/api/admin/users",
			reqBody: `{"username":"maria","email":"maria@example.com","password":"secreto"}`,
			backend: func(w http.ResponseWriter, r *http.Request) {
				var req model.CreateUserRequest
				s.Require().NoError(json.NewDecoder(r.Body).Decode(&req))
				s.Equal(model.RoleUser, req.Role)
				respond(http.StatusOK, `{"success":true,"user":{"id":5,"username":"maria","role":"user"}}`)(w, r)
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `{"success":true,"user":{"id":5,"username":"maria","role":"user"}}`,
			backendCalls:   1,
		},
		{
			name:           "invalid role",
			method:         http.MethodPut,
			target:         "/api/admin/users/5/role",
			reqBody:        `{"role":"root"}`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"success":false,"error":"Validation failed","data":{"role":"Rol inválido"}}`,
		},
		{
			name:    "toggle role",
			method:  http.MethodPut,
			target:  "/api/admin/users/5/toggle-role",
			reqBody: `{"role":"user"}`,
			backend: func(w http.ResponseWriter, r *http.Request) {
				s.Equal("/api/admin/users/5/role", r.URL.Path)

				var req model.SetRoleRequest
				s.Require().NoError(json.NewDecoder(r.Body).Decode(&req))
				s.Equal(model.RoleAdmin, req.Role)
				respond(http.StatusOK, `{"success":true}`)(w, r)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"success":true,"user":{"id":5,"username":"","role":"admin"}}`,
			backendCalls:   1,
		},
		{
			name:           "toggle without current role",
			method:         http.MethodPut,
			target:         "/api/admin/users/5/toggle-role",
			reqBody:        `{}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "delete without confirmation",
			method:         http.MethodDelete,
			target:         "/api/admin/users/5",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "delete",
			method:         http.MethodDelete,
			target:         "/api/admin/users/5?confirm=true",
			backend:        respond(http.StatusOK, `{"success":true}`),
			expectedStatus: http.StatusOK,
			expectedBody:   `{"success":true}`,
			backendCalls:   1,
		},
	})
}
