package http

import (
	"log/slog"
	"net/http"
	"strings"

	"turnos/common"
	"turnos/common/constant"
	"turnos/common/errs"
	"turnos/common/otel"
	"turnos/core/admin"
	"turnos/core/dashboard"
	"turnos/model"
)

type AdminHttp struct {
	Console   *admin.Console
	Dashboard dashboard.Source
	Catalogs  dashboard.Loader
}

func RegisterAdminHttp(mux *http.ServeMux, console *admin.Console, source dashboard.Source, catalogs dashboard.Loader) *AdminHttp {
	in := &AdminHttp{Console: console, Dashboard: source, Catalogs: catalogs}

	mux.HandleFunc("POST /api/admin/search-turnos", in.searchTickets)
	mux.HandleFunc("POST /api/admin/turnos/edit-form", in.editForm)
	mux.HandleFunc("PUT /api/admin/turnos/{id}", in.updateTicket)
	mux.HandleFunc("DELETE /api/turno/{id}", in.deleteTicket)
	mux.HandleFunc("PUT /api/turno/{id}/status", in.setStatus)
	mux.HandleFunc("GET /api/admin/dashboard-stats", in.dashboardStats)

	mux.HandleFunc("GET /api/admin/users", in.listUsers)
	mux.HandleFunc("POST /api/admin/users", in.createUser)
	mux.HandleFunc("PUT /api/admin/users/{id}/role", in.setRole)
	mux.HandleFunc("PUT /api/admin/users/{id}/toggle-role", in.toggleRole)
	mux.HandleFunc("DELETE /api/admin/users/{id}", in.deleteUser)

	return in
}

type ticketsResponse struct {
	Success bool           `json:"success"`
	Turnos  []model.Ticket `json:"turnos"`
}

type ticketResponse struct {
	Success bool         `json:"success"`
	Turno   model.Ticket `json:"turno"`
}

type editFormResponse struct {
	Success bool `json:"success"`
	admin.EditForm
}

type statsResponse struct {
	Success bool                 `json:"success"`
	Filter  string               `json:"filter"`
	Stats   model.DashboardStats `json:"stats"`
	Charts  dashboard.Charts     `json:"charts"`
}

type usersResponse struct {
	Success bool         `json:"success"`
	Users   []model.User `json:"users"`
}

type userResponse struct {
	Success bool       `json:"success"`
	User    model.User `json:"user"`
}

func (in *AdminHttp) searchTickets(w http.ResponseWriter, r *http.Request) {
	var req model.AdminSearchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrorResponse(w, err)
		return
	}

	tickets, err := in.Console.SearchTickets(r.Context(), req.Curp, req.Nombre)
	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, ticketsResponse{Success: true, Turnos: tickets})
}

func (in *AdminHttp) editForm(w http.ResponseWriter, r *http.Request) {
	var ticket model.Ticket
	if err := decodeJSON(r, &ticket); err != nil {
		writeErrorResponse(w, err)
		return
	}

	ticket.Normalize()
	writeJSONResponse(w, http.StatusOK, editFormResponse{Success: true, EditForm: in.Console.EditForm(r.Context(), ticket)})
}

func (in *AdminHttp) updateTicket(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	var req model.AdminUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrorResponse(w, err)
		return
	}

	key := model.TicketKey{ID: id, Curp: strings.ToUpper(strings.TrimSpace(req.Curp)), NumeroTurno: req.NumeroTurno}

	ticket, err := in.Console.UpdateTicket(r.Context(), key, req.TicketForm)
	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, ticketResponse{Success: true, Turno: ticket})
}

func (in *AdminHttp) deleteTicket(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	if err := in.Console.DeleteTicket(r.Context(), id, confirmed(r)); err != nil {
		writeErrorResponse(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, model.Envelope{Success: true})
}

func (in *AdminHttp) setStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	var req model.SetStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrorResponse(w, err)
		return
	}

	ticket, err := in.Console.SetStatus(r.Context(), id, req.Estatus)
	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, ticketResponse{Success: true, Turno: ticket})
}

// dashboardStats aggregates the ticket list, or reads the backend's own
// aggregation when source=server.
func (in *AdminHttp) dashboardStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer.Start(r.Context(), "AdminHttp.dashboardStats")
	defer span.End()

	filter := r.URL.Query().Get("municipio")
	if filter == "" {
		filter = constant.AllMunicipios
	}

	board := dashboard.NewBoard(in.Dashboard, in.Catalogs)
	defer board.Dispose()
	board.Init(ctx)

	var err error
	if r.URL.Query().Get("source") == "server" {
		_, err = board.FetchServerStats(ctx, filter)
	} else {
		_, err = board.Refresh(ctx, filter)
	}
	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	stats, filter, _ := board.Last()
	charts, err := board.ChartSeries()
	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	slog.DebugContext(ctx, "dashboard stats served", common.ExtractTraceIDFromCtx(ctx), slog.Int(constant.LogFieldResponse, stats.Total.Total()))
	writeJSONResponse(w, http.StatusOK, statsResponse{Success: true, Filter: filter, Stats: stats, Charts: charts})
}

func (in *AdminHttp) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := in.Console.ListUsers(r.Context())
	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, usersResponse{Success: true, Users: users})
}

func (in *AdminHttp) createUser(w http.ResponseWriter, r *http.Request) {
	var req model.CreateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrorResponse(w, err)
		return
	}

	user, err := in.Console.CreateUser(r.Context(), req)
	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	writeJSONResponse(w, http.StatusCreated, userResponse{Success: true, User: user})
}

func (in *AdminHttp) setRole(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	var req model.SetRoleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrorResponse(w, err)
		return
	}

	user, err := in.Console.SetRole(r.Context(), id, req.Role)
	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, userResponse{Success: true, User: user})
}

// toggleRole takes the user's current role and switches it.
func (in *AdminHttp) toggleRole(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	var req model.SetRoleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrorResponse(w, err)
		return
	}

	if !req.Role.Valid() {
		writeErrorResponse(w, &errs.ValidationError{Fields: map[string]string{"role": constant.MsgInvalidRole}})
		return
	}

	user, err := in.Console.ToggleRole(r.Context(), model.User{ID: id, Role: req.Role})
	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, userResponse{Success: true, User: user})
}

func (in *AdminHttp) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	if err := in.Console.DeleteUser(r.Context(), id, confirmed(r)); err != nil {
		writeErrorResponse(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, model.Envelope{Success: true})
}
