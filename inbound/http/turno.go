package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"turnos/common"
	"turnos/common/constant"
	"turnos/common/errs"
	"turnos/common/otel"
	"turnos/core/workflow"
	"turnos/model"
)

// LocatedSessions keeps the ticket a citizen located between the search and
// the update request.
type LocatedSessions interface {
	Save(ctx context.Context, key model.TicketKey) (string, error)
	Load(ctx context.Context, id string) (model.TicketKey, error)
	Delete(ctx context.Context, id string) error
}

type TurnoHttp struct {
	Workflow *workflow.Workflow
	Sessions LocatedSessions
}

func RegisterTurnoHttp(mux *http.ServeMux, wf *workflow.Workflow, sessions LocatedSessions) *TurnoHttp {
	in := &TurnoHttp{Workflow: wf, Sessions: sessions}

	mux.HandleFunc("POST /api/turno", in.create)
	mux.HandleFunc("POST /api/buscar-turno", in.search)
	mux.HandleFunc("PUT /api/actualizar-turno", in.update)
	mux.HandleFunc("DELETE /api/buscar-turno/{session}", in.reset)

	return in
}

type intakeResponse struct {
	Success bool `json:"success"`
	workflow.Outcome
}

func (in *TurnoHttp) create(w http.ResponseWriter, r *http.Request) {
	var form model.TicketForm
	if err := decodeJSON(r, &form); err != nil {
		writeErrorResponse(w, err)
		return
	}

	ctx, span := otel.Tracer.Start(r.Context(), "TurnoHttp.create")
	defer span.End()

	slog.InfoContext(ctx, "create turno receive request", slog.String("curp", form.Curp), common.ExtractTraceIDFromCtx(ctx))

	outcome, err := in.Workflow.NewIntake().Create(ctx, form)
	if err != nil {
		writeOutcomeError(w, outcome, err)
		return
	}

	writeJSONResponse(w, http.StatusCreated, intakeResponse{Success: true, Outcome: outcome})
}

func (in *TurnoHttp) search(w http.ResponseWriter, r *http.Request) {
	var req model.IntakeSearchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrorResponse(w, err)
		return
	}

	ctx, span := otel.Tracer.Start(r.Context(), "TurnoHttp.search")
	defer span.End()

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)

	intake := in.Workflow.NewIntake()
	outcome, err := intake.Search(ctx, req.NumeroTurno, req.Curp)
	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	if !outcome.Found {
		writeJSONResponse(w, http.StatusNotFound, searchResponse{Success: false, Error: constant.MsgTicketNotFound, SearchOutcome: outcome})
		return
	}

	key, _ := intake.Located()
	session, err := in.Sessions.Save(ctx, key)
	if err != nil {
		slog.ErrorContext(ctx, "failed to save located ticket", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		writeErrorResponse(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, searchResponse{
		Success:       true,
		Session:       session,
		SearchOutcome: outcome,
	})
}

type searchResponse struct {
	Success bool   `json:"success"`
	Session string `json:"session,omitempty"`
	Error   string `json:"error,omitempty"`
	workflow.SearchOutcome
}

func (in *TurnoHttp) update(w http.ResponseWriter, r *http.Request) {
	var req model.IntakeUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrorResponse(w, err)
		return
	}

	ctx, span := otel.Tracer.Start(r.Context(), "TurnoHttp.update")
	defer span.End()

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)

	key, err := in.Sessions.Load(ctx, req.Session)
	if err != nil {
		if !errors.Is(err, errs.ErrNoLocatedTicket) {
			slog.ErrorContext(ctx, "failed to load located ticket", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		}
		writeErrorResponse(w, err)
		return
	}

	outcome, err := in.Workflow.Restore(key).Update(ctx, req.NumeroTurno, req.TicketForm)
	if err != nil {
		writeOutcomeError(w, outcome, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, intakeResponse{Success: true, Outcome: outcome})
}

// reset forgets the located ticket when the citizen clears the form.
func (in *TurnoHttp) reset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := in.Sessions.Delete(ctx, r.PathValue("session")); err != nil {
		slog.ErrorContext(ctx, "failed to delete located ticket", common.ExtractTraceIDFromCtx(ctx), slog.Any(constant.LogFieldErr, err))
		writeErrorResponse(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, model.Envelope{Success: true})
}

// writeOutcomeError answers field errors with the field map and everything
// else with the outcome's message.
func writeOutcomeError(w http.ResponseWriter, outcome workflow.Outcome, err error) {
	var validationErr *errs.ValidationError
	if errors.As(err, &validationErr) {
		writeErrorResponse(w, err)
		return
	}

	code, message, _ := errorStatus(err)
	if outcome.Message != "" {
		message = outcome.Message
	}
	writeErrorResponse(w, &errs.HttpError{Code: code, Message: message})
}
