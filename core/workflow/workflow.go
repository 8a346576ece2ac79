// Package workflow drives the citizen intake form: creating a ticket,
// locating it again by number and CURP, and updating it.
package workflow

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"turnos/common"
	"turnos/common/constant"
	"turnos/common/contract"
	"turnos/common/errs"
	"turnos/common/otel"
	"turnos/core/binder"
	"turnos/core/validate"
	"turnos/model"

	"go.opentelemetry.io/otel/attribute"
)

const (
	opCreate = "create"
	opUpdate = "update"
)

type Backend interface {
	CreateTicket(ctx context.Context, req model.CreateTicketRequest) (model.Ticket, error)
	FindTicket(ctx context.Context, req model.SearchTicketRequest) (model.Ticket, error)
	UpdateTicket(ctx context.Context, req model.UpdateTicketRequest) (model.Ticket, error)
}

// Artifacts are the confirmation attachments of a ticket. QR and Barcode are
// only set when a renderer is configured and succeeded.
type Artifacts struct {
	PdfURL      string `json:"pdf_url"`
	QRText      string `json:"qr_text"`
	BarcodeText string `json:"barcode_text"`
	QR          []byte `json:"qr,omitempty"`
	Barcode     []byte `json:"barcode,omitempty"`
}

type Outcome struct {
	State     State             `json:"state"`
	Errors    map[string]string `json:"errors,omitempty"`
	Message   string            `json:"message,omitempty"`
	Ticket    *model.Ticket     `json:"turno,omitempty"`
	Artifacts *Artifacts        `json:"artifacts,omitempty"`
}

type SearchOutcome struct {
	Found      bool                                `json:"found"`
	Ticket     *model.Ticket                       `json:"turno,omitempty"`
	Selections map[model.Category]binder.Selection `json:"selections,omitempty"`
}

type Workflow struct {
	backend   Backend
	validator *validate.Validator
	binder    *binder.Binder
	guard     Guard
	publisher contract.Publisher
	renderer  contract.Renderer
}

type Option func(*Workflow)

func WithGuard(g Guard) Option {
	return func(w *Workflow) { w.guard = g }
}

func WithPublisher(p contract.Publisher) Option {
	return func(w *Workflow) { w.publisher = p }
}

func WithRenderer(r contract.Renderer) Option {
	return func(w *Workflow) { w.renderer = r }
}

func New(backend Backend, validator *validate.Validator, binder *binder.Binder, opts ...Option) *Workflow {
	w := &Workflow{
		backend:   backend,
		validator: validator,
		binder:    binder,
		guard:     NewLocalGuard(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Intake is one form's state. It is safe for concurrent use; a second
// submission while one is in flight fails with errs.ErrBusy.
type Intake struct {
	wf *Workflow

	mu      sync.Mutex
	state   State
	located *model.TicketKey
}

func (w *Workflow) NewIntake() *Intake {
	return &Intake{wf: w, state: StateEditing}
}

// Restore returns an intake in edit mode for a ticket located earlier.
func (w *Workflow) Restore(key model.TicketKey) *Intake {
	in := w.NewIntake()
	in.located = &key
	return in
}

func (in *Intake) State() State {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.state
}

func (in *Intake) Located() (model.TicketKey, bool) {
	in.mu.Lock()
	defer in.mu.Unlock()

	if in.located == nil {
		return model.TicketKey{}, false
	}
	return *in.located, true
}

// Reset returns the form to an empty Editing state.
func (in *Intake) Reset() error {
	in.mu.Lock()
	defer in.mu.Unlock()

	if in.state.Busy() {
		return errs.ErrBusy
	}
	in.state = StateEditing
	in.located = nil
	return nil
}

func (in *Intake) fire(a action) error {
	in.mu.Lock()
	defer in.mu.Unlock()

	to, err := next(a, in.state)
	if err != nil {
		return err
	}
	in.state = to
	return nil
}

// settle moves through a terminal-or-transient state back to Editing when
// the outcome leaves the form editable.
func (in *Intake) settle(a action) State {
	_ = in.fire(a)
	reached := in.State()
	if reached == StateInvalid || reached == StateFailed {
		_ = in.fire(actionEdit)
	}
	return reached
}

// Create validates form and submits it. The backend assigns numero_turno.
func (in *Intake) Create(ctx context.Context, form model.TicketForm) (Outcome, error) {
	ctx, span := otel.Tracer.Start(ctx, "TicketWorkflow.Create")
	defer span.End()

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)

	if err := in.fire(actionValidate); err != nil {
		return Outcome{State: in.State(), Message: errs.UserMessage(err)}, err
	}

	result := in.wf.validator.Validate(validate.TicketFields(form))
	if !result.Valid {
		slog.DebugContext(ctx, "intake form rejected", traceIdAttr, slog.Any(constant.LogFieldPayload, result.Errors))
		state := in.settle(actionReject)
		return Outcome{State: state, Errors: result.Errors, Message: constant.MsgValidationFailed}, result.Err()
	}

	req := newCreateRequest(form)
	span.SetAttributes(attribute.String("curp", req.Curp))

	ticket, err := in.submit(ctx, opCreate, req.Curp, func(ctx context.Context) (model.Ticket, error) {
		return in.wf.backend.CreateTicket(ctx, req)
	})
	if err != nil {
		common.UtilSpanError(span, err)
		return in.failed(ctx, err)
	}

	common.PublishTicketEvent(ctx, in.wf.publisher, constant.SubjectTurnoCreated, model.NewTicketEventMessage(ticket))

	return Outcome{State: StateConfirmed, Ticket: &ticket, Artifacts: in.wf.artifacts(ctx, ticket)}, nil
}

// Search locates a ticket by number and CURP. A ticket that does not exist is
// reported as SearchOutcome.Found == false with a nil error.
func (in *Intake) Search(ctx context.Context, numeroTurno, curp string) (SearchOutcome, error) {
	ctx, span := otel.Tracer.Start(ctx, "TicketWorkflow.Search")
	defer span.End()

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)

	numeroTurno, curp = strings.TrimSpace(numeroTurno), strings.TrimSpace(curp)

	missing := make(map[string]string)
	if numeroTurno == "" {
		missing["numero_turno"] = constant.MsgRequired
	}
	if curp == "" {
		missing["curp"] = constant.MsgRequired
	}
	if len(missing) > 0 {
		return SearchOutcome{}, &errs.ValidationError{Fields: missing}
	}

	if in.State().Busy() {
		return SearchOutcome{}, errs.ErrBusy
	}

	numero, err := strconv.Atoi(numeroTurno)
	if err != nil {
		slog.DebugContext(ctx, "non-numeric ticket number searched", traceIdAttr, slog.String(constant.LogFieldPayload, numeroTurno))
		return SearchOutcome{Found: false}, nil
	}

	ticket, err := in.wf.backend.FindTicket(ctx, model.SearchTicketRequest{NumeroTurno: numero, Curp: strings.ToUpper(curp)})
	if errors.Is(err, errs.ErrNotFound) {
		slog.DebugContext(ctx, "ticket not found", traceIdAttr, slog.Int(constant.LogFieldPayload, numero))
		return SearchOutcome{Found: false}, nil
	}
	if err != nil {
		logFailure(ctx, "failed to search ticket", err)
		common.UtilSpanError(span, err)
		return SearchOutcome{}, err
	}

	key := ticket.Key()
	in.mu.Lock()
	in.located = &key
	in.state = StateEditing
	in.mu.Unlock()

	selections, err := in.wf.binder.BindTicket(ctx, ticket)
	if err != nil {
		slog.WarnContext(ctx, "ticket located with unresolved catalog fields", traceIdAttr, slog.Any(constant.LogFieldErr, err))
	}

	return SearchOutcome{Found: true, Ticket: &ticket, Selections: selections}, nil
}

// Update resubmits the located ticket. curp and numeroTurno must be the
// located ones; they are the update key.
func (in *Intake) Update(ctx context.Context, numeroTurno int, form model.TicketForm) (Outcome, error) {
	ctx, span := otel.Tracer.Start(ctx, "TicketWorkflow.Update")
	defer span.End()

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)

	key, ok := in.Located()
	if !ok {
		return Outcome{State: in.State(), Message: constant.MsgNoLocatedTicket}, errs.ErrNoLocatedTicket
	}
	if !key.Matches(form.Curp, numeroTurno) {
		return Outcome{State: in.State(), Message: constant.MsgKeyChanged}, errs.ErrKeyChanged
	}

	if err := in.fire(actionValidate); err != nil {
		return Outcome{State: in.State(), Message: errs.UserMessage(err)}, err
	}

	result := in.wf.validator.Validate(validate.TicketFields(form))
	if !result.Valid {
		slog.DebugContext(ctx, "update form rejected", traceIdAttr, slog.Any(constant.LogFieldPayload, result.Errors))
		state := in.settle(actionReject)
		return Outcome{State: state, Errors: result.Errors, Message: constant.MsgValidationFailed}, result.Err()
	}

	req := newUpdateRequest(key, form)

	ticket, err := in.submit(ctx, opUpdate, key.Curp, func(ctx context.Context) (model.Ticket, error) {
		return in.wf.backend.UpdateTicket(ctx, req)
	})
	if err != nil {
		common.UtilSpanError(span, err)
		return in.failed(ctx, err)
	}

	common.PublishTicketEvent(ctx, in.wf.publisher, constant.SubjectTurnoUpdated, model.NewTicketEventMessage(ticket))

	return Outcome{State: StateConfirmed, Ticket: &ticket, Artifacts: in.wf.artifacts(ctx, ticket)}, nil
}

func (in *Intake) submit(ctx context.Context, op, subject string, call func(context.Context) (model.Ticket, error)) (model.Ticket, error) {
	release, err := in.wf.guard.Acquire(ctx, op, subject)
	if err != nil {
		return model.Ticket{}, err
	}
	defer release()

	if err := in.fire(actionSubmit); err != nil {
		return model.Ticket{}, err
	}

	ticket, err := call(ctx)
	if err != nil {
		return model.Ticket{}, err
	}
	ticket.Normalize()

	_ = in.fire(actionConfirm)
	return ticket, nil
}

func (in *Intake) failed(ctx context.Context, err error) (Outcome, error) {
	logFailure(ctx, "ticket submission failed", err)

	if in.State() == StateSubmitting {
		return Outcome{State: in.settle(actionFail), Message: errs.UserMessage(err)}, err
	}

	// Refused by the guard, nothing was sent.
	in.mu.Lock()
	in.state = StateEditing
	in.mu.Unlock()
	return Outcome{State: StateEditing, Message: errs.UserMessage(err)}, err
}

func (w *Workflow) artifacts(ctx context.Context, t model.Ticket) *Artifacts {
	a := &Artifacts{PdfURL: t.PdfUrl, QRText: t.QRText(), BarcodeText: t.BarcodeText()}
	if w.renderer == nil {
		return a
	}

	var err error
	if a.QR, err = w.renderer.RenderQR(ctx, a.QRText); err != nil {
		slog.WarnContext(ctx, "failed to render qr", common.ExtractTraceIDFromCtx(ctx), slog.Any(constant.LogFieldErr, err))
	}
	if a.Barcode, err = w.renderer.RenderBarcode(ctx, a.BarcodeText); err != nil {
		slog.WarnContext(ctx, "failed to render barcode", common.ExtractTraceIDFromCtx(ctx), slog.Any(constant.LogFieldErr, err))
	}
	return a
}

func logFailure(ctx context.Context, msg string, err error) {
	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)

	var transportErr *errs.TransportError
	if errors.As(err, &transportErr) {
		slog.ErrorContext(ctx, msg, traceIdAttr, slog.Any(constant.LogFieldErr, transportErr.Unwrap()))
		return
	}
	slog.WarnContext(ctx, msg, traceIdAttr, slog.Any(constant.LogFieldErr, err))
}

func newCreateRequest(f model.TicketForm) model.CreateTicketRequest {
	return model.CreateTicketRequest{
		NombreCompleto: f.DisplayName(),
		Curp:           strings.ToUpper(strings.TrimSpace(f.Curp)),
		Nombre:         strings.TrimSpace(f.Nombre),
		Paterno:        strings.TrimSpace(f.Paterno),
		Materno:        strings.TrimSpace(f.Materno),
		Telefono:       strings.TrimSpace(f.Telefono),
		Celular:        strings.TrimSpace(f.Celular),
		Correo:         strings.TrimSpace(f.Correo),
		Nivel:          strings.TrimSpace(f.Nivel),
		Municipio:      strings.TrimSpace(f.Municipio),
		Asunto:         strings.TrimSpace(f.Asunto),
	}
}

// NewUpdateRequest builds the payload for an update keyed by key. ID is only
// sent when key carries one.
func NewUpdateRequest(key model.TicketKey, f model.TicketForm) model.UpdateTicketRequest {
	return model.UpdateTicketRequest{
		ID:             key.ID,
		Curp:           key.Curp,
		NumeroTurno:    key.NumeroTurno,
		NombreCompleto: f.DisplayName(),
		Nombre:         strings.TrimSpace(f.Nombre),
		Paterno:        strings.TrimSpace(f.Paterno),
		Materno:        strings.TrimSpace(f.Materno),
		Telefono:       strings.TrimSpace(f.Telefono),
		Celular:        strings.TrimSpace(f.Celular),
		Correo:         strings.TrimSpace(f.Correo),
		Nivel:          strings.TrimSpace(f.Nivel),
		Municipio:      strings.TrimSpace(f.Municipio),
		Asunto:         strings.TrimSpace(f.Asunto),
	}
}

func newUpdateRequest(key model.TicketKey, f model.TicketForm) model.UpdateTicketRequest {
	// Citizens update by curp+numero_turno.
	key.ID = 0
	return NewUpdateRequest(key, f)
}
