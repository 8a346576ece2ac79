// Package admin holds the administrator operations on tickets and users.
// Every operation maps to a single backend call and may be retried by hand.
package admin

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"turnos/common"
	"turnos/common/constant"
	"turnos/common/contract"
	"turnos/common/errs"
	"turnos/common/otel"
	"turnos/core/binder"
	"turnos/core/validate"
	"turnos/core/workflow"
	"turnos/model"

	"go.opentelemetry.io/otel/attribute"
)

const opAdminUpdate = "admin-update"

type Backend interface {
	SearchTickets(ctx context.Context, req model.AdminSearchRequest) ([]model.Ticket, error)
	DeleteTicket(ctx context.Context, id int64) error
	SetTicketStatus(ctx context.Context, id int64, status model.TicketStatus) (model.Ticket, error)
	UpdateTicket(ctx context.Context, req model.UpdateTicketRequest) (model.Ticket, error)

	ListUsers(ctx context.Context) ([]model.User, error)
	CreateUser(ctx context.Context, req model.CreateUserRequest) (model.User, error)
	SetUserRole(ctx context.Context, id int64, role model.Role) (model.User, error)
	DeleteUser(ctx context.Context, id int64) error
}

type Console struct {
	backend   Backend
	validator *validate.Validator
	binder    *binder.Binder
	guard     workflow.Guard
	publisher contract.Publisher
}

func NewConsole(backend Backend, validator *validate.Validator, binder *binder.Binder, guard workflow.Guard, publisher contract.Publisher) *Console {
	if guard == nil {
		guard = workflow.NewLocalGuard()
	}
	return &Console{
		backend:   backend,
		validator: validator,
		binder:    binder,
		guard:     guard,
		publisher: publisher,
	}
}

// SearchTickets filters by curp, else by nombre. Both empty returns every
// ticket.
func (c *Console) SearchTickets(ctx context.Context, curp, nombre string) ([]model.Ticket, error) {
	ctx, span := otel.Tracer.Start(ctx, "AdminConsole.SearchTickets")
	defer span.End()

	req := model.AdminSearchRequest{
		Curp:   strings.ToUpper(strings.TrimSpace(curp)),
		Nombre: strings.TrimSpace(nombre),
	}

	tickets, err := c.backend.SearchTickets(ctx, req)
	if err != nil {
		slog.ErrorContext(ctx, "failed to search tickets", common.ExtractTraceIDFromCtx(ctx),
			slog.Any(constant.LogFieldPayload, req), slog.Any(constant.LogFieldErr, err))
		common.UtilSpanError(span, err)
		return nil, err
	}

	for i := range tickets {
		tickets[i].Normalize()
	}
	return tickets, nil
}

// DeleteTicket is irreversible; confirmed must carry the caller's explicit
// confirmation.
func (c *Console) DeleteTicket(ctx context.Context, id int64, confirmed bool) error {
	if !confirmed {
		return errs.ErrNotConfirmed
	}

	ctx, span := otel.Tracer.Start(ctx, "AdminConsole.DeleteTicket")
	defer span.End()
	span.SetAttributes(attribute.Int64("turno.id", id))

	if err := c.backend.DeleteTicket(ctx, id); err != nil {
		common.UtilSpanError(span, err)
		return err
	}

	slog.InfoContext(ctx, "ticket deleted", common.ExtractTraceIDFromCtx(ctx), slog.Int64(constant.LogFieldPayload, id))
	common.PublishTicketEvent(ctx, c.publisher, constant.SubjectTurnoDeleted, model.TicketEventMessage{ID: id})
	return nil
}

func (c *Console) SetStatus(ctx context.Context, id int64, status model.TicketStatus) (model.Ticket, error) {
	if !status.Valid() {
		return model.Ticket{}, &errs.ValidationError{Fields: map[string]string{"estatus": constant.MsgInvalidStatus}}
	}

	ctx, span := otel.Tracer.Start(ctx, "AdminConsole.SetStatus")
	defer span.End()

	ticket, err := c.backend.SetTicketStatus(ctx, id, status)
	if err != nil {
		common.UtilSpanError(span, err)
		return model.Ticket{}, err
	}
	if ticket.ID == 0 {
		ticket.ID = id
	}
	if ticket.Estatus == "" {
		ticket.Estatus = status
	}

	common.PublishTicketEvent(ctx, c.publisher, constant.SubjectTurnoStatus, model.NewTicketEventMessage(ticket))
	return ticket, nil
}

// UpdateTicket saves an edited ticket by id. The edit form has no celular
// input, so celular is optional here. curp and numero_turno always come from
// key, whatever the form holds.
func (c *Console) UpdateTicket(ctx context.Context, key model.TicketKey, form model.TicketForm) (model.Ticket, error) {
	ctx, span := otel.Tracer.Start(ctx, "AdminConsole.UpdateTicket")
	defer span.End()

	if key.ID == 0 || key.Curp == "" || key.NumeroTurno == 0 {
		return model.Ticket{}, errs.ErrNoLocatedTicket
	}

	form.Curp = key.Curp

	result := c.validator.Validate(validate.Optional(validate.TicketFields(form), "celular"))
	if !result.Valid {
		slog.DebugContext(ctx, "admin edit rejected", common.ExtractTraceIDFromCtx(ctx), slog.Any(constant.LogFieldPayload, result.Errors))
		return model.Ticket{}, result.Err()
	}

	release, err := c.guard.Acquire(ctx, opAdminUpdate, strconv.FormatInt(key.ID, 10))
	if err != nil {
		return model.Ticket{}, err
	}
	defer release()

	ticket, err := c.backend.UpdateTicket(ctx, workflow.NewUpdateRequest(key, form))
	if err != nil {
		common.UtilSpanError(span, err)
		return model.Ticket{}, err
	}
	ticket.Normalize()

	common.PublishTicketEvent(ctx, c.publisher, constant.SubjectTurnoUpdated, model.NewTicketEventMessage(ticket))
	return ticket, nil
}

// EditForm is a ticket prepared for the admin edit dialog.
type EditForm struct {
	Key         model.TicketKey                     `json:"key"`
	Form        model.TicketForm                    `json:"form"`
	Selections  map[model.Category]binder.Selection `json:"selections"`
	Suggestions map[model.Category][]string         `json:"suggestions"`
}

// EditForm fills the edit dialog for t. Catalog fields keep their free-text
// value and come with the catalog names as suggestions.
func (c *Console) EditForm(ctx context.Context, t model.Ticket) EditForm {
	selections, err := c.binder.BindTicket(ctx, t)
	if err != nil {
		slog.WarnContext(ctx, "edit form with unresolved catalog fields", common.ExtractTraceIDFromCtx(ctx), slog.Any(constant.LogFieldErr, err))
	}

	suggestions := make(map[model.Category][]string, len(model.Categories))
	for _, category := range model.Categories {
		names, err := c.binder.Suggestions(ctx, category)
		if err != nil {
			continue
		}
		suggestions[category] = names
	}

	return EditForm{
		Key: t.Key(),
		Form: model.TicketForm{
			NombreCompleto: t.NombreCompleto,
			Curp:           t.Curp,
			Nombre:         t.Nombre,
			Paterno:        t.Paterno,
			Materno:        t.Materno,
			Telefono:       t.Telefono,
			Celular:        t.Celular,
			Correo:         t.Correo,
			Nivel:          t.Nivel,
			Municipio:      t.Municipio,
			Asunto:         t.Asunto,
		},
		Selections:  selections,
		Suggestions: suggestions,
	}
}
