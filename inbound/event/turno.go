package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"turnos/common"
	"turnos/common/constant"
	"turnos/common/contract"
	"turnos/model"
)

// TurnoEvent turns ticket lifecycle events into confirmation e-mails.
type TurnoEvent struct {
	Publisher contract.Publisher
	// PublicURL prefixes relative pdf_url values.
	PublicURL string

	Timeout time.Duration
}

func (in TurnoEvent) CreatedHandler(ctx context.Context, msg []byte) error {
	return in.handle(ctx, msg, "Confirmación de turno %d", in.buildConfirmationBody)
}

func (in TurnoEvent) UpdatedHandler(ctx context.Context, msg []byte) error {
	return in.handle(ctx, msg, "Actualización de turno %d", in.buildUpdateBody)
}

func (in TurnoEvent) handle(ctx context.Context, msg []byte, subject string, body func(model.TicketEventMessage) string) error {
	ctx, cancel := context.WithTimeout(ctx, in.Timeout)
	defer cancel()

	var req model.TicketEventMessage
	err := json.Unmarshal(msg, &req)
	if err != nil {
		slog.WarnContext(ctx, "turno event unmarshal error", slog.Any(constant.LogFieldErr, err))
		return nil
	}

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)
	reqAttr := slog.Any(constant.LogFieldPayload, string(msg))

	if strings.TrimSpace(req.Correo) == "" {
		slog.DebugContext(ctx, "turno event without correo, no email sent", reqAttr, traceIdAttr)
		return nil
	}

	sendEmailReq := model.SendEmailEventMessage{
		To:      req.Correo,
		Subject: fmt.Sprintf(subject, req.NumeroTurno),
		Body:    body(req),
	}

	err = common.PublishMessage(ctx, in.Publisher, constant.SubjectSendEmail, sendEmailReq)
	if err != nil {
		slog.ErrorContext(ctx, "turno event publish error", slog.Any(constant.LogFieldErr, err), reqAttr, traceIdAttr)
		return err
	}

	slog.DebugContext(ctx, "turno event publish success", reqAttr, traceIdAttr)
	return nil
}

func (in TurnoEvent) buildConfirmationBody(req model.TicketEventMessage) string {
	return fmt.Sprintf(constant.EmailTurnoConfirmationTemplate,
		req.NombreCompleto,
		req.NumeroTurno,
		req.Curp,
		req.Nivel,
		req.Municipio,
		req.Asunto,
		in.pdfLink(req.PdfUrl),
	)
}

func (in TurnoEvent) buildUpdateBody(req model.TicketEventMessage) string {
	return fmt.Sprintf(constant.EmailTurnoUpdateTemplate,
		req.NombreCompleto,
		req.NumeroTurno,
		req.NumeroTurno,
		req.Curp,
		req.Nivel,
		req.Municipio,
		req.Asunto,
		in.pdfLink(req.PdfUrl),
	)
}

func (in TurnoEvent) pdfLink(pdfURL string) string {
	if pdfURL == "" {
		return "-"
	}
	if strings.HasPrefix(pdfURL, "/") {
		return strings.TrimRight(in.PublicURL, "/") + pdfURL
	}
	return pdfURL
}
