package event

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"turnos/common"
	"turnos/common/constant"
	"turnos/model"
)

type EmailSender interface {
	Send(ctx context.Context, to []string, subject string, body string) error
}

type EmailEvent struct {
	EmailOutbound EmailSender
	Timeout       time.Duration
}

func (in EmailEvent) SendEmailHandler(ctx context.Context, msg []byte) error {
	ctx, cancel := context.WithTimeout(ctx, in.Timeout)
	defer cancel()

	var req model.SendEmailEventMessage
	err := json.Unmarshal(msg, &req)
	if err != nil {
		slog.WarnContext(ctx, "send email event unmarshal error", slog.Any(constant.LogFieldErr, err))
		return nil
	}

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)
	reqAttr := slog.String(constant.LogFieldSubject, req.Subject)

	err = in.EmailOutbound.Send(ctx, []string{req.To}, req.Subject, req.Body)
	if err != nil {
		slog.ErrorContext(ctx, "send email event error", slog.Any(constant.LogFieldErr, err), reqAttr, traceIdAttr)
		return err
	}

	slog.DebugContext(ctx, "email sent", reqAttr, traceIdAttr)
	return nil
}
