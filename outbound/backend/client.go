// Package backend is the JSON client of the turnos backend API.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"turnos/common"
	"turnos/common/constant"
	"turnos/common/errs"
	"turnos/common/otel"
	"turnos/model"

	"github.com/google/uuid"
	"github.com/spf13/viper"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
)

const maxResponseBytes = 5 << 20

type cookieCtxKey struct{}

// WithCookie attaches the caller's Cookie header to ctx so backend calls made
// with it carry the same session.
func WithCookie(ctx context.Context, cookie string) context.Context {
	if cookie == "" {
		return ctx
	}
	return context.WithValue(ctx, cookieCtxKey{}, cookie)
}

func cookieFromCtx(ctx context.Context) string {
	cookie, _ := ctx.Value(cookieCtxKey{}).(string)
	return cookie
}

type Client struct {
	baseURL string
	http    *http.Client
	cookie  string
}

func New(baseURL string, timeout time.Duration, cookie string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		cookie: cookie,
	}
}

func NewFromConfig(cfg *viper.Viper) *Client {
	return New(cfg.GetString("backend.base_url"), cfg.GetDuration("backend.timeout"), cfg.GetString("backend.cookie"))
}

// do sends body as JSON and decodes the response into out. A response whose
// "success" is missing or false becomes an *errs.BackendError; network and
// decoding failures become an *errs.TransportError.
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body, out any) error {
	ctx, span := otel.Tracer.Start(ctx, "Client."+op)
	defer span.End()
	span.SetAttributes(attribute.String("http.route", path))

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			common.UtilSpanError(span, err)
			return &errs.TransportError{Op: op, Err: err}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		common.UtilSpanError(span, err)
		return &errs.TransportError{Op: op, Err: err}
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie := cookieFromCtx(ctx); cookie != "" {
		req.Header.Set("Cookie", cookie)
	} else if c.cookie != "" {
		req.Header.Set("Cookie", c.cookie)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		slog.ErrorContext(ctx, "backend request failed", traceIdAttr, slog.String("op", op), slog.Any(constant.LogFieldErr, err))
		common.UtilSpanError(span, err)
		return &errs.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		common.UtilSpanError(span, err)
		return &errs.TransportError{Op: op, Err: err}
	}

	var envelope model.Envelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		slog.ErrorContext(ctx, "backend response is not json", traceIdAttr, slog.String("op", op),
			slog.Int("status", resp.StatusCode), slog.Any(constant.LogFieldErr, err))
		common.UtilSpanError(span, err)
		return &errs.TransportError{Op: op, Err: fmt.Errorf("status %d: %w", resp.StatusCode, err)}
	}

	if !envelope.Success {
		backendErr := &errs.BackendError{Status: resp.StatusCode, Message: envelope.Error}
		slog.DebugContext(ctx, "backend rejected request", traceIdAttr, slog.String("op", op), slog.Any(constant.LogFieldResponse, backendErr))
		common.UtilSpanError(span, backendErr)
		return backendErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		common.UtilSpanError(span, err)
		return &errs.TransportError{Op: op, Err: err}
	}
	return nil
}
