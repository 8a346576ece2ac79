package admin

import (
	"context"
	"log/slog"
	"strings"

	"turnos/common"
	"turnos/common/constant"
	"turnos/common/errs"
	"turnos/common/otel"
	"turnos/model"
)

var createUserMessages = map[string]string{
	"username": constant.MsgUsernameTooShort,
	"email":    constant.MsgInvalidEmail,
	"password": constant.MsgPasswordTooShort,
	"role":     constant.MsgInvalidRole,
}

func (c *Console) ListUsers(ctx context.Context) ([]model.User, error) {
	ctx, span := otel.Tracer.Start(ctx, "AdminConsole.ListUsers")
	defer span.End()

	users, err := c.backend.ListUsers(ctx)
	if err != nil {
		common.UtilSpanError(span, err)
		return nil, err
	}
	return users, nil
}

// CreateUser checks the account fields before calling the backend. An empty
// role defaults to user.
func (c *Console) CreateUser(ctx context.Context, req model.CreateUserRequest) (model.User, error) {
	ctx, span := otel.Tracer.Start(ctx, "AdminConsole.CreateUser")
	defer span.End()

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if req.Role == "" {
		req.Role = model.RoleUser
	}

	result := c.validator.Struct(req, createUserMessages)
	if !result.Valid {
		slog.DebugContext(ctx, "user creation rejected", common.ExtractTraceIDFromCtx(ctx), slog.Any(constant.LogFieldPayload, result.Errors))
		return model.User{}, result.Err()
	}

	user, err := c.backend.CreateUser(ctx, req)
	if err != nil {
		common.UtilSpanError(span, err)
		return model.User{}, err
	}

	slog.InfoContext(ctx, "user created", common.ExtractTraceIDFromCtx(ctx), slog.String(constant.LogFieldResponse, user.Username))
	return user, nil
}

func (c *Console) SetRole(ctx context.Context, id int64, role model.Role) (model.User, error) {
	if !role.Valid() {
		return model.User{}, &errs.ValidationError{Fields: map[string]string{"role": constant.MsgInvalidRole}}
	}

	ctx, span := otel.Tracer.Start(ctx, "AdminConsole.SetRole")
	defer span.End()

	user, err := c.backend.SetUserRole(ctx, id, role)
	if err != nil {
		common.UtilSpanError(span, err)
		return model.User{}, err
	}
	if user.ID == 0 {
		user.ID = id
	}
	if user.Role == "" {
		user.Role = role
	}
	return user, nil
}

// ToggleRole switches u between admin and user.
func (c *Console) ToggleRole(ctx context.Context, u model.User) (model.User, error) {
	return c.SetRole(ctx, u.ID, u.Role.Toggle())
}

func (c *Console) DeleteUser(ctx context.Context, id int64, confirmed bool) error {
	if !confirmed {
		return errs.ErrNotConfirmed
	}

	ctx, span := otel.Tracer.Start(ctx, "AdminConsole.DeleteUser")
	defer span.End()

	if err := c.backend.DeleteUser(ctx, id); err != nil {
		common.UtilSpanError(span, err)
		return err
	}
	return nil
}
