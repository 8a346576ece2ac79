package backend

import (
	"context"
	"fmt"
	"net/http"

	"turnos/model"
)

func (c *Client) ListUsers(ctx context.Context) ([]model.User, error) {
	var resp model.ListUsersResponse
	if err := c.do(ctx, "ListUsers", http.MethodGet, "/api/admin/users", nil, nil, &resp); err != nil {
		return nil, err
	}

	if resp.Users == nil {
		return []model.User{}, nil
	}
	return resp.Users, nil
}

func (c *Client) CreateUser(ctx context.Context, req model.CreateUserRequest) (model.User, error) {
	var resp model.UserResponse
	if err := c.do(ctx, "CreateUser", http.MethodPost, "/api/admin/users", nil, req, &resp); err != nil {
		return model.User{}, err
	}
	return resp.User, nil
}

func (c *Client) SetUserRole(ctx context.Context, id int64, role model.Role) (model.User, error) {
	var resp model.UserResponse
	path := fmt.Sprintf("/api/admin/users/%d/role", id)
	if err := c.do(ctx, "SetUserRole", http.MethodPut, path, nil, model.SetRoleRequest{Role: role}, &resp); err != nil {
		return model.User{}, err
	}
	return resp.User, nil
}

func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	return c.do(ctx, "DeleteUser", http.MethodDelete, fmt.Sprintf("/api/admin/users/%d", id), nil, nil, nil)
}
