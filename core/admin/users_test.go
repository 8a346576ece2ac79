package admin

import (
	"context"

	"turnos/common/constant"
	"turnos/common/errs"
	"turnos/model"
)

func (s *ConsoleTestSuite) TestCreateUser() {
	testCases := []struct {
		name     string
		req      model.CreateUserRequest
		expected map[string]string
	}{
		{
			name: "valid with default role",
			req:  model.CreateUserRequest{Username: " maria ", Email: "maria@sep.mx", Password: "secreto"},
		},
		{
			name:     "short username",
			req:      model.CreateUserRequest{Username: "ana", Email: "ana@sep.mx", Password: "secreto"},
			expected: map[string]string{"username": constant.MsgUsernameTooShort},
		},
		{
			name:     "email without at",
			req:      model.CreateUserRequest{Username: "maria", Email: "maria.sep.mx", Password: "secreto"},
			expected: map[string]string{"email": constant.MsgInvalidEmail},
		},
		{
			name:     "short password",
			req:      model.CreateUserRequest{Username: "maria", Email: "maria@sep.mx", Password: "12345"},
			expected: map[string]string{"password": constant.MsgPasswordTooShort},
		},
		{
			name:     "unknown role",
			req:      model.CreateUserRequest{Username: "maria", Email: "maria@sep.mx", Password: "secreto", Role: "root"},
			expected: map[string]string{"role": constant.MsgInvalidRole},
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.SetupTest()
			s.backend.createUserFn = func(ctx context.Context, req model.CreateUserRequest) (model.User, error) {
				s.Equal("maria", req.Username)
				s.Equal(model.RoleUser, req.Role)
				return model.User{ID: 1, Username: req.Username, Email: req.Email, Role: req.Role}, nil
			}

			user, err := s.console.CreateUser(context.Background(), tc.req)

			if tc.expected != nil {
				var validationErr *errs.ValidationError
				s.Require().ErrorAs(err, &validationErr)
				s.Equal(tc.expected, validationErr.Fields)
				s.Empty(s.backend.calls)
				return
			}
			s.Require().NoError(err)
			s.Equal(model.RoleUser, user.Role)
		})
	}
}

func (s *ConsoleTestSuite) TestCreateUserBackendRejection() {
	s.backend.createUserFn = func(ctx context.Context, req model.CreateUserRequest) (model.User, error) {
		return model.User{}, &errs.BackendError{Status: 400, Message: "El usuario ya existe"}
	}

	_, err := s.console.CreateUser(context.Background(), model.CreateUserRequest{
		Username: "maria", Email: "maria@sep.mx", Password: "secreto", Role: model.RoleAdmin,
	})

	s.Equal("El usuario ya existe", errs.UserMessage(err))
}

func (s *ConsoleTestSuite) TestToggleRole() {
	var roles []model.Role
	s.backend.setRoleFn = func(ctx context.Context, id int64, role model.Role) (model.User, error) {
		roles = append(roles, role)
		return model.User{ID: id, Role: role}, nil
	}

	user, err := s.console.ToggleRole(context.Background(), model.User{ID: 2, Role: model.RoleAdmin})
	s.Require().NoError(err)
	s.Equal(model.RoleUser, user.Role)

	user, err = s.console.ToggleRole(context.Background(), user)
	s.Require().NoError(err)
	s.Equal(model.RoleAdmin, user.Role)

	s.Equal([]model.Role{model.RoleUser, model.RoleAdmin}, roles)
}

func (s *ConsoleTestSuite) TestSetRoleRejectsUnknownRole() {
	_, err := s.console.SetRole(context.Background(), 2, "superadmin")

	var validationErr *errs.ValidationError
	s.Require().ErrorAs(err, &validationErr)
	s.Empty(s.backend.calls)
}

func (s *ConsoleTestSuite) TestUsersListAndDelete() {
	s.backend.listUsersFn = func(ctx context.Context) ([]model.User, error) {
		return []model.User{{ID: 1, Username: "admin", Role: model.RoleAdmin}}, nil
	}
	s.backend.deleteUserFn = func(ctx context.Context, id int64) error {
		return nil
	}

	users, err := s.console.ListUsers(context.Background())
	s.Require().NoError(err)
	s.Len(users, 1)

	s.ErrorIs(s.console.DeleteUser(context.Background(), 1, false), errs.ErrNotConfirmed)
	s.NoError(s.console.DeleteUser(context.Background(), 1, true))

	s.Equal([]string{"ListUsers", "DeleteUser"}, s.backend.calls)
}
