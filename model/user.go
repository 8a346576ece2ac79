package model

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// Toggle returns the other role of the binary role model.
func (r Role) Toggle() Role {
	if r == RoleAdmin {
		return RoleUser
	}
	return RoleAdmin
}

type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Role     Role   `json:"role"`
}

type CreateUserRequest struct {
	Username string `json:"username" validate:"min=4"`
	Email    string `json:"email" validate:"required,contains=@"`
	Password string `json:"password" validate:"min=6"`
	Role     Role   `json:"role" validate:"oneof=admin user"`
}

type SetRoleRequest struct {
	Role Role `json:"role"`
}

type ListUsersResponse struct {
	Envelope
	Users []User `json:"users"`
}

type UserResponse struct {
	Envelope
	User User `json:"user"`
}
