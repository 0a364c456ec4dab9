package dto

// Request DTOs

type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"full_name" validate:"required,min=2"`
	Role     string `json:"role" validate:"required,user_role"`
}

type ChangeUserRoleRequest struct {
	Role string `json:"role" validate:"required,user_role"`
}

type ChangeUserStatusRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

// Response DTOs

type RoleResponse struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type UserListResponse struct {
	Users []UserResponse `json:"users"`
	Roles []RoleResponse `json:"roles"`
}
