package converter

import (
	"unihealth-admin/internal/delivery/dto"
	"unihealth-admin/internal/domain/entity"
)

// UserToResponse converts a User entity to UserResponse DTO
func UserToResponse(user *entity.User) *dto.UserResponse {
	if user == nil {
		return nil
	}

	return &dto.UserResponse{
		ID:          user.ID,
		Email:       user.Email,
		FullName:    user.FullName,
		Role:        user.UserRole().String(),
		IsActive:    user.Active(),
		LastLoginAt: user.LastLoginAt,
		CreatedAt:   user.CreatedAt,
		UpdatedAt:   user.UpdatedAt,
	}
}

// UsersToResponses converts a slice of User entities to slice of UserResponse DTOs
func UsersToResponses(users []entity.User) []dto.UserResponse {
	responses := make([]dto.UserResponse, len(users))
	for i := range users {
		responses[i] = *UserToResponse(&users[i])
	}
	return responses
}

// RolesToResponses keeps the roles the console knows about, in id order
func RolesToResponses(roles []entity.Role) []dto.RoleResponse {
	responses := make([]dto.RoleResponse, 0, len(roles))
	for _, role := range roles {
		if _, ok := entity.ParseUserRole(role.RoleName); !ok {
			continue
		}
		responses = append(responses, dto.RoleResponse{
			ID:          role.ID,
			Name:        role.RoleName,
			Description: role.Description,
		})
	}
	return responses
}
