package users

import (
	"github.com/angelmondragon/kitchenline-backend/pkg/db/models"
	"github.com/angelmondragon/kitchenline-backend/pkg/enums"
	"github.com/google/uuid"
)

// UserDTO is the public shape of a user reference.
type UserDTO struct {
	ID   uuid.UUID      `json:"id"`
	Name string         `json:"name"`
	Role enums.UserRole `json:"role"`
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{ID: u.ID, Name: u.Name, Role: u.Role}
}
