package response

import (
	"cotecsa-backend/internal/data/entity"
)

type UserListItem struct {
	ID       int64           `json:"id"`
	FullName string          `json:"nombre"`
	Email    string          `json:"correo"`
	Phone    string          `json:"telefono"`
	Role     entity.UserRole `json:"rol"`
}

func UsersToList(users []*entity.User) []UserListItem {
	items := make([]UserListItem, 0, len(users))
	for _, user := range users {
		items = append(items, UserListItem{
			ID:       user.ID,
			FullName: user.FullName,
			Email:    user.Email,
			Phone:    user.Phone,
			Role:     user.Role,
		})
	}
	return items
}
