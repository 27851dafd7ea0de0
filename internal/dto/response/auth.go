package response

import (
	"cotecsa-backend/internal/data/entity"
)

type MessageResponse struct {
	Message string `json:"mensaje"`
}

type OKResponse struct {
	OK bool `json:"ok"`
}

// UserInfo is the public projection of a user. It never carries the password
// hash or a pending verification code.
type UserInfo struct {
	ID       int64           `json:"id"`
	FullName string          `json:"nombre"`
	Email    string          `json:"correo"`
	Role     entity.UserRole `json:"rol"`
}

type LoginResponse struct {
	Message string   `json:"mensaje"`
	User    UserInfo `json:"usuario"`
}

func UserToInfo(user *entity.User) UserInfo {
	return UserInfo{
		ID:       user.ID,
		FullName: user.FullName,
		Email:    user.Email,
		Role:     user.Role,
	}
}
