package request

type ChangeRoleRequest struct {
	Role string `json:"rol" validate:"required"`
}
