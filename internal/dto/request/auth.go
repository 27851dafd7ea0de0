package request

type RegisterRequest struct {
	FullName string `json:"nombre" validate:"required"`
	Email    string `json:"correo" validate:"required,email"`
	Phone    string `json:"telefono" validate:"required,phone_cr"`
	Password string `json:"password" validate:"required"`
}

type VerifyCodeRequest struct {
	Email string `json:"correo" validate:"required"`
	Code  string `json:"codigo" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"correo" validate:"required"`
	Password string `json:"password" validate:"required"`
}
