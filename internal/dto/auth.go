package dto

type RegisterRequestDTO struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginRequestDTO struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=8"`
}

type AuthResponseDTO struct {
	Token    string `json:"token"`
	Type     string `json:"type" example:"Bearer"`
	Username string `json:"username"`
	Role     string `json:"role" example:"USER"`
}
