package dto

import "github.com/RoyceAzure/lab/storefront/internal/service"

type RegisterDTO struct {
	Email     string `json:"email" validate:"notblank,max=255"`
	Password  string `json:"password" validate:"required,max=72"`
	FirstName string `json:"firstName" validate:"notblank,max=100"`
	LastName  string `json:"lastName" validate:"notblank,max=100"`
}

func (d RegisterDTO) ToRequest() service.RegisterRequest {
	return service.RegisterRequest{
		Email:     d.Email,
		Password:  d.Password,
		FirstName: d.FirstName,
		LastName:  d.LastName,
	}
}

type RegisterResponse struct {
	Message string `json:"message"`
	UserID  string `json:"userId"`
}

type LoginDTO struct {
	Email    string `json:"email" validate:"notblank"`
	Password string `json:"password" validate:"required"`
}
