package handler

import (
	"net/http"

	"github.com/RoyceAzure/lab/storefront/internal/api/dto"
	"github.com/RoyceAzure/lab/storefront/internal/api/response"
	"github.com/RoyceAzure/lab/storefront/internal/pkg/util"
	"github.com/RoyceAzure/lab/storefront/internal/service"
)

type AuthHandler struct {
	userService service.IUserService
}

func NewAuthHandler(userService service.IUserService) *AuthHandler {
	if userService == nil {
		panic("userService cannot be nil")
	}
	return &AuthHandler{userService: userService}
}

func (a *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var registerDTO dto.RegisterDTO
	if err := response.DecodeJSON(r, &registerDTO); err != nil {
		response.ErrorJSON(w, err)
		return
	}
	if err := dto.Validate(registerDTO); err != nil {
		response.ErrorJSON(w, err)
		return
	}

	user, err := a.userService.Register(r.Context(), registerDTO.ToRequest())
	if err != nil {
		response.ErrorJSON(w, err)
		return
	}
	response.SuccessJSON(w, http.StatusCreated, dto.RegisterResponse{
		Message: "account created",
		UserID:  user.ID,
	})
}

func (a *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var loginDTO dto.LoginDTO
	if err := response.DecodeJSON(r, &loginDTO); err != nil {
		response.ErrorJSON(w, err)
		return
	}
	if err := dto.Validate(loginDTO); err != nil {
		response.ErrorJSON(w, err)
		return
	}

	loginRes, err := a.userService.Login(r.Context(), loginDTO.Email, loginDTO.Password)
	if err != nil {
		response.ErrorJSON(w, err)
		return
	}
	response.SuccessJSON(w, http.StatusOK, loginRes)
}

func (a *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, _ := util.GetUserID(r.Context())
	user, err := a.userService.Me(r.Context(), userID)
	if err != nil {
		response.ErrorJSON(w, err)
		return
	}
	response.SuccessJSON(w, http.StatusOK, user)
}
