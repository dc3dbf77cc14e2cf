package handler

import (
	"net/http"

	"orghub_backend/internal/auth/repository"
	"orghub_backend/internal/auth/service"
	"orghub_backend/internal/auth/transport"
	"orghub_backend/platform/apperr"
	"orghub_backend/platform/httpkit"
	"orghub_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const msgInvalidRequest = "invalid request"

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/register", h.Register)
	rg.POST("/login", h.Login)
}

func (h *Handler) Register(c *gin.Context) {
	var req transport.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Failure(c, http.StatusBadRequest, msgInvalidRequest)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.ValidationFailed(c, validator.FieldErrors(err))
		return
	}

	result, err := h.svc.Register(c.Request.Context(), service.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Phone:     req.Phone,
	})
	if err != nil {
		// A taken email is reported the same way as a missing field on
		// this endpoint: 422 with the offending field named.
		if apperr.Is(err, apperr.KindConflict) {
			httpkit.ValidationFailed(c, []apperr.FieldError{
				{Field: "email", Message: "email already exists"},
			})
			return
		}
		httpkit.HandleError(c, err)
		return
	}

	httpkit.Created(c, "Registration successful", transport.AuthData{
		AccessToken: result.AccessToken,
		User:        toUserResponse(result.User),
	})
}

func (h *Handler) Login(c *gin.Context) {
	var req transport.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Failure(c, http.StatusBadRequest, msgInvalidRequest)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.ValidationFailed(c, validator.FieldErrors(err))
		return
	}

	result, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, "Login successful", transport.AuthData{
		AccessToken: result.AccessToken,
		User:        toUserResponse(result.User),
	})
}

func toUserResponse(user repository.User) transport.UserResponse {
	resp := transport.UserResponse{
		UserID:    user.ID.String(),
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
	}
	if user.Phone != nil {
		resp.Phone = *user.Phone
	}
	return resp
}
