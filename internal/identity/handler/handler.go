package handler

import (
	"net/http"

	"orghub_backend/internal/identity/repository"
	"orghub_backend/internal/identity/service"
	"orghub_backend/internal/identity/transport"
	"orghub_backend/platform/httpkit"
	"orghub_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
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
	rg.GET("/users/:id", h.GetUser)
	rg.GET("/organisations", h.ListOrganisations)
	rg.GET("/organisations/:orgId", h.GetOrganisation)
	rg.POST("/organisations", h.CreateOrganisation)
	rg.POST("/organisations/:orgId/users", h.AddMember)
}

func (h *Handler) GetUser(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Failure(c, http.StatusNotFound, "user not found")
		return
	}

	user, err := h.svc.GetUser(c.Request.Context(), identity.UserID(), targetID)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, "User retrieved successfully", gin.H{"user": toUserResponse(user)})
}

func (h *Handler) ListOrganisations(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	orgs, err := h.svc.ListOrganisations(c.Request.Context(), identity.UserID())
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	data := transport.OrganisationListData{
		Organisations: make([]transport.OrganisationResponse, 0, len(orgs)),
	}
	for _, org := range orgs {
		data.Organisations = append(data.Organisations, toOrganisationResponse(org))
	}

	httpkit.OK(c, "Organisations retrieved successfully", data)
}

func (h *Handler) GetOrganisation(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	orgID, err := uuid.Parse(c.Param("orgId"))
	if err != nil {
		httpkit.Failure(c, http.StatusNotFound, "organisation not found")
		return
	}

	org, err := h.svc.GetOrganisation(c.Request.Context(), identity.UserID(), orgID)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, "Organisation retrieved successfully", toOrganisationResponse(org))
}

func (h *Handler) CreateOrganisation(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	var req transport.CreateOrganisationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Failure(c, http.StatusBadRequest, msgInvalidRequest)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.ValidationFailed(c, validator.FieldErrors(err))
		return
	}

	var description *string
	if req.Description != "" {
		description = &req.Description
	}

	org, err := h.svc.CreateOrganisation(c.Request.Context(), identity.UserID(), req.Name, description)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.Created(c, "Organisation created successfully", toOrganisationResponse(org))
}

func (h *Handler) AddMember(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	orgID, err := uuid.Parse(c.Param("orgId"))
	if err != nil {
		httpkit.Failure(c, http.StatusNotFound, "organisation not found")
		return
	}

	var req transport.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Failure(c, http.StatusBadRequest, msgInvalidRequest)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.ValidationFailed(c, validator.FieldErrors(err))
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		httpkit.Failure(c, http.StatusNotFound, "user not found")
		return
	}

	if err := h.svc.AddMember(c.Request.Context(), identity.UserID(), orgID, userID); err != nil {
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, "User added to organisation successfully", nil)
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

func toOrganisationResponse(org repository.Organisation) transport.OrganisationResponse {
	resp := transport.OrganisationResponse{
		OrgID: org.ID.String(),
		Name:  org.Name,
	}
	if org.Description != nil {
		resp.Description = *org.Description
	}
	return resp
}
