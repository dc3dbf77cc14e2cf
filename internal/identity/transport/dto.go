package transport

type CreateOrganisationRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

type AddMemberRequest struct {
	UserID string `json:"userId" validate:"required"`
}

type OrganisationResponse struct {
	OrgID       string `json:"orgId"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type OrganisationListData struct {
	Organisations []OrganisationResponse `json:"organisations"`
}

type UserResponse struct {
	UserID    string `json:"userId"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
}
