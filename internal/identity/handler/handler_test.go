package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"orghub_backend/internal/auth/token"
	"orghub_backend/internal/events"
	"orghub_backend/internal/identity/repository"
	"orghub_backend/internal/identity/service"
	"orghub_backend/platform/config"
	"orghub_backend/platform/httpkit"
	"orghub_backend/platform/logger"
	"orghub_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const testSecret = "test-secret"

type testJWTConfig struct{}

func (testJWTConfig) GetJWTSecret() string { return testSecret }

var _ config.JWTConfig = testJWTConfig{}

type membership struct {
	orgID  uuid.UUID
	userID uuid.UUID
}

type fakeRepo struct {
	users       map[uuid.UUID]repository.User
	orgs        map[uuid.UUID]repository.Organisation
	memberships []membership
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		users: make(map[uuid.UUID]repository.User),
		orgs:  make(map[uuid.UUID]repository.Organisation),
	}
}

func (f *fakeRepo) addUser(firstName string) uuid.UUID {
	id := uuid.New()
	f.users[id] = repository.User{
		ID:        id,
		FirstName: firstName,
		LastName:  "Tester",
		Email:     strings.ToLower(firstName) + "@example.com",
	}
	return id
}

func (f *fakeRepo) addOrg(name string) uuid.UUID {
	id := uuid.New()
	f.orgs[id] = repository.Organisation{ID: id, Name: name}
	return id
}

func (f *fakeRepo) link(orgID, userID uuid.UUID) {
	f.memberships = append(f.memberships, membership{orgID: orgID, userID: userID})
}

func (f *fakeRepo) CreateOrganisationWithOwner(_ context.Context, name string, description *string, ownerID uuid.UUID) (repository.Organisation, error) {
	id := uuid.New()
	org := repository.Organisation{ID: id, Name: name, Description: description}
	f.orgs[id] = org
	f.link(id, ownerID)
	return org, nil
}

func (f *fakeRepo) GetOrganisation(_ context.Context, organisationID uuid.UUID) (repository.Organisation, error) {
	org, ok := f.orgs[organisationID]
	if !ok {
		return repository.Organisation{}, repository.ErrNotFound
	}
	return org, nil
}

func (f *fakeRepo) ListUserOrganisations(_ context.Context, userID uuid.UUID) ([]repository.Organisation, error) {
	orgs := make([]repository.Organisation, 0)
	for _, m := range f.memberships {
		if m.userID == userID {
			orgs = append(orgs, f.orgs[m.orgID])
		}
	}
	return orgs, nil
}

func (f *fakeRepo) AddMember(_ context.Context, _ repository.DBTX, organisationID, userID uuid.UUID) error {
	for _, m := range f.memberships {
		if m.orgID == organisationID && m.userID == userID {
			return repository.ErrDuplicateMember
		}
	}
	f.link(organisationID, userID)
	return nil
}

func (f *fakeRepo) IsMember(_ context.Context, userID, organisationID uuid.UUID) (bool, error) {
	for _, m := range f.memberships {
		if m.orgID == organisationID && m.userID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) SharedOrganisationIDs(_ context.Context, userA, userB uuid.UUID) ([]uuid.UUID, error) {
	inA := make(map[uuid.UUID]bool)
	for _, m := range f.memberships {
		if m.userID == userA {
			inA[m.orgID] = true
		}
	}
	shared := make([]uuid.UUID, 0)
	for _, m := range f.memberships {
		if m.userID == userB && inA[m.orgID] {
			shared = append(shared, m.orgID)
		}
	}
	return shared, nil
}

func (f *fakeRepo) GetUser(_ context.Context, userID uuid.UUID) (repository.User, error) {
	user, ok := f.users[userID]
	if !ok {
		return repository.User{}, repository.ErrNotFound
	}
	return user, nil
}

func newTestRouter(repo repository.IdentityRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := logger.New("development")
	svc := service.New(repo, events.NewInMemoryBus(log), log)
	h := New(svc, validator.New())

	engine := gin.New()
	protected := engine.Group("/api")
	protected.Use(httpkit.AuthRequired(testJWTConfig{}))
	h.RegisterRoutes(protected)
	return engine
}

func bearerFor(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	issuer := token.NewIssuer(testSecret, time.Hour)
	raw, err := issuer.Issue(userID)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return "Bearer " + raw
}

func doRequest(engine *gin.Engine, method, path, bearer, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if bearer != "" {
		req.Header.Set("Authorization", bearer)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestRoutesRejectMissingToken(t *testing.T) {
	engine := newTestRouter(newFakeRepo())

	rec := doRequest(engine, http.MethodGet, "/api/organisations", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestGetUserSelf(t *testing.T) {
	repo := newFakeRepo()
	userID := repo.addUser("Jane")
	engine := newTestRouter(repo)

	rec := doRequest(engine, http.MethodGet, "/api/users/"+userID.String(), bearerFor(t, userID), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			User struct {
				UserID string `json:"userId"`
				Email  string `json:"email"`
			} `json:"user"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp.Status != "success" || resp.Data.User.UserID != userID.String() {
		t.Fatalf("unexpected envelope: %s", rec.Body.String())
	}
}

func TestGetUserWithoutSharedOrganisationIsForbidden(t *testing.T) {
	repo := newFakeRepo()
	requester := repo.addUser("Jane")
	stranger := repo.addUser("Sam")
	repo.link(repo.addOrg("Jane Org"), requester)
	repo.link(repo.addOrg("Sam Org"), stranger)
	engine := newTestRouter(repo)

	rec := doRequest(engine, http.MethodGet, "/api/users/"+stranger.String(), bearerFor(t, requester), "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestGetUserBadIDIsNotFound(t *testing.T) {
	repo := newFakeRepo()
	userID := repo.addUser("Jane")
	engine := newTestRouter(repo)

	rec := doRequest(engine, http.MethodGet, "/api/users/not-a-uuid", bearerFor(t, userID), "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestGetOrganisationMembershipGate(t *testing.T) {
	repo := newFakeRepo()
	member := repo.addUser("Jane")
	outsider := repo.addUser("Sam")
	org := repo.addOrg("Members Only")
	repo.link(org, member)
	engine := newTestRouter(repo)

	rec := doRequest(engine, http.MethodGet, "/api/organisations/"+org.String(), bearerFor(t, member), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("member expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(engine, http.MethodGet, "/api/organisations/"+org.String(), bearerFor(t, outsider), "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("outsider expected 403, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestListOrganisationsOnlyOwn(t *testing.T) {
	repo := newFakeRepo()
	userID := repo.addUser("Jane")
	mine := repo.addOrg("Mine")
	repo.link(mine, userID)
	repo.addOrg("Not Mine")
	engine := newTestRouter(repo)

	rec := doRequest(engine, http.MethodGet, "/api/organisations", bearerFor(t, userID), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Data struct {
			Organisations []struct {
				OrgID string `json:"orgId"`
				Name  string `json:"name"`
			} `json:"organisations"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if len(resp.Data.Organisations) != 1 || resp.Data.Organisations[0].OrgID != mine.String() {
		t.Fatalf("expected only own organisation, got %s", rec.Body.String())
	}
}

func TestCreateOrganisation(t *testing.T) {
	repo := newFakeRepo()
	userID := repo.addUser("Jane")
	engine := newTestRouter(repo)

	rec := doRequest(engine, http.MethodPost, "/api/organisations", bearerFor(t, userID),
		`{"name":"New Org","description":"side project"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Message string `json:"message"`
		Data    struct {
			OrgID       string `json:"orgId"`
			Name        string `json:"name"`
			Description string `json:"description"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp.Data.Name != "New Org" || resp.Data.Description != "side project" {
		t.Fatalf("unexpected organisation payload: %s", rec.Body.String())
	}

	// Creator must have been added as the first member.
	orgID, err := uuid.Parse(resp.Data.OrgID)
	if err != nil {
		t.Fatalf("invalid orgId in response: %v", err)
	}
	isMember, _ := repo.IsMember(context.Background(), userID, orgID)
	if !isMember {
		t.Fatal("creator must be a member of the new organisation")
	}
}

func TestCreateOrganisationRequiresName(t *testing.T) {
	repo := newFakeRepo()
	userID := repo.addUser("Jane")
	engine := newTestRouter(repo)

	rec := doRequest(engine, http.MethodPost, "/api/organisations", bearerFor(t, userID), `{"description":"x"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAddMember(t *testing.T) {
	repo := newFakeRepo()
	requester := repo.addUser("Jane")
	target := repo.addUser("Sam")
	org := repo.addOrg("Org")
	repo.link(org, requester)
	engine := newTestRouter(repo)

	body := fmt.Sprintf(`{"userId":%q}`, target.String())

	rec := doRequest(engine, http.MethodPost, "/api/organisations/"+org.String()+"/users", bearerFor(t, requester), body)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	// Adding the same user twice conflicts.
	rec = doRequest(engine, http.MethodPost, "/api/organisations/"+org.String()+"/users", bearerFor(t, requester), body)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", rec.Code, rec.Body.String())
	}
}
