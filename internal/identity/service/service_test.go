package service

import (
	"context"
	"testing"

	"orghub_backend/internal/events"
	"orghub_backend/internal/identity/repository"
	"orghub_backend/platform/apperr"
	"orghub_backend/platform/logger"

	"github.com/google/uuid"
)

type membership struct {
	orgID  uuid.UUID
	userID uuid.UUID
}

// fakeRepo is an in-memory IdentityRepository for service tests.
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

func (f *fakeRepo) addUser() uuid.UUID {
	id := uuid.New()
	f.users[id] = repository.User{ID: id, FirstName: "Test", LastName: "User", Email: id.String() + "@example.com"}
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

func newTestService(repo repository.IdentityRepository) *Service {
	log := logger.New("development")
	return New(repo, events.NewInMemoryBus(log), log)
}

func TestCanViewUserSelf(t *testing.T) {
	repo := newFakeRepo()
	userID := repo.addUser()
	svc := newTestService(repo)

	ok, err := svc.CanViewUser(context.Background(), userID, userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("a user must always be able to view themselves")
	}
}

func TestCanViewUserSharedOrganisation(t *testing.T) {
	repo := newFakeRepo()
	a := repo.addUser()
	b := repo.addUser()
	org := repo.addOrg("Shared Org")
	repo.link(org, a)
	repo.link(org, b)
	svc := newTestService(repo)

	ok, err := svc.CanViewUser(context.Background(), a, b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("users sharing an organisation must be able to view each other")
	}
}

func TestCanViewUserDisjointMemberships(t *testing.T) {
	repo := newFakeRepo()
	a := repo.addUser()
	b := repo.addUser()
	repo.link(repo.addOrg("A Org"), a)
	repo.link(repo.addOrg("B Org"), b)
	svc := newTestService(repo)

	ok, err := svc.CanViewUser(context.Background(), a, b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("users with disjoint memberships must not view each other")
	}
}

func TestCanViewUserUnresolvable(t *testing.T) {
	repo := newFakeRepo()
	a := repo.addUser()
	svc := newTestService(repo)

	ok, err := svc.CanViewUser(context.Background(), a, uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("an unresolvable target must not be viewable")
	}

	ok, err = svc.CanViewUser(context.Background(), uuid.New(), a)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("an unresolvable requester must not view anyone")
	}
}

func TestSharedOrganisationsIntersection(t *testing.T) {
	repo := newFakeRepo()
	a := repo.addUser()
	b := repo.addUser()
	shared := repo.addOrg("Shared")
	repo.link(shared, a)
	repo.link(shared, b)
	repo.link(repo.addOrg("Only A"), a)
	repo.link(repo.addOrg("Only B"), b)
	svc := newTestService(repo)

	ids, err := svc.SharedOrganisations(context.Background(), a, b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ids) != 1 || ids[0] != shared {
		t.Fatalf("expected exactly the shared org id, got %v", ids)
	}
}

func TestGetUserForbiddenWithoutSharedOrganisation(t *testing.T) {
	repo := newFakeRepo()
	a := repo.addUser()
	b := repo.addUser()
	svc := newTestService(repo)

	_, err := svc.GetUser(context.Background(), a, b)
	if !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestGetUserNotFound(t *testing.T) {
	repo := newFakeRepo()
	a := repo.addUser()
	svc := newTestService(repo)

	_, err := svc.GetUser(context.Background(), a, uuid.New())
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestGetOrganisationRequiresMembership(t *testing.T) {
	repo := newFakeRepo()
	member := repo.addUser()
	outsider := repo.addUser()
	org := repo.addOrg("Members Only")
	repo.link(org, member)
	svc := newTestService(repo)

	if _, err := svc.GetOrganisation(context.Background(), member, org); err != nil {
		t.Fatalf("member should see the organisation, got %v", err)
	}

	_, err := svc.GetOrganisation(context.Background(), outsider, org)
	if !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("expected forbidden for non-member, got %v", err)
	}

	_, err = svc.GetOrganisation(context.Background(), member, uuid.New())
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found for missing organisation, got %v", err)
	}
}

func TestCreateOrganisationMakesCreatorMember(t *testing.T) {
	repo := newFakeRepo()
	creator := repo.addUser()
	svc := newTestService(repo)

	org, err := svc.CreateOrganisation(context.Background(), creator, "New Org", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	member, err := repo.IsMember(context.Background(), creator, org.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !member {
		t.Fatal("creator must be the organisation's first member")
	}
}

func TestAddMemberTaxonomy(t *testing.T) {
	repo := newFakeRepo()
	requester := repo.addUser()
	target := repo.addUser()
	org := repo.addOrg("Org")
	svc := newTestService(repo)

	if err := svc.AddMember(context.Background(), requester, org, target); err != nil {
		t.Fatalf("first add should succeed, got %v", err)
	}

	err := svc.AddMember(context.Background(), requester, org, target)
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("duplicate membership must conflict, got %v", err)
	}

	count := 0
	for _, m := range repo.memberships {
		if m.orgID == org && m.userID == target {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("membership count for the pair must stay 1, got %d", count)
	}

	err = svc.AddMember(context.Background(), requester, uuid.New(), target)
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("missing organisation must be not found, got %v", err)
	}

	err = svc.AddMember(context.Background(), requester, org, uuid.New())
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("missing user must be not found, got %v", err)
	}
}
