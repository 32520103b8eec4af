package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medresearch/internal/models"
)

// fakeProjectRepo is an in-memory ProjectRepository with a unique-name
// constraint matching the real table.
type fakeProjectRepo struct {
	seq  int
	byID map[int]*models.Project
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{byID: map[int]*models.Project{}}
}

func (f *fakeProjectRepo) Create(p *models.Project) error {
	for _, other := range f.byID {
		if other.Name == p.Name {
			return errors.New("pq: duplicate key value violates unique constraint \"projects_name_key\"")
		}
	}
	f.seq++
	p.ID = f.seq
	p.CreatedAt = time.Now()
	f.byID[p.ID] = p
	return nil
}

func (f *fakeProjectRepo) GetByID(id int) (*models.Project, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	c := *p
	return &c, nil
}

func (f *fakeProjectRepo) List() ([]*models.Project, error) {
	var res []*models.Project
	for _, p := range f.byID {
		c := *p
		res = append(res, &c)
	}
	return res, nil
}

func (f *fakeProjectRepo) Update(p *models.Project) error {
	for _, other := range f.byID {
		if other.ID != p.ID && other.Name == p.Name {
			return errors.New("pq: duplicate key value violates unique constraint \"projects_name_key\"")
		}
	}
	f.byID[p.ID] = p
	return nil
}

func (f *fakeProjectRepo) ReplaceMembers(projectID int, memberIDs []int) error {
	if p, ok := f.byID[projectID]; ok {
		p.MemberIDs = memberIDs
	}
	return nil
}

func (f *fakeProjectRepo) GetMemberIDs(projectID int) ([]int, error) {
	if p, ok := f.byID[projectID]; ok {
		return p.MemberIDs, nil
	}
	return nil, nil
}

func newTestProjectService(t *testing.T) (ProjectService, *fakeProjectRepo, *fakeUserRepo) {
	t.Helper()
	users := newFakeUserRepo()
	repo := newFakeProjectRepo()
	return NewProjectService(repo, users), repo, users
}

func seedMembers(users *fakeUserRepo, n int) []int {
	ids := make([]int, 0, n)
	for i := 0; i < n; i++ {
		u := users.add(&models.User{Email: string(rune('a'+i)) + "@example.com"})
		ids = append(ids, u.ID)
	}
	return ids
}

func TestCreateProject(t *testing.T) {
	svc, _, users := newTestProjectService(t)
	lead := users.add(&models.User{Email: "lead@example.com"})

	p, err := svc.CreateProject(&models.ProjectCreate{
		Name:        "Cardiac MRI Study",
		Description: "Longitudinal imaging",
		LeadUserID:  lead.ID,
	})
	require.NoError(t, err)
	assert.NotZero(t, p.ID)
	require.NotNil(t, p.Description)
	assert.Equal(t, "Longitudinal imaging", *p.Description)
	assert.Empty(t, p.MemberIDs)
	assert.NotNil(t, p.MemberIDs, "members serialize as [], not null")
}

func TestCreateProject_UnknownLead(t *testing.T) {
	svc, _, _ := newTestProjectService(t)

	_, err := svc.CreateProject(&models.ProjectCreate{Name: "X", LeadUserID: 42})
	assert.ErrorIs(t, err, ErrLeadUserNotFound)
}

func TestCreateProject_UnknownMember(t *testing.T) {
	svc, _, users := newTestProjectService(t)
	lead := users.add(&models.User{Email: "lead@example.com"})

	_, err := svc.CreateProject(&models.ProjectCreate{
		Name:       "X",
		LeadUserID: lead.ID,
		MemberIDs:  []int{999},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Member user 999 not found")
}

func TestCreateProject_MemberCap(t *testing.T) {
	svc, _, users := newTestProjectService(t)
	ids := seedMembers(users, models.MaxProjectMembers+2)
	lead := ids[0]

	_, err := svc.CreateProject(&models.ProjectCreate{
		Name:       "Too big",
		LeadUserID: lead,
		MemberIDs:  ids[1:],
	})
	assert.ErrorIs(t, err, ErrTooManyMembers)

	p, err := svc.CreateProject(&models.ProjectCreate{
		Name:       "Just right",
		LeadUserID: lead,
		MemberIDs:  ids[1 : 1+models.MaxProjectMembers],
	})
	require.NoError(t, err)
	assert.Len(t, p.MemberIDs, models.MaxProjectMembers)
}

func TestCreateProject_DuplicateName(t *testing.T) {
	svc, _, users := newTestProjectService(t)
	lead := users.add(&models.User{Email: "lead@example.com"})

	_, err := svc.CreateProject(&models.ProjectCreate{Name: "Study A", LeadUserID: lead.ID})
	require.NoError(t, err)

	_, err = svc.CreateProject(&models.ProjectCreate{Name: "Study A", LeadUserID: lead.ID})
	assert.ErrorIs(t, err, ErrProjectNameTaken)
}

func TestUpdateProject(t *testing.T) {
	svc, _, users := newTestProjectService(t)
	ids := seedMembers(users, 3)

	p, err := svc.CreateProject(&models.ProjectCreate{Name: "Study A", LeadUserID: ids[0]})
	require.NoError(t, err)

	name := "Study A (renamed)"
	members := []int{ids[1], ids[2]}
	updated, err := svc.UpdateProject(p.ID, &models.ProjectUpdate{
		Name:      &name,
		MemberIDs: &members,
	})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)
	assert.Equal(t, members, updated.MemberIDs)
}

func TestUpdateProject_NotFound(t *testing.T) {
	svc, _, _ := newTestProjectService(t)
	_, err := svc.UpdateProject(12345, &models.ProjectUpdate{})
	assert.ErrorIs(t, err, ErrProjectNotFound)
}

func TestUpdateProject_UnknownLead(t *testing.T) {
	svc, _, users := newTestProjectService(t)
	lead := users.add(&models.User{Email: "lead@example.com"})

	p, err := svc.CreateProject(&models.ProjectCreate{Name: "Study A", LeadUserID: lead.ID})
	require.NoError(t, err)

	bogus := 999
	_, err = svc.UpdateProject(p.ID, &models.ProjectUpdate{LeadUserID: &bogus})
	assert.ErrorIs(t, err, ErrLeadUserNotFound)
}

func TestListProjectUsers(t *testing.T) {
	svc, _, users := newTestProjectService(t)
	users.add(&models.User{Email: "one@example.com", FirstName: "One"})
	users.add(&models.User{Email: "two@example.com", FirstName: "Two"})

	summaries, err := svc.ListProjectUsers()
	require.NoError(t, err)
	assert.Len(t, summaries, 2)
	for _, s := range summaries {
		assert.NotZero(t, s.ID)
		assert.NotEmpty(t, s.Email)
	}
}
