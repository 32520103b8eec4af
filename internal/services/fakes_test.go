package services

import (
	"database/sql"
	"fmt"
	"time"

	"medresearch/internal/models"
)

// fakeUserRepo is an in-memory UserRepository. Reads hand out copies so that
// mutations only become visible once explicitly persisted, like a real store.
type fakeUserRepo struct {
	seq      int
	byEmail  map[string]*models.User
	roles    map[int][]string // userID -> role names
	assigned map[int][]int    // userID -> role ids

	failNext error // returned by the next mutating call, then cleared
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byEmail:  map[string]*models.User{},
		roles:    map[int][]string{},
		assigned: map[int][]int{},
	}
}

func (f *fakeUserRepo) add(u *models.User) *models.User {
	f.seq++
	u.ID = f.seq
	u.CreatedAt = time.Now()
	f.byEmail[u.Email] = u
	return u
}

func copyUser(u *models.User) *models.User {
	c := *u
	if u.TOTPSecret != nil {
		s := *u.TOTPSecret
		c.TOTPSecret = &s
	}
	if u.LockUntil != nil {
		t := *u.LockUntil
		c.LockUntil = &t
	}
	return &c
}

func (f *fakeUserRepo) byID(id int) *models.User {
	for _, u := range f.byEmail {
		if u.ID == id {
			return u
		}
	}
	return nil
}

func (f *fakeUserRepo) takeErr() error {
	err := f.failNext
	f.failNext = nil
	return err
}

func (f *fakeUserRepo) Create(user *models.User) error {
	if err := f.takeErr(); err != nil {
		return err
	}
	if _, ok := f.byEmail[user.Email]; ok {
		return fmt.Errorf("duplicate key value violates unique constraint \"users_email_key\"")
	}
	f.add(user)
	return nil
}

func (f *fakeUserRepo) GetByID(id int) (*models.User, error) {
	if u := f.byID(id); u != nil {
		return copyUser(u), nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeUserRepo) GetByEmail(email string) (*models.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return copyUser(u), nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeUserRepo) List(limit, offset int) ([]*models.User, error) {
	var res []*models.User
	for _, u := range f.byEmail {
		res = append(res, copyUser(u))
	}
	return res, nil
}

func (f *fakeUserRepo) UpdateLoginState(userID, failedAttempts int, lockUntil *time.Time) error {
	if err := f.takeErr(); err != nil {
		return err
	}
	u := f.byID(userID)
	if u == nil {
		return sql.ErrNoRows
	}
	u.FailedLoginAttempts = failedAttempts
	u.LockUntil = lockUntil
	return nil
}

func (f *fakeUserRepo) SetTOTPSecret(userID int, secret string) error {
	if err := f.takeErr(); err != nil {
		return err
	}
	u := f.byID(userID)
	if u == nil {
		return sql.ErrNoRows
	}
	if u.TOTPSecret == nil {
		u.TOTPSecret = &secret
	}
	return nil
}

func (f *fakeUserRepo) MarkTOTPVerified(userID int) error {
	if err := f.takeErr(); err != nil {
		return err
	}
	u := f.byID(userID)
	if u == nil {
		return sql.ErrNoRows
	}
	u.IsTOTPVerified = true
	return nil
}

func (f *fakeUserRepo) GetRoleNames(userID int) ([]string, error) {
	return f.roles[userID], nil
}

func (f *fakeUserRepo) AssignRoles(userID int, roleIDs []int) error {
	f.assigned[userID] = append(f.assigned[userID], roleIDs...)
	return nil
}

// fakePendingRepo is an in-memory PendingRegistrationRepository.
type fakePendingRepo struct {
	seq  int
	byID map[int]*models.PendingRegistration
}

func newFakePendingRepo() *fakePendingRepo {
	return &fakePendingRepo{byID: map[int]*models.PendingRegistration{}}
}

func (f *fakePendingRepo) Create(p *models.PendingRegistration) error {
	f.seq++
	p.ID = f.seq
	p.SubmittedAt = time.Now()
	f.byID[p.ID] = p
	return nil
}

func (f *fakePendingRepo) GetByEmail(email string) (*models.PendingRegistration, error) {
	for _, p := range f.byID {
		if p.Email == email {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakePendingRepo) GetByID(id int) (*models.PendingRegistration, error) {
	return f.byID[id], nil
}

func (f *fakePendingRepo) ListPending() ([]*models.PendingRegistration, error) {
	var res []*models.PendingRegistration
	for _, p := range f.byID {
		if p.Status == models.RegistrationStatusPending {
			res = append(res, p)
		}
	}
	return res, nil
}

func (f *fakePendingRepo) SetStatus(id int, status string) error {
	if p, ok := f.byID[id]; ok {
		p.Status = status
	}
	return nil
}

func (f *fakePendingRepo) Delete(id int) error {
	delete(f.byID, id)
	return nil
}

// fakeRoleRepo serves a fixed role set.
type fakeRoleRepo struct {
	byIDs map[int]*models.Role
}

func newFakeRoleRepo() *fakeRoleRepo {
	return &fakeRoleRepo{byIDs: map[int]*models.Role{
		1: {ID: 1, Name: "admin"},
		2: {ID: 2, Name: "researcher"},
		3: {ID: 3, Name: "viewer"},
	}}
}

func (f *fakeRoleRepo) Create(role *models.Role) error {
	role.ID = len(f.byIDs) + 1
	f.byIDs[role.ID] = role
	return nil
}

func (f *fakeRoleRepo) GetByName(name string) (*models.Role, error) {
	for _, r := range f.byIDs {
		if r.Name == name {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeRoleRepo) GetByIDs(ids []int) ([]*models.Role, error) {
	var res []*models.Role
	for _, id := range ids {
		r, ok := f.byIDs[id]
		if !ok {
			return nil, fmt.Errorf("role %d not found", id)
		}
		res = append(res, r)
	}
	return res, nil
}

func (f *fakeRoleRepo) List() ([]*models.Role, error) {
	var res []*models.Role
	for _, r := range f.byIDs {
		res = append(res, r)
	}
	return res, nil
}

// recordingAuth wraps the real AuthService and counts verifications, so a
// test can prove no password comparison happened on a locked account.
type recordingAuth struct {
	AuthService
	verifyCalls int
}

func (r *recordingAuth) VerifyPassword(hash, plain string) bool {
	r.verifyCalls++
	return r.AuthService.VerifyPassword(hash, plain)
}
