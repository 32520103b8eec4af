package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medresearch/internal/models"
)

// fakeEmail records deliveries and can be told to fail.
type fakeEmail struct {
	approvals  []string
	rejections []string
	err        error
}

func (f *fakeEmail) SendApprovalEmail(email, firstName string) error {
	f.approvals = append(f.approvals, email)
	return f.err
}

func (f *fakeEmail) SendRejectionEmail(email, firstName string) error {
	f.rejections = append(f.rejections, email)
	return f.err
}

func newTestRegistrationService() (RegistrationService, *fakeUserRepo, *fakePendingRepo, *fakeEmail) {
	users := newFakeUserRepo()
	pending := newFakePendingRepo()
	email := &fakeEmail{}
	svc := NewRegistrationService(pending, users, newFakeRoleRepo(), NewAuthService(), email)
	return svc, users, pending, email
}

func registrationRequest() *models.RegistrationRequest {
	return &models.RegistrationRequest{
		Email:        "bob@example.com",
		Password:     "S3cret!pw",
		FirstName:    "Bob",
		LastName:     "Smith",
		Organisation: "Uni Hospital",
	}
}

func TestRegister_CreatesPending(t *testing.T) {
	svc, _, pending, _ := newTestRegistrationService()

	p, err := svc.Register(registrationRequest())
	require.NoError(t, err)

	assert.NotZero(t, p.ID)
	assert.Equal(t, models.RegistrationStatusPending, p.Status)
	assert.NotEqual(t, "S3cret!pw", p.PasswordHash, "password must be stored hashed")

	stored, err := pending.GetByID(p.ID)
	require.NoError(t, err)
	assert.Equal(t, "bob@example.com", stored.Email)
}

func TestRegister_EmailAlreadyUser(t *testing.T) {
	svc, users, _, _ := newTestRegistrationService()
	users.add(&models.User{Email: "bob@example.com"})

	_, err := svc.Register(registrationRequest())
	assert.ErrorIs(t, err, ErrEmailAlreadyRegistered)
}

func TestRegister_AlreadyPending(t *testing.T) {
	svc, _, _, _ := newTestRegistrationService()

	_, err := svc.Register(registrationRequest())
	require.NoError(t, err)

	_, err = svc.Register(registrationRequest())
	assert.ErrorIs(t, err, ErrRegistrationAlreadyOpen)
}

func TestApprove_CreatesUserWithRoles(t *testing.T) {
	svc, users, pending, email := newTestRegistrationService()

	p, err := svc.Register(registrationRequest())
	require.NoError(t, err)

	user, err := svc.Approve(p.ID, []int{2, 3})
	require.NoError(t, err)

	assert.Equal(t, "bob@example.com", user.Email)
	assert.Equal(t, p.PasswordHash, user.PasswordHash, "hash carries over untouched")
	assert.True(t, user.IsActive)
	assert.ElementsMatch(t, []string{"researcher", "viewer"}, user.Roles)
	assert.ElementsMatch(t, []int{2, 3}, users.assigned[user.ID])

	stored, err := pending.GetByID(p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RegistrationStatusApproved, stored.Status)
	assert.Equal(t, []string{"bob@example.com"}, email.approvals)
}

func TestApprove_InvalidRoleIDs(t *testing.T) {
	svc, _, _, _ := newTestRegistrationService()

	p, err := svc.Register(registrationRequest())
	require.NoError(t, err)

	_, err = svc.Approve(p.ID, []int{99})
	assert.ErrorIs(t, err, ErrInvalidRoleIDs)
}

func TestApprove_UnknownPending(t *testing.T) {
	svc, _, _, _ := newTestRegistrationService()
	_, err := svc.Approve(404, []int{1})
	assert.ErrorIs(t, err, ErrPendingNotFound)
}

func TestApprove_EmailFailureIsNotFatal(t *testing.T) {
	svc, _, _, email := newTestRegistrationService()
	email.err = errors.New("smtp down")

	p, err := svc.Register(registrationRequest())
	require.NoError(t, err)

	user, err := svc.Approve(p.ID, []int{2})
	require.NoError(t, err)
	assert.NotNil(t, user)
}

func TestReject_DeletesPendingAndNotifies(t *testing.T) {
	svc, _, pending, email := newTestRegistrationService()

	p, err := svc.Register(registrationRequest())
	require.NoError(t, err)

	require.NoError(t, svc.Reject(p.ID))

	gone, err := pending.GetByID(p.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
	assert.Equal(t, []string{"bob@example.com"}, email.rejections)

	assert.ErrorIs(t, svc.Reject(p.ID), ErrPendingNotFound)
}

func TestRegister_ThenApprove_ThenLogin(t *testing.T) {
	users := newFakeUserRepo()
	pending := newFakePendingRepo()
	auth := NewAuthService()
	reg := NewRegistrationService(pending, users, newFakeRoleRepo(), auth, nil)

	p, err := reg.Register(registrationRequest())
	require.NoError(t, err)
	user, err := reg.Approve(p.ID, []int{2})
	require.NoError(t, err)
	users.roles[user.ID] = []string{"researcher"}

	login, _, _ := newTestLoginService(t, users)

	res, err := login.Login("bob@example.com", "S3cret!pw", "")
	require.NoError(t, err)
	assert.True(t, res.SetupRequired, "fresh account must be sent to enrollment")
}
