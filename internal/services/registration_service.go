package services

import (
	"database/sql"
	"errors"
	"log"
	"strings"

	"medresearch/internal/models"
	"medresearch/internal/repositories"
)

var (
	ErrEmailAlreadyRegistered  = errors.New("Email already registered.")
	ErrRegistrationAlreadyOpen = errors.New("Registration already pending.")
	ErrPendingNotFound         = errors.New("Pending registration not found")
	ErrInvalidRoleIDs          = errors.New("One or more role IDs are invalid")
)

type RegistrationService interface {
	Register(req *models.RegistrationRequest) (*models.PendingRegistration, error)
	ListPending() ([]*models.PendingRegistration, error)
	Approve(pendingID int, roleIDs []int) (*models.User, error)
	Reject(pendingID int) error
}

type registrationService struct {
	pending repositories.PendingRegistrationRepository
	users   repositories.UserRepository
	roles   repositories.RoleRepository
	auth    AuthService
	email   EmailService
}

func NewRegistrationService(
	pending repositories.PendingRegistrationRepository,
	users repositories.UserRepository,
	roles repositories.RoleRepository,
	auth AuthService,
	email EmailService,
) RegistrationService {
	return &registrationService{
		pending: pending,
		users:   users,
		roles:   roles,
		auth:    auth,
		email:   email,
	}
}

// Register creates a pending registration. The account only becomes a user
// once an admin approves it.
func (s *registrationService) Register(req *models.RegistrationRequest) (*models.PendingRegistration, error) {
	email := strings.TrimSpace(req.Email)

	existing, err := s.users.GetByEmail(email)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if existing != nil && err == nil {
		return nil, ErrEmailAlreadyRegistered
	}

	open, err := s.pending.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if open != nil && open.Status == models.RegistrationStatusPending {
		return nil, ErrRegistrationAlreadyOpen
	}

	hash, err := s.auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	p := &models.PendingRegistration{
		Email:        email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		MobilePhone:  req.MobilePhone,
		Organisation: req.Organisation,
		Status:       models.RegistrationStatusPending,
	}
	if err := s.pending.Create(p); err != nil {
		return nil, err
	}
	log.Printf("[registration][register] pending created id=%d email=%q", p.ID, p.Email)
	return p, nil
}

func (s *registrationService) ListPending() ([]*models.PendingRegistration, error) {
	return s.pending.ListPending()
}

// Approve turns a pending registration into a user with the given roles.
// The password hash carries over untouched.
func (s *registrationService) Approve(pendingID int, roleIDs []int) (*models.User, error) {
	p, err := s.pending.GetByID(pendingID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrPendingNotFound
	}

	roles, err := s.roles.GetByIDs(roleIDs)
	if err != nil {
		return nil, ErrInvalidRoleIDs
	}

	user := &models.User{
		Email:                       p.Email,
		PasswordHash:                p.PasswordHash,
		FirstName:                   p.FirstName,
		LastName:                    p.LastName,
		MobilePhone:                 p.MobilePhone,
		Organisation:                p.Organisation,
		ResearchIDDoc:               p.ResearchIDDoc,
		EthicsApprovalDoc:           p.EthicsApprovalDoc,
		ConfidentialityAgreementDoc: p.ConfidentialityAgreementDoc,
		IsActive:                    true,
	}
	if err := s.users.Create(user); err != nil {
		return nil, err
	}
	if err := s.users.AssignRoles(user.ID, roleIDs); err != nil {
		return nil, err
	}
	if err := s.pending.SetStatus(pendingID, models.RegistrationStatusApproved); err != nil {
		return nil, err
	}

	for _, r := range roles {
		user.Roles = append(user.Roles, r.Name)
	}

	if s.email != nil {
		// best effort: approval stands even if the mail bounces
		if err := s.email.SendApprovalEmail(user.Email, user.FirstName); err != nil {
			log.Printf("[registration][approve] warning: approval email to %s failed: %v", user.Email, err)
		}
	}
	log.Printf("[registration][approve] user created id=%d email=%q roles=%v", user.ID, user.Email, user.Roles)
	return user, nil
}

func (s *registrationService) Reject(pendingID int) error {
	p, err := s.pending.GetByID(pendingID)
	if err != nil {
		return err
	}
	if p == nil {
		return ErrPendingNotFound
	}
	if err := s.pending.Delete(pendingID); err != nil {
		return err
	}
	if s.email != nil {
		if err := s.email.SendRejectionEmail(p.Email, p.FirstName); err != nil {
			log.Printf("[registration][reject] warning: rejection email to %s failed: %v", p.Email, err)
		}
	}
	return nil
}
