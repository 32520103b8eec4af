package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"medresearch/internal/models"
	"medresearch/internal/repositories"
)

var (
	ErrProjectNotFound  = errors.New("Project not found")
	ErrLeadUserNotFound = errors.New("Lead user not found")
	ErrTooManyMembers   = errors.New("Cannot assign more than 12 members")
	ErrProjectNameTaken = errors.New("Project name already exists")
)

type ProjectService interface {
	CreateProject(req *models.ProjectCreate) (*models.Project, error)
	ListProjects() ([]*models.Project, error)
	UpdateProject(id int, upd *models.ProjectUpdate) (*models.Project, error)
	ListProjectUsers() ([]*models.UserSummary, error)
}

type projectService struct {
	repo  repositories.ProjectRepository
	users repositories.UserRepository
}

func NewProjectService(repo repositories.ProjectRepository, users repositories.UserRepository) ProjectService {
	return &projectService{repo: repo, users: users}
}

func (s *projectService) validateMembers(memberIDs []int) error {
	if len(memberIDs) > models.MaxProjectMembers {
		return ErrTooManyMembers
	}
	for _, uid := range memberIDs {
		if _, err := s.users.GetByID(uid); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("Member user %d not found", uid)
			}
			return err
		}
	}
	return nil
}

func (s *projectService) CreateProject(req *models.ProjectCreate) (*models.Project, error) {
	if err := s.validateMembers(req.MemberIDs); err != nil {
		return nil, err
	}
	if _, err := s.users.GetByID(req.LeadUserID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLeadUserNotFound
		}
		return nil, err
	}

	p := &models.Project{
		Name:       req.Name,
		LeadUserID: req.LeadUserID,
		MemberIDs:  req.MemberIDs,
	}
	if req.Description != "" {
		d := req.Description
		p.Description = &d
	}
	if p.MemberIDs == nil {
		p.MemberIDs = []int{}
	}
	if err := s.repo.Create(p); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrProjectNameTaken
		}
		return nil, err
	}
	return p, nil
}

func (s *projectService) ListProjects() ([]*models.Project, error) {
	return s.repo.List()
}

func (s *projectService) UpdateProject(id int, upd *models.ProjectUpdate) (*models.Project, error) {
	p, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProjectNotFound
	}

	if upd.Name != nil {
		p.Name = *upd.Name
	}
	if upd.Description != nil {
		p.Description = upd.Description
	}
	if upd.LeadUserID != nil {
		if _, err := s.users.GetByID(*upd.LeadUserID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, ErrLeadUserNotFound
			}
			return nil, err
		}
		p.LeadUserID = *upd.LeadUserID
	}
	if upd.MemberIDs != nil {
		if err := s.validateMembers(*upd.MemberIDs); err != nil {
			return nil, err
		}
		p.MemberIDs = *upd.MemberIDs
		if err := s.repo.ReplaceMembers(p.ID, p.MemberIDs); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Update(p); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrProjectNameTaken
		}
		return nil, err
	}
	return p, nil
}

func (s *projectService) ListProjectUsers() ([]*models.UserSummary, error) {
	users, err := s.users.List(1000, 0)
	if err != nil {
		return nil, err
	}
	res := make([]*models.UserSummary, 0, len(users))
	for _, u := range users {
		res = append(res, &models.UserSummary{
			ID:        u.ID,
			Email:     u.Email,
			FirstName: u.FirstName,
			LastName:  u.LastName,
		})
	}
	return res, nil
}

// lib/pq unique_violation is SQLSTATE 23505; matching on the message keeps
// the repository interface free of driver types
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "duplicate key value violates unique constraint")
}
