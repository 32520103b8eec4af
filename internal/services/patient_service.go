package services

import (
	"errors"

	"medresearch/internal/models"
	"medresearch/internal/repositories"
)

var (
	ErrPatientNotFound  = errors.New("Patient not found")
	ErrInvalidEthnicity = errors.New("invalid ethnicity")
	ErrInvalidGender    = errors.New("invalid gender")
)

type PatientService interface {
	CreatePatient(p *models.Patient) error
	GetPatient(id int) (*models.Patient, error)
	ListPatients() ([]*models.Patient, error)
	UpdatePatient(id int, upd *models.PatientUpdate) (*models.Patient, error)
}

type patientService struct {
	repo repositories.PatientRepository
}

func NewPatientService(repo repositories.PatientRepository) PatientService {
	return &patientService{repo: repo}
}

func (s *patientService) CreatePatient(p *models.Patient) error {
	if !models.ValidEthnicity(p.Ethnicity) {
		return ErrInvalidEthnicity
	}
	if !models.ValidGender(p.Gender) {
		return ErrInvalidGender
	}
	return s.repo.Create(p)
}

func (s *patientService) GetPatient(id int) (*models.Patient, error) {
	return s.repo.GetByID(id)
}

func (s *patientService) ListPatients() ([]*models.Patient, error) {
	return s.repo.List()
}

// UpdatePatient applies only the fields present in upd.
func (s *patientService) UpdatePatient(id int, upd *models.PatientUpdate) (*models.Patient, error) {
	p, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrPatientNotFound
	}

	if upd.FirstName != nil {
		p.FirstName = *upd.FirstName
	}
	if upd.LastName != nil {
		p.LastName = *upd.LastName
	}
	if upd.DOB != nil {
		p.DOB = *upd.DOB
	}
	if upd.Ethnicity != nil {
		if !models.ValidEthnicity(*upd.Ethnicity) {
			return nil, ErrInvalidEthnicity
		}
		p.Ethnicity = *upd.Ethnicity
	}
	if upd.Gender != nil {
		if !models.ValidGender(*upd.Gender) {
			return nil, ErrInvalidGender
		}
		p.Gender = *upd.Gender
	}
	if upd.PastDiagnoses != nil {
		p.PastDiagnoses = upd.PastDiagnoses
	}
	if upd.FamilyMedicalHistory != nil {
		p.FamilyMedicalHistory = upd.FamilyMedicalHistory
	}
	if upd.CurrentPrescriptions != nil {
		p.CurrentPrescriptions = upd.CurrentPrescriptions
	}
	if upd.SmokingStatus != nil {
		p.SmokingStatus = upd.SmokingStatus
	}
	if upd.AlcoholStatus != nil {
		p.AlcoholStatus = upd.AlcoholStatus
	}
	if upd.DrugUse != nil {
		p.DrugUse = upd.DrugUse
	}

	if err := s.repo.Update(p); err != nil {
		return nil, err
	}
	return p, nil
}
