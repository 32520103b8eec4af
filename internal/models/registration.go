package models

import "time"

const (
	RegistrationStatusPending  = "pending"
	RegistrationStatusApproved = "approved"
	RegistrationStatusRejected = "rejected"
)

type PendingRegistration struct {
	ID           int    `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	MobilePhone  string `json:"mobile_phone,omitempty"`
	Organisation string `json:"organisation,omitempty"`

	ResearchIDDoc               *string `json:"research_id_doc,omitempty"`
	EthicsApprovalDoc           *string `json:"ethics_approval_doc,omitempty"`
	ConfidentialityAgreementDoc *string `json:"confidentiality_agreement_doc,omitempty"`

	Status      string    `json:"status"`
	SubmittedAt time.Time `json:"submitted_at"`
}

type RegistrationRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required"`
	FirstName   string `json:"first_name" binding:"required"`
	LastName    string `json:"last_name" binding:"required"`
	MobilePhone string `json:"mobile_phone"`
	Organisation string `json:"organisation"`
}

type RegistrationApprove struct {
	RoleIDs []int `json:"role_ids" binding:"required"`
}
