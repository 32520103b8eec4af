package models

import "time"

type User struct {
	ID           int    `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"` // never serialized
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	MobilePhone  string `json:"mobile_phone,omitempty"`
	Organisation string `json:"organisation,omitempty"`

	ResearchIDDoc               *string `json:"research_id_doc,omitempty"`
	EthicsApprovalDoc           *string `json:"ethics_approval_doc,omitempty"`
	ConfidentialityAgreementDoc *string `json:"confidentiality_agreement_doc,omitempty"`

	IsActive  bool       `json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`

	// TOTP enrollment: secret generated at most once, flag flips once
	TOTPSecret     *string `json:"-"`
	IsTOTPVerified bool    `json:"-"`

	// login protection
	FailedLoginAttempts int        `json:"-"`
	LockUntil           *time.Time `json:"-"`

	Roles []string `json:"roles,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	TOTPCode string `json:"totp_code"`
}

type UserSummary struct {
	ID        int    `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}
