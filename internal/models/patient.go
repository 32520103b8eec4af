package models

import "time"

const (
	EthnicityAsian      = "asian"
	EthnicityBlack      = "black"
	EthnicityWhite      = "white"
	EthnicityHispanic   = "hispanic"
	EthnicityIndigenous = "indigenous"
	EthnicityOther      = "other"
	EthnicityUnknown    = "unknown"
)

const (
	GenderMale    = "male"
	GenderFemale  = "female"
	GenderOther   = "other"
	GenderUnknown = "unknown"
)

func ValidEthnicity(v string) bool {
	switch v {
	case EthnicityAsian, EthnicityBlack, EthnicityWhite, EthnicityHispanic,
		EthnicityIndigenous, EthnicityOther, EthnicityUnknown:
		return true
	}
	return false
}

func ValidGender(v string) bool {
	switch v {
	case GenderMale, GenderFemale, GenderOther, GenderUnknown:
		return true
	}
	return false
}

type Patient struct {
	ID        int    `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	DOB       string `json:"dob"`
	Ethnicity string `json:"ethnicity"`
	Gender    string `json:"gender"`

	PastDiagnoses        *string `json:"past_diagnoses"`
	FamilyMedicalHistory *string `json:"family_medical_history"`
	CurrentPrescriptions *string `json:"current_prescriptions"`
	SmokingStatus        *bool   `json:"smoking_status"`
	AlcoholStatus        *bool   `json:"alcohol_status"`
	DrugUse              *bool   `json:"drug_use"`

	InformedConsentDoc *string `json:"informed_consent_doc"`
	RelatedReportsDoc  *string `json:"related_reports_doc"`

	AddedAt       time.Time `json:"added_at"`
	AddedByUserID int       `json:"added_by_user_id"`
}

// PatientUpdate carries optional fields; nil means "leave unchanged".
type PatientUpdate struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	DOB       *string `json:"dob"`
	Ethnicity *string `json:"ethnicity"`
	Gender    *string `json:"gender"`

	PastDiagnoses        *string `json:"past_diagnoses"`
	FamilyMedicalHistory *string `json:"family_medical_history"`
	CurrentPrescriptions *string `json:"current_prescriptions"`
	SmokingStatus        *bool   `json:"smoking_status"`
	AlcoholStatus        *bool   `json:"alcohol_status"`
	DrugUse              *bool   `json:"drug_use"`
}
