package repositories

import (
	"database/sql"

	"medresearch/internal/models"
)

type PatientRepository interface {
	Create(p *models.Patient) error
	GetByID(id int) (*models.Patient, error)
	List() ([]*models.Patient, error)
	Update(p *models.Patient) error
}

type patientRepository struct {
	DB *sql.DB
}

func NewPatientRepository(db *sql.DB) PatientRepository {
	return &patientRepository{DB: db}
}

const patientColumns = `
	id, first_name, last_name, dob, ethnicity, gender,
	past_diagnoses, family_medical_history, current_prescriptions,
	smoking_status, alcohol_status, drug_use,
	informed_consent_doc, related_reports_doc,
	added_at, added_by_user_id
`

func (r *patientRepository) Create(p *models.Patient) error {
	const q = `
		INSERT INTO patients (
			first_name, last_name, dob, ethnicity, gender,
			past_diagnoses, family_medical_history, current_prescriptions,
			smoking_status, alcohol_status, drug_use,
			informed_consent_doc, related_reports_doc,
			added_by_user_id
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
		RETURNING id, added_at
	`
	return r.DB.QueryRow(q,
		p.FirstName, p.LastName, p.DOB, p.Ethnicity, p.Gender,
		p.PastDiagnoses, p.FamilyMedicalHistory, p.CurrentPrescriptions,
		p.SmokingStatus, p.AlcoholStatus, p.DrugUse,
		p.InformedConsentDoc, p.RelatedReportsDoc,
		p.AddedByUserID,
	).Scan(&p.ID, &p.AddedAt)
}

func scanPatientFields(p *models.Patient,
	pastDiag, famHist, prescriptions, consentDoc, reportsDoc sql.NullString,
	smoking, alcohol, drugs sql.NullBool,
) {
	if pastDiag.Valid {
		s := pastDiag.String
		p.PastDiagnoses = &s
	}
	if famHist.Valid {
		s := famHist.String
		p.FamilyMedicalHistory = &s
	}
	if prescriptions.Valid {
		s := prescriptions.String
		p.CurrentPrescriptions = &s
	}
	if consentDoc.Valid {
		s := consentDoc.String
		p.InformedConsentDoc = &s
	}
	if reportsDoc.Valid {
		s := reportsDoc.String
		p.RelatedReportsDoc = &s
	}
	if smoking.Valid {
		b := smoking.Bool
		p.SmokingStatus = &b
	}
	if alcohol.Valid {
		b := alcohol.Bool
		p.AlcoholStatus = &b
	}
	if drugs.Valid {
		b := drugs.Bool
		p.DrugUse = &b
	}
}

func (r *patientRepository) GetByID(id int) (*models.Patient, error) {
	p := &models.Patient{}
	var (
		pastDiag, famHist, prescriptions   sql.NullString
		consentDoc, reportsDoc             sql.NullString
		smoking, alcohol, drugs            sql.NullBool
	)
	err := r.DB.QueryRow(`SELECT `+patientColumns+` FROM patients WHERE id = $1`, id).Scan(
		&p.ID, &p.FirstName, &p.LastName, &p.DOB, &p.Ethnicity, &p.Gender,
		&pastDiag, &famHist, &prescriptions,
		&smoking, &alcohol, &drugs,
		&consentDoc, &reportsDoc,
		&p.AddedAt, &p.AddedByUserID,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	scanPatientFields(p, pastDiag, famHist, prescriptions, consentDoc, reportsDoc, smoking, alcohol, drugs)
	return p, nil
}

func (r *patientRepository) List() ([]*models.Patient, error) {
	rows, err := r.DB.Query(`SELECT ` + patientColumns + ` FROM patients ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*models.Patient
	for rows.Next() {
		p := &models.Patient{}
		var (
			pastDiag, famHist, prescriptions sql.NullString
			consentDoc, reportsDoc           sql.NullString
			smoking, alcohol, drugs          sql.NullBool
		)
		if err := rows.Scan(
			&p.ID, &p.FirstName, &p.LastName, &p.DOB, &p.Ethnicity, &p.Gender,
			&pastDiag, &famHist, &prescriptions,
			&smoking, &alcohol, &drugs,
			&consentDoc, &reportsDoc,
			&p.AddedAt, &p.AddedByUserID,
		); err != nil {
			return nil, err
		}
		scanPatientFields(p, pastDiag, famHist, prescriptions, consentDoc, reportsDoc, smoking, alcohol, drugs)
		res = append(res, p)
	}
	return res, rows.Err()
}

func (r *patientRepository) Update(p *models.Patient) error {
	const q = `
		UPDATE patients
		SET
			first_name=$1,
			last_name=$2,
			dob=$3,
			ethnicity=$4,
			gender=$5,
			past_diagnoses=$6,
			family_medical_history=$7,
			current_prescriptions=$8,
			smoking_status=$9,
			alcohol_status=$10,
			drug_use=$11
		WHERE id=$12
	`
	_, err := r.DB.Exec(q,
		p.FirstName, p.LastName, p.DOB, p.Ethnicity, p.Gender,
		p.PastDiagnoses, p.FamilyMedicalHistory, p.CurrentPrescriptions,
		p.SmokingStatus, p.AlcoholStatus, p.DrugUse,
		p.ID,
	)
	return err
}
