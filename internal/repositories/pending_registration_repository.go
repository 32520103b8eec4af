package repositories

import (
	"database/sql"

	"medresearch/internal/models"
)

type PendingRegistrationRepository interface {
	Create(p *models.PendingRegistration) error
	GetByEmail(email string) (*models.PendingRegistration, error)
	GetByID(id int) (*models.PendingRegistration, error)
	ListPending() ([]*models.PendingRegistration, error)
	SetStatus(id int, status string) error
	Delete(id int) error
}

type pendingRegistrationRepository struct {
	DB *sql.DB
}

func NewPendingRegistrationRepository(db *sql.DB) PendingRegistrationRepository {
	return &pendingRegistrationRepository{DB: db}
}

const pendingColumns = `
	id, email, password_hash, first_name, last_name,
	COALESCE(mobile_phone,''), COALESCE(organisation,''),
	research_id_doc, ethics_approval_doc, confidentiality_agreement_doc,
	status, submitted_at
`

func (r *pendingRegistrationRepository) Create(p *models.PendingRegistration) error {
	const q = `
		INSERT INTO pending_registrations (
			email, password_hash, first_name, last_name,
			mobile_phone, organisation,
			research_id_doc, ethics_approval_doc, confidentiality_agreement_doc,
			status
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING id, submitted_at
	`
	if p.Status == "" {
		p.Status = models.RegistrationStatusPending
	}
	return r.DB.QueryRow(q,
		p.Email,
		p.PasswordHash,
		p.FirstName,
		p.LastName,
		p.MobilePhone,
		p.Organisation,
		p.ResearchIDDoc,
		p.EthicsApprovalDoc,
		p.ConfidentialityAgreementDoc,
		p.Status,
	).Scan(&p.ID, &p.SubmittedAt)
}

func scanPending(row *sql.Row) (*models.PendingRegistration, error) {
	p := &models.PendingRegistration{}
	var (
		resDoc  sql.NullString
		ethDoc  sql.NullString
		confDoc sql.NullString
	)
	err := row.Scan(
		&p.ID, &p.Email, &p.PasswordHash, &p.FirstName, &p.LastName,
		&p.MobilePhone, &p.Organisation,
		&resDoc, &ethDoc, &confDoc,
		&p.Status, &p.SubmittedAt,
	)
	if err != nil {
		return nil, err
	}
	if resDoc.Valid {
		s := resDoc.String
		p.ResearchIDDoc = &s
	}
	if ethDoc.Valid {
		s := ethDoc.String
		p.EthicsApprovalDoc = &s
	}
	if confDoc.Valid {
		s := confDoc.String
		p.ConfidentialityAgreementDoc = &s
	}
	return p, nil
}

func (r *pendingRegistrationRepository) GetByEmail(email string) (*models.PendingRegistration, error) {
	p, err := scanPending(r.DB.QueryRow(
		`SELECT `+pendingColumns+` FROM pending_registrations WHERE email = $1`, email))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return p, err
}

func (r *pendingRegistrationRepository) GetByID(id int) (*models.PendingRegistration, error) {
	p, err := scanPending(r.DB.QueryRow(
		`SELECT `+pendingColumns+` FROM pending_registrations WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return p, err
}

func (r *pendingRegistrationRepository) ListPending() ([]*models.PendingRegistration, error) {
	rows, err := r.DB.Query(
		`SELECT ` + pendingColumns + ` FROM pending_registrations WHERE status = 'pending' ORDER BY submitted_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*models.PendingRegistration
	for rows.Next() {
		p := &models.PendingRegistration{}
		var (
			resDoc  sql.NullString
			ethDoc  sql.NullString
			confDoc sql.NullString
		)
		if err := rows.Scan(
			&p.ID, &p.Email, &p.PasswordHash, &p.FirstName, &p.LastName,
			&p.MobilePhone, &p.Organisation,
			&resDoc, &ethDoc, &confDoc,
			&p.Status, &p.SubmittedAt,
		); err != nil {
			return nil, err
		}
		if resDoc.Valid {
			s := resDoc.String
			p.ResearchIDDoc = &s
		}
		if ethDoc.Valid {
			s := ethDoc.String
			p.EthicsApprovalDoc = &s
		}
		if confDoc.Valid {
			s := confDoc.String
			p.ConfidentialityAgreementDoc = &s
		}
		res = append(res, p)
	}
	return res, rows.Err()
}

func (r *pendingRegistrationRepository) SetStatus(id int, status string) error {
	_, err := r.DB.Exec(`UPDATE pending_registrations SET status=$1 WHERE id=$2`, status, id)
	return err
}

func (r *pendingRegistrationRepository) Delete(id int) error {
	_, err := r.DB.Exec(`DELETE FROM pending_registrations WHERE id=$1`, id)
	return err
}
