package repositories

import (
	"database/sql"
	"time"

	"medresearch/internal/models"
)

type UserRepository interface {
	Create(user *models.User) error
	GetByID(id int) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	List(limit, offset int) ([]*models.User, error)

	// login bookkeeping: each call is a single committed UPDATE, so the
	// mutation is durable before the caller answers the request
	UpdateLoginState(userID, failedAttempts int, lockUntil *time.Time) error
	SetTOTPSecret(userID int, secret string) error
	MarkTOTPVerified(userID int) error

	// role claims: one explicit query per successful login
	GetRoleNames(userID int) ([]string, error)
	AssignRoles(userID int, roleIDs []int) error
}

type userRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{DB: db}
}

const userColumns = `
	id, email, password_hash, first_name, last_name,
	COALESCE(mobile_phone,''), COALESCE(organisation,''),
	research_id_doc, ethics_approval_doc, confidentiality_agreement_doc,
	is_active, created_at, updated_at,
	totp_secret, is_totp_verified,
	failed_login_attempts, lock_until
`

func (r *userRepository) Create(user *models.User) error {
	const q = `
		INSERT INTO users (
			email, password_hash, first_name, last_name,
			mobile_phone, organisation,
			research_id_doc, ethics_approval_doc, confidentiality_agreement_doc,
			is_active, totp_secret, is_totp_verified,
			failed_login_attempts, lock_until
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,TRUE,NULL,FALSE,0,NULL)
		RETURNING id, created_at
	`
	return r.DB.QueryRow(q,
		user.Email,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.MobilePhone,
		user.Organisation,
		user.ResearchIDDoc,
		user.EthicsApprovalDoc,
		user.ConfidentialityAgreementDoc,
	).Scan(&user.ID, &user.CreatedAt)
}

func scanUser(row *sql.Row) (*models.User, error) {
	u := &models.User{}
	var (
		mobile    sql.NullString
		org       sql.NullString
		resDoc    sql.NullString
		ethDoc    sql.NullString
		confDoc   sql.NullString
		updatedAt sql.NullTime
		secret    sql.NullString
		verified  sql.NullBool
		attempts  sql.NullInt64
		lockUntil sql.NullTime
	)
	err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName,
		&mobile, &org,
		&resDoc, &ethDoc, &confDoc,
		&u.IsActive, &u.CreatedAt, &updatedAt,
		&secret, &verified,
		&attempts, &lockUntil,
	)
	if err != nil {
		return nil, err
	}
	u.MobilePhone = mobile.String
	u.Organisation = org.String
	if resDoc.Valid {
		s := resDoc.String
		u.ResearchIDDoc = &s
	}
	if ethDoc.Valid {
		s := ethDoc.String
		u.EthicsApprovalDoc = &s
	}
	if confDoc.Valid {
		s := confDoc.String
		u.ConfidentialityAgreementDoc = &s
	}
	if updatedAt.Valid {
		t := updatedAt.Time
		u.UpdatedAt = &t
	}
	if secret.Valid {
		s := secret.String
		u.TOTPSecret = &s
	}
	if verified.Valid {
		u.IsTOTPVerified = verified.Bool
	}
	if attempts.Valid {
		u.FailedLoginAttempts = int(attempts.Int64)
	}
	if lockUntil.Valid {
		t := lockUntil.Time
		u.LockUntil = &t
	}
	return u, nil
}

func (r *userRepository) GetByID(id int) (*models.User, error) {
	return scanUser(r.DB.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *userRepository) GetByEmail(email string) (*models.User, error) {
	return scanUser(r.DB.QueryRow(`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

func (r *userRepository) List(limit, offset int) ([]*models.User, error) {
	const q = `
		SELECT
			id, email, first_name, last_name,
			COALESCE(mobile_phone,''), COALESCE(organisation,''),
			is_active, created_at, updated_at
		FROM users
		ORDER BY id
		LIMIT $1 OFFSET $2
	`
	rows, err := r.DB.Query(q, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*models.User
	for rows.Next() {
		u := &models.User{}
		var updatedAt sql.NullTime
		if err := rows.Scan(
			&u.ID, &u.Email, &u.FirstName, &u.LastName,
			&u.MobilePhone, &u.Organisation,
			&u.IsActive, &u.CreatedAt, &updatedAt,
		); err != nil {
			return nil, err
		}
		if updatedAt.Valid {
			t := updatedAt.Time
			u.UpdatedAt = &t
		}
		res = append(res, u)
	}
	return res, rows.Err()
}

// ===== login bookkeeping =====

func (r *userRepository) UpdateLoginState(userID, failedAttempts int, lockUntil *time.Time) error {
	const q = `
		UPDATE users
		SET failed_login_attempts=$1, lock_until=$2
		WHERE id=$3
	`
	_, err := r.DB.Exec(q, failedAttempts, lockUntil, userID)
	return err
}

func (r *userRepository) SetTOTPSecret(userID int, secret string) error {
	// guard against a concurrent enrollment having won the race:
	// the secret is written only while none exists
	const q = `
		UPDATE users
		SET totp_secret=$1
		WHERE id=$2 AND totp_secret IS NULL
	`
	_, err := r.DB.Exec(q, secret, userID)
	return err
}

func (r *userRepository) MarkTOTPVerified(userID int) error {
	_, err := r.DB.Exec(`UPDATE users SET is_totp_verified=TRUE WHERE id=$1`, userID)
	return err
}

// ===== roles =====

func (r *userRepository) GetRoleNames(userID int) ([]string, error) {
	const q = `
		SELECT r.name
		FROM roles r
		JOIN user_roles ur ON ur.role_id = r.id
		WHERE ur.user_id = $1
		ORDER BY r.name
	`
	rows, err := r.DB.Query(q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

func (r *userRepository) AssignRoles(userID int, roleIDs []int) error {
	for _, roleID := range roleIDs {
		if _, err := r.DB.Exec(
			`INSERT INTO user_roles (user_id, role_id) VALUES ($1,$2) ON CONFLICT DO NOTHING`,
			userID, roleID,
		); err != nil {
			return err
		}
	}
	return nil
}
