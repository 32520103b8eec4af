package repositories

import (
	"database/sql"

	"medresearch/internal/models"
)

type RoleRepository interface {
	Create(role *models.Role) error
	GetByName(name string) (*models.Role, error)
	GetByIDs(ids []int) ([]*models.Role, error)
	List() ([]*models.Role, error)
}

type roleRepository struct {
	DB *sql.DB
}

func NewRoleRepository(db *sql.DB) RoleRepository {
	return &roleRepository{DB: db}
}

func (r *roleRepository) Create(role *models.Role) error {
	const q = `
		INSERT INTO roles (name, description)
		VALUES ($1,$2)
		RETURNING id
	`
	return r.DB.QueryRow(q, role.Name, role.Description).Scan(&role.ID)
}

func (r *roleRepository) GetByName(name string) (*models.Role, error) {
	role := &models.Role{}
	var desc sql.NullString
	err := r.DB.QueryRow(
		`SELECT id, name, COALESCE(description,'') FROM roles WHERE name = $1`, name,
	).Scan(&role.ID, &role.Name, &desc)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	role.Description = desc.String
	return role, nil
}

func (r *roleRepository) GetByIDs(ids []int) ([]*models.Role, error) {
	var res []*models.Role
	for _, id := range ids {
		role := &models.Role{}
		var desc sql.NullString
		err := r.DB.QueryRow(
			`SELECT id, name, COALESCE(description,'') FROM roles WHERE id = $1`, id,
		).Scan(&role.ID, &role.Name, &desc)
		if err != nil {
			return nil, err
		}
		role.Description = desc.String
		res = append(res, role)
	}
	return res, nil
}

func (r *roleRepository) List() ([]*models.Role, error) {
	rows, err := r.DB.Query(`SELECT id, name, COALESCE(description,'') FROM roles ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*models.Role
	for rows.Next() {
		role := &models.Role{}
		if err := rows.Scan(&role.ID, &role.Name, &role.Description); err != nil {
			return nil, err
		}
		res = append(res, role)
	}
	return res, rows.Err()
}
