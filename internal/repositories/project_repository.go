package repositories

import (
	"database/sql"

	"medresearch/internal/models"
)

type ProjectRepository interface {
	Create(p *models.Project) error
	GetByID(id int) (*models.Project, error)
	List() ([]*models.Project, error)
	Update(p *models.Project) error
	ReplaceMembers(projectID int, memberIDs []int) error
	GetMemberIDs(projectID int) ([]int, error)
}

type projectRepository struct {
	DB *sql.DB
}

func NewProjectRepository(db *sql.DB) ProjectRepository {
	return &projectRepository{DB: db}
}

func (r *projectRepository) Create(p *models.Project) error {
	const q = `
		INSERT INTO projects (name, description, lead_user_id)
		VALUES ($1,$2,$3)
		RETURNING id, created_at
	`
	if err := r.DB.QueryRow(q, p.Name, p.Description, p.LeadUserID).Scan(&p.ID, &p.CreatedAt); err != nil {
		return err
	}
	return r.ReplaceMembers(p.ID, p.MemberIDs)
}

func (r *projectRepository) GetByID(id int) (*models.Project, error) {
	p := &models.Project{}
	var (
		desc      sql.NullString
		updatedAt sql.NullTime
	)
	err := r.DB.QueryRow(
		`SELECT id, name, description, lead_user_id, created_at, updated_at FROM projects WHERE id = $1`, id,
	).Scan(&p.ID, &p.Name, &desc, &p.LeadUserID, &p.CreatedAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if desc.Valid {
		s := desc.String
		p.Description = &s
	}
	if updatedAt.Valid {
		t := updatedAt.Time
		p.UpdatedAt = &t
	}
	members, err := r.GetMemberIDs(p.ID)
	if err != nil {
		return nil, err
	}
	p.MemberIDs = members
	return p, nil
}

func (r *projectRepository) List() ([]*models.Project, error) {
	rows, err := r.DB.Query(
		`SELECT id, name, description, lead_user_id, created_at, updated_at FROM projects ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*models.Project
	for rows.Next() {
		p := &models.Project{}
		var (
			desc      sql.NullString
			updatedAt sql.NullTime
		)
		if err := rows.Scan(&p.ID, &p.Name, &desc, &p.LeadUserID, &p.CreatedAt, &updatedAt); err != nil {
			return nil, err
		}
		if desc.Valid {
			s := desc.String
			p.Description = &s
		}
		if updatedAt.Valid {
			t := updatedAt.Time
			p.UpdatedAt = &t
		}
		res = append(res, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, p := range res {
		members, err := r.GetMemberIDs(p.ID)
		if err != nil {
			return nil, err
		}
		p.MemberIDs = members
	}
	return res, nil
}

func (r *projectRepository) Update(p *models.Project) error {
	const q = `
		UPDATE projects
		SET name=$1, description=$2, lead_user_id=$3, updated_at=NOW()
		WHERE id=$4
	`
	_, err := r.DB.Exec(q, p.Name, p.Description, p.LeadUserID, p.ID)
	return err
}

func (r *projectRepository) ReplaceMembers(projectID int, memberIDs []int) error {
	if _, err := r.DB.Exec(`DELETE FROM project_members WHERE project_id=$1`, projectID); err != nil {
		return err
	}
	for _, uid := range memberIDs {
		if _, err := r.DB.Exec(
			`INSERT INTO project_members (project_id, user_id) VALUES ($1,$2) ON CONFLICT DO NOTHING`,
			projectID, uid,
		); err != nil {
			return err
		}
	}
	return nil
}

func (r *projectRepository) GetMemberIDs(projectID int) ([]int, error) {
	rows, err := r.DB.Query(
		`SELECT user_id FROM project_members WHERE project_id=$1 ORDER BY user_id`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []int{}
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
