package repositories

import (
	"database/sql"

	"medresearch/internal/models"
)

type DataFileRepository interface {
	Create(df *models.DataFile) error
	GetByOrthancID(orthancID string) (*models.DataFile, error)
	List() ([]*models.DataFile, error)
}

type dataFileRepository struct {
	DB *sql.DB
}

func NewDataFileRepository(db *sql.DB) DataFileRepository {
	return &dataFileRepository{DB: db}
}

const dataFileColumns = `
	id, data_name, project_id, patient_id, modality, access_level,
	body_area, related_report_id, comments, file_type,
	orthanc_id, storage_path, uploaded_at
`

func (r *dataFileRepository) Create(df *models.DataFile) error {
	const q = `
		INSERT INTO datafiles (
			data_name, project_id, patient_id, modality, access_level,
			body_area, related_report_id, comments, file_type,
			orthanc_id, storage_path
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING id, uploaded_at
	`
	return r.DB.QueryRow(q,
		df.DataName, df.ProjectID, df.PatientID, df.Modality, df.AccessLevel,
		df.BodyArea, df.RelatedReportID, df.Comments, df.FileType,
		df.OrthancID, df.StoragePath,
	).Scan(&df.ID, &df.UploadedAt)
}

func scanDataFile(dest interface {
	Scan(dest ...interface{}) error
}) (*models.DataFile, error) {
	df := &models.DataFile{}
	var (
		bodyArea    sql.NullString
		relatedID   sql.NullInt64
		comments    sql.NullString
		orthancID   sql.NullString
		storagePath sql.NullString
	)
	err := dest.Scan(
		&df.ID, &df.DataName, &df.ProjectID, &df.PatientID, &df.Modality, &df.AccessLevel,
		&bodyArea, &relatedID, &comments, &df.FileType,
		&orthancID, &storagePath, &df.UploadedAt,
	)
	if err != nil {
		return nil, err
	}
	if bodyArea.Valid {
		s := bodyArea.String
		df.BodyArea = &s
	}
	if relatedID.Valid {
		n := int(relatedID.Int64)
		df.RelatedReportID = &n
	}
	if comments.Valid {
		s := comments.String
		df.Comments = &s
	}
	if orthancID.Valid {
		s := orthancID.String
		df.OrthancID = &s
	}
	if storagePath.Valid {
		s := storagePath.String
		df.StoragePath = &s
	}
	return df, nil
}

func (r *dataFileRepository) GetByOrthancID(orthancID string) (*models.DataFile, error) {
	df, err := scanDataFile(r.DB.QueryRow(
		`SELECT `+dataFileColumns+` FROM datafiles WHERE orthanc_id = $1`, orthancID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return df, err
}

func (r *dataFileRepository) List() ([]*models.DataFile, error) {
	rows, err := r.DB.Query(`SELECT ` + dataFileColumns + ` FROM datafiles ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*models.DataFile
	for rows.Next() {
		df, err := scanDataFile(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, df)
	}
	return res, rows.Err()
}
