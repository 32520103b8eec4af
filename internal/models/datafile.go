package models

import "time"

const (
	FileTypeDICOM = "DICOM"
	FileTypePDF   = "PDF"
	FileTypeImage = "IMAGE"
	FileTypeOther = "OTHER"
)

const (
	AccessLevelPublic     = "public"
	AccessLevelRestricted = "restricted"
	AccessLevelPrivate    = "private"
)

func ValidFileType(v string) bool {
	switch v {
	case FileTypeDICOM, FileTypePDF, FileTypeImage, FileTypeOther:
		return true
	}
	return false
}

func ValidAccessLevel(v string) bool {
	switch v {
	case AccessLevelPublic, AccessLevelRestricted, AccessLevelPrivate:
		return true
	}
	return false
}

type DataFile struct {
	ID          int     `json:"id"`
	DataName    string  `json:"data_name"`
	ProjectID   int     `json:"project_id"`
	PatientID   int     `json:"patient_id"`
	Modality    string  `json:"modality"`
	AccessLevel string  `json:"access_level"`
	BodyArea    *string `json:"body_area"`

	RelatedReportID *int    `json:"related_report_id"`
	Comments        *string `json:"comments"`
	FileType        string  `json:"file_type"`

	// exactly one of the two is set: DICOM goes to the archive, the rest to disk
	OrthancID   *string `json:"orthanc_id"`
	StoragePath *string `json:"storage_path"`

	UploadedAt time.Time `json:"uploaded_at"`
}
