package services

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"medresearch/internal/models"
	"medresearch/internal/repositories"
	"medresearch/internal/utils"
)

var (
	ErrNotDICOM           = errors.New("Not a valid DICOM file")
	ErrDuplicateInstance  = errors.New("This DICOM instance already exists in Orthanc")
	ErrDuplicateRecord    = errors.New("This DICOM instance has already been recorded locally")
	ErrInvalidFileType    = errors.New("invalid file_type")
	ErrInvalidAccessLevel = errors.New("invalid access_level")
)

type DataFileService interface {
	Upload(df *models.DataFile, filename string, contents []byte) error
	ListFiles() ([]*models.DataFile, error)
}

type dataFileService struct {
	repo      repositories.DataFileRepository
	archive   *utils.OrthancClient
	filesRoot string
}

func NewDataFileService(repo repositories.DataFileRepository, archive *utils.OrthancClient, filesRoot string) DataFileService {
	return &dataFileService{
		repo:      repo,
		archive:   archive,
		filesRoot: filesRoot,
	}
}

// dicomPreambleLen is the fixed 128-byte preamble that precedes the "DICM"
// magic in a Part-10 DICOM file.
const dicomPreambleLen = 128

func looksLikeDICOM(contents []byte) bool {
	if len(contents) < dicomPreambleLen+4 {
		return false
	}
	return bytes.Equal(contents[dicomPreambleLen:dicomPreambleLen+4], []byte("DICM"))
}

// Upload dispatches on file type: DICOM files are validated and forwarded to
// the archive, everything else is stored on disk. Exactly one of orthanc_id
// and storage_path ends up set on the record.
func (s *dataFileService) Upload(df *models.DataFile, filename string, contents []byte) error {
	if !models.ValidFileType(df.FileType) {
		return ErrInvalidFileType
	}
	if !models.ValidAccessLevel(df.AccessLevel) {
		return ErrInvalidAccessLevel
	}

	if df.FileType == models.FileTypeDICOM {
		return s.uploadDICOM(df, contents)
	}
	return s.storeLocal(df, filename, contents)
}

func (s *dataFileService) uploadDICOM(df *models.DataFile, contents []byte) error {
	if !looksLikeDICOM(contents) {
		return ErrNotDICOM
	}

	orthancID, err := s.archive.UploadInstance(contents)
	if err != nil {
		if errors.Is(err, utils.ErrDuplicateInstance) {
			return ErrDuplicateInstance
		}
		return err
	}

	// app-level guard against recording the same instance twice
	existing, err := s.repo.GetByOrthancID(orthancID)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrDuplicateRecord
	}

	df.OrthancID = &orthancID
	df.StoragePath = nil
	if err := s.repo.Create(df); err != nil {
		// a race may still slip past the guard; the unique index wins
		if strings.Contains(err.Error(), "duplicate key value violates unique constraint") {
			return ErrDuplicateRecord
		}
		return err
	}
	log.Printf("[files][upload] dicom stored id=%d orthanc_id=%s", df.ID, orthancID)
	return nil
}

func (s *dataFileService) storeLocal(df *models.DataFile, filename string, contents []byte) error {
	dir := filepath.Join(s.filesRoot, "uploads")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	safeName := strings.ReplaceAll(strings.TrimSpace(df.DataName), " ", "_")
	stored := fmt.Sprintf("%s_%s_%s_%s", df.FileType, safeName, uuid.NewString()[:8], filepath.Base(filename))
	path := filepath.Join(dir, stored)
	if err := os.WriteFile(path, contents, 0o644); err != nil {
		return err
	}

	df.OrthancID = nil
	df.StoragePath = &path
	if err := s.repo.Create(df); err != nil {
		return err
	}
	log.Printf("[files][upload] stored id=%d path=%s", df.ID, path)
	return nil
}

func (s *dataFileService) ListFiles() ([]*models.DataFile, error) {
	return s.repo.List()
}
