package services

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medresearch/internal/models"
	"medresearch/internal/utils"
)

// fakeDataFileRepo is an in-memory DataFileRepository with the same unique
// orthanc_id constraint as the real table.
type fakeDataFileRepo struct {
	seq  int
	rows []*models.DataFile
}

func (f *fakeDataFileRepo) Create(df *models.DataFile) error {
	if df.OrthancID != nil {
		for _, row := range f.rows {
			if row.OrthancID != nil && *row.OrthancID == *df.OrthancID {
				return errors.New("pq: duplicate key value violates unique constraint \"datafiles_orthanc_id_key\"")
			}
		}
	}
	f.seq++
	df.ID = f.seq
	f.rows = append(f.rows, df)
	return nil
}

func (f *fakeDataFileRepo) GetByOrthancID(orthancID string) (*models.DataFile, error) {
	for _, row := range f.rows {
		if row.OrthancID != nil && *row.OrthancID == orthancID {
			return row, nil
		}
	}
	return nil, nil
}

func (f *fakeDataFileRepo) List() ([]*models.DataFile, error) {
	return f.rows, nil
}

// dicomBytes is a minimal Part-10 prefix: 128-byte preamble plus "DICM".
func dicomBytes(payload string) []byte {
	b := make([]byte, 128)
	b = append(b, []byte("DICM")...)
	return append(b, []byte(payload)...)
}

func baseDataFile(fileType string) *models.DataFile {
	return &models.DataFile{
		DataName:    "chest scan",
		ProjectID:   1,
		PatientID:   1,
		Modality:    "CT",
		AccessLevel: models.AccessLevelRestricted,
		FileType:    fileType,
	}
}

func newArchiveServer(t *testing.T, handler http.HandlerFunc) *utils.OrthancClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return utils.NewOrthancClient(srv.URL, "orthanc", "orthanc", false)
}

func TestUpload_DICOM(t *testing.T) {
	archive := newArchiveServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/instances", r.URL.Path)
		assert.Equal(t, "application/dicom", r.Header.Get("Content-Type"))
		w.Write([]byte(`{"ID": "abc-123"}`))
	})
	repo := &fakeDataFileRepo{}
	svc := NewDataFileService(repo, archive, t.TempDir())

	df := baseDataFile(models.FileTypeDICOM)
	err := svc.Upload(df, "scan.dcm", dicomBytes("pixel data"))
	require.NoError(t, err)

	require.NotNil(t, df.OrthancID)
	assert.Equal(t, "abc-123", *df.OrthancID)
	assert.Nil(t, df.StoragePath)
	assert.NotZero(t, df.ID)
}

func TestUpload_DICOM_BadMagic(t *testing.T) {
	repo := &fakeDataFileRepo{}
	svc := NewDataFileService(repo, utils.NewOrthancClient("http://unreachable", "", "", false), t.TempDir())

	err := svc.Upload(baseDataFile(models.FileTypeDICOM), "scan.dcm", []byte("definitely not dicom"))
	assert.ErrorIs(t, err, ErrNotDICOM)
	assert.Empty(t, repo.rows, "nothing recorded on validation failure")
}

func TestUpload_DICOM_ArchiveConflict(t *testing.T) {
	archive := newArchiveServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	})
	svc := NewDataFileService(&fakeDataFileRepo{}, archive, t.TempDir())

	err := svc.Upload(baseDataFile(models.FileTypeDICOM), "scan.dcm", dicomBytes("x"))
	assert.ErrorIs(t, err, ErrDuplicateInstance)
}

func TestUpload_DICOM_AlreadyRecorded(t *testing.T) {
	archive := newArchiveServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ID": "same-id"}`))
	})
	repo := &fakeDataFileRepo{}
	svc := NewDataFileService(repo, archive, t.TempDir())

	require.NoError(t, svc.Upload(baseDataFile(models.FileTypeDICOM), "a.dcm", dicomBytes("x")))

	err := svc.Upload(baseDataFile(models.FileTypeDICOM), "b.dcm", dicomBytes("x"))
	assert.ErrorIs(t, err, ErrDuplicateRecord)
	assert.Len(t, repo.rows, 1)
}

func TestUpload_DICOM_ArchiveDown(t *testing.T) {
	archive := newArchiveServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("storage backend offline"))
	})
	svc := NewDataFileService(&fakeDataFileRepo{}, archive, t.TempDir())

	err := svc.Upload(baseDataFile(models.FileTypeDICOM), "scan.dcm", dicomBytes("x"))

	var archiveErr *utils.ArchiveError
	require.ErrorAs(t, err, &archiveErr)
	assert.Equal(t, http.StatusInternalServerError, archiveErr.StatusCode)
}

func TestUpload_PDF_StoresLocally(t *testing.T) {
	root := t.TempDir()
	repo := &fakeDataFileRepo{}
	svc := NewDataFileService(repo, nil, root)

	df := baseDataFile(models.FileTypePDF)
	err := svc.Upload(df, "report.pdf", []byte("%PDF-1.4 ..."))
	require.NoError(t, err)

	assert.Nil(t, df.OrthancID)
	require.NotNil(t, df.StoragePath)

	saved, err := os.ReadFile(*df.StoragePath)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 ...", string(saved))
	assert.Equal(t, filepath.Join(root, "uploads"), filepath.Dir(*df.StoragePath))
}

func TestUpload_InvalidEnums(t *testing.T) {
	svc := NewDataFileService(&fakeDataFileRepo{}, nil, t.TempDir())

	df := baseDataFile("SPREADSHEET")
	assert.ErrorIs(t, svc.Upload(df, "x", nil), ErrInvalidFileType)

	df = baseDataFile(models.FileTypePDF)
	df.AccessLevel = "secret"
	assert.ErrorIs(t, svc.Upload(df, "x", nil), ErrInvalidAccessLevel)
}

func TestLooksLikeDICOM(t *testing.T) {
	assert.True(t, looksLikeDICOM(dicomBytes("")))
	assert.False(t, looksLikeDICOM([]byte("DICM")), "magic must sit after the preamble")
	assert.False(t, looksLikeDICOM(nil))
	assert.False(t, looksLikeDICOM(make([]byte, 200)))
}
