package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"medresearch/internal/models"
	"medresearch/internal/services"
)

type PatientHandler struct {
	service   services.PatientService
	filesRoot string
}

func NewPatientHandler(service services.PatientService, filesRoot string) *PatientHandler {
	return &PatientHandler{service: service, filesRoot: filesRoot}
}

// savePatientFile stores an attached PDF as <first>_<last>_<suffix><ext>
// under the patients directory and returns the stored path.
func (h *PatientHandler) savePatientFile(fh *multipart.FileHeader, firstName, lastName, suffix string) (*string, error) {
	if fh == nil {
		return nil, nil
	}
	dir := filepath.Join(h.filesRoot, "patients")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	ext := filepath.Ext(fh.Filename)
	if ext == "" {
		ext = ".pdf"
	}
	path := filepath.Join(dir, fmt.Sprintf("%s_%s_%s%s", firstName, lastName, suffix, ext))

	src, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	dst, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return nil, err
	}
	return &path, nil
}

func formStringPtr(c *gin.Context, key string) *string {
	if v, ok := c.GetPostForm(key); ok && strings.TrimSpace(v) != "" {
		s := strings.TrimSpace(v)
		return &s
	}
	return nil
}

func formBoolPtr(c *gin.Context, key string) *bool {
	if v, ok := c.GetPostForm(key); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return &b
		}
	}
	return nil
}

// @Summary      List patients
// @Tags         Patients
// @Produce      json
// @Success      200  {array}  models.Patient
// @Router       /patients [get]
func (h *PatientHandler) ListPatients(c *gin.Context) {
	patients, err := h.service.ListPatients()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "could not fetch patients"})
		return
	}
	if patients == nil {
		patients = []*models.Patient{}
	}
	c.JSON(http.StatusOK, patients)
}

// @Summary      Register a patient
// @Description  Multipart form with optional consent and related-report PDFs
// @Tags         Patients
// @Accept       mpfd
// @Produce      json
// @Success      201  {object}  models.Patient
// @Failure      400  {object}  map[string]string
// @Router       /patients [post]
func (h *PatientHandler) RegisterPatient(c *gin.Context) {
	firstName := strings.TrimSpace(c.PostForm("first_name"))
	lastName := strings.TrimSpace(c.PostForm("last_name"))
	dob := strings.TrimSpace(c.PostForm("dob"))
	ethnicity := c.PostForm("ethnicity")
	gender := c.PostForm("gender")
	if firstName == "" || lastName == "" || dob == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "first_name, last_name and dob are required"})
		return
	}

	p := &models.Patient{
		FirstName: firstName,
		LastName:  lastName,
		DOB:       dob,
		Ethnicity: ethnicity,
		Gender:    gender,

		PastDiagnoses:        formStringPtr(c, "past_diagnoses"),
		FamilyMedicalHistory: formStringPtr(c, "family_medical_history"),
		CurrentPrescriptions: formStringPtr(c, "current_prescriptions"),
		SmokingStatus:        formBoolPtr(c, "smoking_status"),
		AlcoholStatus:        formBoolPtr(c, "alcohol_status"),
		DrugUse:              formBoolPtr(c, "drug_use"),

		AddedByUserID: getUserID(c),
	}

	if fh, err := c.FormFile("informed_consent_doc"); err == nil {
		path, err := h.savePatientFile(fh, firstName, lastName, "consent")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "could not store consent document"})
			return
		}
		p.InformedConsentDoc = path
	}
	if fh, err := c.FormFile("related_reports_doc"); err == nil {
		path, err := h.savePatientFile(fh, firstName, lastName, "related")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "could not store related reports"})
			return
		}
		p.RelatedReportsDoc = path
	}

	if err := h.service.CreatePatient(p); err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidEthnicity), errors.Is(err, services.ErrInvalidGender):
			c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error"})
		}
		return
	}
	c.JSON(http.StatusCreated, p)
}

// @Summary      Get a patient
// @Tags         Patients
// @Produce      json
// @Param        id  path  int  true  "Patient ID"
// @Success      200  {object}  models.Patient
// @Failure      404  {object}  map[string]string
// @Router       /patients/{id} [get]
func (h *PatientHandler) GetPatient(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid id"})
		return
	}
	p, err := h.service.GetPatient(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error"})
		return
	}
	if p == nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Patient not found"})
		return
	}
	c.JSON(http.StatusOK, p)
}

// @Summary      Update a patient
// @Tags         Patients
// @Accept       json
// @Produce      json
// @Param        id       path  int                   true  "Patient ID"
// @Param        patient  body  models.PatientUpdate  true  "Fields to update"
// @Success      200  {object}  models.Patient
// @Failure      404  {object}  map[string]string
// @Router       /patients/{id} [put]
func (h *PatientHandler) EditPatient(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid id"})
		return
	}
	var upd models.PatientUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	p, err := h.service.UpdatePatient(id, &upd)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPatientNotFound):
			c.JSON(http.StatusNotFound, gin.H{"detail": err.Error()})
		case errors.Is(err, services.ErrInvalidEthnicity), errors.Is(err, services.ErrInvalidGender):
			c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error"})
		}
		return
	}
	c.JSON(http.StatusOK, p)
}
