package handlers

import (
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"medresearch/internal/models"
	"medresearch/internal/services"
	"medresearch/internal/utils"
)

type DataFileHandler struct {
	service services.DataFileService
}

func NewDataFileHandler(service services.DataFileService) *DataFileHandler {
	return &DataFileHandler{service: service}
}

// @Summary      List data files
// @Tags         Files
// @Produce      json
// @Success      200  {array}  models.DataFile
// @Router       /files [get]
func (h *DataFileHandler) ListFiles(c *gin.Context) {
	files, err := h.service.ListFiles()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "could not fetch files"})
		return
	}
	if files == nil {
		files = []*models.DataFile{}
	}
	c.JSON(http.StatusOK, files)
}

// @Summary      Upload a data file
// @Description  DICOM uploads are validated and forwarded to the image archive; other types are stored on disk
// @Tags         Files
// @Accept       mpfd
// @Produce      json
// @Success      201  {object}  models.DataFile
// @Failure      400  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /files [post]
func (h *DataFileHandler) UploadFile(c *gin.Context) {
	projectID, err := strconv.Atoi(c.PostForm("project_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid project_id"})
		return
	}
	patientID, err := strconv.Atoi(c.PostForm("patient_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid patient_id"})
		return
	}
	dataName := strings.TrimSpace(c.PostForm("data_name"))
	if dataName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "data_name is required"})
		return
	}

	df := &models.DataFile{
		DataName:    dataName,
		ProjectID:   projectID,
		PatientID:   patientID,
		Modality:    c.PostForm("modality"),
		AccessLevel: c.PostForm("access_level"),
		FileType:    c.PostForm("file_type"),

		BodyArea: formStringPtr(c, "body_area"),
		Comments: formStringPtr(c, "comments"),
	}
	if v, ok := c.GetPostForm("related_report_id"); ok && v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid related_report_id"})
			return
		}
		df.RelatedReportID = &id
	}

	fh, err := c.FormFile("upload")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "upload file is required"})
		return
	}
	src, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "could not read upload"})
		return
	}
	defer src.Close()
	contents, err := io.ReadAll(src)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "could not read upload"})
		return
	}

	if err := h.service.Upload(df, fh.Filename, contents); err != nil {
		var archiveErr *utils.ArchiveError
		switch {
		case errors.Is(err, services.ErrNotDICOM),
			errors.Is(err, services.ErrInvalidFileType),
			errors.Is(err, services.ErrInvalidAccessLevel):
			c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		case errors.Is(err, services.ErrDuplicateInstance),
			errors.Is(err, services.ErrDuplicateRecord):
			c.JSON(http.StatusConflict, gin.H{"detail": err.Error()})
		case errors.As(err, &archiveErr):
			c.JSON(http.StatusBadGateway, gin.H{"detail": archiveErr.Error()})
		default:
			log.Printf("[files][upload] internal error name=%q: err=%v", dataName, err)
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error"})
		}
		return
	}
	c.JSON(http.StatusCreated, df)
}
