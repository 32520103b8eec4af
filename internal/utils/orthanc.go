package utils

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrDuplicateInstance means the archive already holds this DICOM instance.
var ErrDuplicateInstance = errors.New("orthanc: instance already exists")

// ArchiveError carries whatever Orthanc answered outside the happy path.
type ArchiveError struct {
	StatusCode int
	Body       string
}

func (e *ArchiveError) Error() string {
	return fmt.Sprintf("Orthanc error %d: %s", e.StatusCode, e.Body)
}

// OrthancClient talks to the external DICOM archive.
type OrthancClient struct {
	BaseURL  string
	Username string
	Password string
	DryRun   bool // skip the HTTP call, return a fake instance id

	HTTPClient *http.Client
}

func NewOrthancClient(baseURL, username, password string, dryRun bool) *OrthancClient {
	return &OrthancClient{
		BaseURL:    baseURL,
		Username:   username,
		Password:   password,
		DryRun:     dryRun,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type uploadResponse struct {
	ID string `json:"ID"`
}

// UploadInstance posts raw DICOM bytes to /instances and returns the
// archive-assigned instance id.
func (c *OrthancClient) UploadInstance(contents []byte) (string, error) {
	if c.DryRun {
		fmt.Printf("[orthanc][dry-run] would upload %d bytes\n", len(contents))
		return fmt.Sprintf("dry-run-%d", len(contents)), nil
	}

	req, err := http.NewRequest(http.MethodPost, c.BaseURL+"/instances", bytes.NewReader(contents))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(c.Username, c.Password)
	req.Header.Set("Content-Type", "application/dicom")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("orthanc upload request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	switch {
	case resp.StatusCode == http.StatusConflict:
		return "", ErrDuplicateInstance
	case resp.StatusCode != http.StatusOK:
		return "", &ArchiveError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var result uploadResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("parse orthanc response: %w", err)
	}
	if result.ID == "" {
		return "", &ArchiveError{StatusCode: resp.StatusCode, Body: "Orthanc did not return an instance ID"}
	}
	return result.ID, nil
}
