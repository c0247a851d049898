package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/mathi030307/people-eye-client/models"
)

// ErrStoreUnreachable marks transport-level failures, as opposed to the
// store answering with a rejection. Callers enqueue on the former and surface
// the latter.
var ErrStoreUnreachable = errors.New("report store unreachable")

// ReportStoreClient talks to the remote report store that owns report
// records and all server-side business logic.
type ReportStoreClient struct {
	BaseURL string
	Client  *http.Client
}

func NewReportStoreClient(baseURL string) *ReportStoreClient {
	return &ReportStoreClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// MediaPart is one file part of a report submission. Open is called at send
// time so the same part works for an in-flight upload and for a spooled
// queued report replayed later.
type MediaPart struct {
	Field       string // "images", "videos" or "audioNotes"
	FileName    string
	ContentType string
	Open        func() (io.ReadCloser, error)
}

// Submission is the multipart payload the report store accepts.
type Submission struct {
	Title       string
	Description string
	Category    string
	Location    string
	GeoLocation string // JSON, passed through verbatim
	UserEmail   string
	UserName    string
	Media       []MediaPart
}

type submitResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// SubmitReport delivers one report to the store. Transport errors are
// returned as-is so callers can distinguish "store unreachable" (enqueue)
// from "store rejected" (surface to the user).
func (c *ReportStoreClient) SubmitReport(ctx context.Context, sub Submission) error {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	fields := map[string]string{
		"title":       sub.Title,
		"description": sub.Description,
		"category":    sub.Category,
		"location":    sub.Location,
		"geoLocation": sub.GeoLocation,
		"userEmail":   sub.UserEmail,
		"username":    sub.UserName,
	}
	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return fmt.Errorf("failed to write field %s: %w", name, err)
		}
	}

	for _, part := range sub.Media {
		if err := writeMediaPart(w, part); err != nil {
			return err
		}
	}

	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	endpoint := fmt.Sprintf("%s/api/reports", c.BaseURL)
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.Client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnreachable, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("report store returned %d: %s", resp.StatusCode, string(msg))
	}

	var out submitResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return fmt.Errorf("failed to decode report store response: %w", err)
	}
	if !out.Success {
		return fmt.Errorf("report store rejected submission: %s", out.Message)
	}
	return nil
}

func writeMediaPart(w *multipart.Writer, part MediaPart) error {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, part.Field, part.FileName))
	contentType := part.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h.Set("Content-Type", contentType)

	dst, err := w.CreatePart(h)
	if err != nil {
		return fmt.Errorf("failed to create media part %s: %w", part.FileName, err)
	}

	src, err := part.Open()
	if err != nil {
		return fmt.Errorf("failed to open media part %s: %w", part.FileName, err)
	}
	defer src.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("failed to copy media part %s: %w", part.FileName, err)
	}
	return nil
}

// FetchUserReports retrieves the report history for one user, keyed by email
// the way the store's GET interface works.
func (c *ReportStoreClient) FetchUserReports(ctx context.Context, email string) ([]models.Report, error) {
	endpoint := fmt.Sprintf("%s/api/reports/%s", c.BaseURL, url.PathEscape(email))

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnreachable, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("report store returned %d: %s", resp.StatusCode, string(msg))
	}

	var reports []models.Report
	if err := json.NewDecoder(resp.Body).Decode(&reports); err != nil {
		return nil, fmt.Errorf("failed to decode reports: %w", err)
	}
	return reports, nil
}

// Ping checks whether the store is reachable at all. Any HTTP response —
// including an error status — counts as reachable; only transport failures
// mean offline.
func (c *ReportStoreClient) Ping(ctx context.Context) error {
	endpoint := fmt.Sprintf("%s/api/health", c.BaseURL)

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return err
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return err
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
	return nil
}
