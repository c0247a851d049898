package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mathi030307/people-eye-client/models"
	"github.com/mathi030307/people-eye-client/services"

	"github.com/gofiber/fiber/v2"
)

// memStore is an in-memory services.QueueStore for handler tests.
type memStore struct {
	mu      sync.Mutex
	entries map[string]models.QueuedReport
}

func newMemStore() *memStore {
	return &memStore{entries: map[string]models.QueuedReport{}}
}

func (s *memStore) Append(q *models.QueuedReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[q.LocalID] = *q
	return nil
}

func (s *memStore) Update(q *models.QueuedReport) error {
	return s.Append(q)
}

func (s *memStore) Remove(localID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, localID)
	return nil
}

func (s *memStore) Due(now time.Time) ([]models.QueuedReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var due []models.QueuedReport
	for _, q := range s.entries {
		if !q.NextAttemptAt.After(now) {
			due = append(due, q)
		}
	}
	sort.Slice(due, func(i, j int) bool { return due[i].EnqueuedAt.Before(due[j].EnqueuedAt) })
	return due, nil
}

func (s *memStore) Entries() ([]models.QueuedReport, error) {
	return s.Due(time.Now().Add(24 * time.Hour))
}

func (s *memStore) Len() (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.entries)), nil
}

func offlineRelay(t *testing.T) (*fiber.App, *services.OfflineQueue) {
	t.Helper()

	// Spool dirs are created relative to the working directory.
	wd, _ := os.Getwd()
	tmp := t.TempDir()
	if err := os.Chdir(tmp); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	store := services.NewReportStoreClient("http://127.0.0.1:1") // unreachable
	store.Client.Timeout = 500 * time.Millisecond
	monitor := services.NewConnectivityMonitor(store, false)

	svc := services.NewReportService(nil, store, monitor, nil, nil)
	queue := services.NewOfflineQueue(newMemStore(), svc.DeliverQueued)
	queue.OnDelivered = svc.CleanupDelivered
	svc.Queue = queue

	app := fiber.New()
	SetupReportRoutes(app, svc)
	SetupQueueRoutes(app, queue, monitor)
	return app, queue
}

func multipartReport(t *testing.T, withMedia bool) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	_ = w.WriteField("title", "Huge pothole")
	_ = w.WriteField("description", "Right at the crossing")
	_ = w.WriteField("category", "Road Issues")
	_ = w.WriteField("location", "Main St")
	_ = w.WriteField("userEmail", "asha@example.com")
	_ = w.WriteField("username", "asha")
	if withMedia {
		part, err := w.CreateFormFile("images", "pothole.jpg")
		if err != nil {
			t.Fatal(err)
		}
		_, _ = io.Copy(part, strings.NewReader("jpeg-bytes"))
	}
	_ = w.Close()
	return body, w.FormDataContentType()
}

func TestSubmitReportQueuedWhileOffline(t *testing.T) {
	app, queue := offlineRelay(t)

	before, _ := queue.Len()

	body, contentType := multipartReport(t, true)
	req := httptest.NewRequest(http.MethodPost, "/reports", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req, 5000)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusAccepted {
		raw, _ := io.ReadAll(resp.Body)
		t.Fatalf("expected 202, got %d: %s", resp.StatusCode, raw)
	}

	var out struct {
		Success bool   `json:"success"`
		Queued  bool   `json:"queued"`
		LocalID string `json:"localId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if !out.Success || !out.Queued || out.LocalID == "" {
		t.Errorf("unexpected response: %+v", out)
	}

	after, _ := queue.Len()
	if after != before+1 {
		t.Errorf("queue length: expected %d, got %d", before+1, after)
	}
}

func TestSubmitReportValidation(t *testing.T) {
	app, _ := offlineRelay(t)

	// Missing media part.
	body, contentType := multipartReport(t, false)
	req := httptest.NewRequest(http.MethodPost, "/reports", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req, 5000)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for missing media, got %d", resp.StatusCode)
	}

	// Missing required fields.
	empty := &bytes.Buffer{}
	w := multipart.NewWriter(empty)
	_ = w.WriteField("title", "only a title")
	_ = w.Close()
	req = httptest.NewRequest(http.MethodPost, "/reports", empty)
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err = app.Test(req, 5000)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for missing fields, got %d", resp.StatusCode)
	}
}

func TestQueueStatusEndpoint(t *testing.T) {
	app, queue := offlineRelay(t)

	if _, err := queue.Enqueue(models.QueuedReport{Title: "queued", UserEmail: "a@b.c"}); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodGet, "/queue/status", nil)
	resp, err := app.Test(req, 5000)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var out struct {
		Online  bool  `json:"online"`
		Pending int64 `json:"pending"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.Online {
		t.Error("expected offline status")
	}
	if out.Pending != 1 {
		t.Errorf("expected 1 pending entry, got %d", out.Pending)
	}
}

func TestDetectEndpoint(t *testing.T) {
	app := fiber.New()
	SetupAssistRoutes(app, services.NewKeywordDetector(), services.NewPhraseTranslator())

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	_ = w.WriteField("filename", "cracked-road.jpg")
	_ = w.Close()

	req := httptest.NewRequest(http.MethodPost, "/detect", body)
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := app.Test(req, 5000)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var out services.DetectionResult
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.Category != "Road Issues" {
		t.Errorf("expected Road Issues, got %q", out.Category)
	}
}

func TestTranslateEndpoint(t *testing.T) {
	app := fiber.New()
	SetupAssistRoutes(app, services.NewKeywordDetector(), services.NewPhraseTranslator())

	payload, _ := json.Marshal(map[string]string{"text": "bache ahead", "sourceLang": "hi"})
	req := httptest.NewRequest(http.MethodPost, "/translate", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, 5000)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var out struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.Text != "pothole ahead" {
		t.Errorf("unexpected translation: %q", out.Text)
	}

	// Invalid language tag is a 400.
	payload, _ = json.Marshal(map[string]string{"text": "x", "sourceLang": "!! bad !!"})
	req = httptest.NewRequest(http.MethodPost, "/translate", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req, 5000)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for invalid tag, got %d", resp.StatusCode)
	}
}
