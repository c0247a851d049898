package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mathi030307/people-eye-client/models"
)

func textPart(field, name, content string) MediaPart {
	return MediaPart{
		Field:    field,
		FileName: name,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(content)), nil
		},
	}
}

func TestSubmitReportSendsMultipartPayload(t *testing.T) {
	var gotFields map[string]string
	var gotFiles map[string][]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/reports" || r.Method != http.MethodPost {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if err := r.ParseMultipartForm(10 << 20); err != nil {
			t.Fatalf("bad multipart body: %v", err)
		}
		gotFields = map[string]string{}
		for k, v := range r.MultipartForm.Value {
			gotFields[k] = v[0]
		}
		gotFiles = map[string][]string{}
		for k, fhs := range r.MultipartForm.File {
			for _, fh := range fhs {
				gotFiles[k] = append(gotFiles[k], fh.Filename)
			}
		}
		json.NewEncoder(w).Encode(map[string]any{"success": true})
	}))
	defer srv.Close()

	client := NewReportStoreClient(srv.URL)
	err := client.SubmitReport(context.Background(), Submission{
		Title:       "Broken street light",
		Description: "Dark corner near the school",
		Category:    "Street Lighting",
		Location:    "5th Avenue",
		GeoLocation: `{"latitude":12.9,"longitude":77.6}`,
		UserEmail:   "asha@example.com",
		UserName:    "asha",
		Media: []MediaPart{
			textPart("images", "lamp.jpg", "jpeg-bytes"),
			textPart("images", "pole.jpg", "jpeg-bytes-2"),
			textPart("videos", "flicker.mp4", "mp4-bytes"),
			textPart("audioNotes", "note.webm", "audio-bytes"),
		},
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	for field, want := range map[string]string{
		"title":       "Broken street light",
		"category":    "Street Lighting",
		"userEmail":   "asha@example.com",
		"username":    "asha",
		"geoLocation": `{"latitude":12.9,"longitude":77.6}`,
	} {
		if gotFields[field] != want {
			t.Errorf("field %s: expected %q, got %q", field, want, gotFields[field])
		}
	}
	if len(gotFiles["images"]) != 2 {
		t.Errorf("expected 2 image parts, got %v", gotFiles["images"])
	}
	if len(gotFiles["videos"]) != 1 || len(gotFiles["audioNotes"]) != 1 {
		t.Errorf("missing video/audio parts: %v", gotFiles)
	}
}

func TestSubmitReportRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "duplicate report"})
	}))
	defer srv.Close()

	client := NewReportStoreClient(srv.URL)
	err := client.SubmitReport(context.Background(), Submission{Title: "x", UserEmail: "a@b.c"})
	if err == nil {
		t.Fatal("expected rejection error")
	}
	if errors.Is(err, ErrStoreUnreachable) {
		t.Error("a store rejection is not a transport failure")
	}
}

func TestSubmitReportUnreachable(t *testing.T) {
	client := NewReportStoreClient("http://127.0.0.1:1") // nothing listens here
	client.Client.Timeout = 500 * time.Millisecond

	err := client.SubmitReport(context.Background(), Submission{Title: "x", UserEmail: "a@b.c"})
	if !errors.Is(err, ErrStoreUnreachable) {
		t.Fatalf("expected ErrStoreUnreachable, got %v", err)
	}
}

func TestFetchUserReports(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/reports/asha@example.com" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode([]models.Report{
			{ID: "r1", UserID: "u1", Title: "Pothole", Status: models.StatusNew, Images: models.StringList{"a.jpg"}},
			{ID: "r2", UserID: "u1", Title: "Garbage pileup", Status: models.StatusResolved},
		})
	}))
	defer srv.Close()

	client := NewReportStoreClient(srv.URL)
	reports, err := client.FetchUserReports(context.Background(), "asha@example.com")
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if len(reports) != 2 {
		t.Fatalf("expected 2 reports, got %d", len(reports))
	}
	if reports[0].ID != "r1" || !reports[0].HasImages() {
		t.Errorf("unexpected first report: %+v", reports[0])
	}
	if reports[1].Status != models.StatusResolved {
		t.Errorf("expected resolved status, got %q", reports[1].Status)
	}
}

func TestPingAnyResponseCountsAsReachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewReportStoreClient(srv.URL)
	if err := client.Ping(context.Background()); err != nil {
		t.Errorf("a 500 still means the store is reachable: %v", err)
	}

	down := NewReportStoreClient("http://127.0.0.1:1")
	down.Client.Timeout = 500 * time.Millisecond
	if err := down.Ping(context.Background()); err == nil {
		t.Error("expected transport error for unreachable store")
	}
}
