package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/mathi030307/people-eye-client/models"
	"github.com/mathi030307/people-eye-client/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// geoLocation as the capture client sends it
type geoPayload struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Accuracy  float64 `json:"accuracy,omitempty"`
	Address   string  `json:"address,omitempty"`
}

type ReportService struct {
	DB       *gorm.DB
	Store    *ReportStoreClient
	Monitor  *ConnectivityMonitor
	Queue    *OfflineQueue
	Geocoder *GeocodeClient
}

func NewReportService(db *gorm.DB, store *ReportStoreClient, monitor *ConnectivityMonitor, queue *OfflineQueue, geocoder *GeocodeClient) *ReportService {
	return &ReportService{
		DB:       db,
		Store:    store,
		Monitor:  monitor,
		Queue:    queue,
		Geocoder: geocoder,
	}
}

// SubmitReport accepts a multipart report submission and either forwards it
// to the report store immediately or queues it for later delivery, depending
// on connectivity. Validation failures never reach the network.
func (s *ReportService) SubmitReport(c *fiber.Ctx) error {
	title := c.FormValue("title")
	description := c.FormValue("description")
	category := c.FormValue("category")
	location := c.FormValue("location")
	geoLocation := c.FormValue("geoLocation")
	userEmail := c.FormValue("userEmail")
	userName := c.FormValue("username")

	if title == "" || description == "" || category == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "title, description and category are required",
		})
	}
	if userEmail == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "userEmail is required",
		})
	}

	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "invalid multipart form",
		})
	}
	images := form.File["images"]
	videos := form.File["videos"]
	audioNotes := form.File["audioNotes"]
	if len(images)+len(videos)+len(audioNotes) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "at least one photo, video or audio note is required",
		})
	}

	// Fill a missing address from coordinates when we can. Best-effort: a
	// geocoder failure falls back to "lat, lon" inside the client.
	if location == "" && geoLocation != "" && s.Geocoder != nil {
		var geo geoPayload
		if jsonErr := json.Unmarshal([]byte(geoLocation), &geo); jsonErr == nil && (geo.Latitude != 0 || geo.Longitude != 0) {
			location = s.Geocoder.ReverseGeocode(c.Context(), geo.Latitude, geo.Longitude)
		}
	}

	sub := Submission{
		Title:       title,
		Description: description,
		Category:    category,
		Location:    location,
		GeoLocation: geoLocation,
		UserEmail:   userEmail,
		UserName:    userName,
	}

	if s.Monitor.Online() {
		for _, group := range []struct {
			field string
			files []*multipart.FileHeader
		}{
			{"images", images}, {"videos", videos}, {"audioNotes", audioNotes},
		} {
			for _, fh := range group.files {
				sub.Media = append(sub.Media, formMediaPart(group.field, fh))
			}
		}

		err := s.Store.SubmitReport(c.Context(), sub)
		if err == nil {
			s.Monitor.MarkOnline()
			s.archiveMedia(category, images, videos)
			return c.Status(fiber.StatusCreated).JSON(fiber.Map{
				"success": true,
				"message": "report submitted",
			})
		}
		if !errors.Is(err, ErrStoreUnreachable) {
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"success": false,
				"error":   "report store rejected the submission",
				"cause":   err.Error(),
			})
		}
		// Transport failure: flip to offline and fall through to the queue.
		s.Monitor.MarkOffline()
	}

	localID, err := s.enqueueSubmission(sub, images, videos, audioNotes)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "failed to queue report",
			"cause":   err.Error(),
		})
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"success": true,
		"queued":  true,
		"localId": localID,
		"message": "report queued for delivery when the store is reachable",
	})
}

func formMediaPart(field string, fh *multipart.FileHeader) MediaPart {
	return MediaPart{
		Field:       field,
		FileName:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Open: func() (io.ReadCloser, error) {
			f, err := fh.Open()
			return f, err
		},
	}
}

// enqueueSubmission spools media to local disk and persists a QueuedReport so
// the submission survives a relay restart.
func (s *ReportService) enqueueSubmission(sub Submission, images, videos, audioNotes []*multipart.FileHeader) (string, error) {
	localID := uuid.NewString()

	spool := func(files []*multipart.FileHeader) (models.StringList, error) {
		var paths models.StringList
		for _, fh := range files {
			dest := utils.GetPendingPath(localID, uuid.NewString()+filepath.Ext(fh.Filename))
			if err := utils.SaveFile(fh, dest); err != nil {
				return nil, fmt.Errorf("failed to spool %s: %w", fh.Filename, err)
			}
			paths = append(paths, dest)
		}
		return paths, nil
	}

	imagePaths, err := spool(images)
	if err != nil {
		return "", err
	}
	videoPaths, err := spool(videos)
	if err != nil {
		return "", err
	}
	audioPaths, err := spool(audioNotes)
	if err != nil {
		return "", err
	}

	return s.Queue.Enqueue(models.QueuedReport{
		LocalID:     localID,
		Title:       sub.Title,
		Description: sub.Description,
		Category:    sub.Category,
		Location:    sub.Location,
		GeoLocation: sub.GeoLocation,
		UserEmail:   sub.UserEmail,
		UserName:    sub.UserName,
		ImagePaths:  imagePaths,
		VideoPaths:  videoPaths,
		AudioPaths:  audioPaths,
	})
}

// DeliverQueued is the queue's DeliverFunc: it rebuilds the multipart
// submission from the spooled media and forwards it to the store.
func (s *ReportService) DeliverQueued(ctx context.Context, entry models.QueuedReport) error {
	sub := Submission{
		Title:       entry.Title,
		Description: entry.Description,
		Category:    entry.Category,
		Location:    entry.Location,
		GeoLocation: entry.GeoLocation,
		UserEmail:   entry.UserEmail,
		UserName:    entry.UserName,
	}

	for _, group := range []struct {
		field string
		paths models.StringList
	}{
		{"images", entry.ImagePaths}, {"videos", entry.VideoPaths}, {"audioNotes", entry.AudioPaths},
	} {
		for _, path := range group.paths {
			p := path
			sub.Media = append(sub.Media, MediaPart{
				Field:    group.field,
				FileName: filepath.Base(p),
				Open: func() (io.ReadCloser, error) {
					return os.Open(p)
				},
			})
		}
	}

	err := s.Store.SubmitReport(ctx, sub)
	if err != nil {
		if errors.Is(err, ErrStoreUnreachable) {
			s.Monitor.MarkOffline()
		}
		return err
	}
	s.Monitor.MarkOnline()
	return nil
}

// CleanupDelivered removes the spooled media of a confirmed delivery.
func (s *ReportService) CleanupDelivered(entry models.QueuedReport) {
	if err := utils.RemovePendingDir(entry.LocalID); err != nil {
		log.Printf("[REPORTS] failed to remove spool dir for %s: %v", entry.LocalID, err)
	}
}

// archiveMedia pushes small media copies to R2 so the mirror has stable CDN
// URLs before the next sync pass. Best-effort; failures are only logged.
func (s *ReportService) archiveMedia(category string, images, videos []*multipart.FileHeader) {
	if !utils.R2Enabled() {
		return
	}

	upload := func(prefix string, files []*multipart.FileHeader) {
		for _, fh := range files {
			ext := filepath.Ext(fh.Filename)
			if ext == "" {
				ext = ".bin"
			}
			key := slug.Make(category) + "/" + prefix + "/" + uuid.NewString() + ext
			if _, err := utils.UploadFileToR2(fh, key); err != nil {
				log.Printf("[REPORTS] failed to archive %s to R2: %v", fh.Filename, err)
			}
		}
	}
	upload("images", images)
	upload("videos", videos)
}

// GetAllReports returns the mirrored report corpus.
func (s *ReportService) GetAllReports(c *fiber.Ctx) error {
	var reports []models.Report
	if err := s.DB.Order("created_at DESC").Find(&reports).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch reports"})
	}
	return c.JSON(reports)
}

// GetUserReports proxies the store's per-user retrieval; when the store is
// unreachable the mirrored corpus answers instead, so a stale list beats an
// error page.
func (s *ReportService) GetUserReports(c *fiber.Ctx) error {
	email := c.Params("email")
	if email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "email is required"})
	}

	reports, err := s.Store.FetchUserReports(c.Context(), email)
	if err == nil {
		s.Monitor.MarkOnline()
		return c.JSON(reports)
	}
	if !errors.Is(err, ErrStoreUnreachable) {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "report store error",
			"cause": err.Error(),
		})
	}
	s.Monitor.MarkOffline()

	var user models.DirectoryUser
	if dbErr := s.DB.Where("email = ?", email).First(&user).Error; dbErr != nil {
		return c.JSON([]models.Report{}) // unknown user, nothing mirrored
	}
	var mirrored []models.Report
	if dbErr := s.DB.Where("user_id = ?", user.ExternalUserID).Order("created_at DESC").Find(&mirrored).Error; dbErr != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch mirrored reports"})
	}
	return c.JSON(mirrored)
}
