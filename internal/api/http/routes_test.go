package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-map/internal/geocode"
	"github.com/i474232898/weather-map/internal/jobs"
	"github.com/i474232898/weather-map/internal/store"
	"github.com/i474232898/weather-map/internal/weather"
)

type staticProvider struct{}

func (staticProvider) Name() string { return "static" }

func (staticProvider) FetchDay(ctx context.Context, lat, lon float64, day time.Time) (weather.Variables, error) {
	return weather.Variables{"T2M": 300.0, "QV2M": 0.01}, nil
}

type staticGeocoder struct{}

func (staticGeocoder) Forward(ctx context.Context, query string) (geocode.Place, error) {
	if query == "nowhere" {
		return geocode.Place{}, geocode.ErrNoResult
	}
	return geocode.Place{Lat: 47.6, Lon: -122.3, DisplayName: "Seattle, WA"}, nil
}

func (staticGeocoder) Reverse(ctx context.Context, lat, lon float64) (string, error) {
	return "Seattle, WA", nil
}

func newTestApp() *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	memStore := store.NewMemoryStore(0, 0)
	worker := jobs.NewWorker(memStore, []weather.HistoricalProvider{staticProvider{}}, 1, 12, time.Minute)
	svc := jobs.NewService(memStore, worker)
	RegisterRoutes(app, svc, staticGeocoder{})
	return app
}

// TestSubmitValidation verifies that out-of-range coordinates are rejected
// with the message list shape and create no job.
func TestSubmitValidation(t *testing.T) {
	app := newTestApp()

	body := `{"longitude":-190,"latitude":95,"date":"2025-08-01"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}

	var payload struct {
		Error    bool     `json:"error"`
		Messages []string `json:"messages"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !payload.Error || len(payload.Messages) < 2 {
		t.Fatalf("expected messages for both coordinates, got %+v", payload)
	}
}

// TestSubmitAndPollStatus walks the happy path: accepted submission, job ID
// returned, status endpoint eventually reporting completion.
func TestSubmitAndPollStatus(t *testing.T) {
	app := newTestApp()

	body := `{"longitude":-122.3,"latitude":47.6,"date":"2025-08-01"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("expected status %d, got %d", http.StatusAccepted, resp.StatusCode)
	}

	var submitted struct {
		JobID string `json:"jobId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&submitted); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if submitted.JobID == "" {
		t.Fatal("expected a job id")
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		req = httptest.NewRequest(http.MethodGet, "/api/v1/jobs/"+submitted.JobID, nil)
		resp, err = app.Test(req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
		}

		var job jobs.Job
		if err := json.NewDecoder(resp.Body).Decode(&job); err != nil {
			t.Fatalf("decode job: %v", err)
		}
		if job.Status.Terminal() {
			if job.Status != jobs.StatusCompleted {
				t.Fatalf("expected completed, got %s (%s)", job.Status, job.Error)
			}
			if job.Result["T2M"] != 300.0 {
				t.Fatalf("expected T2M 300.0, got %v", job.Result["T2M"])
			}
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("job %s never completed", submitted.JobID)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestStatusUnknownJob(t *testing.T) {
	app := newTestApp()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs/does-not-exist", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, resp.StatusCode)
	}
}

func TestGeocodeSearch(t *testing.T) {
	app := newTestApp()

	// Missing query parameter should return 400.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/geocode/search", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/geocode/search?q=Seattle", nil)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	var place geocode.Place
	if err := json.NewDecoder(resp.Body).Decode(&place); err != nil {
		t.Fatalf("decode place: %v", err)
	}
	if place.DisplayName != "Seattle, WA" {
		t.Fatalf("unexpected place: %+v", place)
	}

	// Unresolvable query degrades to 404, not an error page.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/geocode/search?q=nowhere", nil)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, resp.StatusCode)
	}
}

func TestGeocodeReverse(t *testing.T) {
	app := newTestApp()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/geocode/reverse?lat=47.6&lon=-122.3", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/geocode/reverse?lat=abc", nil)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}
}
