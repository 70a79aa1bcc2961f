package httpapi

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-map/internal/geocode"
	"github.com/i474232898/weather-map/internal/jobs"
)

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *jobs.Service, geo geocode.Geocoder) {
	v1 := app.Group("/api/v1")

	v1.Post("/jobs", func(c *fiber.Ctx) error {
		var req jobs.Request
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":    true,
				"messages": []string{"request body is not valid JSON"},
			})
		}

		jobID, err := service.Submit(c.Context(), req)
		if err != nil {
			var invalid *jobs.InvalidRequestError
			if errors.As(err, &invalid) {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error":    true,
					"messages": invalid.Messages,
				})
			}
			return fiber.NewError(fiber.StatusServiceUnavailable, "failed to submit job")
		}

		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
			"jobId": jobID,
		})
	})

	v1.Get("/jobs/:id", func(c *fiber.Ctx) error {
		job, err := service.Status(c.Context(), c.Params("id"))
		if err != nil {
			if errors.Is(err, jobs.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no job for requested id")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to read job status")
		}

		return c.JSON(job)
	})

	v1.Get("/geocode/search", func(c *fiber.Ctx) error {
		query := c.Query("q")
		if query == "" {
			return fiber.NewError(fiber.StatusBadRequest, "q query parameter is required")
		}

		place, err := geo.Forward(c.Context(), query)
		if err != nil {
			if errors.Is(err, geocode.ErrNoResult) {
				return fiber.NewError(fiber.StatusNotFound, "no result for query")
			}
			return fiber.NewError(fiber.StatusBadGateway, "geocoding backend unavailable")
		}

		return c.JSON(place)
	})

	v1.Get("/geocode/reverse", func(c *fiber.Ctx) error {
		lat, err1 := strconv.ParseFloat(c.Query("lat"), 64)
		lon, err2 := strconv.ParseFloat(c.Query("lon"), 64)
		if err1 != nil || err2 != nil {
			return fiber.NewError(fiber.StatusBadRequest, "lat and lon query parameters are required")
		}

		name, err := geo.Reverse(c.Context(), lat, lon)
		if err != nil {
			if errors.Is(err, geocode.ErrNoResult) {
				return fiber.NewError(fiber.StatusNotFound, "no result for coordinates")
			}
			return fiber.NewError(fiber.StatusBadGateway, "geocoding backend unavailable")
		}

		return c.JSON(fiber.Map{
			"displayName": name,
		})
	})
}
