package poller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-map/internal/jobs"
)

func TestDecodeJobPayloadObject(t *testing.T) {
	body := []byte(`{"jobId":"abc","status":"completed","result":{"T2M":300.0}}`)

	job, err := decodeJobPayload(body)
	require.NoError(t, err)
	assert.Equal(t, "abc", job.ID)
	assert.Equal(t, jobs.StatusCompleted, job.Status)
	assert.Equal(t, 300.0, job.Result["T2M"])
}

// Some deployments relay the record as a JSON string wrapping the object;
// the decoder normalizes both forms to the same record.
func TestDecodeJobPayloadStringWrapped(t *testing.T) {
	inner := `{"jobId":"abc","status":"failed","error":"provider down"}`
	body, err := json.Marshal(inner)
	require.NoError(t, err)

	job, err := decodeJobPayload(body)
	require.NoError(t, err)
	assert.Equal(t, jobs.StatusFailed, job.Status)
	assert.Equal(t, "provider down", job.Error)
}

func TestDecodeJobPayloadGarbage(t *testing.T) {
	_, err := decodeJobPayload([]byte(`"not an object"`))
	assert.Error(t, err)
}

func TestClientSubmitAndStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/v1/jobs":
			w.WriteHeader(http.StatusAccepted)
			_, _ = w.Write([]byte(`{"jobId":"abc"}`))
		case r.Method == http.MethodGet && r.URL.Path == "/api/v1/jobs/abc":
			_, _ = w.Write([]byte(`{"jobId":"abc","status":"running"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client())

	jobID, err := c.Submit(context.Background(), jobs.Request{Longitude: 1, Latitude: 2, Date: "2025-08-01"})
	require.NoError(t, err)
	assert.Equal(t, "abc", jobID)

	job, err := c.Status(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, jobs.StatusRunning, job.Status)

	_, err = c.Status(context.Background(), "missing")
	assert.ErrorIs(t, err, jobs.ErrNotFound)
}

func TestClientSubmitValidationMessages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":true,"messages":["latitude failed lte validation"]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client())

	_, err := c.Submit(context.Background(), jobs.Request{Latitude: 99, Date: "2025-08-01"})
	var invalid *jobs.InvalidRequestError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, []string{"latitude failed lte validation"}, invalid.Messages)
}
