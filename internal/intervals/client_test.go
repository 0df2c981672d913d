package intervals

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testActivitiesResponse = `[{"id":"i1001","start_date_local":"2024-03-02T08:15:00","type":"Ride","name":"Morning Ride","moving_time":5400,"elapsed_time":5700,"distance":42100.5}]`

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *atomic.Int32) {
	t.Helper()

	calls := &atomic.Int32{}
	testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		handler(w, r)
	}))
	t.Cleanup(testServer.Close)

	client, err := NewClient(testServer.URL, "secret-key", "i4242", t.TempDir(), testServer.Client())
	require.NoError(t, err)
	return client, calls
}

func TestAuthorizationHeader(t *testing.T) {
	header := AuthorizationHeader("abc")
	expected := "Basic " + base64.StdEncoding.EncodeToString([]byte("API_KEY:abc"))
	assert.Equal(t, expected, header)
	assert.Equal(t, "Basic QVBJX0tFWTphYmM=", header)
}

func TestNewClient_RequiresCredentials(t *testing.T) {
	_, err := NewClient("", "", "i1", t.TempDir(), nil)
	assert.Error(t, err)
	_, err = NewClient("", "key", "", t.TempDir(), nil)
	assert.Error(t, err)
}

func TestClient_GetActivities(t *testing.T) {
	client, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/athlete/i4242/activities", r.URL.Path)
		assert.Equal(t, AuthorizationHeader("secret-key"), r.Header.Get("Authorization"))
		assert.Equal(t, "2019-07-22T16:18:49", r.URL.Query().Get("oldest"))
		assert.False(t, r.URL.Query().Has("newest"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(testActivitiesResponse))
	})

	oldest := time.Date(2019, 7, 22, 16, 18, 49, 0, time.Local)
	body, err := client.GetActivities(context.Background(), ActivitiesQuery{Oldest: oldest})
	require.NoError(t, err)
	assert.JSONEq(t, testActivitiesResponse, string(body))
	assert.EqualValues(t, 1, calls.Load())

	cached, err := os.ReadFile(filepath.Join(client.DataDir(), "activities.json"))
	require.NoError(t, err)
	assert.Equal(t, body, cached)

	activities, err := DecodeActivities(body)
	require.NoError(t, err)
	require.Len(t, activities, 1)
	assert.Equal(t, "Ride", activities[0].Type)
	assert.InDelta(t, 42100.5, *activities[0].Distance, 1e-9)
}

func TestClient_GetActivities_NoBounds(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.RawQuery)
		_, _ = w.Write([]byte(`[]`))
	})

	_, err := client.GetActivities(context.Background(), ActivitiesQuery{})
	require.NoError(t, err)
}

func TestClient_Activities_ReadThroughCache(t *testing.T) {
	client, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`["from network"]`))
	})

	cached := []byte(testActivitiesResponse)
	require.NoError(t, os.WriteFile(client.CachePath(KindActivities), cached, 0o644))

	first, err := client.Activities(context.Background())
	require.NoError(t, err)
	second, err := client.Activities(context.Background())
	require.NoError(t, err)

	assert.EqualValues(t, 0, calls.Load())
	assert.Equal(t, cached, first)
	assert.Equal(t, first, second)
}

func TestClient_Workouts_CacheMissFetches(t *testing.T) {
	client, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/athlete/i4242/workouts", r.URL.Path)
		_, _ = w.Write([]byte(`[{"id":7,"name":"Threshold","type":"Ride"}]`))
	})

	first, err := client.Workouts(context.Background())
	require.NoError(t, err)
	second, err := client.Workouts(context.Background())
	require.NoError(t, err)

	assert.EqualValues(t, 1, calls.Load())
	assert.Equal(t, first, second)

	workouts, err := DecodeWorkouts(first)
	require.NoError(t, err)
	require.Len(t, workouts, 1)
	assert.Equal(t, "Threshold", workouts[0].Name)
}

func TestClient_GetActivitiesCSV(t *testing.T) {
	csvBody := "id,start_date_local,type\ni1,2024-01-01T10:00:00,Run\n"
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/athlete/i4242/activities.csv", r.URL.Path)
		_, _ = w.Write([]byte(csvBody))
	})

	body, err := client.GetActivitiesCSV(context.Background())
	require.NoError(t, err)
	assert.Equal(t, csvBody, string(body))

	cached, err := os.ReadFile(client.CachePath(KindActivitiesCSV))
	require.NoError(t, err)
	assert.Equal(t, csvBody, string(cached))
}

func TestClient_ErrorStatusIsFatal(t *testing.T) {
	client, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "access denied", http.StatusForbidden)
	})

	_, err := client.Workouts(context.Background())
	require.Error(t, err)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusForbidden, statusErr.StatusCode)
	assert.EqualValues(t, 1, calls.Load())

	_, statErr := os.Stat(client.CachePath(KindWorkouts))
	assert.True(t, os.IsNotExist(statErr))
}

func TestClient_Refresh(t *testing.T) {
	client, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`["fresh"]`))
	})
	require.NoError(t, os.WriteFile(client.CachePath(KindActivities), []byte(`["stale"]`), 0o644))

	body, err := client.Refresh(context.Background(), KindActivities)
	require.NoError(t, err)
	assert.Equal(t, `["fresh"]`, string(body))
	assert.EqualValues(t, 1, calls.Load())

	_, err = client.Refresh(context.Background(), Kind("nope"))
	assert.ErrorIs(t, err, ErrUnknownKind)
}
