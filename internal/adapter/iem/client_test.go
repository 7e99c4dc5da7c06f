package iem

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleFeed = `{
	"type": "FeatureCollection",
	"features": [
		{
			"type": "Feature",
			"properties": {
				"phenomena": "TO",
				"significance": "W",
				"is_emergency": true,
				"is_pds": false
			},
			"geometry": {
				"type": "Polygon",
				"coordinates": [[[-95.0, 33.0], [-94.0, 33.0], [-94.0, 34.0], [-95.0, 33.0]]]
			}
		},
		{
			"type": "Feature",
			"properties": {
				"phenomena": "SV",
				"significance": "W"
			},
			"geometry": {
				"type": "MultiPolygon",
				"coordinates": [[[[-90.0, 30.0], [-89.0, 30.0], [-89.0, 31.0], [-90.0, 30.0]]]]
			}
		}
	]
}`

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestFetchWindow(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"sts": r.URL.Query().Get("sts"),
			"ets": r.URL.Query().Get("ets"),
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleFeed))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second, testLogger())

	start := time.Date(2025, 6, 19, 22, 7, 53, 0, time.UTC)
	features, err := client.FetchWindow(context.Background(), start, start)
	require.NoError(t, err)

	assert.Equal(t, "2025-06-19T22:07:53Z", gotQuery["sts"])
	assert.Equal(t, "2025-06-19T22:07:53Z", gotQuery["ets"])

	require.Len(t, features, 2)

	to := features[0]
	assert.Equal(t, "TO", to.Phenomenon)
	assert.Equal(t, "W", to.Significance)
	assert.True(t, to.IsEmergency)
	assert.False(t, to.IsPDS)
	require.IsType(t, orb.Polygon{}, to.Geometry)

	sv := features[1]
	assert.Equal(t, "SV", sv.Phenomenon)
	assert.False(t, sv.IsEmergency)
	require.IsType(t, orb.MultiPolygon{}, sv.Geometry)
}

func TestFetchWindow_WindowIsUTC(t *testing.T) {
	var sts string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sts = r.URL.Query().Get("sts")
		_, _ = w.Write([]byte(`{"type":"FeatureCollection","features":[]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second, testLogger())

	loc := time.FixedZone("CDT", -5*3600)
	start := time.Date(2025, 6, 19, 17, 0, 0, 0, loc)
	_, err := client.FetchWindow(context.Background(), start, start)
	require.NoError(t, err)

	assert.Equal(t, "2025-06-19T22:00:00Z", sts)
}

func TestFetchWindow_EmptyCollection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"type":"FeatureCollection","features":[]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second, testLogger())

	features, err := client.FetchWindow(context.Background(), time.Now(), time.Now())
	require.NoError(t, err)
	assert.Empty(t, features)
}

func TestFetchWindow_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second, testLogger())

	_, err := client.FetchWindow(context.Background(), time.Now(), time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
}

func TestFetchWindow_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"type": "FeatureCollection", "features": [`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second, testLogger())

	_, err := client.FetchWindow(context.Background(), time.Now(), time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode warnings feed")
}

func TestFetchWindow_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.FetchWindow(ctx, time.Now(), time.Now())
	require.Error(t, err)
}
