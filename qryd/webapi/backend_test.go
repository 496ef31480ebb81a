package webapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tweezerlab/qryd/go/qryd"
)

func newTestDevice(t *testing.T) *qryd.Device {
	t.Helper()
	d := qryd.New(qryd.Options{Name: "qryd_emulator"})
	require.NoError(t, d.AddLayout("default"))
	for tw := 0; tw < 3; tw++ {
		require.NoError(t, d.SetSingleQubitGateTime("RotateX", tw, 1e-6, "default"))
	}
	require.NoError(t, d.SetTwoQubitGateTime("PhaseShiftedControlledZ", 0, 1, 2e-6, "default"))
	require.NoError(t, d.SwitchLayout("default"))
	return d
}

func testConfig(url string) Config {
	return Config{
		BaseURL:      url,
		APIVersion:   "v5_2",
		AccessToken:  "sekrit",
		PollInterval: time.Millisecond,
		MaxPolls:     5,
	}
}

var testProgram = []qryd.Operation{
	{Gate: "RotateX", Qubits: []int{0}},
	{Gate: "PhaseShiftedControlledZ", Qubits: []int{0, 1}},
}

// jobServer fakes the QRyd job endpoints: POST /v5_2/jobs creates a job, and
// the status endpoint walks through the given status sequence.
func jobServer(t *testing.T, statuses []JobStatus, result JobResult) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	var srv *httptest.Server
	next := 0
	mux.HandleFunc("/v5_2/jobs", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "sekrit", r.Header.Get("X-API-KEY"))
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "qryd", body["format"])
		require.Equal(t, "qryd_emulator", body["backend"])
		w.Header().Set("Location", srv.URL+"/v5_2/jobs/1")
		w.WriteHeader(http.StatusCreated)
	})
	mux.HandleFunc("/v5_2/jobs/1/status", func(w http.ResponseWriter, r *http.Request) {
		s := statuses[next]
		if next < len(statuses)-1 {
			next++
		}
		require.NoError(t, json.NewEncoder(w).Encode(s))
	})
	mux.HandleFunc("/v5_2/jobs/1/result", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewEncoder(w).Encode(result))
	})
	srv = httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestNewTokenHandling(t *testing.T) {
	d := newTestDevice(t)
	t.Setenv(TokenEnvVar, "")
	_, err := New(d, Config{}, nil)
	assert.ErrorIs(t, err, ErrMissingToken)

	t.Setenv(TokenEnvVar, "from-env")
	b, err := New(d, Config{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "from-env", b.token)

	b, err = New(d, Config{AccessToken: "explicit"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "explicit", b.token)
}

func TestRunCompletes(t *testing.T) {
	want := JobResult{
		Data:      ResultCounts{Counts: map[string]uint64{"0x0": 60, "0x1": 40}},
		TimeTaken: 0.23,
		NumQubits: 2,
	}
	srv := jobServer(t, []JobStatus{
		{Status: StatusPending},
		{Status: StatusRunning},
		{Status: StatusCompleted},
	}, want)

	b, err := New(newTestDevice(t), testConfig(srv.URL), nil)
	require.NoError(t, err)
	got, err := b.Run(context.Background(), testProgram)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestRunRejectsUnavailableGate(t *testing.T) {
	srv := jobServer(t, []JobStatus{{Status: StatusCompleted}}, JobResult{})
	b, err := New(newTestDevice(t), testConfig(srv.URL), nil)
	require.NoError(t, err)

	_, err = b.PostJob(context.Background(), []qryd.Operation{
		{Gate: "RotateX", Qubits: []int{42}},
	})
	assert.Error(t, err)
}

func TestWaitForResultFailures(t *testing.T) {
	tcs := []struct {
		name     string
		statuses []JobStatus
		want     error
	}{{
		name:     "server error",
		statuses: []JobStatus{{Status: StatusRunning}, {Status: StatusError, Msg: "boom"}},
		want:     ErrJobFailed,
	}, {
		name:     "cancelled",
		statuses: []JobStatus{{Status: StatusCancelled}},
		want:     ErrJobCancelled,
	}, {
		name:     "stuck pending",
		statuses: []JobStatus{{Status: StatusPending}},
		want:     ErrJobTimeout,
	}}
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			srv := jobServer(t, tc.statuses, JobResult{})
			b, err := New(newTestDevice(t), testConfig(srv.URL), nil)
			require.NoError(t, err)
			_, err = b.Run(context.Background(), testProgram)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestWaitForResultHonorsContext(t *testing.T) {
	srv := jobServer(t, []JobStatus{{Status: StatusPending}}, JobResult{})
	cfg := testConfig(srv.URL)
	cfg.PollInterval = time.Minute
	b, err := New(newTestDevice(t), cfg, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = b.Run(ctx, testProgram)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestPostJobRequiresLocation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))
	t.Cleanup(srv.Close)
	b, err := New(newTestDevice(t), testConfig(srv.URL), nil)
	require.NoError(t, err)
	_, err = b.PostJob(context.Background(), testProgram)
	assert.ErrorContains(t, err, "Location")
}

func TestDeleteJob(t *testing.T) {
	deleted := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		deleted = true
	}))
	t.Cleanup(srv.Close)
	b, err := New(newTestDevice(t), testConfig(srv.URL), nil)
	require.NoError(t, err)
	require.NoError(t, b.DeleteJob(context.Background(), srv.URL+"/v5_2/jobs/1"))
	assert.True(t, deleted)
}

func TestFetchDevice(t *testing.T) {
	remote := newTestDevice(t)
	require.NoError(t, remote.SetDefaultLayout("default"))
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v5_2/devices/qryd_emulator", r.URL.Path)
		require.Equal(t, "sekrit", r.Header.Get("X-API-KEY"))
		require.NoError(t, json.NewEncoder(w).Encode(remote))
	}))
	t.Cleanup(srv.Close)

	got, err := FetchDevice(context.Background(), testConfig(srv.URL), "qryd_emulator", nil)
	require.NoError(t, err)
	assert.Equal(t, "qryd_emulator", got.Name())
	assert.Equal(t, "default", got.CurrentLayout())
	time, ok := got.SingleQubitGateTime("RotateX", 0)
	assert.True(t, ok)
	assert.Equal(t, 1e-6, time)
}
