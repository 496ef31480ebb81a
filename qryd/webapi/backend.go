package webapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/tweezerlab/qryd/go/qryd"
)

// Terminal outcomes of waiting on a job. "Still pending after all retries"
// is distinct from "server reported error" and "server reported cancelled".
var (
	ErrMissingToken = errors.New("QRyd access token is missing")
	ErrJobTimeout   = errors.New("job still pending after retries were exhausted")
	ErrJobCancelled = errors.New("job was cancelled")
	ErrJobFailed    = errors.New("job failed on the server")
)

// Job status values reported by the web API.
const (
	StatusPending   = "pending"
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusError     = "error"
	StatusCancelled = "cancelled"
)

// A JobStatus is the server's answer to a status query.
type JobStatus struct {
	Status string `json:"status"`
	Msg    string `json:"msg"`
}

// ResultCounts holds measurement counts keyed by the hex form of the
// measured bitstring, e.g. {"0x1": 100}.
type ResultCounts struct {
	Counts map[string]uint64 `json:"counts"`
}

// A JobResult is the measurement data of a completed job.
type JobResult struct {
	Data            ResultCounts `json:"data"`
	TimeTaken       float64      `json:"time_taken"`
	NumQubits       uint32       `json:"num_qubits"`
	CompilationTime float64      `json:"compilation_time"`
}

// runRequest is the body posted to create a job.
type runRequest struct {
	Format  string           `json:"format"`
	Backend string           `json:"backend"`
	Dev     bool             `json:"dev"`
	Seed    *int64           `json:"seed_simulator,omitempty"`
	Program []qryd.Operation `json:"program"`
}

// A Backend submits programs to the QRyd web API for one device. It reads
// the device's gate availability, routing key and seed but never mutates
// it; clone the device before handing it to a concurrent pipeline.
type Backend struct {
	device *qryd.Device
	cfg    Config
	token  string
	client *http.Client
	log    *zap.Logger
}

// New returns a backend for the device. The access token is taken from the
// config or from $QRYD_API_TOKEN.
func New(device *qryd.Device, cfg Config, log *zap.Logger) (*Backend, error) {
	cfg = cfg.WithDefaults()
	token := cfg.AccessToken
	if token == "" {
		token = os.Getenv(TokenEnvVar)
	}
	if token == "" {
		return nil, ErrMissingToken
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Backend{
		device: device,
		cfg:    cfg,
		token:  token,
		client: &http.Client{},
		log:    log,
	}, nil
}

func (b *Backend) jobsURL() string {
	return fmt.Sprintf("%s/%s/jobs", b.cfg.BaseURL, b.cfg.APIVersion)
}

func (b *Backend) do(req *http.Request) (*http.Response, error) {
	req.Header.Set("X-API-KEY", b.token)
	req.Header.Set("Content-Type", "application/json")
	if b.cfg.Dev {
		req.Header.Set("X-DEV", "?1")
	}
	return b.client.Do(req)
}

// PostJob validates every gate operation of the program against the device
// and posts it as a new job. The returned location is the job's URL, used
// for status, result and delete queries.
func (b *Backend) PostJob(ctx context.Context, program []qryd.Operation) (string, error) {
	for _, op := range program {
		if op.IsChange() {
			continue
		}
		if _, ok := b.device.GateTime(op); !ok {
			return "", errors.Errorf("operation %s%v is not available on device %s", op.Gate, op.Qubits, b.device.Name())
		}
	}
	body := runRequest{
		Format:  "qryd",
		Backend: b.device.Name(),
		Dev:     b.cfg.Dev,
		Seed:    b.device.Seed(),
		Program: program,
	}
	blob, err := json.Marshal(body)
	if err != nil {
		return "", errors.Wrap(err, "encode job request")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.jobsURL(), bytes.NewReader(blob))
	if err != nil {
		return "", errors.Wrap(err, "build job request")
	}
	resp, err := b.do(req)
	if err != nil {
		return "", errors.Wrap(err, "post job")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return "", errors.Errorf("post job: server returned HTTP status %d", resp.StatusCode)
	}
	location := resp.Header.Get("Location")
	if location == "" {
		return "", errors.New("post job: response carries no Location header")
	}
	b.log.Debug("job posted", zap.String("location", location), zap.String("backend", b.device.Name()))
	return location, nil
}

// JobStatus queries the current status of a job.
func (b *Backend) JobStatus(ctx context.Context, location string) (JobStatus, error) {
	var status JobStatus
	if err := b.getJSON(ctx, location+"/status", &status); err != nil {
		return JobStatus{}, err
	}
	return status, nil
}

// JobResult fetches the measurement data of a completed job.
func (b *Backend) JobResult(ctx context.Context, location string) (JobResult, error) {
	var result JobResult
	if err := b.getJSON(ctx, location+"/result", &result); err != nil {
		return JobResult{}, err
	}
	return result, nil
}

// DeleteJob removes a job from the server.
func (b *Backend) DeleteJob(ctx context.Context, location string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, location, nil)
	if err != nil {
		return errors.Wrap(err, "build delete request")
	}
	resp, err := b.do(req)
	if err != nil {
		return errors.Wrap(err, "delete job")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("delete job: server returned HTTP status %d", resp.StatusCode)
	}
	return nil
}

// WaitForResult polls the job until it completes, erroring out on server
// failure or cancellation, or with ErrJobTimeout once the configured number
// of polls is exhausted while the job is still pending.
func (b *Backend) WaitForResult(ctx context.Context, location string) (JobResult, error) {
	for attempt := 0; attempt < b.cfg.MaxPolls; attempt++ {
		status, err := b.JobStatus(ctx, location)
		if err != nil {
			return JobResult{}, err
		}
		b.log.Debug("job status",
			zap.String("location", location),
			zap.String("status", status.Status),
			zap.Int("attempt", attempt))
		switch status.Status {
		case StatusCompleted:
			return b.JobResult(ctx, location)
		case StatusError:
			return JobResult{}, errors.Wrapf(ErrJobFailed, "%s", status.Msg)
		case StatusCancelled:
			return JobResult{}, ErrJobCancelled
		}
		select {
		case <-ctx.Done():
			return JobResult{}, ctx.Err()
		case <-time.After(b.cfg.PollInterval):
		}
	}
	return JobResult{}, ErrJobTimeout
}

// Run posts a program and waits for its result.
func (b *Backend) Run(ctx context.Context, program []qryd.Operation) (JobResult, error) {
	location, err := b.PostJob(ctx, program)
	if err != nil {
		return JobResult{}, err
	}
	return b.WaitForResult(ctx, location)
}

func (b *Backend) getJSON(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	resp, err := b.do(req)
	if err != nil {
		return errors.Wrapf(err, "get %s", url)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("get %s: server returned HTTP status %d", url, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrapf(err, "decode response of %s", url)
	}
	return nil
}

// FetchDevice downloads a populated device model from the web API and, if
// the instance carries a default layout, switches to it as part of loading.
func FetchDevice(ctx context.Context, cfg Config, name string, log *zap.Logger) (*qryd.Device, error) {
	cfg = cfg.WithDefaults()
	token := cfg.AccessToken
	if token == "" {
		token = os.Getenv(TokenEnvVar)
	}
	if token == "" {
		return nil, ErrMissingToken
	}
	if log == nil {
		log = zap.NewNop()
	}
	url := fmt.Sprintf("%s/%s/devices/%s", cfg.BaseURL, cfg.APIVersion, name)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build device request")
	}
	req.Header.Set("X-API-KEY", token)
	if cfg.Dev {
		req.Header.Set("X-DEV", "?1")
	}
	resp, err := (&http.Client{}).Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "fetch device %s", name)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("fetch device %s: server returned HTTP status %d", name, resp.StatusCode)
	}
	device := qryd.New(qryd.Options{})
	if err := json.NewDecoder(resp.Body).Decode(device); err != nil {
		return nil, errors.Wrapf(err, "decode device %s", name)
	}
	log.Info("device fetched", zap.String("device", device.Name()), zap.Strings("layouts", device.AvailableLayouts()))
	return device, nil
}
