package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jobmetrics "github.com/laporan-latin/laporan-latin/internal/jobs"
	"github.com/laporan-latin/laporan-latin/internal/lalin"
)

type stubLoader struct {
	dates []string
	token string
	fail  string
}

func (s *stubLoader) Day(_ context.Context, token, date string) ([]lalin.TransactionRecord, error) {
	s.token = token
	if date == s.fail {
		return nil, errors.New("upstream down")
	}
	s.dates = append(s.dates, date)
	return make([]lalin.TransactionRecord, 3), nil
}

type stubAuth struct {
	user string
	err  error
}

func (s *stubAuth) Login(_ context.Context, username, _ string) (string, error) {
	s.user = username
	if s.err != nil {
		return "", s.err
	}
	return "svc-token", nil
}

func fixedClock() time.Time {
	return time.Date(2023, 11, 5, 1, 15, 0, 0, time.UTC)
}

func newJob(loader *stubLoader, authn *stubAuth) *ReportWarmupJob {
	job := NewReportWarmupJob(loader, authn, ServiceAccount{Username: "svc", Password: "pw"}, nil, jobmetrics.NewMetrics(prometheus.NewRegistry()))
	job.WithClock(fixedClock)
	return job
}

func TestPayloadDates(t *testing.T) {
	dates, err := ReportWarmupPayload{Date: "2023-11-01", Days: 3}.Dates(fixedClock())
	require.NoError(t, err)
	assert.Equal(t, []string{"2023-10-30", "2023-10-31", "2023-11-01"}, dates)

	dates, err = ReportWarmupPayload{}.Dates(fixedClock())
	require.NoError(t, err)
	assert.Equal(t, []string{"2023-11-04"}, dates, "defaults to yesterday")

	dates, err = ReportWarmupPayload{Date: "2023-11-01", Days: 90}.Dates(fixedClock())
	require.NoError(t, err)
	assert.Len(t, dates, maxWarmupDays)

	_, err = ReportWarmupPayload{Date: "01/11/2023"}.Dates(fixedClock())
	assert.Error(t, err)
}

func TestReportWarmupLoadsEachDate(t *testing.T) {
	loader := &stubLoader{}
	authn := &stubAuth{}
	task, err := NewReportWarmupTask("2023-11-02", 2)
	require.NoError(t, err)
	assert.Equal(t, TaskReportWarmup, task.Type())

	require.NoError(t, newJob(loader, authn).Handle(context.Background(), task))
	assert.Equal(t, "svc", authn.user)
	assert.Equal(t, "svc-token", loader.token)
	assert.Equal(t, []string{"2023-11-01", "2023-11-02"}, loader.dates)
}

func TestReportWarmupStopsOnError(t *testing.T) {
	loader := &stubLoader{fail: "2023-11-01"}
	task, err := NewReportWarmupTask("2023-11-02", 3)
	require.NoError(t, err)

	err = newJob(loader, &stubAuth{}).Handle(context.Background(), task)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2023-11-01")
	assert.Equal(t, []string{"2023-10-31"}, loader.dates)
}

func TestReportWarmupLoginFailure(t *testing.T) {
	loader := &stubLoader{}
	boom := errors.New("invalid credentials")
	task, err := NewReportWarmupTask("", 1)
	require.NoError(t, err)

	err = newJob(loader, &stubAuth{err: boom}).Handle(context.Background(), task)
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, loader.dates)
}

func TestReportWarmupBadPayloadSkipsRetry(t *testing.T) {
	job := newJob(&stubLoader{}, &stubAuth{})

	err := job.Handle(context.Background(), asynq.NewTask(TaskReportWarmup, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)

	data, _ := json.Marshal(ReportWarmupPayload{Date: "kemarin"})
	err = job.Handle(context.Background(), asynq.NewTask(TaskReportWarmup, data))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

type stubInspector struct {
	info *asynq.QueueInfo
	err  error
}

func (s stubInspector) GetQueueInfo(string) (*asynq.QueueInfo, error) {
	return s.info, s.err
}

func serveHealth(t *testing.T, inspector QueueInspector) *httptest.ResponseRecorder {
	t.Helper()
	r := chi.NewRouter()
	r.Route("/jobs", NewHandler(inspector, nil).MountRoutes)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/jobs/health", nil))
	return rr
}

func TestHealthReportsQueueDepth(t *testing.T) {
	rr := serveHealth(t, stubInspector{info: &asynq.QueueInfo{Queue: "default", Pending: 4, Retry: 1}})
	require.Equal(t, http.StatusOK, rr.Code)

	var got QueueHealth
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, QueueHealth{Queue: "default", Pending: 4, Retry: 1}, got)
}

func TestHealthWithoutInspector(t *testing.T) {
	rr := serveHealth(t, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"queue":"default","pending":0,"active":0,"scheduled":0,"retry":0,"archived":0,"paused":false}`, rr.Body.String())
}

func TestHealthInspectorError(t *testing.T) {
	rr := serveHealth(t, stubInspector{err: errors.New("redis down")})
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}
