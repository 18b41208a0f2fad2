package clean

import (
	"net/http/httptest"
	"testing"

	"github.com/heptiolabs/healthcheck"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type cleanerMock struct{ mock.Mock }

func (m *cleanerMock) Clean(ID string) error {
	args := m.Called(ID)
	return args.Error(0)
}

func newTestData(t *testing.T) (*ServiceData, *cleanerMock) {
	t.Helper()
	cm := &cleanerMock{}
	cm.On("Clean", mock.Anything).Return(nil)
	data := &ServiceData{}
	data.health = healthcheck.NewHandler()
	data.cleaner = cm
	assert.Nil(t, initMetrics(data))
	return data, cm
}

func TestWrongPath(t *testing.T) {
	data, _ := newTestData(t)
	req := httptest.NewRequest("GET", "/olia/id", nil)
	resp := httptest.NewRecorder()
	NewRouter(data).ServeHTTP(resp, req)
	assert.Equal(t, 404, resp.Code)
}

func TestWrongMethod(t *testing.T) {
	data, _ := newTestData(t)
	req := httptest.NewRequest("POST", "/id", nil)
	resp := httptest.NewRecorder()
	NewRouter(data).ServeHTTP(resp, req)
	assert.Equal(t, 405, resp.Code)
}

func TestDelete(t *testing.T) {
	data, cm := newTestData(t)
	req := httptest.NewRequest("DELETE", "/id", nil)
	resp := httptest.NewRecorder()
	NewRouter(data).ServeHTTP(resp, req)
	assert.Equal(t, 200, resp.Code)
	cm.AssertCalled(t, "Clean", "id")
}

func TestNoData(t *testing.T) {
	data, _ := newTestData(t)
	req := httptest.NewRequest("DELETE", "/", nil)
	resp := httptest.NewRecorder()
	NewRouter(data).ServeHTTP(resp, req)
	assert.Equal(t, 404, resp.Code)
}

func TestCleanerFails(t *testing.T) {
	data, cm := newTestData(t)
	cm.ExpectedCalls = nil
	cm.On("Clean", mock.Anything).Return(errors.New("error"))
	req := httptest.NewRequest("DELETE", "/id", nil)
	resp := httptest.NewRecorder()
	NewRouter(data).ServeHTTP(resp, req)
	assert.Equal(t, 500, resp.Code)
}

func testCode(t *testing.T, data *ServiceData, path string, code int) {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	resp := httptest.NewRecorder()
	NewRouter(data).ServeHTTP(resp, req)
	assert.Equal(t, code, resp.Code)
}

func TestLive(t *testing.T) {
	data, _ := newTestData(t)
	testCode(t, data, "/live", 200)
}

func TestLive503(t *testing.T) {
	data, _ := newTestData(t)
	data.health.AddLivenessCheck("test", func() error { return errors.New("test") })
	testCode(t, data, "/live", 503)
}

func TestReady(t *testing.T) {
	data, _ := newTestData(t)
	testCode(t, data, "/ready", 200)
}

func TestMetrics(t *testing.T) {
	data, _ := newTestData(t)
	testCode(t, data, "/metrics", 200)
}

func TestAddMetric(t *testing.T) {
	data, _ := newTestData(t)
	req := httptest.NewRequest("DELETE", "/id", nil)
	resp := httptest.NewRecorder()
	NewRouter(data).ServeHTTP(resp, req)
	assert.Equal(t, 1, testutil.CollectAndCount(data.metrics.responseDur))
}
