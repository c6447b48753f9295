package handler

import (
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CkHanchey/pnrgov/internal/edifact"
	"github.com/CkHanchey/pnrgov/internal/sample"
	queue_publisher "github.com/CkHanchey/pnrgov/internal/service"
	"github.com/CkHanchey/pnrgov/pkg/logger"
	"github.com/CkHanchey/pnrgov/pkg/metrics"
)

// nopLogger discards everything; handler tests only care about responses.
type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}
func (l nopLogger) With(...interface{}) logger.Logger {
	return l
}

// Collectors register against the default registry, so the package shares a
// single instance across tests.
var testMetrics = metrics.NewMetrics("pnrgov_handler_test")

func newTestEdifactHandler() *EdifactHandler {
	rng := rand.New(rand.NewSource(42))
	now := func() time.Time { return time.Date(2024, 7, 15, 10, 30, 45, 0, time.UTC) }
	gen := sample.NewGeneratorWithClock(rng, now)
	enc := edifact.NewEncoderWithClock(rng, now)
	return NewEdifactHandler(enc, edifact.NewManifestEncoder(enc, gen), gen,
		nil, queue_publisher.New(""), nopLogger{}, testMetrics, "USCBP")
}

func jsonRequest(method, target, body string) (*http.Request, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req, httptest.NewRecorder()
}

func TestGenerateRandom(t *testing.T) {
	h := newTestEdifactHandler()
	e := echo.New()

	req, rec := jsonRequest(http.MethodPost, "/v1/edifact/generate", `{"passenger_count":1,"flight_count":1}`)
	require.NoError(t, h.GenerateRandom(e.NewContext(req, rec)))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.HasPrefix(body, "UNA:+.?*'\n"), "message starts with the service advice")
	assert.Contains(t, body, "UNB+IATA:1+")
	assert.Contains(t, body, "UNZ+1+")
}

func TestGenerateRandomRejectsBadCounts(t *testing.T) {
	h := newTestEdifactHandler()
	e := echo.New()

	for _, body := range []string{
		`{"passenger_count":25}`,
		`{"flight_count":11}`,
	} {
		req, rec := jsonRequest(http.MethodPost, "/v1/edifact/generate", body)
		require.NoError(t, h.GenerateRandom(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)

		var resp map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp["error"])
	}
}

func TestGenerateRejectsMalformedID(t *testing.T) {
	h := newTestEdifactHandler()
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/v1/edifact/generate/abc", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("abc")

	err := h.Generate(c)
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestManifestGenerateDefaultsToTenPNRs(t *testing.T) {
	h := newTestEdifactHandler()
	e := echo.New()

	req, rec := jsonRequest(http.MethodPost, "/v1/edifact/manifest/generate", `{}`)
	require.NoError(t, h.ManifestGenerate(e.NewContext(req, rec)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 10, strings.Count(rec.Body.String(), "SRC'\n"))
}

func TestManifestGenerateValidation(t *testing.T) {
	h := newTestEdifactHandler()
	e := echo.New()

	req, rec := jsonRequest(http.MethodPost, "/v1/edifact/manifest/generate", `{"pnr_count":501}`)
	require.NoError(t, h.ManifestGenerate(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

type bulkResp struct {
	Count int `json:"count"`
	Files []struct {
		FileName      string         `json:"file_name"`
		RecordLocator string         `json:"record_locator"`
		Message       string         `json:"message"`
		Options       sample.Options `json:"options"`
	} `json:"files"`
	GeneratedAt string `json:"generated_at"`
}

func TestBulkGenerate(t *testing.T) {
	h := newTestEdifactHandler()
	e := echo.New()

	req, rec := jsonRequest(http.MethodPost, "/v1/edifact/bulk/generate",
		`{"file_count":3,"min_passengers":1,"max_passengers":2,"min_flights":1,"max_flights":1}`)
	require.NoError(t, h.BulkGenerate(e.NewContext(req, rec)))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp bulkResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Count)
	assert.NotEmpty(t, resp.GeneratedAt)
	require.Len(t, resp.Files, 3)
	for _, f := range resp.Files {
		assert.Len(t, f.RecordLocator, 6)
		assert.Equal(t, f.RecordLocator+".edi", f.FileName)
		assert.True(t, strings.HasPrefix(f.Message, "UNA:+.?*'\n"))
		assert.Contains(t, f.Message, "RCI+")
		assert.GreaterOrEqual(t, f.Options.PassengerCount, 1)
		assert.LessOrEqual(t, f.Options.PassengerCount, 2)
	}
}

// Each file draws its own option set; a batch of any size must not encode
// every reservation from one fixed configuration.
func TestBulkGenerateRandomizesOptionsPerFile(t *testing.T) {
	h := newTestEdifactHandler()
	e := echo.New()

	req, rec := jsonRequest(http.MethodPost, "/v1/edifact/bulk/generate",
		`{"file_count":40,"min_passengers":1,"max_passengers":5,"min_flights":1,"max_flights":3}`)
	require.NoError(t, h.BulkGenerate(e.NewContext(req, rec)))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp bulkResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Files, 40)

	distinct := make(map[sample.Options]struct{})
	for _, f := range resp.Files {
		assert.GreaterOrEqual(t, f.Options.PassengerCount, 1)
		assert.LessOrEqual(t, f.Options.PassengerCount, 5)
		assert.GreaterOrEqual(t, f.Options.FlightCount, 1)
		assert.LessOrEqual(t, f.Options.FlightCount, 3)
		if f.Options.CreditCard {
			assert.True(t, f.Options.Payment, "card data implies a payment")
		}
		distinct[f.Options] = struct{}{}
	}
	assert.Greater(t, len(distinct), 1, "option sets must vary across files")
}

func TestBulkGenerateDefaults(t *testing.T) {
	h := newTestEdifactHandler()
	e := echo.New()

	req, rec := jsonRequest(http.MethodPost, "/v1/edifact/bulk/generate", `{}`)
	require.NoError(t, h.BulkGenerate(e.NewContext(req, rec)))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp bulkResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 10, resp.Count)
	for _, f := range resp.Files {
		assert.GreaterOrEqual(t, f.Options.PassengerCount, 1)
		assert.LessOrEqual(t, f.Options.PassengerCount, 5)
		assert.GreaterOrEqual(t, f.Options.FlightCount, 1)
		assert.LessOrEqual(t, f.Options.FlightCount, 3)
	}
}

func TestBulkGenerateValidation(t *testing.T) {
	h := newTestEdifactHandler()
	e := echo.New()

	for _, body := range []string{
		`{"file_count":-1}`,
		`{"file_count":1001}`,
		`{"file_count":1,"max_passengers":25}`,
		`{"file_count":1,"max_flights":11}`,
		`{"file_count":1,"min_passengers":4,"max_passengers":2}`,
		`{"file_count":1,"min_flights":3,"max_flights":2}`,
	} {
		req, rec := jsonRequest(http.MethodPost, "/v1/edifact/bulk/generate", body)
		require.NoError(t, h.BulkGenerate(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)

		var resp map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp["error"], body)
	}
}

func TestSampleReqOptionOverrides(t *testing.T) {
	off := false
	r := sampleReq{PassengerCount: 5, Bags: &off}

	opts := r.options()
	defaults := sample.DefaultOptions()

	assert.Equal(t, 5, opts.PassengerCount)
	assert.False(t, opts.Bags, "explicit false wins over the default")
	assert.Equal(t, defaults.FlightCount, opts.FlightCount, "absent count keeps the default")
	assert.True(t, opts.Seats, "absent toggle keeps the default")
}
