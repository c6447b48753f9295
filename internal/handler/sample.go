package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/CkHanchey/pnrgov/internal/model"
	"github.com/CkHanchey/pnrgov/internal/repository"
	"github.com/CkHanchey/pnrgov/internal/sample"
	"github.com/CkHanchey/pnrgov/pkg/logger"
	"github.com/CkHanchey/pnrgov/pkg/metrics"
)

// SampleHandler generates randomized reservations and persists them so the
// message endpoints have data to work with.
type SampleHandler struct {
	Gen     *sample.Generator
	Repo    *repository.ReservationRepo
	Log     logger.Logger
	Metrics *metrics.Metrics
}

func NewSampleHandler(gen *sample.Generator, repo *repository.ReservationRepo, log logger.Logger, m *metrics.Metrics) *SampleHandler {
	return &SampleHandler{Gen: gen, Repo: repo, Log: log, Metrics: m}
}

// sampleReq overrides generation defaults.  Booleans are pointers so an
// absent field keeps the default instead of forcing false.
type sampleReq struct {
	PassengerCount int   `json:"passenger_count"`
	FlightCount    int   `json:"flight_count"`
	Bags           *bool `json:"bags"`
	Seats          *bool `json:"seats"`
	Documents      *bool `json:"documents"`
	Payment        *bool `json:"payment"`
	Codeshare      *bool `json:"codeshare"`
	ThruFlight     *bool `json:"thru_flight"`
	PhoneNumbers   *bool `json:"phone_numbers"`
	AgencyInfo     *bool `json:"agency_info"`
	CreditCard     *bool `json:"credit_card"`
}

func (r sampleReq) options() sample.Options {
	opts := sample.DefaultOptions()
	if r.PassengerCount > 0 {
		opts.PassengerCount = r.PassengerCount
	}
	if r.FlightCount > 0 {
		opts.FlightCount = r.FlightCount
	}
	set := func(dst *bool, src *bool) {
		if src != nil {
			*dst = *src
		}
	}
	set(&opts.Bags, r.Bags)
	set(&opts.Seats, r.Seats)
	set(&opts.Documents, r.Documents)
	set(&opts.Payment, r.Payment)
	set(&opts.Codeshare, r.Codeshare)
	set(&opts.ThruFlight, r.ThruFlight)
	set(&opts.PhoneNumbers, r.PhoneNumbers)
	set(&opts.AgencyInfo, r.AgencyInfo)
	set(&opts.CreditCard, r.CreditCard)
	return opts
}

func (r sampleReq) validate() string {
	if r.PassengerCount < 0 || r.PassengerCount > 20 {
		return "passenger_count must be between 1 and 20"
	}
	if r.FlightCount < 0 || r.FlightCount > 10 {
		return "flight_count must be between 1 and 10"
	}
	return ""
}

// Generate creates one randomized reservation, stores it and returns it.
func (h *SampleHandler) Generate(c echo.Context) error {
	var req sampleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	res := h.Gen.Generate(req.options())

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if err := h.Repo.Create(ctx, res); err != nil {
		h.Log.Error("persist sample reservation failed", "locator", res.RecordLocator, "error", err)
		h.Metrics.ErrorsCount.WithLabelValues("sample_generate").Inc()
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "persist failed"})
	}
	h.Metrics.ReservationsSaved.Inc()
	h.Log.Info("sample reservation generated", "locator", res.RecordLocator,
		"passengers", len(res.Passengers), "flights", len(res.Flights))
	return c.JSON(http.StatusCreated, res)
}

type sampleMultiReq struct {
	Count int `json:"count"`
	sampleReq
}

// GenerateMultiple creates and stores a batch of randomized reservations.
func (h *SampleHandler) GenerateMultiple(c echo.Context) error {
	var req sampleMultiReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Count < 1 || req.Count > 100 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "count must be between 1 and 100"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 60*time.Second)
	defer cancel()

	out := make([]*model.Reservation, 0, req.Count)
	for i := 0; i < req.Count; i++ {
		res := h.Gen.Generate(req.options())
		if err := h.Repo.Create(ctx, res); err != nil {
			h.Log.Error("persist sample reservation failed", "locator", res.RecordLocator, "error", err)
			h.Metrics.ErrorsCount.WithLabelValues("sample_generate").Inc()
			return c.JSON(http.StatusInternalServerError, echo.Map{
				"error": "persist failed", "created": len(out),
			})
		}
		h.Metrics.ReservationsSaved.Inc()
		out = append(out, res)
	}
	return c.JSON(http.StatusCreated, echo.Map{"count": len(out), "reservations": out})
}
