package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/CkHanchey/pnrgov/internal/edifact"
	"github.com/CkHanchey/pnrgov/internal/queue"
	"github.com/CkHanchey/pnrgov/internal/repository"
	"github.com/CkHanchey/pnrgov/internal/sample"
	queue_publisher "github.com/CkHanchey/pnrgov/internal/service"
	"github.com/CkHanchey/pnrgov/pkg/logger"
	"github.com/CkHanchey/pnrgov/pkg/metrics"
)

// EdifactHandler renders stored or generated reservations as PNRGOV
// messages.  Every successful generation publishes an edifact.generated
// event; publish failures are logged and never fail the request.
type EdifactHandler struct {
	Enc      *edifact.Encoder
	Manifest *edifact.ManifestEncoder
	Gen      *sample.Generator
	Repo     *repository.ReservationRepo
	Pub      *queue_publisher.Publisher
	Log      logger.Logger
	Metrics  *metrics.Metrics
	Receiver string
}

func NewEdifactHandler(enc *edifact.Encoder, man *edifact.ManifestEncoder, gen *sample.Generator,
	repo *repository.ReservationRepo, pub *queue_publisher.Publisher,
	log logger.Logger, m *metrics.Metrics, receiver string) *EdifactHandler {
	return &EdifactHandler{
		Enc: enc, Manifest: man, Gen: gen, Repo: repo, Pub: pub,
		Log: log, Metrics: m, Receiver: receiver,
	}
}

// segmentCount is the number of emitted segments excluding the UNA service
// advice.  Messages are newline-joined with a trailing newline.
func segmentCount(msg string) int {
	return strings.Count(msg, "\n") - 1
}

func (h *EdifactHandler) publish(mode, locator string, resID int64, msg string) {
	ev := queue.EdifactGeneratedEvent{
		EventID:       uuid.NewString(),
		Mode:          mode,
		RecordLocator: locator,
		ReservationID: resID,
		Receiver:      h.Receiver,
		SegmentCount:  segmentCount(msg),
		MessageBytes:  len(msg),
		GeneratedAt:   time.Now().UTC().Format(time.RFC3339),
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := h.Pub.PublishEdifactGenerated(ctx, ev); err != nil {
		h.Log.Warn("publish edifact.generated failed", "mode", mode, "locator", locator, "error", err)
	}
}

func (h *EdifactHandler) encodeStored(c echo.Context) (string, string, int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return "", "", 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	res, err := h.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", "", 0, echo.NewHTTPError(http.StatusNotFound, "reservation not found")
		}
		h.Metrics.ErrorsCount.WithLabelValues("edifact_lookup").Inc()
		return "", "", 0, echo.NewHTTPError(http.StatusInternalServerError, "lookup failed")
	}

	start := time.Now()
	msg, err := h.Enc.Encode(res, h.Receiver)
	if err != nil {
		var encErr *edifact.EncodingError
		if errors.As(err, &encErr) {
			return "", "", 0, echo.NewHTTPError(http.StatusUnprocessableEntity, encErr.Error())
		}
		h.Metrics.ErrorsCount.WithLabelValues("edifact_encode").Inc()
		return "", "", 0, echo.NewHTTPError(http.StatusInternalServerError, "encode failed")
	}
	h.Metrics.EncodeDuration.Observe(time.Since(start).Seconds())
	h.Metrics.MessagesGenerated.WithLabelValues("single").Inc()
	return msg, res.RecordLocator, res.ID, nil
}

// Generate renders one stored reservation as a PNRGOV message.
func (h *EdifactHandler) Generate(c echo.Context) error {
	msg, locator, resID, err := h.encodeStored(c)
	if err != nil {
		return err
	}
	h.publish("single", locator, resID, msg)
	return c.String(http.StatusOK, msg)
}

// Download renders one stored reservation and serves it as a .edi
// attachment named after the record locator.
func (h *EdifactHandler) Download(c echo.Context) error {
	msg, locator, resID, err := h.encodeStored(c)
	if err != nil {
		return err
	}
	h.publish("single", locator, resID, msg)
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename=%s.edi`, locator))
	return c.Blob(http.StatusOK, echo.MIMETextPlainCharsetUTF8, []byte(msg))
}

// GenerateRandom renders a freshly generated sample reservation without
// persisting it.  Generation options come from the request body.
func (h *EdifactHandler) GenerateRandom(c echo.Context) error {
	var req sampleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	res := h.Gen.Generate(req.options())

	start := time.Now()
	msg, err := h.Enc.Encode(res, h.Receiver)
	if err != nil {
		h.Metrics.ErrorsCount.WithLabelValues("edifact_encode").Inc()
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "encode failed"})
	}
	h.Metrics.EncodeDuration.Observe(time.Since(start).Seconds())
	h.Metrics.MessagesGenerated.WithLabelValues("single").Inc()
	h.publish("single", res.RecordLocator, 0, msg)
	return c.String(http.StatusOK, msg)
}

// manifestReq describes a manifest generation request.  Airline and flight
// number are optional; omitted values are drawn at random.
type manifestReq struct {
	PNRCount     int    `json:"pnr_count"`
	Airline      string `json:"airline"`
	FlightNumber string `json:"flight_number"`
}

func (r *manifestReq) normalize() string {
	if r.PNRCount == 0 {
		r.PNRCount = 10
	}
	if r.PNRCount < 1 || r.PNRCount > 500 {
		return "pnr_count must be between 1 and 500"
	}
	r.Airline = strings.ToUpper(strings.TrimSpace(r.Airline))
	r.FlightNumber = strings.TrimSpace(r.FlightNumber)
	return ""
}

func (h *EdifactHandler) encodeManifest(req manifestReq) (string, error) {
	start := time.Now()
	msg, err := h.Manifest.Encode(edifact.ManifestRequest{
		PNRCount:     req.PNRCount,
		Airline:      req.Airline,
		FlightNumber: req.FlightNumber,
		Receiver:     h.Receiver,
	})
	if err != nil {
		h.Metrics.ErrorsCount.WithLabelValues("manifest_encode").Inc()
		return "", err
	}
	h.Metrics.EncodeDuration.Observe(time.Since(start).Seconds())
	h.Metrics.MessagesGenerated.WithLabelValues("manifest").Inc()
	return msg, nil
}

// ManifestGenerate builds a flight manifest containing a batch of
// generated PNRs that all share one reported flight.
func (h *EdifactHandler) ManifestGenerate(c echo.Context) error {
	var req manifestReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.normalize(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	msg, err := h.encodeManifest(req)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "encode failed"})
	}
	h.publish("manifest", "", 0, msg)
	return c.String(http.StatusOK, msg)
}

// ManifestDownload builds a manifest and serves it as a .edi attachment.
// The file name embeds the reported airline and flight number when the
// caller pinned them, with XX/0000 placeholders otherwise.
func (h *EdifactHandler) ManifestDownload(c echo.Context) error {
	var req manifestReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.normalize(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	msg, err := h.encodeManifest(req)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "encode failed"})
	}
	h.publish("manifest", "", 0, msg)

	airline := req.Airline
	if airline == "" {
		airline = "XX"
	}
	flightNumber := req.FlightNumber
	if flightNumber == "" {
		flightNumber = "0000"
	}
	filename := fmt.Sprintf("PNRGOV_Manifest_%s%s_%s.edi",
		airline, flightNumber, edifact.FileStamp(time.Now()))
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename=%s`, filename))
	return c.Blob(http.StatusOK, echo.MIMETextPlainCharsetUTF8, []byte(msg))
}

// bulkReq describes a bulk generation request: one message per file, each
// from a fresh random reservation.  Passenger and flight counts are drawn
// per file from the inclusive min/max ranges.
type bulkReq struct {
	FileCount     int `json:"file_count"`
	MinPassengers int `json:"min_passengers"`
	MaxPassengers int `json:"max_passengers"`
	MinFlights    int `json:"min_flights"`
	MaxFlights    int `json:"max_flights"`
}

func (r *bulkReq) normalize() string {
	if r.FileCount == 0 {
		r.FileCount = 10
	}
	if r.MinPassengers == 0 {
		r.MinPassengers = 1
	}
	if r.MaxPassengers == 0 {
		r.MaxPassengers = 5
	}
	if r.MinFlights == 0 {
		r.MinFlights = 1
	}
	if r.MaxFlights == 0 {
		r.MaxFlights = 3
	}
	switch {
	case r.FileCount < 1 || r.FileCount > 1000:
		return "file_count must be between 1 and 1000"
	case r.MinPassengers < 1 || r.MaxPassengers > 20:
		return "passenger range must be between 1 and 20"
	case r.MinFlights < 1 || r.MaxFlights > 10:
		return "flight range must be between 1 and 10"
	case r.MinPassengers > r.MaxPassengers:
		return "min_passengers cannot be greater than max_passengers"
	case r.MinFlights > r.MaxFlights:
		return "min_flights cannot be greater than max_flights"
	}
	return ""
}

type bulkItem struct {
	FileName      string         `json:"file_name"`
	RecordLocator string         `json:"record_locator"`
	Message       string         `json:"message"`
	Options       sample.Options `json:"options"`
}

// BulkGenerate produces a batch of independent single-reservation messages.
// Every file gets its own randomized option set, so a large batch exercises
// codeshare legs, thru flights and sparse reservations alongside full ones.
func (h *EdifactHandler) BulkGenerate(c echo.Context) error {
	var req bulkReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.normalize(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	start := time.Now()
	items := make([]bulkItem, 0, req.FileCount)
	for i := 0; i < req.FileCount; i++ {
		opts := h.Gen.RandomOptions(req.MinPassengers, req.MaxPassengers, req.MinFlights, req.MaxFlights)
		res := h.Gen.Generate(opts)
		msg, err := h.Enc.Encode(res, h.Receiver)
		if err != nil {
			h.Metrics.ErrorsCount.WithLabelValues("bulk_encode").Inc()
			return c.JSON(http.StatusInternalServerError, echo.Map{
				"error": "encode failed", "generated": len(items),
			})
		}
		h.Metrics.MessagesGenerated.WithLabelValues("bulk").Inc()
		items = append(items, bulkItem{
			FileName:      res.RecordLocator + ".edi",
			RecordLocator: res.RecordLocator,
			Message:       msg,
			Options:       opts,
		})
	}
	h.Metrics.EncodeDuration.Observe(time.Since(start).Seconds())
	h.Log.Info("bulk generation finished", "files", len(items), "elapsed", time.Since(start).String())

	// One event summarizes the whole batch.
	totalSegments, totalBytes := 0, 0
	for _, it := range items {
		totalSegments += segmentCount(it.Message)
		totalBytes += len(it.Message)
	}
	ev := queue.EdifactGeneratedEvent{
		EventID:      uuid.NewString(),
		Mode:         "bulk",
		Receiver:     h.Receiver,
		SegmentCount: totalSegments,
		MessageBytes: totalBytes,
		GeneratedAt:  time.Now().UTC().Format(time.RFC3339),
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := h.Pub.PublishEdifactGenerated(ctx, ev); err != nil {
		h.Log.Warn("publish edifact.generated failed", "mode", "bulk", "error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"count":        len(items),
		"files":        items,
		"generated_at": time.Now().UTC().Format(time.RFC3339),
	})
}
