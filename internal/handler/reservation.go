package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/CkHanchey/pnrgov/internal/model"
	"github.com/CkHanchey/pnrgov/internal/repository"
	"github.com/CkHanchey/pnrgov/pkg/logger"
	"github.com/CkHanchey/pnrgov/pkg/metrics"
)

// ReservationHandler exposes CRUD endpoints over stored reservation graphs.
type ReservationHandler struct {
	Repo    *repository.ReservationRepo
	Log     logger.Logger
	Metrics *metrics.Metrics
}

func NewReservationHandler(repo *repository.ReservationRepo, log logger.Logger, m *metrics.Metrics) *ReservationHandler {
	return &ReservationHandler{Repo: repo, Log: log, Metrics: m}
}

// Create stores a new reservation graph.  The record locator is required;
// everything else is accepted as sent.
func (h *ReservationHandler) Create(c echo.Context) error {
	var res model.Reservation
	if err := c.Bind(&res); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	res.RecordLocator = strings.ToUpper(strings.TrimSpace(res.RecordLocator))
	if res.RecordLocator == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "record_locator required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if err := h.Repo.Create(ctx, &res); err != nil {
		h.Log.Error("create reservation failed", "locator", res.RecordLocator, "error", err)
		h.Metrics.ErrorsCount.WithLabelValues("reservation_create").Inc()
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}
	h.Metrics.ReservationsSaved.Inc()
	return c.JSON(http.StatusCreated, &res)
}

// List returns stored reservations, newest first.  limit and offset query
// parameters page the result; limit defaults to 50.
func (h *ReservationHandler) List(c echo.Context) error {
	limit := 50
	if v := c.QueryParam("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	offset := 0
	if v := c.QueryParam("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	list, err := h.Repo.List(ctx, limit, offset)
	if err != nil {
		h.Log.Error("list reservations failed", "error", err)
		h.Metrics.ErrorsCount.WithLabelValues("reservation_list").Inc()
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list failed"})
	}
	total, err := h.Repo.Count(ctx)
	if err != nil {
		h.Log.Error("count reservations failed", "error", err)
		h.Metrics.ErrorsCount.WithLabelValues("reservation_list").Inc()
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"total": total, "reservations": list})
}

// Get returns one reservation by numeric ID.
func (h *ReservationHandler) Get(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	res, err := h.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		h.Metrics.ErrorsCount.WithLabelValues("reservation_get").Inc()
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "lookup failed"})
	}
	return c.JSON(http.StatusOK, res)
}

// GetByLocator returns one reservation by record locator.
func (h *ReservationHandler) GetByLocator(c echo.Context) error {
	locator := c.Param("locator")
	if strings.TrimSpace(locator) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "locator required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	res, err := h.Repo.GetByLocator(ctx, locator)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		h.Metrics.ErrorsCount.WithLabelValues("reservation_get").Inc()
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "lookup failed"})
	}
	return c.JSON(http.StatusOK, res)
}

// Update replaces a stored reservation graph.
func (h *ReservationHandler) Update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var res model.Reservation
	if err := c.Bind(&res); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	res.ID = id
	res.RecordLocator = strings.ToUpper(strings.TrimSpace(res.RecordLocator))
	if res.RecordLocator == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "record_locator required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if err := h.Repo.Update(ctx, &res); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		h.Log.Error("update reservation failed", "id", id, "error", err)
		h.Metrics.ErrorsCount.WithLabelValues("reservation_update").Inc()
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, &res)
}

// Delete removes one reservation.
func (h *ReservationHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		h.Metrics.ErrorsCount.WithLabelValues("reservation_delete").Inc()
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteAll removes every stored reservation and reports the count.
func (h *ReservationHandler) DeleteAll(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	n, err := h.Repo.DeleteAll(ctx)
	if err != nil {
		h.Log.Error("delete all reservations failed", "error", err)
		h.Metrics.ErrorsCount.WithLabelValues("reservation_delete_all").Inc()
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"deleted": n})
}
