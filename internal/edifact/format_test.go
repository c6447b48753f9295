package edifact

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CkHanchey/pnrgov/internal/model"
)

func TestFormatDates(t *testing.T) {
	ts := time.Date(1985, 7, 4, 16, 45, 0, 0, time.UTC)

	assert.Equal(t, "040785", fmtDate(ts))
	assert.Equal(t, "1645", fmtTime(ts))
	assert.Equal(t, "04JUL85", fmtDateAbbr(ts))
	assert.Equal(t, "19850704164500", FileStamp(ts))
}

func TestValidateRejectsReservedCharacters(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*model.Reservation)
		field  string
	}{
		{"locator with element separator", func(r *model.Reservation) { r.RecordLocator = "AB+123" }, "record_locator"},
		{"locator with terminator", func(r *model.Reservation) { r.RecordLocator = "AB'123" }, "record_locator"},
		{"phone with component separator", func(r *model.Reservation) { r.ContactPhone = "354:1234567" }, "contact_phone"},
		{"airline code", func(r *model.Reservation) { r.Flights[0].AirlineCode = "F+" }, "flights[0].airline_code"},
		{"passenger last name", func(r *model.Reservation) { r.Passengers[0].LastName = "O'BRIEN" }, "passengers[0].last_name"},
		{"document number", func(r *model.Reservation) { r.Passengers[0].Documents[0].DocumentNumber = "US:123" }, "passengers[0].documents[0].document_number"},
		{"seat number", func(r *model.Reservation) { r.Passengers[0].Seats[0].SeatNumber = "1+A" }, "passengers[0].seats[0].seat_number"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := fixtureReservation()
			tc.mutate(res)

			err := validate(res)
			require.Error(t, err)

			var encErr *EncodingError
			require.ErrorAs(t, err, &encErr)
			assert.Equal(t, tc.field, encErr.Field)
		})
	}
}

func TestValidateAcceptsCleanReservation(t *testing.T) {
	require.NoError(t, validate(fixtureReservation()))
}

func TestEncodingErrorMessageNamesField(t *testing.T) {
	err := &EncodingError{Field: "record_locator", Value: "AB+123"}
	assert.Contains(t, err.Error(), "record_locator")
	assert.Contains(t, err.Error(), "AB+123")
}
