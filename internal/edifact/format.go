// Package edifact renders reservations as IATA PNRGOV EDIFACT interchanges
// (version 21.1).  It only produces messages; parsing or validating received
// PNRGOV traffic is out of scope.
package edifact

import (
	"fmt"
	"strings"
	"time"

	"github.com/CkHanchey/pnrgov/internal/model"
)

// Service characters defined by the UNA segment.  No field value may
// contain any of them; they delimit the message structure itself.
const (
	segTerminator = "'"
	elemSep       = "+"
	compSep       = ":"

	// serviceStringAdvice is the fixed UNA segment emitted first in every
	// interchange.  It is never included in the UNT segment count.
	serviceStringAdvice = "UNA:+.?*'"
)

const reservedChars = compSep + elemSep + segTerminator

// Date and time layouts used across the message.
const (
	layoutDate      = "020106"         // ddMMyy
	layoutTime      = "1504"           // HHmm
	layoutDateAbbr  = "02Jan06"        // ddMMMyy, upper-cased after formatting
	layoutDepDate   = "060102"         // yyMMdd, manifest UNH flight key
	layoutReference = "020106150405"   // ddMMyyHHmmss, message references
	layoutFileStamp = "20060102150405" // download file names
)

func fmtDate(t time.Time) string { return t.Format(layoutDate) }
func fmtTime(t time.Time) string { return t.Format(layoutTime) }

// fmtDateAbbr renders dates in the upper-case ddMMMyy form used by
// SSR DOCS free text (e.g. 04JUL85).
func fmtDateAbbr(t time.Time) string {
	return strings.ToUpper(t.Format(layoutDateAbbr))
}

// FileStamp renders t in the compact form used for download file names.
func FileStamp(t time.Time) string { return t.Format(layoutFileStamp) }

// EncodingError reports a field whose value contains one of the reserved
// service characters.  Emitting it would corrupt the segment boundaries,
// so encoding fails atomically instead.
type EncodingError struct {
	Field string
	Value string
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("edifact: field %s contains a reserved character: %q", e.Field, e.Value)
}

func checkField(field, value string) error {
	if strings.ContainsAny(value, reservedChars) {
		return &EncodingError{Field: field, Value: value}
	}
	return nil
}

// validate walks the reservation graph and rejects any field about to be
// emitted that embeds a reserved character.  Well-formed input is expected
// to be enforced at construction time; this is the encoder's last line of
// defence before output is assembled.
func validate(res *model.Reservation) error {
	checks := []struct{ field, value string }{
		{"record_locator", res.RecordLocator},
		{"agency_code", res.AgencyCode},
		{"contact_phone", res.ContactPhone},
		{"contact_email", res.ContactEmail},
	}
	for _, c := range checks {
		if err := checkField(c.field, c.value); err != nil {
			return err
		}
	}
	for i, f := range res.Flights {
		for _, c := range []struct{ field, value string }{
			{"airline_code", f.AirlineCode},
			{"flight_number", f.FlightNumber},
			{"operating_carrier", f.OperatingCarrier},
			{"operating_flight_number", f.OperatingFlightNumber},
			{"departure_airport", f.DepartureAirport},
			{"arrival_airport", f.ArrivalAirport},
			{"aircraft_type", f.AircraftType},
			{"service_class", f.ServiceClass},
			{"flight_status", f.FlightStatus},
		} {
			if err := checkField(fmt.Sprintf("flights[%d].%s", i, c.field), c.value); err != nil {
				return err
			}
		}
	}
	for i, p := range res.Passengers {
		for _, c := range []struct{ field, value string }{
			{"first_name", p.FirstName},
			{"last_name", p.LastName},
			{"title", p.Title},
			{"gender", p.Gender},
			{"passenger_type", p.PassengerType},
		} {
			if err := checkField(fmt.Sprintf("passengers[%d].%s", i, c.field), c.value); err != nil {
				return err
			}
		}
		for j, d := range p.Documents {
			for _, c := range []struct{ field, value string }{
				{"document_number", d.DocumentNumber},
				{"issuing_country", d.IssuingCountry},
				{"nationality", d.Nationality},
			} {
				if err := checkField(fmt.Sprintf("passengers[%d].documents[%d].%s", i, j, c.field), c.value); err != nil {
					return err
				}
			}
		}
		for j, s := range p.Seats {
			if err := checkField(fmt.Sprintf("passengers[%d].seats[%d].seat_number", i, j), s.SeatNumber); err != nil {
				return err
			}
		}
	}
	return nil
}
