package model

import "time"

// Reservation is the root of a passenger name record (PNR).  It owns the
// ordered flight itinerary, the passenger list and any payments made
// against the booking.  The record locator uniquely identifies the
// reservation and never changes once assigned; CreatedDate carries the
// timestamp of the last PNR transaction and feeds the RCI/DAT segments.
type Reservation struct {
	ID               int64        `json:"id"`
	RecordLocator    string       `json:"record_locator"`
	BookingDate      time.Time    `json:"booking_date"`
	CreatedDate      time.Time    `json:"created_date"`
	BookingChannel   string       `json:"booking_channel"`
	AgencyCode       string       `json:"agency_code,omitempty"`
	Status           string       `json:"status"`
	ContactFirstName string       `json:"contact_first_name"`
	ContactLastName  string       `json:"contact_last_name"`
	ContactEmail     string       `json:"contact_email,omitempty"`
	ContactPhone     string       `json:"contact_phone,omitempty"`
	Passengers       []*Passenger `json:"passengers"`
	Flights          []*Flight    `json:"flights"`
	Payments         []*Payment   `json:"payments,omitempty"`
}
