package model

import "time"

// Flight is one segment of a reservation's itinerary.  SegmentNumber is the
// authoritative ordering key; the slice order on Reservation only reflects
// insertion order.  A flight is a codeshare when the operating carrier is
// set and differs from the marketing airline code.
type Flight struct {
	ID               int64     `json:"id"`
	FlightNumber     string    `json:"flight_number"`
	AirlineCode      string    `json:"airline_code"`
	DepartureAirport string    `json:"departure_airport"`
	ArrivalAirport   string    `json:"arrival_airport"`
	DepartureDate    time.Time `json:"departure_date"`
	ArrivalDate      time.Time `json:"arrival_date"`
	AircraftType     string    `json:"aircraft_type"`
	ServiceClass     string    `json:"service_class"`
	OperatingCarrier string    `json:"operating_carrier,omitempty"`
	// OperatingFlightNumber is the operating carrier's own flight number.
	// Empty means the marketing flight number applies.
	OperatingFlightNumber string `json:"operating_flight_number,omitempty"`
	FlightStatus          string `json:"flight_status"`
	SegmentNumber         int    `json:"segment_number"`
}

// Codeshare reports whether the flight is marketed by one airline but
// operated by another.
func (f *Flight) Codeshare() bool {
	return f.OperatingCarrier != "" && f.OperatingCarrier != f.AirlineCode
}

// OperatingNumber returns the operating carrier's flight number, falling
// back to the marketing flight number when none is stored.
func (f *Flight) OperatingNumber() string {
	if f.OperatingFlightNumber != "" {
		return f.OperatingFlightNumber
	}
	return f.FlightNumber
}
