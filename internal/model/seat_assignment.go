package model

// SeatAssignment links a passenger to a seat on one flight.  The Flight
// pointer carries the association for graphs that have not been persisted
// yet; FlightID is authoritative once the flight has a database identity.
type SeatAssignment struct {
	ID          int64   `json:"id"`
	PassengerID int64   `json:"passenger_id"`
	FlightID    int64   `json:"flight_id"`
	Flight      *Flight `json:"-"`
	SeatNumber  string  `json:"seat_number"`
	// SeatCharacteristics describes the seat position (Window, Aisle, Middle).
	SeatCharacteristics string `json:"seat_characteristics,omitempty"`
}

// OnFlight reports whether the assignment belongs to the given flight.
// Persisted flights match by ID, unpersisted ones by reference.
func (s *SeatAssignment) OnFlight(f *Flight) bool {
	if f == nil {
		return false
	}
	if f.ID != 0 {
		return s.FlightID == f.ID
	}
	return s.Flight == f
}
