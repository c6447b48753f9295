package model

import "time"

// Passenger is one traveller on a reservation.  It owns its travel
// documents, checked bags and seat assignments; bags and seats reference
// (but do not own) the flight they apply to.
type Passenger struct {
	ID            int64             `json:"id"`
	FirstName     string            `json:"first_name"`
	LastName      string            `json:"last_name"`
	MiddleName    string            `json:"middle_name,omitempty"`
	Title         string            `json:"title"`
	DateOfBirth   time.Time         `json:"date_of_birth"`
	Gender        string            `json:"gender"`
	Nationality   string            `json:"nationality"`
	PassengerType string            `json:"passenger_type"`
	Email         string            `json:"email,omitempty"`
	Phone         string            `json:"phone,omitempty"`
	AddressLine1  string            `json:"address_line1,omitempty"`
	AddressLine2  string            `json:"address_line2,omitempty"`
	City          string            `json:"city,omitempty"`
	State         string            `json:"state,omitempty"`
	PostalCode    string            `json:"postal_code,omitempty"`
	Country       string            `json:"country,omitempty"`
	Documents     []*TravelDocument `json:"documents"`
	Bags          []*Baggage        `json:"bags"`
	Seats         []*SeatAssignment `json:"seats"`
}
