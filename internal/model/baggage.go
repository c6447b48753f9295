package model

import "github.com/shopspring/decimal"

// Baggage is a checked bag owned by one passenger and associated with one
// flight of the itinerary.
type Baggage struct {
	ID             int64           `json:"id"`
	PassengerID    int64           `json:"passenger_id"`
	FlightID       int64           `json:"flight_id"`
	Flight         *Flight         `json:"-"`
	BagTagNumber   string          `json:"bag_tag_number"`
	Weight         decimal.Decimal `json:"weight"`
	WeightUnit     string          `json:"weight_unit"`
	NumberOfPieces int             `json:"number_of_pieces"`
	BaggageType    string          `json:"baggage_type"`
	Status         string          `json:"status"`
}
