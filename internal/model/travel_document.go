package model

import "time"

// TravelDocument is a passport or other identity document owned by exactly
// one passenger.
type TravelDocument struct {
	ID             int64     `json:"id"`
	PassengerID    int64     `json:"passenger_id"`
	DocumentType   string    `json:"document_type"`
	DocumentNumber string    `json:"document_number"`
	IssuingCountry string    `json:"issuing_country"`
	ExpiryDate     time.Time `json:"expiry_date"`
	IssueDate      time.Time `json:"issue_date"`
	Nationality    string    `json:"nationality"`
}
