// Package queue defines message payloads exchanged over the message broker
// and the background consumer that records them.
package queue

// EdifactGeneratedEvent is published every time a PNRGOV message is
// produced, whether for a single reservation, a manifest or a bulk batch.
// It carries enough information for downstream consumers to log or audit
// generation activity without querying the primary database.
type EdifactGeneratedEvent struct {
	EventID       string `json:"event_id"`
	Mode          string `json:"mode"` // single | manifest | bulk
	RecordLocator string `json:"record_locator,omitempty"`
	ReservationID int64  `json:"reservation_id,omitempty"`
	Receiver      string `json:"receiver"`
	SegmentCount  int    `json:"segment_count"`
	MessageBytes  int    `json:"message_bytes"`
	GeneratedAt   string `json:"generated_at"`
}
