package edifact

import (
	"fmt"
	"strconv"
	"time"

	"github.com/CkHanchey/pnrgov/internal/model"
	"github.com/CkHanchey/pnrgov/internal/sample"
)

// Candidate pools for manifests requested without an explicit flight.
var (
	manifestAirlines = []string{"AA", "UA", "DL", "SW", "B6", "JB", "AS", "F9", "NK", "G4"}
	manifestPorts    = []string{"JFK", "LAX", "ORD", "DEN", "BOS", "SFO", "ATL", "MIA", "LHR", "CDG"}
)

// ReservationSource produces reservation graphs for manifest batches.
// *sample.Generator satisfies it.
type ReservationSource interface {
	Generate(opts sample.Options) *model.Reservation
}

// ManifestRequest describes a flight-manifest batch.  Airline and
// FlightNumber are optional; when empty they are drawn from the candidate
// pools.  Receiver defaults to USCBP.
type ManifestRequest struct {
	PNRCount     int
	Airline      string
	FlightNumber string
	Receiver     string
}

// ManifestEncoder packs many reservations sharing one reported flight into
// a single PNRGOV interchange.
type ManifestEncoder struct {
	enc *Encoder
	src ReservationSource
}

// NewManifestEncoder returns a ManifestEncoder that renders segments with
// enc and obtains reservations from src.
func NewManifestEncoder(enc *Encoder, src ReservationSource) *ManifestEncoder {
	return &ManifestEncoder{enc: enc, src: src}
}

// Encode builds the manifest interchange: one envelope, one reported
// flight shared by every PNR, and the PNR blocks concatenated in
// generation order.  Each generated reservation is reduced to a single
// flight which is then replaced by the shared reported flight; seat
// assignments that referenced the discarded flight are repointed before
// anything is emitted.
func (m *ManifestEncoder) Encode(req ManifestRequest) (string, error) {
	e := m.enc
	now := e.now()

	messageRef := fmt.Sprintf("%06d", e.intn(999999)+1)
	interchangeRef := strconv.FormatInt(1_000_000_000_000+e.int63n(9_000_000_000_000), 10)

	airline := req.Airline
	if airline == "" {
		airline = manifestAirlines[e.intn(len(manifestAirlines))]
	}
	receiver := req.Receiver
	if receiver == "" {
		receiver = "USCBP"
	}
	flightNumber := req.FlightNumber
	if flightNumber == "" {
		flightNumber = fmt.Sprintf("%04d", e.intn(9900)+100)
	}

	departureDay := now.AddDate(0, 0, e.intn(30)+1)
	depHour, depMin := e.intn(24), e.intn(60)
	arrHour, arrMin := e.intn(24), e.intn(60)
	depTime := fmt.Sprintf("%02d%02d", depHour, depMin)
	arrTime := fmt.Sprintf("%02d%02d", arrHour, arrMin)

	origin := manifestPorts[e.intn(len(manifestPorts))]
	destination := origin
	for destination == origin {
		destination = manifestPorts[e.intn(len(manifestPorts))]
	}

	dep := dayAt(departureDay, depHour, depMin)
	arr := dayAt(departureDay, arrHour, arrMin)
	if !arr.After(dep) {
		arr = arr.AddDate(0, 0, 1)
	}

	reported := &model.Flight{
		FlightNumber:     flightNumber,
		AirlineCode:      airline,
		DepartureAirport: origin,
		ArrivalAirport:   destination,
		DepartureDate:    dep,
		ArrivalDate:      arr,
		ServiceClass:     "Y",
		SegmentNumber:    1,
		FlightStatus:     "HK",
		AircraftType:     "320",
	}

	reservations := make([]*model.Reservation, 0, req.PNRCount)
	totalPassengers := 0
	for i := 0; i < req.PNRCount; i++ {
		includePayment := e.intn(2) == 0
		opts := sample.Options{
			PassengerCount: e.intn(4) + 1,
			FlightCount:    1, // replaced by the reported flight below
			Bags:           e.intn(2) == 0,
			Seats:          e.intn(2) == 0,
			Documents:      e.intn(2) == 0,
			Payment:        includePayment,
			Codeshare:      e.intn(3) == 0,
			ThruFlight:     e.intn(3) == 0,
			PhoneNumbers:   e.intn(2) == 0,
			AgencyInfo:     e.intn(2) == 0,
			CreditCard:     includePayment && e.intn(2) == 0,
		}
		res := m.src.Generate(opts)
		substituteFlight(res, reported)
		if err := validate(res); err != nil {
			return "", err
		}
		reservations = append(reservations, res)
		totalPassengers += len(res.Passengers)
	}

	w := &messageWriter{}
	w.writeServiceAdvice()
	w.writeSegment(segUNB(airline, receiver, interchangeRef, now))
	w.writeSegment(segUNG(airline, receiver, interchangeRef, now))

	flightInfo := airline + padFlightNumber(flightNumber) + departureDay.Format(layoutDepDate) +
		origin + destination + "001"
	w.writeSegment(segUNH(messageRef, flightInfo))
	w.writeSegment(segMSG())
	w.writeSegment(segORG(airline))
	w.writeSegment(segManifestTVL(departureDay, depTime, arrTime, origin, destination, airline, flightNumber))
	w.writeSegment(segEQN(totalPassengers))

	for _, res := range reservations {
		m.enc.writePNRBlock(w, res, blockOptions{contactKeywords: true, fallbackAirline: airline})
	}

	w.writeSegment(segUNT(w.count+1, messageRef))
	w.writeSegment(segUNE(interchangeRef))
	w.writeSegment(segUNZ(interchangeRef))
	return w.String(), nil
}

// substituteFlight replaces the reservation's itinerary with the shared
// reported flight and repoints every seat assignment that referenced the
// discarded flight.  The discarded flight's identity is captured before
// the swap so no backward rewriting is needed.
func substituteFlight(res *model.Reservation, reported *model.Flight) {
	var old *model.Flight
	if len(res.Flights) > 0 {
		old = res.Flights[0]
	}
	res.Flights = []*model.Flight{reported}
	if old == nil {
		return
	}
	for _, p := range res.Passengers {
		for _, s := range p.Seats {
			if s.Flight == old || (old.ID != 0 && s.FlightID == old.ID) {
				s.Flight = reported
				s.FlightID = reported.ID
			}
		}
	}
}

// dayAt pins a wall-clock time onto the given day.
func dayAt(day time.Time, hour, min int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, min, 0, 0, day.Location())
}

func padFlightNumber(fn string) string {
	for len(fn) < 4 {
		fn = "0" + fn
	}
	return fn
}
