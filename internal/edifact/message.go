package edifact

import (
	"math/rand"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/CkHanchey/pnrgov/internal/model"
)

// Encoder renders single-reservation PNRGOV interchanges.  The randomness
// source feeds reference and synthetic ticket numbers; it is guarded by a
// mutex so one Encoder may be shared across concurrent requests.  The clock
// is injectable so tests can pin reference numbers.
type Encoder struct {
	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

// NewEncoder returns an Encoder drawing from rng and the system clock.
func NewEncoder(rng *rand.Rand) *Encoder {
	return NewEncoderWithClock(rng, time.Now)
}

// NewEncoderWithClock returns an Encoder with an explicit clock.  Encoding
// the same reservation with the same seed and clock yields byte-identical
// output.
func NewEncoderWithClock(rng *rand.Rand, now func() time.Time) *Encoder {
	return &Encoder{rng: rng, now: now}
}

func (e *Encoder) intn(n int) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rng.Intn(n)
}

func (e *Encoder) int63n(n int64) int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rng.Int63n(n)
}

// ticketNumber synthesizes a 13-digit ticket number with the flight index
// encoded in the coupon suffix.
func (e *Encoder) ticketNumber(flightIndex int) string {
	return "139" + strconv.Itoa(1000000+e.intn(9000000)) + "000C" + strconv.Itoa(flightIndex)
}

// messageWriter accumulates terminated segments, one per line, and keeps
// the running count needed for UNT.  The UNA service advice is written
// outside the count.
type messageWriter struct {
	b     strings.Builder
	count int
}

func (w *messageWriter) writeServiceAdvice() {
	w.b.WriteString(serviceStringAdvice)
	w.b.WriteByte('\n')
}

func (w *messageWriter) writeSegment(seg string) {
	w.b.WriteString(seg)
	w.b.WriteByte('\n')
	w.count++
}

func (w *messageWriter) String() string { return w.b.String() }

// blockOptions captures the differences between the single-reservation and
// manifest renderings of a PNR block.
type blockOptions struct {
	// contactKeywords inserts the PHONE/EMAIL keywords into IFT free text,
	// as the manifest rendering does.
	contactKeywords bool
	// emitTRA enables the operating-carrier detail segment for codeshare
	// itinerary flights.  Manifest blocks never carry TRA.
	emitTRA bool
	// fallbackAirline anchors RCI and contact text when the reservation
	// has no flights.
	fallbackAirline string
}

// Encode renders one reservation as a complete PNRGOV interchange.  The
// receiver defaults to USCBP.  The reported flight is the one with the
// lowest segment number; a reservation without flights produces the
// zero-filled header placeholder and no header TVL.
func (e *Encoder) Encode(res *model.Reservation, receiver string) (string, error) {
	if err := validate(res); err != nil {
		return "", err
	}
	now := e.now()
	messageRef := now.Format(layoutReference)
	interchangeRef := messageRef + strconv.Itoa(100+e.intn(900))

	reporting := reportingFlight(res.Flights)
	sender := "XX"
	if reporting != nil {
		sender = reporting.AirlineCode
	}
	if receiver == "" {
		receiver = "USCBP"
	}

	w := &messageWriter{}
	w.writeServiceAdvice()
	w.writeSegment(segUNB(sender, receiver, interchangeRef, now))
	w.writeSegment(segUNG(sender, receiver, interchangeRef, now))

	// UNH keys on the first flight in insertion order, not the reported one.
	flightInfo := "XXXX/000000/0000"
	if len(res.Flights) > 0 {
		f := res.Flights[0]
		flightInfo = f.AirlineCode + f.FlightNumber + "/" + fmtDate(f.DepartureDate) + "/" + fmtTime(f.DepartureDate)
	}
	w.writeSegment(segUNH(messageRef, flightInfo))
	w.writeSegment(segMSG())

	airline := "XX"
	if len(res.Flights) > 0 {
		airline = res.Flights[0].AirlineCode
	}
	w.writeSegment(segORG(airline))

	// The header-level TVL always carries the operating identity of the
	// reported flight, never the marketing pair.
	if reporting != nil {
		op := reporting.AirlineCode
		if reporting.OperatingCarrier != "" {
			op = reporting.OperatingCarrier
		}
		w.writeSegment(segTVL(reporting.DepartureDate, reporting.ArrivalDate,
			reporting.DepartureAirport, reporting.ArrivalAirport,
			op, reporting.OperatingNumber(), serviceClassOrDefault(reporting)))
	}

	w.writeSegment(segEQN(len(res.Passengers)))

	e.writePNRBlock(w, res, blockOptions{emitTRA: true, fallbackAirline: "XX"})

	w.writeSegment(segUNT(w.count+1, messageRef))
	w.writeSegment(segUNE(interchangeRef))
	w.writeSegment(segUNZ(interchangeRef))
	return w.String(), nil
}

// writePNRBlock emits the full SRC..RCI segment sequence for one
// reservation.  Both encoding modes share it; opts selects the variant
// details.
func (e *Encoder) writePNRBlock(w *messageWriter, res *model.Reservation, opts blockOptions) {
	airline := opts.fallbackAirline
	if len(res.Flights) > 0 {
		airline = res.Flights[0].AirlineCode
	}

	w.writeSegment(segSRC())
	w.writeSegment(segRCI(airline, res.RecordLocator, res.CreatedDate))
	w.writeSegment(segDAT(res.CreatedDate))

	if res.ContactPhone != "" {
		text := airline + " " + strings.ToUpper(res.ContactPhone)
		if opts.contactKeywords {
			text = airline + " PHONE " + strings.ToUpper(res.ContactPhone)
		}
		w.writeSegment(segIFT(text))
	}
	if res.ContactEmail != "" {
		text := airline + " " + strings.ToUpper(res.ContactEmail)
		if opts.contactKeywords {
			text = airline + " EMAIL " + strings.ToUpper(res.ContactEmail)
		}
		w.writeSegment(segIFT(text))
	}

	agency := res.AgencyCode
	if agency == "" {
		agency = "TTY"
	}
	w.writeSegment(segBookingORG(agency))

	flights := sortedBySegment(res.Flights)

	for i, p := range res.Passengers {
		paxIndex := i + 1
		w.writeSegment(segTIF(strings.ToUpper(p.LastName),
			strings.ToUpper(p.FirstName)+" "+p.Title,
			passengerTypeCode(p.PassengerType), paxIndex))

		for _, d := range p.Documents {
			w.writeSegment(segSSRDocs(d.IssuingCountry, d.Nationality, d.DocumentNumber,
				fmtDateAbbr(p.DateOfBirth), p.Gender, fmtDateAbbr(d.ExpiryDate),
				strings.ToUpper(p.LastName), strings.ToUpper(p.FirstName), paxIndex))
		}

		for j, f := range flights {
			w.writeSegment(segSSRTkne(f.AirlineCode, f.DepartureAirport, f.ArrivalAirport,
				e.ticketNumber(j+1), paxIndex))
		}
	}

	for _, f := range flights {
		carrier := f.AirlineCode
		if f.Codeshare() {
			carrier = f.AirlineCode + compSep + f.OperatingCarrier
		}
		w.writeSegment(segTVL(f.DepartureDate, f.ArrivalDate,
			f.DepartureAirport, f.ArrivalAirport,
			carrier, f.FlightNumber, serviceClassOrDefault(f)))

		if opts.emitTRA && f.Codeshare() {
			w.writeSegment(segTRA(f.OperatingCarrier, f.OperatingNumber()))
		}

		status := f.FlightStatus
		if status == "" {
			status = "HK"
		}
		w.writeSegment(segRPI(len(res.Passengers), status))

		aircraft := f.AircraftType
		if aircraft == "" {
			aircraft = "320"
		}
		w.writeSegment(segAPD(aircraft))

		// Seats for this flight, in traveler-index order.  Iterating the
		// passenger list directly yields that order without a sort.
		var seatList strings.Builder
		for i, p := range res.Passengers {
			for _, s := range p.Seats {
				if !s.OnFlight(f) {
					continue
				}
				seatList.WriteString(elemSep)
				seatList.WriteString(s.SeatNumber)
				seatList.WriteString(compSep)
				seatList.WriteString(compSep)
				seatList.WriteString(strconv.Itoa(i + 1))
			}
		}
		if seatList.Len() > 0 {
			w.writeSegment(segSSRSeat(f.AirlineCode, f.DepartureAirport, f.ArrivalAirport,
				len(res.Passengers), seatList.String()))
		}

		for range res.Passengers {
			w.writeSegment(segSSRTkneSimple(f.AirlineCode, f.DepartureAirport, f.ArrivalAirport,
				e.ticketNumber(1)))
		}

		// The PNR reference is re-anchored after every flight block, as the
		// PNRGOV push structure repeats GR.1 per reported segment.
		w.writeSegment(segRCI(airline, res.RecordLocator, res.CreatedDate))
	}
}

// reportingFlight returns the flight with the lowest segment number, ties
// broken by insertion order, or nil when the itinerary is empty.
func reportingFlight(flights []*model.Flight) *model.Flight {
	var best *model.Flight
	for _, f := range flights {
		if best == nil || f.SegmentNumber < best.SegmentNumber {
			best = f
		}
	}
	return best
}

// sortedBySegment returns the flights ordered by ascending segment number
// without mutating the input slice.
func sortedBySegment(flights []*model.Flight) []*model.Flight {
	out := make([]*model.Flight, len(flights))
	copy(out, flights)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SegmentNumber < out[j].SegmentNumber
	})
	return out
}

func serviceClassOrDefault(f *model.Flight) string {
	if f.ServiceClass == "" {
		return "Y"
	}
	return f.ServiceClass
}

// passengerTypeCode normalizes adult passengers to the single-letter code.
func passengerTypeCode(t string) string {
	switch t {
	case "ADT", "":
		return "A"
	default:
		return t
	}
}
