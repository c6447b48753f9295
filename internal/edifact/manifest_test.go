package edifact

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CkHanchey/pnrgov/internal/model"
	"github.com/CkHanchey/pnrgov/internal/sample"
)

// stubSource hands out fresh reservations with an increasing passenger
// count, each on its own throwaway flight so substitution is observable.
type stubSource struct {
	calls int
}

func (s *stubSource) Generate(sample.Options) *model.Reservation {
	s.calls++

	f := &model.Flight{
		FlightNumber:     "999",
		AirlineCode:      "ZZ",
		DepartureAirport: "AAA",
		ArrivalAirport:   "BBB",
		DepartureDate:    time.Date(2024, 9, 1, 8, 0, 0, 0, time.UTC),
		ArrivalDate:      time.Date(2024, 9, 1, 12, 0, 0, 0, time.UTC),
		ServiceClass:     "Y",
		FlightStatus:     "HK",
		SegmentNumber:    1,
	}

	var passengers []*model.Passenger
	for i := 0; i < s.calls; i++ {
		passengers = append(passengers, &model.Passenger{
			FirstName:     "PAX" + strconv.Itoa(i+1),
			LastName:      "BOOKING" + strconv.Itoa(s.calls),
			Title:         "MR",
			DateOfBirth:   time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC),
			Gender:        "M",
			Nationality:   "US",
			PassengerType: "ADT",
			Seats: []*model.SeatAssignment{{
				Flight:     f,
				SeatNumber: strconv.Itoa(i+10) + "C",
			}},
		})
	}

	return &model.Reservation{
		RecordLocator:    fmt.Sprintf("MAN%03d", s.calls),
		CreatedDate:      time.Date(2024, 7, 1, 9, 15, 0, 0, time.UTC),
		BookingDate:      time.Date(2024, 7, 1, 9, 15, 0, 0, time.UTC),
		ContactFirstName: "PAX1",
		ContactLastName:  "BOOKING" + strconv.Itoa(s.calls),
		ContactPhone:     "5551234567",
		ContactEmail:     "pax@example.com",
		Passengers:       passengers,
		Flights:          []*model.Flight{f},
	}
}

func newTestManifest() (*ManifestEncoder, *stubSource) {
	src := &stubSource{}
	return NewManifestEncoder(newTestEncoder(), src), src
}

func TestManifestEnvelope(t *testing.T) {
	man, _ := newTestManifest()
	msg, err := man.Encode(ManifestRequest{PNRCount: 3, Airline: "AA", FlightNumber: "100"})
	require.NoError(t, err)

	lines := messageLines(t, msg)
	assert.Equal(t, "UNA:+.?*'", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "UNB+IATA:1+AA+USCBP+150724:1030+"), lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "UNG+PNRGOV+AA+USCBP+150724:1030+"), lines[2])
	assert.Equal(t, "MSG+:22'", lines[4])
	assert.Equal(t, "ORG+AA'", lines[5])

	// UNH keys on airline, zero-padded flight number, departure day and city
	// pair. The stub hands out 1, 2 and 3 passengers, so EQN totals 6.
	unh := regexp.MustCompile(`^UNH\+\d{6}\+PNRGOV:11:1:IA\+AA0100\d{6}[A-Z]{3}[A-Z]{3}001'$`)
	assert.Regexp(t, unh, lines[3])
	assert.Equal(t, "EQN+6'", lines[7])

	// Header TVL repeats the departure date in both date positions.
	tvl := regexp.MustCompile(`^TVL\+(\d{6}):\d{4}:(\d{6}):\d{4}\+[A-Z]{3}\+[A-Z]{3}\+AA\+100:Y'$`)
	m := tvl.FindStringSubmatch(lines[6])
	require.NotNil(t, m, lines[6])
	assert.Equal(t, m[1], m[2])
}

func TestManifestReferences(t *testing.T) {
	man, _ := newTestManifest()
	msg, err := man.Encode(ManifestRequest{PNRCount: 1})
	require.NoError(t, err)

	lines := messageLines(t, msg)
	last := lines[len(lines)-1]
	assert.Regexp(t, regexp.MustCompile(`^UNZ\+1\+\d{13}'$`), last, "13-digit interchange reference")

	var unt string
	for _, l := range lines {
		if strings.HasPrefix(l, "UNT+") {
			unt = l
		}
	}
	require.NotEmpty(t, unt)
	assert.Regexp(t, regexp.MustCompile(`^UNT\+\d+\+\d{6}'$`), unt, "6-digit message reference")
}

func TestManifestSharedFlightAcrossBlocks(t *testing.T) {
	const pnrs = 4
	man, _ := newTestManifest()
	msg, err := man.Encode(ManifestRequest{PNRCount: pnrs, Airline: "AA", FlightNumber: "100"})
	require.NoError(t, err)

	// Header TVL plus one itinerary TVL per PNR, all the reported flight.
	assert.Equal(t, pnrs+1, strings.Count(msg, "+AA+100:Y'"))
	assert.NotContains(t, msg, "+ZZ+", "generated flights must not leak through")
	assert.NotContains(t, msg, "999:Y'")
	assert.Equal(t, pnrs, strings.Count(msg, "SRC'"))
	for i := 1; i <= pnrs; i++ {
		// Each block anchors and re-anchors its locator.
		assert.Equal(t, 2, strings.Count(msg, fmt.Sprintf("RCI+AA:MAN%03d", i)))
	}
}

func TestManifestRepointsSeats(t *testing.T) {
	man, _ := newTestManifest()
	msg, err := man.Encode(ManifestRequest{PNRCount: 2, Airline: "AA", FlightNumber: "100"})
	require.NoError(t, err)

	lines := messageLines(t, msg)
	tvl := regexp.MustCompile(`^TVL\+\d{6}:\d{4}:\d{6}:\d{4}\+([A-Z]{3})\+([A-Z]{3})\+AA\+100:Y'$`)
	m := tvl.FindStringSubmatch(lines[6])
	require.NotNil(t, m)
	origin, destination := m[1], m[2]

	var seats int
	for _, l := range lines {
		if !strings.HasPrefix(l, "SSR+SEAT") {
			continue
		}
		seats++
		assert.Contains(t, l, ":AA:::"+origin+":"+destination+"+")
	}
	assert.Equal(t, 2, seats, "one seat segment per block")
}

func TestManifestContactKeywords(t *testing.T) {
	man, _ := newTestManifest()
	msg, err := man.Encode(ManifestRequest{PNRCount: 1, Airline: "AA"})
	require.NoError(t, err)

	assert.Contains(t, msg, "IFT+4:28+AA PHONE 5551234567'\n")
	assert.Contains(t, msg, "IFT+4:28+AA EMAIL PAX@EXAMPLE.COM'\n")
}

func TestManifestNeverEmitsTRA(t *testing.T) {
	man, _ := newTestManifest()
	msg, err := man.Encode(ManifestRequest{PNRCount: 5})
	require.NoError(t, err)
	assert.NotContains(t, msg, "TRA+")
}

func TestManifestSegmentCountInvariant(t *testing.T) {
	man, _ := newTestManifest()
	msg, err := man.Encode(ManifestRequest{PNRCount: 3})
	require.NoError(t, err)

	lines := messageLines(t, msg)
	untIdx := -1
	for i, l := range lines {
		if strings.HasPrefix(l, "UNT+") {
			untIdx = i
		}
	}
	require.NotEqual(t, -1, untIdx)

	count, err := strconv.Atoi(strings.Split(strings.TrimSuffix(lines[untIdx], "'"), "+")[1])
	require.NoError(t, err)
	assert.Equal(t, untIdx, count)
}

func TestManifestArrivalAfterDeparture(t *testing.T) {
	// Drive many draws through the time logic; the rendered TVL never needs
	// checking beyond parsing because dayAt plus the day rollover guarantee
	// ordering, but the header should always parse.
	man, _ := newTestManifest()
	for i := 0; i < 10; i++ {
		msg, err := man.Encode(ManifestRequest{PNRCount: 1})
		require.NoError(t, err)
		lines := messageLines(t, msg)
		assert.Regexp(t, regexp.MustCompile(`^TVL\+\d{6}:\d{4}:\d{6}:\d{4}\+`), lines[6])
	}
}
