package sample

import (
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededGenerator(seed int64) *Generator {
	return NewGeneratorWithClock(rand.New(rand.NewSource(seed)), func() time.Time {
		return time.Date(2024, 7, 15, 10, 30, 0, 0, time.UTC)
	})
}

func TestRecordLocatorShape(t *testing.T) {
	g := seededGenerator(1)
	for i := 0; i < 50; i++ {
		loc := g.RecordLocator()
		require.Len(t, loc, 6)
		for _, c := range loc {
			assert.Contains(t, locatorAlphabet, string(c), "locator %s", loc)
		}
	}
}

func TestGenerateDefaults(t *testing.T) {
	res := seededGenerator(2).Generate(DefaultOptions())

	assert.Len(t, res.Passengers, 2)
	assert.Len(t, res.Flights, 2)
	assert.NotEmpty(t, res.AgencyCode)
	assert.NotEmpty(t, res.ContactPhone)
	assert.Contains(t, res.ContactEmail, "@")
	assert.Equal(t, "HK", res.Status)
	assert.Len(t, res.Payments, 1)

	for _, p := range res.Passengers {
		assert.Len(t, p.Documents, 1)
		assert.Len(t, p.Bags, 2, "one bag per flight")
		assert.Len(t, p.Seats, 2, "one seat per flight")
		assert.Equal(t, "ADT", p.PassengerType)
	}
}

func TestGenerateFlightsChainAndOrder(t *testing.T) {
	g := seededGenerator(3)
	opts := DefaultOptions()
	opts.FlightCount = 4

	for run := 0; run < 20; run++ {
		res := g.Generate(opts)
		require.Len(t, res.Flights, 4)

		for i, f := range res.Flights {
			assert.Equal(t, i+1, f.SegmentNumber)
			assert.True(t, f.ArrivalDate.After(f.DepartureDate),
				"flight %d arrives before it departs", i)
			assert.NotEqual(t, f.DepartureAirport, f.ArrivalAirport)
			if i > 0 {
				assert.Equal(t, res.Flights[i-1].ArrivalAirport, f.DepartureAirport,
					"flight %d must depart where the previous leg arrived", i)
			}
		}
	}
}

func TestGenerateCodeshare(t *testing.T) {
	g := seededGenerator(4)
	opts := DefaultOptions()
	opts.Codeshare = true

	for run := 0; run < 20; run++ {
		res := g.Generate(opts)
		f := res.Flights[0]
		require.True(t, f.Codeshare())
		assert.NotEqual(t, f.AirlineCode, f.OperatingCarrier)
		assert.NotEmpty(t, f.OperatingFlightNumber)
		assert.Equal(t, f.OperatingFlightNumber, f.OperatingNumber())
	}
}

func TestGenerateThruFlight(t *testing.T) {
	g := seededGenerator(5)
	opts := DefaultOptions()
	opts.ThruFlight = true

	res := g.Generate(opts)
	require.Len(t, res.Flights, 2, "thru legs consume the flight budget")

	a, b := res.Flights[0], res.Flights[1]
	assert.Equal(t, a.FlightNumber, b.FlightNumber)
	assert.Equal(t, a.AirlineCode, b.AirlineCode)
	assert.Equal(t, a.ArrivalAirport, b.DepartureAirport)
	assert.True(t, b.DepartureDate.After(a.DepartureDate))
	assert.NotEqual(t, a.DepartureAirport, b.ArrivalAirport)
}

func TestGenerateTogglesOff(t *testing.T) {
	res := seededGenerator(6).Generate(Options{PassengerCount: 3, FlightCount: 1})

	assert.Len(t, res.Passengers, 3)
	assert.Len(t, res.Flights, 1)
	assert.Empty(t, res.AgencyCode)
	assert.Empty(t, res.ContactPhone)
	assert.Empty(t, res.Payments)

	for _, p := range res.Passengers {
		assert.Empty(t, p.Documents)
		assert.Empty(t, p.Bags)
		assert.Empty(t, p.Seats)
		assert.Empty(t, p.Phone)
	}
}

func TestGeneratePaymentRequiresCard(t *testing.T) {
	opts := DefaultOptions()
	opts.CreditCard = false

	res := seededGenerator(7).Generate(opts)
	assert.Empty(t, res.Payments, "payment without card data is not generated")
}

func TestGenerateSeatsAndBagsReferenceItinerary(t *testing.T) {
	res := seededGenerator(8).Generate(DefaultOptions())

	for _, p := range res.Passengers {
		for _, s := range p.Seats {
			require.NotNil(t, s.Flight)
			assert.Contains(t, res.Flights, s.Flight)
			assert.GreaterOrEqual(t, len(s.SeatNumber), 2)
		}
		for _, b := range p.Bags {
			require.NotNil(t, b.Flight)
			assert.Contains(t, res.Flights, b.Flight)
			assert.Equal(t, "KG", b.WeightUnit)
			assert.True(t, b.Weight.IntPart() >= 15 && b.Weight.IntPart() <= 31)
		}
	}
}

func TestGenerateFemaleTitles(t *testing.T) {
	g := seededGenerator(9)
	for run := 0; run < 40; run++ {
		res := g.Generate(Options{PassengerCount: 2, FlightCount: 1})
		for _, p := range res.Passengers {
			if p.Gender == "F" {
				assert.NotEqual(t, "MR", p.Title)
			} else {
				assert.Equal(t, "MR", p.Title)
			}
		}
	}
}

func TestGenerateDocumentFields(t *testing.T) {
	opts := DefaultOptions()
	res := seededGenerator(10).Generate(opts)

	for _, p := range res.Passengers {
		d := p.Documents[0]
		assert.Equal(t, "P", d.DocumentType)
		assert.True(t, strings.HasPrefix(d.DocumentNumber, d.IssuingCountry))
		assert.Len(t, d.DocumentNumber, len(d.IssuingCountry)+9)
		assert.Equal(t, d.IssuingCountry, d.Nationality)
		assert.True(t, d.ExpiryDate.After(d.IssueDate))
	}
}

func TestGenerateDeterministicWithSeed(t *testing.T) {
	a := seededGenerator(11).Generate(DefaultOptions())
	b := seededGenerator(11).Generate(DefaultOptions())

	assert.Equal(t, a.RecordLocator, b.RecordLocator)
	require.Equal(t, len(a.Flights), len(b.Flights))
	for i := range a.Flights {
		assert.Equal(t, a.Flights[i].FlightNumber, b.Flights[i].FlightNumber)
		assert.Equal(t, a.Flights[i].DepartureAirport, b.Flights[i].DepartureAirport)
	}
	require.Equal(t, len(a.Passengers), len(b.Passengers))
	for i := range a.Passengers {
		assert.Equal(t, a.Passengers[i].LastName, b.Passengers[i].LastName)
	}
}
