// Package sample produces randomized but structurally valid reservation
// graphs for testing PNRGOV generation.  The encoder does not care where a
// reservation came from; this package is the default source for the sample
// and manifest endpoints.
package sample

import (
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/CkHanchey/pnrgov/internal/model"
)

var firstNames = []string{
	"JOHN", "JANE", "MICHAEL", "SARAH", "DAVID", "EMILY", "ROBERT", "LISA",
	"WILLIAM", "JENNIFER", "JAMES", "MARIA", "THOMAS", "ANNA", "DANIEL", "EMMA",
	"KRISTJAN", "GUDRUN", "SIGURDUR", "HELGA", "OLAFUR", "BJORK", "MAGNUS", "HANNA",
	"SVEN", "INGRID", "LARS", "ASTRID", "ANDERS", "SOFIA", "HENRIK", "ELSA",
}

var lastNames = []string{
	"SMITH", "JOHNSON", "WILLIAMS", "BROWN", "JONES", "GARCIA", "MILLER", "DAVIS",
	"RODRIGUEZ", "MARTINEZ", "HERNANDEZ", "LOPEZ", "GONZALEZ", "WILSON", "ANDERSON", "TAYLOR",
	"JONSSON", "KARLSSON", "NIELSEN", "HANSEN", "OLSEN", "PETERSEN", "LARSEN", "ERIKSSON",
	"MAGNUSSON", "STEFANSSON", "GUNNARSSON", "JOHANNSSON", "SIGURDSSON", "BJORNSSON",
}

var titles = []string{"MR", "MRS", "MS", "MISS", "DR"}

var airlines = []string{
	"FI", "W6", "SK", "OG", "W4", "BA", "LH", "AF", "KL", "DL",
	"AA", "UA", "EK", "QF", "SQ", "AY", "IB", "LX", "OS", "SN",
}

var airports = []string{
	"KEF", "CPH", "ARN", "OSL", "HEL", "RIX", "TLL", "VNO", "WAW", "PRG", "BUD",
	"LHR", "LGW", "STN", "MAN", "EDI", "GLA", "DUB", "CRK", "SNN",
	"CDG", "ORY", "LYS", "NCE", "MPL",
	"AMS", "RTM", "EIN", "BRU", "BLL", "ZRH", "VIE", "LIS", "OPO",
	"FRA", "DHM", "MUC", "BER", "COL", "DUS", "HAM", "GBF", "BRE",
	"MAD", "SVQ", "AGP", "VLC", "IBZ", "PMI", "ALC", "BCN",
	"MXP", "MIL", "VCE", "BOL", "FCO", "CIA", "NAP", "PMO", "TRN",
	"ATH", "IST", "BEG",
	"JFK", "LGA", "EWR", "BOS", "PHL", "WAS", "IAD", "BNA", "ATL", "TPA", "MIA", "FLL", "MCO",
	"ORD", "MDW", "DTW", "CLE", "IND", "MSY", "MEM", "AUS", "SAT", "HOU", "IAH", "DFW", "DAL",
	"DEN", "PHX", "LAS", "SLC", "SFO", "SJC", "OAK", "LAX", "LGB", "ONT", "PDX",
	"YYZ", "YUL", "YVR", "YEG", "YWG", "YYJ",
	"MEX", "CUN", "PVR", "CZM", "XEL",
	"GIG", "SDU", "GRU", "VCP", "EZE", "AEP", "SCL", "MVD", "LIM", "BOG", "MDE", "CTG", "CCS",
}

var countries = []string{
	"IS", "US", "GB", "DE", "FR", "ES", "IT", "CA", "SE", "NO",
	"DK", "FI", "NL", "BE", "CH", "AT", "PL", "LT", "LV", "EE",
	"BR", "AR", "CL", "PE", "CO", "VE", "UY", "PY", "BO", "EC", "MX",
}

var cities = []string{
	"REYKJAVIK", "COPENHAGEN", "LONDON", "PARIS", "FRANKFURT", "AMSTERDAM",
	"BRUSSELS", "ZURICH", "STOCKHOLM", "OSLO", "VILNIUS", "ROME", "MADRID",
	"NEW YORK", "LOS ANGELES", "CHICAGO", "BOSTON", "TORONTO", "MONTREAL",
}

var cardTypes = []string{"VI", "CA", "AX", "DC", "MC"}

var emailDomains = []string{
	"gmail.com", "hotmail.com", "yahoo.com", "outlook.com", "icloud.com",
	"example.com", "mail.com", "protonmail.com",
}

var phoneCountryCodes = []string{
	"354", "45", "46", "47", "44", "33", "49", "31", "32",
	"41", "1", "370", "372", "371", "358",
}

var streetNames = []string{
	"MAIN STREET", "HIGH STREET", "CHURCH ROAD", "STATION ROAD", "PARK AVENUE",
	"MARKET STREET", "SAEBRAUT", "LAUGAVEGUR", "SKOLAVORDUSTIGUR",
}

// Record locators avoid glyphs that read ambiguously in print (I, O, 0, 1).
const locatorAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// Options controls what a generated reservation contains.  The JSON tags
// let API responses echo back the options a reservation was built with.
type Options struct {
	PassengerCount int  `json:"passenger_count"`
	FlightCount    int  `json:"flight_count"`
	Bags           bool `json:"bags"`
	Seats          bool `json:"seats"`
	Documents      bool `json:"documents"`
	Payment        bool `json:"payment"`
	Codeshare      bool `json:"codeshare"`
	ThruFlight     bool `json:"thru_flight"`
	PhoneNumbers   bool `json:"phone_numbers"`
	AgencyInfo     bool `json:"agency_info"`
	CreditCard     bool `json:"credit_card"`
}

// DefaultOptions mirrors the parameterless sample endpoint: two passengers,
// two flights, everything included except codeshare and thru-flight legs.
func DefaultOptions() Options {
	return Options{
		PassengerCount: 2,
		FlightCount:    2,
		Bags:           true,
		Seats:          true,
		Documents:      true,
		Payment:        true,
		PhoneNumbers:   true,
		AgencyInfo:     true,
		CreditCard:     true,
	}
}

// Generator builds random reservation graphs.  The randomness source is
// guarded by a mutex so one Generator may serve concurrent requests; pass a
// seeded source for reproducible output.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

// NewGenerator returns a Generator drawing from rng and the system clock.
func NewGenerator(rng *rand.Rand) *Generator {
	return NewGeneratorWithClock(rng, time.Now)
}

// NewGeneratorWithClock returns a Generator with an explicit clock.
func NewGeneratorWithClock(rng *rand.Rand, now func() time.Time) *Generator {
	return &Generator{rng: rng, now: now}
}

func (g *Generator) intn(n int) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rng.Intn(n)
}

func (g *Generator) pick(pool []string) string {
	return pool[g.intn(len(pool))]
}

// RandomOptions draws a fresh option set with the counts uniform within the
// given inclusive ranges.  Most extras are a coin flip; codeshare and thru
// legs are rarer, and card data only ever accompanies a payment.
func (g *Generator) RandomOptions(minPassengers, maxPassengers, minFlights, maxFlights int) Options {
	includePayment := g.intn(2) == 0
	return Options{
		PassengerCount: minPassengers + g.intn(maxPassengers-minPassengers+1),
		FlightCount:    minFlights + g.intn(maxFlights-minFlights+1),
		Bags:           g.intn(2) == 0,
		Seats:          g.intn(2) == 0,
		Documents:      g.intn(2) == 0,
		Payment:        includePayment,
		Codeshare:      g.intn(3) == 0,
		ThruFlight:     g.intn(3) == 0,
		PhoneNumbers:   g.intn(2) == 0,
		AgencyInfo:     g.intn(2) == 0,
		CreditCard:     includePayment && g.intn(2) == 0,
	}
}

// Generate builds one reservation according to opts.  The graph is fully
// populated and internally consistent: flights chain airports, arrivals
// follow departures, and every seat and bag references a flight on the
// itinerary.
func (g *Generator) Generate(opts Options) *model.Reservation {
	now := g.now()
	contactFirst := g.pick(firstNames)
	contactLast := g.pick(lastNames)

	agency := ""
	if opts.AgencyInfo {
		agency = g.agencyCode()
	}
	phone := ""
	if opts.PhoneNumbers {
		phone = g.phoneNumber()
	}

	res := &model.Reservation{
		RecordLocator:    g.RecordLocator(),
		BookingDate:      now.AddDate(0, 0, -(g.intn(30) + 1)),
		CreatedDate:      now.AddDate(0, 0, -(g.intn(30) + 1)),
		BookingChannel:   "WEB",
		AgencyCode:       agency,
		Status:           "HK",
		ContactFirstName: contactFirst,
		ContactLastName:  contactLast,
		ContactEmail:     emailFor(contactFirst, contactLast, g.pick(emailDomains)),
		ContactPhone:     phone,
	}

	flightCount := opts.FlightCount
	segmentNumber := 1

	if opts.ThruFlight && flightCount > 0 {
		g.addThruFlight(res, now, &segmentNumber)
		flightCount -= 2
		if flightCount < 0 {
			flightCount = 0
		}
	}

	if opts.Codeshare && flightCount > 0 {
		res.Flights = append(res.Flights, g.codeshareFlight(now, segmentNumber))
		segmentNumber++
		flightCount--
	}

	// Remaining legs chain on from wherever the itinerary currently ends.
	currentAirport := g.pick(airports)
	if n := len(res.Flights); n > 0 {
		currentAirport = res.Flights[n-1].ArrivalAirport
	}
	for i := 0; i < flightCount; i++ {
		f := g.connectedFlight(now, segmentNumber, currentAirport)
		res.Flights = append(res.Flights, f)
		currentAirport = f.ArrivalAirport
		segmentNumber++
	}

	for i := 0; i < opts.PassengerCount; i++ {
		p := g.passenger(now, opts.PhoneNumbers)
		if opts.Documents {
			p.Documents = append(p.Documents, g.document(now))
		}
		if opts.Bags {
			for _, f := range res.Flights {
				p.Bags = append(p.Bags, g.baggage(f))
			}
		}
		if opts.Seats {
			for _, f := range res.Flights {
				p.Seats = append(p.Seats, g.seat(f))
			}
		}
		res.Passengers = append(res.Passengers, p)
	}

	if opts.Payment && opts.CreditCard {
		res.Payments = append(res.Payments, g.payment(now))
	}

	return res
}

// addThruFlight appends two legs sold under one flight number.
func (g *Generator) addThruFlight(res *model.Reservation, now time.Time, segmentNumber *int) {
	flightNumber := strconv.Itoa(g.intn(9900) + 100)
	airline := g.pick(airlines)
	departure := now.AddDate(0, 0, g.intn(60)+1)

	first := g.pick(airports)
	middle := g.pick(airports)
	for middle == first {
		middle = g.pick(airports)
	}
	last := g.pick(airports)
	for last == middle || last == first {
		last = g.pick(airports)
	}

	res.Flights = append(res.Flights, &model.Flight{
		FlightNumber:     flightNumber,
		AirlineCode:      airline,
		DepartureAirport: first,
		ArrivalAirport:   middle,
		DepartureDate:    departure,
		ArrivalDate:      departure.Add(time.Duration(g.intn(4)+2) * time.Hour),
		AircraftType:     g.aircraftType(),
		ServiceClass:     "Y",
		OperatingCarrier: airline,
		FlightStatus:     "HK",
		SegmentNumber:    *segmentNumber,
	})
	*segmentNumber++

	secondDeparture := departure.Add(time.Duration(g.intn(4)+3) * time.Hour)
	res.Flights = append(res.Flights, &model.Flight{
		FlightNumber:     flightNumber,
		AirlineCode:      airline,
		DepartureAirport: middle,
		ArrivalAirport:   last,
		DepartureDate:    secondDeparture,
		ArrivalDate:      secondDeparture.Add(time.Duration(g.intn(4)+2) * time.Hour),
		AircraftType:     g.aircraftType(),
		ServiceClass:     "Y",
		OperatingCarrier: airline,
		FlightStatus:     "HK",
		SegmentNumber:    *segmentNumber,
	})
	*segmentNumber++
}

// codeshareFlight builds a leg marketed and operated by different carriers,
// each with its own flight number.
func (g *Generator) codeshareFlight(now time.Time, segmentNumber int) *model.Flight {
	marketing := g.pick(airlines)
	operating := g.pick(airlines)
	for operating == marketing {
		operating = g.pick(airlines)
	}
	departureAirport := g.pick(airports)
	arrivalAirport := g.pick(airports)
	for arrivalAirport == departureAirport {
		arrivalAirport = g.pick(airports)
	}
	departure := now.AddDate(0, 0, g.intn(60)+1)

	return &model.Flight{
		FlightNumber:          strconv.Itoa(g.intn(9900) + 100),
		AirlineCode:           marketing,
		OperatingFlightNumber: strconv.Itoa(g.intn(9900) + 100),
		DepartureAirport:      departureAirport,
		ArrivalAirport:        arrivalAirport,
		DepartureDate:         departure,
		ArrivalDate:           departure.Add(time.Duration(g.intn(13)+2) * time.Hour),
		AircraftType:          g.aircraftType(),
		ServiceClass:          g.serviceClass(),
		OperatingCarrier:      operating,
		FlightStatus:          "HK",
		SegmentNumber:         segmentNumber,
	}
}

// connectedFlight builds a leg departing from the previous arrival airport.
func (g *Generator) connectedFlight(now time.Time, segmentNumber int, departureAirport string) *model.Flight {
	airline := g.pick(airlines)
	arrivalAirport := g.pick(airports)
	for arrivalAirport == departureAirport {
		arrivalAirport = g.pick(airports)
	}
	departure := now.AddDate(0, 0, g.intn(60)+1)

	return &model.Flight{
		FlightNumber:     strconv.Itoa(g.intn(9900) + 100),
		AirlineCode:      airline,
		DepartureAirport: departureAirport,
		ArrivalAirport:   arrivalAirport,
		DepartureDate:    departure,
		ArrivalDate:      departure.Add(time.Duration(g.intn(13)+2) * time.Hour),
		AircraftType:     g.aircraftType(),
		ServiceClass:     g.serviceClass(),
		OperatingCarrier: airline,
		FlightStatus:     "HK",
		SegmentNumber:    segmentNumber,
	}
}

func (g *Generator) passenger(now time.Time, includePhone bool) *model.Passenger {
	gender := "M"
	if g.intn(2) == 0 {
		gender = "F"
	}
	first := g.pick(firstNames)
	last := g.pick(lastNames)
	country := g.pick(countries)

	title := "MR"
	if gender == "F" {
		title = titles[g.intn(len(titles)-1)+1] // skip MR
	}

	middle := ""
	if g.intn(2) == 1 {
		middle = string(g.pick(firstNames)[0])
	}
	phone := ""
	if includePhone {
		phone = g.phoneNumber()
	}
	address2 := ""
	if g.intn(3) != 0 {
		address2 = "APT " + strconv.Itoa(g.intn(199)+1)
	}

	return &model.Passenger{
		FirstName:     first,
		LastName:      last,
		MiddleName:    middle,
		Title:         title,
		DateOfBirth:   now.AddDate(-(g.intn(52) + 18), 0, 0),
		Gender:        gender,
		Nationality:   country,
		PassengerType: "ADT",
		Email:         emailFor(first, last, g.pick(emailDomains)),
		Phone:         phone,
		AddressLine1:  strconv.Itoa(g.intn(999)+1) + " " + g.pick(streetNames),
		AddressLine2:  address2,
		City:          g.pick(cities),
		State:         g.stateOrRegion(country),
		PostalCode:    g.postalCode(country),
		Country:       country,
	}
}

func (g *Generator) document(now time.Time) *model.TravelDocument {
	issuingCountry := g.pick(countries)
	return &model.TravelDocument{
		DocumentType:   "P",
		DocumentNumber: issuingCountry + strconv.Itoa(g.intn(900000000)+100000000),
		IssuingCountry: issuingCountry,
		ExpiryDate:     now.AddDate(g.intn(9)+1, 0, 0),
		IssueDate:      now.AddDate(-(g.intn(5) + 1), 0, 0),
		Nationality:    issuingCountry,
	}
}

func (g *Generator) baggage(f *model.Flight) *model.Baggage {
	return &model.Baggage{
		Flight:         f,
		FlightID:       f.ID,
		BagTagNumber:   strconv.Itoa(g.intn(900000) + 100000),
		Weight:         decimal.NewFromInt(int64(g.intn(17) + 15)),
		WeightUnit:     "KG",
		NumberOfPieces: g.intn(2) + 1,
		BaggageType:    "Checked",
		Status:         "Checked-in",
	}
}

func (g *Generator) seat(f *model.Flight) *model.SeatAssignment {
	row := g.intn(39) + 1
	letter := byte('A' + g.intn(6))

	characteristics := "Middle"
	switch letter {
	case 'A', 'F':
		characteristics = "Window"
	case 'C', 'D':
		characteristics = "Aisle"
	}

	return &model.SeatAssignment{
		Flight:              f,
		FlightID:            f.ID,
		SeatNumber:          strconv.Itoa(row) + string(letter),
		SeatCharacteristics: characteristics,
	}
}

func (g *Generator) payment(now time.Time) *model.Payment {
	return &model.Payment{
		PaymentType:    "CC",
		CardType:       g.pick(cardTypes),
		CardNumber:     "****" + strconv.Itoa(g.intn(9000)+1000),
		ExpiryDate:     now.AddDate(g.intn(4)+1, 0, 0),
		CardHolderName: g.pick(firstNames) + " " + g.pick(lastNames),
		Amount:         decimal.NewFromInt(int64(g.intn(4500) + 500)),
		Currency:       "USD",
		PaymentDate:    now.AddDate(0, 0, -(g.intn(30) + 1)),
	}
}

// RecordLocator returns a six character booking reference from the
// unambiguous alphabet.
func (g *Generator) RecordLocator() string {
	var b strings.Builder
	for i := 0; i < 6; i++ {
		b.WriteByte(locatorAlphabet[g.intn(len(locatorAlphabet))])
	}
	return b.String()
}

func (g *Generator) agencyCode() string {
	return strconv.Itoa(g.intn(90000000) + 10000000)
}

func (g *Generator) phoneNumber() string {
	return g.pick(phoneCountryCodes) + strconv.Itoa(g.intn(9000000)+1000000)
}

func (g *Generator) aircraftType() string {
	if g.intn(2) == 0 {
		return "738"
	}
	return "777"
}

func (g *Generator) serviceClass() string {
	switch g.intn(3) {
	case 1:
		return "C"
	case 2:
		return "F"
	default:
		return "Y"
	}
}

func (g *Generator) stateOrRegion(country string) string {
	if country == "US" {
		states := []string{"CA", "NY", "FL", "TX", "IL", "WA"}
		return states[g.intn(len(states))]
	}
	return ""
}

func (g *Generator) postalCode(country string) string {
	switch country {
	case "US":
		return strconv.Itoa(g.intn(90000) + 10000)
	case "GB":
		return string(rune('A'+g.intn(26))) + string(rune('A'+g.intn(26))) +
			strconv.Itoa(g.intn(9)+1) + " " + strconv.Itoa(g.intn(9)) +
			string(rune('A'+g.intn(26))) + string(rune('A'+g.intn(26)))
	case "IS", "DK", "NO", "SE":
		return strconv.Itoa(g.intn(9000) + 1000)
	case "DE", "FR", "IT", "ES":
		return strconv.Itoa(g.intn(90000) + 10000)
	case "NL":
		return strconv.Itoa(g.intn(9000)+1000) + " " +
			string(rune('A'+g.intn(26))) + string(rune('A'+g.intn(26)))
	default:
		return strconv.Itoa(g.intn(90000) + 10000)
	}
}

func emailFor(first, last, domain string) string {
	return strings.ToLower(first) + "." + strings.ToLower(last) + "@" + domain
}
