package edifact

import (
	"strconv"
	"time"
)

// Segment builders.  Each builder receives already-resolved scalar values
// and returns one terminated segment.  Composition rules follow the PNRGOV
// implementation guide; fixed literals (qualifiers, version numbers) are
// inlined where the guide fixes them.

// segUNB builds the interchange header.
func segUNB(sender, receiver, interchangeRef string, now time.Time) string {
	return "UNB" + elemSep + "IATA" + compSep + "1" +
		elemSep + sender +
		elemSep + receiver +
		elemSep + fmtDate(now) + compSep + fmtTime(now) +
		elemSep + interchangeRef +
		elemSep + "PNRGOV" + segTerminator
}

// segUNG builds the functional group header.  The application reference is
// always IA and the message version 11:1.
func segUNG(sender, receiver, groupRef string, now time.Time) string {
	return "UNG" + elemSep + "PNRGOV" +
		elemSep + sender +
		elemSep + receiver +
		elemSep + fmtDate(now) + compSep + fmtTime(now) +
		elemSep + groupRef +
		elemSep + "IA" +
		elemSep + "11" + compSep + "1" + segTerminator
}

// segUNH builds the message header.  flightInfo identifies the reported
// flight; callers supply the placeholder form when no flights exist.
func segUNH(messageRef, flightInfo string) string {
	return "UNH" + elemSep + messageRef +
		elemSep + "PNRGOV" + compSep + "11" + compSep + "1" + compSep + "IA" +
		elemSep + flightInfo + segTerminator
}

// segMSG carries the fixed PNR-data action code 22.
func segMSG() string {
	return "MSG" + elemSep + compSep + "22" + segTerminator
}

// segORG identifies the reporting airline.
func segORG(airlineCode string) string {
	return "ORG" + elemSep + airlineCode + segTerminator
}

// segBookingORG identifies the booking agent.
func segBookingORG(agencyCode string) string {
	return "ORG" + elemSep + "XX" + compSep + agencyCode + segTerminator
}

// segTVL builds a travel product segment.  carrier may be a single airline
// code or a marketing:operating composite for codeshare itinerary segments.
func segTVL(dep, arr time.Time, origin, destination, carrier, flightNumber, serviceClass string) string {
	return "TVL" + elemSep + fmtDate(dep) + compSep + fmtTime(dep) + compSep +
		fmtDate(arr) + compSep + fmtTime(arr) +
		elemSep + origin +
		elemSep + destination +
		elemSep + carrier +
		elemSep + flightNumber + compSep + serviceClass + segTerminator
}

// segManifestTVL builds the manifest header TVL.  The manifest key uses the
// departure date for both date components and the raw HHMM strings chosen
// for the reported flight.
func segManifestTVL(depDate time.Time, depTime, arrTime, origin, destination, airline, flightNumber string) string {
	d := fmtDate(depDate)
	return "TVL" + elemSep + d + compSep + depTime + compSep + d + compSep + arrTime +
		elemSep + origin +
		elemSep + destination +
		elemSep + airline +
		elemSep + flightNumber + compSep + "Y" + segTerminator
}

// segTRA carries the operating carrier detail for codeshare flights.
func segTRA(operatingCarrier, operatingFlightNumber string) string {
	return "TRA" + elemSep + operatingCarrier +
		elemSep + operatingFlightNumber + compSep + "D" + segTerminator
}

// segEQN reports the passenger total for the interchange.
func segEQN(passengerCount int) string {
	return "EQN" + elemSep + strconv.Itoa(passengerCount) + segTerminator
}

// segSRC opens a PNR section.  It carries no data elements.
func segSRC() string {
	return "SRC" + segTerminator
}

// segRCI anchors the PNR to its record locator and creation time.
func segRCI(airline, recordLocator string, created time.Time) string {
	return "RCI" + elemSep + airline + compSep + recordLocator +
		compSep + compSep + fmtDate(created) + compSep + fmtTime(created) + segTerminator
}

// segDAT carries the last PNR transaction date/time under qualifier 700.
func segDAT(transaction time.Time) string {
	return "DAT" + elemSep + "700" +
		compSep + fmtDate(transaction) +
		compSep + fmtTime(transaction) + segTerminator
}

// segIFT wraps contact free text under qualifier 4:28.
func segIFT(text string) string {
	return "IFT" + elemSep + "4" + compSep + "28" + elemSep + text + segTerminator
}

// segTIF builds the traveller information segment.  passengerIndex is the
// 1-based position in the reservation's passenger list and doubles as the
// traveler reference used by SSR segments.
func segTIF(lastName, firstNameAndTitle, passengerType string, passengerIndex int) string {
	return "TIF" + elemSep + lastName +
		elemSep + firstNameAndTitle +
		compSep + passengerType +
		compSep + strconv.Itoa(passengerIndex) + ".1" + segTerminator
}

// segRPI reports the passenger count and booking status for a flight.
func segRPI(passengerCount int, status string) string {
	return "RPI" + elemSep + strconv.Itoa(passengerCount) +
		elemSep + status + segTerminator
}

// segAPD carries the aircraft equipment type.
func segAPD(aircraftType string) string {
	return "APD" + elemSep + aircraftType + segTerminator
}

// segSSRDocs renders a passport as structured free text:
// /P/<nationality>/<number>/<issuingCountry>/<dob>/<gender>/<expiry>/<last>/<first>.
func segSSRDocs(issuingCountry, nationality, documentNumber, dob, gender, expiry, lastName, firstName string, passengerIndex int) string {
	return "SSR" + elemSep + "DOCS" + compSep + "HK" + compSep + "1" +
		compSep + issuingCountry +
		compSep + compSep + compSep + compSep +
		compSep + "/P/" + nationality + "/" + documentNumber +
		"/" + issuingCountry + "/" + dob + "/" + gender + "/" + expiry +
		"/" + lastName + "/" + firstName +
		elemSep + compSep + compSep + strconv.Itoa(passengerIndex) + ".1" + segTerminator
}

// segSSRTkne builds the ticket number segment tied to a passenger and
// flight index pair, used in the per-passenger loop.
func segSSRTkne(airline, origin, destination, ticketNumber string, passengerIndex int) string {
	return "SSR" + elemSep + "TKNE" + compSep + "HK" + compSep + "1" +
		compSep + airline +
		compSep + compSep + compSep +
		origin + compSep + destination +
		compSep + ticketNumber +
		elemSep + compSep + compSep + strconv.Itoa(passengerIndex) + ".1" + segTerminator
}

// segSSRTkneSimple builds the per-flight ticket form used in the flight
// loop; the ticket number is carried with a leading dot and no traveler
// reference element.
func segSSRTkneSimple(airline, origin, destination, ticketNumber string) string {
	return "SSR" + elemSep + "TKNE" + compSep + "HK" + compSep + "1" +
		compSep + airline +
		compSep + compSep + compSep +
		origin + compSep + destination +
		compSep + "." + ticketNumber + segTerminator
}

// segSSRSeat lists every seat on a flight as repeated
// +<seatNumber>::<passengerIndex> groups appended after the city pair.
func segSSRSeat(airline, origin, destination string, passengerCount int, seatList string) string {
	return "SSR" + elemSep + "SEAT" + compSep + "HK" + compSep +
		strconv.Itoa(passengerCount) +
		compSep + airline +
		compSep + compSep + compSep +
		origin + compSep + destination +
		seatList + segTerminator
}

// segUNT closes the message with the segment count (everything except UNA,
// plus the UNT segment itself).
func segUNT(segmentCount int, messageRef string) string {
	return "UNT" + elemSep + strconv.Itoa(segmentCount) +
		elemSep + messageRef + segTerminator
}

// segUNE closes the functional group with a control count of one message.
func segUNE(groupRef string) string {
	return "UNE" + elemSep + "1" + elemSep + groupRef + segTerminator
}

// segUNZ closes the interchange with a control count of one group.
func segUNZ(interchangeRef string) string {
	return "UNZ" + elemSep + "1" + elemSep + interchangeRef + segTerminator
}
