package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/CkHanchey/pnrgov/internal/model"
)

// ReservationRepo provides CRUD operations for reservation graphs.  A
// reservation owns its flights, passengers and payments; passengers own
// their documents, bags and seat assignments.  Children are always written
// and read together with their root, so the repository only exposes
// whole-graph operations.  All timestamp fields are assumed to be stored
// in UTC.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// Create inserts the full reservation graph in one transaction and
// populates the generated IDs on the provided models.
func (r *ReservationRepo) Create(ctx context.Context, res *model.Reservation) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const q = `INSERT INTO reservations
	           (record_locator, booking_date, created_date, booking_channel, agency_code, status,
	            contact_first_name, contact_last_name, contact_email, contact_phone)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, q,
		res.RecordLocator, res.BookingDate, res.CreatedDate, res.BookingChannel,
		nullIfEmpty(res.AgencyCode), res.Status,
		res.ContactFirstName, res.ContactLastName,
		nullIfEmpty(res.ContactEmail), nullIfEmpty(res.ContactPhone))
	if err != nil {
		return err
	}
	if res.ID, err = result.LastInsertId(); err != nil {
		return err
	}
	if err := r.insertChildren(ctx, tx, res); err != nil {
		return err
	}
	return tx.Commit()
}

// Update rewrites the reservation graph: the root row is updated in place
// and every child row is deleted and re-inserted.  Diffing nested children
// against the stored graph is not worth the complexity at this data volume.
func (r *ReservationRepo) Update(ctx context.Context, res *model.Reservation) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const q = `UPDATE reservations
	           SET record_locator=?, booking_date=?, created_date=?, booking_channel=?,
	               agency_code=?, status=?, contact_first_name=?, contact_last_name=?,
	               contact_email=?, contact_phone=?
	           WHERE id=?`
	result, err := tx.ExecContext(ctx, q,
		res.RecordLocator, res.BookingDate, res.CreatedDate, res.BookingChannel,
		nullIfEmpty(res.AgencyCode), res.Status,
		res.ContactFirstName, res.ContactLastName,
		nullIfEmpty(res.ContactEmail), nullIfEmpty(res.ContactPhone),
		res.ID)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// The UPDATE may also report zero when nothing changed, so confirm
		// absence explicitly before reporting not found.
		var exists int
		err := tx.QueryRowContext(ctx, `SELECT 1 FROM reservations WHERE id=?`, res.ID).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
	}

	// Flights and passengers cascade to documents, bags and seats.
	if _, err := tx.ExecContext(ctx, `DELETE FROM passengers WHERE reservation_id=?`, res.ID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM flights WHERE reservation_id=?`, res.ID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM payments WHERE reservation_id=?`, res.ID); err != nil {
		return err
	}
	if err := r.insertChildren(ctx, tx, res); err != nil {
		return err
	}
	return tx.Commit()
}

// insertChildren writes flights, passengers (with documents, bags and
// seats) and payments for a reservation whose root row already exists.
// Bags and seats resolve their flight by the in-memory pointer, so flights
// must be inserted first to obtain IDs.
func (r *ReservationRepo) insertChildren(ctx context.Context, tx *sql.Tx, res *model.Reservation) error {
	for _, f := range res.Flights {
		const q = `INSERT INTO flights
		           (reservation_id, flight_number, airline_code, departure_airport, arrival_airport,
		            departure_date, arrival_date, aircraft_type, service_class,
		            operating_carrier, operating_flight_number, flight_status, segment_number)
		           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
		result, err := tx.ExecContext(ctx, q,
			res.ID, f.FlightNumber, f.AirlineCode, f.DepartureAirport, f.ArrivalAirport,
			f.DepartureDate, f.ArrivalDate, f.AircraftType, f.ServiceClass,
			nullIfEmpty(f.OperatingCarrier), nullIfEmpty(f.OperatingFlightNumber),
			f.FlightStatus, f.SegmentNumber)
		if err != nil {
			return err
		}
		if f.ID, err = result.LastInsertId(); err != nil {
			return err
		}
	}

	for _, p := range res.Passengers {
		const q = `INSERT INTO passengers
		           (reservation_id, first_name, last_name, middle_name, title, date_of_birth,
		            gender, nationality, passenger_type, email, phone,
		            address_line1, address_line2, city, state, postal_code, country)
		           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
		result, err := tx.ExecContext(ctx, q,
			res.ID, p.FirstName, p.LastName, nullIfEmpty(p.MiddleName), p.Title, p.DateOfBirth,
			p.Gender, p.Nationality, p.PassengerType,
			nullIfEmpty(p.Email), nullIfEmpty(p.Phone),
			nullIfEmpty(p.AddressLine1), nullIfEmpty(p.AddressLine2),
			nullIfEmpty(p.City), nullIfEmpty(p.State), nullIfEmpty(p.PostalCode), nullIfEmpty(p.Country))
		if err != nil {
			return err
		}
		if p.ID, err = result.LastInsertId(); err != nil {
			return err
		}

		for _, d := range p.Documents {
			const dq = `INSERT INTO travel_documents
			            (passenger_id, document_type, document_number, issuing_country,
			             expiry_date, issue_date, nationality)
			            VALUES (?, ?, ?, ?, ?, ?, ?)`
			result, err := tx.ExecContext(ctx, dq,
				p.ID, d.DocumentType, d.DocumentNumber, d.IssuingCountry,
				d.ExpiryDate, d.IssueDate, d.Nationality)
			if err != nil {
				return err
			}
			if d.ID, err = result.LastInsertId(); err != nil {
				return err
			}
			d.PassengerID = p.ID
		}

		for _, b := range p.Bags {
			if b.Flight != nil {
				b.FlightID = b.Flight.ID
			}
			const bq = `INSERT INTO baggage
			            (passenger_id, flight_id, bag_tag_number, weight, weight_unit,
			             number_of_pieces, baggage_type, status)
			            VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
			result, err := tx.ExecContext(ctx, bq,
				p.ID, b.FlightID, b.BagTagNumber, b.Weight, b.WeightUnit,
				b.NumberOfPieces, b.BaggageType, b.Status)
			if err != nil {
				return err
			}
			if b.ID, err = result.LastInsertId(); err != nil {
				return err
			}
			b.PassengerID = p.ID
		}

		for _, s := range p.Seats {
			if s.Flight != nil {
				s.FlightID = s.Flight.ID
			}
			const sq = `INSERT INTO seat_assignments
			            (passenger_id, flight_id, seat_number, seat_characteristics)
			            VALUES (?, ?, ?, ?)`
			result, err := tx.ExecContext(ctx, sq,
				p.ID, s.FlightID, s.SeatNumber, nullIfEmpty(s.SeatCharacteristics))
			if err != nil {
				return err
			}
			if s.ID, err = result.LastInsertId(); err != nil {
				return err
			}
			s.PassengerID = p.ID
		}
	}

	for _, pay := range res.Payments {
		const q = `INSERT INTO payments
		           (reservation_id, payment_type, card_type, card_number, expiry_date,
		            card_holder_name, amount, currency, payment_date)
		           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
		result, err := tx.ExecContext(ctx, q,
			res.ID, pay.PaymentType, nullIfEmpty(pay.CardType), nullIfEmpty(pay.CardNumber),
			pay.ExpiryDate, nullIfEmpty(pay.CardHolderName), pay.Amount, pay.Currency, pay.PaymentDate)
		if err != nil {
			return err
		}
		if pay.ID, err = result.LastInsertId(); err != nil {
			return err
		}
		pay.ReservationID = res.ID
	}
	return nil
}

// GetByID loads one reservation with its full graph.  ErrNotFound is
// returned when no reservation with the given ID exists.
func (r *ReservationRepo) GetByID(ctx context.Context, id int64) (*model.Reservation, error) {
	return r.getOne(ctx, `WHERE id = ?`, id)
}

// GetByLocator loads one reservation by record locator.  Locators are
// stored upper case; lookup normalizes the input the same way.
func (r *ReservationRepo) GetByLocator(ctx context.Context, locator string) (*model.Reservation, error) {
	return r.getOne(ctx, `WHERE record_locator = ?`, strings.ToUpper(strings.TrimSpace(locator)))
}

func (r *ReservationRepo) getOne(ctx context.Context, where string, arg interface{}) (*model.Reservation, error) {
	roots, err := r.queryRoots(ctx, where+` LIMIT 1`, arg)
	if err != nil {
		return nil, err
	}
	if len(roots) == 0 {
		return nil, ErrNotFound
	}
	if err := r.loadGraphs(ctx, roots); err != nil {
		return nil, err
	}
	return roots[0], nil
}

// List returns reservations with their full graphs, newest first.  A
// non-positive limit returns everything.
func (r *ReservationRepo) List(ctx context.Context, limit, offset int) ([]*model.Reservation, error) {
	where := `ORDER BY id DESC`
	args := []interface{}{}
	if limit > 0 {
		where += ` LIMIT ? OFFSET ?`
		args = append(args, limit, offset)
	}
	roots, err := r.queryRoots(ctx, where, args...)
	if err != nil {
		return nil, err
	}
	if err := r.loadGraphs(ctx, roots); err != nil {
		return nil, err
	}
	return roots, nil
}

// Delete removes a reservation; children cascade at the database level.
func (r *ReservationRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM reservations WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteAll removes every reservation and returns the number deleted.
func (r *ReservationRepo) DeleteAll(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM reservations`)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// Count returns the number of stored reservations.
func (r *ReservationRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM reservations`).Scan(&n)
	return n, err
}

const rootColumns = `id, record_locator, booking_date, created_date, booking_channel,
	agency_code, status, contact_first_name, contact_last_name, contact_email, contact_phone`

func (r *ReservationRepo) queryRoots(ctx context.Context, suffix string, args ...interface{}) ([]*model.Reservation, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+rootColumns+` FROM reservations `+suffix, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	roots := make([]*model.Reservation, 0)
	for rows.Next() {
		res := &model.Reservation{
			Passengers: []*model.Passenger{},
			Flights:    []*model.Flight{},
		}
		var agency, email, phone sql.NullString
		if err := rows.Scan(
			&res.ID, &res.RecordLocator, &res.BookingDate, &res.CreatedDate, &res.BookingChannel,
			&agency, &res.Status, &res.ContactFirstName, &res.ContactLastName, &email, &phone,
		); err != nil {
			return nil, err
		}
		res.AgencyCode = agency.String
		res.ContactEmail = email.String
		res.ContactPhone = phone.String
		roots = append(roots, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return roots, nil
}

// loadGraphs attaches flights, passengers, documents, bags, seats and
// payments to the given roots.  Each child table is fetched with a single
// IN query to avoid per-reservation round trips.
func (r *ReservationRepo) loadGraphs(ctx context.Context, roots []*model.Reservation) error {
	if len(roots) == 0 {
		return nil
	}
	byID := make(map[int64]*model.Reservation, len(roots))
	resIDs := make([]interface{}, 0, len(roots))
	for _, res := range roots {
		byID[res.ID] = res
		resIDs = append(resIDs, res.ID)
	}
	resIn := placeholders(len(resIDs))

	flightsByID := make(map[int64]*model.Flight)
	{
		q := `SELECT id, reservation_id, flight_number, airline_code, departure_airport, arrival_airport,
		             departure_date, arrival_date, aircraft_type, service_class,
		             operating_carrier, operating_flight_number, flight_status, segment_number
		      FROM flights WHERE reservation_id IN (` + resIn + `) ORDER BY reservation_id, segment_number, id`
		rows, err := r.db.QueryContext(ctx, q, resIDs...)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			f := &model.Flight{}
			var resID int64
			var opCarrier, opFlight sql.NullString
			if err := rows.Scan(
				&f.ID, &resID, &f.FlightNumber, &f.AirlineCode, &f.DepartureAirport, &f.ArrivalAirport,
				&f.DepartureDate, &f.ArrivalDate, &f.AircraftType, &f.ServiceClass,
				&opCarrier, &opFlight, &f.FlightStatus, &f.SegmentNumber,
			); err != nil {
				return err
			}
			f.OperatingCarrier = opCarrier.String
			f.OperatingFlightNumber = opFlight.String
			flightsByID[f.ID] = f
			if res, ok := byID[resID]; ok {
				res.Flights = append(res.Flights, f)
			}
		}
		if err := rows.Err(); err != nil {
			return err
		}
	}

	paxByID := make(map[int64]*model.Passenger)
	paxIDs := make([]interface{}, 0)
	{
		q := `SELECT id, reservation_id, first_name, last_name, middle_name, title, date_of_birth,
		             gender, nationality, passenger_type, email, phone,
		             address_line1, address_line2, city, state, postal_code, country
		      FROM passengers WHERE reservation_id IN (` + resIn + `) ORDER BY reservation_id, id`
		rows, err := r.db.QueryContext(ctx, q, resIDs...)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			p := &model.Passenger{
				Documents: []*model.TravelDocument{},
				Bags:      []*model.Baggage{},
				Seats:     []*model.SeatAssignment{},
			}
			var resID int64
			var middle, email, phone, addr1, addr2, city, state, postal, country sql.NullString
			if err := rows.Scan(
				&p.ID, &resID, &p.FirstName, &p.LastName, &middle, &p.Title, &p.DateOfBirth,
				&p.Gender, &p.Nationality, &p.PassengerType, &email, &phone,
				&addr1, &addr2, &city, &state, &postal, &country,
			); err != nil {
				return err
			}
			p.MiddleName = middle.String
			p.Email = email.String
			p.Phone = phone.String
			p.AddressLine1 = addr1.String
			p.AddressLine2 = addr2.String
			p.City = city.String
			p.State = state.String
			p.PostalCode = postal.String
			p.Country = country.String
			paxByID[p.ID] = p
			paxIDs = append(paxIDs, p.ID)
			if res, ok := byID[resID]; ok {
				res.Passengers = append(res.Passengers, p)
			}
		}
		if err := rows.Err(); err != nil {
			return err
		}
	}

	if len(paxIDs) > 0 {
		paxIn := placeholders(len(paxIDs))

		q := `SELECT id, passenger_id, document_type, document_number, issuing_country,
		             expiry_date, issue_date, nationality
		      FROM travel_documents WHERE passenger_id IN (` + paxIn + `) ORDER BY passenger_id, id`
		rows, err := r.db.QueryContext(ctx, q, paxIDs...)
		if err != nil {
			return err
		}
		for rows.Next() {
			d := &model.TravelDocument{}
			if err := rows.Scan(
				&d.ID, &d.PassengerID, &d.DocumentType, &d.DocumentNumber, &d.IssuingCountry,
				&d.ExpiryDate, &d.IssueDate, &d.Nationality,
			); err != nil {
				rows.Close()
				return err
			}
			if p, ok := paxByID[d.PassengerID]; ok {
				p.Documents = append(p.Documents, d)
			}
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return err
		}
		rows.Close()

		q = `SELECT id, passenger_id, flight_id, bag_tag_number, weight, weight_unit,
		            number_of_pieces, baggage_type, status
		     FROM baggage WHERE passenger_id IN (` + paxIn + `) ORDER BY passenger_id, id`
		rows, err = r.db.QueryContext(ctx, q, paxIDs...)
		if err != nil {
			return err
		}
		for rows.Next() {
			b := &model.Baggage{}
			if err := rows.Scan(
				&b.ID, &b.PassengerID, &b.FlightID, &b.BagTagNumber, &b.Weight, &b.WeightUnit,
				&b.NumberOfPieces, &b.BaggageType, &b.Status,
			); err != nil {
				rows.Close()
				return err
			}
			b.Flight = flightsByID[b.FlightID]
			if p, ok := paxByID[b.PassengerID]; ok {
				p.Bags = append(p.Bags, b)
			}
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return err
		}
		rows.Close()

		q = `SELECT id, passenger_id, flight_id, seat_number, seat_characteristics
		     FROM seat_assignments WHERE passenger_id IN (` + paxIn + `) ORDER BY passenger_id, id`
		rows, err = r.db.QueryContext(ctx, q, paxIDs...)
		if err != nil {
			return err
		}
		for rows.Next() {
			s := &model.SeatAssignment{}
			var characteristics sql.NullString
			if err := rows.Scan(&s.ID, &s.PassengerID, &s.FlightID, &s.SeatNumber, &characteristics); err != nil {
				rows.Close()
				return err
			}
			s.SeatCharacteristics = characteristics.String
			s.Flight = flightsByID[s.FlightID]
			if p, ok := paxByID[s.PassengerID]; ok {
				p.Seats = append(p.Seats, s)
			}
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return err
		}
		rows.Close()
	}

	{
		q := `SELECT id, reservation_id, payment_type, card_type, card_number, expiry_date,
		             card_holder_name, amount, currency, payment_date
		      FROM payments WHERE reservation_id IN (` + resIn + `) ORDER BY reservation_id, id`
		rows, err := r.db.QueryContext(ctx, q, resIDs...)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			pay := &model.Payment{}
			var cardType, cardNumber, holder sql.NullString
			if err := rows.Scan(
				&pay.ID, &pay.ReservationID, &pay.PaymentType, &cardType, &cardNumber, &pay.ExpiryDate,
				&holder, &pay.Amount, &pay.Currency, &pay.PaymentDate,
			); err != nil {
				return err
			}
			pay.CardType = cardType.String
			pay.CardNumber = cardNumber.String
			pay.CardHolderName = holder.String
			if res, ok := byID[pay.ReservationID]; ok {
				res.Payments = append(res.Payments, pay)
			}
		}
		if err := rows.Err(); err != nil {
			return err
		}
	}
	return nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
