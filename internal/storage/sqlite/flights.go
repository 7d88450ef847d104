package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/yegors/flightlog/internal/igc"
	"github.com/yegors/flightlog/pkg/logger"
)

// FlightStorage handles persistence of parsed flights and their fixes
type FlightStorage struct {
	db     *sql.DB
	logger *logger.Logger
}

// NewFlightStorage creates a new SQLite flight storage
func NewFlightStorage(db *sql.DB, logger *logger.Logger) (*FlightStorage, error) {
	storage := &FlightStorage{
		db:     db,
		logger: logger.Named("sqlite-flights"),
	}

	if err := storage.initDB(); err != nil {
		return nil, fmt.Errorf("failed to initialize flight storage: %w", err)
	}

	return storage, nil
}

// initDB initializes the database tables
func (s *FlightStorage) initDB() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS flights (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			flight_date TIMESTAMP,
			fix_accuracy INTEGER,
			pilot TEXT,
			copilot TEXT,
			glider_model TEXT,
			glider_id TEXT,
			gps_datum TEXT,
			firmware TEXT,
			hardware TEXT,
			flight_recorder TEXT,
			gps_receiver TEXT,
			pressure_sensor TEXT,
			competition_id TEXT,
			competition_class TEXT,
			security TEXT,
			fix_count INTEGER NOT NULL,
			void_fixes INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create flights table: %w", err)
	}

	_, err = s.db.Exec(`
		CREATE TABLE IF NOT EXISTS fixes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			flight_id INTEGER NOT NULL,
			timestamp TIMESTAMP NOT NULL,
			latitude REAL NOT NULL,
			longitude REAL NOT NULL,
			pressure_altitude INTEGER,
			gps_altitude INTEGER,
			activity TEXT,
			phase TEXT,
			FOREIGN KEY (flight_id) REFERENCES flights(id) ON DELETE CASCADE
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create fixes table: %w", err)
	}

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_flights_created_at ON flights(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_fixes_flight_id ON fixes(flight_id)`,
		`CREATE INDEX IF NOT EXISTS idx_fixes_timestamp ON fixes(timestamp)`,
	}
	for _, indexSQL := range indexes {
		if _, err := s.db.Exec(indexSQL); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}

// StoreFlight stores a parsed flight and all of its fixes in a single
// transaction and returns the new flight ID.
func (s *FlightStorage) StoreFlight(flight *igc.Flight) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	meta := flight.Metadata
	result, err := tx.Exec(
		`INSERT INTO flights
		(flight_date, fix_accuracy, pilot, copilot, glider_model, glider_id,
		 gps_datum, firmware, hardware, flight_recorder, gps_receiver,
		 pressure_sensor, competition_id, competition_class, security,
		 fix_count, void_fixes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		nullableTime(meta.Date),
		nullableInt(meta.FixAccuracy),
		nullableString(meta.Pilot),
		nullableString(meta.Copilot),
		nullableString(meta.GliderModel),
		nullableString(meta.GliderID),
		nullableString(meta.GPSDatum),
		nullableString(meta.Firmware),
		nullableString(meta.Hardware),
		nullableString(meta.FlightRecorder),
		nullableString(meta.GPSReceiver),
		nullableString(meta.PressureSensor),
		nullableString(meta.CompetitionID),
		nullableString(meta.CompetitionClass),
		nullableString(meta.Security),
		len(flight.Fixes),
		flight.VoidFixes,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert flight: %w", err)
	}

	flightID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID: %w", err)
	}

	stmt, err := tx.Prepare(
		`INSERT INTO fixes
		(flight_id, timestamp, latitude, longitude, pressure_altitude,
		 gps_altitude, activity, phase)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare fix insert: %w", err)
	}
	defer stmt.Close()

	for _, fix := range flight.Fixes {
		_, err := stmt.Exec(
			flightID,
			fix.Timestamp.UTC().Format(time.RFC3339),
			fix.Latitude,
			fix.Longitude,
			nullableInt(fix.PressureAltitude),
			nullableInt(fix.GPSAltitude),
			nullableString(fix.Activity),
			nullableString(fix.Phase),
		)
		if err != nil {
			return 0, fmt.Errorf("failed to insert fix: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit flight: %w", err)
	}

	s.logger.Debug("Stored flight",
		logger.Int64("flight_id", flightID),
		logger.Int("fix_count", len(flight.Fixes)))

	return flightID, nil
}

// GetFlightByID returns the stored flight with the given ID, or nil when
// no such flight exists.
func (s *FlightStorage) GetFlightByID(id int64) (*FlightRecord, error) {
	row := s.db.QueryRow(
		`SELECT id, flight_date, fix_accuracy, pilot, copilot, glider_model,
		        glider_id, gps_datum, firmware, hardware, flight_recorder,
		        gps_receiver, pressure_sensor, competition_id,
		        competition_class, security, fix_count, void_fixes, created_at
		FROM flights
		WHERE id = ?`,
		id,
	)

	record, err := scanFlightRow(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query flight: %w", err)
	}

	return record, nil
}

// GetRecentFlights returns the most recently stored flights
func (s *FlightStorage) GetRecentFlights(limit int) ([]*FlightRecord, error) {
	rows, err := s.db.Query(
		`SELECT id, flight_date, fix_accuracy, pilot, copilot, glider_model,
		        glider_id, gps_datum, firmware, hardware, flight_recorder,
		        gps_receiver, pressure_sensor, competition_id,
		        competition_class, security, fix_count, void_fixes, created_at
		FROM flights
		ORDER BY created_at DESC
		LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent flights: %w", err)
	}
	defer rows.Close()

	var records []*FlightRecord
	for rows.Next() {
		record, err := scanFlightRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan flight: %w", err)
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

// GetFixesByFlightID returns the ordered fix sequence of a stored flight
func (s *FlightStorage) GetFixesByFlightID(flightID int64) ([]igc.Fix, error) {
	rows, err := s.db.Query(
		`SELECT timestamp, latitude, longitude, pressure_altitude,
		        gps_altitude, activity, phase
		FROM fixes
		WHERE flight_id = ?
		ORDER BY timestamp ASC, id ASC`,
		flightID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query fixes: %w", err)
	}
	defer rows.Close()

	var fixes []igc.Fix
	for rows.Next() {
		var (
			fix         igc.Fix
			timestamp   string
			pressureAlt sql.NullInt64
			gpsAlt      sql.NullInt64
			activity    sql.NullString
			phase       sql.NullString
		)
		if err := rows.Scan(&timestamp, &fix.Latitude, &fix.Longitude,
			&pressureAlt, &gpsAlt, &activity, &phase); err != nil {
			return nil, fmt.Errorf("failed to scan fix: %w", err)
		}

		fix.Timestamp, err = time.Parse(time.RFC3339, timestamp)
		if err != nil {
			return nil, fmt.Errorf("failed to parse fix timestamp: %w", err)
		}
		if pressureAlt.Valid {
			v := int(pressureAlt.Int64)
			fix.PressureAltitude = &v
		}
		if gpsAlt.Valid {
			v := int(gpsAlt.Int64)
			fix.GPSAltitude = &v
		}
		if activity.Valid {
			v := activity.String
			fix.Activity = &v
		}
		if phase.Valid {
			v := phase.String
			fix.Phase = &v
		}

		fixes = append(fixes, fix)
	}

	return fixes, rows.Err()
}

// rowScanner covers both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanFlightRow(row rowScanner) (*FlightRecord, error) {
	var (
		record      FlightRecord
		flightDate  sql.NullString
		fixAccuracy sql.NullInt64
		text        [13]sql.NullString
		createdAt   string
	)

	if err := row.Scan(
		&record.ID,
		&flightDate,
		&fixAccuracy,
		&text[0], &text[1], &text[2], &text[3], &text[4], &text[5],
		&text[6], &text[7], &text[8], &text[9], &text[10], &text[11],
		&text[12],
		&record.FixCount,
		&record.VoidFixes,
		&createdAt,
	); err != nil {
		return nil, err
	}

	if flightDate.Valid {
		d, err := time.Parse(time.RFC3339, flightDate.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse flight date: %w", err)
		}
		record.Metadata.Date = &d
	}
	if fixAccuracy.Valid {
		v := int(fixAccuracy.Int64)
		record.Metadata.FixAccuracy = &v
	}

	targets := []**string{
		&record.Metadata.Pilot,
		&record.Metadata.Copilot,
		&record.Metadata.GliderModel,
		&record.Metadata.GliderID,
		&record.Metadata.GPSDatum,
		&record.Metadata.Firmware,
		&record.Metadata.Hardware,
		&record.Metadata.FlightRecorder,
		&record.Metadata.GPSReceiver,
		&record.Metadata.PressureSensor,
		&record.Metadata.CompetitionID,
		&record.Metadata.CompetitionClass,
	}
	for i, target := range targets {
		if text[i].Valid {
			v := text[i].String
			*target = &v
		}
	}
	if text[12].Valid {
		v := text[12].String
		record.Metadata.Security = &v
	}

	var err error
	record.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}

	return &record, nil
}

func nullableString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func nullableInt(i *int) any {
	if i == nil {
		return nil
	}
	return *i
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}
