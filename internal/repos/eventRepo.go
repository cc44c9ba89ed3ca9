package repos

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/wheelibin/hueclient/pkg/hue"
)

const initSchema = `
  CREATE TABLE IF NOT EXISTS event (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    received_time TIMESTAMP,
    creation_time TIMESTAMP,
    batch_type TEXT,
    resource_id VARCHAR(36),
    resource_type TEXT,
    on_state INTEGER,
    brightness REAL,
    colour_temp INTEGER,  -- mirek
    colour_x REAL,
    colour_y REAL,
    status TEXT
  );

  CREATE INDEX IF NOT EXISTS event_resource ON event (resource_id);
`

// EventRepo journals bridge events. It only ever appends; nothing is read back
// to answer questions about current light state.
type EventRepo struct {
	logger *log.Logger
	db     *sql.DB
}

func NewEventRepo(logger *log.Logger, db *sql.DB) (*EventRepo, error) {

	_, err := db.Exec(initSchema)
	if err != nil {
		return nil, fmt.Errorf("Error initialising event schema: %w", err)
	}

	return &EventRepo{logger: logger, db: db}, nil
}

func (r *EventRepo) Add(events []hue.Event, received time.Time) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("Error adding events: %w", err)
	}

	for _, e := range events {
		var (
			on         sql.NullBool
			brightness sql.NullFloat64
			colourTemp sql.NullInt64
			x, y       sql.NullFloat64
			status     sql.NullString
			created    sql.NullTime
		)
		if e.On != nil {
			on = sql.NullBool{Bool: e.On.On, Valid: true}
		}
		if e.Dimming != nil {
			brightness = sql.NullFloat64{Float64: e.Dimming.Brightness, Valid: true}
		}
		if e.ColorTemperature != nil && e.ColorTemperature.Mirek != nil {
			colourTemp = sql.NullInt64{Int64: int64(*e.ColorTemperature.Mirek), Valid: true}
		}
		if e.Color != nil {
			x = sql.NullFloat64{Float64: e.Color.XY.X, Valid: true}
			y = sql.NullFloat64{Float64: e.Color.XY.Y, Valid: true}
		}
		if e.Status != "" {
			status = sql.NullString{String: e.Status, Valid: true}
		}
		if !e.CreationTime.IsZero() {
			created = sql.NullTime{Time: e.CreationTime, Valid: true}
		}

		_, err := tx.Exec(
			`INSERT INTO event
      (received_time, creation_time, batch_type, resource_id, resource_type, on_state, brightness, colour_temp, colour_x, colour_y, status)
     VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);`,
			received,
			created,
			e.EventType,
			e.ID,
			string(e.Type),
			on,
			brightness,
			colourTemp,
			x,
			y,
			status,
		)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("Error adding event (%s): %w", e.ID, err)
		}
	}
	err = tx.Commit()
	if err != nil {
		return fmt.Errorf("Error adding events: %w", err)
	}

	r.logger.Debug("journalled events", "count", len(events))
	return nil
}

func (r *EventRepo) CountForResource(resourceID string) (int, error) {
	row := r.db.QueryRow("SELECT count(*) FROM event WHERE resource_id = $1", resourceID)
	var count int
	err := row.Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("Error counting events for resource (%s): %w", resourceID, err)
	}
	return count, nil
}
