package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"time"

	_ "github.com/lib/pq"
)

// Record is an event as written to the log and the messages table
type Record struct {
	Facility  int
	Severity  Severity
	Timestamp time.Time
	Hostname  string
	AppName   string
	ProcID    int
	MsgID     string
	SData     map[string]map[string]string
	Message   string
}

func newRecord(event Event, hostname string, pid int) Record {
	return Record{
		Facility:  event.Facility(),
		Severity:  event.Severity(),
		Timestamp: time.Now().UTC(),
		Hostname:  hostname,
		AppName:   AppName,
		ProcID:    pid,
		MsgID:     event.MessageID(),
		SData:     event.StructuredData(),
		Message:   event.Message(),
	}
}

// Priority is the RFC5424 PRI value
func (r Record) Priority() int {
	return r.Facility*8 + int(r.Severity)
}

const insertRecord = `
	INSERT INTO messages (facility, severity, timestamp, hostname, appname, procid, msgid, sdata, message)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

// Store persists audit records to the messages table
type Store struct {
	db       *sql.DB
	hostname string
	pid      int
}

// NewStore opens the store at AUDIT_DATABASE_URL. It returns a nil store
// when the variable is unset.
func NewStore() (*Store, error) {
	dbURL := os.Getenv("AUDIT_DATABASE_URL")
	if dbURL == "" {
		return nil, nil
	}
	return Open(dbURL)
}

// Open returns a store writing to the PostgreSQL database at dbURL
func Open(dbURL string) (*Store, error) {
	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		return nil, fmt.Errorf("audit: opening database: %w", err)
	}
	return NewStoreWithDB(db), nil
}

// NewStoreWithDB returns a store over an open connection
func NewStoreWithDB(db *sql.DB) *Store {
	hostname, _ := os.Hostname()
	return &Store{db: db, hostname: hostname, pid: os.Getpid()}
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Save persists an event
func (s *Store) Save(event Event) error {
	return s.SaveContext(context.Background(), event)
}

// SaveContext persists an event, giving up when ctx is done
func (s *Store) SaveContext(ctx context.Context, event Event) error {
	if s.db == nil {
		return nil
	}

	rec := newRecord(event, s.hostname, s.pid)
	sdata, err := json.Marshal(rec.SData)
	if err != nil {
		return fmt.Errorf("audit: encoding %s: %w", rec.MsgID, err)
	}

	_, err = s.db.ExecContext(ctx, insertRecord,
		rec.Facility,
		int(rec.Severity),
		rec.Timestamp,
		rec.Hostname,
		rec.AppName,
		rec.ProcID,
		rec.MsgID,
		sdata,
		rec.Message,
	)
	if err != nil {
		return fmt.Errorf("audit: saving %s: %w", rec.MsgID, err)
	}
	return nil
}
