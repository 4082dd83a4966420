package store

import (
	"errors"

	"appointment-booking/internal/models"
)

// ErrDuplicateDate means the user already holds an appointment on the date.
var ErrDuplicateDate = errors.New("appointment already exists on this date")

var appointmentColumns = []string{
	"username", "customer_name", "phone_number", "city", "date", "time",
}

// AppointmentStore is the booking table backed by an appointments
// spreadsheet.
type AppointmentStore struct {
	t *table
}

// NewAppointmentStore opens the store, validating or recreating the file.
func NewAppointmentStore(path string) (*AppointmentStore, error) {
	t := newTable(path, appointmentColumns)
	if err := t.init(); err != nil {
		return nil, err
	}
	return &AppointmentStore{t: t}, nil
}

func appointmentToRow(a models.AppointmentRecord) []string {
	return []string{a.Username, a.CustomerName, a.PhoneNumber, a.City, a.Date, a.Time}
}

func rowToAppointment(row []string) models.AppointmentRecord {
	return models.AppointmentRecord{
		Username:     row[0],
		CustomerName: row[1],
		PhoneNumber:  row[2],
		City:         row[3],
		Date:         row[4],
		Time:         row[5],
	}
}

// ListByUser returns the user's appointments in file order.
func (s *AppointmentStore) ListByUser(username string) ([]models.AppointmentRecord, error) {
	s.t.mu.Lock()
	defer s.t.mu.Unlock()

	rows, err := s.t.readAll()
	if err != nil {
		return nil, err
	}
	var out []models.AppointmentRecord
	for _, row := range rows {
		if row[0] == username {
			out = append(out, rowToAppointment(row))
		}
	}
	return out, nil
}

// HasOnDate reports whether the user already has an appointment on the
// date, in any city and at any time.
func (s *AppointmentStore) HasOnDate(username, date string) (bool, error) {
	s.t.mu.Lock()
	defer s.t.mu.Unlock()

	rows, err := s.t.readAll()
	if err != nil {
		return false, err
	}
	return hasOnDate(rows, username, date), nil
}

func hasOnDate(rows [][]string, username, date string) bool {
	for _, row := range rows {
		if row[0] == username && row[4] == date {
			return true
		}
	}
	return false
}

// Book appends a new appointment. The store lock spans the duplicate-date
// check and the rewrite, so the per-(user, date) invariant holds under
// concurrent submissions.
func (s *AppointmentStore) Book(rec models.AppointmentRecord) error {
	s.t.mu.Lock()
	defer s.t.mu.Unlock()

	rows, err := s.t.readAll()
	if err != nil {
		return err
	}
	if hasOnDate(rows, rec.Username, rec.Date) {
		return ErrDuplicateDate
	}

	rows = append(rows, appointmentToRow(rec))
	return s.t.writeAll(rows)
}
