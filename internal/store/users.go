package store

import (
	"errors"

	"appointment-booking/internal/models"
)

var (
	// ErrUserNotFound means no row matched the username.
	ErrUserNotFound = errors.New("user not found")
	// ErrDuplicateUsername means the username is already registered.
	ErrDuplicateUsername = errors.New("username already exists")
)

var userColumns = []string{
	"username", "password",
	"security_q1", "security_a1",
	"security_q2", "security_a2",
	"security_q3", "security_a3",
}

// UserStore is the credential table backed by a users spreadsheet.
type UserStore struct {
	t *table
}

// NewUserStore opens the store, validating or recreating the file.
func NewUserStore(path string) (*UserStore, error) {
	t := newTable(path, userColumns)
	if err := t.init(); err != nil {
		return nil, err
	}
	return &UserStore{t: t}, nil
}

func userToRow(u models.UserRecord) []string {
	return []string{
		u.Username, u.PasswordHash,
		u.SecurityQuestions[0], u.SecurityAnswers[0],
		u.SecurityQuestions[1], u.SecurityAnswers[1],
		u.SecurityQuestions[2], u.SecurityAnswers[2],
	}
}

func rowToUser(row []string) models.UserRecord {
	return models.UserRecord{
		Username:          row[0],
		PasswordHash:      row[1],
		SecurityQuestions: [3]string{row[2], row[4], row[6]},
		SecurityAnswers:   [3]string{row[3], row[5], row[7]},
	}
}

// Lookup returns the record for username, or ErrUserNotFound. The match is
// case-sensitive.
func (s *UserStore) Lookup(username string) (*models.UserRecord, error) {
	s.t.mu.Lock()
	defer s.t.mu.Unlock()

	rows, err := s.t.readAll()
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		if row[0] == username {
			u := rowToUser(row)
			return &u, nil
		}
	}
	return nil, ErrUserNotFound
}

// Exists reports whether username is already registered.
func (s *UserStore) Exists(username string) (bool, error) {
	_, err := s.Lookup(username)
	if errors.Is(err, ErrUserNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Insert appends a new user. It holds the store lock across the duplicate
// check and the rewrite, so two concurrent registrations of the same
// username cannot both succeed.
func (s *UserStore) Insert(rec models.UserRecord) error {
	s.t.mu.Lock()
	defer s.t.mu.Unlock()

	rows, err := s.t.readAll()
	if err != nil {
		return err
	}
	for _, row := range rows {
		if row[0] == rec.Username {
			return ErrDuplicateUsername
		}
	}

	rows = append(rows, userToRow(rec))
	return s.t.writeAll(rows)
}
