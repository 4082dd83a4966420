package models

// UserRecord is one row of the users spreadsheet.
// Security answers are stored lower-cased; the question texts are written
// alongside the answers so the file is self-describing.
type UserRecord struct {
	Username     string
	PasswordHash string

	SecurityQuestions [3]string
	SecurityAnswers   [3]string
}
