package models

// AppointmentRecord is one row of the appointments spreadsheet.
// Username references a UserRecord by name; the stores do not enforce the
// reference. Date and Time hold catalog strings ("2006-01-02", "15:04").
type AppointmentRecord struct {
	Username     string
	CustomerName string
	PhoneNumber  string
	City         string
	Date         string
	Time         string
}
