package handler

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"appointment-booking/internal/catalog"
	"appointment-booking/internal/middleware"
	"appointment-booking/internal/models"
	"appointment-booking/internal/store"
	"appointment-booking/internal/util"

	"github.com/gin-gonic/gin"
)

// BookingHandler serves the two-step appointment flow.
type BookingHandler struct {
	Appointments *store.AppointmentStore
}

func NewBookingHandler(appointments *store.AppointmentStore) *BookingHandler {
	return &BookingHandler{Appointments: appointments}
}

type bookingReq struct {
	City         string `form:"city" json:"city"`
	CustomerName string `form:"customer_name" json:"customer_name"`
	PhoneNumber  string `form:"phone_number" json:"phone_number"`
	SelectedDate string `form:"selected_date" json:"selected_date"`
	SelectedTime string `form:"selected_time" json:"selected_time"`
}

// Book handles both steps of the booking interaction on one endpoint.
// Without selected_time it answers with the availability for the chosen
// city (and date, if given). With selected_time it is a final submission:
// the slot is re-validated against the catalog before anything is written,
// so stale or hand-crafted client state cannot book a slot the catalog
// never offered.
func (h *BookingHandler) Book(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	if sess == nil || !sess.LoggedIn {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Please log in first")
		return
	}

	var req bookingReq
	if err := c.ShouldBind(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Please fill in all required fields")
		return
	}

	req.City = strings.TrimSpace(req.City)
	req.CustomerName = strings.TrimSpace(req.CustomerName)
	req.PhoneNumber = strings.TrimSpace(req.PhoneNumber)
	req.SelectedDate = strings.TrimSpace(req.SelectedDate)
	req.SelectedTime = strings.TrimSpace(req.SelectedTime)

	if req.City == "" || req.CustomerName == "" || req.PhoneNumber == "" {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Please fill in all required fields")
		return
	}

	if !catalog.ValidCity(req.City) {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Invalid city selected")
		return
	}

	if err := util.ValidatePhone(req.PhoneNumber); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Please enter a valid 10-digit phone number")
		return
	}

	availableDates := catalog.Dates(req.City)
	var availableTimes []string
	if req.SelectedDate != "" {
		availableTimes = catalog.Times(req.City, req.SelectedDate)
	}

	if req.SelectedTime == "" {
		// step A: render choices for the city/date picked so far
		util.Success(c, util.Response{
			"selected_city":   req.City,
			"selected_date":   req.SelectedDate,
			"available_dates": availableDates,
			"available_times": availableTimes,
			"calendar_dates":  catalog.CalendarDates(),
		})
		return
	}

	// step B: final submission
	if req.SelectedDate == "" || !catalog.HasSlot(req.City, req.SelectedDate, req.SelectedTime) {
		util.Error(c, http.StatusConflict, util.CodeConflict, "Invalid slot selected")
		return
	}

	rec := models.AppointmentRecord{
		Username:     sess.Username,
		CustomerName: req.CustomerName,
		PhoneNumber:  req.PhoneNumber,
		City:         req.City,
		Date:         req.SelectedDate,
		Time:         req.SelectedTime,
	}
	if err := h.Appointments.Book(rec); err != nil {
		if errors.Is(err, store.ErrDuplicateDate) {
			util.Error(c, http.StatusConflict, util.CodeConflict, "You already have an appointment on this date")
			return
		}
		log.Printf("booking: save appointment for %s: %v", sess.Username, err)
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Error saving appointment")
		return
	}

	util.Success(c, util.Response{
		"message": "Appointment scheduled successfully!",
		"appointment": gin.H{
			"username":      rec.Username,
			"customer_name": rec.CustomerName,
			"phone_number":  rec.PhoneNumber,
			"city":          rec.City,
			"date":          rec.Date,
			"time":          rec.Time,
		},
	})
}

// List returns the caller's appointments.
func (h *BookingHandler) List(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	if sess == nil || !sess.LoggedIn {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Please log in first")
		return
	}

	records, err := h.Appointments.ListByUser(sess.Username)
	if err != nil {
		log.Printf("booking: list appointments for %s: %v", sess.Username, err)
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Error reading appointment data")
		return
	}

	out := make([]gin.H, 0, len(records))
	for _, r := range records {
		out = append(out, gin.H{
			"customer_name": r.CustomerName,
			"phone_number":  r.PhoneNumber,
			"city":          r.City,
			"date":          r.Date,
			"time":          r.Time,
		})
	}

	util.Success(c, util.Response{
		"appointments": out,
	})
}

// Catalog exposes the static booking inputs: the city list and the
// calendar window shown by the date picker.
func Catalog(c *gin.Context) {
	util.Success(c, util.Response{
		"cities":         catalog.Cities,
		"calendar_dates": catalog.CalendarDates(),
	})
}
