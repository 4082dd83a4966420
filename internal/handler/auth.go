package handler

import (
	"errors"
	"log"
	"math/rand"
	"net/http"
	"strings"

	"appointment-booking/internal/middleware"
	"appointment-booking/internal/models"
	"appointment-booking/internal/store"
	"appointment-booking/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SecurityQuestions are the three questions every account answers at
// registration. The login challenge picks one of them by index.
var SecurityQuestions = [3]string{
	"What was your childhood nickname?",
	"What is your favorite book?",
	"What was the name of your first pet?",
}

// AuthHandler serves registration and the challenge/login flow.
type AuthHandler struct {
	Users *store.UserStore
	DB    *gorm.DB
}

func NewAuthHandler(users *store.UserStore, db *gorm.DB) *AuthHandler {
	return &AuthHandler{Users: users, DB: db}
}

// ---------- challenge ----------

// Challenge issues a fresh login challenge: a random security-question
// index remembered in the session, plus a 4-digit code the client must echo
// back. Each render overwrites the previous index, so an old challenge can
// never be replayed.
func (h *AuthHandler) Challenge(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	if sess == nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Invalid session")
		return
	}

	idx := rand.Intn(len(SecurityQuestions))
	sess.SecurityIndex = &idx
	if err := h.DB.Save(sess).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to save session")
		return
	}

	code, err := util.ChallengeCode()
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to generate captcha")
		return
	}

	util.Success(c, util.Response{
		"captcha":           code,
		"security_question": SecurityQuestions[idx],
		"security_index":    idx,
	})
}

// ---------- register ----------

type registerReq struct {
	Username        string `form:"username" json:"username"`
	Password        string `form:"password" json:"password"`
	ConfirmPassword string `form:"confirm_password" json:"confirm_password"`
	SecurityA1      string `form:"security_a1" json:"security_a1"`
	SecurityA2      string `form:"security_a2" json:"security_a2"`
	SecurityA3      string `form:"security_a3" json:"security_a3"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBind(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "All fields are required")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Password = strings.TrimSpace(req.Password)
	req.ConfirmPassword = strings.TrimSpace(req.ConfirmPassword)
	answers := [3]string{
		strings.ToLower(strings.TrimSpace(req.SecurityA1)),
		strings.ToLower(strings.TrimSpace(req.SecurityA2)),
		strings.ToLower(strings.TrimSpace(req.SecurityA3)),
	}

	if req.Username == "" || req.Password == "" || req.ConfirmPassword == "" ||
		answers[0] == "" || answers[1] == "" || answers[2] == "" {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "All fields are required")
		return
	}

	if err := util.ValidateUsername(req.Username); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Invalid username")
		return
	}

	if req.Password != req.ConfirmPassword {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Passwords do not match")
		return
	}

	if len(req.Password) < 8 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Password must be at least 8 characters long")
		return
	}

	hash, err := util.HashPassword(req.Password)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to hash password")
		return
	}

	rec := models.UserRecord{
		Username:          req.Username,
		PasswordHash:      hash,
		SecurityQuestions: SecurityQuestions,
		SecurityAnswers:   answers,
	}
	if err := h.Users.Insert(rec); err != nil {
		if errors.Is(err, store.ErrDuplicateUsername) {
			util.Error(c, http.StatusConflict, util.CodeConflict, "Username already exists")
			return
		}
		log.Printf("auth: save registration for %s: %v", rec.Username, err)
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Error saving registration")
		return
	}

	util.Success(c, util.Response{
		"message":  "Registration successful! Please login.",
		"username": rec.Username,
	})
}

// ---------- login ----------

type loginReq struct {
	Username       string `form:"username" json:"username"`
	Password       string `form:"password" json:"password"`
	CaptchaInput   string `form:"captcha_input" json:"captcha_input"`
	CaptchaValue   string `form:"captcha_value" json:"captcha_value"`
	SecurityAnswer string `form:"security_answer" json:"security_answer"`
}

// Login verifies a challenge response. The pending security-question index
// is consumed up front, before any other check, so one challenge backs at
// most one attempt whatever its outcome.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBind(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "All fields are required")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Password = strings.TrimSpace(req.Password)
	req.CaptchaInput = strings.TrimSpace(req.CaptchaInput)
	req.CaptchaValue = strings.TrimSpace(req.CaptchaValue)
	answer := strings.ToLower(strings.TrimSpace(req.SecurityAnswer))

	if req.Username == "" || req.Password == "" || req.CaptchaInput == "" ||
		req.CaptchaValue == "" || answer == "" {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "All fields are required")
		return
	}

	sess := middleware.CurrentSession(c)
	if sess == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Invalid session")
		return
	}

	// pop the pending index: cleared even when the attempt fails below
	idx := sess.SecurityIndex
	sess.SecurityIndex = nil
	if err := h.DB.Save(sess).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to save session")
		return
	}
	if idx == nil || *idx < 0 || *idx >= len(SecurityQuestions) {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Invalid session")
		return
	}

	if req.CaptchaInput != req.CaptchaValue {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Invalid captcha")
		return
	}

	user, err := h.Users.Lookup(req.Username)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Invalid username or password")
		} else {
			log.Printf("auth: read user data for %s: %v", req.Username, err)
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Error reading user data")
		}
		return
	}

	if !util.CheckPassword(req.Password, user.PasswordHash) {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Invalid username or password")
		return
	}

	if answer != strings.ToLower(user.SecurityAnswers[*idx]) {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Incorrect security answer")
		return
	}

	sess.LoggedIn = true
	sess.Username = user.Username
	if err := h.DB.Save(sess).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to save session")
		return
	}

	util.Success(c, util.Response{
		"message":  "Login successful!",
		"username": user.Username,
	})
}

// ---------- logout ----------

func (h *AuthHandler) Logout(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	if sess == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Invalid session")
		return
	}

	sess.LoggedIn = false
	sess.Revoked = true
	if err := h.DB.Save(sess).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to save session")
		return
	}

	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", false, true)
	util.Success(c, util.Response{"message": "Logged out"})
}

// Me returns the logged-in identity.
func (h *AuthHandler) Me(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	if sess == nil || !sess.LoggedIn {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Please log in first")
		return
	}

	util.Success(c, util.Response{
		"username": sess.Username,
	})
}
