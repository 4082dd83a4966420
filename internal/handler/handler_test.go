package handler_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"appointment-booking/internal/config"
	"appointment-booking/internal/database"
	"appointment-booking/internal/router"
	"appointment-booking/internal/store"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// envelope mirrors the uniform response body.
type envelope struct {
	Code    int                    `json:"code"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data"`
}

// testApp drives the full router over fresh temp-dir stores, carrying
// cookies across requests the way a browser would.
type testApp struct {
	t       *testing.T
	engine  *gin.Engine
	cookies map[string]*http.Cookie
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	users, err := store.NewUserStore(filepath.Join(dir, "users.xlsx"))
	if err != nil {
		t.Fatalf("init user store: %v", err)
	}
	appointments, err := store.NewAppointmentStore(filepath.Join(dir, "appointments.xlsx"))
	if err != nil {
		t.Fatalf("init appointment store: %v", err)
	}

	db, err := gorm.Open(sqlite.Open(filepath.Join(dir, "sessions.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate database: %v", err)
	}

	cfg := &config.Config{}
	cfg.Server.Mode = gin.TestMode
	cfg.Session.Secret = "test-secret"
	cfg.Session.ExpireHours = 1

	return &testApp{
		t:       t,
		engine:  router.Setup(cfg, db, users, appointments),
		cookies: make(map[string]*http.Cookie),
	}
}

func (a *testApp) do(method, path string, form url.Values) (*httptest.ResponseRecorder, envelope) {
	a.t.Helper()

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for _, ck := range a.cookies {
		req.AddCookie(ck)
	}

	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)

	for _, ck := range w.Result().Cookies() {
		if ck.MaxAge < 0 {
			delete(a.cookies, ck.Name)
			continue
		}
		a.cookies[ck.Name] = ck
	}

	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		a.t.Fatalf("%s %s: decode response %q: %v", method, path, w.Body.String(), err)
	}
	return w, env
}

func (a *testApp) register(username, password string, answers [3]string) (*httptest.ResponseRecorder, envelope) {
	a.t.Helper()
	return a.do(http.MethodPost, "/api/auth/register", url.Values{
		"username":         {username},
		"password":         {password},
		"confirm_password": {password},
		"security_a1":      {answers[0]},
		"security_a2":      {answers[1]},
		"security_a3":      {answers[2]},
	})
}

// challenge renders a fresh login challenge and returns the issued code and
// question index.
func (a *testApp) challenge() (captcha string, index int) {
	a.t.Helper()
	w, env := a.do(http.MethodGet, "/api/auth/challenge", nil)
	if w.Code != http.StatusOK {
		a.t.Fatalf("challenge status = %d, body %s", w.Code, w.Body.String())
	}
	captcha, _ = env.Data["captcha"].(string)
	idx, ok := env.Data["security_index"].(float64)
	if captcha == "" || !ok {
		a.t.Fatalf("challenge payload incomplete: %v", env.Data)
	}
	return captcha, int(idx)
}

// login runs the full challenge/submit flow with the answer matching the
// issued question index.
func (a *testApp) login(username, password string, answers [3]string) (*httptest.ResponseRecorder, envelope) {
	a.t.Helper()
	captcha, idx := a.challenge()
	return a.do(http.MethodPost, "/api/auth/login", url.Values{
		"username":        {username},
		"password":        {password},
		"captcha_input":   {captcha},
		"captcha_value":   {captcha},
		"security_answer": {answers[idx]},
	})
}

var testAnswers = [3]string{"nick", "book", "pet"}

// loggedInApp returns an app with "newuser" registered and logged in.
func loggedInApp(t *testing.T) *testApp {
	t.Helper()
	app := newTestApp(t)
	if w, env := app.register("newuser", "newpass123", testAnswers); w.Code != http.StatusOK {
		t.Fatalf("register failed: %d %s", w.Code, env.Message)
	}
	if w, env := app.login("newuser", "newpass123", testAnswers); w.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", w.Code, env.Message)
	}
	return app
}
