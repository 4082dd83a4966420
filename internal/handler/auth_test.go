package handler_test

import (
	"net/http"
	"net/url"
	"testing"
)

func TestRegister_DuplicateUsername(t *testing.T) {
	app := newTestApp(t)

	if w, env := app.register("newuser", "newpass123", testAnswers); w.Code != http.StatusOK {
		t.Fatalf("first register: %d %s", w.Code, env.Message)
	}

	w, env := app.register("newuser", "otherpass99", testAnswers)
	if w.Code != http.StatusConflict {
		t.Errorf("second register status = %d, want %d", w.Code, http.StatusConflict)
	}
	if env.Message != "Username already exists" {
		t.Errorf("second register message = %q", env.Message)
	}
}

func TestRegister_PasswordLength(t *testing.T) {
	app := newTestApp(t)

	// 7 characters rejected
	w, env := app.register("shortpw", "seven77", testAnswers)
	if w.Code != http.StatusBadRequest {
		t.Errorf("7-char password status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	if env.Message != "Password must be at least 8 characters long" {
		t.Errorf("7-char password message = %q", env.Message)
	}

	// 8 characters accepted
	if w, env := app.register("okpw", "eight888", testAnswers); w.Code != http.StatusOK {
		t.Errorf("8-char password status = %d (%s), want 200", w.Code, env.Message)
	}
}

func TestRegister_MissingFields(t *testing.T) {
	app := newTestApp(t)

	w, env := app.do(http.MethodPost, "/api/auth/register", url.Values{
		"username":         {"newuser"},
		"password":         {"newpass123"},
		"confirm_password": {"newpass123"},
		"security_a1":      {"nick"},
		// a2, a3 missing
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	if env.Message != "All fields are required" {
		t.Errorf("message = %q", env.Message)
	}
}

func TestRegister_PasswordMismatch(t *testing.T) {
	app := newTestApp(t)

	w, env := app.do(http.MethodPost, "/api/auth/register", url.Values{
		"username":         {"newuser"},
		"password":         {"newpass123"},
		"confirm_password": {"different123"},
		"security_a1":      {"nick"},
		"security_a2":      {"book"},
		"security_a3":      {"pet"},
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	if env.Message != "Passwords do not match" {
		t.Errorf("message = %q", env.Message)
	}
}

func TestLogin_Success(t *testing.T) {
	app := newTestApp(t)
	app.register("newuser", "newpass123", testAnswers)

	w, env := app.login("newuser", "newpass123", testAnswers)
	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d (%s), want 200", w.Code, env.Message)
	}

	// session is now authenticated
	w, env = app.do(http.MethodGet, "/api/me", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("me status = %d, want 200", w.Code)
	}
	if env.Data["username"] != "newuser" {
		t.Errorf("me username = %v, want newuser", env.Data["username"])
	}
}

func TestLogin_CaptchaMismatch(t *testing.T) {
	app := newTestApp(t)
	app.register("newuser", "newpass123", testAnswers)

	captcha, idx := app.challenge()
	w, env := app.do(http.MethodPost, "/api/auth/login", url.Values{
		"username":        {"newuser"},
		"password":        {"newpass123"},
		"captcha_input":   {"0000"},
		"captcha_value":   {captcha},
		"security_answer": {testAnswers[idx]},
	})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
	if env.Message != "Invalid captcha" {
		t.Errorf("message = %q", env.Message)
	}
}

func TestLogin_ChallengeSingleUse(t *testing.T) {
	app := newTestApp(t)
	app.register("newuser", "newpass123", testAnswers)

	// burn the pending challenge with a failed attempt
	captcha, idx := app.challenge()
	app.do(http.MethodPost, "/api/auth/login", url.Values{
		"username":        {"newuser"},
		"password":        {"wrongpass1"},
		"captcha_input":   {captcha},
		"captcha_value":   {captcha},
		"security_answer": {testAnswers[idx]},
	})

	// resubmitting against the consumed challenge is rejected outright,
	// even with every field correct
	w, env := app.do(http.MethodPost, "/api/auth/login", url.Values{
		"username":        {"newuser"},
		"password":        {"newpass123"},
		"captcha_input":   {captcha},
		"captcha_value":   {captcha},
		"security_answer": {testAnswers[idx]},
	})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
	if env.Message != "Invalid session" {
		t.Errorf("message = %q, want Invalid session", env.Message)
	}

	// a fresh challenge makes login possible again
	if w, env := app.login("newuser", "newpass123", testAnswers); w.Code != http.StatusOK {
		t.Errorf("login after fresh challenge = %d (%s), want 200", w.Code, env.Message)
	}
}

func TestLogin_WrongIndexAnswerRejected(t *testing.T) {
	// distinct answers per index prove only the issued index is checked
	answers := [3]string{"alpha", "bravo", "charlie"}
	app := newTestApp(t)
	app.register("newuser", "newpass123", answers)

	captcha, idx := app.challenge()
	wrong := answers[(idx+1)%3]
	w, env := app.do(http.MethodPost, "/api/auth/login", url.Values{
		"username":        {"newuser"},
		"password":        {"newpass123"},
		"captcha_input":   {captcha},
		"captcha_value":   {captcha},
		"security_answer": {wrong},
	})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
	if env.Message != "Incorrect security answer" {
		t.Errorf("message = %q", env.Message)
	}

	// the matching answer at the issued index succeeds
	if w, env := app.login("newuser", "newpass123", answers); w.Code != http.StatusOK {
		t.Errorf("login with correct index answer = %d (%s), want 200", w.Code, env.Message)
	}
}

func TestLogin_AnswerCaseInsensitive(t *testing.T) {
	app := newTestApp(t)
	app.register("newuser", "newpass123", [3]string{"Nick", "Book", "Pet"})

	// answers were lower-cased at registration; an upper-cased submission
	// still matches
	captcha, idx := app.challenge()
	upper := [3]string{"NICK", "BOOK", "PET"}
	w, env := app.do(http.MethodPost, "/api/auth/login", url.Values{
		"username":        {"newuser"},
		"password":        {"newpass123"},
		"captcha_input":   {captcha},
		"captcha_value":   {captcha},
		"security_answer": {upper[idx]},
	})
	if w.Code != http.StatusOK {
		t.Errorf("status = %d (%s), want 200", w.Code, env.Message)
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	app := newTestApp(t)
	app.register("newuser", "newpass123", testAnswers)

	w, env := app.login("newuser", "wrongpass1", testAnswers)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("wrong password status = %d, want 401", w.Code)
	}
	if env.Message != "Invalid username or password" {
		t.Errorf("wrong password message = %q", env.Message)
	}

	w, env = app.login("ghost", "newpass123", testAnswers)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("unknown user status = %d, want 401", w.Code)
	}
	if env.Message != "Invalid username or password" {
		t.Errorf("unknown user message = %q", env.Message)
	}
}

func TestLogout(t *testing.T) {
	app := loggedInApp(t)

	if w, _ := app.do(http.MethodPost, "/api/auth/logout", nil); w.Code != http.StatusOK {
		t.Fatalf("logout status = %d, want 200", w.Code)
	}

	w, _ := app.do(http.MethodGet, "/api/me", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("me after logout status = %d, want 401", w.Code)
	}
}
