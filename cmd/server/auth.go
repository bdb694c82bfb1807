package main

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Simplici0/fraktkalkulator/internal/seed"
)

const (
	sessionCookieName = "frakt_session"
	sessionTTL        = 12 * time.Hour
)

type authService struct {
	db            *sql.DB
	sessionSecret []byte
	secureCookies bool
	now           func() time.Time
}

// newAuthService returns an authService signing sessions with secret. An
// empty secret is replaced by a random one.
func newAuthService(db *sql.DB, secret string, secureCookies bool) (*authService, error) {
	key := []byte(secret)
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("generate session secret: %w", err)
		}
	}
	return &authService{db: db, sessionSecret: key, secureCookies: secureCookies, now: time.Now}, nil
}

func (a *authService) validateCredentials(ctx context.Context, email, password string) (bool, error) {
	var passwordHash string
	err := a.db.QueryRowContext(ctx, `SELECT password_hash FROM users WHERE email = ?`, seed.NormalizeEmail(email)).Scan(&passwordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query user credentials: %w", err)
	}

	err = bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("compare password hash: %w", err)
	}
	return true, nil
}

// createSessionValue encodes email and expiry as payload.signature.
func (a *authService) createSessionValue(email string) string {
	expires := a.now().Add(sessionTTL).Unix()
	payload := base64.RawURLEncoding.EncodeToString([]byte(email + "|" + strconv.FormatInt(expires, 10)))
	return payload + "." + a.sign(payload)
}

func (a *authService) verifySessionValue(value string) (string, bool) {
	payload, signature, ok := strings.Cut(value, ".")
	if !ok {
		return "", false
	}

	provided, err := hex.DecodeString(signature)
	if err != nil {
		return "", false
	}
	expected, _ := hex.DecodeString(a.sign(payload))
	if !hmac.Equal(provided, expected) {
		return "", false
	}

	decoded, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return "", false
	}
	sep := strings.LastIndexByte(string(decoded), '|')
	if sep <= 0 {
		return "", false
	}
	email := string(decoded[:sep])
	expires, err := strconv.ParseInt(string(decoded[sep+1:]), 10, 64)
	if err != nil || a.now().Unix() >= expires {
		return "", false
	}

	return email, true
}

func (a *authService) sign(payload string) string {
	mac := hmac.New(sha256.New, a.sessionSecret)
	_, _ = mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

func (a *authService) setSessionCookie(w http.ResponseWriter, email string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    a.createSessionValue(email),
		Path:     "/",
		MaxAge:   int(sessionTTL / time.Second),
		HttpOnly: true,
		Secure:   a.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (a *authService) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   a.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (a *authService) isAuthenticated(r *http.Request) bool {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return false
	}
	_, ok := a.verifySessionValue(cookie.Value)
	return ok
}

type loginViewData struct {
	baseViewData
	Email string
}

func (s *server) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	if s.auth.isAuthenticated(r) {
		http.Redirect(w, r, "/estimates", http.StatusSeeOther)
		return
	}
	s.renderTemplate(w, http.StatusOK, "login.html", loginViewData{})
}

func (s *server) handleLoginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	email := strings.TrimSpace(r.PostFormValue("email"))
	valid, err := s.auth.validateCredentials(r.Context(), email, r.PostFormValue("password"))
	if err != nil {
		s.logger.Error("validate credentials", zap.Error(err))
		http.Error(w, "authentication error", http.StatusInternalServerError)
		return
	}
	if !valid {
		s.logger.Info("login rejected", zap.String("email", email))
		s.renderTemplate(w, http.StatusUnauthorized, "login.html", loginViewData{
			baseViewData: baseViewData{ErrorMessage: "Ugyldig e-post eller passord."},
			Email:        email,
		})
		return
	}

	s.auth.setSessionCookie(w, seed.NormalizeEmail(email))
	http.Redirect(w, r, "/estimates", http.StatusSeeOther)
}

func (s *server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.auth.clearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// requireAdmin sends visitors without a valid session to the login page.
func (s *server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.auth.isAuthenticated(r) {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}
