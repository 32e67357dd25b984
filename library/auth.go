package library

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Role is the access level bound to a session after login.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleStudent Role = "student"
)

// Session carries the login state for one user of the process: the role,
// the bound student identity, and any one-time code waiting for
// verification. It is created before login and cleared by Logout.
type Session struct {
	ID        string
	Role      Role
	StudentID int

	pendingStudent int
	pendingCode    string
}

// NewSession returns a fresh unauthenticated session.
func NewSession() *Session {
	return &Session{ID: uuid.NewString()}
}

// LoggedIn reports whether the session has a role bound.
func (s *Session) LoggedIn() bool { return s.Role != "" }

// CodeSender delivers a one-time login code out of band. Implementations
// must treat delivery failure as reportable, not fatal.
type CodeSender interface {
	SendCode(ctx context.Context, email, code string) error
}

// AdminCredentials is the single static admin login pair. The password
// value may be a bcrypt hash (recognized by its "$2" prefix) instead of a
// plaintext value.
type AdminCredentials struct {
	Username string
	Password string
}

// Authenticator performs the three login flows against a Library and binds
// the outcome to a Session.
type Authenticator struct {
	lib     *Library
	admin   AdminCredentials
	sender  CodeSender
	genCode func() string
	log     *slog.Logger
}

// NewAuthenticator wires an Authenticator to its library, admin
// credentials, and code sender.
func NewAuthenticator(lib *Library, admin AdminCredentials, sender CodeSender) *Authenticator {
	return &Authenticator{
		lib:     lib,
		admin:   admin,
		sender:  sender,
		genCode: randomCode,
		log:     lib.log,
	}
}

// randomCode draws a six-digit code uniformly from [100000, 999999].
func randomCode() string {
	return strconv.Itoa(100000 + rand.IntN(900000))
}

// LoginAdmin binds the admin role when the username and password match the
// configured pair exactly, or when the configured value is a bcrypt hash of
// the supplied password.
func (a *Authenticator) LoginAdmin(sess *Session, username, password string) error {
	if username != a.admin.Username || !verifyPassword(a.admin.Password, password) {
		return ErrAuthFailed
	}
	sess.Role = RoleAdmin
	sess.StudentID = 0
	sess.clearPending()
	a.log.Info("admin logged in", "session", sess.ID)
	return nil
}

func verifyPassword(stored, supplied string) bool {
	if strings.HasPrefix(stored, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(supplied)) == nil
	}
	return stored == supplied
}

// LoginStudent binds the student role for a matching enrollment number and
// password.
func (a *Authenticator) LoginStudent(sess *Session, enrollmentNo, password string) error {
	id, ok := a.lib.studentMatching(func(s *Student) bool {
		return s.EnrollmentNo == enrollmentNo && s.Password == password
	})
	if !ok {
		return ErrAuthFailed
	}
	sess.Role = RoleStudent
	sess.StudentID = id
	sess.clearPending()
	a.log.Info("student logged in", "session", sess.ID, "student", id)
	return nil
}

// BeginCodeLogin starts the one-time-code flow: it matches the enrollment
// number and registered email, generates a code, and hands it to the
// sender. The code is held on the session only after delivery succeeds; a
// delivery failure leaves the session untouched.
func (a *Authenticator) BeginCodeLogin(ctx context.Context, sess *Session, enrollmentNo, email string) error {
	id, ok := a.lib.studentMatching(func(s *Student) bool {
		return s.EnrollmentNo == enrollmentNo && s.Email == email
	})
	if !ok {
		return ErrAuthFailed
	}

	code := a.genCode()
	if err := a.sender.SendCode(ctx, email, code); err != nil {
		a.log.Warn("one-time code delivery failed", "student", id, "error", err)
		return fmt.Errorf("send one-time code: %w", err)
	}
	sess.pendingStudent = id
	sess.pendingCode = code
	a.log.Info("one-time code sent", "session", sess.ID, "student", id)
	return nil
}

// VerifyCode completes the one-time-code flow. The held code is single use:
// a mismatch discards it, so another BeginCodeLogin is needed before the
// next attempt.
func (a *Authenticator) VerifyCode(sess *Session, code string) error {
	if sess.pendingCode == "" {
		return ErrAuthFailed
	}
	if code != sess.pendingCode {
		sess.clearPending()
		return ErrAuthFailed
	}
	sess.Role = RoleStudent
	sess.StudentID = sess.pendingStudent
	sess.clearPending()
	a.log.Info("student logged in via code", "session", sess.ID, "student", sess.StudentID)
	return nil
}

// Logout clears the role, the bound student identity, and any pending
// one-time code.
func (a *Authenticator) Logout(sess *Session) {
	sess.Role = ""
	sess.StudentID = 0
	sess.clearPending()
}

func (s *Session) clearPending() {
	s.pendingStudent = 0
	s.pendingCode = ""
}

// studentMatching scans the students for the first match, under the
// library mutex.
func (l *Library) studentMatching(match func(*Student) bool) (int, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, s := range l.students {
		if match(s) {
			return s.ID, true
		}
	}
	return 0, false
}
