// Package adminlogin drives the admin sign-in: phone OTP, the system-owner
// bypass, tenant registration and the admin-access fallback check.
package adminlogin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/fastfixai/tenantsite/internal/apperr"
	"github.com/fastfixai/tenantsite/internal/metrics"
	"github.com/fastfixai/tenantsite/internal/models"
	"github.com/fastfixai/tenantsite/internal/notify"
	"github.com/fastfixai/tenantsite/internal/registration"
)

type State string

const (
	StateAwaitingCode      State = "awaiting_code"
	StateBypassAttempted   State = "bypass_attempted"
	StateStandardVerifying State = "standard_verifying"
	StateRegistered        State = "registered"
	StateDenied            State = "denied"
)

type Access string

const (
	AccessGranted Access = "granted"
	AccessPending Access = "pending"
	AccessDenied  Access = "denied"
)

const (
	msgCodeSent      = "Check your phone for the verification code."
	msgOwnerWelcome  = "Welcome, System Owner! Admin access granted."
	msgSignedIn      = "Successfully signed in to admin dashboard."
	msgPending       = "Your account is pending approval from an admin. Please contact your administrator."
	msgForbidden     = "You do not have permission to access the admin dashboard."
	msgDevWelcome    = "Welcome to local admin."
	devAdminName     = "Dev Admin"
	systemOwnerName  = "System Owner"
	msgInvalidCode   = "Invalid verification code"
	msgSendCodeError = "Failed to send verification code"
)

// Outcome is the result of one login step. Trace lists every state the
// attempt passed through, ending with State.
type Outcome struct {
	State   State         `json:"state"`
	Access  Access        `json:"access,omitempty"`
	Message string        `json:"message"`
	Session *Session      `json:"session,omitempty"`
	Role    models.Role   `json:"role,omitempty"`
	Status  models.Status `json:"status,omitempty"`
	Trace   []State       `json:"trace"`
}

func (o *Outcome) enter(s State) {
	o.State = s
	o.Trace = append(o.Trace, s)
}

// Members is the membership surface the login needs.
type Members interface {
	HasAdminAccess(ctx context.Context, tenantID, userID uuid.UUID) (bool, error)
	GrantAdminFlag(ctx context.Context, userID uuid.UUID, email string) error
	EnsureOwner(ctx context.Context, tenantID, userID uuid.UUID, name, email string) (*models.Membership, error)
}

type Config struct {
	TenantID          uuid.UUID
	SystemOwnerPhones []string
	DevBypass         bool
	DevPhone          string
	DevEmail          string
	DevPassword       string
}

type Flow struct {
	idp       IdentityProvider
	bypass    Bypass
	registrar Registrar
	members   Members
	cfg       Config
	logger    *slog.Logger
}

// NewFlow wires the login. bypass and registrar may be nil, which disables
// the owner bypass and tenant registration respectively.
func NewFlow(idp IdentityProvider, bypass Bypass, registrar Registrar, members Members, cfg Config) *Flow {
	return &Flow{
		idp:       idp,
		bypass:    bypass,
		registrar: registrar,
		members:   members,
		cfg:       cfg,
		logger:    slog.Default().With("fn", "admin-login"),
	}
}

var (
	nonDigit    = regexp.MustCompile(`\D`)
	codePattern = regexp.MustCompile(`^\d{6}$`)
)

// E164 normalises phone for the identity provider. US numbers get the +1
// country code; anything else keeps its digits behind "+".
func E164(phone string) string {
	digits := nonDigit.ReplaceAllString(phone, "")
	if notify.IsValidPhone(digits) {
		return notify.FormatPhoneToE164(digits)
	}
	return "+" + digits
}

func (f *Flow) isSystemOwner(phone string) bool {
	e164 := E164(phone)
	for _, p := range f.cfg.SystemOwnerPhones {
		if E164(p) == e164 {
			return true
		}
	}
	return false
}

// Origin is where a login request came from: Peer is the socket address of
// the connection, Host the request's Host header.
type Origin struct {
	Peer string
	Host string
}

// Local reports whether the connection peer is a loopback address and the
// Host names this machine.
func (o Origin) Local() bool {
	return isLoopbackPeer(o.Peer) && IsLoopback(o.Host)
}

func isLoopbackPeer(addr string) bool {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = strings.Trim(addr, "[]")
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

// IsLoopback reports whether host (with or without a port) names this machine.
func IsLoopback(host string) bool {
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.Trim(host, "[]")
	return host == "localhost" || host == "127.0.0.1" || host == "::1"
}

func (f *Flow) devAllowed(origin Origin) bool {
	return f.cfg.DevBypass && origin.Local()
}

// SendCode starts a login for phone. The development phone signs in
// immediately instead when the request comes from this machine.
func (f *Flow) SendCode(ctx context.Context, phone string, origin Origin) (*Outcome, error) {
	e164 := E164(phone)
	if e164 == "+" {
		return nil, apperr.Validation("Phone number is required")
	}

	if f.devAllowed(origin) && e164 == E164(f.cfg.DevPhone) {
		return f.devLogin(ctx)
	}

	if err := f.idp.SendOTP(ctx, e164); err != nil {
		f.logger.Error("send otp failed", "error", err)
		return nil, identityFailure(err, msgSendCodeError, apperr.Validation)
	}

	o := &Outcome{Message: msgCodeSent}
	o.enter(StateAwaitingCode)
	return o, nil
}

type VerifyInput struct {
	Phone string `json:"phone"`
	Code  string `json:"code"`
}

func (f *Flow) Verify(ctx context.Context, in VerifyInput) (*Outcome, error) {
	phone := E164(in.Phone)
	if phone == "+" {
		return nil, apperr.Validation("Phone number is required")
	}
	if !codePattern.MatchString(in.Code) {
		return nil, apperr.Validation("Verification code must be 6 digits")
	}

	o := &Outcome{}
	o.enter(StateAwaitingCode)

	if f.bypass != nil && f.isSystemOwner(phone) {
		o.enter(StateBypassAttempted)
		sess, err := f.bypass.Authenticate(ctx, phone, in.Code)
		if err == nil {
			f.registerOwner(ctx, sess, phone, o)
			return f.finish(o, AccessGranted, msgOwnerWelcome, sess), nil
		}
		if errors.Is(err, ErrNoSession) {
			f.logger.Info("bypass succeeded without session, using standard otp")
		} else {
			f.logger.Info("bypass attempt failed, using standard otp", "error", err)
		}
	}

	o.enter(StateStandardVerifying)
	sess, err := f.idp.VerifyOTP(ctx, phone, in.Code)
	if err != nil {
		f.logger.Warn("otp verification failed", "error", err)
		return nil, identityFailure(err, msgInvalidCode, apperr.Unauthorized)
	}

	if f.registering() {
		res, err := f.registrar.Register(ctx, sess.AccessToken, registration.Request{
			TenantID: f.cfg.TenantID.String(),
			Phone:    phone,
			Name:     sess.User.DisplayName(),
		})
		switch {
		case err != nil:
			f.logger.Error("error registering user", "user_id", sess.User.ID, "error", err)
		case res.Role.IsAdmin():
			o.Role, o.Status = res.Role, res.Status
			msg := res.Message
			if msg == "" {
				msg = msgSignedIn
			}
			return f.finish(o, AccessGranted, msg, sess), nil
		case res.Status == models.StatusPending:
			o.Role, o.Status = res.Role, res.Status
			f.signOut(ctx, sess)
			return f.finish(o, AccessPending, msgPending, nil), nil
		}
	}

	ok, err := f.members.HasAdminAccess(ctx, f.cfg.TenantID, sess.User.ID)
	if err != nil {
		f.logger.Error("admin access check failed", "user_id", sess.User.ID, "error", err)
		ok = false
	}
	if !ok {
		f.signOut(ctx, sess)
		return f.finish(o, AccessDenied, msgForbidden, nil), nil
	}
	return f.finish(o, AccessGranted, msgSignedIn, sess), nil
}

// CheckSession reports whether an already signed-in user may enter the admin area.
func (f *Flow) CheckSession(ctx context.Context, userID uuid.UUID) (bool, error) {
	ok, err := f.members.HasAdminAccess(ctx, f.cfg.TenantID, userID)
	if err != nil {
		return false, fmt.Errorf("check session: %w", err)
	}
	return ok, nil
}

func (f *Flow) registering() bool {
	return f.registrar != nil && f.cfg.TenantID != uuid.Nil
}

// registerOwner records the system owner in the tenant. Failures do not
// affect the login.
func (f *Flow) registerOwner(ctx context.Context, sess *Session, phone string, o *Outcome) {
	if !f.registering() {
		return
	}
	res, err := f.registrar.Register(ctx, sess.AccessToken, registration.Request{
		TenantID:      f.cfg.TenantID.String(),
		Phone:         phone,
		Name:          systemOwnerName,
		IsSystemOwner: true,
	})
	if err != nil {
		f.logger.Info("system owner registration (non-critical)", "error", err)
		return
	}
	o.Role, o.Status = res.Role, res.Status
}

func (f *Flow) devLogin(ctx context.Context) (*Outcome, error) {
	o := &Outcome{}
	o.enter(StateAwaitingCode)

	sess, err := f.idp.SignInWithPassword(ctx, f.cfg.DevEmail, f.cfg.DevPassword)
	if err != nil {
		created, signUpErr := f.idp.SignUp(ctx, f.cfg.DevEmail, f.cfg.DevPassword)
		if signUpErr != nil {
			return nil, apperr.Internal("Dev login failed", signUpErr)
		}
		sess, err = f.idp.SignInWithPassword(ctx, f.cfg.DevEmail, f.cfg.DevPassword)
		if err != nil {
			sess = created
		}
	}
	if sess == nil || sess.User == nil {
		return nil, apperr.Internal("Dev login failed", errors.New("no user returned"))
	}

	userID := sess.User.ID
	if err := f.members.GrantAdminFlag(ctx, userID, f.cfg.DevEmail); err != nil {
		return nil, apperr.Internal("Dev login failed", err)
	}
	if f.cfg.TenantID != uuid.Nil {
		m, err := f.members.EnsureOwner(ctx, f.cfg.TenantID, userID, devAdminName, f.cfg.DevEmail)
		if err != nil {
			f.logger.Warn("dev owner membership failed", "error", err)
		} else {
			o.Role, o.Status = m.Role, m.Status
		}
	}

	f.logger.Warn("dev login used", "user_id", userID)
	return f.finish(o, AccessGranted, msgDevWelcome, sess), nil
}

func (f *Flow) finish(o *Outcome, access Access, msg string, sess *Session) *Outcome {
	if access == AccessGranted {
		o.enter(StateRegistered)
	} else {
		o.enter(StateDenied)
	}
	o.Access = access
	o.Message = msg
	o.Session = sess
	metrics.LoginOutcomes.WithLabelValues(string(o.State), string(access)).Inc()
	return o
}

func (f *Flow) signOut(ctx context.Context, sess *Session) {
	if err := f.idp.SignOut(ctx, sess.AccessToken); err != nil {
		f.logger.Warn("sign out failed", "error", err)
	}
}

// identityFailure surfaces the provider's own message for client errors and
// a generic one otherwise.
func identityFailure(err error, fallback string, kind func(string) error) error {
	var ie *IdentityError
	if errors.As(err, &ie) && ie.StatusCode < 500 && ie.Message != "" {
		return kind(ie.Message)
	}
	if errors.As(err, &ie) {
		return kind(fallback)
	}
	return apperr.Internal(fallback, err)
}
