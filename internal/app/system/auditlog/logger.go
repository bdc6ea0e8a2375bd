// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/movehq/moveboard/internal/app/store/audit"
)

// Config holds audit logging configuration. Each category is one of
// "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), "off".
type Config struct {
	Auth  string
	Admin string
	Data  string
}

// Logger provides convenience methods for logging audit events.
// A nil *Logger is a no-op, so tests can pass nil.
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{
		store:  store,
		zapLog: zapLog,
		config: config,
	}
}

// Log records an audit event to the destinations the category is configured
// for.
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	var setting string
	switch event.Category {
	case audit.CategoryAuth:
		setting = l.config.Auth
	case audit.CategoryAdmin:
		setting = l.config.Admin
	case audit.CategoryData:
		setting = l.config.Data
	default:
		setting = "all"
	}

	if setting == "off" {
		return
	}
	if setting == "all" || setting == "log" {
		l.logToZap(event)
	}
	if setting == "all" || setting == "db" {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to write audit event",
				zap.String("event_type", event.EventType),
				zap.Error(err))
		}
	}
}

func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}
	if event.UserID != nil {
		fields = append(fields, zap.String("user_id", event.UserID.Hex()))
	}
	if event.ActorID != nil {
		fields = append(fields, zap.String("actor_id", event.ActorID.Hex()))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// getClientIP extracts the client IP from the request, preferring the
// reverse-proxy headers.
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

func baseEvent(r *http.Request, category, eventType string, success bool) audit.Event {
	return audit.Event{
		Category:  category,
		EventType: eventType,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   success,
	}
}

/* ------------------------------- auth events ------------------------------ */

// LoginSuccess records a successful login.
func (l *Logger) LoginSuccess(ctx context.Context, r *http.Request, userID primitive.ObjectID, loginID string) {
	if l == nil {
		return
	}
	e := baseEvent(r, audit.CategoryAuth, audit.EventLoginSuccess, true)
	e.UserID = &userID
	e.Details = map[string]string{"login_id": loginID}
	l.Log(ctx, e)
}

// LoginFailedUserNotFound records a login attempt for an unknown login_id.
func (l *Logger) LoginFailedUserNotFound(ctx context.Context, r *http.Request, attemptedLoginID string) {
	if l == nil {
		return
	}
	e := baseEvent(r, audit.CategoryAuth, audit.EventLoginFailedUserNotFound, false)
	e.FailureReason = "user_not_found"
	e.Details = map[string]string{"attempted_login_id": attemptedLoginID}
	l.Log(ctx, e)
}

// LoginFailedWrongPassword records a wrong-password attempt.
func (l *Logger) LoginFailedWrongPassword(ctx context.Context, r *http.Request, userID primitive.ObjectID, loginID string) {
	if l == nil {
		return
	}
	e := baseEvent(r, audit.CategoryAuth, audit.EventLoginFailedWrongPassword, false)
	e.UserID = &userID
	e.FailureReason = "wrong_password"
	e.Details = map[string]string{"login_id": loginID}
	l.Log(ctx, e)
}

// LoginFailedUserDisabled records a login attempt on a disabled account.
func (l *Logger) LoginFailedUserDisabled(ctx context.Context, r *http.Request, userID primitive.ObjectID, loginID string) {
	if l == nil {
		return
	}
	e := baseEvent(r, audit.CategoryAuth, audit.EventLoginFailedUserDisabled, false)
	e.UserID = &userID
	e.FailureReason = "user_disabled"
	e.Details = map[string]string{"login_id": loginID}
	l.Log(ctx, e)
}

// LoginRateLimited records a login attempt rejected by the rate limiter.
func (l *Logger) LoginRateLimited(ctx context.Context, r *http.Request, attemptedLoginID string) {
	if l == nil {
		return
	}
	e := baseEvent(r, audit.CategoryAuth, audit.EventLoginRateLimited, false)
	e.FailureReason = "rate_limited"
	e.Details = map[string]string{"attempted_login_id": attemptedLoginID}
	l.Log(ctx, e)
}

// LoginLockedOut records the failure that locked an account out.
func (l *Logger) LoginLockedOut(ctx context.Context, r *http.Request, attemptedLoginID string) {
	if l == nil {
		return
	}
	e := baseEvent(r, audit.CategoryAuth, audit.EventLoginLockedOut, false)
	e.FailureReason = "locked_out"
	e.Details = map[string]string{"attempted_login_id": attemptedLoginID}
	l.Log(ctx, e)
}

// Logout records a logout.
func (l *Logger) Logout(ctx context.Context, r *http.Request, userIDStr string) {
	if l == nil {
		return
	}
	e := baseEvent(r, audit.CategoryAuth, audit.EventLogout, true)
	if oid, err := primitive.ObjectIDFromHex(userIDStr); err == nil {
		e.UserID = &oid
	}
	l.Log(ctx, e)
}

/* ------------------------------ admin events ------------------------------ */

// RosterStatusChanged records an activate/deactivate toggle on a roster
// record (employee, freelancer, team or vehicle).
func (l *Logger) RosterStatusChanged(ctx context.Context, r *http.Request, actorID primitive.ObjectID, kind, recordID, status string) {
	if l == nil {
		return
	}
	e := baseEvent(r, audit.CategoryAdmin, audit.EventRosterStatusChanged, true)
	e.ActorID = &actorID
	e.Details = map[string]string{"kind": kind, "id": recordID, "status": status}
	l.Log(ctx, e)
}

/* ------------------------------- data events ------------------------------ */

// PaymentUpdated records an inline edit to an upstream payment row.
func (l *Logger) PaymentUpdated(ctx context.Context, r *http.Request, actorID primitive.ObjectID, paymentID string) {
	if l == nil {
		return
	}
	e := baseEvent(r, audit.CategoryData, audit.EventPaymentUpdated, true)
	e.ActorID = &actorID
	e.Details = map[string]string{"payment_id": paymentID}
	l.Log(ctx, e)
}

// PaymentDeleted records deletion of an upstream payment row.
func (l *Logger) PaymentDeleted(ctx context.Context, r *http.Request, actorID primitive.ObjectID, paymentID string) {
	if l == nil {
		return
	}
	e := baseEvent(r, audit.CategoryData, audit.EventPaymentDeleted, true)
	e.ActorID = &actorID
	e.Details = map[string]string{"payment_id": paymentID}
	l.Log(ctx, e)
}
