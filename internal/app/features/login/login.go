// internal/app/features/login/login.go
package login

// Terminology: User Identifiers
//   - UserID / userID / user_id: The MongoDB ObjectID (_id) that uniquely identifies a user record
//   - LoginID / loginID / login_id: The email-style string operators type to log in

import (
	"fmt"
	"net/http"
	"time"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	errorsfeature "github.com/movehq/moveboard/internal/app/features/errors"
	"github.com/movehq/moveboard/internal/app/store/ratelimit"
	userstore "github.com/movehq/moveboard/internal/app/store/users"
	"github.com/movehq/moveboard/internal/app/system/auditlog"
	"github.com/movehq/moveboard/internal/app/system/auth"
	"github.com/movehq/moveboard/internal/app/system/authutil"
	"github.com/movehq/moveboard/internal/app/system/viewdata"
)

// Handler serves the login form and runs credential checks.
type Handler struct {
	userStore      *userstore.Store
	rateLimitStore *ratelimit.Store // nil disables rate limiting
	sessionMgr     *auth.SessionManager
	errLog         *errorsfeature.ErrorLogger
	auditLogger    *auditlog.Logger
	logger         *zap.Logger
}

// NewHandler creates a new login Handler. rateLimitStore may be nil.
func NewHandler(
	db *mongo.Database,
	sessionMgr *auth.SessionManager,
	errLog *errorsfeature.ErrorLogger,
	auditLogger *auditlog.Logger,
	rateLimitStore *ratelimit.Store,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		userStore:      userstore.New(db),
		rateLimitStore: rateLimitStore,
		sessionMgr:     sessionMgr,
		errLog:         errLog,
		auditLogger:    auditLogger,
		logger:         logger,
	}
}

// LoginVM is the view model for the login page.
type LoginVM struct {
	viewdata.BaseVM
	Error     string
	LoginID   string
	ReturnURL string
}

// Routes returns a chi.Router with login routes mounted.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.ShowLogin)
	r.Post("/", h.HandleLogin)
	return r
}

// ShowLogin renders the login form. A signed-in user is sent home.
func (h *Handler) ShowLogin(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.CurrentUser(r); ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	vm := LoginVM{BaseVM: viewdata.New(r)}
	vm.Title = "Entrar"
	vm.ReturnURL = r.URL.Query().Get("return")
	templates.Render(w, r, "login/index", vm)
}

// HandleLogin checks credentials, applying the rate limiter before any
// user lookup so unknown logins are throttled too.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.errLog.Log(r, "failed to parse login form", err)
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	loginID := r.FormValue("login_id")
	password := r.FormValue("password")
	returnURL := r.FormValue("return")

	if h.rateLimitStore != nil {
		allowed, _, lockedUntil := h.rateLimitStore.CheckAllowed(r.Context(), loginID)
		if !allowed {
			h.auditLogger.LoginRateLimited(r.Context(), r, loginID)
			h.renderError(w, r, lockoutMessage(lockedUntil), loginID, returnURL)
			return
		}
	}

	user, err := h.userStore.GetByLoginID(r.Context(), loginID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			if h.rateLimitStore != nil {
				h.rateLimitStore.RecordFailure(r.Context(), loginID)
			}
			h.auditLogger.LoginFailedUserNotFound(r.Context(), r, loginID)
			h.renderError(w, r, "Credenciais inválidas.", loginID, returnURL)
			return
		}
		h.errLog.Log(r, "database error during login lookup", err)
		h.renderError(w, r, "Serviço indisponível no momento. Tente novamente.", loginID, returnURL)
		return
	}

	if !user.IsActive() {
		if h.rateLimitStore != nil {
			h.rateLimitStore.RecordFailure(r.Context(), loginID)
		}
		h.auditLogger.LoginFailedUserDisabled(r.Context(), r, user.ID, user.LoginID)
		h.renderError(w, r, "Conta desativada.", loginID, returnURL)
		return
	}

	if !authutil.CheckPassword(password, user.PasswordHash) {
		if h.rateLimitStore != nil {
			lockedOut, lockedUntil := h.rateLimitStore.RecordFailure(r.Context(), loginID)
			if lockedOut {
				h.auditLogger.LoginLockedOut(r.Context(), r, loginID)
				h.renderError(w, r, lockoutMessage(lockedUntil), loginID, returnURL)
				return
			}
		}
		h.auditLogger.LoginFailedWrongPassword(r.Context(), r, user.ID, user.LoginID)
		h.renderError(w, r, "Credenciais inválidas.", loginID, returnURL)
		return
	}

	if h.rateLimitStore != nil {
		if err := h.rateLimitStore.ClearOnSuccess(r.Context(), loginID); err != nil {
			h.logger.Warn("failed to clear rate limit", zap.Error(err))
		}
	}

	token, err := auth.GenerateSessionToken()
	if err != nil {
		h.errLog.Log(r, "failed to generate session token", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if err := h.sessionMgr.CreateSession(w, r, user.ID, token); err != nil {
		h.errLog.Log(r, "failed to create session", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	h.auditLogger.LoginSuccess(r.Context(), r, user.ID, user.LoginID)

	dest := safeReturnURL(returnURL)
	http.Redirect(w, r, dest, http.StatusSeeOther)
}

func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, msg, loginID, returnURL string) {
	vm := LoginVM{BaseVM: viewdata.New(r)}
	vm.Title = "Entrar"
	vm.Error = msg
	vm.LoginID = loginID
	vm.ReturnURL = returnURL
	templates.Render(w, r, "login/index", vm)
}

func lockoutMessage(lockedUntil *time.Time) string {
	if lockedUntil == nil {
		return "Muitas tentativas de login. Tente novamente mais tarde."
	}
	remaining := time.Until(*lockedUntil)
	if remaining > time.Minute {
		return fmt.Sprintf("Muitas tentativas de login. Tente novamente em %d minuto(s).", int(remaining.Minutes())+1)
	}
	return fmt.Sprintf("Muitas tentativas de login. Tente novamente em %d segundo(s).", int(remaining.Seconds())+1)
}

// safeReturnURL keeps redirects on this site. Anything absolute or
// protocol-relative falls back to the home page.
func safeReturnURL(raw string) string {
	if raw == "" || raw[0] != '/' {
		return "/"
	}
	if len(raw) > 1 && raw[1] == '/' {
		return "/"
	}
	return raw
}
