package web

import (
	"net/http"
	"time"

	"clubhouse/internal/adapters/email"
	"clubhouse/internal/adapters/http/middleware"
	accountStore "clubhouse/internal/adapters/storage/account"
	activityStore "clubhouse/internal/adapters/storage/activity"
	auditStore "clubhouse/internal/adapters/storage/audit"
	equipmentStore "clubhouse/internal/adapters/storage/equipment"
	memberStore "clubhouse/internal/adapters/storage/member"
	messageStore "clubhouse/internal/adapters/storage/message"
	organizationStore "clubhouse/internal/adapters/storage/organization"
	periodStore "clubhouse/internal/adapters/storage/period"
	settingsStore "clubhouse/internal/adapters/storage/settings"
	stampStore "clubhouse/internal/adapters/storage/stamp"
)

// Stores holds all storage dependencies.
type Stores struct {
	AccountStore      accountStore.Store
	OrganizationStore organizationStore.Store
	MemberStore       memberStore.Store
	PeriodStore       periodStore.Store
	SettingsStore     settingsStore.Store
	ActivityStore     activityStore.Store
	EquipmentStore    equipmentStore.Store
	StampStore        stampStore.Store
	MessageStore      messageStore.Store
	AuditStore        auditStore.Store
}

// Global stores instance (set by NewMux)
var stores *Stores

// Global session store instance
var sessions *middleware.SessionStore

// RateLimitPerSecond controls the per-IP rate limit. Tests can increase this.
var RateLimitPerSecond = 10

// Global email sender instance (set by SetEmailSender)
var emailSender email.Sender

// SetEmailSender sets the global email sender for the application.
func SetEmailSender(sender email.Sender) {
	emailSender = sender
}

// NewMux wires HTTP handlers for the app.
// PRE: csrfKey is 32 bytes
// POST: Returns the full handler chain ready for ListenAndServe
func NewMux(s *Stores, csrfKey []byte, secureCookies bool) http.Handler {
	stores = s
	sessions = middleware.NewSessionStore()
	middleware.SecureCookies = secureCookies

	mux := http.NewServeMux()
	registerRoutes(mux)

	limiter := middleware.NewRateLimiter(RateLimitPerSecond, time.Second)

	// Request path: RequestLog -> RateLimit -> Auth -> CSRF ->
	// SecurityHeaders -> Mux
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(csrfKey),
		middleware.Auth(sessions),
		middleware.RateLimit(limiter),
		middleware.RequestLog,
	)
}
