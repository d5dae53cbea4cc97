package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"clubhouse/internal/adapters/http/middleware"
	auditStore "clubhouse/internal/adapters/storage/audit"
	"clubhouse/internal/application/orchestrators"
	"clubhouse/internal/application/projections"
	activityDomain "clubhouse/internal/domain/activity"
	auditDomain "clubhouse/internal/domain/audit"
	equipmentDomain "clubhouse/internal/domain/equipment"
	"clubhouse/internal/domain/membership"
	organizationDomain "clubhouse/internal/domain/organization"
	settingsDomain "clubhouse/internal/domain/settings"
	stampDomain "clubhouse/internal/domain/stamp"
)

// timeNow is a variable for testability.
var timeNow = time.Now

// generateID creates a new UUID string.
func generateID() string {
	return uuid.New().String()
}

// internalError logs the real error and returns a generic message to the client.
// This prevents leaking internal details per OWASP A05.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// requireAdmin blocks the request unless the session role is admin.
func requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	if _, ok := middleware.GetSessionFromContext(r.Context()); !ok {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return false
	}
	if !middleware.IsAdmin(r.Context()) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return false
	}
	return true
}

// requireStaff blocks the request unless a session exists (any back-office role).
func requireStaff(w http.ResponseWriter, r *http.Request) bool {
	if _, ok := middleware.GetSessionFromContext(r.Context()); !ok {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return false
	}
	return true
}

func registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/login", handleLogin)
	mux.HandleFunc("POST /api/logout", handleLogout)

	mux.HandleFunc("GET /api/members", handleMemberList)
	mux.HandleFunc("POST /api/members", handleMemberCreate)
	mux.HandleFunc("GET /api/members/{id}", handleMemberProfile)
	mux.HandleFunc("DELETE /api/members/{id}", handleMemberDelete)
	mux.HandleFunc("POST /api/members/{id}/fee-payment", handleFeePayment)
	mux.HandleFunc("POST /api/members/{id}/terminate", handleTerminate)
	mux.HandleFunc("GET /api/members/{id}/messages", handleMemberMessages)
	mux.HandleFunc("GET /api/members/{id}/participations", handleMemberParticipations)

	mux.HandleFunc("GET /api/organizations", handleOrganizationList)
	mux.HandleFunc("POST /api/organizations", handleOrganizationCreate)
	mux.HandleFunc("DELETE /api/organizations/{id}", handleOrganizationDelete)

	mux.HandleFunc("GET /api/organizations/{id}/settings", handleSettingsGet)
	mux.HandleFunc("PUT /api/organizations/{id}/settings", handleSettingsPut)

	mux.HandleFunc("GET /api/activities", handleActivityList)
	mux.HandleFunc("POST /api/activities", handleActivityCreate)
	mux.HandleFunc("DELETE /api/activities/{id}", handleActivityDelete)
	mux.HandleFunc("POST /api/activities/{id}/participations", handleParticipationCreate)

	mux.HandleFunc("GET /api/equipment", handleEquipmentList)
	mux.HandleFunc("POST /api/equipment", handleEquipmentCreate)
	mux.HandleFunc("DELETE /api/equipment/{id}", handleEquipmentDelete)
	mux.HandleFunc("POST /api/equipment/{id}/issue", handleEquipmentIssue)

	mux.HandleFunc("GET /api/stamps", handleStampList)
	mux.HandleFunc("POST /api/stamps", handleStampCreate)
	mux.HandleFunc("POST /api/stamps/archive", handleStampArchive)

	mux.HandleFunc("POST /api/messages", handleMessageSend)
	mux.HandleFunc("POST /api/messages/{id}/read", handleMessageRead)
	mux.HandleFunc("DELETE /api/messages/{id}", handleMessageDelete)

	mux.HandleFunc("GET /api/audit", handleAuditList)

	mux.HandleFunc("POST /admin/status/sync-member-statuses", handleSyncMemberStatuses)
}

// handleSyncMemberStatuses handles POST /admin/status/sync-member-statuses.
// Runs the full status reconciliation and reports the counts. A run with
// per-member failures returns 500 with the partial counts in the same shape.
// PRE: caller is Admin
// POST: Status caches reconciled; returns the run result as JSON
func handleSyncMemberStatuses(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}
	sess, _ := middleware.GetSessionFromContext(r.Context())

	result := orchestrators.ExecuteSyncMemberStatuses(r.Context(), orchestrators.SyncMemberStatusesInput{
		ActorID: sess.AccountID,
	}, orchestrators.SyncMemberStatusesDeps{
		MemberStore:   stores.MemberStore,
		PeriodStore:   stores.PeriodStore,
		SettingsStore: stores.SettingsStore,
		AuditStore:    stores.AuditStore,
		Now:           timeNow,
		GenerateID:    generateID,
	})

	status := http.StatusOK
	if !result.Success {
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, result)
}

// handleLogin handles POST /api/login.
func handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := strictDecode(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	result, err := orchestrators.ExecuteLogin(r.Context(), orchestrators.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	}, orchestrators.LoginDeps{
		AccountStore: stores.AccountStore,
		AuditStore:   stores.AuditStore,
		Now:          timeNow,
		GenerateID:   generateID,
	})
	if err != nil {
		status := http.StatusUnauthorized
		if errors.Is(err, orchestrators.ErrAccountLocked) {
			status = http.StatusTooManyRequests
		}
		http.Error(w, err.Error(), status)
		return
	}

	token, err := sessions.Create(result.AccountID, result.Email, result.Role)
	if err != nil {
		internalError(w, err)
		return
	}
	middleware.SetSessionCookie(w, token)
	writeJSON(w, http.StatusOK, map[string]string{
		"accountId": result.AccountID,
		"email":     result.Email,
		"role":      result.Role,
	})
}

// handleLogout handles POST /api/logout.
func handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie("clubhouse_session"); err == nil {
		sessions.Delete(cookie.Value)
	}
	middleware.ClearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// handleMemberList handles GET /api/members.
// Returns members annotated with the derived detailed status and activity
// classification. The status query parameter filters on the cached column.
func handleMemberList(w http.ResponseWriter, r *http.Request) {
	if !requireStaff(w, r) {
		return
	}
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("perPage"))
	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 50
	}

	result, err := projections.QueryGetMemberList(r.Context(), projections.GetMemberListQuery{
		OrganizationID: q.Get("organization"),
		Status:         q.Get("status"),
		Search:         q.Get("search"),
		Limit:          limit,
		Offset:         (page - 1) * limit,
		Sort:           q.Get("sort"),
		Dir:            q.Get("dir"),
	}, projections.GetMemberListDeps{
		MemberStore:   stores.MemberStore,
		PeriodStore:   stores.PeriodStore,
		SettingsStore: stores.SettingsStore,
		Now:           timeNow,
	})
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleMemberCreate handles POST /api/members.
func handleMemberCreate(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}
	var req struct {
		OrganizationID string `json:"organizationId"`
		Name           string `json:"name"`
		Lastname       string `json:"lastname"`
		Email          string `json:"email"`
	}
	if err := strictDecode(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	sess, _ := middleware.GetSessionFromContext(r.Context())

	m, err := orchestrators.ExecuteRegisterMember(r.Context(), orchestrators.RegisterMemberInput{
		OrganizationID: req.OrganizationID,
		Name:           req.Name,
		Lastname:       req.Lastname,
		Email:          req.Email,
		ActorID:        sess.AccountID,
	}, orchestrators.RegisterMemberDeps{
		MemberStore: stores.MemberStore,
		AuditStore:  stores.AuditStore,
		Now:         timeNow,
		GenerateID:  generateID,
	})
	if err != nil {
		if errors.Is(err, orchestrators.ErrEmailTaken) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

// handleMemberProfile handles GET /api/members/{id}.
func handleMemberProfile(w http.ResponseWriter, r *http.Request) {
	if !requireStaff(w, r) {
		return
	}
	result, err := projections.QueryGetMemberProfile(r.Context(), r.PathValue("id"), projections.GetMemberProfileDeps{
		MemberStore:   stores.MemberStore,
		PeriodStore:   stores.PeriodStore,
		SettingsStore: stores.SettingsStore,
		Now:           timeNow,
	})
	if err != nil {
		http.Error(w, "member not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleMemberDelete handles DELETE /api/members/{id}.
func handleMemberDelete(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}
	id := r.PathValue("id")
	if _, err := stores.MemberStore.GetByID(r.Context(), id); err != nil {
		http.Error(w, "member not found", http.StatusNotFound)
		return
	}
	if err := stores.MemberStore.Delete(r.Context(), id); err != nil {
		internalError(w, err)
		return
	}
	slog.Info("member_event", "event", "member_deleted", "member_id", id)
	w.WriteHeader(http.StatusNoContent)
}

// handleFeePayment handles POST /api/members/{id}/fee-payment.
func handleFeePayment(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}
	var req struct {
		PaymentYear int    `json:"paymentYear"`
		PaymentDate string `json:"paymentDate"` // YYYY-MM-DD
		CardNumber  string `json:"cardNumber"`
	}
	if err := strictDecode(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	paymentDate, err := time.Parse("2006-01-02", req.PaymentDate)
	if err != nil {
		http.Error(w, "paymentDate must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	sess, _ := middleware.GetSessionFromContext(r.Context())

	err = orchestrators.ExecuteRecordFeePayment(r.Context(), orchestrators.RecordFeePaymentInput{
		MemberID:    r.PathValue("id"),
		PaymentYear: req.PaymentYear,
		PaymentDate: paymentDate,
		CardNumber:  req.CardNumber,
		ActorID:     sess.AccountID,
	}, orchestrators.RecordFeePaymentDeps{
		MemberStore: stores.MemberStore,
		PeriodStore: stores.PeriodStore,
		AuditStore:  stores.AuditStore,
		Now:         timeNow,
		GenerateID:  generateID,
	})
	if err != nil {
		if errors.Is(err, orchestrators.ErrInvalidPaymentYear) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// handleTerminate handles POST /api/members/{id}/terminate.
func handleTerminate(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}
	var req struct {
		EndDate string `json:"endDate"` // YYYY-MM-DD, defaults to today
		Reason  string `json:"reason"`
	}
	if err := strictDecode(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	var endDate time.Time
	if req.EndDate != "" {
		var err error
		endDate, err = time.Parse("2006-01-02", req.EndDate)
		if err != nil {
			http.Error(w, "endDate must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
	}
	sess, _ := middleware.GetSessionFromContext(r.Context())

	err := orchestrators.ExecuteTerminateMembership(r.Context(), orchestrators.TerminateMembershipInput{
		MemberID: r.PathValue("id"),
		EndDate:  endDate,
		Reason:   req.Reason,
		ActorID:  sess.AccountID,
	}, orchestrators.TerminateMembershipDeps{
		MemberStore: stores.MemberStore,
		PeriodStore: stores.PeriodStore,
		AuditStore:  stores.AuditStore,
		Now:         timeNow,
		GenerateID:  generateID,
	})
	if err != nil {
		switch {
		case errors.Is(err, membership.ErrInvalidEndReason), errors.Is(err, membership.ErrEndBeforeStart):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, orchestrators.ErrNoOpenPeriod):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			internalError(w, err)
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// handleMemberMessages handles GET /api/members/{id}/messages.
func handleMemberMessages(w http.ResponseWriter, r *http.Request) {
	if !requireStaff(w, r) {
		return
	}
	msgs, err := stores.MessageStore.ListByReceiver(r.Context(), r.PathValue("id"))
	if err != nil {
		internalError(w, err)
		return
	}
	unread, err := stores.MessageStore.CountUnread(r.Context(), r.PathValue("id"))
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"messages": msgs, "unreadCount": unread})
}

// handleMemberParticipations handles GET /api/members/{id}/participations.
func handleMemberParticipations(w http.ResponseWriter, r *http.Request) {
	if !requireStaff(w, r) {
		return
	}
	participations, err := stores.ActivityStore.ListParticipationsByMember(r.Context(), r.PathValue("id"))
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"participations": participations})
}

// handleOrganizationList handles GET /api/organizations.
func handleOrganizationList(w http.ResponseWriter, r *http.Request) {
	if !requireStaff(w, r) {
		return
	}
	orgs, err := stores.OrganizationStore.List(r.Context())
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"organizations": orgs})
}

// handleOrganizationCreate handles POST /api/organizations.
func handleOrganizationCreate(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}
	var req struct {
		Name  string `json:"name"`
		City  string `json:"city"`
		Email string `json:"email"`
	}
	if err := strictDecode(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	org := organizationDomain.Organization{
		ID:        generateID(),
		Name:      req.Name,
		City:      req.City,
		Email:     req.Email,
		Active:    true,
		CreatedAt: timeNow(),
	}
	if err := org.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := stores.OrganizationStore.Save(r.Context(), org); err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, org)
}

// handleOrganizationDelete handles DELETE /api/organizations/{id}.
func handleOrganizationDelete(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}
	id := r.PathValue("id")
	if _, err := stores.OrganizationStore.GetByID(r.Context(), id); err != nil {
		http.Error(w, "organization not found", http.StatusNotFound)
		return
	}
	if err := stores.OrganizationStore.Delete(r.Context(), id); err != nil {
		internalError(w, err)
		return
	}
	slog.Info("organization_event", "event", "organization_deleted", "organization_id", id)
	w.WriteHeader(http.StatusNoContent)
}

// handleSettingsGet handles GET /api/organizations/{id}/settings.
// Returns the stored settings or the documented defaults.
func handleSettingsGet(w http.ResponseWriter, r *http.Request) {
	if !requireStaff(w, r) {
		return
	}
	cfg, err := stores.SettingsStore.GetByOrganizationID(r.Context(), r.PathValue("id"))
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

// handleSettingsPut handles PUT /api/organizations/{id}/settings.
func handleSettingsPut(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}
	var req struct {
		RenewalStartMonth      int `json:"renewalStartMonth"`
		RenewalStartDay        int `json:"renewalStartDay"`
		ActivityHoursThreshold int `json:"activityHoursThreshold"`
	}
	if err := strictDecode(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	cfg := settingsDomain.RenewalSettings{
		OrganizationID:         r.PathValue("id"),
		RenewalStartMonth:      time.Month(req.RenewalStartMonth),
		RenewalStartDay:        req.RenewalStartDay,
		ActivityHoursThreshold: req.ActivityHoursThreshold,
		UpdatedAt:              timeNow(),
	}
	if err := cfg.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := stores.SettingsStore.Save(r.Context(), cfg); err != nil {
		internalError(w, err)
		return
	}
	slog.Info("settings_event", "event", "renewal_settings_updated", "organization_id", cfg.OrganizationID)
	writeJSON(w, http.StatusOK, cfg)
}

// handleActivityList handles GET /api/activities.
func handleActivityList(w http.ResponseWriter, r *http.Request) {
	if !requireStaff(w, r) {
		return
	}
	activities, err := stores.ActivityStore.List(r.Context(), r.URL.Query().Get("organization"))
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"activities": activities})
}

// handleActivityCreate handles POST /api/activities.
func handleActivityCreate(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}
	var req struct {
		OrganizationID    string `json:"organizationId"`
		Title             string `json:"title"`
		Description       string `json:"description"`
		Date              string `json:"date"` // YYYY-MM-DD
		RecognizedMinutes int    `json:"recognizedMinutes"`
	}
	if err := strictDecode(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	sess, _ := middleware.GetSessionFromContext(r.Context())
	act := activityDomain.Activity{
		ID:                generateID(),
		OrganizationID:    req.OrganizationID,
		Title:             req.Title,
		Description:       req.Description,
		Date:              date,
		Status:            activityDomain.StatusPlanned,
		RecognizedMinutes: req.RecognizedMinutes,
		CreatedBy:         sess.AccountID,
		CreatedAt:         timeNow(),
	}
	if err := act.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := stores.ActivityStore.Save(r.Context(), act); err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, act)
}

// handleActivityDelete handles DELETE /api/activities/{id}.
func handleActivityDelete(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}
	id := r.PathValue("id")
	if _, err := stores.ActivityStore.GetByID(r.Context(), id); err != nil {
		http.Error(w, "activity not found", http.StatusNotFound)
		return
	}
	if err := stores.ActivityStore.Delete(r.Context(), id); err != nil {
		internalError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleParticipationCreate handles POST /api/activities/{id}/participations.
func handleParticipationCreate(w http.ResponseWriter, r *http.Request) {
	if !requireStaff(w, r) {
		return
	}
	var req struct {
		MemberID string `json:"memberId"`
		Minutes  int    `json:"minutes"`
	}
	if err := strictDecode(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	sess, _ := middleware.GetSessionFromContext(r.Context())

	p, err := orchestrators.ExecuteRecordParticipation(r.Context(), orchestrators.RecordParticipationInput{
		ActivityID: r.PathValue("id"),
		MemberID:   req.MemberID,
		Minutes:    req.Minutes,
		ActorID:    sess.AccountID,
	}, orchestrators.RecordParticipationDeps{
		ActivityStore: stores.ActivityStore,
		MemberStore:   stores.MemberStore,
		AuditStore:    stores.AuditStore,
		Now:           timeNow,
		GenerateID:    generateID,
	})
	if err != nil {
		if errors.Is(err, orchestrators.ErrAlreadyParticipating) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// handleEquipmentList handles GET /api/equipment.
func handleEquipmentList(w http.ResponseWriter, r *http.Request) {
	if !requireStaff(w, r) {
		return
	}
	items, err := stores.EquipmentStore.List(r.Context(), r.URL.Query().Get("organization"))
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// handleEquipmentCreate handles POST /api/equipment.
func handleEquipmentCreate(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}
	var req struct {
		OrganizationID string `json:"organizationId"`
		GearType       string `json:"gearType"`
		Size           string `json:"size"`
		Initial        int    `json:"initial"`
	}
	if err := strictDecode(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	item := equipmentDomain.Item{
		ID:             generateID(),
		OrganizationID: req.OrganizationID,
		GearType:       req.GearType,
		Size:           req.Size,
		Initial:        req.Initial,
	}
	if err := item.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := stores.EquipmentStore.Save(r.Context(), item); err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

// handleEquipmentDelete handles DELETE /api/equipment/{id}.
func handleEquipmentDelete(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}
	id := r.PathValue("id")
	if _, err := stores.EquipmentStore.GetByID(r.Context(), id); err != nil {
		http.Error(w, "equipment item not found", http.StatusNotFound)
		return
	}
	if err := stores.EquipmentStore.Delete(r.Context(), id); err != nil {
		internalError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleEquipmentIssue handles POST /api/equipment/{id}/issue.
func handleEquipmentIssue(w http.ResponseWriter, r *http.Request) {
	if !requireStaff(w, r) {
		return
	}
	item, err := stores.EquipmentStore.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		http.Error(w, "equipment item not found", http.StatusNotFound)
		return
	}
	if err := item.Issue(); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	if err := stores.EquipmentStore.Save(r.Context(), item); err != nil {
		internalError(w, err)
		return
	}
	slog.Info("equipment_event", "event", "item_issued", "item_id", item.ID, "remaining", item.Remaining())
	writeJSON(w, http.StatusOK, item)
}

// handleStampList handles GET /api/stamps.
func handleStampList(w http.ResponseWriter, r *http.Request) {
	if !requireStaff(w, r) {
		return
	}
	inventories, err := stores.StampStore.List(r.Context(), r.URL.Query().Get("organization"))
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"inventories": inventories})
}

// handleStampCreate handles POST /api/stamps.
func handleStampCreate(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}
	var req struct {
		OrganizationID string `json:"organizationId"`
		Year           int    `json:"year"`
		StampType      string `json:"stampType"`
		Initial        int    `json:"initial"`
	}
	if err := strictDecode(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	inv := stampDomain.Inventory{
		ID:             generateID(),
		OrganizationID: req.OrganizationID,
		Year:           req.Year,
		StampType:      req.StampType,
		Initial:        req.Initial,
	}
	if err := inv.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := stores.StampStore.Save(r.Context(), inv); err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, inv)
}

// handleStampArchive handles POST /api/stamps/archive.
// Archives all past-year inventories; safe to call repeatedly.
func handleStampArchive(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}
	archived, err := orchestrators.ExecuteArchiveStamps(r.Context(), orchestrators.ArchiveStampsDeps{
		StampStore: stores.StampStore,
		AuditStore: stores.AuditStore,
		Now:        timeNow,
		GenerateID: generateID,
	})
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"archived": archived})
}

// handleMessageSend handles POST /api/messages.
func handleMessageSend(w http.ResponseWriter, r *http.Request) {
	if !requireStaff(w, r) {
		return
	}
	var req struct {
		ReceiverID    string `json:"receiverId"`
		Subject       string `json:"subject"`
		Content       string `json:"content"`
		NotifyByEmail bool   `json:"notifyByEmail"`
	}
	if err := strictDecode(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	sess, _ := middleware.GetSessionFromContext(r.Context())

	msg, err := orchestrators.ExecuteSendMessage(r.Context(), orchestrators.SendMessageInput{
		SenderID:      sess.AccountID,
		ReceiverID:    req.ReceiverID,
		Subject:       req.Subject,
		Content:       req.Content,
		NotifyByEmail: req.NotifyByEmail,
	}, orchestrators.SendMessageDeps{
		MessageStore: stores.MessageStore,
		MemberStore:  stores.MemberStore,
		AuditStore:   stores.AuditStore,
		EmailSender:  emailSender,
		Now:          timeNow,
		GenerateID:   generateID,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}

// handleMessageRead handles POST /api/messages/{id}/read.
func handleMessageRead(w http.ResponseWriter, r *http.Request) {
	if !requireStaff(w, r) {
		return
	}
	msg, err := stores.MessageStore.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		http.Error(w, "message not found", http.StatusNotFound)
		return
	}
	msg.MarkRead(timeNow())
	if err := stores.MessageStore.Save(r.Context(), msg); err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, msg)
}

// handleMessageDelete handles DELETE /api/messages/{id}.
func handleMessageDelete(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}
	id := r.PathValue("id")
	if _, err := stores.MessageStore.GetByID(r.Context(), id); err != nil {
		http.Error(w, "message not found", http.StatusNotFound)
		return
	}
	if err := stores.MessageStore.Delete(r.Context(), id); err != nil {
		internalError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleAuditList handles GET /api/audit.
// PRE: caller is Admin
// POST: Returns audit events, newest first
func handleAuditList(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	var filter auditStore.Filter
	if v := q.Get("category"); v != "" {
		c := auditDomain.Category(v)
		filter.Category = &c
	}
	if v := q.Get("action"); v != "" {
		a := auditDomain.Action(v)
		filter.Action = &a
	}
	if v := q.Get("actor"); v != "" {
		filter.ActorID = &v
	}

	events, err := stores.AuditStore.List(r.Context(), filter, limit)
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": events})
}
