package web

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"clubhouse/internal/adapters/http/middleware"
	auditStore "clubhouse/internal/adapters/storage/audit"
	memberStore "clubhouse/internal/adapters/storage/member"
	"clubhouse/internal/application/orchestrators"

	accountDomain "clubhouse/internal/domain/account"
	activityDomain "clubhouse/internal/domain/activity"
	auditDomain "clubhouse/internal/domain/audit"
	equipmentDomain "clubhouse/internal/domain/equipment"
	memberDomain "clubhouse/internal/domain/member"
	"clubhouse/internal/domain/membership"
	messageDomain "clubhouse/internal/domain/message"
	organizationDomain "clubhouse/internal/domain/organization"
	settingsDomain "clubhouse/internal/domain/settings"
	stampDomain "clubhouse/internal/domain/stamp"
)

// --- Mock stores ---

type mockAccountStore struct {
	accounts map[string]accountDomain.Account
}

func (m *mockAccountStore) GetByID(_ context.Context, id string) (accountDomain.Account, error) {
	if a, ok := m.accounts[id]; ok {
		return a, nil
	}
	return accountDomain.Account{}, sql.ErrNoRows
}

func (m *mockAccountStore) GetByEmail(_ context.Context, email string) (accountDomain.Account, error) {
	for _, a := range m.accounts {
		if a.Email == email {
			return a, nil
		}
	}
	return accountDomain.Account{}, sql.ErrNoRows
}

func (m *mockAccountStore) Save(_ context.Context, a accountDomain.Account) error {
	m.accounts[a.ID] = a
	return nil
}

func (m *mockAccountStore) Count(_ context.Context) (int, error) {
	return len(m.accounts), nil
}

type mockMemberStore struct {
	members map[string]memberDomain.Member
}

func (m *mockMemberStore) GetByID(_ context.Context, id string) (memberDomain.Member, error) {
	if v, ok := m.members[id]; ok {
		return v, nil
	}
	return memberDomain.Member{}, errors.New("member not found")
}

func (m *mockMemberStore) GetByEmail(_ context.Context, email string) (memberDomain.Member, error) {
	for _, v := range m.members {
		if v.Email == email {
			return v, nil
		}
	}
	return memberDomain.Member{}, sql.ErrNoRows
}

func (m *mockMemberStore) Save(_ context.Context, v memberDomain.Member) error {
	m.members[v.ID] = v
	return nil
}

func (m *mockMemberStore) Delete(_ context.Context, id string) error {
	delete(m.members, id)
	return nil
}

func (m *mockMemberStore) List(_ context.Context, _ memberStore.ListFilter) ([]memberDomain.Member, error) {
	var list []memberDomain.Member
	for _, v := range m.members {
		list = append(list, v)
	}
	return list, nil
}

func (m *mockMemberStore) Count(_ context.Context, _ memberStore.ListFilter) (int, error) {
	return len(m.members), nil
}

func (m *mockMemberStore) UpdateStatus(_ context.Context, id, status string, registrationCompleted bool) error {
	v := m.members[id]
	v.Status = status
	v.RegistrationCompleted = registrationCompleted
	m.members[id] = v
	return nil
}

func (m *mockMemberStore) SetInactiveAndClosePeriods(_ context.Context, id string, _ []memberStore.PeriodClosure) error {
	v := m.members[id]
	v.Status = memberDomain.StatusInactive
	m.members[id] = v
	return nil
}

func (m *mockMemberStore) AddActivityMinutes(_ context.Context, id string, minutes int) error {
	v := m.members[id]
	v.ActivityMinutes += minutes
	m.members[id] = v
	return nil
}

type mockPeriodStore struct {
	periods map[string][]membership.Period
}

func (m *mockPeriodStore) GetByID(_ context.Context, id string) (membership.Period, error) {
	for _, list := range m.periods {
		for _, p := range list {
			if p.ID == id {
				return p, nil
			}
		}
	}
	return membership.Period{}, sql.ErrNoRows
}

func (m *mockPeriodStore) Save(_ context.Context, p membership.Period) error {
	m.periods[p.MemberID] = append(m.periods[p.MemberID], p)
	return nil
}

func (m *mockPeriodStore) ListByMemberID(_ context.Context, memberID string) ([]membership.Period, error) {
	return m.periods[memberID], nil
}

func (m *mockPeriodStore) ListOpenByMemberID(_ context.Context, memberID string) ([]membership.Period, error) {
	return membership.OpenPeriods(m.periods[memberID]), nil
}

type mockSettingsStore struct {
	settings map[string]settingsDomain.RenewalSettings
}

func (m *mockSettingsStore) GetByOrganizationID(_ context.Context, organizationID string) (settingsDomain.RenewalSettings, error) {
	if s, ok := m.settings[organizationID]; ok {
		return s, nil
	}
	return settingsDomain.Default(organizationID), nil
}

func (m *mockSettingsStore) Save(_ context.Context, s settingsDomain.RenewalSettings) error {
	m.settings[s.OrganizationID] = s
	return nil
}

type mockOrganizationStore struct {
	orgs map[string]organizationDomain.Organization
}

func (m *mockOrganizationStore) GetByID(_ context.Context, id string) (organizationDomain.Organization, error) {
	if o, ok := m.orgs[id]; ok {
		return o, nil
	}
	return organizationDomain.Organization{}, sql.ErrNoRows
}

func (m *mockOrganizationStore) Save(_ context.Context, o organizationDomain.Organization) error {
	m.orgs[o.ID] = o
	return nil
}

func (m *mockOrganizationStore) Delete(_ context.Context, id string) error {
	delete(m.orgs, id)
	return nil
}

func (m *mockOrganizationStore) List(_ context.Context) ([]organizationDomain.Organization, error) {
	var list []organizationDomain.Organization
	for _, o := range m.orgs {
		list = append(list, o)
	}
	return list, nil
}

type mockActivityStore struct {
	activities     map[string]activityDomain.Activity
	participations map[string][]activityDomain.Participation
}

func (m *mockActivityStore) GetByID(_ context.Context, id string) (activityDomain.Activity, error) {
	if a, ok := m.activities[id]; ok {
		return a, nil
	}
	return activityDomain.Activity{}, errors.New("activity not found")
}

func (m *mockActivityStore) Save(_ context.Context, a activityDomain.Activity) error {
	m.activities[a.ID] = a
	return nil
}

func (m *mockActivityStore) Delete(_ context.Context, id string) error {
	delete(m.activities, id)
	return nil
}

func (m *mockActivityStore) List(_ context.Context, _ string) ([]activityDomain.Activity, error) {
	var list []activityDomain.Activity
	for _, a := range m.activities {
		list = append(list, a)
	}
	return list, nil
}

func (m *mockActivityStore) SaveParticipation(_ context.Context, p activityDomain.Participation) error {
	m.participations[p.ActivityID] = append(m.participations[p.ActivityID], p)
	return nil
}

func (m *mockActivityStore) ListParticipations(_ context.Context, activityID string) ([]activityDomain.Participation, error) {
	return m.participations[activityID], nil
}

func (m *mockActivityStore) ListParticipationsByMember(_ context.Context, memberID string) ([]activityDomain.Participation, error) {
	var list []activityDomain.Participation
	for _, ps := range m.participations {
		for _, p := range ps {
			if p.MemberID == memberID {
				list = append(list, p)
			}
		}
	}
	return list, nil
}

type mockEquipmentStore struct {
	items map[string]equipmentDomain.Item
}

func (m *mockEquipmentStore) GetByID(_ context.Context, id string) (equipmentDomain.Item, error) {
	if i, ok := m.items[id]; ok {
		return i, nil
	}
	return equipmentDomain.Item{}, errors.New("item not found")
}

func (m *mockEquipmentStore) Save(_ context.Context, i equipmentDomain.Item) error {
	m.items[i.ID] = i
	return nil
}

func (m *mockEquipmentStore) Delete(_ context.Context, id string) error {
	delete(m.items, id)
	return nil
}

func (m *mockEquipmentStore) List(_ context.Context, _ string) ([]equipmentDomain.Item, error) {
	var list []equipmentDomain.Item
	for _, i := range m.items {
		list = append(list, i)
	}
	return list, nil
}

type mockStampStore struct {
	inventories map[string]stampDomain.Inventory
}

func (m *mockStampStore) GetByID(_ context.Context, id string) (stampDomain.Inventory, error) {
	if i, ok := m.inventories[id]; ok {
		return i, nil
	}
	return stampDomain.Inventory{}, errors.New("inventory not found")
}

func (m *mockStampStore) Save(_ context.Context, i stampDomain.Inventory) error {
	m.inventories[i.ID] = i
	return nil
}

func (m *mockStampStore) List(_ context.Context, _ string) ([]stampDomain.Inventory, error) {
	var list []stampDomain.Inventory
	for _, i := range m.inventories {
		list = append(list, i)
	}
	return list, nil
}

func (m *mockStampStore) ListUnarchivedBefore(_ context.Context, year int) ([]stampDomain.Inventory, error) {
	var list []stampDomain.Inventory
	for _, i := range m.inventories {
		if !i.Archived && i.Year < year {
			list = append(list, i)
		}
	}
	return list, nil
}

type mockMessageStore struct {
	messages map[string]messageDomain.Message
}

func (m *mockMessageStore) GetByID(_ context.Context, id string) (messageDomain.Message, error) {
	if msg, ok := m.messages[id]; ok {
		return msg, nil
	}
	return messageDomain.Message{}, errors.New("message not found")
}

func (m *mockMessageStore) Save(_ context.Context, msg messageDomain.Message) error {
	m.messages[msg.ID] = msg
	return nil
}

func (m *mockMessageStore) Delete(_ context.Context, id string) error {
	delete(m.messages, id)
	return nil
}

func (m *mockMessageStore) ListByReceiver(_ context.Context, receiverID string) ([]messageDomain.Message, error) {
	var list []messageDomain.Message
	for _, msg := range m.messages {
		if msg.ReceiverID == receiverID {
			list = append(list, msg)
		}
	}
	return list, nil
}

func (m *mockMessageStore) CountUnread(_ context.Context, receiverID string) (int, error) {
	count := 0
	for _, msg := range m.messages {
		if msg.ReceiverID == receiverID && !msg.IsRead() {
			count++
		}
	}
	return count, nil
}

type mockAuditStore struct {
	events []auditDomain.Event
}

func (m *mockAuditStore) Save(_ context.Context, e auditDomain.Event) error {
	m.events = append(m.events, e)
	return nil
}

func (m *mockAuditStore) List(_ context.Context, _ auditStore.Filter, _ int) ([]auditDomain.Event, error) {
	return m.events, nil
}

func newTestStores() *Stores {
	return &Stores{
		AccountStore:      &mockAccountStore{accounts: make(map[string]accountDomain.Account)},
		OrganizationStore: &mockOrganizationStore{orgs: make(map[string]organizationDomain.Organization)},
		MemberStore:       &mockMemberStore{members: make(map[string]memberDomain.Member)},
		PeriodStore:       &mockPeriodStore{periods: make(map[string][]membership.Period)},
		SettingsStore:     &mockSettingsStore{settings: make(map[string]settingsDomain.RenewalSettings)},
		ActivityStore:     &mockActivityStore{activities: make(map[string]activityDomain.Activity), participations: make(map[string][]activityDomain.Participation)},
		EquipmentStore:    &mockEquipmentStore{items: make(map[string]equipmentDomain.Item)},
		StampStore:        &mockStampStore{inventories: make(map[string]stampDomain.Inventory)},
		MessageStore:      &mockMessageStore{messages: make(map[string]messageDomain.Message)},
		AuditStore:        &mockAuditStore{},
	}
}

// serveAPI routes the request through the mux so path values are populated.
func serveAPI(req *http.Request) *httptest.ResponseRecorder {
	mux := http.NewServeMux()
	registerRoutes(mux)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

// authRequest returns a request with the given session injected into context.
func authRequest(method, url string, body string, sess middleware.Session) *http.Request {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, url, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}
	ctx := middleware.ContextWithSession(req.Context(), sess)
	return req.WithContext(ctx)
}

var adminSession = middleware.Session{
	AccountID: "admin-001",
	Email:     "admin@test.com",
	Role:      accountDomain.RoleAdmin,
	CreatedAt: time.Now(),
}

var staffSession = middleware.Session{
	AccountID: "staff-001",
	Email:     "staff@test.com",
	Role:      accountDomain.RoleStaff,
	CreatedAt: time.Now(),
}

// --- Tests: login ---

func testAccount(t *testing.T, password string) accountDomain.Account {
	t.Helper()
	a := accountDomain.Account{
		ID:        "acct-1",
		Email:     "admin@test.com",
		Role:      accountDomain.RoleAdmin,
		CreatedAt: time.Now(),
	}
	if err := a.SetPassword(password); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return a
}

// TestHandleLogin_Success tests login with correct credentials.
func TestHandleLogin_Success(t *testing.T) {
	stores = newTestStores()
	sessions = middleware.NewSessionStore()
	stores.AccountStore.Save(context.Background(), testAccount(t, "correct-horse"))

	body := `{"email":"admin@test.com","password":"correct-horse"}`
	req := httptest.NewRequest("POST", "/api/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := serveAPI(req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	cookieSet := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == "clubhouse_session" && c.Value != "" {
			cookieSet = true
		}
	}
	if !cookieSet {
		t.Error("expected session cookie to be set")
	}
}

// TestHandleLogin_WrongPassword tests the failure path.
func TestHandleLogin_WrongPassword(t *testing.T) {
	stores = newTestStores()
	sessions = middleware.NewSessionStore()
	stores.AccountStore.Save(context.Background(), testAccount(t, "correct-horse"))

	body := `{"email":"admin@test.com","password":"wrong"}`
	req := httptest.NewRequest("POST", "/api/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := serveAPI(req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("got %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

// TestHandleLogin_LockedAccount tests that a locked account is rejected.
func TestHandleLogin_LockedAccount(t *testing.T) {
	stores = newTestStores()
	sessions = middleware.NewSessionStore()
	a := testAccount(t, "correct-horse")
	a.LockedUntil = time.Now().Add(time.Hour)
	stores.AccountStore.Save(context.Background(), a)

	body := `{"email":"admin@test.com","password":"correct-horse"}`
	req := httptest.NewRequest("POST", "/api/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := serveAPI(req)

	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("got %d, want %d", rec.Code, http.StatusTooManyRequests)
	}
}

// --- Tests: /admin/status/sync-member-statuses ---

// TestHandleSyncMemberStatuses_Unauthenticated tests the corresponding handler.
func TestHandleSyncMemberStatuses_Unauthenticated(t *testing.T) {
	stores = newTestStores()
	req := httptest.NewRequest("POST", "/admin/status/sync-member-statuses", nil)
	rec := serveAPI(req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("got %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

// TestHandleSyncMemberStatuses_Forbidden tests that staff cannot run the sync.
func TestHandleSyncMemberStatuses_Forbidden(t *testing.T) {
	stores = newTestStores()
	req := authRequest("POST", "/admin/status/sync-member-statuses", "", staffSession)
	rec := serveAPI(req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("got %d, want %d", rec.Code, http.StatusForbidden)
	}
}

// TestHandleSyncMemberStatuses_Promotes tests a full sync through the HTTP layer.
func TestHandleSyncMemberStatuses_Promotes(t *testing.T) {
	stores = newTestStores()
	stores.MemberStore.Save(context.Background(), memberDomain.Member{
		ID: "m1", OrganizationID: "org1", Name: "Eeva", Email: "eeva@example.com",
		Role: memberDomain.RoleMember, Status: memberDomain.StatusPending,
		CardNumber: "C-1001", CreatedAt: time.Now(),
	})

	req := authRequest("POST", "/admin/status/sync-member-statuses", "", adminSession)
	rec := serveAPI(req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	var result orchestrators.SyncMemberStatusesResult
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !result.Success {
		t.Errorf("expected success, got message %q", result.Message)
	}
	if result.UpdatedCount != 1 {
		t.Errorf("expected updatedCount=1, got %d", result.UpdatedCount)
	}
	if result.InactiveUpdatedCount != 0 {
		t.Errorf("expected inactiveUpdatedCount=0, got %d", result.InactiveUpdatedCount)
	}
}

// TestHandleSyncMemberStatuses_ResponseShape tests the JSON field names.
func TestHandleSyncMemberStatuses_ResponseShape(t *testing.T) {
	stores = newTestStores()
	req := authRequest("POST", "/admin/status/sync-member-statuses", "", adminSession)
	rec := serveAPI(req)

	var raw map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&raw); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	for _, field := range []string{"success", "message", "updatedCount", "inactiveUpdatedCount"} {
		if _, ok := raw[field]; !ok {
			t.Errorf("missing field %q in response", field)
		}
	}
}

// --- Tests: /api/members ---

// TestHandleMemberCreate_Valid tests creating a member via the API.
func TestHandleMemberCreate_Valid(t *testing.T) {
	stores = newTestStores()
	body := `{"organizationId":"org1","name":"Eeva","lastname":"Virtanen","email":"eeva@example.com"}`
	req := authRequest("POST", "/api/members", body, adminSession)
	rec := serveAPI(req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("got %d, want %d: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}
	var m memberDomain.Member
	json.NewDecoder(rec.Body).Decode(&m)
	if m.Status != memberDomain.StatusPending {
		t.Errorf("expected new member pending, got %s", m.Status)
	}
}

// TestHandleMemberCreate_DuplicateEmail tests the conflict path.
func TestHandleMemberCreate_DuplicateEmail(t *testing.T) {
	stores = newTestStores()
	stores.MemberStore.Save(context.Background(), memberDomain.Member{
		ID: "m1", Email: "eeva@example.com", Name: "Eeva",
		Role: memberDomain.RoleMember, Status: memberDomain.StatusPending,
	})
	body := `{"organizationId":"org1","name":"Eeva","lastname":"","email":"eeva@example.com"}`
	req := authRequest("POST", "/api/members", body, adminSession)
	rec := serveAPI(req)

	if rec.Code != http.StatusConflict {
		t.Errorf("got %d, want %d", rec.Code, http.StatusConflict)
	}
}

// TestHandleMemberCreate_RejectsUnknownFields tests strict decoding.
func TestHandleMemberCreate_RejectsUnknownFields(t *testing.T) {
	stores = newTestStores()
	body := `{"organizationId":"org1","name":"X","email":"x@example.com","status":"registered"}`
	req := authRequest("POST", "/api/members", body, adminSession)
	rec := serveAPI(req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("got %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

// TestHandleMemberList_DerivedStatus tests that the list reports the derived
// status, not the cached one.
func TestHandleMemberList_DerivedStatus(t *testing.T) {
	stores = newTestStores()
	year := 2023
	paid := time.Date(2023, 4, 10, 0, 0, 0, 0, time.UTC)
	stores.MemberStore.Save(context.Background(), memberDomain.Member{
		ID: "m1", OrganizationID: "org1", Name: "Liisa", Email: "liisa@example.com",
		Role: memberDomain.RoleMember, Status: memberDomain.StatusRegistered,
		FeePaymentYear: &year, FeePaymentDate: &paid,
		CreatedAt: time.Date(2020, 1, 15, 0, 0, 0, 0, time.UTC),
	})
	stores.PeriodStore.Save(context.Background(), membership.Period{
		ID: "p1", MemberID: "m1", StartDate: time.Date(2020, 1, 15, 0, 0, 0, 0, time.UTC),
	})

	req := authRequest("GET", "/api/members", "", staffSession)
	rec := serveAPI(req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got %d, want %d", rec.Code, http.StatusOK)
	}
	var result struct {
		Members []struct {
			Status       string `json:"status"`
			StatusReason string `json:"statusReason"`
		} `json:"members"`
	}
	json.NewDecoder(rec.Body).Decode(&result)
	if len(result.Members) != 1 {
		t.Fatalf("expected one member, got %d", len(result.Members))
	}
	if result.Members[0].Status != memberDomain.StatusInactive {
		t.Errorf("expected derived inactive, got %s", result.Members[0].Status)
	}
}

// --- Tests: fee payment and termination ---

// TestHandleFeePayment_Valid tests recording a payment via the API.
func TestHandleFeePayment_Valid(t *testing.T) {
	stores = newTestStores()
	stores.MemberStore.Save(context.Background(), memberDomain.Member{
		ID: "m1", OrganizationID: "org1", Name: "Eeva", Email: "eeva@example.com",
		Role: memberDomain.RoleMember, Status: memberDomain.StatusPending, CreatedAt: time.Now(),
	})
	body := `{"paymentYear":2026,"paymentDate":"2026-02-20","cardNumber":"C-1001"}`
	req := authRequest("POST", "/api/members/m1/fee-payment", body, adminSession)
	rec := serveAPI(req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	m, _ := stores.MemberStore.GetByID(context.Background(), "m1")
	if m.FeePaymentYear == nil || *m.FeePaymentYear != 2026 {
		t.Errorf("expected payment year persisted, got %v", m.FeePaymentYear)
	}
	open, _ := stores.PeriodStore.ListOpenByMemberID(context.Background(), "m1")
	if len(open) != 1 {
		t.Errorf("expected one open period, got %d", len(open))
	}
}

// TestHandleFeePayment_BadDate tests date validation.
func TestHandleFeePayment_BadDate(t *testing.T) {
	stores = newTestStores()
	body := `{"paymentYear":2026,"paymentDate":"20.02.2026"}`
	req := authRequest("POST", "/api/members/m1/fee-payment", body, adminSession)
	rec := serveAPI(req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("got %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

// TestHandleTerminate_Valid tests the termination endpoint.
func TestHandleTerminate_Valid(t *testing.T) {
	stores = newTestStores()
	stores.MemberStore.Save(context.Background(), memberDomain.Member{
		ID: "m1", OrganizationID: "org1", Name: "Eeva", Email: "eeva@example.com",
		Role: memberDomain.RoleMember, Status: memberDomain.StatusRegistered, CreatedAt: time.Now(),
	})
	stores.PeriodStore.Save(context.Background(), membership.Period{
		ID: "p1", MemberID: "m1", StartDate: time.Date(2020, 1, 15, 0, 0, 0, 0, time.UTC),
	})
	body := `{"endDate":"2026-02-28","reason":"withdrawal"}`
	req := authRequest("POST", "/api/members/m1/terminate", body, adminSession)
	rec := serveAPI(req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	m, _ := stores.MemberStore.GetByID(context.Background(), "m1")
	if m.Status != memberDomain.StatusInactive {
		t.Errorf("expected member inactive after termination, got %s", m.Status)
	}
}

// TestHandleTerminate_BadReason tests reason validation.
func TestHandleTerminate_BadReason(t *testing.T) {
	stores = newTestStores()
	stores.MemberStore.Save(context.Background(), memberDomain.Member{
		ID: "m1", Name: "Eeva", Email: "eeva@example.com",
		Role: memberDomain.RoleMember, Status: memberDomain.StatusRegistered,
	})
	body := `{"reason":"bored"}`
	req := authRequest("POST", "/api/members/m1/terminate", body, adminSession)
	rec := serveAPI(req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("got %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

// --- Tests: settings ---

// TestHandleSettingsGet_Defaults tests that unset settings return defaults.
func TestHandleSettingsGet_Defaults(t *testing.T) {
	stores = newTestStores()
	req := authRequest("GET", "/api/organizations/org1/settings", "", staffSession)
	rec := serveAPI(req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got %d, want %d", rec.Code, http.StatusOK)
	}
	var cfg settingsDomain.RenewalSettings
	json.NewDecoder(rec.Body).Decode(&cfg)
	if cfg.RenewalStartMonth != time.November || cfg.RenewalStartDay != 1 {
		t.Errorf("expected November 1 default, got %v %d", cfg.RenewalStartMonth, cfg.RenewalStartDay)
	}
	if cfg.ActivityHoursThreshold != 20 {
		t.Errorf("expected 20 hour default threshold, got %d", cfg.ActivityHoursThreshold)
	}
}

// TestHandleSettingsPut_RejectsBadMonth tests the renewal month range.
func TestHandleSettingsPut_RejectsBadMonth(t *testing.T) {
	stores = newTestStores()
	body := `{"renewalStartMonth":5,"renewalStartDay":1,"activityHoursThreshold":20}`
	req := authRequest("PUT", "/api/organizations/org1/settings", body, adminSession)
	rec := serveAPI(req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("got %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

// TestHandleSettingsPut_Valid tests storing October settings.
func TestHandleSettingsPut_Valid(t *testing.T) {
	stores = newTestStores()
	body := `{"renewalStartMonth":10,"renewalStartDay":15,"activityHoursThreshold":25}`
	req := authRequest("PUT", "/api/organizations/org1/settings", body, adminSession)
	rec := serveAPI(req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	cfg, _ := stores.SettingsStore.GetByOrganizationID(context.Background(), "org1")
	if cfg.RenewalStartMonth != time.October || cfg.RenewalStartDay != 15 {
		t.Errorf("expected October 15 stored, got %v %d", cfg.RenewalStartMonth, cfg.RenewalStartDay)
	}
}

// --- Tests: equipment and stamps ---

// TestHandleEquipmentIssue_OutOfStock tests the stock guard.
func TestHandleEquipmentIssue_OutOfStock(t *testing.T) {
	stores = newTestStores()
	stores.EquipmentStore.Save(context.Background(), equipmentDomain.Item{
		ID: "e1", OrganizationID: "org1", GearType: equipmentDomain.TypeTShirt,
		Size: "M", Initial: 1, Issued: 1,
	})
	req := authRequest("POST", "/api/equipment/e1/issue", "", staffSession)
	rec := serveAPI(req)

	if rec.Code != http.StatusConflict {
		t.Errorf("got %d, want %d", rec.Code, http.StatusConflict)
	}
}

// TestHandleStampArchive_Idempotent tests that re-archiving changes nothing.
func TestHandleStampArchive_Idempotent(t *testing.T) {
	stores = newTestStores()
	stores.StampStore.Save(context.Background(), stampDomain.Inventory{
		ID: "s1", OrganizationID: "org1", Year: 2024,
		StampType: stampDomain.TypeEmployed, Initial: 100, Issued: 40,
	})

	req := authRequest("POST", "/api/stamps/archive", "", adminSession)
	rec := serveAPI(req)
	if rec.Code != http.StatusOK {
		t.Fatalf("got %d, want %d", rec.Code, http.StatusOK)
	}
	var first map[string]int
	json.NewDecoder(rec.Body).Decode(&first)
	if first["archived"] != 1 {
		t.Errorf("expected 1 archived on first run, got %d", first["archived"])
	}

	rec = serveAPI(authRequest("POST", "/api/stamps/archive", "", adminSession))
	var second map[string]int
	json.NewDecoder(rec.Body).Decode(&second)
	if second["archived"] != 0 {
		t.Errorf("expected 0 archived on second run, got %d", second["archived"])
	}
}

// --- Tests: messages ---

// TestHandleMessageSend_And_Read tests the message round trip.
func TestHandleMessageSend_And_Read(t *testing.T) {
	stores = newTestStores()
	stores.MemberStore.Save(context.Background(), memberDomain.Member{
		ID: "m1", Name: "Eeva", Email: "eeva@example.com",
		Role: memberDomain.RoleMember, Status: memberDomain.StatusRegistered,
	})
	body := `{"receiverId":"m1","subject":"Hi","content":"**welcome**","notifyByEmail":false}`
	req := authRequest("POST", "/api/messages", body, adminSession)
	rec := serveAPI(req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("got %d, want %d: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}
	var msg messageDomain.Message
	json.NewDecoder(rec.Body).Decode(&msg)
	if msg.IsRead() {
		t.Error("expected new message unread")
	}

	rec = serveAPI(authRequest("POST", "/api/messages/"+msg.ID+"/read", "", staffSession))
	if rec.Code != http.StatusOK {
		t.Fatalf("got %d, want %d", rec.Code, http.StatusOK)
	}
	unread, _ := stores.MessageStore.CountUnread(context.Background(), "m1")
	if unread != 0 {
		t.Errorf("expected 0 unread after read, got %d", unread)
	}
}
