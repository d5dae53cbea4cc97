package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// TestSessionStore_CreateAndGet verifies a created session can be retrieved.
func TestSessionStore_CreateAndGet(t *testing.T) {
	ss := NewSessionStore()
	token, err := ss.Create("acct-1", "admin@test.com", "admin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sess, ok := ss.Get(token)
	if !ok {
		t.Fatal("expected session to exist")
	}
	if sess.AccountID != "acct-1" || sess.Role != "admin" {
		t.Errorf("unexpected session: %+v", sess)
	}
}

// TestSessionStore_Expiry verifies sessions older than a day are rejected.
func TestSessionStore_Expiry(t *testing.T) {
	ss := NewSessionStore()
	token, err := ss.Create("acct-1", "admin@test.com", "admin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ss.mu.Lock()
	sess := ss.sessions[token]
	sess.CreatedAt = time.Now().Add(-25 * time.Hour)
	ss.sessions[token] = sess
	ss.mu.Unlock()

	if _, ok := ss.Get(token); ok {
		t.Error("expected expired session to be rejected")
	}
}

// TestSessionStore_Delete verifies deleted tokens stop resolving.
func TestSessionStore_Delete(t *testing.T) {
	ss := NewSessionStore()
	token, _ := ss.Create("acct-1", "admin@test.com", "admin")
	ss.Delete(token)
	if _, ok := ss.Get(token); ok {
		t.Error("expected deleted session to be gone")
	}
}

// TestAuth_InjectsSessionFromCookie verifies the cookie lookup.
func TestAuth_InjectsSessionFromCookie(t *testing.T) {
	ss := NewSessionStore()
	token, _ := ss.Create("acct-1", "admin@test.com", "admin")

	var got Session
	var ok bool
	handler := Auth(ss)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = GetSessionFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/api/members", nil)
	req.AddCookie(&http.Cookie{Name: "clubhouse_session", Value: token})
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if !ok {
		t.Fatal("expected session in context")
	}
	if got.AccountID != "acct-1" {
		t.Errorf("AccountID = %q, want acct-1", got.AccountID)
	}
}

// TestRequireAuth_Unauthenticated verifies the 401 short circuit.
func TestRequireAuth_Unauthenticated(t *testing.T) {
	handler := RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be reached")
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/api/members", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rr.Code)
	}
}

// TestRequireRole_Forbidden verifies the role check.
func TestRequireRole_Forbidden(t *testing.T) {
	handler := RequireRole("admin")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be reached")
	}))

	sess := Session{AccountID: "staff-1", Email: "staff@test.com", Role: "staff", CreatedAt: time.Now()}
	req := httptest.NewRequest("POST", "/admin/status/sync-member-statuses", nil)
	req = req.WithContext(ContextWithSession(req.Context(), sess))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rr.Code)
	}
}
