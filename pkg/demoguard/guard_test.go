package demoguard_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assesskit/assesskit/pkg/audit"
	"github.com/assesskit/assesskit/pkg/demoguard"
	"github.com/assesskit/assesskit/pkg/environment"
)

const demoTenant = "demo"

type capture struct {
	body   []byte
	pinned bool
	tenant string
}

func newGuardHandler(g *demoguard.Guard, captured *capture) http.Handler {
	return g.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.body, _ = io.ReadAll(r.Body)
		captured.tenant, captured.pinned = demoguard.DemoOperation(r.Context())
		w.WriteHeader(http.StatusOK)
	}))
}

func demoRequest(method, target, body string) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	return req.WithContext(environment.WithContext(req.Context(), environment.Demo))
}

func bodyCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	c, _ := body["code"].(string)
	return c
}

func TestGuardInactiveOutsideDemo(t *testing.T) {
	t.Parallel()

	g := demoguard.New(demoTenant)
	var seen capture
	handler := newGuardHandler(g, &seen)

	// Production request, not allow-listed, hostile tenant: all ignored
	// because the environment is not demo.
	req := httptest.NewRequest(http.MethodDelete, "/organizations/1", strings.NewReader(`{"customerId":"org-1"}`))
	req = req.WithContext(environment.WithContext(req.Context(), environment.Production))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, seen.pinned)
}

func TestGuardReadsPassUntouched(t *testing.T) {
	t.Parallel()

	g := demoguard.New(demoTenant)
	var seen capture
	rec := httptest.NewRecorder()
	newGuardHandler(g, &seen).ServeHTTP(rec, demoRequest(http.MethodGet, "/assessment-cases", ""))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, seen.pinned)
}

func TestGuardDeniesUnlistedWrite(t *testing.T) {
	t.Parallel()

	storage := audit.NewMemoryStorage()
	g := demoguard.New(demoTenant, demoguard.WithAuditLogger(audit.NewLogger(storage)))
	var seen capture
	rec := httptest.NewRecorder()
	newGuardHandler(g, &seen).ServeHTTP(rec, demoRequest(http.MethodDelete, "/assessment-cases/42", ""))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "DEMO_OPERATION_NOT_ALLOWED", bodyCode(t, rec))

	events := storage.Events()
	require.Len(t, events, 1)
	assert.Equal(t, audit.ResultDenied, events[0].Result)
	assert.Equal(t, "DEMO_OPERATION_NOT_ALLOWED", events[0].Reason)
	assert.Equal(t, http.MethodDelete, events[0].Method)
}

func TestGuardPinsAssessmentCaseBody(t *testing.T) {
	t.Parallel()

	storage := audit.NewMemoryStorage()
	g := demoguard.New(demoTenant, demoguard.WithAuditLogger(audit.NewLogger(storage)))
	var seen capture
	rec := httptest.NewRecorder()

	// Client claims a different tenant; the pin overwrites instead of
	// rejecting. The numeric org id has no demo value to pin to, so it is
	// stripped.
	body := `{"customerId":"org-1","orgId":1,"title":"Reading assessment","assessmentCase":{"customerId":"org-1","orgId":1}}`
	newGuardHandler(g, &seen).ServeHTTP(rec, demoRequest(http.MethodPost, "/assessment-cases", body))

	require.Equal(t, http.StatusOK, rec.Code)

	var pinned map[string]any
	require.NoError(t, json.Unmarshal(seen.body, &pinned))
	assert.Equal(t, demoTenant, pinned["customerId"])
	assert.NotContains(t, pinned, "orgId")
	assert.Equal(t, "Reading assessment", pinned["title"], "non-tenant fields survive the pin")
	doc := pinned["assessmentCase"].(map[string]any)
	assert.Equal(t, demoTenant, doc["customerId"])
	assert.NotContains(t, doc, "orgId")

	assert.True(t, seen.pinned)
	assert.Equal(t, demoTenant, seen.tenant)

	events := storage.Events()
	require.Len(t, events, 1)
	assert.Equal(t, audit.ResultOverride, events[0].Result)
	assert.Equal(t, "DEMO_TENANT_PINNED", events[0].Reason)
}

func TestGuardPinsAbsentTenantField(t *testing.T) {
	t.Parallel()

	g := demoguard.New(demoTenant)
	var seen capture
	rec := httptest.NewRecorder()
	newGuardHandler(g, &seen).ServeHTTP(rec, demoRequest(http.MethodPost, "/assessment-cases", `{"title":"x"}`))

	require.Equal(t, http.StatusOK, rec.Code)
	var pinned map[string]any
	require.NoError(t, json.Unmarshal(seen.body, &pinned))
	assert.Equal(t, demoTenant, pinned["customerId"])
}

func TestGuardRejectsForeignTenantOnUnpinnedWrite(t *testing.T) {
	t.Parallel()

	list := demoguard.AllowList{{Method: http.MethodPost, PathPattern: "/feedback"}}
	storage := audit.NewMemoryStorage()
	g := demoguard.New(demoTenant,
		demoguard.WithAllowList(list),
		demoguard.WithAuditLogger(audit.NewLogger(storage)),
	)

	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"flat field", `{"customerId":"org-1"}`, "customerId"},
		{"flat org id", `{"orgId":1}`, "orgId"},
		{"nested customer object", `{"customer":{"id":"org-1"}}`, "customer.id"},
		{"wrapped case document", `{"assessmentCase":{"customerId":"org-1"}}`, "assessmentCase.customerId"},
		{"wrapped case org id", `{"assessmentCase":{"orgId":1}}`, "assessmentCase.orgId"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var seen capture
			rec := httptest.NewRecorder()
			newGuardHandler(g, &seen).ServeHTTP(rec, demoRequest(http.MethodPost, "/feedback", tt.body))

			assert.Equal(t, http.StatusForbidden, rec.Code)
			assert.Equal(t, "DEMO_CUSTOMER_ISOLATION_VIOLATION", bodyCode(t, rec))

			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.field, body["field"])
		})
	}

	t.Run("demo tenant passes", func(t *testing.T) {
		t.Parallel()
		var seen capture
		rec := httptest.NewRecorder()
		newGuardHandler(g, &seen).ServeHTTP(rec, demoRequest(http.MethodPost, "/feedback", `{"customerId":"demo"}`))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestGuardProductionDatabaseBlock(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		db      demoguard.DatabaseInfo
		blocked bool
	}{
		{"explicit flag", demoguard.DatabaseInfo{ProductionFlag: true, Host: "db.internal"}, true},
		{"host heuristic", demoguard.DatabaseInfo{Host: "pg-production-1.internal"}, true},
		{"clean demo database", demoguard.DatabaseInfo{Host: "pg-demo-1.internal"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			g := demoguard.New(demoTenant, demoguard.WithDatabaseInfo(tt.db))
			var seen capture
			rec := httptest.NewRecorder()
			newGuardHandler(g, &seen).ServeHTTP(rec, demoRequest(http.MethodPost, "/assessment-cases", `{}`))

			if tt.blocked {
				assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
				assert.Equal(t, "DEMO_ENVIRONMENT_UNSAFE", bodyCode(t, rec))
			} else {
				assert.Equal(t, http.StatusOK, rec.Code)
			}

			// Reads are never blocked, even when unsafe.
			recRead := httptest.NewRecorder()
			newGuardHandler(g, &seen).ServeHTTP(recRead, demoRequest(http.MethodGet, "/assessment-cases", ""))
			assert.Equal(t, http.StatusOK, recRead.Code)
		})
	}
}

func TestParseAllowList(t *testing.T) {
	t.Parallel()

	doc := `
rules:
  - method: POST
    path: /assessment-cases
    pin: true
  - method: POST
    path: /auth/login
`
	list, err := demoguard.ParseAllowList([]byte(doc))
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.True(t, list[0].Pin)
	assert.True(t, list[0].Matches(http.MethodPost, "/assessment-cases"))
	assert.False(t, list[1].Pin)

	_, err = demoguard.ParseAllowList([]byte("rules:\n  - method: POST\n"))
	assert.ErrorIs(t, err, demoguard.ErrInvalidAllowList)

	_, err = demoguard.ParseAllowList([]byte("{not yaml"))
	assert.ErrorIs(t, err, demoguard.ErrInvalidAllowList)
}

func TestRuleMatching(t *testing.T) {
	t.Parallel()

	rule := demoguard.Rule{Method: http.MethodPut, PathPattern: "/assessment-cases/{id}"}

	assert.True(t, rule.Matches(http.MethodPut, "/assessment-cases/42"))
	assert.True(t, rule.Matches("put", "/assessment-cases/abc"))
	assert.False(t, rule.Matches(http.MethodPost, "/assessment-cases/42"))
	assert.False(t, rule.Matches(http.MethodPut, "/assessment-cases"))
	assert.False(t, rule.Matches(http.MethodPut, "/assessment-cases/42/reports"))
}
