package audit_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assesskit/assesskit/pkg/audit"
)

func TestLoggerLog(t *testing.T) {
	t.Parallel()

	t.Run("records event with options", func(t *testing.T) {
		t.Parallel()

		storage := audit.NewMemoryStorage()
		log := audit.NewLogger(storage)

		err := log.Log(context.Background(), "demo_firewall.denied",
			audit.WithResult(audit.ResultDenied),
			audit.WithReason("DEMO_OPERATION_NOT_ALLOWED"),
			audit.WithHTTPRequest("DELETE", "/organizations/7"),
			audit.WithEnvironment("demo"),
			audit.WithMetadata("allowlisted", false),
		)
		require.NoError(t, err)

		events := storage.Events()
		require.Len(t, events, 1)

		e := events[0]
		assert.NotEmpty(t, e.ID)
		assert.False(t, e.CreatedAt.IsZero())
		assert.Equal(t, "demo_firewall.denied", e.Action)
		assert.Equal(t, audit.ResultDenied, e.Result)
		assert.Equal(t, "DEMO_OPERATION_NOT_ALLOWED", e.Reason)
		assert.Equal(t, "DELETE", e.Method)
		assert.Equal(t, "/organizations/7", e.Path)
		assert.Equal(t, "demo", e.Environment)
		assert.Equal(t, false, e.Metadata["allowlisted"])
	})

	t.Run("enriches from context extractors", func(t *testing.T) {
		t.Parallel()

		type tenantKey struct{}
		type userKey struct{}

		storage := audit.NewMemoryStorage()
		log := audit.NewLogger(storage,
			audit.WithTenantIDExtractor(func(ctx context.Context) (string, bool) {
				v, ok := ctx.Value(tenantKey{}).(string)
				return v, ok
			}),
			audit.WithUserIDExtractor(func(ctx context.Context) (string, bool) {
				v, ok := ctx.Value(userKey{}).(string)
				return v, ok
			}),
		)

		ctx := context.WithValue(context.Background(), tenantKey{}, "demo")
		ctx = context.WithValue(ctx, userKey{}, "42")

		require.NoError(t, log.Log(ctx, "gate.denied"))

		events := storage.Events()
		require.Len(t, events, 1)
		assert.Equal(t, "demo", events[0].TenantID)
		assert.Equal(t, "42", events[0].UserID)
	})

	t.Run("rejects events without action", func(t *testing.T) {
		t.Parallel()

		storage := audit.NewMemoryStorage()
		log := audit.NewLogger(storage)

		err := log.Log(context.Background(), "")
		assert.ErrorIs(t, err, audit.ErrEventValidation)
		assert.Zero(t, storage.Count())
	})

	t.Run("nil storage panics", func(t *testing.T) {
		t.Parallel()

		assert.Panics(t, func() { audit.NewLogger(nil) })
	})
}
