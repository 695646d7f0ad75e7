package core_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assesskit/assesskit/core"
)

func TestWriteError(t *testing.T) {
	t.Parallel()

	t.Run("standard shape with diagnostic fields", func(t *testing.T) {
		t.Parallel()

		w := httptest.NewRecorder()
		core.WriteError(w, http.StatusForbidden, "ORGANIZATION_BOUNDARY", "organization mismatch",
			core.F("requestedOrganization", "org-2"),
			core.F("userOrganization", "org-1"),
		)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))

		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "organization mismatch", body["error"])
		assert.Equal(t, "ORGANIZATION_BOUNDARY", body["code"])
		assert.Equal(t, "org-2", body["requestedOrganization"])
		assert.Equal(t, "org-1", body["userOrganization"])
	})

	t.Run("fields cannot shadow error or code", func(t *testing.T) {
		t.Parallel()

		w := httptest.NewRecorder()
		core.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "nope",
			core.F("code", "spoofed"),
			core.F("error", "spoofed"),
		)

		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "BAD_REQUEST", body["code"])
		assert.Equal(t, "nope", body["error"])
	})
}

func TestWriteHTTPError(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	core.WriteHTTPError(w, core.ErrUnauthorized, "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "AUTHENTICATION_REQUIRED", body["code"])
	assert.Equal(t, http.StatusText(http.StatusUnauthorized), body["error"])
}
