package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/mixelka/mailvault/internal/auth"
	"github.com/mixelka/mailvault/internal/event"
	"github.com/mixelka/mailvault/internal/kv"
	"github.com/mixelka/mailvault/internal/server"
	"github.com/mixelka/mailvault/internal/vault"
)

const (
	testSecret = "test-secret-at-least-16-bytes"

	alicePrincipal = "AU12AliceWallet"
	bobPrincipal   = "AU12BobWallet"
)

type testAPI struct {
	app  *fiber.App
	auth *auth.Manager
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store, err := kv.Open(context.Background(), "bolt", filepath.Join(t.TempDir(), "vault.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	v := vault.New(store, event.NewBus(logger), logger, "demailx")
	require.NoError(t, v.Bootstrap(context.Background()))

	a := auth.New(testSecret)
	return &testAPI{app: server.New(v, a, logger).App(), auth: a}
}

// do runs one request against the app and decodes the JSON body into out
// when out is non-nil.
func (ta *testAPI) do(t *testing.T, method, path, principal string, body, out any) int {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if principal != "" {
		token, err := ta.auth.Issue(principal, time.Minute)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ta.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestSendFlow(t *testing.T) {
	api := newTestAPI(t)

	var reg server.IdentityResponse
	code := api.do(t, http.MethodPost, "/api/v1/identities", alicePrincipal,
		server.RegisterRequest{Username: "alice"}, &reg)
	require.Equal(t, http.StatusCreated, code)
	require.Equal(t, "alice@demailx", reg.Alias)

	var created struct {
		ID uint64 `json:"id"`
	}
	code = api.do(t, http.MethodPost, "/api/v1/messages", alicePrincipal,
		server.CreateMessageRequest{To: bobPrincipal, Subject: "hi", BodyRef: "0xbeef"}, &created)
	require.Equal(t, http.StatusCreated, code)
	require.Equal(t, uint64(1), created.ID)

	code = api.do(t, http.MethodPost, "/api/v1/mailbox/deliver", alicePrincipal,
		server.DeliverRequest{To: bobPrincipal, ID: created.ID}, nil)
	require.Equal(t, http.StatusNoContent, code)

	var inbox struct {
		IDs []uint64 `json:"ids"`
	}
	code = api.do(t, http.MethodGet, "/api/v1/mailbox/inbox/"+bobPrincipal, "", nil, &inbox)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, []uint64{1}, inbox.IDs)

	var sent struct {
		IDs []uint64 `json:"ids"`
	}
	code = api.do(t, http.MethodGet, "/api/v1/mailbox/sent/"+alicePrincipal, "", nil, &sent)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, []uint64{1}, sent.IDs)

	code = api.do(t, http.MethodPost, "/api/v1/mailbox/read/1", bobPrincipal, nil, nil)
	require.Equal(t, http.StatusNoContent, code)

	var entry server.EntryResponse
	code = api.do(t, http.MethodGet, "/api/v1/mailbox/entry/"+bobPrincipal+"/1", "", nil, &entry)
	require.Equal(t, http.StatusOK, code)
	require.True(t, entry.Read)
	require.False(t, entry.Archived)
	require.False(t, entry.Spam)
}

func TestRegisterConflicts(t *testing.T) {
	api := newTestAPI(t)

	code := api.do(t, http.MethodPost, "/api/v1/identities", alicePrincipal,
		server.RegisterRequest{Username: "alice"}, nil)
	require.Equal(t, http.StatusCreated, code)

	// Same wallet registering again.
	code = api.do(t, http.MethodPost, "/api/v1/identities", alicePrincipal,
		server.RegisterRequest{Username: "alice2"}, nil)
	require.Equal(t, http.StatusConflict, code)

	// Different wallet claiming the taken alias.
	code = api.do(t, http.MethodPost, "/api/v1/identities", bobPrincipal,
		server.RegisterRequest{Username: "alice"}, nil)
	require.Equal(t, http.StatusConflict, code)
}

func TestUnauthenticated(t *testing.T) {
	api := newTestAPI(t)

	code := api.do(t, http.MethodPost, "/api/v1/identities", "",
		server.RegisterRequest{Username: "alice"}, nil)
	require.Equal(t, http.StatusUnauthorized, code)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/messages",
		bytes.NewReader([]byte(`{"to":"x"}`)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer not-a-token")
	resp, err := api.app.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestFlagOnMissingEntry(t *testing.T) {
	api := newTestAPI(t)

	// No entry exists; the call still succeeds without changing anything.
	code := api.do(t, http.MethodPost, "/api/v1/mailbox/spam/42", bobPrincipal, nil, nil)
	require.Equal(t, http.StatusNoContent, code)

	var entry server.EntryResponse
	code = api.do(t, http.MethodGet, "/api/v1/mailbox/entry/"+bobPrincipal+"/42", "", nil, &entry)
	require.Equal(t, http.StatusOK, code)
	require.False(t, entry.Spam)
}

func TestMessageNotFound(t *testing.T) {
	api := newTestAPI(t)

	var body server.ErrorResponse
	code := api.do(t, http.MethodGet, "/api/v1/messages/99", "", nil, &body)
	require.Equal(t, http.StatusNotFound, code)
	require.Equal(t, "message not found", body.Error)
}

func TestLookupAndPrefs(t *testing.T) {
	api := newTestAPI(t)

	code := api.do(t, http.MethodPost, "/api/v1/identities", alicePrincipal,
		server.RegisterRequest{Username: "alice"}, nil)
	require.Equal(t, http.StatusCreated, code)

	var lookup struct {
		Principal string `json:"principal"`
	}
	code = api.do(t, http.MethodGet, "/api/v1/identities/principal/alice%40demailx", "", nil, &lookup)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, alicePrincipal, lookup.Principal)

	var exists struct {
		Exists bool `json:"exists"`
	}
	code = api.do(t, http.MethodGet, "/api/v1/identities/exists/alice%40demailx", "", nil, &exists)
	require.Equal(t, http.StatusOK, code)
	require.True(t, exists.Exists)

	var days struct {
		Days int64 `json:"days"`
	}
	code = api.do(t, http.MethodGet, "/api/v1/prefs/inboxdays/"+alicePrincipal, "", nil, &days)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, int64(60), days.Days)

	code = api.do(t, http.MethodPut, "/api/v1/prefs/inboxdays", alicePrincipal,
		server.RetentionRequest{Days: 14}, nil)
	require.Equal(t, http.StatusOK, code)

	code = api.do(t, http.MethodGet, "/api/v1/prefs/inboxdays/"+alicePrincipal, "", nil, &days)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, int64(14), days.Days)

	var spam struct {
		Addresses []string `json:"addresses"`
	}
	code = api.do(t, http.MethodPut, "/api/v1/prefs/spamlist", alicePrincipal,
		server.SpamListRequest{Addresses: []string{"spammer@demailx"}}, nil)
	require.Equal(t, http.StatusOK, code)

	code = api.do(t, http.MethodGet, "/api/v1/prefs/spamlist/"+alicePrincipal, "", nil, &spam)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, []string{"spammer@demailx"}, spam.Addresses)
}
