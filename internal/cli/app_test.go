package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ufscompras/internal/backend"
	"ufscompras/internal/catalog"
	"ufscompras/internal/domain"
	"ufscompras/internal/purchase"
	"ufscompras/internal/session"
	"ufscompras/internal/testutil"
)

type harness struct {
	app     *App
	backend *testutil.FakeBackend
	storage session.Storage
	events  *testutil.MockEventPublisher
	out     *bytes.Buffer
	errOut  *bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	fake := testutil.NewFakeBackend(t)
	return newHarnessWith(t, fake, session.NewMemoryStorage())
}

// newHarnessWith builds a fresh process against existing storage, the way
// each CLI invocation restores the previous one's session.
func newHarnessWith(t *testing.T, fake *testutil.FakeBackend, storage session.Storage) *harness {
	t.Helper()

	client := backend.NewClient(fake.URL(), 2*time.Second)
	store := session.New(storage, client)
	store.Initialize(context.Background())

	events := &testutil.MockEventPublisher{}
	h := &harness{
		backend: fake,
		storage: storage,
		events:  events,
		out:     &bytes.Buffer{},
		errOut:  &bytes.Buffer{},
	}
	h.app = &App{
		Out:       h.out,
		Err:       h.errOut,
		Session:   store,
		Catalog:   catalog.NewEngine(client, catalog.NewCategoryCache(client)),
		Purchases: purchase.NewSubmitter(client, events),
		Backend:   client,
	}
	return h
}

func (h *harness) run(t *testing.T, args ...string) error {
	t.Helper()
	h.out.Reset()
	h.errOut.Reset()
	return h.app.Run(context.Background(), args)
}

func (h *harness) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	require.NoError(t, h.run(t, args...), "stderr: %s", h.errOut.String())
	return h.out.String()
}

func (h *harness) login(t *testing.T, email, password string) {
	t.Helper()
	h.mustRun(t, "login", email, password)
}

func TestRun_Usage(t *testing.T) {
	h := newHarness(t)

	err := h.run(t)
	assert.ErrorIs(t, err, ErrUsage)
	assert.Contains(t, h.errOut.String(), "Uso: ufscompras")
	assert.Contains(t, h.errOut.String(), "watch-purchases")

	err = h.run(t, "checkout")
	assert.ErrorIs(t, err, ErrUsage)
	assert.Contains(t, err.Error(), `"checkout"`)

	out := h.mustRun(t, "help")
	assert.Contains(t, out, "buy <productId>")
}

func TestRun_BadFlag(t *testing.T) {
	h := newHarness(t)

	err := h.run(t, "featured", "--limit", "many")

	assert.ErrorIs(t, err, ErrUsage)
	assert.Equal(t, 0, h.backend.TotalRequests())
}

func TestParseArgs_Interspersed(t *testing.T) {
	h := newHarness(t)
	fs := h.app.flagSet("test")
	qty := fs.Int("qty", 1, "")
	var accessories stringList
	fs.Var(&accessories, "acessorio", "")

	positional, err := parseArgs(fs, []string{"prod-1", "--qty", "3", "--acessorio", "a", "extra", "--acessorio", "b"})

	require.NoError(t, err)
	assert.Equal(t, []string{"prod-1", "extra"}, positional)
	assert.Equal(t, 3, *qty)
	assert.Equal(t, stringList{"a", "b"}, accessories)
}

func TestFormatPrice(t *testing.T) {
	tests := map[string]string{
		"149.9":  "R$ 149,90",
		"0":      "R$ 0,00",
		"1234.5": "R$ 1234,50",
		"59.999": "R$ 60,00",
	}
	for in, want := range tests {
		assert.Equal(t, want, formatPrice(decimalFrom(t, in)), in)
	}
}

func TestLoginWhoamiLogout(t *testing.T) {
	h := newHarness(t)

	assert.Contains(t, h.mustRun(t, "whoami"), "Não autenticado")

	out := h.mustRun(t, "login", testutil.CustomerEmail, testutil.CustomerPassword)
	assert.Contains(t, out, "Bem-vindo, Cliente!")
	assert.NotContains(t, out, "administrador")

	// A new invocation restores the session from storage.
	next := newHarnessWith(t, h.backend, h.storage)
	assert.Equal(t, "Cliente <cliente@ufscompras.com> (cliente)\n", next.mustRun(t, "whoami"))

	assert.Contains(t, next.mustRun(t, "logout"), "Sessão encerrada")

	after := newHarnessWith(t, h.backend, h.storage)
	assert.Contains(t, after.mustRun(t, "whoami"), "Não autenticado")
}

func TestLogin_Admin(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun(t, "login", testutil.AdminEmail, testutil.AdminPassword)

	assert.Contains(t, out, "Acesso de administrador liberado.")
	assert.Contains(t, h.mustRun(t, "whoami"), "(administrador)")
}

func TestLogin_Rejected(t *testing.T) {
	h := newHarness(t)

	err := h.run(t, "login", testutil.CustomerEmail, "errada")

	var authErr *domain.AuthenticationError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "Credenciais inválidas", authErr.Message)
	assert.False(t, h.app.Session.IsAuthenticated())
}

func TestLogin_MissingArguments(t *testing.T) {
	h := newHarness(t)

	err := h.run(t, "login", testutil.CustomerEmail)

	assert.ErrorIs(t, err, ErrUsage)
	assert.Equal(t, 0, h.backend.TotalRequests())
}

func TestBuy_RequiresLogin(t *testing.T) {
	h := newHarness(t)

	err := h.run(t, "buy", "prod-shirt")

	assert.ErrorIs(t, err, ErrNotAuthenticated)
	assert.Equal(t, 0, h.backend.Requests(http.MethodPost, "/api/purchase"))
}

func TestBuy(t *testing.T) {
	h := newHarness(t)
	h.login(t, testutil.CustomerEmail, testutil.CustomerPassword)

	out := h.mustRun(t, "buy", "prod-shirt", "--qty", "2", "--acessorio", "acc-cinto", "--acessorio", "acc-bucket")

	assert.Equal(t, "Compra confirmada. Estoque restante: 8\n", out)

	var body struct {
		ProductID   string   `json:"productId"`
		Quantity    int      `json:"quantity"`
		Accessories []string `json:"accessories"`
	}
	require.NoError(t, json.Unmarshal(h.backend.LastBody(http.MethodPost, "/api/purchase"), &body))
	assert.Equal(t, "prod-shirt", body.ProductID)
	assert.Equal(t, 2, body.Quantity)
	assert.Equal(t, []string{"acc-cinto", "acc-bucket"}, body.Accessories)
	assert.Equal(t, "Bearer "+testutil.CustomerToken,
		h.backend.LastHeader(http.MethodPost, "/api/purchase").Get("Authorization"))

	require.Len(t, h.events.Published(), 1)
}

func TestBuy_Rejected(t *testing.T) {
	h := newHarness(t)
	h.login(t, testutil.CustomerEmail, testutil.CustomerPassword)

	t.Run("insufficient stock", func(t *testing.T) {
		err := h.run(t, "buy", "prod-jacket", "--qty", "9")

		var purchaseErr *domain.PurchaseError
		require.ErrorAs(t, err, &purchaseErr)
		assert.Equal(t, http.StatusConflict, purchaseErr.Status)
		assert.EqualError(t, err, "Estoque insuficiente")
	})

	t.Run("invalid quantity never reaches the backend", func(t *testing.T) {
		before := h.backend.Requests(http.MethodPost, "/api/purchase")

		err := h.run(t, "buy", "prod-jacket", "--qty", "0")

		assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
		assert.Equal(t, before, h.backend.Requests(http.MethodPost, "/api/purchase"))
	})
}

func TestWatch_RequiresBroker(t *testing.T) {
	h := newHarness(t)

	assert.ErrorIs(t, h.run(t, "watch-purchases"), ErrBrokerNotConfigured)
}

func TestFormatPurchase(t *testing.T) {
	line := formatPurchase(domain.PurchaseConfirmed{
		ProductID:      "prod-shirt",
		Quantity:       2,
		Accessories:    []string{"acc-cinto"},
		RemainingStock: 8,
		Timestamp:      time.Date(2026, 3, 10, 14, 30, 5, 0, time.UTC),
	})

	assert.Equal(t, "10/03/2026 14:30:05  prod-shirt x2  estoque restante: 8  +1 acessório(s)", line)
	assert.False(t, strings.Contains(formatPurchase(domain.PurchaseConfirmed{ProductID: "p"}), "acessório"))
}
