package httpserver_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/go-petr/pet-ledger/cmd/httpserver"
	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/internal/middleware"
	"github.com/go-petr/pet-ledger/pkg/configpkg"
	"github.com/go-petr/pet-ledger/pkg/randompkg"
	"github.com/go-petr/pet-ledger/pkg/tokenpkg"
	"github.com/go-petr/pet-ledger/pkg/web"
)

type client struct {
	t      *testing.T
	server http.Handler
	maker  tokenpkg.Maker
}

func newClient(t *testing.T, server *httpserver.Server) client {
	t.Helper()

	maker, err := tokenpkg.New(server.Config.TokenType, server.Config.TokenSymmetricKey)
	if err != nil {
		t.Fatalf("tokenpkg.New returned error: %v", err)
	}

	return client{t: t, server: server, maker: maker}
}

// do sends the request and decodes the response data into data.
func (c client) do(method, path string, body any, data any) (int, web.Response) {
	c.t.Helper()

	var reader *bytes.Reader

	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			c.t.Fatalf("Encoding request body error: %v", err)
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, path, reader)
	if err != nil {
		c.t.Fatalf("Creating request error: %v", err)
	}

	err = middleware.AddAuthorization(req, c.maker, middleware.AuthTypeBearer, "operator", time.Minute)
	if err != nil {
		c.t.Fatalf("middleware.AddAuthorization returned error: %v", err)
	}

	w := httptest.NewRecorder()
	c.server.ServeHTTP(w, req)

	res := web.Response{Data: data}
	if err := json.NewDecoder(w.Body).Decode(&res); err != nil {
		c.t.Fatalf("Decoding response body error: %v", err)
	}

	return w.Code, res
}

func (c client) createAccount(direction domain.Direction, balance string) domain.Account {
	c.t.Helper()

	data := &struct {
		Account domain.Account `json:"account"`
	}{}

	code, res := c.do(http.MethodPost, "/accounts", map[string]any{
		"name":      randompkg.Name(),
		"balance":   balance,
		"direction": direction,
	}, data)
	require.Equal(c.t, http.StatusOK, code, res.Error)

	return data.Account
}

func (c client) account(id string) domain.Account {
	c.t.Helper()

	data := &struct {
		Account domain.Account `json:"account"`
	}{}

	code, res := c.do(http.MethodGet, "/accounts/"+id, nil, data)
	require.Equal(c.t, http.StatusOK, code, res.Error)

	return data.Account
}

func entry(a domain.Account, direction domain.Direction, amount string) map[string]any {
	return map[string]any{
		"account_id": a.ID.String(),
		"amount":     amount,
		"direction":  direction,
	}
}

func newMemoryServer(t *testing.T) *httpserver.Server {
	t.Helper()

	config := configpkg.Config{
		DBDriver:            configpkg.DriverMemory,
		TokenType:           tokenpkg.TypePaseto,
		TokenSymmetricKey:   randompkg.String(32),
		AccessTokenDuration: time.Minute,
	}

	server, err := httpserver.New(nil, zerolog.Nop(), config)
	if err != nil {
		t.Fatalf("httpserver.New returned error: %v", err)
	}

	return server
}

func TestLedgerAPI(t *testing.T) {
	c := newClient(t, newMemoryServer(t))

	cash := c.createAccount(domain.Debit, "5000")
	revenue := c.createAccount(domain.Credit, "0")

	result := &domain.TransactionResult{}
	code, res := c.do(http.MethodPost, "/transactions", map[string]any{
		"name": "sale",
		"entries": []map[string]any{
			entry(cash, domain.Debit, "1000"),
			entry(revenue, domain.Credit, "1000"),
		},
	}, result)
	require.Equal(t, http.StatusOK, code, res.Error)
	require.Len(t, result.Accounts, 2)
	require.Len(t, result.Transaction.Entries, 2)

	require.True(t, c.account(cash.ID.String()).Balance.Equal(decimal.NewFromInt(6000)))
	require.True(t, c.account(revenue.ID.String()).Balance.Equal(decimal.NewFromInt(1000)))

	got := &struct {
		Transaction domain.Transaction `json:"transaction"`
	}{}
	code, res = c.do(http.MethodGet, "/transactions/"+result.Transaction.ID.String(), nil, got)
	require.Equal(t, http.StatusOK, code, res.Error)
	require.Equal(t, result.Transaction.ID, got.Transaction.ID)
	require.Len(t, got.Transaction.Entries, 2)

	list := &struct {
		Transactions []domain.Transaction `json:"transactions"`
	}{}
	code, _ = c.do(http.MethodGet, "/transactions", nil, list)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, list.Transactions, 1)

	accounts := &struct {
		Accounts []domain.Account `json:"accounts"`
	}{}
	code, _ = c.do(http.MethodGet, "/accounts", nil, accounts)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, accounts.Accounts, 2)
}

func TestLedgerAPIRejections(t *testing.T) {
	c := newClient(t, newMemoryServer(t))

	cash := c.createAccount(domain.Debit, "5000")
	revenue := c.createAccount(domain.Credit, "0")

	testCases := []struct {
		name           string
		entries        []map[string]any
		wantStatusCode int
		wantKind       domain.ErrorKind
	}{
		{
			name:           "TooFewEntries",
			entries:        []map[string]any{entry(cash, domain.Debit, "10")},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantKind:       domain.KindTooFewEntries,
		},
		{
			name: "Unbalanced",
			entries: []map[string]any{
				entry(cash, domain.Debit, "1000"),
				entry(revenue, domain.Credit, "500"),
			},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantKind:       domain.KindUnbalanced,
		},
		{
			name: "InvalidEntry",
			entries: []map[string]any{
				entry(cash, domain.Debit, "10"),
				entry(revenue, "SIDEWAYS", "10"),
			},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantKind:       domain.KindInvalidEntry,
		},
		{
			name: "NilAccount",
			entries: []map[string]any{
				entry(cash, domain.Debit, "10"),
				entry(domain.Account{}, domain.Credit, "10"),
			},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantKind:       domain.KindInvalidEntry,
		},
		{
			name: "AccountNotFound",
			entries: []map[string]any{
				entry(cash, domain.Debit, "10"),
				entry(domain.Account{ID: uuid.New()}, domain.Credit, "10"),
			},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantKind:       domain.KindAccountNotFound,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			code, res := client{t: t, server: c.server, maker: c.maker}.
				do(http.MethodPost, "/transactions", map[string]any{"entries": tc.entries}, nil)

			require.Equal(t, tc.wantStatusCode, code)
			require.Equal(t, string(tc.wantKind), res.Kind)
		})
	}

	require.True(t, c.account(cash.ID.String()).Balance.Equal(decimal.NewFromInt(5000)))
	require.True(t, c.account(revenue.ID.String()).Balance.IsZero())
}

func TestNewErrors(t *testing.T) {
	key := randompkg.String(32)

	testCases := []struct {
		name   string
		config configpkg.Config
	}{
		{
			name:   "UnsupportedDriver",
			config: configpkg.Config{DBDriver: "mysql", TokenType: tokenpkg.TypeJWT, TokenSymmetricKey: key},
		},
		{
			name:   "PostgresWithoutConnection",
			config: configpkg.Config{DBDriver: configpkg.DriverPostgres, TokenType: tokenpkg.TypeJWT, TokenSymmetricKey: key},
		},
		{
			name:   "UnsupportedTokenType",
			config: configpkg.Config{DBDriver: configpkg.DriverMemory, TokenType: "macaroon", TokenSymmetricKey: key},
		},
		{
			name:   "ShortKey",
			config: configpkg.Config{DBDriver: configpkg.DriverMemory, TokenType: tokenpkg.TypePaseto, TokenSymmetricKey: "short"},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			server, err := httpserver.New(nil, zerolog.Nop(), tc.config)
			require.Error(t, err)
			require.Nil(t, server)
		})
	}
}

func TestUnauthorized(t *testing.T) {
	server := newMemoryServer(t)

	req, err := http.NewRequest(http.MethodGet, "/accounts", nil)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
}
