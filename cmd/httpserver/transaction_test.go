//go:build integration

package httpserver_test

import (
	"net/http"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/go-petr/pet-ledger/internal/accountrepo"
	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/internal/integrationtest"
	"github.com/go-petr/pet-ledger/internal/integrationtest/helpers"
)

func TestPostTransactionAPI(t *testing.T) {
	server := integrationtest.SetupServer(t, "../../configs")
	c := newClient(t, server)

	accounts := accountrepo.NewRepoPGS(server.DB)
	cash := helpers.SeedAccount(t, accounts, domain.Debit, decimal.NewFromInt(5000))
	revenue := helpers.SeedAccount(t, accounts, domain.Credit, decimal.Zero)

	testCases := []struct {
		name           string
		entries        []map[string]any
		wantStatusCode int
		wantKind       domain.ErrorKind
		wantCash       int64
		wantRevenue    int64
	}{
		{
			name: "Unbalanced",
			entries: []map[string]any{
				entry(cash, domain.Debit, "1000"),
				entry(revenue, domain.Credit, "500"),
			},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantKind:       domain.KindUnbalanced,
			wantCash:       5000,
		},
		{
			name: "OK",
			entries: []map[string]any{
				entry(cash, domain.Debit, "1000"),
				entry(revenue, domain.Credit, "1000"),
			},
			wantStatusCode: http.StatusOK,
			wantCash:       6000,
			wantRevenue:    1000,
		},
		{
			name: "NetUpdate",
			entries: []map[string]any{
				entry(cash, domain.Credit, "500"),
				entry(cash, domain.Credit, "300"),
				entry(revenue, domain.Debit, "800"),
			},
			wantStatusCode: http.StatusOK,
			wantCash:       5200,
			wantRevenue:    200,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			c := client{t: t, server: c.server, maker: c.maker}

			code, res := c.do(http.MethodPost, "/transactions", map[string]any{"entries": tc.entries}, nil)
			require.Equal(t, tc.wantStatusCode, code, res.Error)
			require.Equal(t, string(tc.wantKind), res.Kind)

			require.True(t, c.account(cash.ID.String()).Balance.Equal(decimal.NewFromInt(tc.wantCash)))
			require.True(t, c.account(revenue.ID.String()).Balance.Equal(decimal.NewFromInt(tc.wantRevenue)))
		})
	}
}

func TestConcurrentPostTransactionAPI(t *testing.T) {
	server := integrationtest.SetupServer(t, "../../configs")

	accounts := accountrepo.NewRepoPGS(server.DB)
	cash := helpers.SeedAccount(t, accounts, domain.Debit, decimal.Zero)
	revenue := helpers.SeedAccount(t, accounts, domain.Credit, decimal.Zero)

	const n = 20

	var wg sync.WaitGroup

	codes := make(chan int, n)

	for i := 0; i < n; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			code, _ := newClient(t, server).do(http.MethodPost, "/transactions", map[string]any{
				"entries": []map[string]any{
					entry(cash, domain.Debit, "10"),
					entry(revenue, domain.Credit, "10"),
				},
			}, nil)
			codes <- code
		}()
	}

	wg.Wait()
	close(codes)

	// Serialization failures surface as 503 and leave no trace.
	committed := int64(0)

	for code := range codes {
		switch code {
		case http.StatusOK:
			committed++
		case http.StatusServiceUnavailable:
		default:
			t.Errorf("unexpected status code %d", code)
		}
	}

	c := newClient(t, server)
	want := decimal.NewFromInt(10 * committed)

	require.True(t, c.account(cash.ID.String()).Balance.Equal(want))
	require.True(t, c.account(revenue.ID.String()).Balance.Equal(want))
}
