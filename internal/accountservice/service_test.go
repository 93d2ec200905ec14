package accountservice

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/pkg/errorspkg"
	"github.com/go-petr/pet-ledger/pkg/randompkg"
)

func randomAccount() domain.Account {
	return domain.Account{
		ID:        uuid.New(),
		Name:      randompkg.Name(),
		Balance:   randompkg.MoneyAmountBetween(0, 1000),
		Direction: domain.Debit,
		CreatedAt: time.Now().Truncate(time.Second).UTC(),
	}
}

func TestCreate(t *testing.T) {
	testAccount := randomAccount()
	generatedID := uuid.New()

	testCases := []struct {
		name          string
		arg           domain.CreateAccountParams
		buildStubs    func(repo *MockRepo)
		checkResponse func(t *testing.T, res domain.Account, err error)
	}{
		{
			name: "OK",
			arg: domain.CreateAccountParams{
				ID:        testAccount.ID,
				Name:      testAccount.Name,
				Balance:   testAccount.Balance,
				Direction: testAccount.Direction,
			},
			buildStubs: func(repo *MockRepo) {
				arg := domain.CreateAccountParams{
					ID:        testAccount.ID,
					Name:      testAccount.Name,
					Balance:   testAccount.Balance,
					Direction: testAccount.Direction,
				}
				repo.EXPECT().Create(gomock.Any(), gomock.Eq(arg)).Times(1).Return(testAccount, nil)
			},
			checkResponse: func(t *testing.T, res domain.Account, err error) {
				require.NoError(t, err)
				require.Equal(t, testAccount, res)
			},
		},
		{
			name: "GeneratedID",
			arg: domain.CreateAccountParams{
				Direction: domain.Credit,
			},
			buildStubs: func(repo *MockRepo) {
				arg := domain.CreateAccountParams{
					ID:        generatedID,
					Direction: domain.Credit,
				}
				repo.EXPECT().Create(gomock.Any(), gomock.Eq(arg)).
					Times(1).
					Return(domain.Account{ID: generatedID, Balance: decimal.Zero, Direction: domain.Credit}, nil)
			},
			checkResponse: func(t *testing.T, res domain.Account, err error) {
				require.NoError(t, err)
				require.Equal(t, generatedID, res.ID)
				require.True(t, res.Balance.IsZero())
			},
		},
		{
			name: "InvalidDirection",
			arg: domain.CreateAccountParams{
				ID:        testAccount.ID,
				Direction: "SIDEWAYS",
			},
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(t *testing.T, res domain.Account, err error) {
				require.Empty(t, res)

				kind, ok := domain.KindOf(err)
				require.True(t, ok)
				require.Equal(t, domain.KindInvalidEntry, kind)
			},
		},
		{
			name: "AlreadyExists",
			arg: domain.CreateAccountParams{
				ID:        testAccount.ID,
				Direction: testAccount.Direction,
			},
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().Create(gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.Account{}, domain.ErrAccountAlreadyExists)
			},
			checkResponse: func(t *testing.T, res domain.Account, err error) {
				require.Empty(t, res)
				require.ErrorIs(t, err, domain.ErrAccountAlreadyExists)
			},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := NewMockRepo(ctrl)
			tc.buildStubs(repo)

			s := New(repo)
			s.newID = func() uuid.UUID { return generatedID }

			res, err := s.Create(context.Background(), tc.arg)
			tc.checkResponse(t, res, err)
		})
	}
}

func TestGet(t *testing.T) {
	testAccount := randomAccount()

	testCases := []struct {
		name          string
		buildStubs    func(repo *MockRepo)
		checkResponse func(t *testing.T, res domain.Account, err error)
	}{
		{
			name: "OK",
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().Get(gomock.Any(), gomock.Eq(testAccount.ID)).Times(1).Return(testAccount, nil)
			},
			checkResponse: func(t *testing.T, res domain.Account, err error) {
				require.NoError(t, err)
				require.Equal(t, testAccount, res)
			},
		},
		{
			name: "NotFound",
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().Get(gomock.Any(), gomock.Eq(testAccount.ID)).
					Times(1).
					Return(domain.Account{}, domain.ErrAccountNotFound)
			},
			checkResponse: func(t *testing.T, res domain.Account, err error) {
				require.Empty(t, res)
				require.ErrorIs(t, err, domain.ErrAccountNotFound)
			},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := NewMockRepo(ctrl)
			tc.buildStubs(repo)

			res, err := New(repo).Get(context.Background(), testAccount.ID)
			tc.checkResponse(t, res, err)
		})
	}
}

func TestList(t *testing.T) {
	accounts := []domain.Account{randomAccount(), randomAccount()}

	testCases := []struct {
		name          string
		buildStubs    func(repo *MockRepo)
		checkResponse func(t *testing.T, res []domain.Account, err error)
	}{
		{
			name: "OK",
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().List(gomock.Any()).Times(1).Return(accounts, nil)
			},
			checkResponse: func(t *testing.T, res []domain.Account, err error) {
				require.NoError(t, err)
				require.Equal(t, accounts, res)
			},
		},
		{
			name: "InternalError",
			buildStubs: func(repo *MockRepo) {
				repo.EXPECT().List(gomock.Any()).Times(1).Return(nil, errorspkg.ErrInternal)
			},
			checkResponse: func(t *testing.T, res []domain.Account, err error) {
				require.Nil(t, res)
				require.ErrorIs(t, err, errorspkg.ErrInternal)
			},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := NewMockRepo(ctrl)
			tc.buildStubs(repo)

			res, err := New(repo).List(context.Background())
			tc.checkResponse(t, res, err)
		})
	}
}
