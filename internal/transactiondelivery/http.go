// Package transactiondelivery manages delivery layer of transactions.
package transactiondelivery

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/pkg/errorspkg"
	"github.com/go-petr/pet-ledger/pkg/web"
)

// Service provides service layer interface needed by transaction delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package transactiondelivery
type Service interface {
	Post(ctx context.Context, arg domain.CreateTransactionParams) (domain.TransactionResult, error)
	Get(ctx context.Context, id uuid.UUID) (domain.Transaction, error)
	List(ctx context.Context) ([]domain.Transaction, error)
}

// Handler facilitates transaction delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns transaction handler.
func NewHandler(ts Service) Handler {
	return Handler{service: ts}
}

type response struct {
	Data domain.TransactionResult `json:"data,omitempty"`
}

type entryRequest struct {
	ID        string          `json:"id"`
	AccountID string          `json:"account_id"`
	Amount    decimal.Decimal `json:"amount"`
	Direction string          `json:"direction"`
}

type createRequest struct {
	ID      string         `json:"id" binding:"omitempty,uuid"`
	Name    string         `json:"name" binding:"max=255"`
	Entries []entryRequest `json:"entries"`
}

// params converts the request into service params.
//
// Entry fields are checked by the service so that malformed entries are reported
// with their index.
func (req createRequest) params() (domain.CreateTransactionParams, error) {
	arg := domain.CreateTransactionParams{
		Name:    req.Name,
		Entries: make([]domain.CreateEntryParams, 0, len(req.Entries)),
	}

	if req.ID != "" {
		arg.ID = uuid.MustParse(req.ID)
	}

	for i, e := range req.Entries {
		entry := domain.CreateEntryParams{
			Amount:    e.Amount,
			Direction: domain.Direction(e.Direction),
		}

		if d, ok := domain.ParseDirection(e.Direction); ok {
			entry.Direction = d
		}

		if e.ID != "" {
			id, err := uuid.Parse(e.ID)
			if err != nil {
				return arg, domain.NewInvalidEntryError(i, "id")
			}
			entry.ID = id
		}

		if e.AccountID != "" {
			id, err := uuid.Parse(e.AccountID)
			if err != nil {
				return arg, domain.NewInvalidEntryError(i, "account_id")
			}
			entry.AccountID = id
		}

		arg.Entries = append(arg.Entries, entry)
	}

	return arg, nil
}

func (h *Handler) status(err error) (int, web.Response) {
	var ve *domain.ValidationError

	switch {
	case errors.As(err, &ve):
		return http.StatusUnprocessableEntity, web.Error(err)
	case errors.Is(err, domain.ErrTransactionAlreadyExists):
		return http.StatusConflict, web.Error(err)
	case errors.Is(err, domain.ErrStorageFailure):
		return http.StatusServiceUnavailable, web.Error(err)
	}

	return http.StatusInternalServerError, web.Error(errorspkg.ErrInternal)
}

// Create handles http request to post a transaction.
func (h *Handler) Create(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req createRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.BindingError(err))

		return
	}

	arg, err := req.params()
	if err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(h.status(err))

		return
	}

	result, err := h.service.Post(ctx, arg)
	if err != nil {
		gctx.JSON(h.status(err))
		return
	}

	gctx.JSON(http.StatusOK, response{Data: result})
}

type getRequest struct {
	ID string `uri:"id" binding:"required,uuid"`
}

type dataTransaction struct {
	Transaction domain.Transaction `json:"transaction"`
}
type responseTransaction struct {
	Data dataTransaction `json:"data,omitempty"`
}

// Get handles http request to get a transaction with its entries.
func (h *Handler) Get(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req getRequest
	if err := gctx.ShouldBindUri(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.BindingError(err))

		return
	}

	t, err := h.service.Get(ctx, uuid.MustParse(req.ID))
	if err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			gctx.JSON(http.StatusNotFound, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, responseTransaction{Data: dataTransaction{t}})
}

type dataTransactions struct {
	Transactions []domain.Transaction `json:"transactions"`
}
type responseTransactions struct {
	Data dataTransactions `json:"data,omitempty"`
}

// List handles http request to list transactions.
func (h *Handler) List(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	items, err := h.service.List(ctx)
	if err != nil {
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))
		return
	}

	if items == nil {
		items = []domain.Transaction{}
	}

	gctx.JSON(http.StatusOK, responseTransactions{Data: dataTransactions{items}})
}
