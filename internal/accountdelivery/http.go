// Package accountdelivery manages delivery layer of accounts.
package accountdelivery

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/bankcore/bankcore/internal/domain"
	"github.com/bankcore/bankcore/pkg/web"
)

// Service provides service layer interface needed by account delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package accountdelivery
type Service interface {
	CreateAccount(ctx context.Context, typ domain.AccountType, id, holderName string, initialAmount decimal.Decimal) (*domain.Account, error)
	GetAccount(ctx context.Context, id string) (*domain.Account, error)
	ListAccounts(ctx context.Context) ([]*domain.Account, error)
	ListAccountsByHolder(ctx context.Context, name string) ([]*domain.Account, error)
	TransactionHistory(ctx context.Context, id string) ([]domain.Transaction, error)
	CalculateInterest(ctx context.Context, id string) (decimal.Decimal, error)
}

// Handler facilitates account delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns account handler.
func NewHandler(s Service) Handler {
	return Handler{service: s}
}

type accountResponse struct {
	ID           string             `json:"id"`
	HolderName   string             `json:"holder_name"`
	Type         domain.AccountType `json:"type"`
	Balance      decimal.Decimal    `json:"balance"`
	InterestRate decimal.Decimal    `json:"interest_rate"`
	Active       bool               `json:"active"`
	CreatedAt    time.Time          `json:"created_at"`
}

func newAccountResponse(a *domain.Account) accountResponse {
	return accountResponse{
		ID:           a.ID(),
		HolderName:   a.HolderName(),
		Type:         a.Type(),
		Balance:      a.Balance(),
		InterestRate: a.InterestRate(),
		Active:       a.Active(),
		CreatedAt:    a.CreatedAt(),
	}
}

type createRequest struct {
	ID            string `json:"id" binding:"required"`
	HolderName    string `json:"holder_name" binding:"required"`
	Type          string `json:"type" binding:"required,oneof=Savings Current Loan"`
	InitialAmount string `json:"initial_amount" binding:"required"`
}

// Create handles http request to open an account.
func (h *Handler) Create(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req createRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindingError(err)})

		return
	}

	amount, err := decimal.NewFromString(req.InitialAmount)
	if err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Error(domain.ErrInvalidAmount))

		return
	}

	account, err := h.service.CreateAccount(ctx, domain.AccountType(req.Type), req.ID, req.HolderName, amount)
	if err != nil {
		switch err {
		case domain.ErrAccountExists:
			gctx.JSON(http.StatusConflict, web.Error(err))
		case domain.ErrInvalidConfig:
			gctx.JSON(http.StatusBadRequest, web.Error(err))
		default:
			gctx.JSON(http.StatusInternalServerError, web.Error(err))
		}

		return
	}

	res := web.Response{
		Data: struct {
			Account accountResponse `json:"account"`
		}{newAccountResponse(account)},
	}

	gctx.JSON(http.StatusOK, res)
}

// Get handles http request to fetch a single account.
func (h *Handler) Get(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	account, err := h.service.GetAccount(ctx, gctx.Param("id"))
	if err != nil {
		switch err {
		case domain.ErrAccountNotFound:
			gctx.JSON(http.StatusNotFound, web.Error(err))
		default:
			gctx.JSON(http.StatusInternalServerError, web.Error(err))
		}

		return
	}

	res := web.Response{
		Data: struct {
			Account accountResponse `json:"account"`
		}{newAccountResponse(account)},
	}

	gctx.JSON(http.StatusOK, res)
}

// List handles http request to list accounts, optionally filtered by the
// holder query parameter (case-insensitive exact match).
func (h *Handler) List(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	var (
		accounts []*domain.Account
		err      error
	)

	if holder := gctx.Query("holder"); holder != "" {
		accounts, err = h.service.ListAccountsByHolder(ctx, holder)
	} else {
		accounts, err = h.service.ListAccounts(ctx)
	}

	if err != nil {
		gctx.JSON(http.StatusInternalServerError, web.Error(err))
		return
	}

	out := make([]accountResponse, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, newAccountResponse(a))
	}

	res := web.Response{
		Data: struct {
			Accounts []accountResponse `json:"accounts"`
		}{out},
	}

	gctx.JSON(http.StatusOK, res)
}

// ListTransactions handles http request to fetch an account's ledger.
func (h *Handler) ListTransactions(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	txs, err := h.service.TransactionHistory(ctx, gctx.Param("id"))
	if err != nil {
		switch err {
		case domain.ErrAccountNotFound:
			gctx.JSON(http.StatusNotFound, web.Error(err))
		default:
			gctx.JSON(http.StatusInternalServerError, web.Error(err))
		}

		return
	}

	res := web.Response{
		Data: struct {
			Transactions []domain.Transaction `json:"transactions"`
		}{txs},
	}

	gctx.JSON(http.StatusOK, res)
}

// CalculateInterest handles http request to compute interest for an account.
// With a strategy configured the figure is informational only; otherwise the
// account's own accrual has been applied by the time the response is
// written.
func (h *Handler) CalculateInterest(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	amount, err := h.service.CalculateInterest(ctx, gctx.Param("id"))
	if err != nil {
		switch err {
		case domain.ErrAccountNotFound:
			gctx.JSON(http.StatusNotFound, web.Error(err))
		default:
			gctx.JSON(http.StatusInternalServerError, web.Error(err))
		}

		return
	}

	res := web.Response{
		Data: struct {
			Interest decimal.Decimal `json:"interest"`
		}{amount},
	}

	gctx.JSON(http.StatusOK, res)
}

func bindingError(err error) web.JSONError {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		field := ve[0]
		return web.JSONError{Error: field.Field() + web.GetErrorMsg(field)}
	}

	return web.Error(err)
}
