// Package transactiondelivery manages delivery layer of money movements.
package transactiondelivery

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/bankcore/bankcore/internal/domain"
	"github.com/bankcore/bankcore/pkg/web"
)

// Service provides service layer interface needed by transaction delivery
// layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package transactiondelivery
type Service interface {
	Deposit(ctx context.Context, id string, amount decimal.Decimal) (domain.Transaction, error)
	Withdraw(ctx context.Context, id string, amount decimal.Decimal) (domain.Transaction, error)
	Transfer(ctx context.Context, fromID, toID string, amount decimal.Decimal) (domain.TransferResult, error)
}

// Handler facilitates transaction delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns transaction handler.
func NewHandler(s Service) Handler {
	return Handler{service: s}
}

type moveRequest struct {
	AccountID string `json:"account_id" binding:"required"`
	Amount    string `json:"amount" binding:"required"`
}

// Deposit handles http request to credit an account.
func (h *Handler) Deposit(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	req, amount, ok := bindMove(gctx)
	if !ok {
		return
	}

	tx, err := h.service.Deposit(ctx, req.AccountID, amount)
	if err != nil {
		l.Info().Err(err).Send()
		writeOperationError(gctx, err)

		return
	}

	gctx.JSON(http.StatusOK, transactionResponse(tx))
}

// Withdraw handles http request to debit an account.
func (h *Handler) Withdraw(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	req, amount, ok := bindMove(gctx)
	if !ok {
		return
	}

	tx, err := h.service.Withdraw(ctx, req.AccountID, amount)
	if err != nil {
		l.Info().Err(err).Send()
		writeOperationError(gctx, err)

		return
	}

	gctx.JSON(http.StatusOK, transactionResponse(tx))
}

type transferRequest struct {
	FromAccountID string `json:"from_account_id" binding:"required"`
	ToAccountID   string `json:"to_account_id" binding:"required"`
	Amount        string `json:"amount" binding:"required"`
}

// Transfer handles http request to move money between two accounts.
func (h *Handler) Transfer(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req transferRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindingError(err)})

		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Error(domain.ErrInvalidAmount))

		return
	}

	result, err := h.service.Transfer(ctx, req.FromAccountID, req.ToAccountID, amount)
	if err != nil {
		l.Info().Err(err).Send()
		writeOperationError(gctx, err)

		return
	}

	res := web.Response{
		Data: struct {
			Transfer domain.TransferResult `json:"transfer"`
		}{result},
	}

	gctx.JSON(http.StatusOK, res)
}

func bindMove(gctx *gin.Context) (moveRequest, decimal.Decimal, bool) {
	l := zerolog.Ctx(gctx.Request.Context())

	var req moveRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindingError(err)})

		return req, decimal.Zero, false
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Error(domain.ErrInvalidAmount))

		return req, decimal.Zero, false
	}

	return req, amount, true
}

func transactionResponse(tx domain.Transaction) web.Response {
	return web.Response{
		Data: struct {
			Transaction domain.Transaction `json:"transaction"`
		}{tx},
	}
}

func writeOperationError(gctx *gin.Context, err error) {
	switch err {
	case domain.ErrAccountNotFound:
		gctx.JSON(http.StatusNotFound, web.Error(err))
	case domain.ErrInsufficientFunds, domain.ErrOverpayment:
		gctx.JSON(http.StatusUnprocessableEntity, web.Error(err))
	case domain.ErrInvalidTransaction, domain.ErrInvalidAmount, domain.ErrSameAccountTransfer:
		gctx.JSON(http.StatusBadRequest, web.Error(err))
	default:
		gctx.JSON(http.StatusInternalServerError, web.Error(err))
	}
}

func bindingError(err error) web.JSONError {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		field := ve[0]
		return web.JSONError{Error: field.Field() + web.GetErrorMsg(field)}
	}

	return web.Error(err)
}
