package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/bankcore/bankcore/internal/accountrepo"
	"github.com/bankcore/bankcore/pkg/configpkg"
)

func testServer(t *testing.T) *Server {
	t.Helper()

	config := configpkg.Config{
		ServerAddress:                "0.0.0.0:8080",
		SavingsInterestRate:          0.04,
		SavingsMinBalanceForInterest: 1000,
		LoanInterestRate:             0.08,
		CurrentOverdraftLimit:        50000,
		FraudAlertThreshold:          100000,
	}

	return New(accountrepo.NewRepoMem(), zerolog.Nop(), config)
}

func doJSON(t *testing.T, server *Server, method, target string, body gin.H) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, req)

	return recorder
}

func accountBalance(t *testing.T, server *Server, id string) decimal.Decimal {
	t.Helper()

	recorder := doJSON(t, server, http.MethodGet, "/accounts/"+id, nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var res struct {
		Data struct {
			Account struct {
				Balance decimal.Decimal `json:"balance"`
			} `json:"account"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &res))

	return res.Data.Account.Balance
}

func TestServerLifecycle(t *testing.T) {
	server := testServer(t)

	recorder := doJSON(t, server, http.MethodPost, "/accounts", gin.H{
		"id": "SA001", "holder_name": "alice", "type": "Savings", "initial_amount": "50000",
	})
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder = doJSON(t, server, http.MethodPost, "/accounts", gin.H{
		"id": "CA001", "holder_name": "bob", "type": "Current", "initial_amount": "150000",
	})
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder = doJSON(t, server, http.MethodPost, "/deposits", gin.H{
		"account_id": "SA001", "amount": "25000",
	})
	require.Equal(t, http.StatusOK, recorder.Code)
	require.True(t, accountBalance(t, server, "SA001").Equal(decimal.NewFromInt(75000)))

	recorder = doJSON(t, server, http.MethodPost, "/withdrawals", gin.H{
		"account_id": "SA001", "amount": "10000",
	})
	require.Equal(t, http.StatusOK, recorder.Code)
	require.True(t, accountBalance(t, server, "SA001").Equal(decimal.NewFromInt(65000)))

	recorder = doJSON(t, server, http.MethodPost, "/transfers", gin.H{
		"from_account_id": "SA001", "to_account_id": "CA001", "amount": "15000",
	})
	require.Equal(t, http.StatusOK, recorder.Code)
	require.True(t, accountBalance(t, server, "SA001").Equal(decimal.NewFromInt(50000)))
	require.True(t, accountBalance(t, server, "CA001").Equal(decimal.NewFromInt(165000)))

	// Ledger reflects the three movements on the source account.
	recorder = doJSON(t, server, http.MethodGet, "/accounts/SA001/transactions", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var history struct {
		Data struct {
			Transactions []struct {
				Type         string          `json:"type"`
				Amount       decimal.Decimal `json:"amount"`
				BalanceAfter decimal.Decimal `json:"balance_after"`
			} `json:"transactions"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &history))
	require.Len(t, history.Data.Transactions, 3)
	require.Equal(t, "Deposit", history.Data.Transactions[0].Type)
	require.Equal(t, "Withdrawal", history.Data.Transactions[1].Type)
	require.Equal(t, "Withdrawal", history.Data.Transactions[2].Type)
	require.True(t, history.Data.Transactions[2].BalanceAfter.Equal(decimal.NewFromInt(50000)))

	// One audit record per observer fan-out: deposit, withdrawal and the two
	// transfer legs.
	require.Len(t, server.AuditLog.Records(), 4)
	require.Empty(t, server.Fraud.Flags())
}

func TestServerErrorStatuses(t *testing.T) {
	server := testServer(t)

	recorder := doJSON(t, server, http.MethodPost, "/accounts", gin.H{
		"id": "SA001", "holder_name": "alice", "type": "Savings", "initial_amount": "1000",
	})
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder = doJSON(t, server, http.MethodPost, "/accounts", gin.H{
		"id": "SA001", "holder_name": "alice", "type": "Savings", "initial_amount": "1000",
	})
	require.Equal(t, http.StatusConflict, recorder.Code)

	recorder = doJSON(t, server, http.MethodGet, "/accounts/SA404", nil)
	require.Equal(t, http.StatusNotFound, recorder.Code)

	recorder = doJSON(t, server, http.MethodPost, "/withdrawals", gin.H{
		"account_id": "SA001", "amount": "999999",
	})
	require.Equal(t, http.StatusUnprocessableEntity, recorder.Code)

	recorder = doJSON(t, server, http.MethodPost, "/transfers", gin.H{
		"from_account_id": "SA001", "to_account_id": "SA001", "amount": "100",
	})
	require.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestServerInterestEndpoint(t *testing.T) {
	server := testServer(t)

	recorder := doJSON(t, server, http.MethodPost, "/accounts", gin.H{
		"id": "SA001", "holder_name": "alice", "type": "Savings", "initial_amount": "10000",
	})
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder = doJSON(t, server, http.MethodPost, "/accounts/SA001/interest", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var res struct {
		Data struct {
			Interest decimal.Decimal `json:"interest"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &res))
	require.True(t, res.Data.Interest.Equal(decimal.NewFromInt(400)))
	require.True(t, accountBalance(t, server, "SA001").Equal(decimal.NewFromInt(10400)))
}

func TestServerFraudObserver(t *testing.T) {
	server := testServer(t)

	recorder := doJSON(t, server, http.MethodPost, "/accounts", gin.H{
		"id": "CA001", "holder_name": "bob", "type": "Current", "initial_amount": "500000",
	})
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder = doJSON(t, server, http.MethodPost, "/deposits", gin.H{
		"account_id": "CA001", "amount": "150000",
	})
	require.Equal(t, http.StatusOK, recorder.Code)

	flags := server.Fraud.Flags()
	require.Len(t, flags, 1)
	require.Equal(t, "large transaction", flags[0].Reason)
	require.Equal(t, "CA001", flags[0].AccountID)
}

func TestServerMetricsEndpoint(t *testing.T) {
	server := testServer(t)

	recorder := doJSON(t, server, http.MethodPost, "/accounts", gin.H{
		"id": "SA001", "holder_name": "alice", "type": "Savings", "initial_amount": "10000",
	})
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder = doJSON(t, server, http.MethodPost, "/deposits", gin.H{
		"account_id": "SA001", "amount": "500",
	})
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder = doJSON(t, server, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Contains(t, recorder.Body.String(), `bank_transactions_total{type="Deposit"} 1`)
}
