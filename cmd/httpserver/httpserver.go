// Package httpserver manages server creation and api routing.
package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/bankcore/bankcore/internal/accountdelivery"
	"github.com/bankcore/bankcore/internal/bankservice"
	"github.com/bankcore/bankcore/internal/middleware"
	"github.com/bankcore/bankcore/internal/observer"
	"github.com/bankcore/bankcore/internal/transactiondelivery"
	"github.com/bankcore/bankcore/pkg/configpkg"
)

// Server holds the engine, the wired banking service and its observers.
type Server struct {
	Engine   *gin.Engine
	Config   configpkg.Config
	Service  *bankservice.Service
	AuditLog *observer.AuditLog
	Fraud    *observer.FraudDetection
}

// ServeHTTP implements the http.Handler interface for the Server type.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Engine.ServeHTTP(w, r)
}

// New creates a Server wired over the given account store.
func New(repo bankservice.Repo, logger zerolog.Logger, config configpkg.Config) *Server {
	defaults := bankservice.Defaults{
		SavingsInterestRate:          decimal.NewFromFloat(config.SavingsInterestRate),
		SavingsMinBalanceForInterest: decimal.NewFromFloat(config.SavingsMinBalanceForInterest),
		LoanInterestRate:             decimal.NewFromFloat(config.LoanInterestRate),
		CurrentOverdraftLimit:        decimal.NewFromFloat(config.CurrentOverdraftLimit),
	}

	service := bankservice.New(repo, defaults)

	auditLog := observer.NewAuditLog()
	fraud := observer.NewFraudDetection(decimal.NewFromFloat(config.FraudAlertThreshold), logger)

	registry := prometheus.NewRegistry()
	metrics := observer.NewMetrics(registry)

	service.AddObserver(observer.NewNotification(logger))
	service.AddObserver(auditLog)
	service.AddObserver(fraud)
	service.AddObserver(metrics)

	accountHandler := accountdelivery.NewHandler(service)
	transactionHandler := transactiondelivery.NewHandler(service)

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(middleware.RequestLogger(logger))
	engine.Use(gin.Recovery())

	engine.POST("/accounts", accountHandler.Create)
	engine.GET("/accounts/:id", accountHandler.Get)
	engine.GET("/accounts", accountHandler.List)
	engine.GET("/accounts/:id/transactions", accountHandler.ListTransactions)
	engine.POST("/accounts/:id/interest", accountHandler.CalculateInterest)

	engine.POST("/deposits", transactionHandler.Deposit)
	engine.POST("/withdrawals", transactionHandler.Withdraw)
	engine.POST("/transfers", transactionHandler.Transfer)

	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	return &Server{
		Engine:   engine,
		Config:   config,
		Service:  service,
		AuditLog: auditLog,
		Fraud:    fraud,
	}
}
