// Package httpserver manages server creation and api routing.
package httpserver

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/go-petr/pet-ledger/internal/accountdelivery"
	"github.com/go-petr/pet-ledger/internal/accountrepo"
	"github.com/go-petr/pet-ledger/internal/accountservice"
	"github.com/go-petr/pet-ledger/internal/memstore"
	"github.com/go-petr/pet-ledger/internal/middleware"
	"github.com/go-petr/pet-ledger/internal/transactiondelivery"
	"github.com/go-petr/pet-ledger/internal/transactionrepo"
	"github.com/go-petr/pet-ledger/internal/transactionservice"
	"github.com/go-petr/pet-ledger/pkg/configpkg"
	"github.com/go-petr/pet-ledger/pkg/tokenpkg"
)

// Server holds db connection, handlers router and configuration.
type Server struct {
	DB     *sql.DB
	Engine *gin.Engine
	Config configpkg.Config
}

// ServeHTTP implements the http.Handler interface for the Server type.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Engine.ServeHTTP(w, r)
}

// repos picks the storage backend for the configured driver.
func repos(conn *sql.DB, driver string) (accountservice.Repo, transactionservice.Repo, error) {
	switch driver {
	case configpkg.DriverMemory:
		store := memstore.New()
		return store.Accounts(), store.Transactions(), nil
	case configpkg.DriverPostgres:
		if conn == nil {
			return nil, nil, errors.New("postgres driver requires a db connection")
		}
		return accountrepo.NewRepoPGS(conn), transactionrepo.NewRepoPGS(conn), nil
	}

	return nil, nil, fmt.Errorf("unsupported db driver %q", driver)
}

// New creates Server type with instantiated domains and routes.
//
// conn may be nil when the memory driver is configured.
func New(conn *sql.DB, logger zerolog.Logger, config configpkg.Config) (*Server, error) {
	accountRepo, transactionRepo, err := repos(conn, config.DBDriver)
	if err != nil {
		return nil, err
	}

	tokenMaker, err := tokenpkg.New(config.TokenType, config.TokenSymmetricKey)
	if err != nil {
		return nil, fmt.Errorf("cannot create token maker: %w", err)
	}

	accountService := accountservice.New(accountRepo)
	transactionService := transactionservice.New(transactionRepo, accountService)

	accountHandler := accountdelivery.NewHandler(accountService)
	transactionHandler := transactiondelivery.NewHandler(transactionService)

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(middleware.RequestLogger(logger))
	engine.Use(gin.Recovery())

	authRoutes := engine.Group("/").Use(middleware.AuthMiddleware(tokenMaker))

	authRoutes.POST("/accounts", accountHandler.Create)
	authRoutes.GET("/accounts/:id", accountHandler.Get)
	authRoutes.GET("/accounts", accountHandler.List)

	authRoutes.POST("/transactions", transactionHandler.Create)
	authRoutes.GET("/transactions/:id", transactionHandler.Get)
	authRoutes.GET("/transactions", transactionHandler.List)

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		err := v.RegisterValidation("direction", accountdelivery.ValidDirection)
		if err != nil {
			return nil, errors.New("cannot register direction validator")
		}
	}

	server := &Server{
		DB:     conn,
		Engine: engine,
		Config: config,
	}

	return server, nil
}
