// Package httpapi exposes the services over a JSON REST API. Domain
// errors cross this boundary through statusFromError and nowhere else.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gramolapp/gramola/internal/logging"
	"github.com/gramolapp/gramola/internal/mail"
	"github.com/gramolapp/gramola/internal/server/config"
	"github.com/gramolapp/gramola/internal/server/services"
)

type Server struct {
	users    *services.UserService
	payments *services.PaymentService
	mailer   mail.Mailer
	logger   logging.Logger

	jwtSecret []byte
	currency  string

	httpServer *http.Server
}

func NewServer(users *services.UserService, payments *services.PaymentService, mailer mail.Mailer, logger logging.Logger, cfg *config.Config) *Server {
	s := &Server{
		users:     users,
		payments:  payments,
		mailer:    mailer,
		logger:    logger,
		jwtSecret: []byte(cfg.JWTSecret),
		currency:  cfg.Currency,
	}
	s.httpServer = &http.Server{
		Addr:              cfg.EndpointAddrHTTP,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Router builds the gin engine with all routes registered. Exposed
// separately so handler tests can drive it through httptest.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), s.requestLogger())

	users := router.Group("/users")
	{
		users.POST("/register", s.handleRegister)
		users.POST("/login", s.handleLogin)
		users.GET("/activate/:email", s.handleActivate)
		users.GET("/:email/is-active", s.handleIsActive)
		users.POST("/:email/check-proximity", s.handleCheckProximity)
	}

	authed := router.Group("/users", s.requireAuth())
	{
		authed.DELETE("/delete/:email", s.handleDelete)
		authed.GET("/:email/activation-url", s.handleActivationURL)
		authed.GET("/:email/data", s.handleUserData)
		authed.GET("/:email/bar-data", s.handleGetBarData)
		authed.PUT("/:email/bar-data", s.handleSetBarData)
		authed.GET("/:email/coste-cancion", s.handleGetSongPrice)
		authed.PUT("/:email/coste-cancion", s.handleSetSongPrice)
		authed.PUT("/:email/password", s.handleUpdatePassword)
		authed.GET("/:email/firma", s.handleSignature)
		authed.GET("/:email/spotify/access", s.handleAccessToken)
		authed.GET("/:email/spotify/private", s.handleRefreshToken)
		authed.GET("/:email/subscription/active", s.handleSubscriptionActive)
	}

	pay := router.Group("/payments")
	{
		pay.GET("/subscription-cost", s.handleSubscriptionCost)
		pay.GET("/prepay", s.handlePrepaySubscription)
		pay.POST("/confirm-subscription", s.handleConfirmSubscription)
		pay.POST("/prepay-song", s.handlePrepaySong)
		pay.POST("/confirm-song", s.handleConfirmSong)
	}

	email := router.Group("/api/email", s.requireAuth())
	{
		email.POST("/send-simple", s.handleSendSimple)
		email.POST("/send-html", s.handleSendHTML)
	}

	return router
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info(c.Request.Context(), "http request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start).String(),
		)
	}
}

func (s *Server) Start() error {
	s.logger.Info(context.Background(), "http server listening", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
