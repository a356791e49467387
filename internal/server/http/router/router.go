package router

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/polkiloo/letterdesk/internal/metrics"
	"github.com/polkiloo/letterdesk/internal/server/http/dto"
	"github.com/polkiloo/letterdesk/internal/server/http/handlers"
	"github.com/polkiloo/letterdesk/internal/server/http/middleware"
)

// maxDecodedBody caps compressed request bodies after decoding.
const maxDecodedBody = 64 << 20

// HealthChecker reports whether backing services are reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Params are the router dependencies resolved by fx.
type Params struct {
	fx.In

	Facade  handlers.DeskFacade
	Metrics *metrics.Registry
	Health  HealthChecker
	Logger  *slog.Logger
}

// Setup configures gin router with handlers and middleware.
func Setup(p Params) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(p.Logger))
	engine.Use(middleware.RequestMetrics(p.Metrics))
	engine.Use(middleware.DecompressRequest(maxDecodedBody))
	engine.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	engine.GET("/healthz", healthz(p.Health))
	engine.GET("/metrics", gin.WrapH(p.Metrics.Handler()))

	authHandler := handlers.NewAuthHandler(p.Facade)
	orderHandler := handlers.NewOrderHandler(p.Facade)
	fileHandler := handlers.NewFileHandler(p.Facade, p.Facade)
	invoiceHandler := handlers.NewInvoiceHandler(p.Facade)
	quoteHandler := handlers.NewQuoteHandler(p.Facade)

	api := engine.Group("/api")
	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	user := api.Group("")
	user.Use(middleware.AuthRequired(p.Facade))
	user.POST("/orders", orderHandler.Create)
	user.GET("/orders", orderHandler.List)
	user.GET("/orders/:id", orderHandler.Get)
	user.GET("/orders/:id/actions", orderHandler.Actions)
	user.GET("/orders/:id/transitions", orderHandler.Transitions)
	user.POST("/orders/:id/transitions", orderHandler.Transition)
	user.GET("/orders/:id/proof-link", orderHandler.ProofLink)
	user.GET("/orders/:id/files", fileHandler.List)
	user.POST("/orders/:id/files", fileHandler.Attach)
	user.GET("/orders/:id/files/:fileID", fileHandler.Download)
	user.GET("/orders/:id/invoice", invoiceHandler.Get)
	user.GET("/orders/:id/invoice.pdf", invoiceHandler.Document)
	user.POST("/quotes", quoteHandler.Create)
	user.GET("/quotes", quoteHandler.List)
	user.GET("/quotes/:id", quoteHandler.Get)
	user.POST("/quotes/:id/convert", quoteHandler.Convert)

	admin := user.Group("")
	admin.Use(middleware.AdminOnly())
	admin.POST("/orders/bulk", orderHandler.Bulk)
	admin.POST("/orders/:id/proofs", fileHandler.UploadProof)
	admin.POST("/orders/:id/emails", orderHandler.SendEmail)
	admin.POST("/orders/:id/invoice", invoiceHandler.Generate)

	return engine
}

func healthz(checker HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := checker.HealthCheck(c.Request.Context()); err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Error: "database unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
