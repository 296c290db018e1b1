package routes

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "solstice_leads/docs" // swagger spec registration
	"solstice_leads/internal/adapter/http/handlers"
	"solstice_leads/internal/adapter/http/middleware"
	"solstice_leads/internal/config"
	"solstice_leads/internal/usecase"
)

// Dependencies are the wired usecases and probes the router serves.
type Dependencies struct {
	Config     *config.Config
	Log        *zap.Logger
	Contacts   usecase.IContactUseCase
	Inquiries  usecase.IInquiryUseCase
	Dashboard  usecase.IDashboardUseCase
	Pingers    map[string]handlers.Pinger
	Dispatcher *usecase.NotificationDispatcher
}

// NewRouter builds the gin engine wrapped in CORS handling.
func NewRouter(deps Dependencies) http.Handler {
	if deps.Config.Server.Mode != "" {
		gin.SetMode(deps.Config.Server.Mode)
	}
	router := gin.New()
	setMiddlewares(router, deps.Log)

	// Swagger documentation endpoint
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	health := handlers.NewHealthHandler(deps.Pingers)

	v1 := router.Group("/v1")
	addPingRoutes(v1, health)
	addContactRoutes(v1, handlers.NewContactHandler(deps.Contacts, deps.Log))
	addInquiryRoutes(v1, handlers.NewInquiryHandler(deps.Inquiries, deps.Log))
	addAdminRoutes(v1, handlers.NewAdminHandler(deps.Dashboard, deps.Log))

	return middleware.NewCORS(deps.Config.Server.CorsAllowedOrigins)(router)
}

// Run serves until ctx is cancelled, then drains in-flight requests and
// pending notifications within the shutdown timeout.
func Run(ctx context.Context, deps Dependencies) error {
	cfg := deps.Config.Server
	srv := &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.Port),
		Handler:      NewRouter(deps),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		deps.Log.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	deps.Log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if deps.Dispatcher != nil {
		if err := deps.Dispatcher.Wait(shutdownCtx); err != nil {
			deps.Log.Warn("pending notifications abandoned", zap.Error(err))
		}
	}
	return nil
}

func setMiddlewares(router *gin.Engine, log *zap.Logger) {
	router.Use(middleware.Recovery(log))
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.Metrics())
}
