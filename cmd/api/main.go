package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/drb-alger/gestion-magasin/internal/application/auth"
	"github.com/drb-alger/gestion-magasin/internal/application/inventory"
	"github.com/drb-alger/gestion-magasin/internal/application/report"
	"github.com/drb-alger/gestion-magasin/internal/domain/entity"
	"github.com/drb-alger/gestion-magasin/internal/infrastructure/events"
	"github.com/drb-alger/gestion-magasin/internal/infrastructure/metrics"
	infrapdf "github.com/drb-alger/gestion-magasin/internal/infrastructure/pdf"
	"github.com/drb-alger/gestion-magasin/internal/infrastructure/spreadsheet"
	"github.com/drb-alger/gestion-magasin/internal/infrastructure/store"
	httpRouter "github.com/drb-alger/gestion-magasin/internal/interfaces/http"
	"github.com/drb-alger/gestion-magasin/pkg/config"
	"github.com/drb-alger/gestion-magasin/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	st, err := store.Open(ctx, cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("apertura de la base de datos")
	}
	defer st.Close()

	collector := metrics.New(prometheus.DefaultRegisterer)

	var publisher inventory.EventPublisher = inventory.NopPublisher{}
	if cfg.Kafka.Enabled() {
		kp := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
		defer kp.Close()
		publisher = kp
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("publicación de eventos activa")
	}

	catalog := entity.NewCatalog(cfg.Catalog.Categories, cfg.Catalog.Recipients)
	productUC := inventory.NewProductUseCase(st.Products, st.Tx, collector, catalog, log)
	movementUC := inventory.NewMovementUseCase(st.Tx, publisher, collector, catalog, log)
	historyUC := inventory.NewHistoryUseCase(st.History, cfg.History.DefaultLimit, cfg.History.MaxLimit, log)
	replenishmentUC := inventory.NewReplenishmentUseCase(st.Products)
	reportUC := report.NewUseCase(st.Products, historyUC, log,
		spreadsheet.NewExcelRenderer(),
		infrapdf.NewReportRenderer(cfg.App.Name),
	)

	authUC, err := auth.NewAuthUseCase(cfg.Auth.PasswordHash, cfg.Auth.Password, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("configuración de autenticación")
	}
	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET requerido")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log, collector))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Gestion Magasin API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:      productUC,
		MovementUC:     movementUC,
		HistoryUC:      historyUC,
		Replenishment:  replenishmentUC,
		ReportUC:       reportUC,
		AuthUC:         authUC,
		Catalog:        catalog,
		JWTSecret:      cfg.JWT.Secret,
		MetricsHandler: promhttp.Handler(),
		ServiceName:    cfg.App.Name,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
