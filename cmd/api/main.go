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

	"github.com/jhoicas/retail-api/internal/application/access"
	"github.com/jhoicas/retail-api/internal/application/auth"
	"github.com/jhoicas/retail-api/internal/application/cart"
	"github.com/jhoicas/retail-api/internal/application/inventory"
	"github.com/jhoicas/retail-api/internal/application/sales"
	"github.com/jhoicas/retail-api/internal/application/usecase"
	"github.com/jhoicas/retail-api/internal/bootstrap"
	"github.com/jhoicas/retail-api/internal/infrastructure/events"
	"github.com/jhoicas/retail-api/internal/infrastructure/locking"
	infrapdf "github.com/jhoicas/retail-api/internal/infrastructure/pdf"
	httpRouter "github.com/jhoicas/retail-api/internal/interfaces/http"
	"github.com/jhoicas/retail-api/internal/observability/metrics"
	"github.com/jhoicas/retail-api/internal/observability/tracing"
	"github.com/jhoicas/retail-api/pkg/config"
	"github.com/jhoicas/retail-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

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
		Str("store", cfg.App.StoreDriver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	shutdownTracing, err := tracing.Init(ctx, log.Component("tracing"), cfg.Telemetry.OTLPEndpoint, cfg.App.Name, cfg.App.Env)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar tracing")
	}

	catalog := bootstrap.DefaultCatalog()
	var st *stores
	if cfg.App.StoreDriver == config.StoreDriverMemory {
		st = openMemory(catalog)
		log.Warn().Msg("almacén en memoria: los datos se pierden al reiniciar")
	} else {
		st, err = openPostgres(ctx, cfg, log.Component("postgres"))
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
	}
	defer st.close()

	checks := map[string]httpRouter.Pinger{}
	if st.pool != nil {
		checks["postgres"] = st.pool
	}

	// Lock de checkout: Redis si está configurado, si no en proceso (una sola réplica).
	var locker cart.CheckoutLocker = locking.NewLocalLocker()
	if cfg.Redis.URL != "" {
		rdb, err := locking.NewRedisClient(ctx, cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		locker = locking.NewRedisLocker(rdb, cfg.Redis.CheckoutLockTTL, log.Component("locking"))
		checks["redis"] = httpRouter.PingFunc(func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
	}

	var publisher sales.SalePublisher
	var kafkaPublisher *events.SalePublisher
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaPublisher = events.NewKafkaSalePublisher(cfg.Kafka.Brokers, cfg.Kafka.SalesTopic, log.Component("events"))
		publisher = kafkaPublisher
	}

	ledger := inventory.NewLedger(st.txRunner, st.inventory, st.movements, st.products, st.branches)
	if err := seed(ctx, cfg, st, catalog, ledger, log.Component("bootstrap")); err != nil {
		log.Fatal().Err(err).Msg("carga de datos iniciales")
	}

	gate := access.NewFeatureGate(st.companies, st.subscriptions, st.plans, log.Component("gate"))
	engine := sales.NewEngine(st.txRunner, ledger, st.branches, st.products, st.sales, publisher, log.Component("sales"))
	authUC := auth.NewAuthUseCase(st.users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(metrics.FiberMiddleware())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Retail API",
		}))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:         authUC,
		UserUC:         usecase.NewUserUseCase(st.users),
		CompanyUC:      usecase.NewCompanyUseCase(st.companies),
		BranchUC:       usecase.NewBranchUseCase(st.branches, st.subscriptions, st.plans),
		ProductUC:      usecase.NewProductUseCase(st.products),
		SupplierUC:     usecase.NewSupplierUseCase(st.suppliers),
		PlanUC:         usecase.NewPlanUseCase(st.plans),
		SubscriptionUC: usecase.NewSubscriptionUseCase(st.subscriptions, st.plans, st.companies),
		FeatureGate:    gate,
		Ledger:         ledger,
		Replenishment:  inventory.NewReplenishmentUseCase(gate, st.inventory, st.products),
		SalesEngine:    engine,
		Receipts:       sales.NewReceiptUseCase(engine, st.companies, st.branches, st.products, infrapdf.NewMarotoPDFGenerator()),
		Cart:           cart.NewUseCase(st.cart, st.products, st.branches, engine, locker),
		Health:         httpRouter.NewHealthHandler(cfg.App.Name, checks),
		JWTSecret:      cfg.JWT.Secret,
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
	// Después del servidor: ya no entran ventas nuevas, se vacía la cola de eventos.
	if kafkaPublisher != nil {
		if err := kafkaPublisher.Close(); err != nil {
			log.Error().Err(err).Msg("cierre del publicador de eventos")
		}
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado de tracing")
	}

	log.Info().Msg("aplicación detenida")
}
