package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/modaworks/clothestore/internal/application/checkout"
	"github.com/modaworks/clothestore/internal/config"
	"github.com/modaworks/clothestore/internal/domain/catalog"
	"github.com/modaworks/clothestore/internal/domain/identity"
	"github.com/modaworks/clothestore/internal/infrastructure/audit"
	"github.com/modaworks/clothestore/internal/infrastructure/httpapi"
	"github.com/modaworks/clothestore/internal/infrastructure/id"
	"github.com/modaworks/clothestore/internal/infrastructure/memory"
	"github.com/modaworks/clothestore/internal/infrastructure/observability/oteltrace"
	"github.com/modaworks/clothestore/internal/infrastructure/observability/prometrics"
	"github.com/modaworks/clothestore/internal/infrastructure/observability/telemetry"
	"github.com/modaworks/clothestore/internal/infrastructure/observability/zaplogger"
	"github.com/modaworks/clothestore/internal/infrastructure/outbox"
	"github.com/modaworks/clothestore/internal/infrastructure/paymentgw"
	"github.com/modaworks/clothestore/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := zaplogger.MustNew(
		observability.F("service", cfg.ServiceName),
		observability.F("env", cfg.Env),
	)

	registry := prometrics.New(cfg.ServiceName, "")
	tracer := oteltrace.New(cfg.ServiceName)
	tel := telemetry.New(tracer, logger, registry)

	catalogStore := memory.NewCatalogStore()
	orderRepo := memory.NewOrderRepository()
	seedCatalog(catalogStore, logger)

	directory := memory.NewUserDirectory(identity.Customer{
		Identity: identity.UserIdentity{ID: "cust-demo", Name: "Demo Customer", Email: "demo@example.com"},
	})
	addressBook := memory.NewAddressBook()
	addressBook.Put(identity.Address{
		ID:         "addr-demo",
		Line1:      "12 Tailor Row",
		City:       "Lisbon",
		PostalCode: "1100-341",
		Country:    "PT",
	})

	gateway := paymentgw.New(logger,
		paymentgw.WithLatency(cfg.Payment.Latency),
		paymentgw.WithDecider(paymentgw.RateDecider(cfg.Payment.SuccessRate, time.Now().UnixNano())),
	)
	processor := paymentgw.NewBreaker(gateway, logger)

	bus := outbox.NewBus(logger)
	bus.Start(context.Background())
	defer bus.Stop(context.Background())

	trail := audit.NewTrail(logger)
	trail.Register(bus)

	service := checkout.NewService(
		orderRepo,
		catalogStore,
		processor,
		directory,
		addressBook,
		bus,
		id.NewUUIDGenerator(),
		tel,
		checkout.WithChargeTimeout(cfg.Payment.ChargeTimeout),
	)

	handler := httpapi.NewHandler(service, catalogStore)
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", httpapi.Instrument(handler.Router(), tel))

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("http_server_start", observability.F("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http_server_shutdown_error", observability.F("error", err.Error()))
			return err
		}
		logger.Info("http_server_stopped")
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("server_exit", observability.F("error", err.Error()))
	}
}

// seedCatalog loads a small demo assortment so the API is usable out of the
// box. A supplier-facing ingestion path would replace this.
func seedCatalog(store *memory.CatalogStore, logger observability.Logger) {
	seed := []struct {
		id, name, description string
		price                 string
		stock                 int
	}{
		{"prod-tee-black", "Black Tee", "Organic cotton crew neck", "19.90", 120},
		{"prod-denim-jacket", "Denim Jacket", "Mid-wash, relaxed fit", "89.00", 35},
		{"prod-wool-scarf", "Wool Scarf", "Merino, charcoal", "34.50", 60},
		{"prod-linen-shirt", "Linen Shirt", "White, button-down", "54.00", 48},
	}

	ctx := context.Background()
	for _, s := range seed {
		p, err := catalog.NewProduct(s.id, s.name, s.description, decimal.RequireFromString(s.price), s.stock)
		if err != nil {
			panic(err)
		}
		if err := store.Put(ctx, p); err != nil {
			panic(err)
		}
	}
	logger.Info("catalog_seeded", observability.F("products", len(seed)))
}
