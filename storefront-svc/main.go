package main

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"zestify-storefront/config"
	"zestify-storefront/pkg/logger"
	"zestify-storefront/pkg/shutdown"
	httpapi "zestify-storefront/storefront-svc/internal/api/http"
	"zestify-storefront/storefront-svc/internal/apiclient"
	"zestify-storefront/storefront-svc/internal/cart"
	"zestify-storefront/storefront-svc/internal/service"
	"zestify-storefront/storefront-svc/internal/storage"
)

type dependencies struct {
	api      *apiclient.Client
	sessions *storage.SessionStore
	ledger   service.CheckoutRepository
	drafts   service.DraftQueue
}

func newHandler(cfg config.Config, deps dependencies, sessions *service.SessionManager, log zerolog.Logger) *httpapi.Handler {
	catalog := service.NewCatalogService(deps.api)
	qr := service.DefaultQRGenerator{BaseURL: cfg.PublicBaseURL}

	return &httpapi.Handler{
		Sessions: sessions,
		Catalog:  catalog,
		Cart:     service.NewCartService(catalog, sessions, deps.drafts),
		Addons:   service.NewAddonService(catalog, sessions, deps.drafts),
		Checkout: service.NewCheckoutService(deps.api, deps.ledger, deps.sessions, qr, sessions, deps.drafts, log),
		Accounts: service.NewAccountService(deps.api, sessions, deps.drafts, log),
		Logger:   log,
	}
}

// draftSink picks where background cart drafts go. The closer is nil when
// nothing needs closing.
func draftSink(cfg config.Config, api *apiclient.Client) (cart.DraftSink, io.Closer) {
	switch cfg.DraftSink {
	case "kafka":
		writer := config.NewKafkaWriter(cfg, cfg.DraftTopic)
		return storage.NewDraftPublisher(writer), writer
	case "none", "":
		return nil, nil
	default:
		return api, nil
	}
}

func main() {
	cfg := config.Load()
	log := logger.New(logger.Options{Service: "storefront-svc", Env: cfg.AppEnv, Level: cfg.LogLevel})

	ctx, stop := shutdown.WithSignals(context.Background())
	defer stop()

	rdb := config.MustInitRedis(cfg)
	defer rdb.Close()

	deps := dependencies{
		api: apiclient.New(apiclient.Config{
			BaseURL: cfg.APIBaseURL,
			Timeout: cfg.APITimeout,
		}, &http.Client{}),
		sessions: storage.NewSessionStore(rdb, cfg.SessionTTL),
	}

	if cfg.CheckoutLedger {
		db := config.MustInitPostgres(cfg)
		defer db.Close()

		repo := storage.NewCheckoutRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			log.Fatal().Err(err).Msg("failed to ensure checkout schema")
		}
		deps.ledger = repo
	}

	g, gctx := errgroup.WithContext(ctx)
	sessions := service.NewSessionManager(deps.sessions, deps.api, log)

	sink, closer := draftSink(cfg, deps.api)
	if closer != nil {
		defer closer.Close()
	}
	if sink != nil {
		syncer := cart.NewSyncer(sink, log, cfg.APITimeout)
		deps.drafts = syncer
		sessions.OnEvict(syncer.Forget)
		g.Go(func() error {
			syncer.Run(gctx)
			return nil
		})
	}
	g.Go(func() error {
		sessions.Sweep(gctx, cfg.SessionIdleTimeout)
		return nil
	})
	log.Info().Str("draft_sink", cfg.DraftSink).Bool("checkout_ledger", cfg.CheckoutLedger).Msg("storefront dependencies ready")

	router := httpapi.NewRouter(newHandler(cfg, deps, sessions, log))
	addr := ":" + strconv.Itoa(cfg.HTTPPort)
	g.Go(func() error {
		return httpapi.StartServer(gctx, addr, router, log)
	})

	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("storefront service stopped")
	}
}
