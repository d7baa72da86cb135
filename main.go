package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"coffeeshop/bot"
	"coffeeshop/config"
	"coffeeshop/db"
	"coffeeshop/logging"
	"coffeeshop/services"
	"coffeeshop/web"

	"github.com/rs/zerolog"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logging.Setup(cfg.Log.Level, cfg.Log.Pretty)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := db.Init(ctx, cfg.DB); err != nil {
		log.Fatal().Err(err).Msg("db")
	}
	defer db.Close()

	// Check for migrate subcommand
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		if err := applyMigrations(ctx, db.Pool, log); err != nil {
			log.Fatal().Err(err).Msg("migrate")
		}
		return
	}

	// Optional auto-migration for fresh databases. Set AUTO_MIGRATE=1 (or "true") to enable.
	if v := strings.TrimSpace(os.Getenv("AUTO_MIGRATE")); v == "1" || strings.EqualFold(v, "true") {
		if err := applyMigrations(ctx, db.Pool, log); err != nil {
			log.Fatal().Err(err).Msg("migrate")
		}
	}

	run(ctx, cfg, log)
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	menuStore := services.NewPgMenuStore(db.Pool)
	menu := services.NewCachedMenu(menuStore, cfg.Shop.MenuCacheTTL)
	customers := services.NewPgCustomerStore(db.Pool)
	orders := services.NewPgOrderStore(db.Pool)
	ledger := services.NewPgLoyaltyLedger(db.Pool)
	sessions := services.NewSessions()
	pipeline := services.NewOrderPipeline(orders, ledger, services.LoyaltyPolicy{PointsPerUnit: cfg.Shop.LoyaltyPointsPerUnit}, log)
	favorites := services.NewFavorites(services.NewPgFavoriteStore(db.Pool), log)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		pruneSessions(ctx, sessions, cfg.Shop.SessionIdleTTL, log)
	}()

	if cfg.Telegram.Token != "" {
		b, err := bot.New(cfg, bot.Deps{
			Menu:       menu,
			Stock:      menuStore,
			Invalidate: menu.Invalidate,
			Customers:  customers,
			Orders:     orders,
			Points:     ledger,
			Messages:   services.NewMessageLog(db.Pool),
			Sessions:   sessions,
			Pipeline:   pipeline,
			Favorites:  favorites,
		}, log)
		if err != nil {
			log.Fatal().Err(err).Msg("bot")
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.Start(ctx)
		}()
		log.Info().Msg("bot started")
	} else {
		log.Warn().Msg("TOKEN not set, telegram bot disabled")
	}

	srv := &http.Server{
		Addr: cfg.HTTP.Addr,
		Handler: web.New(web.Deps{
			Menu:      menu,
			Customers: customers,
			Stats:     orders,
			Sessions:  sessions,
			Pipeline:  pipeline,
			Favorites: favorites,
			Tables:    cfg.Shop.Tables,
		}, log).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info().Str("addr", srv.Addr).Msg("http listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("http server")
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	wg.Wait()
}

// pruneSessions drops idle carts until ctx is cancelled.
func pruneSessions(ctx context.Context, sessions *services.Sessions, idle time.Duration, log zerolog.Logger) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := sessions.Prune(idle); n > 0 {
				log.Debug().Int("dropped", n).Int("open", sessions.Len()).Msg("pruned idle sessions")
			}
		}
	}
}
