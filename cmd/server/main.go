package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	router "github.com/pumpchat/pumpchat/internal/adapters/http"
	"github.com/pumpchat/pumpchat/internal/address"
	"github.com/pumpchat/pumpchat/internal/config"
	"github.com/pumpchat/pumpchat/internal/credential"
	"github.com/pumpchat/pumpchat/internal/livekit"
	"github.com/pumpchat/pumpchat/internal/metadata"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	// Human-friendly output for terminal; in production you may want JSON only.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	// Signing material can live in a local .env during development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Error().Err(err).Msg("failed to load config")
		os.Exit(1)
	}

	pump := metadata.NewPumpFunClient(cfg.Providers.PumpFunURL, cfg.Providers.Timeout)
	dex := metadata.NewDexScreenerClient(cfg.Providers.DexScreenerURL, cfg.Providers.Timeout)
	meta := metadata.NewService(pump, dex, cfg.Providers.MetadataTTL)
	resolver := address.NewResolver(dex, cfg.Providers.ResolveTTL)
	issuer := credential.NewIssuer(cfg.LiveKit.APIKey, cfg.LiveKit.APISecret, cfg.TokenTTL)

	var rooms *livekit.RoomServiceClient
	if cfg.LiveKit.URL != "" {
		rooms = livekit.NewRoomServiceClient(cfg.LiveKit.URL, issuer, cfg.Providers.Timeout)
	} else {
		log.Warn().Msg("LIVEKIT_URL not set, room listing disabled")
	}
	if !issuer.Configured() {
		log.Warn().Msg("LiveKit API key/secret not set, token issuance disabled")
	}

	h := &router.Handlers{
		Resolver:    resolver,
		Metadata:    meta,
		Issuer:      issuer,
		RoomService: rooms,
	}
	r := router.SetupRouter(cfg, h)
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("PumpChat server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited gracefully")
}
