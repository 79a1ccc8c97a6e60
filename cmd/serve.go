package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/robalobadob/decrypto/internal/agent"
	"github.com/robalobadob/decrypto/internal/config"
	"github.com/robalobadob/decrypto/internal/httpserver"
	"github.com/robalobadob/decrypto/internal/runner"
	"github.com/robalobadob/decrypto/internal/store"
	"github.com/robalobadob/decrypto/internal/words"
)

const shutdownGrace = 10 * time.Second

func newServeCmd(v *viper.Viper, cfgFile *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP game server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(v, *cfgFile)
			if err != nil {
				return err
			}
			config.SetupLogging(cfg, cmd.ErrOrStderr())

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, nil)
		},
	}
	cmd.Flags().String("port", "", "listen port (PORT)")
	cmd.Flags().String("provider", "", "model provider id (AI_PROVIDER)")
	cmd.Flags().Bool("thinking", false, "use the provider's reasoning model (AI_USE_THINKING)")
	bindFlag(v, cmd, config.KeyPort, "port")
	bindFlag(v, cmd, config.KeyAIProvider, "provider")
	bindFlag(v, cmd, config.KeyAIUseThinking, "thinking")
	return cmd
}

// serve wires the application and blocks until ctx ends. A non-nil ready
// receives the bound address once the listener is up.
func serve(ctx context.Context, cfg config.Config, ready chan<- string) error {
	pool, err := words.Load(cfg.KeywordsFile)
	if err != nil {
		return fmt.Errorf("load keywords: %w", err)
	}
	log.Info().Int("keywords", pool.Len()).Msg("keyword pool loaded")

	cat, err := agent.LoadCatalogue(cfg.ProvidersFile)
	if err != nil {
		return err
	}
	player, err := newPlayer(ctx, cfg, cat)
	if err != nil {
		return err
	}

	st := store.NewMemoryStore()
	run := runner.New(st, player, cfg.AITimeout)
	defer run.Close()

	srv := httpserver.New(httpserver.Options{
		Store:          st,
		Runner:         run,
		Words:          pool,
		Providers:      cat,
		ActiveProvider: cfg.AIProvider,
		MaxRounds:      cfg.MaxRounds,
		JWTSecret:      cfg.JWTSecret,
		ClientOrigin:   cfg.ClientOrigin,
		SecureCookies:  cfg.SecureCookies,
	})
	if cfg.JWTSecret == config.DefaultJWTSecret {
		log.Warn().Msg("JWT_SECRET not set; using the development secret")
	}

	ln, err := net.Listen("tcp", ":"+cfg.Port)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	httpSrv := &http.Server{
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	log.Info().Str("addr", ln.Addr().String()).Str("provider", cfg.AIProvider).Msg("starting decrypto server")
	if ready != nil {
		ready <- ln.Addr().String()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		return httpSrv.Shutdown(sctx)
	})
	return g.Wait()
}

// newPlayer resolves the configured provider into a model-backed Player.
func newPlayer(ctx context.Context, cfg config.Config, cat *agent.Catalogue) (agent.Player, error) {
	p, known := cat.Lookup(cfg.AIProvider)
	if !known {
		log.Warn().Str("provider", cfg.AIProvider).Str("using", p.ID).Msg("unknown provider")
	}
	ep, err := agent.Resolve(p, cfg.AIAPIKey, cfg.AIBaseURL, cfg.AIModel)
	if err != nil {
		return nil, err
	}
	if ep.APIKey == "" {
		log.Warn().Str("provider", p.ID).Msg("AI_API_KEY not set; model turns will use fallback results")
	}
	completer, err := agent.NewCompleter(ctx, ep, cfg.AITimeout)
	if err != nil {
		return nil, err
	}
	log.Info().Str("provider", p.ID).Str("model", ep.Model).Bool("thinking", cfg.AIUseThinking).Msg("model player ready")
	return agent.NewLLMPlayer(completer, cfg.AIUseThinking), nil
}
