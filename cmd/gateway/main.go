// Package main runs a GraphQL gateway using the Spotify Web API as an
// upstream.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/dcoutinho96/spotify-gateway/cmd"
	"github.com/dcoutinho96/spotify-gateway/internal"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"
)

// cli contains our command-line flags.
type cli struct {
	Serve server `cmd:"" help:"Run an HTTP server."`

	Whoami cmd.Whoami `cmd:"" help:"Print the Spotify user for a token."`
}

type server struct {
	cmd.UpstreamConfig
	cmd.LogConfig

	Port    int   `default:"4000" env:"PORT" help:"Port to serve traffic on."`
	MaxBody int64 `default:"1048576" env:"MAX_BODY" help:"Maximum request body size in bytes."`
}

func (s *server) Run() error {
	_ = s.LogConfig.Run()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	clients, err := s.Clients()
	if err != nil {
		return err
	}

	contexts, err := internal.NewContextBuilder(clients)
	if err != nil {
		return err
	}
	defer contexts.Close()

	h, err := internal.NewHandler(contexts)
	if err != nil {
		return err
	}
	mux := internal.NewMux(h)

	mux = middleware.RequestSize(s.MaxBody)(mux) // Limit request bodies.
	mux = internal.Requestlogger{}.Wrap(mux)     // Log requests.
	mux = middleware.RequestID(mux)              // Include a request ID header.
	mux = middleware.Recoverer(mux)              // Recover from panics.

	addr := fmt.Sprintf(":%d", s.Port)
	server := &http.Server{
		Handler:           mux,
		Addr:              addr,
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          slog.NewLogLogger(slog.Default().Handler(), slog.LevelError),
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("listening on "+addr, "upstream", s.SpotifyAPIURL)
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		slog.Info("shutting down http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	err = g.Wait()

	slog.Info("au revoir!")

	return err
}

func main() {
	if err := cmd.LoadEnv(); err != nil {
		internal.Log(context.Background()).Warn("ignoring .env", "err", err)
	}

	kctx := kong.Parse(&cli{})
	err := kctx.Run()
	if err != nil {
		internal.Log(context.Background()).Error("fatal", "err", err)
		os.Exit(1)
	}
}
