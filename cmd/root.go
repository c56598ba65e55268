// Package cmd contains helpers common to all CLI implementations.
package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/KimMachineGun/automemlimit/memlimit"
	charm "github.com/charmbracelet/log"
	"github.com/dcoutinho96/spotify-gateway/internal"
	"github.com/dcoutinho96/spotify-gateway/spotify"
	"github.com/joho/godotenv"
)

// UpstreamConfig configures how we reach the Spotify Web API.
type UpstreamConfig struct {
	SpotifyAPIURL   string        `name:"spotify-api-url" default:"https://api.spotify.com/v1" env:"SPOTIFY_API_URL" help:"Spotify Web API root."`
	UpstreamTimeout time.Duration `default:"0s" env:"UPSTREAM_TIMEOUT" help:"Timeout for a single upstream request. Zero leaves it to the transport."`
}

// Clients returns a client factory for the configured upstream.
func (c *UpstreamConfig) Clients() (*internal.ClientFactory, error) {
	return internal.NewClientFactory(c.SpotifyAPIURL, nil, c.UpstreamTimeout)
}

// LogConfig configures logging.
type LogConfig struct {
	Verbose bool `env:"VERBOSE" help:"increase log verbosity"`
}

// Run sets logging to DEBUG if verbose is enabled.
func (c *LogConfig) Run() error {
	if c.Verbose {
		internal.SetLogLevel(charm.DebugLevel)
	}
	return nil
}

// Whoami prints the Spotify user a token belongs to. Useful for checking a
// token before pointing a client at the gateway.
type Whoami struct {
	UpstreamConfig
	LogConfig

	Token string `arg:"" env:"SPOTIFY_TOKEN" help:"Spotify access token."`
}

// Run fetches the token's user.
func (w *Whoami) Run() error {
	_ = w.LogConfig.Run()
	ctx := context.Background()

	clients, err := w.Clients()
	if err != nil {
		return err
	}

	user, err := internal.FetchResource[spotify.User](ctx, clients.New(w.Token), spotify.MeEndpoint)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(user)
}

// LoadEnv loads variables from .env files without overriding anything
// already set. Missing files are skipped.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		err := godotenv.Load(f)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}
	return nil
}

func init() {
	// Limit our memory to 90% of what's free. This affects the parse cache.
	_, err := memlimit.SetGoMemLimitWithOpts(
		memlimit.WithRatio(0.9),
		memlimit.WithLogger(slog.Default()),
		memlimit.WithProvider(
			memlimit.ApplyFallback(
				memlimit.FromCgroup,
				memlimit.FromSystem,
			),
		),
	)
	if err != nil {
		panic(err)
	}
}
