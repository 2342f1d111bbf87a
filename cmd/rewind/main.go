// Package main is the rewind environment doctor. It resolves the
// bindings a request handler would see and probes each handle.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dshills/rewind/bindings"
	"github.com/dshills/rewind/internal/logging"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

type options struct {
	manifest string
	envFile  string
	logLevel string
	watch    bool
	version  bool
}

func parseFlags() options {
	var opts options
	flag.StringVar(&opts.manifest, "manifest", "rewind.toml", "manifest file (.toml or .json)")
	flag.StringVar(&opts.envFile, "env", ".env", "env file layered under the process environment")
	flag.StringVar(&opts.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	flag.BoolVar(&opts.watch, "watch", false, "keep running and report manifest changes")
	flag.BoolVar(&opts.version, "version", false, "print version and exit")
	flag.Parse()
	return opts
}

func run() int {
	opts := parseFlags()

	if opts.version {
		fmt.Printf("rewind %s (%s)\n", version, commit)
		return 0
	}

	log := logging.NewLogger(os.Stderr, logging.ParseLevel(opts.logLevel))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signals
		cancel()
	}()

	manifest, err := bindings.LoadManifest(opts.manifest)
	if err != nil {
		log.Error("load manifest", "error", err)
		return 1
	}

	secrets, err := bindings.LoadSecrets(opts.envFile)
	if err != nil {
		log.Error("load secrets", "error", err)
		return 1
	}
	if redacted, err := secrets.Redacted(); err == nil {
		log.Debug("credentials", "secrets", string(redacted))
	}

	env, err := bindings.Resolve(ctx, manifest, secrets, bindings.WithLogger(log))
	if err != nil {
		log.Error("resolve environment", "error", err)
		return 1
	}
	defer func() { _ = env.Close() }()

	if err := probe(ctx, env); err != nil {
		log.Error("probe failed", "error", err)
		return 1
	}
	log.Info("environment healthy",
		"database", manifest.Database.Binding,
		"objects", manifest.Objects.Binding,
		"objects_backend", manifest.Objects.Backend,
		"ai_provider", env.AI.Provider,
	)

	if !opts.watch {
		return 0
	}

	log.Info("watching manifest", "path", opts.manifest)
	err = bindings.WatchManifest(ctx, opts.manifest, log, func(m bindings.Manifest) {
		log.Info("manifest changed",
			"objects_backend", m.Objects.Backend,
			"ai_provider", m.Services.AIProvider,
		)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Error("watch manifest", "error", err)
		return 1
	}
	return 0
}

// probe exercises each handle once: a no-op query against the database
// and a put/get/delete round trip against the object store.
func probe(ctx context.Context, env *bindings.Env) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var one int
	if err := env.DB.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
		return fmt.Errorf("database probe: %w", err)
	}

	key := fmt.Sprintf(".probe/%d", time.Now().UnixNano())
	if err := env.Objects.Put(ctx, key, []byte("ok")); err != nil {
		return fmt.Errorf("object store put: %w", err)
	}
	if _, err := env.Objects.Get(ctx, key); err != nil {
		return fmt.Errorf("object store get: %w", err)
	}
	if err := env.Objects.Delete(ctx, key); err != nil {
		return fmt.Errorf("object store delete: %w", err)
	}
	return nil
}
