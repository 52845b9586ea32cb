// Command sendblue calls the Sendblue API from the shell. Credentials and the
// base URL come from the same SENDBLUE_* environment as the other binaries.
//
//	sendblue send -to +14155552671 -content "Hello"
//	sendblue group -to +14155552671,+12125551234 -content "Hi all"
//	sendblue messages -limit 10
//	sendblue evaluate +14155552671 +442079460958
//	sendblue typing -to +14155552671
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/NewtTheWolf/sendblue"
	"github.com/NewtTheWolf/sendblue/internal/config"
	"github.com/NewtTheWolf/sendblue/internal/logger"
)

func main() {
	logger.UseMillisecondDurations()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], newClientFromEnv, os.Stdout, os.Stderr))
}

// newClientFromEnv builds a client from the environment. Logs go to stderr
// so stdout stays valid JSON.
func newClientFromEnv() (*sendblue.Client, int, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, 0, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, 0, err
	}

	log, err := logger.New(cfg.App.Env, cfg.LogLevel, zerolog.ConsoleWriter{Out: os.Stderr, NoColor: true})
	if err != nil {
		return nil, 0, fmt.Errorf("logger: %w", err)
	}

	client, err := sendblue.New(cfg.Sendblue.APIKey, cfg.Sendblue.APISecret, cfg.ClientOptions(log)...)
	if err != nil {
		return nil, 0, err
	}
	return client, cfg.CLI.Concurrency, nil
}
