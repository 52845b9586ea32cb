package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/NewtTheWolf/sendblue"
	"github.com/NewtTheWolf/sendblue/internal/config"
	"github.com/NewtTheWolf/sendblue/internal/logger"
	"github.com/NewtTheWolf/sendblue/phonenumber"
)

// seed fills a running sandbox (or any Sendblue-compatible API at
// SENDBLUE_BASE_URL) with random outbound messages.
func main() {
	ctx := context.Background()

	logger.UseMillisecondDurations()

	cfg, err := config.Load()
	if err != nil {
		fallback := zerolog.New(os.Stderr)
		fallback.Fatal().Err(err).Msg("[Seed] failed to load config")
	}

	log, err := logger.New(cfg.App.Env, cfg.LogLevel)
	if err != nil {
		fallback := zerolog.New(os.Stderr)
		fallback.Fatal().Err(err).Msg("[Seed] failed to build logger")
	}

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("[Seed] invalid config")
	}

	client, err := sendblue.New(cfg.Sendblue.APIKey, cfg.Sendblue.APISecret, cfg.ClientOptions(log)...)
	if err != nil {
		log.Fatal().Err(err).Msg("[Seed] failed to create client")
	}

	log.Info().Int("count", cfg.Seed.Count).Str("base_url", client.BaseURL()).Msg("[Seed] sending random messages")

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(cfg.Seed.Concurrency, 1))

	for i := 0; i < cfg.Seed.Count; i++ {
		g.Go(func() error {
			to := randomPhone()
			msg, err := sendblue.NewMessageBuilder().To(to).Content(randomContent(i + 1)).Build()
			if err != nil {
				return fmt.Errorf("message #%d: %w", i+1, err)
			}

			resp, err := client.Send(gctx, msg)
			if err != nil {
				return fmt.Errorf("send message #%d: %w", i+1, err)
			}

			log.Info().
				Int("n", i+1).
				Str("handle", resp.MessageHandle).
				Str("to", to.E164()).
				Str("status", string(resp.Status)).
				Msg("[Seed] created message")
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Str("kind", sendblue.KindOf(err).String()).Msg("[Seed] seeding failed")
	}

	log.Info().Int("count", cfg.Seed.Count).Msg("[Seed] done")
}

// randomPhone generates a fake US number in the 555-01xx fictional range.
// Example output: +14155550142
func randomPhone() phonenumber.PhoneNumber {
	n := rand.Intn(100)
	return phonenumber.MustParse(fmt.Sprintf("+1415555%04d", 100+n))
}

// randomContent generates a simple message body for seeding.
func randomContent(i int) string {
	now := time.Now().Format("15:04:05")
	return fmt.Sprintf("Seed message #%d sent at %s", i, now)
}
