// Command shell is an interactive console for processing transactions
// against the default catalog and customers.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/noah-isme/toko-loyalty/internal/checkout"
	"github.com/noah-isme/toko-loyalty/internal/config"
	"github.com/noah-isme/toko-loyalty/internal/obs"
	"github.com/noah-isme/toko-loyalty/internal/seed"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	logger := obs.NewLoggerTo(os.Stderr, "console", cfg.Obs.ShellLogLevel)

	products, customers, err := seed.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("load seed data")
	}
	svc := &checkout.Service{
		Catalog:  products,
		Registry: customers,
		LockTTL:  cfg.Checkout.LockTTL,
		Journal:  &checkout.Journal{},
		Logger:   logger,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newConsole(svc, os.Stdin, os.Stdout).run(ctx); err != nil {
		logger.Fatal().Err(err).Msg("console")
	}
}
