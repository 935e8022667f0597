package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"nsmigrate/internal/adapters/cli"
	"nsmigrate/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Printf("❌ %v", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.NewApp(cfg, os.Stdout, os.Stderr).Execute(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}
