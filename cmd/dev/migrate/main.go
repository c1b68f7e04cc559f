package main

import (
	"context"
	"fmt"
	"os"

	"shopifyadmin/pkg/config"
	"shopifyadmin/pkg/db"
	"shopifyadmin/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}

	// Uses DIRECT_URL when set; MIGRATIONS_PATH overrides the embedded schema.
	if err := db.Migrate(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "migrate failed: %v\n", err)
		os.Exit(1)
	}

	// Check that the runtime connection (DATABASE_URL) opens too. DSNs are never printed.
	pool, err := db.Open(context.Background(), cfg, logger.New(cfg.LogLevel, cfg.AppEnv))
	if err != nil {
		fmt.Fprintf(os.Stderr, "runtime db open failed: %v\n", err)
		os.Exit(1)
	}
	pool.Close()

	fmt.Println("migrations applied")
}
