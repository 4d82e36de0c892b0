// Command loaddrivers bulk-imports drivers from a CSV file, upserting by
// driver_id. Usage:
//
//	loaddrivers [-clear] [csv_file]
//
// Without an argument it probes a few conventional file locations.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/irkartik/driver-service/internal/app"
	"github.com/irkartik/driver-service/internal/config"
	"github.com/irkartik/driver-service/internal/logger"
	"github.com/irkartik/driver-service/internal/repository/postgres"
	"github.com/irkartik/driver-service/internal/service"
)

func main() {
	clearFirst := flag.Bool("clear", false, "delete all existing drivers before loading")
	flag.Parse()

	cfg := config.Load()
	logger.Setup(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	db, err := app.NewDatabase(ctx, cfg.Database, nil)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	importer := service.NewImportService(postgres.NewDriverRepository(db))

	path, err := importer.ResolveFile(flag.Arg(0))
	if err != nil {
		log.Fatal(err)
	}

	result, err := importer.ImportFile(ctx, path, *clearFirst)
	if err != nil {
		log.Fatalf("import failed: %v", err)
	}

	fmt.Printf("Loaded drivers from %s\n", path)
	fmt.Printf("  Created: %d\n", result.Created)
	fmt.Printf("  Updated: %d\n", result.Updated)
	if result.Errors > 0 {
		fmt.Printf("  Errors: %d\n", result.Errors)
	}
}
