// Catalog audit CLI.
//
// Usage:
//
//	audit run --db catalog.db --out report.xlsx
//	audit run --db catalog.db --format json
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/supplymatch/backend/internal/infrastructure/cache"
	"github.com/supplymatch/backend/internal/infrastructure/catalog"
	"github.com/supplymatch/backend/internal/infrastructure/report"
	"github.com/supplymatch/backend/internal/lexicon"
	"github.com/supplymatch/backend/internal/usecase"
)

var version = "dev"

func main() {
	app := &cli.App{
		Name:    "audit",
		Usage:   "Sweep the offer catalog for classification and pack-size issues",
		Version: version,
		Commands: []*cli.Command{
			runCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Audit every active offer and write a report",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "db",
				Usage:    "Path to the sqlite catalog database",
				Required: true,
				EnvVars:  []string{"SUPPLYMATCH_CATALOG_SQLITE_PATH"},
			},
			&cli.StringFlag{
				Name:  "out",
				Value: "audit-report.xlsx",
				Usage: "Output path for the xlsx report",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   "xlsx",
				Usage:   "Output format (xlsx, json)",
			},
			&cli.BoolFlag{
				Name:  "trace",
				Value: false,
				Usage: "Log per-item classification traces",
			},
		},
		Action: runAudit,
	}
}

func runAudit(c *cli.Context) error {
	ctx := context.Background()

	catalogRepo, err := catalog.NewSQLiteRepository(c.String("db"))
	if err != nil {
		return fmt.Errorf("open catalog: %w", err)
	}
	defer catalogRepo.Close()

	matchService := usecase.NewMatchService(
		catalogRepo,
		cache.NewMemoryCache(),
		lexicon.Default(),
		usecase.MatchConfig{DebugTrace: c.Bool("trace")},
	)
	auditService := usecase.NewAuditService(matchService, catalogRepo, c.Bool("trace"))

	rep, err := auditService.Run(ctx)
	if err != nil {
		return fmt.Errorf("audit failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Scanned %d offers, found %d issues\n", rep.Scanned, len(rep.Issues))
	for code, count := range rep.ByCode {
		fmt.Fprintf(os.Stderr, "  %s: %d\n", code, count)
	}

	switch c.String("format") {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	case "xlsx":
		out := c.String("out")
		if err := report.NewXLSXWriter().Write(rep, out); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Report written to %s\n", out)
		return nil
	default:
		return fmt.Errorf("unknown format: %s", c.String("format"))
	}
}
