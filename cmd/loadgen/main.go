package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/service/checkout"
	"github.com/vladislavdragonenkov/storefront/internal/service/loadgen"
	"github.com/vladislavdragonenkov/storefront/internal/service/store"
	"github.com/vladislavdragonenkov/storefront/internal/storage/memory"
)

type config struct {
	rounds     int
	seed       int64
	inclusion  float64
	maxQty     int64
	outputPath string
}

func parseFlags() config {
	var cfg config
	flag.IntVar(&cfg.rounds, "rounds", 100, "number of order rounds to generate")
	flag.Int64Var(&cfg.seed, "seed", 0, "rand seed (0 = random)")
	flag.Float64Var(&cfg.inclusion, "inclusion", 0.7, "probability of including each product in a round")
	flag.Int64Var(&cfg.maxQty, "max-qty", 3, "maximum quantity per line")
	flag.StringVar(&cfg.outputPath, "output", "", "write JSON report to file (default: stdout)")
	flag.Parse()
	return cfg
}

func run(cfg config) (loadgen.Report, error) {
	logger := log.New()
	logger.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	entry := logger.WithField("component", "loadgen")

	ledger := memory.NewLedger()
	co := checkout.NewService(ledger, memory.NewOutboxRepository(), logger.WithField("component", "checkout"))
	svc := store.NewService(ledger, co, nil, logger.WithField("component", "store"))
	svc.SeedDemo()

	seed := cfg.seed
	if seed == 0 {
		seed = rand.Int63()
	}

	gen := loadgen.NewGenerator(
		svc,
		loadgen.WithRounds(cfg.rounds),
		loadgen.WithInclusionProbability(cfg.inclusion),
		loadgen.WithMaxQuantity(cfg.maxQty),
		loadgen.WithRandSource(rand.NewSource(seed)),
		loadgen.WithLogger(entry),
	)

	report := gen.Run()
	return report, writeReport(cfg.outputPath, report)
}

func writeReport(path string, report loadgen.Report) error {
	payload, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	payload = append(payload, '\n')

	if path == "" {
		_, err = os.Stdout.Write(payload)
		return err
	}
	return os.WriteFile(path, payload, 0o644)
}

func main() {
	cfg := parseFlags()
	if _, err := run(cfg); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "loadgen failed: %v\n", err)
		os.Exit(1)
	}
}
