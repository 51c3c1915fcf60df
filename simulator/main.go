// Command simulator serves a synthetic metro depot over HTTP: fleet
// condition, optimizer decisions, line stations, stabling bays and job cards.
// Point the planner's http sources at it to exercise a full planning cycle.
package main

import (
	"context"
	"flag"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	infralog "github.com/kilianp07/depotplan/infra/logger"
)

func main() {
	cfg := parseFlags()
	if err := (&cfg).Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}
	if cfg.Verbose {
		infralog.SetDefaultLevel("debug")
	}

	var tmpl map[string]VehicleTemplate
	if cfg.TemplateFile != "" {
		data, err := os.ReadFile(cfg.TemplateFile)
		if err != nil {
			log.Fatalf("template file: %v", err)
		}
		if tmpl, err = LoadTemplates(data); err != nil {
			log.Fatalf("template file: %v", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rng := rand.New(rand.NewSource(cfg.Seed))
	depot := GenerateDepot(cfg, rng, tmpl)
	srv := NewServer(cfg, depot, rng, prometheus.NewRegistry())
	if err := srv.Start(ctx); err != nil {
		log.Fatalf("simulator: %v", err)
	}
}

func parseFlags() Config {
	var cfg Config
	flag.StringVar(&cfg.Addr, "addr", ":9090", "listen address")
	flag.IntVar(&cfg.FleetSize, "fleet-size", 25, "number of trainsets")
	flag.Int64Var(&cfg.Seed, "seed", time.Now().UnixNano(), "random seed")
	flag.Float64Var(&cfg.HoldPct, "hold-pct", 0.1, "ratio of vehicles on maintenance hold")
	flag.Float64Var(&cfg.RunPct, "run-pct", 0.6, "ratio of the fleet the optimizer sends into service")
	flag.Float64Var(&cfg.JobCardRate, "jobcard-rate", 0.2, "ratio of vehicles with open job cards")
	flag.Float64Var(&cfg.FitnessFail, "fitness-fail", 0.03, "probability of each certificate being invalid")
	flag.IntVar(&cfg.MileageMax, "mileage-max", 24000, "upper bound of generated mileage in km")
	flag.IntVar(&cfg.Bays, "bays", 10, "number of stabling bays")
	flag.Float64Var(&cfg.FailRate, "fail-rate", 0, "probability of answering a request with 503")
	flag.DurationVar(&cfg.Latency, "latency", 0, "added response latency")
	flag.BoolVar(&cfg.Malformed, "malformed-optimizer", false, "return a malformed optimizer payload")
	flag.StringVar(&cfg.TemplateFile, "template-file", "", "per-vehicle overrides (JSON)")
	flag.BoolVar(&cfg.Verbose, "verbose", false, "enable debug logging")
	flag.Parse()
	return cfg
}
