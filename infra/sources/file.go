package sources

import (
	"context"
	"fmt"
	"os"

	"github.com/kilianp07/depotplan/core/logger"
	"github.com/kilianp07/depotplan/core/model"
	"github.com/kilianp07/depotplan/core/optimizer"
	infralog "github.com/kilianp07/depotplan/infra/logger"
)

// FileConfig points a collaborator at a local JSON document. The file is
// re-read on every call.
type FileConfig struct {
	Path string `json:"path"`
}

func (c FileConfig) read(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if c.Path == "" {
		return nil, fmt.Errorf("path is required")
	}
	return os.ReadFile(c.Path)
}

type FileFleet struct {
	cfg FileConfig
	log logger.Logger
}

func NewFileFleet(cfg FileConfig) *FileFleet {
	return &FileFleet{cfg: cfg, log: infralog.New("fleet-source")}
}

func (s *FileFleet) Vehicles(ctx context.Context) ([]model.Vehicle, error) {
	b, err := s.cfg.read(ctx)
	if err != nil {
		return nil, err
	}
	return decodeFleet(b, s.log)
}

// FileOptimizer replays a stored optimizer payload.
type FileOptimizer struct {
	cfg FileConfig
	log logger.Logger
}

func NewFileOptimizer(cfg FileConfig) *FileOptimizer {
	return &FileOptimizer{cfg: cfg, log: infralog.New("optimizer-source")}
}

func (s *FileOptimizer) Run(ctx context.Context) ([]optimizer.RawDecision, error) {
	b, err := s.cfg.read(ctx)
	if err != nil {
		return nil, err
	}
	return decodeResults(b, s.log)
}

type FileGeography struct{ cfg FileConfig }

func NewFileGeography(cfg FileConfig) *FileGeography { return &FileGeography{cfg: cfg} }

func (s *FileGeography) Stations(ctx context.Context) ([]model.Station, error) {
	b, err := s.cfg.read(ctx)
	if err != nil {
		return nil, err
	}
	return decodeList[model.Station](b, "stations")
}

type FileDepot struct{ cfg FileConfig }

func NewFileDepot(cfg FileConfig) *FileDepot { return &FileDepot{cfg: cfg} }

func (s *FileDepot) Bays(ctx context.Context) ([]model.Bay, error) {
	b, err := s.cfg.read(ctx)
	if err != nil {
		return nil, err
	}
	return decodeList[model.Bay](b, "bays")
}

// FileJobCards reads every job card from one file and filters by vehicle.
type FileJobCards struct{ cfg FileConfig }

func NewFileJobCards(cfg FileConfig) *FileJobCards { return &FileJobCards{cfg: cfg} }

func (s *FileJobCards) JobCards(ctx context.Context, vehicleID string) ([]model.JobCard, error) {
	b, err := s.cfg.read(ctx)
	if err != nil {
		return nil, err
	}
	cards, err := decodeList[model.JobCard](b, "job cards")
	if err != nil {
		return nil, err
	}
	return filterJobCards(cards, vehicleID, false), nil
}
