package sources

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/kilianp07/depotplan/core/logger"
	"github.com/kilianp07/depotplan/core/model"
	"github.com/kilianp07/depotplan/core/optimizer"
	infralog "github.com/kilianp07/depotplan/infra/logger"
)

// HTTPFleet fetches the fleet report with GET.
type HTTPFleet struct {
	c   *httpClient
	log logger.Logger
}

func NewHTTPFleet(cfg HTTPConfig) (*HTTPFleet, error) {
	c, err := newHTTPClient(cfg)
	if err != nil {
		return nil, err
	}
	return &HTTPFleet{c: c, log: infralog.New("fleet-source")}, nil
}

func (s *HTTPFleet) Vehicles(ctx context.Context) ([]model.Vehicle, error) {
	body, err := s.c.do(ctx, http.MethodGet, s.c.url)
	if err != nil {
		return nil, err
	}
	return decodeFleet(body, s.log)
}

// HTTPOptimizer triggers a run with an empty POST and decodes the results.
type HTTPOptimizer struct {
	c   *httpClient
	log logger.Logger
}

func NewHTTPOptimizer(cfg HTTPConfig) (*HTTPOptimizer, error) {
	c, err := newHTTPClient(cfg)
	if err != nil {
		return nil, err
	}
	return &HTTPOptimizer{c: c, log: infralog.New("optimizer-source")}, nil
}

func (s *HTTPOptimizer) Run(ctx context.Context) ([]optimizer.RawDecision, error) {
	body, err := s.c.do(ctx, http.MethodPost, s.c.url)
	if err != nil {
		return nil, err
	}
	return decodeResults(body, s.log)
}

// HTTPGeography fetches the station list with GET.
type HTTPGeography struct{ c *httpClient }

func NewHTTPGeography(cfg HTTPConfig) (*HTTPGeography, error) {
	c, err := newHTTPClient(cfg)
	if err != nil {
		return nil, err
	}
	return &HTTPGeography{c: c}, nil
}

func (s *HTTPGeography) Stations(ctx context.Context) ([]model.Station, error) {
	body, err := s.c.do(ctx, http.MethodGet, s.c.url)
	if err != nil {
		return nil, err
	}
	return decodeList[model.Station](body, "stations")
}

// HTTPDepot fetches the bay layout with GET.
type HTTPDepot struct{ c *httpClient }

func NewHTTPDepot(cfg HTTPConfig) (*HTTPDepot, error) {
	c, err := newHTTPClient(cfg)
	if err != nil {
		return nil, err
	}
	return &HTTPDepot{c: c}, nil
}

func (s *HTTPDepot) Bays(ctx context.Context) ([]model.Bay, error) {
	body, err := s.c.do(ctx, http.MethodGet, s.c.url)
	if err != nil {
		return nil, err
	}
	return decodeList[model.Bay](body, "bays")
}

// HTTPJobCards fetches the job cards of one vehicle. The URL may contain an
// {id} placeholder; otherwise the id is sent as the vehicle_id query parameter.
type HTTPJobCards struct{ c *httpClient }

func NewHTTPJobCards(cfg HTTPConfig) (*HTTPJobCards, error) {
	c, err := newHTTPClient(cfg)
	if err != nil {
		return nil, err
	}
	return &HTTPJobCards{c: c}, nil
}

func (s *HTTPJobCards) JobCards(ctx context.Context, vehicleID string) ([]model.JobCard, error) {
	body, err := s.c.do(ctx, http.MethodGet, s.target(vehicleID))
	if err != nil {
		return nil, err
	}
	cards, err := decodeList[model.JobCard](body, "job cards")
	if err != nil {
		return nil, err
	}
	return filterJobCards(cards, vehicleID, true), nil
}

func (s *HTTPJobCards) target(vehicleID string) string {
	if strings.Contains(s.c.url, "{id}") {
		return strings.ReplaceAll(s.c.url, "{id}", url.PathEscape(vehicleID))
	}
	u, err := url.Parse(s.c.url)
	if err != nil {
		return s.c.url
	}
	q := u.Query()
	q.Set("vehicle_id", vehicleID)
	u.RawQuery = q.Encode()
	return u.String()
}
