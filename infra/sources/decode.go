package sources

import (
	"encoding/json"
	"fmt"

	"github.com/kilianp07/depotplan/core/logger"
	"github.com/kilianp07/depotplan/core/model"
	"github.com/kilianp07/depotplan/core/optimizer"
)

func decodeFleet(data []byte, log logger.Logger) ([]model.Vehicle, error) {
	vs, skipped, err := model.DecodeFleet(data)
	if err != nil {
		return nil, err
	}
	if skipped > 0 {
		log.Warnf("skipped %d malformed fleet records", skipped)
	}
	for _, v := range vs {
		if len(v.Missing) > 0 {
			log.Warnf("vehicle %s is missing %v, treating conservatively", v.ID, v.Missing)
		}
	}
	return vs, nil
}

func decodeResults(data []byte, log logger.Logger) ([]optimizer.RawDecision, error) {
	res, skipped, err := optimizer.DecodeResults(data)
	if err != nil {
		return nil, err
	}
	if skipped > 0 {
		log.Warnf("skipped %d malformed optimizer decisions", skipped)
	}
	return res, nil
}

func decodeList[T any](data []byte, what string) ([]T, error) {
	var out []T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", what, err)
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

// filterJobCards keeps the cards of vehicleID. Cards without a vehicle id are
// kept only when anonymous is set.
func filterJobCards(cards []model.JobCard, vehicleID string, anonymous bool) []model.JobCard {
	out := make([]model.JobCard, 0, len(cards))
	for _, c := range cards {
		if c.VehicleID == vehicleID || (anonymous && c.VehicleID == "") {
			out = append(out, c)
		}
	}
	return out
}
