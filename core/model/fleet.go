package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Source field names tracked in Vehicle.Missing.
const (
	FieldMileage      = "mileage"
	FieldOpenJobCards = "openJobCards"
	FieldFitness      = "fitness"
	FieldStatus       = "status"
)

// FleetRecord is the wire shape returned by the fleet source. Pointer fields
// distinguish an absent value from a zero value.
type FleetRecord struct {
	ID           string        `json:"id"`
	Mileage      *float64      `json:"mileage"`
	OpenJobCards *float64      `json:"openJobCards"`
	Fitness      *FitnessFlags `json:"fitness"`
	Status       *string       `json:"status"`
	Bay          *string       `json:"bay"`
	Conflicts    *float64      `json:"conflicts"`
}

// FitnessFlags is the wire shape of the fitness certificates.
type FitnessFlags struct {
	Chassis *bool `json:"chassis"`
	Signal  *bool `json:"signal"`
	Telecom *bool `json:"telecom"`
}

// ToVehicle converts the wire record to a Vehicle. Absent certificates are
// decoded as invalid, absent counters are recorded in Missing and an absent or
// unknown status becomes maintenance-hold.
func (r FleetRecord) ToVehicle() Vehicle {
	v := Vehicle{ID: strings.TrimSpace(r.ID), Status: StatusMaintenanceHold}
	if r.Mileage != nil && *r.Mileage >= 0 {
		v.Mileage = int(*r.Mileage)
	} else {
		v.Missing = append(v.Missing, FieldMileage)
	}
	if r.OpenJobCards != nil && *r.OpenJobCards >= 0 {
		v.OpenJobCards = int(*r.OpenJobCards)
	} else {
		v.Missing = append(v.Missing, FieldOpenJobCards)
	}
	if r.Fitness != nil {
		v.Fitness = Fitness{
			Chassis: r.Fitness.Chassis != nil && *r.Fitness.Chassis,
			Signal:  r.Fitness.Signal != nil && *r.Fitness.Signal,
			Telecom: r.Fitness.Telecom != nil && *r.Fitness.Telecom,
		}
	} else {
		v.Missing = append(v.Missing, FieldFitness)
	}
	if r.Status != nil {
		st, ok := ParseStatus(*r.Status)
		v.Status = st
		if !ok {
			v.Missing = append(v.Missing, FieldStatus)
		}
	} else {
		v.Missing = append(v.Missing, FieldStatus)
	}
	if r.Bay != nil {
		v.Bay = *r.Bay
	}
	if r.Conflicts != nil && *r.Conflicts > 0 {
		v.ConflictCount = int(*r.Conflicts)
	}
	return v
}

// DecodeFleet decodes a JSON array of fleet records. Elements that are not
// objects or carry no id are skipped and counted.
func DecodeFleet(data []byte) ([]Vehicle, int, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, 0, fmt.Errorf("decode fleet: %w", err)
	}
	vehicles := make([]Vehicle, 0, len(raw))
	skipped := 0
	for _, item := range raw {
		var rec FleetRecord
		if err := json.Unmarshal(item, &rec); err != nil || strings.TrimSpace(rec.ID) == "" {
			skipped++
			continue
		}
		vehicles = append(vehicles, rec.ToVehicle())
	}
	return vehicles, skipped, nil
}
