package domain

import (
	"fmt"
)

// CycleType identifies which test regime a cycle was recorded under.
// The dataset stores each regime in its own subdirectory under the data
// root, and the value doubles as that subdirectory name.
type CycleType string

const (
	// CycleTypeCharge marks cycles from the full-charge test regime.
	CycleTypeCharge CycleType = "charge"

	// CycleTypePartialCharge marks cycles from the partial-charge regime.
	CycleTypePartialCharge CycleType = "partial_charge"
)

// AllCycleTypes lists the known regimes in load order. The loader walks
// them in this order, and grouped statistics report them in this order.
var AllCycleTypes = []CycleType{CycleTypeCharge, CycleTypePartialCharge}

// IsValid reports whether ct is one of the known cycle types.
func (ct CycleType) IsValid() bool {
	switch ct {
	case CycleTypeCharge, CycleTypePartialCharge:
		return true
	}
	return false
}

// DirName returns the dataset subdirectory holding this regime's files.
func (ct CycleType) DirName() string {
	return string(ct)
}

// ParseCycleType converts a string into a CycleType, rejecting unknown values.
func ParseCycleType(s string) (CycleType, error) {
	ct := CycleType(s)
	if !ct.IsValid() {
		return "", fmt.Errorf("unknown cycle type %q", s)
	}
	return ct, nil
}

// CycleRecord is the Single Source of Truth for one extracted battery cycle.
// Every consumer (summary table, battery groups, CSV export, statistics)
// works from this structure. A record is immutable once built: the loader
// constructs it, validates it, and appends it; nothing mutates it afterwards.
//
// Field naming follows the summary CSV columns, with flattened_capacity
// holding the scalar unwrapped from the source's length-1 capacity array.
type CycleRecord struct {
	// BatteryID is the 1-based index of the battery within its cycle type's
	// load sequence. IDs keep counting across files so that every
	// (BatteryID, CycleType) pair names exactly one battery.
	BatteryID int `json:"battery_id" csv:"battery_id" validate:"required,min=1"`

	// CycleType is the test regime this cycle belongs to.
	CycleType CycleType `json:"cycle_type" csv:"cycle_type" validate:"required,oneof=charge partial_charge"`

	// CycleIndex is the 0-based position of the cycle within its battery,
	// in source order. Unique within a (BatteryID, CycleType) group.
	CycleIndex int `json:"cycle_idx" csv:"cycle_idx" validate:"min=0"`

	// TimeMean and TimeMax summarize the relative_time_min signal (minutes).
	TimeMean float64 `json:"time_mean" csv:"time_mean"`
	TimeMax  float64 `json:"time_max" csv:"time_max"`

	// CurrentMean and CurrentMax summarize the current_A signal (amperes).
	CurrentMean float64 `json:"current_mean" csv:"current_mean"`
	CurrentMax  float64 `json:"current_max" csv:"current_max"`

	// VoltageMean and VoltageMax summarize the voltage_V signal (volts).
	VoltageMean float64 `json:"voltage_mean" csv:"voltage_mean"`
	VoltageMax  float64 `json:"voltage_max" csv:"voltage_max"`

	// TemperatureMean and TemperatureMax summarize the temperature_C
	// signal (degrees Celsius).
	TemperatureMean float64 `json:"temperature_mean" csv:"temperature_mean"`
	TemperatureMax  float64 `json:"temperature_max" csv:"temperature_max"`

	// Capacity is the discharge capacity scalar for the cycle (Ah),
	// unwrapped exactly once from the source's length-1 array.
	Capacity float64 `json:"flattened_capacity" csv:"flattened_capacity"`
}

// Validate checks the structural invariants of a record. Feature values are
// not range-checked here; they carry whatever the signals contained.
func (r *CycleRecord) Validate() error {
	if r == nil {
		return fmt.Errorf("cycle record cannot be nil")
	}
	if r.BatteryID < 1 {
		return fmt.Errorf("battery id must be 1-based, got %d", r.BatteryID)
	}
	if !r.CycleType.IsValid() {
		return fmt.Errorf("unknown cycle type %q", r.CycleType)
	}
	if r.CycleIndex < 0 {
		return fmt.Errorf("cycle index cannot be negative: %d", r.CycleIndex)
	}
	return nil
}

// GroupKey returns the battery-group key for this record,
// formatted as battery_{id}_{cycle_type}.
func (r CycleRecord) GroupKey() string {
	return GroupKey(r.BatteryID, r.CycleType)
}

// GroupKey formats the canonical battery-group key.
func GroupKey(batteryID int, ct CycleType) string {
	return fmt.Sprintf("battery_%d_%s", batteryID, ct)
}

// BatteryGroup collects the cycles of one battery under one test regime.
// Cycles holds the full records in source order; Capacities mirrors them
// with just the capacity scalars, kept in lockstep so capacity-series
// consumers (statistics, fade plots) never re-walk the records.
type BatteryGroup struct {
	BatteryID  int           `json:"battery_id"`
	CycleType  CycleType     `json:"cycle_type"`
	Cycles     []CycleRecord `json:"cycles"`
	Capacities []float64     `json:"capacities"`
}

// NewBatteryGroup creates an empty group for the given battery and regime.
func NewBatteryGroup(batteryID int, ct CycleType) *BatteryGroup {
	return &BatteryGroup{
		BatteryID:  batteryID,
		CycleType:  ct,
		Cycles:     make([]CycleRecord, 0),
		Capacities: make([]float64, 0),
	}
}

// Key returns the group's battery_{id}_{cycle_type} key.
func (g *BatteryGroup) Key() string {
	return GroupKey(g.BatteryID, g.CycleType)
}

// Append adds a record to the group, keeping Cycles and Capacities in
// lockstep. The record must belong to this group and extend it in order.
func (g *BatteryGroup) Append(rec CycleRecord) error {
	if rec.BatteryID != g.BatteryID || rec.CycleType != g.CycleType {
		return fmt.Errorf("record %s does not belong to group %s", rec.GroupKey(), g.Key())
	}
	if rec.CycleIndex != len(g.Cycles) {
		return fmt.Errorf("group %s: cycle index %d out of order, want %d",
			g.Key(), rec.CycleIndex, len(g.Cycles))
	}
	g.Cycles = append(g.Cycles, rec)
	g.Capacities = append(g.Capacities, rec.Capacity)
	return nil
}

// CycleCount returns the number of cycles accumulated in the group.
func (g *BatteryGroup) CycleCount() int {
	return len(g.Cycles)
}
