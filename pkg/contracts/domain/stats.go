package domain

// CapacityStats describes the capacity distribution across every loaded
// cycle. Std is the population standard deviation: the summary treats the
// loaded dataset as the whole population, not a sample of one.
type CapacityStats struct {
	Count int     `json:"count"`
	Mean  float64 `json:"mean"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Std   float64 `json:"std"`
}

// TypeCapacityStats describes the capacity distribution of one cycle type.
// Std here is the sample standard deviation (n-1 denominator), matching the
// grouped-statistics CSV contract. A type with a single cycle has Std NaN;
// callers render it as the literal "NaN" rather than masking it.
type TypeCapacityStats struct {
	CycleType CycleType `json:"cycle_type"`
	Count     int       `json:"count"`
	Mean      float64   `json:"mean"`
	Min       float64   `json:"min"`
	Max       float64   `json:"max"`
	Std       float64   `json:"std"`
}

// DatasetSummary is the aggregate view of one completed load: the group and
// cycle totals shown on the console, the global capacity statistics, and the
// per-type statistics in first-seen order.
type DatasetSummary struct {
	TotalGroups int                 `json:"total_batteries"`
	TotalCycles int                 `json:"total_cycles"`
	Capacity    CapacityStats       `json:"capacity"`
	ByType      []TypeCapacityStats `json:"by_cycle_type"`
}
