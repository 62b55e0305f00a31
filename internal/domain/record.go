package domain

import "maps"

// Location identifies where a water sample applies.
type Location struct {
	Latitude  float64 `json:"latitude" yaml:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
	Address   string  `json:"address,omitempty" yaml:"address,omitempty"`
}

// WaterRecord is the provider's view of water quality at a location.
type WaterRecord struct {
	Location   Location           `json:"location"`
	Metrics    map[string]float64 `json:"metrics"`
	LastTested string             `json:"lastTested"`
	Source     string             `json:"source"`

	// Standards is the table snapshot the record is evaluated against.
	Standards Standards `json:"standards,omitempty"`
}

// WithStandards returns a copy of the record carrying a clone of s. Neither
// the receiver nor s is modified.
func (r WaterRecord) WithStandards(s Standards) WaterRecord {
	out := r
	out.Metrics = maps.Clone(r.Metrics)
	out.Standards = s.Clone()
	return out
}
