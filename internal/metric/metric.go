// Package metric defines the registry of supported performance metrics.
// Plausibility ranges cover all age brackets and genders; per-population
// norms are an analytics concern, not a validation one.
package metric

import "strings"

// Direction says whether a lower or higher value is the better result.
type Direction string

const (
	LowerIsBetter  Direction = "lower"
	HigherIsBetter Direction = "higher"
)

// Spec describes one supported metric.
type Spec struct {
	ID        string
	Name      string
	Unit      string
	Direction Direction
	Min       float64
	Max       float64
}

const (
	Fly10Time    = "FLY10_TIME"
	VerticalJump = "VERTICAL_JUMP"
	Agility505   = "AGILITY_505"
	RSI          = "RSI"
	TTest        = "T_TEST"
)

var registry = map[string]Spec{
	Fly10Time:    {ID: Fly10Time, Name: "10-yard fly", Unit: "s", Direction: LowerIsBetter, Min: 1.00, Max: 1.70},
	VerticalJump: {ID: VerticalJump, Name: "Vertical jump", Unit: "in", Direction: HigherIsBetter, Min: 12.0, Max: 32.0},
	Agility505:   {ID: Agility505, Name: "5-0-5 agility", Unit: "s", Direction: LowerIsBetter, Min: 2.1, Max: 3.5},
	RSI:          {ID: RSI, Name: "Reactive strength index", Unit: "", Direction: HigherIsBetter, Min: 1.0, Max: 4.5},
	TTest:        {ID: TTest, Name: "T-test", Unit: "s", Direction: LowerIsBetter, Min: 7.5, Max: 13.5},
}

// aliases maps names seen on printed result sheets to metric IDs.
var aliases = map[string]string{
	"FLY10":         Fly10Time,
	"FLY 10":        Fly10Time,
	"10YD FLY":      Fly10Time,
	"FLY10_TIME":    Fly10Time,
	"VERT":          VerticalJump,
	"VERTICAL":      VerticalJump,
	"VERTICAL JUMP": VerticalJump,
	"VJ":            VerticalJump,
	"505":           Agility505,
	"5-0-5":         Agility505,
	"AGILITY":       Agility505,
	"AGILITY_505":   Agility505,
	"RSI":           RSI,
	"T-TEST":        TTest,
	"T TEST":        TTest,
	"TTEST":         TTest,
	"T_TEST":        TTest,
}

// Lookup returns the spec for a metric ID.
func Lookup(id string) (Spec, bool) {
	s, ok := registry[id]
	return s, ok
}

// Resolve maps a free-form metric label (as typed or OCR'd) to a spec.
func Resolve(label string) (Spec, bool) {
	key := strings.ToUpper(strings.TrimSpace(label))
	if s, ok := registry[key]; ok {
		return s, true
	}
	if id, ok := aliases[key]; ok {
		return registry[id], true
	}
	return Spec{}, false
}

// InRange reports whether v is a plausible value for the metric.
func (s Spec) InRange(v float64) bool {
	return v >= s.Min && v <= s.Max
}

// Better reports whether a is a better result than b for this metric.
func (s Spec) Better(a, b float64) bool {
	if s.Direction == LowerIsBetter {
		return a < b
	}
	return a > b
}

// All returns every registered metric spec, keyed by ID.
func All() map[string]Spec {
	out := make(map[string]Spec, len(registry))
	for k, v := range registry {
		out[k] = v
	}
	return out
}
