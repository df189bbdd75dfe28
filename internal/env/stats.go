package env

import "fmt"

// Outcome indicates how a rocket's flight ended
type Outcome int

const (
	OutcomeFlying    Outcome = iota
	OutcomeHitTarget         // reached the target radius
	OutcomeCrashed           // left the screen or hit an obstacle
	OutcomeExhausted         // ran out of genes
)

func (o Outcome) String() string {
	switch o {
	case OutcomeFlying:
		return "flying"
	case OutcomeHitTarget:
		return "hit"
	case OutcomeCrashed:
		return "crashed"
	case OutcomeExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// MarshalText encodes the outcome by name
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText decodes an outcome name
func (o *Outcome) UnmarshalText(text []byte) error {
	switch string(text) {
	case "flying":
		*o = OutcomeFlying
	case "hit":
		*o = OutcomeHitTarget
	case "crashed":
		*o = OutcomeCrashed
	case "exhausted":
		*o = OutcomeExhausted
	default:
		return fmt.Errorf("unknown outcome %q", text)
	}
	return nil
}

// CrashCause tells bounds crashes apart from obstacle crashes
type CrashCause int

const (
	CrashNone     CrashCause = iota
	CrashBounds              // left the screen rectangle
	CrashObstacle            // entered a blocked cell
)

func (c CrashCause) String() string {
	switch c {
	case CrashNone:
		return "none"
	case CrashBounds:
		return "bounds"
	case CrashObstacle:
		return "obstacle"
	default:
		return "unknown"
	}
}

// FlightStats captures everything fitness scoring needs from one flight
type FlightStats struct {
	Outcome     Outcome    `json:"outcome"`
	Cause       CrashCause `json:"cause"`
	Ticks       int        `json:"ticks"`
	Lifespan    int        `json:"lifespan"`
	Distance    float64    `json:"distance"`     // final distance to target
	MinDistance float64    `json:"min_distance"` // closest approach
}

// Tally counts rockets per outcome
type Tally struct {
	Flying    int `json:"flying"`
	Hits      int `json:"hits"`
	Crashes   int `json:"crashes"`
	Obstacles int `json:"obstacle_crashes"` // subset of Crashes
	Exhausted int `json:"exhausted"`
}

// Add counts one flight
func (t *Tally) Add(s FlightStats) {
	switch s.Outcome {
	case OutcomeFlying:
		t.Flying++
	case OutcomeHitTarget:
		t.Hits++
	case OutcomeCrashed:
		t.Crashes++
		if s.Cause == CrashObstacle {
			t.Obstacles++
		}
	case OutcomeExhausted:
		t.Exhausted++
	}
}

// Total returns the number of flights counted
func (t Tally) Total() int {
	return t.Flying + t.Hits + t.Crashes + t.Exhausted
}
