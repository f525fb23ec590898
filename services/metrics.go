package services

import (
	"math/rand"
	"sync"
	"time"
)

// TimeRange is the lookback/lookahead window selected on the dashboard
type TimeRange string

const (
	TimeRange3M TimeRange = "3M"
	TimeRange6M TimeRange = "6M"
	TimeRange1Y TimeRange = "1Y"

	// DefaultTimeRange is used when no selection has been made yet
	DefaultTimeRange = TimeRange6M
)

// TimeRanges lists the selectable ranges in display order
var TimeRanges = []TimeRange{TimeRange3M, TimeRange6M, TimeRange1Y}

// ParseTimeRange converts a selector value into a TimeRange.
// Unknown values fall back to DefaultTimeRange.
func ParseTimeRange(value string) TimeRange {
	switch TimeRange(value) {
	case TimeRange3M, TimeRange6M, TimeRange1Y:
		return TimeRange(value)
	default:
		return DefaultTimeRange
	}
}

// IsValid reports whether the range is one of the selectable values
func (tr TimeRange) IsValid() bool {
	switch tr {
	case TimeRange3M, TimeRange6M, TimeRange1Y:
		return true
	}
	return false
}

// Months returns the number of months covered by the range.
// Anything unrecognised covers a full year.
func (tr TimeRange) Months() int {
	switch tr {
	case TimeRange3M:
		return 3
	case TimeRange6M:
		return 6
	case TimeRange1Y:
		return 12
	default:
		return 12
	}
}

// Clock supplies the current time
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock
type SystemClock struct{}

// Now returns time.Now()
func (SystemClock) Now() time.Time {
	return time.Now()
}

// FixedClock always returns the same instant
type FixedClock struct {
	At time.Time
}

// Now returns the pinned instant
func (c FixedClock) Now() time.Time {
	return c.At
}

// MetricPoint is one synthetic monthly data point
type MetricPoint struct {
	Month    string `json:"month"`
	Clients  int    `json:"clients"`
	NPS      int    `json:"nps"`
	Share    int    `json:"share"`
	Adoption int    `json:"adoption"`
}

// Inclusive bounds of the generated values
const (
	MinClients  = 5
	MaxClients  = 24
	MinNPS      = 60
	MaxNPS      = 79
	MinShare    = 20
	MaxShare    = 24
	MinAdoption = 5
	MaxAdoption = 34
)

// MetricsGenerator produces mock metric series anchored to the current month
type MetricsGenerator struct {
	clock Clock

	mu  sync.Mutex
	rng *rand.Rand
}

// NewMetricsGenerator creates a generator. A nil clock uses the system clock
// and a nil rng is seeded from the clock.
func NewMetricsGenerator(clock Clock, rng *rand.Rand) *MetricsGenerator {
	if clock == nil {
		clock = SystemClock{}
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(clock.Now().UnixNano()))
	}
	return &MetricsGenerator{clock: clock, rng: rng}
}

// Generate returns one point per month, ending at the current month and
// ordered oldest first.
func (g *MetricsGenerator) Generate(months int) []MetricPoint {
	if months < 1 {
		return []MetricPoint{}
	}

	now := g.clock.Now()
	points := make([]MetricPoint, months)

	g.mu.Lock()
	defer g.mu.Unlock()

	// Walk backwards from the current month, filling the slice from the end
	for i := 0; i < months; i++ {
		date := time.Date(now.Year(), now.Month()-time.Month(i), 1, 0, 0, 0, 0, now.Location())
		points[months-1-i] = MetricPoint{
			Month:    ShortMonth(date.Month()),
			Clients:  g.between(MinClients, MaxClients),
			NPS:      g.between(MinNPS, MaxNPS),
			Share:    g.between(MinShare, MaxShare),
			Adoption: g.between(MinAdoption, MaxAdoption),
		}
	}

	return points
}

// Now exposes the generator's clock
func (g *MetricsGenerator) Now() time.Time {
	return g.clock.Now()
}

// between draws a uniform integer in [min, max]; callers hold g.mu
func (g *MetricsGenerator) between(min, max int) int {
	return g.rng.Intn(max-min+1) + min
}

// ShortMonth returns the abbreviated English month name ("Jan")
func ShortMonth(m time.Month) string {
	return m.String()[:3]
}
