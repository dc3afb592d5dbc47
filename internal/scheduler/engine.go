package scheduler

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

// DefaultMaxExhaustiveRooms bounds the catalog size searched exhaustively for combinations.
const DefaultMaxExhaustiveRooms = 20

// Engine places lectures into rooms. It holds no booking state of its own; every
// run books into the catalog it is handed.
type Engine struct {
	logger             *zap.Logger
	strategy           CombinationStrategy
	maxExhaustiveRooms int
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithCombinationStrategy selects how multi-room combinations are searched.
func WithCombinationStrategy(strategy CombinationStrategy) Option {
	return func(e *Engine) {
		if strategy != "" {
			e.strategy = strategy
		}
	}
}

// WithMaxExhaustiveRooms sets the catalog size above which exhaustive combination
// search falls back to greedy. Zero or less disables the fallback.
func WithMaxExhaustiveRooms(n int) Option {
	return func(e *Engine) {
		e.maxExhaustiveRooms = n
	}
}

// New builds an engine with exhaustive combination search.
func New(opts ...Option) *Engine {
	e := &Engine{
		logger:             zap.NewNop(),
		strategy:           CombinationExhaustive,
		maxExhaustiveRooms: DefaultMaxExhaustiveRooms,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Result is the outcome of a run. Every input lecture is either represented in
// Assignments (one or more records) or listed in Unassigned, never both.
type Result struct {
	Assignments           []Assignment
	Unassigned            []Lecture
	CombinationPlacements int
}

// Run schedules all lectures slot by slot, booking into catalog. Lectures that
// cannot be placed are reported in Result.Unassigned. An error is returned only
// when a structural invariant is broken.
func (e *Engine) Run(catalog *Catalog, lectures []Lecture) (*Result, error) {
	if catalog == nil {
		return nil, ErrNilCatalog
	}
	result := &Result{
		Assignments: make([]Assignment, 0, len(lectures)),
		Unassigned:  make([]Lecture, 0),
	}

	for _, group := range groupBySlot(lectures) {
		// each lecture of the slot gets exactly one attempt
		for _, lecture := range group {
			placed, err := e.Place(catalog, lecture)
			if err != nil {
				return nil, err
			}
			if len(placed) == 0 {
				e.logger.Debug("lecture unassigned",
					zap.String("lecture", lecture.Label()),
					zap.String("day", lecture.Day),
					zap.String("time", lecture.Time),
					zap.Int("attendees", lecture.Attendees()),
				)
				result.Unassigned = append(result.Unassigned, lecture)
				continue
			}
			if len(placed) > 1 {
				result.CombinationPlacements++
			}
			result.Assignments = append(result.Assignments, placed...)
		}
	}

	if err := Verify(catalog, result.Assignments); err != nil {
		return nil, err
	}
	return result, nil
}

func groupBySlot(lectures []Lecture) [][]Lecture {
	sorted := slices.Clone(lectures)
	slices.SortStableFunc(sorted, func(a, b Lecture) int {
		if c := strings.Compare(a.Day, b.Day); c != 0 {
			return c
		}
		return compareTime(a.Time, b.Time)
	})
	return lo.PartitionBy(sorted, func(l Lecture) slotKey {
		return slotKey{Day: l.Day, Time: l.Time}
	})
}

type slotKey struct {
	Day  string
	Time string
}

// compareTime orders numeric slot keys numerically and anything else lexically.
func compareTime(a, b string) int {
	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)
	if errA == nil && errB == nil {
		return cmp.Compare(fa, fb)
	}
	return strings.Compare(a, b)
}
