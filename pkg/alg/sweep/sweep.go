// Package sweep finds intersections between horizontal and vertical line
// segments with a left-to-right plane sweep.
//
// Horizontal segments enter an ordered table keyed by y when the sweep line
// reaches their left end and leave it at their right end. Each vertical
// segment reports every active y inside its span, so the search costs
// O(N log N + R) with a balanced table, for N segments and R intersections.
package sweep

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/Sumatoshi-tech/symtab/pkg/symtab"
	"github.com/Sumatoshi-tech/symtab/pkg/symtab/bst"
)

// Segment construction and sweep errors.
var (
	ErrCoincidentPoints = errors.New("sweep: segment endpoints coincide")
	ErrDiagonalSegment  = errors.New("sweep: segment is neither horizontal nor vertical")
	ErrSweepState       = errors.New("sweep: horizontal segment missing from active set")
)

// Point is a point on the integer grid.
type Point struct {
	X, Y int
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Segment is an axis-parallel segment between A and B.
// Build segments with NewSegment.
type Segment struct {
	A, B       Point
	horizontal bool
}

// NewSegment returns the segment from a to b. The points must differ and
// share either their x or their y coordinate.
func NewSegment(a, b Point) (Segment, error) {
	sameColumn := a.X == b.X
	sameRow := a.Y == b.Y

	switch {
	case sameColumn && sameRow:
		return Segment{}, fmt.Errorf("%w: %v", ErrCoincidentPoints, a)
	case sameColumn:
		return Segment{A: a, B: b}, nil
	case sameRow:
		return Segment{A: a, B: b, horizontal: true}, nil
	default:
		return Segment{}, fmt.Errorf("%w: %v to %v", ErrDiagonalSegment, a, b)
	}
}

// Horizontal reports whether the segment runs along the x axis.
func (s Segment) Horizontal() bool {
	return s.horizontal
}

// TableFactory creates the empty table that holds active horizontal segments.
type TableFactory func() symtab.Ordered[int, int]

// Option configures Search.
type Option func(*options)

type options struct {
	newTable TableFactory
}

// WithTable selects the table implementation for the active set.
func WithTable(factory TableFactory) Option {
	return func(o *options) {
		o.newTable = factory
	}
}

type eventKind int

// Events at the same x are processed in this order, so a vertical segment
// touching the endpoint of a horizontal one still intersects it.
const (
	eventStart eventKind = iota
	eventVertical
	eventEnd
)

type event struct {
	x    int
	kind eventKind
	seg  Segment
}

// Search returns every point where a horizontal and a vertical segment
// intersect, ordered by x and then y. A point crossed by several verticals is
// reported once. Intersections between two segments of the same orientation
// are not reported.
//
// Horizontal segments on the same y must not overlap; an overlap makes the
// first one to end remove the shared key and the second end event fails with
// ErrSweepState.
func Search(segments []Segment, opts ...Option) ([]Point, error) {
	o := options{
		newTable: func() symtab.Ordered[int, int] { return bst.New[int, int]() },
	}

	for _, opt := range opts {
		opt(&o)
	}

	events := make([]event, 0, 2*len(segments))

	for _, seg := range segments {
		if seg.horizontal {
			left, right := min(seg.A.X, seg.B.X), max(seg.A.X, seg.B.X)
			events = append(events,
				event{x: left, kind: eventStart, seg: seg},
				event{x: right, kind: eventEnd, seg: seg})

			continue
		}

		events = append(events, event{x: seg.A.X, kind: eventVertical, seg: seg})
	}

	slices.SortStableFunc(events, func(a, b event) int {
		if c := cmp.Compare(a.x, b.x); c != 0 {
			return c
		}

		return cmp.Compare(a.kind, b.kind)
	})

	active := o.newTable()

	var intersections []Point

	for _, ev := range events {
		switch ev.kind {
		case eventStart:
			active.Add(ev.seg.A.Y, ev.x)
		case eventEnd:
			if !active.TryDelete(ev.seg.A.Y) {
				return nil, fmt.Errorf("%w: y=%d at x=%d", ErrSweepState, ev.seg.A.Y, ev.x)
			}
		case eventVertical:
			lo, hi := min(ev.seg.A.Y, ev.seg.B.Y), max(ev.seg.A.Y, ev.seg.B.Y)

			for y := range active.Range(lo, hi) {
				intersections = append(intersections, Point{X: ev.x, Y: y})
			}
		}
	}

	slices.SortFunc(intersections, comparePoints)

	return slices.Compact(intersections), nil
}

func comparePoints(a, b Point) int {
	if c := cmp.Compare(a.X, b.X); c != 0 {
		return c
	}

	return cmp.Compare(a.Y, b.Y)
}
