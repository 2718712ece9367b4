// Package crosscheck runs one random operation sequence against two tables
// and reports the first query on which they disagree.
//
// After every mutation both tables verify their own invariants, so a
// balancing bug surfaces at the step that introduced it rather than at a
// later query.
package crosscheck

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/Sumatoshi-tech/symtab/internal/tables"
	"github.com/Sumatoshi-tech/symtab/pkg/symtab"
)

// Errors reported by Run.
var (
	ErrMismatch  = errors.New("tables disagree")
	ErrInvariant = errors.New("table invariant violated")
	ErrKeySpace  = errors.New("key space must be positive")
)

// probeSpan is the width of the range queried around each probe key.
const probeSpan = 8

// progressEvery is the step interval of debug progress logs.
const progressEvery = 1000

// Options controls the operation sequence.
type Options struct {
	Operations int
	KeySpace   int
	Seed       uint64
}

// Subject is a named table under test.
type Subject struct {
	Name  string
	Table tables.Tree[int]
}

// Result summarizes a successful run.
type Result struct {
	Operations int
	Adds       int

	// Deletes counts keys removed; Misses counts deletes of absent keys.
	Deletes int
	Misses  int

	Size int
}

// MismatchError describes the first disagreement between the two tables.
type MismatchError struct {
	Step      int
	Op        string
	Reference string
	Candidate string

	// Diff is a line diff from the reference description to the candidate's.
	Diff string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("%s vs %s at step %d after %s", e.Reference, e.Candidate, e.Step, e.Op)
}

func (e *MismatchError) Unwrap() error {
	return ErrMismatch
}

// Run applies opts.Operations random adds and deletes to both subjects and
// compares a description of every query answer after each step. Two thirds
// of the operations are adds.
func Run(ctx context.Context, opts Options, reference, candidate Subject, logger *slog.Logger) (Result, error) {
	if opts.KeySpace <= 0 {
		return Result{}, fmt.Errorf("%w: %d", ErrKeySpace, opts.KeySpace)
	}

	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed+1))

	var result Result

	for step := range opts.Operations {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("crosscheck interrupted: %w", err)
		}

		key := rng.IntN(opts.KeySpace)

		var op string

		if rng.IntN(3) == 0 {
			op = fmt.Sprintf("TryDelete(%d)", key)

			refDeleted := reference.Table.TryDelete(key)
			candDeleted := candidate.Table.TryDelete(key)

			if refDeleted != candDeleted {
				return result, mismatch(step, op, reference, candidate,
					fmt.Sprintf("deleted=%t\n", refDeleted), fmt.Sprintf("deleted=%t\n", candDeleted))
			}

			if refDeleted {
				result.Deletes++
			} else {
				result.Misses++
			}
		} else {
			op = fmt.Sprintf("Add(%d, %d)", key, step)

			reference.Table.Add(key, step)
			candidate.Table.Add(key, step)

			result.Adds++
		}

		for _, s := range []Subject{reference, candidate} {
			if err := s.Table.Check(); err != nil {
				return result, fmt.Errorf("%w: %s at step %d after %s: %w", ErrInvariant, s.Name, step, op, err)
			}
		}

		probe := rng.IntN(opts.KeySpace)

		want := Describe(reference.Table, probe)
		got := Describe(candidate.Table, probe)

		if want != got {
			return result, mismatch(step, op, reference, candidate, want, got)
		}

		result.Operations++

		if result.Operations%progressEvery == 0 {
			logger.DebugContext(ctx, "crosscheck progress", "step", step, "size", reference.Table.Size())
		}
	}

	result.Size = reference.Table.Size()

	return result, nil
}

func mismatch(step int, op string, reference, candidate Subject, want, got string) *MismatchError {
	return &MismatchError{
		Step:      step,
		Op:        op,
		Reference: reference.Name,
		Candidate: candidate.Name,
		Diff:      LineDiff(want, got),
	}
}

// Describe renders the answers of t to every query around probe, one per
// line, so two tables can be compared textually.
func Describe(t symtab.Ordered[int, int], probe int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "size=%d empty=%t\n", t.Size(), t.IsEmpty())

	writeKey := func(name string, k int, ok bool) {
		if ok {
			fmt.Fprintf(&b, "%s=%d\n", name, k)
		} else {
			fmt.Fprintf(&b, "%s=none\n", name)
		}
	}

	k, ok := t.TryGetMin()
	writeKey("min", k, ok)

	k, ok = t.TryGetMax()
	writeKey("max", k, ok)

	k, ok = t.TryGetFloor(probe)
	writeKey(fmt.Sprintf("floor(%d)", probe), k, ok)

	k, ok = t.TryGetCeiling(probe)
	writeKey(fmt.Sprintf("ceiling(%d)", probe), k, ok)

	v, ok := t.TryGet(probe)
	writeKey(fmt.Sprintf("get(%d)", probe), v, ok)

	fmt.Fprintf(&b, "rank(%d)=%d\n", probe, t.Rank(probe))
	fmt.Fprintf(&b, "count(%d,%d)=%d\n", probe, probe+probeSpan, t.RangeCount(probe, probe+probeSpan))

	fmt.Fprintf(&b, "range(%d,%d)=", probe, probe+probeSpan)

	for k, v := range t.Range(probe, probe+probeSpan) {
		fmt.Fprintf(&b, "%d:%d ", k, v)
	}

	b.WriteString("\n")

	return b.String()
}

// LineDiff returns a unified-style line diff from a to b, prefixing removed
// lines with "-", added lines with "+" and unchanged lines with a space.
func LineDiff(a, b string) string {
	dmp := diffmatchpatch.New()
	src, dst, lines := dmp.DiffLinesToChars(a, b)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(src, dst, false), lines)

	var out strings.Builder

	for _, d := range diffs {
		prefix := " "

		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		case diffmatchpatch.DiffEqual:
		}

		for line := range strings.SplitSeq(strings.TrimSuffix(d.Text, "\n"), "\n") {
			out.WriteString(prefix + line + "\n")
		}
	}

	return out.String()
}
