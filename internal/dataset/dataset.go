// Package dataset loads the YAML or JSON files consumed by the symtab
// command: key/value pairs, intervals and axis-parallel segments.
//
// Every file is checked against an embedded JSON schema before it is
// decoded, so callers see all structural problems at once.
package dataset

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/symtab/pkg/alg/interval"
	"github.com/Sumatoshi-tech/symtab/pkg/alg/sweep"
)

// Errors returned while loading a dataset.
var (
	ErrInvalid          = errors.New("dataset does not match schema")
	ErrInvertedInterval = errors.New("interval start exceeds end")
)

//go:embed schema.json
var schema []byte

// Dataset is the decoded contents of a dataset file.
type Dataset struct {
	Pairs     []Pair     `yaml:"pairs"`
	Intervals []Interval `yaml:"intervals"`
	Segments  []Segment  `yaml:"segments"`
}

// Pair is one symbol table entry.
type Pair struct {
	Key   int    `yaml:"key"`
	Value string `yaml:"value"`
}

// Interval is a closed interval [Start, End].
type Interval struct {
	Start float64 `yaml:"start"`
	End   float64 `yaml:"end"`
}

// Segment joins two grid points.
type Segment struct {
	A Point `yaml:"a"`
	B Point `yaml:"b"`
}

// Point is a grid point.
type Point struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// Report lists the schema violations of a document. It is empty for a
// valid document.
type Report struct {
	Problems []string
}

// Valid reports whether the document matched the schema.
func (r *Report) Valid() bool {
	return len(r.Problems) == 0
}

// Schema returns the embedded JSON schema.
func Schema() []byte {
	return schema
}

// Load reads, validates and decodes the dataset at path.
func Load(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}

	ds, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return ds, nil
}

// Parse validates and decodes a YAML or JSON document.
func Parse(data []byte) (*Dataset, error) {
	report, err := Validate(data)
	if err != nil {
		return nil, err
	}

	if !report.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalid, report.Problems[0])
	}

	var ds Dataset

	err = yaml.Unmarshal(data, &ds)
	if err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}

	for _, iv := range ds.Intervals {
		if iv.Start > iv.End {
			return nil, fmt.Errorf("%w: [%v, %v]", ErrInvertedInterval, iv.Start, iv.End)
		}
	}

	return &ds, nil
}

// Validate checks a YAML or JSON document against the schema. A document
// that does not parse is an error; schema violations are reported.
func Validate(data []byte) (*Report, error) {
	var doc any

	err := yaml.Unmarshal(data, &doc)
	if err != nil {
		return nil, fmt.Errorf("parse dataset: %w", err)
	}

	// An empty document holds no data of any kind.
	if doc == nil {
		doc = map[string]any{}
	}

	result, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(schema), gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("validate dataset: %w", err)
	}

	report := &Report{}

	for _, verr := range result.Errors() {
		report.Problems = append(report.Problems, fmt.Sprintf("%s: %s", verr.Field(), verr.Description()))
	}

	return report, nil
}

// IntervalTree returns a tree holding every interval.
func (ds *Dataset) IntervalTree() *interval.Tree {
	tree := interval.New()

	for _, iv := range ds.Intervals {
		tree.Add(interval.Interval{Start: iv.Start, End: iv.End})
	}

	return tree
}

// SweepSegments converts the segments for the sweep search.
func (ds *Dataset) SweepSegments() ([]sweep.Segment, error) {
	out := make([]sweep.Segment, 0, len(ds.Segments))

	for i, s := range ds.Segments {
		seg, err := sweep.NewSegment(sweep.Point{X: s.A.X, Y: s.A.Y}, sweep.Point{X: s.B.X, Y: s.B.Y})
		if err != nil {
			return nil, fmt.Errorf("segment %d: %w", i, err)
		}

		out = append(out, seg)
	}

	return out, nil
}
