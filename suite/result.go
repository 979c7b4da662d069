package suite

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/geange/regexcov/coverage"
)

var ErrInvalidResult = errors.New("invalid result record")

// Result The coverage record of one suite. A nil ratio means it was never computed, for instance because
// the pattern did not compile.
type Result struct {
	SuiteID int64

	FullNodeCoverage     *float64
	FullEdgeCoverage     *float64
	FullEdgePairCoverage *float64

	PartialNodeCoverage     *float64
	PartialEdgeCoverage     *float64
	PartialEdgePairCoverage *float64
}

func NewResult(suiteID int64, full, partial coverage.Summary) Result {
	return Result{
		SuiteID:                 suiteID,
		FullNodeCoverage:        &full.NodeCoverage,
		FullEdgeCoverage:        &full.EdgeCoverage,
		FullEdgePairCoverage:    &full.EdgePairCoverage,
		PartialNodeCoverage:     &partial.NodeCoverage,
		PartialEdgeCoverage:     &partial.EdgeCoverage,
		PartialEdgePairCoverage: &partial.EdgePairCoverage,
	}
}

// Computed reports whether every ratio is present.
func (r Result) Computed() bool {
	for _, field := range r.fields() {
		if *field.value == nil {
			return false
		}
	}
	return true
}

type resultField struct {
	key   string
	value **float64
}

func (r *Result) fields() []resultField {
	return []resultField{
		{"full_match_node_coverage", &r.FullNodeCoverage},
		{"full_match_edge_coverage", &r.FullEdgeCoverage},
		{"full_match_edge_pair_coverage", &r.FullEdgePairCoverage},
		{"partial_match_node_coverage", &r.PartialNodeCoverage},
		{"partial_match_edge_coverage", &r.PartialEdgeCoverage},
		{"partial_match_edge_pair_coverage", &r.PartialEdgePairCoverage},
	}
}

func (r Result) MarshalJSON() ([]byte, error) {
	data, err := sjson.SetBytes([]byte(`{}`), "suite_id", r.SuiteID)
	if err != nil {
		return nil, err
	}
	for _, field := range r.fields() {
		if *field.value == nil {
			data, err = sjson.SetRawBytes(data, field.key, []byte("null"))
		} else {
			data, err = sjson.SetBytes(data, field.key, **field.value)
		}
		if err != nil {
			return nil, err
		}
	}
	return data, nil
}

func (r *Result) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("%w: malformed json", ErrInvalidResult)
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return fmt.Errorf("%w: expected an object", ErrInvalidResult)
	}

	id := doc.Get("suite_id")
	if id.Type != gjson.Number {
		return fmt.Errorf("%w: suite_id must be a number", ErrInvalidResult)
	}
	r.SuiteID = id.Int()

	for _, field := range r.fields() {
		v := doc.Get(field.key)
		switch v.Type {
		case gjson.Null:
			*field.value = nil
		case gjson.Number:
			f := v.Float()
			*field.value = &f
		default:
			return fmt.Errorf("%w: %s must be a number or null", ErrInvalidResult, field.key)
		}
	}
	return nil
}
