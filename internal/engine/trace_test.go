package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrace_AppendOnlyOrdering(t *testing.T) {
	var tr Trace
	tr.Add("first", "step one", map[string]float64{"x": 1})
	tr.Add("second", "step two", nil)

	var other Trace
	other.Add("third", "step three", map[string]float64{"y": 2})
	tr.Merge(other)

	assert.Equal(t, []string{"first", "second", "third"}, []string{
		tr.Steps[0].Rule, tr.Steps[1].Rule, tr.Steps[2].Rule,
	})
	assert.Equal(t, 1.0, tr.Steps[0].Inputs["x"])
	assert.Equal(t, "step two", tr.Steps[1].Detail)
}
