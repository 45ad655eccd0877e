package schemas

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewConfidence_MeanOfBreakdown(t *testing.T) {
	c := NewConfidence(map[string]int{"a": 60, "b": 70, "c": 80})

	assert.Equal(t, 70, c.Overall)
	assert.Equal(t, 60, c.Breakdown["a"])
}

func TestNewConfidence_ClampsToFloor(t *testing.T) {
	c := NewConfidence(map[string]int{"a": 10, "b": 20})

	assert.Equal(t, ConfidenceFloor, c.Overall)
}

func TestNewConfidence_ClampsToCeiling(t *testing.T) {
	c := NewConfidence(map[string]int{"a": 100, "b": 100})

	assert.Equal(t, ConfidenceCeiling, c.Overall)
}

func TestNewConfidence_ClampsDimensionsBeforeAveraging(t *testing.T) {
	c := NewConfidence(map[string]int{"a": 150, "b": -20})

	assert.Equal(t, 100, c.Breakdown["a"])
	assert.Equal(t, 0, c.Breakdown["b"])
	assert.Equal(t, 50, c.Overall)
}

func TestNewConfidence_EmptyBreakdown(t *testing.T) {
	c := NewConfidence(nil)

	assert.Equal(t, ConfidenceFloor, c.Overall)
}

func TestNewConfidence_RoundsMean(t *testing.T) {
	// (61+62)/2 = 61.5, rounds to 62
	c := NewConfidence(map[string]int{"a": 61, "b": 62})

	assert.Equal(t, 62, c.Overall)
}

func TestFloorConfidence(t *testing.T) {
	c := FloorConfidence("x", "y")

	assert.Equal(t, ConfidenceFloor, c.Overall)
	assert.Equal(t, ConfidenceFloor, c.Breakdown["x"])
	assert.Equal(t, ConfidenceFloor, c.Breakdown["y"])
}

func TestClampConfidence(t *testing.T) {
	assert.Equal(t, ConfidenceFloor, ClampConfidence(12))
	assert.Equal(t, ConfidenceCeiling, ClampConfidence(99))
	assert.Equal(t, 60, ClampConfidence(60))
}
