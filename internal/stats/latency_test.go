package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	assert.Equal(t, Summary{}, Summarize(nil))

	samples := make([]time.Duration, 0, 100)
	for i := 100; i >= 1; i-- {
		samples = append(samples, time.Duration(i)*time.Microsecond)
	}
	s := Summarize(samples)
	assert.Equal(t, 50*time.Microsecond, s.P50)
	assert.Equal(t, 95*time.Microsecond, s.P95)
	assert.Equal(t, 99*time.Microsecond, s.P99)
	assert.Equal(t, 100*time.Microsecond, s.Max)
	// Input order is left alone.
	assert.Equal(t, 100*time.Microsecond, samples[0])
}

func TestPercentileSmallSample(t *testing.T) {
	sorted := []time.Duration{time.Millisecond, 2 * time.Millisecond, 3 * time.Millisecond}
	assert.Equal(t, 2*time.Millisecond, Percentile(sorted, 0.50))
	assert.Equal(t, 3*time.Millisecond, Percentile(sorted, 0.95))
	assert.Equal(t, time.Duration(0), Percentile(nil, 0.5))
}
