package perf

import "sync"

// Default window size for the moving average.
const defaultAverageWindow = 10

// MovingAverage keeps the most recent windowSize samples and reports
// their arithmetic mean. The mean over zero samples is 0.
type MovingAverage struct {
	mu     sync.Mutex
	values []float64
	window int
}

// NewMovingAverage creates a moving average with configuration options.
func NewMovingAverage(opts ...AverageOption) *MovingAverage {
	a := &MovingAverage{
		window: defaultAverageWindow,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.values = make([]float64, 0, a.window)
	return a
}

// Add appends a sample, dropping the oldest once the window is full.
func (a *MovingAverage) Add(value float64) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.values = append(a.values, value)
	if len(a.values) > a.window {
		a.values = a.values[len(a.values)-a.window:]
	}
}

// Get returns the mean of the retained samples, or 0 when empty.
func (a *MovingAverage) Get() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()

	if len(a.values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range a.values {
		sum += v
	}
	return sum / float64(len(a.values))
}

// Len returns the number of retained samples.
func (a *MovingAverage) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.values)
}

// Clear empties the window.
func (a *MovingAverage) Clear() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.values = a.values[:0]
}
