package simulate

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/damianidczak/vue-render-inspector-sub002/pkg/logger"
)

// Constants for random number generation.
const (
	randomFloatDivisor = 1000000
	archetypeDivisor   = 6
)

// Constants for render duration ranges, in milliseconds.
const (
	fastRenderMin    = 0.2
	fastRenderRange  = 2.0
	slowRenderMin    = 8.0
	slowRenderRange  = 24.0
	midRenderMin     = 2.0
	midRenderRange   = 6.0
	unmeasuredChance = 0.15
)

// Constants for archetype cases. Each archetype stands for a class of
// component behavior the inspector should surface.
const (
	caseQuietComponent   = 0
	caseChattyComponent  = 1
	caseWastefulRenderer = 2
	caseSlowRenderer     = 3
	caseStormProne       = 4
	caseMixedBehavior    = 5
)

var componentNames = []string{
	"AppButton", "UserCard", "SearchBar", "NavMenu", "DataTable",
	"ListItem", "Spinner", "ToastMessage", "ModalDialog", "ChartPanel",
}

var triggerMechanisms = []string{
	"props-change", "state-change", "watcher", "computed", "forced", "parent-render",
}

var renderReasons = []string{
	"props updated", "reactive dependency changed", "forced update",
	"parent re-rendered", "watcher fired",
}

// component is one simulated instance with a fixed behavior archetype.
type component struct {
	uid       string
	name      string
	archetype int64
}

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

// generateEvents creates the specified number of render events spread
// over a fixed set of component instances.
func generateEvents(ctx context.Context, config *Config, stats *Stats) ([]Event, error) {
	logger.Get().Info(ctx, "generating render events",
		logger.Int("numEvents", config.NumEvents),
		logger.Int("components", config.Components))

	// Fix the component population first so events cluster per uid.
	components := make([]component, config.Components)
	for i := range components {
		archetype, _ := rand.Int(rand.Reader, big.NewInt(archetypeDivisor))
		components[i] = component{
			uid:       uuid.New().String(),
			name:      componentNames[i%len(componentNames)],
			archetype: archetype.Int64(),
		}
	}

	events := make([]Event, config.NumEvents)

	// Generate events concurrently
	type eventResult struct {
		index int
		event Event
		err   error
	}

	resultChan := make(chan eventResult, config.NumEvents)

	// Use worker pool for event generation
	workerCount := minInt(config.Workers, config.NumEvents)
	eventsPerWorker := config.NumEvents / workerCount

	for worker := 0; worker < workerCount; worker++ {
		start := worker * eventsPerWorker
		end := start + eventsPerWorker
		if worker == workerCount-1 {
			end = config.NumEvents // Last worker gets remaining events
		}

		go func(start, end int) {
			for i := start; i < end; i++ {
				select {
				case <-ctx.Done():
					resultChan <- eventResult{index: i, err: ctx.Err()}
					return
				default:
					target := components[i%len(components)]
					resultChan <- eventResult{index: i, event: generateSingleEvent(target)}
				}
			}
		}(start, end)
	}

	// Collect results
	for i := 0; i < config.NumEvents; i++ {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("context cancelled during event generation: %w", ctx.Err())
		case result := <-resultChan:
			if result.err != nil {
				return nil, fmt.Errorf("failed to generate event %d: %w", result.index, result.err)
			}
			events[result.index] = result.event
		}
	}

	stats.EventsGenerated = len(events)
	logger.Get().Info(ctx, "generated events successfully", logger.Int("count", len(events)))

	return events, nil
}

// generateSingleEvent creates one render event shaped by the component's
// archetype.
func generateSingleEvent(target component) Event {
	ev := Event{
		UID:           target.uid,
		ComponentName: target.name,
		Timestamp:     time.Now().UnixMilli(),
	}

	switch target.archetype {
	case caseQuietComponent:
		// Infrequent, cheap renders with a clear reason
		ev.Duration = durationIn(fastRenderMin, fastRenderRange)
		ev.TriggerMechanism = "props-change"
		ev.Reason = "props updated"
	case caseChattyComponent:
		// Frequent cheap renders, occasionally unmeasured
		ev.Duration = durationIn(fastRenderMin, fastRenderRange)
		ev.TriggerMechanism = "state-change"
		ev.Reason = "reactive dependency changed"
	case caseWastefulRenderer:
		// Renders without observable output change
		ev.Duration = durationIn(midRenderMin, midRenderRange)
		ev.IsUnnecessary = true
		ev.TriggerMechanism = "parent-render"
		ev.Reason = "parent re-rendered"
		ev.EnhancedPatterns = []string{"unnecessary-parent-cascade"}
	case caseSlowRenderer:
		// Expensive renders worth flagging by duration
		ev.Duration = durationIn(slowRenderMin, slowRenderRange)
		ev.TriggerMechanism = "computed"
		ev.Reason = "reactive dependency changed"
	case caseStormProne:
		// High-frequency bursts: let the service call the storm
		ev.Duration = durationIn(fastRenderMin, fastRenderRange)
		ev.TriggerMechanism = "watcher"
		ev.Reason = "watcher fired"
	default:
		// Mixed behavior across the whole range
		ev.Duration = durationIn(fastRenderMin, slowRenderMin+slowRenderRange)
		ev.TriggerMechanism = triggerMechanisms[randIndex(len(triggerMechanisms))]
		ev.Reason = renderReasons[randIndex(len(renderReasons))]
		ev.IsUnnecessary = getRandomFloat() < 0.3
	}

	// Some hooks do not measure; drop the duration for a share of events.
	if getRandomFloat() < unmeasuredChance {
		ev.Duration = nil
	}

	return ev
}

// durationIn returns a pointer to a random duration within [min, min+span) ms.
func durationIn(min, span float64) *float64 {
	d := min + getRandomFloat()*span
	return &d
}

// randIndex returns a random index below n.
func randIndex(n int) int {
	v, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(v.Int64())
}

// minInt returns the minimum of two integers.
func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
