package simulate

import (
	"context"
	"fmt"
	"log"
)

// fetchComponents retrieves per-component aggregates from the service.
func fetchComponents(ctx context.Context, config *Config, stats *Stats) ([]ComponentSummary, error) {
	log.Println("📈 Fetching component aggregates...")

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/components"

	resp, err := client.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode != StatusOK {
		body, _ := readResponseBody(resp)
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var components []ComponentSummary
	if err := unmarshalJSON(body, &components); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	stats.ComponentsTracked = len(components)
	log.Printf("✅ Retrieved %d component aggregates", len(components))

	return components, nil
}

// fetchStorms retrieves components currently in a render storm.
func fetchStorms(ctx context.Context, config *Config, stats *Stats) ([]Storm, error) {
	log.Println("🌩️  Fetching active render storms...")

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/storms"

	resp, err := client.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode != StatusOK {
		body, _ := readResponseBody(resp)
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var storms []Storm
	if err := unmarshalJSON(body, &storms); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	stats.StormsDetected = len(storms)
	log.Printf("✅ Retrieved %d active storms", len(storms))

	return storms, nil
}
