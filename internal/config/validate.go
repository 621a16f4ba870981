package config

import (
	"fmt"
	"slices"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if err := c.SLA.validate(); err != nil {
		return fmt.Errorf("sla: %w", err)
	}

	if err := c.Timeline.validate(); err != nil {
		return fmt.Errorf("timeline: %w", err)
	}

	if c.Batch.Timeout <= 0 {
		return fmt.Errorf("batch: timeout must be > 0 (got %s)", c.Batch.Timeout)
	}

	if c.AMQP.URL != "" && c.AMQP.Exchange == "" {
		return fmt.Errorf("amqp: exchange is required when url is set")
	}

	return nil
}

func (s *SLAConfig) validate() error {
	for name, v := range map[string]int{
		"cold_chain_minutes": s.ColdChainMinutes,
		"flammable_minutes":  s.FlammableMinutes,
		"standard_minutes":   s.StandardMinutes,
	} {
		if v <= 0 {
			return fmt.Errorf("%s must be > 0 (got %d)", name, v)
		}
	}

	for _, code := range s.ColdChainCodes() {
		if slices.Contains(s.FlammableCodes(), code) {
			return fmt.Errorf("code %q is both cold-chain and flammable", code)
		}
	}

	if _, err := s.Location(); err != nil {
		return fmt.Errorf("timezone: %w", err)
	}

	return nil
}

func (t *TimelineConfig) validate() error {
	if t.Limit <= 0 {
		return fmt.Errorf("limit must be > 0 (got %d)", t.Limit)
	}
	if t.FetchWindow < t.Limit {
		return fmt.Errorf("fetch_window must be >= limit (got %d < %d)", t.FetchWindow, t.Limit)
	}
	if t.HighlightWindow <= 0 {
		return fmt.Errorf("highlight_window must be > 0 (got %s)", t.HighlightWindow)
	}
	if t.Tick <= 0 {
		return fmt.Errorf("tick must be > 0 (got %s)", t.Tick)
	}
	if t.RetryMin <= 0 || t.RetryMax < t.RetryMin {
		return fmt.Errorf("retry bounds invalid (min %s, max %s)", t.RetryMin, t.RetryMax)
	}
	return nil
}
