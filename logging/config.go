package logging

// Config selects which events reach the sinks.
type Config struct {
	MinimumSeverity Severity       `json:"minimumSeverity"`
	Categories      []string       `json:"categories,omitempty"`
	Fields          map[string]any `json:"fields,omitempty"`
}

// Normalized applies defaults. An empty category list means all categories.
func (c Config) Normalized() Config {
	normalized := c
	if normalized.MinimumSeverity < SeverityDebug || normalized.MinimumSeverity > SeverityError {
		normalized.MinimumSeverity = SeverityInfo
	}
	return normalized
}

func (c Config) allows(event Event) bool {
	if event.Severity < c.MinimumSeverity {
		return false
	}
	if len(c.Categories) == 0 {
		return true
	}
	for _, category := range c.Categories {
		if category == event.Category {
			return true
		}
	}
	return false
}
