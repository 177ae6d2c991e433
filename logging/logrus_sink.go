package logging

import (
	"context"

	"github.com/sirupsen/logrus"
)

type logrusPublisher struct {
	logger *logrus.Logger
	config Config
}

// NewLogrusPublisher forwards simulation events to a logrus logger, applying
// the config's severity and category filters.
func NewLogrusPublisher(logger *logrus.Logger, cfg Config) Publisher {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	cfg = cfg.Normalized()
	var p Publisher = &logrusPublisher{logger: logger, config: cfg}
	if len(cfg.Fields) > 0 {
		p = WithFields(p, cfg.Fields)
	}
	return p
}

func (p *logrusPublisher) Publish(_ context.Context, event Event) {
	if !p.config.allows(event) {
		return
	}
	fields := logrus.Fields{
		"event":    string(event.Type),
		"tick":     event.Tick,
		"category": event.Category,
	}
	if event.Faction != "" {
		fields["faction"] = event.Faction
	}
	if event.Entity != 0 {
		fields["entity"] = event.Entity
	}
	if event.Payload != nil {
		fields["payload"] = event.Payload
	}
	for k, v := range event.Extra {
		fields[k] = v
	}
	entry := p.logger.WithFields(fields)
	switch event.Severity {
	case SeverityDebug:
		entry.Debug(string(event.Type))
	case SeverityWarn:
		entry.Warn(string(event.Type))
	case SeverityError:
		entry.Error(string(event.Type))
	default:
		entry.Info(string(event.Type))
	}
}
