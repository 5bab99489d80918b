package timeline

import "github.com/sirupsen/logrus"

// Config controls what the providers lay out.
type Config struct {
	// ShowAllEvents disables the default filters.
	ShowAllEvents bool
	// FlowEvents enables collection of flows between events.
	FlowEvents bool
	// Blackboxing collapses chains of blackboxed script frames into their outermost frame.
	Blackboxing bool
	// CollapsibleGroups replaces header entries with groups that don't occupy levels.
	CollapsibleGroups bool
	// GPUTimeline adds a group of GPU tasks after all threads.
	GPUTimeline bool

	// VisibleEvents restricts the layout to events with these names. Empty means all events.
	VisibleEvents []string
	// BlackboxPatterns are regular expressions of blackboxed script URLs.
	BlackboxPatterns []string
	// Filters are applied in addition to the default filters.
	Filters []Filter

	// Logger defaults to logrus.StandardLogger.
	Logger logrus.FieldLogger
	// Metrics may be nil.
	Metrics *Metrics
}

func (cfg *Config) logger(provider string) logrus.FieldLogger {
	var log logrus.FieldLogger = logrus.StandardLogger()
	if cfg.Logger != nil {
		log = cfg.Logger
	}
	return log.WithField("provider", provider)
}

func (cfg *Config) classifier() (*Classifier, error) {
	var filters []Filter
	if !cfg.ShowAllEvents {
		filters = append(filters, NewVisibleEventsFilter(cfg.VisibleEvents...), ExcludeTopLevelFilter{})
	}
	filters = append(filters, cfg.Filters...)

	var blackbox BlackboxPredicate
	if cfg.Blackboxing {
		var err error
		blackbox, err = BlackboxPatterns(cfg.BlackboxPatterns...)
		if err != nil {
			return nil, err
		}
	}
	return NewClassifier(filters, blackbox), nil
}
