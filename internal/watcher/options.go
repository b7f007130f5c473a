package watcher

import "time"

// DefaultSettleDelay is used when Options.SettleDelay is zero.
const DefaultSettleDelay = 500 * time.Millisecond

// Options configures the file watcher behavior.
type Options struct {
	// SettleDelay is how long the file must keep the same size and mtime
	// before a change is reported.
	SettleDelay time.Duration
}

// setDefaults applies default values to unset options.
func (o *Options) setDefaults() {
	if o.SettleDelay <= 0 {
		o.SettleDelay = DefaultSettleDelay
	}
}
