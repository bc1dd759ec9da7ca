package memory

import (
	"time"

	"github.com/labstack/gommon/log"
)

// Logger is the subset of gommon's logger the store writes to.
type Logger interface {
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// Options controls entry lifetime and sweep cadence.
type Options struct {
	// TTL is the fixed lifetime applied to every entry on put.
	TTL time.Duration
	// SweepInterval is how often the background sweep wakes.
	SweepInterval time.Duration
	// Logger receives sweep reports and sweep fault logs.
	Logger Logger
}

func (o Options) withDefaults() Options {
	if o.TTL <= 0 {
		o.TTL = 15 * time.Minute
	}
	if o.SweepInterval <= 0 {
		o.SweepInterval = 15 * time.Minute
	}
	if o.Logger == nil {
		o.Logger = log.New("cache")
	}
	return o
}
