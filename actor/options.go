package actor

import "github.com/nsroot/actorhub/log"

// registerConfig carries the per-actor tunables a RegisterOption can adjust.
type registerConfig struct {
	overhead int
	capacity int
}

// RegisterOption customises a single Register call.
type RegisterOption interface {
	apply(*registerConfig)
}

type registerOptionFunc func(*registerConfig)

func (f registerOptionFunc) apply(c *registerConfig) { f(c) }

// WithOverhead overrides the mailbox's advisory backpressure threshold for
// this one actor; the package default is 1024, matching the source's
// default messageQueueOverhead.
func WithOverhead(n int) RegisterOption {
	return registerOptionFunc(func(c *registerConfig) { c.overhead = n })
}

// WithCapacity sets a hard ceiling on this actor's mailbox depth, past
// which Send reports OutOfMemory instead of enqueuing. Zero (the default)
// means unbounded.
func WithCapacity(n int) RegisterOption {
	return registerOptionFunc(func(c *registerConfig) { c.capacity = n })
}

// runtimeConfig carries the tunables shared by NewDedicatedRuntime and
// NewPoolRuntime.
type runtimeConfig struct {
	logger          log.Logger
	defaultOverhead int
	defaultCapacity int
	workers         int
	batchBound      int
}

// Option customises a Runtime at construction time.
type Option interface {
	apply(*runtimeConfig)
}

type optionFunc func(*runtimeConfig)

func (f optionFunc) apply(c *runtimeConfig) { f(c) }

// WithLogger sets the runtime's logger. The default is log.DefaultLogger.
func WithLogger(logger log.Logger) Option {
	return optionFunc(func(c *runtimeConfig) { c.logger = logger })
}

// WithDefaultOverhead sets the advisory backpressure threshold new actors
// get unless they override it with WithOverhead at Register time.
func WithDefaultOverhead(n int) Option {
	return optionFunc(func(c *runtimeConfig) { c.defaultOverhead = n })
}

// WithDefaultCapacity sets the hard mailbox ceiling new actors get unless
// they override it with WithCapacity at Register time.
func WithDefaultCapacity(n int) Option {
	return optionFunc(func(c *runtimeConfig) { c.defaultCapacity = n })
}

// WithWorkers sets the pool's fixed worker count W. Only meaningful for
// NewPoolRuntime; ignored by NewDedicatedRuntime.
func WithWorkers(n int) Option {
	return optionFunc(func(c *runtimeConfig) { c.workers = n })
}

// WithBatchBound sets the pool's per-visit batch bound K — the maximum
// number of envelopes a worker drains from one mailbox before re-queuing
// it, balancing fairness against throughput. Only meaningful for
// NewPoolRuntime; the default is 20, matching the source's magic number.
func WithBatchBound(n int) Option {
	return optionFunc(func(c *runtimeConfig) { c.batchBound = n })
}

func defaultRuntimeConfig() runtimeConfig {
	return runtimeConfig{
		logger:          log.DefaultLogger,
		defaultOverhead: 1024,
		defaultCapacity: 0,
		workers:         4,
		batchBound:      20,
	}
}
