package transport

import (
	"context"
	"fmt"
)

// New builds the deliverer named by cfg.Kind and wraps it in an Async
// transport. The log deliverer requires a logger; pass it with WithLogger.
func New(ctx context.Context, cfg Config, opts ...Option) (*Async, error) {
	cfg = cfg.withDefaults()

	o := applyOptions(opts)

	var d Deliverer
	switch cfg.Kind {
	case KindHTTP:
		h, err := NewHTTP(cfg.HTTP)
		if err != nil {
			return nil, err
		}
		d = h
	case KindOTLP:
		exp, err := NewOTLP(ctx, cfg.OTLP)
		if err != nil {
			return nil, err
		}
		d = exp
	case KindKafka:
		k, err := NewKafka(cfg.Kafka)
		if err != nil {
			return nil, err
		}
		d = k
	case KindMemory:
		d = NewMemory()
	case KindLog, "":
		if o.logger == nil {
			return nil, fmt.Errorf("%w: the log deliverer needs a logger", ErrInvalidConfig)
		}
		cfg.Kind = KindLog
		d = NewLog(o.logger)
	default:
		return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidConfig, cfg.Kind)
	}

	return NewAsync(d, cfg.Kind, cfg, opts...), nil
}

// Deliverer returns the deliverer a is draining into.
func (a *Async) Deliverer() Deliverer {
	return a.deliverer
}
