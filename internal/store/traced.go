package store

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "gitlab.com/yelinaung/spendwise/internal/store"

// Traced wraps a Store and records a span per call.
type Traced struct {
	next   Store
	driver string
	tracer trace.Tracer
}

// NewTraced wraps next using the global tracer provider.
func NewTraced(next Store, driver string) *Traced {
	return NewTracedWithProvider(next, driver, otel.GetTracerProvider())
}

// NewTracedWithProvider wraps next using tp.
func NewTracedWithProvider(next Store, driver string, tp trace.TracerProvider) *Traced {
	return &Traced{
		next:   next,
		driver: driver,
		tracer: tp.Tracer(tracerName),
	}
}

// Get implements Store.
func (t *Traced) Get(ctx context.Context, key string) ([]byte, error) {
	ctx, span := t.start(ctx, "store.Get", key)
	defer span.End()

	v, err := t.next.Get(ctx, key)
	switch {
	case errors.Is(err, ErrNotFound):
		span.SetAttributes(attribute.Bool("store.hit", false))
	case err != nil:
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	default:
		span.SetAttributes(attribute.Bool("store.hit", true), attribute.Int("store.value_size", len(v)))
	}
	return v, err
}

// Put implements Store.
func (t *Traced) Put(ctx context.Context, key string, value []byte) error {
	ctx, span := t.start(ctx, "store.Put", key)
	defer span.End()

	span.SetAttributes(attribute.Int("store.value_size", len(value)))
	err := t.next.Put(ctx, key, value)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

// Clear implements Store.
func (t *Traced) Clear(ctx context.Context) error {
	ctx, span := t.start(ctx, "store.Clear", "")
	defer span.End()

	err := t.next.Clear(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (t *Traced) start(ctx context.Context, name, key string) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{attribute.String("store.driver", t.driver)}
	if key != "" {
		attrs = append(attrs, attribute.String("store.key", key))
	}
	return t.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}
