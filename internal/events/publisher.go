// Package events publishes note change notifications to other systems.
package events

import "context"

// Publisher delivers one event, keyed for partitioning.
type Publisher interface {
	Publish(ctx context.Context, key string, event any) error
}

// Nop drops every event. It is used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, string, any) error { return nil }

// Recorder keeps events in memory; handy for tests and the CLI dry run.
type Recorder struct {
	Events []any
}

func (r *Recorder) Publish(_ context.Context, _ string, event any) error {
	r.Events = append(r.Events, event)
	return nil
}
