package streamlog

import (
	"time"

	"github.com/forestrie/go-merklestream/checkpoint"
)

type Option func(*Options)

type Options struct {
	rootSigner *checkpoint.RootSigner
	subject    string
	now        func() time.Time
}

// WithRootSigner enables Checkpoint. subject is recorded in the signed
// message's claims.
func WithRootSigner(rs checkpoint.RootSigner, subject string) Option {
	return func(o *Options) {
		o.rootSigner = &rs
		o.subject = subject
	}
}

// WithClock replaces the clock used to timestamp checkpoints
func WithClock(now func() time.Time) Option {
	return func(o *Options) {
		o.now = now
	}
}
