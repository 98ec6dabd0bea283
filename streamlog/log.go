// Package streamlog binds a stream generator to a node store, giving a
// persisted stream that can be resumed after a restart.
package streamlog

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"sync"
	"time"

	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/forestrie/go-merklestream/checkpoint"
	"github.com/forestrie/go-merklestream/flattree"
	"github.com/forestrie/go-merklestream/merklestream"
	"github.com/forestrie/go-merklestream/nodehash"
	"github.com/forestrie/go-merklestream/nodestore"
	"github.com/google/uuid"
	"github.com/veraison/go-cose"
)

// Log is a single persisted stream. Unlike the generator it wraps, a Log is
// safe for concurrent use: appends are serialised in the order they acquire
// the log.
type Log struct {
	mu     sync.Mutex
	log    logger.Logger
	store  nodestore.Store
	scheme nodehash.Scheme
	opts   Options
	id     uuid.UUID
	gen    *merklestream.Generator
}

func newOptions(opts []Option) Options {
	options := Options{now: time.Now}
	for _, o := range opts {
		o(&options)
	}
	return options
}

// Create starts a new, empty, stream in store
func Create(
	ctx context.Context, log logger.Logger, store nodestore.Store, scheme nodehash.Scheme, opts ...Option,
) (*Log, error) {

	id := uuid.New()
	if err := store.Create(ctx, id, scheme.Name()); err != nil {
		return nil, err
	}
	gen, err := merklestream.NewGenerator(scheme)
	if err != nil {
		return nil, err
	}

	log.Infof("created stream %s", id)
	return &Log{
		log:    log,
		store:  store,
		scheme: scheme,
		opts:   newOptions(opts),
		id:     id,
		gen:    gen,
	}, nil
}

// Open resumes the stream id. Only the roots of the stream are read, the
// rest of the tree is never needed to continue appending.
func Open(
	ctx context.Context, log logger.Logger, store nodestore.Store, scheme nodehash.Scheme, id uuid.UUID, opts ...Option,
) (*Log, error) {

	built, err := store.Scheme(ctx, id)
	if err != nil {
		return nil, err
	}
	if built != scheme.Name() {
		return nil, fmt.Errorf("%w: stream %s uses %q, not %q", ErrSchemeMismatch, id, built, scheme.Name())
	}

	blocks, err := store.Blocks(ctx, id)
	if err != nil {
		return nil, err
	}
	positions, err := flattree.FullRoots(2 * blocks)
	if err != nil {
		return nil, err
	}
	roots := make([]merklestream.Node, 0, len(positions))
	for _, i := range positions {
		n, err := store.Get(ctx, id, i)
		if err != nil {
			return nil, fmt.Errorf("read root %d of stream %s: %w", i, id, err)
		}
		roots = append(roots, n)
	}

	gen, err := merklestream.NewGenerator(scheme, merklestream.WithRoots(roots))
	if err != nil {
		return nil, err
	}

	log.Infof("opened stream %s: blocks=%d roots=%v", id, blocks, positions)
	return &Log{
		log:    log,
		store:  store,
		scheme: scheme,
		opts:   newOptions(opts),
		id:     id,
		gen:    gen,
	}, nil
}

func (l *Log) ID() uuid.UUID { return l.id }

// Append adds one block to the stream and stores every node it completes.
// If either hashing or storage fails, the log is left as it was.
func (l *Log) Append(ctx context.Context, data []byte) ([]merklestream.Node, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	prev := l.gen.Roots()

	nodes, err := l.gen.Next(data)
	if err != nil {
		return nil, err
	}

	if err = l.store.Commit(ctx, l.id, l.gen.Blocks(), nodes); err != nil {
		// the generator has moved on, put it back to match the store
		if rerr := l.restore(prev); rerr != nil {
			return nil, fmt.Errorf("%w (and restoring the generator failed: %v)", err, rerr)
		}
		return nil, err
	}

	l.log.Debugf("stream %s: block %d, %d nodes", l.id, nodes[0].Index/2, len(nodes))
	return nodes, nil
}

func (l *Log) restore(roots []merklestream.Node) error {
	var opts []merklestream.Option
	if len(roots) > 0 {
		opts = append(opts, merklestream.WithRoots(roots))
	}
	gen, err := merklestream.NewGenerator(l.scheme, opts...)
	if err != nil {
		return err
	}
	l.gen = gen
	return nil
}

// Get reads a stored node of this stream
func (l *Log) Get(ctx context.Context, index uint64) (merklestream.Node, error) {
	return l.store.Get(ctx, l.id, index)
}

func (l *Log) Blocks() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.gen.Blocks()
}

func (l *Log) Roots() []merklestream.Node {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.gen.Roots()
}

// TreeHash returns the digest committing to every block in the stream
func (l *Log) TreeHash() ([]byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.scheme.TreeHash(l.gen.Roots())
}

// State returns the current, unsigned, state of the stream
func (l *Log) State() (checkpoint.TreeState, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state()
}

func (l *Log) state() (checkpoint.TreeState, error) {
	rootHash, err := l.scheme.TreeHash(l.gen.Roots())
	if err != nil {
		return checkpoint.TreeState{}, err
	}
	return checkpoint.TreeState{
		Blocks:    l.gen.Blocks(),
		RootHash:  rootHash,
		Timestamp: l.opts.now().UnixMilli(),
		StreamID:  l.id.String(),
	}, nil
}

// Checkpoint signs the current state of the stream. See
// checkpoint.VerifyFromRoots for verification.
func (l *Log) Checkpoint(
	coseSigner cose.Signer, keyIdentifier string, publicKey *ecdsa.PublicKey, external []byte,
) ([]byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.opts.rootSigner == nil {
		return nil, ErrNoRootSigner
	}
	state, err := l.state()
	if err != nil {
		return nil, err
	}
	msg, err := l.opts.rootSigner.Sign1(coseSigner, keyIdentifier, publicKey, l.opts.subject, state, external)
	if err != nil {
		return nil, err
	}
	l.log.Infof("checkpoint stream %s: blocks=%d root=%x", l.id, state.Blocks, state.RootHash)
	return msg, nil
}
