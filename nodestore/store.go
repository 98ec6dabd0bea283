// Package nodestore persists the nodes emitted by a stream generator.
//
// A store holds any number of streams, each identified by a uuid. For every
// stream it records the hash scheme, the block count and each emitted node by flat tree
// position. Nodes are written, never updated: committing a position that is
// already present fails.
package nodestore

import (
	"context"

	"github.com/forestrie/go-merklestream/merklestream"
	"github.com/google/uuid"
)

type Store interface {
	// Create registers a new, empty, stream whose nodes are hashed with the
	// named scheme
	Create(ctx context.Context, streamID uuid.UUID, scheme string) error

	// Commit records nodes and the stream's block count in a single atomic
	// step. Either all of it is stored or none of it is.
	Commit(ctx context.Context, streamID uuid.UUID, blocks uint64, nodes []merklestream.Node) error

	// Get returns the node at the flat tree position index
	Get(ctx context.Context, streamID uuid.UUID, index uint64) (merklestream.Node, error)

	// Blocks returns the block count recorded by the most recent Commit
	Blocks(ctx context.Context, streamID uuid.UUID) (uint64, error)

	// Scheme returns the hash scheme name given to Create
	Scheme(ctx context.Context, streamID uuid.UUID) (string, error)

	Close() error
}
