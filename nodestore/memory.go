package nodestore

import (
	"context"
	"fmt"
	"sync"

	"github.com/forestrie/go-merklestream/merklestream"
	"github.com/google/uuid"
)

type memStream struct {
	scheme string
	blocks uint64
	nodes  map[uint64]merklestream.Node
}

// MemoryStore keeps streams in process memory. It is safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	streams map[uuid.UUID]*memStream
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{streams: make(map[uuid.UUID]*memStream)}
}

func (s *MemoryStore) Create(_ context.Context, streamID uuid.UUID, scheme string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.streams[streamID]; ok {
		return fmt.Errorf("%w: %s", ErrStreamExists, streamID)
	}
	s.streams[streamID] = &memStream{scheme: scheme, nodes: make(map[uint64]merklestream.Node)}
	return nil
}

func (s *MemoryStore) Commit(_ context.Context, streamID uuid.UUID, blocks uint64, nodes []merklestream.Node) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.streams[streamID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrStreamNotFound, streamID)
	}
	if blocks < st.blocks {
		return fmt.Errorf("%w: %d < %d", ErrBlocksRegress, blocks, st.blocks)
	}
	// check everything first so a rejected commit changes nothing
	for _, n := range nodes {
		if _, ok := st.nodes[n.Index]; ok {
			return fmt.Errorf("%w: %d", ErrNodeExists, n.Index)
		}
	}
	for _, n := range nodes {
		st.nodes[n.Index] = n.Clone()
	}
	st.blocks = blocks
	return nil
}

func (s *MemoryStore) Get(_ context.Context, streamID uuid.UUID, index uint64) (merklestream.Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.streams[streamID]
	if !ok {
		return merklestream.Node{}, fmt.Errorf("%w: %s", ErrStreamNotFound, streamID)
	}
	n, ok := st.nodes[index]
	if !ok {
		return merklestream.Node{}, fmt.Errorf("%w: %d", ErrNotFound, index)
	}
	return n.Clone(), nil
}

func (s *MemoryStore) Blocks(_ context.Context, streamID uuid.UUID) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.streams[streamID]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrStreamNotFound, streamID)
	}
	return st.blocks, nil
}

func (s *MemoryStore) Scheme(_ context.Context, streamID uuid.UUID) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.streams[streamID]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrStreamNotFound, streamID)
	}
	return st.scheme, nil
}

func (s *MemoryStore) Close() error { return nil }
