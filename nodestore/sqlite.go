package nodestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/forestrie/go-merklestream/merklestream"
	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS streams (
	id     TEXT PRIMARY KEY,
	scheme TEXT NOT NULL,
	blocks INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS nodes (
	stream_id TEXT NOT NULL REFERENCES streams(id),
	idx       INTEGER NOT NULL,
	record    BLOB NOT NULL,
	PRIMARY KEY (stream_id, idx)
);
`

// SQLiteStore keeps streams in a sqlite database file. Node records are
// stored as CBOR.
type SQLiteStore struct {
	db    *sql.DB
	codec Codec
}

func OpenSQLite(path string, opts ...Option) (*SQLiteStore, error) {
	options := StoreOptions{}
	for _, o := range opts {
		o(&options)
	}
	if options.codec == nil {
		codec, err := NewCodec()
		if err != nil {
			return nil, err
		}
		options.codec = &codec
	}

	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteStore{db: db, codec: *options.codec}, nil
}

func (s *SQLiteStore) Create(ctx context.Context, streamID uuid.UUID, scheme string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO streams (id, scheme, blocks) VALUES (?, ?, 0)`, streamID.String(), scheme)
	if isConstraint(err) {
		return fmt.Errorf("%w: %s", ErrStreamExists, streamID)
	}
	return err
}

func (s *SQLiteStore) Commit(ctx context.Context, streamID uuid.UUID, blocks uint64, nodes []merklestream.Node) error {
	records := make([][]byte, len(nodes))
	for i, n := range nodes {
		var err error
		if records[i], err = s.codec.EncodeNode(n); err != nil {
			return fmt.Errorf("encode node %d: %w", n.Index, err)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	// Rollback after a successful Commit is a harmless no-op
	defer tx.Rollback()

	var current int64
	err = tx.QueryRowContext(ctx,
		`SELECT blocks FROM streams WHERE id = ?`, streamID.String()).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", ErrStreamNotFound, streamID)
	}
	if err != nil {
		return err
	}
	if blocks < uint64(current) {
		return fmt.Errorf("%w: %d < %d", ErrBlocksRegress, blocks, current)
	}

	for i, n := range nodes {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO nodes (stream_id, idx, record) VALUES (?, ?, ?)`,
			streamID.String(), int64(n.Index), records[i])
		if isConstraint(err) {
			return fmt.Errorf("%w: %d", ErrNodeExists, n.Index)
		}
		if err != nil {
			return err
		}
	}
	if _, err = tx.ExecContext(ctx,
		`UPDATE streams SET blocks = ? WHERE id = ?`, int64(blocks), streamID.String()); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLiteStore) Get(ctx context.Context, streamID uuid.UUID, index uint64) (merklestream.Node, error) {
	var record []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT record FROM nodes WHERE stream_id = ? AND idx = ?`,
		streamID.String(), int64(index)).Scan(&record)
	if errors.Is(err, sql.ErrNoRows) {
		if _, berr := s.Blocks(ctx, streamID); berr != nil {
			return merklestream.Node{}, berr
		}
		return merklestream.Node{}, fmt.Errorf("%w: %d", ErrNotFound, index)
	}
	if err != nil {
		return merklestream.Node{}, err
	}
	return s.codec.DecodeNode(record)
}

func (s *SQLiteStore) Blocks(ctx context.Context, streamID uuid.UUID) (uint64, error) {
	var blocks int64
	err := s.db.QueryRowContext(ctx,
		`SELECT blocks FROM streams WHERE id = ?`, streamID.String()).Scan(&blocks)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%w: %s", ErrStreamNotFound, streamID)
	}
	if err != nil {
		return 0, err
	}
	return uint64(blocks), nil
}

func (s *SQLiteStore) Scheme(ctx context.Context, streamID uuid.UUID) (string, error) {
	var scheme string
	err := s.db.QueryRowContext(ctx,
		`SELECT scheme FROM streams WHERE id = ?`, streamID.String()).Scan(&scheme)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: %s", ErrStreamNotFound, streamID)
	}
	if err != nil {
		return "", err
	}
	return scheme, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func isConstraint(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint
}
