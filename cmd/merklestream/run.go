package main

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/forestrie/go-merklestream/checkpoint"
	"github.com/forestrie/go-merklestream/config"
	"github.com/forestrie/go-merklestream/merklestream"
	"github.com/forestrie/go-merklestream/nodehash"
	"github.com/forestrie/go-merklestream/nodestore"
	"github.com/forestrie/go-merklestream/streamlog"
	"github.com/google/uuid"
	"github.com/spf13/pflag"
	"github.com/veraison/go-cose"
)

type cmdArgs struct {
	configPath string
	chunkSize  int
	hash       string
	db         string
	stream     string
	logLevel   string
	nodes      bool
	checkpoint bool
}

func (a *cmdArgs) register(flags *pflag.FlagSet) {
	flags.StringVarP(&a.configPath, "config", "c", "", "TOML configuration file")
	flags.IntVar(&a.chunkSize, "chunk-size", 0, "bytes per block")
	flags.StringVar(&a.hash, "hash", "", "node hash scheme: sha256|sha256-typed|blake2b")
	flags.StringVar(&a.db, "db", "", "sqlite database path, selects the sqlite store")
	flags.StringVar(&a.stream, "stream", "", "resume the stream with this id (requires a persistent store)")
	flags.StringVar(&a.logLevel, "log-level", "", "log level")
	flags.BoolVar(&a.nodes, "nodes", true, "print every node as it is produced")
	flags.BoolVar(&a.checkpoint, "checkpoint", false, "sign the final stream state with an ephemeral key")
}

// config loads the configuration file and lets explicitly set flags win over it
func (a *cmdArgs) config(flags *pflag.FlagSet) (*config.Config, error) {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return nil, err
	}
	if flags.Changed("chunk-size") {
		cfg.ChunkSize = a.chunkSize
	}
	if flags.Changed("hash") {
		cfg.Hash = a.hash
	}
	if flags.Changed("db") {
		cfg.Store.Driver = config.DriverSQLite
		cfg.Store.Path = a.db
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}
	if flags.Changed("checkpoint") {
		cfg.Checkpoint.Enabled = a.checkpoint
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func openStore(cfg *config.Config) (nodestore.Store, error) {
	if cfg.Store.Driver == config.DriverSQLite {
		return nodestore.OpenSQLite(cfg.Store.Path)
	}
	return nodestore.NewMemoryStore(), nil
}

func run(
	ctx context.Context, log logger.Logger, cfg *config.Config, args cmdArgs, files []string,
	stdin io.Reader, out io.Writer,
) error {
	scheme, err := nodehash.ByName(cfg.Hash)
	if err != nil {
		return err
	}
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	var opts []streamlog.Option
	if cfg.Checkpoint.Enabled {
		codec, err := checkpoint.NewRootSignerCodec()
		if err != nil {
			return err
		}
		opts = append(opts, streamlog.WithRootSigner(
			checkpoint.NewRootSigner(cfg.Checkpoint.Issuer, codec), cfg.Checkpoint.Subject))
	}

	var sl *streamlog.Log
	if args.stream != "" {
		id, err := uuid.Parse(args.stream)
		if err != nil {
			return fmt.Errorf("stream id: %w", err)
		}
		sl, err = streamlog.Open(ctx, log, store, scheme, id, opts...)
		if err != nil {
			return err
		}
	} else {
		sl, err = streamlog.Create(ctx, log, store, scheme, opts...)
		if err != nil {
			return err
		}
	}
	fmt.Fprintf(out, "stream %s\n", sl.ID())

	emit := func(block []byte) error {
		nodes, err := sl.Append(ctx, block)
		if err != nil {
			return err
		}
		if !args.nodes {
			return nil
		}
		for _, n := range nodes {
			fmt.Fprintf(out, "node %d parent %d size %d hash %x\n", n.Index, n.Parent, n.Size, n.Hash)
		}
		return nil
	}

	if len(files) == 0 {
		if err := appendChunks(stdin, cfg.ChunkSize, emit); err != nil {
			return fmt.Errorf("stdin: %w", err)
		}
	}
	for _, name := range files {
		if err := appendFile(name, cfg.ChunkSize, emit); err != nil {
			return err
		}
	}

	if err := printSummary(out, sl.Blocks(), sl.Roots()); err != nil {
		return err
	}
	treeHash, err := sl.TreeHash()
	if err != nil && !errors.Is(err, nodehash.ErrNoRoots) {
		return err
	}
	if err == nil {
		fmt.Fprintf(out, "tree %x\n", treeHash)
	}

	if cfg.Checkpoint.Enabled && sl.Blocks() > 0 {
		return signCheckpoint(sl, out)
	}
	return nil
}

func appendFile(name string, chunkSize int, emit func([]byte) error) error {
	f, err := os.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := appendChunks(f, chunkSize, emit); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// appendChunks reads r in chunkSize blocks. Every block but the last is
// full; an empty reader produces no blocks.
func appendChunks(r io.Reader, chunkSize int, emit func([]byte) error) error {
	buf := make([]byte, chunkSize)
	for {
		n, err := io.ReadFull(r, buf)
		if n > 0 {
			if eerr := emit(buf[:n]); eerr != nil {
				return eerr
			}
		}
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func printSummary(out io.Writer, blocks uint64, roots []merklestream.Node) error {
	if _, err := fmt.Fprintf(out, "blocks %d\n", blocks); err != nil {
		return err
	}
	for _, r := range roots {
		if _, err := fmt.Fprintf(out, "root %d size %d hash %x\n", r.Index, r.Size, r.Hash); err != nil {
			return err
		}
	}
	return nil
}

// signCheckpoint signs with a key that only lives for this run. The public
// key is carried in the message's claims and also printed alongside.
func signCheckpoint(sl *streamlog.Log, out io.Writer) error {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return err
	}
	signer, err := cose.NewSigner(cose.AlgorithmES256, key)
	if err != nil {
		return err
	}
	msg, err := sl.Checkpoint(signer, sl.ID().String(), &key.PublicKey, nil)
	if err != nil {
		return err
	}
	pub, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "checkpoint %x\n", msg)
	fmt.Fprintf(out, "public-key %x\n", pub)
	return nil
}
