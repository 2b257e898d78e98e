// Command studyrag is the entry point. It loads the configuration,
// wires the adapters to the core services, and hands off to the CLI.
package main

import (
	"fmt"
	"os"

	configfile "github.com/custodia-labs/studyrag/internal/adapters/driven/config/file"
	"github.com/custodia-labs/studyrag/internal/adapters/driven/embedding/ollama"
	"github.com/custodia-labs/studyrag/internal/adapters/driven/embedding/openai"
	ledgerfile "github.com/custodia-labs/studyrag/internal/adapters/driven/ledger/file"
	ledgermem "github.com/custodia-labs/studyrag/internal/adapters/driven/ledger/memory"
	storefile "github.com/custodia-labs/studyrag/internal/adapters/driven/vectorstore/file"
	storemem "github.com/custodia-labs/studyrag/internal/adapters/driven/vectorstore/memory"
	"github.com/custodia-labs/studyrag/internal/adapters/driven/vectorstore/sqlite"
	"github.com/custodia-labs/studyrag/internal/adapters/driving/cli"
	"github.com/custodia-labs/studyrag/internal/chunker"
	"github.com/custodia-labs/studyrag/internal/core/ports/driven"
	"github.com/custodia-labs/studyrag/internal/core/services"
	"github.com/custodia-labs/studyrag/internal/extractor"
	"github.com/custodia-labs/studyrag/internal/extractor/docx"
	"github.com/custodia-labs/studyrag/internal/extractor/pdf"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Honour --config before any service is built
	cli.ParseFlags(os.Args[1:])

	configPath := cli.ConfigPath()
	if configPath == "" {
		var err error
		configPath, err = configfile.DefaultPath()
		if err != nil {
			return fmt.Errorf("resolving config path: %w", err)
		}
	}

	cfg, err := configfile.Load(configPath)
	if err != nil {
		return err
	}

	dataDir, err := cfg.ResolveDataDir()
	if err != nil {
		return fmt.Errorf("resolving data directory: %w", err)
	}

	embedder, err := buildEmbedder(cfg)
	if err != nil {
		return err
	}
	defer embedder.Close()

	store, ledger, closeStores, err := buildStores(cfg, dataDir)
	if err != nil {
		return err
	}
	defer closeStores()

	registry := extractor.NewRegistry(pdf.New(), docx.New())
	splitter := chunker.New(
		chunker.WithChunkSize(cfg.Chunking.Size),
		chunker.WithOverlap(cfg.Chunking.Overlap),
	)
	locks := services.NewUserLocks()

	ingest := services.NewIngestService(
		dataDir, registry, splitter, embedder, store, ledger, locks,
		services.WithEmbedTimeout(cfg.EmbedTimeout()),
	)
	query := services.NewQueryService(
		embedder, store, locks,
		services.WithQueryEmbedTimeout(cfg.EmbedTimeout()),
	)

	cli.SetServices(ingest, query)
	return cli.Execute()
}

func buildEmbedder(cfg configfile.Config) (driven.EmbeddingService, error) {
	switch cfg.Embedding.Provider {
	case configfile.ProviderOpenAI:
		return openai.NewEmbeddingService(openai.Config{
			APIKey:            cfg.Embedding.APIKey,
			BaseURL:           cfg.Embedding.BaseURL,
			Model:             cfg.Embedding.Model,
			Timeout:           cfg.EmbedTimeout(),
			Dimensions:        cfg.Embedding.Dimensions,
			RequestsPerSecond: cfg.Embedding.RequestsPerSecond,
		})
	default:
		return ollama.NewEmbeddingService(ollama.Config{
			BaseURL:           cfg.Embedding.BaseURL,
			Model:             cfg.Embedding.Model,
			Timeout:           cfg.EmbedTimeout(),
			Dimensions:        cfg.Embedding.Dimensions,
			RequestsPerSecond: cfg.Embedding.RequestsPerSecond,
		}), nil
	}
}

func buildStores(cfg configfile.Config, dataDir string) (driven.VectorStore, driven.LedgerStore, func(), error) {
	switch cfg.Storage.Backend {
	case configfile.BackendMemory:
		store := storemem.NewStore()
		return store, ledgermem.NewLedger(), func() { store.Close() }, nil

	case configfile.BackendFile:
		store := storefile.NewStore(dataDir)
		return store, ledgerfile.NewLedger(dataDir), func() { store.Close() }, nil

	default:
		db, err := sqlite.NewStore(dataDir)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("opening sqlite store: %w", err)
		}
		return db.VectorStore(), db.LedgerStore(), func() { db.Close() }, nil
	}
}
