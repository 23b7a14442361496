// Package main is the MESRAG CLI entry point.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mesrag/mesrag/internal/config"
	"github.com/mesrag/mesrag/internal/embedding"
	"github.com/mesrag/mesrag/internal/extract"
	"github.com/mesrag/mesrag/internal/ingest"
	"github.com/mesrag/mesrag/internal/llm"
	"github.com/mesrag/mesrag/internal/models"
	"github.com/mesrag/mesrag/internal/rag"
	"github.com/mesrag/mesrag/internal/retrieval"
	"github.com/mesrag/mesrag/internal/server"
	"github.com/mesrag/mesrag/internal/vectorstore"
	"github.com/mesrag/mesrag/internal/watcher"
	"github.com/mesrag/mesrag/pkg/utils"
	"go.uber.org/zap"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/mesrag/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks
// for config.yaml in the current directory (for development); if that exists
// it is used instead.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "import":
		runImport()
	case "chat":
		runChat()
	case "version", "--version", "-v":
		fmt.Printf("mesrag version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLoggerWithFile(debugMode, cfg.Import.LogFile)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	components := initializeComponents(cfg, logger)

	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	if cfg.Import.Watch {
		watchSvc := watcher.NewWatcher(cfg.Import.PendingDir, func() {
			report, err := components.Importer.Run(context.Background())
			if err != nil {
				logger.Error("watch import failed", zap.Error(err))
				return
			}
			logger.Info("watch import finished",
				zap.Int("imported", report.Imported),
				zap.Int("failed", report.Failed))
		}, logger)
		if err := watchSvc.Start(watchCtx); err != nil {
			logger.Fatal("Failed to start watcher", zap.Error(err))
		}
		defer watchSvc.Stop()
	}

	srv := server.NewServer(
		components.Importer,
		components.Embedder,
		components.Answerer,
		cfg.Server,
		logger,
	)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	watchCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

func runImport() {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	_ = fs.Parse(os.Args[2:])

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLoggerWithFile(cfg.Debug, cfg.Import.LogFile)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	components := initializeComponents(cfg, logger)
	report, err := components.Importer.Run(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Import failed: %v\n", err)
		os.Exit(1)
	}
	if report.Files == 0 {
		fmt.Println("No files to import.")
		return
	}
	fmt.Printf("Imported %d file(s), %d failed\n", report.Imported, report.Failed)
}

func runChat() {
	fs := flag.NewFlagSet("chat", flag.ExitOnError)
	serverURL := fs.String("server", "http://localhost:8001", "server URL")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: mesrag chat [flags] <question>")
		os.Exit(1)
	}
	query := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if query == "" {
		fmt.Println("Usage: mesrag chat [flags] <question>")
		os.Exit(1)
	}

	body, _ := json.Marshal(models.ChatRequest{Query: query})
	resp, err := http.Post(*serverURL+"/chat", "application/json", bytes.NewReader(body))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Request failed: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		fmt.Fprintf(os.Stderr, "Server returned %d: %s\n", resp.StatusCode, string(b))
		os.Exit(1)
	}
	var chatResp models.ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		fmt.Fprintf(os.Stderr, "Decode response failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(chatResp.Response)
	if len(chatResp.Sources) > 0 {
		fmt.Printf("\nSources: %s\n", strings.Join(chatResp.Sources, ", "))
	}
}

// Components holds initialized services.
type Components struct {
	Embedder embedding.Embedder
	Importer *ingest.ImportService
	Answerer *rag.Service
}

func initializeComponents(cfg *config.Config, logger *zap.Logger) *Components {
	embedder := embedding.NewOllamaEmbedder(
		cfg.Ollama.URL,
		cfg.Ollama.EmbedModel,
		time.Duration(cfg.Ollama.TimeoutSecs)*time.Second,
	)
	store := vectorstore.NewStore(vectorstore.Config{
		URL:        cfg.Qdrant.URL,
		APIKey:     cfg.Qdrant.APIKey,
		Collection: cfg.Qdrant.Collection,
	})
	importer := ingest.NewImportService(cfg.Import, extract.NewExtractor(), embedder, store, logger)
	engine := retrieval.NewEngine(embedder, store, cfg.Chat.SearchLimit, logger)
	completer := llm.NewOllamaClient(
		cfg.Ollama.URL,
		cfg.Ollama.Model,
		time.Duration(cfg.Ollama.TimeoutSecs)*time.Second,
	)
	answerer := rag.NewService(engine, completer, cfg.Chat.RelevanceThreshold, logger)

	return &Components{
		Embedder: embedder,
		Importer: importer,
		Answerer: answerer,
	}
}

func printUsage() {
	fmt.Println(`mesrag - RAG backend for industrial documents

Usage:
  mesrag server [flags]           Start the HTTP server
  mesrag import [flags]           Run one import pass over the pending directory
  mesrag chat [flags] <question>  Ask a question via a running server
  mesrag version                  Show version
  mesrag help                     Show this help

Server Flags:
  --config string    Config file path (default: /usr/local/etc/mesrag/config.yaml)
  --debug            Enable debug logging

Import Flags:
  --config string    Config file path

Chat Flags:
  --server string    Server URL (default: http://localhost:8001)

Examples:
  mesrag server
  mesrag import
  mesrag chat "What does ISA-95 Part 3 cover?"`)
}
