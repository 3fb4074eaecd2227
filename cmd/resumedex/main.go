// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/poiesic/resumedex"
	"github.com/poiesic/resumedex/ai"
	"github.com/poiesic/resumedex/core"
	"github.com/poiesic/resumedex/extract"
	"github.com/poiesic/resumedex/format"
	"github.com/poiesic/resumedex/sanitize"
	"github.com/poiesic/resumedex/search"
)

const (
	minTopK = 5
	maxTopK = 20

	// answerDisplayLimit bounds the synthesized answer printed to the
	// terminal; the full results are always shown.
	answerDisplayLimit = 300
)

func dataFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "data",
			Aliases: []string{"d"},
			Usage:   "Directory containing resume files (.pdf, .doc, .docx)",
			Value:   "./data",
		},
		&cli.StringFlag{
			Name:    "storage",
			Aliases: []string{"s"},
			Usage:   "Directory for the document cache and index storage",
			Value:   "./resumedex_db",
		},
	}
}

func aiFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "base-url",
			Usage: "Base URL of the OpenAI-compatible API",
			Value: "https://api.openai.com/v1",
		},
		&cli.StringFlag{
			Name:  "api-key",
			Usage: "API credential (defaults to the OPENAI_API_KEY environment variable)",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
			Value: "text-embedding-3-small",
		},
		&cli.StringFlag{
			Name:  "synthesis-model",
			Usage: "Model name for answer synthesis",
			Value: "gpt-4o-mini",
		},
		&cli.IntFlag{
			Name:  "batch-size",
			Usage: "Number of documents to embed per API call",
			Value: 32,
		},
	}
}

func main() {
	app := &cli.App{
		Name:  "resumedex",
		Usage: "Semantic search over a directory of resumes",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "index",
				Usage:  "Extract resumes and build (or refresh) the search index",
				Action: indexCommand,
				Flags: append(dataFlags(), append(aiFlags(),
					&cli.BoolFlag{
						Name:  "rebuild",
						Usage: "Force re-embedding even if the persisted index is valid",
					},
				)...),
			},
			{
				Name:      "search",
				Usage:     "Query the indexed resumes",
				ArgsUsage: "QUERY...",
				Action:    searchCommand,
				Flags: append(dataFlags(), append(aiFlags(),
					&cli.IntFlag{
						Name:    "top-k",
						Aliases: []string{"k"},
						Usage:   fmt.Sprintf("Number of results to return (clamped to %d-%d)", minTopK, maxTopK),
						Value:   10,
					},
					&cli.BoolFlag{
						Name:  "no-answer",
						Usage: "Skip answer synthesis, show only retrieval results",
					},
					&cli.BoolFlag{
						Name:  "full-text",
						Usage: "Print full document text instead of previews",
					},
				)...),
			},
			{
				Name:   "diagnose",
				Usage:  "Report per-file extraction health for the data directory",
				Action: diagnoseCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "data",
						Aliases: []string{"d"},
						Usage:   "Directory containing resume files (.pdf, .doc, .docx)",
						Value:   "./data",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// aiConfigFromFlags builds the AI configuration. The API key falls back to
// the OPENAI_API_KEY environment variable when not passed as a flag.
func aiConfigFromFlags(c *cli.Context) *ai.Config {
	opts := []ai.ConfigOption{
		ai.WithBaseURL(c.String("base-url")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithSynthesisModel(c.String("synthesis-model")),
		ai.WithBatchSize(c.Int("batch-size")),
	}
	if key := c.String("api-key"); key != "" {
		opts = append(opts, ai.WithAPIKey(key))
	}
	return ai.NewConfig(opts...)
}

func openEngine(c *cli.Context, progress bool) (*resumedex.Engine, error) {
	config := aiConfigFromFlags(c)
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	engineOpts := []resumedex.EngineOption{
		resumedex.WithAIConfig(config),
	}
	if progress {
		engineOpts = append(engineOpts, resumedex.WithProgressWriter(os.Stderr))
	}
	return resumedex.NewEngine(c.String("storage"), engineOpts...)
}

func indexCommand(c *cli.Context) error {
	ctx := context.Background()
	dataDir := c.String("data")

	engine, err := openEngine(c, true)
	if err != nil {
		return err
	}
	defer engine.Close()

	fmt.Fprintf(os.Stderr, "Data directory: %s\n", dataDir)
	fmt.Fprintf(os.Stderr, "Storage: %s\n", c.String("storage"))
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n", c.String("embedding-model"))
	fmt.Fprintln(os.Stderr)

	build := engine.BuildIndex
	if c.Bool("rebuild") {
		build = engine.RebuildIndex
	}

	idx, err := build(ctx, dataDir)
	if err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}

	fmt.Printf("Index ready: %d documents, %d dimensions, model %s\n",
		idx.Len(), idx.Meta().Dimension, idx.Meta().EmbeddingModel)
	return nil
}

func searchCommand(c *cli.Context) error {
	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("query text is required")
	}

	topK := clampTopK(c.Int("top-k"))
	ctx := context.Background()

	engine, err := openEngine(c, false)
	if err != nil {
		return err
	}
	defer engine.Close()

	dataDir := c.String("data")
	idx, err := engine.BuildIndex(ctx, dataDir)
	if err != nil {
		return fmt.Errorf("index unavailable: %w", err)
	}

	withAnswer := !c.Bool("no-answer")
	searcher, err := engine.NewSearcher(idx, dataDir, search.WithSynthesis(withAnswer))
	if err != nil {
		return err
	}

	response, err := searcher.Query(ctx, query, topK)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	printResults(response, c.Bool("full-text"), withAnswer)
	return nil
}

func printResults(response *core.SearchResponse, fullText, withAnswer bool) {
	if len(response.Results) == 0 {
		fmt.Println("No matching resumes found.")
		return
	}

	fmt.Printf("Found %d hits\n\n", len(response.Results))
	for i, hit := range response.Results {
		fmt.Printf("%d: %s [%.3f]\n", i+1, hit.Filename, hit.Score)
		fmt.Printf("   %s\n", hit.FilePath)
		if fullText {
			fmt.Printf("   %s\n", hit.FullText)
		} else {
			fmt.Printf("   %s\n", hit.Preview)
		}
		fmt.Println()
	}

	if withAnswer && response.Answer != "" {
		fmt.Println("Answer:")
		fmt.Println(truncateForDisplay(response.Answer, answerDisplayLimit))
	}
}

func diagnoseCommand(c *cli.Context) error {
	dataDir := c.String("data")

	entries, err := os.ReadDir(dataDir)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("data directory does not exist: %s", dataDir)
		}
		return err
	}

	sanitizer := sanitize.New()
	formatter := format.New(format.WithPreviewBudget(80))

	var usable, degenerate, failed, ignored int
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !extract.Eligible(name) {
			ignored++
			continue
		}

		path := filepath.Join(dataDir, name)
		extractor, err := extract.ForPath(path)
		if err != nil {
			failed++
			fmt.Printf("FAIL  %s: %v\n", name, err)
			continue
		}

		raw, err := extractor.Extract(path)
		if err != nil {
			failed++
			fmt.Printf("FAIL  %s: %v\n", name, err)
			continue
		}

		text := sanitizer.Clean(raw.Text)
		if !core.HasUsableText(text) {
			degenerate++
			fmt.Printf("WARN  %s: extracted only %d characters\n", name, len(strings.TrimSpace(text)))
			continue
		}

		usable++
		if mangled := strings.Count(text, "�"); mangled > 0 {
			fmt.Printf("OK    %s: %d characters, %d replacement runes | %s\n", name, len(text), mangled, formatter.Preview(text))
		} else {
			fmt.Printf("OK    %s: %d characters | %s\n", name, len(text), formatter.Preview(text))
		}
	}

	fmt.Println()
	fmt.Printf("Usable: %d  Degenerate: %d  Failed: %d  Ignored: %d\n",
		usable, degenerate, failed, ignored)

	if usable == 0 && failed+degenerate > 0 {
		return fmt.Errorf("no usable documents in %s", dataDir)
	}
	return nil
}

// clampTopK bounds the result count to a sensible range.
func clampTopK(k int) int {
	if k < minTopK {
		return minTopK
	}
	if k > maxTopK {
		return maxTopK
	}
	return k
}

func truncateForDisplay(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
