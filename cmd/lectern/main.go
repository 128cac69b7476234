// Copyright 2026 Praxis Labs
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
	"strings"

	"github.com/joho/godotenv"
	"github.com/praxislab/lectern"
	"github.com/praxislab/lectern/ai"
	"github.com/praxislab/lectern/core"
	"github.com/praxislab/lectern/ingestion"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:   "lectern",
		Usage:  "Course transcript ingestion, retrieval and study progression",
		Before: setup,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:     "db",
				Aliases:  []string{"d"},
				Usage:    "Path to BadgerDB database directory",
				EnvVars:  []string{"LECTERN_DB"},
				Required: true,
			},
			&cli.StringFlag{
				Name:    "embedding-host",
				Usage:   "Embedding service host URL",
				EnvVars: []string{"LECTERN_EMBEDDING_HOST"},
				Value:   "http://localhost:11434/v1",
			},
			&cli.StringFlag{
				Name:    "embedding-model",
				Usage:   "Embedding model name",
				EnvVars: []string{"LECTERN_EMBEDDING_MODEL"},
				Value:   "embeddinggemma",
			},
			&cli.StringFlag{
				Name:    "generator-host",
				Usage:   "Answer generation service host URL (defaults to embedding-host)",
				EnvVars: []string{"LECTERN_GENERATOR_HOST"},
			},
			&cli.StringFlag{
				Name:    "generator-model",
				Usage:   "Answer generation model name",
				EnvVars: []string{"LECTERN_GENERATOR_MODEL"},
				Value:   "qwen2.5:3b",
			},
			&cli.StringFlag{
				Name:    "user",
				Aliases: []string{"u"},
				Usage:   "User identifier for memory and progression",
				EnvVars: []string{"LECTERN_USER"},
				Value:   "default",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "ingest",
				Usage:  "Validate, preview or commit a course manifest",
				Action: ingestCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "manifest",
						Aliases:  []string{"m"},
						Usage:    "Path to the lecture manifest CSV",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "course-dir",
						Aliases:  []string{"c"},
						Usage:    "Directory holding the transcript files",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "validate",
						Usage: "Only validate the manifest, write nothing",
					},
					&cli.BoolFlag{
						Name:  "dry-run",
						Usage: "Report what a commit would do, write nothing",
					},
					&cli.BoolFlag{
						Name:  "stats",
						Usage: "Print per-lecture chunk statistics with --dry-run",
					},
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Confirm the destructive commit",
					},
					&cli.IntFlag{
						Name:  "module",
						Usage: "Restrict the run to one module",
					},
					&cli.StringFlag{
						Name:  "lecture",
						Usage: "Restrict the run to one lecture key",
					},
				},
			},
			{
				Name:      "ask",
				Usage:     "Ask a question against the course and your decision memory",
				ArgsUsage: "QUESTION",
				Action:    askCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "module",
						Usage: "Restrict course evidence to one module",
					},
					&cli.IntFlag{
						Name:  "day",
						Usage: "Restrict course evidence to one day",
					},
					&cli.StringFlag{
						Name:  "category",
						Usage: "Restrict course evidence to one category (theory, assignment, example, tool)",
					},
					&cli.StringFlag{
						Name:  "lecture",
						Usage: "Restrict course evidence to one lecture key",
					},
					&cli.BoolFlag{
						Name:  "evidence",
						Usage: "Print the retrieved evidence after the answer",
					},
				},
			},
			{
				Name:  "study",
				Usage: "Walk the curriculum in order",
				Subcommands: []*cli.Command{
					{
						Name:   "start",
						Usage:  "Reset progress to the first methodology lecture",
						Action: studyStartCommand,
					},
					{
						Name:   "next",
						Usage:  "Deliver the next block of chunks",
						Action: studyNextCommand,
					},
					{
						Name:      "answer",
						Usage:     "Record a decision for the current position",
						ArgsUsage: "TEXT",
						Action:    studyAnswerCommand,
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:  "question",
								Usage: "The assignment question being answered",
							},
						},
					},
				},
			},
			{
				Name:  "decisions",
				Usage: "Review and refine recorded decisions",
				Subcommands: []*cli.Command{
					{
						Name:   "list",
						Usage:  "List memory entries, active by default",
						Action: decisionsListCommand,
						Flags: []cli.Flag{
							&cli.BoolFlag{
								Name:  "all",
								Usage: "Include superseded history",
							},
							&cli.BoolFlag{
								Name:  "newest-first",
								Usage: "Reverse the listing order",
							},
						},
					},
					{
						Name:      "refine",
						Usage:     "Supersede an entry with updated text",
						ArgsUsage: "ENTRY_ID TEXT",
						Action:    decisionsRefineCommand,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// setup loads .env and configures logging before any command runs.
func setup(c *cli.Context) error {
	// Missing .env is fine; explicit flags and env vars still apply
	_ = godotenv.Load()

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

// openWorkspace builds the workspace from the global flags.
func openWorkspace(c *cli.Context) (*lectern.Workspace, error) {
	generatorHost := c.String("generator-host")
	if generatorHost == "" {
		generatorHost = c.String("embedding-host")
	}

	aiConfig := ai.NewConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithGeneratorHost(generatorHost),
		ai.WithGeneratorModel(c.String("generator-model")),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	return lectern.NewWorkspace(c.String("db"), lectern.WithAIConfig(aiConfig))
}

func ingestCommand(c *cli.Context) error {
	ctx := context.Background()

	ws, err := openWorkspace(c)
	if err != nil {
		return err
	}
	defer ws.Close()

	pipeline, err := ws.NewIngestionPipeline()
	if err != nil {
		return err
	}
	defer pipeline.Release()

	manifestPath := c.String("manifest")
	courseDir := c.String("course-dir")
	scope := ingestion.Scope{
		LectureKey: c.String("lecture"),
		Module:     c.Int("module"),
	}

	switch {
	case c.Bool("validate"):
		result, err := pipeline.Validate(ctx, manifestPath, courseDir)
		if err != nil {
			return err
		}
		if !result.Valid() {
			for _, v := range result.Violations {
				fmt.Fprintln(os.Stderr, v.String())
			}
			return result.Err()
		}
		fmt.Printf("manifest valid: %d lectures\n", len(result.Lectures))
		return nil

	case c.Bool("dry-run"):
		preview, err := pipeline.Preview(ctx, manifestPath, courseDir, scope)
		if err != nil {
			return err
		}
		for _, lp := range preview.Lectures {
			fmt.Printf("%s: %d chunks (%d stored would be replaced)\n",
				lp.Lecture.Key, lp.Stats.ChunkCount, lp.Existing)
			if c.Bool("stats") {
				fmt.Printf("  text %d chars, %d paragraphs, chunk sizes min/avg/max %d/%d/%d\n",
					lp.Stats.TextLength, lp.Stats.ParagraphCount,
					lp.Stats.MinChunkSize, lp.Stats.AvgChunkSize, lp.Stats.MaxChunkSize)
				for category, count := range lp.Stats.Categories {
					fmt.Printf("  %s: %d\n", category.String(), count)
				}
			}
		}
		fmt.Printf("total: %d chunks across %d lectures\n",
			preview.TotalChunks, len(preview.Lectures))
		return nil

	default:
		result, err := pipeline.Commit(ctx, manifestPath, courseDir, scope, c.Bool("force"))
		if err != nil {
			return err
		}
		for _, lr := range result.Ingested {
			fmt.Printf("%s: %d chunks ingested (%d replaced)\n",
				lr.Lecture.Key, lr.Inserted, lr.Replaced)
		}
		for _, lf := range result.Failed {
			fmt.Fprintf(os.Stderr, "%s: FAILED: %v\n", lf.LectureKey, lf.Err)
		}
		if len(result.Failed) > 0 {
			return fmt.Errorf("%d lecture(s) failed", len(result.Failed))
		}
		return nil
	}
}

func askCommand(c *cli.Context) error {
	ctx := context.Background()

	question := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if question == "" {
		return fmt.Errorf("question is required")
	}

	filter := core.ChunkFilter{
		Module:     c.Int("module"),
		Day:        c.Int("day"),
		LectureKey: c.String("lecture"),
	}
	if categoryStr := c.String("category"); categoryStr != "" {
		category, err := core.ParseContentCategory(categoryStr)
		if err != nil {
			return err
		}
		filter.Category = category
	}

	ws, err := openWorkspace(c)
	if err != nil {
		return err
	}
	defer ws.Close()

	engine, err := ws.NewRetrievalEngine()
	if err != nil {
		return err
	}

	answer, err := engine.Ask(ctx, c.String("user"), question, filter)
	if err != nil {
		return err
	}

	fmt.Println(answer.Text)

	if c.Bool("evidence") {
		fmt.Println()
		fmt.Printf("course evidence (%d):\n", len(answer.Evidence.Course))
		for _, sc := range answer.Evidence.Course {
			fmt.Printf("  %.3f %s\n", sc.Similarity, sc.Chunk.Key)
		}
		fmt.Printf("memory evidence (%d):\n", len(answer.Evidence.Memory))
		for _, se := range answer.Evidence.Memory {
			fmt.Printf("  %.3f %s (%s)\n", se.Similarity, se.Entry.ID, se.Entry.Kind.String())
		}
	}

	return nil
}

func studyStartCommand(c *cli.Context) error {
	ctx := context.Background()

	ws, err := openWorkspace(c)
	if err != nil {
		return err
	}
	defer ws.Close()

	progression, err := ws.NewProgression()
	if err != nil {
		return err
	}

	cursor, err := progression.Start(ctx, c.String("user"))
	if err != nil {
		return err
	}

	fmt.Printf("study reset to module %d day %d, lecture %s\n",
		cursor.Module, cursor.Day, cursor.LectureKey)
	return nil
}

func studyNextCommand(c *cli.Context) error {
	ctx := context.Background()

	ws, err := openWorkspace(c)
	if err != nil {
		return err
	}
	defer ws.Close()

	progression, err := ws.NewProgression()
	if err != nil {
		return err
	}

	block, err := progression.Next(ctx, c.String("user"))
	if err != nil {
		return err
	}

	if len(block.Chunks) == 0 && block.Completed {
		fmt.Println("curriculum completed")
		return nil
	}

	fmt.Printf("== %s (module %d, day %d) ==\n\n",
		block.Lecture.Title, block.Lecture.Module, block.Lecture.Day)
	for _, chunk := range block.Chunks {
		fmt.Printf("--- %s [%s] ---\n%s\n\n",
			chunk.Key, chunk.Category.String(), chunk.Text)
	}
	if block.Completed {
		fmt.Println("curriculum completed")
	}
	return nil
}

func studyAnswerCommand(c *cli.Context) error {
	ctx := context.Background()

	text := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if text == "" {
		return fmt.Errorf("answer text is required")
	}

	ws, err := openWorkspace(c)
	if err != nil {
		return err
	}
	defer ws.Close()

	progression, err := ws.NewProgression()
	if err != nil {
		return err
	}

	entry, err := progression.Answer(ctx, c.String("user"), c.String("question"), text)
	if err != nil {
		return err
	}

	fmt.Printf("decision recorded: %s (module %d, day %d)\n",
		entry.ID, entry.Module, entry.Day)
	return nil
}

func decisionsListCommand(c *cli.Context) error {
	ctx := context.Background()

	ws, err := openWorkspace(c)
	if err != nil {
		return err
	}
	defer ws.Close()

	versioner, err := ws.NewVersioner()
	if err != nil {
		return err
	}

	entries, err := versioner.Review(ctx, c.String("user"), c.Bool("all"), c.Bool("newest-first"))
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Println("no entries")
		return nil
	}

	for _, entry := range entries {
		status := ""
		if entry.Status == core.StatusSuperseded {
			status = " [superseded]"
		}
		fmt.Printf("%s %s%s (module %d, day %d) %s\n",
			entry.ID, entry.Kind.String(), status, entry.Module, entry.Day,
			entry.CreatedAt.Format("2006-01-02 15:04"))
		fmt.Printf("  %s\n", entry.RawText)
	}
	return nil
}

func decisionsRefineCommand(c *cli.Context) error {
	ctx := context.Background()

	if c.NArg() < 2 {
		return fmt.Errorf("usage: decisions refine ENTRY_ID TEXT")
	}
	entryID := c.Args().Get(0)
	text := strings.TrimSpace(strings.Join(c.Args().Slice()[1:], " "))
	if text == "" {
		return fmt.Errorf("updated text is required")
	}

	ws, err := openWorkspace(c)
	if err != nil {
		return err
	}
	defer ws.Close()

	versioner, err := ws.NewVersioner()
	if err != nil {
		return err
	}

	entry, err := versioner.Refine(ctx, c.String("user"), entryID, text)
	if err != nil {
		return err
	}

	fmt.Printf("refined %s -> %s\n", entryID, entry.ID)
	return nil
}
