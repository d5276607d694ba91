package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"pdf-quiz-bot/internal/bootstrap"
	"pdf-quiz-bot/internal/config"
	"pdf-quiz-bot/internal/pkg/logger"
	"pdf-quiz-bot/internal/service"
	"pdf-quiz-bot/pkg/ocr"
	"pdf-quiz-bot/pkg/quiz"
	"pdf-quiz-bot/pkg/rag"
	"pdf-quiz-bot/pkg/utils"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// evaluationChatID keys the in-memory collection; there is only one document.
const evaluationChatID int64 = 0

type record struct {
	MCQ       *quiz.MCQ `json:"mcq"`
	Valid     bool      `json:"valid"`
	Reasoning string    `json:"reasoning"`
	Sources   []string  `json:"sources"`
	Topic     string    `json:"topic"`
}

func toRecord(r *quiz.Result) record {
	return record{
		MCQ:       r.MCQ,
		Valid:     r.Valid,
		Reasoning: r.Reasoning,
		Sources:   r.Sources,
		Topic:     r.Topic,
	}
}

// topicsPath swaps the trailing "pdf" for "json".
func topicsPath(pdfPath string) string {
	return strings.TrimSuffix(pdfPath, "pdf") + "json"
}

// outputPath is <pdf dir>/<model basename>/<pdf stem>.json.
func outputPath(model, pdfPath string) string {
	stem := strings.TrimSuffix(filepath.Base(pdfPath), filepath.Ext(pdfPath))
	return filepath.Join(filepath.Dir(pdfPath), path.Base(model), stem+".json")
}

func loadTopics(p string) ([]string, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("read topics: %w", err)
	}
	var topics []string
	if err := json.Unmarshal(data, &topics); err != nil {
		return nil, fmt.Errorf("decode topics %s: %w", p, err)
	}
	return topics, nil
}

func writeRecords(p string, records []record) error {
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(records, "", "    ")
	if err != nil {
		return err
	}
	return os.WriteFile(p, data, 0o644)
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	model, pdfPath := args[0], args[1]
	if reps < 1 {
		return fmt.Errorf("--reps must be positive, got %d", reps)
	}

	cfg := config.Load()
	cfg.Ai.LLMModel = model
	if provider != "" {
		cfg.Ai.LLMProvider = provider
	}

	log := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	defer func() { _ = log.Sync() }()

	topics, err := loadTopics(topicsPath(pdfPath))
	if err != nil {
		return err
	}

	embedder, closers, err := bootstrap.NewEmbeddingProvider(cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		for _, c := range closers {
			_ = c.Close()
		}
	}()

	llmProvider, err := bootstrap.NewLLMProvider(cfg)
	if err != nil {
		return err
	}

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NewStdLogger(false, false))
	defer pubSub.Close()

	quizService := service.NewQuizService(
		ocr.NewTabulaExtractor(),
		utils.NewTextSplitter(cfg.Rag.ChunkSize, cfg.Rag.ChunkOverlap),
		embedder,
		rag.NewMemoryStore(),
		llmProvider,
		service.NewPublisherService(bootstrap.EventsTopic, pubSub, log),
		service.QuizOptions{
			TopK:        cfg.Rag.TopK,
			MaxAttempts: 1,
			LLMTimeout:  cfg.Ai.LLMTimeout,
		},
		log,
	)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	color.Cyan("Building question pipeline for %s", pdfPath)
	pipelines, err := quizService.Ingest(ctx, evaluationChatID, pdfPath)
	if err != nil {
		return err
	}
	color.Green("Indexed %d chunks, %d topics x %d reps", pipelines.Chunks, len(topics), reps)

	records := make([]record, 0, len(topics)*reps)
	for i, topic := range topics {
		color.Yellow("[%d/%d] %s", i+1, len(topics), topic)
		for rep := 0; rep < reps; rep++ {
			result, err := pipelines.MCQ.Attempt(ctx, topic)
			if err != nil {
				color.Red("  rep %d failed: %v", rep+1, err)
				continue
			}
			if !result.Valid {
				color.Red("  rep %d: %s", rep+1, result.MCQ.Question)
			}
			records = append(records, toRecord(result))
		}
	}

	out := outputPath(model, pdfPath)
	if err := writeRecords(out, records); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	log.Info("EVAL", "Evaluation finished", map[string]interface{}{
		"model":   model,
		"file":    pdfPath,
		"topics":  len(topics),
		"records": len(records),
		"output":  out,
	})
	color.Green("Wrote %d questions to %s", len(records), out)
	return nil
}
