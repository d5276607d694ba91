package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"pdf-quiz-bot/internal/constant"
	"pdf-quiz-bot/internal/pkg/logger"
	"pdf-quiz-bot/pkg/compile"
	"pdf-quiz-bot/pkg/embedding"
	"pdf-quiz-bot/pkg/events"
	"pdf-quiz-bot/pkg/llm"
	"pdf-quiz-bot/pkg/ocr"
	"pdf-quiz-bot/pkg/quiz"
	"pdf-quiz-bot/pkg/rag"
	"pdf-quiz-bot/pkg/utils"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const DocumentFileName = "file.pdf"

// Pipelines are the two question generators built over one document.
type Pipelines struct {
	MCQ    *quiz.Generator
	FFQ    *quiz.Generator
	Chunks int
}

type IQuizService interface {
	Ingest(ctx context.Context, chatID int64, pdfPath string) (*Pipelines, error)
	Generate(ctx context.Context, chatID int64, generator *quiz.Generator, topic string) (*quiz.Result, error)
	Saved(ctx context.Context, chatID int64, total int)
	Compile(ctx context.Context, chatID int64, results []*quiz.Result) (string, error)
	Reset(ctx context.Context, chatID int64) error
	DocumentPath(chatID int64) string
}

type QuizOptions struct {
	UserFilesDir string
	TopK         int
	MaxAttempts  int
	LLMTimeout   time.Duration
}

type quizService struct {
	extractor ocr.TextExtractor
	splitter  *utils.TextSplitter
	embedder  embedding.EmbeddingProvider
	store     rag.VectorStore
	indexer   *rag.Indexer
	llm       llm.LLMProvider
	publisher IPublisherService
	opts      QuizOptions
	logger    logger.ILogger
}

func NewQuizService(
	extractor ocr.TextExtractor,
	splitter *utils.TextSplitter,
	embedder embedding.EmbeddingProvider,
	store rag.VectorStore,
	provider llm.LLMProvider,
	publisher IPublisherService,
	opts QuizOptions,
	log logger.ILogger,
) IQuizService {
	if opts.UserFilesDir == "" {
		opts.UserFilesDir = "user_files"
	}
	return &quizService{
		extractor: extractor,
		splitter:  splitter,
		embedder:  embedder,
		store:     store,
		indexer:   rag.NewIndexer(embedder, store),
		llm:       provider,
		publisher: publisher,
		opts:      opts,
		logger:    log,
	}
}

func collection(chatID int64) string {
	return strconv.FormatInt(chatID, 10)
}

func (s *quizService) DocumentPath(chatID int64) string {
	return filepath.Join(s.opts.UserFilesDir, collection(chatID), DocumentFileName)
}

func (s *quizService) exportPath(chatID int64) string {
	return filepath.Join(s.opts.UserFilesDir, collection(chatID), compile.FileName)
}

// Ingest extracts, splits and indexes the document, then builds one
// generator per question kind over the chat's collection.
func (s *quizService) Ingest(ctx context.Context, chatID int64, pdfPath string) (*Pipelines, error) {
	ctx, span := otel.Tracer("quiz").Start(ctx, "QuizService.Ingest")
	defer span.End()
	span.SetAttributes(attribute.Int64("chat.id", chatID))

	start := time.Now()

	extraction, err := s.extractor.Extract(ctx, pdfPath)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("extract text: %w", err)
	}

	segments := s.splitter.Split(extraction.Text)
	if len(segments) == 0 {
		span.SetStatus(codes.Error, ocr.ErrEmptyDocument.Error())
		return nil, ocr.ErrEmptyDocument
	}

	coll := collection(chatID)
	n, err := s.indexer.Index(ctx, coll, segments)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("index document: %w", err)
	}
	span.SetAttributes(attribute.Int("rag.chunks", n))

	retriever := rag.NewRetriever(s.embedder, s.store, coll, s.opts.TopK)
	mcqChain := rag.NewChain(retriever, s.llm, constant.MCQInstructionV1, rag.WithTimeout(s.opts.LLMTimeout))
	ffqChain := rag.NewChain(retriever, s.llm, constant.FFQInstructionV1, rag.WithTimeout(s.opts.LLMTimeout))

	pipelines := &Pipelines{
		MCQ:    quiz.NewGenerator(quiz.KindMCQ, mcqChain, s.opts.MaxAttempts, s.logger),
		FFQ:    quiz.NewGenerator(quiz.KindFFQ, ffqChain, s.opts.MaxAttempts, s.logger),
		Chunks: n,
	}

	s.logger.Info("INGEST", "Document indexed", map[string]interface{}{
		"chat_id":  chatID,
		"chunks":   n,
		"markdown": extraction.Markdown,
		"warnings": extraction.Warnings,
		"duration": time.Since(start).String(),
	})
	s.publisher.Publish(ctx, events.New(events.DocumentIngested, chatID, map[string]interface{}{
		"chunks":   n,
		"markdown": extraction.Markdown,
	}))

	return pipelines, nil
}

func (s *quizService) Generate(ctx context.Context, chatID int64, generator *quiz.Generator, topic string) (*quiz.Result, error) {
	ctx, span := otel.Tracer("quiz").Start(ctx, "QuizService.Generate")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("chat.id", chatID),
		attribute.String("quiz.kind", string(generator.Kind())),
		attribute.String("quiz.topic", topic),
	)

	result, err := generator.Generate(ctx, topic)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		data := map[string]interface{}{
			"kind":  generator.Kind(),
			"topic": topic,
			"error": err.Error(),
		}
		var genErr *quiz.GenerationError
		if errors.As(err, &genErr) {
			data["attempts"] = genErr.Attempts
		}
		s.logger.Error("QUIZ", "Question generation failed", map[string]interface{}{
			"chat_id": chatID,
			"kind":    generator.Kind(),
			"topic":   topic,
			"error":   err.Error(),
		})
		s.publisher.Publish(ctx, events.New(events.GenerationFailed, chatID, data))
		return nil, err
	}

	s.logger.Info("QUIZ", "Question generated", map[string]interface{}{
		"chat_id": chatID,
		"kind":    generator.Kind(),
		"topic":   topic,
	})
	s.publisher.Publish(ctx, events.New(events.QuestionGenerated, chatID, map[string]interface{}{
		"kind":    generator.Kind(),
		"topic":   topic,
		"sources": len(result.Sources),
	}))

	return result, nil
}

func (s *quizService) Saved(ctx context.Context, chatID int64, total int) {
	s.publisher.Publish(ctx, events.New(events.QuestionSaved, chatID, map[string]interface{}{
		"saved": total,
	}))
}

// Compile writes the export for the chat and returns its path.
func (s *quizService) Compile(ctx context.Context, chatID int64, results []*quiz.Result) (string, error) {
	path := s.exportPath(chatID)
	if err := compile.CompileToFile(path, results); err != nil {
		return "", err
	}

	s.logger.Info("QUIZ", "Questions compiled", map[string]interface{}{
		"chat_id":   chatID,
		"questions": len(results),
		"path":      path,
	})
	s.publisher.Publish(ctx, events.New(events.QuestionsCompiled, chatID, map[string]interface{}{
		"questions": len(results),
	}))
	return path, nil
}

// Reset drops the chat's indexed chunks.
func (s *quizService) Reset(ctx context.Context, chatID int64) error {
	if err := s.store.Delete(ctx, collection(chatID)); err != nil {
		return fmt.Errorf("delete vectors: %w", err)
	}
	s.publisher.Publish(ctx, events.New(events.SessionReset, chatID, nil))
	return nil
}
