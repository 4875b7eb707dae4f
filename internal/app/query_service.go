package app

import (
	"context"
	"fmt"
	"strings"
	"text/template"

	"docmind/internal/ai"
	"docmind/internal/model"
)

// NoDocumentsAnswer is returned when the index holds no chunks. It is a
// normal outcome, not an error, and the generator is not invoked.
const NoDocumentsAnswer = "I don't have any documents to answer from. Please upload some documents first."

const contextSeparator = "\n\n---\n\n"

// QueryService answers questions against the indexed documents.
type QueryService struct {
	store       VectorStore
	embedder    Embedder
	generator   Generator
	prompt      *template.Template
	defaultTopK int
}

func NewQueryService(
	store VectorStore,
	embedder Embedder,
	generator Generator,
	prompt *template.Template,
	defaultTopK int,
) *QueryService {
	if defaultTopK <= 0 {
		defaultTopK = 3
	}
	return &QueryService{
		store:       store,
		embedder:    embedder,
		generator:   generator,
		prompt:      prompt,
		defaultTopK: defaultTopK,
	}
}

// Answer embeds the question, retrieves the topK nearest chunks, renders the
// prompt with the assembled context and returns the generated text verbatim.
func (s *QueryService) Answer(ctx context.Context, question string, topK int) (model.Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return model.Answer{}, ErrInvalidInput
	}
	if topK <= 0 {
		topK = s.defaultTopK
	}

	vector, err := s.embedder.Embed(ctx, question, ai.PurposeQuery)
	if err != nil {
		return model.Answer{}, fmt.Errorf("%w: embed question: %w", ErrQueryFailed, err)
	}

	hits, err := s.store.Search(ctx, vector, topK)
	if err != nil {
		return model.Answer{}, fmt.Errorf("%w: search: %w", ErrQueryFailed, err)
	}
	if len(hits) == 0 {
		return model.Answer{
			Question: question,
			Answer:   NoDocumentsAnswer,
			Sources:  []string{},
		}, nil
	}

	texts := make([]string, len(hits))
	seen := make(map[string]struct{})
	sources := make([]string, 0, len(hits))
	for i, hit := range hits {
		texts[i] = hit.Text
		if _, dup := seen[hit.Metadata.Filename]; dup || hit.Metadata.Filename == "" {
			continue
		}
		seen[hit.Metadata.Filename] = struct{}{}
		sources = append(sources, hit.Metadata.Filename)
	}

	prompt, err := renderPrompt(s.prompt, strings.Join(texts, contextSeparator), question)
	if err != nil {
		return model.Answer{}, fmt.Errorf("%w: %w", ErrQueryFailed, err)
	}

	answer, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return model.Answer{}, fmt.Errorf("%w: generate: %w", ErrQueryFailed, err)
	}

	return model.Answer{
		Question: question,
		Answer:   answer,
		Sources:  sources,
	}, nil
}
