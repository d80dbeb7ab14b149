// Package ai drives the multimodal generation model that produces slideshow
// fragments.
package ai

import (
	"context"
	"fmt"
	"log"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/wenqig/storyboard/backend/internal/config"
	"github.com/wenqig/storyboard/backend/internal/model/show"
)

const systemPrompt = `You are an illustrator who answers questions as a short slideshow.
Explain the topic as a sequence of steps. For every step, write exactly one
short sentence of caption text (markdown is allowed), then produce one image
illustrating that sentence. Alternate caption and image until the explanation
is complete. Style hints: theme %s, aspect ratio %s, colors %s.`

// Service wraps the compiled generation chain.
type Service struct {
	chain compose.Runnable[map[string]any, *schema.Message]
}

// NewService builds the generation chain from configuration.
func NewService(ctx context.Context, cfg config.AIConfig) (*Service, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile generation chain: %w", err)
	}

	return &Service{chain: runnable}, nil
}

// OpenStream starts one generation for the question and returns its fragment
// stream. Settings are folded into the prompt so the model matches the
// requested look.
func (s *Service) OpenStream(ctx context.Context, question string, settings show.Settings) (show.FragmentSource, error) {
	input := map[string]any{
		"system": fmt.Sprintf(systemPrompt, settings.Theme, settings.AspectRatio, settings.ColorStyle),
		"query":  question,
	}

	stream, err := s.chain.Stream(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to stream generation output: %w", err)
	}

	log.Printf("[ai] opened generation stream, question length=%d", len(question))
	return newFragmentStream(stream), nil
}
