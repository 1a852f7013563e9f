package anthropic

import (
	"log/slog"

	sdkanthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/strandchat/strand/internal/provider"
)

// convertRequest transforms a strand CompletionRequest into Anthropic SDK
// parameters. System turns are extracted from the turn list into the
// dedicated System field.
func convertRequest(req provider.CompletionRequest, cfg *Config, logger *slog.Logger) sdkanthropic.MessageNewParams {
	system, turns := splitSystemTurns(req.Turns)

	params := sdkanthropic.MessageNewParams{
		Model:    sdkanthropic.Model(cfg.Model),
		Messages: convertTurns(turns, logger),
		System:   system,
	}

	params.MaxTokens = int64(cfg.MaxTokens)
	if req.MaxTokens > 0 {
		params.MaxTokens = int64(req.MaxTokens)
	}

	return params
}

// splitSystemTurns extracts leading system turns into Anthropic's System
// parameter format and returns the remaining turns.
func splitSystemTurns(turns []provider.Turn) ([]sdkanthropic.TextBlockParam, []provider.Turn) {
	var system []sdkanthropic.TextBlockParam
	var idx int
	for idx = 0; idx < len(turns); idx++ {
		if turns[idx].Role != provider.MessageRoleSystem {
			break
		}
		system = append(system, sdkanthropic.TextBlockParam{
			Text: turns[idx].Content,
		})
	}
	return system, turns[idx:]
}

// convertTurns transforms strand turns into Anthropic SDK message params.
// Non-leading system turns are logged and dropped since the Anthropic API
// only supports system text as a separate parameter, not inline.
func convertTurns(turns []provider.Turn, logger *slog.Logger) []sdkanthropic.MessageParam {
	var result []sdkanthropic.MessageParam

	for i, turn := range turns {
		switch turn.Role {
		case provider.MessageRoleAssistant:
			result = append(result, sdkanthropic.NewAssistantMessage(
				sdkanthropic.NewTextBlock(turn.Content),
			))

		case provider.MessageRoleUser:
			result = append(result, sdkanthropic.NewUserMessage(
				sdkanthropic.NewTextBlock(turn.Content),
			))

		case provider.MessageRoleSystem:
			if logger != nil {
				logger.Warn("dropping non-leading system turn; Anthropic API only supports system text at the start",
					"index", i,
				)
			}
		}
	}

	return result
}

// convertResponse transforms an Anthropic SDK Message into a strand
// CompletionResponse. Text blocks are joined into one candidate; a reply
// with no text blocks yields zero candidates.
func convertResponse(msg *sdkanthropic.Message) provider.CompletionResponse {
	var content string
	var found bool

	for _, block := range msg.Content {
		if v, ok := block.AsAny().(sdkanthropic.TextBlock); ok {
			if found {
				content += "\n"
			}
			content += v.Text
			found = true
		}
	}

	if !found {
		return provider.CompletionResponse{}
	}
	return provider.CompletionResponse{
		Candidates: []provider.Candidate{{Content: content}},
	}
}
