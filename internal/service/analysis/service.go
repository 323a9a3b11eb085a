package analysis

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
)

// partsSeparator 是情感分析提示词约定的两段式分隔符。
const partsSeparator = "|||"

// Service 通过大模型对日记转写文本做两类独立分析：情感状态描述 +
// 共情回应，以及逐情绪的联想列表。两条链在构造时各编译一次。
type Service struct {
	sentiment    compose.Runnable[map[string]any, *schema.Message]
	associations compose.Runnable[map[string]any, *schema.Message]
}

// NewService 基于给定聊天模型构建分析服务。
func NewService(ctx context.Context, chatModel model.ChatModel) (*Service, error) {
	sentiment, err := buildChain(ctx, chatModel, sentimentSystemPrompt, sentimentUserPrompt)
	if err != nil {
		return nil, fmt.Errorf("failed to compile sentiment chain: %w", err)
	}

	associations, err := buildChain(ctx, chatModel, associationsSystemPrompt, associationsUserPrompt)
	if err != nil {
		return nil, fmt.Errorf("failed to compile associations chain: %w", err)
	}

	return &Service{sentiment: sentiment, associations: associations}, nil
}

func buildChain(ctx context.Context, chatModel model.ChatModel, system, user string) (compose.Runnable[map[string]any, *schema.Message], error) {
	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage(system),
		schema.UserMessage(user),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	return chain.Compile(ctx)
}

// AnalyzeSentiment 返回情感状态描述与共情回应两段文本。模型被要求
// 以 "|||" 分隔两段；缺少分隔符按分析失败处理，由调用方决定兜底。
func (s *Service) AnalyzeSentiment(ctx context.Context, transcript, emotions string) (string, string, error) {
	msg, err := s.sentiment.Invoke(ctx, map[string]any{
		"transcript": transcript,
		"emotions":   emotions,
	})
	if err != nil {
		return "", "", fmt.Errorf("sentiment analysis failed: %w", err)
	}

	return splitSentimentResponse(msg.Content)
}

// ExtractAssociations 返回逐情绪的人物、地点、事件与环境联想。
func (s *Service) ExtractAssociations(ctx context.Context, transcript, emotions string) (string, error) {
	msg, err := s.associations.Invoke(ctx, map[string]any{
		"transcript": transcript,
		"emotions":   emotions,
	})
	if err != nil {
		return "", fmt.Errorf("association extraction failed: %w", err)
	}

	return strings.TrimSpace(msg.Content), nil
}

// splitSentimentResponse 在首个分隔符处切分并去掉两侧空白。
func splitSentimentResponse(content string) (string, string, error) {
	analysis, feedback, found := strings.Cut(content, partsSeparator)
	if !found {
		return "", "", fmt.Errorf("sentiment response missing %q separator", partsSeparator)
	}
	return strings.TrimSpace(analysis), strings.TrimSpace(feedback), nil
}
