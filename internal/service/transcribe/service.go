package transcribe

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/neuropy/homehub/backend/internal/config"
)

// Service 调用 Whisper 接口把录音片段转写为文本。
type Service struct {
	client openai.Client
	model  string
}

// NewService 创建转写服务。
func NewService(cfg config.OpenAIConfig) (*Service, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("openai credentials missing: OPENAI_API_KEY is required")
	}

	return &Service{
		client: openai.NewClient(option.WithAPIKey(cfg.APIKey)),
		model:  cfg.WhisperModel,
	}, nil
}

// Transcribe 转写一段 WAV 音频，返回去除首尾空白的文本。
func (s *Service) Transcribe(ctx context.Context, wav []byte) (string, error) {
	if len(wav) == 0 {
		return "", fmt.Errorf("empty audio chunk")
	}

	resp, err := s.client.Audio.Transcriptions.New(ctx, openai.AudioTranscriptionNewParams{
		Model: openai.AudioModel(s.model),
		File:  openai.File(bytes.NewReader(wav), "chunk.wav", "audio/wav"),
	})
	if err != nil {
		return "", fmt.Errorf("whisper transcription failed: %w", err)
	}

	return strings.TrimSpace(resp.Text), nil
}
