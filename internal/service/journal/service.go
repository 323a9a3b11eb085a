package journal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/neuropy/homehub/backend/internal/analysis/emotion"
	"github.com/neuropy/homehub/backend/internal/model/journal"
)

// 会话画像取前三个情绪。
const profileSize = 3

// ErrMissingChatID 表示调用方违反契约：会话未拿到服务端标识就进入
// 了落库流水线。
var ErrMissingChatID = errors.New("chat id is required")

// Analyzer 是文本分析客户端的窄接口。两个方法相互独立，没有调用
// 顺序约束。
type Analyzer interface {
	AnalyzeSentiment(ctx context.Context, transcript, emotions string) (analysis, feedback string, err error)
	ExtractAssociations(ctx context.Context, transcript, emotions string) (string, error)
}

// Store 是落库流水线需要的最小存储能力。
type Store interface {
	Save(ctx context.Context, chatID string, entry journal.Entry) error
}

// Service 把一段累计完成的会话变成恰好一条持久化记录，或者干净地
// 放弃。每个外部调用只尝试一次，没有重试。
type Service struct {
	analyzer Analyzer
	store    Store
	out      io.Writer
}

// NewService 创建落库流水线。
func NewService(analyzer Analyzer, store Store) *Service {
	return &Service{analyzer: analyzer, store: store, out: os.Stdout}
}

// SetOutput 重定向控制台输出，测试用。
func (s *Service) SetOutput(w io.Writer) {
	s.out = w
}

// Finalize 聚合会话、跑两路分析并写入一条记录。空转写是跳过而非
// 错误；分析失败以空串兜底；写库失败原样上抛，对会话是致命的。
func (s *Service) Finalize(ctx context.Context, sess *journal.Session) error {
	if sess.ChatID == "" {
		return ErrMissingChatID
	}

	userMessages := sess.UserMessages()

	texts := make([]string, 0, len(userMessages))
	for _, msg := range userMessages {
		if msg.Text != "" {
			texts = append(texts, msg.Text)
		}
	}
	transcript := strings.Join(texts, " ")

	if transcript == "" {
		log.Printf("[journal] no user messages captured, skipping persistence for chat %s", sess.ChatID)
		return nil
	}

	sets := make([]emotion.Scores, 0, len(userMessages))
	for _, msg := range userMessages {
		if len(msg.Emotions) > 0 {
			sets = append(sets, msg.Emotions)
		}
	}
	profile := emotion.TopN(emotion.Aggregate(sets), profileSize)
	emotionsStr := emotion.FormatProfile(profile)

	// 两路分析相互独立；任一失败都以空串兜底，绝不阻塞转写与情绪
	// 画像的落库。
	analysisText, feedback, err := s.analyzer.AnalyzeSentiment(ctx, transcript, emotionsStr)
	if err != nil {
		log.Printf("[journal] sentiment analysis failed for chat %s: %v", sess.ChatID, err)
		analysisText, feedback = "", ""
	}

	associations, err := s.analyzer.ExtractAssociations(ctx, transcript, emotionsStr)
	if err != nil {
		log.Printf("[journal] association extraction failed for chat %s: %v", sess.ChatID, err)
		associations = ""
	}

	topEmotions := make(map[string]string, len(profile))
	for _, sc := range profile {
		topEmotions[sc.Label] = fmt.Sprintf("%.2f", sc.Value)
	}

	entry := journal.Entry{
		ChatID:                sess.ChatID,
		Transcript:            transcript,
		TopEmotions:           topEmotions,
		EmotionalAnalysis:     analysisText,
		EmpatheticFeedback:    feedback,
		EmotionalAssociations: associations,
	}

	if err := s.store.Save(ctx, sess.ChatID, entry); err != nil {
		log.Printf("[journal] failed to persist chat %s: %v (%T)", sess.ChatID, err, err)
		return fmt.Errorf("persist journal entry: %w", err)
	}

	s.printSummary(entry, profile)
	return nil
}

// printSummary 会话结束后在控制台汇总分析结果。
func (s *Service) printSummary(entry journal.Entry, profile emotion.Scores) {
	fmt.Fprintln(s.out, "\n=== Analysis Results ===")
	fmt.Fprintln(s.out, "\nTranscript:")
	fmt.Fprintln(s.out, entry.Transcript)
	fmt.Fprintln(s.out, "\nTop Emotions:")
	for _, sc := range profile {
		fmt.Fprintf(s.out, "%s: %.2f\n", sc.Label, sc.Value)
	}
	fmt.Fprintln(s.out, "\nEmotional Analysis:")
	fmt.Fprintln(s.out, entry.EmotionalAnalysis)
	fmt.Fprintln(s.out, "\nEmpathetic Feedback:")
	fmt.Fprintln(s.out, entry.EmpatheticFeedback)
	fmt.Fprintln(s.out, "\nEmotional Associations:")
	fmt.Fprintln(s.out, entry.EmotionalAssociations)
}
