package evi

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/neuropy/homehub/backend/internal/analysis/emotion"
	"github.com/neuropy/homehub/backend/internal/model/journal"
)

// 单轮展示与会话画像统一取前三个情绪。
const topEmotionCount = 3

// Sink 接收解码后的合成语音字节。Put 返回 false 表示该帧被丢弃。
type Sink interface {
	Put(frame []byte) bool
}

// Finalizer 在会话结束时消费累计状态，负责分析与持久化。
type Finalizer interface {
	Finalize(ctx context.Context, sess *journal.Session) error
}

// SessionRouter 将下行事件映射为会话状态变更。它是 Session 的唯一
// 写入方：事件严格串行处理，音频传输侧从不读写会话状态，因此无需
// 加锁。
type SessionRouter struct {
	session   *journal.Session
	sink      Sink
	finalizer Finalizer
	out       io.Writer
	closeOnce sync.Once
	closeErr  error
}

// NewSessionRouter 创建事件路由器。
func NewSessionRouter(finalizer Finalizer, sink Sink) *SessionRouter {
	return &SessionRouter{
		session:   &journal.Session{},
		sink:      sink,
		finalizer: finalizer,
		out:       os.Stdout,
	}
}

// SetOutput 重定向控制台输出，测试用。
func (r *SessionRouter) SetOutput(w io.Writer) {
	r.out = w
}

// Session 返回路由器持有的会话状态。
func (r *SessionRouter) Session() *journal.Session {
	return r.session
}

// OnEvent 应用一次确定性的状态转移。返回非 nil 错误（仅服务端
// error 事件）表示事件流应当终止。
func (r *SessionRouter) OnEvent(ev Event) error {
	switch ev := ev.(type) {
	case ChatMetadata:
		if r.session.ChatID == "" {
			r.session.ChatID = ev.ChatID
		}
		r.printPrompt(fmt.Sprintf("<CHAT_METADATA> Chat ID: %s", ev.ChatID))

	case TurnMessage:
		role := journal.RoleAssistant
		if ev.IsUser() {
			role = journal.RoleUser
		}

		var scores emotion.Scores
		if !ev.FromText {
			scores = ev.Scores
		}

		r.session.Append(journal.Message{
			Role:      role,
			Text:      ev.Content,
			Timestamp: time.Now().UTC(),
			Emotions:  scores,
		})

		r.printPrompt(fmt.Sprintf("%s: %s", role, ev.Content))
		if len(scores) > 0 {
			top := emotion.TopN(scores, topEmotionCount)
			fmt.Fprintf(r.out, "|%s|\n\n", emotion.FormatInline(top))
		}

	case AudioOutput:
		// 音频帧只进输出流，从不进入会话历史。
		raw, err := ev.Decode()
		if err != nil {
			// 解码失败不终止会话，跳过并留痕。
			log.Printf("[evi] skip audio chunk %s: %v", ev.ID, err)
			return nil
		}
		if !r.sink.Put(raw) {
			log.Printf("[evi] audio sink full, dropped chunk %s", ev.ID)
		}

	case ErrorEvent:
		r.printPrompt(fmt.Sprintf("Error (%s): %s", ev.Code, ev.Message))
		return ev

	case UnknownEvent:
		r.printPrompt(fmt.Sprintf("<%s>", strings.ToUpper(ev.Type)))

	default:
		r.printPrompt(fmt.Sprintf("<%s>", strings.ToUpper(ev.Kind())))
	}

	return nil
}

// Close 进入收尾阶段并触发一次（且仅一次）落库流水线。无论是正常
// 还是异常断开都会走到这里。
func (r *SessionRouter) Close(ctx context.Context) error {
	r.closeOnce.Do(func() {
		r.printPrompt("connection closed")

		if r.session.ChatID == "" || len(r.session.Messages) == 0 {
			log.Printf("[evi] nothing to persist: chat_id=%q messages=%d",
				r.session.ChatID, len(r.session.Messages))
			return
		}

		r.closeErr = r.finalizer.Finalize(ctx, r.session)
	})
	return r.closeErr
}

// printPrompt 带 UTC 时间戳输出一行会话记录。
func (r *SessionRouter) printPrompt(text string) {
	now := time.Now().UTC().Format("15:04:05")
	fmt.Fprintf(r.out, "[%s] %s\n", now, text)
}
