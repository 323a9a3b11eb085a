package evi

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/neuropy/homehub/backend/internal/config"
)

// EventHandler 按到达顺序逐个消费下行事件。返回非 nil 错误会终止
// 事件流（用于服务端 error 事件）。
type EventHandler interface {
	OnEvent(ev Event) error
}

// Connection 包装一条 EVI 实时语音会话连接。读取由 Listen 独占，
// 写入可来自多个 goroutine，由内部互斥锁串行化。
type Connection struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

// Connect 建立到 EVI 实时接口的 WebSocket 连接。
func Connect(ctx context.Context, cfg config.HumeConfig) (*Connection, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("hume credentials missing: HUME_API_KEY and HUME_CONFIG_ID are required")
	}

	endpoint, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid EVI base url %q: %w", cfg.BaseURL, err)
	}

	query := endpoint.Query()
	query.Set("config_id", cfg.ConfigID)
	query.Set("api_key", cfg.APIKey)
	endpoint.RawQuery = query.Encode()

	dialer := &websocket.Dialer{
		HandshakeTimeout: 30 * time.Second,
	}

	conn, resp, err := dialer.DialContext(ctx, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to EVI: %w", err)
	}
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}

	log.Printf("[evi] connection opened, config=%s", cfg.ConfigID)
	return &Connection{conn: conn}, nil
}

// Listen 持续读取下行事件并交给 handler，直到连接关闭、上下文取消
// 或 handler 返回错误。事件严格按到达顺序处理，不做并发分发。
func (c *Connection) Listen(ctx context.Context, handler EventHandler) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("[evi] connection closed by server")
				return nil
			}
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return fmt.Errorf("read event: %w", err)
		}

		ev, err := ParseEvent(data)
		if err != nil {
			// 无法解码的帧不终止会话，跳过并留痕。
			log.Printf("[evi] skip undecodable frame: %v", err)
			continue
		}

		if err := handler.OnEvent(ev); err != nil {
			return err
		}
	}
}

// SendUserInput 发送一条文本输入。
func (c *Connection) SendUserInput(text string) error {
	return c.writeJSON(userInput{Type: "user_input", Text: text})
}

// SendSessionSettings 声明上行音频为 16bit 单声道裸 PCM。必须在首帧
// 音频之前发送。
func (c *Connection) SendSessionSettings(sampleRate int) error {
	return c.writeJSON(sessionSettings{
		Type: "session_settings",
		Audio: &audioSettings{
			Encoding:   "linear16",
			SampleRate: sampleRate,
			Channels:   1,
		},
	})
}

// SendAudio 发送一帧麦克风音频。
func (c *Connection) SendAudio(frame []byte) error {
	return c.writeJSON(audioInput{
		Type: "audio_input",
		Data: base64.StdEncoding.EncodeToString(frame),
	})
}

func (c *Connection) writeJSON(payload any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if err := c.conn.WriteJSON(payload); err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	return nil
}

// Close 主动关闭连接。
func (c *Connection) Close() error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	deadline := time.Now().Add(time.Second)
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
	return c.conn.Close()
}
