package evi

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/neuropy/homehub/backend/internal/analysis/emotion"
)

// Event 是服务端下行事件的标签联合。具体类型见下方各结构体；
// 未识别的类型统一落到 UnknownEvent，保证向前兼容。
type Event interface {
	Kind() string
}

// ChatMetadata 在会话建立后下发，携带服务端分配的会话标识。
type ChatMetadata struct {
	ChatID      string `json:"chat_id"`
	ChatGroupID string `json:"chat_group_id"`
}

func (ChatMetadata) Kind() string { return "chat_metadata" }

// TurnMessage 表示一轮用户或助手发言。
type TurnMessage struct {
	Role    string
	Content string
	// FromText 为 true 表示该轮来自文本输入，没有韵律得分。
	FromText bool
	Scores   emotion.Scores
}

func (m TurnMessage) Kind() string {
	if !m.IsUser() {
		return "assistant_message"
	}
	return "user_message"
}

// IsUser 判断是否为用户发言。
func (m TurnMessage) IsUser() bool {
	return !strings.EqualFold(m.Role, "assistant")
}

// AudioOutput 携带一段 base64 编码的合成语音。
type AudioOutput struct {
	ID   string `json:"id"`
	Data string `json:"data"`
}

func (AudioOutput) Kind() string { return "audio_output" }

// Decode 还原原始音频字节。
func (a AudioOutput) Decode() ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(a.Data)
	if err != nil {
		return nil, fmt.Errorf("decode audio payload: %w", err)
	}
	return raw, nil
}

// ErrorEvent 表示服务端上报的错误，对当前会话而言是终止性的。
type ErrorEvent struct {
	Code    string
	Slug    string
	Message string
}

func (ErrorEvent) Kind() string { return "error" }

func (e ErrorEvent) Error() string {
	return fmt.Sprintf("evi error (%s): %s", e.Code, e.Message)
}

// UnknownEvent 兜住所有未建模的事件类型。
type UnknownEvent struct {
	Type string
}

func (e UnknownEvent) Kind() string { return e.Type }

// ParseEvent 将一帧下行 JSON 解码为具体事件。
func ParseEvent(data []byte) (Event, error) {
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("parse event: %w", err)
	}

	switch probe.Type {
	case "chat_metadata":
		var ev ChatMetadata
		if err := json.Unmarshal(data, &ev); err != nil {
			return nil, fmt.Errorf("parse chat_metadata: %w", err)
		}
		return ev, nil

	case "user_message", "assistant_message":
		var raw struct {
			Message struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"message"`
			FromText bool `json:"from_text"`
			Models   struct {
				Prosody *struct {
					Scores emotion.Scores `json:"scores"`
				} `json:"prosody"`
			} `json:"models"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse %s: %w", probe.Type, err)
		}
		turn := TurnMessage{
			Role:     raw.Message.Role,
			Content:  raw.Message.Content,
			FromText: raw.FromText,
		}
		if raw.Models.Prosody != nil {
			turn.Scores = raw.Models.Prosody.Scores
		}
		return turn, nil

	case "audio_output":
		var ev AudioOutput
		if err := json.Unmarshal(data, &ev); err != nil {
			return nil, fmt.Errorf("parse audio_output: %w", err)
		}
		return ev, nil

	case "error":
		var raw struct {
			// code 字段既可能是字符串也可能是数字。
			Code    json.RawMessage `json:"code"`
			Slug    string          `json:"slug"`
			Message string          `json:"message"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse error event: %w", err)
		}
		ev := ErrorEvent{Slug: raw.Slug, Message: raw.Message}
		var codeStr string
		if err := json.Unmarshal(raw.Code, &codeStr); err == nil {
			ev.Code = codeStr
		} else {
			ev.Code = strings.Trim(string(raw.Code), `"`)
		}
		return ev, nil

	case "":
		return nil, fmt.Errorf("parse event: missing type field")

	default:
		return UnknownEvent{Type: probe.Type}, nil
	}
}

// userInput 上行文本输入。
type userInput struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// audioInput 上行麦克风音频帧。
type audioInput struct {
	Type string `json:"type"`
	Data string `json:"data"`
}

// sessionSettings 会话建立后声明上行音频的裸 PCM 格式。
type sessionSettings struct {
	Type  string         `json:"type"`
	Audio *audioSettings `json:"audio,omitempty"`
}

type audioSettings struct {
	Encoding   string `json:"encoding"`
	SampleRate int    `json:"sample_rate"`
	Channels   int    `json:"channels"`
}
