package emotion

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Score 表示单个情绪标签及其置信度（0~1）。
type Score struct {
	Label string
	Value float64
}

// Scores 是一组有序的情绪得分。顺序保留上游 JSON 对象的键序，
// 以便得分相同时能够按出现顺序稳定排序。
type Scores []Score

// UnmarshalJSON 按键出现顺序解析 {"label": score, ...} 对象。
// 标准 map 解码会丢失键序，因此这里逐 token 读取。
func (s *Scores) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("emotion scores: expected JSON object, got %v", tok)
	}

	out := make(Scores, 0, 8)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("emotion scores: expected string key, got %v", keyTok)
		}

		var value float64
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("emotion scores: invalid score for %q: %w", key, err)
		}
		out = append(out, Score{Label: key, Value: value})
	}

	if _, err := dec.Token(); err != nil {
		return err
	}

	*s = out
	return nil
}

// MarshalJSON 以对象形式输出，键序与切片顺序一致。
func (s Scores) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, sc := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(sc.Label)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(sc.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// TopN 返回得分最高的前 n 项，按得分降序；得分相同时保持原始顺序。
// 结果长度为 min(n, len(s))。
func TopN(s Scores, n int) Scores {
	if n < 0 {
		n = 0
	}

	sorted := make(Scores, len(s))
	copy(sorted, s)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Value > sorted[j].Value
	})

	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// FormatInline 生成单轮展示用的字符串，如 "Joy (0.87) | Calm (0.52)"。
func FormatInline(s Scores) string {
	parts := make([]string, 0, len(s))
	for _, sc := range s {
		parts = append(parts, fmt.Sprintf("%s (%.2f)", sc.Label, sc.Value))
	}
	return strings.Join(parts, " | ")
}

// FormatProfile 生成提示词用的字符串，如
// "Joy (probability: 0.87), Calm (probability: 0.52)"。
func FormatProfile(s Scores) string {
	parts := make([]string, 0, len(s))
	for _, sc := range s {
		parts = append(parts, fmt.Sprintf("%s (probability: %.2f)", sc.Label, sc.Value))
	}
	return strings.Join(parts, ", ")
}
