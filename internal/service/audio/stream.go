package audio

import (
	"context"
	"sync"
)

// Stream 是合成语音的有界字节流：事件路由侧写入，播放侧读取。
type Stream struct {
	ch   chan []byte
	once sync.Once
}

// NewStream 创建输出流。缓冲上限决定了播放落后多少之后开始丢帧。
func NewStream() *Stream {
	return &Stream{ch: make(chan []byte, 64)}
}

// Put 非阻塞写入一帧。缓冲已满时返回 false，调用方决定如何留痕。
// 事件循环不能被播放侧拖慢。
func (s *Stream) Put(frame []byte) bool {
	select {
	case s.ch <- frame:
		return true
	default:
		return false
	}
}

// Next 取出下一帧。流关闭或上下文取消时返回 false。
func (s *Stream) Next(ctx context.Context) ([]byte, bool) {
	select {
	case <-ctx.Done():
		return nil, false
	case frame, ok := <-s.ch:
		return frame, ok
	}
}

// Close 关闭流。关闭之后不得再调用 Put。
func (s *Stream) Close() {
	s.once.Do(func() { close(s.ch) })
}
