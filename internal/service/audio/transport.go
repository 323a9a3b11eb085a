package audio

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync/atomic"
	"time"
)

// Input 提供麦克风音频帧。Read 阻塞直到取到一帧或上下文取消。
type Input interface {
	Read(ctx context.Context) ([]byte, error)
	Close() error
}

// Player 播放合成语音字节。
type Player interface {
	Play(ctx context.Context, chunk []byte) error
	Close() error
}

// Sender 是传输泵对上行连接的最小依赖。
type Sender interface {
	SendAudio(frame []byte) error
}

// Transport 在麦克风、远端连接与播放设备之间双向搬运音频。它从不
// 读写会话状态，会话只属于事件路由器。
type Transport struct {
	in             Input
	player         Player
	allowInterrupt bool

	// lastPlay 记录最近一次播放的单调时间戳（纳秒）。
	lastPlay atomic.Int64
}

// NewTransport 创建音频传输泵。allowInterrupt 为 false 时，助手说话
// 期间采集到的麦克风帧被丢弃，避免回声打断回复。
func NewTransport(in Input, player Player, allowInterrupt bool) *Transport {
	return &Transport{in: in, player: player, allowInterrupt: allowInterrupt}
}

// 助手停止说话后经过该时间才恢复上行采集。
const speakingGrace = 300 * time.Millisecond

// Start 同时运行上行采集与下行播放，直到上下文取消或任一方向出错。
func (t *Transport) Start(ctx context.Context, sender Sender, sink *Stream) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 2)

	go func() { errCh <- t.pumpUpstream(ctx, sender) }()
	go func() { errCh <- t.pumpPlayback(ctx, sink) }()

	err := <-errCh
	cancel()
	<-errCh

	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func (t *Transport) pumpUpstream(ctx context.Context, sender Sender) error {
	for {
		frame, err := t.in.Read(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return fmt.Errorf("microphone read: %w", err)
		}

		if !t.allowInterrupt && t.speaking() {
			continue
		}

		if err := sender.SendAudio(frame); err != nil {
			return fmt.Errorf("send audio frame: %w", err)
		}
	}
}

func (t *Transport) pumpPlayback(ctx context.Context, sink *Stream) error {
	for {
		chunk, ok := sink.Next(ctx)
		if !ok {
			if ctx.Err() != nil {
				return nil
			}
			log.Printf("[audio] output stream closed")
			return nil
		}

		t.lastPlay.Store(time.Now().UnixNano())
		if err := t.player.Play(ctx, chunk); err != nil {
			return fmt.Errorf("playback: %w", err)
		}
	}
}

func (t *Transport) speaking() bool {
	last := t.lastPlay.Load()
	if last == 0 {
		return false
	}
	return time.Since(time.Unix(0, last)) < speakingGrace
}
