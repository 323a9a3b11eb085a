package audio

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"sync"

	"github.com/neuropy/homehub/backend/internal/config"
)

// 采集帧长 100ms：采样率 / 10，单声道 16bit。
func frameSize(sampleRate int) int {
	return sampleRate / 10 * 2
}

// CommandInput 通过外部采集命令（默认 arecord）读取原始 PCM 帧。
// 语料中没有可用的音频采集库，设备 I/O 作为外部协作者经由子进程
// 接入。
type CommandInput struct {
	cmd    *exec.Cmd
	stdout io.ReadCloser
	frame  int
}

// StartCommandInput 启动采集进程。
func StartCommandInput(ctx context.Context, cfg config.AudioConfig) (*CommandInput, error) {
	cmd := exec.CommandContext(ctx, cfg.CaptureCmd,
		"-q", "-f", "S16_LE", "-r", strconv.Itoa(cfg.SampleRate), "-c", "1", "-t", "raw")

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("capture stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start capture command %q: %w", cfg.CaptureCmd, err)
	}

	return &CommandInput{cmd: cmd, stdout: stdout, frame: frameSize(cfg.SampleRate)}, nil
}

// Read 返回下一帧 PCM 数据。
func (c *CommandInput) Read(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	buf := make([]byte, c.frame)
	if _, err := io.ReadFull(c.stdout, buf); err != nil {
		return nil, fmt.Errorf("read capture output: %w", err)
	}
	return buf, nil
}

// Close 终止采集进程。
func (c *CommandInput) Close() error {
	c.stdout.Close()
	if c.cmd.Process != nil {
		_ = c.cmd.Process.Kill()
	}
	_ = c.cmd.Wait()
	return nil
}

// CommandPlayer 把合成语音写入外部播放命令（默认 aplay）的标准输入。
type CommandPlayer struct {
	cmd   *exec.Cmd
	stdin io.WriteCloser
	mu    sync.Mutex
}

// StartCommandPlayer 启动播放进程。
func StartCommandPlayer(ctx context.Context, cfg config.AudioConfig) (*CommandPlayer, error) {
	cmd := exec.CommandContext(ctx, cfg.PlaybackCmd, "-q")

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("playback stdin pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start playback command %q: %w", cfg.PlaybackCmd, err)
	}

	return &CommandPlayer{cmd: cmd, stdin: stdin}, nil
}

// Play 写入一段音频。
func (p *CommandPlayer) Play(ctx context.Context, chunk []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, err := p.stdin.Write(chunk); err != nil {
		return fmt.Errorf("write playback input: %w", err)
	}
	return nil
}

// Close 结束播放进程。
func (p *CommandPlayer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stdin.Close()
	_ = p.cmd.Wait()
	return nil
}

// CommandRecorder 为分段转写模式录制定长 WAV 片段。
type CommandRecorder struct {
	cfg config.AudioConfig
}

// NewCommandRecorder 创建分段录音器。
func NewCommandRecorder(cfg config.AudioConfig) *CommandRecorder {
	return &CommandRecorder{cfg: cfg}
}

// Record 阻塞录制 seconds 秒并返回完整 WAV 数据。
func (r *CommandRecorder) Record(ctx context.Context, seconds int) ([]byte, error) {
	if seconds < 1 {
		seconds = 1
	}

	cmd := exec.CommandContext(ctx, r.cfg.CaptureCmd,
		"-q", "-f", "S16_LE", "-r", strconv.Itoa(r.cfg.SampleRate), "-c", "1",
		"-t", "wav", "-d", strconv.Itoa(seconds))

	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("record %ds chunk: %w", seconds, err)
	}
	return out, nil
}
