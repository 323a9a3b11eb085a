package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/neuropy/homehub/backend/internal/config"
	"github.com/neuropy/homehub/backend/internal/service/analysis"
	"github.com/neuropy/homehub/backend/internal/service/evi"
	journalservice "github.com/neuropy/homehub/backend/internal/service/journal"
	"github.com/neuropy/homehub/backend/internal/store"
)

// discardSink 统计并丢弃音频帧，回放场景没有播放设备。
type discardSink struct {
	frames int
	bytes  int
}

func (d *discardSink) Put(chunk []byte) bool {
	d.frames++
	d.bytes += len(chunk)
	return true
}

// noopAnalyzer 在离线回放时代替 LLM，返回空分析结果。
type noopAnalyzer struct{}

func (noopAnalyzer) AnalyzeSentiment(context.Context, string, string) (string, string, error) {
	return "", "", nil
}

func (noopAnalyzer) ExtractAssociations(context.Context, string, string) (string, error) {
	return "", nil
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	if err := godotenv.Load(); err != nil {
		log.Printf("[WARN] 无法加载 .env，改用系统环境变量: %v", err)
	}

	filePath := flag.String("file", "", "事件文件路径，每行一个 JSON 事件")
	persist := flag.Bool("persist", false, "回放后经由完整分析流水线写入 Firestore")
	timeout := flag.Duration("timeout", 60*time.Second, "落库阶段超时时间")

	flag.Parse()

	if *filePath == "" {
		flag.Usage()
		log.Fatal("请通过 -file 指定事件文件")
	}

	ctx := context.Background()

	finalizer, cleanup, err := buildFinalizer(ctx, *persist)
	if err != nil {
		log.Fatalf("初始化流水线失败: %v", err)
	}
	defer cleanup()

	sink := &discardSink{}
	router := evi.NewSessionRouter(finalizer, sink)

	file, err := os.Open(*filePath)
	if err != nil {
		log.Fatalf("打开事件文件失败: %v", err)
	}
	defer file.Close()

	lines, skipped := 0, 0
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		lines++

		ev, err := evi.ParseEvent(raw)
		if err != nil {
			skipped++
			log.Printf("[WARN] 第 %d 行事件无法解析，跳过: %v", lines, err)
			continue
		}

		if err := router.OnEvent(ev); err != nil {
			log.Printf("回放在第 %d 行因终止事件结束: %v", lines, err)
			break
		}
	}
	if err := scanner.Err(); err != nil {
		log.Fatalf("读取事件文件失败: %v", err)
	}

	log.Printf("回放完成: events=%d skipped=%d audioFrames=%d audioBytes=%d",
		lines, skipped, sink.frames, sink.bytes)

	closeCtx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()
	if err := router.Close(closeCtx); err != nil {
		log.Fatalf("落库失败: %v", err)
	}
}

// buildFinalizer 按是否持久化选择流水线后端：默认内存存储加空分析，
// -persist 时走 Firestore 与真实模型。
func buildFinalizer(ctx context.Context, persist bool) (evi.Finalizer, func(), error) {
	if !persist {
		mem := store.NewMemoryStore()
		return journalservice.NewService(noopAnalyzer{}, mem), func() {}, nil
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	journalStore, err := store.NewFirestoreStore(ctx, cfg.Store)
	if err != nil {
		return nil, nil, err
	}

	chatModel, err := cfg.AI.NewChatModel(ctx)
	if err != nil {
		journalStore.Close()
		return nil, nil, errors.Join(err, errors.New("回放持久化模式需要 Ark 模型凭证"))
	}
	analyzer, err := analysis.NewService(ctx, chatModel)
	if err != nil {
		journalStore.Close()
		return nil, nil, err
	}

	return journalservice.NewService(analyzer, journalStore), func() { journalStore.Close() }, nil
}
