package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/neuropy/homehub/backend/internal/config"
	"github.com/neuropy/homehub/backend/internal/service/analysis"
	"github.com/neuropy/homehub/backend/internal/service/audio"
	"github.com/neuropy/homehub/backend/internal/service/evi"
	journalservice "github.com/neuropy/homehub/backend/internal/service/journal"
	"github.com/neuropy/homehub/backend/internal/store"
)

// 会话结束后留给分析与落库的时间。
const finalizeTimeout = 60 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	journalStore, err := store.NewFirestoreStore(ctx, cfg.Store)
	if err != nil {
		log.Fatalf("failed to initialize journal store: %v", err)
	}
	defer journalStore.Close()

	chatModel, err := cfg.AI.NewChatModel(ctx)
	if err != nil {
		log.Fatalf("failed to create chat model: %v", err)
	}
	analyzer, err := analysis.NewService(ctx, chatModel)
	if err != nil {
		log.Fatalf("failed to initialize analysis service: %v", err)
	}
	pipeline := journalservice.NewService(analyzer, journalStore)

	conn, err := evi.Connect(ctx, cfg.Hume)
	if err != nil {
		log.Fatalf("failed to open voice session: %v", err)
	}

	if err := conn.SendSessionSettings(cfg.Audio.SampleRate); err != nil {
		log.Fatalf("failed to configure audio session: %v", err)
	}

	sink := audio.NewStream()
	router := evi.NewSessionRouter(pipeline, sink)

	micInput, err := audio.StartCommandInput(ctx, cfg.Audio)
	if err != nil {
		log.Fatalf("failed to start audio capture: %v", err)
	}
	defer micInput.Close()

	player, err := audio.StartCommandPlayer(ctx, cfg.Audio)
	if err != nil {
		log.Fatalf("failed to start audio playback: %v", err)
	}
	defer player.Close()

	transport := audio.NewTransport(micInput, player, false)
	transportErr := make(chan error, 1)
	go func() {
		transportErr <- transport.Start(ctx, conn, sink)
	}()

	// 进程被打断时解除 Listen 的读阻塞。
	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	// 连接建立片刻后主动打招呼，引导用户开始倾诉。
	go func() {
		select {
		case <-ctx.Done():
		case <-time.After(3 * time.Second):
			if err := conn.SendUserInput("Hello there!"); err != nil {
				log.Printf("[evi] failed to send greeting: %v", err)
			}
		}
	}()

	listenErr := conn.Listen(ctx, router)
	if listenErr != nil {
		log.Printf("[evi] session ended with error: %v", listenErr)
	} else {
		log.Println("chat session ended normally")
	}

	stop()
	conn.Close()
	sink.Close()
	if err := <-transportErr; err != nil {
		log.Printf("[audio] transport stopped: %v", err)
	}

	// 无论正常还是异常断开，收尾流水线都要在退出前跑完。
	finalizeCtx, cancel := context.WithTimeout(context.Background(), finalizeTimeout)
	defer cancel()
	if err := router.Close(finalizeCtx); err != nil {
		log.Fatalf("failed to persist session: %v", err)
	}
}
