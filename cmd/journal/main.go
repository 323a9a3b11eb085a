package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/neuropy/homehub/backend/internal/config"
	journalmodel "github.com/neuropy/homehub/backend/internal/model/journal"
	"github.com/neuropy/homehub/backend/internal/service/analysis"
	"github.com/neuropy/homehub/backend/internal/service/audio"
	journalservice "github.com/neuropy/homehub/backend/internal/service/journal"
	"github.com/neuropy/homehub/backend/internal/service/transcribe"
	"github.com/neuropy/homehub/backend/internal/store"
)

// 说出这句话即可结束录制。
const stopPhrase = "that's it"

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

	fmt.Println("Neuropy HomeHub")
	fmt.Println("Tell me about your day!")

	stdin := bufio.NewScanner(os.Stdin)
	fmt.Print("Type 'start' to start conversation, or 'quit' to exit: ")
	if !stdin.Scan() || strings.ToLower(strings.TrimSpace(stdin.Text())) != "start" {
		fmt.Println("Exiting.")
		return
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

	transcriber, err := transcribe.NewService(cfg.OpenAI)
	if err != nil {
		log.Fatalf("failed to initialize transcription service: %v", err)
	}
	recorder := audio.NewCommandRecorder(cfg.Audio)

	transcript := record(ctx, stdin, recorder, transcriber, cfg.Audio.ChunkSeconds)
	if strings.TrimSpace(transcript) == "" {
		log.Println("nothing was transcribed, exiting")
		return
	}

	sess := &journalmodel.Session{ChatID: "journal-" + uuid.NewString()}
	sess.Append(journalmodel.Message{
		Role:      journalmodel.RoleUser,
		Text:      strings.TrimSpace(transcript),
		Timestamp: time.Now().UTC(),
	})

	if err := pipeline.Finalize(ctx, sess); err != nil {
		log.Fatalf("failed to persist journal: %v", err)
	}
}

// record 循环录制定长片段并转写，直到听到结束语或用户输入 stop。
func record(ctx context.Context, stdin *bufio.Scanner, recorder *audio.CommandRecorder, transcriber *transcribe.Service, chunkSeconds int) string {
	fmt.Printf("Listening... (say %q in your speech to end, or type 'stop' after a chunk)\n", stopPhrase)

	var full strings.Builder
	for {
		if ctx.Err() != nil {
			break
		}

		fmt.Println("\n---- New Chunk ----")
		fmt.Printf("Recording for %d seconds...\n", chunkSeconds)

		wav, err := recorder.Record(ctx, chunkSeconds)
		if err != nil {
			log.Printf("recording failed, skipping chunk: %v", err)
			continue
		}

		text, err := transcriber.Transcribe(ctx, wav)
		if err != nil {
			log.Printf("transcription failed, skipping chunk: %v", err)
			continue
		}

		fmt.Println("Partial Transcript: " + text)
		if text != "" {
			full.WriteString(" ")
			full.WriteString(text)
		}

		if strings.Contains(strings.ToLower(text), stopPhrase) {
			fmt.Println("Termination phrase detected in speech. Stopping recording...")
			break
		}

		fmt.Print("Press Enter to continue recording, or type 'stop' to end: ")
		if !stdin.Scan() {
			break
		}
		if strings.ToLower(strings.TrimSpace(stdin.Text())) == "stop" {
			fmt.Println("Stop command received. Stopping recording...")
			break
		}
	}

	return full.String()
}
