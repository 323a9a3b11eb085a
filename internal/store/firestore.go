package store

import (
	"context"
	"fmt"
	"log"
	"os"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/neuropy/homehub/backend/internal/config"
	"github.com/neuropy/homehub/backend/internal/model/journal"
)

// FirestoreStore 把日记记录写入 Cloud Firestore。时间戳由服务端填充
// （见 Entry 的 serverTimestamp 标签）。
type FirestoreStore struct {
	client     *firestore.Client
	collection string
}

// NewFirestoreStore 创建 Firestore 存储。凭证文件存在时优先使用，
// 否则回退到应用默认凭证。
func NewFirestoreStore(ctx context.Context, cfg config.StoreConfig) (*FirestoreStore, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("firestore project missing: FIRESTORE_PROJECT_ID is required")
	}

	var opts []option.ClientOption
	if _, err := os.Stat(cfg.CredentialsFile); err == nil {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	} else {
		log.Printf("[store] credentials file %s not found, using application default credentials", cfg.CredentialsFile)
	}

	client, err := firestore.NewClient(ctx, cfg.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}

	return &FirestoreStore{client: client, collection: cfg.Collection}, nil
}

// Save 覆盖写入一条记录。
func (s *FirestoreStore) Save(ctx context.Context, chatID string, entry journal.Entry) error {
	if _, err := s.client.Collection(s.collection).Doc(chatID).Set(ctx, entry); err != nil {
		return fmt.Errorf("firestore set %s/%s: %w", s.collection, chatID, err)
	}
	return nil
}

// Get 按文档键读取一条记录。
func (s *FirestoreStore) Get(ctx context.Context, chatID string) (journal.Entry, error) {
	snap, err := s.client.Collection(s.collection).Doc(chatID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return journal.Entry{}, ErrNotFound
		}
		return journal.Entry{}, fmt.Errorf("firestore get %s/%s: %w", s.collection, chatID, err)
	}

	var entry journal.Entry
	if err := snap.DataTo(&entry); err != nil {
		return journal.Entry{}, fmt.Errorf("decode entry %s: %w", chatID, err)
	}
	entry.ChatID = snap.Ref.ID
	return entry, nil
}

// List 按时间戳倒序返回最近的记录。
func (s *FirestoreStore) List(ctx context.Context, limit int) ([]journal.Entry, error) {
	if limit < 1 {
		limit = 20
	}

	iter := s.client.Collection(s.collection).
		OrderBy("timestamp", firestore.Desc).
		Limit(limit).
		Documents(ctx)
	defer iter.Stop()

	var entries []journal.Entry
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("firestore list %s: %w", s.collection, err)
		}

		var entry journal.Entry
		if err := snap.DataTo(&entry); err != nil {
			log.Printf("[store] skip undecodable entry %s: %v", snap.Ref.ID, err)
			continue
		}
		entry.ChatID = snap.Ref.ID
		entries = append(entries, entry)
	}

	return entries, nil
}

// Close 释放底层客户端。
func (s *FirestoreStore) Close() error {
	return s.client.Close()
}
