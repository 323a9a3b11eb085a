package store

import (
	"context"
	"errors"

	"github.com/neuropy/homehub/backend/internal/model/journal"
)

// ErrNotFound 表示请求的日记记录不存在。
var ErrNotFound = errors.New("journal entry not found")

// JournalStore 抽象日记记录的持久化。Save 以 chatID 为键覆盖写入；
// List 按服务端时间戳倒序返回最近的记录。
type JournalStore interface {
	Save(ctx context.Context, chatID string, entry journal.Entry) error
	Get(ctx context.Context, chatID string) (journal.Entry, error)
	List(ctx context.Context, limit int) ([]journal.Entry, error)
}
