package journal

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/neuropy/homehub/backend/internal/store"
	"github.com/neuropy/homehub/backend/pkg/utils"
)

// 列表接口单页上限。
const maxListLimit = 100

// Handler 日记回看接口的HTTP处理器
type Handler struct {
	store store.JournalStore
}

// New 创建日记处理器
func New(journalStore store.JournalStore) *Handler {
	return &Handler{store: journalStore}
}

// RegisterRoutes 注册日记相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/journals", h.handleListJournals)
	r.Get("/journals/{chatID}", h.handleGetJournal)
}

// handleListJournals 按时间倒序列出最近的日记记录
func (h *Handler) handleListJournals(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			utils.RespondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		if parsed > maxListLimit {
			parsed = maxListLimit
		}
		limit = parsed
	}

	entries, err := h.store.List(r.Context(), limit)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to list journal entries")
		return
	}

	utils.RespondJSON(w, http.StatusOK, entries)
}

// handleGetJournal 按会话ID读取一条日记记录
func (h *Handler) handleGetJournal(w http.ResponseWriter, r *http.Request) {
	chatID := chi.URLParam(r, "chatID")

	entry, err := h.store.Get(r.Context(), chatID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.RespondError(w, http.StatusNotFound, "journal entry not found")
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, "failed to load journal entry")
		return
	}

	utils.RespondJSON(w, http.StatusOK, entry)
}
