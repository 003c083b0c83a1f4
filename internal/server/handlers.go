package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/mfateev/chatbox/internal/history"
	"github.com/mfateev/chatbox/internal/llm"
	"github.com/mfateev/chatbox/internal/models"
)

// Error messages returned in {"error": ...} bodies.
const (
	ErrContentType    = "Content-Type must be application/json"
	ErrHistoryMissing = "Field 'history' is required and must be a non-empty array of messages."
	errInvalidJSON    = "Invalid JSON format: %v"
	errInvalidEntry   = "Invalid history entry at index %d: %v"
	errInvalidRole    = "Invalid role %q at index %d: must be \"user\" or \"assistant\""
	errModel          = "An error occurred while contacting the model: %v"
	errTooLarge       = "Request body exceeds %d bytes; clear the conversation and try again."
)

// maxRequestBytes caps the POST /chat body.
const maxRequestBytes = 1 << 20

// logPreviewRunes is how much of the last user message is logged.
const logPreviewRunes = 50

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	if !isJSON(r.Header.Get("Content-Type")) {
		writeError(w, http.StatusUnsupportedMediaType, ErrContentType)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			logger.Warn().Int64("limit", tooLarge.Limit).Msg("Request body too large")
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf(errTooLarge, tooLarge.Limit))
			return
		}
		writeError(w, http.StatusBadRequest, fmt.Sprintf(errInvalidJSON, err))
		return
	}

	entries, status, msg := parseHistory(body)
	if status != http.StatusOK {
		writeError(w, status, msg)
		return
	}

	entries = history.Trim(entries, s.opts.HistoryLimit)
	resp, err := s.client.Complete(r.Context(), llm.CompletionRequest{
		SystemPrompt: s.opts.SystemPrompt,
		History:      entries,
		ModelConfig:  s.opts.ModelConfig,
	})
	if err != nil {
		logger.Error().Err(err).Int("history_len", len(entries)).Msg("Model call failed")
		writeError(w, http.StatusInternalServerError, fmt.Sprintf(errModel, err))
		return
	}

	logger.Info().
		Str("last_message", preview(lastUserContent(entries), logPreviewRunes)).
		Int("history_len", len(entries)).
		Int("total_tokens", resp.TokenUsage.TotalTokens).
		Msg("Chat request answered")

	writeJSON(w, http.StatusOK, models.ChatResponse{Response: resp.Text})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, models.HealthResponse{Status: "healthy", Service: ServiceName})
}

// parseHistory validates a POST /chat body. It returns http.StatusOK with the
// entries, or the status and message to reply with.
func parseHistory(body []byte) ([]models.HistoryEntry, int, string) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, http.StatusBadRequest, fmt.Sprintf(errInvalidJSON, err)
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(fields["history"], &raw); err != nil || len(raw) == 0 {
		return nil, http.StatusBadRequest, ErrHistoryMissing
	}

	entries := make([]models.HistoryEntry, 0, len(raw))
	for i, item := range raw {
		var e models.HistoryEntry
		if err := json.Unmarshal(item, &e); err != nil {
			return nil, http.StatusBadRequest, fmt.Sprintf(errInvalidEntry, i, err)
		}
		if e.Role != models.RoleUser && e.Role != models.RoleAssistant {
			return nil, http.StatusBadRequest, fmt.Sprintf(errInvalidRole, e.Role, i)
		}
		entries = append(entries, e)
	}
	return entries, http.StatusOK, ""
}

func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err == nil && mediaType == "application/json"
}

func lastUserContent(entries []models.HistoryEntry) string {
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].Role == models.RoleUser {
			return entries[i].Content
		}
	}
	return ""
}

func preview(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, models.ChatResponse{Error: msg})
}

// writeJSON encodes v without HTML escaping so non-ASCII and <>& reach the
// client unchanged.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}
