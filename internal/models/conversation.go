// Package models contains shared types for the chatbox project.
package models

import "fmt"

// Role identifies who authored a history entry.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	// RoleSystem is only ever produced by the backend when it prepends its
	// system prompt; clients never send it.
	RoleSystem Role = "system"
)

// Valid reports whether r may appear in a client-supplied history.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// HistoryEntry is one message in the conversation window.
// Entries are passed by value and never modified after creation.
type HistoryEntry struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// NewHistoryEntry creates an entry for the given role and content.
func NewHistoryEntry(role Role, content string) HistoryEntry {
	return HistoryEntry{Role: role, Content: content}
}

// String renders the entry for logs.
func (e HistoryEntry) String() string {
	return fmt.Sprintf("%s: %s", e.Role, e.Content)
}

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	History []HistoryEntry `json:"history"`
}

// ChatResponse is the body returned by POST /chat.
// Exactly one of Response or Error is set by the backend, but clients must
// tolerate neither being present.
type ChatResponse struct {
	Response string `json:"response,omitempty"`
	Error    string `json:"error,omitempty"`
}

// HealthResponse is the body returned by GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}
