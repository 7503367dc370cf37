// Package chat models assistant conversations and their persisted history.
package chat

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// Role is the author of a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

const (
	// MaxContentLength caps stored message content, in characters.
	MaxContentLength = 4000
	// DefaultSessionLimit is the page size of the session listing.
	DefaultSessionLimit = 20
	// DefaultHistoryWindow is how many recent messages feed a follow-up.
	DefaultHistoryWindow = 8
	// SummaryThreshold is the message count above which summaries are produced.
	SummaryThreshold = 10
	// UnknownLocation labels sessions saved without a location.
	UnknownLocation = "Unknown"
)

// Session is one analysed location and the conversation about it.
type Session struct {
	ID                    int64     `json:"id"`
	Location              string    `json:"location"`
	Latitude              *float64  `json:"latitude"`
	Longitude             *float64  `json:"longitude"`
	FeasibilityScore      *float64  `json:"feasibility_score"`
	RecommendedTechnology *string   `json:"recommended_technology"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// Message is one turn of a session.
type Message struct {
	ID        int64     `json:"id"`
	SessionID int64     `json:"session_id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	IsReport  bool      `json:"is_report"`
	Timestamp time.Time `json:"timestamp"`
}

// Turn is a role/content pair sent to the language model.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Truncate cuts s to at most MaxContentLength characters.
func Truncate(s string) string {
	if utf8.RuneCountInString(s) <= MaxContentLength {
		return s
	}
	r := []rune(s)
	return string(r[:MaxContentLength])
}

// ParseFeasibility reads a percentage such as "82%" or "82". It returns nil
// when the value is empty or not numeric.
func ParseFeasibility(v string) *float64 {
	v = strings.TrimSpace(strings.ReplaceAll(v, "%", ""))
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil
	}
	return &f
}

//Personal.AI order the ending
