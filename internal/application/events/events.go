// Package events defines the integration events the application layer emits
// and the publisher port that carries them.
package events

import (
	"context"
	"strconv"

	"github.com/turtacn/H2Siting/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/H2Siting/pkg/types/common"
)

// Publisher delivers domain events to the message bus.
type Publisher interface {
	PublishEvent(ctx context.Context, event common.DomainEvent) error
}

// NopPublisher discards every event. It stands in when Kafka is disabled.
type NopPublisher struct{}

func (NopPublisher) PublishEvent(context.Context, common.DomainEvent) error { return nil }

type FeasibilityAnalyzedEvent struct {
	common.BaseEvent
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	Hub              string  `json:"hub"`
	State            string  `json:"state"`
	FeasibilityScore int     `json:"feasibility_score"`
	Recommendation   string  `json:"recommendation"`
	Transport        string  `json:"transport"`
}

func NewFeasibilityAnalyzedEvent(lat, lon float64, hub, state string, feasibility int, recommendation, transport string) *FeasibilityAnalyzedEvent {
	return &FeasibilityAnalyzedEvent{
		BaseEvent:        common.NewBaseEvent(kafka.EventFeasibilityAnalyzed, hub),
		Latitude:         lat,
		Longitude:        lon,
		Hub:              hub,
		State:            state,
		FeasibilityScore: feasibility,
		Recommendation:   recommendation,
		Transport:        transport,
	}
}

type PostCreatedEvent struct {
	common.BaseEvent
	PostID        int64  `json:"post_id"`
	UserID        int64  `json:"user_id"`
	CommunityID   int64  `json:"community_id"`
	HasAttachment bool   `json:"has_attachment"`
	AttachmentKey string `json:"attachment_key,omitempty"`
}

func NewPostCreatedEvent(postID, userID, communityID int64, attachmentKey string) *PostCreatedEvent {
	return &PostCreatedEvent{
		BaseEvent:     common.NewBaseEvent(kafka.EventCommunityPostCreated, strconv.FormatInt(communityID, 10)),
		PostID:        postID,
		UserID:        userID,
		CommunityID:   communityID,
		HasAttachment: attachmentKey != "",
		AttachmentKey: attachmentKey,
	}
}

type ReportGeneratedEvent struct {
	common.BaseEvent
	SessionID        int64    `json:"session_id"`
	Location         string   `json:"location"`
	FeasibilityScore *float64 `json:"feasibility_score,omitempty"`
	Technology       string   `json:"technology"`
	ArchiveKey       string   `json:"archive_key,omitempty"`
}

func NewReportGeneratedEvent(sessionID int64, location string, feasibility *float64, technology, archiveKey string) *ReportGeneratedEvent {
	return &ReportGeneratedEvent{
		BaseEvent:        common.NewBaseEvent(kafka.EventAssistantReportGenerated, strconv.FormatInt(sessionID, 10)),
		SessionID:        sessionID,
		Location:         location,
		FeasibilityScore: feasibility,
		Technology:       technology,
		ArchiveKey:       archiveKey,
	}
}

//Personal.AI order the ending
