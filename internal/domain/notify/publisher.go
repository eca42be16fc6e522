package notify

import "context"

const (
	TopicEvents = "events"

	TypeEventStatusChanged = "event.status_changed"
	TypeMatchScoreUpdated  = "match.score_updated"
	TypeMatchMapUpdated    = "match.map_updated"
)

// Message is a change notification for real-time subscribers.
type Message struct {
	Topic   string `json:"topic"`
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// Publisher fans messages out to subscribers. Delivery is best effort.
type Publisher interface {
	Publish(ctx context.Context, msg Message)
}

func MatchTopic(matchID string) string {
	return "match:" + matchID
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Message) {}
