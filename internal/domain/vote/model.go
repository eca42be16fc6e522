package vote

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Kind is the closed set of content that accepts votes.
type Kind string

const (
	KindThread       Kind = "thread"
	KindPost         Kind = "post"
	KindNews         Kind = "news"
	KindNewsComment  Kind = "news_comment"
	KindMatchComment Kind = "match_comment"
)

const (
	TypeUpvote   = "upvote"
	TypeDownvote = "downvote"
)

// Action reports what ApplyVote did to the caller's vote.
type Action string

const (
	ActionCreated Action = "created"
	ActionRemoved Action = "removed"
	ActionChanged Action = "changed"
)

var (
	ErrUnknownKind = errors.New("unknown votable kind")
	ErrUnknownType = errors.New("unknown vote type")
)

func ParseKind(value string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "thread", "forum_thread":
		return KindThread, nil
	case "post", "forum_post":
		return KindPost, nil
	case "news":
		return KindNews, nil
	case "news_comment":
		return KindNewsComment, nil
	case "match_comment":
		return KindMatchComment, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, value)
	}
}

func ParseType(value string) (string, error) {
	switch t := strings.ToLower(strings.TrimSpace(value)); t {
	case TypeUpvote, TypeDownvote:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownType, value)
	}
}

// Target identifies one votable item.
type Target struct {
	Kind Kind
	ID   string
}

func (t Target) String() string {
	return string(t.Kind) + ":" + t.ID
}

type Vote struct {
	UserID    string
	Target    Target
	Type      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Counts struct {
	Upvotes   int
	Downvotes int
}

func (c Counts) Total() int {
	return c.Upvotes + c.Downvotes
}

func (c Counts) Score() int {
	return c.Upvotes - c.Downvotes
}

// Decide toggles: no vote creates, the same type removes, the other type
// changes.
func Decide(existing *Vote, requested string) Action {
	switch {
	case existing == nil:
		return ActionCreated
	case existing.Type == requested:
		return ActionRemoved
	default:
		return ActionChanged
	}
}
