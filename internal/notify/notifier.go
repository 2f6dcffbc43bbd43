// Package notify formats stock deltas and snapshot listings into
// size-bounded notification batches and delivers them to a message-posting
// endpoint.
package notify

import (
	"context"
	"errors"
)

// Discord's hard limits: at most 10 embeds per webhook message and roughly
// 6000 characters of rendered embed text.
const (
	MaxEmbedsPerMessage = 10
	MaxMessageChars     = 6000
)

// ErrPostFailed wraps delivery failures. Posting is non-fatal: callers log
// and continue the cycle.
var ErrPostFailed = errors.New("notification post failed")

// Field is one name/value pair inside an embed.
type Field struct {
	Name   string
	Value  string
	Inline bool
}

// Embed is one message unit: a titled, colored block describing a single
// store's stock state or change.
type Embed struct {
	Title       string
	Color       int
	Description string
	Fields      []Field
}

// chars returns the rendered character count used against MaxMessageChars.
func (e *Embed) chars() int {
	n := len(e.Title) + len(e.Description)
	for _, f := range e.Fields {
		n += len(f.Name) + len(f.Value)
	}
	return n
}

// Message is one outgoing webhook post: optional plain-text content plus up
// to MaxEmbedsPerMessage embeds.
type Message struct {
	Content string
	Embeds  []Embed
}

// Batch is an ordered sequence of messages produced from one reconciliation
// cycle. An empty batch means nothing should be posted.
type Batch []Message

// Poster defines the message-posting endpoint.
type Poster interface {
	Post(ctx context.Context, msg Message) error
}

// groupEmbeds packs embeds into messages greedily in input order: the
// current message is filled until adding the next embed would exceed the
// embed-count or character limit, then a new message starts. A single
// oversized embed still gets its own message.
func groupEmbeds(embeds []Embed) Batch {
	if len(embeds) == 0 {
		return Batch{}
	}

	var batch Batch
	var current Message
	var chars int

	for _, e := range embeds {
		size := e.chars()
		full := len(current.Embeds) >= MaxEmbedsPerMessage ||
			(len(current.Embeds) > 0 && chars+size > MaxMessageChars)
		if full {
			batch = append(batch, current)
			current = Message{}
			chars = 0
		}
		current.Embeds = append(current.Embeds, e)
		chars += size
	}

	return append(batch, current)
}
