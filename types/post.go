package types

import "time"

// SourcePost is a normalized inbound chat event. It is built once per
// platform event and never mutated.
type SourcePost struct {
	MessageID   string    // platform-assigned, immutable
	ChannelID   string
	ChannelName string
	Author      string // display name of the poster
	Body        string
	CreatedAt   time.Time
	ReplyToID   string // message id this post replies to, empty if none
	Embed       *Embed // rich preview, nil until the platform attaches one
	IsEdit      bool   // true when the event is a content edit of a seen post
}

// Embed is the platform-generated rich preview attached to a posted link.
// Generation is asynchronous, so any field may be missing.
type Embed struct {
	Title  string
	Author *EmbedAuthor
	URL    string
}

// EmbedAuthor is the author sub-object of an Embed.
type EmbedAuthor struct {
	Name string
}

// EmbedInfo is the flattened view of an Embed used by the parsers.
// Empty strings stand in for missing fields.
type EmbedInfo struct {
	Title  string
	Author string
	Link   string
}
