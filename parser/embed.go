package parser

import (
	"strings"

	"github.com/ruttadj/discord-dj-bot/types"
)

// topicSuffix is what YouTube appends to the channel name of auto-generated
// artist channels. It is noise, not part of the artist's name.
const topicSuffix = " - Topic"

// ExtractEmbedInfo flattens a rich-preview embed into the title, author, and
// link the pipeline cares about. Embed generation by the platform is racy, so
// any field may be missing; extraction is total and degrades to empty strings
// rather than failing.
func ExtractEmbedInfo(e *types.Embed) types.EmbedInfo {
	if e == nil {
		return types.EmbedInfo{}
	}

	var author string
	if e.Author != nil {
		author = strings.TrimSuffix(e.Author.Name, topicSuffix)
	}

	return types.EmbedInfo{
		Title:  e.Title,
		Author: author,
		Link:   e.URL,
	}
}
