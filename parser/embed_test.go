package parser

import (
	"testing"

	"github.com/ruttadj/discord-dj-bot/types"
)

func Test_ExtractEmbedInfo(t *testing.T) {
	tests := []struct {
		name  string
		embed *types.Embed
		want  types.EmbedInfo
	}{
		{
			name:  "nil embed",
			embed: nil,
			want:  types.EmbedInfo{},
		},
		{
			name: "full embed",
			embed: &types.Embed{
				Title:  "Paranoid Android",
				Author: &types.EmbedAuthor{Name: "Radiohead"},
				URL:    "https://www.youtube.com/watch?v=fHiGbolFFGw",
			},
			want: types.EmbedInfo{
				Title:  "Paranoid Android",
				Author: "Radiohead",
				Link:   "https://www.youtube.com/watch?v=fHiGbolFFGw",
			},
		},
		{
			name: "topic suffix stripped",
			embed: &types.Embed{
				Title:  "Weird Fishes",
				Author: &types.EmbedAuthor{Name: "Radiohead - Topic"},
				URL:    "https://www.youtube.com/watch?v=pTV2vXxfczU",
			},
			want: types.EmbedInfo{
				Title:  "Weird Fishes",
				Author: "Radiohead",
				Link:   "https://www.youtube.com/watch?v=pTV2vXxfczU",
			},
		},
		{
			name: "suffix only trimmed at the end",
			embed: &types.Embed{
				Author: &types.EmbedAuthor{Name: "Topic - Band"},
			},
			want: types.EmbedInfo{Author: "Topic - Band"},
		},
		{
			name:  "missing author",
			embed: &types.Embed{Title: "Untitled"},
			want:  types.EmbedInfo{Title: "Untitled"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractEmbedInfo(tt.embed); got != tt.want {
				t.Errorf("ExtractEmbedInfo() = %v, want %v", got, tt.want)
			}
		})
	}
}
