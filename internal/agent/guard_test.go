package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLooksLikeRawData(t *testing.T) {
	tests := []struct {
		name   string
		answer string
		want   bool
	}{
		{
			name:   "plain sentence",
			answer: "You have 2 events today: Standup and Dentist.",
			want:   false,
		},
		{
			name:   "empty answer",
			answer: "",
			want:   false,
		},
		{
			name:   "json object",
			answer: `{"id":"evt_1","title":"Standup"}`,
			want:   true,
		},
		{
			name:   "json array",
			answer: `[{"id":"evt_1"},{"id":"evt_2"}]`,
			want:   true,
		},
		{
			name:   "json with surrounding whitespace",
			answer: "  \n[{\"id\":\"evt_1\"}]\n",
			want:   true,
		},
		{
			name:   "brace prefix but not json",
			answer: "{not actually json",
			want:   false,
		},
		{
			name:   "epoch timestamp in sentence",
			answer: "Your event starts at 1700000000.",
			want:   true,
		},
		{
			name:   "nine digit number",
			answer: "The answer is 170000000.",
			want:   false,
		},
		{
			name:   "eleven digit number",
			answer: "Reference 17000000000 for details.",
			want:   false,
		},
		{
			name:   "ten digits beyond epoch range",
			answer: "Serial 9999999999 registered.",
			want:   false,
		},
		{
			name:   "ten digits with leading zero",
			answer: "Code 0123456789 accepted.",
			want:   false,
		},
		{
			name:   "date and clock time",
			answer: "Your event is on 2026-08-23 at 14:30.",
			want:   false,
		},
		{
			name:   "epoch inside longer text",
			answer: "I found these events: Standup (1700000000) and Dentist.",
			want:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, looksLikeRawData(tt.answer))
		})
	}
}
