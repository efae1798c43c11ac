package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmail_UnmarshalWireFormat(t *testing.T) {
	payload := `{
		"id": 12,
		"sender": "Bob <bob@example.com>",
		"subject": "Meeting notes",
		"body": "see attached",
		"category": "Meeting",
		"timestamp": "2024-03-04 09:30:00",
		"is_read": 0,
		"is_processed": 1
	}`

	var e Email
	require.NoError(t, json.Unmarshal([]byte(payload), &e))

	assert.Equal(t, int64(12), e.ID)
	assert.False(t, bool(e.IsRead))
	assert.True(t, bool(e.IsProcessed))
	assert.Equal(t, time.Date(2024, 3, 4, 9, 30, 0, 0, time.UTC), e.Timestamp.Time)
}

func TestFlag_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		raw      string
		expected bool
		wantErr  bool
	}{
		{"true", true, false},
		{"false", false, false},
		{"1", true, false},
		{"0", false, false},
		{"null", false, false},
		{`"true"`, true, false},
		{"2", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			var f Flag
			err := json.Unmarshal([]byte(tt.raw), &f)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, bool(f))
		})
	}
}

func TestTime_UnmarshalJSON(t *testing.T) {
	var ts Time
	require.NoError(t, json.Unmarshal([]byte(`"2024-03-04T09:30:00Z"`), &ts))
	assert.Equal(t, 2024, ts.Year())

	require.NoError(t, json.Unmarshal([]byte(`null`), &ts))
	assert.True(t, ts.IsZero())

	// 无法识别的格式不报错
	require.NoError(t, json.Unmarshal([]byte(`"yesterday"`), &ts))
	assert.True(t, ts.IsZero())

	out, err := json.Marshal(Time{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(out))
}

func TestChatReply_UnmarshalJSON(t *testing.T) {
	var r ChatReply
	require.NoError(t, json.Unmarshal([]byte(`{"reply":"You have 2 urgent emails."}`), &r))
	assert.Equal(t, "You have 2 urgent emails.", r.Reply)

	require.NoError(t, json.Unmarshal([]byte(`"plain answer"`), &r))
	assert.Equal(t, "plain answer", r.Reply)

	require.NoError(t, json.Unmarshal([]byte(`{"answer":42}`), &r))
	assert.Equal(t, `{"answer":42}`, r.Reply)
}

func TestEmail_CategoryOrDefault(t *testing.T) {
	assert.Equal(t, UncategorizedLabel, Email{}.CategoryOrDefault())
	assert.Equal(t, CategorySpam, Email{Category: CategorySpam}.CategoryOrDefault())
	assert.True(t, Email{Category: CategoryToDo}.NeedsAttention())
	assert.False(t, Email{Category: CategoryNewsletter}.NeedsAttention())
}
