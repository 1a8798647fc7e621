package itinerary

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistributeSlots(t *testing.T) {
	tests := []struct {
		name   string
		items  []string
		dinner string
		want   Slots
	}{
		{
			name: "empty",
			want: Slots{},
		},
		{
			name:   "only dinner",
			dinner: "火鍋",
			want:   Slots{Evening: "晚餐：火鍋"},
		},
		{
			name:  "odd count rounds into morning",
			items: []string{"a", "b", "c", "d", "e"},
			want:  Slots{Morning: "a\nb\nc", Afternoon: "d\ne"},
		},
		{
			name:  "even count",
			items: []string{"a", "b", "c", "d"},
			want:  Slots{Morning: "a\nb", Afternoon: "c\nd"},
		},
		{
			name:   "evening keywords are pulled out before the split",
			items:  []string{"a", "週日夜市", "b", "Night Market walk", "c"},
			dinner: "河粉",
			want:   Slots{Morning: "a\nb", Afternoon: "c", Evening: "晚餐：河粉\n週日夜市\nNight Market walk"},
		},
		{
			name:  "only evening items",
			items: []string{"夜市"},
			want:  Slots{Evening: "夜市"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DistributeSlots(tt.items, tt.dinner))
		})
	}
}

func TestDistributeSlots_CeilMidpoint(t *testing.T) {
	for n := 0; n <= 9; n++ {
		items := make([]string, n)
		for i := range items {
			items[i] = fmt.Sprintf("item-%d", i)
		}
		s := DistributeSlots(items, "")
		assert.Len(t, segments(s.Morning), (n+1)/2, "n=%d", n)
		assert.Len(t, segments(s.Afternoon), n/2, "n=%d", n)

		joined := strings.Join(append(segments(s.Morning), segments(s.Afternoon)...), ",")
		assert.Equal(t, strings.Join(items, ","), joined, "n=%d", n)
	}
}

func TestIsEveningOnly(t *testing.T) {
	assert.True(t, IsEveningOnly("長康夜市"))
	assert.True(t, IsEveningOnly("Chiang Mai NIGHT BAZAAR"))
	assert.False(t, IsEveningOnly("早市"))
}
