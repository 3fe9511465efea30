package selection_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gosuda/emotebot/internal/selection"
)

func TestParseEvent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		componentID string
		want        selection.EventKind
	}{
		{"item_select", selection.EventItemSelected},
		{"item_prev", selection.EventPagePrev},
		{"item_next", selection.EventPageNext},
		{"target_select", selection.EventTargetMemberSelected},
		{"target_input_open", selection.EventOpenTargetInputDialog},
		{"target_input_field", selection.EventTargetTextSubmitted},
		{"submit", selection.EventSubmit},
		{"switch_to_select", selection.EventUnknown},
		{"", selection.EventUnknown},
	}

	for _, tc := range tests {
		t.Run(tc.componentID, func(t *testing.T) {
			t.Parallel()

			ev := selection.ParseEvent(tc.componentID, "v")
			assert.Equal(t, tc.want, ev.Kind)
			assert.Equal(t, "v", ev.Value)
			assert.Equal(t, tc.componentID, ev.Raw)
		})
	}
}

func TestEventKind_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "page_next", selection.EventPageNext.String())
	assert.Equal(t, "unknown", selection.EventKind(99).String())
}
