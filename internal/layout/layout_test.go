package layout

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresetsValidate(t *testing.T) {
	for name, build := range Presets {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, build().Validate())
		})
	}
}

func TestOperableKeepsLayoutOrder(t *testing.T) {
	l := SingleStation()
	l.Blocks[2].CanOperateFromStop = false
	assert.Equal(t, []BlockName{"station", "lift", "mid lift", "helix", "brake"}, l.Operable())
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(l *Layout)
		want   error
	}{
		{"duplicate name", func(l *Layout) { l.Blocks[1].Name = "station 1" }, ErrDuplicateBlock},
		{"unknown next block", func(l *Layout) { l.Blocks[3].NextBlock = "nowhere" }, ErrUnknownBlock},
		{"negative reach", func(l *Layout) { l.Blocks[3].SecondsToReachBlock = Secs(-1) }, ErrInvalidTiming},
		{"hold without time", func(l *Layout) { l.Blocks[0].HoldTime = nil }, ErrInvalidTiming},
		{"unknown merger inbound", func(l *Layout) { l.Blocks[2].Merger.BlockB = "station 3" }, ErrUnknownBlock},
		{"merger same inbound", func(l *Layout) { l.Blocks[2].Merger.BlockB = "station 1" }, ErrInvalidMerger},
		{"merger partner without splitter", func(l *Layout) { l.Blocks[2].Merger.CorrespondingSplitterBlock = "gravity 1" }, ErrInvalidMerger},
		{"unknown merger partner", func(l *Layout) { l.Blocks[2].Merger.CorrespondingSplitterBlock = "brake" }, ErrUnknownBlock},
		{"splitter next mismatch", func(l *Layout) { l.Blocks[6].NextBlock = "lift 1" }, ErrInvalidSplitter},
		{"unknown splitter outbound", func(l *Layout) { l.Blocks[6].Splitter.BlockB = "station 3" }, ErrUnknownBlock},
		{"splitter partner without merger", func(l *Layout) { l.Blocks[6].Splitter.CorrespondingMergerBlock = "gravity 2" }, ErrInvalidSplitter},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := DualStation()
			tt.mutate(&l)
			assert.ErrorIs(t, l.Validate(), tt.want)
		})
	}
}

func TestDecodeNotApplicableTimings(t *testing.T) {
	const doc = `{"blocks": [
		{"name": "station", "next_block": "lift", "seconds_to_reach_block": 8,
		 "seconds_to_clear_from_held": 6, "seconds_to_clear_block_in_motion": null,
		 "can_operate_from_stop": true, "mandatory_hold": true, "hold_time": 38},
		{"name": "lift", "next_block": "station", "seconds_to_reach_block": 18,
		 "seconds_to_clear_from_held": 8, "seconds_to_clear_block_in_motion": 7,
		 "can_operate_from_stop": true, "mandatory_hold": false, "hold_time": null}
	]}`

	var l Layout
	require.NoError(t, json.Unmarshal([]byte(doc), &l))
	require.NoError(t, l.Validate())

	require.Len(t, l.Blocks, 2)
	st := l.Blocks[0]
	assert.Nil(t, st.SecondsToClearBlockInMotion)
	assert.Equal(t, 0, Seconds(st.SecondsToClearBlockInMotion))
	assert.Equal(t, 38, Seconds(st.HoldTime))
	assert.Nil(t, st.Merger)
	assert.Nil(t, st.Splitter)
}
