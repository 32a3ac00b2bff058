package layout

// DualStation is a seven-block coaster with two load stations that feed a
// shared lift through a merger, and a brake run that alternates returning
// trains between the stations.
func DualStation() Layout {
	station := func(name BlockName) BlockSpec {
		return BlockSpec{
			Name:                   name,
			NextBlock:              "lift 1",
			SecondsToReachBlock:    Secs(8),
			SecondsToClearFromHeld: Secs(6),
			CanOperateFromStop:     true,
			MandatoryHold:          true,
			HoldTime:               Secs(38),
		}
	}
	return Layout{Blocks: []BlockSpec{
		station("station 1"),
		station("station 2"),
		{
			Name:                        "lift 1",
			NextBlock:                   "gravity 1",
			SecondsToReachBlock:         Secs(18),
			SecondsToClearFromHeld:      Secs(8),
			SecondsToClearBlockInMotion: Secs(7),
			CanOperateFromStop:          true,
			Merger: &MergerSpec{
				BlockA:                     "station 1",
				BlockB:                     "station 2",
				SecondsToClearMerger:       2,
				SecondsMergerToBlock:       16,
				CorrespondingSplitterBlock: "final block 1",
			},
		},
		motionBlock("gravity 1", "lift 2", 30, 6, 3),
		motionBlock("lift 2", "gravity 2", 20, 8, 7),
		motionBlock("gravity 2", "final block 1", 22, 6, 3),
		{
			Name:                        "final block 1",
			NextBlock:                   "station 1",
			SecondsToReachBlock:         Secs(8),
			SecondsToClearFromHeld:      Secs(6),
			SecondsToClearBlockInMotion: Secs(3),
			CanOperateFromStop:          true,
			Splitter: &SplitterSpec{
				BlockA:                   "station 1",
				BlockB:                   "station 2",
				CorrespondingMergerBlock: "lift 1",
			},
		},
	}}
}

// SingleStation is a six-block loop with one station and no switches.
func SingleStation() Layout {
	return Layout{Blocks: []BlockSpec{
		{
			Name:                   "station",
			NextBlock:              "lift",
			SecondsToReachBlock:    Secs(8),
			SecondsToClearFromHeld: Secs(6),
			CanOperateFromStop:     true,
			MandatoryHold:          true,
			HoldTime:               Secs(38),
		},
		motionBlock("lift", "first drop", 18, 8, 7),
		motionBlock("first drop", "mid lift", 30, 6, 3),
		motionBlock("mid lift", "helix", 20, 8, 7),
		motionBlock("helix", "brake", 22, 6, 3),
		motionBlock("brake", "station", 8, 6, 3),
	}}
}

func motionBlock(name, next BlockName, reach, clearHeld, clearMotion int) BlockSpec {
	return BlockSpec{
		Name:                        name,
		NextBlock:                   next,
		SecondsToReachBlock:         Secs(reach),
		SecondsToClearFromHeld:      Secs(clearHeld),
		SecondsToClearBlockInMotion: Secs(clearMotion),
		CanOperateFromStop:          true,
	}
}

// Presets maps the names accepted by the CLI to the built-in layouts.
var Presets = map[string]func() Layout{
	"dual-station":   DualStation,
	"single-station": SingleStation,
}
