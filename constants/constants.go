package constants

import "os"

// TicksPerBeat is the number of quantized ticks in a quarter note.
const TicksPerBeat = 480

// SixteenthNoteTicks is the default length of a freshly placed target.
const SixteenthNoteTicks = TicksPerBeat / 4

// BeatsPerMeasure assumes 4/4 for measure math done on the tick grid.
const BeatsPerMeasure = 4

const DefaultBPM = 120.0

func GetOutDir() string {
	path := os.Getenv("CUEGRID_OUT_PATH")
	if path != "" {
		return path
	}
	return "./out"
}

func GetLogLevel() string {
	level := os.Getenv("CUEGRID_LOG_LEVEL")
	if level != "" {
		return level
	}
	return "INFO"
}

func GetAddr() string {
	addr := os.Getenv("CUEGRID_ADDR")
	if addr != "" {
		return addr
	}
	return ":8080"
}

// SnapshotFilename is the gob dump written by `import` and `serve`.
const SnapshotFilename = "chart.dat"
