package moonraker

// Print job states reported by Moonraker's print_stats object.
const (
	StateStandby   = "standby"
	StatePrinting  = "printing"
	StatePaused    = "paused"
	StateComplete  = "complete"
	StateCancelled = "cancelled"
	StateError     = "error"
)

// IsCapturing reports whether position samples should be recorded for state.
// Only an active or paused print produces rows.
func IsCapturing(state string) bool {
	return state == StatePrinting || state == StatePaused
}

// PrintStats mirrors the print_stats printer object.
type PrintStats struct {
	Filename      string  `json:"filename"`
	State         string  `json:"state"`
	TotalDuration float64 `json:"total_duration"`
	PrintDuration float64 `json:"print_duration"`
	Message       string  `json:"message"`
}

// MotionReport mirrors the motion_report printer object.
// LivePosition is [x, y, z, e].
type MotionReport struct {
	LivePosition []float64 `json:"live_position"`
	LiveVelocity float64   `json:"live_velocity"`
}

// Toolhead mirrors the toolhead printer object.
type Toolhead struct {
	HomedAxes string    `json:"homed_axes"`
	Position  []float64 `json:"position"`
}

// Snapshot is the combined result of one status query.
type Snapshot struct {
	Eventtime    float64
	PrintStats   PrintStats
	MotionReport MotionReport
	Toolhead     Toolhead
}
