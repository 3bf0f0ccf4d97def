package trace

// TraceLevel controls the verbosity of breakpoint tracing.
type TraceLevel string

const (
	// TraceLevelNone keeps counters only; no Breakpoint records are stored.
	TraceLevelNone TraceLevel = "none"
	// TraceLevelBreakpoints stores every Breakpoint record.
	TraceLevelBreakpoints TraceLevel = "breakpoints"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:        true,
	TraceLevelBreakpoints: true,
	"":                    true, // empty defaults to breakpoints
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// DriftTrace collects the breakpoints of one drift session.
type DriftTrace struct {
	Level       TraceLevel
	Start       []float64 // workload coordinates where the session started
	Initial     int       // plane optimal at Start
	Final       int       // plane optimal when the session stopped
	Travelled   float64   // total drift distance walked
	Switches    int       // number of breakpoints crossed, recorded or not
	Stopped     Termination
	Breakpoints []Breakpoint
}

// NewDriftTrace creates a DriftTrace ready for recording.
func NewDriftTrace(level TraceLevel, start []float64, initial int) *DriftTrace {
	if level == "" {
		level = TraceLevelBreakpoints
	}
	s := make([]float64, len(start))
	copy(s, start)
	return &DriftTrace{
		Level:       level,
		Start:       s,
		Initial:     initial,
		Final:       initial,
		Breakpoints: make([]Breakpoint, 0),
	}
}

// Record appends a breakpoint and advances Final and Travelled.
func (dt *DriftTrace) Record(b Breakpoint) {
	dt.Switches++
	dt.Final = b.To
	dt.Travelled = b.Offset
	if dt.Level == TraceLevelNone {
		return
	}
	dt.Breakpoints = append(dt.Breakpoints, b)
}

// Stop marks the trace finished after travelling a total of travelled units.
func (dt *DriftTrace) Stop(reason Termination, travelled float64) {
	dt.Stopped = reason
	dt.Travelled = travelled
}
