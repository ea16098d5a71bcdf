package session

// State is where a Session is in its read, parse, generate cycle.
type State int

const (
	Idle State = iota
	Reading
	Parsed
	ParseFailed
	Generated
	GenFailed
)

var stateNames = [...]string{
	Idle:        "idle",
	Reading:     "reading",
	Parsed:      "parsed",
	ParseFailed: "parse-failed",
	Generated:   "generated",
	GenFailed:   "gen-failed",
}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}
