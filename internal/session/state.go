package session

// State is a step of the respondent flow.
type State int

// Flow states. A session starts in AwaitingRoleAndLocation and ends in
// AlreadyComplete or Done.
const (
	AwaitingRoleAndLocation State = iota
	CheckingExisting
	AlreadyComplete
	Collecting
	Submitting
	Done
)

var stateNames = map[State]string{
	AwaitingRoleAndLocation: "awaiting_role_and_location",
	CheckingExisting:        "checking_existing",
	AlreadyComplete:         "already_complete",
	Collecting:              "collecting",
	Submitting:              "submitting",
	Done:                    "done",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// Complete reports whether s is a terminal state.
func (s State) Complete() bool {
	return s == AlreadyComplete || s == Done
}

// canSelectDirectory reports whether the folder may be replaced in s.
func (s State) canSelectDirectory() bool {
	return s == AwaitingRoleAndLocation || s == CheckingExisting || s == Collecting
}
