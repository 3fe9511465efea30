package selection

// ComponentID names an interactive control of the prompt. The vocabulary is
// closed; anything else received from the platform maps to EventUnknown.
type ComponentID string

const (
	ComponentItemSelect       ComponentID = "item_select"
	ComponentItemPrev         ComponentID = "item_prev"
	ComponentItemNext         ComponentID = "item_next"
	ComponentTargetSelect     ComponentID = "target_select"
	ComponentTargetInputOpen  ComponentID = "target_input_open"
	ComponentTargetInputField ComponentID = "target_input_field"
	ComponentSubmit           ComponentID = "submit"
)

// EventKind discriminates Event.
type EventKind int

const (
	EventUnknown EventKind = iota
	EventItemSelected
	EventPagePrev
	EventPageNext
	EventTargetMemberSelected
	EventOpenTargetInputDialog
	EventTargetTextSubmitted
	EventSubmit
)

var eventKindNames = [...]string{ //nolint:gochecknoglobals // lookup table
	EventUnknown:               "unknown",
	EventItemSelected:          "item_selected",
	EventPagePrev:              "page_prev",
	EventPageNext:              "page_next",
	EventTargetMemberSelected:  "target_member_selected",
	EventOpenTargetInputDialog: "open_target_input_dialog",
	EventTargetTextSubmitted:   "target_text_submitted",
	EventSubmit:                "submit",
}

func (k EventKind) String() string {
	if k < 0 || int(k) >= len(eventKindNames) {
		return "unknown"
	}
	return eventKindNames[k]
}

// Event is one user interaction with the prompt. Value carries the selected
// item id, member id, or submitted text depending on Kind. Raw keeps the
// component id as received, for logging unknown components.
type Event struct {
	Kind  EventKind
	Value string
	Raw   string
}

// ParseEvent maps a platform component id and its value to an Event.
func ParseEvent(componentID, value string) Event {
	ev := Event{Value: value, Raw: componentID}
	switch ComponentID(componentID) {
	case ComponentItemSelect:
		ev.Kind = EventItemSelected
	case ComponentItemPrev:
		ev.Kind = EventPagePrev
	case ComponentItemNext:
		ev.Kind = EventPageNext
	case ComponentTargetSelect:
		ev.Kind = EventTargetMemberSelected
	case ComponentTargetInputOpen:
		ev.Kind = EventOpenTargetInputDialog
	case ComponentTargetInputField:
		ev.Kind = EventTargetTextSubmitted
	case ComponentSubmit:
		ev.Kind = EventSubmit
	default:
		ev.Kind = EventUnknown
	}
	return ev
}
