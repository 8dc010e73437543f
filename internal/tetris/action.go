package tetris

import "fmt"

// Action is one of the discrete inputs a player or agent can issue.
type Action int

const (
	ActionShiftLeft Action = iota
	ActionShiftRight
	ActionShiftDown
	ActionRotateCW
	ActionRotateCCW
	ActionRotate180
	ActionHold
	ActionSoftDrop
	ActionHardDrop
)

var actionNames = [...]string{
	ActionShiftLeft:  "shift-left",
	ActionShiftRight: "shift-right",
	ActionShiftDown:  "shift-down",
	ActionRotateCW:   "rotate-cw",
	ActionRotateCCW:  "rotate-ccw",
	ActionRotate180:  "rotate-180",
	ActionHold:       "hold",
	ActionSoftDrop:   "soft-drop",
	ActionHardDrop:   "hard-drop",
}

// AllActions lists every action in declaration order.
func AllActions() []Action {
	out := make([]Action, len(actionNames))
	for i := range actionNames {
		out[i] = Action(i)
	}
	return out
}

func (a Action) String() string {
	if a < 0 || int(a) >= len(actionNames) {
		return fmt.Sprintf("Action(%d)", int(a))
	}
	return actionNames[a]
}

// ParseAction converts an action name such as "rotate-cw" back to an Action.
func ParseAction(s string) (Action, error) {
	for i, name := range actionNames {
		if name == s {
			return Action(i), nil
		}
	}
	return 0, fmt.Errorf("tetris: unknown action %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (a Action) MarshalText() ([]byte, error) {
	if a < 0 || int(a) >= len(actionNames) {
		return nil, fmt.Errorf("tetris: invalid action %d", int(a))
	}
	return []byte(actionNames[a]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Action) UnmarshalText(text []byte) error {
	parsed, err := ParseAction(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
