// Package ui adapts input gestures into Control Surface calls. Adapters hold
// no parameter state of their own; every write goes through params.Set so it
// is clamped and snapped like any other.
package ui

import (
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/Faultbox/seascape/internal/params"
)

// Action is a keyboard gesture the panel understands.
type Action int

const (
	ActionNone Action = iota
	ActionTogglePanel
	ActionNextField
	ActionPrevField
	ActionIncrease
	ActionDecrease
	ActionIncreaseFine
	ActionDecreaseFine
	ActionReset
)

// coarse is how many steps a plain nudge moves.
const coarse = 10

// Keyboard is a panel driven entirely from the keyboard, for hosts without a
// widget toolkit. Nudges apply only while the panel is visible.
type Keyboard struct {
	set    *params.Set
	fields []params.Field
	cursor int
	log    *zap.Logger
}

// NewKeyboard binds a keyboard panel to set. Only scalar fields are
// reachable; colors need a picker.
func NewKeyboard(set *params.Set, log *zap.Logger) *Keyboard {
	if log == nil {
		log = zap.NewNop()
	}
	var scalars []params.Field
	for _, f := range params.Fields() {
		if f.Kind == params.KindScalar {
			scalars = append(scalars, f)
		}
	}
	return &Keyboard{set: set, fields: scalars, log: log}
}

// Selected returns the field nudges apply to.
func (k *Keyboard) Selected() params.Field {
	return k.fields[k.cursor]
}

// Handle applies a gesture. It reports whether anything changed.
func (k *Keyboard) Handle(a Action) bool {
	if a == ActionTogglePanel {
		visible := k.set.ToggleVisible()
		k.log.Debug("panel toggled", zap.Bool("visible", visible))
		return true
	}
	if !k.set.Visible() {
		return false
	}

	f := k.Selected()
	switch a {
	case ActionNextField:
		k.cursor = (k.cursor + 1) % len(k.fields)
	case ActionPrevField:
		k.cursor = (k.cursor + len(k.fields) - 1) % len(k.fields)
	case ActionIncrease:
		return k.nudge(f, coarse)
	case ActionDecrease:
		return k.nudge(f, -coarse)
	case ActionIncreaseFine:
		return k.nudge(f, 1)
	case ActionDecreaseFine:
		return k.nudge(f, -1)
	case ActionReset:
		return k.write(f, f.Default)
	default:
		return false
	}
	return true
}

func (k *Keyboard) nudge(f params.Field, steps int) bool {
	cur, err := k.set.Get(f.Name)
	if err != nil {
		return false
	}
	return k.write(f, cur+float32(steps)*f.Step)
}

func (k *Keyboard) write(f params.Field, v float32) bool {
	before, _ := k.set.Get(f.Name)
	after, err := k.set.Set(f.Name, v)
	if err != nil {
		k.log.Warn("panel write rejected", zap.String("field", f.Name), zap.Error(err))
		return false
	}
	return after != before
}

// Status describes the selected field, or "" while the panel is hidden.
func (k *Keyboard) Status() string {
	if !k.set.Visible() {
		return ""
	}
	f := k.Selected()
	v, _ := k.set.Get(f.Name)
	return fmt.Sprintf("%s = %s  [%d/%d]", f.Name, FormatValue(v, f.Step), k.cursor+1, len(k.fields))
}

// Decimals returns how many fractional digits step needs, e.g. 2 for 0.01.
func Decimals(step float32) int {
	d := 0
	for s := float64(step); s > 0 && s < 1 && d < 6; d++ {
		s *= 10
		if s >= 0.999 {
			return d + 1
		}
	}
	return d
}

// FormatValue renders v with the precision its step implies.
func FormatValue(v, step float32) string {
	return strconv.FormatFloat(float64(v), 'f', Decimals(step), 32)
}

// SliderFormat is the printf format for a slider with the given step.
func SliderFormat(step float32) string {
	return "%." + strconv.Itoa(Decimals(step)) + "f"
}
