package ui

import "github.com/veandco/go-sdl2/sdl"

// ActionForKey maps SDL key presses to panel gestures. Shift selects the
// fine variant of a nudge.
func ActionForKey(key sdl.Keycode, mod uint16) Action {
	fine := mod&sdl.KMOD_SHIFT != 0
	switch key {
	case sdl.K_F1:
		return ActionTogglePanel
	case sdl.K_TAB, sdl.K_DOWN:
		if key == sdl.K_TAB && fine {
			return ActionPrevField
		}
		return ActionNextField
	case sdl.K_UP:
		return ActionPrevField
	case sdl.K_RIGHT, sdl.K_EQUALS, sdl.K_KP_PLUS:
		if fine {
			return ActionIncreaseFine
		}
		return ActionIncrease
	case sdl.K_LEFT, sdl.K_MINUS, sdl.K_KP_MINUS:
		if fine {
			return ActionDecreaseFine
		}
		return ActionDecrease
	case sdl.K_BACKSPACE, sdl.K_r:
		return ActionReset
	}
	return ActionNone
}
