// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package flipbook

// Key names follow the DOM KeyboardEvent.key values sent by clients.
const (
	KeyArrowRight = "ArrowRight"
	KeyArrowDown  = "ArrowDown"
	KeyArrowLeft  = "ArrowLeft"
	KeyArrowUp    = "ArrowUp"
	KeySpace      = " "
	KeyHome       = "Home"
	KeyEnd        = "End"
)

// HandleKey applies a navigation key. Keys are ignored while a flip is in
// flight. It reports whether the key was a navigation key.
func (n *Navigator) HandleKey(key string) bool {
	switch key {
	case KeyArrowRight, KeyArrowDown, KeySpace, "Space":
		if !n.IsFlipping() {
			n.Next()
		}
	case KeyArrowLeft, KeyArrowUp:
		if !n.IsFlipping() {
			n.Prev()
		}
	case KeyHome:
		if !n.IsFlipping() {
			n.GoTo(0)
		}
	case KeyEnd:
		if !n.IsFlipping() {
			n.GoTo(n.Len() - 1)
		}
	default:
		return false
	}
	return true
}
