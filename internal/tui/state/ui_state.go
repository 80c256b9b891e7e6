package state

import (
	"github.com/charmbracelet/bubbles/viewport"
)

// Mode is what the keyboard currently drives.
type Mode int

const (
	// ModeList navigates and selects rows.
	ModeList Mode = iota
	// ModeSearch edits the search query.
	ModeSearch
	// ModePush edits the push notification form.
	ModePush
	// ModeCreate edits the new client form.
	ModeCreate
)

// UIState manages the screen state that is not part of the roster: viewport
// size, cursor position and input mode.
type UIState struct {
	viewport viewport.Model
	width    int
	height   int
	cursor   int
	mode     Mode
}

// NewUIState creates a new UIState instance with default values.
func NewUIState() *UIState {
	return &UIState{
		viewport: viewport.New(defaultViewportWidth, defaultViewportHeight-chromeLines),
		width:    defaultViewportWidth,
		height:   defaultViewportHeight,
	}
}

// GetViewport returns the current viewport model.
func (u *UIState) GetViewport() *viewport.Model {
	return &u.viewport
}

func (u *UIState) GetWidth() int {
	return u.width
}

// SetWidth updates the width of the UI.
func (u *UIState) SetWidth(width int) {
	u.width = width
	if width <= 0 {
		u.width = defaultViewportWidth
	}
}

func (u *UIState) GetHeight() int {
	return u.height
}

// SetHeight updates the height of the UI.
func (u *UIState) SetHeight(height int) {
	u.height = height
	if height <= 0 {
		u.height = defaultViewportHeight
	}
}

// UpdateViewportSize resizes the viewport to the space left by the header,
// banner and footer.
func (u *UIState) UpdateViewportSize() {
	viewportHeight := u.height - chromeLines
	if viewportHeight < 1 {
		viewportHeight = 1
	}
	u.viewport.Width = u.width
	u.viewport.Height = viewportHeight
}

func (u *UIState) GetCursor() int {
	return u.cursor
}

// SetCursor updates the cursor position, clamped to [0, listLen).
func (u *UIState) SetCursor(cursor, listLen int) {
	if cursor >= listLen {
		cursor = listLen - 1
	}
	if cursor < 0 {
		cursor = 0
	}
	u.cursor = cursor
}

// ResetCursor moves the cursor to the first row.
func (u *UIState) ResetCursor() {
	u.cursor = 0
	u.viewport.GotoTop()
}

// EnsureCursorVisible scrolls the viewport so the cursor row is shown.
func (u *UIState) EnsureCursorVisible(listLen int) {
	if listLen == 0 {
		return
	}
	height := u.viewport.Height
	if height <= 0 {
		return
	}
	top := u.viewport.YOffset
	switch {
	case u.cursor < top:
		u.viewport.SetYOffset(u.cursor)
	case u.cursor >= top+height:
		u.viewport.SetYOffset(u.cursor - height + 1)
	}
}

func (u *UIState) GetMode() Mode {
	return u.mode
}

// SetMode switches the input mode.
func (u *UIState) SetMode(mode Mode) {
	u.mode = mode
}
