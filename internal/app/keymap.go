package app

// Key binding constants used in handleKey.
const (
	KeyQuit        = "q"
	KeyCtrlC       = "ctrl+c"
	KeyFocusSearch = "/"
	KeyRefresh     = "r"
	KeyUnitToggle  = "u"
	KeyThemeToggle = "t"
	KeyLocate      = "g"
)
