package config

// BuiltinApps returns the apps every desktop starts with. User entries with
// the same url replace them.
func BuiltinApps() []App {
	return []App{
		{
			Name:          "About",
			URL:           "/about",
			Icon:          "i",
			Kind:          KindAbout,
			DefaultLeft:   32,
			DefaultTop:    32,
			DefaultWidth:  400,
			DefaultHeight: 192,
		},
		{
			Name:          "Notes",
			URL:           "/notes",
			Icon:          "✎",
			Kind:          KindNotes,
			DefaultLeft:   160,
			DefaultTop:    96,
			DefaultWidth:  480,
			DefaultHeight: 288,
		},
		{
			Name:          "Launcher",
			URL:           "/launcher",
			Icon:          "☰",
			Title:         "Open app",
			Kind:          KindLauncher,
			DefaultLeft:   96,
			DefaultTop:    64,
			DefaultWidth:  320,
			DefaultHeight: 256,
		},
		{
			Name:          "Help",
			URL:           "/help",
			Icon:          "?",
			Kind:          KindText,
			Text:          helpText,
			Tabs:          []string{"Mouse", "Keys"},
			DefaultLeft:   240,
			DefaultTop:    128,
			DefaultWidth:  440,
			DefaultHeight: 240,
		},
	}
}

const helpText = `Drag a title bar to move a window.
Drag an edge or corner to resize it.
[x] closes, [_] minimizes, [+] maximizes.
Click a minimized window in the taskbar to restore it.
ctrl+l opens the launcher, ctrl+c quits.`
