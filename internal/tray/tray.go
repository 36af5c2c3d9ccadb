// Package tray implements the daemon's three-command tray surface:
// quit, reload the current profile, and switch to a named profile.
// It is the only GUI-adjacent piece this daemon keeps; there is no
// standalone dashboard window.
package tray

import "github.com/getlantern/systray"

// Commands are the callbacks invoked for each tray command. Nil
// callbacks are treated as no-ops.
type Commands struct {
	Quit          func()
	ReloadCurrent func()
	SwitchProfile func(name string)
}

// Run blocks until the tray is told to quit, driving Commands from
// user clicks. profileNames populates the "switch to profile" submenu;
// order is preserved.
func Run(profileNames []string, cmds Commands) {
	systray.Run(func() { onReady(profileNames, cmds) }, func() {})
}

func onReady(profileNames []string, cmds Commands) {
	systray.SetTitle("phybkc")
	systray.SetTooltip("phybkc daemon")

	mReload := systray.AddMenuItem("Reload Profile", "Reload the active profile")
	mSwitch := systray.AddMenuItem("Switch Profile", "Switch to a different profile")
	switchItems := make(map[string]*systray.MenuItem, len(profileNames))
	for _, name := range profileNames {
		switchItems[name] = mSwitch.AddSubMenuItem(name, "Switch to "+name)
	}
	systray.AddSeparator()
	mQuit := systray.AddMenuItem("Quit", "Quit phybkc")

	for name, item := range switchItems {
		go watchSwitch(item, name, cmds)
	}

	go func() {
		for {
			select {
			case <-mReload.ClickedCh:
				if cmds.ReloadCurrent != nil {
					cmds.ReloadCurrent()
				}
			case <-mQuit.ClickedCh:
				if cmds.Quit != nil {
					cmds.Quit()
				}
				systray.Quit()
				return
			}
		}
	}()
}

func watchSwitch(item *systray.MenuItem, name string, cmds Commands) {
	for range item.ClickedCh {
		if cmds.SwitchProfile != nil {
			cmds.SwitchProfile(name)
		}
	}
}
