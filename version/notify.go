// Package version provides unified mechanisms for application version tracking, update discovery, and compatibility validation.
package version

import (
	"fmt"

	"github.com/reelcue-cli/reelcue/color"
	"github.com/reelcue-cli/reelcue/constant"
	"github.com/reelcue-cli/reelcue/icon"
	"github.com/reelcue-cli/reelcue/key"
	"github.com/reelcue-cli/reelcue/style"
	"github.com/reelcue-cli/reelcue/util"
	"github.com/spf13/viper"
)

// UpdateAvailable reports whether latest denotes a strictly newer version
// than current. Unparseable versions never trip the notice.
func UpdateAvailable(current, latest string) bool {
	comp, err := Compare(latest, current)
	return err == nil && comp > 0
}

// Notify displays a terminal alert if a more recent stable application version is available.
func Notify() {
	if !viper.GetBool(key.CliVersionCheck) {
		return
	}

	erase := util.PrintErasable(fmt.Sprintf("%s Checking if new version is available...", icon.Get(icon.Progress)))
	latest, err := Latest()
	erase()
	if err != nil || !UpdateAvailable(constant.Version, latest) {
		return
	}

	fmt.Printf(`
%s New version is available %s %s
%s

`,
		style.Fg(color.Green)("▇▇▇"),
		style.Bold(latest),
		style.Faint(fmt.Sprintf("(You're on %s)", constant.Version)),
		style.Faint("https://github.com/reelcue-cli/reelcue/releases/tag/v"+latest),
	)
}
