// Package main is the entry point for the reelcue application.
package main

import (
	"github.com/reelcue-cli/reelcue/cmd"
	"github.com/reelcue-cli/reelcue/config"
	"github.com/reelcue-cli/reelcue/log"
	"github.com/samber/lo"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	cmd.Execute()
}
