// Package cmd implements the command-line interface for reelcue.
package cmd

import (
	"fmt"
	"os"
	"sort"
	"strings"

	cc "github.com/ivanpirog/coloredcobra"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/reelcue-cli/reelcue/color"
	"github.com/reelcue-cli/reelcue/constant"
	"github.com/reelcue-cli/reelcue/filesystem"
	"github.com/reelcue-cli/reelcue/icon"
	"github.com/reelcue-cli/reelcue/key"
	"github.com/reelcue-cli/reelcue/log"
	"github.com/reelcue-cli/reelcue/style"
	"github.com/reelcue-cli/reelcue/tui"
	"github.com/reelcue-cli/reelcue/version"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")
	rootCmd.Flags().BoolP("continue", "c", false, "Reopen the most recently played show from history")

	rootCmd.PersistentFlags().StringP("icons", "I", "", "Set the visual icon variant (e.g., nerd, emoji, plain)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return icon.AvailableVariants(), cobra.ShellCompDirectiveDefault
	}))
	lo.Must0(viper.BindPFlag(key.IconsVariant, rootCmd.PersistentFlags().Lookup("icons")))

	rootCmd.PersistentFlags().BoolP("write-history", "H", true, "Persist the reached step to the localized show history")
	lo.Must0(viper.BindPFlag(key.HistorySaveOnPlay, rootCmd.PersistentFlags().Lookup("write-history")))

	rootCmd.Flags().IntP("settle", "s", 0, "Override the transition settle window in milliseconds")
	lo.Must0(viper.BindPFlag(key.PlayerSettleMs, rootCmd.Flags().Lookup("settle")))

	helpFunc := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		helpFunc(cmd, args)
		version.Notify()
	})
}

// rootCmd defines the entry point for the reelcue application.
var rootCmd = &cobra.Command{
	Use:   constant.ReelCue + " [manifest]",
	Short: "A dual-buffer playback console for seamless cue-driven video shows",
	Long: constant.AsciiArtLogo + "\n" +
		style.New().Italic(true).Foreground(color.HiRed).Render("    - A dual-buffer playback console for seamless cue-driven video shows"),
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.Run(versionCmd, args)
			return
		}

		CheckDependencies()

		options := tui.Options{
			Continue: lo.Must(cmd.Flags().GetBool("continue")),
		}

		if len(args) > 0 {
			manifest := args[0]
			if exists, err := filesystem.API().Exists(manifest); err == nil && !exists {
				handleErr(errManifestNotFound(manifest))
			}
			options.ManifestPath = manifest
		}

		handleErr(tui.Run(&options))
	},
}

// errManifestNotFound suggests the closest manifest in the working directory
// when the named one does not exist.
func errManifestNotFound(path string) error {
	msg := fmt.Sprintf("show manifest %s not found", style.Fg(color.Red)(path))

	if matches := fuzzy.RankFindFold(path, manifestsInCwd()); len(matches) > 0 {
		sort.Sort(matches)
		msg += fmt.Sprintf(", did you mean %s?", style.Fg(color.Yellow)(matches[0].Target))
	}

	return fmt.Errorf("%s", msg)
}

// manifestsInCwd lists the candidate show manifests in the working directory.
func manifestsInCwd() []string {
	files, err := filesystem.API().ReadDir(".")
	if err != nil {
		return nil
	}

	var manifests []string
	for _, f := range files {
		if !f.IsDir() && strings.HasSuffix(f.Name(), ".json") {
			manifests = append(manifests, f.Name())
		}
	}
	return manifests
}

// Execute initializes child command routing and processes the CLI entry point.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func handleErr(err error) {
	if err != nil {
		log.Error(err)
		_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Fail), strings.Trim(err.Error(), " \n"))
		os.Exit(1)
	}
}
