// Package cmd implements the command-line interface for reelcue.
package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/AlecAivazis/survey/v2"
	"github.com/reelcue-cli/reelcue/color"
	"github.com/reelcue-cli/reelcue/history"
	"github.com/reelcue-cli/reelcue/icon"
	"github.com/reelcue-cli/reelcue/sequence"
	"github.com/reelcue-cli/reelcue/style"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(showsCmd)
	showsCmd.SetOut(os.Stdout)
}

// showsCmd lists the show manifests available in the working directory.
var showsCmd = &cobra.Command{
	Use:   "shows",
	Short: "List the show manifests in the working directory",
	Run: func(cmd *cobra.Command, args []string) {
		manifests := manifestsInCwd()
		if len(manifests) == 0 {
			cmd.Println("no show manifests found")
			return
		}
		sort.Strings(manifests)

		saved, err := history.Get()
		handleErr(err)

		for _, path := range manifests {
			manifest, err := sequence.LoadManifest(path)
			if err != nil {
				cmd.Printf("%s %s %s\n", icon.Get(icon.Fail), path, style.Faint(err.Error()))
				continue
			}

			status := ""
			if record, ok := saved[path]; ok {
				status = style.Faint(fmt.Sprintf("last played at step %d of %d", record.Step+1, record.StepsTotal))
			}

			cmd.Printf(
				"%s %s %s %s\n",
				icon.Get(icon.Show),
				style.Fg(color.Purple)(manifest.Name),
				style.Faint(path),
				status,
			)
		}
	},
}

func init() {
	showsCmd.AddCommand(showsForgetCmd)
}

// showsForgetCmd removes a recorded show run from the localized history.
var showsForgetCmd = &cobra.Command{
	Use:   "forget",
	Short: "Remove a show run from the localized history",
	Run: func(cmd *cobra.Command, args []string) {
		saved, err := history.Get()
		handleErr(err)

		if len(saved) == 0 {
			cmd.Println("history is empty")
			return
		}

		records := lo.Values(saved)
		sort.Slice(records, func(i, j int) bool {
			return records[i].UpdatedAt > records[j].UpdatedAt
		})

		options := lo.Map(records, func(r *history.SavedShow, _ int) string {
			return r.String()
		})

		var selected string
		prompt := survey.Select{
			Message: "Which show run should be forgotten?",
			Options: options,
		}
		handleErr(survey.AskOne(&prompt, &selected))

		record, found := lo.Find(records, func(r *history.SavedShow) bool {
			return r.String() == selected
		})
		if !found {
			return
		}

		var confirmed bool
		confirm := survey.Confirm{
			Message: fmt.Sprintf("Forget %s?", record.Name),
			Default: false,
		}
		handleErr(survey.AskOne(&confirm, &confirmed))

		if !confirmed {
			return
		}

		handleErr(history.Remove(record))
		cmd.Printf("%s forgot %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), record.Name)
	},
}
