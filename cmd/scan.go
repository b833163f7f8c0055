package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/AlecAivazis/survey/v2"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/tunedeck/tunedeck/catalog"
	"github.com/tunedeck/tunedeck/color"
	"github.com/tunedeck/tunedeck/icon"
	"github.com/tunedeck/tunedeck/style"
	"github.com/tunedeck/tunedeck/util"
)

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
	scanCmd.Flags().BoolP("quiet", "q", false, "Do not print scan log lines")
}

// scanCmd asks the server to rescan a library.
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Rescan the selected library on the server",
	Long: `Ask the server to rescan the selected library and stream its log until it finishes.
Log lines come over a websocket; when it is unavailable a single request is made instead.`,
	Run: func(cmd *cobra.Command, args []string) {
		kind := currentKind()
		client := newClient()

		if !lo.Must(cmd.Flags().GetBool("yes")) {
			confirm := survey.Confirm{
				Message: fmt.Sprintf("Scan the %s library on %s?", kind, client.Base()),
				Default: true,
			}
			var response bool
			handleErr(survey.AskOne(&confirm, &response))

			if !response {
				return
			}
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		quiet := lo.Must(cmd.Flags().GetBool("quiet"))
		erase := util.PrintErasable(fmt.Sprintf("%s Scanning %s...", icon.Get(icon.Progress), kind))
		var lines int
		result, err := client.Scan(ctx, kind, func(line string) {
			if lines == 0 {
				erase()
			}
			lines++
			if !quiet {
				cmd.Println(style.Faint(line))
			}
		})
		if lines == 0 {
			erase()
		}

		if err != nil {
			handleErr(errors.New(catalog.Describe(err)))
		}

		if len(result.Result) > 0 && !quiet {
			cmd.Println(style.Faint(string(result.Result)))
		}

		cmd.Printf(
			"%s %s library scanned, %s\n",
			style.Fg(color.Green)(icon.Get(icon.Success)),
			util.Capitalize(kind),
			util.Quantify(lines, "log line", "log lines"),
		)
	},
}
