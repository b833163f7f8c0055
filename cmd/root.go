// Package cmd implements the command-line interface for tunedeck.
package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	cc "github.com/ivanpirog/coloredcobra"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tunedeck/tunedeck/catalog"
	"github.com/tunedeck/tunedeck/color"
	"github.com/tunedeck/tunedeck/constant"
	"github.com/tunedeck/tunedeck/control"
	"github.com/tunedeck/tunedeck/icon"
	"github.com/tunedeck/tunedeck/key"
	"github.com/tunedeck/tunedeck/log"
	"github.com/tunedeck/tunedeck/style"
	"github.com/tunedeck/tunedeck/tui"
	"github.com/tunedeck/tunedeck/util"
	"github.com/tunedeck/tunedeck/version"
	"github.com/tunedeck/tunedeck/where"
)

func completionKinds(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return catalog.Kinds, cobra.ShellCompDirectiveNoFileComp
}

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")

	rootCmd.PersistentFlags().StringP("icons", "I", "", "Set the visual icon variant (emoji, nerd, plain)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return icon.AvailableVariants(), cobra.ShellCompDirectiveDefault
	}))
	lo.Must0(viper.BindPFlag(key.IconsVariant, rootCmd.PersistentFlags().Lookup("icons")))

	rootCmd.PersistentFlags().String("server", "", "Base URL of the media library server")
	lo.Must0(viper.BindPFlag(key.ServerURL, rootCmd.PersistentFlags().Lookup("server")))

	rootCmd.PersistentFlags().String("kind", "", "Library to open (music, video)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("kind", completionKinds))
	lo.Must0(viper.BindPFlag(key.CatalogKind, rootCmd.PersistentFlags().Lookup("kind")))

	rootCmd.Flags().String("start", "", "Start with the track matching this id or title")
	rootCmd.Flags().BoolP("compact", "c", false, "Use the compact control strip")
	rootCmd.Flags().Bool("no-mouse", false, "Disable mouse seeking and volume panel clicks")

	helpFunc := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		helpFunc(cmd, args)
		version.Notify()
	})

	go func() {
		_ = util.Delete(where.Temp())
	}()
}

// rootCmd launches the player.
var rootCmd = &cobra.Command{
	Use:   constant.Tunedeck,
	Short: "A terminal player for a self-hosted music and video library",
	Long: constant.AsciiArtLogo + "\n" +
		style.New().Italic(true).Foreground(color.HiPurple).Render("    - A terminal player for a self-hosted music and video library"),
	Example: "  tunedeck --kind video --start \"feather\"",
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.Run(versionCmd, args)
			return
		}

		CheckDependencies()

		kind := currentKind()
		client := newClient()

		options := tui.DefaultOptions(kind)
		options.Start = lo.Must(cmd.Flags().GetString("start"))
		if lo.Must(cmd.Flags().GetBool("compact")) {
			options.Presentation = control.Compact
		}
		if lo.Must(cmd.Flags().GetBool("no-mouse")) {
			options.Mouse = false
		}

		handleErr(tui.Run(client, options))
	},
}

// currentKind returns the configured library, exiting on unknown ones.
func currentKind() string {
	kind := viper.GetString(key.CatalogKind)
	if !catalog.ValidKind(kind) {
		handleErr(fmt.Errorf("unknown kind %q, expected one of %s", kind, strings.Join(catalog.Kinds, ", ")))
	}
	return kind
}

func newClient() *catalog.Client {
	client, err := catalog.New(
		viper.GetString(key.ServerURL),
		catalog.WithTimeout(time.Duration(viper.GetInt(key.ServerTimeout))*time.Second),
		catalog.WithCache(viper.GetBool(key.CatalogCache)),
	)
	handleErr(err)
	return client
}

// Execute adds all child commands to the root command and runs it.
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
