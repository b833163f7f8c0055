package cmd

import (
	"context"
	"encoding/json"
	"io"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/invopop/jsonschema"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tunedeck/tunedeck/filesystem"
	"github.com/tunedeck/tunedeck/inline"
	"github.com/tunedeck/tunedeck/key"
	"github.com/tunedeck/tunedeck/util"
)

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringP("query", "q", "", "Fuzzy filter applied to \"Artist - Title\"")
	listCmd.Flags().StringP("pick", "p", "", "Select a single track: first, last, id:<id> or index:<n>")
	listCmd.Flags().BoolP("json", "j", false, "Format the command output as a JSON object")
	listCmd.Flags().Bool("offline", true, "Fall back to the cached playlist when the server is unreachable")
	listCmd.Flags().StringP("output", "o", "", "Write the output to a file instead of stdout")
	listCmd.Flags().Bool("schema", false, "Print the JSON schema of the --json output and exit")
}

// listCmd prints the library without starting the player.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the library playlist for scripts",
	Long: `Fetch the playlist of the selected library and print it without starting the player.

Plain output has one track per line: id, "Artist - Title" and the stream URL, tab separated.

Pickers:
  first - first track after filtering
  last - last track after filtering
  id:<id> - the track with this exact id
  index:<n> - track by index (starting from 0)`,
	Example: "  tunedeck list --kind music --query nujabes --json",
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("schema")) {
			handleErr(writeSchema(cmd.OutOrStdout()))
			return
		}

		options := &inline.Options{
			Out:    cmd.OutOrStdout(),
			Client: newClient(),
			Kind:   currentKind(),
			Query:  lo.Must(cmd.Flags().GetString("query")),
			Json:   lo.Must(cmd.Flags().GetBool("json")),
			Cached: lo.Must(cmd.Flags().GetBool("offline")),
		}

		if pick := lo.Must(cmd.Flags().GetString("pick")); pick != "" {
			kind, value, _ := strings.Cut(pick, ":")
			picker, err := inline.ParsePicker(kind, value)
			handleErr(err)
			options.Picker = mo.Some(picker)
		}

		if output := lo.Must(cmd.Flags().GetString("output")); output != "" {
			file, err := filesystem.API().Create(output)
			handleErr(err)
			defer util.Ignore(file.Close)
			options.Out = file
		}

		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(viper.GetInt(key.ServerTimeout))*time.Second)
		defer cancel()

		handleErr(inline.Run(ctx, options))
	},
}

// writeSchema writes the JSON schema of the list output.
func writeSchema(out io.Writer) error {
	reflector := new(jsonschema.Reflector)
	reflector.Anonymous = true
	reflector.Namer = func(t reflect.Type) string {
		name := t.Name()
		switch strings.ToLower(name) {
		case "track", "output":
			return filepath.Base(t.PkgPath()) + "." + name
		}

		return name
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(reflector.Reflect(&inline.Output{}))
}
