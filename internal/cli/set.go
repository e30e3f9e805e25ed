package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/loamkb/loam/internal/ui"
)

var setClear bool

var setCmd = &cobra.Command{
	Use:   "set <reference> <key> [value]",
	Short: "Set or clear a note property",
	Long: `Sets a scalar property on a note. Values are typed by shape: true/false
become booleans, numerics become numbers, dates stay as date strings,
everything else is a string. Pass --clear to remove the property.

Examples:
  loam set "Auth Service" priority 1
  loam set project/alpha due 2026-10-01
  loam set "Auth Service" reviewed true
  loam set "Auth Service" priority --clear`,
	Args: cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return handleError(ErrCodeStorageError, err, "")
		}

		note, err := resolveOne(s, args[0])
		if err != nil {
			return handleError(ErrCodeNoteNotFound, err, "")
		}
		key := args[1]

		if setClear {
			if err := s.SetProperty(note.Permalink, key, nil); err != nil {
				return handleError(ErrCodeStorageError, err, "")
			}
			if isJSONOutput() {
				outputSuccess(map[string]interface{}{
					"permalink": note.Permalink,
					"key":       key,
					"action":    "cleared",
				}, nil)
				return nil
			}
			fmt.Println(ui.Successf("Cleared %s on %s", key, note.Permalink))
			return nil
		}

		if len(args) < 3 {
			return handleErrorMsg(ErrCodeInvalidArgument,
				"a value is required unless --clear is given", "")
		}

		value := parseScalar(args[2])
		if err := s.SetProperty(note.Permalink, key, value); err != nil {
			return handleError(ErrCodeStorageError, err, "")
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"permalink": note.Permalink,
				"key":       key,
				"value":     value,
			}, nil)
			return nil
		}

		fmt.Println(ui.Successf("Set %s = %v on %s", key, value, note.Permalink))
		return nil
	},
}

// parseScalar types a raw CLI value by shape. Date-shaped strings are kept
// as strings; the expression engine coerces them when compared.
func parseScalar(raw string) interface{} {
	switch raw {
	case "true":
		return true
	case "false":
		return false
	}
	if n, err := strconv.ParseFloat(raw, 64); err == nil {
		return n
	}
	return raw
}

func init() {
	setCmd.Flags().BoolVar(&setClear, "clear", false, "Remove the property instead of setting it")
	rootCmd.AddCommand(setCmd)
}
