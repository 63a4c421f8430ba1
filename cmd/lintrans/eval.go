package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	lintrans "github.com/DoctorDalek1963/lintrans-sub000"
)

var evalDefs []string

var evalCmd = &cobra.Command{
	Use:   "eval EXPRESSION",
	Short: "Evaluate one expression and print the resulting matrix",
	Example: `  lintrans eval "rot(45)"
  lintrans eval --def A=1,2,3,4 --def B=6,4,12,9 "AB^-1"
  lintrans eval --def A=1,2,3,4 --def "N=A^2" "N+I"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store := loadStore()
		for _, def := range evalDefs {
			if err := applyDefinition(store, def); err != nil {
				return err
			}
		}

		result, err := store.Evaluate(args[0])
		if err != nil {
			return err
		}
		fmt.Println(formatMatrix(result))
		return nil
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate EXPRESSION",
	Short: "Check an expression against the grammar",
	Long: `Checks the expression against the strict grammar and prints the verdict.
The exit code is 0 for a valid expression and 1 otherwise. Validation is
purely syntactic: it does not care which matrices are defined.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !lintrans.Validate(args[0]) {
			fmt.Println("invalid")
			return fmt.Errorf("%q does not match the expression grammar", args[0])
		}
		fmt.Println("valid")
		return nil
	},
}

func init() {
	evalCmd.Flags().StringArrayVar(&evalDefs, "def", nil,
		"define a matrix as NAME=a,b,c,d (row-major entries) or NAME=EXPRESSION; repeatable")
}

// applyDefinition parses one --def argument and applies it to the store.
// Four comma-separated numbers define a concrete matrix; anything else is
// taken as an expression binding.
func applyDefinition(store *lintrans.Store, def string) error {
	name, value, found := strings.Cut(def, "=")
	if !found {
		return fmt.Errorf("malformed --def %q: want NAME=a,b,c,d or NAME=EXPRESSION", def)
	}
	name = strings.TrimSpace(name)

	if entries, ok := parseEntries(value); ok {
		return store.Set(name, lintrans.NewMatrix(entries[0], entries[1], entries[2], entries[3]))
	}
	return store.Set(name, value)
}

func parseEntries(value string) ([4]float64, bool) {
	parts := strings.Split(value, ",")
	if len(parts) != 4 {
		return [4]float64{}, false
	}
	var entries [4]float64
	for i, part := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return [4]float64{}, false
		}
		entries[i] = f
	}
	return entries, true
}
