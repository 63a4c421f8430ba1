package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	lintrans "github.com/DoctorDalek1963/lintrans-sub000"
)

const replPrompt = "==> "

const replHelp = `Type an expression to evaluate it, e.g. 3A^2B - rot(45).

Commands:
  :def NAME a b c d    define NAME as the concrete matrix [a b; c d]
  :def NAME EXPR       bind NAME to an expression, re-evaluated on each use
  :undef NAME          clear NAME
  :list                show every defined matrix
  :help                show this help
  :quit                exit (Ctrl+D also works)`

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Interactively define matrices and evaluate expressions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store := loadStore()
		defer saveStore(store)
		return runREPL(store)
	},
}

func historyPath() string {
	path := viper.GetString("history_file")
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}
	return path
}

func runREPL(store *lintrans.Store) error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	if f, err := os.Open(historyPath()); err == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(historyPath()); err == nil {
			_, _ = line.WriteHistory(f)
			f.Close()
		}
	}()

	fmt.Printf("lintrans %s\nCtrl+D exits. Type :help for commands.\n", lintrans.Version)

	for {
		input, err := line.Prompt(replPrompt)
		if errors.Is(err, io.EOF) {
			fmt.Println()
			return nil
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if err != nil {
			return err
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		if strings.HasPrefix(input, ":") {
			if quit := replCommand(store, input); quit {
				return nil
			}
			continue
		}

		result, err := store.Evaluate(input)
		if err != nil {
			printEvalError(input, err)
			continue
		}
		fmt.Println(formatMatrix(result))
	}
}

// printEvalError explains an evaluation failure, using the live validator
// to tell "bad syntax" apart from "references an undefined matrix".
func printEvalError(input string, err error) {
	switch {
	case errors.Is(err, lintrans.ErrSingular):
		fmt.Println("error: a matrix in this expression is singular and cannot be inverted")
	case errors.Is(err, lintrans.ErrValue) && lintrans.Validate(input):
		fmt.Println("error: expression references an undefined matrix")
	case lintrans.ValidateLive(input) == lintrans.Intermediate:
		fmt.Println("error: incomplete expression")
	default:
		fmt.Printf("error: %v\n", err)
	}
}

// replCommand handles one ":" command; it reports whether to exit.
func replCommand(store *lintrans.Store, input string) bool {
	fields := strings.Fields(input)
	switch fields[0] {
	case ":quit", ":q":
		return true

	case ":help":
		fmt.Println(replHelp)

	case ":list":
		for _, entry := range store.GetDefinedMatrices() {
			if entry.Matrix != nil {
				fmt.Printf("%c = %v\n", entry.Name, *entry.Matrix)
			} else {
				fmt.Printf("%c = %s\n", entry.Name, entry.Expression)
			}
		}

	case ":undef":
		if len(fields) != 2 {
			fmt.Println("usage: :undef NAME")
			break
		}
		if err := store.Set(fields[1], nil); err != nil {
			fmt.Printf("error: %v\n", err)
		}

	case ":def":
		if err := replDefine(store, fields[1:]); err != nil {
			fmt.Printf("error: %v\n", err)
		}

	default:
		fmt.Printf("unknown command %s (try :help)\n", fields[0])
	}
	return false
}

func replDefine(store *lintrans.Store, args []string) error {
	switch len(args) {
	case 5:
		// :def NAME a b c d
		if entries, ok := parseEntries(strings.Join(args[1:], ",")); ok {
			return store.Set(args[0], lintrans.NewMatrix(entries[0], entries[1], entries[2], entries[3]))
		}
		return fmt.Errorf("matrix entries must be numbers")
	case 0, 1:
		return fmt.Errorf("usage: :def NAME a b c d  |  :def NAME EXPR")
	default:
		return store.Set(args[0], strings.Join(args[1:], " "))
	}
}
