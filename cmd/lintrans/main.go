// lintrans is the command-line front end for the matrix-expression core:
// an interactive REPL plus one-shot evaluate/validate commands. It is a
// thin shell; everything interesting lives in the lintrans package.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	lintrans "github.com/DoctorDalek1963/lintrans-sub000"
)

var logger = slog.New(slog.NewTextHandler(os.Stderr, nil))

var rootCmd = &cobra.Command{
	Use:   "lintrans",
	Short: "Evaluate 2x2 matrix expressions",
	Long: `lintrans evaluates expressions over named 2x2 matrices, like "3A^2B - rot(45)".

Matrices are named A-Z; I is always the identity. A matrix can be defined
as a concrete 2x2 value or as an expression over other matrices, which is
re-evaluated on every use.`,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the lintrans version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(lintrans.Version)
	},
}

func init() {
	rootCmd.PersistentFlags().String("session", "", "session file to load before running and save on exit")
	rootCmd.PersistentFlags().Int("precision", 6, "significant digits when printing matrix entries")

	_ = viper.BindPFlag("session", rootCmd.PersistentFlags().Lookup("session"))
	_ = viper.BindPFlag("precision", rootCmd.PersistentFlags().Lookup("precision"))
	viper.SetDefault("history_file", "~/.lintrans_history")

	viper.SetConfigName(".lintrans")
	viper.SetConfigType("yaml")
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(home)
	}
	if err := viper.ReadInConfig(); err != nil {
		// A missing config file is the normal case.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			logger.Warn("could not read config file", "error", err)
		}
	}

	rootCmd.AddCommand(replCmd, evalCmd, validateCmd, versionCmd)
}

// loadStore returns the store to start with: the one in the configured
// session file if there is one, a fresh store otherwise.
func loadStore() *lintrans.Store {
	path := viper.GetString("session")
	if path == "" {
		return lintrans.NewStore()
	}

	session, version, extra, err := lintrans.LoadSession(path)
	if err != nil {
		logger.Error("could not load session, starting fresh", "path", path, "error", err)
		return lintrans.NewStore()
	}
	if extra {
		logger.Warn("session file was written by a newer lintrans and carries data this version will drop",
			"path", path, "written_by", version)
	}
	return session.Store
}

func saveStore(store *lintrans.Store) {
	path := viper.GetString("session")
	if path == "" {
		return
	}
	session := &lintrans.Session{
		Store:           store,
		DisplaySettings: lintrans.DefaultDisplaySettings(),
	}
	if err := session.Save(path); err != nil {
		logger.Error("could not save session", "path", path, "error", err)
	}
}

func formatMatrix(m lintrans.Matrix) string {
	prec := viper.GetInt("precision")
	return fmt.Sprintf("[%.*g  %.*g]\n[%.*g  %.*g]",
		prec, m[0][0], prec, m[0][1], prec, m[1][0], prec, m[1][1])
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
