// main.go --  This file is part of goHF project.
// Mirzaeva Irina, 2023
//
//	goHF is distributed in the hope that it will be useful,
//	but WITHOUT ANY WARRANTY; without even the implied warranty
//	of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
//	See the GNU General Public License for more details.
//
//	You should have received a copy of the GNU General Public License
//	along with this program.  If not, see http://www.gnu.org/licenses/
//
// ------------------------------------------------

// Command gohf-casscf builds the CASSCF effective active-space Hamiltonian
// and orbital diagnostics for a hydrogen chain or an integral file.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"gohf/internal/config"
	"gohf/internal/logging"
)

type options struct {
	configPath string
	outPath    string
	verbose    bool
	workers    int

	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	rootCmd := &cobra.Command{
		Use:           "gohf-casscf",
		Short:         "CASSCF orbital rotation and effective Hamiltonian core of goHF",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			opts.logger, err = logging.New(opts.outPath, opts.verbose)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.logger != nil {
				_ = opts.logger.Sync()
			}
		},
	}
	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "YAML run description (default: H2 in 6-31G)")
	rootCmd.PersistentFlags().StringVarP(&opts.outPath, "out", "o", "", "append log lines to this file instead of stderr")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Build T, Q and the active-space Hamiltonian, then pseudocanonicalize",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts.configPath)
			if err != nil {
				return err
			}
			if opts.workers > 0 {
				cfg.Workers = opts.workers
			}
			return run(cfg, opts.logger, cmd.OutOrStdout())
		},
	}
	runCmd.Flags().IntVarP(&opts.workers, "workers", "w", 0, "goroutines for the Fock build (default: config, then GOMAXPROCS)")

	initCmd := &cobra.Command{
		Use:   "init [file]",
		Short: "Write the default run description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Default().Save(args[0]); err != nil {
				return err
			}
			opts.logger.Info("Default config written", zap.String("path", args[0]))
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, initCmd)
	return rootCmd
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func appInfo(out io.Writer) {
	fmt.Fprint(out, "\n              __  __  ____      |\n             /\\ \\/\\ \\/\\  __\\    |"+
		" goHF CASSCF core\n   __     ___\\ \\ \\_\\ \\ \\ \\_/    | orbital rotations, Q matrices\n"+
		" /'_ `\\  / __`\\ \\  _  \\ \\  _\\   | and the effective active-space Hamiltonian"+
		"\n/\\ \\L\\ \\/\\ \\L\\ \\ \\ \\ \\ \\ \\ \\/   |"+
		"\n\\ \\____ \\ \\____/\\ \\_\\ \\_\\ \\_\\   | HF stands for Himicheskaya Fizika\n \\/___L\\"+
		" \\/___/  \\/_/\\/_/\\/_/   | Have Fun!!!\n   /\\____/                      |\n   \\_/__/                       |\n\n")
}

func printOutputDelimiter(out io.Writer) {
	fmt.Fprintln(out, strings.Repeat("-", 70))
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "gohf-casscf:", err)
		os.Exit(1)
	}
}
