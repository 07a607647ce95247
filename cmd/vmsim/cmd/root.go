// Package cmd provides the command-line interface for vmsim.
package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/sarchlab/vmsim/policy"
	"github.com/sarchlab/vmsim/trace"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

const usageLine = "usage: vmsim -n <numframes> -a <opt|fifo|aging> " +
	"[-r <refresh>] <tracefile>"

// A UsageError reports a command line that cannot be run.
type UsageError struct {
	Reason string
}

func (e *UsageError) Error() string {
	return e.Reason
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "vmsim -n <numframes> -a <opt|fifo|aging> [-r <refresh>] <tracefile>",
		Short: "vmsim simulates page replacement algorithms on memory traces.",
		Long: `vmsim replays a memory access trace against a fixed number of ` +
			`page frames and reports the number of accesses, page faults and ` +
			`writes to disk under the FIFO, OPT or aging algorithm. Flag ` +
			`defaults can be set with VMSIM_FRAMES, VMSIM_ALGORITHM, ` +
			`VMSIM_REFRESH and VMSIM_RECORD, also from a .env file.`,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) != 1 {
				return &UsageError{
					Reason: fmt.Sprintf(
						"expected exactly one trace file, got %d arguments",
						len(args)),
				}
			}

			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(c *cobra.Command, args []string) error {
			cfg, err := parseConfig(c, args)
			if err != nil {
				return err
			}

			return Run(cfg, c.OutOrStdout(), c.ErrOrStderr())
		},
	}

	c.Flags().IntP("frames", "n", 0, "Number of physical page frames")
	c.Flags().StringP("algorithm", "a", "", "Replacement algorithm: fifo, opt or aging")
	c.Flags().IntP("refresh", "r", 0, "Cycles between two aging counter shifts (aging only)")
	c.Flags().String("record", "", "Record evictions and run statistics into an SQLite file (--record=<path>, bare flag picks a name)")
	c.Flags().Lookup("record").NoOptDefVal = autoRecordName
	c.Flags().BoolP("verbose", "v", false, "Log every page fault and eviction to stderr")

	c.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &UsageError{Reason: err.Error()}
	})

	return c
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("Failed to load .env file: %v", err)
	}

	err = rootCmd.Execute()
	if err != nil {
		reportError(os.Stderr, err)
		atexit.Exit(1)
	}

	atexit.Exit(0)
}

func reportError(w io.Writer, err error) {
	var (
		usageErr *UsageError
		openErr  *trace.OpenError
	)

	switch {
	case errors.As(err, &openErr):
		fmt.Fprintf(w, "ERROR - Could not open file for reading: %s\n",
			openErr.Path)
	case errors.Is(err, policy.ErrUnknownAlgorithm):
		fmt.Fprintf(w, "ERROR - %v\n", err)
	case errors.As(err, &usageErr):
		fmt.Fprintf(w, "INCORRECT USAGE: %v\n%s\n", err, usageLine)
	default:
		fmt.Fprintf(w, "ERROR - %v\n", err)
	}
}
