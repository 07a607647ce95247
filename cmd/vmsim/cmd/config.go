package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/sarchlab/vmsim/policy"
	"github.com/spf13/cobra"
)

// autoRecordName is the value of a bare --record flag. It asks for a
// generated database name.
const autoRecordName = "*"

// Config holds everything needed for one run.
type Config struct {
	NumFrames int
	Algorithm policy.Algorithm
	Refresh   uint64
	TracePath string

	// RecordPath is the SQLite file to record into. Empty disables
	// recording; autoRecordName picks a unique name.
	RecordPath string

	Verbose bool
}

// envDefault returns the environment value for a flag that was not given on
// the command line.
func envDefault(c *cobra.Command, flag, env string) (string, bool) {
	if c.Flags().Changed(flag) {
		return "", false
	}

	return os.LookupEnv(env)
}

func intFlag(c *cobra.Command, flag, env string) (int, error) {
	if s, ok := envDefault(c, flag, env); ok {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, &UsageError{
				Reason: fmt.Sprintf("invalid %s %q", env, s),
			}
		}

		return v, nil
	}

	return c.Flags().GetInt(flag)
}

func stringFlag(c *cobra.Command, flag, env string) (string, error) {
	if s, ok := envDefault(c, flag, env); ok {
		return s, nil
	}

	return c.Flags().GetString(flag)
}

func parseConfig(c *cobra.Command, args []string) (Config, error) {
	cfg := Config{TracePath: args[0]}

	frames, err := intFlag(c, "frames", "VMSIM_FRAMES")
	if err != nil {
		return Config{}, err
	}

	if frames <= 0 {
		return Config{}, &UsageError{
			Reason: "the number of frames (-n) must be a positive integer",
		}
	}

	cfg.NumFrames = frames

	name, err := stringFlag(c, "algorithm", "VMSIM_ALGORITHM")
	if err != nil {
		return Config{}, err
	}

	if name == "" {
		return Config{}, &UsageError{Reason: "the algorithm (-a) is required"}
	}

	cfg.Algorithm, err = policy.ParseAlgorithm(name)
	if err != nil {
		return Config{}, err
	}

	refresh, err := intFlag(c, "refresh", "VMSIM_REFRESH")
	if err != nil {
		return Config{}, err
	}

	if cfg.Algorithm == policy.Aging && refresh <= 0 {
		return Config{}, &UsageError{
			Reason: "aging requires a positive refresh interval (-r)",
		}
	}

	if refresh > 0 {
		cfg.Refresh = uint64(refresh)
	}

	cfg.RecordPath, err = stringFlag(c, "record", "VMSIM_RECORD")
	if err != nil {
		return Config{}, err
	}

	cfg.Verbose, err = c.Flags().GetBool("verbose")
	if err != nil {
		return Config{}, err
	}

	return cfg, nil
}
