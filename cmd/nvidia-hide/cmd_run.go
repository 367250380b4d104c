package main

import (
	"fmt"
	"os"
	"os/exec"

	shellquote "github.com/kballard/go-shellquote"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sys/unix"

	"github.com/jingkaihe/nvidia-hide/internal/errx"
	"github.com/jingkaihe/nvidia-hide/pkg/config"
	"github.com/jingkaihe/nvidia-hide/pkg/logging"
)

// exitExecFailed matches the shell's status for a command that could
// not be run.
const exitExecFailed = 127

var runCmd = &cobra.Command{
	Use:   "run [flags] [--] <command> [args...]",
	Short: "Run a command with the NVIDIA GPU hidden",
	Long: `Run a command with libnvidia-hide.so preloaded.

The library is looked up in this order: --lib or LIBNVIDIAHIDE_SO, next to
the nvidia-hide binary, ../lib relative to it, then /usr/lib, /usr/local/lib
and /lib. It is appended to any existing LD_PRELOAD.`,
	Example: `  nvidia-hide run vulkaninfo --summary
  nvidia-hide run -- glxinfo -B
  nvidia-hide run --allowlist 'steam:*.exe' -- steam
  nvidia-hide run --debug --event-log /tmp/nvidia-hide.jsonl -- vkcube`,
	Args: cobra.ArbitraryArgs,
	RunE: runRun,
}

func init() {
	runCmd.Flags().String("lib", "", "Path to libnvidia-hide.so")
	runCmd.Flags().String("event-log", "", "Append JSONL policy and denial events to this file")
	runCmd.Flags().String("allowlist", "", "Colon-separated allowlist patterns for the launched programs")
	runCmd.Flags().String("denylist", "", "Colon-separated denylist patterns for the launched programs")
	runCmd.Flags().SetInterspersed(false)

	viper.BindPFlag(config.KeyLibrary, runCmd.Flags().Lookup("lib"))
	viper.BindPFlag("run.event-log", runCmd.Flags().Lookup("event-log"))
	viper.BindPFlag("run.allowlist", runCmd.Flags().Lookup("allowlist"))
	viper.BindPFlag("run.denylist", runCmd.Flags().Lookup("denylist"))

	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		cmd.Usage()
		return ErrMissingCommand
	}

	debug := viper.GetBool(config.KeyDebug)
	logger := logging.NewLogger(debug, "", cmd.ErrOrStderr())

	lib, err := resolveLibrary(afero.NewOsFs(), viper.GetString(config.KeyLibrary), executableDir())
	if err != nil {
		return err
	}

	env := buildEnv(os.Environ(), launchEnv{
		Library:   lib,
		Debug:     debug,
		EventLog:  viper.GetString("run.event-log"),
		Allowlist: viper.GetString("run.allowlist"),
		Denylist:  viper.GetString("run.denylist"),
	})

	path, err := exec.LookPath(args[0])
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "nvidia-hide: %v\n", errx.Wrap(ErrResolveExecutable, err))
		return &exitCodeError{code: exitExecFailed}
	}

	logger.Debug("run: exec",
		"library", lib,
		"path", path,
		"command", shellquote.Join(args...),
		"run_id", newEnvList(env).get(envKey(config.KeyRunID)),
	)

	err = unix.Exec(path, args, env)
	fmt.Fprintf(cmd.ErrOrStderr(), "nvidia-hide: %v\n", errx.With(ErrExec, " %s: %w", args[0], err))
	return &exitCodeError{code: exitExecFailed}
}
