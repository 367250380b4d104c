// Command nvidia-hide launches programs with libnvidia-hide.so
// preloaded, so they cannot see the NVIDIA discrete GPU.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jingkaihe/nvidia-hide/pkg/config"
)

var rootCmd = &cobra.Command{
	Use:   "nvidia-hide",
	Short: "Run programs with the NVIDIA discrete GPU hidden",
	Long: `Run programs with the NVIDIA discrete GPU hidden.

The launcher adds libnvidia-hide.so to LD_PRELOAD for the launched process
tree only. Inside the process the library hides /dev/nvidia*, the GPU's DRM
nodes, its PCI config space and the NVIDIA userspace driver libraries.

Environment:
  LIBNVIDIAHIDE_SO=/path/to/libnvidia-hide.so  (override library path)
  LIBNVIDIAHIDE_DEBUG=1                       (enable library logs)
  LIBNVIDIAHIDE_ALLOWLIST=pat1:pat2:...       (only hide for these programs)
  LIBNVIDIAHIDE_DENYLIST=pat1:pat2:...        (never hide for these programs)
  LIBNVIDIAHIDE_EVENT_LOG=/path/events.jsonl  (append policy and denial events)

Config files:
  $XDG_CONFIG_HOME/nvidia-hide/allowlist (or ~/.config/nvidia-hide/allowlist)
  $XDG_CONFIG_HOME/nvidia-hide/denylist  (or ~/.config/nvidia-hide/denylist)

Flatpak and Snap applications block LD_PRELOAD and are not supported.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// exitCodeError ends the process with code after printing nothing.
type exitCodeError struct {
	code int
}

func (e *exitCodeError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

func init() {
	rootCmd.PersistentFlags().Bool("debug", false, "Enable launcher and library debug logs")
	viper.BindPFlag(config.KeyDebug, rootCmd.PersistentFlags().Lookup("debug"))

	viper.SetEnvPrefix(config.EnvPrefix)
	viper.AutomaticEnv()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		var exitErr *exitCodeError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.code)
		}
		fmt.Fprintf(os.Stderr, "nvidia-hide: %v\n", err)
		if errors.Is(err, ErrMissingCommand) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
