package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jingkaihe/nvidia-hide/internal/errx"
	"github.com/jingkaihe/nvidia-hide/pkg/config"
	"github.com/jingkaihe/nvidia-hide/pkg/hide"
	"github.com/jingkaihe/nvidia-hide/pkg/logging"
)

var statusCmd = &cobra.Command{
	Use:   "status [executable]",
	Short: "Show whether hiding would apply to a program and what it hides",
	Long: `Evaluate the allowlist and denylist for a program exactly as the library
would inside it, and list the devices that would be hidden.

A bare program name is looked up in PATH. Without an argument the launcher
itself is evaluated.`,
	Example: `  nvidia-hide status steam
  LIBNVIDIAHIDE_DENYLIST=steam nvidia-hide status /usr/bin/steam
  nvidia-hide status --json vkcube`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().Bool("json", false, "Print the status as JSON")
	viper.BindPFlag("status.json", statusCmd.Flags().Lookup("json"))

	rootCmd.AddCommand(statusCmd)
}

// statusReport is what status prints.
type statusReport struct {
	Executable   string   `json:"executable"`
	Active       bool     `json:"active"`
	Reason       string   `json:"reason"`
	HasAllowlist bool     `json:"has_allowlist"`
	AllowPattern string   `json:"allow_pattern,omitempty"`
	DenyPattern  string   `json:"deny_pattern,omitempty"`
	Nodes        []string `json:"nodes"`
	BDFs         []string `json:"bdfs"`
	ConfigDir    string   `json:"config_dir"`
	Library      string   `json:"library,omitempty"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	exe, err := statusExecutable(args)
	if err != nil {
		return err
	}

	settings := config.LoadSettings(nil)
	s := hide.New(hide.Options{
		Settings: settings,
		Readlink: func(string) (string, error) { return exe, nil },
		Logger:   logging.NewLogger(viper.GetBool(config.KeyDebug), settings.RunID, cmd.ErrOrStderr()),
	})

	lib, _ := resolveLibrary(afero.NewOsFs(), viper.GetString(config.KeyLibrary), executableDir())
	report := newStatusReport(exe, settings, s, lib)

	if viper.GetBool("status.json") {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return errx.Wrap(ErrEncodeStatus, err)
		}
		return nil
	}
	return writeStatus(cmd.OutOrStdout(), report)
}

// statusExecutable resolves the program to evaluate to an absolute
// path, the way /proc/self/exe would name it.
func statusExecutable(args []string) (string, error) {
	if len(args) == 0 {
		exe, err := os.Executable()
		if err != nil {
			return "", errx.Wrap(ErrResolveExecutable, err)
		}
		return exe, nil
	}
	p := args[0]
	if !strings.Contains(p, "/") {
		found, err := exec.LookPath(p)
		if err != nil {
			return "", errx.Wrap(ErrResolveExecutable, err)
		}
		p = found
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", errx.Wrap(ErrResolveExecutable, err)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	return abs, nil
}

func newStatusReport(exe string, settings config.Settings, s *hide.State, lib string) statusReport {
	d := s.Decision()
	return statusReport{
		Executable:   exe,
		Active:       s.Active(),
		Reason:       d.Reason(),
		HasAllowlist: d.HasAllow,
		AllowPattern: d.AllowPattern,
		DenyPattern:  d.DenyPattern,
		Nodes:        s.Nodes(),
		BDFs:         s.BDFs(),
		ConfigDir:    settings.ConfigDir,
		Library:      lib,
	}
}

func writeStatus(w io.Writer, r statusReport) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Executable:\t%s\n", r.Executable)
	fmt.Fprintf(tw, "Hiding:\t%s (%s)\n", onOff(r.Active), r.Reason)
	if r.AllowPattern != "" {
		fmt.Fprintf(tw, "Allowlist match:\t%s\n", r.AllowPattern)
	}
	if r.DenyPattern != "" {
		fmt.Fprintf(tw, "Denylist match:\t%s\n", r.DenyPattern)
	}
	if r.Active {
		fmt.Fprintf(tw, "Hidden nodes:\t%s\n", orNone(r.Nodes))
		fmt.Fprintf(tw, "Hidden PCI devices:\t%s\n", orNone(r.BDFs))
	}
	fmt.Fprintf(tw, "Config dir:\t%s\n", r.ConfigDir)
	lib := r.Library
	if lib == "" {
		lib = "not found"
	}
	fmt.Fprintf(tw, "Library:\t%s\n", lib)
	return tw.Flush()
}

func onOff(active bool) string {
	if active {
		return "on"
	}
	return "off"
}

func orNone(v []string) string {
	if len(v) == 0 {
		return "none"
	}
	return strings.Join(v, " ")
}
