// Command wispc is a thin demonstration driver over the core's three
// subsystems: it reads a source file, runs wispc's own minimal
// grammar through the parse combinator engine, stands in for the
// external canonicalizer/constraint generator just enough to drive
// the solver, and emits+evaluates the result against the in-memory
// reference Builder. It is not a replacement for the real backend,
// module loader, or diagnostics formatter.
package main

import (
	"fmt"
	"os"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/opal-lang/wisp/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "wispc",
		Short:         "Drive the wisp core parser/solver/emitter over a source file",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newBuildCmd())
	root.AddCommand(newWatchCmd())
	return root
}

func newBuildCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "build <file>",
		Short: "Parse, solve, and emit one source file, printing its last def's value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			return runOnce(cfg, args[0])
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "path to a build-config.json (defaults apply when omitted)")
	return cmd
}

func newWatchCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Re-run build on every write to file, until interrupted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			return runWatch(cfg, args[0])
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "path to a build-config.json (defaults apply when omitted)")
	return cmd
}

// loadConfig reads and validates the config file at path, or returns
// the built-in defaults when no path was given. The config is loaded
// once per command, not per re-run, so a watch session sticks with the
// settings it started under.
func loadConfig(path string) (*config.BuildConfig, error) {
	if path == "" {
		return config.Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("wispc: reading config %s: %w", path, err)
	}
	return config.Load(data)
}

func runOnce(cfg *config.BuildConfig, path string) error {
	source, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("wispc: reading %s: %w", path, err)
	}
	result, err := RunBuild(cfg, string(source))
	if err != nil {
		return err
	}
	printResult(path, result)
	return nil
}

func printResult(path string, result *BuildResult) {
	fmt.Printf("%s: %s = %v\n", path, result.LastDefName, result.Value)
	for _, p := range result.Problems {
		fmt.Fprintf(os.Stderr, "%s: warning: %s\n", path, p.Error())
	}
}

// runWatch re-runs runOnce every time path is written to, using
// fsnotify rather than polling. The solver and emitter stay fully
// synchronous per invocation - no solver state is reused across runs,
// so watch mode is just runOnce driven by the filesystem.
func runWatch(cfg *config.BuildConfig, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("wispc: starting watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return fmt.Errorf("wispc: watching %s: %w", path, err)
	}

	fmt.Printf("wispc: watching %s (ctrl-c to stop)\n", path)
	if err := runOnce(cfg, path); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if err := runOnce(cfg, path); err != nil {
				fmt.Fprintln(os.Stderr, err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "wispc: watch error: %v\n", err)
		}
	}
}
