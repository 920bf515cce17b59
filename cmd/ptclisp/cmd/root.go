package cmd

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	verbose    bool
	configPath string
)

// fileConfig holds the Sandbox knobs (spec.md §6's options map:
// timeout_ms, max_heap) a user can park in a YAML file instead of
// repeating flags on every invocation.
type fileConfig struct {
	TimeoutMs int   `yaml:"timeout_ms"`
	MaxHeap   int64 `yaml:"max_heap"`
}

var loadedConfig fileConfig

var rootCmd = &cobra.Command{
	Use:   "ptclisp",
	Short: "ptclisp sandboxed interpreter and CLI",
	Long: `ptclisp is a small, sandboxed Lisp (a Clojure subset) meant for LLM
agents to express tool-orchestration logic as data: filter/map/reduce over
tool results, conditional branching, and calls out to host-provided tools,
all evaluated under a wall-clock timeout and an approximate heap cap.`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configPath == "" {
			return nil
		}
		data, err := os.ReadFile(configPath)
		if err != nil {
			return fmt.Errorf("reading config %s: %w", configPath, err)
		}
		return yaml.Unmarshal(data, &loadedConfig)
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML file with timeout_ms/max_heap defaults")
}

func exitWithError(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+msg+"\n", args...)
	os.Exit(1)
}
