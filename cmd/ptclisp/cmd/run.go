package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/cwbudde/go-ptclisp/pkg/ptclisp"
)

var (
	evalExpr  string
	showTrace bool
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run a ptclisp program or expression",
	Long: `Evaluate a ptclisp program from a file, an inline expression, or stdin,
inside the Sandbox (bounded timeout and heap), and print its return value.

Examples:
  # Run a script file
  ptclisp run program.lisp

  # Evaluate an inline expression
  ptclisp run -e "(+ 1 2 3)"

  # Show prints and tool calls collected during the run
  ptclisp run --trace program.lisp`,
	Args: cobra.MaximumNArgs(1),
	RunE: runProgram,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "evaluate inline code instead of reading from file")
	runCmd.Flags().BoolVar(&showTrace, "trace", false, "print prints/tool-calls/duration after the result")
}

func runProgram(_ *cobra.Command, args []string) error {
	input, _, err := readProgramInput(evalExpr, args)
	if err != nil {
		return err
	}

	opts := []ptclisp.RunOption{}
	if loadedConfig.TimeoutMs > 0 {
		opts = append(opts, ptclisp.WithTimeoutMs(loadedConfig.TimeoutMs))
	}
	if loadedConfig.MaxHeap > 0 {
		opts = append(opts, ptclisp.WithMaxHeap(loadedConfig.MaxHeap))
	}

	result := ptclisp.Run(input, opts...)

	if result.Fail != nil {
		fmt.Fprintf(os.Stderr, "%s: %s\n", result.Fail.Reason, result.Fail.Message)
		return fmt.Errorf("run failed")
	}

	if result.Return != nil {
		fmt.Println(result.Return.String())
	} else {
		fmt.Println("nil")
	}

	if showTrace && len(result.Trace) == 1 {
		entry := result.Trace[0]
		for _, line := range entry.Prints {
			fmt.Fprintf(os.Stderr, "print: %s\n", line)
		}
		for _, call := range entry.ToolCalls {
			fmt.Fprintf(os.Stderr, "tool-call: %s\n", call.Name)
		}
		fmt.Fprintf(os.Stderr, "duration_ms: %d\n", entry.DurationMs)
	}

	return nil
}

// readProgramInput resolves program source from -e, a file argument, or
// stdin, mirroring the teacher run/parse/lex commands' shared precedence.
func readProgramInput(inline string, args []string) (string, string, error) {
	if inline != "" {
		return inline, "<eval>", nil
	}
	if len(args) == 1 {
		content, err := os.ReadFile(args[0])
		if err != nil {
			return "", "", fmt.Errorf("failed to read file %s: %w", args[0], err)
		}
		return string(content), args[0], nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), "<stdin>", nil
}
