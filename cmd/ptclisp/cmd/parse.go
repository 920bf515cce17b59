package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cwbudde/go-ptclisp/internal/analyzer"
	"github.com/cwbudde/go-ptclisp/internal/parser"
)

var parseCore bool

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse ptclisp source and print its AST",
	Long: `Parse ptclisp source and print the parsed AST.

If no file is provided, reads from stdin. Use -e to parse a single
expression from the command line. Use --core to run the Analyzer afterward
and print the desugared Core AST instead of the raw parse tree.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "parse inline code instead of reading from file")
	parseCmd.Flags().BoolVar(&parseCore, "core", false, "run the Analyzer and print the Core AST")
}

func runParse(_ *cobra.Command, args []string) error {
	input, _, err := readProgramInput(evalExpr, args)
	if err != nil {
		return err
	}

	prog, perr := parser.Parse(input)
	if perr != nil {
		fmt.Fprintln(os.Stderr, perr.Error())
		return fmt.Errorf("parsing failed")
	}

	if !parseCore {
		fmt.Println(prog.String())
		return nil
	}

	core, aerr := analyzer.New().AnalyzeProgram(prog)
	if aerr != nil {
		fmt.Fprintln(os.Stderr, aerr.Error())
		return fmt.Errorf("analysis failed")
	}
	// Core AST nodes carry no String(); %#v is close enough for a debug dump.
	fmt.Printf("%#v\n", core)
	return nil
}
