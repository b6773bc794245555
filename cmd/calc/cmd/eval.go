package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"go-chi-calculator/internal/observability"
	"go-chi-calculator/internal/session"
)

var evalTrace bool

var evalCmd = &cobra.Command{
	Use:   "eval <keys...>",
	Short: "Press keys on a fresh calculator and print the display",
	Long: `Press keys on a fresh calculator and print the final display.

Arguments are joined, so "calc eval 12+7=" and "calc eval 12 + 7 =" are
the same. ASCII aliases - * / stand for − × ÷.

A division by zero leaves the display unchanged, as on the keypad.`,
	Example: `  calc eval 12+7=
  calc eval --trace 5 + 3 + =`,
	Args: cobra.MinimumNArgs(1),
	RunE: runEval,
}

func init() {
	evalCmd.Flags().BoolVar(&evalTrace, "trace", false, "print the display after every key")
	rootCmd.AddCommand(evalCmd)
}

func runEval(cmd *cobra.Command, args []string) error {
	input := strings.Join(args, "")

	res, err := session.Evaluate(input)
	if err != nil {
		return err
	}

	observability.Logger.Info("eval",
		zap.String("input", input),
		zap.String("display", res.Display),
		zap.Bool("division_by_zero", res.DivisionByZero()),
	)

	out := cmd.OutOrStdout()
	if !evalTrace {
		fmt.Fprintln(out, res.Display)
		return nil
	}

	for _, s := range res.Steps {
		note := ""
		switch {
		case s.DivisionByZero:
			note = "  (division by zero)"
		case s.OutOfRange:
			note = "  (out of range)"
		}
		fmt.Fprintf(out, "%s\t%s%s\n", s.Key, s.Display, note)
	}
	return nil
}
