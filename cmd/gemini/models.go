package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/voocel/gemini"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List known models and their capabilities",
	Long: `List the models in the capability table. Identifiers not listed are still
accepted; their capabilities come from the version family in the name, and
unknown families are assumed to support thinking.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		green := color.New(color.FgGreen)
		dim := color.New(color.Faint)
		mark := func(ok bool) string {
			if ok {
				return green.Sprint("yes")
			}
			return dim.Sprint("no")
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "MODEL\tFAMILY\tTHINKING\tTOOLS\tMAX OUTPUT")
		for _, m := range gemini.Models() {
			maxOut := "-"
			if m.Capabilities.MaxOutputTokens > 0 {
				maxOut = fmt.Sprint(m.Capabilities.MaxOutputTokens)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", m.ID, m.Family,
				mark(m.Capabilities.Thinking), mark(m.Capabilities.FunctionCalling), maxOut)
		}
		return w.Flush()
	},
}
