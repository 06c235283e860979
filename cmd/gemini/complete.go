package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/voocel/gemini"
)

var (
	completeFlags = newRequestFlags()
	parallel      int
	showUsage     bool
)

var completeCmd = &cobra.Command{
	Use:   "complete PROMPT...",
	Short: "Send prompts and print the complete answers",
	Long: `Send each prompt as an independent single-turn request and print the
answers in argument order. Up to --parallel requests are in flight at once.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runComplete,
}

func init() {
	completeCmd.Flags().AddFlagSet(completeFlags.fs)
	completeCmd.Flags().IntVarP(&parallel, "parallel", "p", 4, "maximum concurrent requests")
	completeCmd.Flags().BoolVarP(&showUsage, "usage", "u", false, "print token usage after each answer")
}

func runComplete(cmd *cobra.Command, prompts []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	results := make([]*gemini.Completion, len(prompts))
	g, ctx := errgroup.WithContext(cmd.Context())
	if parallel > 0 {
		g.SetLimit(parallel)
	}
	for i, prompt := range prompts {
		g.Go(func() error {
			b := completeFlags.apply(client.Request()).
				WithMessage(gemini.UserMessage(prompt))
			resp, err := b.Completion(ctx)
			if err != nil {
				return fmt.Errorf("prompt %d: %w", i+1, err)
			}
			results[i] = resp
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for i, resp := range results {
		if len(prompts) > 1 {
			color.New(color.Bold).Fprintf(out, "[%d] ", i+1)
		}
		printCompletion(out, resp)
	}
	return nil
}

func printCompletion(out io.Writer, resp *gemini.Completion) {
	if resp.Text != "" {
		fmt.Fprintln(out, resp.Text)
	}
	if resp.FunctionCall != nil {
		printFunctionCall(out, resp.FunctionCall)
	}
	if showUsage {
		color.New(color.Faint).Fprintf(out, "tokens: prompt=%d completion=%d total=%d finish=%s\n",
			resp.PromptTokens, resp.CompletionTokens, resp.TotalTokens, resp.FinishReason)
	}
}

func printFunctionCall(out io.Writer, call *gemini.FunctionCall) {
	color.New(color.FgCyan).Fprintf(out, "call %s(%v)\n", call.Name, call.Args)
}
