package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/voocel/gemini"
)

var streamFlags = newRequestFlags()

var streamCmd = &cobra.Command{
	Use:   "stream PROMPT",
	Short: "Send a prompt and print the answer as it arrives",
	Long: `Send one prompt and print text deltas as the model produces them. Token
usage is reported on stderr once the backend sends it.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runStream,
}

func init() {
	streamCmd.Flags().AddFlagSet(streamFlags.fs)
}

func runStream(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	stream, err := streamFlags.apply(client.Request()).
		WithMessage(gemini.UserMessage(strings.Join(args, " "))).
		Stream(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	var streamErr error
	for ev := range stream.All() {
		switch ev.Kind {
		case gemini.EventDelta:
			fmt.Fprint(out, ev.Text)
		case gemini.EventFunctionCall:
			fmt.Fprintln(out)
			printFunctionCall(out, ev.FunctionCall)
		case gemini.EventUsage:
			if !quiet {
				color.New(color.Faint).Fprintf(cmd.ErrOrStderr(), "\ntokens: prompt=%d completion=%d total=%d\n",
					ev.Usage.PromptTokens, ev.Usage.CompletionTokens, ev.Usage.TotalTokens)
			}
		case gemini.EventError:
			streamErr = errors.New(ev.Message)
			if ev.Err != nil {
				streamErr = fmt.Errorf("%s: %w", ev.Message, ev.Err)
			}
		}
	}
	fmt.Fprintln(out)
	return streamErr
}
