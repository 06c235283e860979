package main

import (
	"time"

	"github.com/spf13/pflag"

	"github.com/voocel/gemini"
)

// requestFlags are shared by the commands that send prompts. Only flags the
// user actually set override the configured default settings.
type requestFlags struct {
	system         string
	maxTokens      int
	temperature    float64
	thinkingBudget int
	timeout        time.Duration

	fs *pflag.FlagSet
}

func newRequestFlags() *requestFlags {
	f := &requestFlags{fs: pflag.NewFlagSet("request", pflag.ContinueOnError)}
	f.fs.StringVarP(&f.system, "system", "s", "", "system instruction")
	f.fs.IntVar(&f.maxTokens, "max-tokens", 0, "maximum output tokens")
	f.fs.Float64VarP(&f.temperature, "temperature", "t", 0, "sampling temperature (0.0 to 2.0)")
	f.fs.IntVar(&f.thinkingBudget, "thinking-budget", 0, "thinking token budget for models that support it")
	f.fs.DurationVar(&f.timeout, "timeout", 0, "per-call timeout, e.g. 30s")
	return f
}

// apply stages the flags on b.
func (f *requestFlags) apply(b *gemini.RequestBuilder) *gemini.RequestBuilder {
	if f.system != "" {
		b.WithSystem(f.system)
	}

	staged := b.Build()
	var s gemini.Settings
	if staged.Settings != nil {
		s = *staged.Settings
	}
	changed := false
	if f.fs.Changed("max-tokens") {
		s.MaxTokens = gemini.IntPtr(f.maxTokens)
		changed = true
	}
	if f.fs.Changed("temperature") {
		s.Temperature = gemini.Float64Ptr(f.temperature)
		changed = true
	}
	if f.fs.Changed("thinking-budget") {
		s.ThinkingBudget = gemini.IntPtr(f.thinkingBudget)
		changed = true
	}
	if f.fs.Changed("timeout") {
		s.Timeout = gemini.DurationPtr(f.timeout)
		changed = true
	}
	if changed {
		b.WithSettings(s)
	}
	return b
}
