/*
Package gemini is a completion client for Google's Gemini models, served
either by the public Generative Language API (API key) or by Vertex AI
(bearer token).

# Design Principles

  - Explicit configuration: a Client is bound to exactly one backend and model
  - Stateless calls: nothing is cached or persisted between calls
  - Errors are values: transport, decode and stream failures are all reported,
    never swallowed or retried behind the caller's back

# Quick Start

	client, err := gemini.New(
	    gemini.WithAPIKey(os.Getenv("GEMINI_API_KEY")),
	    gemini.WithModel("gemini-2.5-flash"),
	)
	if err != nil {
	    log.Fatal(err)
	}

	resp, err := client.Request().
	    WithSystem("You are helpful.").
	    WithMessage(gemini.UserMessage("Explain AI in one sentence.")).
	    WithSettings(gemini.Settings{MaxTokens: gemini.IntPtr(100)}).
	    Completion(ctx)

# Streaming

Stream returns a lazy, pull-based sequence. Nothing is read from the network
until the next event is requested, and leaving the loop early releases the
connection.

	stream, err := client.Request().
	    WithMessage(gemini.UserMessage("Tell me a joke.")).
	    Stream(ctx)
	if err != nil {
	    log.Fatal(err)
	}
	for ev := range stream.All() {
	    switch ev.Kind {
	    case gemini.EventDelta:
	        fmt.Print(ev.Text)
	    case gemini.EventError:
	        log.Print(ev.Message)
	    }
	}

# Vertex AI

	client, err := gemini.New(
	    gemini.WithVertex("us-central1", "my-project", auth.Default()),
	    gemini.WithModel("gemini-2.5-pro"),
	)

# Thread Safety

Client is safe for concurrent use. RequestBuilder and EventStream belong to a
single goroutine.
*/
package gemini
