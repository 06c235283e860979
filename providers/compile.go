package providers

// Compile turns a generic request into the Gemini wire request for model.
// It never fails: absent fields fall back to backend defaults.
func Compile(req Request, model string) WireRequest {
	var settings Settings
	if req.Settings != nil {
		settings = *req.Settings
	}

	config := WireGenerationConfig{
		MaxOutputTokens: settings.MaxTokens,
	}
	if settings.Temperature != nil {
		config.Temperature = *settings.Temperature
	}
	if SupportsThinking(model) {
		budget := 0
		if settings.ThinkingBudget != nil {
			budget = *settings.ThinkingBudget
		}
		config.ThinkingConfig = &WireThinkingConfig{ThinkingBudget: budget}
	}

	contents := make([]WireContent, 0, len(req.Messages))
	for _, msg := range req.Messages {
		role := msg.Role
		if role == "" {
			role = RoleUser
		}
		contents = append(contents, WireContent{
			Role:  role,
			Parts: []WireTextPart{{Text: msg.Content}},
		})
	}

	wire := WireRequest{
		Contents:         contents,
		GenerationConfig: config,
	}

	if req.System != "" {
		wire.SystemInstruction = &WireSystemInstruction{
			Parts: []WireTextPart{{Text: req.System}},
		}
	}

	if len(req.Tools) > 0 {
		decls := make([]WireFunctionDeclaration, 0, len(req.Tools))
		for _, t := range req.Tools {
			decls = append(decls, WireFunctionDeclaration{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.Parameters.clone(),
			})
		}
		wire.Tools = []WireTool{{FunctionDeclarations: decls}}
	}

	return wire
}
