package model

// ================ Config ================

// ChatModelConfig tunes the response model driving the consultant agent.
type ChatModelConfig struct {
	Model       string  `envconfig:"CHAT_MODEL" default:"gemini-2.5-flash"`
	MaxTokens   int     `envconfig:"CHAT_MAX_TOKENS" default:"2000"`
	Temperature float32 `envconfig:"CHAT_TEMPERATURE" default:"0.4"`
}

// PromptConfig parameterizes the consultant system prompt.
type PromptConfig struct {
	AssistantName string `envconfig:"PROMPT_ASSISTANT_NAME" default:"Kira"`
	Audience      string `envconfig:"PROMPT_AUDIENCE" default:"Malaysian SMEs"`
	Currency      string `envconfig:"PROMPT_CURRENCY" default:"RM"`
}

// ToolsConfig bounds tool usage per query.
type ToolsConfig struct {
	MaxCalls int `envconfig:"TOOL_MAX_CALLS" default:"10"`

	// DefaultTaxRate is the carbon tax rate (RM/tonne) the tax simulator
	// assumes when the model does not pass one.
	DefaultTaxRate float64 `envconfig:"TOOL_DEFAULT_TAX_RATE" default:"30"`
}
