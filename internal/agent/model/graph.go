package model

import (
	"github.com/cloudwego/eino/schema"
)

// AppState stores per-invocation state for the Eino Graph.
// Concurrency model:
//   - This struct is registered as Graph Local State via compose.WithGenLocalState.
//   - All reads/writes happen only inside Eino state handlers:
//     WithStatePreHandler, WithStatePostHandler, or compose.ProcessState.
//   - Eino serializes access to state within these handlers, so no additional
//     mutex/atomic is required as long as you never touch it outside handlers.
//
// The agent itself is stateless across invocations: History lives and dies
// with a single query, nothing is persisted between calls. Multi-turn memory,
// if any, is the caller's responsibility.
type AppState struct {
	UserID               string
	History              []*schema.Message // mutated only inside Eino state handlers
	ToolCallCount        int               // maintained in handlers (reset/increment)
	ToolCallLimitReached bool              // set when tool call limit is exceeded
	ToolCallIDSeq        int               // local sequence to synthesize tool_call_id when provider omits

	// Accumulated total LLM cost (USD) across model invocations for this query
	TotalCostUSD float64
}

// QueryInput is one consultant request: a user, their message, and an
// optional receipt to ground the answer in.
type QueryInput struct {
	UserID    string `json:"user_id"`
	Message   string `json:"message"`
	ReceiptID string `json:"receipt_id,omitempty"`
}
