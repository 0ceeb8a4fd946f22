// Package graph composes the consultant agent: context assembly, the
// tool-calling response model, and the tool executor loop.
package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"

	"github.com/kira-carbon/server/internal/agent/graph/nodes"
	"github.com/kira-carbon/server/internal/agent/graph/observers"
	"github.com/kira-carbon/server/internal/agent/graph/tools"
	"github.com/kira-carbon/server/internal/agent/model"
	"github.com/kira-carbon/server/internal/store"
	logx "github.com/kira-carbon/server/pkg/logger"
)

// Runner executes the compiled graph for one consultant query and returns
// the model's final text verbatim.
type Runner interface {
	Invoke(ctx context.Context, in model.QueryInput) (string, error)
}

// Config holds everything needed to compose the consultant graph end-to-end.
type Config struct {
	Client    *genai.Client
	ChatModel model.ChatModelConfig
	Prompt    model.PromptConfig
	Tools     model.ToolsConfig
	Store     store.Store
}

// GraphConfig holds the already constructed pieces the builder wires together.
type GraphConfig struct {
	ResponseModel     toolCallingChatModel
	ResponseModelName string
	PromptConfig      model.PromptConfig
	Store             store.Store
	ToolDeps          tools.Deps
	ToolMaxCalls      int
}

// toolCallingChatModel is the slice of the eino chat-model surface the
// builder needs; keeping it narrow lets tests wire a fake model in.
type toolCallingChatModel interface {
	einomodel.BaseChatModel
	nodes.ToolBinder
}

// GraphBuilder handles the construction of the consultant graph.
type GraphBuilder struct {
	config *GraphConfig
	graph  *compose.Graph[model.QueryInput, *schema.Message]
}

type graphRunner struct {
	runnable compose.Runnable[model.QueryInput, *schema.Message]
}

func (r *graphRunner) Invoke(ctx context.Context, in model.QueryInput) (string, error) {
	out, err := r.runnable.Invoke(ctx, in, compose.WithCallbacks(observers.NewAllCallbacks()))
	if err != nil {
		return "", err
	}
	if out == nil {
		return "", nil
	}
	return out.Content, nil
}

// BuildConsultantGraph constructs the chat model, wires the tool registry,
// builds the graph and returns a Runner.
func BuildConsultantGraph(ctx context.Context, cfg Config) (Runner, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("store is nil")
	}
	if cfg.Client == nil {
		return nil, fmt.Errorf("genai client is nil")
	}

	chatModel, err := nodes.NewResponseChatModel(ctx, cfg.Client, cfg.ChatModel)
	if err != nil {
		return nil, err
	}

	runnable, err := BuildGraph(ctx, &GraphConfig{
		ResponseModel:     chatModel,
		ResponseModelName: cfg.ChatModel.Model,
		PromptConfig:      cfg.Prompt,
		Store:             cfg.Store,
		ToolDeps: tools.Deps{
			Store:          cfg.Store,
			DefaultTaxRate: cfg.Tools.DefaultTaxRate,
		},
		ToolMaxCalls: cfg.Tools.MaxCalls,
	})
	if err != nil {
		return nil, err
	}

	logx.Debug().Msg("Consultant graph built successfully")
	return &graphRunner{runnable: runnable}, nil
}

// BuildGraph constructs and returns the compiled consultant graph.
func BuildGraph(ctx context.Context, config *GraphConfig) (compose.Runnable[model.QueryInput, *schema.Message], error) {
	if config == nil {
		return nil, fmt.Errorf("graph config is nil")
	}
	if config.ResponseModel == nil {
		return nil, fmt.Errorf("response model is not initialized")
	}
	if config.Store == nil {
		return nil, fmt.Errorf("store is nil")
	}

	builder := &GraphBuilder{
		config: config,
		graph: compose.NewGraph[model.QueryInput, *schema.Message](
			compose.WithGenLocalState(func(ctx context.Context) *model.AppState {
				return &model.AppState{}
			}),
		),
	}

	if err := builder.setupTools(ctx); err != nil {
		return nil, err
	}

	builder.addNodes()
	builder.addEdges()

	if err := builder.addBranches(); err != nil {
		return nil, err
	}

	return builder.compile(ctx)
}

// setupTools builds the tool registry, binds it to the response model and
// adds the executor node.
func (b *GraphBuilder) setupTools(ctx context.Context) error {
	registry := tools.NewRegistry(b.config.ToolDeps)
	infos, err := tools.Infos(ctx, registry)
	if err != nil {
		logx.Error().Err(err).Msg("Failed to get tool infos")
		return fmt.Errorf("failed to get tool infos: %w", err)
	}

	if err := nodes.BindTools(b.config.ResponseModel, infos); err != nil {
		return err
	}

	toolsNode, err := compose.NewToolNode(ctx, &compose.ToolsNodeConfig{
		Tools:               registry,
		ExecuteSequentially: true,
		UnknownToolsHandler: func(ctx context.Context, name, input string) (string, error) {
			// Gracefully handle hallucinated or malformed tool calls (e.g., empty name)
			logx.Warn().
				Str("tool_name", name).
				Str("arguments", input).
				Msg("Unknown or invalid tool call; returning fallback result")
			// Return a compact, structured message the model can use to proceed
			return fmt.Sprintf("{\"error\":\"unknown_tool\",\"name\":%q,\"note\":\"ignored\"}", name), nil
		},
		ToolArgumentsHandler: sanitizeToolArguments,
	})
	if err != nil {
		logx.Error().Err(err).Msg("Failed to create tools node")
		return fmt.Errorf("failed to create tools node: %w", err)
	}

	b.graph.AddToolsNode(nodes.NodeToolExecutor, toolsNode,
		compose.WithStatePreHandler(nodes.NewToolExecutorPreHandler(b.config.ToolMaxCalls)),
	)

	return nil
}

// sanitizeToolArguments best-effort normalizes model-provided arguments
// before dispatch; it never fails hard.
func sanitizeToolArguments(ctx context.Context, name, arguments string) (string, error) {
	var m map[string]any
	if err := json.Unmarshal([]byte(arguments), &m); err != nil {
		// keep original if not JSON
		return arguments, nil
	}

	coerceString := func(key string) {
		if v, ok := m[key]; ok {
			switch vv := v.(type) {
			case string:
				m[key] = strings.TrimSpace(vv)
			default:
				m[key] = strings.TrimSpace(fmt.Sprint(v))
			}
		}
	}
	dropNonNumber := func(key string) {
		if v, ok := m[key]; ok {
			switch v.(type) {
			case float64:
				// JSON numbers decode as float64
			default:
				delete(m, key)
			}
		}
	}

	switch name {
	case tools.ToolSearchGreenDirectory:
		coerceString("query")
	case tools.ToolSimulateTaxImpact:
		coerceString("user_id")
		dropNonNumber("proposed_tax_rate")
	case tools.ToolSimulateInvestment:
		coerceString("asset_id")
		dropNonNumber("monthly_energy_usage_kwh")
	case tools.ToolIndustryBenchmark:
		coerceString("user_id")
	}

	b, err := json.Marshal(m)
	if err != nil {
		// fallback to original
		return arguments, nil
	}
	return string(b), nil
}

// addNodes adds all processing nodes to the graph
func (b *GraphBuilder) addNodes() {
	b.graph.AddLambdaNode(nodes.NodeContextAssembler,
		nodes.NewContextAssemblerNode(b.config.Store, b.config.PromptConfig),
		compose.WithStatePreHandler(nodes.NewContextAssemblerPreHandler()),
	)

	b.graph.AddChatModelNode(nodes.NodeResponseChatModel,
		b.config.ResponseModel,
		compose.WithStatePreHandler(nodes.NewResponseChatModelPreHandler(b.config.ToolMaxCalls)),
		compose.WithStatePostHandler(nodes.NewResponseChatModelPostHandler(b.config.ResponseModelName)),
	)
}

// addEdges creates the main flow connections between nodes
func (b *GraphBuilder) addEdges() {
	edges := [][2]string{
		{compose.START, nodes.NodeContextAssembler},
		{nodes.NodeContextAssembler, nodes.NodeResponseChatModel},
		{nodes.NodeToolExecutor, nodes.NodeResponseChatModel},
	}

	for _, edge := range edges {
		b.graph.AddEdge(edge[0], edge[1])
	}
}

// addBranches creates the tool-execution routing branch
func (b *GraphBuilder) addBranches() error {
	decisionBranch := compose.NewGraphBranch(
		nodes.NewToolExecutorCondition(),
		map[string]bool{
			nodes.NodeToolExecutor: true,
			compose.END:            true,
		},
	)
	if err := b.graph.AddBranch(nodes.NodeResponseChatModel, decisionBranch); err != nil {
		logx.Error().Err(err).Msg("Error adding decision branch")
		return fmt.Errorf("error adding decision branch: %w", err)
	}

	return nil
}

// compile finalizes and compiles the graph
func (b *GraphBuilder) compile(ctx context.Context) (compose.Runnable[model.QueryInput, *schema.Message], error) {
	// Limit total run steps to avoid infinite loops in branching or tool retries
	maxSteps := 10 + b.config.ToolMaxCalls*2
	if maxSteps < 20 {
		maxSteps = 20
	}

	runnable, err := b.graph.Compile(ctx, compose.WithMaxRunSteps(maxSteps))
	if err != nil {
		logx.Error().Err(err).Msg("Error compiling graph")
		return nil, fmt.Errorf("error compiling graph: %w", err)
	}

	logx.Debug().Msg("Graph compiled successfully")
	return runnable, nil
}
