// Package mcptool exposes one calculator to MCP clients as tools.
package mcptool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"go-chi-calculator/internal/calculator"
)

// PressResult is the JSON text returned by press_keys and read_display. The
// flags are set when any key of the call hit that failure.
type PressResult struct {
	Display        string `json:"display"`
	DivisionByZero bool   `json:"division_by_zero"`
	OutOfRange     bool   `json:"out_of_range,omitempty"`
}

// Tools owns the calculator shared by every tool call of one server.
type Tools struct {
	mu     sync.Mutex
	calc   *calculator.Calculator
	logger *zap.Logger
}

func NewTools(logger *zap.Logger) *Tools {
	return &Tools{calc: calculator.New(), logger: logger}
}

// NewServer builds an MCP server with the calculator tools registered.
func NewServer(version string, logger *zap.Logger) *server.MCPServer {
	s := server.NewMCPServer(
		"calc",
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)
	NewTools(logger).Register(s)
	return s
}

// Register adds press_keys, read_display and clear to s.
func (t *Tools) Register(s *server.MCPServer) {
	s.AddTool(mcp.NewTool("press_keys",
		mcp.WithDescription("Press calculator keys in order and return the display. "+
			"Keys: 0-9 . + − × ÷ = C ⌫ %; the ASCII aliases - * / are accepted."),
		mcp.WithString("keys",
			mcp.Required(),
			mcp.Description("Keys to press, e.g. '12+7='"),
		),
	), t.PressKeys)

	s.AddTool(mcp.NewTool("read_display",
		mcp.WithDescription("Return the calculator display without pressing anything"),
	), t.ReadDisplay)

	s.AddTool(mcp.NewTool("clear",
		mcp.WithDescription("Press C: reset the display and forget any pending operation"),
	), t.Clear)
}

func (t *Tools) PressKeys(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	keys, ok := args["keys"].(string)
	if !ok || keys == "" {
		return mcp.NewToolResultError("keys is required"), nil
	}

	parsed, err := calculator.Tokenize(keys)
	if err != nil {
		t.logger.Warn("press_keys rejected", zap.String("keys", keys), zap.Error(err))
		return mcp.NewToolResultError(fmt.Sprintf("Error pressing keys: %v", err)), nil
	}

	var res PressResult
	t.mu.Lock()
	for _, k := range parsed {
		err := t.calc.Apply(k)
		res.DivisionByZero = res.DivisionByZero || errors.Is(err, calculator.ErrDivisionByZero)
		res.OutOfRange = res.OutOfRange || errors.Is(err, calculator.ErrNonFiniteResult)
	}
	display := t.calc.Display()
	t.mu.Unlock()
	res.Display = calculator.FitDisplay(display, calculator.DisplayWidth)

	t.logger.Info("press_keys",
		zap.String("keys", keys),
		zap.String("display", res.Display),
		zap.Bool("division_by_zero", res.DivisionByZero),
		zap.Bool("out_of_range", res.OutOfRange),
	)

	return textResult(res)
}

func (t *Tools) ReadDisplay(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	t.mu.Lock()
	display := t.calc.Display()
	t.mu.Unlock()

	return textResult(PressResult{Display: calculator.FitDisplay(display, calculator.DisplayWidth)})
}

func (t *Tools) Clear(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	t.mu.Lock()
	t.calc.Reset()
	display := t.calc.Display()
	t.mu.Unlock()

	t.logger.Info("calculator cleared")
	return textResult(PressResult{Display: display})
}

func textResult(v any) (*mcp.CallToolResult, error) {
	content, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Error encoding result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(content)), nil
}
