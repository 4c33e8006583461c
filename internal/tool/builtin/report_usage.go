package builtin

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"

	"github.com/sessionguardian/session-guardian/internal/guard"
	"github.com/sessionguardian/session-guardian/internal/tool"
)

// ReportUsageTool is the inbound-event surface for hosts driving the guardian
// over the tool protocol: the host reports consumed tokens after each model
// response and gets back the advisory to inject into its next request, or a
// lightweight status line when the band is unchanged.
type ReportUsageTool struct {
	tracker *guard.Tracker
}

// NewReportUsageTool creates the report_usage tool around a shared tracker.
func NewReportUsageTool(tracker *guard.Tracker) *ReportUsageTool {
	return &ReportUsageTool{tracker: tracker}
}

func (t *ReportUsageTool) Name() string { return "report_usage" }
func (t *ReportUsageTool) Description() string {
	return "Report context token usage after a model response. Returns a guardian advisory to inject into the next request when a usage threshold is crossed."
}

func (t *ReportUsageTool) InputSchema() json.RawMessage {
	return tool.BuildSchema(
		tool.SchemaParam{Name: "consumed_tokens", Type: "integer", Required: true,
			Description: "Input tokens of the latest response (full context, not cumulative)"},
		tool.SchemaParam{Name: "window_size", Type: "integer",
			Description: "Context window size in tokens; defaults to the configured window"},
	)
}

type reportUsageArgs struct {
	ConsumedTokens int `json:"consumed_tokens"`
	WindowSize     int `json:"window_size"`
}

func (t *ReportUsageTool) Execute(_ context.Context, args json.RawMessage) (tool.ToolResult, error) {
	var a reportUsageArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return tool.ToolResult{Error: fmt.Sprintf("invalid arguments: %v", err)}, nil
	}
	if a.WindowSize == 0 {
		a.WindowSize = t.tracker.Config().ContextWindow
	}

	sample := guard.UsageSample{ConsumedTokens: a.ConsumedTokens, WindowSize: a.WindowSize}
	if err := sample.Validate(); err != nil {
		return tool.ToolResult{Error: err.Error()}, nil
	}

	d := t.tracker.Observe(sample)
	if d == nil || d.Advisory() == "" {
		pct := int(math.Round(t.tracker.Ratio() * 100))
		return tool.ToolResult{Output: fmt.Sprintf("[Guardian: %d%% context used, turn %d]", pct, t.tracker.Turns())}, nil
	}

	log.Printf("[Guardian] %s: %s", d.Level(), d.UserMessage())
	return tool.ToolResult{Output: d.Advisory()}, nil
}
