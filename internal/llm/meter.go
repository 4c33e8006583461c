package llm

import (
	"context"
	"log"

	openai "github.com/sashabaranov/go-openai"

	"github.com/sessionguardian/session-guardian/internal/guard"
)

// ChatClient is the slice of the go-openai client the meter needs.
// *openai.Client satisfies it.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Meter wraps a chat client and runs the guardian's request/response cycle:
// after each response it feeds the usage accounting into the tracker, and a
// directive's advisory is injected as a system message at the head of the
// next outbound request, then discarded.
//
// Meter is single-goroutine, like the session loop that owns it.
type Meter struct {
	client  ChatClient
	tracker *guard.Tracker
	pending string // advisory awaiting injection into the next request
}

// NewMeter wraps client with guardian metering against tracker.
func NewMeter(client ChatClient, tracker *guard.Tracker) *Meter {
	return &Meter{client: client, tracker: tracker}
}

// CreateChatCompletion forwards the request, injecting any pending advisory
// first and observing the response's usage afterwards. Request and response
// pass through otherwise untouched.
func (m *Meter) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	if m.pending != "" {
		injected := make([]openai.ChatCompletionMessage, 0, len(req.Messages)+1)
		injected = append(injected, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: m.pending,
		})
		req.Messages = append(injected, req.Messages...)
		m.pending = ""
	}

	resp, err := m.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return resp, err
	}

	m.tracker.RecordOutput(resp.Usage.CompletionTokens)

	if resp.Usage.PromptTokens <= 0 {
		// Endpoint reports no prompt accounting; nothing to classify.
		return resp, nil
	}
	sample := SampleFromUsage(resp.Usage, m.tracker.Config().ContextWindow)
	if verr := sample.Validate(); verr != nil {
		log.Printf("[Guardian] dropping malformed usage sample: %v", verr)
		return resp, nil
	}
	if d := m.tracker.Observe(sample); d != nil {
		if advisory := d.Advisory(); advisory != "" {
			m.pending = advisory
			log.Printf("[Guardian] %s: %s", d.Level(), d.UserMessage())
		}
	}
	return resp, nil
}

// PendingAdvisory returns the advisory that will be injected into the next
// request, or "" when the band is unchanged.
func (m *Meter) PendingAdvisory() string { return m.pending }

// Tracker exposes the underlying tracker for status reporting.
func (m *Meter) Tracker() *guard.Tracker { return m.tracker }

// SampleFromUsage converts go-openai usage accounting into a tracker sample.
// PromptTokens covers the full context sent with the request, so the latest
// value equals current window occupancy rather than a cumulative count.
func SampleFromUsage(u openai.Usage, window int) guard.UsageSample {
	return guard.UsageSample{ConsumedTokens: u.PromptTokens, WindowSize: window}
}
