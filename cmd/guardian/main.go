package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"

	"github.com/sessionguardian/session-guardian/internal/config"
	"github.com/sessionguardian/session-guardian/internal/guard"
	"github.com/sessionguardian/session-guardian/internal/llm"
	"github.com/sessionguardian/session-guardian/internal/mcpserver"
	"github.com/sessionguardian/session-guardian/internal/state"
	"github.com/sessionguardian/session-guardian/internal/tool"
	"github.com/sessionguardian/session-guardian/internal/tool/builtin"
)

func main() {
	config.LoadEnv()

	cfg, err := config.Load(os.Getenv("GUARDIAN_CONFIG"))
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	gcfg, err := cfg.Guard()
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	sessionID := uuid.NewString()
	store := state.NewStore(cfg.StateDir, cfg.PruneMaxAge())
	tracker := guard.NewTracker(gcfg)

	registry := tool.NewRegistry()
	registry.Register(builtin.NewSaveStateTool(store, sessionID))
	registry.Register(builtin.NewLoadStateTool(store))
	registry.Register(builtin.NewListStatesTool(store))
	registry.Register(builtin.NewReportUsageTool(tracker))

	mode := "serve"
	if len(os.Args) > 1 {
		mode = os.Args[1]
	}

	switch mode {
	case "serve":
		// stdout belongs to the MCP transport; keep all reporting on stderr.
		log.Printf("[Guardian] session %s, window=%d soft=%.0f%% hard=%.0f%%, state dir %s",
			sessionID, gcfg.ContextWindow, gcfg.SoftThreshold*100, gcfg.HardThreshold*100, store.Dir())
		if offer := detectResume(store); offer != nil {
			log.Printf("[Guardian] resumable state found: %s (%s)", offer.Meta.Summary, offer.Meta.ID)
		}
		if err := mcpserver.ServeStdio(mcpserver.New("session-guardian", "0.1.0", registry)); err != nil {
			log.Fatalf("❌ MCP server: %v", err)
		}

	case "chat":
		fmt.Printf("🛡️  Guardian session %s\n", sessionID)
		fmt.Printf("📐 Window %d tokens, soft %.0f%%, hard %.0f%%\n",
			gcfg.ContextWindow, gcfg.SoftThreshold*100, gcfg.HardThreshold*100)
		fmt.Printf("📂 State dir: %s\n", store.Dir())
		if offer := detectResume(store); offer != nil {
			fmt.Println()
			fmt.Print(offer.Render())
		}
		if err := runChat(tracker, store, sessionID); err != nil {
			log.Fatalf("❌ %v", err)
		}

	default:
		fmt.Fprintf(os.Stderr, "usage: guardian [serve|chat]\n")
		os.Exit(2)
	}
}

// detectResume surfaces prior state without failing startup: resume detection
// is best-effort and a broken state directory must not block the session.
func detectResume(store *state.Store) *state.ResumeOffer {
	offer, err := state.DetectResumable(store)
	if err != nil {
		log.Printf("[Guardian] resume detection failed: %v", err)
		return nil
	}
	return offer
}

// runChat is a minimal metered chat loop: each exchange goes through the
// guardian meter, which feeds the tracker and injects advisories into the
// next request. On a Hard transition the session state is saved automatically
// before the user is told to hand off.
func runChat(tracker *guard.Tracker, store *state.Store, sessionID string) error {
	client, model, err := llm.NewClientFromEnv()
	if err != nil {
		return err
	}
	meter := llm.NewMeter(client, tracker)

	history := []openai.ChatCompletionMessage{}
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Println("Type a message (Ctrl-D to quit):")

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		history = append(history, openai.ChatCompletionMessage{
			Role: openai.ChatMessageRoleUser, Content: line,
		})
		resp, err := meter.CreateChatCompletion(context.Background(), openai.ChatCompletionRequest{
			Model:    model,
			Messages: history,
		})
		if err != nil {
			return fmt.Errorf("chat request: %w", err)
		}
		if len(resp.Choices) == 0 {
			return fmt.Errorf("chat request: empty response")
		}

		answer := resp.Choices[0].Message
		history = append(history, answer)
		fmt.Println(answer.Content)

		// A pending advisory means the band changed on this very turn, so
		// the auto-save below runs once per Hard transition, not every turn.
		if advisory := meter.PendingAdvisory(); advisory != "" {
			fmt.Printf("\n%s\n", advisory)
			if tracker.Band() == guard.BandHard {
				if err := autoSave(store, sessionID, history); err != nil {
					log.Printf("[Guardian] auto-save failed: %v", err)
				} else {
					fmt.Println("💾 Session state saved. Start a new session to continue.")
				}
			}
		}
	}
	return scanner.Err()
}

// autoSave writes a minimal handoff snapshot from the chat transcript.
func autoSave(store *state.Store, sessionID string, history []openai.ChatCompletionMessage) error {
	var asked []string
	for _, m := range history {
		if m.Role == openai.ChatMessageRoleUser {
			asked = append(asked, m.Content)
		}
	}
	summary := "Interactive chat session handoff"
	if len(asked) > 0 {
		summary = fmt.Sprintf("Chat session: %s", truncate(asked[len(asked)-1], 120))
	}
	_, err := store.Save(state.Input{
		Summary:      summary,
		Accomplished: []string{fmt.Sprintf("%d exchanges completed", len(asked))},
		Remaining:    []string{"resume conversation in a fresh session"},
		SessionID:    sessionID,
	})
	return err
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}
