// Package assistant turns a conversation history into one streamed response
// turn. It is the only package that talks to the model.
//
// The dispatcher builds the system instructions (category directory plus
// behavioral guidance), converts the client-held history into model
// messages, and runs the Genkit agentic loop with the wishlist tools bound.
// Everything the model produces is delivered as frames through a FrameSink:
// text fragments as they stream, tool-call and tool-result frames from
// inside tool executions, and exactly one terminal frame per turn. Provider
// failures never escape as Go errors or panics; they become a single error
// frame.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"golang.org/x/time/rate"

	"github.com/wishkeep/wishkeep/internal/log"
	"github.com/wishkeep/wishkeep/internal/stream"
	"github.com/wishkeep/wishkeep/internal/tools"
	"github.com/wishkeep/wishkeep/internal/wishlist"
)

// Message roles accepted from clients.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Sentinel errors for history validation.
var (
	ErrEmptyHistory   = errors.New("history is empty")
	ErrInvalidRole    = errors.New("invalid message role")
	ErrEmptyContent   = errors.New("empty message content")
	ErrLastNotUser    = errors.New("last message must be from the user")
	ErrTooManyMessage = errors.New("too many messages")
)

// maxHistoryMessages bounds the history a single request may carry.
const maxHistoryMessages = 200

// Message is one entry of the client-held conversation history. The client
// owns the transcript; the server is stateless between turns.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CategoryLister supplies the category directory for the system prompt.
// *wishlist.Store satisfies this.
type CategoryLister interface {
	ListCategories(ctx context.Context) ([]wishlist.Category, error)
}

// Config contains all required parameters for the Dispatcher.
type Config struct {
	Genkit     *genkit.Genkit
	Categories CategoryLister
	Tools      []ai.ToolRef // Pre-registered via tools.Kit.Register
	Logger     log.Logger

	// ModelName is the provider-qualified model, e.g. "googleai/gemini-2.5-flash".
	ModelName string

	// MaxTurns caps the agentic loop. Defaults to 5.
	MaxTurns int

	// RateLimiter throttles model calls. Nil installs the default of
	// 10 requests/sec sustained with a burst of 30.
	RateLimiter *rate.Limiter
}

func (cfg Config) validate() error {
	if cfg.Genkit == nil {
		return errors.New("genkit instance is required")
	}
	if cfg.Categories == nil {
		return errors.New("category lister is required")
	}
	if len(cfg.Tools) == 0 {
		return errors.New("at least one tool is required")
	}
	if cfg.Logger == nil {
		return errors.New("logger is required")
	}
	if cfg.ModelName == "" {
		return errors.New("model name is required")
	}
	return nil
}

// Dispatcher runs conversation turns against the model.
//
// Dispatcher is stateless across turns and safe for concurrent use.
type Dispatcher struct {
	g           *genkit.Genkit
	categories  CategoryLister
	toolRefs    []ai.ToolRef
	logger      log.Logger
	modelName   string
	maxTurns    int
	rateLimiter *rate.Limiter
}

// New creates a Dispatcher.
func New(cfg Config) (*Dispatcher, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	maxTurns := cfg.MaxTurns
	if maxTurns <= 0 {
		maxTurns = 5
	}

	rl := cfg.RateLimiter
	if rl == nil {
		rl = rate.NewLimiter(10, 30)
	}

	return &Dispatcher{
		g:           cfg.Genkit,
		categories:  cfg.Categories,
		toolRefs:    cfg.Tools,
		logger:      cfg.Logger.With("component", "assistant"),
		modelName:   cfg.ModelName,
		maxTurns:    maxTurns,
		rateLimiter: rl,
	}, nil
}

// ValidateHistory checks a client-submitted history before any model work.
func ValidateHistory(history []Message) error {
	if len(history) == 0 {
		return ErrEmptyHistory
	}
	if len(history) > maxHistoryMessages {
		return fmt.Errorf("%w: %d (max %d)", ErrTooManyMessage, len(history), maxHistoryMessages)
	}
	for i, m := range history {
		if m.Role != RoleUser && m.Role != RoleAssistant {
			return fmt.Errorf("%w: %q at index %d", ErrInvalidRole, m.Role, i)
		}
		if strings.TrimSpace(m.Content) == "" {
			return fmt.Errorf("%w: index %d", ErrEmptyContent, i)
		}
	}
	if history[len(history)-1].Role != RoleUser {
		return ErrLastNotUser
	}
	return nil
}

// Stream runs one turn for the given owner and delivers every frame to
// sink. The sink always receives exactly one terminal frame: finish on
// success, error otherwise. Stream never returns an error to its caller;
// failures are reported on the stream and logged.
func (d *Dispatcher) Stream(ctx context.Context, ownerID string, history []Message, sink tools.FrameSink) {
	if err := ValidateHistory(history); err != nil {
		d.logger.Debug("rejected invalid history", "owner_id", ownerID, "error", err)
		sink.Emit(stream.ErrorFrame(stream.CodeInvalidRequest, err.Error()))
		return
	}

	system, err := d.buildSystemPrompt(ctx, ownerID)
	if err != nil {
		d.logger.Error("failed to build system prompt", "owner_id", ownerID, "error", err)
		sink.Emit(stream.ErrorFrame(stream.CodeInternal, "the assistant is temporarily unavailable"))
		return
	}

	if err := d.rateLimiter.Wait(ctx); err != nil {
		d.logger.Warn("rate limit wait aborted", "owner_id", ownerID, "error", err)
		sink.Emit(stream.ErrorFrame(stream.CodeProvider, "the assistant is busy, please retry shortly"))
		return
	}

	// Tool handlers read the owner and the sink from context; frames they
	// emit interleave with the text chunks below in call order.
	ctx = tools.ContextWithOwnerID(ctx, ownerID)
	ctx = tools.ContextWithSink(ctx, sink)

	resp, err := genkit.Generate(ctx, d.g,
		ai.WithModelName(d.modelName),
		ai.WithSystem(system),
		ai.WithMessages(toModelMessages(history)...),
		ai.WithTools(d.toolRefs...),
		ai.WithMaxTurns(d.maxTurns),
		ai.WithStreaming(func(_ context.Context, chunk *ai.ModelResponseChunk) error {
			if text := chunk.Text(); text != "" {
				sink.Emit(stream.TextFrame(text))
			}
			return nil
		}),
	)
	if err != nil {
		d.logger.Error("model generation failed", "owner_id", ownerID, "error", err)
		sink.Emit(stream.ErrorFrame(stream.CodeProvider, "the assistant could not complete the request"))
		return
	}

	reason := string(resp.FinishReason)
	if reason == "" {
		reason = "stop"
	}
	d.logger.Debug("turn completed", "owner_id", ownerID, "finish_reason", reason)
	sink.Emit(stream.FinishFrame(reason))
}

// buildSystemPrompt assembles the instructions for one turn: who the model
// is, the live category directory, and how to use the tools.
func (d *Dispatcher) buildSystemPrompt(ctx context.Context, ownerID string) (string, error) {
	categories, err := d.categories.ListCategories(ctx)
	if err != nil {
		return "", fmt.Errorf("listing categories: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("You are the assistant for a personal wishlist tracker. ")
	sb.WriteString("You help the user capture things they want to read, watch, visit, buy, or do, ")
	sb.WriteString("and keep that list current.\n\n")

	sb.WriteString("Available categories (use the id with tools):\n")
	for _, c := range categories {
		fmt.Fprintf(&sb, "- %s: %s\n", c.ID, c.Name)
	}

	sb.WriteString("\nYou are acting for user ")
	sb.WriteString(ownerID)
	sb.WriteString(". Tools already operate on this user's list; never ask who the list belongs to.\n\n")

	sb.WriteString("Guidance:\n")
	sb.WriteString("- Use createItem to add, queryItems to list or search, toggleItem to mark items done or reopen them.\n")
	sb.WriteString("- Pick the most fitting categoryId; use 'other' only when nothing else fits.\n")
	sb.WriteString("- When a tool returns success=false, explain the reason conversationally and ask how to proceed.\n")
	sb.WriteString("- When createItem reports similar existing items, do not retry on your own; ask the user first.\n")
	sb.WriteString("- An empty query result means the list is empty, which is fine to say directly.\n")
	sb.WriteString("- Keep replies short and conversational.\n")

	return sb.String(), nil
}

// toModelMessages converts the wire history to model messages. Only role
// and content cross this boundary.
func toModelMessages(history []Message) []*ai.Message {
	messages := make([]*ai.Message, len(history))
	for i, m := range history {
		role := ai.RoleUser
		if m.Role == RoleAssistant {
			role = ai.RoleModel
		}
		messages[i] = &ai.Message{
			Role:    role,
			Content: []*ai.Part{ai.NewTextPart(m.Content)},
		}
	}
	return messages
}
