// Package llmtest provides an in-memory llm.Client for tests.
package llmtest

import (
	"context"
	"errors"
	"sync"

	"github.com/maheshdila/cv-gen-BE/internal/llm"
)

// Reply is one scripted response. A non-nil Err is returned instead of Text.
type Reply struct {
	Text string
	Err  error
}

// Call records a prompt the client received.
type Call struct {
	Prompt string
	Tier   llm.ModelTier
	JSON   bool
}

// FakeClient replays scripted replies in order and records every call.
// When the script runs out the last reply is repeated.
type FakeClient struct {
	mu      sync.Mutex
	replies []Reply
	calls   []Call
	closed  bool
}

var _ llm.Client = (*FakeClient)(nil)

// NewFakeClient returns a client that answers with the given texts in order.
func NewFakeClient(texts ...string) *FakeClient {
	replies := make([]Reply, len(texts))
	for i, text := range texts {
		replies[i] = Reply{Text: text}
	}
	return &FakeClient{replies: replies}
}

// NewFakeClientWithReplies returns a client that answers with the given replies in order.
func NewFakeClientWithReplies(replies ...Reply) *FakeClient {
	return &FakeClient{replies: replies}
}

func (c *FakeClient) GenerateContent(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	return c.next(ctx, Call{Prompt: prompt, Tier: tier})
}

func (c *FakeClient) GenerateJSON(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	return c.next(ctx, Call{Prompt: prompt, Tier: tier, JSON: true})
}

func (c *FakeClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

// Calls returns a copy of the recorded calls.
func (c *FakeClient) Calls() []Call {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Call(nil), c.calls...)
}

// Closed reports whether Close was called.
func (c *FakeClient) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *FakeClient) next(ctx context.Context, call Call) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	idx := len(c.calls)
	c.calls = append(c.calls, call)
	if len(c.replies) == 0 {
		return "", errors.New("llmtest: no scripted reply")
	}
	if idx >= len(c.replies) {
		idx = len(c.replies) - 1
	}
	reply := c.replies[idx]
	return reply.Text, reply.Err
}
