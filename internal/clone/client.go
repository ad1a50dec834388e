// Package clone is the protocol client for the clone coordination server.
//
// Each method maps to exactly one server capability. Bag reads (messages,
// memories, results) return the payload uncut. The task queue has two
// reads with different effects: FetchTask consumes at most one task and
// is not idempotent, ListTasks enumerates without consuming. A task seen
// by ListTasks may already be gone by the time FetchTask runs.
package clone

import (
	"context"
	"fmt"
	"net/url"

	"go.uber.org/zap"

	"clonectl/internal/config"
	"clonectl/internal/logging"
	"clonectl/internal/transport"
)

// Server paths.
const (
	PathSend     = "/send"
	PathRead     = "/read"
	PathRemember = "/remember"
	PathMemories = "/memories"
	PathAssign   = "/task/assign"
	PathTasks    = "/tasks"
	PathResult   = "/task/result"
	PathResults  = "/results"
)

// Client talks to one coordination server on behalf of one clone identity.
// Errors from every method are *transport.Error values when the remote
// operation failed.
type Client struct {
	transport *transport.Transport
	id        string
	logger    *zap.Logger
}

// New creates a Client over an existing transport.
func New(tr *transport.Transport, id string, logger *zap.Logger) *Client {
	return &Client{
		transport: tr,
		id:        id,
		logger:    logging.Get(logger, logging.CategoryClient),
	}
}

// NewFromConfig builds the transport and client from configuration.
func NewFromConfig(cfg *config.Config, logger *zap.Logger) (*Client, error) {
	tr, err := transport.New(cfg.Server.BaseURL,
		transport.WithLogger(logging.Get(logger, logging.CategoryTransport)))
	if err != nil {
		return nil, fmt.Errorf("failed to create transport: %w", err)
	}
	return New(tr, cfg.Clone.ID, logger), nil
}

// ID returns the clone identity used to tag requests.
func (c *Client) ID() string {
	return c.id
}

// SendMessage broadcasts a message to every clone.
func (c *Client) SendMessage(ctx context.Context, message string) error {
	_, err := c.transport.Post(ctx, PathSend, messageRequest{ID: c.id, Message: message})
	return err
}

// ReadMessages returns every broadcast message.
func (c *Client) ReadMessages(ctx context.Context) (Collection, error) {
	return c.readBag(ctx, PathRead)
}

// Remember stores a shared fact.
func (c *Client) Remember(ctx context.Context, fact string) error {
	_, err := c.transport.Post(ctx, PathRemember, factRequest{ID: c.id, Fact: fact})
	return err
}

// Memories returns every shared fact.
func (c *Client) Memories(ctx context.Context) (Collection, error) {
	return c.readBag(ctx, PathMemories)
}

// SubmitResult reports a task result. Nothing ties the result to a task;
// one result per task is a convention, not enforced here.
func (c *Client) SubmitResult(ctx context.Context, result string) error {
	_, err := c.transport.Post(ctx, PathResult, resultRequest{ID: c.id, Result: result})
	return err
}

// Results returns every submitted result.
func (c *Client) Results(ctx context.Context) (Collection, error) {
	return c.readBag(ctx, PathResults)
}

// FetchTask consumes the next task for this clone. An empty queue yields
// NoTask with a nil error; a null, missing or empty "task" field all mean
// no task.
func (c *Client) FetchTask(ctx context.Context) (Assignment, error) {
	resp, err := c.transport.Get(ctx, PathAssign, url.Values{"id": {c.id}})
	if err != nil {
		return NoTask, err
	}

	var payload assignResponse
	if err := resp.DecodeJSON(&payload); err != nil {
		return NoTask, err
	}
	if payload.Task == nil || *payload.Task == "" {
		c.logger.Debug("no task available", zap.String("clone", c.id))
		return NoTask, nil
	}

	c.logger.Debug("task assigned", zap.String("clone", c.id), zap.String("task", *payload.Task))
	return Assigned(*payload.Task), nil
}

// ListTasks enumerates the queued tasks, in queue order, without
// consuming any of them.
func (c *Client) ListTasks(ctx context.Context) ([]string, error) {
	resp, err := c.transport.Get(ctx, PathTasks, nil)
	if err != nil {
		return nil, err
	}

	var payload tasksResponse
	if err := resp.DecodeJSON(&payload); err != nil {
		return nil, err
	}
	if payload.Tasks == nil {
		return []string{}, nil
	}
	return payload.Tasks, nil
}

func (c *Client) readBag(ctx context.Context, path string) (Collection, error) {
	resp, err := c.transport.Get(ctx, path, nil)
	if err != nil {
		return Collection{}, err
	}
	return Collection{Raw: resp.Body}, nil
}
