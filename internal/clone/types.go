package clone

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
)

// Message is one entry of the broadcast bag.
type Message struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// Fact is one entry of the shared memory bag.
type Fact struct {
	ID   string `json:"id"`
	Fact string `json:"fact"`
}

// Result is one entry of the result bag.
type Result struct {
	ID     string `json:"id"`
	Result string `json:"result"`
}

// Collection is the payload of a bag read, exactly as the server sent it.
// The client does not interpret it; Decode parses it on demand.
type Collection struct {
	Raw []byte
}

// String returns the payload verbatim.
func (c Collection) String() string {
	return string(c.Raw)
}

// Pretty re-indents a JSON payload. Anything that is not valid JSON is
// returned verbatim.
func (c Collection) Pretty() string {
	if !gjson.ValidBytes(c.Raw) {
		return string(c.Raw)
	}
	return string(bytes.TrimRight(pretty.Pretty(c.Raw), "\n"))
}

// Decode parses a collection into typed entries.
func Decode[T Message | Fact | Result](c Collection) ([]T, error) {
	var out []T
	if len(bytes.TrimSpace(c.Raw)) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(c.Raw, &out); err != nil {
		return nil, fmt.Errorf("failed to decode collection: %w", err)
	}
	return out, nil
}

// Assignment is the outcome of a successful fetch-task: either one task,
// or no task because the queue was empty. It is never an error.
type Assignment struct {
	task      string
	available bool
}

// NoTask is the assignment returned when the queue is empty.
var NoTask = Assignment{}

// Assigned wraps a consumed task.
func Assigned(task string) Assignment {
	return Assignment{task: task, available: true}
}

// Get returns the task and whether one was assigned.
func (a Assignment) Get() (string, bool) {
	return a.task, a.available
}

// Available reports whether a task was assigned.
func (a Assignment) Available() bool {
	return a.available
}

func (a Assignment) String() string {
	if !a.available {
		return "(no task)"
	}
	return a.task
}

// wire shapes

type messageRequest struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

type factRequest struct {
	ID   string `json:"id"`
	Fact string `json:"fact"`
}

type resultRequest struct {
	ID     string `json:"id"`
	Result string `json:"result"`
}

type assignResponse struct {
	Task *string `json:"task"`
}

type tasksResponse struct {
	Tasks []string `json:"tasks"`
}
