// Package workflow defines Nika's parsed-document data model: Workflow,
// Task, Flow, and the five action variants a Task may carry.
package workflow

import (
	"encoding/json"

	"github.com/goccy/go-yaml"
)

// AllowedSchemas is the exact set of schema version tags this build accepts.
var AllowedSchemas = map[string]bool{
	"nika/workflow@0.5": true,
	"nika/workflow@0.4": true,
}

// MCPServerConfig describes an externally-launched MCP tool server.
type MCPServerConfig struct {
	Command string            `yaml:"command" json:"command"`
	Args    []string          `yaml:"args"    json:"args"`
	Env     map[string]string `yaml:"env"     json:"env"`
}

// Workflow is the top-level parsed document.
type Workflow struct {
	Schema   string                     `yaml:"schema"   json:"schema"   validate:"required"`
	Provider string                     `yaml:"provider" json:"provider"`
	Model    string                     `yaml:"model"    json:"model"`
	MCP      map[string]MCPServerConfig `yaml:"mcp"      json:"mcp"`
	Tasks    []*Task                    `yaml:"tasks"    json:"tasks"    validate:"required,min=1,dive,required"`
	Flows    []Flow                     `yaml:"flows"    json:"flows"`

	// byID indexes Tasks by id; built by Index().
	byID map[string]*Task
}

// Index builds the id -> *Task lookup used by validators and the runner.
// Safe to call repeatedly; later calls refresh the index from Tasks.
func (w *Workflow) Index() {
	w.byID = make(map[string]*Task, len(w.Tasks))
	for _, t := range w.Tasks {
		w.byID[t.ID] = t
	}
}

// TaskByID looks up a task by id, building the index lazily if needed.
func (w *Workflow) TaskByID(id string) (*Task, bool) {
	if w.byID == nil {
		w.Index()
	}
	t, ok := w.byID[id]
	return t, ok
}

// TaskIDs returns all task ids in declaration order.
func (w *Workflow) TaskIDs() []string {
	ids := make([]string, len(w.Tasks))
	for i, t := range w.Tasks {
		ids[i] = t.ID
	}
	return ids
}

// StringOrList decodes either a bare scalar or a YAML/JSON list into a
// normalized []string, matching Flow.source/Flow.target's Cartesian-product
// endpoint grammar from spec.md §3.
type StringOrList struct {
	Values []string
}

// AsSlice returns the normalized list form.
func (s StringOrList) AsSlice() []string {
	return s.Values
}

// UnmarshalYAML implements goccy/go-yaml's BytesUnmarshaler.
func (s *StringOrList) UnmarshalYAML(data []byte) error {
	var single string
	if err := yaml.Unmarshal(data, &single); err == nil {
		s.Values = []string{single}
		return nil
	}
	var many []string
	if err := yaml.Unmarshal(data, &many); err != nil {
		return err
	}
	s.Values = many
	return nil
}

func (s *StringOrList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		s.Values = []string{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	s.Values = many
	return nil
}

func (s StringOrList) MarshalJSON() ([]byte, error) {
	if len(s.Values) == 1 {
		return json.Marshal(s.Values[0])
	}
	return json.Marshal(s.Values)
}

// Flow is a single DAG edge declaration, expanded to |source|*|target|
// adjacency edges by FlowGraph.
type Flow struct {
	Source StringOrList `yaml:"source" json:"source"`
	Target StringOrList `yaml:"target" json:"target"`
}

// OutputFormat is the declared interpretation of a task's raw string output.
type OutputFormat string

const (
	OutputRaw  OutputFormat = "raw"
	OutputJSON OutputFormat = "json"
)

// OutputPolicy declares how a task's string output should be interpreted.
type OutputPolicy struct {
	Format OutputFormat `yaml:"format" json:"format"`
	Schema any          `yaml:"schema,omitempty" json:"schema,omitempty"`
}

// ActionKind tags which of the five action variants a Task carries.
type ActionKind string

const (
	ActionInfer  ActionKind = "infer"
	ActionExec   ActionKind = "exec"
	ActionFetch  ActionKind = "fetch"
	ActionInvoke ActionKind = "invoke"
	ActionAgent  ActionKind = "agent"
)

// InferAction issues one LLM completion.
type InferAction struct {
	Prompt   string `yaml:"prompt"   json:"prompt"`
	Provider string `yaml:"provider,omitempty" json:"provider,omitempty"`
	Model    string `yaml:"model,omitempty"    json:"model,omitempty"`
}

// ExecAction runs a shell command.
type ExecAction struct {
	Command string `yaml:"command" json:"command"`
}

// FetchAction performs one HTTP request.
type FetchAction struct {
	URL     string            `yaml:"url"    json:"url"`
	Method  string            `yaml:"method,omitempty" json:"method,omitempty"`
	Headers map[string]string `yaml:"headers,omitempty" json:"headers,omitempty"`
	Body    string            `yaml:"body,omitempty"    json:"body,omitempty"`
}

// InvokeAction calls an MCP tool or reads an MCP resource.
type InvokeAction struct {
	MCP      string         `yaml:"mcp"                json:"mcp"`
	Tool     string         `yaml:"tool,omitempty"     json:"tool,omitempty"`
	Resource string         `yaml:"resource,omitempty" json:"resource,omitempty"`
	Params   map[string]any `yaml:"params,omitempty"   json:"params,omitempty"`
}

// AgentAction drives a multi-turn tool-calling loop.
type AgentAction struct {
	Prompt        string   `yaml:"prompt"                   json:"prompt"`
	MCP           []string `yaml:"mcp,omitempty"            json:"mcp,omitempty"`
	MaxTurns      int      `yaml:"max_turns"                json:"max_turns"`
	StopCondition string   `yaml:"stop_condition,omitempty" json:"stop_condition,omitempty"`
}

// Action is the tagged union of a Task's verb. Exactly one of the typed
// fields is populated, selected by Kind.
type Action struct {
	Kind   ActionKind
	Infer  *InferAction
	Exec   *ExecAction
	Fetch  *FetchAction
	Invoke *InvokeAction
	Agent  *AgentAction
}

// Task is a single DAG node.
type Task struct {
	ID     string         `yaml:"id"               json:"id"                validate:"required"`
	Type   string         `yaml:"type,omitempty"   json:"type,omitempty"`
	Use    map[string]any `yaml:"use,omitempty"    json:"use,omitempty"`
	Output *OutputPolicy  `yaml:"output,omitempty" json:"output,omitempty"`

	ForEach       any    `yaml:"for_each,omitempty"       json:"for_each,omitempty"`
	ForEachAs     string `yaml:"for_each_as,omitempty"    json:"for_each_as,omitempty"`
	Concurrency   int    `yaml:"concurrency,omitempty"    json:"concurrency,omitempty"`
	FailFastSet   bool   `yaml:"-" json:"-"`
	FailFastValue bool   `yaml:"fail_fast,omitempty"      json:"fail_fast,omitempty"`

	Action Action `yaml:"-" json:"action"`
}

// taskShadow mirrors Task's YAML shape without the computed Action field,
// used as the decode target before dispatching on whichever verb key is
// present.
type taskShadow struct {
	ID          string         `yaml:"id"`
	Type        string         `yaml:"type,omitempty"`
	Use         map[string]any `yaml:"use,omitempty"`
	Output      *OutputPolicy  `yaml:"output,omitempty"`
	ForEach     any            `yaml:"for_each,omitempty"`
	ForEachAs   string         `yaml:"for_each_as,omitempty"`
	Concurrency int            `yaml:"concurrency,omitempty"`
	FailFast    *bool          `yaml:"fail_fast,omitempty"`

	Infer  *InferAction  `yaml:"infer,omitempty"`
	Exec   *ExecAction   `yaml:"exec,omitempty"`
	Fetch  *FetchAction  `yaml:"fetch,omitempty"`
	Invoke *InvokeAction `yaml:"invoke,omitempty"`
	Agent  *AgentAction  `yaml:"agent,omitempty"`
}

// UnmarshalYAML implements goccy/go-yaml's BytesUnmarshaler, dispatching on
// whichever of infer/exec/fetch/invoke/agent is present to build Action.
func (t *Task) UnmarshalYAML(data []byte) error {
	var shadow taskShadow
	if err := yaml.Unmarshal(data, &shadow); err != nil {
		return err
	}
	t.ID = shadow.ID
	t.Type = shadow.Type
	t.Use = shadow.Use
	t.Output = shadow.Output
	t.ForEach = shadow.ForEach
	t.ForEachAs = shadow.ForEachAs
	t.Concurrency = shadow.Concurrency
	if shadow.FailFast != nil {
		t.FailFastSet = true
		t.FailFastValue = *shadow.FailFast
	}

	switch {
	case shadow.Infer != nil:
		t.Action = Action{Kind: ActionInfer, Infer: shadow.Infer}
	case shadow.Exec != nil:
		t.Action = Action{Kind: ActionExec, Exec: shadow.Exec}
	case shadow.Fetch != nil:
		t.Action = Action{Kind: ActionFetch, Fetch: shadow.Fetch}
	case shadow.Invoke != nil:
		t.Action = Action{Kind: ActionInvoke, Invoke: shadow.Invoke}
	case shadow.Agent != nil:
		t.Action = Action{Kind: ActionAgent, Agent: shadow.Agent}
	}
	return nil
}

// ForEachVar returns the loop-variable name, defaulting to "item".
func (t *Task) ForEachVar() string {
	if t.ForEachAs == "" {
		return "item"
	}
	return t.ForEachAs
}

// ForEachConcurrency returns the configured concurrency, defaulting to 1.
func (t *Task) ForEachConcurrency() int {
	if t.Concurrency <= 0 {
		return 1
	}
	return t.Concurrency
}

// ForEachFailFast returns the configured fail_fast policy, defaulting to true.
func (t *Task) ForEachFailFast() bool {
	if !t.FailFastSet {
		return true
	}
	return t.FailFastValue
}

// IsForEach reports whether this task fans out over an array.
func (t *Task) IsForEach() bool {
	return t.ForEach != nil
}

// defaultNodeType maps each verb to the paradigm it runs under when a task
// declares no explicit type: infer/agent are LLM-powered (context/isolated);
// exec/fetch/invoke are deterministic (data).
var defaultNodeType = map[ActionKind]string{
	ActionInfer:  "context",
	ActionAgent:  "isolated",
	ActionExec:   "data",
	ActionFetch:  "data",
	ActionInvoke: "data",
}

// NodeType returns this task's node type for paradigm/node-types lookup: the
// explicit `type:` field when present (how custom node templates and
// validation-only fixtures assign a paradigm), otherwise the verb's default.
func (t *Task) NodeType() string {
	if t.Type != "" {
		return t.Type
	}
	return defaultNodeType[t.Action.Kind]
}
