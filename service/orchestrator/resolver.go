package orchestrator

import (
	"context"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/viant/structology/conv"
	"github.com/viant/taskly/model/task"
	"github.com/viant/x"
)

// Kind of runnable payload.
type Kind string

const (
	// KindCode is an interpreter snippet executed via the sandbox code call.
	KindCode Kind = "code"
	// KindCommand is a shell command line.
	KindCommand Kind = "command"
)

// Runnable is a step resolved to something the sandbox can execute.
type Runnable struct {
	Kind    Kind
	Payload string
}

// Resolver produces a runnable payload for a step lacking explicit
// code/command. Implementations may call an LLM; the orchestrator only needs
// the kind and the resolved payload.
type Resolver interface {
	Resolve(ctx context.Context, step *task.Step, state *task.State) (*Runnable, error)
}

// Tool parameter shapes; step.Parameters maps are converted into these before
// a payload is rendered.
type (
	// WriteParams configures file-writing tools.
	WriteParams struct {
		Path    string `json:"path,omitempty"`
		Content string `json:"content,omitempty"`
	}
	// ReadParams configures file-reading tools.
	ReadParams struct {
		Path string `json:"path,omitempty"`
	}
	// RunParams configures script-running tools.
	RunParams struct {
		Path string `json:"path,omitempty"`
	}
	// ListParams configures directory listing tools.
	ListParams struct {
		Path string `json:"path,omitempty"`
	}
	// CommandParams configures raw shell tools.
	CommandParams struct {
		Command string `json:"command,omitempty"`
	}
)

// builder renders a runnable from converted tool parameters.
type builder func(params interface{}, step *task.Step, state *task.State) *Runnable

// HeuristicResolver resolves steps from their declared tool (typed parameter
// conversion) or, failing that, from description keywords. It is the
// zero-dependency fallback for drivers that do not wire an LLM resolver.
type HeuristicResolver struct {
	types     *x.Registry
	converter *conv.Converter
	builders  map[string]builder
}

// NewHeuristicResolver creates the default resolver with the built-in tools.
func NewHeuristicResolver() *HeuristicResolver {
	options := conv.DefaultOptions()
	options.IgnoreUnmapped = true
	options.ClonePointerData = true
	ret := &HeuristicResolver{
		types:     x.NewRegistry(),
		converter: conv.NewConverter(options),
		builders:  make(map[string]builder),
	}
	ret.registerBuiltins()
	return ret
}

// RegisterTool binds a tool name to a parameter type and a payload builder.
func (r *HeuristicResolver) RegisterTool(name string, paramsType reflect.Type, build builder) {
	r.types.Register(x.NewType(paramsType, x.WithName(name)))
	r.builders[strings.ToLower(name)] = build
}

func (r *HeuristicResolver) registerBuiltins() {
	write := func(params interface{}, step *task.Step, state *task.State) *Runnable {
		p, _ := params.(*WriteParams)
		if p.Path == "" {
			p.Path = fileName(step.Description, "output.txt")
		}
		content := p.Content
		if content == "" {
			content = defaultContent(step, state)
		}
		code := fmt.Sprintf("with open(%q, 'w', encoding='utf-8') as f:\n    f.write(%q)", p.Path, content)
		return &Runnable{Kind: KindCode, Payload: code}
	}
	read := func(params interface{}, step *task.Step, _ *task.State) *Runnable {
		p, _ := params.(*ReadParams)
		if p.Path == "" {
			p.Path = fileName(step.Description, "input.txt")
		}
		return &Runnable{Kind: KindCode, Payload: fmt.Sprintf("open(%q).read()", p.Path)}
	}
	run := func(params interface{}, step *task.Step, _ *task.State) *Runnable {
		p, _ := params.(*RunParams)
		if p.Path == "" {
			p.Path = fileName(step.Description, "main.py")
		}
		return &Runnable{Kind: KindCommand, Payload: "python3 " + p.Path}
	}
	list := func(params interface{}, _ *task.Step, _ *task.State) *Runnable {
		p, _ := params.(*ListParams)
		target := p.Path
		if target == "" {
			target = "."
		}
		return &Runnable{Kind: KindCommand, Payload: "ls -la " + target}
	}
	command := func(params interface{}, step *task.Step, _ *task.State) *Runnable {
		p, _ := params.(*CommandParams)
		payload := p.Command
		if payload == "" {
			payload = step.Description
		}
		return &Runnable{Kind: KindCommand, Payload: payload}
	}

	r.RegisterTool("file_writer", reflect.TypeOf(WriteParams{}), write)
	r.RegisterTool("code_writer", reflect.TypeOf(WriteParams{}), write)
	r.RegisterTool("file_system_reader", reflect.TypeOf(ReadParams{}), read)
	r.RegisterTool("file_reader", reflect.TypeOf(ReadParams{}), read)
	r.RegisterTool("python_interpreter", reflect.TypeOf(RunParams{}), run)
	r.RegisterTool("list_dir", reflect.TypeOf(ListParams{}), list)
	r.RegisterTool("shell", reflect.TypeOf(CommandParams{}), command)
}

// Resolve implements Resolver.
func (r *HeuristicResolver) Resolve(_ context.Context, step *task.Step, state *task.State) (*Runnable, error) {
	// explicit overrides win
	if step.Code != "" {
		return &Runnable{Kind: KindCode, Payload: step.Code}, nil
	}
	if step.Command != "" {
		return &Runnable{Kind: KindCommand, Payload: step.Command}, nil
	}

	tool := strings.ToLower(strings.TrimSpace(step.Tool))
	if build, ok := r.builders[tool]; ok {
		params, err := r.convertParams(tool, step.Parameters)
		if err != nil {
			return nil, fmt.Errorf("failed to convert %v parameters: %w", tool, err)
		}
		return build(params, step, state), nil
	}
	return r.resolveByDescription(step, state)
}

func (r *HeuristicResolver) convertParams(tool string, raw map[string]interface{}) (interface{}, error) {
	xType := r.types.Lookup(tool)
	if xType == nil {
		return nil, fmt.Errorf("tool %v not registered", tool)
	}
	instance := reflect.New(xType.Type).Interface()
	if len(raw) > 0 {
		if err := r.converter.Convert(raw, instance); err != nil {
			return nil, err
		}
	}
	return instance, nil
}

// resolveByDescription keeps unrecognised tools usable: the description is
// inspected for write/run/read verbs; anything else is treated as a one-line
// interpreter snippet.
func (r *HeuristicResolver) resolveByDescription(step *task.Step, state *task.State) (*Runnable, error) {
	description := strings.ToLower(step.Description)
	switch {
	case strings.Contains(description, "write") || strings.Contains(description, "create"):
		return r.builders["file_writer"](&WriteParams{}, step, state), nil
	case strings.Contains(description, "run") || strings.Contains(description, "execute"):
		return r.builders["python_interpreter"](&RunParams{}, step, state), nil
	case strings.Contains(description, "read") || strings.Contains(description, "open"):
		return r.builders["file_system_reader"](&ReadParams{}, step, state), nil
	}
	payload := step.Description
	if payload == "" {
		payload = "pass"
	}
	return &Runnable{Kind: KindCode, Payload: payload}, nil
}

var fileNamePattern = regexp.MustCompile(`[\w./-]*\w\.\w+`)

// fileName extracts the first filename-looking token from text.
func fileName(text, fallback string) string {
	if match := fileNamePattern.FindString(text); match != "" {
		return match
	}
	return fallback
}

// defaultContent derives file content from the step expectation or intent.
func defaultContent(step *task.Step, state *task.State) string {
	if step.ExpectedOutcome != "" {
		return step.ExpectedOutcome + "\n"
	}
	if state != nil && state.Intent != "" {
		return state.Intent + "\n"
	}
	return "\n"
}
