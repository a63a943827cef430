// Package sandbox executes transpiled hook code in a goja runtime with
// the hook runtime bindings installed: __hook_jsx_runtime, __hook_import,
// require, and a capturing console. It exists so the CLI run command and
// the integration tests can prove that generated code actually executes.
package sandbox

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/dop251/goja"

	"github.com/hookjsx/transpiler/pkg/transpiler"
)

// MaxCodeSize is the maximum allowed code input size (64KB).
const MaxCodeSize = 64 * 1024

// DefaultTimeout is the default execution timeout.
const DefaultTimeout = 30 * time.Second

// Sandbox runs hook code in a fresh goja runtime per execution.
// Preloaded modules are served to __hook_import and require calls.
type Sandbox struct {
	timeout time.Duration
	modules map[string]any
}

// New creates a sandbox with the given execution timeout.
func New(timeout time.Duration) *Sandbox {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Sandbox{
		timeout: timeout,
		modules: make(map[string]any),
	}
}

// RegisterModule preloads a module value under the given specifier.
// Hook code reaches it through require or __hook_import.
func (s *Sandbox) RegisterModule(name string, value any) {
	s.modules[name] = value
}

// ExecuteResult contains the output of a sandbox execution.
type ExecuteResult struct {
	Value   string   // completion value, JSON-encoded
	Console []string // captured console.log/warn/error output
}

// Execute runs code in a fresh runtime. A fresh runtime per call
// prevents state leakage between hook executions.
func (s *Sandbox) Execute(ctx context.Context, code string) (*ExecuteResult, error) {
	if len(code) > MaxCodeSize {
		return nil, fmt.Errorf("code too large: %d bytes (maximum is %d bytes)", len(code), MaxCodeSize)
	}

	vm := goja.New()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	go func() {
		<-ctx.Done()
		vm.Interrupt("execution timeout exceeded")
	}()

	var consoleOutput []string
	console := vm.NewObject()
	logFn := func(call goja.FunctionCall) goja.Value {
		parts := make([]string, len(call.Arguments))
		for i, arg := range call.Arguments {
			parts[i] = arg.String()
		}
		consoleOutput = append(consoleOutput, strings.Join(parts, " "))
		return goja.Undefined()
	}
	_ = console.Set("log", logFn)
	_ = console.Set("warn", logFn)
	_ = console.Set("error", logFn)
	_ = vm.Set("console", console)

	// The runtime factory: elements are plain {type, props} objects.
	jsxFn := func(call goja.FunctionCall) goja.Value {
		el := vm.NewObject()
		if len(call.Arguments) > 0 {
			_ = el.Set("type", call.Arguments[0])
		}
		if len(call.Arguments) > 1 {
			_ = el.Set("props", call.Arguments[1])
		} else {
			_ = el.Set("props", vm.NewObject())
		}
		return el
	}
	runtime := vm.NewObject()
	_ = runtime.Set("jsx", jsxFn)
	_ = runtime.Set("jsxs", jsxFn)
	_ = vm.Set(transpiler.RuntimeFactory, runtime)

	importFn := func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 {
			panic(vm.NewGoError(fmt.Errorf("module specifier required")))
		}
		name := call.Arguments[0].String()
		mod, ok := s.modules[name]
		if !ok {
			panic(vm.NewGoError(fmt.Errorf("module not preloaded: %s", name)))
		}
		return vm.ToValue(mod)
	}
	_ = vm.Set("__hook_import", importFn)
	_ = vm.Set("require", importFn)

	moduleObj := vm.NewObject()
	exportsObj := vm.NewObject()
	_ = moduleObj.Set("exports", exportsObj)
	_ = vm.Set("module", moduleObj)
	_ = vm.Set("exports", exportsObj)

	val, err := vm.RunString(code)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("execution exceeded %s timeout", s.timeout)
		}
		if jsErr, ok := err.(*goja.InterruptedError); ok {
			return nil, fmt.Errorf("execution interrupted: %s", jsErr.Value())
		}
		return nil, fmt.Errorf("runtime error: %w", err)
	}

	result := &ExecuteResult{Console: consoleOutput}
	if val != nil && !goja.IsUndefined(val) && !goja.IsNull(val) {
		exported := val.Export()
		if jsonBytes, jsonErr := json.Marshal(exported); jsonErr == nil {
			result.Value = string(jsonBytes)
		} else {
			result.Value = val.String()
		}
	}
	return result, nil
}
