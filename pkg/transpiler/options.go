package transpiler

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/hookjsx/transpiler/pkg/logging"
)

// Target selects the engine family the output must run on.
type Target string

const (
	// TargetWeb emits ES2020+ output for modern browsers.
	TargetWeb Target = "web"
	// TargetAndroid emits ES5-compatible output for the legacy
	// JavaScriptCore engines shipped on older Android WebViews.
	TargetAndroid Target = "android"
)

// DebugLevel controls transpiler diagnostics. It never changes output.
type DebugLevel int

const (
	DebugOff DebugLevel = iota
	DebugError
	DebugWarn
	DebugInfo
	DebugTrace
	DebugVerbose
)

func (l DebugLevel) String() string {
	switch l {
	case DebugOff:
		return "off"
	case DebugError:
		return "error"
	case DebugWarn:
		return "warn"
	case DebugInfo:
		return "info"
	case DebugTrace:
		return "trace"
	case DebugVerbose:
		return "verbose"
	default:
		return fmt.Sprintf("debuglevel(%d)", int(l))
	}
}

// ParseDebugLevel converts a string (name or numeric) to a DebugLevel.
func ParseDebugLevel(s string) (DebugLevel, error) {
	switch strings.ToLower(s) {
	case "off", "0":
		return DebugOff, nil
	case "error", "1":
		return DebugError, nil
	case "warn", "warning", "2":
		return DebugWarn, nil
	case "info", "3":
		return DebugInfo, nil
	case "trace", "4":
		return DebugTrace, nil
	case "verbose", "5":
		return DebugVerbose, nil
	default:
		return DebugOff, fmt.Errorf("invalid debug level: %s", s)
	}
}

// SlogLevel maps a DebugLevel to the nearest slog level.
// Trace and Verbose both map below Debug so they only appear when a
// handler is configured for them.
func (l DebugLevel) SlogLevel() slog.Level {
	switch l {
	case DebugError:
		return slog.LevelError
	case DebugWarn:
		return slog.LevelWarn
	case DebugInfo:
		return slog.LevelInfo
	case DebugTrace:
		return slog.LevelDebug
	case DebugVerbose:
		return slog.LevelDebug - 4
	default:
		return slog.LevelInfo
	}
}

// Options configures a single transpile call. The zero value transpiles
// plain JavaScript for the web target.
type Options struct {
	// IsTypeScript enables type stripping and generic/JSX disambiguation.
	IsTypeScript bool

	// Target gates ES5 downleveling (TargetAndroid only).
	Target Target

	// Filename is used for diagnostics and source map naming.
	Filename string

	// ToCommonJS selects CommonJS module output; both pkg/backend
	// implementations honor it. SourceMaps, InlineSourceMap and
	// CompatForJSC are consumed by the external backend only; the core
	// Transpile call ignores all four.
	ToCommonJS      bool
	SourceMaps      bool
	InlineSourceMap bool
	CompatForJSC    bool

	// DebugLevel gates diagnostics. DebugOff disables logging entirely.
	DebugLevel DebugLevel

	// Logger receives diagnostics when DebugLevel is above DebugOff.
	// Nil means discard.
	Logger *slog.Logger
}

// logger returns the effective diagnostics logger for this call.
func (o *Options) logger() *slog.Logger {
	if o.DebugLevel == DebugOff || o.Logger == nil {
		return logging.NewDiscardLogger()
	}
	return o.Logger
}
