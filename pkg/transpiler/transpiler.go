package transpiler

import (
	"fmt"
	"strings"
)

// Version of the transpilation pipeline, reported in transform metadata.
const Version = "0.4.0"

// Transpile runs the full pipeline on one source unit: TypeScript
// stripping (or rejection in plain-JS mode), JSX lowering, and ES5
// downleveling for the android target. The first failing stage aborts
// the call; no partial output is ever returned.
func Transpile(source string, opts Options) (out string, err error) {
	log := opts.logger()

	// Adversarial input must surface as an error, never a crash.
	defer func() {
		if r := recover(); r != nil {
			out = ""
			err = &UnexpectedCharacterError{
				Want: fmt.Sprintf("parsable input (internal failure: %v)", r),
			}
		}
	}()

	if opts.IsTypeScript {
		source = StripTypes(source)
		log.Debug("stripped typescript syntax", "file", opts.Filename, "len", len(source))
	} else if err := CheckNoTypeScript(source); err != nil {
		return "", err
	}

	result, err := rewriteJSX(source, &opts)
	if err != nil {
		return "", err
	}
	log.Debug("lowered jsx", "file", opts.Filename, "len", len(result))

	if opts.Target == TargetAndroid {
		result = Downlevel(result)
		log.Debug("downleveled for jsc", "file", opts.Filename, "len", len(result))
	}
	return result, nil
}

// TranspileSimple transpiles plain JavaScript with JSX for the web
// target, the common case for browser callers.
func TranspileSimple(source string) (string, error) {
	return Transpile(source, Options{})
}

// HasJSX is a cheap pre-scan used for metadata; it reports whether the
// source plausibly contains JSX without parsing it.
func HasJSX(source string) bool {
	return strings.Contains(source, "<") && strings.Contains(source, ">")
}
