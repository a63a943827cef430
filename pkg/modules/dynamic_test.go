package modules

import (
	"strings"
	"testing"
)

func TestRewriteDynamicImports(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "basic rewrite",
			in:   "const m = import('./lazy.js');",
			want: "const m = __hook_import('./lazy.js');",
		},
		{
			name: "whitespace collapsed",
			in:   "const load = () => import   (  './spaced-module.js'   );",
			want: "const load = () => __hook_import('./spaced-module.js');",
		},
		{
			name: "double quotes and query params preserved",
			in:   `import("./module.js?version=2#hash").then(mod => mod);`,
			want: `__hook_import("./module.js?version=2#hash").then(mod => mod);`,
		},
		{
			name: "static import untouched",
			in:   "import { useState } from 'react';",
			want: "import { useState } from 'react';",
		},
		{
			name: "string contents untouched",
			in:   `const s = "import('./x')";`,
			want: `const s = "import('./x')";`,
		},
		{
			name: "comment contents untouched",
			in:   "// import('./x')\nconst y = 1;",
			want: "// import('./x')\nconst y = 1;",
		},
		{
			name: "member access untouched",
			in:   "loader.import('./x');",
			want: "loader.import('./x');",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RewriteDynamicImports(tt.in); got != tt.want {
				t.Errorf("RewriteDynamicImports(%q)\n got: %q\nwant: %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestRewriteDynamicImportsMultiple(t *testing.T) {
	source := `Promise.all([
    import("./module-a.js"),
    import("./module-b.js"),
    import("/absolute/path.js"),
    import("./nested/index.js")
]).then(([a, b, c, d]) => null);`

	out := RewriteDynamicImports(source)

	if n := strings.Count(out, "__hook_import"); n != 4 {
		t.Fatalf("expected 4 __hook_import calls, got %d:\n%s", n, out)
	}
	for _, want := range []string{
		`__hook_import("./module-a.js")`,
		`__hook_import("/absolute/path.js")`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRewriteDynamicImportsLeavesExistingHookImport(t *testing.T) {
	source := `const preloaded = __hook_import('./already.js');
const later = import('./needs-rewrite.js');`

	out := RewriteDynamicImports(source)

	if n := strings.Count(out, "__hook_import"); n != 2 {
		t.Fatalf("expected 2 __hook_import occurrences, got %d:\n%s", n, out)
	}
	if !strings.Contains(out, "__hook_import('./already.js')") {
		t.Errorf("existing call rewritten:\n%s", out)
	}
	if !strings.Contains(out, "__hook_import('./needs-rewrite.js')") {
		t.Errorf("dynamic import not rewritten:\n%s", out)
	}
}
