package transpiler

import "testing"

func TestParseDebugLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    DebugLevel
		wantErr bool
	}{
		{"off", DebugOff, false},
		{"0", DebugOff, false},
		{"error", DebugError, false},
		{"warn", DebugWarn, false},
		{"warning", DebugWarn, false},
		{"INFO", DebugInfo, false},
		{"trace", DebugTrace, false},
		{"verbose", DebugVerbose, false},
		{"5", DebugVerbose, false},
		{"bogus", DebugOff, true},
	}
	for _, tt := range tests {
		got, err := ParseDebugLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDebugLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseDebugLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDebugLevelString(t *testing.T) {
	for _, l := range []DebugLevel{DebugOff, DebugError, DebugWarn, DebugInfo, DebugTrace, DebugVerbose} {
		if l.String() == "" {
			t.Errorf("empty string for level %d", int(l))
		}
		parsed, err := ParseDebugLevel(l.String())
		if err != nil || parsed != l {
			t.Errorf("round trip failed for %v: %v, %v", l, parsed, err)
		}
	}
}
