package logging

import (
	"bytes"
	"errors"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// TestFieldHelpers tests the Field constructor functions.
func TestFieldHelpers(t *testing.T) {
	t.Run("String creates field with key and string value", func(t *testing.T) {
		f := String("strategy", "parallel")
		if f.Key != "strategy" {
			t.Errorf("String().Key = %q, want %q", f.Key, "strategy")
		}
		if f.Value != "parallel" {
			t.Errorf("String().Value = %q, want %q", f.Value, "parallel")
		}
	})

	t.Run("Int creates field with key and int value", func(t *testing.T) {
		f := Int("workers", 8)
		if f.Key != "workers" {
			t.Errorf("Int().Key = %q, want %q", f.Key, "workers")
		}
		if f.Value != 8 {
			t.Errorf("Int().Value = %v, want %v", f.Value, 8)
		}
	})

	t.Run("Int64 creates field with key and int64 value", func(t *testing.T) {
		f := Int64("seed", 42)
		if f.Key != "seed" {
			t.Errorf("Int64().Key = %q, want %q", f.Key, "seed")
		}
		if f.Value != int64(42) {
			t.Errorf("Int64().Value = %v, want %v", f.Value, int64(42))
		}
	})

	t.Run("Float64 creates field with key and float64 value", func(t *testing.T) {
		f := Float64("estimate", 3.14159)
		if f.Key != "estimate" {
			t.Errorf("Float64().Key = %q, want %q", f.Key, "estimate")
		}
		if f.Value != 3.14159 {
			t.Errorf("Float64().Value = %v, want %v", f.Value, 3.14159)
		}
	})

	t.Run("Dur creates field with duration value", func(t *testing.T) {
		f := Dur("runtime", 250*time.Millisecond)
		if f.Key != "runtime" {
			t.Errorf("Dur().Key = %q, want %q", f.Key, "runtime")
		}
		if f.Value != 250*time.Millisecond {
			t.Errorf("Dur().Value = %v, want %v", f.Value, 250*time.Millisecond)
		}
	})

	t.Run("Err creates field with error key", func(t *testing.T) {
		testErr := errors.New("test error")
		f := Err(testErr)
		if f.Key != "error" {
			t.Errorf("Err().Key = %q, want %q", f.Key, "error")
		}
		if f.Value != testErr {
			t.Errorf("Err().Value = %v, want %v", f.Value, testErr)
		}
	})
}

// TestNewZerologAdapter tests the ZerologAdapter constructor.
func TestNewZerologAdapter(t *testing.T) {
	var buf bytes.Buffer
	zl := zerolog.New(&buf)
	adapter := NewZerologAdapter(zl)

	if adapter == nil {
		t.Fatal("NewZerologAdapter returned nil")
	}

	adapter.Info("test message")
	if !strings.Contains(buf.String(), "test message") {
		t.Errorf("NewZerologAdapter logger not working, output: %s", buf.String())
	}
}

// TestNewLogger tests the custom logger constructor.
func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "engine")

	if logger == nil {
		t.Fatal("NewLogger returned nil")
	}

	logger.Info("run started")
	output := buf.String()

	if !strings.Contains(output, "engine") {
		t.Errorf("NewLogger should include component field, got: %s", output)
	}
	if !strings.Contains(output, "run started") {
		t.Errorf("NewLogger should include message, got: %s", output)
	}
}

// TestZerologAdapter_Info tests the Info method.
func TestZerologAdapter_Info(t *testing.T) {
	tests := []struct {
		name     string
		msg      string
		fields   []Field
		contains []string
	}{
		{
			name:     "no fields",
			msg:      "run complete",
			fields:   nil,
			contains: []string{"run complete", "info"},
		},
		{
			name:     "with string field",
			msg:      "trial selected",
			fields:   []Field{String("trial", "pi")},
			contains: []string{"trial selected", "pi"},
		},
		{
			name:     "with multiple fields",
			msg:      "parallel run",
			fields:   []Field{String("strategy", "parallel"), Int("workers", 4)},
			contains: []string{"parallel run", "parallel", "4"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLogger(&buf, "test")
			logger.Info(tt.msg, tt.fields...)

			output := buf.String()
			for _, want := range tt.contains {
				if !strings.Contains(output, want) {
					t.Errorf("output should contain %q, got: %s", want, output)
				}
			}
		})
	}
}

// TestZerologAdapter_Error tests the Error method.
func TestZerologAdapter_Error(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "test")

	logger.Error("worker failed", errors.New("rng exhausted"), Int("worker", 2))

	output := buf.String()
	for _, want := range []string{"worker failed", "rng exhausted", "error", "2"} {
		if !strings.Contains(output, want) {
			t.Errorf("output should contain %q, got: %s", want, output)
		}
	}
}

// TestZerologAdapter_Debug tests the Debug method.
func TestZerologAdapter_Debug(t *testing.T) {
	var buf bytes.Buffer
	zl := zerolog.New(&buf).Level(zerolog.DebugLevel)
	logger := NewZerologAdapter(zl)

	logger.Debug("iteration", Float64("mean", 3.2))

	output := buf.String()
	if !strings.Contains(output, "iteration") {
		t.Errorf("Debug output should contain message, got: %s", output)
	}
	if !strings.Contains(output, "debug") {
		t.Errorf("Debug output should contain level, got: %s", output)
	}
}

// TestZerologAdapter_applyFields tests field application with all supported types.
func TestZerologAdapter_applyFields(t *testing.T) {
	tests := []struct {
		name     string
		field    Field
		contains string
	}{
		{"string field", Field{Key: "str", Value: "hello"}, "hello"},
		{"int field", Field{Key: "num", Value: 42}, "42"},
		{"int64 field", Field{Key: "big", Value: int64(9223372036854775807)}, "9223372036854775807"},
		{"uint64 field", Field{Key: "huge", Value: uint64(18446744073709551615)}, "18446744073709551615"},
		{"float64 field", Field{Key: "pi", Value: 3.14}, "3.14"},
		{"error field", Field{Key: "err", Value: errors.New("oops")}, "oops"},
		{"bool field", Field{Key: "flag", Value: true}, "true"},
		{"interface field", Field{Key: "data", Value: struct{ X int }{X: 1}}, "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLogger(&buf, "test")
			logger.Info("test", tt.field)

			output := buf.String()
			if !strings.Contains(output, tt.contains) {
				t.Errorf("applyFields should handle %s, output: %s", tt.name, output)
			}
		})
	}
}

// TestZerologAdapter_Printf tests the Printf method.
func TestZerologAdapter_Printf(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "test")

	logger.Printf("estimate %.2f after %d iterations", 3.14, 20)

	if !strings.Contains(buf.String(), "estimate 3.14 after 20 iterations") {
		t.Errorf("Printf should format message, got: %s", buf.String())
	}
}

// TestStdLoggerAdapter tests the standard library adapter.
func TestStdLoggerAdapter(t *testing.T) {
	t.Run("Info with fields", func(t *testing.T) {
		var buf bytes.Buffer
		adapter := NewStdLoggerAdapter(log.New(&buf, "", 0))

		adapter.Info("sequential run", String("trial", "uniform-int"))

		output := buf.String()
		for _, want := range []string{"[INFO]", "sequential run", "trial", "uniform-int"} {
			if !strings.Contains(output, want) {
				t.Errorf("output should contain %q, got: %s", want, output)
			}
		}
	})

	t.Run("Error includes cause", func(t *testing.T) {
		var buf bytes.Buffer
		adapter := NewStdLoggerAdapter(log.New(&buf, "", 0))

		adapter.Error("run aborted", errors.New("boom"))

		output := buf.String()
		for _, want := range []string{"[ERROR]", "run aborted", "boom"} {
			if !strings.Contains(output, want) {
				t.Errorf("output should contain %q, got: %s", want, output)
			}
		}
	})
}

// TestLoggerInterface verifies both adapters implement the Logger interface.
func TestLoggerInterface(t *testing.T) {
	t.Run("ZerologAdapter implements Logger", func(t *testing.T) {
		var buf bytes.Buffer
		var _ Logger = NewLogger(&buf, "test")
	})

	t.Run("StdLoggerAdapter implements Logger", func(t *testing.T) {
		var buf bytes.Buffer
		var _ Logger = NewStdLoggerAdapter(log.New(&buf, "", 0))
	})
}
