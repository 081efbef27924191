package domain_test

import (
	"encoding/json"
	"testing"

	"go.trai.ch/folio/internal/core/domain"
)

func TestKey(t *testing.T) {
	k1 := domain.NewKey("posts/hello")
	k2 := domain.NewKey("posts/hello")

	if k1 != k2 {
		t.Errorf("Expected keys to be equal for identical strings, got %v and %v", k1, k2)
	}

	if k1.String() != "posts/hello" {
		t.Errorf("Expected String() to return %q, got %q", "posts/hello", k1.String())
	}

	var zero domain.Key
	if !zero.IsZero() {
		t.Error("Expected zero Key to report IsZero")
	}
	if zero.String() != "" {
		t.Errorf("Expected zero Key to stringify as empty, got %q", zero.String())
	}
}

func TestKeyFromPath(t *testing.T) {
	tests := []struct {
		name     string
		rel      string
		ext      string
		expected string
	}{
		{name: "strips extension", rel: "posts/hello.md", ext: ".md", expected: "posts/hello"},
		{name: "normalizes backslashes", rel: `posts\hello.md`, ext: ".md", expected: "posts/hello"},
		{name: "cleans dot prefix", rel: "./index.md", ext: ".md", expected: "index"},
		{name: "keeps foreign extension", rel: "notes.txt", ext: ".md", expected: "notes.txt"},
		{name: "no extension configured", rel: "a/b.md", ext: "", expected: "a/b.md"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := domain.KeyFromPath(tt.rel, tt.ext)
			if got.String() != tt.expected {
				t.Errorf("KeyFromPath(%q, %q) = %q, want %q", tt.rel, tt.ext, got.String(), tt.expected)
			}
		})
	}
}

func TestKeyJSON(t *testing.T) {
	t.Run("Marshal and Unmarshal preserve string value", func(t *testing.T) {
		original := domain.NewKey("guides/setup")

		data, err := json.Marshal(original)
		if err != nil {
			t.Fatalf("Failed to marshal Key: %v", err)
		}

		if string(data) != `"guides/setup"` {
			t.Errorf("Expected JSON %q, got %q", `"guides/setup"`, string(data))
		}

		var unmarshaled domain.Key
		if err := json.Unmarshal(data, &unmarshaled); err != nil {
			t.Fatalf("Failed to unmarshal Key: %v", err)
		}

		if unmarshaled != original {
			t.Errorf("Expected unmarshaled key %q, got %q", original, unmarshaled)
		}
	})

	t.Run("Keys work as map keys in JSON", func(t *testing.T) {
		m := map[domain.Key]int{domain.NewKey("a"): 1}

		data, err := json.Marshal(m)
		if err != nil {
			t.Fatalf("Failed to marshal map: %v", err)
		}

		var back map[domain.Key]int
		if err := json.Unmarshal(data, &back); err != nil {
			t.Fatalf("Failed to unmarshal map: %v", err)
		}

		if back[domain.NewKey("a")] != 1 {
			t.Errorf("Expected value 1 for key a, got %v", back)
		}
	})
}

func TestKeyCompare(t *testing.T) {
	a := domain.NewKey("a")
	b := domain.NewKey("b")

	if a.Compare(b) >= 0 {
		t.Error("Expected a < b")
	}
	if b.Compare(a) <= 0 {
		t.Error("Expected b > a")
	}
	if a.Compare(domain.NewKey("a")) != 0 {
		t.Error("Expected a == a")
	}
}
