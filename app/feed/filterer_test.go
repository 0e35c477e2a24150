package feed

import (
	"strings"
	"testing"
)

func TestFilterer_NoFilters(t *testing.T) {
	f := NewFilterer()

	excluded, _ := f.Run(Item{Title: "Anything"}, nil)
	if excluded {
		t.Error("Items must pass when the source has no filters")
	}
}

func TestFilterer_Excludes(t *testing.T) {
	f := NewFilterer()
	filters := []SourceFilter{{Field: "title", Excludes: []string{"sponsored"}}}

	excluded, reason := f.Run(Item{Title: "A Sponsored Post"}, filters)
	if !excluded {
		t.Error("Expected item to be excluded")
	}
	if !strings.Contains(reason, "sponsored") {
		t.Errorf("Expected reason mentioning the pattern, got %q", reason)
	}

	excluded, _ = f.Run(Item{Title: "A Normal Post"}, filters)
	if excluded {
		t.Error("Expected item to pass")
	}
}

func TestFilterer_Includes(t *testing.T) {
	f := NewFilterer()
	filters := []SourceFilter{{Field: "description", Includes: []string{"golang", "rust"}}}

	excluded, _ := f.Run(Item{Description: "All about Golang concurrency"}, filters)
	if excluded {
		t.Error("Expected item matching an include pattern to pass")
	}

	excluded, _ = f.Run(Item{Description: "Cooking recipes"}, filters)
	if !excluded {
		t.Error("Expected item matching no include pattern to be excluded")
	}
}

func TestFilterer_CaseInsensitive(t *testing.T) {
	f := NewFilterer()
	filters := []SourceFilter{{Field: "link", Excludes: []string{"EXAMPLE.COM"}}}

	excluded, _ := f.Run(Item{Link: "https://example.com/x"}, filters)
	if !excluded {
		t.Error("Expected case-insensitive matching")
	}
}
