package parser

import (
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	t.Run("single card", func(t *testing.T) {
		input := "Q: What is a goroutine?\nA: A lightweight thread managed by the Go runtime."
		drafts, err := Parse(strings.NewReader(input))
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		if len(drafts) != 1 {
			t.Fatalf("Expected 1 card, got %d", len(drafts))
		}
		if drafts[0].Question != "What is a goroutine?" {
			t.Errorf("Unexpected question: %q", drafts[0].Question)
		}
		if drafts[0].Answer != "A lightweight thread managed by the Go runtime." {
			t.Errorf("Unexpected answer: %q", drafts[0].Answer)
		}
	})

	t.Run("multiple cards separated by ---", func(t *testing.T) {
		input := strings.Join([]string{
			"Q: First question",
			"A: First answer",
			"---",
			"Q: Second question",
			"A: Second answer",
		}, "\n")
		drafts, err := Parse(strings.NewReader(input))
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		if len(drafts) != 2 {
			t.Fatalf("Expected 2 cards, got %d", len(drafts))
		}
		if drafts[1].Question != "Second question" || drafts[1].Answer != "Second answer" {
			t.Errorf("Unexpected second card: %+v", drafts[1])
		}
	})

	t.Run("a new Q starts a new card without a separator", func(t *testing.T) {
		input := strings.Join([]string{
			"Q: First question",
			"A: First answer",
			"Q: Second question",
			"A: Second answer",
		}, "\n")
		drafts, err := Parse(strings.NewReader(input))
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		if len(drafts) != 2 {
			t.Fatalf("Expected 2 cards, got %d", len(drafts))
		}
	})

	t.Run("multi-line blocks", func(t *testing.T) {
		input := strings.Join([]string{
			"Q: What does this print?",
			"for i := range 3 {",
			"    fmt.Println(i)",
			"}",
			"A: 0",
			"1",
			"2",
		}, "\n")
		drafts, err := Parse(strings.NewReader(input))
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		if len(drafts) != 1 {
			t.Fatalf("Expected 1 card, got %d", len(drafts))
		}
		if !strings.Contains(drafts[0].Question, "fmt.Println(i)") {
			t.Errorf("Expected the question to keep its code block, got %q", drafts[0].Question)
		}
		if drafts[0].Answer != "0\n1\n2" {
			t.Errorf("Unexpected answer: %q", drafts[0].Answer)
		}
	})

	t.Run("prose outside cards is ignored", func(t *testing.T) {
		input := strings.Join([]string{
			"# My deck",
			"Some notes that are not cards.",
			"",
			"Q: Real question",
			"A: Real answer",
		}, "\n")
		drafts, err := Parse(strings.NewReader(input))
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		if len(drafts) != 1 {
			t.Fatalf("Expected 1 card, got %d", len(drafts))
		}
	})

	t.Run("answer without a question is dropped", func(t *testing.T) {
		drafts, err := Parse(strings.NewReader("A: orphaned answer"))
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		if len(drafts) != 0 {
			t.Errorf("Expected no cards, got %d", len(drafts))
		}
	})

	t.Run("empty input", func(t *testing.T) {
		drafts, err := Parse(strings.NewReader(""))
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		if len(drafts) != 0 {
			t.Errorf("Expected no cards, got %d", len(drafts))
		}
	})
}
