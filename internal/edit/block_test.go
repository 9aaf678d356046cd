package edit

import (
	"strings"
	"testing"

	"agentshell/internal/apperr"
)

func TestParseBlocks_Single(t *testing.T) {
	text := "<<<<<<< SEARCH\nfoo\nbar\n=======\nbaz\n>>>>>>> REPLACE\n"
	blocks, err := ParseBlocks(text)
	if err != nil {
		t.Fatalf("ParseBlocks error: %v", err)
	}
	if len(blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(blocks))
	}
	if blocks[0].Search != "foo\nbar" || blocks[0].Replace != "baz" {
		t.Fatalf("unexpected block: %+v", blocks[0])
	}
}

func TestParseBlocks_Multiple(t *testing.T) {
	text := strings.Join([]string{
		"<<<<<<< SEARCH", "a", "=======", "b", ">>>>>>> REPLACE",
		"<<<<<<< SEARCH", "c", "=======", "d", ">>>>>>> REPLACE",
	}, "\n")
	blocks, err := ParseBlocks(text)
	if err != nil {
		t.Fatalf("ParseBlocks error: %v", err)
	}
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(blocks))
	}
}

func TestParseBlocks_MissingDivider(t *testing.T) {
	text := "<<<<<<< SEARCH\nfoo\n>>>>>>> REPLACE\n"
	_, err := ParseBlocks(text)
	if err == nil {
		t.Fatalf("expected an error for a missing divider")
	}
	aerr, ok := apperr.As(err)
	if !ok || aerr.Kind != apperr.InvalidBlockFormat {
		t.Fatalf("expected InvalidBlockFormat, got %v", err)
	}
}

func TestParseBlocks_NoBlocksAtAll(t *testing.T) {
	_, err := ParseBlocks("just some plain text, no delimiters here")
	if err == nil {
		t.Fatalf("expected an error when no blocks are present")
	}
}
