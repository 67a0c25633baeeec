package lexer

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTokenizeWords(t *testing.T) {
	tokens, err := Tokenize("echo hello world")
	if err != nil {
		t.Fatalf("Tokenize returned error: %v", err)
	}
	want := []string{"echo", "hello", "world"}
	if diff := cmp.Diff(want, tokens); diff != "" {
		t.Errorf("tokens mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenizeSingleQuotes(t *testing.T) {
	tokens, err := Tokenize(`echo 'a b c'`)
	if err != nil {
		t.Fatalf("Tokenize returned error: %v", err)
	}
	want := []string{"echo", "a b c"}
	if diff := cmp.Diff(want, tokens); diff != "" {
		t.Errorf("tokens mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenizeDoubleQuoteEscapes(t *testing.T) {
	tokens, err := Tokenize(`echo "a \"b\" c\\d"`)
	if err != nil {
		t.Fatalf("Tokenize returned error: %v", err)
	}
	want := []string{"echo", `a "b" c\d`}
	if diff := cmp.Diff(want, tokens); diff != "" {
		t.Errorf("tokens mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenizeUnquotedBackslash(t *testing.T) {
	tokens, err := Tokenize(`echo a\ b`)
	if err != nil {
		t.Fatalf("Tokenize returned error: %v", err)
	}
	want := []string{"echo", "a b"}
	if diff := cmp.Diff(want, tokens); diff != "" {
		t.Errorf("tokens mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenizeOperatorsGlued(t *testing.T) {
	tokens, err := Tokenize(`echo hi>>out.txt`)
	if err != nil {
		t.Fatalf("Tokenize returned error: %v", err)
	}
	want := []string{"echo", "hi", ">>", "out.txt"}
	if diff := cmp.Diff(want, tokens); diff != "" {
		t.Errorf("tokens mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenizeLongestOperatorMatch(t *testing.T) {
	tokens, err := Tokenize(`cmd 2>> err.log`)
	if err != nil {
		t.Fatalf("Tokenize returned error: %v", err)
	}
	want := []string{"cmd", "2>>", "err.log"}
	if diff := cmp.Diff(want, tokens); diff != "" {
		t.Errorf("tokens mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenizePipe(t *testing.T) {
	tokens, err := Tokenize(`cat file|grep foo`)
	if err != nil {
		t.Fatalf("Tokenize returned error: %v", err)
	}
	want := []string{"cat", "file", "|", "grep", "foo"}
	if diff := cmp.Diff(want, tokens); diff != "" {
		t.Errorf("tokens mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenizeTrailingOperatorError(t *testing.T) {
	_, err := Tokenize(`echo hi >`)
	if err != ErrTrailingOperator {
		t.Fatalf("expected ErrTrailingOperator, got %v", err)
	}
}

func TestTokenizeNoInputRedirectionOperator(t *testing.T) {
	// "<" is not in the operator table; it is just an ordinary word
	// character, since the spec's fixed operator set has no input
	// redirection form.
	tokens, err := Tokenize(`echo <file`)
	if err != nil {
		t.Fatalf("Tokenize returned error: %v", err)
	}
	want := []string{"echo", "<file"}
	if diff := cmp.Diff(want, tokens); diff != "" {
		t.Errorf("tokens mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenizeEmptyLine(t *testing.T) {
	tokens, err := Tokenize("")
	if err != nil {
		t.Fatalf("Tokenize returned error: %v", err)
	}
	if len(tokens) != 0 {
		t.Fatalf("expected no tokens, got %v", tokens)
	}
}
