// Package parser groups a lexer token stream into an ordered pipeline of
// stages, each carrying its command word, arguments, and a fully-built
// Redirection Context.
package parser

import (
	"fmt"

	"posh/internal/lexer"
	"posh/internal/redirect"
)

// Stage is one command within a pipeline: a command word, its arguments,
// and the I/O bindings it executes under.
type Stage struct {
	Cmd  string
	Args []string
	Ctx  *redirect.Context
}

var operatorChannels = map[string]struct {
	channel redirect.Channel
	mode    redirect.Mode
}{
	">":   {redirect.Output, redirect.Truncate},
	"1>":  {redirect.Output, redirect.Truncate},
	"2>":  {redirect.Error, redirect.Truncate},
	">>":  {redirect.Output, redirect.Append},
	"1>>": {redirect.Output, redirect.Append},
	"2>>": {redirect.Error, redirect.Append},
}

// Parse tokenizes and parses a raw input line into the pipe stages and the
// terminal stage. Every stage's Context has IsPiped set to true iff
// pipeStages is non-empty (the terminal stage's IsPiped mirrors that fact;
// every non-terminal stage is piped by construction).
func Parse(line string) (pipeStages []Stage, terminal Stage, err error) {
	tokens, err := lexer.Tokenize(line)
	if err != nil {
		return nil, Stage{}, err
	}

	var groups [][]string
	var current []string
	for _, tok := range tokens {
		if tok == "|" {
			groups = append(groups, current)
			current = nil
			continue
		}
		current = append(current, tok)
	}
	groups = append(groups, current)

	isPiped := len(groups) > 1

	stages := make([]Stage, 0, len(groups))
	for _, g := range groups {
		stage, buildErr := buildStage(g, isPiped)
		if buildErr != nil {
			for _, s := range stages {
				s.Ctx.Close()
			}
			return nil, Stage{}, buildErr
		}
		stages = append(stages, stage)
	}

	return stages[:len(stages)-1], stages[len(stages)-1], nil
}

// buildStage consumes one group of tokens (no pipe operators remaining),
// splitting off redirection operator/word pairs and accumulating the
// channel bindings and deferred-touch paths described in spec.md §4.2:
// later same-key redirections overwrite earlier ones, and the overwritten
// paths are recorded so they still get created empty.
func buildStage(tokens []string, isPiped bool) (Stage, error) {
	var words []string
	channels := map[redirect.Channel]redirect.Binding{}
	var deferred []string

	for i := 0; i < len(tokens); i++ {
		op, ok := operatorChannels[tokens[i]]
		if !ok {
			words = append(words, tokens[i])
			continue
		}

		if i+1 >= len(tokens) {
			return Stage{}, fmt.Errorf("posh: parser: missing redirection target after %q", tokens[i])
		}
		target := tokens[i+1]
		i++

		if prev, exists := channels[op.channel]; exists {
			deferred = append(deferred, prev.Path)
		}
		channels[op.channel] = redirect.Binding{Path: target, Mode: op.mode}
	}

	if len(words) == 0 {
		words = []string{""}
	}

	ctx, err := redirect.New(channels, deferred, isPiped)
	if err != nil {
		return Stage{}, err
	}

	return Stage{Cmd: words[0], Args: words[1:], Ctx: ctx}, nil
}
