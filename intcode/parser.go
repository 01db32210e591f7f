package intcode

import (
	"errors"
	"fmt"
	"os"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	programLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Int", Pattern: `[-+]?\d+`},
		{Name: "Punct", Pattern: `,`},
		{Name: "whitespace", Pattern: `\s+`},
	})

	programParser = participle.MustBuild[Source](
		participle.Lexer(programLexer),
		participle.UseLookahead(2),
	)
)

// Source is a program as written: signed integers separated by commas,
// whitespace, or both. A trailing comma is allowed.
type Source struct {
	Pos    lexer.Position
	Values []int64 `@Int ( ","? @Int )* ","?`
}

func Parse(filename string, source string) ([]int64, error) {
	program, err := programParser.ParseString(filename, source)
	if err != nil {
		return nil, toParseError(err, source)
	}
	return program.Values, nil
}

func ParseFile(path string) ([]int64, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read program file %s: %w", path, err)
	}
	return Parse(path, string(source))
}

func toParseError(err error, source string) error {
	var perr participle.Error
	if !errors.As(err, &perr) {
		return fmt.Errorf("parse error: %w", err)
	}

	pe := &ParseError{
		Message: perr.Message(),
		Pos:     perr.Position(),
		Source:  source,
	}
	var unexpected *participle.UnexpectedTokenError
	if errors.As(err, &unexpected) {
		pe.Snippet = unexpected.Unexpected.Value
	}
	return pe
}
