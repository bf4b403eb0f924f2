package format

import (
	"fmt"
	"io"
	"strconv"

	"github.com/apex-dev-tools/apex-parser/apex/parser"
)

// TokenLineEncoder writes one tab separated line per token:
// position, kind, channel and the quoted source text.
type TokenLineEncoder struct {
	w      io.Writer
	hidden bool
}

func NewTokenLineEncoder(w io.Writer) *TokenLineEncoder {
	return &TokenLineEncoder{w: w}
}

// WithHidden includes whitespace and comment tokens.
func (e *TokenLineEncoder) WithHidden() *TokenLineEncoder {
	e.hidden = true
	return e
}

func (e *TokenLineEncoder) Encode(tok parser.Token) error {
	if tok.Channel == parser.HiddenChannel && !e.hidden {
		return nil
	}
	channel := "default"
	if tok.Channel == parser.HiddenChannel {
		channel = "hidden"
	}
	_, err := fmt.Fprintf(e.w, "%s\t%s\t%s\t%s\n",
		tok.Span.Start,
		tok.Kind,
		channel,
		strconv.Quote(tok.String()),
	)
	return err
}

// EncodeAll writes every token of the slice.
func (e *TokenLineEncoder) EncodeAll(toks []parser.Token) error {
	for _, tok := range toks {
		if err := e.Encode(tok); err != nil {
			return err
		}
	}
	return nil
}
