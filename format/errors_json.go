package format

import (
	"encoding/json"
	"io"

	"github.com/apex-dev-tools/apex-parser/apex/parser"
)

// ErrorJSONEncoder writes one compact JSON object per syntax error:
// {"column":0,"line":1,"message":"...","path":"..."}.
type ErrorJSONEncoder struct {
	enc *json.Encoder
}

func NewErrorJSONEncoder(w io.Writer) *ErrorJSONEncoder {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &ErrorJSONEncoder{enc: enc}
}

func (e *ErrorJSONEncoder) Encode(err parser.SyntaxError) error {
	return e.enc.Encode(err)
}
