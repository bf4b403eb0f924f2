package parser

// Source pairs the original text with an ASCII upper-cased view of the
// same bytes. Keywords are classified against the folded view while token
// text is always sliced from the original, so offsets line up exactly.
type Source struct {
	text  []byte
	upper []byte
}

func NewSource(text []byte) *Source {
	upper := make([]byte, len(text))
	for i, b := range text {
		if b >= 'a' && b <= 'z' {
			b -= 'a' - 'A'
		}
		upper[i] = b
	}
	return &Source{text: text, upper: upper}
}

func (s *Source) Len() int {
	return len(s.text)
}

// At returns the original byte at i, or 0 past the end.
func (s *Source) At(i int) byte {
	if i < 0 || i >= len(s.text) {
		return 0
	}
	return s.text[i]
}

// FoldedAt returns the upper-cased byte at i, or 0 past the end.
func (s *Source) FoldedAt(i int) byte {
	if i < 0 || i >= len(s.upper) {
		return 0
	}
	return s.upper[i]
}

func (s *Source) Text(start, end int) string {
	return string(s.text[start:end])
}

func (s *Source) Folded(start, end int) string {
	return string(s.upper[start:end])
}

// HasFoldedPrefix reports whether the folded view at i starts with word,
// which must already be upper case.
func (s *Source) HasFoldedPrefix(i int, word string) bool {
	if i+len(word) > len(s.upper) {
		return false
	}
	return string(s.upper[i:i+len(word)]) == word
}

func (s *Source) Bytes() []byte {
	return s.text
}
