package parser

import (
	"testing"
)

func TestLookupKeyword(t *testing.T) {
	tests := []struct {
		upper string
		kind  TokenKind
	}{
		{"CLASS", TokenClass},
		{"WITHOUT", TokenWithout},
		{"SELECT", TokenSelect},
		{"NEXT_N_FISCAL_YEARS", TokenNextNFiscalYears},
		{"class", TokenIdent},
		{"ACCOUNT", TokenIdent},
	}
	for _, tt := range tests {
		t.Run(tt.upper, func(t *testing.T) {
			if got := LookupKeyword(tt.upper); got != tt.kind {
				t.Errorf("LookupKeyword(%q) = %v, want %v", tt.upper, got, tt.kind)
			}
		})
	}
}

func TestTokenKindClasses(t *testing.T) {
	tests := []struct {
		kind       TokenKind
		keyword    bool
		contextual bool
		date       bool
	}{
		{TokenClass, true, false, false},
		{TokenTrigger, true, true, false},
		{TokenSelect, true, true, false},
		{TokenListView, true, true, false},
		{TokenToday, true, false, true},
		{TokenLastNDays, true, false, true},
		{TokenIdent, false, false, false},
		{TokenLBrace, false, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			if got := tt.kind.IsKeyword(); got != tt.keyword {
				t.Errorf("IsKeyword = %v, want %v", got, tt.keyword)
			}
			if got := tt.kind.IsContextual(); got != tt.contextual {
				t.Errorf("IsContextual = %v, want %v", got, tt.contextual)
			}
			if got := tt.kind.IsRelativeDate(); got != tt.date {
				t.Errorf("IsRelativeDate = %v, want %v", got, tt.date)
			}
		})
	}
}

func TestTokenString(t *testing.T) {
	if got := (Token{Kind: TokenEOF}).String(); got != "<EOF>" {
		t.Errorf("EOF String() = %q", got)
	}
	if got := (Token{Kind: TokenIdent, Literal: "Foo"}).String(); got != "Foo" {
		t.Errorf("String() = %q", got)
	}
	if got := TokenLBrace.String(); got != "{" {
		t.Errorf("TokenLBrace.String() = %q", got)
	}
	if got := (Position{Line: 3, Column: 4}).String(); got != "3:4" {
		t.Errorf("Position.String() = %q", got)
	}
}

func TestSourceFolding(t *testing.T) {
	src := NewSource([]byte("Select é"))
	if got := src.Folded(0, 6); got != "SELECT" {
		t.Errorf("Folded = %q", got)
	}
	if got := src.Text(0, 6); got != "Select" {
		t.Errorf("Text = %q", got)
	}
	if !src.HasFoldedPrefix(0, "SEL") {
		t.Error("HasFoldedPrefix(SEL) = false")
	}
	if src.At(100) != 0 || src.FoldedAt(-1) != 0 {
		t.Error("out of range access should return 0")
	}
	if got := src.Text(7, src.Len()); got != "é" {
		t.Errorf("non-ASCII text = %q", got)
	}
}
