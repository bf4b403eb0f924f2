package parser

import (
	"testing"
)

func TestParseSoslLiteral(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"basic", "[Find 'something' RETURNING Account]"},
		{"embedded quote", `[Find 'some\'thing' RETURNING Account]`},
		{"user mode then metadata", "[Find 'something' RETURNING Account WITH USER_MODE WITH METADATA='Labels']"},
		{"metadata then system mode", "[Find 'something' RETURNING Account WITH METADATA='Labels' WITH SYSTEM_MODE]"},
		{"toLabel", "[FIND :searchTerm IN ALL FIELDS RETURNING Account(Id, toLabel(Name)) LIMIT 10]"},
		{"toLabel with alias", "[FIND :searchTerm IN ALL FIELDS RETURNING Account(Id, toLabel(Name) AliasName) LIMIT 10]"},
		{"convertCurrency", `[
			FIND 'test' RETURNING Opportunity(
				Name,
				convertCurrency(Amount),
				convertCurrency(Amount) AliasCurrency
			)
		]`},
		{"format of convertCurrency", `[
			FIND 'Acme' RETURNING Account(
				AnnualRevenue,
				FORMAT(convertCurrency(AnnualRevenue)) convertedCurrency
			)
		]`},
		{"format of aggregate", "[ FIND 'Acme' RETURNING Account(AnnualRevenue, FORMAT(MIN(CloseDate))) ]"},
		{"returning filters", "[FIND 'Acme*' IN NAME FIELDS RETURNING Account(Name, Industry WHERE Industry = 'Media' ORDER BY Name LIMIT 5 OFFSET 5), Contact(Name USING LISTVIEW = Recent)]"},
		{"search options", "[FIND 'Acme' RETURNING Account WITH DIVISION = 'Global' WITH SNIPPET (target_length=120) WITH NETWORK IN ('a', 'b') WITH SPELL_CORRECTION = false LIMIT 20 UPDATE VIEWSTAT]"},
		{"pricebook", "[FIND 'Widget' RETURNING Product2 WITH PRICEBOOKID = '01sxx0000000001']"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, errs := Parse(EntrySoslLiteral, tt.input)
			if len(errs) != 0 {
				t.Errorf("got %d errors, want 0", len(errs))
				printErrors(t, errs)
			}
			if node.Kind != KindSoslLiteral {
				t.Errorf("Kind = %v, want SoslLiteral", node.Kind)
			}
			if node.HasErrors() {
				t.Errorf("tree has error nodes:\n%s", node)
			}
		})
	}
}

func TestSoslLiteralForms(t *testing.T) {
	tests := []struct {
		name  string
		entry Entry
		input string
		want  int
	}{
		{"quotes on quoted form", EntrySoslLiteral, "[Find 'something' RETURNING Account]", 0},
		{"braces on quoted form", EntrySoslLiteral, "[Find {something} RETURNING Account]", 1},
		{"braces on brace form", EntrySoslLiteralAlt, "[Find {something} RETURNING Account]", 0},
		{"quotes on brace form", EntrySoslLiteralAlt, "[Find 'something' RETURNING Account]", 1},
		{"bound term on brace form", EntrySoslLiteralAlt, "[Find :term RETURNING Account]", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, errs := Parse(tt.entry, tt.input)
			if len(errs) != tt.want {
				t.Errorf("got %d errors, want %d", len(errs), tt.want)
				printErrors(t, errs)
			}
			if node.Kind != KindSoslLiteral {
				t.Errorf("Kind = %v, want SoslLiteral", node.Kind)
			}
		})
	}
}

func TestSoslTerm(t *testing.T) {
	node, errs := Parse(EntrySoslLiteral, `[FIND 'it\'s' RETURNING Account(Name), Contact]`)
	if len(errs) != 0 {
		t.Fatalf("got %d errors", len(errs))
	}
	term := node.Children[0]
	if term.Kind != KindLiteral || term.Token.Value != "it's" {
		t.Errorf("term = %v %q, want literal it's", term.Kind, term.Token.Value)
	}
	specs := node.FirstChildOfKind(KindReturningClause).ChildrenOfKind(KindFieldSpec)
	if len(specs) != 2 {
		t.Fatalf("got %d returning entries, want 2", len(specs))
	}
	if specs[0].FirstChildOfKind(KindSelectList) == nil {
		t.Errorf("Account has no field list")
	}
	if specs[1].FirstChildOfKind(KindSelectList) != nil {
		t.Errorf("Contact has a field list")
	}
}

func TestSoslInExpression(t *testing.T) {
	node, errs := Parse(EntryStatement, "List<List<SObject>> results = [FIND 'Acme' IN ALL FIELDS RETURNING Account(Name), Contact];")
	if len(errs) != 0 {
		t.Errorf("got %d errors", len(errs))
		printErrors(t, errs)
	}
	if findNode(node, KindSoslLiteral) == nil {
		t.Errorf("no SoslLiteral:\n%s", node)
	}
}
