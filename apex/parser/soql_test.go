package parser

import (
	"testing"
)

func TestParseQuery(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"simple", "Select Id from Account"},
		{"fields function", "Select Fields(All) from Account"},
		{"currency literal", "SELECT Id FROM Account WHERE Amount > USD100.01 AND Amount < USD200"},
		{"datetime literal", "SELECT Name, (SELECT Id FROM Account WHERE createdDate > 2020-01-01T12:00:00Z) FROM Opportunity"},
		{"negative number", "SELECT Name FROM Opportunity WHERE Value = -100.123"},
		{"relative date", "SELECT Id FROM Account WHERE DueDate = LAST_QUARTER"},
		{"relative date with argument", "SELECT Id FROM Account WHERE CreatedDate = LAST_N_DAYS:30"},
		{"distance", "SELECT Id, Distance(Address, :something, 'km') FROM Account WHERE Distance(Address, :something, 'km') < 10 ORDER BY Distance(Address, :something, 'km')"},
		{"geolocation", "SELECT Id FROM Account WHERE Distance(Address, GeoLocation(:something, -23.33), 'km') < 10"},
		{"nested subqueries", "SELECT Name, (SELECT Id, (SELECT Id, (SELECT Id, (SELECT Id FROM Child4 ) FROM Child3 ) FROM Child2 ) FROM Child1) FROM Parent"},
		{"grouping rollup", `SELECT
			OBJ1__c O1,
			OBJ2__c O2,
			OBJ3__c O3,
			SUM(OBJ4__c) O4,
			GROUPING(OBJ1__c) O1Group,
			GROUPING(OBJ2__c) O2Group,
			GROUPING(OBJ3__c) O3Group
		FROM OBJ4__c
		GROUP BY ROLLUP(OBJ1__c, OBJ2__c, OBJ3__c)`},
		{"user mode", "SELECT Id FROM Account WITH USER_MODE"},
		{"system mode", "SELECT Id FROM Account WITH SYSTEM_MODE"},
		{"security enforced", "SELECT Id FROM Account WITH SECURITY_ENFORCED"},
		{"typeof", "SELECT TYPEOF What WHEN Account THEN Phone, NumberOfEmployees WHEN Opportunity THEN Amount ELSE Name END FROM Event"},
		{"where logic", "SELECT Id FROM Contact WHERE (Name LIKE 'A%' OR Name LIKE 'B%') AND NOT Email = null"},
		{"in list", "SELECT Id FROM Account WHERE Industry IN ('Energy', 'Media') AND Type NOT IN :excluded"},
		{"semi join", "SELECT Id FROM Account WHERE Id IN (SELECT AccountId FROM Contact)"},
		{"includes", "SELECT Id FROM Account WHERE Regions__c INCLUDES ('a;b', 'c')"},
		{"not equal", "SELECT Id FROM Account WHERE Name != 'x' AND Rating <> 'Hot'"},
		{"aggregate having", "SELECT LeadSource, COUNT(Name) cnt FROM Lead GROUP BY LeadSource HAVING COUNT(Name) > 100"},
		{"count", "SELECT COUNT() FROM Account"},
		{"order limit offset", "SELECT Name FROM Account ORDER BY Name DESC NULLS LAST, Id ASC LIMIT 10 OFFSET 20"},
		{"bound limit", "SELECT Name FROM Account LIMIT :pageSize"},
		{"using scope", "SELECT Id FROM Account USING SCOPE Mine"},
		{"for update", "SELECT Id FROM Account LIMIT 1 FOR UPDATE"},
		{"all rows", "SELECT Id FROM Account ALL ROWS"},
		{"update tracking", "SELECT Title FROM FAQ__kav UPDATE TRACKING"},
		{"data category", "SELECT Title FROM KnowledgeArticleVersion WITH DATA CATEGORY Geography__c AT usa__c AND Product__c ABOVE_OR_BELOW (mobile__c, desktop__c)"},
		{"parent relationship", "SELECT Id, Account.Owner.Name FROM Contact WHERE Account.Name = 'Acme'"},
		{"from alias", "SELECT c.Id FROM Contact c"},
		{"time literal", "SELECT Id FROM Shift__c WHERE Start__c = 09:30:00Z"},
		{"date function", "SELECT CALENDAR_YEAR(CreatedDate), SUM(Amount) FROM Opportunity GROUP BY CALENDAR_YEAR(CreatedDate)"},
		{"tolabel", "SELECT toLabel(Status) FROM Lead"},
		{"bind expression", "SELECT Id FROM Account WHERE Id = :accounts[0].Id AND Name = :names.get(0)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, errs := Parse(EntryQuery, tt.input)
			if len(errs) != 0 {
				t.Errorf("got %d errors, want 0", len(errs))
				printErrors(t, errs)
			}
			if node.Kind != KindQuery {
				t.Errorf("Kind = %v, want Query", node.Kind)
			}
			if node.HasErrors() {
				t.Errorf("tree has error nodes:\n%s", node)
			}
		})
	}
}

func TestParseSoqlLiteral(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"convertCurrency", "[ SELECT convertCurrency(Amount) FROM Opportunity ]"},
		{"format and convertCurrency", `[
			SELECT Amount, FORMAT(amount) Amt, convertCurrency(amount) convertedAmount,
				FORMAT(convertCurrency(amount)) convertedCurrency
			FROM Opportunity where id = '006R00000024gDtIAI'
		]`},
		{"format of aggregate", "[ SELECT FORMAT(MIN(closedate)) Amt FROM opportunity ]"},
		{"time literal", "[SELECT Break__c,Check_Out__c FROM VMS_Time_Card_Item__c WHERE Time_Card__c =:timeCard.Id AND Check_Out__c = 01:00:00.000Z]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, errs := Parse(EntrySoqlLiteral, tt.input)
			if len(errs) != 0 {
				t.Errorf("got %d errors, want 0", len(errs))
				printErrors(t, errs)
			}
			if node.Kind != KindSoqlLiteral {
				t.Errorf("Kind = %v, want SoqlLiteral", node.Kind)
			}
		})
	}
}

func TestQueryStructure(t *testing.T) {
	node, errs := Parse(EntryQuery, "SELECT Id, Name n, (SELECT Id FROM Contacts) FROM Account WHERE Name = 'x' ORDER BY Name LIMIT 5")
	if len(errs) != 0 {
		t.Fatalf("got %d errors", len(errs))
	}

	fields := node.FirstChildOfKind(KindSelectList).ChildrenOfKind(KindSelectField)
	if len(fields) != 3 {
		t.Fatalf("got %d select fields, want 3", len(fields))
	}
	if alias := fields[1].FirstChildOfKind(KindAlias); alias == nil || alias.TokenLiteral() != "n" {
		t.Errorf("alias = %v, want n", alias)
	}
	if fields[2].FirstChildOfKind(KindSubQuery) == nil {
		t.Errorf("third field is not a subquery:\n%s", fields[2])
	}

	for _, kind := range []NodeKind{KindFromList, KindWhereClause, KindOrderByClause, KindLimitClause} {
		if node.FirstChildOfKind(kind) == nil {
			t.Errorf("missing %v", kind)
		}
	}
}

func TestQuerySubQueryDepth(t *testing.T) {
	node, errs := Parse(EntryQuery, "SELECT Name, (SELECT Id, (SELECT Id, (SELECT Id, (SELECT Id FROM Child4 ) FROM Child3 ) FROM Child2 ) FROM Child1) FROM Parent")
	if len(errs) != 0 {
		t.Fatalf("got %d errors", len(errs))
	}
	if got := countNodes(node, KindSubQuery); got != 4 {
		t.Errorf("got %d subqueries, want 4", got)
	}
}

func TestQueryLogicalOperators(t *testing.T) {
	node, errs := Parse(EntryQuery, "SELECT Id FROM Account WHERE A = 1 AND B = 2 AND C = 3")
	if len(errs) != 0 {
		t.Fatalf("got %d errors", len(errs))
	}
	logic := findNode(node, KindLogicalExpr)
	if logic == nil {
		t.Fatalf("no LogicalExpr:\n%s", node)
	}
	if got := len(logic.Operands()); got != 3 {
		t.Errorf("got %d conditions, want 3", got)
	}
}

func TestQueryInExpression(t *testing.T) {
	node, errs := Parse(EntryStatement, "Integer n = [SELECT COUNT() FROM Account WHERE Name = :(String) value];")
	if len(errs) != 0 {
		t.Errorf("got %d errors", len(errs))
		printErrors(t, errs)
	}
	if findNode(node, KindCastExpr) == nil {
		t.Errorf("bind cast not parsed:\n%s", node)
	}
}

func TestQueryErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"missing from", "SELECT Id Account", 1},
		{"bad operator", "SELECT Id FROM Account WHERE Name ~ 'x'", 1},
		{"bad fields argument", "SELECT FIELDS(Name) FROM Account", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errs := Parse(EntryQuery, tt.input)
			if len(errs) != tt.want {
				t.Errorf("got %d errors, want %d", len(errs), tt.want)
				printErrors(t, errs)
			}
		})
	}
}
