package parser

import "fmt"

// Position is a location in the source. Line is 1-based, Column is the
// 0-based count of characters since the start of the line.
type Position struct {
	File   string
	Offset int
	Line   int
	Column int
}

type Span struct {
	Start Position
	End   Position
}

// Channel separates tokens the grammar sees from those it skips.
type Channel int

const (
	DefaultChannel Channel = iota
	HiddenChannel
)

type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenError
	TokenWhitespace
	TokenComment
	TokenLineComment

	// Literals
	TokenIdent
	TokenIntegerLiteral
	TokenLongLiteral
	TokenNumberLiteral
	TokenStringLiteral
	TokenDateLiteral
	TokenDateTimeLiteral
	TokenTimeLiteral
	TokenCurrencyLiteral
	TokenFindLiteral
	TokenFindLiteralAlt
	TokenTrue
	TokenFalse
	TokenNull

	// Relative date literals
	TokenYesterday
	TokenToday
	TokenTomorrow
	TokenLastWeek
	TokenThisWeek
	TokenNextWeek
	TokenLastMonth
	TokenThisMonth
	TokenNextMonth
	TokenLast90Days
	TokenNext90Days
	TokenThisQuarter
	TokenLastQuarter
	TokenNextQuarter
	TokenThisYear
	TokenLastYear
	TokenNextYear
	TokenThisFiscalQuarter
	TokenLastFiscalQuarter
	TokenNextFiscalQuarter
	TokenThisFiscalYear
	TokenLastFiscalYear
	TokenNextFiscalYear
	TokenLastNDays
	TokenNextNDays
	TokenNDaysAgo
	TokenNextNWeeks
	TokenLastNWeeks
	TokenNWeeksAgo
	TokenNextNMonths
	TokenLastNMonths
	TokenNMonthsAgo
	TokenNextNQuarters
	TokenLastNQuarters
	TokenNQuartersAgo
	TokenNextNYears
	TokenLastNYears
	TokenNYearsAgo
	TokenNextNFiscalQuarters
	TokenLastNFiscalQuarters
	TokenNFiscalQuartersAgo
	TokenNextNFiscalYears
	TokenLastNFiscalYears
	TokenNFiscalYearsAgo

	// Reserved keywords
	TokenAbstract
	TokenBreak
	TokenCatch
	TokenClass
	TokenContinue
	TokenDelete
	TokenDo
	TokenElse
	TokenEnum
	TokenExtends
	TokenFinal
	TokenFinally
	TokenFor
	TokenGlobal
	TokenIf
	TokenImplements
	TokenInsert
	TokenInstanceof
	TokenInterface
	TokenMerge
	TokenNew
	TokenOverride
	TokenPrivate
	TokenProtected
	TokenPublic
	TokenReturn
	TokenStatic
	TokenSuper
	TokenSwitch
	TokenTestMethod
	TokenThis
	TokenThrow
	TokenTransient
	TokenTry
	TokenUndelete
	TokenUpdate
	TokenUpsert
	TokenVirtual
	TokenVoid
	TokenWebService
	TokenWhile
	TokenSystemRunAs

	// Contextual keywords, usable as identifiers
	TokenAfter
	TokenAs
	TokenBefore
	TokenGet
	TokenInherited
	TokenOn
	TokenSet
	TokenSharing
	TokenSystem
	TokenTrigger
	TokenUser
	TokenWhen
	TokenWith
	TokenWithout

	// Query keywords, usable as identifiers
	TokenSelect
	TokenCount
	TokenCountDistinct
	TokenFrom
	TokenUsing
	TokenScope
	TokenWhere
	TokenOrder
	TokenBy
	TokenLimit
	TokenSoqlAnd
	TokenSoqlOr
	TokenNot
	TokenAvg
	TokenMin
	TokenMax
	TokenSum
	TokenTypeOf
	TokenEnd
	TokenThen
	TokenLike
	TokenIn
	TokenIncludes
	TokenExcludes
	TokenAsc
	TokenDesc
	TokenNulls
	TokenFirst
	TokenLast
	TokenGroup
	TokenAll
	TokenRows
	TokenView
	TokenHaving
	TokenRollup
	TokenCube
	TokenToLabel
	TokenOffset
	TokenData
	TokenCategory
	TokenAtKw
	TokenAbove
	TokenBelow
	TokenAboveOrBelow
	TokenSecurityEnforced
	TokenSystemMode
	TokenUserMode
	TokenReference
	TokenFormat
	TokenTracking
	TokenViewStat
	TokenCustom
	TokenStandard
	TokenDistance
	TokenGeolocation
	TokenGrouping
	TokenConvertCurrency
	TokenConvertTimezone
	TokenFields
	TokenCalendarMonth
	TokenCalendarQuarter
	TokenCalendarYear
	TokenDayInMonth
	TokenDayInWeek
	TokenDayInYear
	TokenDayOnly
	TokenFiscalMonth
	TokenFiscalQuarter
	TokenFiscalYear
	TokenHourInDay
	TokenWeekInMonth
	TokenWeekInYear
	TokenFind
	TokenReturning
	TokenEmail
	TokenName
	TokenPhone
	TokenSidebar
	TokenNetwork
	TokenDivision
	TokenSnippet
	TokenTargetLength
	TokenMetadata
	TokenPricebookID
	TokenSpellCorrection
	TokenListView

	// Separators
	TokenLParen
	TokenRParen
	TokenLBrace
	TokenRBrace
	TokenLBracket
	TokenRBracket
	TokenSemicolon
	TokenComma
	TokenDot
	TokenAt

	// Operators
	TokenAssign
	TokenGT
	TokenLT
	TokenBang
	TokenTilde
	TokenQuestion
	TokenQuestionDot
	TokenCoalesce
	TokenColon
	TokenEQ
	TokenTripleEQ
	TokenNE
	TokenTripleNE
	TokenLtGt
	TokenLE
	TokenGE
	TokenAnd
	TokenOr
	TokenIncrement
	TokenDecrement
	TokenPlus
	TokenMinus
	TokenStar
	TokenSlash
	TokenAmp
	TokenPipe
	TokenCaret
	TokenPercent
	TokenShl
	TokenShr
	TokenUShr
	TokenMapsTo
	TokenPlusAssign
	TokenMinusAssign
	TokenStarAssign
	TokenSlashAssign
	TokenAmpAssign
	TokenPipeAssign
	TokenCaretAssign
	TokenPercentAssign
	TokenShlAssign
	TokenShrAssign
	TokenUShrAssign
)

var tokenKindNames = map[TokenKind]string{
	TokenEOF:             "EOF",
	TokenError:           "Error",
	TokenWhitespace:      "Whitespace",
	TokenComment:         "Comment",
	TokenLineComment:     "LineComment",
	TokenIdent:           "Identifier",
	TokenIntegerLiteral:  "IntegerLiteral",
	TokenLongLiteral:     "LongLiteral",
	TokenNumberLiteral:   "NumberLiteral",
	TokenStringLiteral:   "StringLiteral",
	TokenDateLiteral:     "DateLiteral",
	TokenDateTimeLiteral: "DateTimeLiteral",
	TokenTimeLiteral:     "TimeLiteral",
	TokenCurrencyLiteral: "CurrencyLiteral",
	TokenFindLiteral:     "FindLiteral",
	TokenFindLiteralAlt:  "FindLiteralAlt",
	TokenLParen:          "(",
	TokenRParen:          ")",
	TokenLBrace:          "{",
	TokenRBrace:          "}",
	TokenLBracket:        "[",
	TokenRBracket:        "]",
	TokenSemicolon:       ";",
	TokenComma:           ",",
	TokenDot:             ".",
	TokenAt:              "@",
	TokenAssign:          "=",
	TokenGT:              ">",
	TokenLT:              "<",
	TokenBang:            "!",
	TokenTilde:           "~",
	TokenQuestion:        "?",
	TokenQuestionDot:     "?.",
	TokenCoalesce:        "??",
	TokenColon:           ":",
	TokenEQ:              "==",
	TokenTripleEQ:        "===",
	TokenNE:              "!=",
	TokenTripleNE:        "!==",
	TokenLtGt:            "<>",
	TokenLE:              "<=",
	TokenGE:              ">=",
	TokenAnd:             "&&",
	TokenOr:              "||",
	TokenIncrement:       "++",
	TokenDecrement:       "--",
	TokenPlus:            "+",
	TokenMinus:           "-",
	TokenStar:            "*",
	TokenSlash:           "/",
	TokenAmp:             "&",
	TokenPipe:            "|",
	TokenCaret:           "^",
	TokenPercent:         "%",
	TokenShl:             "<<",
	TokenShr:             ">>",
	TokenUShr:            ">>>",
	TokenMapsTo:          "=>",
	TokenPlusAssign:      "+=",
	TokenMinusAssign:     "-=",
	TokenStarAssign:      "*=",
	TokenSlashAssign:     "/=",
	TokenAmpAssign:       "&=",
	TokenPipeAssign:      "|=",
	TokenCaretAssign:     "^=",
	TokenPercentAssign:   "%=",
	TokenShlAssign:       "<<=",
	TokenShrAssign:       ">>=",
	TokenUShrAssign:      ">>>=",
	TokenSystemRunAs:     "System.runAs",
}

// keywords maps the upper-cased spelling of every keyword to its kind.
// Lookups happen against the case-folded view of the source.
var keywords = map[string]TokenKind{
	"TRUE":  TokenTrue,
	"FALSE": TokenFalse,
	"NULL":  TokenNull,

	"YESTERDAY":                 TokenYesterday,
	"TODAY":                     TokenToday,
	"TOMORROW":                  TokenTomorrow,
	"LAST_WEEK":                 TokenLastWeek,
	"THIS_WEEK":                 TokenThisWeek,
	"NEXT_WEEK":                 TokenNextWeek,
	"LAST_MONTH":                TokenLastMonth,
	"THIS_MONTH":                TokenThisMonth,
	"NEXT_MONTH":                TokenNextMonth,
	"LAST_90_DAYS":              TokenLast90Days,
	"NEXT_90_DAYS":              TokenNext90Days,
	"THIS_QUARTER":              TokenThisQuarter,
	"LAST_QUARTER":              TokenLastQuarter,
	"NEXT_QUARTER":              TokenNextQuarter,
	"THIS_YEAR":                 TokenThisYear,
	"LAST_YEAR":                 TokenLastYear,
	"NEXT_YEAR":                 TokenNextYear,
	"THIS_FISCAL_QUARTER":       TokenThisFiscalQuarter,
	"LAST_FISCAL_QUARTER":       TokenLastFiscalQuarter,
	"NEXT_FISCAL_QUARTER":       TokenNextFiscalQuarter,
	"THIS_FISCAL_YEAR":          TokenThisFiscalYear,
	"LAST_FISCAL_YEAR":          TokenLastFiscalYear,
	"NEXT_FISCAL_YEAR":          TokenNextFiscalYear,
	"LAST_N_DAYS":               TokenLastNDays,
	"NEXT_N_DAYS":               TokenNextNDays,
	"N_DAYS_AGO":                TokenNDaysAgo,
	"NEXT_N_WEEKS":              TokenNextNWeeks,
	"LAST_N_WEEKS":              TokenLastNWeeks,
	"N_WEEKS_AGO":               TokenNWeeksAgo,
	"NEXT_N_MONTHS":             TokenNextNMonths,
	"LAST_N_MONTHS":             TokenLastNMonths,
	"N_MONTHS_AGO":              TokenNMonthsAgo,
	"NEXT_N_QUARTERS":           TokenNextNQuarters,
	"LAST_N_QUARTERS":           TokenLastNQuarters,
	"N_QUARTERS_AGO":            TokenNQuartersAgo,
	"NEXT_N_YEARS":              TokenNextNYears,
	"LAST_N_YEARS":              TokenLastNYears,
	"N_YEARS_AGO":               TokenNYearsAgo,
	"NEXT_N_FISCAL_QUARTERS":    TokenNextNFiscalQuarters,
	"LAST_N_FISCAL_QUARTERS":    TokenLastNFiscalQuarters,
	"N_FISCAL_QUARTERS_AGO":     TokenNFiscalQuartersAgo,
	"NEXT_N_FISCAL_YEARS":       TokenNextNFiscalYears,
	"LAST_N_FISCAL_YEARS":       TokenLastNFiscalYears,
	"N_FISCAL_YEARS_AGO":        TokenNFiscalYearsAgo,

	"ABSTRACT":   TokenAbstract,
	"BREAK":      TokenBreak,
	"CATCH":      TokenCatch,
	"CLASS":      TokenClass,
	"CONTINUE":   TokenContinue,
	"DELETE":     TokenDelete,
	"DO":         TokenDo,
	"ELSE":       TokenElse,
	"ENUM":       TokenEnum,
	"EXTENDS":    TokenExtends,
	"FINAL":      TokenFinal,
	"FINALLY":    TokenFinally,
	"FOR":        TokenFor,
	"GLOBAL":     TokenGlobal,
	"IF":         TokenIf,
	"IMPLEMENTS": TokenImplements,
	"INSERT":     TokenInsert,
	"INSTANCEOF": TokenInstanceof,
	"INTERFACE":  TokenInterface,
	"MERGE":      TokenMerge,
	"NEW":        TokenNew,
	"OVERRIDE":   TokenOverride,
	"PRIVATE":    TokenPrivate,
	"PROTECTED":  TokenProtected,
	"PUBLIC":     TokenPublic,
	"RETURN":     TokenReturn,
	"STATIC":     TokenStatic,
	"SUPER":      TokenSuper,
	"SWITCH":     TokenSwitch,
	"TESTMETHOD": TokenTestMethod,
	"THIS":       TokenThis,
	"THROW":      TokenThrow,
	"TRANSIENT":  TokenTransient,
	"TRY":        TokenTry,
	"UNDELETE":   TokenUndelete,
	"UPDATE":     TokenUpdate,
	"UPSERT":     TokenUpsert,
	"VIRTUAL":    TokenVirtual,
	"VOID":       TokenVoid,
	"WEBSERVICE": TokenWebService,
	"WHILE":      TokenWhile,

	"AFTER":     TokenAfter,
	"AS":        TokenAs,
	"BEFORE":    TokenBefore,
	"GET":       TokenGet,
	"INHERITED": TokenInherited,
	"ON":        TokenOn,
	"SET":       TokenSet,
	"SHARING":   TokenSharing,
	"SYSTEM":    TokenSystem,
	"TRIGGER":   TokenTrigger,
	"USER":      TokenUser,
	"WHEN":      TokenWhen,
	"WITH":      TokenWith,
	"WITHOUT":   TokenWithout,

	"SELECT":            TokenSelect,
	"COUNT":             TokenCount,
	"COUNT_DISTINCT":    TokenCountDistinct,
	"FROM":              TokenFrom,
	"USING":             TokenUsing,
	"SCOPE":             TokenScope,
	"WHERE":             TokenWhere,
	"ORDER":             TokenOrder,
	"BY":                TokenBy,
	"LIMIT":             TokenLimit,
	"AND":               TokenSoqlAnd,
	"OR":                TokenSoqlOr,
	"NOT":               TokenNot,
	"AVG":               TokenAvg,
	"MIN":               TokenMin,
	"MAX":               TokenMax,
	"SUM":               TokenSum,
	"TYPEOF":            TokenTypeOf,
	"END":               TokenEnd,
	"THEN":              TokenThen,
	"LIKE":              TokenLike,
	"IN":                TokenIn,
	"INCLUDES":          TokenIncludes,
	"EXCLUDES":          TokenExcludes,
	"ASC":               TokenAsc,
	"DESC":              TokenDesc,
	"NULLS":             TokenNulls,
	"FIRST":             TokenFirst,
	"LAST":              TokenLast,
	"GROUP":             TokenGroup,
	"ALL":               TokenAll,
	"ROWS":              TokenRows,
	"VIEW":              TokenView,
	"HAVING":            TokenHaving,
	"ROLLUP":            TokenRollup,
	"CUBE":              TokenCube,
	"TOLABEL":           TokenToLabel,
	"OFFSET":            TokenOffset,
	"DATA":              TokenData,
	"CATEGORY":          TokenCategory,
	"AT":                TokenAtKw,
	"ABOVE":             TokenAbove,
	"BELOW":             TokenBelow,
	"ABOVE_OR_BELOW":    TokenAboveOrBelow,
	"SECURITY_ENFORCED": TokenSecurityEnforced,
	"SYSTEM_MODE":       TokenSystemMode,
	"USER_MODE":         TokenUserMode,
	"REFERENCE":         TokenReference,
	"FORMAT":            TokenFormat,
	"TRACKING":          TokenTracking,
	"VIEWSTAT":          TokenViewStat,
	"CUSTOM":            TokenCustom,
	"STANDARD":          TokenStandard,
	"DISTANCE":          TokenDistance,
	"GEOLOCATION":       TokenGeolocation,
	"GROUPING":          TokenGrouping,
	"CONVERTCURRENCY":   TokenConvertCurrency,
	"CONVERTTIMEZONE":   TokenConvertTimezone,
	"FIELDS":            TokenFields,
	"CALENDAR_MONTH":    TokenCalendarMonth,
	"CALENDAR_QUARTER":  TokenCalendarQuarter,
	"CALENDAR_YEAR":     TokenCalendarYear,
	"DAY_IN_MONTH":      TokenDayInMonth,
	"DAY_IN_WEEK":       TokenDayInWeek,
	"DAY_IN_YEAR":       TokenDayInYear,
	"DAY_ONLY":          TokenDayOnly,
	"FISCAL_MONTH":      TokenFiscalMonth,
	"FISCAL_QUARTER":    TokenFiscalQuarter,
	"FISCAL_YEAR":       TokenFiscalYear,
	"HOUR_IN_DAY":       TokenHourInDay,
	"WEEK_IN_MONTH":     TokenWeekInMonth,
	"WEEK_IN_YEAR":      TokenWeekInYear,
	"FIND":              TokenFind,
	"RETURNING":         TokenReturning,
	"EMAIL":             TokenEmail,
	"NAME":              TokenName,
	"PHONE":             TokenPhone,
	"SIDEBAR":           TokenSidebar,
	"NETWORK":           TokenNetwork,
	"DIVISION":          TokenDivision,
	"SNIPPET":           TokenSnippet,
	"TARGET_LENGTH":     TokenTargetLength,
	"METADATA":          TokenMetadata,
	"PRICEBOOKID":       TokenPricebookID,
	"SPELL_CORRECTION":  TokenSpellCorrection,
	"LISTVIEW":          TokenListView,
}

var keywordNames map[TokenKind]string

func init() {
	keywordNames = make(map[TokenKind]string, len(keywords))
	for word, kind := range keywords {
		keywordNames[kind] = word
	}
}

// LookupKeyword returns the kind for an upper-cased word, or TokenIdent.
func LookupKeyword(upper string) TokenKind {
	if kind, ok := keywords[upper]; ok {
		return kind
	}
	return TokenIdent
}

func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	if name, ok := keywordNames[k]; ok {
		return name
	}
	return "Unknown"
}

// IsKeyword reports whether k is any keyword, reserved or contextual.
func (k TokenKind) IsKeyword() bool {
	_, ok := keywordNames[k]
	return ok
}

// IsContextual reports whether a keyword may also serve as an identifier.
func (k TokenKind) IsContextual() bool {
	return k >= TokenAfter && k <= TokenListView
}

// IsRelativeDate reports whether k is a relative date literal. Kinds from
// TokenLastNDays onwards take an integer argument after a colon.
func (k TokenKind) IsRelativeDate() bool {
	return k >= TokenYesterday && k <= TokenNFiscalYearsAgo
}

func (k TokenKind) takesDateArgument() bool {
	return k >= TokenLastNDays && k <= TokenNFiscalYearsAgo
}

type Token struct {
	Kind    TokenKind
	Channel Channel
	Span    Span
	// Literal is the source text exactly as written.
	Literal string
	// Value holds the decoded content of string and find literals.
	Value string
}

func (t Token) String() string {
	if t.Kind == TokenEOF {
		return "<EOF>"
	}
	return t.Literal
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}
