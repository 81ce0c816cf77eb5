package token

// Kind classifies a scanned token.
type Kind uint8

const (
	Invalid Kind = iota
	EOF

	Ident
	Number
	String   // 'x', "x"
	Template // `x`

	// keywords (incl. contextual ones the migration cares about)
	KwClass
	KwExtends
	KwImplements
	KwConstructor
	KwImport
	KwExport
	KwFrom
	KwAs
	KwAbstract
	KwDeclare
	KwDefault
	KwInterface
	KwEnum
	KwFunction
	KwNamespace
	KwPrivate
	KwProtected
	KwPublic
	KwReadonly
	KwStatic

	At
	LParen
	RParen
	LBrace
	RBrace
	LBracket
	RBracket
	Lt
	Gt
	Comma
	Colon
	Semicolon
	Dot
	Question
	Assign
	Arrow // =>
	Star
	Amp
	Pipe
	Ellipsis // ...

	// Other covers punctuation the migration never inspects.
	Other
)

var kindNames = map[Kind]string{
	Invalid:       "Invalid",
	EOF:           "EOF",
	Ident:         "Ident",
	Number:        "Number",
	String:        "String",
	Template:      "Template",
	KwClass:       "class",
	KwExtends:     "extends",
	KwImplements:  "implements",
	KwConstructor: "constructor",
	KwImport:      "import",
	KwExport:      "export",
	KwFrom:        "from",
	KwAs:          "as",
	KwAbstract:    "abstract",
	KwDeclare:     "declare",
	KwDefault:     "default",
	KwInterface:   "interface",
	KwEnum:        "enum",
	KwFunction:    "function",
	KwNamespace:   "namespace",
	KwPrivate:     "private",
	KwProtected:   "protected",
	KwPublic:      "public",
	KwReadonly:    "readonly",
	KwStatic:      "static",
	At:            "@",
	LParen:        "(",
	RParen:        ")",
	LBrace:        "{",
	RBrace:        "}",
	LBracket:      "[",
	RBracket:      "]",
	Lt:            "<",
	Gt:            ">",
	Comma:         ",",
	Colon:         ":",
	Semicolon:     ";",
	Dot:           ".",
	Question:      "?",
	Assign:        "=",
	Arrow:         "=>",
	Star:          "*",
	Amp:           "&",
	Pipe:          "|",
	Ellipsis:      "...",
	Other:         "Other",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Kind(?)"
}

var keywords = map[string]Kind{
	"class":       KwClass,
	"extends":     KwExtends,
	"implements":  KwImplements,
	"constructor": KwConstructor,
	"import":      KwImport,
	"export":      KwExport,
	"from":        KwFrom,
	"as":          KwAs,
	"abstract":    KwAbstract,
	"declare":     KwDeclare,
	"default":     KwDefault,
	"interface":   KwInterface,
	"enum":        KwEnum,
	"function":    KwFunction,
	"namespace":   KwNamespace,
	"private":     KwPrivate,
	"protected":   KwProtected,
	"public":      KwPublic,
	"readonly":    KwReadonly,
	"static":      KwStatic,
}

// LookupKeyword maps an identifier to its keyword kind, or Ident.
// The keywords here are contextual in the grammar; the parser decides when
// they act as plain identifiers.
func LookupKeyword(ident string) Kind {
	if kw, ok := keywords[ident]; ok {
		return kw
	}
	return Ident
}
