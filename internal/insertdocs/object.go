package insertdocs

import "strings"

// Kind tags what an Object documents. The embedding application maps its
// own values onto one of these; the core never inspects anything else.
type Kind int

const (
	KindUnknown Kind = iota
	KindModule
	KindClass
	KindFunction
	KindMethod
	KindProperty
	KindString
	KindSequence
)

func (k Kind) String() string {
	switch k {
	case KindModule:
		return "module"
	case KindClass:
		return "class"
	case KindFunction:
		return "function"
	case KindMethod:
		return "method"
	case KindProperty:
		return "property"
	case KindString:
		return "text"
	case KindSequence:
		return "sequence"
	default:
		return "unknown"
	}
}

// ParseKind maps a kind name back to a Kind. Unrecognized names yield
// KindUnknown.
func ParseKind(s string) Kind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "module", "package":
		return KindModule
	case "class", "type":
		return KindClass
	case "function", "func":
		return KindFunction
	case "method":
		return KindMethod
	case "property", "attribute", "field":
		return KindProperty
	case "text", "string":
		return KindString
	case "sequence", "list":
		return KindSequence
	default:
		return KindUnknown
	}
}

// Object is the already-tagged description of a resolved name.
type Object struct {
	Kind Kind
	// Name is the unqualified name, used for inheritance lines.
	Name string
	// Doc is the raw docstring, or the text itself for KindString.
	Doc string
	// Bases lists the parents of a class, nearest first.
	Bases []*Object
	// Members are the direct members of a class or module.
	Members []Member
	// Items holds the names rendered in turn for KindSequence.
	Items []string
}

// Member is a named child of a class or module.
type Member struct {
	Name   string
	Object *Object
}

// Namespace resolves dotted names to objects.
type Namespace interface {
	Lookup(name string) (*Object, error)
}
