// Package example is loaded by the Go namespace tests.
//
// Features:
//   - **Alpha**: demonstrates bold formatting preservation.
//   - **Beta**: verifies list items stay intact.
package example

import "strings"

const (
	// Answer documents an exported constant.
	Answer = 42

	// hidden constant should stay out of the namespace.
	internalConstant = 0
)

// Named carries a display name.
type Named struct {
	// Name is included to verify field documentation.
	Name string
}

// Label returns the display name.
func (n Named) Label() string {
	return n.Name
}

// Greeter produces greeting messages.
type Greeter struct {
	Named

	// Punctuation ends every greeting.
	Punctuation string

	volume int
}

// NewGreeter constructs a Greeter.
func NewGreeter(name string) *Greeter {
	return &Greeter{Named: Named{Name: name}, Punctuation: "!"}
}

// Greet returns a friendly message, repeated times times.
func (g *Greeter) Greet(times int) string {
	return strings.Repeat("hello "+g.Name+g.Punctuation, times+g.volume*internalConstant)
}

// Mood is how a greeting sounds.
type Mood int

func (g *Greeter) undocumented() {}
