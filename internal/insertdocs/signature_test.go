package insertdocs

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name       string
		obj        *Object
		fullName   string
		wantHeader string
		wantBody   string
	}{
		{
			name:       "function signature",
			obj:        &Object{Kind: KindFunction, Doc: "add(a, b)\n\n    Adds two numbers."},
			fullName:   "add",
			wantHeader: "add(a, b)",
			wantBody:   "Adds two numbers.\n",
		},
		{
			name:       "qualified function",
			obj:        &Object{Kind: KindFunction, Doc: "add(a, b)\n\n    Adds two numbers."},
			fullName:   "calc.add",
			wantHeader: "calc.add(a, b)",
			wantBody:   "Adds two numbers.\n",
		},
		{
			name:       "signature spanning lines",
			obj:        &Object{Kind: KindMethod, Doc: "f(a,\n  b)\n\nBody."},
			fullName:   "m.f",
			wantHeader: "m.f(a, b)",
			wantBody:   "Body.\n",
		},
		{
			name:       "colon after signature",
			obj:        &Object{Kind: KindFunction, Doc: "g(x): returns x"},
			fullName:   "g",
			wantHeader: "g(x)",
			wantBody:   "returns x\n",
		},
		{
			name:       "nested parentheses",
			obj:        &Object{Kind: KindFunction, Doc: "h(a=(1, 2))\nBody"},
			fullName:   "h",
			wantHeader: "h(a=(1, 2))",
			wantBody:   "Body\n",
		},
		{
			name:       "function without signature",
			obj:        &Object{Kind: KindFunction, Doc: "Does stuff."},
			fullName:   "f",
			wantHeader: "f()",
			wantBody:   "Does stuff.\n",
		},
		{
			name:       "unbalanced signature",
			obj:        &Object{Kind: KindFunction, Doc: "f(a\n\nBody"},
			fullName:   "f",
			wantHeader: "f()",
			wantBody:   "f(a\n\nBody\n",
		},
		{
			name:       "property first line",
			obj:        &Object{Kind: KindProperty, Doc: "size int\nThe size."},
			fullName:   "Box.size",
			wantHeader: "Box.size int",
			wantBody:   "The size.\n",
		},
		{
			name:       "property without name",
			obj:        &Object{Kind: KindProperty, Doc: "The size."},
			fullName:   "Box.size",
			wantHeader: "Box.size",
			wantBody:   "The size.\n",
		},
		{
			name:       "class signature",
			obj:        &Object{Kind: KindClass, Doc: "Box(w, h)\n\nA box."},
			fullName:   "geo.Box",
			wantHeader: "geo.Box(w, h)",
			wantBody:   "A box.\n",
		},
		{
			name:       "class first line",
			obj:        &Object{Kind: KindClass, Doc: "Box holds things.\nMore."},
			fullName:   "Box",
			wantHeader: "Box holds things.",
			wantBody:   "More.\n",
		},
		{
			name:       "module",
			obj:        &Object{Kind: KindModule, Doc: "mod(x) is not a signature here."},
			fullName:   "pkg.mod",
			wantHeader: "pkg.mod",
			wantBody:   "mod(x) is not a signature here.\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header, body := Split(tt.obj, tt.fullName)
			assert.Equal(t, tt.wantHeader, header)
			assert.Equal(t, tt.wantBody, body)
		})
	}
}

func TestSplitCollapsesAllDoubleSpaces(t *testing.T) {
	doc := "f(a," + strings.Repeat(" ", 2048) + "b)\n\nBody."
	header, _ := Split(&Object{Kind: KindFunction, Doc: doc}, "f")
	assert.Equal(t, "f(a, b)", header)
}
