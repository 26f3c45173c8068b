package namespace

import (
	"bytes"
	"context"
	"fmt"
	"go/ast"
	"go/doc"
	"go/format"
	"go/token"
	"sort"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/agentflare-ai/insertdocs/internal/insertdocs"
)

const loadMode = packages.NeedName | packages.NeedCompiledGoFiles | packages.NeedFiles |
	packages.NeedSyntax | packages.NeedTypes | packages.NeedTypesInfo |
	packages.NeedTypesSizes | packages.NeedModule | packages.NeedImports

// GoPackages resolves names from Go source. Names are rooted at the package
// name: "pkg" is the package (a module), "pkg.Type" a type (a class, with
// embedded types as bases), "pkg.Func" a function, "pkg.Type.Method" a
// method and "pkg.Type.Field" a documented struct field (a property).
//
// Each object's doc starts with a synthesized signature line so headers
// read "Func(params)" and "Field type".
type GoPackages struct {
	entries   map[string]func() *insertdocs.Object
	packages  []string
	conflicts []string
}

// LoadGoPackages loads the packages matching patterns. When two packages
// share a name the first one loaded keeps it.
func LoadGoPackages(ctx context.Context, patterns ...string) (*GoPackages, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := &packages.Config{Context: ctx, Mode: loadMode}
	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, err
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no Go packages matched %q", strings.Join(patterns, " "))
	}
	sort.Slice(pkgs, func(i, j int) bool {
		return pkgs[i].PkgPath < pkgs[j].PkgPath
	})
	g := &GoPackages{entries: map[string]func() *insertdocs.Object{}}
	for _, pkg := range pkgs {
		if len(pkg.Errors) > 0 {
			return nil, fmt.Errorf("%s", pkg.Errors[0])
		}
		docPkg, err := doc.NewFromFiles(pkg.Fset, pkg.Syntax, pkg.PkgPath)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", pkg.PkgPath, err)
		}
		if _, taken := g.entries[docPkg.Name]; taken {
			g.conflicts = append(g.conflicts, pkg.PkgPath)
			continue
		}
		g.packages = append(g.packages, docPkg.Name)
		g.index(&goPackage{fset: pkg.Fset, pkg: docPkg})
	}
	return g, nil
}

// Packages returns the names of the indexed packages.
func (g *GoPackages) Packages() []string {
	return g.packages
}

// Conflicts returns the import paths skipped because their package name
// was already taken.
func (g *GoPackages) Conflicts() []string {
	return g.conflicts
}

func (g *GoPackages) Lookup(name string) (*insertdocs.Object, error) {
	build, ok := g.entries[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, insertdocs.ErrUnknownName)
	}
	return build(), nil
}

func (g *GoPackages) index(p *goPackage) {
	root := p.pkg.Name
	g.entries[root] = p.module
	for _, f := range p.pkg.Funcs {
		f := f
		g.entries[root+"."+f.Name] = func() *insertdocs.Object { return p.function(f, insertdocs.KindFunction) }
	}
	for _, t := range p.pkg.Types {
		t := t
		full := root + "." + t.Name
		g.entries[full] = func() *insertdocs.Object { return p.class(t, map[string]*insertdocs.Object{}) }
		for _, f := range t.Funcs {
			f := f
			g.entries[root+"."+f.Name] = func() *insertdocs.Object { return p.function(f, insertdocs.KindFunction) }
		}
		for _, m := range t.Methods {
			m := m
			g.entries[full+"."+m.Name] = func() *insertdocs.Object { return p.function(m, insertdocs.KindMethod) }
		}
		for _, field := range p.fields(t) {
			field := field
			g.entries[full+"."+field.Name] = func() *insertdocs.Object { return field.Object }
		}
	}
}

type goPackage struct {
	fset *token.FileSet
	pkg  *doc.Package
}

func (p *goPackage) module() *insertdocs.Object {
	obj := &insertdocs.Object{Kind: insertdocs.KindModule, Name: p.pkg.Name, Doc: p.pkg.Doc}
	for _, f := range p.pkg.Funcs {
		obj.Members = append(obj.Members, insertdocs.Member{Name: f.Name, Object: p.function(f, insertdocs.KindFunction)})
	}
	for _, t := range p.pkg.Types {
		for _, f := range t.Funcs {
			obj.Members = append(obj.Members, insertdocs.Member{Name: f.Name, Object: p.function(f, insertdocs.KindFunction)})
		}
		obj.Members = append(obj.Members, insertdocs.Member{Name: t.Name, Object: p.class(t, map[string]*insertdocs.Object{})})
	}
	return obj
}

func (p *goPackage) function(f *doc.Func, kind insertdocs.Kind) *insertdocs.Object {
	return &insertdocs.Object{
		Kind: kind,
		Name: f.Name,
		Doc:  withSignature(f.Name+p.params(f.Decl), f.Doc),
	}
}

// class builds the object for t. built holds the types already under
// construction, so embedding cycles end.
func (p *goPackage) class(t *doc.Type, built map[string]*insertdocs.Object) *insertdocs.Object {
	if obj, ok := built[t.Name]; ok {
		return obj
	}
	spec := findTypeSpec(t.Decl, t.Name)
	obj := &insertdocs.Object{Kind: insertdocs.KindClass, Name: t.Name}
	built[t.Name] = obj
	obj.Doc = withSignature(t.Name+"("+p.typeSummary(spec)+")", t.Doc)
	for _, base := range embeddedTypes(spec) {
		if bt := p.lookupType(base); bt != nil {
			obj.Bases = append(obj.Bases, p.class(bt, built))
			continue
		}
		obj.Bases = append(obj.Bases, &insertdocs.Object{Kind: insertdocs.KindClass, Name: base})
	}
	for _, m := range t.Methods {
		obj.Members = append(obj.Members, insertdocs.Member{Name: m.Name, Object: p.function(m, insertdocs.KindMethod)})
	}
	obj.Members = append(obj.Members, p.fields(t)...)
	return obj
}

// fields returns the exported named struct fields of t as properties.
func (p *goPackage) fields(t *doc.Type) []insertdocs.Member {
	spec := findTypeSpec(t.Decl, t.Name)
	if spec == nil {
		return nil
	}
	st, ok := spec.Type.(*ast.StructType)
	if !ok || st.Fields == nil {
		return nil
	}
	var members []insertdocs.Member
	for _, field := range st.Fields.List {
		docText := ""
		if field.Doc != nil {
			docText = field.Doc.Text()
		} else if field.Comment != nil {
			docText = field.Comment.Text()
		}
		typ := p.formatNode(field.Type)
		for _, name := range field.Names {
			if !name.IsExported() {
				continue
			}
			obj := &insertdocs.Object{Kind: insertdocs.KindProperty, Name: name.Name}
			if strings.TrimSpace(docText) != "" {
				obj.Doc = name.Name + " " + typ + "\n" + docText
			}
			members = append(members, insertdocs.Member{Name: name.Name, Object: obj})
		}
	}
	return members
}

func (p *goPackage) lookupType(name string) *doc.Type {
	for _, t := range p.pkg.Types {
		if t.Name == name {
			return t
		}
	}
	return nil
}

// typeSummary describes a type for its header: exported struct fields, or
// the underlying type.
func (p *goPackage) typeSummary(spec *ast.TypeSpec) string {
	if spec == nil {
		return ""
	}
	switch typ := spec.Type.(type) {
	case *ast.StructType:
		var parts []string
		for _, field := range typ.Fields.List {
			fieldType := p.formatNode(field.Type)
			for _, name := range field.Names {
				if name.IsExported() {
					parts = append(parts, name.Name+" "+fieldType)
				}
			}
		}
		return strings.Join(parts, ", ")
	case *ast.InterfaceType:
		return "interface"
	case *ast.FuncType:
		return "func"
	default:
		return p.formatNode(typ)
	}
}

// params formats the parameter list of decl, including the parentheses.
func (p *goPackage) params(decl *ast.FuncDecl) string {
	if decl == nil || decl.Type == nil {
		return "()"
	}
	sig := p.formatNode(decl.Type)
	start := strings.Index(sig, "(")
	if start < 0 {
		return "()"
	}
	level := 0
	for i := start; i < len(sig); i++ {
		switch sig[i] {
		case '(':
			level++
		case ')':
			level--
			if level == 0 {
				return sig[start : i+1]
			}
		}
	}
	return "()"
}

func (p *goPackage) formatNode(node ast.Node) string {
	if node == nil {
		return ""
	}
	var buf bytes.Buffer
	if err := format.Node(&buf, p.fset, node); err != nil {
		return ""
	}
	return strings.TrimSpace(buf.String())
}

func withSignature(signature, docText string) string {
	if strings.TrimSpace(docText) == "" {
		return ""
	}
	return signature + "\n\n" + docText
}

func findTypeSpec(decl *ast.GenDecl, name string) *ast.TypeSpec {
	if decl == nil {
		return nil
	}
	for _, spec := range decl.Specs {
		ts, ok := spec.(*ast.TypeSpec)
		if !ok {
			continue
		}
		if ts.Name != nil && ts.Name.Name == name {
			return ts
		}
	}
	return nil
}

// embeddedTypes returns the names of the types embedded in a struct.
func embeddedTypes(spec *ast.TypeSpec) []string {
	if spec == nil {
		return nil
	}
	st, ok := spec.Type.(*ast.StructType)
	if !ok || st.Fields == nil {
		return nil
	}
	var names []string
	for _, field := range st.Fields.List {
		if len(field.Names) > 0 {
			continue
		}
		if name := typeName(field.Type); name != "" {
			names = append(names, name)
		}
	}
	return names
}

func typeName(expr ast.Expr) string {
	switch e := expr.(type) {
	case *ast.Ident:
		return e.Name
	case *ast.StarExpr:
		return typeName(e.X)
	case *ast.SelectorExpr:
		return e.Sel.Name
	case *ast.IndexExpr:
		return typeName(e.X)
	case *ast.IndexListExpr:
		return typeName(e.X)
	default:
		return ""
	}
}
