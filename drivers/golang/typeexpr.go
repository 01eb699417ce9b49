package golang

import (
	"go/ast"
	"strconv"
	"strings"
)

var builtinTypes = map[string]bool{
	"any": true, "bool": true, "byte": true, "comparable": true,
	"complex64": true, "complex128": true, "error": true,
	"float32": true, "float64": true,
	"int": true, "int8": true, "int16": true, "int32": true, "int64": true,
	"rune": true, "string": true,
	"uint": true, "uint8": true, "uint16": true, "uint32": true, "uint64": true, "uintptr": true,
}

// typeRenderer turns type expressions of one file into qualified names.
// References to packages of the same module are written relative to the
// module root and suffixed with ", <module>" so they normalize to the
// same text regardless of the snapshot they came from.
type typeRenderer struct {
	module     string
	relPkg     string
	imports    map[string]string // local name -> import path
	typeParams map[string]bool
}

func newTypeRenderer(module, relPkg string, file *ast.File) *typeRenderer {
	r := &typeRenderer{
		module:  module,
		relPkg:  relPkg,
		imports: make(map[string]string),
	}
	for _, imp := range file.Imports {
		path, err := strconv.Unquote(imp.Path.Value)
		if err != nil {
			continue
		}
		name := importName(path)
		if imp.Name != nil {
			name = imp.Name.Name
		}
		if name == "_" || name == "." {
			continue
		}
		r.imports[name] = path
	}
	return r
}

// withTypeParams returns a copy of r that treats the given identifiers as
// type parameters instead of package-level types.
func (r *typeRenderer) withTypeParams(lists ...*ast.FieldList) *typeRenderer {
	cp := *r
	cp.typeParams = make(map[string]bool, len(r.typeParams))
	for name := range r.typeParams {
		cp.typeParams[name] = true
	}
	for _, list := range lists {
		if list == nil {
			continue
		}
		for _, field := range list.List {
			for _, name := range field.Names {
				cp.typeParams[name.Name] = true
			}
		}
	}
	return &cp
}

// withReceiverParams registers the type parameters bound by a generic
// receiver such as (l *List[T]).
func (r *typeRenderer) withReceiverParams(recv *ast.FieldList) *typeRenderer {
	if recv == nil || len(recv.List) == 0 {
		return r
	}
	expr := recv.List[0].Type
	if star, ok := expr.(*ast.StarExpr); ok {
		expr = star.X
	}
	var idents []ast.Expr
	switch e := expr.(type) {
	case *ast.IndexExpr:
		idents = []ast.Expr{e.Index}
	case *ast.IndexListExpr:
		idents = e.Indices
	default:
		return r
	}
	list := &ast.FieldList{}
	for _, id := range idents {
		if ident, ok := id.(*ast.Ident); ok {
			list.List = append(list.List, &ast.Field{Names: []*ast.Ident{ident}})
		}
	}
	return r.withTypeParams(list)
}

// typeName renders expr and appends the module qualifier when the
// expression mentions a type declared in this module.
func (r *typeRenderer) typeName(expr ast.Expr) string {
	s, local := r.render(expr)
	return r.qualify(s, local)
}

func (r *typeRenderer) qualify(s string, local bool) string {
	if local {
		return s + ", " + r.module
	}
	return s
}

// localName writes a module-local type name relative to the module root.
func (r *typeRenderer) localName(rel, name string) string {
	if rel == "" {
		return name
	}
	return rel + "." + name
}

func (r *typeRenderer) render(expr ast.Expr) (string, bool) {
	if expr == nil {
		return "", false
	}

	switch e := expr.(type) {
	case *ast.Ident:
		if builtinTypes[e.Name] || r.typeParams[e.Name] {
			return e.Name, false
		}
		return r.localName(r.relPkg, e.Name), true

	case *ast.SelectorExpr:
		pkg, ok := e.X.(*ast.Ident)
		if !ok {
			s, local := r.render(e.X)
			return s + "." + e.Sel.Name, local
		}
		path, ok := r.imports[pkg.Name]
		if !ok {
			return pkg.Name + "." + e.Sel.Name, false
		}
		if path == r.module {
			return e.Sel.Name, true
		}
		if rel, found := strings.CutPrefix(path, r.module+"/"); found {
			return r.localName(rel, e.Sel.Name), true
		}
		return path + "." + e.Sel.Name, false

	case *ast.StarExpr:
		s, local := r.render(e.X)
		return "*" + s, local

	case *ast.ArrayType:
		elt, local := r.render(e.Elt)
		if e.Len == nil {
			return "[]" + elt, local
		}
		n, nLocal := r.render(e.Len)
		return "[" + n + "]" + elt, local || nLocal

	case *ast.MapType:
		k, kLocal := r.render(e.Key)
		v, vLocal := r.render(e.Value)
		return "map[" + k + "]" + v, kLocal || vLocal

	case *ast.ChanType:
		v, local := r.render(e.Value)
		switch e.Dir {
		case ast.RECV:
			return "<-chan " + v, local
		case ast.SEND:
			return "chan<- " + v, local
		default:
			return "chan " + v, local
		}

	case *ast.Ellipsis:
		s, local := r.render(e.Elt)
		return "..." + s, local

	case *ast.FuncType:
		params, pLocal := r.renderList(e.Params)
		results, rLocal := r.renderList(e.Results)
		s := "func(" + strings.Join(params, ", ") + ")"
		switch len(results) {
		case 0:
		case 1:
			s += " " + results[0]
		default:
			s += " (" + strings.Join(results, ", ") + ")"
		}
		return s, pLocal || rLocal

	case *ast.InterfaceType:
		if e.Methods == nil || len(e.Methods.List) == 0 {
			return "interface{}", false
		}
		return "interface{...}", false

	case *ast.StructType:
		if e.Fields == nil || len(e.Fields.List) == 0 {
			return "struct{}", false
		}
		return "struct{...}", false

	case *ast.IndexExpr:
		x, xLocal := r.render(e.X)
		idx, iLocal := r.render(e.Index)
		return x + "[" + idx + "]", xLocal || iLocal

	case *ast.IndexListExpr:
		x, local := r.render(e.X)
		indices := make([]string, len(e.Indices))
		for i, idx := range e.Indices {
			s, l := r.render(idx)
			indices[i] = s
			local = local || l
		}
		return x + "[" + strings.Join(indices, ", ") + "]", local

	case *ast.ParenExpr:
		s, local := r.render(e.X)
		return "(" + s + ")", local

	case *ast.BasicLit:
		return e.Value, false

	case *ast.UnaryExpr:
		s, local := r.render(e.X)
		return e.Op.String() + s, local

	case *ast.BinaryExpr:
		x, xLocal := r.render(e.X)
		y, yLocal := r.render(e.Y)
		return x + " " + e.Op.String() + " " + y, xLocal || yLocal

	default:
		return "unknown", false
	}
}

// renderList renders one entry per declared name in a parameter or result list.
func (r *typeRenderer) renderList(list *ast.FieldList) ([]string, bool) {
	if list == nil {
		return nil, false
	}
	var out []string
	local := false
	for _, field := range list.List {
		s, l := r.render(field.Type)
		local = local || l
		n := max(len(field.Names), 1)
		for range n {
			out = append(out, s)
		}
	}
	return out, local
}

// importName guesses the package name of an import path: the last path
// element, skipping a major-version suffix such as /v2 and trimming
// gopkg.in style .vN suffixes and dashes.
func importName(path string) string {
	parts := strings.Split(path, "/")
	name := parts[len(parts)-1]
	if len(parts) > 1 && isMajorVersion(name) {
		name = parts[len(parts)-2]
	}
	if i := strings.Index(name, ".v"); i > 0 && isDigits(name[i+2:]) {
		name = name[:i]
	}
	name = strings.TrimPrefix(name, "go-")
	name = strings.TrimSuffix(name, "-go")
	return strings.ReplaceAll(name, "-", "")
}

func isMajorVersion(s string) bool {
	return len(s) > 1 && s[0] == 'v' && isDigits(s[1:])
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
