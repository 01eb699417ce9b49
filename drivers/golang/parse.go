package golang

import (
	"context"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/emenda-labs/surfacediff/core/surface"
	"github.com/emenda-labs/surfacediff/pkg/gomod"
)

const (
	// PackageTypeName is the pseudo type holding package-level functions,
	// variables and constants.
	PackageTypeName = "package"

	untypedConst = "untyped"
	inferredVar  = "inferred"
	voidResult   = "void"
)

// surfaceBuilder accumulates descriptors while walking a module.
type surfaceBuilder struct {
	module   string
	types    map[string]*surface.TypeDescriptor
	declared map[string]bool
}

func newSurfaceBuilder(module string) *surfaceBuilder {
	return &surfaceBuilder{
		module:   module,
		types:    make(map[string]*surface.TypeDescriptor),
		declared: make(map[string]bool),
	}
}

// typeKey is the snapshot key for a type declared in the package at rel.
func typeKey(rel, name string) string {
	if rel == "" {
		return name
	}
	return rel + "." + name
}

// descriptor returns the descriptor stored under key, creating it on first use.
// Methods may be seen before their receiver's declaration.
func (b *surfaceBuilder) descriptor(key string) *surface.TypeDescriptor {
	td, ok := b.types[key]
	if !ok {
		td = &surface.TypeDescriptor{Name: key}
		b.types[key] = td
	}
	return td
}

func (b *surfaceBuilder) snapshot(origin string) *surface.Snapshot {
	snap := surface.NewSnapshot(origin)
	snap.Markers = []string{", " + b.module}
	for key, td := range b.types {
		if b.declared[key] {
			td.Fields = uniqueSorted(td.Fields, func(f surface.FieldDescriptor) string { return f.Name })
			td.Methods = uniqueSorted(td.Methods, func(m surface.MethodDescriptor) string { return m.Name })
			snap.Types[key] = td
		}
	}
	return snap
}

// uniqueSorted orders members by name and keeps the first of each name.
// Go has no overloading, so a repeated name comes from build-constrained
// files declaring the same identifier.
func uniqueSorted[T any](items []T, nameOf func(T) string) []T {
	if len(items) == 0 {
		return items
	}
	sort.SliceStable(items, func(i, j int) bool { return nameOf(items[i]) < nameOf(items[j]) })
	out := items[:1]
	for _, it := range items[1:] {
		if nameOf(it) != nameOf(out[len(out)-1]) {
			out = append(out, it)
		}
	}
	return out
}

// ParseSurface walks the Go module source at rootDir and collects the
// exported API surface of every public package. Any file that fails to
// parse aborts the walk.
func ParseSurface(ctx context.Context, rootDir, origin string, log *slog.Logger) (*surface.Snapshot, error) {
	sourceRoot, err := FindSourceRoot(rootDir)
	if err != nil {
		return nil, fmt.Errorf("finding source root in %s: %w", rootDir, err)
	}
	module, err := gomod.FindModulePath(sourceRoot)
	if err != nil {
		return nil, fmt.Errorf("reading module path in %s: %w", sourceRoot, err)
	}

	fset := token.NewFileSet()
	b := newSurfaceBuilder(module)
	files := 0

	walkErr := filepath.WalkDir(sourceRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		// Skip symlinks to prevent symlink-based path escapes.
		if d.Type()&os.ModeSymlink != 0 {
			return nil
		}

		if d.IsDir() {
			if path == sourceRoot {
				return nil
			}
			base := d.Name()
			if base == "internal" || base == "testdata" || base == "vendor" ||
				strings.HasPrefix(base, "_") || strings.HasPrefix(base, ".") {
				log.Debug("skipping directory", "path", path)
				return fs.SkipDir
			}
			// Nested modules are separate surfaces.
			if hasGoMod(path) {
				log.Debug("skipping nested module", "path", path)
				return fs.SkipDir
			}
			return nil
		}

		if !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}

		file, parseErr := parser.ParseFile(fset, path, nil, parser.SkipObjectResolution)
		if parseErr != nil {
			return fmt.Errorf("parsing %s: %w", path, parseErr)
		}
		if file.Name.Name == "main" {
			return nil
		}

		rel := relativePackage(sourceRoot, path)
		b.collectFile(newTypeRenderer(module, rel, file), rel, file)
		files++
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("walking source at %s: %w", sourceRoot, walkErr)
	}

	snap := b.snapshot(origin)
	log.Debug("parsed go surface", "module", module, "files", files, "types", len(snap.Types))
	return snap, nil
}

func (b *surfaceBuilder) collectFile(r *typeRenderer, rel string, file *ast.File) {
	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			b.collectFunc(r, rel, d)
		case *ast.GenDecl:
			switch d.Tok {
			case token.TYPE:
				b.collectTypes(r, rel, d)
			case token.CONST:
				b.collectValues(r, rel, d, true)
			case token.VAR:
				b.collectValues(r, rel, d, false)
			}
		}
	}
}

// collectFunc records a package-level function as a static method of the
// package pseudo type, or a method as an instance method of its receiver.
// Methods on unexported receivers are skipped.
func (b *surfaceBuilder) collectFunc(r *typeRenderer, rel string, funcDecl *ast.FuncDecl) {
	if funcDecl.Name == nil || !funcDecl.Name.IsExported() {
		return
	}

	if funcDecl.Recv != nil {
		recvName := receiverTypeName(funcDecl.Recv)
		if recvName == "" || !ast.IsExported(recvName) {
			return
		}
		mr := r.withReceiverParams(funcDecl.Recv)
		td := b.descriptor(typeKey(rel, recvName))
		td.Methods = append(td.Methods, methodDescriptor(mr, funcDecl.Name.Name, funcDecl.Type, false))
		return
	}

	key := typeKey(rel, PackageTypeName)
	td := b.descriptor(key)
	b.declared[key] = true
	fr := r.withTypeParams(funcDecl.Type.TypeParams)
	td.Methods = append(td.Methods, methodDescriptor(fr, funcDecl.Name.Name, funcDecl.Type, true))
}

// collectTypes records exported type declarations with their exported
// struct fields and interface methods.
func (b *surfaceBuilder) collectTypes(r *typeRenderer, rel string, genDecl *ast.GenDecl) {
	for _, spec := range genDecl.Specs {
		typeSpec, ok := spec.(*ast.TypeSpec)
		if !ok || typeSpec.Name == nil || !typeSpec.Name.IsExported() {
			continue
		}

		key := typeKey(rel, typeSpec.Name.Name)
		td := b.descriptor(key)
		b.declared[key] = true
		tr := r.withTypeParams(typeSpec.TypeParams)

		// Aliases carry no members of their own.
		if typeSpec.Assign.IsValid() {
			continue
		}

		switch t := typeSpec.Type.(type) {
		case *ast.StructType:
			td.Fields = append(td.Fields, structFields(tr, t)...)
		case *ast.InterfaceType:
			td.Methods = append(td.Methods, interfaceMethods(tr, t)...)
		}
	}
}

func structFields(r *typeRenderer, structType *ast.StructType) []surface.FieldDescriptor {
	if structType.Fields == nil {
		return nil
	}
	var fields []surface.FieldDescriptor
	for _, field := range structType.Fields.List {
		typ := r.typeName(field.Type)
		if len(field.Names) == 0 {
			// Embedded field: named after its base type.
			embName := baseTypeName(field.Type)
			if embName == "" || !ast.IsExported(embName) {
				continue
			}
			fields = append(fields, surface.FieldDescriptor{Name: embName, Type: typ})
			continue
		}
		for _, name := range field.Names {
			if name.IsExported() {
				fields = append(fields, surface.FieldDescriptor{Name: name.Name, Type: typ})
			}
		}
	}
	return fields
}

// interfaceMethods returns the explicitly declared methods of an interface.
// Embedded interfaces and type-set terms are not expanded.
func interfaceMethods(r *typeRenderer, iface *ast.InterfaceType) []surface.MethodDescriptor {
	if iface.Methods == nil {
		return nil
	}
	var methods []surface.MethodDescriptor
	for _, m := range iface.Methods.List {
		funcType, ok := m.Type.(*ast.FuncType)
		if !ok {
			continue
		}
		for _, name := range m.Names {
			if name.IsExported() {
				methods = append(methods, methodDescriptor(r, name.Name, funcType, false))
			}
		}
	}
	return methods
}

// collectValues records exported package-level variables and constants as
// static fields of the package pseudo type. Constants without a type or
// value repeat the previous spec, as iota groups do.
func (b *surfaceBuilder) collectValues(r *typeRenderer, rel string, genDecl *ast.GenDecl, isConst bool) {
	prevType := untypedConst
	for _, spec := range genDecl.Specs {
		valSpec, ok := spec.(*ast.ValueSpec)
		if !ok {
			continue
		}

		var typ string
		switch {
		case valSpec.Type != nil:
			typ = r.typeName(valSpec.Type)
		case isConst && len(valSpec.Values) == 0:
			typ = prevType
		case isConst:
			typ = untypedConst
		default:
			typ = inferredVar
		}
		if isConst {
			prevType = typ
		}

		for _, name := range valSpec.Names {
			if !name.IsExported() {
				continue
			}
			key := typeKey(rel, PackageTypeName)
			td := b.descriptor(key)
			b.declared[key] = true
			td.Fields = append(td.Fields, surface.FieldDescriptor{Name: name.Name, Type: typ, Static: true})
		}
	}
}

// methodDescriptor converts a function type into a method descriptor.
// A variadic final parameter is optional.
func methodDescriptor(r *typeRenderer, name string, funcType *ast.FuncType, static bool) surface.MethodDescriptor {
	md := surface.MethodDescriptor{
		Name:       name,
		ReturnType: returnType(r, funcType.Results),
		Static:     static,
	}
	if funcType.Params == nil {
		return md
	}
	for _, field := range funcType.Params.List {
		_, variadic := field.Type.(*ast.Ellipsis)
		typ := r.typeName(field.Type)
		if len(field.Names) == 0 {
			md.Parameters = append(md.Parameters, surface.ParameterDescriptor{Type: typ, Optional: variadic})
			continue
		}
		for _, n := range field.Names {
			pname := n.Name
			if pname == "_" {
				pname = ""
			}
			md.Parameters = append(md.Parameters, surface.ParameterDescriptor{Name: pname, Type: typ, Optional: variadic})
		}
	}
	return md
}

// returnType renders a result list: "void" for none, the type for one and
// a parenthesized tuple otherwise.
func returnType(r *typeRenderer, results *ast.FieldList) string {
	types, local := r.renderList(results)
	switch len(types) {
	case 0:
		return voidResult
	case 1:
		return r.qualify(types[0], local)
	default:
		return r.qualify("("+strings.Join(types, ", ")+")", local)
	}
}

// relativePackage returns the slash-separated directory of filePath
// relative to the module root, or "" for the root package.
func relativePackage(sourceRoot, filePath string) string {
	relDir, err := filepath.Rel(sourceRoot, filepath.Dir(filePath))
	if err != nil || relDir == "." {
		return ""
	}
	return filepath.ToSlash(relDir)
}

// baseTypeName extracts the base type name from an AST expression,
// stripping pointers, type parameters (generics), and package selectors.
// Examples: *Client -> "Client", Foo[T] -> "Foo", *Bar[T, U] -> "Bar"
func baseTypeName(expr ast.Expr) string {
	if expr == nil {
		return ""
	}

	if star, ok := expr.(*ast.StarExpr); ok {
		expr = star.X
	}

	if idx, ok := expr.(*ast.IndexExpr); ok {
		expr = idx.X
	}
	if idx, ok := expr.(*ast.IndexListExpr); ok {
		expr = idx.X
	}

	switch e := expr.(type) {
	case *ast.Ident:
		return e.Name
	case *ast.SelectorExpr:
		return e.Sel.Name
	}
	return ""
}

// receiverTypeName extracts the base type name from a method receiver.
func receiverTypeName(recv *ast.FieldList) string {
	if recv == nil || len(recv.List) == 0 {
		return ""
	}
	return baseTypeName(recv.List[0].Type)
}

// FindSourceRoot walks from dir looking for go.mod to find the module source root.
// The Go proxy zip extracts to tmpDir/module@version/, so go.mod may be nested.
func FindSourceRoot(dir string) (string, error) {
	if hasGoMod(dir) {
		return dir, nil
	}

	var found string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}

		// Limit depth to 2 levels below the starting directory.
		rel, relErr := filepath.Rel(dir, path)
		if relErr != nil {
			return nil
		}
		if rel != "." && strings.Count(filepath.ToSlash(rel), "/") >= 2 {
			return fs.SkipDir
		}

		if hasGoMod(path) {
			found = path
			return filepath.SkipAll
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("searching for go.mod: %w", err)
	}

	if found == "" {
		return "", fmt.Errorf("no go.mod found under %s", dir)
	}
	return found, nil
}

// hasGoMod reports whether the directory contains a go.mod file.
func hasGoMod(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, "go.mod"))
	return err == nil && !info.IsDir()
}
