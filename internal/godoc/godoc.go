// Package godoc extracts Go doc comments of model types and their fields
// from the source code of the enclosing module.
package godoc

import (
	"go/ast"
	"go/doc/comment"
	"go/types"
	"maps"
	"reflect"
	"slices"

	"github.com/pkg/errors"
	"golang.org/x/tools/go/ast/astutil"
	"golang.org/x/tools/go/packages"

	"github.com/nieomylnieja/govyform/internal/fields"
	"github.com/nieomylnieja/govyform/internal/pathutils"
)

// Docs maps package qualified type names to their documentation.
type Docs map[string]Doc

func (d Docs) add(doc Doc) {
	d[doc.Key()] = doc
}

type Doc struct {
	Name    string
	Package string
	// Doc is the Markdown rendered doc comment.
	Doc string
	// StructFields are keyed by the field's data key.
	StructFields Docs
}

func (d Doc) Key() string {
	if d.Package == "" {
		return d.Name
	}
	return d.Package + "." + d.Name
}

// NewParser loads all packages of the module enclosing the working directory.
func NewParser() (*Parser, error) {
	root, err := pathutils.FindModuleRoot()
	if err != nil {
		return nil, err
	}
	return NewParserFrom(root)
}

// NewParserFrom loads all packages under the module root directory.
func NewParserFrom(root string) (*Parser, error) {
	conf := &packages.Config{
		Dir: root,
		Mode: packages.NeedName |
			packages.NeedFiles |
			packages.NeedCompiledGoFiles |
			packages.NeedImports |
			packages.NeedDeps |
			packages.NeedTypes |
			packages.NeedSyntax |
			packages.NeedTypesInfo,
	}
	pkgs, err := packages.Load(conf, root+"/...")
	if err != nil {
		return nil, errors.Wrap(err, "failed to load packages")
	}
	if err = checkForPackageErrors(pkgs); err != nil {
		return nil, err
	}

	parser := &Parser{pkgs: make(map[string]*goPackage, len(pkgs))}
	parser.collectAllPackages(pkgs)
	return parser, nil
}

type Parser struct {
	pkgs map[string]*goPackage
}

type goPackage struct {
	pkg           *packages.Package
	commentParser *comment.Parser
}

// Parse documents goType and every named type reachable through its fields.
func (p *Parser) Parse(goType reflect.Type) (Docs, error) {
	m := make(Docs)
	if _, err := p.parse(goType, m); err != nil {
		return nil, err
	}
	if len(m) == 0 {
		return nil, errors.Errorf("no documentation found for type %s", goType)
	}
	return m, nil
}

func (p *Parser) parse(goType reflect.Type, docs Docs) (*Doc, error) {
	goType = namedType(goType)
	typeDoc := Doc{
		Name:    goType.Name(),
		Package: goType.PkgPath(),
	}
	if typeDoc.Package == "" {
		// Builtin type, no need to parse.
		return &typeDoc, nil
	}
	if parsed, ok := docs[typeDoc.Key()]; ok {
		return &parsed, nil
	}

	pkg := p.getPackageByPath(typeDoc.Package)
	if pkg == nil {
		return nil, errors.Errorf("could not find %s package for type %s", typeDoc.Package, typeDoc.Name)
	}
	if pkg.commentParser == nil {
		pkg.commentParser = p.newCommentParserForPackage(pkg.pkg)
	}

	decl, spec, err := p.findTypeDeclaration(pkg, typeDoc.Name)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to find %s declaration in %s pkg", typeDoc.Name, typeDoc.Package)
	}
	text := spec.Doc.Text()
	if text == "" {
		text = decl.Doc.Text()
	}
	typeDoc.Doc = p.docCommentToMarkdown(pkg.commentParser, pkg.pkg.PkgPath, text)
	if goType.Kind() != reflect.Struct {
		docs.add(typeDoc)
		return &typeDoc, nil
	}

	structType, ok := spec.Type.(*ast.StructType)
	if !ok {
		return nil, errors.Errorf("failed to parse %s struct type, expected ast.StructType", typeDoc.Name)
	}
	// Registered before descending so that self-referencing types terminate.
	docs.add(typeDoc)
	typeDoc.StructFields = make(Docs, goType.NumField())
	index := 0
	for _, astField := range structType.Fields.List {
		// Embedded fields have no names but still occupy a single index.
		count := max(len(astField.Names), 1)
		for range count {
			goTypeField := goType.Field(index)
			index++
			fieldDoc, err := p.parse(goTypeField.Type, docs)
			if err != nil {
				return nil, errors.Wrapf(err, "failed to parse %s struct field %s", typeDoc.Name, goTypeField.Name)
			}
			key := fields.Key(goTypeField)
			if key == "" || goTypeField.Anonymous {
				continue
			}
			fieldDoc.Doc = p.docCommentToMarkdown(pkg.commentParser, pkg.pkg.PkgPath, astField.Doc.Text())
			fieldDoc.StructFields = nil
			typeDoc.StructFields[key] = *fieldDoc
		}
	}
	docs.add(typeDoc)
	return &typeDoc, nil
}

// TypeKey returns the [Docs] key under which the documentation of typ,
// or its element type for pointers and collections, is stored.
func TypeKey(typ reflect.Type) string {
	typ = namedType(typ)
	return Doc{Name: typ.Name(), Package: typ.PkgPath()}.Key()
}

// namedType strips pointers, slices and maps down to the element type.
func namedType(goType reflect.Type) reflect.Type {
	for goType.Name() == "" {
		switch goType.Kind() {
		case reflect.Pointer, reflect.Slice, reflect.Array, reflect.Map:
			goType = goType.Elem()
		default:
			return goType
		}
	}
	return goType
}

// findTypeDeclaration finds the declaration and spec of the type specified by name.
func (p *Parser) findTypeDeclaration(pkg *goPackage, name string) (*ast.GenDecl, *ast.TypeSpec, error) {
	obj := pkg.pkg.Types.Scope().Lookup(name)
	if obj == nil {
		return nil, nil, errors.Errorf("%s.%s not found", pkg.pkg.Types.Path(), name)
	}
	pos := obj.Pos()
	for _, file := range pkg.pkg.Syntax {
		if file.FileStart > pos || pos >= file.FileEnd {
			continue
		}
		path, _ := astutil.PathEnclosingInterval(file, pos, pos)
		var spec *ast.TypeSpec
		for _, n := range path {
			switch n := n.(type) {
			case *ast.TypeSpec:
				spec = n
			case *ast.GenDecl:
				if spec != nil {
					return n, spec, nil
				}
			}
		}
	}
	return nil, nil, errors.Errorf("could not find %s.%s declaration", pkg.pkg.Name, name)
}

const docLinkBaseURL = "https://pkg.go.dev"

func (p *Parser) docCommentToMarkdown(parser *comment.Parser, pkg, text string) string {
	if text == "" {
		return ""
	}
	typeDoc := parser.Parse(text)
	printer := comment.Printer{
		DocLinkURL: func(link *comment.DocLink) string {
			if link.ImportPath == "" {
				link.ImportPath = pkg
			}
			return link.DefaultURL(docLinkBaseURL)
		},
	}
	return string(printer.Markdown(typeDoc))
}

func (p *Parser) newCommentParserForPackage(currentPackage *packages.Package) *comment.Parser {
	return &comment.Parser{
		LookupPackage: func(name string) (importPath string, ok bool) {
			for _, pkg := range p.pkgs {
				if pkg.pkg.Name == name {
					return pkg.pkg.PkgPath, true
				}
			}
			return "", false
		},
		LookupSym: func(recv, name string) (ok bool) {
			if recv == "" {
				return currentPackage.Types.Scope().Lookup(name) != nil
			}
			obj := currentPackage.Types.Scope().Lookup(recv)
			if obj == nil {
				return false
			}
			u, isStruct := obj.Type().Underlying().(*types.Struct)
			if !isStruct {
				return false
			}
			for field := range u.Fields() {
				if field.Name() == name {
					return true
				}
			}
			return false
		},
	}
}

func (p *Parser) getPackageByPath(pkgPath string) *goPackage {
	return p.pkgs[pkgPath]
}

// collectAllPackages recursively adds all packages and their imports to the parser's map.
func (p *Parser) collectAllPackages(pkgs []*packages.Package) {
	for _, pkg := range pkgs {
		if _, exists := p.pkgs[pkg.PkgPath]; exists {
			continue
		}
		p.pkgs[pkg.PkgPath] = &goPackage{pkg: pkg}
		if len(pkg.Imports) > 0 {
			p.collectAllPackages(slices.Collect(maps.Values(pkg.Imports)))
		}
	}
}

func checkForPackageErrors(pkgs []*packages.Package) (err error) {
	packages.Visit(pkgs, func(pkg *packages.Package) bool {
		for _, err = range pkg.Errors {
			err = errors.Wrapf(err, "package %s has reported an error", pkg.PkgPath)
			return false
		}
		mod := pkg.Module
		if mod != nil && mod.Error != nil {
			err = errors.New(mod.Error.Err)
			return false
		}
		return true
	}, nil)
	return err
}
