package formdoc

import (
	"reflect"

	"github.com/nobl9/govy/pkg/govy"

	"github.com/nieomylnieja/govyform/internal/godoc"
	"github.com/nieomylnieja/govyform/internal/typeinfo"
	"github.com/nieomylnieja/govyform/pkg/form"
)

func newObjectMapper() *objectMapper {
	return &objectMapper{}
}

// objectMapper flattens a projection tree into a list of properties.
type objectMapper struct {
	Properties []PropertyDoc
	// Nodes are the projections found in the tree, keyed by their path.
	Nodes []projectionNode
}

type projectionNode struct {
	path       string
	projection form.Projector
}

// Map adds the properties of the projection p rooted at path.
func (o *objectMapper) Map(p form.Projector, path string) {
	o.Nodes = append(o.Nodes, projectionNode{path: path, projection: p})
	typ := p.ModelType()
	for _, d := range p.Fields() {
		fieldPath := path + "." + d.Key
		doc := newPropertyDoc(fieldPath, d.Type)
		doc.Label = d.Label
		doc.Kind = d.Kind.String()
		doc.Validators = d.Validators
		doc.ownerKey = godoc.TypeKey(typ)
		doc.fieldKey = d.Key
		o.Properties = append(o.Properties, doc)

		switch d.Kind {
		case form.KindForm:
			o.Map(d.Child, fieldPath)
		case form.KindFormArray:
			o.mapElement(d.Child, fieldPath+"[*]")
		case form.KindFormMap:
			o.mapElement(d.Child, fieldPath+".*")
		default:
		}
	}
}

func (o *objectMapper) mapElement(p form.Projector, path string) {
	o.Properties = append(o.Properties, newPropertyDoc(path, p.ModelType()))
	o.Map(p, path)
}

func newPropertyDoc(path string, typ reflect.Type) PropertyDoc {
	doc := PropertyDoc{typeKey: godoc.TypeKey(typ)}
	doc.Path = path
	doc.TypeInfo = govy.TypeInfo(typeinfo.Get(typ))
	return doc
}
