package formdoc

import (
	"strings"

	js "github.com/invopop/jsonschema"

	"github.com/nieomylnieja/govyform/pkg/form"
)

// Schema returns the JSON Schema of the projection's model.
// Declared fields are titled with their labels and described with their validators,
// nested projections are applied to the nested object, array item and map value schemas.
func Schema(p form.Projector) *js.Schema {
	r := &js.Reflector{DoNotReference: true, ExpandedStruct: true}
	schema := r.ReflectFromType(p.ModelType())
	schema.Title = p.Name()
	annotate(schema, p)
	return schema
}

func annotate(schema *js.Schema, p form.Projector) {
	if schema == nil || schema.Properties == nil {
		return
	}
	for _, d := range p.Fields() {
		prop, ok := schema.Properties.Get(d.Key)
		if !ok || prop == nil {
			continue
		}
		prop.Title = d.Label
		if len(d.Validators) > 0 {
			prop.Description = strings.Join(d.Validators, ", then ")
		}
		switch d.Kind {
		case form.KindForm:
			annotate(prop, d.Child)
		case form.KindFormArray:
			annotate(prop.Items, d.Child)
		case form.KindFormMap:
			annotate(prop.AdditionalProperties, d.Child)
		default:
		}
	}
}
