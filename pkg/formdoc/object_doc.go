package formdoc

import (
	"strings"

	"github.com/nobl9/govy/pkg/govy"
)

// ObjectDoc documents a form projection and all of its nested projections.
type ObjectDoc struct {
	Name       string        `json:"name"`
	Properties []PropertyDoc `json:"properties"`
	Doc        string        `json:"doc,omitempty"`
}

// PropertyDoc documents a single form field or the element of a nested form collection.
type PropertyDoc struct {
	govy.PropertyPlan
	// Label is the human readable name of the field.
	Label string `json:"label,omitempty"`
	// Kind is the form field kind, empty for collection elements.
	Kind string `json:"kind,omitempty"`
	// Validators lists descriptions of the field's validators.
	Validators []string `json:"validators,omitempty"`
	// TypeDoc holds the documentation for the given type.
	// For instance, if property is an object of type X,
	// the TypeDoc will contain the X's documentation.
	TypeDoc string `json:"typeDoc,omitempty"`
	// FieldDoc holds the inline documentation which was provided on the struct field level.
	FieldDoc string `json:"fieldDoc,omitempty"`
	// DeprecatedDoc holds property's "Deprecated:" comment contents.
	DeprecatedDoc string   `json:"deprecatedDoc,omitempty"`
	ChildrenPaths []string `json:"childrenPaths,omitempty"`

	typeKey  string
	ownerKey string
	fieldKey string
}

// Property returns the property documented under path.
func (o ObjectDoc) Property(path string) (PropertyDoc, bool) {
	for _, p := range o.Properties {
		if p.Path == path {
			return p, true
		}
	}
	return PropertyDoc{}, false
}

func generateObjectDoc(mapper *objectMapper) ObjectDoc {
	objectDoc := ObjectDoc{
		Properties: mapper.Properties,
	}
	// The object mapper returns a flat list of properties.
	for i, property := range objectDoc.Properties {
		property.ChildrenPaths = findPropertyChildrenPaths(property.Path, objectDoc.Properties)
		objectDoc.Properties[i] = property
	}
	return objectDoc
}

// findPropertyChildrenPaths returns paths of the immediate children of parent.
// Elements of nested form lists ("[*]") count as children too.
func findPropertyChildrenPaths(parent string, properties []PropertyDoc) []string {
	var childrenPaths []string
	for _, property := range properties {
		if property.Path == parent+"[*]" {
			childrenPaths = append(childrenPaths, property.Path)
			continue
		}
		childRelativePath, found := strings.CutPrefix(property.Path, parent+".")
		if !found {
			continue
		}
		// Not an immediate child.
		if strings.ContainsAny(childRelativePath, ".[") {
			continue
		}
		childrenPaths = append(childrenPaths, property.Path)
	}
	return childrenPaths
}

// extendWithValidationPlan merges the rule plans of the projection rooted at path.
// Plan paths are relative to the projection's model, so they are rebased onto path.
func (o *ObjectDoc) extendWithValidationPlan(path string, plan *govy.ValidatorPlan) {
	for _, propPlan := range plan.Properties {
		planPath := path + strings.TrimPrefix(propPlan.Path, "$")
		for i, propDoc := range o.Properties {
			if planPath != propDoc.Path {
				continue
			}
			rebased := *propPlan
			rebased.Path = propDoc.Path
			rebased.TypeInfo = propDoc.TypeInfo
			o.Properties[i].PropertyPlan = rebased
			break
		}
	}
}
