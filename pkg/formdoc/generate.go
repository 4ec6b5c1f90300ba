package formdoc

import (
	"github.com/nobl9/govy/pkg/govy"
	"github.com/pkg/errors"

	"github.com/nieomylnieja/govyform/internal/godoc"
	"github.com/nieomylnieja/govyform/pkg/form"
)

// generateOptions contains options for configuring the behavior of the [Generate] function.
type generateOptions struct {
	govyPlanOptions []govy.PlanOption
	filterPaths     []string
	sourceDocs      bool
}

type GenerateOption func(options generateOptions) generateOptions

// GenerateGovyOptions allows you to provide [govy.PlanOption] to the internally called [govy.Plan].
func GenerateGovyOptions(govyOptions ...govy.PlanOption) GenerateOption {
	return func(options generateOptions) generateOptions {
		options.govyPlanOptions = append(options.govyPlanOptions, govyOptions...)
		return options
	}
}

// WithFilteredPaths specifies property paths that should be excluded from the generated documentation.
// Paths use JSONPath notation (e.g., "$.address", "$.contacts[*].email").
func WithFilteredPaths(paths ...string) GenerateOption {
	return func(options generateOptions) generateOptions {
		options.filterPaths = append(options.filterPaths, paths...)
		return options
	}
}

// WithSourceDocs enriches the documentation with doc comments of the model types.
// The source code of the module enclosing the working directory is loaded for that,
// so model types must be declared in it or in one of its dependencies.
func WithSourceDocs() GenerateOption {
	return func(options generateOptions) generateOptions {
		options.sourceDocs = true
		return options
	}
}

// Generate documents the fields of the projection p and of all its nested projections.
func Generate[T any](p *form.Projection[T], opts ...GenerateOption) (ObjectDoc, error) {
	options := generateOptions{}
	for _, opt := range opts {
		options = opt(options)
	}

	mapper := newObjectMapper()
	mapper.Properties = append(mapper.Properties, newPropertyDoc("$", p.ModelType()))
	mapper.Map(p, "$")
	objectDoc := generateObjectDoc(mapper)
	objectDoc.Name = p.Name()

	for _, node := range mapper.Nodes {
		plan, err := node.projection.Plan(options.govyPlanOptions...)
		if err != nil {
			return ObjectDoc{}, errors.Wrapf(err, "failed to generate validation plan for %s", node.path)
		}
		objectDoc.extendWithValidationPlan(node.path, plan)
	}

	if options.sourceDocs {
		goDocParser, err := godoc.NewParser()
		if err != nil {
			return ObjectDoc{}, err
		}
		goDoc, err := goDocParser.Parse(p.ModelType())
		if err != nil {
			return ObjectDoc{}, err
		}
		mergeDocs(&objectDoc, goDoc)
	}
	return postProcessProperties(objectDoc, options.filterPaths,
		removeEnumDeclaration,
		extractDeprecatedInformation,
		removeTrailingWhitespace,
	), nil
}

func mergeDocs(objectDoc *ObjectDoc, goDocs godoc.Docs) {
	if root, found := goDocs[objectDoc.Properties[0].typeKey]; found {
		objectDoc.Doc = root.Doc
	}
	for i, property := range objectDoc.Properties {
		// Builtin types are not documented.
		if property.TypeInfo.Package != "" {
			if goDoc, found := goDocs[property.typeKey]; found {
				property.TypeDoc = goDoc.Doc
			}
		}
		if owner, found := goDocs[property.ownerKey]; found {
			property.FieldDoc = owner.StructFields[property.fieldKey].Doc
		}
		objectDoc.Properties[i] = property
	}
}
