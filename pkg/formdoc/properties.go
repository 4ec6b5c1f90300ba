package formdoc

import (
	"regexp"
	"slices"
	"strings"
)

func postProcessProperties(doc ObjectDoc, filterPaths []string, formatters ...propertyPostProcessor) ObjectDoc {
	properties := make([]PropertyDoc, 0, len(doc.Properties))
	for _, property := range doc.Properties {
		if slices.Contains(filterPaths, property.Path) {
			continue
		}
		for _, formatter := range formatters {
			property = formatter(property)
		}
		property.ChildrenPaths = slices.DeleteFunc(property.ChildrenPaths, func(path string) bool {
			return slices.Contains(filterPaths, path)
		})
		properties = append(properties, property)
	}
	doc.Properties = properties
	doc.Doc = strings.TrimSpace(doc.Doc)
	return doc
}

// propertyPostProcessor is a function type that post-processes PropertyDoc.
// It can be used to apply additional formatting to the property documentation or add more details to the doc.
type propertyPostProcessor func(doc PropertyDoc) PropertyDoc

var (
	enumDeclarationRegex = regexp.MustCompile(`(?s)ENUM(.*)`)
	deprecatedRegex      = regexp.MustCompile(`(?m)^Deprecated:\s*(.*)$`)
)

// removeEnumDeclaration removes ENUM (used with go-enum generator) declarations from the code docs.
func removeEnumDeclaration(doc PropertyDoc) PropertyDoc {
	doc.TypeDoc = enumDeclarationRegex.ReplaceAllString(doc.TypeDoc, "")
	return doc
}

// removeTrailingWhitespace removes trailing whitespace from the docs.
func removeTrailingWhitespace(doc PropertyDoc) PropertyDoc {
	doc.TypeDoc = strings.TrimSpace(doc.TypeDoc)
	doc.FieldDoc = strings.TrimSpace(doc.FieldDoc)
	return doc
}

// extractDeprecatedInformation extracts deprecated information from the docs
// and sets PropertyDoc.DeprecatedDoc accordingly.
// Field docs take precedence over type docs.
func extractDeprecatedInformation(doc PropertyDoc) PropertyDoc {
	if matches := deprecatedRegex.FindStringSubmatch(doc.FieldDoc); len(matches) > 1 {
		doc.DeprecatedDoc = strings.TrimSpace(matches[1])
		doc.FieldDoc = strings.TrimSpace(deprecatedRegex.ReplaceAllString(doc.FieldDoc, ""))
	}
	if matches := deprecatedRegex.FindStringSubmatch(doc.TypeDoc); len(matches) > 1 {
		if doc.DeprecatedDoc == "" {
			doc.DeprecatedDoc = strings.TrimSpace(matches[1])
		}
		doc.TypeDoc = strings.TrimSpace(deprecatedRegex.ReplaceAllString(doc.TypeDoc, ""))
	}
	return doc
}
