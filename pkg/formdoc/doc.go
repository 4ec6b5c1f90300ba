// Package formdoc generates documentation for models edited through form projections.
//
// It combines three sources of information:
//  1. Field declarations of the projection and its nested projections
//  2. Validation plans of the govy validators the projections run
//  3. Go source code documentation (godoc comments), with [WithSourceDocs]
//
// # Basic Usage
//
// Given a projection:
//
//	var accountForm = form.MustNew(func(s *form.Setup[Account]) {
//		s.Field("email", "Email", validators.Required(), validators.IsEmail())
//		s.FormArray("contacts", "Contacts", contactForm)
//	})
//
// Generate documentation:
//
//	doc, err := formdoc.Generate(accountForm, formdoc.WithSourceDocs())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// The resulting ObjectDoc includes:
//   - Property paths (e.g., "$.email", "$.contacts[*].name")
//   - Labels, field kinds and validator descriptions
//   - Type information for each property
//   - Validation rules from govy plans
//   - Godoc comments from the source code
//   - Nested property relationships
//
// Nested forms are addressed as objects ("$.address.city"), elements of form
// lists with "[*]" and values of keyed forms with ".*" ("$.settings.*.cadence").
//
// # Configuration Options
//
// WithFilteredPaths excludes specified property paths from documentation.
// GenerateGovyOptions passes options to the internal govy.Plan calls.
//
// # JSON Schema
//
// [Schema] reflects the projected model into a JSON Schema with the field
// labels as titles.
package formdoc
