// Package form projects models into editable forms carrying validation state
// and reconciles the edits back into new model snapshots.
//
// A [Projection] is declared once per model type with [New]:
//
//	var noteForm = form.MustNew(func(s *form.Setup[Note]) {
//		s.Field("text", "Text", validators.Required())
//	})
//
//	var commentForm = form.MustNew(func(s *form.Setup[Comment]) {
//		s.Field("author", "Author", validators.Required())
//		s.Form("note", "Note", noteForm)
//	})
//
// Forms are created from models with [Projection.FromModel] or from other forms
// with [Projection.FromForm], which carries the validation state over.
// Scalar fields are edited directly on [Form.Model], nested forms are reached
// with [Form.Nested], [Form.List] and [Form.Map] or their typed counterparts
// [NestedOf], [ListOf] and [MapOf].
//
// [Form.Validate] runs the validators of every field as a govy validator
// (see [github.com/nobl9/govy/pkg/govy]) and [Form.UpdatedModel] returns the
// edited model without touching the one the form was projected from.
//
// Models are cloned through a JSON round trip, see [model.Clone].
package form
