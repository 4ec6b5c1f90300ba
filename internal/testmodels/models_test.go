package testmodels_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nieomylnieja/govyform/internal/testmodels"
	"github.com/nieomylnieja/govyform/pkg/form"
	"github.com/nieomylnieja/govyform/pkg/model"
	"github.com/nieomylnieja/govyform/pkg/validators"
)

const postYAML = `
title: Hello
tags: [go, forms]
note:
  text: draft
comments:
  - author: ann
    note:
      text: first
  - author: bob
reactions:
  up:
    emoji: "+1"
`

func TestNewRegistry(t *testing.T) {
	r := testmodels.NewRegistry()

	post, err := model.CreateFromYAML[testmodels.Post](r, []byte(postYAML))
	require.NoError(t, err)
	assert.Equal(t, "Hello", post.Title)
	assert.Equal(t, []string{"go", "forms"}, post.Tags)
	require.NotNil(t, post.Note)
	assert.Equal(t, "draft", post.Note.Text)
	require.Len(t, post.Comments, 2)
	assert.Equal(t, "first", post.Comments[0].Note.Text)
	assert.Nil(t, post.Comments[1].Note)
	assert.Equal(t, "+1", post.Reactions["up"].Emoji)

	thread, err := model.CreateFrom[testmodels.Thread](r, nil)
	require.NoError(t, err)
	assert.NotNil(t, thread.Comments)
	assert.NotNil(t, thread.Reactions)
}

func TestPostForm(t *testing.T) {
	r := testmodels.NewRegistry()
	noteForm := form.MustNew(func(s *form.Setup[testmodels.Note]) {
		s.Field("text", "Text", validators.Required())
	}, form.WithRegistry(r))
	commentForm := form.MustNew(func(s *form.Setup[testmodels.Comment]) {
		s.Field("author", "Author", validators.Required())
		s.Form("note", "Note", noteForm)
	}, form.WithRegistry(r))
	reactionForm := form.MustNew(func(s *form.Setup[testmodels.Reaction]) {
		s.Field("emoji", "Emoji")
	}, form.WithRegistry(r))
	postForm := form.MustNew(func(s *form.Setup[testmodels.Post]) {
		s.Field("title", "Title", validators.Required())
		s.Form("note", "Note", noteForm)
		s.FormArray("comments", "Comments", commentForm)
		s.FormMap("reactions", "Reactions", reactionForm)
	}, form.WithRegistry(r))

	post, err := model.CreateFromYAML[testmodels.Post](r, []byte(postYAML))
	require.NoError(t, err)

	f, err := postForm.FromModel(post)
	require.NoError(t, err)
	comments := form.ListOf[testmodels.Comment](f, "comments")
	require.Len(t, comments, 2)
	comments[1].Model.Author = ""

	err = f.Validate(nil)
	require.Error(t, err)
	var verr *form.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, map[string]string{
		"comments[1].author":    "Required",
		"comments[1].note.text": "Required",
	}, verr.Fields)

	comments[1].Model.Author = "bob"
	form.NestedOf[testmodels.Note](comments[1], "note").Model.Text = "second"
	require.NoError(t, f.Validate(nil))

	updated, err := f.UpdatedModel()
	require.NoError(t, err)
	assert.Equal(t, "second", updated.Comments[1].Note.Text)
	assert.Nil(t, post.Comments[1].Note)
	assert.Equal(t, []string{"go", "forms"}, updated.Tags)
}
