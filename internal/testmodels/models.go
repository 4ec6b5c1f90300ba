package testmodels

import (
	"github.com/nieomylnieja/govyform/internal/testmodels/moremodels"
	"github.com/nieomylnieja/govyform/pkg/model"
)

// Note is a short free text attached to other models.
type Note struct {
	Text string `json:"text"`
}

// Comment is written by an [Comment.Author] and may carry a [Note].
type Comment struct {
	// Author is the display name of the commenter.
	Author string `json:"author"`
	Note   *Note  `json:"note"`
}

// Reaction is a single emoji reaction.
type Reaction struct {
	Emoji string `json:"emoji"`
}

// Thread groups comments and keyed reactions.
type Thread struct {
	Title     string               `json:"title"`
	Comments  []*Comment           `json:"comments"`
	Reactions map[string]*Reaction `json:"reactions"`
}

// Post is a blog post, every association kind is represented.
type Post struct {
	// Title of the post.
	Title     string               `json:"title"`
	Tags      []string             `json:"tags"`
	Comments  []*Comment           `json:"comments"`
	Note      *Note                `json:"note"`
	Reactions map[string]*Reaction `json:"reactions"`
}

// Account is a user account edited through a signup form.
type Account struct {
	// Email is the primary contact address.
	Email    string `json:"email"`
	Password string `json:"password"`
	// Confirm must repeat the [Account.Password].
	Confirm string `json:"confirm"`
	Website string `json:"website"`
	Age     string `json:"age"`
	Terms   bool   `json:"terms"`
	// Address is where the invoices are sent.
	Address *moremodels.Address `json:"address"`
	// Contacts are additional people to notify.
	Contacts []*Contact `json:"contacts"`
	// Settings are per-channel preferences.
	//
	// Deprecated: Use Contacts instead.
	Settings map[string]*Preference `json:"settings"`
	internal string
}

// Contact is a person to notify.
type Contact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Preference configures a single notification channel.
type Preference struct {
	Enabled bool   `json:"enabled"`
	Cadence string `json:"cadence"`
}

// Register declares the associations of all test models on r.
func Register(r *model.Registry) error {
	for _, err := range []error{
		model.Register[Comment](r, model.One[Note]("note")),
		model.Register[Thread](r,
			model.Many[Comment]("comments"),
			model.Keyed[Reaction]("reactions"),
		),
		model.Register[Post](r,
			model.Many[Comment]("comments"),
			model.One[Note]("note"),
			model.Keyed[Reaction]("reactions"),
		),
		model.Register[Account](r,
			model.One[moremodels.Address]("address"),
			model.Many[Contact]("contacts"),
			model.Keyed[Preference]("settings"),
		),
	} {
		if err != nil {
			return err
		}
	}
	return nil
}

// NewRegistry returns a registry with all test models registered.
func NewRegistry() *model.Registry {
	r := model.NewRegistry()
	if err := Register(r); err != nil {
		panic(err)
	}
	return r
}
