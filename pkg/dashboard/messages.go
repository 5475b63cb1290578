package dashboard

import (
	"github.com/marcus/catalog/internal/models"
)

// ClearStatusMsg clears the status line if it is still the one with Seq
type ClearStatusMsg struct {
	Seq int
}

// InitialLoadMsg carries the concurrent /me and /stats fetch made when the
// app screen is entered.
type InitialLoadMsg struct {
	User     *models.User
	Stats    models.Stats
	UserErr  error
	StatsErr error
}

// StatsMsg carries a stats reload
type StatsMsg struct {
	Stats models.Stats
	Err   error
}

// LoginMsg is the result of a login attempt
type LoginMsg struct {
	Tokens models.TokenPair
	Err    error
}

// RegisterMsg is the result of a registration attempt
type RegisterMsg struct {
	User *models.User
	Err  error
}

// ItemSavedMsg is the result of the item form. UploadErr is set when the item
// was created but its attachment failed.
type ItemSavedMsg struct {
	Item      *models.Item
	Created   bool
	UploadErr error
	Err       error
}

// ItemDeletedMsg is the result of a delete
type ItemDeletedMsg struct {
	ID  int64
	Err error
}

// CommentsMsg carries an item's comments
type CommentsMsg struct {
	ItemID   int64
	Comments []models.Comment
	Err      error
}

// CommentAddedMsg is the result of posting a comment
type CommentAddedMsg struct {
	ItemID int64
	Err    error
}

// RoleSavedMsg is the result of a role update
type RoleSavedMsg struct {
	UserID int64
	Role   models.Role
	Err    error
}
