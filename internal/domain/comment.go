package domain

import "time"

// CommentEditWindow is how long after creation a comment may still be edited.
const CommentEditWindow = 5 * time.Minute

// DeletedCommentText replaces the text of a deleted comment.
const DeletedCommentText = "[comentário removido]"

const commentTextMax = 500

// Comment is a user's remark on a recipe with a 1..5 rating. Deleting a
// comment tombstones its text; the row is kept.
type Comment struct {
	base
	text     string
	rating   StarRating
	recipeID int64
	userID   int64
	deleted  bool
}

// CommentState is the persisted form of a Comment.
type CommentState struct {
	Record
	Text      string `json:"text"`
	Rating    int    `json:"rating"`
	RecipeID  int64  `json:"recipe_id"`
	UserID    int64  `json:"user_id"`
	IsDeleted bool   `json:"is_deleted"`
}

// NewComment validates and creates an unpersisted Comment.
func NewComment(recipeID, userID int64, text string, rating int) (*Comment, error) {
	if err := checkID("recipeId", recipeID); err != nil {
		return nil, err
	}
	if err := checkID("userId", userID); err != nil {
		return nil, err
	}
	text, err := checkText("text", text, 1, commentTextMax)
	if err != nil {
		return nil, err
	}
	stars, err := NewStarRating(rating)
	if err != nil {
		return nil, err
	}
	return &Comment{
		base:     newBase(),
		text:     text,
		rating:   stars,
		recipeID: recipeID,
		userID:   userID,
	}, nil
}

// LoadComment rehydrates a Comment without validation.
func LoadComment(s CommentState) *Comment {
	return &Comment{
		base:     loadBase(s.Record),
		text:     s.Text,
		rating:   StarRating(s.Rating),
		recipeID: s.RecipeID,
		userID:   s.UserID,
		deleted:  s.IsDeleted,
	}
}

func (c *Comment) Text() string       { return c.text }
func (c *Comment) Rating() StarRating { return c.rating }
func (c *Comment) RecipeID() int64    { return c.recipeID }
func (c *Comment) UserID() int64      { return c.userID }
func (c *Comment) IsDeleted() bool    { return c.deleted }

// CanEdit reports whether the comment may still be edited at the given time.
func (c *Comment) CanEdit(at time.Time) bool {
	return !c.deleted && at.Sub(c.createdAt) <= CommentEditWindow
}

// Edit replaces text and rating. It is refused once the comment is deleted
// or the edit window has closed.
func (c *Comment) Edit(text string, rating int, at time.Time) (bool, error) {
	if c.deleted {
		return false, refused("comment.edit", "Não é possível editar um comentário removido.")
	}
	if at.Sub(c.createdAt) > CommentEditWindow {
		return false, refused("comment.edit", "O prazo de 5 minutos para editar o comentário expirou.")
	}
	text, err := checkText("text", text, 1, commentTextMax)
	if err != nil {
		return false, err
	}
	stars, err := NewStarRating(rating)
	if err != nil {
		return false, err
	}
	if text == c.text && stars == c.rating {
		return false, nil
	}
	c.text = text
	c.rating = stars
	c.touch()
	return true, nil
}

// Delete tombstones the comment. Returns false when already deleted.
func (c *Comment) Delete() bool {
	if c.deleted {
		return false
	}
	c.deleted = true
	c.text = DeletedCommentText
	c.active = false
	c.touch()
	return true
}

// State returns the persisted form.
func (c *Comment) State() CommentState {
	return CommentState{
		Record:    c.record(),
		Text:      c.text,
		Rating:    c.rating.Int(),
		RecipeID:  c.recipeID,
		UserID:    c.userID,
		IsDeleted: c.deleted,
	}
}
