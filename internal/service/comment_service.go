package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/prn-tf/recipebook/internal/domain"
	"github.com/prn-tf/recipebook/internal/repository"
	"github.com/prn-tf/recipebook/internal/result"
)

// CommentService manages recipe comments. Authors may edit within
// domain.CommentEditWindow; deletion tombstones the text.
type CommentService struct {
	store  repository.Store
	auth   Authenticator
	logger zerolog.Logger
}

// NewCommentService creates a new CommentService.
func NewCommentService(store repository.Store, authn Authenticator, logger zerolog.Logger) *CommentService {
	return &CommentService{
		store:  store,
		auth:   authn,
		logger: logger.With().Str("service", "comment").Logger(),
	}
}

// CommentInput contains the editable fields of a comment.
type CommentInput struct {
	Text string

	// Rating is the 1..5 star grade attached to the comment.
	Rating int
}

// Add comments on an active recipe.
func (s *CommentService) Add(ctx context.Context, recipeID int64, input CommentInput) result.Result[*domain.Comment] {
	a, appErr := resolveActor(ctx, s.auth, s.store)
	if appErr != nil {
		return result.Failure[*domain.Comment](appErr)
	}

	comment, err := domain.NewComment(recipeID, a.ID(), input.Text, input.Rating)
	if err != nil {
		return fail[*domain.Comment](s.logger, "add comment", err)
	}

	_, err = repository.WithinTx(ctx, s.store, func(uow repository.UnitOfWork) error {
		if _, err := activeOr(uow.Recipes().GetByID(ctx, recipeID)); err != nil {
			return notFoundAs(err, "Receita")
		}
		_, err := uow.Comments().Add(ctx, comment)
		return err
	})
	if err != nil {
		return fail[*domain.Comment](s.logger, "add comment", err)
	}

	s.logger.Info().
		Int64("comment_id", comment.ID()).
		Int64("recipe_id", recipeID).
		Int64("user_id", a.ID()).
		Msg("comment added")

	return result.Success(comment, "Comentário adicionado com sucesso.")
}

// ListByRecipe returns the thread of a recipe, oldest first. Deleted comments
// keep their place with the tombstone text.
func (s *CommentService) ListByRecipe(ctx context.Context, recipeID int64) result.Result[[]*domain.Comment] {
	if _, err := activeOr(s.store.Recipes().GetByID(ctx, recipeID)); err != nil {
		return fail[[]*domain.Comment](s.logger, "list comments", notFoundAs(err, "Receita"))
	}

	comments, err := s.store.Comments().ListByRecipe(ctx, recipeID)
	if err != nil {
		return fail[[]*domain.Comment](s.logger, "list comments", err)
	}
	return result.Success(comments)
}

// Edit changes text and rating of a comment. Author only, within the edit
// window; a deleted comment is never editable.
func (s *CommentService) Edit(ctx context.Context, commentID int64, input CommentInput) result.Result[*domain.Comment] {
	a, appErr := resolveActor(ctx, s.auth, s.store)
	if appErr != nil {
		return result.Failure[*domain.Comment](appErr)
	}

	var comment *domain.Comment
	_, err := repository.WithinTx(ctx, s.store, func(uow repository.UnitOfWork) error {
		var err error
		comment, err = uow.Comments().GetByID(ctx, commentID)
		if err != nil {
			return notFoundAs(err, "Comentário")
		}
		if comment.UserID() != a.ID() {
			return errForbidden()
		}

		changed, err := comment.Edit(input.Text, input.Rating, domain.Now())
		if err != nil || !changed {
			return err
		}
		return uow.Comments().Update(ctx, comment)
	})
	if err != nil {
		return fail[*domain.Comment](s.logger, "edit comment", err)
	}

	s.logger.Info().Int64("comment_id", commentID).Int64("user_id", a.ID()).Msg("comment edited")
	return result.Success(comment, "Comentário atualizado com sucesso.")
}

// Delete tombstones a comment. Allowed to its author, the recipe author and
// moderators; a missing or already deleted comment is a success.
func (s *CommentService) Delete(ctx context.Context, commentID int64) result.Void {
	a, appErr := resolveActor(ctx, s.auth, s.store)
	if appErr != nil {
		return result.Fail(appErr)
	}

	_, err := repository.WithinTx(ctx, s.store, func(uow repository.UnitOfWork) error {
		comment, err := uow.Comments().GetByID(ctx, commentID)
		if err != nil {
			return ignoreNotFound(err)
		}
		if comment.IsDeleted() {
			return nil
		}

		if comment.UserID() != a.ID() && !a.CanModerate() {
			recipe, err := uow.Recipes().GetByID(ctx, comment.RecipeID())
			if err != nil {
				return err
			}
			if !recipe.IsOwnedBy(a.ID()) {
				return errForbidden()
			}
		}

		if !comment.Delete() {
			return nil
		}
		return uow.Comments().Update(ctx, comment)
	})
	if err != nil {
		return fail[result.Unit](s.logger, "delete comment", err)
	}

	s.logger.Info().Int64("comment_id", commentID).Int64("actor_id", a.ID()).Msg("comment deleted")
	return result.Ok("Comentário removido com sucesso.")
}
