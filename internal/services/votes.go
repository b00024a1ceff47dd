package services

import (
	"errors"

	"newsbrew/internal/db"
	"newsbrew/internal/models"

	"gorm.io/gorm"
)

// ErrPostNotFound is returned when a vote targets a post id with no row.
var ErrPostNotFound = errors.New("post not found")

// VoteResult carries the recomputed tallies for the affected post plus the
// caller's vote state after the toggle.
type VoteResult struct {
	Likes    int64
	Dislikes int64
	Liked    bool
	Disliked bool
}

// Votes implements the per-user tri-state toggle (none/liked/disliked).
// Each toggle runs in one transaction so popularity always equals the total
// number of like and dislike rows once it commits.
type Votes struct{}

func NewVotes() *Votes {
	return &Votes{}
}

// ToggleLike applies a "like" action from the given user:
// none -> liked inserts the row and bumps popularity; liked -> none removes
// it and drops popularity (floor 0); disliked -> liked swaps the rows with
// no net popularity change.
func (v *Votes) ToggleLike(userID string, postID int64) (*VoteResult, error) {
	tx := db.DB.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}

	var post models.Post
	if err := tx.First(&post, "id = ?", postID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	liked := false
	var like models.Like
	err := tx.Where("user_id = ? AND post_id = ?", userID, postID).First(&like).Error
	switch {
	case err == nil:
		// Retoggle: remove the like and drop popularity.
		if err := tx.Delete(&like).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
		if err := decrementPopularity(tx, postID); err != nil {
			tx.Rollback()
			return nil, err
		}

	case errors.Is(err, gorm.ErrRecordNotFound):
		var dislike models.Dislike
		derr := tx.Where("user_id = ? AND post_id = ?", userID, postID).First(&dislike).Error
		switch {
		case derr == nil:
			// Swap: the removed dislike and the new like cancel out.
			if err := tx.Delete(&dislike).Error; err != nil {
				tx.Rollback()
				return nil, err
			}
		case errors.Is(derr, gorm.ErrRecordNotFound):
			if err := incrementPopularity(tx, postID); err != nil {
				tx.Rollback()
				return nil, err
			}
		default:
			tx.Rollback()
			return nil, derr
		}
		if err := tx.Create(&models.Like{UserID: userID, PostID: postID}).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
		liked = true

	default:
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	result, err := voteCounts(postID)
	if err != nil {
		return nil, err
	}
	result.Liked = liked
	return result, nil
}

// ToggleDislike is the mirror image of ToggleLike with the two ledgers
// swapped.
func (v *Votes) ToggleDislike(userID string, postID int64) (*VoteResult, error) {
	tx := db.DB.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}

	var post models.Post
	if err := tx.First(&post, "id = ?", postID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	disliked := false
	var dislike models.Dislike
	err := tx.Where("user_id = ? AND post_id = ?", userID, postID).First(&dislike).Error
	switch {
	case err == nil:
		if err := tx.Delete(&dislike).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
		if err := decrementPopularity(tx, postID); err != nil {
			tx.Rollback()
			return nil, err
		}

	case errors.Is(err, gorm.ErrRecordNotFound):
		var like models.Like
		lerr := tx.Where("user_id = ? AND post_id = ?", userID, postID).First(&like).Error
		switch {
		case lerr == nil:
			if err := tx.Delete(&like).Error; err != nil {
				tx.Rollback()
				return nil, err
			}
		case errors.Is(lerr, gorm.ErrRecordNotFound):
			if err := incrementPopularity(tx, postID); err != nil {
				tx.Rollback()
				return nil, err
			}
		default:
			tx.Rollback()
			return nil, lerr
		}
		if err := tx.Create(&models.Dislike{UserID: userID, PostID: postID}).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
		disliked = true

	default:
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	result, err := voteCounts(postID)
	if err != nil {
		return nil, err
	}
	result.Disliked = disliked
	return result, nil
}

func incrementPopularity(tx *gorm.DB, postID int64) error {
	return tx.Model(&models.Post{}).
		Where("id = ?", postID).
		UpdateColumn("popularity", gorm.Expr("popularity + 1")).Error
}

func decrementPopularity(tx *gorm.DB, postID int64) error {
	// The guard keeps the counter at zero rather than going negative.
	return tx.Model(&models.Post{}).
		Where("id = ? AND popularity > 0", postID).
		UpdateColumn("popularity", gorm.Expr("popularity - 1")).Error
}

// RecomputePopularity resets a post's counter to its current row totals.
// Used after cascade deletes that bypass the toggle path.
func RecomputePopularity(tx *gorm.DB, postID int64) error {
	var likes, dislikes int64
	if err := tx.Model(&models.Like{}).Where("post_id = ?", postID).Count(&likes).Error; err != nil {
		return err
	}
	if err := tx.Model(&models.Dislike{}).Where("post_id = ?", postID).Count(&dislikes).Error; err != nil {
		return err
	}
	return tx.Model(&models.Post{}).
		Where("id = ?", postID).
		UpdateColumn("popularity", likes+dislikes).Error
}

func voteCounts(postID int64) (*VoteResult, error) {
	var result VoteResult
	if err := db.DB.Model(&models.Like{}).Where("post_id = ?", postID).Count(&result.Likes).Error; err != nil {
		return nil, err
	}
	if err := db.DB.Model(&models.Dislike{}).Where("post_id = ?", postID).Count(&result.Dislikes).Error; err != nil {
		return nil, err
	}
	return &result, nil
}
