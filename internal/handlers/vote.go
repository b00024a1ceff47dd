package handlers

import (
	"errors"
	"net/http"

	"newsbrew/internal/middleware"
	"newsbrew/internal/models"
	"newsbrew/internal/services"
	"newsbrew/internal/utils"

	"github.com/gin-gonic/gin"
)

type VoteHandler struct {
	votes *services.Votes
}

func NewVoteHandler() *VoteHandler {
	return &VoteHandler{
		votes: services.NewVotes(),
	}
}

// Like toggles the caller's like on a post and returns the new tallies.
func (h *VoteHandler) Like(c *gin.Context) {
	user, exists := c.Get(middleware.CheckUserKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "login required"})
		return
	}
	currentUser := user.(*models.User)
	postID := utils.StringToInt64(c.Param("post_id"))

	result, err := h.votes.ToggleLike(currentUser.ID, postID)
	if err != nil {
		if errors.Is(err, services.ErrPostNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record vote"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"likes":    result.Likes,
		"liked":    result.Liked,
		"dislikes": result.Dislikes,
	})
}

// Dislike is the mirror action of Like.
func (h *VoteHandler) Dislike(c *gin.Context) {
	user, exists := c.Get(middleware.CheckUserKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "login required"})
		return
	}
	currentUser := user.(*models.User)
	postID := utils.StringToInt64(c.Param("post_id"))

	result, err := h.votes.ToggleDislike(currentUser.ID, postID)
	if err != nil {
		if errors.Is(err, services.ErrPostNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record vote"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"dislikes": result.Dislikes,
		"disliked": result.Disliked,
		"likes":    result.Likes,
	})
}
