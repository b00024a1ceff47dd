package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"newsbrew/internal/services"
	"newsbrew/internal/utils"

	"github.com/gin-gonic/gin"
)

const newsfeedCacheKey = "feed:newsfeed"

type FeedHandler struct {
	feed *services.Feed
}

func NewFeedHandler() *FeedHandler {
	return &FeedHandler{
		feed: services.NewFeed(),
	}
}

// Newsfeed returns the most recent stories as JSON, field names matching the
// upstream API.
func (h *FeedHandler) Newsfeed(c *gin.Context) {
	if cached := utils.GetCache().Get(newsfeedCacheKey); cached != nil {
		if items, ok := cached.([]gin.H); ok {
			c.JSON(http.StatusOK, gin.H{"news_items": items})
			return
		}
	}

	posts, err := h.feed.Recent(services.RecentLimit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load newsfeed"})
		return
	}

	items := make([]gin.H, 0, len(posts))
	for _, p := range posts {
		kids := json.RawMessage(p.Kids)
		if len(kids) == 0 {
			kids = json.RawMessage("[]")
		}
		items = append(items, gin.H{
			"by":          p.Author,
			"descendants": p.Descendants,
			"id":          p.ID,
			"kids":        kids,
			"score":       p.Score,
			"title":       p.Title,
			"type":        p.PostType,
			"time":        p.Time,
			"url":         p.URL,
		})
	}
	utils.GetCache().Set(newsfeedCacheKey, items, 1*time.Minute)

	c.JSON(http.StatusOK, gin.H{"news_items": items})
}
