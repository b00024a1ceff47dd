package handlers

import (
	"fmt"
	"net/http"
	"time"

	"newsbrew/internal/services"
	"newsbrew/internal/utils"

	"github.com/gin-gonic/gin"
)

type PageHandler struct {
	feed *services.Feed
}

func NewPageHandler() *PageHandler {
	return &PageHandler{
		feed: services.NewFeed(),
	}
}

// Home renders the ranked, paginated feed.
func (h *PageHandler) Home(c *gin.Context) {
	page := 1
	if p := utils.StringToInt(c.Query("page")); p > 0 {
		page = p
	}

	cacheKey := fmt.Sprintf("feed:home:page:%d", page)
	if cached := utils.GetCache().Get(cacheKey); cached != nil {
		if hData, ok := cached.(gin.H); ok {
			Render(c, http.StatusOK, "home.html", cloneH(hData))
			return
		}
	}

	feedPage, err := h.feed.Page(page)
	if err != nil {
		RenderError(c, http.StatusInternalServerError, "failed to load feed")
		return
	}

	renderData := gin.H{
		"Title":       "Top Stories",
		"Posts":       feedPage.Entries,
		"CurrentPage": feedPage.Page,
		"TotalPages":  feedPage.TotalPages,
		"Pages":       feedPage.Window,
	}
	utils.GetCache().Set(cacheKey, renderData, 1*time.Minute)

	Render(c, http.StatusOK, "home.html", cloneH(renderData))
}

func (h *PageHandler) About(c *gin.Context) {
	Render(c, http.StatusOK, "about.html", gin.H{"Title": "About"})
}

// Account renders the profile page; AuthRequired guards the route.
func (h *PageHandler) Account(c *gin.Context) {
	Render(c, http.StatusOK, "account.html", gin.H{"Title": "Account"})
}
