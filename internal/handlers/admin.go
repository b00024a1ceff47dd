package handlers

import (
	"net/http"

	"newsbrew/internal/config"
	"newsbrew/internal/db"
	"newsbrew/internal/middleware"
	"newsbrew/internal/models"
	"newsbrew/internal/services"
	"newsbrew/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type AdminHandler struct {
	cfg  *config.Config
	feed *services.Feed
}

func NewAdminHandler(cfg *config.Config) *AdminHandler {
	return &AdminHandler{
		cfg:  cfg,
		feed: services.NewFeed(),
	}
}

// GetAdmin grants the calling user the admin role. When an invite code is
// configured the caller must present it; left unconfigured the route stays
// open, demo-style.
func (h *AdminHandler) GetAdmin(c *gin.Context) {
	if h.cfg.AdminInviteCode != "" && c.Query("code") != h.cfg.AdminInviteCode {
		c.AbortWithStatus(http.StatusForbidden)
		return
	}

	user, exists := c.Get(middleware.CheckUserKey)
	if !exists {
		c.Redirect(http.StatusFound, "/login")
		return
	}
	currentUser := user.(*models.User)

	if !currentUser.HasRole(models.RoleAdmin) {
		var admin models.Role
		if err := db.DB.First(&admin, "name = ?", models.RoleAdmin).Error; err == nil {
			if err := db.DB.Model(currentUser).Association("Roles").Append(&admin); err != nil {
				logrus.WithError(err).Error("failed to grant admin role")
				RenderError(c, http.StatusInternalServerError, "failed to grant admin role")
				return
			}
		}
	}

	c.Redirect(http.StatusFound, "/")
}

// Posts renders the moderation dashboard, most recent first.
func (h *AdminHandler) Posts(c *gin.Context) {
	page := 1
	if p := utils.StringToInt(c.Query("page")); p > 0 {
		page = p
	}

	feedPage, err := h.feed.AdminPage(page)
	if err != nil {
		RenderError(c, http.StatusInternalServerError, "failed to load posts")
		return
	}

	Render(c, http.StatusOK, "admin/posts.html", gin.H{
		"Title":       "Admin",
		"Posts":       feedPage.Entries,
		"CurrentPage": feedPage.Page,
		"TotalPages":  feedPage.TotalPages,
		"Pages":       feedPage.Window,
	})
}

// Users renders the user management dashboard, unpaginated.
func (h *AdminHandler) Users(c *gin.Context) {
	var users []models.User
	if err := db.DB.Preload("Roles").Find(&users).Error; err != nil {
		RenderError(c, http.StatusInternalServerError, "failed to load users")
		return
	}

	Render(c, http.StatusOK, "admin/users.html", gin.H{
		"Title": "Admin",
		"Users": users,
	})
}

// DeleteUser removes a user together with their votes and role links.
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	userID := c.Param("user_id")

	var user models.User
	if err := db.DB.First(&user, "id = ?", userID).Error; err != nil {
		RenderError(c, http.StatusNotFound, "user not found")
		return
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		// Posts the user voted on need their popularity recomputed once the
		// vote rows are gone.
		var votedPosts []int64
		if err := tx.Model(&models.Like{}).Where("user_id = ?", userID).Distinct().Pluck("post_id", &votedPosts).Error; err != nil {
			return err
		}
		var dislikedPosts []int64
		if err := tx.Model(&models.Dislike{}).Where("user_id = ?", userID).Distinct().Pluck("post_id", &dislikedPosts).Error; err != nil {
			return err
		}
		votedPosts = append(votedPosts, dislikedPosts...)

		if err := tx.Where("user_id = ?", userID).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.Dislike{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM user_roles WHERE user_id = ?", userID).Error; err != nil {
			return err
		}
		if err := tx.Delete(&user).Error; err != nil {
			return err
		}

		for _, pid := range votedPosts {
			if err := services.RecomputePopularity(tx, pid); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logrus.WithError(err).Errorf("failed to delete user %s", userID)
		RenderError(c, http.StatusInternalServerError, "failed to delete user")
		return
	}

	c.Redirect(http.StatusFound, "/admin_user")
}

// DeletePost removes a post together with its votes.
func (h *AdminHandler) DeletePost(c *gin.Context) {
	postID := utils.StringToInt64(c.Param("post_id"))

	var post models.Post
	if err := db.DB.First(&post, "id = ?", postID).Error; err != nil {
		RenderError(c, http.StatusNotFound, "post not found")
		return
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", postID).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", postID).Delete(&models.Dislike{}).Error; err != nil {
			return err
		}
		return tx.Delete(&post).Error
	})
	if err != nil {
		logrus.WithError(err).Errorf("failed to delete post %d", postID)
		RenderError(c, http.StatusInternalServerError, "failed to delete post")
		return
	}

	c.Redirect(http.StatusFound, "/admin_post")
}
