package handlers

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"newsbrew/internal/config"
	"newsbrew/internal/db"
	"newsbrew/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

type AuthHandler struct {
	cfg    *config.Config
	oauth  *oauth2.Config
	client *http.Client
}

func NewAuthHandler(cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		cfg: cfg,
		oauth: &oauth2.Config{
			ClientID:     cfg.OIDCClientID,
			ClientSecret: cfg.OIDCClientSecret,
			RedirectURL:  cfg.SiteURL + "/callback",
			Scopes:       []string{"openid", "profile", "email"},
			Endpoint: oauth2.Endpoint{
				AuthURL:  "https://" + cfg.OIDCDomain + "/authorize",
				TokenURL: "https://" + cfg.OIDCDomain + "/oauth/token",
			},
		},
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// openIDProfile is the subset of the provider's userinfo response we keep.
type openIDProfile struct {
	Sub     string `json:"sub"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture"`
}

func generateStateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// Login starts the authorization-code flow with the identity provider.
func (h *AuthHandler) Login(c *gin.Context) {
	state, err := generateStateToken()
	if err != nil {
		c.String(http.StatusInternalServerError, "failed to generate state token")
		return
	}

	session := sessions.Default(c)
	session.Set("oauth_state", state)
	session.Save()

	c.Redirect(http.StatusTemporaryRedirect, h.oauth.AuthCodeURL(state))
}

// Callback completes the login: verifies state, exchanges the code, fetches
// the userinfo claims, upserts the user and replays the originally requested
// URL if one was stashed. Providers using response_mode=form_post deliver
// state and code in the body, so FormValue covers both transports.
func (h *AuthHandler) Callback(c *gin.Context) {
	session := sessions.Default(c)
	savedState := session.Get("oauth_state")
	if savedState == nil || c.Request.FormValue("state") != savedState.(string) {
		RenderError(c, http.StatusBadRequest, "invalid state parameter")
		return
	}
	session.Delete("oauth_state")
	session.Save()

	code := c.Request.FormValue("code")
	if code == "" {
		RenderError(c, http.StatusBadRequest, "missing authorization code")
		return
	}

	token, err := h.oauth.Exchange(context.Background(), code)
	if err != nil {
		logrus.WithError(err).Error("token exchange failed")
		RenderError(c, http.StatusInternalServerError, "failed to exchange token")
		return
	}

	profile, err := h.fetchProfile(token.AccessToken)
	if err != nil {
		logrus.WithError(err).Error("userinfo fetch failed")
		RenderError(c, http.StatusInternalServerError, "failed to fetch user info")
		return
	}

	user, err := h.upsertUser(profile)
	if err != nil {
		logrus.WithError(err).Error("user upsert failed")
		RenderError(c, http.StatusInternalServerError, "failed to create user")
		return
	}

	session.Set("user_id", user.ID)

	if next, ok := session.Get("next").(string); ok && next != "" {
		session.Delete("next")
		session.Save()
		c.Redirect(http.StatusFound, next)
		return
	}
	session.Save()
	c.Redirect(http.StatusFound, "/")
}

// Logout clears the session and hands off to the provider's logout endpoint.
func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Save()

	q := url.Values{}
	q.Set("returnTo", h.cfg.SiteURL)
	q.Set("client_id", h.cfg.OIDCClientID)
	c.Redirect(http.StatusFound, "https://"+h.cfg.OIDCDomain+"/v2/logout?"+q.Encode())
}

func (h *AuthHandler) fetchProfile(accessToken string) (*openIDProfile, error) {
	req, err := http.NewRequest(http.MethodGet, "https://"+h.cfg.OIDCDomain+"/userinfo", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var profile openIDProfile
	if err := json.Unmarshal(body, &profile); err != nil {
		return nil, err
	}
	if profile.Sub == "" {
		return nil, fmt.Errorf("userinfo response missing subject")
	}
	return &profile, nil
}

// upsertUser finds the user by provider subject, creating it with the
// default member role on first login.
func (h *AuthHandler) upsertUser(profile *openIDProfile) (*models.User, error) {
	var user models.User
	err := db.DB.Preload("Roles").First(&user, "id = ?", profile.Sub).Error
	if err == nil {
		return &user, nil
	}

	user = models.User{
		ID:        profile.Sub,
		Username:  profile.Name,
		Email:     profile.Email,
		ImageFile: profile.Picture,
	}
	if user.ImageFile == "" {
		user.ImageFile = "default.jpg"
	}
	if err := db.DB.Create(&user).Error; err != nil {
		return nil, err
	}

	var member models.Role
	if err := db.DB.First(&member, "name = ?", models.RoleMember).Error; err == nil {
		if err := db.DB.Model(&user).Association("Roles").Append(&member); err != nil {
			return nil, err
		}
	}
	return &user, nil
}
