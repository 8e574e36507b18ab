package auth

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mediamuse/core/internal/config"
	"github.com/mediamuse/core/internal/middleware"
	"github.com/mediamuse/core/internal/pkg/response"
	sessionpkg "github.com/mediamuse/core/internal/pkg/session"
	"gorm.io/gorm"
)

// Handler exposes OAuth sign-in plus the authenticated me/logout endpoints.
type Handler struct {
	db  *gorm.DB
	svc *Service
	cfg config.OAuthConfig
}

func NewHandler(db *gorm.DB, svc *Service, cfg config.OAuthConfig) *Handler {
	return &Handler{db: db, svc: svc, cfg: cfg}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/auth")

	g.GET("/providers", h.listProviders)
	g.GET("/redirect/:provider", h.redirectToProvider)
	g.GET("/callback/:provider", h.handleCallback)

	authed := g.Group("", authMW)
	authed.GET("/me", h.me)
	authed.POST("/logout", h.logout)
}

func (h *Handler) providerConfig(providerType string) *config.OAuthProvider {
	for i := range h.cfg.Providers {
		p := &h.cfg.Providers[i]
		if p.Enabled && strings.EqualFold(strings.TrimSpace(p.Type), providerType) && strings.TrimSpace(p.ClientID) != "" {
			return p
		}
	}
	return nil
}

// GET /auth/providers
func (h *Handler) listProviders(c *gin.Context) {
	providers := make([]string, 0, len(h.cfg.Providers))
	for _, p := range h.cfg.Providers {
		providerType := strings.TrimSpace(p.Type)
		if p.Enabled && providerType != "" && strings.TrimSpace(p.ClientID) != "" {
			providers = append(providers, providerType)
		}
	}
	c.JSON(http.StatusOK, providers)
}

// GET /auth/redirect/:provider?callback_url=...
func (h *Handler) redirectToProvider(c *gin.Context) {
	providerType := c.Param("provider")
	provider := h.providerConfig(providerType)
	if provider == nil {
		response.NotFoundMsg(c, "OAuth provider not found or not configured")
		return
	}

	def := oauthDef(strings.TrimSpace(provider.Type), provider.ClientID, c.Query("callback_url"), c)
	if def == nil {
		response.NotFoundMsg(c, "OAuth provider not found or not configured")
		return
	}
	c.Redirect(http.StatusTemporaryRedirect, def.AuthURL)
}

// GET /auth/callback/:provider?code=...&state=...
func (h *Handler) handleCallback(c *gin.Context) {
	providerType := c.Param("provider")
	code := c.Query("code")
	if code == "" {
		response.BadRequest(c, "missing code")
		return
	}

	provider := h.providerConfig(providerType)
	if provider == nil {
		response.NotFoundMsg(c, "OAuth provider not configured")
		return
	}
	providerType = strings.TrimSpace(provider.Type)

	accessToken, err := exchangeCode(providerType, code, provider.ClientID, provider.ClientSecret, callbackURI(c, providerType))
	if err != nil {
		response.InternalError(c, fmt.Errorf("token exchange failed: %w", err))
		return
	}

	profile, err := fetchSocialProfile(providerType, accessToken)
	if err != nil {
		response.InternalError(c, fmt.Errorf("failed to fetch user info: %w", err))
		return
	}

	user, err := h.svc.UpsertFromOAuth(profile)
	if err != nil {
		response.InternalError(c, err)
		return
	}

	token, _, err := sessionpkg.Issue(h.db, user.ID, c.ClientIP(), c.Request.UserAgent(), sessionpkg.DefaultTTL)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	setAuthTokenCookie(c, token)

	if callbackURL := strings.TrimSpace(c.Query("state")); callbackURL != "" {
		if redirectWithToken(c, callbackURL, token) {
			return
		}
	}

	response.OK(c, gin.H{
		"token": token,
		"user": gin.H{
			"id":   user.ID,
			"name": user.Name,
		},
	})
}

// GET /auth/me [auth]
func (h *Handler) me(c *gin.Context) {
	user, err := h.svc.GetByID(middleware.CurrentUserID(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if user == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, user)
}

// POST /auth/logout [auth]
func (h *Handler) logout(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	if sid := middleware.CurrentSessionID(c); sid != "" {
		_ = sessionpkg.Revoke(h.db, userID, sid)
	}
	clearAuthTokenCookie(c)
	response.OK(c, gin.H{"success": true})
}
