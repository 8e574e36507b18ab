package auth

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mediamuse/core/internal/middleware"
)

var oauthHTTPClient = &http.Client{Timeout: 15 * time.Second}

type oauthProviderDef struct {
	AuthURL string
}

func callbackURI(c *gin.Context, provider string) string {
	scheme := "https"
	if c.Request.TLS == nil {
		scheme = "http"
	}
	basePath := "/auth"
	fullPath := c.FullPath()
	if idx := strings.Index(fullPath, "/auth/"); idx >= 0 {
		basePath = fullPath[:idx] + "/auth"
	}
	return fmt.Sprintf("%s://%s%s/callback/%s", scheme, c.Request.Host, basePath, provider)
}

func oauthDef(providerType, clientID, callbackURL string, c *gin.Context) *oauthProviderDef {
	redirectURI := callbackURI(c, providerType)
	switch providerType {
	case "github":
		params := url.Values{}
		params.Set("client_id", clientID)
		params.Set("redirect_uri", redirectURI)
		params.Set("scope", "user:email")
		if callbackURL != "" {
			params.Set("state", callbackURL)
		}
		return &oauthProviderDef{
			AuthURL: "https://github.com/login/oauth/authorize?" + params.Encode(),
		}
	case "google":
		params := url.Values{}
		params.Set("client_id", clientID)
		params.Set("redirect_uri", redirectURI)
		params.Set("response_type", "code")
		params.Set("scope", "openid email profile")
		params.Set("access_type", "offline")
		if callbackURL != "" {
			params.Set("state", callbackURL)
		}
		return &oauthProviderDef{
			AuthURL: "https://accounts.google.com/o/oauth2/v2/auth?" + params.Encode(),
		}
	}
	return nil
}

func exchangeCode(providerType, code, clientID, clientSecret, redirectURI string) (string, error) {
	switch providerType {
	case "github":
		body := url.Values{}
		body.Set("client_id", clientID)
		body.Set("client_secret", clientSecret)
		body.Set("code", code)
		body.Set("redirect_uri", redirectURI)

		req, _ := http.NewRequest(http.MethodPost, "https://github.com/login/oauth/access_token", strings.NewReader(body.Encode()))
		req.Header.Set("Accept", "application/json")
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		resp, err := oauthHTTPClient.Do(req)
		if err != nil {
			return "", err
		}
		defer resp.Body.Close()

		var result struct {
			AccessToken string `json:"access_token"`
			Error       string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			return "", err
		}
		if result.Error != "" {
			return "", fmt.Errorf("github: %s", result.Error)
		}
		return result.AccessToken, nil

	case "google":
		body := url.Values{}
		body.Set("code", code)
		body.Set("client_id", clientID)
		body.Set("client_secret", clientSecret)
		body.Set("redirect_uri", redirectURI)
		body.Set("grant_type", "authorization_code")

		req, _ := http.NewRequest(http.MethodPost, "https://oauth2.googleapis.com/token", strings.NewReader(body.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		resp, err := oauthHTTPClient.Do(req)
		if err != nil {
			return "", err
		}
		defer resp.Body.Close()

		var result struct {
			AccessToken string `json:"access_token"`
			Error       string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			return "", err
		}
		if result.Error != "" {
			return "", fmt.Errorf("google: %s", result.Error)
		}
		return result.AccessToken, nil
	}

	return "", fmt.Errorf("unsupported provider: %s", providerType)
}

func fetchSocialProfile(providerType, accessToken string) (*SocialProfile, error) {
	switch providerType {
	case "github":
		req, _ := http.NewRequest(http.MethodGet, "https://api.github.com/user", nil)
		req.Header.Set("Authorization", "Bearer "+accessToken)
		req.Header.Set("Accept", "application/vnd.github+json")

		resp, err := oauthHTTPClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		var u struct {
			ID    int64  `json:"id"`
			Login string `json:"login"`
			Email string `json:"email"`
			Name  string `json:"name"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&u); err != nil {
			return nil, err
		}
		return &SocialProfile{
			Provider: providerType,
			UID:      fmt.Sprintf("%d", u.ID),
			Login:    u.Login,
			Name:     u.Name,
			Email:    u.Email,
		}, nil

	case "google":
		req, _ := http.NewRequest(http.MethodGet, "https://www.googleapis.com/oauth2/v2/userinfo", nil)
		req.Header.Set("Authorization", "Bearer "+accessToken)

		resp, err := oauthHTTPClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		var u struct {
			ID    string `json:"id"`
			Email string `json:"email"`
			Name  string `json:"name"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&u); err != nil {
			return nil, err
		}
		return &SocialProfile{
			Provider: providerType,
			UID:      u.ID,
			Name:     u.Name,
			Email:    u.Email,
		}, nil
	}

	return nil, fmt.Errorf("unsupported provider: %s", providerType)
}

func redirectWithToken(c *gin.Context, callbackURL, token string) bool {
	target, err := url.Parse(strings.TrimSpace(callbackURL))
	if err != nil || target == nil {
		return false
	}
	q := target.Query()
	q.Set("token", token)
	target.RawQuery = q.Encode()
	c.Redirect(http.StatusTemporaryRedirect, target.String())
	return true
}

func setAuthTokenCookie(c *gin.Context, token string) {
	const maxAge = 14 * 24 * 60 * 60
	secure := c.Request.TLS != nil
	c.SetCookie(middleware.CookieName, token, maxAge, "/", "", secure, false)
}

func clearAuthTokenCookie(c *gin.Context) {
	secure := c.Request.TLS != nil
	c.SetCookie(middleware.CookieName, "", -1, "/", "", secure, false)
}
