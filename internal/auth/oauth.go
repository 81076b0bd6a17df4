package auth

import (
	"golang.org/x/oauth2"
)

const (
	// Fitbit OAuth endpoints
	AuthURL  = "https://www.fitbit.com/oauth2/authorize"
	TokenURL = "https://api.fitbit.com/oauth2/token"
)

// Scopes required for our app
var Scopes = []string{
	"activity",
	"heartrate",
	"profile",
}

// Config holds the OAuth client credentials
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string // e.g., "http://localhost:8090/callback"
}

// NewOAuthConfig creates an oauth2.Config from our Config.
// Fitbit's token endpoint requires client credentials via Basic auth.
func NewOAuthConfig(cfg Config) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint: oauth2.Endpoint{
			AuthURL:   AuthURL,
			TokenURL:  TokenURL,
			AuthStyle: oauth2.AuthStyleInHeader,
		},
		RedirectURL: cfg.RedirectURL,
		Scopes:      Scopes,
	}
}

// AuthResult contains the token and user info from successful auth
type AuthResult struct {
	Token  *oauth2.Token
	UserID string
}

// ExtractUserID extracts the Fitbit user ID from the token extras.
// Fitbit includes user_id in the token response.
func ExtractUserID(token *oauth2.Token) string {
	if id, ok := token.Extra("user_id").(string); ok {
		return id
	}
	return ""
}
