package token

import (
	"github.com/Tracktor/zoho-crm/oauth2"
	xoauth2 "golang.org/x/oauth2"
)

// OAuth2 converts the token for golang.org/x/oauth2 consumers. The token type
// is the Zoho authorization scheme so that SetAuthHeader writes the header
// the CRM API expects. The API domain is available through Extra("api_domain").
func (t *Token) OAuth2() *xoauth2.Token {
	tok := &xoauth2.Token{
		AccessToken:  t.AccessToken(),
		TokenType:    oauth2.AuthScheme,
		RefreshToken: t.RefreshToken(),
		Expiry:       t.Expiry(),
	}
	if domain := t.APIDomain(); domain != "" {
		tok = tok.WithExtra(map[string]any{APIDomainKey: domain})
	}
	return tok
}
