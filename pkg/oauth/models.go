package oauth

import (
	"fmt"
	"strings"
)

// ProviderUser is the normalized shape of a third-party identity payload.
type ProviderUser struct {
	Provider   string
	ProviderID string
	Email      string
	Name       string
	Alias      string
}

// Credential synthesizes the placeholder stored as the account credential
// for provider-registered users. Never a real password; local signin with it
// is not possible because it is bcrypt-hashed like any other credential.
func (p ProviderUser) Credential() string {
	return p.Provider + " " + p.ProviderID
}

func aliasFromEmail(email string) string {
	return strings.SplitN(email, "@", 2)[0]
}

// GoogleUser maps a Google userinfo attribute map to a ProviderUser.
func GoogleUser(attributes map[string]interface{}) (ProviderUser, error) {
	email, _ := attributes["email"].(string)
	if email == "" {
		return ProviderUser{}, fmt.Errorf("google payload has no email")
	}
	sub, _ := attributes["sub"].(string)
	name, _ := attributes["name"].(string)
	return ProviderUser{
		Provider:   "google",
		ProviderID: sub,
		Email:      email,
		Name:       name,
		Alias:      aliasFromEmail(email),
	}, nil
}

// NaverUser maps a Naver profile payload to a ProviderUser. Naver nests the
// profile under a "response" key.
func NaverUser(attributes map[string]interface{}) (ProviderUser, error) {
	response, ok := attributes["response"].(map[string]interface{})
	if !ok {
		return ProviderUser{}, fmt.Errorf("naver payload has no response object")
	}
	email, _ := response["email"].(string)
	if email == "" {
		return ProviderUser{}, fmt.Errorf("naver payload has no email")
	}
	id, _ := response["id"].(string)
	name, _ := response["name"].(string)
	return ProviderUser{
		Provider:   "naver",
		ProviderID: id,
		Email:      email,
		Name:       name,
		Alias:      aliasFromEmail(email),
	}, nil
}
