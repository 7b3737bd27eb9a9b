package models

import "strings"

// AllFirms is the firmNameMatch value that lifts firm scoping.
const AllFirms = "all"

// User is the acting user as carried by the bearer token.
type User struct {
	Username      string          `json:"username"`
	FirmNameMatch string          `json:"firmNameMatch"`
	Permissions   map[string]bool `json:"permissions"`
}

func NewUser(username, firmNameMatch string, permissions []string) User {
	perms := make(map[string]bool, len(permissions))
	for _, p := range permissions {
		p = strings.TrimSpace(p)
		if p != "" {
			perms[p] = true
		}
	}
	return User{Username: username, FirmNameMatch: firmNameMatch, Permissions: perms}
}

// SeesAllFirms compares against "all" case-insensitively.
func (u User) SeesAllFirms() bool {
	return strings.EqualFold(u.FirmNameMatch, AllFirms)
}

// CanSeeFirm is exact and case-sensitive on the row side.
func (u User) CanSeeFirm(rowFirm string) bool {
	return u.SeesAllFirms() || rowFirm == u.FirmNameMatch
}

// Can reports whether the user holds the gate key. An empty key is open to everyone.
func (u User) Can(gateKey string) bool {
	if gateKey == "" {
		return true
	}
	return u.Permissions[gateKey]
}
