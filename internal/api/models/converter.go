package models

import (
	"github.com/samber/lo"

	"github.com/jon4hz/vazby/internal/database"
)

// ToLink converts a database.Link to its JSON representation.
func ToLink(l database.Link) Link {
	link := Link{
		ID:        l.ID,
		Nazev:     l.Nazev,
		URL:       l.URL,
		Popis:     l.Popis,
		Kategorie: l.Kategorie,
		Schvaleno: l.Schvaleno,
		CreatedBy: l.CreatedByID,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
	if l.CreatedBy != nil {
		link.CreatedByUsername = lo.ToPtr(l.CreatedBy.Username)
	}
	return link
}

// ToLinks converts a slice of database.Link. The result is never nil.
func ToLinks(links []database.Link) []Link {
	result := make([]Link, len(links))
	for i, l := range links {
		result[i] = ToLink(l)
	}
	return result
}

// ToUser converts a database.User to its JSON representation.
func ToUser(u database.User) User {
	return User{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role.String(),
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// ToUsers converts a slice of database.User. The result is never nil.
func ToUsers(users []database.User) []User {
	result := make([]User, len(users))
	for i, u := range users {
		result[i] = ToUser(u)
	}
	return result
}
