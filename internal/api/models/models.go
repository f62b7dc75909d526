package models

import "time"

// Link is the JSON representation of a directory entry.
type Link struct {
	ID                uint      `json:"id"`
	Nazev             string    `json:"nazev"`
	URL               string    `json:"url"`
	Popis             string    `json:"popis"`
	Kategorie         string    `json:"kategorie"`
	Schvaleno         bool      `json:"schvaleno"`
	CreatedBy         *uint     `json:"created_by"`
	CreatedByUsername *string   `json:"created_by_username"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// User is the JSON representation of an account. It never carries the password hash.
type User struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
