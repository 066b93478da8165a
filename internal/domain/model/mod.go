package model

import "time"

// Mod is the root row for a deletable entity. The coordinator only touches
// mods during teardown; listing and editing live in the web layer.
type Mod struct {
	ID        string    `json:"id"         db:"id"`
	Title     string    `json:"title"      db:"title"`
	Author    string    `json:"author"     db:"author"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ModVersion is a dependent row removed alongside its mod.
type ModVersion struct {
	ID        string    `json:"id"         db:"id"`
	ModID     string    `json:"mod_id"     db:"mod_id"`
	Version   string    `json:"version"    db:"version"`
	FileURL   string    `json:"file_url"   db:"file_url"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// FilePrefix returns the path prefix under which all of a mod's files and
// scan records live. Teardown cascades by this prefix.
func FilePrefix(modID string) string {
	return "/mods/" + modID + "/"
}
