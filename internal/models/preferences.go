package models

// Preferences are per-user settings applied to new card sessions.
type Preferences struct {
	Locale            string `json:"locale"`
	CvcVisibleDefault bool   `json:"cvc_visible_default"`
}

// DefaultPreferences is what a user without stored preferences gets.
func DefaultPreferences() Preferences {
	return Preferences{Locale: "en"}
}
