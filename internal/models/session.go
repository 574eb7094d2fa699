package models

// Session identifies who is acting. It is passed explicitly into every
// component that needs the current user; there is no ambient global.
type Session struct {
	UserID    string
	PartnerID string // empty when not partnered
}

// Partnered reports whether the session user has a linked partner.
func (s Session) Partnered() bool {
	return s.PartnerID != ""
}
