package domain

// Actor is the identity behind an inbound event: a message author or
// the clicker of a control.
type Actor struct {
	ID          string   `json:"id"`
	DisplayName string   `json:"displayName"`
	IsBot       bool     `json:"isBot,omitempty"`
	Roles       []string `json:"roles,omitempty"`
}

// HasAnyRole reports whether the actor holds at least one of the given
// role identities. Empty role ids are ignored.
func (a Actor) HasAnyRole(ids ...string) bool {
	for _, want := range ids {
		if want == "" {
			continue
		}
		for _, have := range a.Roles {
			if have == want {
				return true
			}
		}
	}
	return false
}
