package domain

import "time"

// Customer is a directory record referenced by transactions. Resolution
// (by id, by phone, or implicit creation) happens before settlement begins
// and is a separate transactional concern.
type Customer struct {
	ID        string
	Name      string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CustomerRef identifies a customer in a settlement request: either an
// existing id, or a phone (plus optional name) to resolve or create by.
type CustomerRef struct {
	ID    string
	Phone string
	Name  string
}

// IsZero reports whether no customer was referenced at all.
func (r CustomerRef) IsZero() bool {
	return r.ID == "" && r.Phone == ""
}
