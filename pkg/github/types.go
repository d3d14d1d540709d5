package github

import "encoding/json"

type ResultKind int

const (
	KindSuccess ResultKind = iota
	KindNotFound
	KindRedirect
	KindUnauthorized
	KindUnknown
)

// Result A tagged view of a provider response for calls where the status code
// itself is the answer.
type Result struct {
	Kind       ResultKind
	StatusCode int
}

// Membership The relevant part of an org membership object. State is
// "pending" until the user accepts the invitation, then "active".
type Membership struct {
	State string `json:"state"`
}

type Team struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type User struct {
	Login string `json:"login"`
	Name  string `json:"name"`
}

// InviteResult The outcome of a membership PUT. Body holds the verbatim
// provider payload so that provider-side diagnostics survive the round trip.
type InviteResult struct {
	State   string
	Message string
	Body    json.RawMessage
}
