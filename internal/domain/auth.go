package domain

// Claims are the verified fields of an identity provider token.
// Fields missing from the token are left empty.
type Claims struct {
	Subject    string
	Email      string
	Name       string
	GivenName  string
	FamilyName string
	Picture    string
}
