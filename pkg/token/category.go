package token

// Category distinguishes what a token is for. It is carried as the
// "category" claim and checked against the operation being performed:
// a refresh-only endpoint rejects access tokens and vice versa.
type Category string

const (
	// CategoryAccess marks short-lived tokens minted by local signin.
	CategoryAccess Category = "access"
	// CategoryRefresh marks tokens used solely to mint new access tokens.
	CategoryRefresh Category = "refresh"
	// CategoryOAuth marks access tokens minted through a third-party login.
	CategoryOAuth Category = "OAuth"
)

func (c Category) String() string {
	return string(c)
}
