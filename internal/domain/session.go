package domain

// User is the identity returned by the backend on login.
type User struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
}

// Session holds the authentication state of the current client. The zero
// value is the logged-out session.
type Session struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// IsAuthenticated reports whether a token is present.
func (s Session) IsAuthenticated() bool {
	return s.Token != ""
}

// IsAdmin reports whether the logged-in user is an administrator.
func (s Session) IsAdmin() bool {
	return s.User != nil && s.User.IsAdmin
}

// Valid reports whether token and user are either both present or both absent.
func (s Session) Valid() bool {
	return (s.Token == "") == (s.User == nil)
}

// PurchaseRequest is the body of a purchase submission.
type PurchaseRequest struct {
	ProductID   string   `json:"productId"`
	Quantity    int      `json:"quantity"`
	Accessories []string `json:"accessories"`
}

// PurchaseResult is the backend's answer to an accepted purchase.
type PurchaseResult struct {
	Message        string `json:"message"`
	RemainingStock int    `json:"remainingStock"`
}
