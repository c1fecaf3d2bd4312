package domain

import "time"

// Role identifies which principal class a record or verdict belongs to.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleCustomer Role = "user"
)

// Principal is a record held by a credential directory. Credential is either
// legacy plaintext or an encoded hash; nothing on the record says which.
type Principal struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Credential string    `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
}

// Identity is the successful authentication verdict.
type Identity struct {
	Role        Role
	PrincipalID string
	Name        string
	Email       string
	// Legacy is true when the stored credential matched as plaintext.
	Legacy bool
	// Outdated is true when a hashed credential came from a non-current algorithm.
	Outdated bool
}

// Account is the public view of a registered customer. It never carries the
// credential.
type Account struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// AccountOf strips the credential from p.
func AccountOf(p *Principal) *Account {
	if p == nil {
		return nil
	}
	return &Account{ID: p.ID, Name: p.Name, Email: p.Email}
}
