package models

// AdminUsername is the account seeded into empty storage and the only one
// allowed to display statistics.
const AdminUsername = "admin"

// User represent a registered account. Password holds whatever the
// credential policy stored: the plain text or a bcrypt hash.
type User struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
