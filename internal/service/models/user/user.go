package user

import "strconv"

// User is the local shadow record of an identity managed by the external
// auth service. The ID is issued by that service, never generated locally.
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// PlaceholderName fills a shadow record provisioned on first authenticated
// request, before the user ever registers locally.
const PlaceholderName = "User"

// PlaceholderEmail is unique per identity so shadow provisioning never
// collides with the unique constraint on users.email.
func PlaceholderEmail(id int64) string {
	return "user" + strconv.FormatInt(id, 10) + "@example.com"
}
