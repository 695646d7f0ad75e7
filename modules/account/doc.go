// Package account owns sign-in and sign-out. Login verifies bcrypt
// credentials and binds only the user id to the session; the privileges
// behind that id are re-read on every request by the identity resolver.
package account
