// Package auth provides authentication and authorisation for the Online
// School API.
//
// It implements a 2-role model (User, Admin) with:
//   - PBKDF2-SHA256 password hashing (100k iterations, per-credential salt)
//   - JWT access tokens (HS256) carrying identity and permission claims
//   - Role→permission resolution with config override and built-in defaults
//   - An ordered chain of credential providers (students, staff, bootstrap)
//
// Permission resolution fails closed: a misconfigured or unknown role
// degrades to the built-in defaults or the empty set, never to an error
// and never to broader access. Authorisation is stateless — every request
// is decided solely from the signed token it presents.
package auth
