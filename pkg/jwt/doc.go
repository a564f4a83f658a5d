// Package jwt issues and verifies the HS256 access tokens that carry user
// identity between the auth collaborator and this service. Both the HTTP
// middleware and the realtime bridge verify tokens through the same Service,
// so the two entry points can never disagree about who a caller is.
package jwt
