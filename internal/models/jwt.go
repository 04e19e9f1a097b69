package models

import "github.com/golang-jwt/jwt/v5"

// Claims is the JWT payload issued on login and checked by the auth
// middleware and the websocket handshakes.
type Claims struct {
	ID        uint   `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	jwt.RegisteredClaims
}
