package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims is the payload of the bearer token handed out on admission.
// The registered ID claim carries the server-side session identifier.
type SessionClaims struct {
	UID        string `json:"uid"`
	Email      string `json:"email"`
	EmployeeID string `json:"employee_id"`
	jwt.RegisteredClaims
}

// SessionInfo describes an admitted session in responses.
type SessionInfo struct {
	Token      string    `json:"token"`
	ExpiresAt  time.Time `json:"expiresAt"`
	Identity   Identity  `json:"identity"`
	EmployeeID string    `json:"employeeId"`
	Employee   *Employee `json:"employee,omitempty"`
}
