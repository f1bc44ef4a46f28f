// Package auth classifies callers and decides whether an operation on a
// target subject is permitted. Roles form a closed set produced once at
// the authentication boundary; nothing downstream compares raw claim
// strings.
package auth

import "workplace-access-backend/internal/apperror"

// Role is the caller classification.
type Role string

const (
	RoleSubject Role = "subject"
	RoleAdmin   Role = "admin"
	RoleOfficer Role = "officer"
)

// ParseRole converts a token claim into a Role.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleSubject, RoleAdmin, RoleOfficer:
		return Role(s), nil
	}
	return "", apperror.Unauthorized("unknown role %q", s)
}

// Claims is the verified identity of a caller: who they are and what they
// may do. SubjectID is the user id for subjects/admins and the officer id
// for officers.
type Claims struct {
	Role      Role
	SubjectID string
}

// CanAccess reports whether the caller may read records belonging to the
// target subject. Admins and officers may read anyone; subjects only
// themselves.
func (c Claims) CanAccess(targetSubjectID string) bool {
	if c.Role == RoleAdmin || c.Role == RoleOfficer {
		return true
	}
	return c.SubjectID == targetSubjectID
}

// CanModify reports whether the caller may mutate records belonging to the
// target subject. Deliberately narrower than CanAccess: officers may read
// but not modify subject records.
func (c Claims) CanModify(targetSubjectID string) bool {
	if c.Role == RoleAdmin {
		return true
	}
	return c.SubjectID == targetSubjectID
}
