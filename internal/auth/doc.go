// Package auth implements the role-based access control (RBAC) core.
//
// Roles, actions, and resources are closed sets defined at compile time.
// The role to permission mapping is a fixed configuration table loaded once
// at process start and never mutated; granting a new permission means
// changing this package and redeploying, not calling an API.
package auth
