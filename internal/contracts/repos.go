package contracts

import (
	"invest/internal/contracts/audit"
	"invest/internal/contracts/passkeys"
	"invest/internal/contracts/users"
)

// Repos groups feature-specific repositories for injection into services and handlers.
type Repos struct {
	Users    users.Repository
	Audit    audit.Repository
	Passkeys passkeys.Repository
}
