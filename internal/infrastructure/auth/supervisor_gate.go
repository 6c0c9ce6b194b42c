package auth

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/returnhub/backend/internal/domain/shared"
	"github.com/returnhub/backend/internal/infrastructure/config"
)

// BcryptSupervisorGate verifies supervisor credentials against configured
// bcrypt hashes. Reversal and destructive operations use separate credentials.
type BcryptSupervisorGate struct {
	reversalHash    []byte
	destructiveHash []byte
}

// NewBcryptSupervisorGate creates a gate from the supervisor config
func NewBcryptSupervisorGate(cfg config.SupervisorConfig) *BcryptSupervisorGate {
	return &BcryptSupervisorGate{
		reversalHash:    []byte(cfg.ReversalHash),
		destructiveHash: []byte(cfg.DestructiveHash),
	}
}

// VerifyReversal checks the credential gating status rollbacks
func (g *BcryptSupervisorGate) VerifyReversal(credential string) error {
	return verify(g.reversalHash, credential)
}

// VerifyDestructive checks the credential gating deletes
func (g *BcryptSupervisorGate) VerifyDestructive(credential string) error {
	return verify(g.destructiveHash, credential)
}

func verify(hash []byte, credential string) error {
	if len(hash) == 0 {
		// An unset hash locks the operation rather than opening it
		return shared.ErrForbidden
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(credential)); err != nil {
		return shared.ErrForbidden
	}
	return nil
}
