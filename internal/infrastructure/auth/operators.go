package auth

import (
	"errors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/returnhub/backend/internal/infrastructure/config"
)

// ErrBadCredentials is returned for unknown usernames and wrong passwords
// alike, so login failures leak nothing about which operators exist.
var ErrBadCredentials = errors.New("invalid username or password")

// DefaultOperatorRole is the role claim for operators without a
// configured role.
const DefaultOperatorRole = "operator"

// Operator is a config-defined login identity
type Operator struct {
	ID       uuid.UUID
	Username string
	Role     string
}

// OperatorRegistry authenticates operators against the bcrypt hashes from
// configuration. There is no user table: the hub's staff roster is small
// and managed through deployment config, like the supervisor credentials.
type OperatorRegistry struct {
	hashes map[string]string
	roles  map[string]string
}

// NewOperatorRegistry creates a new OperatorRegistry
func NewOperatorRegistry(cfg config.AuthConfig) *OperatorRegistry {
	return &OperatorRegistry{
		hashes: cfg.Operators,
		roles:  cfg.Roles,
	}
}

// Authenticate verifies an operator's password and returns its identity
func (r *OperatorRegistry) Authenticate(username, password string) (Operator, error) {
	hash := r.hashes[username]
	if hash == "" {
		return Operator{}, ErrBadCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return Operator{}, ErrBadCredentials
	}

	role := r.roles[username]
	if role == "" {
		role = DefaultOperatorRole
	}
	return Operator{
		ID:       operatorID(username),
		Username: username,
		Role:     role,
	}, nil
}

// operatorID derives a stable UUID for a config-defined operator, so the
// same username keeps the same user_id claim across restarts.
func operatorID(username string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("returnhub-operator:"+username))
}
