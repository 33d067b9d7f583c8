//go:generate go run go.uber.org/mock/mockgen -source=membership.go -destination=../mocks/mock_membership.go -package=mocks
package model

import (
	"context"
	"fmt"
)

type (
	// Namespace separates the banned set from the admin set inside one key space.
	Namespace string

	// MembershipStore is a boolean set per namespace, keyed by Telegram user id.
	// Implementations must be safe for concurrent use. Writes to the same key
	// are last-write-wins.
	MembershipStore interface {
		Exists(ctx context.Context, ns Namespace, id int64) (bool, error)
		Put(ctx context.Context, ns Namespace, id int64, attrs Attributes) error
		Delete(ctx context.Context, ns Namespace, id int64) error
	}

	// Attributes are stored alongside a membership. Username is the one seen
	// at ban time and is never re-validated.
	Attributes struct {
		Username string `json:"username,omitempty" db:"username"`
	}
)

const (
	NamespaceUser  Namespace = "user"
	NamespaceAdmin Namespace = "admin"
)

// Key builds the composite primary key, e.g. "user_42".
func Key(ns Namespace, id int64) string {
	return fmt.Sprintf("%s_%d", ns, id)
}
