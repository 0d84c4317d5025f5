// Package admin decides which callers may mutate the catalog.
//
// Admin rights come from a small table of shared codes, each mapped to the
// display name actions are attributed to. A caller becomes an admin by
// submitting a code; the code is stored on their user record and checked
// against the table on every privileged call, so removing a code from the
// configuration demotes every user holding it.
package admin

import (
	"context"
	"errors"
	"fmt"

	"gamecatalog/backend/internal/identity"
	"gamecatalog/backend/internal/models"
	"gamecatalog/backend/internal/store"

	"github.com/sirupsen/logrus"
)

var (
	ErrUnauthenticated = errors.New("you must sign in first")
	ErrInvalidCode     = errors.New("invalid admin code")
)

// CodeTable maps an admin code to the display name of its holder.
type CodeTable map[string]string

// Lookup returns the display name for code.
func (t CodeTable) Lookup(code string) (string, bool) {
	name, ok := t[code]
	return name, ok
}

// Info identifies an admin caller.
type Info struct {
	UserID uint
	Code   string
	Name   string
}

// UserStore is the subset of user persistence the gate needs.
type UserStore interface {
	FindByID(ctx context.Context, id uint) (*models.User, error)
	SetAdminCode(ctx context.Context, id uint, code string) error
}

// Gate resolves callers to admin identities.
type Gate struct {
	users UserStore
	codes CodeTable
}

func NewGate(users UserStore, codes CodeTable) *Gate {
	table := make(CodeTable, len(codes))
	for code, name := range codes {
		table[code] = name
	}
	return &Gate{users: users, codes: table}
}

// ResolveAdmin returns the caller's admin identity, or nil if the caller is
// anonymous to the gate, unknown, or holds no valid code.
func (g *Gate) ResolveAdmin(ctx context.Context, caller *identity.Caller) (*Info, error) {
	if caller == nil {
		return nil, nil
	}

	user, err := g.users.FindByID(ctx, caller.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("resolve admin for user %d: %w", caller.UserID, err)
	}
	if user.AdminCode == nil {
		return nil, nil
	}

	name, ok := g.codes.Lookup(*user.AdminCode)
	if !ok {
		return nil, nil
	}
	return &Info{UserID: user.ID, Code: *user.AdminCode, Name: name}, nil
}

// VerifyAndAssignCode stores code on the caller's record if it is a valid
// admin code and returns the associated display name. Submitting the same or
// another valid code again simply overwrites the stored one.
func (g *Gate) VerifyAndAssignCode(ctx context.Context, caller *identity.Caller, code string) (string, error) {
	if caller == nil {
		return "", ErrUnauthenticated
	}
	logCtx := logrus.WithField("user_id", caller.UserID)

	name, ok := g.codes.Lookup(code)
	if !ok {
		logCtx.Warn("Admin code verification failed: unknown code")
		return "", ErrInvalidCode
	}

	if err := g.users.SetAdminCode(ctx, caller.UserID, code); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrUnauthenticated
		}
		return "", fmt.Errorf("assign admin code: %w", err)
	}

	logCtx.WithField("admin_name", name).Info("Admin code verified")
	return name, nil
}
