package models

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents the application user account. Addresses are stored inline
// and have no identity of their own.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"passwordHash" json:"-"`
	Name         string             `bson:"name" json:"name"`
	Phone        string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Role         string             `bson:"role" json:"role"`
	Addresses    []Address          `bson:"addresses" json:"addresses"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// DefaultAddress returns the address flagged as default, if any.
func (u User) DefaultAddress() (Address, bool) {
	for _, a := range u.Addresses {
		if a.IsDefault {
			return a, true
		}
	}
	return Address{}, false
}

var ErrAddressIndex = errors.New("address index out of range")

// AddAddress appends a to the address book and returns its position.
func (u *User) AddAddress(a Address) int {
	u.Addresses = append(u.Addresses, a)
	i := len(u.Addresses) - 1
	u.settleDefault(i)
	return i
}

// ReplaceAddress overwrites the address at position i.
func (u *User) ReplaceAddress(i int, a Address) error {
	if i < 0 || i >= len(u.Addresses) {
		return ErrAddressIndex
	}
	u.Addresses[i] = a
	u.settleDefault(i)
	return nil
}

// RemoveAddress deletes the address at position i. Later addresses move up
// one position.
func (u *User) RemoveAddress(i int) error {
	if i < 0 || i >= len(u.Addresses) {
		return ErrAddressIndex
	}
	u.Addresses = append(u.Addresses[:i], u.Addresses[i+1:]...)
	u.settleDefault(-1)
	return nil
}

// settleDefault keeps exactly one default in a non-empty address book.
// The address at changed wins when it is flagged default; otherwise an
// existing default is kept, falling back to the first address.
func (u *User) settleDefault(changed int) {
	if len(u.Addresses) == 0 {
		return
	}

	keep := -1
	if changed >= 0 && u.Addresses[changed].IsDefault {
		keep = changed
	} else {
		for i, a := range u.Addresses {
			if a.IsDefault {
				keep = i
				break
			}
		}
	}
	if keep < 0 {
		keep = 0
	}

	for i := range u.Addresses {
		u.Addresses[i].IsDefault = i == keep
	}
}
