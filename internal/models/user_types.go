package models

import (
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// MaalemProfile is the model for the 'maalem_profiles' table.
// A maalem is a craftsman/provider who lists items for sale.
type MaalemProfile struct {
	ID               int64   `json:"id_maalem" db:"id_maalem"`
	Firstname        string  `json:"firstname" db:"firstname"`
	Lastname         string  `json:"lastname" db:"lastname"`
	Address          string  `json:"address" db:"address"`
	Rating           float64 `json:"rating" db:"rating"`
	IsManagedByAdmin bool    `json:"is_managed_by_admin" db:"is_managed_by_admin"`
	PhoneNumber      string  `json:"phoneNumber" db:"phone_number"`
}

// ClientProfile is the model for the 'client_profiles' table.
type ClientProfile struct {
	ID          int64     `json:"client_id" db:"client_id"`
	Firstname   string    `json:"firstname" db:"firstname"`
	Lastname    string    `json:"lastname" db:"lastname"`
	DateJoined  time.Time `json:"date_joined" db:"date_joined"`
	Address     string    `json:"address" db:"address"`
	PhoneNumber string    `json:"phoneNumber" db:"phone_number"`
}

// AdminProfile is the model for the 'admin_profiles' table.
// The password column stores a bcrypt hash, never the plaintext.
type AdminProfile struct {
	ID           int64  `json:"admin_id" db:"admin_id"`
	Username     string `json:"username" db:"username"`
	PasswordHash string `json:"-" db:"password"`
}

// Password Helper (Standard)
type Password struct {
	Plaintext *string
	Hash      string
}

func (p *Password) Set(plaintextPassword string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintextPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	p.Hash = string(hash)
	p.Plaintext = &plaintextPassword
	return nil
}

func (p *Password) Matches(plaintextPassword string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(p.Hash), []byte(plaintextPassword))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
