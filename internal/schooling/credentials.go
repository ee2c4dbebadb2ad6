// Package schooling holds the academy's derivation rules for student
// credentials and school grades.
package schooling

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Gender of a student, used for the initial password digit.
type Gender string

// Recognised genders.
const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
)

// Valid reports whether the gender is recognised.
func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale
}

// Credentials is a derived login identifier and initial password for a
// newly registered student.
type Credentials struct {
	LoginID  string
	Password string
}

var (
	// ErrShortPhone indicates the phone number carries fewer than the five
	// digits required for the login identifier.
	ErrShortPhone = errors.New("phone number must contain at least five digits")
	// ErrInvalidGender indicates an unrecognised gender value.
	ErrInvalidGender = errors.New("gender must be MALE or FEMALE")
	// ErrEmptyName indicates a blank student name.
	ErrEmptyName = errors.New("name must not be empty")
)

// GenerateCredentials derives the login identifier and initial password for
// a student. The login identifier is the name followed by the last five
// digits of the phone number; the password is the birth date as YYMMDD plus
// a gender digit (3 for male, 4 for female). The derivation is
// deterministic: two students with the same name and phone tail collide,
// which the persistence layer must reject as a duplicate.
func GenerateCredentials(name, phone string, birthDate time.Time, gender Gender) (Credentials, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Credentials{}, ErrEmptyName
	}
	if !gender.Valid() {
		return Credentials{}, ErrInvalidGender
	}

	digits := digitsOnly(phone)
	if len(digits) < 5 {
		return Credentials{}, ErrShortPhone
	}

	genderDigit := "3"
	if gender == GenderFemale {
		genderDigit = "4"
	}

	return Credentials{
		LoginID:  name + digits[len(digits)-5:],
		Password: fmt.Sprintf("%02d%02d%02d%s", birthDate.Year()%100, int(birthDate.Month()), birthDate.Day(), genderDigit),
	}, nil
}

func digitsOnly(value string) string {
	var b strings.Builder
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
