package identity

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// LocalDirectory is an in-process Client used in development and tests.
// Passwords are bcrypt-hashed so the surface behaves like the real
// directory, minus the network.
type LocalDirectory struct {
	mu       sync.Mutex
	next     int
	byEmail  map[string]*localAccount
	byID     map[string]*localAccount
	failNext error
}

type localAccount struct {
	id    string
	email string
	hash  []byte
}

// NewLocalDirectory constructs an empty local directory.
func NewLocalDirectory() *LocalDirectory {
	return &LocalDirectory{
		byEmail: make(map[string]*localAccount),
		byID:    make(map[string]*localAccount),
	}
}

// FailNext makes the next call return err, for exercising compensation
// paths in tests.
func (d *LocalDirectory) FailNext(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.failNext = err
}

func (d *LocalDirectory) takeFailure() error {
	err := d.failNext
	d.failNext = nil
	return err
}

func (d *LocalDirectory) CreateUser(_ context.Context, email, password, _, _ string) (Account, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.takeFailure(); err != nil {
		return Account{}, err
	}

	if _, ok := d.byEmail[email]; ok {
		return Account{}, ErrDuplicate
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Account{}, fmt.Errorf("identity: hash password: %w", err)
	}

	d.next++
	account := &localAccount{
		id:    fmt.Sprintf("local-%d", d.next),
		email: email,
		hash:  hash,
	}
	d.byEmail[email] = account
	d.byID[account.id] = account

	return Account{ID: account.id, Email: account.email}, nil
}

func (d *LocalDirectory) DeleteUser(_ context.Context, accountID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.takeFailure(); err != nil {
		return err
	}

	account, ok := d.byID[accountID]
	if !ok {
		return ErrNotFound
	}

	delete(d.byID, accountID)
	delete(d.byEmail, account.email)
	return nil
}

func (d *LocalDirectory) VerifyPassword(_ context.Context, email, password string) (Account, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.takeFailure(); err != nil {
		return Account{}, err
	}

	account, ok := d.byEmail[email]
	if !ok {
		return Account{}, ErrNotFound
	}

	if err := bcrypt.CompareHashAndPassword(account.hash, []byte(password)); err != nil {
		return Account{}, ErrNotFound
	}

	return Account{ID: account.id, Email: account.email}, nil
}
