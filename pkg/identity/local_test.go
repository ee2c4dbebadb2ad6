package identity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLocalDirectoryProvisionAndVerify(t *testing.T) {
	dir := NewLocalDirectory()

	account, err := dir.CreateUser(context.Background(), "kim56789@students.local", "240314-9081", "김민준", "STUDENT")
	require.NoError(t, err)
	require.NotEmpty(t, account.ID)

	_, err = dir.CreateUser(context.Background(), "kim56789@students.local", "other", "김민준", "STUDENT")
	require.ErrorIs(t, err, ErrDuplicate)

	verified, err := dir.VerifyPassword(context.Background(), "kim56789@students.local", "240314-9081")
	require.NoError(t, err)
	require.Equal(t, account.ID, verified.ID)

	_, err = dir.VerifyPassword(context.Background(), "kim56789@students.local", "wrong")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestLocalDirectoryDeleteCompensation(t *testing.T) {
	dir := NewLocalDirectory()

	account, err := dir.CreateUser(context.Background(), "lee4321@students.local", "pw", "이서연", "STUDENT")
	require.NoError(t, err)

	require.NoError(t, dir.DeleteUser(context.Background(), account.ID))
	require.ErrorIs(t, dir.DeleteUser(context.Background(), account.ID), ErrNotFound)

	// account can be re-provisioned after the compensating delete
	_, err = dir.CreateUser(context.Background(), "lee4321@students.local", "pw", "이서연", "STUDENT")
	require.NoError(t, err)
}

func TestLocalDirectoryFailNext(t *testing.T) {
	dir := NewLocalDirectory()
	dir.FailNext(ErrUnavailable)

	_, err := dir.CreateUser(context.Background(), "park@students.local", "pw", "박지훈", "STUDENT")
	require.ErrorIs(t, err, ErrUnavailable)

	_, err = dir.CreateUser(context.Background(), "park@students.local", "pw", "박지훈", "STUDENT")
	require.NoError(t, err, "failure injection is one-shot")
}
