package schooling

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func date(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

func TestGenerateCredentialsLoginID(t *testing.T) {
	creds, err := GenerateCredentials("Kim", "010-1234-56789", date(2012, 3, 1), GenderMale)
	require.NoError(t, err)
	require.Equal(t, "Kim56789", creds.LoginID)
}

func TestGenerateCredentialsPassword(t *testing.T) {
	passwordPattern := regexp.MustCompile(`^\d{6}[34]$`)

	cases := []struct {
		birth    time.Time
		gender   Gender
		expected string
	}{
		{date(2012, 3, 1), GenderMale, "1203013"},
		{date(2012, 3, 1), GenderFemale, "1203014"},
		{date(2009, 12, 25), GenderMale, "0912253"},
		{date(2015, 1, 5), GenderFemale, "1501054"},
	}
	for _, tc := range cases {
		creds, err := GenerateCredentials("Park", "01098765432", tc.birth, tc.gender)
		require.NoError(t, err)
		require.Equal(t, tc.expected, creds.Password)
		require.Len(t, creds.Password, 7)
		require.Regexp(t, passwordPattern, creds.Password)
	}
}

func TestGenerateCredentialsStripsNonDigits(t *testing.T) {
	creds, err := GenerateCredentials("Lee", "+82 (10) 5555-1234", date(2010, 6, 15), GenderFemale)
	require.NoError(t, err)
	require.Equal(t, "Lee51234", creds.LoginID)
}

func TestGenerateCredentialsShortPhone(t *testing.T) {
	_, err := GenerateCredentials("Choi", "123-4", date(2010, 6, 15), GenderMale)
	require.ErrorIs(t, err, ErrShortPhone)
}

func TestGenerateCredentialsValidation(t *testing.T) {
	_, err := GenerateCredentials("  ", "0101234567", date(2010, 6, 15), GenderMale)
	require.ErrorIs(t, err, ErrEmptyName)

	_, err = GenerateCredentials("Choi", "0101234567", date(2010, 6, 15), Gender("OTHER"))
	require.ErrorIs(t, err, ErrInvalidGender)
}

func TestGenerateCredentialsDeterministic(t *testing.T) {
	first, err := GenerateCredentials("Kim", "010-1234-5678", date(2011, 7, 7), GenderMale)
	require.NoError(t, err)
	second, err := GenerateCredentials("Kim", "010-1234-5678", date(2011, 7, 7), GenderMale)
	require.NoError(t, err)
	require.Equal(t, first, second)
}
