package security

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  error
	}{
		{
			name:     "valid with punctuation",
			password: "Abcdefgh1!",
			wantErr:  nil,
		},
		{
			name:     "valid at max length",
			password: "Abcdefghi@12",
			wantErr:  nil,
		},
		{
			// 12 characters but 13 bytes; length is counted in characters.
			name:     "valid with multibyte letter at max length",
			password: "Àbcdefghij1!",
			wantErr:  nil,
		},
		{
			name:     "empty",
			password: "",
			wantErr:  ErrPasswordMissing,
		},
		{
			name:     "too short",
			password: "Abcdef1!",
			wantErr:  ErrPasswordLength,
		},
		{
			name:     "too long",
			password: "Abcdefghijk1!",
			wantErr:  ErrPasswordLength,
		},
		{
			name:     "no uppercase",
			password: "abcdefgh1!",
			wantErr:  ErrPasswordUppercase,
		},
		{
			name:     "no lowercase",
			password: "ABCDEFGH1!",
			wantErr:  ErrPasswordLowercase,
		},
		{
			name:     "no special character",
			password: "Abcdefgh12",
			wantErr:  ErrPasswordSpecialChar,
		},
		{
			name:     "length reported before missing uppercase",
			password: "abcdefgh",
			wantErr:  ErrPasswordLength,
		},
		{
			name:     "uppercase reported before missing special",
			password: "abcdefgh12",
			wantErr:  ErrPasswordUppercase,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("Abcdefgh1!")
	require.NoError(t, err)
	require.NotEqual(t, "Abcdefgh1!", hash)

	require.True(t, VerifyPassword(hash, "Abcdefgh1!"))
	require.False(t, VerifyPassword(hash, "Abcdefgh1?"))
}
