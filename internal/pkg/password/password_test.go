package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prn-tf/recipebook/internal/apperr"
)

// newTestHasher uses minimal cost parameters.
func newTestHasher() *Hasher {
	return NewHasher(Params{Time: 1, Memory: 1024, Threads: 1})
}

func TestHashPassword_RoundTrip(t *testing.T) {
	h := newTestHasher()
	salt := h.GenerateSalt()

	res := h.HashPassword("correct horse battery", salt)
	require.True(t, res.IsSuccessful())
	hashed := res.Value()
	require.Equal(t, salt, hashed.Salt)
	require.True(t, strings.HasPrefix(hashed.Hash, "$argon2id$v=19$m=1024,t=1,p=1$"))

	assert.True(t, h.VerifyPassword(hashed.Hash, "correct horse battery", salt))
	assert.False(t, h.VerifyPassword(hashed.Hash, "wrong horse battery", salt))
	assert.False(t, h.VerifyPassword(hashed.Hash, "correct horse battery", h.GenerateSalt()))
}

func TestHashPassword_GeneratesSaltWhenEmpty(t *testing.T) {
	h := newTestHasher()

	a := h.HashPassword("s3cret-pass", "").Value()
	b := h.HashPassword("s3cret-pass", "").Value()
	require.NotEmpty(t, a.Salt)
	require.NotEqual(t, a.Salt, b.Salt)
	require.NotEqual(t, a.Hash, b.Hash)
}

func TestHashPassword_Length(t *testing.T) {
	h := newTestHasher()

	tests := []struct {
		name  string
		plain string
		ok    bool
	}{
		{"too short", "1234567", false},
		{"minimum", "12345678", true},
		{"too long", strings.Repeat("a", MaxLength+1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := h.HashPassword(tt.plain, "salt")
			require.Equal(t, tt.ok, res.IsSuccessful())
			if !tt.ok {
				require.Equal(t, apperr.TypeValidation, res.Err().Type)
				require.Contains(t, res.ValidationErrors(), "password")
			}
		})
	}
}

func TestVerifyPassword_ParamsTravelWithHash(t *testing.T) {
	old := NewHasher(Params{Time: 1, Memory: 1024, Threads: 1})
	hashed := old.HashPassword("long enough", "salt").Value()

	upgraded := NewHasher(Params{Time: 2, Memory: 2048, Threads: 2})
	require.True(t, upgraded.VerifyPassword(hashed.Hash, "long enough", "salt"))
}

func TestVerifyPassword_Malformed(t *testing.T) {
	h := newTestHasher()

	for _, stored := range []string{"", "plain", "$argon2i$v=19$m=1,t=1,p=1$AAAA", "$argon2id$v=18$m=1,t=1,p=1$AAAA", "$argon2id$v=19$m=1,t=1,p=1$"} {
		assert.False(t, h.VerifyPassword(stored, "whatever", "salt"), stored)
	}
}
