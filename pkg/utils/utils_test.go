package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSecureFilename(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"My cool movie.mov", "My_cool_movie.mov"},
		{"../../../etc/passwd", "etc_passwd"},
		{`C:\Users\me\voice memo.m4a`, "C_Users_me_voice_memo.m4a"},
		{"i contain cool ümläuts.txt", "i_contain_cool_umlauts.txt"},
		{"récording (1).webm", "recording_1.webm"},
		{"日本語", ""},
		{"...", ""},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			assert.Equal(t, c.want, SecureFilename(c.in))
		})
	}
}

func TestContentHash(t *testing.T) {
	a := ContentHash("On 2024-01-01: A")
	assert.Len(t, a, 32)
	assert.Equal(t, a, ContentHash("On 2024-01-01: A"))
	assert.NotEqual(t, a, ContentHash("On 2024-01-01: B"))
}
