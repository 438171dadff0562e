package sanitization

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFileNameSanitizer(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "diagram title is unchanged",
			input: "AWS Architecture Diagram - 2024-01-02",
			want:  "AWS Architecture Diagram - 2024-01-02",
		},
		{
			name:  "path traversal",
			input: "../../etc/passwd",
			want:  "_.._etc_passwd",
		},
		{
			name:  "reserved characters",
			input: `a:b*c?"d"<e>|f\g`,
			want:  "a_b_c_d_e_f_g",
		},
		{
			name:  "control characters and trailing dots",
			input: "title\x00\n. ",
			want:  "title",
		},
		{
			name:  "empty",
			input: "",
			want:  "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FileNameSanitizer.Apply(tt.input))
		})
	}
}

func TestSanitizer_MaxLength(t *testing.T) {
	assert := assert.New(t)

	s := NewSanitizer().WithMaxLength(5)
	assert.Equal("abcde", s.Apply("abcdefgh"))
	assert.Equal("abcd", s.Apply("abcdé"), "never cuts inside a rune")
	assert.Equal(200, len(FileNameSanitizer.Apply(strings.Repeat("x", 300))))
}
