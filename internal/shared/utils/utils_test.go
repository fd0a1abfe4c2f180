package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrimToNil(t *testing.T) {
	str := func(s string) *string { return &s }

	cases := []struct {
		name string
		in   *string
		want *string
	}{
		{"nil stays nil", nil, nil},
		{"empty becomes nil", str(""), nil},
		{"whitespace only becomes nil", str("   \t"), nil},
		{"value is trimmed", str("  ABC-1  "), str("ABC-1")},
		{"clean value passes through", str("Widget"), str("Widget")},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := TrimToNil(tc.in)
			if tc.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tc.want, *got)
		})
	}
}

func TestTrimToNilCopies(t *testing.T) {
	in := "  raw  "
	out := TrimToNil(&in)
	require.NotNil(t, out)
	assert.Equal(t, "raw", *out)
	assert.Equal(t, "  raw  ", in)
}
