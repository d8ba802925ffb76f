package slugs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMake(t *testing.T) {
	testCases := []struct {
		in   string
		want string
	}{
		{"Red Kurta", "red-kurta"},
		{"Red Kurta - XL", "red-kurta-xl"},
		{"  Floral   Print ", "floral-print"},
		{"Cotton/Linen", "cotton-linen"},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, Make(tc.in))
		})
	}
}

func TestUnique(t *testing.T) {
	used := map[string]bool{"red-kurta": true, "red-kurta-2": true}

	got, err := Unique("red-kurta", func(c string) (bool, error) { return used[c], nil })
	require.NoError(t, err)
	assert.Equal(t, "red-kurta-3", got)

	got, err = Unique("blue-kurta", func(c string) (bool, error) { return used[c], nil })
	require.NoError(t, err)
	assert.Equal(t, "blue-kurta", got)
}

func TestUniquePropagatesLookupError(t *testing.T) {
	boom := errors.New("db down")
	_, err := Unique("x", func(string) (bool, error) { return false, boom })
	assert.ErrorIs(t, err, boom)
}
