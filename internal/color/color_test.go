package color

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixtures(t *testing.T) {
	tests := []struct {
		name string
		fn   func() (string, error)
		want string
	}{
		{"alpha white", func() (string, error) { return Alpha("#ffffff", 0.2) }, "#fff3"},
		{"contrast blue", func() (string, error) { return Contrast("#007bff") }, "#fff"},
		{"darker blue", func() (string, error) { return Darker("#007bff", 0.1) }, "#0062cc"},
		{"contrast yellow", func() (string, error) { return Contrast("#ffeb3b") }, "#000"},
		{"lighter black", func() (string, error) { return Lighter("#000", 0.2) }, "#333"},
		{"darker clamps", func() (string, error) { return Darker("#333", 2) }, "#000"},
		{"alpha keeps long form", func() (string, error) { return Alpha("#007bff", 0.5) }, "#007bff80"},
		{"alpha opaque", func() (string, error) { return Alpha("#abc", 1) }, "#abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.fn()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMinify(t *testing.T) {
	tests := []struct {
		r, g, b, a uint8
		want       string
	}{
		{0xff, 0xff, 0xff, 0xff, "#fff"},
		{0x11, 0x22, 0x33, 0x44, "#1234"},
		{0x12, 0x22, 0x33, 0xff, "#122233"},
		{0x11, 0x22, 0x33, 0x45, "#11223345"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Minify(tt.r, tt.g, tt.b, tt.a))
	}
}

func TestParse(t *testing.T) {
	c, err := Parse("#11223380")
	require.NoError(t, err)
	r, g, b := c.RGB255()
	assert.Equal(t, []uint8{0x11, 0x22, 0x33}, []uint8{r, g, b})
	assert.InDelta(t, 128.0/255, c.A, 1e-9)

	_, err = Parse("#12345")
	assert.Error(t, err)
	_, err = Parse("#zzzzzz")
	assert.Error(t, err)
}

func TestValidateThemeHex(t *testing.T) {
	for _, ok := range []string{"#fff", "#007BFF"} {
		assert.NoError(t, ValidateThemeHex(ok), ok)
	}
	for _, bad := range []string{"fff", "#ffff", "#ffffff80", "red", "#ggg"} {
		assert.Error(t, ValidateThemeHex(bad), bad)
	}
}

func TestContrastOptimal(t *testing.T) {
	got, err := ContrastOptimal("#007bff", ContrastOptions{})
	require.NoError(t, err)
	assert.Equal(t, "#000", got)

	got, err = ContrastOptimal("#111111", ContrastOptions{Dark: "#222222", Light: "#eeeeee"})
	require.NoError(t, err)
	assert.Equal(t, "#eee", got)
}

func TestSaturatedDarker(t *testing.T) {
	got, err := SaturatedDarker("#808080", 0.1)
	require.NoError(t, err)
	plain, err := Darker("#808080", 0.1)
	require.NoError(t, err)
	assert.NotEqual(t, plain, got)
}
