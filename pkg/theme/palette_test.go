package theme_test

import (
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"

	"github.com/Dicklesworthstone/egograph/pkg/theme"
)

func TestParseScheme(t *testing.T) {
	assert.Equal(t, theme.Dark, theme.ParseScheme(" DARK "))
	assert.Equal(t, theme.Light, theme.ParseScheme("light"))
	assert.Equal(t, theme.Auto, theme.ParseScheme("solarized"))
}

func TestResolveExplicit(t *testing.T) {
	assert.Equal(t, theme.Dark, theme.Resolve(theme.Dark).Name)
	assert.Equal(t, theme.Light, theme.Resolve(theme.Light).Name)
	assert.NotEqual(t, theme.Resolve(theme.Dark).Current, theme.Resolve(theme.Dark).Default)
}

func TestWithOverrides(t *testing.T) {
	p := theme.Resolve(theme.Light).WithOverrides(map[string]string{
		"current": "#ff0000",
		"bogus":   "#00ff00",
		"visited": "not-a-color",
	})
	want, _ := colorful.Hex("#ff0000")
	assert.Equal(t, want, p.Current)
	assert.Equal(t, theme.Resolve(theme.Light).Visited, p.Visited)
}

func TestFadeAndRGBA(t *testing.T) {
	white, _ := colorful.Hex("#ffffff")
	black, _ := colorful.Hex("#000000")

	assert.Equal(t, "#ffffff", theme.Fade(white, black, 1).Hex())
	assert.Equal(t, "#000000", theme.Fade(white, black, 0).Hex())
	assert.Equal(t, "#000000", theme.Fade(white, black, -3).Hex(), "alpha is clamped")

	c := theme.RGBA(white, 0.5)
	assert.Equal(t, uint8(255), c.R)
	assert.Equal(t, uint8(128), c.A)
	assert.Equal(t, uint8(255), theme.RGBA(white, 7).A)
}
