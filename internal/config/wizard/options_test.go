package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresetByValue(t *testing.T) {
	p, ok := PresetByValue("pixi")
	require.True(t, ok)
	assert.Equal(t, "pixi.toml", p.Manifest)

	_, ok = PresetByValue("brew")
	assert.False(t, ok)
}

func TestOptions(t *testing.T) {
	assert.Len(t, ManagerPresetsToOptions(), len(ManagerPresets))
	assert.Len(t, AuxToolsToOptions(), len(AuxTools))

	opts := PackagesToOptions()
	require.Len(t, opts, len(Packages))
	for i, opt := range opts {
		assert.Equal(t, Packages[i].Value, opt.Value)
	}
}

func TestDefaultPackagesAreOffered(t *testing.T) {
	offered := make(map[string]bool)
	for _, p := range Packages {
		offered[p.Value] = true
	}
	for _, p := range DefaultPackages {
		assert.True(t, offered[p], "default package %s must be offered", p)
	}
}
