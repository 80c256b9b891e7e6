package formatter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresetRegistry_Defaults(t *testing.T) {
	registry := NewPresetRegistry()
	engine := NewTemplateEngine()

	presets := registry.List()
	require.Len(t, presets, 6)
	assert.Equal(t, "contact", presets[0].Name)

	for _, p := range presets {
		t.Run(p.Name, func(t *testing.T) {
			assert.NotEmpty(t, p.Description)
			assert.NoError(t, engine.ValidateTemplate(p.Template, p.Kind))
		})
	}
}

func TestPresetRegistry_Get(t *testing.T) {
	registry := NewPresetRegistry()

	p, err := registry.Get("ids")
	require.NoError(t, err)
	assert.Equal(t, "{{id}}", p.Template)

	_, err = registry.Get("missing")
	assert.EqualError(t, err, "preset not found: missing")
}

func TestPresetRegistry_Register(t *testing.T) {
	registry := NewPresetRegistry()

	require.NoError(t, registry.Register(Preset{Name: "phones", Kind: KindClient, Template: "{{phone}}"}))
	require.NoError(t, registry.Register(Preset{Name: "ids", Kind: KindClient, Template: "#{{id}}"}))

	presets := registry.List()
	assert.Len(t, presets, 7)
	assert.Equal(t, "phones", presets[6].Name)

	p, err := registry.Get("ids")
	require.NoError(t, err)
	assert.Equal(t, "#{{id}}", p.Template)

	assert.Error(t, registry.Register(Preset{Template: "{{id}}", Kind: KindClient}))
	assert.Error(t, registry.Register(Preset{Name: "empty", Kind: KindClient}))
	assert.Error(t, registry.Register(Preset{Name: "bad", Kind: KindEntry, Template: "{{email}}"}))
}

func TestResolve(t *testing.T) {
	registry := NewPresetRegistry()

	tmpl, err := Resolve(registry, "contact", KindClient)
	require.NoError(t, err)
	assert.Equal(t, "{{name}} <{{email}}>", tmpl)

	tmpl, err = Resolve(registry, "{{phone}}", KindClient)
	require.NoError(t, err)
	assert.Equal(t, "{{phone}}", tmpl)

	_, err = Resolve(registry, "journal", KindClient)
	assert.Error(t, err)
}
