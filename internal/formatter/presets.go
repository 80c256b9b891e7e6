package formatter

import "fmt"

// Preset represents a named template for one record kind.
type Preset struct {
	Name        string
	Kind        Kind
	Template    string
	Description string
}

// PresetRegistry manages template presets.
type PresetRegistry interface {
	// Get returns a preset by name.
	Get(name string) (*Preset, error)

	// List returns all available presets.
	List() []Preset

	// Register adds a new preset.
	Register(preset Preset) error
}

type presetRegistry struct {
	presets map[string]Preset
	order   []string
}

// NewPresetRegistry creates a new preset registry with all default presets.
func NewPresetRegistry() PresetRegistry {
	registry := &presetRegistry{
		presets: make(map[string]Preset),
	}
	registry.registerDefaults()
	return registry
}

func (pr *presetRegistry) registerDefaults() {
	presets := []Preset{
		{
			Name:        "contact",
			Kind:        KindClient,
			Template:    "{{name}} <{{email}}>",
			Description: "Name and email, ready for a mail client",
		},
		{
			Name:        "csv",
			Kind:        KindClient,
			Template:    "{{id}},{{name}},{{email}},{{phone}},{{company}},{{status}}",
			Description: "Comma separated client fields",
		},
		{
			Name:        "ids",
			Kind:        KindClient,
			Template:    "{{id}}",
			Description: "Only client ids, one per line",
		},
		{
			Name:        "card",
			Kind:        KindClient,
			Template:    "{{name}} | {{company}} | {{phone}} | {{status}}",
			Description: "Short contact card",
		},
		{
			Name:        "journal",
			Kind:        KindEntry,
			Template:    "{{dispatched-at}} [{{mode}}] {{title}} ({{sent-count}}/{{recipient-count}})",
			Description: "Dispatch time, mode, title and delivery ratio",
		},
		{
			Name:        "recipients",
			Kind:        KindEntry,
			Template:    "{{id}} {{recipients}}",
			Description: "Journal id followed by the targeted client ids",
		},
	}

	for _, preset := range presets {
		pr.presets[preset.Name] = preset
		pr.order = append(pr.order, preset.Name)
	}
}

// Get returns a preset by name, or an error if not found.
func (pr *presetRegistry) Get(name string) (*Preset, error) {
	preset, ok := pr.presets[name]
	if !ok {
		return nil, fmt.Errorf("preset not found: %s", name)
	}
	return &preset, nil
}

// List returns all available presets in registration order.
func (pr *presetRegistry) List() []Preset {
	result := make([]Preset, 0, len(pr.order))
	for _, name := range pr.order {
		result = append(result, pr.presets[name])
	}
	return result
}

// Register adds a new preset or overwrites an existing one.
func (pr *presetRegistry) Register(preset Preset) error {
	if preset.Name == "" {
		return fmt.Errorf("preset name cannot be empty")
	}
	if preset.Template == "" {
		return fmt.Errorf("preset template cannot be empty")
	}
	if err := NewTemplateEngine().ValidateTemplate(preset.Template, preset.Kind); err != nil {
		return fmt.Errorf("preset %s: %w", preset.Name, err)
	}

	if _, exists := pr.presets[preset.Name]; !exists {
		pr.order = append(pr.order, preset.Name)
	}
	pr.presets[preset.Name] = preset
	return nil
}

// Resolve returns the template for value: a preset name of the wanted kind,
// or value itself when no preset matches.
func Resolve(registry PresetRegistry, value string, kind Kind) (string, error) {
	preset, err := registry.Get(value)
	if err != nil {
		return value, nil
	}
	if preset.Kind != kind {
		return "", fmt.Errorf("preset %s renders %s records, not %s", preset.Name, preset.Kind, kind)
	}
	return preset.Template, nil
}
