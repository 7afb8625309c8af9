package facets

// DocumentFormat identifies the representation a controls document encodes.
type DocumentFormat string

const (
	// FormatControls represents the flat per-dimension control descriptors.
	FormatControls DocumentFormat = "controls"
	// FormatJSONSchema represents control descriptors enriched with a
	// JSON-Schema description of the record shape.
	FormatJSONSchema DocumentFormat = "jsonschema"
)

// OptionState describes one configured option of one control.
type OptionState struct {
	Value     any    `json:"value"`
	Label     string `json:"label"`
	Available bool   `json:"available"`
	Count     int    `json:"count"`
	Selected  bool   `json:"selected"`
}

// Control describes one dimension for a rendering collaborator.
type Control struct {
	Name      string        `json:"name"`
	Label     string        `json:"label"`
	Field     string        `json:"field,omitempty"`
	Selection Selection     `json:"selection"`
	Options   []OptionState `json:"options"`
}

// ControlsView is the assembled store view handed to descriptor generators.
type ControlsView struct {
	SnapshotID string
	Revision   uint64
	Controls   []Control
	// Sample is one record from the collection, or nil when empty; generators
	// may reflect on it to describe the record shape.
	Sample any
}

// ControlsDocument is the UI contract: one control per dimension plus the
// provenance of the snapshot it was generated from. Record is populated by
// generators that describe the record shape.
type ControlsDocument struct {
	Format     DocumentFormat `json:"format"`
	SnapshotID string         `json:"snapshot_id"`
	Revision   uint64         `json:"revision"`
	Controls   []Control      `json:"controls"`
	Record     any            `json:"record,omitempty"`
}

// DescriptorGenerator transforms a store view into a controls document.
// Implementations must be safe for concurrent use and handle empty views by
// returning an empty document.
type DescriptorGenerator interface {
	Generate(view ControlsView) (ControlsDocument, error)
}

// DefaultDescriptorGenerator returns the built-in pass-through generator.
func DefaultDescriptorGenerator() DescriptorGenerator {
	return controlsGenerator{}
}

type controlsGenerator struct{}

func (controlsGenerator) Generate(view ControlsView) (ControlsDocument, error) {
	controls := view.Controls
	if controls == nil {
		controls = []Control{}
	}
	return ControlsDocument{
		Format:     FormatControls,
		SnapshotID: view.SnapshotID,
		Revision:   view.Revision,
		Controls:   controls,
	}, nil
}

// WithDescriptorGenerator configures a custom descriptor generator.
func WithDescriptorGenerator(generator DescriptorGenerator) StoreOption {
	return func(cfg *storeConfig) {
		cfg.descriptorGenerator = generator
	}
}

// Descriptor renders the current snapshot as a controls document using the
// configured generator.
func (s *Store[T]) Descriptor() (ControlsDocument, error) {
	view := s.controlsView()
	generator := s.descriptor
	if generator == nil {
		generator = DefaultDescriptorGenerator()
	}
	return generator.Generate(view)
}

func (s *Store[T]) controlsView() ControlsView {
	s.mu.RLock()
	defer s.mu.RUnlock()

	view := ControlsView{
		SnapshotID: s.state.SnapshotID(),
		Revision:   s.state.Revision(),
		Controls:   make([]Control, 0, len(s.cfg.dims)),
	}
	if len(s.items) > 0 {
		view.Sample = s.items[0]
	}
	for _, dim := range s.cfg.dims {
		sel := s.state.Selection(dim.Name)
		counts := optionCounts(s.items, s.cfg, s.state, dim.Name, s.res)
		options := make([]OptionState, 0, len(counts))
		for _, oc := range counts {
			options = append(options, OptionState{
				Value:     oc.Value,
				Label:     optionLabel(oc.Value),
				Available: oc.Count > 0,
				Count:     oc.Count,
				Selected:  !sel.IsAny() && sel.Matches(oc.Value),
			})
		}
		control := Control{
			Name:      dim.Name,
			Label:     dim.label(),
			Selection: sel,
			Options:   options,
		}
		if dim.Extract == nil && dim.Expression == "" {
			control.Field = dim.field()
		}
		view.Controls = append(view.Controls, control)
	}
	return view
}
