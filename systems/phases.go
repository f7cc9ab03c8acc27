package systems

import "github.com/pthm-cable/galaxy/telemetry"

// PhaseInfo describes one timed phase of a frame for UI display.
type PhaseInfo struct {
	ID          string // perf collector key
	Name        string // display name
	Description string
	Category    string // "field", "simulation" or "visual"
}

// PhaseRegistry holds display metadata for the frame phases.
// This keeps the HUD and the perf collector naming in sync.
type PhaseRegistry struct {
	phases []PhaseInfo
	byID   map[string]PhaseInfo
}

// NewPhaseRegistry creates a registry with every known phase.
func NewPhaseRegistry() *PhaseRegistry {
	r := &PhaseRegistry{byID: make(map[string]PhaseInfo)}
	r.Register(PhaseInfo{ID: telemetry.PhaseFieldGenerate, Name: "Generate", Description: "Rebuilds the particle field", Category: "field"})
	r.Register(PhaseInfo{ID: telemetry.PhaseFieldAnimate, Name: "Animate", Description: "Wave displacement of the field", Category: "field"})
	r.Register(PhaseInfo{ID: telemetry.PhasePhysicsStep, Name: "Physics", Description: "Steps the rigid-body world", Category: "simulation"})
	r.Register(PhaseInfo{ID: telemetry.PhaseTransformSync, Name: "Sync", Description: "Copies body transforms to the scene", Category: "simulation"})
	r.Register(PhaseInfo{ID: telemetry.PhaseRender, Name: "Render", Description: "Draws points and meshes", Category: "visual"})
	return r
}

// Register adds a phase.
func (r *PhaseRegistry) Register(info PhaseInfo) {
	r.phases = append(r.phases, info)
	r.byID[info.ID] = info
}

// Get returns phase info by ID.
func (r *PhaseRegistry) Get(id string) (PhaseInfo, bool) {
	info, ok := r.byID[id]
	return info, ok
}

// GetName returns the display name for a phase ID, or the ID itself.
func (r *PhaseRegistry) GetName(id string) string {
	if info, ok := r.byID[id]; ok {
		return info.Name
	}
	return id
}

// IDs returns all phase IDs in registration order.
func (r *PhaseRegistry) IDs() []string {
	ids := make([]string, len(r.phases))
	for i, info := range r.phases {
		ids[i] = info.ID
	}
	return ids
}
