package stability

// Params is the flat parameter set of the analysis. Distances are mm,
// masses grams, forces g*mm/s^2, yield strengths g/(mm*s^2) per mm^2.
type Params struct {
	// FlowWidth is the active extrusion width. It also fixes the label
	// grid resolution for the whole run.
	FlowWidth float64 `json:"flow_width"`

	// BridgeDistance is the unsupported span length a straight extrusion
	// tolerates before a local support point is required. It is also the
	// maximum segment length after path subdivision.
	BridgeDistance float64 `json:"bridge_distance"`

	// BridgeCurvatureDecay scales how accumulated turning tightens the
	// bridging threshold: threshold = BridgeDistance / (1 + decay*maxCurvature/pi).
	BridgeCurvatureDecay float64 `json:"bridge_curvature_decay"`

	// MinSupportSpacing is the minimum distance between emitted support
	// points. It also fixes the occupancy grid voxel size.
	MinSupportSpacing float64 `json:"min_support_spacing"`

	// SupportInterfaceRadius is the radius of the contact patch a
	// generated support point is assumed to provide.
	SupportInterfaceRadius float64 `json:"support_interface_radius"`

	// FilamentDensity in g/mm^3.
	FilamentDensity float64 `json:"filament_density"`

	// Gravity in mm/s^2.
	Gravity float64 `json:"gravity"`

	// MaxAcceleration is the highest print-move acceleration, mm/s^2.
	MaxAcceleration float64 `json:"max_acceleration"`

	// BedAdhesionYieldStrength resists peeling the first layer (or a
	// support interface) off the bed.
	BedAdhesionYieldStrength float64 `json:"bed_adhesion_yield_strength"`

	// MaterialYieldStrength resists bending an inter-layer joint.
	MaterialYieldStrength float64 `json:"material_yield_strength"`

	// ExtruderConflictForce is the baseline drag the moving extruder
	// exerts on already printed material.
	ExtruderConflictForce float64 `json:"extruder_conflict_force"`

	// MalformationConflictForce is added to the conflict force, scaled
	// by local malformation (clamped to 1), for curled-up regions the
	// nozzle can strike.
	MalformationConflictForce float64 `json:"malformation_conflict_force"`
}

// DefaultParams returns parameters tuned for a 0.4 mm nozzle printing PLA.
func DefaultParams() Params {
	return Params{
		FlowWidth:                 0.4,
		BridgeDistance:            12.0,
		BridgeCurvatureDecay:      10.0,
		MinSupportSpacing:         3.0,
		SupportInterfaceRadius:    1.5,
		FilamentDensity:           1.25e-3,
		Gravity:                   9806.65,
		MaxAcceleration:           9000,
		BedAdhesionYieldStrength:  0.5e6,
		MaterialYieldStrength:     8e6,
		ExtruderConflictForce:     20,
		MalformationConflictForce: 100,
	}
}
