package domain

// VehicleModel identifies the dynamics model a primitive set was generated for.
type VehicleModel string

const (
	ModelPointMass       VehicleModel = "PM"
	ModelKinematicSingle VehicleModel = "KS"
	ModelSingleTrack     VehicleModel = "ST"
	ModelMultiBody       VehicleModel = "MB"
)

// VehicleType identifies the vehicle parameter set.
type VehicleType string

const (
	VehicleFordEscort VehicleType = "FORD_ESCORT"
	VehicleBMW320i    VehicleType = "BMW_320i"
	VehicleVWVanagon  VehicleType = "VW_VANAGON"
)

// Planner identifiers accepted by the batch configuration.
const (
	PlannerBFS            = "bfs"
	PlannerDFS            = "dfs"
	PlannerDLS            = "dls"
	PlannerUCS            = "ucs"
	PlannerGBFS           = "gbfs"
	PlannerAStar          = "astar"
	PlannerStudent        = "student"
	PlannerStudentExample = "student_example"
)

// VehicleModels lists every accepted vehicle model.
var VehicleModels = []VehicleModel{ModelPointMass, ModelKinematicSingle, ModelSingleTrack, ModelMultiBody}

// VehicleTypes lists every accepted vehicle type.
var VehicleTypes = []VehicleType{VehicleFordEscort, VehicleBMW320i, VehicleVWVanagon}

// Planners lists every built-in planner identifier.
var Planners = []string{
	PlannerBFS, PlannerDFS, PlannerDLS, PlannerUCS,
	PlannerGBFS, PlannerAStar, PlannerStudent, PlannerStudentExample,
}

// rearAxleDistance is the distance from the rear axle (the primitives' reference
// point) to the vehicle center, in meters.
var rearAxleDistance = map[VehicleType]float64{
	VehicleFordEscort: 1.508,
	VehicleBMW320i:    1.422,
	VehicleVWVanagon:  1.643,
}

// RearAxleDistance returns the reference-point offset for the vehicle type.
// Unknown types have no offset.
func RearAxleDistance(vt VehicleType) float64 {
	return rearAxleDistance[vt]
}

// Valid reports whether m is a known vehicle model.
func (m VehicleModel) Valid() bool {
	for _, known := range VehicleModels {
		if m == known {
			return true
		}
	}
	return false
}

// Valid reports whether t is a known vehicle type.
func (t VehicleType) Valid() bool {
	_, ok := rearAxleDistance[t]
	return ok
}
