package shm

import (
	"github.com/elbo-studio/pivot-sdk-go/internal/shared/uid"
)

// Segment name prefixes. Together with a 16-hex-character uid the longest
// name is 22 characters, well under platform limits.
const (
	vertsPrefix     = "sp_v_"
	edgesPrefix     = "sp_e_"
	rotationsPrefix = "sp_r_"
	scalesPrefix    = "sp_s_"
	offsetsPrefix   = "sp_o_"
	faceSizesPrefix = "sp_fs_"
	facesPrefix     = "sp_f_"
)

// Element byte widths. These formulas are the wire contract with the engine:
// no size or schema travels on the wire, both ends derive layout purely from
// the counts in the originating command.
const (
	vertexBytes   = 3 * 4 // 3 float32 per vertex
	edgeBytes     = 2 * 4 // 2 uint32 per edge
	rotationBytes = 4 * 4 // float32 quaternion per object
	scaleBytes    = 3 * 4 // 3-float32 vector per object
	offsetBytes   = 3 * 4 // 3-float32 vector per object
	faceBytes     = 4     // 1 uint32 per face / face-vertex
)

// StandardizePlan names and sizes the five segments of one mesh/transform
// upload. All five names share one uid so the engine can correlate them.
type StandardizePlan struct {
	UID string

	VertsName     string
	EdgesName     string
	RotationsName string
	ScalesName    string
	OffsetsName   string

	VertsSize     int
	EdgesSize     int
	RotationsSize int
	ScalesSize    int
	OffsetsSize   int
}

// FaceSizesPlan is the first phase of a two-phase face transfer. Its uid is
// passed to PlanFacesSegment so both segments correlate as one transfer.
type FaceSizesPlan struct {
	UID           string
	FaceSizesName string
	FaceSizesSize int
}

// FacesPlan is the second phase of a face transfer, keyed by the uid from the
// face-sizes phase.
type FacesPlan struct {
	FacesName string
	FacesSize int
}

// PlanStandardizeSegments computes names and byte sizes for a single logical
// mesh/transform upload. The uid is generated once, atomically with the
// names, so concurrent plans cannot collide.
func PlanStandardizeSegments(totalVerts, totalEdges, totalObjects uint32) StandardizePlan {
	id := uid.New()

	return StandardizePlan{
		UID: id,

		VertsName:     vertsPrefix + id,
		EdgesName:     edgesPrefix + id,
		RotationsName: rotationsPrefix + id,
		ScalesName:    scalesPrefix + id,
		OffsetsName:   offsetsPrefix + id,

		VertsSize:     int(totalVerts) * vertexBytes,
		EdgesSize:     int(totalEdges) * edgeBytes,
		RotationsSize: int(totalObjects) * rotationBytes,
		ScalesSize:    int(totalObjects) * scaleBytes,
		OffsetsSize:   int(totalObjects) * offsetBytes,
	}
}

// PlanFaceSizesSegment computes the face-sizes segment (one uint32 per face)
// with a fresh uid.
func PlanFaceSizesSegment(totalFaces uint32) FaceSizesPlan {
	id := uid.New()

	return FaceSizesPlan{
		UID:           id,
		FaceSizesName: faceSizesPrefix + id,
		FaceSizesSize: int(totalFaces) * faceBytes,
	}
}

// PlanFacesSegment computes the faces segment (one uint32 per face vertex)
// reusing the uid returned by PlanFaceSizesSegment.
func PlanFacesSegment(totalFaceVertices uint32, id string) FacesPlan {
	return FacesPlan{
		FacesName: facesPrefix + id,
		FacesSize: int(totalFaceVertices) * faceBytes,
	}
}
