package engine

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Operation names understood by the engine.
const (
	OpSyncLicense = "sync_license"
	OpStandardize = "standardize"
	OpFaceSizes   = "face_sizes"
	OpFaces       = "faces"
)

// Command is one member of the closed set of engine command variants. Each
// variant declares its required fields and is serialized by Encode; free-form
// key/value payloads are deliberately not supported.
type Command interface {
	// Op returns the operation name carried in the "op" field.
	Op() string

	validate() error
	wire() any
}

// SyncLicense asks the engine to refresh its license state.
type SyncLicense struct {
	ID int64
}

func (c SyncLicense) Op() string      { return OpSyncLicense }
func (c SyncLicense) validate() error { return nil }

func (c SyncLicense) wire() any {
	return struct {
		ID int64  `json:"id"`
		Op string `json:"op"`
	}{c.ID, c.Op()}
}

// Standardize uploads one logical mesh/transform group. The five segments
// must already be populated; the engine derives every buffer size from the
// counts, so counts and segment contents have to agree.
type Standardize struct {
	ID int64

	TotalVerts   uint32
	TotalEdges   uint32
	TotalObjects uint32

	VertsSegment     string
	EdgesSegment     string
	RotationsSegment string
	ScalesSegment    string
	OffsetsSegment   string
}

func (c Standardize) Op() string { return OpStandardize }

func (c Standardize) validate() error {
	segments := map[string]string{
		"verts":     c.VertsSegment,
		"edges":     c.EdgesSegment,
		"rotations": c.RotationsSegment,
		"scales":    c.ScalesSegment,
		"offsets":   c.OffsetsSegment,
	}
	for field, name := range segments {
		if name == "" {
			return fmt.Errorf("standardize command missing %s segment name", field)
		}
	}
	return nil
}

func (c Standardize) wire() any {
	return struct {
		ID           int64  `json:"id"`
		Op           string `json:"op"`
		TotalVerts   uint32 `json:"total_verts"`
		TotalEdges   uint32 `json:"total_edges"`
		TotalObjects uint32 `json:"total_objects"`
		ShmVerts     string `json:"shm_verts"`
		ShmEdges     string `json:"shm_edges"`
		ShmRotations string `json:"shm_rotations"`
		ShmScales    string `json:"shm_scales"`
		ShmOffsets   string `json:"shm_offsets"`
	}{
		c.ID, c.Op(),
		c.TotalVerts, c.TotalEdges, c.TotalObjects,
		c.VertsSegment, c.EdgesSegment, c.RotationsSegment,
		c.ScalesSegment, c.OffsetsSegment,
	}
}

// FaceSizes announces the first phase of a two-phase face transfer: one
// uint32 per face in the named segment.
type FaceSizes struct {
	ID int64

	TotalFaces       uint32
	FaceSizesSegment string
}

func (c FaceSizes) Op() string { return OpFaceSizes }

func (c FaceSizes) validate() error {
	if c.FaceSizesSegment == "" {
		return errors.New("face_sizes command missing segment name")
	}
	return nil
}

func (c FaceSizes) wire() any {
	return struct {
		ID           int64  `json:"id"`
		Op           string `json:"op"`
		TotalFaces   uint32 `json:"total_faces"`
		ShmFaceSizes string `json:"shm_face_sizes"`
	}{c.ID, c.Op(), c.TotalFaces, c.FaceSizesSegment}
}

// Faces announces the second phase of a face transfer: one uint32 per face
// vertex, correlated with the face-sizes phase through the shared uid baked
// into the segment name.
type Faces struct {
	ID int64

	TotalFaceVertices uint32
	FacesSegment      string
}

func (c Faces) Op() string { return OpFaces }

func (c Faces) validate() error {
	if c.FacesSegment == "" {
		return errors.New("faces command missing segment name")
	}
	return nil
}

func (c Faces) wire() any {
	return struct {
		ID                int64  `json:"id"`
		Op                string `json:"op"`
		TotalFaceVertices uint32 `json:"total_face_vertices"`
		ShmFaces          string `json:"shm_faces"`
	}{c.ID, c.Op(), c.TotalFaceVertices, c.FacesSegment}
}

// Encode validates a command and serializes it to one JSON line (without the
// trailing newline; the channel appends it).
func Encode(c Command) (string, error) {
	if err := c.validate(); err != nil {
		return "", err
	}
	data, err := json.Marshal(c.wire())
	if err != nil {
		return "", fmt.Errorf("failed to encode %s command: %w", c.Op(), err)
	}
	return string(data), nil
}

// Response is a decoded engine reply line.
type Response struct {
	// ID echoes the request id when the engine includes one.
	ID *int64
	// OK reports command success when present; SendCommand replies always
	// carry it.
	OK *bool
	// Error holds the engine's failure message, if any.
	Error string
	// Raw is the original reply line.
	Raw string
}

// DecodeResponse parses one reply line into a Response.
func DecodeResponse(line string) (*Response, error) {
	var wire struct {
		ID    *json.Number `json:"id"`
		OK    *bool        `json:"ok"`
		Error string       `json:"error"`
	}
	if err := json.Unmarshal([]byte(line), &wire); err != nil {
		return nil, fmt.Errorf("failed to decode engine response: %w", err)
	}

	resp := &Response{OK: wire.OK, Error: wire.Error, Raw: line}
	if wire.ID != nil {
		if v, err := wire.ID.Int64(); err == nil {
			resp.ID = &v
		}
	}
	return resp, nil
}

// Succeeded reports whether the reply carries ok=true.
func (r *Response) Succeeded() bool {
	return r.OK != nil && *r.OK
}
