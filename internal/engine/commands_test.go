package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeSyncLicense(t *testing.T) {
	line, err := Encode(SyncLicense{ID: 1})
	require.NoError(t, err)

	assert.JSONEq(t, `{"id":1,"op":"sync_license"}`, line)
}

func TestEncodeStandardize(t *testing.T) {
	cmd := Standardize{
		ID:           42,
		TotalVerts:   100,
		TotalEdges:   50,
		TotalObjects: 10,

		VertsSegment:     "sp_v_0123456789abcdef",
		EdgesSegment:     "sp_e_0123456789abcdef",
		RotationsSegment: "sp_r_0123456789abcdef",
		ScalesSegment:    "sp_s_0123456789abcdef",
		OffsetsSegment:   "sp_o_0123456789abcdef",
	}

	line, err := Encode(cmd)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"id": 42,
		"op": "standardize",
		"total_verts": 100,
		"total_edges": 50,
		"total_objects": 10,
		"shm_verts": "sp_v_0123456789abcdef",
		"shm_edges": "sp_e_0123456789abcdef",
		"shm_rotations": "sp_r_0123456789abcdef",
		"shm_scales": "sp_s_0123456789abcdef",
		"shm_offsets": "sp_o_0123456789abcdef"
	}`, line)
}

func TestEncodeStandardizeRequiresSegments(t *testing.T) {
	cmd := Standardize{
		ID:           1,
		VertsSegment: "sp_v_0123456789abcdef",
		// remaining segment names missing
	}

	_, err := Encode(cmd)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "segment name")
}

func TestEncodeFacePhases(t *testing.T) {
	sizes, err := Encode(FaceSizes{ID: 2, TotalFaces: 20, FaceSizesSegment: "sp_fs_0123456789abcdef"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":2,"op":"face_sizes","total_faces":20,"shm_face_sizes":"sp_fs_0123456789abcdef"}`, sizes)

	faces, err := Encode(Faces{ID: 3, TotalFaceVertices: 60, FacesSegment: "sp_f_0123456789abcdef"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":3,"op":"faces","total_face_vertices":60,"shm_faces":"sp_f_0123456789abcdef"}`, faces)
}

func TestEncodeFacePhasesRequireSegments(t *testing.T) {
	_, err := Encode(FaceSizes{ID: 1, TotalFaces: 5})
	assert.Error(t, err)

	_, err = Encode(Faces{ID: 2, TotalFaceVertices: 15})
	assert.Error(t, err)
}

func TestDecodeResponse(t *testing.T) {
	resp, err := DecodeResponse(`{"id":7,"ok":true}`)
	require.NoError(t, err)

	require.NotNil(t, resp.ID)
	assert.Equal(t, int64(7), *resp.ID)
	assert.True(t, resp.Succeeded())
	assert.Empty(t, resp.Error)
	assert.Equal(t, `{"id":7,"ok":true}`, resp.Raw)
}

func TestDecodeResponseFailure(t *testing.T) {
	resp, err := DecodeResponse(`{"id":7,"ok":false,"error":"license expired"}`)
	require.NoError(t, err)

	assert.False(t, resp.Succeeded())
	assert.Equal(t, "license expired", resp.Error)
}

func TestDecodeResponseWithoutOK(t *testing.T) {
	resp, err := DecodeResponse(`{"id":3}`)
	require.NoError(t, err)

	assert.Nil(t, resp.OK)
	assert.False(t, resp.Succeeded())
}

func TestDecodeResponseMalformed(t *testing.T) {
	_, err := DecodeResponse(`not json at all`)
	assert.Error(t, err)
}
