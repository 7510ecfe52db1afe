package client

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/elbo-studio/pivot-sdk-go/internal/engine"
	"github.com/elbo-studio/pivot-sdk-go/internal/infrastructure/config"
	"github.com/elbo-studio/pivot-sdk-go/internal/infrastructure/logging"
	"github.com/elbo-studio/pivot-sdk-go/internal/infrastructure/monitoring"
	"github.com/elbo-studio/pivot-sdk-go/internal/shm"
)

// Client is the engine client facade. All channel operations run under the
// channel's exclusive lock, so a Client is safe for concurrent use but
// strictly serialized.
type Client struct {
	channel *engine.Channel
	cfg     config.EngineConfig
	log     *logging.Logger
	metrics *monitoring.Metrics

	nextID atomic.Int64
}

// New creates a client. log may be nil (default logger) and metrics may be
// nil (no metrics recorded).
func New(cfg *config.Config, log *logging.Logger, metrics *monitoring.Metrics) *Client {
	if cfg == nil {
		cfg = config.Default()
	}
	if log == nil {
		log = logging.NewDefault()
	}
	return &Client{
		channel: engine.NewChannel(cfg.Engine.BundledDir, log),
		cfg:     cfg.Engine,
		log:     log,
		metrics: metrics,
	}
}

// Start launches the engine process. The configured path, when set, takes
// the explicit slot in the discovery order. Idempotent.
func (c *Client) Start() error {
	if err := c.channel.Start(c.cfg.Path); err != nil {
		return err
	}
	if c.metrics != nil {
		c.metrics.EngineStarts.Inc()
	}
	return nil
}

// Stop shuts the engine down; see engine.Channel.Stop for the escalation
// policy. Idempotent.
func (c *Client) Stop() {
	c.channel.Stop()
	if c.metrics != nil {
		c.metrics.EngineStops.Inc()
	}
}

// IsRunning reports engine liveness.
func (c *Client) IsRunning() bool {
	return c.channel.IsRunning()
}

// NextID allocates a monotonically increasing command id.
func (c *Client) NextID() int64 {
	return c.nextID.Add(1)
}

// Send encodes a command, writes it, and blocks for the qualifying reply.
func (c *Client) Send(cmd engine.Command) (*engine.Response, error) {
	payload, err := engine.Encode(cmd)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	line, err := c.channel.SendCommand(payload)
	if c.metrics != nil {
		c.metrics.ObserveCommand(cmd.Op(), err, time.Since(start))
	}
	if err != nil {
		return nil, fmt.Errorf("%s command failed: %w", cmd.Op(), err)
	}

	return engine.DecodeResponse(line)
}

// SendAsync encodes and writes a command without awaiting a reply.
func (c *Client) SendAsync(cmd engine.Command) error {
	payload, err := engine.Encode(cmd)
	if err != nil {
		return err
	}
	return c.channel.SendCommandAsync(payload)
}

// WaitForResponse blocks until the reply whose id matches arrives. Use only
// under a single-outstanding-request discipline; replies to other ids are
// dropped.
func (c *Client) WaitForResponse(id int64) (*engine.Response, error) {
	line, err := c.channel.WaitForResponse(id)
	if err != nil {
		return nil, err
	}
	return engine.DecodeResponse(line)
}

// SendRaw writes a pre-encoded JSON command line and returns the raw
// qualifying reply. Escape hatch for operations outside the typed set.
func (c *Client) SendRaw(payload string) (string, error) {
	return c.channel.SendCommand(payload)
}

// SyncLicense asks the engine to refresh its license state.
func (c *Client) SyncLicense() (*engine.Response, error) {
	return c.Send(engine.SyncLicense{ID: c.NextID()})
}

// SceneData is one logical mesh/transform group to standardize. Slices are
// flat: 3 floats per vertex, 2 indices per edge, and per object a
// 4-component quaternion plus two 3-component vectors.
type SceneData struct {
	Verts     []float32
	Edges     []uint32
	Rotations []float32
	Scales    []float32
	Offsets   []float32
}

func (s SceneData) counts() (verts, edges, objects uint32, err error) {
	if len(s.Verts) == 0 || len(s.Verts)%3 != 0 {
		return 0, 0, 0, errors.New("verts must be a non-empty multiple of 3 floats")
	}
	if len(s.Edges) == 0 || len(s.Edges)%2 != 0 {
		return 0, 0, 0, errors.New("edges must be a non-empty multiple of 2 indices")
	}
	if len(s.Rotations) == 0 || len(s.Rotations)%4 != 0 {
		return 0, 0, 0, errors.New("rotations must be a non-empty multiple of 4 floats")
	}
	objects = uint32(len(s.Rotations) / 4)
	if uint32(len(s.Scales)) != objects*3 || uint32(len(s.Offsets)) != objects*3 {
		return 0, 0, 0, errors.New("scales and offsets must carry 3 floats per object")
	}
	return uint32(len(s.Verts) / 3), uint32(len(s.Edges) / 2), objects, nil
}

// StandardizeScene runs the full upload flow: plan the five segments, map
// and populate them, send the standardize command, and await the reply. The
// local mappings are closed on return; the engine unlinks the segments once
// consumed.
func (c *Client) StandardizeScene(scene SceneData) (*engine.Response, error) {
	totalVerts, totalEdges, totalObjects, err := scene.counts()
	if err != nil {
		return nil, err
	}

	plan := shm.PlanStandardizeSegments(totalVerts, totalEdges, totalObjects)

	var segments []*shm.Segment
	defer func() {
		for _, seg := range segments {
			seg.Close()
		}
	}()

	writeFloats := func(name string, size int, data []float32) error {
		seg, err := c.createSegment(name, size)
		if err != nil {
			return err
		}
		segments = append(segments, seg)
		copy(seg.Float32s(), data)
		return nil
	}

	if err := writeFloats(plan.VertsName, plan.VertsSize, scene.Verts); err != nil {
		return nil, err
	}

	edgeSeg, err := c.createSegment(plan.EdgesName, plan.EdgesSize)
	if err != nil {
		return nil, err
	}
	segments = append(segments, edgeSeg)
	copy(edgeSeg.Uint32s(), scene.Edges)

	if err := writeFloats(plan.RotationsName, plan.RotationsSize, scene.Rotations); err != nil {
		return nil, err
	}
	if err := writeFloats(plan.ScalesName, plan.ScalesSize, scene.Scales); err != nil {
		return nil, err
	}
	if err := writeFloats(plan.OffsetsName, plan.OffsetsSize, scene.Offsets); err != nil {
		return nil, err
	}

	c.log.Debug("scene segments populated",
		zap.String("uid", plan.UID),
		zap.Uint32("verts", totalVerts),
		zap.Uint32("edges", totalEdges),
		zap.Uint32("objects", totalObjects),
	)

	return c.Send(engine.Standardize{
		ID:           c.NextID(),
		TotalVerts:   totalVerts,
		TotalEdges:   totalEdges,
		TotalObjects: totalObjects,

		VertsSegment:     plan.VertsName,
		EdgesSegment:     plan.EdgesName,
		RotationsSegment: plan.RotationsName,
		ScalesSegment:    plan.ScalesName,
		OffsetsSegment:   plan.OffsetsName,
	})
}

// UploadFaces runs the two-phase face transfer. faceSizes carries one vertex
// count per face; faces carries the flattened face-vertex indices. Both
// segments share the uid generated for the first phase.
func (c *Client) UploadFaces(faceSizes, faces []uint32) (*engine.Response, error) {
	if len(faceSizes) == 0 || len(faces) == 0 {
		return nil, errors.New("face sizes and faces must be non-empty")
	}

	sizesPlan := shm.PlanFaceSizesSegment(uint32(len(faceSizes)))

	sizesSeg, err := c.createSegment(sizesPlan.FaceSizesName, sizesPlan.FaceSizesSize)
	if err != nil {
		return nil, err
	}
	defer sizesSeg.Close()
	copy(sizesSeg.Uint32s(), faceSizes)

	resp, err := c.Send(engine.FaceSizes{
		ID:               c.NextID(),
		TotalFaces:       uint32(len(faceSizes)),
		FaceSizesSegment: sizesPlan.FaceSizesName,
	})
	if err != nil {
		return nil, err
	}
	if !resp.Succeeded() {
		return resp, fmt.Errorf("engine rejected face sizes: %s", resp.Error)
	}

	facesPlan := shm.PlanFacesSegment(uint32(len(faces)), sizesPlan.UID)

	facesSeg, err := c.createSegment(facesPlan.FacesName, facesPlan.FacesSize)
	if err != nil {
		return nil, err
	}
	defer facesSeg.Close()
	copy(facesSeg.Uint32s(), faces)

	return c.Send(engine.Faces{
		ID:                c.NextID(),
		TotalFaceVertices: uint32(len(faces)),
		FacesSegment:      facesPlan.FacesName,
	})
}

func (c *Client) createSegment(name string, size int) (*shm.Segment, error) {
	seg, err := shm.Create(name, size)
	if err != nil {
		return nil, err
	}
	if c.metrics != nil {
		c.metrics.ObserveSegment(size)
	}
	return seg, nil
}
