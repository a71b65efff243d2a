// Copyright 2026 The Remote UI Authors
// SPDX-License-Identifier: Apache-2.0

package mockrenderer

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/remoteui/remoteui/channel"
	"github.com/remoteui/remoteui/control"
	"github.com/remoteui/remoteui/frame"
	"github.com/remoteui/remoteui/lib/clock"
	"github.com/remoteui/remoteui/lib/codec"
	"github.com/remoteui/remoteui/telemetry"
	"github.com/remoteui/remoteui/transport"
)

// ErrStopped is returned by Serve when the console sent "stop".
var ErrStopped = errors.New("renderer stopped by console")

// Config configures a Renderer. Zero fields take the defaults below.
type Config struct {
	Clock clock.Clock

	// Frame size of the synthetic image.
	Width  int
	Height int

	// RowsPerPacket is how many rows go in one hdr_rows message.
	RowsPerPacket int

	FrameInterval     time.Duration
	TelemetryInterval time.Duration

	// Tiles is the length of the tile histogram.
	Tiles int

	Logger *slog.Logger
}

func (c *Config) setDefaults() {
	if c.Clock == nil {
		c.Clock = clock.Real()
	}
	if c.Width <= 0 {
		c.Width = 64
	}
	if c.Height <= 0 {
		c.Height = 36
	}
	if c.RowsPerPacket <= 0 {
		c.RowsPerPacket = 8
	}
	if c.FrameInterval <= 0 {
		c.FrameInterval = 500 * time.Millisecond
	}
	if c.TelemetryInterval <= 0 {
		c.TelemetryInterval = time.Second
	}
	if c.Tiles <= 0 {
		c.Tiles = 48
	}
	if c.Logger == nil {
		c.Logger = slog.New(slog.DiscardHandler)
	}
}

// Renderer holds the mock's parameter state across sessions.
type Renderer struct {
	config Config
	logger *slog.Logger

	mutex      sync.Mutex
	parameters map[string]any
	frames     uint64
}

// New creates a renderer with the initial parameters a real renderer
// would report: a 90° field of view and 4 samples per pixel.
func New(config Config) *Renderer {
	config.setDefaults()
	return &Renderer{
		config: config,
		logger: config.Logger,
		parameters: map[string]any{
			"fov":     float32(math.Pi / 2),
			"samples": uint32(4),
		},
	}
}

// Parameters returns a copy of the current parameter values.
func (r *Renderer) Parameters() map[string]any {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	copied := make(map[string]any, len(r.parameters))
	for name, value := range r.parameters {
		copied[name] = value
	}
	return copied
}

// Parameter returns one parameter value, or nil if it was never set.
func (r *Renderer) Parameter(name string) any {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.parameters[name]
}

// session is the per-connection state of Serve.
type session struct {
	renderer  *Renderer
	registry  *channel.Registry
	publisher *channel.Publisher
	stopped   chan struct{}
	stopOnce  sync.Once
}

// echoed are parameters reported back to the console after every
// change, in canonical form.
var echoed = []string{"fov", "exposure", "gamma", "X", "Y", "lambda1", "lambda2"}

// Serve runs one console session on conn until the console
// disconnects, ctx is cancelled, or the console sends stop (ErrStopped).
func (r *Renderer) Serve(ctx context.Context, conn *transport.Conn) error {
	logger := r.logger.With("console", conn.RemoteAddress())
	s := &session{
		renderer:  r,
		registry:  channel.NewRegistry(logger),
		publisher: channel.NewPublisher(conn, 16<<20, logger),
		stopped:   make(chan struct{}),
	}

	for _, name := range echoed {
		s.registry.Subscribe(name, s.echoFloat(name))
	}
	s.registry.Subscribe("samples", s.onSamples)
	s.registry.Subscribe("device", s.onString("device", func(device string) bool {
		return device == "cpu" || device == "ipu"
	}))
	s.registry.Subscribe("env_rotation", s.storeOnly("env_rotation", decodeAny[float32]))
	s.registry.Subscribe("nif_path", s.storeOnly("nif_path", decodeAny[string]))
	s.registry.Subscribe("stop", s.onStop)

	sessionContext, cancel := context.WithCancel(ctx)
	defer cancel()

	publishDone := make(chan struct{})
	go func() {
		defer close(publishDone)
		s.publisher.Run(sessionContext)
	}()

	// The renderer decides the initial camera; the console adopts it.
	s.publishParameter("fov")
	s.publishParameter("samples")

	receiveDone := make(chan error, 1)
	go func() {
		receiveDone <- conn.Receive(sessionContext, s.registry)
	}()

	frames := r.config.Clock.NewTicker(r.config.FrameInterval)
	defer frames.Stop()
	stats := r.config.Clock.NewTicker(r.config.TelemetryInterval)
	defer stats.Stop()

	logger.Info("console connected")
	var result error
loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case <-s.stopped:
			result = ErrStopped
			break loop
		case err := <-receiveDone:
			receiveDone = nil
			if err != nil {
				result = err
			}
			logger.Info("console disconnected")
			break loop
		case <-frames.C:
			s.streamFrame()
		case <-stats.C:
			s.publishTelemetry()
		}
	}

	cancel()
	<-publishDone
	conn.Close()
	if receiveDone != nil {
		<-receiveDone
	}
	return result
}

func decodeAny[T any](payload []byte) (any, error) {
	value, err := codec.Decode[T](payload)
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (s *session) set(name string, value any) {
	s.renderer.mutex.Lock()
	s.renderer.parameters[name] = value
	s.renderer.mutex.Unlock()
}

func (s *session) publishParameter(name string) {
	if value := s.renderer.Parameter(name); value != nil {
		if err := s.publisher.Publish(name, value); err != nil {
			s.renderer.logger.Warn("publish failed", "channel", name, "error", err)
		}
	}
}

// echoFloat stores a float parameter and reports it back.
func (s *session) echoFloat(name string) channel.Callback {
	return func(payload []byte) {
		value, err := codec.Decode[float32](payload)
		if err != nil || math.IsNaN(float64(value)) {
			s.renderer.logger.Warn("bad parameter", "channel", name, "error", err)
			return
		}
		s.set(name, value)
		s.publishParameter(name)
	}
}

// onSamples clamps the sample count to what the renderer supports.
func (s *session) onSamples(payload []byte) {
	count, err := codec.Decode[uint32](payload)
	if err != nil {
		s.renderer.logger.Warn("bad parameter", "channel", "samples", "error", err)
		return
	}
	s.set("samples", min(max(count, 1), control.MaxSamples))
	s.publishParameter("samples")
}

func (s *session) onString(name string, valid func(string) bool) channel.Callback {
	return func(payload []byte) {
		value, err := codec.Decode[string](payload)
		if err != nil || !valid(value) {
			s.renderer.logger.Warn("bad parameter", "channel", name, "value", value, "error", err)
			return
		}
		s.set(name, value)
		s.publishParameter(name)
	}
}

func (s *session) storeOnly(name string, decode func([]byte) (any, error)) channel.Callback {
	return func(payload []byte) {
		value, err := decode(payload)
		if err != nil {
			s.renderer.logger.Warn("bad parameter", "channel", name, "error", err)
			return
		}
		s.set(name, value)
		s.renderer.logger.Debug("parameter set", "channel", name, "value", value)
	}
}

func (s *session) onStop(payload []byte) {
	stop, err := codec.Decode[bool](payload)
	if err != nil || !stop {
		return
	}
	s.renderer.logger.Info("stop requested by console")
	s.stopOnce.Do(func() { close(s.stopped) })
}

func (s *session) publishTelemetry() {
	r := s.renderer
	r.mutex.Lock()
	frames := r.frames
	samples, _ := r.parameters["samples"].(uint32)
	r.mutex.Unlock()

	histogram := make([]uint32, r.config.Tiles)
	for index := range histogram {
		// A hot spot that drifts across the tiles from frame to frame.
		distance := float64((index + int(frames)) % len(histogram))
		histogram[index] = uint32(100 + 900*math.Exp(-distance/6)*float64(max(samples, 1)))
	}

	seconds := r.config.FrameInterval.Seconds()
	frameBytes := float64(r.config.Width * r.config.Height * 3 * 4)
	for _, message := range []struct {
		name  string
		value any
	}{
		{telemetry.ChannelHistogram, histogram},
		{telemetry.ChannelFrameRate, float32(1 / seconds)},
		{telemetry.ChannelBitRate, float32(frameBytes * 8 / seconds / 1e6)},
	} {
		if err := s.publisher.Publish(message.name, message.value); err != nil {
			r.logger.Warn("publish failed", "channel", message.name, "error", err)
		}
	}
}

// streamFrame sends one synthetic frame: a radial gradient whose
// brightness follows exposure and whose centre follows the X/Y probe.
func (s *session) streamFrame() {
	r := s.renderer
	width, height := r.config.Width, r.config.Height
	header := frame.Header{Width: uint32(width), Height: uint32(height), Channels: 3}
	if err := s.publisher.Publish(frame.ChannelHeader, header); err != nil {
		r.logger.Warn("publish failed", "channel", frame.ChannelHeader, "error", err)
		return
	}

	r.mutex.Lock()
	exposure, _ := r.parameters["exposure"].(float32)
	probeX, hasX := r.parameters["X"].(float32)
	probeY, hasY := r.parameters["Y"].(float32)
	r.frames++
	r.mutex.Unlock()

	centreX, centreY := 0.5, 0.5
	if hasX {
		centreX = float64(probeX) / control.ImageWidth
	}
	if hasY {
		centreY = float64(probeY) / control.ImageHeight
	}
	scale := math.Exp2(float64(exposure))

	stride := width * 3
	for start := 0; start < height; start += r.config.RowsPerPacket {
		count := min(r.config.RowsPerPacket, height-start)
		data := make([]float32, count*stride)
		for y := range count {
			v := float64(start+y)/float64(height) - centreY
			for x := range width {
				u := float64(x)/float64(width) - centreX
				intensity := scale * math.Exp(-8*(u*u+v*v))
				offset := y*stride + x*3
				data[offset] = float32(intensity)
				data[offset+1] = float32(intensity * 0.8)
				data[offset+2] = float32(intensity * 0.6)
			}
		}
		rows := frame.Rows{Row: uint32(start), Data: data, Last: start+count == height}
		if err := s.publisher.Publish(frame.ChannelRows, rows); err != nil {
			r.logger.Warn("publish failed", "channel", frame.ChannelRows, "error", err)
			return
		}
	}
}
