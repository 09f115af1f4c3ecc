// Package pulse talks to a PulseAudio (or pipewire-pulse) server over its
// native protocol, serving as the Linux native backend.
package pulse

import (
	"fmt"
	"math"

	"github.com/jfreymuth/pulse"
	"github.com/jfreymuth/pulse/proto"

	"audioctl/internal/domain"
)

const (
	// volumeNorm is PA_VOLUME_NORM, the channel volume meaning 100%.
	volumeNorm = 0x10000
	// undefinedIndex selects a sink or source by name instead of index.
	undefinedIndex = 0xffffffff

	defaultSink   = "@DEFAULT_SINK@"
	defaultSource = "@DEFAULT_SOURCE@"
)

// requester is the subset of *pulse.Client used here.
type requester interface {
	RawRequest(req proto.RequestArgs, rpl proto.Reply) error
}

// Client implements domain.NativeAddon for the default sink and source.
type Client struct {
	conn   requester
	closer func()
}

// Dial connects to the user's PulseAudio server.
func Dial() (*Client, error) {
	c, err := pulse.NewClient(pulse.ClientApplicationName("audioctl"))
	if err != nil {
		return nil, fmt.Errorf("connect pulseaudio: %w", err)
	}
	return &Client{conn: c, closer: c.Close}, nil
}

// Close disconnects from the server.
func (c *Client) Close() error {
	if c.closer != nil {
		c.closer()
	}
	return nil
}

func (c *Client) Device(d domain.Device) domain.NativeDevice {
	if d == domain.Mic {
		return &source{conn: c.conn}
	}
	return &sink{conn: c.conn}
}

// average returns the mean channel volume as a fraction of volumeNorm.
func average(vols proto.ChannelVolumes) float64 {
	if len(vols) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vols {
		sum += float64(v)
	}
	// Amplified channels go past volumeNorm; report them as full volume.
	return math.Min(sum/float64(len(vols))/volumeNorm, 1)
}

// scaled returns n channels set to percent of volumeNorm.
func scaled(n int, percent int) proto.ChannelVolumes {
	if n == 0 {
		n = 1
	}
	v := uint32(percent) * volumeNorm / 100
	vols := make(proto.ChannelVolumes, n)
	for i := range vols {
		vols[i] = v
	}
	return vols
}

type sink struct {
	conn requester
}

func (s *sink) info() (*proto.GetSinkInfoReply, error) {
	var reply proto.GetSinkInfoReply
	err := s.conn.RawRequest(&proto.GetSinkInfo{SinkIndex: undefinedIndex, SinkName: defaultSink}, &reply)
	if err != nil {
		return nil, fmt.Errorf("get default sink: %w", err)
	}
	return &reply, nil
}

func (s *sink) Volume() (float64, error) {
	info, err := s.info()
	if err != nil {
		return 0, err
	}
	return average(info.ChannelVolumes), nil
}

func (s *sink) SetVolume(percent int) error {
	info, err := s.info()
	if err != nil {
		return err
	}
	return s.conn.RawRequest(&proto.SetSinkVolume{
		SinkIndex:      undefinedIndex,
		SinkName:       defaultSink,
		ChannelVolumes: scaled(len(info.ChannelVolumes), percent),
	}, nil)
}

func (s *sink) setMute(mute bool) error {
	return s.conn.RawRequest(&proto.SetSinkMute{SinkIndex: undefinedIndex, SinkName: defaultSink, Mute: mute}, nil)
}

func (s *sink) Mute() error   { return s.setMute(true) }
func (s *sink) Unmute() error { return s.setMute(false) }

func (s *sink) Muted() (bool, error) {
	info, err := s.info()
	if err != nil {
		return false, err
	}
	return info.Mute, nil
}

type source struct {
	conn requester
}

func (s *source) info() (*proto.GetSourceInfoReply, error) {
	var reply proto.GetSourceInfoReply
	err := s.conn.RawRequest(&proto.GetSourceInfo{SourceIndex: undefinedIndex, SourceName: defaultSource}, &reply)
	if err != nil {
		return nil, fmt.Errorf("get default source: %w", err)
	}
	return &reply, nil
}

func (s *source) Volume() (float64, error) {
	info, err := s.info()
	if err != nil {
		return 0, err
	}
	return average(info.ChannelVolumes), nil
}

func (s *source) SetVolume(percent int) error {
	info, err := s.info()
	if err != nil {
		return err
	}
	return s.conn.RawRequest(&proto.SetSourceVolume{
		SourceIndex:    undefinedIndex,
		SourceName:     defaultSource,
		ChannelVolumes: scaled(len(info.ChannelVolumes), percent),
	}, nil)
}

func (s *source) setMute(mute bool) error {
	return s.conn.RawRequest(&proto.SetSourceMute{SourceIndex: undefinedIndex, SourceName: defaultSource, Mute: mute}, nil)
}

func (s *source) Mute() error   { return s.setMute(true) }
func (s *source) Unmute() error { return s.setMute(false) }

func (s *source) Muted() (bool, error) {
	info, err := s.info()
	if err != nil {
		return false, err
	}
	return info.Mute, nil
}
