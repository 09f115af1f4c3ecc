package pulse

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jfreymuth/pulse/proto"

	"audioctl/internal/adapter/secondary/volume"
	"audioctl/internal/domain"
)

// fakeServer answers sink/source requests from in-memory state.
type fakeServer struct {
	sinkVols   proto.ChannelVolumes
	sinkMute   bool
	sourceVols proto.ChannelVolumes
	sourceMute bool
	names      []string
	err        error
}

func (f *fakeServer) RawRequest(req proto.RequestArgs, rpl proto.Reply) error {
	if f.err != nil {
		return f.err
	}
	switch r := req.(type) {
	case *proto.GetSinkInfo:
		f.names = append(f.names, r.SinkName)
		out := rpl.(*proto.GetSinkInfoReply)
		out.ChannelVolumes = append(proto.ChannelVolumes(nil), f.sinkVols...)
		out.Mute = f.sinkMute
	case *proto.SetSinkVolume:
		f.names = append(f.names, r.SinkName)
		f.sinkVols = r.ChannelVolumes
	case *proto.SetSinkMute:
		f.names = append(f.names, r.SinkName)
		f.sinkMute = r.Mute
	case *proto.GetSourceInfo:
		f.names = append(f.names, r.SourceName)
		out := rpl.(*proto.GetSourceInfoReply)
		out.ChannelVolumes = append(proto.ChannelVolumes(nil), f.sourceVols...)
		out.Mute = f.sourceMute
	case *proto.SetSourceVolume:
		f.names = append(f.names, r.SourceName)
		f.sourceVols = r.ChannelVolumes
	case *proto.SetSourceMute:
		f.names = append(f.names, r.SourceName)
		f.sourceMute = r.Mute
	default:
		return fmt.Errorf("unexpected request %T", req)
	}
	return nil
}

func TestSinkVolumeIsFractional(t *testing.T) {
	t.Parallel()

	srv := &fakeServer{sinkVols: proto.ChannelVolumes{volumeNorm, volumeNorm / 2}}
	c := &Client{conn: srv}
	raw, err := c.Device(domain.Speaker).Volume()
	if err != nil {
		t.Fatal(err)
	}
	if raw != 0.75 {
		t.Errorf("Volume = %v, want 0.75", raw)
	}
	if domain.Normalize(raw) != 75 {
		t.Errorf("Normalize(%v) = %d, want 75", raw, domain.Normalize(raw))
	}
}

func TestAmplifiedVolumeReadsAsFull(t *testing.T) {
	t.Parallel()

	for _, pct := range []int{101, 150} {
		ch := uint32(volumeNorm * pct / 100)
		srv := &fakeServer{sinkVols: proto.ChannelVolumes{ch, ch}, sourceVols: proto.ChannelVolumes{ch}}
		c := &Client{conn: srv}
		for _, d := range domain.Devices {
			v, err := volume.NewNativeControl(c.Device(d)).Get(context.Background())
			if err != nil {
				t.Fatal(err)
			}
			if v != 100 {
				t.Errorf("%s at %d%%: Get = %d, want 100", d, pct, v)
			}
		}
	}
}

func TestSetVolumeRoundTrip(t *testing.T) {
	t.Parallel()

	srv := &fakeServer{
		sinkVols:   proto.ChannelVolumes{0, 0},
		sourceVols: proto.ChannelVolumes{0},
	}
	c := &Client{conn: srv}
	for _, d := range domain.Devices {
		dev := c.Device(d)
		for _, p := range []int{0, 1, 42, 56, 100} {
			if err := dev.SetVolume(p); err != nil {
				t.Fatal(err)
			}
			raw, err := dev.Volume()
			if err != nil {
				t.Fatal(err)
			}
			if got := domain.Normalize(raw); int(got) != p {
				t.Errorf("%s: SetVolume(%d) then Volume = %v (%d)", d, p, raw, got)
			}
		}
	}
	if len(srv.sinkVols) != 2 {
		t.Errorf("sink channel count changed to %d", len(srv.sinkVols))
	}
}

func TestMuteTargetsDefaults(t *testing.T) {
	t.Parallel()

	srv := &fakeServer{sinkVols: proto.ChannelVolumes{volumeNorm}, sourceVols: proto.ChannelVolumes{volumeNorm}}
	c := &Client{conn: srv}

	for _, d := range domain.Devices {
		dev := c.Device(d)
		if err := dev.Mute(); err != nil {
			t.Fatal(err)
		}
		if muted, err := dev.Muted(); err != nil || !muted {
			t.Errorf("%s: Muted after Mute = %t, %v", d, muted, err)
		}
		if err := dev.Unmute(); err != nil {
			t.Fatal(err)
		}
		if muted, err := dev.Muted(); err != nil || muted {
			t.Errorf("%s: Muted after Unmute = %t, %v", d, muted, err)
		}
	}
	for _, name := range srv.names {
		if name != defaultSink && name != defaultSource {
			t.Errorf("request addressed %q", name)
		}
	}
}

func TestRequestErrorWrapped(t *testing.T) {
	t.Parallel()

	boom := errors.New("connection reset")
	c := &Client{conn: &fakeServer{err: boom}}
	if _, err := c.Device(domain.Mic).Volume(); !errors.Is(err, boom) {
		t.Errorf("Volume error = %v", err)
	}
}
