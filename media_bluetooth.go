package main

import (
	"strings"

	"github.com/godbus/dbus/v5"
)

const (
	bluezBus         = "org.bluez"
	deviceIface      = "org.bluez.Device1"
	mediaPlayerIface = "org.bluez.MediaPlayer1"
	propsGetAll      = "org.freedesktop.DBus.Properties.GetAll"
)

// BluezSource implements MediaSource against a remote device's media
// player interface on the system bus.
type BluezSource struct {
	conn *dbus.Conn
	addr string
}

// NewBluezSource connects to the system bus for the device with the given
// colon-delimited hardware address.
func NewBluezSource(addr string) (*BluezSource, error) {
	conn, err := dbus.SystemBus()
	if err != nil {
		return nil, err
	}
	return &BluezSource{conn: conn, addr: addr}, nil
}

// bluezDeviceID turns a colon-delimited address into the path segment the
// bus expects: uppercased, colons replaced with underscores.
func bluezDeviceID(addr string) string {
	return strings.ToUpper(strings.ReplaceAll(addr, ":", "_"))
}

func (s *BluezSource) devicePath() dbus.ObjectPath {
	return dbus.ObjectPath("/org/bluez/hci0/dev_" + bluezDeviceID(s.addr))
}

func (s *BluezSource) playerPath() dbus.ObjectPath {
	return dbus.ObjectPath(string(s.devicePath()) + "/player0")
}

// Reachable checks the Connected property on the paired-device path.
func (s *BluezSource) Reachable() bool {
	obj := s.conn.Object(bluezBus, s.devicePath())
	v, err := obj.GetProperty(deviceIface + ".Connected")
	if err != nil {
		return false
	}
	connected, ok := v.Value().(bool)
	return ok && connected
}

// Refresh reads all media-player properties in one call. Not connected is
// a distinct condition from connected-but-no-metadata: the former returns
// errNotConnected, the latter a neutral snapshot.
func (s *BluezSource) Refresh() (PlaybackInfo, error) {
	if !s.Reachable() {
		return neutralInfo(), errNotConnected
	}
	obj := s.conn.Object(bluezBus, s.playerPath())
	var props map[string]dbus.Variant
	if err := obj.Call(propsGetAll, 0, mediaPlayerIface).Store(&props); err != nil {
		return neutralInfo(), nil
	}
	return playbackFromBluez(props), nil
}

// playbackFromBluez builds a snapshot from a MediaPlayer1 property map.
// Duration is the minimum of all length-like fields present, defaulting
// to 1 to keep progress math defined.
func playbackFromBluez(props map[string]dbus.Variant) PlaybackInfo {
	info := neutralInfo()

	if v, ok := props["Status"]; ok {
		if st, ok := v.Value().(string); ok && st != "" {
			// BlueZ reports lowercase statuses.
			info.Status = strings.ToUpper(st[:1]) + st[1:]
		}
	}
	if v, ok := props["Position"]; ok {
		info.PositionMs = variantInt(v)
	}

	var lengths []int64
	if v, ok := props["Duration"]; ok {
		if n := variantInt(v); n > 0 {
			lengths = append(lengths, n)
		}
	}
	if v, ok := props["Track"]; ok {
		if track, ok := v.Value().(map[string]dbus.Variant); ok {
			if tv, ok := track["Title"]; ok {
				info.Title, _ = tv.Value().(string)
			}
			if tv, ok := track["Artist"]; ok {
				info.Artist, _ = tv.Value().(string)
			}
			if tv, ok := track["Album"]; ok {
				info.Album, _ = tv.Value().(string)
			}
			if tv, ok := track["Duration"]; ok {
				if n := variantInt(tv); n > 0 {
					lengths = append(lengths, n)
				}
			}
		}
	}
	for _, n := range lengths {
		if info.DurationMs == 1 || n < info.DurationMs {
			info.DurationMs = n
		}
	}
	return info
}

// variantInt coerces the unsigned and signed integer widths BlueZ uses
// for positions and durations.
func variantInt(v dbus.Variant) int64 {
	switch n := v.Value().(type) {
	case uint32:
		return int64(n)
	case int32:
		return int64(n)
	case uint64:
		return int64(n)
	case int64:
		return n
	case uint16:
		return int64(n)
	}
	return 0
}

// SendCommand invokes the matching MediaPlayer1 transport method.
func (s *BluezSource) SendCommand(cmd Command) error {
	method := ""
	switch cmd {
	case CmdPlay:
		method = "Play"
	case CmdPause:
		method = "Pause"
	case CmdNext:
		method = "Next"
	case CmdPrevious:
		method = "Previous"
	}
	obj := s.conn.Object(bluezBus, s.playerPath())
	return obj.Call(mediaPlayerIface+"."+method, 0).Err
}

// Reconnect asks the device to establish a connection. Errors are
// ignored; the wait screen keeps polling Reachable either way.
func (s *BluezSource) Reconnect() {
	obj := s.conn.Object(bluezBus, s.devicePath())
	_ = obj.Call(deviceIface+".Connect", 0).Err
}
