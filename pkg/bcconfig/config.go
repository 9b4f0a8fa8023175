// Package bcconfig loads the TOML-shaped camera/MQTT configuration
// spec.md §6 describes. No third-party TOML library appears anywhere in
// the retrieved corpus and config parsing is explicitly out of scope for
// the wire-protocol core, so this loader stays a hand-rolled
// bufio.Scanner reader in the same spirit as the teacher's
// pkg/config/config.go .env parser, scaled up just far enough to handle
// repeated [[cameras]] tables and a single [mqtt] table.
package bcconfig

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Camera is one `[[cameras]]` entry.
type Camera struct {
	Name       string
	CameraAddr string
	Username   string
	Password   string
	ChannelID  int
	Stream     string
}

// MQTT is the optional `[mqtt]` table.
type MQTT struct {
	BrokerAddr  string
	Port        int
	Credentials string
	CA          string
	ClientAuth  string
}

// Config is the whole loaded file.
type Config struct {
	Cameras []Camera
	MQTT    *MQTT
}

// Load reads and validates the config file at path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	cfg, err := parse(f)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

type section int

const (
	sectionNone section = iota
	sectionCamera
	sectionMQTT
)

func parse(r io.Reader) (*Config, error) {
	cfg := &Config{}
	cur := sectionNone
	var camera *Camera

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.HasPrefix(line, "[[") {
			if strings.TrimSpace(strings.Trim(line, "[]")) != "cameras" {
				return nil, fmt.Errorf("bcconfig: unknown table %q", line)
			}
			if camera != nil {
				cfg.Cameras = append(cfg.Cameras, *camera)
			}
			camera = &Camera{}
			cur = sectionCamera
			continue
		}
		if strings.HasPrefix(line, "[") {
			name := strings.TrimSpace(strings.Trim(line, "[]"))
			if name != "mqtt" {
				return nil, fmt.Errorf("bcconfig: unknown table %q", line)
			}
			if camera != nil {
				cfg.Cameras = append(cfg.Cameras, *camera)
				camera = nil
			}
			cfg.MQTT = &MQTT{}
			cur = sectionMQTT
			continue
		}

		key, value, ok := splitKV(line)
		if !ok {
			continue
		}

		switch cur {
		case sectionCamera:
			if camera == nil {
				return nil, fmt.Errorf("bcconfig: key %q outside [[cameras]]", key)
			}
			if err := assignCamera(camera, key, value); err != nil {
				return nil, err
			}
		case sectionMQTT:
			if err := assignMQTT(cfg.MQTT, key, value); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("bcconfig: key %q outside any table", key)
		}
	}
	if camera != nil {
		cfg.Cameras = append(cfg.Cameras, *camera)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("bcconfig: scan: %w", err)
	}
	return cfg, nil
}

func splitKV(line string) (key, value string, ok bool) {
	parts := strings.SplitN(line, "=", 2)
	if len(parts) != 2 {
		return "", "", false
	}
	key = strings.TrimSpace(parts[0])
	value = strings.TrimSpace(parts[1])
	value = strings.Trim(value, `"`)
	return key, value, true
}

func assignCamera(c *Camera, key, value string) error {
	switch key {
	case "name":
		c.Name = value
	case "camera_addr":
		c.CameraAddr = value
	case "username":
		c.Username = value
	case "password":
		c.Password = value
	case "stream":
		c.Stream = value
	case "channel_id":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("bcconfig: channel_id: %w", err)
		}
		c.ChannelID = n
	default:
		return fmt.Errorf("bcconfig: unknown camera key %q", key)
	}
	return nil
}

func assignMQTT(m *MQTT, key, value string) error {
	switch key {
	case "broker_addr":
		m.BrokerAddr = value
	case "port":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("bcconfig: port: %w", err)
		}
		m.Port = n
	case "credentials":
		m.Credentials = value
	case "ca":
		m.CA = value
	case "client_auth":
		m.ClientAuth = value
	default:
		return fmt.Errorf("bcconfig: unknown mqtt key %q", key)
	}
	return nil
}

// Validate enforces spec.md §6's ca/client_auth mutual exclusion and that
// every camera at least names itself and an address.
func (c *Config) Validate() error {
	if len(c.Cameras) == 0 {
		return fmt.Errorf("bcconfig: no cameras configured")
	}
	seen := make(map[string]bool, len(c.Cameras))
	for _, cam := range c.Cameras {
		if cam.Name == "" {
			return fmt.Errorf("bcconfig: camera missing name")
		}
		if cam.CameraAddr == "" {
			return fmt.Errorf("bcconfig: camera %q missing camera_addr", cam.Name)
		}
		if cam.Username == "" {
			return fmt.Errorf("bcconfig: camera %q missing username", cam.Name)
		}
		if seen[cam.Name] {
			return fmt.Errorf("bcconfig: duplicate camera name %q", cam.Name)
		}
		seen[cam.Name] = true
	}
	if c.MQTT != nil && c.MQTT.CA != "" && c.MQTT.ClientAuth != "" {
		return fmt.Errorf("bcconfig: mqtt ca and client_auth are mutually exclusive")
	}
	return nil
}
