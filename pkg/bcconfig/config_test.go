package bcconfig

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
[[cameras]]
name = "frontdoor"
camera_addr = "192.168.1.10:9000"
username = "admin"
password = "secret"
channel_id = 0
stream = "mainStream"

[[cameras]]
name = "backyard"
camera_addr = "192.168.1.11:9000"
username = "admin"
channel_id = 1

[mqtt]
broker_addr = "mqtt.local"
port = 1883
credentials = "user:pass"
`

func TestParseTwoCamerasAndMQTT(t *testing.T) {
	cfg, err := parse(strings.NewReader(sampleConfig))
	require.NoError(t, err)
	require.Len(t, cfg.Cameras, 2)

	assert.Equal(t, "frontdoor", cfg.Cameras[0].Name)
	assert.Equal(t, "192.168.1.10:9000", cfg.Cameras[0].CameraAddr)
	assert.Equal(t, "secret", cfg.Cameras[0].Password)
	assert.Equal(t, 0, cfg.Cameras[0].ChannelID)

	assert.Equal(t, "backyard", cfg.Cameras[1].Name)
	assert.Equal(t, "", cfg.Cameras[1].Password)
	assert.Equal(t, 1, cfg.Cameras[1].ChannelID)

	require.NotNil(t, cfg.MQTT)
	assert.Equal(t, "mqtt.local", cfg.MQTT.BrokerAddr)
	assert.Equal(t, 1883, cfg.MQTT.Port)
}

func TestValidateRejectsCAAndClientAuthTogether(t *testing.T) {
	cfg, err := parse(strings.NewReader(sampleConfig))
	require.NoError(t, err)
	cfg.MQTT.CA = "/etc/ca.pem"
	cfg.MQTT.ClientAuth = "/etc/client.pem"

	err = cfg.Validate()
	assert.ErrorContains(t, err, "mutually exclusive")
}

func TestValidateRejectsNoCameras(t *testing.T) {
	cfg := &Config{}
	err := cfg.Validate()
	assert.ErrorContains(t, err, "no cameras")
}

func TestValidateRejectsDuplicateNames(t *testing.T) {
	cfg := &Config{Cameras: []Camera{
		{Name: "a", CameraAddr: "x:1", Username: "u"},
		{Name: "a", CameraAddr: "y:1", Username: "u"},
	}}
	err := cfg.Validate()
	assert.ErrorContains(t, err, "duplicate")
}

func TestParseRejectsUnknownTable(t *testing.T) {
	_, err := parse(strings.NewReader("[bogus]\nfoo = \"bar\"\n"))
	assert.Error(t, err)
}
