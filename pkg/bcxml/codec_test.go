package bcxml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginUserRoundTrip(t *testing.T) {
	in := &BcXml{
		LoginUser: &LoginUser{
			UserName: "21232F297A57A5A743894A0E4A801FC",
			Password: "D41D8CD98F00B204E9800998ECF8427",
			UserVer:  1,
		},
	}

	raw, err := Marshal(in)
	require.NoError(t, err)

	var out BcXml
	require.NoError(t, Unmarshal(raw, &out))
	require.NotNil(t, out.LoginUser)
	assert.Equal(t, in.LoginUser.UserName, out.LoginUser.UserName)
	assert.Equal(t, in.LoginUser.Password, out.LoginUser.Password)
	assert.Equal(t, in.LoginUser.UserVer, out.LoginUser.UserVer)
	assert.Nil(t, out.DeviceInfo)
}

func TestLedStateSetOmitsVersion(t *testing.T) {
	set := &BcXml{LedState: &LedState{ChannelID: 0, LightState: 1, State: 1}}
	raw, err := Marshal(set)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "ledVersion")
}

func TestUnknownElementsTolerated(t *testing.T) {
	body := []byte(`<body><DeviceInfo><firmwareVersion>v1</firmwareVersion></DeviceInfo><FutureThing><x>1</x></FutureThing></body>`)
	var out BcXml
	require.NoError(t, Unmarshal(body, &out))
	require.NotNil(t, out.DeviceInfo)
	assert.Equal(t, "v1", out.DeviceInfo.FirmwareVersion)
}

func TestExtensionEnvelope(t *testing.T) {
	ch := 3
	in := &Extension{ChannelID: &ch}
	raw, err := Marshal(in)
	require.NoError(t, err)

	var out Extension
	require.NoError(t, Unmarshal(raw, &out))
	require.NotNil(t, out.ChannelID)
	assert.Equal(t, 3, *out.ChannelID)
}
