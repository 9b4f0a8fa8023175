package rtspout

import (
	"fmt"

	"github.com/pion/sdp/v3"

	"github.com/oakcam/neolink/pkg/bcmedia"
	"github.com/oakcam/neolink/pkg/bcxml"
)

const (
	videoPayloadType = 96
	audioPayloadType = 97
)

// BuildSessionDescription describes one camera stream's video (from info,
// the first InfoChunk the reframer produced) and, when audio != nil, its
// audio track (from the camera's negotiated TalkAbility), the way an RTSP
// server's DESCRIBE response needs it.
func BuildSessionDescription(sessionName string, info bcmedia.InfoChunk, audio *bcxml.AudioConfig) (*sdp.SessionDescription, error) {
	desc := &sdp.SessionDescription{
		Version: 0,
		Origin: sdp.Origin{
			Username:       "-",
			SessionID:      1,
			SessionVersion: 1,
			NetworkType:    "IN",
			AddressType:    "IP4",
			UnicastAddress: "0.0.0.0",
		},
		SessionName: sdp.SessionName(sessionName),
		TimeDescriptions: []sdp.TimeDescription{
			{Timing: sdp.Timing{StartTime: 0, StopTime: 0}},
		},
	}

	video := &sdp.MediaDescription{
		MediaName: sdp.MediaName{
			Media:   "video",
			Port:    sdp.RangedPort{Value: 0},
			Protos:  []string{"RTP", "AVP"},
			Formats: []string{fmt.Sprintf("%d", videoPayloadType)},
		},
		Attributes: []sdp.Attribute{
			{Key: "rtpmap", Value: fmt.Sprintf("%d H264/%d", videoPayloadType, videoClockRate)},
			{Key: "fmtp", Value: fmt.Sprintf("%d packetization-mode=1", videoPayloadType)},
			{Key: "control", Value: "trackID=0"},
			{Key: "framerate", Value: fmt.Sprintf("%d", info.FPS)},
		},
	}
	desc.MediaDescriptions = append(desc.MediaDescriptions, video)

	if audio != nil {
		a := &sdp.MediaDescription{
			MediaName: sdp.MediaName{
				Media:   "audio",
				Port:    sdp.RangedPort{Value: 0},
				Protos:  []string{"RTP", "AVP"},
				Formats: []string{fmt.Sprintf("%d", audioPayloadType)},
			},
			Attributes: []sdp.Attribute{
				{Key: "rtpmap", Value: fmt.Sprintf("%d mpeg4-generic/%d", audioPayloadType, audio.SampleRate)},
				{Key: "fmtp", Value: fmt.Sprintf("%d streamtype=5;profile-level-id=1;mode=AAC-hbr;sizeLength=13;indexLength=3;indexDeltaLength=3", audioPayloadType)},
				{Key: "control", Value: "trackID=1"},
			},
		}
		desc.MediaDescriptions = append(desc.MediaDescriptions, a)
	}

	return desc, nil
}
