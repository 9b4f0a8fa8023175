package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/oakcam/neolink/pkg/bccamera"
	"github.com/oakcam/neolink/pkg/bclog"
	"github.com/oakcam/neolink/pkg/bcxml"
	"github.com/oakcam/neolink/pkg/talkin"
)

// runTalk streams a pre-encoded ADPCM source (a file, or stdin by
// default) to a camera's speaker. Encoding PCM to ADPCM is out of scope
// (spec.md's external-toolkit Non-goal) — the input must already be
// ADPCM framed.
func runTalk(args []string) error {
	fs := flag.NewFlagSet("talk", flag.ExitOnError)
	configPath := fs.String("config", "neolink.toml", "path to the camera/mqtt config file")
	camName := fs.String("camera", "", "camera name from the config file")
	input := fs.String("input", "-", "ADPCM input file, or - for stdin")
	logFlags := bclog.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	logCfg, err := logFlags.ToConfig()
	if err != nil {
		return err
	}
	log, err := bclog.New(logCfg)
	if err != nil {
		return err
	}
	defer log.Close()

	cam, err := lookupCamera(*configPath, *camName)
	if err != nil {
		return err
	}

	source := os.Stdin
	if *input != "-" {
		f, err := os.Open(*input)
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		source = f
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	sess, err := bccamera.Connect(ctx, cam.CameraAddr, cam.Username, cam.Password)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer sess.Close()

	ability, err := sess.GetTalkAbility(cam.ChannelID)
	if err != nil {
		return fmt.Errorf("get talk ability: %w", err)
	}
	if len(ability.AudioConfigList) == 0 {
		return fmt.Errorf("camera reported no talk audio configs")
	}
	audio := ability.AudioConfigList[0]
	blockSize := talkin.BlockSize(audio)

	cfg := bcxml.TalkConfig{
		ChannelID:  cam.ChannelID,
		Duplex:     firstOrDefault(ability.DuplexList, "FDX"),
		AudioType:  "ADPCM",
		SampleRate: audio.SampleRate,
	}

	log.Info().Int("block_size", blockSize).Int("sample_rate", audio.SampleRate).Msg("starting talk stream")
	if err := sess.Talk(source, cfg, blockSize); err != nil {
		return fmt.Errorf("talk: %w", err)
	}
	log.Info().Msg("talk stream finished")
	return nil
}

func firstOrDefault(list []string, def string) string {
	if len(list) == 0 {
		return def
	}
	return list[0]
}
