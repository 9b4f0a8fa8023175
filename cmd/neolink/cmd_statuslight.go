package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/oakcam/neolink/pkg/bcconfig"
	"github.com/oakcam/neolink/pkg/bccamera"
	"github.com/oakcam/neolink/pkg/bclog"
)

// runStatusLight gets or sets one camera's LED state.
func runStatusLight(args []string) error {
	fs := flag.NewFlagSet("status-light", flag.ExitOnError)
	configPath := fs.String("config", "neolink.toml", "path to the camera/mqtt config file")
	camName := fs.String("camera", "", "camera name from the config file")
	on := fs.Bool("on", false, "turn the LED on")
	off := fs.Bool("off", false, "turn the LED off")
	logFlags := bclog.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *on && *off {
		return fmt.Errorf("--on and --off are mutually exclusive")
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

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	sess, err := bccamera.Connect(ctx, cam.CameraAddr, cam.Username, cam.Password)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer sess.Close()

	state, err := sess.GetLEDState(cam.ChannelID)
	if err != nil {
		return fmt.Errorf("get led state: %w", err)
	}

	if !*on && !*off {
		log.Info().Int("state", state.State).Int("light_state", state.LightState).Msg("current LED state")
		return nil
	}

	if *on {
		state.State = 1
	} else {
		state.State = 0
	}
	if err := sess.SetLEDState(*state); err != nil {
		return fmt.Errorf("set led state: %w", err)
	}
	log.Info().Bool("on", *on).Msg("LED state updated")
	return nil
}

// lookupCamera loads the config file and returns the named camera entry.
func lookupCamera(configPath, name string) (bcconfig.Camera, error) {
	cfg, err := bcconfig.Load(configPath)
	if err != nil {
		return bcconfig.Camera{}, fmt.Errorf("load config: %w", err)
	}
	if name == "" {
		if len(cfg.Cameras) == 1 {
			return cfg.Cameras[0], nil
		}
		return bcconfig.Camera{}, fmt.Errorf("--camera is required when the config has more than one camera")
	}
	for _, c := range cfg.Cameras {
		if c.Name == name {
			return c, nil
		}
	}
	return bcconfig.Camera{}, fmt.Errorf("no camera named %q in %s", name, configPath)
}
