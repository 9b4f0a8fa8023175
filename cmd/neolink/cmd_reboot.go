package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/oakcam/neolink/pkg/bccamera"
	"github.com/oakcam/neolink/pkg/bclog"
)

// runReboot connects to one camera and sends its reboot request.
func runReboot(args []string) error {
	fs := flag.NewFlagSet("reboot", flag.ExitOnError)
	configPath := fs.String("config", "neolink.toml", "path to the camera/mqtt config file")
	camName := fs.String("camera", "", "camera name from the config file")
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

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	sess, err := bccamera.Connect(ctx, cam.CameraAddr, cam.Username, cam.Password)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer sess.Close()

	if err := sess.Reboot(); err != nil {
		return fmt.Errorf("reboot: %w", err)
	}
	log.Info().Str("camera", cam.Name).Msg("reboot requested")
	return nil
}
