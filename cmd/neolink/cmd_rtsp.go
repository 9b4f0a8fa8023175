package main

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/oakcam/neolink/pkg/bcconfig"
	"github.com/oakcam/neolink/pkg/bclog"
	"github.com/oakcam/neolink/pkg/bccamera"
	"github.com/oakcam/neolink/pkg/bcmedia"
	"github.com/oakcam/neolink/pkg/bcstatus"
	"github.com/oakcam/neolink/pkg/bcsupervisor"
	"github.com/oakcam/neolink/pkg/rtspout"
)

// runRTSP loads --config, then runs one reconnect-supervised pipeline per
// camera: connect, subscribe to "mainStream" on channel 0, packetize and
// pace video into RTP, and write the negotiated SDP alongside. The
// per-camera stream and channel_id settings are not used by this
// sub-command; every camera gets the same stream and channel. Serving those
// RTP packets over an actual RTSP TCP/UDP transport is the embedder's job
// (spec.md scopes a full RTSP *server* out); this sub-command proves the
// pipeline end to end and is where one would plug in that transport.
func runRTSP(args []string) error {
	fs := flag.NewFlagSet("rtsp", flag.ExitOnError)
	configPath := fs.String("config", "neolink.toml", "path to the camera/mqtt config file")
	sdpDir := fs.String("sdp-dir", "", "directory to write each camera's negotiated SDP file (default: cwd)")
	statusAddr := fs.String("status-addr", "", "address to serve /api/cameras and /healthz on (empty disables the status server)")
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
	bclog.SetDefault(log)
	log.Info().Str("flags", logFlags.String()).Msg("starting neolink rtsp bridge")

	cfg, err := bcconfig.Load(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log.Info().Int("cameras", len(cfg.Cameras)).Msg("configuration loaded")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Info().Str("signal", sig.String()).Msg("received shutdown signal")
		cancel()
	}()

	sup := bcsupervisor.New(bcsupervisor.DefaultConfig(), log.Logger, makeRunFunc(log, *sdpDir))
	sup.Start(ctx, cfg.Cameras)

	if *statusAddr != "" {
		status := bcstatus.NewServer(sup, log.Logger)
		if err := status.Start(ctx, *statusAddr); err != nil {
			log.Warn().Err(err).Msg("status server failed to start")
		} else {
			defer func() {
				stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer stopCancel()
				_ = status.Stop(stopCtx)
			}()
		}
	}

	<-ctx.Done()
	sup.Stop()
	log.Info().Msg("rtsp bridge stopped")
	return nil
}

func makeRunFunc(log *bclog.Logger, sdpDir string) bcsupervisor.Run {
	return func(ctx context.Context, sess *bccamera.Session) error {
		sess.WarmupQuery()

		video, err := sess.StartVideo("mainStream", 0)
		if err != nil {
			return fmt.Errorf("start video: %w", err)
		}
		defer video.Close()

		chunks := make(chan bcmedia.Chunk, 8)
		ssrc := randomSSRC()
		track := rtspout.PublishVideo(ctx, chunks, ssrc)

		sdpWritten := false
		errCh := make(chan error, 1)
		go func() {
			defer close(chunks)
			for {
				chunk, err := video.Next(ctx)
				if err != nil {
					errCh <- err
					return
				}
				if chunk.Kind == bcmedia.KindInfoV1 || chunk.Kind == bcmedia.KindInfoV2 {
					if !sdpWritten {
						writeSDP(log, sdpDir, *chunk.Info)
						sdpWritten = true
					}
					continue
				}
				select {
				case chunks <- *chunk:
				case <-ctx.Done():
					errCh <- ctx.Err()
					return
				}
			}
		}()

		var frames uint64
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case err := <-errCh:
				return err
			case pkt, ok := <-track.Packets:
				if !ok {
					return fmt.Errorf("video track closed")
				}
				frames++
				_ = pkt // handed to the RTSP transport in a full embedding
			case <-ticker.C:
				log.Debug().Uint64("rtp_packets", frames).Msg("rtsp bridge stats")
			}
		}
	}
}

func writeSDP(log *bclog.Logger, dir string, info bcmedia.InfoChunk) {
	desc, err := rtspout.BuildSessionDescription("neolink", info, nil)
	if err != nil {
		log.Warn().Err(err).Msg("failed to build SDP")
		return
	}
	raw, err := desc.Marshal()
	if err != nil {
		log.Warn().Err(err).Msg("failed to marshal SDP")
		return
	}
	path := filepath.Join(dir, "neolink.sdp")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("failed to write SDP")
		return
	}
	log.Info().Str("path", path).Msg("wrote SDP")
}

func randomSSRC() uint32 {
	var b [4]byte
	_, _ = rand.Read(b[:])
	return binary.BigEndian.Uint32(b[:])
}
