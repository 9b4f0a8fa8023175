// Command neolink is the CLI front end for the BC camera client: a
// config-file-driven multi-camera RTSP bridge plus one-shot LED/reboot/
// talk utilities, the way the teacher's cmd/relay is a config-driven
// single-camera bridge plus cmd/diagnose/cmd/verify one-shot utilities.
package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "rtsp":
		err = runRTSP(os.Args[2:])
	case "status-light":
		err = runStatusLight(os.Args[2:])
	case "reboot":
		err = runReboot(os.Args[2:])
	case "talk":
		err = runTalk(os.Args[2:])
	case "-h", "--help", "help":
		usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "neolink: unknown sub-command %q\n\n", os.Args[1])
		usage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "neolink %s: %v\n", os.Args[1], err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: %s <sub-command> [options]

Sub-commands:
  rtsp           run the RTSP bridge for every camera in --config
  status-light   get or set a camera's LED state
  reboot         reboot a camera
  talk           stream an ADPCM source to a camera's speaker

Run "%s <sub-command> --help" for sub-command options.
`, os.Args[0], os.Args[0])
}
