// SPDX-License-Identifier: EPL-2.0

// Command sndplay plays sounds and music through sndpool, either on the
// default output device or rendered into a WAV file.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ik5/sndpool"
	"github.com/ik5/sndpool/engine"
	"github.com/spf13/cobra"
)

const frame = time.Second / 60

var (
	renderPath string
	duration   time.Duration
	verbose    bool

	rootCmd = &cobra.Command{
		Use:          "sndplay",
		Short:        "Play sound effects and music through sndpool",
		SilenceUsage: true,
	}
)

// session is a running System plus, when rendering, the capture device
// that stands in for the clock.
type session struct {
	sys     *sndpool.System
	capture *engine.CaptureDevice
	out     *os.File
	logger  *log.Logger
}

func newSession() (*session, error) {
	cfg, err := sndpool.LoadConfig()
	if err != nil {
		return nil, err
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Prefix:          "sndplay",
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}

	s := &session{logger: logger}
	opts := []sndpool.Option{sndpool.WithLogger(logger)}
	if renderPath != "" {
		s.out, err = os.Create(renderPath)
		if err != nil {
			return nil, fmt.Errorf("creating %s: %w", renderPath, err)
		}
		s.capture = engine.NewCaptureDevice(s.out)
		opts = append(opts, sndpool.WithDevice(s.capture))
	}

	s.sys, err = sndpool.New(cfg, opts...)
	if err != nil {
		if s.out != nil {
			s.out.Close()
		}
		return nil, err
	}
	return s, nil
}

// run advances the system frame by frame for d, calling each (if not nil)
// before every update.
func (s *session) run(d time.Duration, each func(elapsed time.Duration)) error {
	var ticker *time.Ticker
	if s.capture == nil {
		ticker = time.NewTicker(frame)
		defer ticker.Stop()
	}

	for elapsed := time.Duration(0); elapsed < d; elapsed += frame {
		if each != nil {
			each(elapsed)
		}
		s.sys.Update()

		if s.capture != nil {
			if err := s.capture.Render(frame); err != nil {
				return err
			}
			continue
		}
		<-ticker.C
	}
	return nil
}

func (s *session) close() {
	s.sys.Teardown()
	if s.out != nil {
		if err := s.out.Close(); err != nil {
			s.logger.Error("failed to close render file", "err", err)
		}
		s.logger.Info("rendered", "path", renderPath, "frames", s.capture.Frames())
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&renderPath, "render", "r", "", "render into this WAV file instead of playing")
	rootCmd.PersistentFlags().DurationVarP(&duration, "duration", "d", 3*time.Second, "how long to run")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(playCmd, musicCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
