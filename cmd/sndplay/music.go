// SPDX-License-Identifier: EPL-2.0

package main

import (
	"time"

	"github.com/spf13/cobra"
)

var (
	fade  time.Duration
	loop  bool
	every time.Duration

	musicCmd = &cobra.Command{
		Use:   "music SONG...",
		Short: "Play songs one after another, crossfading between them",
		Args:  cobra.MinimumNArgs(1),
		RunE:  executeMusic,
	}
)

func executeMusic(_ *cobra.Command, args []string) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	defer s.close()

	queued := 0
	next := time.Duration(0)
	return s.run(duration, func(elapsed time.Duration) {
		if queued >= len(args) || elapsed < next {
			return
		}
		if !s.sys.QueueSong(args[queued], loop, fade) {
			s.logger.Warn("skipping song", "path", args[queued])
		}
		queued++
		next += every
	})
}

func init() {
	musicCmd.Flags().DurationVarP(&fade, "fade", "f", time.Second, "fade-out of the previous song")
	musicCmd.Flags().BoolVarP(&loop, "loop", "l", false, "loop each song")
	musicCmd.Flags().DurationVarP(&every, "every", "e", 5*time.Second, "time between songs")
}
