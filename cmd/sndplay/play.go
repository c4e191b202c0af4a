// SPDX-License-Identifier: EPL-2.0

package main

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/ik5/sndpool/sfx"
	"github.com/spf13/cobra"
)

var (
	repeat   int
	interval time.Duration
	position []float32

	playCmd = &cobra.Command{
		Use:   "play FILE...",
		Short: "Play sound effects, optionally repeated to exercise voice stealing",
		Args:  cobra.MinimumNArgs(1),
		RunE:  executePlay,
	}
)

func executePlay(_ *cobra.Command, args []string) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	defer s.close()

	players := make([]sfx.PlayerID, 0, len(args))
	for _, path := range args {
		p, err := s.sys.Sound(path)
		if err != nil {
			return err
		}
		players = append(players, p)
	}

	var pos mgl32.Vec3
	copy(pos[:], position)
	attenuated := len(position) > 0

	played := 0
	next := time.Duration(0)
	return s.run(duration, func(elapsed time.Duration) {
		if played >= repeat || elapsed < next {
			return
		}
		for _, p := range players {
			var v sfx.VoiceID
			if attenuated {
				v = s.sys.PlayAttenuated(p, pos)
			} else {
				v = s.sys.Play(p)
			}
			s.logger.Debug("play", "player", p.ID, "voice", v.ID, "generation", v.PlayCount)
		}
		played++
		next += interval
	})
}

func init() {
	playCmd.Flags().IntVarP(&repeat, "repeat", "n", 1, "number of times to play each sound")
	playCmd.Flags().DurationVarP(&interval, "interval", "i", 100*time.Millisecond, "time between repeats")
	playCmd.Flags().Float32SliceVarP(&position, "pos", "p", nil, "play attenuated at x,y,z (listener at the origin facing -z)")
}
