// SPDX-License-Identifier: EPL-2.0

// Package sndpool is the sound playback layer of a game.
//
// A System owns an audio engine and two higher level parts built on it:
//   - sound effects (package sfx): each loaded sound gets a fixed number of
//     voices; when all are busy the voice farthest from the listener is
//     stolen, and handles to stolen voices go stale instead of dangling
//   - music (package music): one background track at a time, with the next
//     track loaded while the current one fades out
//
// # Quick Start
//
//	cfg, err := sndpool.LoadConfig()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	sys, err := sndpool.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer sys.Teardown()
//
//	shot, _ := sys.Sound("assets/sounds/shot.wav")
//	sys.QueueSong("assets/music/level1.ogg", true, 0)
//
//	for running {
//	    sys.SetListenerOrientation(cam.Pos, cam.Forward)
//	    if fired {
//	        sys.PlayAttenuated(shot, gun.Pos)
//	    }
//	    sys.Update()
//	}
//
// # Supported Formats
//
// The bundled Mixer decodes:
//   - WAV (PCM 8/16/24/32-bit) via formats/wav
//   - MP3 via formats/mp3
//   - Ogg Vorbis via formats/vorbis
//   - AIFF via formats/aiff
//
// Everything is converted to 44100 Hz stereo float32 on load.
//
// # Sound Metadata
//
// Sounds loaded with System.Sound may have a sidecar file next to them
// (shot.json, shot.yaml or shot.toml) setting polyphony, loop and rolloff.
//
// # Configuration
//
// LoadConfig reads SNDPOOL_* environment variables; see Config.
package sndpool
