// SPDX-License-Identifier: EPL-2.0

// Package mp3 provides MP3 decoding on top of github.com/hajimehoshi/go-mp3.
//
// go-mp3 always emits 16-bit stereo, so the source reports two channels
// regardless of the file. Mono MP3s come out with both sides identical.
//
//	file, _ := os.Open("theme.mp3")
//	src, err := mp3.Decoder{}.Decode(file)
//	if err != nil {
//	    return err
//	}
//	defer src.Close()
//
// # Seeking and length
//
// When the input is an io.ReadSeeker (an *os.File, for example) the
// source implements audio.FrameSeeker and audio.FrameLengther. With a plain
// io.Reader the length is reported as -1 and SeekFrame fails.
package mp3
