package babatext

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"io"
)

type frame struct {
	img image.Image
	err error
}

// MJPEGReader splits a motion-JPEG stream, a plain concatenation of JPEG
// images, into frames.
type MJPEGReader struct {
	Reader io.Reader
}

// ReadAll emits every frame of the stream, then closes the channel. A decode
// or read error is sent as the last frame.
func (mjpeg *MJPEGReader) ReadAll() <-chan frame {
	frames := make(chan frame)
	go func() {
		defer close(frames)

		var buf bytes.Buffer
		var prev byte
		depth := 0
		p := make([]byte, 4096)
		for {
			n, err := mjpeg.Reader.Read(p)
			for _, b := range p[:n] {
				buf.WriteByte(b)
				marker := prev == 0xff
				prev = b
				if !marker {
					continue
				}
				// SOI and EOI nest: embedded thumbnails carry their own pair.
				switch b {
				case 0xd8:
					depth++
					continue
				case 0xd9:
					if depth > 1 {
						depth--
						continue
					}
				default:
					continue
				}
				depth = 0
				prev = 0
				img, derr := jpeg.Decode(&buf)
				if derr != nil {
					frames <- frame{err: derr}
					return
				}
				frames <- frame{img: img}
				buf.Reset()
			}
			if err == io.EOF {
				return
			}
			if err != nil {
				frames <- frame{err: err}
				return
			}
		}
	}()
	return frames
}

// DecodeMJPEG reads a whole motion-JPEG stream as an animated source played at
// fps frames per second.
func DecodeMJPEG(r io.Reader, fps int) (*Source, error) {
	if fps <= 0 {
		return nil, fmt.Errorf("invalid fps %d", fps)
	}
	reader := MJPEGReader{Reader: r}
	src := &Source{Delays: []int{}}
	delay := 100 / fps
	for f := range reader.ReadAll() {
		if f.err != nil {
			return nil, f.err
		}
		src.Frames = append(src.Frames, f.img)
		src.Delays = append(src.Delays, delay)
	}
	if len(src.Frames) == 0 {
		return nil, io.ErrUnexpectedEOF
	}
	return src, nil
}
