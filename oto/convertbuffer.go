package oto

import (
	"encoding/binary"
	"math"

	"github.com/vsariola/levelscope"
)

const bytesPerFrame = 8

// FloatBufferToFloat32LE encodes as many frames of buf as fit into out as
// interleaved float32 little endian samples, clipping to [-1, 1]. Returns
// the number of bytes written.
func FloatBufferToFloat32LE(buf levelscope.AudioBuffer, out []byte) int {
	n := min(len(buf), len(out)/bytesPerFrame)
	for i, f := range buf[:n] {
		binary.LittleEndian.PutUint32(out[i*8:], math.Float32bits(clip(f[0])))
		binary.LittleEndian.PutUint32(out[i*8+4:], math.Float32bits(clip(f[1])))
	}
	return n * bytesPerFrame
}

func clip(v float32) float32 {
	if v < -1.0 {
		return -1
	} else if v > 1.0 {
		return 1
	}
	return v
}
