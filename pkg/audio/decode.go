// Package audio decodes the gateway's base64 PCM payloads and plays them
// through a process-wide output.
package audio

import (
	"encoding/base64"
	"fmt"
)

// Decode converts a base64 payload of mono 16-bit signed little-endian
// PCM into samples normalized to [-1, 1].
func Decode(b64 string) ([]float32, error) {
	raw, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, fmt.Errorf("decoding audio payload: %w", err)
	}
	if len(raw)%2 != 0 {
		return nil, fmt.Errorf("pcm stream has odd byte length %d", len(raw))
	}

	samples := make([]float32, len(raw)/2)
	for i := range samples {
		s := int16(raw[i*2]) | int16(raw[i*2+1])<<8
		samples[i] = float32(s) / 32768.0
	}
	return samples, nil
}

// EncodePCM converts normalized samples back to 16-bit LE PCM bytes.
func EncodePCM(samples []float32) []byte {
	raw := make([]byte, len(samples)*2)
	for i, sample := range samples {
		if sample > 1 {
			sample = 1
		} else if sample < -1 {
			sample = -1
		}
		v := int16(sample * 32767)
		raw[i*2] = byte(v)
		raw[i*2+1] = byte(v >> 8)
	}
	return raw
}
