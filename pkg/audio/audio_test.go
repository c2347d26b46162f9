package audio

import (
	"bytes"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	// 0x0000 = 0, 0x7fff = max positive, 0x8000 = max negative.
	raw := []byte{0x00, 0x00, 0xff, 0x7f, 0x00, 0x80}
	samples, err := Decode(base64.StdEncoding.EncodeToString(raw))
	require.NoError(t, err)
	require.Len(t, samples, 3)

	assert.InDelta(t, 0.0, samples[0], 1e-6)
	assert.InDelta(t, 1.0, samples[1], 1e-4)
	assert.InDelta(t, -1.0, samples[2], 1e-6)
}

func TestDecodeInvalidBase64(t *testing.T) {
	_, err := Decode("not base64!!!")
	assert.Error(t, err)
}

func TestDecodeOddByteLength(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte{0x01, 0x02, 0x03})
	_, err := Decode(payload)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "odd byte length")
}

func TestEncodePCMRoundTrip(t *testing.T) {
	samples := []float32{0, 0.25, -0.25, 0.99, -0.99}

	raw := EncodePCM(samples)
	decoded, err := Decode(base64.StdEncoding.EncodeToString(raw))
	require.NoError(t, err)
	require.Len(t, decoded, len(samples))

	for i := range samples {
		assert.InDelta(t, samples[i], decoded[i], 1.0/32767)
	}
}

func TestEncodePCMClampsOutOfRange(t *testing.T) {
	raw := EncodePCM([]float32{2.0, -2.0})

	decoded, err := Decode(base64.StdEncoding.EncodeToString(raw))
	require.NoError(t, err)
	assert.InDelta(t, 1.0, decoded[0], 1e-4)
	assert.InDelta(t, -1.0, decoded[1], 1e-4)
}

type bufferSink struct {
	buf        bytes.Buffer
	sampleRate int
	closed     bool
}

func (s *bufferSink) WriteSamples(samples []float32, sampleRate int) error {
	s.sampleRate = sampleRate
	_, err := s.buf.Write(EncodePCM(samples))
	return err
}

func (s *bufferSink) Close() error {
	s.closed = true
	return nil
}

func TestPlayerWritesToSink(t *testing.T) {
	sink := &bufferSink{}
	player := NewPlayer(sink)

	player.Play([]float32{0.5, -0.5}, 24000)
	require.NoError(t, player.Close())

	assert.Equal(t, 24000, sink.sampleRate)
	assert.Equal(t, 4, sink.buf.Len())
	assert.True(t, sink.closed)
}

func TestPCMSinkStreamsRawBytes(t *testing.T) {
	var buf bytes.Buffer
	sink := NewPCMSink(&buf)

	require.NoError(t, sink.WriteSamples([]float32{0, 0}, 24000))
	assert.Equal(t, []byte{0x00, 0x00, 0x00, 0x00}, buf.Bytes())
	require.NoError(t, sink.Close())
}

func TestPlayerIsReusableAcrossMessages(t *testing.T) {
	sink := &bufferSink{}
	player := NewPlayer(sink)

	player.Play([]float32{0.5}, 24000)
	player.Play([]float32{-0.5}, 24000)
	player.Play([]float32{0.25}, 24000)

	// The sink stays open until the explicit teardown.
	assert.False(t, sink.closed)
	assert.Equal(t, 6, sink.buf.Len())

	require.NoError(t, player.Close())
	assert.True(t, sink.closed)
}

func TestOutputIsSingleton(t *testing.T) {
	assert.Same(t, Output(), Output())
}
