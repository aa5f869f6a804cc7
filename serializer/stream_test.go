// Copyright 2025 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package serializer_test

import (
	"errors"
	"testing"

	"github.com/blinklabs-io/gostardust/serializer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteStreamLittleEndian(t *testing.T) {
	w := serializer.NewWriteStream()
	w.WriteUint8(0x01)
	w.WriteUint16(0x0302)
	w.WriteUint32(0x07060504)
	w.WriteUint64(0x0f0e0d0c0b0a0908)
	w.WriteBool(true)
	w.WriteBool(false)
	assert.Equal(
		t,
		"0102030405060708090a0b0c0d0e0f0100",
		w.Hex(),
	)
	assert.Equal(t, 17, w.Length())
}

func TestReadStreamRoundTrip(t *testing.T) {
	w := serializer.NewWriteStream()
	w.WriteUint8(0xab)
	w.WriteUint16(65535)
	w.WriteUint32(123456)
	w.WriteUint64(1 << 63)
	w.WriteBool(true)
	w.WriteFixed([]byte{1, 2, 3})
	w.WriteBytes8([]byte("tag"))
	w.WriteBytes16([]byte("metadata"))
	w.WriteBytes32([]byte("data"))

	r := serializer.NewReadStream(w.Bytes())
	u8, err := r.ReadUint8("u8")
	require.NoError(t, err)
	assert.Equal(t, uint8(0xab), u8)
	u16, err := r.ReadUint16("u16")
	require.NoError(t, err)
	assert.Equal(t, uint16(65535), u16)
	u32, err := r.ReadUint32("u32")
	require.NoError(t, err)
	assert.Equal(t, uint32(123456), u32)
	u64, err := r.ReadUint64("u64")
	require.NoError(t, err)
	assert.Equal(t, uint64(1<<63), u64)
	b, err := r.ReadBool("bool")
	require.NoError(t, err)
	assert.True(t, b)
	fixed, err := r.ReadFixed("fixed", 3)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, fixed)
	tag, err := r.ReadBytes8("tag")
	require.NoError(t, err)
	assert.Equal(t, "tag", string(tag))
	meta, err := r.ReadBytes16("metadata")
	require.NoError(t, err)
	assert.Equal(t, "metadata", string(meta))
	data, err := r.ReadBytes32("data")
	require.NoError(t, err)
	assert.Equal(t, "data", string(data))
	assert.NoError(t, r.ExpectEnd("stream"))
	assert.Equal(t, r.Length(), r.Position())
}

func TestReadStreamTruncated(t *testing.T) {
	testDefs := []struct {
		name     string
		data     []byte
		read     func(*serializer.ReadStream) error
		required int
	}{
		{
			name: "uint16",
			data: []byte{0x01},
			read: func(r *serializer.ReadStream) error {
				_, err := r.ReadUint16("value")
				return err
			},
			required: 2,
		},
		{
			name: "uint32",
			data: []byte{0x01, 0x02, 0x03},
			read: func(r *serializer.ReadStream) error {
				_, err := r.ReadUint32("value")
				return err
			},
			required: 4,
		},
		{
			name: "uint64",
			data: []byte{},
			read: func(r *serializer.ReadStream) error {
				_, err := r.ReadUint64("value")
				return err
			},
			required: 8,
		},
		{
			name: "length prefixed",
			data: []byte{0x05, 'a', 'b'},
			read: func(r *serializer.ReadStream) error {
				_, err := r.ReadBytes8("value")
				return err
			},
			required: 5,
		},
		{
			name: "huge uint32 length prefix",
			data: []byte{0xff, 0xff, 0xff, 0xff, 0x00},
			read: func(r *serializer.ReadStream) error {
				_, err := r.ReadBytes32("value")
				return err
			},
			// Only the error class matters here
			required: -1,
		},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			r := serializer.NewReadStream(testDef.data)
			err := testDef.read(r)
			require.Error(t, err)
			assert.ErrorIs(t, err, serializer.ErrTruncatedInput)
			var truncErr *serializer.TruncatedInputError
			require.True(t, errors.As(err, &truncErr))
			assert.Equal(t, "value", truncErr.Field)
			if testDef.required >= 0 {
				assert.Equal(t, testDef.required, truncErr.Required)
			}
		})
	}
}

func TestReadStreamFailedReadDoesNotAdvance(t *testing.T) {
	r := serializer.NewReadStream([]byte{0x01, 0x02, 0x03})
	_, err := r.ReadUint32("value")
	require.Error(t, err)
	assert.Equal(t, 0, r.Position())
	v, err := r.ReadUint16("value")
	require.NoError(t, err)
	assert.Equal(t, uint16(0x0201), v)
}

func TestReadStreamPeek(t *testing.T) {
	r := serializer.NewReadStream([]byte{0x06, 0x00, 0x00, 0x00})
	tag, err := r.PeekUint8("type")
	require.NoError(t, err)
	assert.Equal(t, uint8(6), tag)
	tag32, err := r.PeekUint32("type")
	require.NoError(t, err)
	assert.Equal(t, uint32(6), tag32)
	assert.Equal(t, 0, r.Position())
}

func TestReadStreamInvalidBool(t *testing.T) {
	r := serializer.NewReadStream([]byte{0x02})
	_, err := r.ReadBool("final")
	assert.ErrorIs(t, err, serializer.ErrInvalidValue)
}

func TestReadStreamSub(t *testing.T) {
	r := serializer.NewReadStream([]byte{0x01, 0x02, 0x03, 0x04})
	sub, err := r.Sub("frame", 3)
	require.NoError(t, err)
	assert.Equal(t, 3, sub.Length())
	assert.Equal(t, 1, r.Unused())
	_, err = sub.ReadUint16("a")
	require.NoError(t, err)
	assert.ErrorIs(t, sub.ExpectEnd("frame"), serializer.ErrTrailingData)
}

func TestWriteStreamBackfill(t *testing.T) {
	w := serializer.NewWriteStream()
	w.WriteUint8(0xff)
	offset := w.Reserve32()
	w.WriteFixed([]byte{1, 2, 3, 4, 5})
	w.Backfill32(offset)
	assert.Equal(t, "ff050000000102030405", w.Hex())
}

func TestWriteStreamOversizedBlobPanics(t *testing.T) {
	w := serializer.NewWriteStream()
	assert.Panics(t, func() {
		w.WriteBytes8(make([]byte, 256))
	})
}
