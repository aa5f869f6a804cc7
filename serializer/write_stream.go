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

package serializer

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
)

// WriteStream is a growable output buffer. Writes never fail; callers are expected to
// validate lengths before encoding, and a blob that cannot be expressed by its length
// prefix is treated as a programming error.
type WriteStream struct {
	buf []byte
}

// NewWriteStream returns an empty WriteStream
func NewWriteStream() *WriteStream {
	return &WriteStream{
		buf: make([]byte, 0, 256),
	}
}

// Length returns the number of bytes written so far
func (w *WriteStream) Length() int {
	return len(w.buf)
}

func (w *WriteStream) WriteUint8(v uint8) {
	w.buf = append(w.buf, v)
}

func (w *WriteStream) WriteUint16(v uint16) {
	w.buf = binary.LittleEndian.AppendUint16(w.buf, v)
}

func (w *WriteStream) WriteUint32(v uint32) {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, v)
}

func (w *WriteStream) WriteUint64(v uint64) {
	w.buf = binary.LittleEndian.AppendUint64(w.buf, v)
}

func (w *WriteStream) WriteBool(v bool) {
	if v {
		w.WriteUint8(1)
	} else {
		w.WriteUint8(0)
	}
}

// WriteFixed writes b with no length prefix
func (w *WriteStream) WriteFixed(b []byte) {
	w.buf = append(w.buf, b...)
}

// WriteBytes8 writes b prefixed by its uint8 length
func (w *WriteStream) WriteBytes8(b []byte) {
	if len(b) > math.MaxUint8 {
		panic(fmt.Sprintf("blob of %d bytes does not fit a uint8 length prefix", len(b)))
	}
	w.WriteUint8(uint8(len(b)))
	w.WriteFixed(b)
}

// WriteBytes16 writes b prefixed by its uint16 length
func (w *WriteStream) WriteBytes16(b []byte) {
	if len(b) > math.MaxUint16 {
		panic(fmt.Sprintf("blob of %d bytes does not fit a uint16 length prefix", len(b)))
	}
	w.WriteUint16(uint16(len(b)))
	w.WriteFixed(b)
}

// WriteBytes32 writes b prefixed by its uint32 length
func (w *WriteStream) WriteBytes32(b []byte) {
	if uint64(len(b)) > math.MaxUint32 {
		panic(fmt.Sprintf("blob of %d bytes does not fit a uint32 length prefix", len(b)))
	}
	w.WriteUint32(uint32(len(b)))
	w.WriteFixed(b)
}

// Reserve32 writes a placeholder uint32 and returns its offset for use with Backfill32
func (w *WriteStream) Reserve32() int {
	offset := len(w.buf)
	w.WriteUint32(0)
	return offset
}

// Backfill32 replaces the placeholder at offset with the number of bytes written after it
func (w *WriteStream) Backfill32(offset int) {
	length := len(w.buf) - offset - UInt32Size
	binary.LittleEndian.PutUint32(w.buf[offset:], uint32(length))
}

// Bytes returns a copy of the bytes written so far
func (w *WriteStream) Bytes() []byte {
	ret := make([]byte, len(w.buf))
	copy(ret, w.buf)
	return ret
}

// Hex returns the bytes written so far as a hex string with no prefix
func (w *WriteStream) Hex() string {
	return hex.EncodeToString(w.buf)
}
