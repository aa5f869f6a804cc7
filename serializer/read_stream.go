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
)

const (
	UInt8Size  = 1
	UInt16Size = 2
	UInt32Size = 4
	UInt64Size = 8
)

// ReadStream is a read cursor over an immutable byte slice. Every read checks the
// remaining length first and advances the cursor only on success.
type ReadStream struct {
	data []byte
	pos  int
}

// NewReadStream returns a ReadStream positioned at the start of data
func NewReadStream(data []byte) *ReadStream {
	return &ReadStream{data: data}
}

// Length returns the total length of the underlying data
func (r *ReadStream) Length() int {
	return len(r.data)
}

// Position returns the current read offset
func (r *ReadStream) Position() int {
	return r.pos
}

// Unused returns the number of bytes not yet read
func (r *ReadStream) Unused() int {
	return len(r.data) - r.pos
}

// HasRemaining returns true if at least n bytes are left to read
func (r *ReadStream) HasRemaining(n int) bool {
	return n >= 0 && r.Unused() >= n
}

// Require returns a *TruncatedInputError if fewer than n bytes remain
func (r *ReadStream) Require(field string, n int) error {
	if !r.HasRemaining(n) {
		return &TruncatedInputError{
			Field:     field,
			Required:  n,
			Available: r.Unused(),
		}
	}
	return nil
}

// ExpectEnd returns a *TrailingDataError if any bytes are left to read
func (r *ReadStream) ExpectEnd(field string) error {
	if r.Unused() > 0 {
		return &TrailingDataError{Field: field, Remaining: r.Unused()}
	}
	return nil
}

func (r *ReadStream) next(field string, n int) ([]byte, error) {
	if err := r.Require(field, n); err != nil {
		return nil, err
	}
	ret := r.data[r.pos : r.pos+n]
	r.pos += n
	return ret, nil
}

// PeekUint8 returns the next byte without advancing the cursor
func (r *ReadStream) PeekUint8(field string) (uint8, error) {
	if err := r.Require(field, UInt8Size); err != nil {
		return 0, err
	}
	return r.data[r.pos], nil
}

// PeekUint32 returns the next little-endian uint32 without advancing the cursor
func (r *ReadStream) PeekUint32(field string) (uint32, error) {
	if err := r.Require(field, UInt32Size); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(r.data[r.pos:]), nil
}

func (r *ReadStream) ReadUint8(field string) (uint8, error) {
	b, err := r.next(field, UInt8Size)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *ReadStream) ReadUint16(field string) (uint16, error) {
	b, err := r.next(field, UInt16Size)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (r *ReadStream) ReadUint32(field string) (uint32, error) {
	b, err := r.next(field, UInt32Size)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (r *ReadStream) ReadUint64(field string) (uint64, error) {
	b, err := r.next(field, UInt64Size)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// ReadBool reads a single byte that must be 0 or 1
func (r *ReadStream) ReadBool(field string) (bool, error) {
	v, err := r.ReadUint8(field)
	if err != nil {
		return false, err
	}
	switch v {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, &InvalidValueError{Field: field, Value: uint64(v)}
	}
}

// ReadFixed reads exactly n bytes and returns a copy of them. Zero-length reads return nil
// so that decoded values compare equal to values built without the optional blob.
func (r *ReadStream) ReadFixed(field string, n int) ([]byte, error) {
	b, err := r.next(field, n)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	ret := make([]byte, n)
	copy(ret, b)
	return ret, nil
}

// ReadInto fills dst from the stream. It is used for fixed-size array types
func (r *ReadStream) ReadInto(field string, dst []byte) error {
	b, err := r.next(field, len(dst))
	if err != nil {
		return err
	}
	copy(dst, b)
	return nil
}

// ReadBytes8 reads a blob prefixed by a uint8 length
func (r *ReadStream) ReadBytes8(field string) ([]byte, error) {
	n, err := r.ReadUint8(field + ".length")
	if err != nil {
		return nil, err
	}
	return r.ReadFixed(field, int(n))
}

// ReadBytes16 reads a blob prefixed by a uint16 length
func (r *ReadStream) ReadBytes16(field string) ([]byte, error) {
	n, err := r.ReadUint16(field + ".length")
	if err != nil {
		return nil, err
	}
	return r.ReadFixed(field, int(n))
}

// ReadBytes32 reads a blob prefixed by a uint32 length
func (r *ReadStream) ReadBytes32(field string) ([]byte, error) {
	n, err := r.ReadUint32(field + ".length")
	if err != nil {
		return nil, err
	}
	// Compare in uint64 space so a huge prefix can't wrap int on 32-bit hosts
	if uint64(n) > uint64(r.Unused()) {
		return nil, &TruncatedInputError{
			Field:     field,
			Required:  int(min(uint64(n), uint64(maxInt))),
			Available: r.Unused(),
		}
	}
	return r.ReadFixed(field, int(n))
}

// Sub consumes the next n bytes and returns them as a separate stream. It is used for
// length-framed content that must be consumed exactly.
func (r *ReadStream) Sub(field string, n int) (*ReadStream, error) {
	b, err := r.next(field, n)
	if err != nil {
		return nil, err
	}
	return NewReadStream(b), nil
}

const maxInt = int(^uint(0) >> 1)
