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

package ledger

import (
	"github.com/blinklabs-io/gostardust/ledger/common"
	"github.com/blinklabs-io/gostardust/serializer"
)

const (
	TaggedDataPayloadMinLength = serializer.UInt32Size + serializer.UInt8Size + serializer.UInt32Size
	IndexationPayloadMinLength = serializer.UInt32Size + serializer.UInt16Size + 1 + serializer.UInt32Size
)

// TaggedDataPayload carries arbitrary data under an optional tag
type TaggedDataPayload struct {
	Tag  []byte
	Data []byte
}

func (*TaggedDataPayload) isPayload() {}

func (*TaggedDataPayload) Type() PayloadType { return PayloadTypeTaggedData }

func (p *TaggedDataPayload) EncodeTo(w *serializer.WriteStream) {
	w.WriteUint32(uint32(PayloadTypeTaggedData))
	w.WriteBytes8(p.Tag)
	w.WriteBytes32(p.Data)
}

func (p *TaggedDataPayload) Validate() error {
	if err := common.ValidateLength("taggedData.tag", len(p.Tag), 0, MaxTagLength); err != nil {
		return err
	}
	return common.ValidateLength("taggedData.data", len(p.Data), 0, MaxBlockSize)
}

func DecodeTaggedDataPayload(r *serializer.ReadStream, field string) (*TaggedDataPayload, error) {
	if err := r.Require(field, TaggedDataPayloadMinLength); err != nil {
		return nil, err
	}
	if err := expectTag32(r, field, uint32(PayloadTypeTaggedData)); err != nil {
		return nil, err
	}
	tag, err := readBlob8(r, field+".tag", 0, MaxTagLength)
	if err != nil {
		return nil, err
	}
	data, err := readBlob32(r, field+".data", 0)
	if err != nil {
		return nil, err
	}
	return &TaggedDataPayload{Tag: tag, Data: data}, nil
}

// IndexationPayload is the legacy form of tagged data, with a mandatory index
type IndexationPayload struct {
	Index []byte
	Data  []byte
}

func (*IndexationPayload) isPayload() {}

func (*IndexationPayload) Type() PayloadType { return PayloadTypeIndexation }

func (p *IndexationPayload) EncodeTo(w *serializer.WriteStream) {
	w.WriteUint32(uint32(PayloadTypeIndexation))
	w.WriteBytes16(p.Index)
	w.WriteBytes32(p.Data)
}

func (p *IndexationPayload) Validate() error {
	if err := common.ValidateLength("indexation.index", len(p.Index), 1, MaxIndexLength); err != nil {
		return err
	}
	return common.ValidateLength("indexation.data", len(p.Data), 0, MaxBlockSize)
}

func DecodeIndexationPayload(r *serializer.ReadStream, field string) (*IndexationPayload, error) {
	if err := r.Require(field, IndexationPayloadMinLength); err != nil {
		return nil, err
	}
	if err := expectTag32(r, field, uint32(PayloadTypeIndexation)); err != nil {
		return nil, err
	}
	index, err := readBlob16(r, field+".index", 1, MaxIndexLength)
	if err != nil {
		return nil, err
	}
	data, err := readBlob32(r, field+".data", 0)
	if err != nil {
		return nil, err
	}
	return &IndexationPayload{Index: index, Data: data}, nil
}
