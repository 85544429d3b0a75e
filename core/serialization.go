// Copyright 2025 Poiesic Systems
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


package core

import (
	"github.com/mus-format/mus-go"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// MUS serializers for the persisted types. Field order is the wire format;
// changing it breaks every existing index on disk.
var (
	IDMUS            = idMUS{}
	VocabEntryMUS    = vocabEntryMUS{}
	IndexManifestMUS = indexManifestMUS{}

	vectorMUS = ord.NewSliceSer[float32](raw.Float32)
)

var (
	_ mus.Serializer[ID]            = IDMUS
	_ mus.Serializer[VocabEntry]    = VocabEntryMUS
	_ mus.Serializer[IndexManifest] = IndexManifestMUS
)

type idMUS struct{}

func (s idMUS) Marshal(v ID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(v), bs)
}

func (s idMUS) Unmarshal(bs []byte) (v ID, n int, err error) {
	num, n, err := varint.Uint64.Unmarshal(bs)
	return ID(num), n, err
}

func (s idMUS) Size(v ID) (size int) {
	return varint.Uint64.Size(uint64(v))
}

func (s idMUS) Skip(bs []byte) (n int, err error) {
	return varint.Uint64.Skip(bs)
}

type vocabEntryMUS struct{}

func (s vocabEntryMUS) Marshal(v VocabEntry, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += ord.String.Marshal(v.Key, bs[n:])
	n += ord.String.Marshal(v.Text, bs[n:])
	n += ord.String.Marshal(v.ExternalID, bs[n:])
	n += vectorMUS.Marshal(v.Vector, bs[n:])
	return n
}

func (s vocabEntryMUS) Unmarshal(bs []byte) (v VocabEntry, n int, err error) {
	v.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Key, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Text, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.ExternalID, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Vector, n1, err = vectorMUS.Unmarshal(bs[n:])
	n += n1
	return
}

func (s vocabEntryMUS) Size(v VocabEntry) (size int) {
	size = IDMUS.Size(v.Id)
	size += ord.String.Size(v.Key)
	size += ord.String.Size(v.Text)
	size += ord.String.Size(v.ExternalID)
	size += vectorMUS.Size(v.Vector)
	return size
}

func (s vocabEntryMUS) Skip(bs []byte) (n int, err error) {
	n, err = IDMUS.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	for i := 0; i < 3; i++ {
		n1, err = ord.String.Skip(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	n1, err = vectorMUS.Skip(bs[n:])
	n += n1
	return
}

type indexManifestMUS struct{}

func (s indexManifestMUS) Marshal(v IndexManifest, bs []byte) (n int) {
	n = varint.Int.Marshal(v.Count, bs)
	n += varint.Int.Marshal(v.Dimension, bs[n:])
	n += ord.String.Marshal(v.Model, bs[n:])
	return n
}

func (s indexManifestMUS) Unmarshal(bs []byte) (v IndexManifest, n int, err error) {
	v.Count, n, err = varint.Int.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Dimension, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Model, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	return
}

func (s indexManifestMUS) Size(v IndexManifest) (size int) {
	size = varint.Int.Size(v.Count)
	size += varint.Int.Size(v.Dimension)
	size += ord.String.Size(v.Model)
	return size
}

func (s indexManifestMUS) Skip(bs []byte) (n int, err error) {
	n, err = varint.Int.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = varint.Int.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	return
}
