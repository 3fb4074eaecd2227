package core

import (
	"errors"
	"fmt"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// Hand-written MUS serializers for the persisted domain types, following the
// <Type>MUS naming convention. Timestamps are stored as Unix microseconds.

// ErrMalformedLength indicates a collection length prefix that is negative
// or larger than the remaining input.
var ErrMalformedLength = errors.New("malformed length prefix")

// unmarshalLength decodes a collection length prefix. Every element occupies
// at least one byte, so a valid length never exceeds the remaining input;
// anything outside that range is corrupt data and must not reach make.
func unmarshalLength(bs []byte) (length, n int, err error) {
	length, n, err = varint.Int.Unmarshal(bs)
	if err != nil {
		return
	}
	if length < 0 || length > len(bs)-n {
		err = fmt.Errorf("%w: %d", ErrMalformedLength, length)
	}
	return
}

// IDMUS serializes an ID.
var IDMUS = idMUS{}

type idMUS struct{}

func (s idMUS) Marshal(v ID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(v), bs)
}

func (s idMUS) Unmarshal(bs []byte) (v ID, n int, err error) {
	u, n, err := varint.Uint64.Unmarshal(bs)
	return ID(u), n, err
}

func (s idMUS) Size(v ID) (size int) {
	return varint.Uint64.Size(uint64(v))
}

// metadataMUS serializes a string->string metadata map with a varint length
// prefix. Keys are written in map iteration order; order is not significant.
type metadataMUS struct{}

func (s metadataMUS) Marshal(v map[string]string, bs []byte) (n int) {
	n = varint.Int.Marshal(len(v), bs)
	for k, val := range v {
		n += ord.String.Marshal(k, bs[n:])
		n += ord.String.Marshal(val, bs[n:])
	}
	return
}

func (s metadataMUS) Unmarshal(bs []byte) (v map[string]string, n int, err error) {
	length, n, err := unmarshalLength(bs)
	if err != nil {
		return
	}
	if length == 0 {
		return
	}
	v = make(map[string]string, length)
	var (
		n1     int
		k, val string
	)
	for i := 0; i < length; i++ {
		k, n1, err = ord.String.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
		val, n1, err = ord.String.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
		v[k] = val
	}
	return
}

func (s metadataMUS) Size(v map[string]string) (size int) {
	size = varint.Int.Size(len(v))
	for k, val := range v {
		size += ord.String.Size(k) + ord.String.Size(val)
	}
	return
}

// vectorMUS serializes an embedding vector with a varint length prefix.
type vectorMUS struct{}

func (s vectorMUS) Marshal(v []float32, bs []byte) (n int) {
	n = varint.Int.Marshal(len(v), bs)
	for _, f := range v {
		n += raw.Float32.Marshal(f, bs[n:])
	}
	return
}

func (s vectorMUS) Unmarshal(bs []byte) (v []float32, n int, err error) {
	length, n, err := unmarshalLength(bs)
	if err != nil || length == 0 {
		return
	}
	v = make([]float32, length)
	var n1 int
	for i := 0; i < length; i++ {
		v[i], n1, err = raw.Float32.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	return
}

func (s vectorMUS) Size(v []float32) (size int) {
	size = varint.Int.Size(len(v))
	for _, f := range v {
		size += raw.Float32.Size(f)
	}
	return
}

// CleanDocumentMUS serializes a CleanDocument.
var CleanDocumentMUS = cleanDocumentMUS{}

type cleanDocumentMUS struct{}

func (s cleanDocumentMUS) Marshal(v CleanDocument, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += ord.String.Marshal(v.FileName, bs[n:])
	n += ord.String.Marshal(v.FilePath, bs[n:])
	n += ord.String.Marshal(v.Text, bs[n:])
	n += metadataMUS{}.Marshal(v.Metadata, bs[n:])
	return
}

func (s cleanDocumentMUS) Unmarshal(bs []byte) (v CleanDocument, n int, err error) {
	var n1 int
	v.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	v.FileName, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.FilePath, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Text, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Metadata, n1, err = metadataMUS{}.Unmarshal(bs[n:])
	n += n1
	return
}

func (s cleanDocumentMUS) Size(v CleanDocument) (size int) {
	size = IDMUS.Size(v.Id)
	size += ord.String.Size(v.FileName)
	size += ord.String.Size(v.FilePath)
	size += ord.String.Size(v.Text)
	size += metadataMUS{}.Size(v.Metadata)
	return
}

// DocumentSetMUS serializes a DocumentSet.
var DocumentSetMUS = documentSetMUS{}

type documentSetMUS struct{}

func (s documentSetMUS) Marshal(v DocumentSet, bs []byte) (n int) {
	n = ord.String.Marshal(v.Digest, bs)
	n += varint.Int64.Marshal(v.CreatedAt.UnixMicro(), bs[n:])
	n += varint.Int.Marshal(len(v.Documents), bs[n:])
	for _, doc := range v.Documents {
		n += CleanDocumentMUS.Marshal(doc, bs[n:])
	}
	return
}

func (s documentSetMUS) Unmarshal(bs []byte) (v DocumentSet, n int, err error) {
	var n1 int
	v.Digest, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	var micros int64
	micros, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.CreatedAt = time.UnixMicro(micros).UTC()
	var length int
	length, n1, err = unmarshalLength(bs[n:])
	n += n1
	if err != nil || length == 0 {
		return
	}
	v.Documents = make([]CleanDocument, length)
	for i := 0; i < length; i++ {
		v.Documents[i], n1, err = CleanDocumentMUS.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	return
}

func (s documentSetMUS) Size(v DocumentSet) (size int) {
	size = ord.String.Size(v.Digest)
	size += varint.Int64.Size(v.CreatedAt.UnixMicro())
	size += varint.Int.Size(len(v.Documents))
	for _, doc := range v.Documents {
		size += CleanDocumentMUS.Size(doc)
	}
	return
}

// IndexMetaMUS serializes an IndexMeta.
var IndexMetaMUS = indexMetaMUS{}

type indexMetaMUS struct{}

func (s indexMetaMUS) Marshal(v IndexMeta, bs []byte) (n int) {
	n = ord.String.Marshal(v.EmbeddingModel, bs)
	n += varint.Int.Marshal(v.Dimension, bs[n:])
	n += ord.String.Marshal(v.Fingerprint, bs[n:])
	n += varint.Int.Marshal(v.DocumentCount, bs[n:])
	n += varint.Int64.Marshal(v.BuiltAt.UnixMicro(), bs[n:])
	return
}

func (s indexMetaMUS) Unmarshal(bs []byte) (v IndexMeta, n int, err error) {
	var n1 int
	v.EmbeddingModel, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	v.Dimension, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Fingerprint, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.DocumentCount, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	var micros int64
	micros, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	v.BuiltAt = time.UnixMicro(micros).UTC()
	return
}

func (s indexMetaMUS) Size(v IndexMeta) (size int) {
	size = ord.String.Size(v.EmbeddingModel)
	size += varint.Int.Size(v.Dimension)
	size += ord.String.Size(v.Fingerprint)
	size += varint.Int.Size(v.DocumentCount)
	size += varint.Int64.Size(v.BuiltAt.UnixMicro())
	return
}

// IndexedDocumentMUS serializes an IndexedDocument.
var IndexedDocumentMUS = indexedDocumentMUS{}

type indexedDocumentMUS struct{}

func (s indexedDocumentMUS) Marshal(v IndexedDocument, bs []byte) (n int) {
	n = CleanDocumentMUS.Marshal(v.Document, bs)
	n += vectorMUS{}.Marshal(v.Vector, bs[n:])
	return
}

func (s indexedDocumentMUS) Unmarshal(bs []byte) (v IndexedDocument, n int, err error) {
	var n1 int
	v.Document, n, err = CleanDocumentMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	v.Vector, n1, err = vectorMUS{}.Unmarshal(bs[n:])
	n += n1
	return
}

func (s indexedDocumentMUS) Size(v IndexedDocument) (size int) {
	size = CleanDocumentMUS.Size(v.Document)
	size += vectorMUS{}.Size(v.Vector)
	return
}
