package core

import (
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// Hand-maintained MUS serializers for the persisted domain types. Field order
// is part of the storage format; append new fields, never reorder. Timestamps
// are stored as Unix microseconds.

var (
	// IDMUS serializes IDs.
	IDMUS = idMUS{}
	// ChunkRecordMUS serializes ChunkRecords.
	ChunkRecordMUS = chunkRecordMUS{}
	// ManualRecordMUS serializes ManualRecords.
	ManualRecordMUS = manualRecordMUS{}

	vectorMUS = ord.NewSliceSer[float32](varint.Float32)
)

type idMUS struct{}

func (idMUS) Marshal(id ID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(id), bs)
}

func (idMUS) Unmarshal(bs []byte) (id ID, n int, err error) {
	v, n, err := varint.Uint64.Unmarshal(bs)
	return ID(v), n, err
}

func (idMUS) Size(id ID) int {
	return varint.Uint64.Size(uint64(id))
}

type chunkRecordMUS struct{}

func (chunkRecordMUS) Marshal(r ChunkRecord, bs []byte) (n int) {
	n = IDMUS.Marshal(r.Id, bs)
	n += varint.Int.Marshal(r.Seq, bs[n:])
	n += ord.String.Marshal(r.Text, bs[n:])
	n += vectorMUS.Marshal(r.Vector, bs[n:])
	return n
}

func (chunkRecordMUS) Unmarshal(bs []byte) (r ChunkRecord, n int, err error) {
	var m int
	if r.Id, n, err = IDMUS.Unmarshal(bs); err != nil {
		return
	}
	if r.Seq, m, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return r, n + m, err
	}
	n += m
	if r.Text, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return r, n + m, err
	}
	n += m
	if r.Vector, m, err = vectorMUS.Unmarshal(bs[n:]); err != nil {
		return r, n + m, err
	}
	n += m
	return r, n, nil
}

func (chunkRecordMUS) Size(r ChunkRecord) (size int) {
	size = IDMUS.Size(r.Id)
	size += varint.Int.Size(r.Seq)
	size += ord.String.Size(r.Text)
	size += vectorMUS.Size(r.Vector)
	return size
}

type manualRecordMUS struct{}

func (manualRecordMUS) Marshal(r ManualRecord, bs []byte) (n int) {
	n = IDMUS.Marshal(r.Id, bs)
	n += ord.String.Marshal(r.ProductName, bs[n:])
	n += ord.String.Marshal(r.DisplayName, bs[n:])
	n += ord.String.Marshal(r.IndexLocation, bs[n:])
	n += varint.Int.Marshal(int(r.Status), bs[n:])
	n += varint.Int64.Marshal(r.CreatedAt.UnixMicro(), bs[n:])
	n += varint.Int64.Marshal(r.UpdatedAt.UnixMicro(), bs[n:])
	return n
}

func (manualRecordMUS) Unmarshal(bs []byte) (r ManualRecord, n int, err error) {
	var m int
	if r.Id, n, err = IDMUS.Unmarshal(bs); err != nil {
		return
	}
	if r.ProductName, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return r, n + m, err
	}
	n += m
	if r.DisplayName, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return r, n + m, err
	}
	n += m
	if r.IndexLocation, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return r, n + m, err
	}
	n += m
	var status int
	if status, m, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return r, n + m, err
	}
	n += m
	r.Status = ManualStatus(status)
	var micros int64
	if micros, m, err = varint.Int64.Unmarshal(bs[n:]); err != nil {
		return r, n + m, err
	}
	n += m
	r.CreatedAt = time.UnixMicro(micros).UTC()
	if micros, m, err = varint.Int64.Unmarshal(bs[n:]); err != nil {
		return r, n + m, err
	}
	n += m
	r.UpdatedAt = time.UnixMicro(micros).UTC()
	return r, n, nil
}

func (manualRecordMUS) Size(r ManualRecord) (size int) {
	size = IDMUS.Size(r.Id)
	size += ord.String.Size(r.ProductName)
	size += ord.String.Size(r.DisplayName)
	size += ord.String.Size(r.IndexLocation)
	size += varint.Int.Size(int(r.Status))
	size += varint.Int64.Size(r.CreatedAt.UnixMicro())
	size += varint.Int64.Size(r.UpdatedAt.UnixMicro())
	return size
}
