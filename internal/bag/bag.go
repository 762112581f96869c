// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package bag implements the on-disk dataset container: a directory with a
// JSON header, chunked length-prefixed record files and a fixed-width
// binary index. Records are appended to named channels and read back in
// append order.
package bag

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	formatVersion = 1

	headerFile = "header.json"
	indexFile  = "index.bin"
	chunkDir   = "chunks"

	defaultMaxChunkBytes = 4 << 20
	maxPayloadBytes      = 64 << 20
)

// ErrClosed is returned by Append after Close.
var ErrClosed = errors.New("bag: writer is closed")

// Meta is the caller-supplied part of the header.
type Meta struct {
	FSIMU      float64
	MotionFile string
	Start      time.Time
}

// Header describes a recorded bag.
type Header struct {
	Version    int               `json:"version"`
	RunID      string            `json:"run_id"`
	CreatedNs  int64             `json:"created_ns"`
	StartNs    int64             `json:"start_ns"`
	EndNs      int64             `json:"end_ns"`
	FSIMU      float64           `json:"fs_imu_hz"`
	MotionFile string            `json:"motion_file,omitempty"`
	Channels   []string          `json:"channels"`
	Records    map[string]uint64 `json:"records"`
	Total      uint64            `json:"total_records"`
}

// indexRecord is one fixed-width little-endian index entry.
type indexRecord struct {
	Seq     uint64
	StampNs int64
	Channel uint16
	Chunk   uint32
	Offset  uint32
}

// Writer appends records to a bag directory. Safe for concurrent use.
type Writer struct {
	mu        sync.Mutex
	dir       string
	header    Header
	channels  map[string]uint16
	index     []indexRecord
	chunk     *os.File
	chunkID   uint32
	chunkSize int
	maxChunk  int
	seq       uint64
	lastNs    int64
	closed    bool
}

// NewWriter creates the bag directory layout and opens the first chunk.
// The directory must not already contain a bag.
func NewWriter(dir string, meta Meta) (*Writer, error) {
	if err := os.MkdirAll(filepath.Join(dir, chunkDir), 0o755); err != nil {
		return nil, fmt.Errorf("bag: create %s: %w", dir, err)
	}
	if _, err := os.Stat(filepath.Join(dir, headerFile)); err == nil {
		return nil, fmt.Errorf("bag: %s already holds a recording", dir)
	}

	now := time.Now()
	start := meta.Start
	if start.IsZero() {
		start = now
	}

	w := &Writer{
		dir: dir,
		header: Header{
			Version:    formatVersion,
			RunID:      uuid.NewString(),
			CreatedNs:  now.UnixNano(),
			StartNs:    start.UnixNano(),
			FSIMU:      meta.FSIMU,
			MotionFile: meta.MotionFile,
			Records:    make(map[string]uint64),
		},
		channels: make(map[string]uint16),
		maxChunk: defaultMaxChunkBytes,
	}
	if err := w.openChunk(0); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *Writer) openChunk(id uint32) error {
	f, err := os.Create(filepath.Join(w.dir, chunkDir, chunkName(id)))
	if err != nil {
		return fmt.Errorf("bag: create chunk %d: %w", id, err)
	}
	w.chunk = f
	w.chunkID = id
	w.chunkSize = 0
	return nil
}

func chunkName(id uint32) string {
	return fmt.Sprintf("chunk_%04d.log", id)
}

// Append marshals msg as JSON and appends it to the named channel.
// Channels are registered on first use.
func (w *Writer) Append(channel string, tsNs int64, msg any) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("bag: marshal record: %w", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrClosed
	}

	ch, ok := w.channels[channel]
	if !ok {
		ch = uint16(len(w.header.Channels))
		w.channels[channel] = ch
		w.header.Channels = append(w.header.Channels, channel)
	}

	if w.chunkSize > 0 && w.chunkSize+4+len(payload) > w.maxChunk {
		if err := w.chunk.Close(); err != nil {
			return fmt.Errorf("bag: close chunk %d: %w", w.chunkID, err)
		}
		if err := w.openChunk(w.chunkID + 1); err != nil {
			return err
		}
	}

	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(payload)))
	offset := uint32(w.chunkSize)
	if _, err := w.chunk.Write(lenBuf[:]); err != nil {
		return fmt.Errorf("bag: write record: %w", err)
	}
	if _, err := w.chunk.Write(payload); err != nil {
		return fmt.Errorf("bag: write record: %w", err)
	}
	w.chunkSize += 4 + len(payload)

	w.index = append(w.index, indexRecord{
		Seq:     w.seq,
		StampNs: tsNs,
		Channel: ch,
		Chunk:   w.chunkID,
		Offset:  offset,
	})
	w.seq++
	w.lastNs = tsNs
	w.header.Records[channel]++
	w.header.Total++
	return nil
}

// Close flushes the index and header. Further Appends fail; closing twice
// is a no-op.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true

	if err := w.chunk.Close(); err != nil {
		return fmt.Errorf("bag: close chunk %d: %w", w.chunkID, err)
	}

	idx, err := os.Create(filepath.Join(w.dir, indexFile))
	if err != nil {
		return fmt.Errorf("bag: create index: %w", err)
	}
	if err := binary.Write(idx, binary.LittleEndian, w.index); err != nil {
		idx.Close()
		return fmt.Errorf("bag: write index: %w", err)
	}
	if err := idx.Close(); err != nil {
		return fmt.Errorf("bag: close index: %w", err)
	}

	w.header.EndNs = w.lastNs
	data, err := json.MarshalIndent(&w.header, "", "  ")
	if err != nil {
		return fmt.Errorf("bag: marshal header: %w", err)
	}
	if err := os.WriteFile(filepath.Join(w.dir, headerFile), data, 0o644); err != nil {
		return fmt.Errorf("bag: write header: %w", err)
	}
	return nil
}

// Entry is one record read back from a bag.
type Entry struct {
	Seq     uint64
	StampNs int64
	Channel string
	Payload []byte
}

// DecodeIMU unmarshals the entry payload as an IMU message.
func (e Entry) DecodeIMU() (IMUMessage, error) {
	var m IMUMessage
	if err := json.Unmarshal(e.Payload, &m); err != nil {
		return IMUMessage{}, fmt.Errorf("bag: decode imu record: %w", err)
	}
	return m, nil
}

// DecodePose unmarshals the entry payload as a pose message.
func (e Entry) DecodePose() (PoseMessage, error) {
	var m PoseMessage
	if err := json.Unmarshal(e.Payload, &m); err != nil {
		return PoseMessage{}, fmt.Errorf("bag: decode pose record: %w", err)
	}
	return m, nil
}

// Reader iterates a bag in append order.
type Reader struct {
	dir     string
	header  Header
	index   []indexRecord
	pos     int
	chunk   *os.File
	chunkID uint32
}

// OpenReader opens a recorded bag directory.
func OpenReader(dir string) (*Reader, error) {
	data, err := os.ReadFile(filepath.Join(dir, headerFile))
	if err != nil {
		return nil, fmt.Errorf("bag: read header: %w", err)
	}
	var header Header
	if err := json.Unmarshal(data, &header); err != nil {
		return nil, fmt.Errorf("bag: parse header: %w", err)
	}
	if header.Version != formatVersion {
		return nil, fmt.Errorf("bag: unsupported format version %d", header.Version)
	}

	idx, err := os.Open(filepath.Join(dir, indexFile))
	if err != nil {
		return nil, fmt.Errorf("bag: open index: %w", err)
	}
	defer idx.Close()

	info, err := idx.Stat()
	if err != nil {
		return nil, fmt.Errorf("bag: stat index: %w", err)
	}
	entrySize := int64(binary.Size(indexRecord{}))
	if info.Size()%entrySize != 0 {
		return nil, fmt.Errorf("bag: index size %d is not a multiple of %d", info.Size(), entrySize)
	}

	index := make([]indexRecord, info.Size()/entrySize)
	if len(index) > 0 {
		if err := binary.Read(idx, binary.LittleEndian, index); err != nil {
			return nil, fmt.Errorf("bag: read index: %w", err)
		}
	}
	for _, rec := range index {
		if int(rec.Channel) >= len(header.Channels) {
			return nil, fmt.Errorf("bag: index references unknown channel %d", rec.Channel)
		}
	}

	return &Reader{dir: dir, header: header, index: index}, nil
}

// Header returns the bag header.
func (r *Reader) Header() Header { return r.header }

// Next returns the next entry in append order, or io.EOF at the end.
func (r *Reader) Next() (Entry, error) {
	if r.pos >= len(r.index) {
		return Entry{}, io.EOF
	}
	rec := r.index[r.pos]

	if r.chunk == nil || r.chunkID != rec.Chunk {
		if r.chunk != nil {
			r.chunk.Close()
		}
		f, err := os.Open(filepath.Join(r.dir, chunkDir, chunkName(rec.Chunk)))
		if err != nil {
			return Entry{}, fmt.Errorf("bag: open chunk %d: %w", rec.Chunk, err)
		}
		r.chunk = f
		r.chunkID = rec.Chunk
	}

	if _, err := r.chunk.Seek(int64(rec.Offset), io.SeekStart); err != nil {
		return Entry{}, fmt.Errorf("bag: seek record %d: %w", rec.Seq, err)
	}
	var lenBuf [4]byte
	if _, err := io.ReadFull(r.chunk, lenBuf[:]); err != nil {
		return Entry{}, fmt.Errorf("bag: read record %d: %w", rec.Seq, err)
	}
	size := binary.LittleEndian.Uint32(lenBuf[:])
	if size > maxPayloadBytes {
		return Entry{}, fmt.Errorf("bag: record %d claims %d bytes", rec.Seq, size)
	}
	payload := make([]byte, size)
	if _, err := io.ReadFull(r.chunk, payload); err != nil {
		return Entry{}, fmt.Errorf("bag: read record %d: %w", rec.Seq, err)
	}

	r.pos++
	return Entry{
		Seq:     rec.Seq,
		StampNs: rec.StampNs,
		Channel: r.header.Channels[rec.Channel],
		Payload: payload,
	}, nil
}

// Close releases the open chunk, if any.
func (r *Reader) Close() error {
	if r.chunk == nil {
		return nil
	}
	err := r.chunk.Close()
	r.chunk = nil
	return err
}
