package lasio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/copc-go/copc/internal/utils"
)

// VLR is a LAS Variable Length Record: a 54-byte header (2 reserved bytes,
// a 16-byte user ID, a record ID, the payload length, and a 32-byte
// description) followed by an opaque payload.
type VLR struct {
	UserID      [16]byte
	RecordID    uint16
	Description [32]byte
	Data        []byte
}

// NewVLR builds a VLR from a user ID / description pair, truncating or
// zero-padding each to its fixed field width.
func NewVLR(userID string, recordID uint16, description string, data []byte) VLR {
	v := VLR{RecordID: recordID, Data: data}
	copy(v.UserID[:], userID)
	copy(v.Description[:], description)
	return v
}

// UserIDString returns the user ID with trailing NUL bytes trimmed.
func (v VLR) UserIDString() string {
	return trimNul(v.UserID[:])
}

// DescriptionString returns the description with trailing NUL bytes trimmed.
func (v VLR) DescriptionString() string {
	return trimNul(v.Description[:])
}

func trimNul(b []byte) string {
	i := bytes.IndexByte(b, 0)
	if i < 0 {
		return string(b)
	}
	return string(b[:i])
}

// ReadVLR parses one VLR from r, per the spec.md §6 54-byte header layout.
func ReadVLR(r io.Reader) (VLR, error) {
	var hdr [VLRHeaderSize]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return VLR{}, fmt.Errorf("lasio: reading vlr header: %w", err)
	}
	var v VLR
	copy(v.UserID[:], hdr[2:18])
	v.RecordID = binary.LittleEndian.Uint16(hdr[18:20])
	length := binary.LittleEndian.Uint16(hdr[20:22])
	copy(v.Description[:], hdr[22:54])

	if length > 0 {
		if err := utils.ValidateBufferSize(uint64(length), utils.MaxVLRPayloadSize, "vlr payload"); err != nil {
			return VLR{}, fmt.Errorf("lasio: %w", err)
		}
	}
	v.Data = make([]byte, length)
	if _, err := io.ReadFull(r, v.Data); err != nil {
		return VLR{}, fmt.Errorf("lasio: reading vlr %q payload: %w", v.UserIDString(), err)
	}
	return v, nil
}

// Marshal serializes v as a full VLR record (header + payload). The
// reserved field is always written as 0. len(Data) must fit in a uint16.
func (v VLR) Marshal() ([]byte, error) {
	if len(v.Data) > 0xFFFF {
		return nil, fmt.Errorf("lasio: vlr %q payload of %d bytes exceeds uint16 VLR length limit", v.UserIDString(), len(v.Data))
	}
	buf := make([]byte, VLRHeaderSize+len(v.Data))
	binary.LittleEndian.PutUint16(buf[0:2], 0) // reserved
	copy(buf[2:18], v.UserID[:])
	binary.LittleEndian.PutUint16(buf[18:20], v.RecordID)
	binary.LittleEndian.PutUint16(buf[20:22], uint16(len(v.Data)))
	copy(buf[22:54], v.Description[:])
	copy(buf[54:], v.Data)
	return buf, nil
}

// EVLR is an Extended Variable Length Record: identical fields to a VLR,
// but the payload length field is a u64 instead of a u16, so it can host
// payloads larger than 64KiB — notably the EPT hierarchy page and
// arbitrarily large waveform/metadata blobs.
type EVLR struct {
	UserID      [16]byte
	RecordID    uint16
	Description [32]byte
	Data        []byte
}

// NewEVLR builds an EVLR from a user ID / description pair.
func NewEVLR(userID string, recordID uint16, description string, data []byte) EVLR {
	e := EVLR{RecordID: recordID, Data: data}
	copy(e.UserID[:], userID)
	copy(e.Description[:], description)
	return e
}

// UserIDString returns the user ID with trailing NUL bytes trimmed.
func (e EVLR) UserIDString() string {
	return trimNul(e.UserID[:])
}

// ReadEVLR parses one EVLR from r, per the 60-byte EVLR header layout.
func ReadEVLR(r io.Reader) (EVLR, error) {
	var hdr [EVLRHeaderSize]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return EVLR{}, fmt.Errorf("lasio: reading evlr header: %w", err)
	}
	var e EVLR
	copy(e.UserID[:], hdr[2:18])
	e.RecordID = binary.LittleEndian.Uint16(hdr[18:20])
	length := binary.LittleEndian.Uint64(hdr[20:28])
	copy(e.Description[:], hdr[28:60])

	if length > 0 {
		if err := utils.ValidateBufferSize(length, utils.MaxChunkSize, "evlr payload"); err != nil {
			return EVLR{}, fmt.Errorf("lasio: %w", err)
		}
	}
	e.Data = make([]byte, length)
	if _, err := io.ReadFull(r, e.Data); err != nil {
		return EVLR{}, fmt.Errorf("lasio: reading evlr %q payload: %w", e.UserIDString(), err)
	}
	return e, nil
}

// Marshal serializes e as a full EVLR record (header + payload).
func (e EVLR) Marshal() []byte {
	buf := make([]byte, EVLRHeaderSize+len(e.Data))
	binary.LittleEndian.PutUint16(buf[0:2], 0) // reserved
	copy(buf[2:18], e.UserID[:])
	binary.LittleEndian.PutUint16(buf[18:20], e.RecordID)
	binary.LittleEndian.PutUint64(buf[20:28], uint64(len(e.Data)))
	copy(buf[28:60], e.Description[:])
	copy(buf[60:], e.Data)
	return buf
}
