// Package tsgen builds minimal but structurally valid MPEG transport
// streams: a PAT, a PMT, and null packets. The output is meant as carrier
// material for embedding tests and for the gen command; it contains no
// elementary stream data.
package tsgen

import "encoding/binary"

// PacketSize is the fixed size of an MPEG-TS packet.
const PacketSize = 188

const (
	pidPAT  = 0x0000
	pidPMT  = 0x1000
	pidNull = 0x1FFF

	tableIDPAT = 0x00
	tableIDPMT = 0x02
)

// Packet wraps payload into one 188-byte TS packet with the given header
// fields. Unused space is stuffed with 0xFF, the standard stuffing byte.
func Packet(pid uint16, cc byte, pusi bool, payload []byte) []byte {
	buf := make([]byte, PacketSize)
	buf[0] = 0x47
	buf[1] = byte(pid>>8) & 0x1F
	if pusi {
		buf[1] |= 0x40
	}
	buf[2] = byte(pid)
	buf[3] = 0x10 | (cc & 0x0F) // payload only
	n := copy(buf[4:], payload)
	for i := 4 + n; i < PacketSize; i++ {
		buf[i] = 0xFF
	}
	return buf
}

// Null returns a null packet (PID 0x1FFF) with an all-0xFF payload.
func Null(cc byte) []byte {
	return Packet(pidNull, cc, false, nil)
}

// PAT returns a PAT packet mapping program 1 to the PMT PID, pointer field
// included.
func PAT(tsID uint16, cc byte) []byte {
	section := patSection(tsID)
	payload := make([]byte, 1+len(section))
	payload[0] = 0x00 // pointer field
	copy(payload[1:], section)
	return Packet(pidPAT, cc, true, payload)
}

// PMT returns a PMT packet for program 1 declaring no elementary streams,
// pointer field included.
func PMT(cc byte) []byte {
	section := pmtSection(1, pidNull)
	payload := make([]byte, 1+len(section))
	payload[0] = 0x00
	copy(payload[1:], section)
	return Packet(pidPMT, cc, true, payload)
}

// Carrier returns a valid n-packet transport stream: PAT, PMT, then null
// packets. n of 0 yields an empty stream, 1 yields just the PAT.
func Carrier(n int) []byte {
	out := make([]byte, 0, n*PacketSize)
	var nullCC byte
	for i := 0; i < n; i++ {
		switch i {
		case 0:
			out = append(out, PAT(1, 0)...)
		case 1:
			out = append(out, PMT(0)...)
		default:
			out = append(out, Null(nullCC)...)
			nullCC = (nullCC + 1) & 0x0F
		}
	}
	return out
}

func patSection(tsID uint16) []byte {
	sectionLength := 5 + 4 + 4 // fixed header after section_length + one program + CRC

	data := make([]byte, 3+sectionLength)
	data[0] = tableIDPAT
	data[1] = 0xB0 | byte(sectionLength>>8)&0x0F // section_syntax_indicator=1
	data[2] = byte(sectionLength)
	data[3] = byte(tsID >> 8)
	data[4] = byte(tsID)
	data[5] = 0xC1 // reserved(2) + version(0) + current_next(1)
	data[6] = 0x00 // section_number
	data[7] = 0x00 // last_section_number

	data[8] = 0x00 // program_number = 1
	data[9] = 0x01
	data[10] = 0xE0 | byte(pidPMT>>8)&0x1F
	data[11] = byte(pidPMT & 0xFF)

	binary.BigEndian.PutUint32(data[12:], crc32(data[:12]))
	return data
}

func pmtSection(programNum uint16, pcrPID uint16) []byte {
	sectionLength := 9 + 4 // fixed bytes after section_length + CRC, no ES entries

	data := make([]byte, 3+sectionLength)
	data[0] = tableIDPMT
	data[1] = 0xB0 | byte(sectionLength>>8)&0x0F
	data[2] = byte(sectionLength)
	data[3] = byte(programNum >> 8)
	data[4] = byte(programNum)
	data[5] = 0xC1
	data[6] = 0x00
	data[7] = 0x00
	data[8] = 0xE0 | byte(pcrPID>>8)&0x1F
	data[9] = byte(pcrPID)
	data[10] = 0xF0 // reserved(4) + program_info_length(12) = 0
	data[11] = 0x00

	binary.BigEndian.PutUint32(data[12:], crc32(data[:12]))
	return data
}
