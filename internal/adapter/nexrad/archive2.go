package nexrad

import (
	"bytes"
	"compress/bzip2"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/couchcryptid/storm-imagery/internal/domain"
)

// Archive II framing constants (NOAA/WSR-88D ICD 2620010, Build 19+).
const (
	volumeHeaderSize = 24
	ctmHeaderSize    = 12
	msgHeaderSize    = 16
	legacyRecordSize = 2432 // fixed slot for message types other than 31

	msgTypeDigitalRadar = 31

	maxDataBlocks = 10
)

// Moment gate sentinels: 0 = below signal threshold, 1 = range folded.
const (
	gateBelowThreshold = 0
	gateRangeFolded    = 1
)

// Decode parses a decompressed NEXRAD Level-II archive volume and reduces it
// to the lowest-elevation reflectivity sweep plus site metadata.
//
// Supported framing: the 24-byte volume header record followed either by
// bzip2 LDM compressed records or by a plain message stream. Message 31
// internal compression is not handled; archive volumes on the public mirrors
// do not use it.
func Decode(r io.Reader) (*domain.RadarScan, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read volume: %w", err)
	}
	if len(data) < volumeHeaderSize {
		return nil, fmt.Errorf("volume too short: %d bytes", len(data))
	}

	header, err := parseVolumeHeader(data[:volumeHeaderSize])
	if err != nil {
		return nil, err
	}

	stream, err := messageStream(data[volumeHeaderSize:])
	if err != nil {
		return nil, err
	}

	scan := &domain.RadarScan{
		StationID: header.icao,
		Time:      header.time,
	}
	if err := parseMessages(stream, scan); err != nil {
		return nil, err
	}
	if len(scan.Radials) == 0 {
		return nil, fmt.Errorf("volume %s contains no reflectivity radials", header.icao)
	}

	return scan, nil
}

type volumeHeader struct {
	icao string
	time time.Time
}

// parseVolumeHeader decodes the 24-byte archive header: "AR2V00xx." + a
// 3-char extension, the NEXRAD-modified Julian date (days since 1970-01-01,
// where that day is 1), milliseconds past midnight, and the 4-char ICAO.
func parseVolumeHeader(b []byte) (volumeHeader, error) {
	if !bytes.HasPrefix(b, []byte("AR2V")) {
		return volumeHeader{}, fmt.Errorf("not an Archive II volume: magic %q", b[:4])
	}

	days := binary.BigEndian.Uint32(b[12:16])
	ms := binary.BigEndian.Uint32(b[16:20])
	icao := strings.TrimSpace(string(b[20:24]))
	if icao == "" {
		return volumeHeader{}, fmt.Errorf("volume header missing ICAO")
	}

	epoch := time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)
	t := epoch.Add(time.Duration(days-1) * 24 * time.Hour).Add(time.Duration(ms) * time.Millisecond)

	return volumeHeader{icao: icao, time: t}, nil
}

// messageStream returns the concatenated message bytes following the volume
// header. Archive volumes wrap messages in bzip2 LDM records, each preceded
// by a 4-byte big-endian size (negative marks the final record); plain
// streams are returned as-is.
func messageStream(b []byte) ([]byte, error) {
	if !isLDMRecord(b) {
		return b, nil
	}

	var stream bytes.Buffer
	for len(b) >= 4 {
		size := int(int32(binary.BigEndian.Uint32(b[:4])))
		last := size < 0
		if last {
			size = -size
		}
		b = b[4:]
		if size == 0 {
			break
		}
		if size > len(b) {
			return nil, fmt.Errorf("LDM record size %d exceeds remaining %d bytes", size, len(b))
		}

		chunk, err := io.ReadAll(bzip2.NewReader(bytes.NewReader(b[:size])))
		if err != nil {
			return nil, fmt.Errorf("decompress LDM record: %w", err)
		}
		stream.Write(chunk)

		b = b[size:]
		if last {
			break
		}
	}
	return stream.Bytes(), nil
}

// isLDMRecord reports whether the bytes start with a size-prefixed bzip2
// record.
func isLDMRecord(b []byte) bool {
	return len(b) >= 7 && bytes.HasPrefix(b[4:], bzip2Magic)
}

// parseMessages walks the message stream, collecting reflectivity radials
// from the lowest elevation cut and the site position from the first volume
// data block seen.
func parseMessages(stream []byte, scan *domain.RadarScan) error {
	haveSite := false
	pos := 0

	for pos+ctmHeaderSize+msgHeaderSize <= len(stream) {
		hdr := stream[pos+ctmHeaderSize:]
		sizeHalfWords := binary.BigEndian.Uint16(hdr[0:2])
		msgType := hdr[3]

		if sizeHalfWords == 0 {
			// Zero-filled padding at the end of a record.
			pos += legacyRecordSize
			continue
		}

		if msgType != msgTypeDigitalRadar {
			pos += legacyRecordSize
			continue
		}

		msgLen := int(sizeHalfWords) * 2
		bodyStart := pos + ctmHeaderSize + msgHeaderSize
		bodyEnd := pos + ctmHeaderSize + msgLen
		if bodyEnd > len(stream) {
			return fmt.Errorf("message 31 at offset %d overruns stream", pos)
		}

		radial, site, err := parseMessage31(stream[bodyStart:bodyEnd])
		if err != nil {
			return err
		}
		if site != nil && !haveSite {
			scan.Site = *site
			haveSite = true
		}
		if radial != nil {
			scan.Radials = append(scan.Radials, *radial)
		}

		pos = bodyEnd
	}

	if !haveSite {
		return fmt.Errorf("volume carries no site position (VOL data block missing)")
	}
	return nil
}

// parseMessage31 decodes one digital radar data message. It returns the
// reflectivity radial when the message belongs to the lowest elevation cut
// and carries a REF moment, and the site position when a VOL block is
// present.
func parseMessage31(body []byte) (*domain.Radial, *domain.Geo, error) {
	if len(body) < 32 {
		return nil, nil, fmt.Errorf("message 31 too short: %d bytes", len(body))
	}

	azimuth := float64(math.Float32frombits(binary.BigEndian.Uint32(body[12:16])))
	compression := body[16]
	elevNumber := body[22]
	elevation := float64(math.Float32frombits(binary.BigEndian.Uint32(body[24:28])))
	blockCount := int(binary.BigEndian.Uint16(body[30:32]))

	if compression != 0 {
		return nil, nil, fmt.Errorf("message 31 internal compression %d not supported", compression)
	}
	if blockCount > maxDataBlocks {
		blockCount = maxDataBlocks
	}
	if len(body) < 32+4*blockCount {
		return nil, nil, fmt.Errorf("message 31 truncated before block pointers")
	}

	var site *domain.Geo
	var radial *domain.Radial

	for i := 0; i < blockCount; i++ {
		ptr := int(binary.BigEndian.Uint32(body[32+4*i : 36+4*i]))
		if ptr == 0 || ptr+4 > len(body) {
			continue
		}
		block := body[ptr:]
		name := string(block[1:4])

		switch {
		case block[0] == 'R' && name == "VOL":
			if len(block) < 16 {
				continue
			}
			site = &domain.Geo{
				Lat: float64(math.Float32frombits(binary.BigEndian.Uint32(block[8:12]))),
				Lon: float64(math.Float32frombits(binary.BigEndian.Uint32(block[12:16]))),
			}
		case block[0] == 'D' && name == "REF" && elevNumber == 1:
			r, err := parseMomentBlock(block, azimuth, elevation)
			if err != nil {
				return nil, nil, err
			}
			radial = r
		}
	}

	return radial, site, nil
}

// parseMomentBlock decodes a generic data moment block into a radial. Gate
// values are scaled integers: value = (raw - offset) / scale, with raw 0
// meaning below threshold and raw 1 meaning range folded.
func parseMomentBlock(block []byte, azimuth, elevation float64) (*domain.Radial, error) {
	if len(block) < 28 {
		return nil, fmt.Errorf("moment block too short: %d bytes", len(block))
	}

	gateCount := int(binary.BigEndian.Uint16(block[8:10]))
	firstGate := float64(binary.BigEndian.Uint16(block[10:12]))
	gateWidth := float64(binary.BigEndian.Uint16(block[12:14]))
	wordSize := int(block[19])
	scale := float64(math.Float32frombits(binary.BigEndian.Uint32(block[20:24])))
	offset := float64(math.Float32frombits(binary.BigEndian.Uint32(block[24:28])))

	if scale == 0 {
		return nil, fmt.Errorf("moment block has zero scale")
	}
	if wordSize != 8 && wordSize != 16 {
		return nil, fmt.Errorf("unsupported moment word size %d", wordSize)
	}

	bytesPerGate := wordSize / 8
	need := 28 + gateCount*bytesPerGate
	if len(block) < need {
		return nil, fmt.Errorf("moment block truncated: have %d bytes, need %d", len(block), need)
	}

	radial := &domain.Radial{
		Azimuth:   azimuth,
		Elevation: elevation,
		FirstGate: firstGate,
		GateWidth: gateWidth,
		Gates:     make([]float64, gateCount),
		GateValid: make([]bool, gateCount),
	}

	for i := 0; i < gateCount; i++ {
		var raw uint16
		if wordSize == 8 {
			raw = uint16(block[28+i])
		} else {
			raw = binary.BigEndian.Uint16(block[28+2*i : 30+2*i])
		}
		if raw == gateBelowThreshold || raw == gateRangeFolded {
			continue
		}
		radial.Gates[i] = (float64(raw) - offset) / scale
		radial.GateValid[i] = true
	}

	return radial, nil
}
