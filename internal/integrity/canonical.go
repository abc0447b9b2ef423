package integrity

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/saturnino-fabrica-de-software/talentspark/internal/domain"
)

// CanonicalPayload renders the hashed subset of a bundle as the client
// SDK does: keys sorted, ", " and ": " separators, non-ASCII escaped as
// \uXXXX, integral floats written with a trailing ".0".
//
// Only assessmentData, sessionId, the device timestamp and the video
// byte length are covered. Face snapshots and device strings are not.
func CanonicalPayload(b *domain.IntegrityBundle, videoSize int64) string {
	a := b.AssessmentData

	var sb strings.Builder
	sb.Grow(256 + 16*len(a.Timestamps))

	sb.WriteString(`{"assessmentData": {"average_depth": `)
	sb.WriteString(formatFloat(a.AverageDepth))
	sb.WriteString(`, "average_rep_time": `)
	sb.WriteString(strconv.FormatInt(a.AverageRepTimeMs, 10))
	sb.WriteString(`, "consistency": `)
	sb.WriteString(formatFloat(a.Consistency))
	sb.WriteString(`, "form_score": `)
	sb.WriteString(formatFloat(a.FormScore))
	sb.WriteString(`, "timestamps": [`)
	for i, ts := range a.Timestamps {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(strconv.FormatInt(ts, 10))
	}
	sb.WriteString(`], "total_reps": `)
	sb.WriteString(strconv.Itoa(a.TotalReps))
	sb.WriteString(`}, "sessionId": `)
	writeString(&sb, b.SessionID)
	sb.WriteString(`, "timestamp": `)
	sb.WriteString(strconv.FormatInt(b.DeviceInfo.Timestamp, 10))
	sb.WriteString(`, "videoSize": `)
	sb.WriteString(strconv.FormatInt(videoSize, 10))
	sb.WriteString("}")

	return sb.String()
}

// ContentHash is the lowercase hex SHA-256 of CanonicalPayload.
func ContentHash(b *domain.IntegrityBundle, videoSize int64) string {
	sum := sha256.Sum256([]byte(CanonicalPayload(b, videoSize)))
	return hex.EncodeToString(sum[:])
}

// HashMatches compares the recomputed hash to the claimed one exactly.
func HashMatches(b *domain.IntegrityBundle, videoSize int64) bool {
	want := ContentHash(b, videoSize)
	return subtle.ConstantTimeCompare([]byte(want), []byte(b.ContentHash)) == 1
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}

	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}

	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}

const hexDigits = "0123456789abcdef"

func writeString(sb *strings.Builder, s string) {
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		case '\b':
			sb.WriteString(`\b`)
		case '\f':
			sb.WriteString(`\f`)
		default:
			switch {
			case r >= 0x20 && r <= 0x7e:
				sb.WriteRune(r)
			case r == utf8.RuneError:
				writeEscape(sb, 0xfffd)
			case r > 0xffff:
				r -= 0x10000
				writeEscape(sb, 0xd800+(r>>10))
				writeEscape(sb, 0xdc00+(r&0x3ff))
			default:
				writeEscape(sb, r)
			}
		}
	}
	sb.WriteByte('"')
}

func writeEscape(sb *strings.Builder, r rune) {
	sb.WriteString(`\u`)
	sb.WriteByte(hexDigits[(r>>12)&0xf])
	sb.WriteByte(hexDigits[(r>>8)&0xf])
	sb.WriteByte(hexDigits[(r>>4)&0xf])
	sb.WriteByte(hexDigits[r&0xf])
}
