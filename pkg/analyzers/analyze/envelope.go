package analyze

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"time"
)

const (
	// EnvelopeMagic marks gitglow report envelopes.
	EnvelopeMagic = "GGR1"

	// envelopeHeaderSize is magic bytes plus payload length bytes.
	envelopeHeaderSize = 8

	// ArchiveFileName is the report archive a store directory holds.
	ArchiveFileName = "reports.ggr"
)

var (
	// ErrInvalidEnvelope indicates a malformed or truncated binary payload.
	ErrInvalidEnvelope = errors.New("invalid report envelope")

	// ErrPayloadTooLarge indicates the payload exceeds the envelope limit.
	ErrPayloadTooLarge = errors.New("report payload too large")
)

// EncodeEnvelope frames any JSON-serializable value as magic, uint32 LE
// payload length, JSON payload. Envelopes concatenate into streams.
func EncodeEnvelope(value any, writer io.Writer) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal envelope payload: %w", err)
	}

	if len(payload) > math.MaxUint32 {
		return fmt.Errorf("%w: %d bytes", ErrPayloadTooLarge, len(payload))
	}

	header := make([]byte, envelopeHeaderSize)
	copy(header[:4], EnvelopeMagic)
	binary.LittleEndian.PutUint32(header[4:], uint32(len(payload)))

	if _, err := writer.Write(header); err != nil {
		return fmt.Errorf("write envelope header: %w", err)
	}

	if _, err := writer.Write(payload); err != nil {
		return fmt.Errorf("write envelope payload: %w", err)
	}

	return nil
}

// DecodeEnvelope extracts the JSON payload of the next envelope in reader.
func DecodeEnvelope(reader io.Reader) ([]byte, error) {
	header := make([]byte, envelopeHeaderSize)

	if _, err := io.ReadFull(reader, header); err != nil {
		return nil, errors.Join(ErrInvalidEnvelope, err)
	}

	if !bytes.Equal(header[:4], []byte(EnvelopeMagic)) {
		return nil, fmt.Errorf("%w: bad magic", ErrInvalidEnvelope)
	}

	payload := make([]byte, binary.LittleEndian.Uint32(header[4:]))

	if _, err := io.ReadFull(reader, payload); err != nil {
		return nil, errors.Join(ErrInvalidEnvelope, err)
	}

	return payload, nil
}

// DecodeEnvelopes decodes every concatenated envelope in data.
func DecodeEnvelopes(data []byte) ([][]byte, error) {
	reader := bytes.NewReader(data)
	payloads := make([][]byte, 0)

	for reader.Len() > 0 {
		payload, err := DecodeEnvelope(reader)
		if err != nil {
			return nil, err
		}

		payloads = append(payloads, payload)
	}

	return payloads, nil
}

// StoredReport is one archived analyzer result.
type StoredReport struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Report    Report    `json:"report"`
}

// WriteReportArchive writes reports as a stream of envelopes.
func WriteReportArchive(writer io.Writer, reports []StoredReport) error {
	for _, report := range reports {
		if err := EncodeEnvelope(report, writer); err != nil {
			return fmt.Errorf("archive report %s: %w", report.ID, err)
		}
	}

	return nil
}

// ReadReportArchive decodes a stream of envelopes back into stored reports.
func ReadReportArchive(reader io.Reader) ([]StoredReport, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read report archive: %w", err)
	}

	payloads, err := DecodeEnvelopes(data)
	if err != nil {
		return nil, err
	}

	reports := make([]StoredReport, 0, len(payloads))

	for _, payload := range payloads {
		var report StoredReport
		if err := json.Unmarshal(payload, &report); err != nil {
			return nil, errors.Join(ErrInvalidEnvelope, err)
		}

		reports = append(reports, report)
	}

	return reports, nil
}
