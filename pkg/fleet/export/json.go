package export

import (
	"context"
	"encoding/json"
	"io"

	"freightworks/meridian/pkg/shipment"
)

// JSONExporter exports shipment records to JSON format.
type JSONExporter struct {
	// Pretty enables pretty-printing with indentation.
	Pretty bool
}

// NewJSONExporter creates a new JSON exporter.
func NewJSONExporter(pretty bool) *JSONExporter {
	return &JSONExporter{
		Pretty: pretty,
	}
}

// Export writes shipment records to the provided writer as a JSON array.
func (e *JSONExporter) Export(ctx context.Context, records []*shipment.Shipment, w io.Writer) error {
	if len(records) == 0 {
		_, err := w.Write([]byte("[]"))
		return err
	}

	var data []byte
	var err error
	if e.Pretty {
		data, err = json.MarshalIndent(records, "", "  ")
	} else {
		data, err = json.Marshal(records)
	}
	if err != nil {
		return shipment.NewExportError("json", len(records), err)
	}

	if _, err := w.Write(data); err != nil {
		return shipment.NewExportError("json", len(records), err)
	}
	return nil
}

// ExportStream exports shipment records from a channel as a JSON array,
// writing each record as it arrives instead of buffering the whole set.
func (e *JSONExporter) ExportStream(ctx context.Context, recordsCh <-chan *shipment.Shipment, w io.Writer) error {
	if _, err := w.Write([]byte("[")); err != nil {
		return shipment.NewExportError("json", 0, err)
	}

	first := true
	recordCount := 0

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case record, ok := <-recordsCh:
			if !ok {
				if _, err := w.Write([]byte("]")); err != nil {
					return shipment.NewExportError("json", recordCount, err)
				}
				return nil
			}

			if !first {
				if _, err := w.Write([]byte(",")); err != nil {
					return shipment.NewExportError("json", recordCount, err)
				}
				if e.Pretty {
					if _, err := w.Write([]byte("\n")); err != nil {
						return shipment.NewExportError("json", recordCount, err)
					}
				}
			}
			first = false

			data, err := e.serializeRecord(record)
			if err != nil {
				return shipment.NewExportError("json", recordCount, err)
			}
			if _, err := w.Write(data); err != nil {
				return shipment.NewExportError("json", recordCount, err)
			}
			recordCount++
		}
	}
}

func (e *JSONExporter) serializeRecord(record *shipment.Shipment) ([]byte, error) {
	if e.Pretty {
		return json.MarshalIndent(record, "  ", "  ")
	}
	return json.Marshal(record)
}
