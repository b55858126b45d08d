package booking

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"
)

// exportColumns is the column order shared by both export formats.
var exportColumns = []string{
	"id", "guest_name", "email", "phone", "source", "room", "status",
	"check_in", "check_out", "guests", "price", "notes",
	"external_source", "external_uid", "created_at", "updated_at",
}

func exportRow(b *Booking) []string {
	var extSource, extUID string
	if b.ExternalSource != nil {
		extSource = *b.ExternalSource
	}
	if b.ExternalUID != nil {
		extUID = *b.ExternalUID
	}

	return []string{
		strconv.FormatInt(b.ID, 10),
		b.GuestName,
		b.Email,
		b.Phone,
		string(b.Source),
		b.Room,
		string(b.Status),
		b.CheckIn.Format(DateLayout),
		b.CheckOut.Format(DateLayout),
		strconv.Itoa(b.Guests),
		b.Price.StringFixed(2),
		b.Notes,
		extSource,
		extUID,
		b.CreatedAt.Format(time.RFC3339),
		b.UpdatedAt.Format(time.RFC3339),
	}
}

// WriteCSV writes bookings to w as CSV with a header row.
func WriteCSV(w io.Writer, bookings []*Booking) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(exportColumns); err != nil {
		return fmt.Errorf("write csv header failed: %w", err)
	}
	for _, b := range bookings {
		if err := cw.Write(exportRow(b)); err != nil {
			return fmt.Errorf("write csv row failed: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes bookings to w as a single-sheet xlsx workbook with the
// same columns as the CSV export.
func WriteXLSX(w io.Writer, bookings []*Booking) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sheet1"

	for i, name := range exportColumns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return fmt.Errorf("resolve xlsx header cell failed: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			return fmt.Errorf("write xlsx header failed: %w", err)
		}
	}

	for r, b := range bookings {
		for i, value := range exportRow(b) {
			cell, err := excelize.CoordinatesToCellName(i+1, r+2)
			if err != nil {
				return fmt.Errorf("resolve xlsx cell failed: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("write xlsx row failed: %w", err)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx failed: %w", err)
	}
	return nil
}
