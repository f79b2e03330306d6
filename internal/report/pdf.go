package report

import (
	"bytes"
	"strconv"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"example.com/dcspy/internal/common"
)

// SaveSessionPDF renders rep into a PDF document at out.
func SaveSessionPDF(rep Session, out string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("DCSpy Session Report", false)
	pdf.SetAuthor("dcspyctl", false)
	pdf.SetCreator("dcspyctl", false)
	pdf.SetMargins(15, 20, 15)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	addPDFTitle(pdf, "Session Report")
	addSummarySection(pdf, rep)
	addDigestQR(pdf, rep.Digest.SHA256)
	addSelectorSection(pdf, rep.Selectors, tr)

	if pdf.Err() {
		return pdf.Error()
	}
	return pdf.OutputFileAndClose(out)
}

func addPDFTitle(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, title)
	pdf.Ln(12)
}

func addSummarySection(pdf *gofpdf.Fpdf, rep Session) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Summary")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 11)
	m := rep.Metrics
	items := []struct {
		label string
		value string
	}{
		{label: "Capture", value: emptyFallback(rep.Capture, "-")},
		{label: "Size", value: common.FormatBytes(rep.Digest.Size)},
		{label: "Aircraft", value: emptyFallback(strings.Join(rep.Aircraft, ", "), "none detected")},
		{label: "Datagrams", value: strconv.FormatInt(m.Datagrams, 10)},
		{label: "Frames", value: strconv.FormatInt(m.Frames, 10)},
		{label: "Writes", value: strconv.FormatInt(m.Writes, 10)},
		{label: "Resyncs", value: strconv.FormatInt(m.Resyncs, 10)},
		{label: "Value changes", value: strconv.Itoa(rep.TotalChanges())},
		{label: "Replay time", value: m.Duration.Round(time.Millisecond).String()},
		{label: "Throughput", value: common.FormatBytes(int64(m.ThroughputBytesPerSecond())) + "/s"},
		{label: "Generated", value: rep.Generated.Format(time.RFC3339)},
	}
	for _, item := range items {
		pdf.CellFormat(50, 6, item.label, "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, item.value, "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)
}

func addDigestQR(pdf *gofpdf.Fpdf, digest string) {
	png, err := DigestToQR(digest, 256)
	if err != nil {
		return
	}
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Capture SHA-256")
	pdf.Ln(8)
	pdf.SetFont("Courier", "", 8)
	pdf.MultiCell(0, 4, digest, "", "L", false)

	opts := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
	pdf.RegisterImageOptionsReader("digest-qr", opts, bytes.NewReader(png))
	y := pdf.GetY() + 2
	pdf.ImageOptions("digest-qr", pdf.GetX(), y, 32, 32, false, opts, 0, "")
	pdf.SetY(y + 36)
}

func addSelectorSection(pdf *gofpdf.Fpdf, rows []SelectorSummary, tr func(string) string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Selectors")
	pdf.Ln(9)

	if len(rows) == 0 {
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 6, "No value changes recorded.", "", "L", false)
		return
	}

	headers := []string{"Aircraft", "Selector", "Kind", "Changes", "Final value"}
	widths := []float64{30, 62, 18, 18, 52}

	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Helvetica", "B", 10)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, row := range rows {
		values := []string{
			row.Aircraft,
			row.Selector,
			row.Kind,
			strconv.Itoa(row.Changes),
			tr(latin1(row.Final)),
		}
		renderTableRow(pdf, widths, values, 5.0)
	}
}

func renderTableRow(pdf *gofpdf.Fpdf, widths []float64, values []string, lineHeight float64) {
	xStart := pdf.GetX()
	yStart := pdf.GetY()
	maxLines := 1
	splitCols := make([][]string, len(values))
	for i, val := range values {
		text := strings.TrimSpace(val)
		if text == "" {
			text = "-"
		}
		lines := pdf.SplitText(text, widths[i]-2)
		if len(lines) == 0 {
			lines = []string{""}
		}
		splitCols[i] = lines
		if len(lines) > maxLines {
			maxLines = len(lines)
		}
	}
	rowHeight := float64(maxLines) * lineHeight
	if yStart+rowHeight > 277 {
		pdf.AddPage()
		yStart = pdf.GetY()
	}
	x := xStart
	for i, lines := range splitCols {
		pdf.SetXY(x, yStart)
		pdf.MultiCell(widths[i], lineHeight, strings.Join(lines, "\n"), "1", "L", false)
		x += widths[i]
	}
	pdf.SetXY(xStart, yStart+rowHeight)
}

// latin1 replaces runes the core PDF fonts cannot show and control codes.
func latin1(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r < 0x20 || (r >= 0x7f && r < 0xa0):
			b.WriteRune(' ')
		case r > 0xff:
			b.WriteRune('?')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func emptyFallback(val, fallback string) string {
	if strings.TrimSpace(val) == "" {
		return fallback
	}
	return val
}
