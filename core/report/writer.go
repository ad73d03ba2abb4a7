package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"abscomp/core/catalog"
	"abscomp/core/compare"

	"github.com/goccy/go-json"
)

// Format is an output file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatCSV, FormatJSON:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unknown format %q (want %q or %q)", s, FormatCSV, FormatJSON)
	}
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	if f == FormatCSV {
		return "text/csv; charset=utf-8"
	}
	return "application/json"
}

var (
	compareHeader = []string{"Title", "Author", "Series", "Year", "asin", "isbn"}
	fullHeader    = append(append([]string{}, compareHeader...), "Added", "Files", "Size")
)

// reportZone is the fixed UTC-5 zone file dates are taken in.
var reportZone = time.FixedZone("UTC-5", -5*60*60)

// FileBase returns the file name prefix for reports written at now.
func FileBase(now time.Time) string {
	return "abscomp_books_" + now.In(reportZone).Format("060102") + "_"
}

// Writer writes datasets to files.
type Writer struct {
	Dir  string
	Base string
	CSV  bool
	JSON bool
}

// NewWriter creates a writer for the configuration with the file base taken at now.
func NewWriter(cfg Config, now time.Time) *Writer {
	dir := cfg.Dir
	if dir == "" {
		dir = "."
	}
	return &Writer{
		Dir:  dir,
		Base: FileBase(now),
		CSV:  cfg.CSV,
		JSON: cfg.JSON,
	}
}

// Enabled reports whether any format is enabled.
func (w *Writer) Enabled() bool {
	return w.CSV || w.JSON
}

// WriteAll writes every dataset of a result and returns the written paths in order.
func (w *Writer) WriteAll(result *compare.Result) ([]string, error) {
	if !w.Enabled() {
		return nil, nil
	}
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output dir %s: %w", w.Dir, err)
	}

	var paths []string
	for _, name := range compare.Datasets {
		c, _ := result.Dataset(name)
		written, err := w.WriteDataset(name, c)
		paths = append(paths, written...)
		if err != nil {
			return paths, err
		}
	}
	return paths, nil
}

// WriteDataset writes one dataset in every enabled format.
func (w *Writer) WriteDataset(name compare.Dataset, c *catalog.Catalog) ([]string, error) {
	var formats []Format
	if w.CSV {
		formats = append(formats, FormatCSV)
	}
	if w.JSON {
		formats = append(formats, FormatJSON)
	}

	var paths []string
	for _, format := range formats {
		path := filepath.Join(w.Dir, fmt.Sprintf("%s%s.%s", w.Base, name, format))
		if err := writeFile(path, name, c, format); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeFile(path string, name compare.Dataset, c *catalog.Catalog, format Format) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := Render(f, name, c, format); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}

// Render writes one dataset to out in the given format.
func Render(out io.Writer, name compare.Dataset, c *catalog.Catalog, format Format) error {
	switch format {
	case FormatCSV:
		return renderCSV(out, c, name.IsFull())
	case FormatJSON:
		return renderJSON(out, c)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func renderCSV(out io.Writer, c *catalog.Catalog, full bool) error {
	cw := csv.NewWriter(out)

	header := compareHeader
	if full {
		header = fullHeader
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	var err error
	c.Each(func(_ string, b catalog.Book) {
		if err != nil {
			return
		}
		row := []string{b.Title, b.Author, b.Series, b.Year, b.ASIN, b.ISBN}
		if full {
			row = append(row, b.Added, strconv.Itoa(b.Files), strconv.FormatInt(b.Size, 10))
		}
		err = cw.Write(row)
	})
	if err != nil {
		return err
	}

	cw.Flush()
	return cw.Error()
}

func renderJSON(out io.Writer, c *catalog.Catalog) error {
	if c == nil {
		c = catalog.New(0)
	}
	compact, err := c.MarshalJSON()
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, compact, "", "    "); err != nil {
		return err
	}
	buf.WriteByte('\n')

	_, err = out.Write(buf.Bytes())
	return err
}
