package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"github.com/pithecene-io/braket-devices/iox"
	"github.com/pithecene-io/braket-devices/types"
)

// Encoding is a catalog file format.
type Encoding string

// Supported encodings.
const (
	EncodingJSON    Encoding = "json"
	EncodingYAML    Encoding = "yaml"
	EncodingMsgpack Encoding = "msgpack"
)

// ParseEncoding validates an encoding name.
func ParseEncoding(s string) (Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return EncodingJSON, nil
	case "yaml", "yml":
		return EncodingYAML, nil
	case "msgpack", "mpk":
		return EncodingMsgpack, nil
	default:
		return "", fmt.Errorf("invalid encoding: %q (must be json, yaml, or msgpack)", s)
	}
}

// EncodingFromPath infers the encoding from a file extension, defaulting
// to JSON.
func EncodingFromPath(path string) Encoding {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return EncodingYAML
	case ".msgpack", ".mpk":
		return EncodingMsgpack
	default:
		return EncodingJSON
	}
}

// ContentType returns the MIME type of an encoding.
func (e Encoding) ContentType() string {
	switch e {
	case EncodingYAML:
		return "application/yaml"
	case EncodingMsgpack:
		return "application/msgpack"
	default:
		return "application/json"
	}
}

// Document is the serialized form of a catalog.
type Document struct {
	FormatVersion int                  `json:"formatVersion" yaml:"formatVersion" msgpack:"format_version"`
	GeneratedAt   *time.Time           `json:"generatedAt,omitempty" yaml:"generatedAt,omitempty" msgpack:"generated_at,omitempty"`
	Devices       []types.CatalogEntry `json:"devices" yaml:"devices" msgpack:"devices"`
}

// Document returns the serializable form of the catalog.
func (c *Catalog) Document(generatedAt time.Time) Document {
	doc := Document{
		FormatVersion: types.CatalogFormatVersion,
		Devices:       c.Entries(),
	}
	if doc.Devices == nil {
		doc.Devices = []types.CatalogEntry{}
	}
	if !generatedAt.IsZero() {
		t := generatedAt.UTC()
		doc.GeneratedAt = &t
	}
	return doc
}

// Encode writes the catalog in the given encoding. A zero generatedAt is
// omitted.
func (c *Catalog) Encode(w io.Writer, enc Encoding, generatedAt time.Time) error {
	doc := c.Document(generatedAt)
	switch enc {
	case EncodingJSON:
		e := json.NewEncoder(w)
		e.SetIndent("", "  ")
		return e.Encode(doc)
	case EncodingYAML:
		e := yaml.NewEncoder(w)
		e.SetIndent(2)
		if err := e.Encode(doc); err != nil {
			return err
		}
		return e.Close()
	case EncodingMsgpack:
		return msgpack.NewEncoder(w).Encode(doc)
	default:
		return fmt.Errorf("unsupported encoding: %q", enc)
	}
}

// Decode reads a catalog. JSON input may also be a bare array of entries,
// the shape produced by older export tooling.
func Decode(r io.Reader, enc Encoding) (*Catalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	switch enc {
	case EncodingJSON:
		return decodeJSON(data)
	case EncodingYAML:
		var doc Document
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decode yaml catalog: %w", err)
		}
		return fromDocument(doc)
	case EncodingMsgpack:
		var doc Document
		if err := msgpack.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decode msgpack catalog: %w", err)
		}
		return fromDocument(doc)
	default:
		return nil, fmt.Errorf("unsupported encoding: %q", enc)
	}
}

func decodeJSON(data []byte) (*Catalog, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var entries []types.CatalogEntry
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			return nil, fmt.Errorf("decode json catalog: %w", err)
		}
		return New(entries)
	}
	var doc Document
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, fmt.Errorf("decode json catalog: %w", err)
	}
	return fromDocument(doc)
}

func fromDocument(doc Document) (*Catalog, error) {
	if doc.FormatVersion > types.CatalogFormatVersion {
		return nil, fmt.Errorf("catalog format version %d is newer than supported version %d",
			doc.FormatVersion, types.CatalogFormatVersion)
	}
	return New(doc.Devices)
}

// Load reads a catalog file, inferring the encoding from its extension.
// An empty catalog is an error.
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer iox.DiscardClose(f)

	c, err := Decode(f, EncodingFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if c.Len() == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmpty)
	}
	return c, nil
}

// LoadOrSeed loads path, or returns the seed when path is empty.
func LoadOrSeed(path string) (*Catalog, error) {
	if path == "" {
		return Seed(), nil
	}
	return Load(path)
}

// IsEmpty reports whether err is ErrEmpty.
func IsEmpty(err error) bool {
	return errors.Is(err, ErrEmpty)
}
