package fs

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/inkjournal/pkg/core"
)

// Supported record formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Serializer defines how a note is written to and read from a record file.
type Serializer interface {
	// Encode converts the note to bytes.
	Encode(n core.Note) ([]byte, error)
	// Decode reads a note from r. Failures wrap core.ErrRecordUnreadable.
	Decode(r io.Reader) (core.Note, error)
	// Ext is the file extension used for records, including the dot.
	Ext() string
}

// DefaultSerializers returns the serializers keyed by file extension.
func DefaultSerializers() map[string]Serializer {
	return map[string]Serializer{
		".json": JSONSerializer{},
		".yaml": YAMLSerializer{},
		".yml":  YAMLSerializer{},
	}
}

// SerializerFor returns the serializer for a configured format name.
// An empty format selects JSON.
func SerializerFor(format string) (Serializer, error) {
	switch format {
	case "", FormatJSON:
		return JSONSerializer{}, nil
	case FormatYAML, "yml":
		return YAMLSerializer{}, nil
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

// Serialize encodes a note in the canonical JSON record format.
//
// Nil strokes and nil point slices are written as empty arrays, so a
// decoded note carries empty (never nil) slices. Compare notes with
// core.Note.Equal rather than reflect.DeepEqual.
func Serialize(n core.Note) ([]byte, error) {
	return JSONSerializer{}.Encode(n)
}

// Deserialize decodes a canonical JSON record.
func Deserialize(data []byte) (core.Note, error) {
	return JSONSerializer{}.Decode(bytes.NewReader(data))
}

// --- JSON Serializer ---

// JSONSerializer handles the canonical JSON record format.
type JSONSerializer struct{}

func (JSONSerializer) Ext() string { return ".json" }

func (JSONSerializer) Encode(n core.Note) ([]byte, error) {
	return json.MarshalIndent(normalize(n), "", "  ")
}

func (JSONSerializer) Decode(r io.Reader) (core.Note, error) {
	var n core.Note
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&n); err != nil {
		return core.Note{}, fmt.Errorf("%w: invalid json: %v", core.ErrRecordUnreadable, err)
	}
	// A record is exactly one value; anything after it means the file was
	// truncated mid-rewrite or concatenated.
	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		return core.Note{}, fmt.Errorf("%w: invalid json: trailing data after record", core.ErrRecordUnreadable)
	}
	return validated(n)
}

// --- YAML Serializer ---

// YAMLSerializer stores notes as YAML documents with the same field names.
type YAMLSerializer struct{}

func (YAMLSerializer) Ext() string { return ".yaml" }

func (YAMLSerializer) Encode(n core.Note) ([]byte, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(normalize(n)); err != nil {
		return nil, err
	}
	if err := encoder.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (YAMLSerializer) Decode(r io.Reader) (core.Note, error) {
	var n core.Note
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&n); err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("empty document")
		}
		return core.Note{}, fmt.Errorf("%w: invalid yaml: %v", core.ErrRecordUnreadable, err)
	}
	var extra yaml.Node
	if err := decoder.Decode(&extra); !errors.Is(err, io.EOF) {
		return core.Note{}, fmt.Errorf("%w: invalid yaml: trailing data after record", core.ErrRecordUnreadable)
	}
	return validated(n)
}

// --- Helpers ---

// normalize replaces nil slices with empty ones so records never carry null
// and decoded notes compare equal to what was saved.
func normalize(n core.Note) core.Note {
	if n.Strokes == nil {
		n.Strokes = []core.Stroke{}
		return n
	}
	strokes := make([]core.Stroke, len(n.Strokes))
	for i, s := range n.Strokes {
		if s.Points == nil {
			s.Points = []core.Point{}
		}
		strokes[i] = s
	}
	n.Strokes = strokes
	return n
}

func validated(n core.Note) (core.Note, error) {
	if n.ID == "" {
		return core.Note{}, fmt.Errorf("%w: missing id", core.ErrRecordUnreadable)
	}
	return normalize(n), nil
}
