package transcript

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Document is the exported form of a session transcript.
type Document struct {
	SessionID string `json:"session_id" yaml:"session_id"`
	Turns     []Turn `json:"turns" yaml:"turns"`
}

// NewDocument snapshots t for export.
func NewDocument(sessionID string, t Transcript) Document {
	return Document{SessionID: sessionID, Turns: t.Turns()}
}

// Exporter writes a Document in one output format.
type Exporter interface {
	Export(doc Document, w io.Writer) error
	Extension() string
}

// NewExporter creates an exporter for format.
func NewExporter(format string) (Exporter, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "jsonl":
		return JSONLExporter{}, nil
	case "md", "markdown":
		return MarkdownExporter{}, nil
	case "yaml", "yml":
		return YAMLExporter{}, nil
	case "json":
		return JSONExporter{}, nil
	default:
		return nil, errors.Errorf("unsupported format: %s (supported: jsonl, md, yaml, json)", format)
	}
}

// FormatForPath derives an export format from a file extension. Unknown
// extensions fall back to markdown.
func FormatForPath(path string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	switch ext {
	case "jsonl", "json", "yaml", "yml", "md", "markdown":
		return ext
	default:
		return "md"
	}
}

// JSONExporter writes the whole document as one indented JSON object.
type JSONExporter struct{}

func (JSONExporter) Export(doc Document, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(doc), "encode json transcript")
}

func (JSONExporter) Extension() string { return "json" }

// JSONLExporter writes one turn per line.
type JSONLExporter struct{}

func (JSONLExporter) Export(doc Document, w io.Writer) error {
	enc := json.NewEncoder(w)
	for i, turn := range doc.Turns {
		if err := enc.Encode(turn); err != nil {
			return errors.Wrapf(err, "encode turn %d", i)
		}
	}
	return nil
}

func (JSONLExporter) Extension() string { return "jsonl" }

// YAMLExporter writes the document as YAML.
type YAMLExporter struct{}

func (YAMLExporter) Export(doc Document, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer func() { _ = enc.Close() }()
	return errors.Wrap(enc.Encode(doc), "encode yaml transcript")
}

func (YAMLExporter) Extension() string { return "yaml" }

// MarkdownExporter writes a readable transcript.
type MarkdownExporter struct{}

func (MarkdownExporter) Export(doc Document, w io.Writer) error {
	_, _ = fmt.Fprintf(w, "# Gonzago session %s\n\n", doc.SessionID)
	_, _ = fmt.Fprintf(w, "**Turns:** %d\n\n", len(doc.Turns))
	_, _ = fmt.Fprintf(w, "---\n\n")
	for i, turn := range doc.Turns {
		if _, err := fmt.Fprintf(w, "**%s:**\n\n%s\n\n", turn.Sender, turn.Text); err != nil {
			return errors.Wrap(err, "write markdown transcript")
		}
		if i < len(doc.Turns)-1 {
			_, _ = fmt.Fprintf(w, "---\n\n")
		}
	}
	return nil
}

func (MarkdownExporter) Extension() string { return "md" }
