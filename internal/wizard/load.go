package wizard

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// questionFile is the on-disk shape of a questions file. The escape flags are
// pointers so an absent key can default to true.
type questionFile struct {
	Questions []questionEntry `json:"questions" yaml:"questions" toml:"questions"`
}

type questionEntry struct {
	ID              string   `json:"id" yaml:"id" toml:"id"`
	Label           string   `json:"label" yaml:"label" toml:"label"`
	Prompt          string   `json:"prompt" yaml:"prompt" toml:"prompt"`
	Options         []Option `json:"options" yaml:"options" toml:"options"`
	AllowCustomText *bool    `json:"allowCustomText" yaml:"allowCustomText" toml:"allowCustomText"`
	AllowChat       *bool    `json:"allowChat" yaml:"allowChat" toml:"allowChat"`
}

func (s questionEntry) question() Question {
	return Question{
		ID:              s.ID,
		Label:           s.Label,
		Prompt:          s.Prompt,
		Options:         s.Options,
		AllowCustomText: s.AllowCustomText == nil || *s.AllowCustomText,
		AllowChat:       s.AllowChat == nil || *s.AllowChat,
	}
}

// LoadQuestions reads a questions file; the format follows the extension
// (.yaml, .yml, .json, .toml).
func LoadQuestions(path string) ([]Question, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user-supplied questions file
	if err != nil {
		return nil, fmt.Errorf("read questions file: %w", err)
	}

	return ParseQuestions(data, strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."))
}

// ParseQuestions decodes questions in the given format. A document may be
// either {"questions": [...]} or a bare list.
func ParseQuestions(data []byte, format string) ([]Question, error) {
	var (
		file questionFile
		err  error
	)

	switch format {
	case "yaml", "yml":
		err = decodeYAML(data, &file)
	case "json":
		err = decodeJSON(data, &file)
	case "toml":
		err = toml.Unmarshal(data, &file)
	default:
		return nil, fmt.Errorf("%w: unsupported questions format %q", ErrInvalidQuestion, format)
	}

	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %w", ErrInvalidQuestion, format, err)
	}

	if len(file.Questions) == 0 {
		return nil, ErrNoQuestions
	}

	out := make([]Question, 0, len(file.Questions))
	for _, s := range file.Questions {
		out = append(out, s.question())
	}

	return out, nil
}

func decodeYAML(data []byte, file *questionFile) error {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return err
	}

	if len(node.Content) > 0 && node.Content[0].Kind == yaml.SequenceNode {
		return node.Content[0].Decode(&file.Questions)
	}

	return node.Decode(file)
}

func decodeJSON(data []byte, file *questionFile) error {
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '[' {
		return json.Unmarshal(trimmed, &file.Questions)
	}

	return json.Unmarshal(data, file)
}
