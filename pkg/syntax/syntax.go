package syntax

import (
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// Syntax holds the delimiter strings the parser dispatches on. The zero value
// is not usable; start from Default or Load.
type Syntax struct {
	BlockStart   string `yaml:"block_start"`
	BlockEnd     string `yaml:"block_end"`
	ExprStart    string `yaml:"expr_start"`
	ExprEnd      string `yaml:"expr_end"`
	CommentStart string `yaml:"comment_start"`
	CommentEnd   string `yaml:"comment_end"`
}

func Default() *Syntax {
	return &Syntax{
		BlockStart:   "{%",
		BlockEnd:     "%}",
		ExprStart:    "{{",
		ExprEnd:      "}}",
		CommentStart: "{#",
		CommentEnd:   "#}",
	}
}

// Validate checks that every marker is non-empty and that the three start
// markers are distinct. Literal-text scanning stops at the earliest start
// marker, so two identical start markers would make dispatch ambiguous.
func (s *Syntax) Validate() error {
	markers := map[string]string{
		"block_start":   s.BlockStart,
		"block_end":     s.BlockEnd,
		"expr_start":    s.ExprStart,
		"expr_end":      s.ExprEnd,
		"comment_start": s.CommentStart,
		"comment_end":   s.CommentEnd,
	}
	for name, m := range markers {
		if m == "" {
			return errors.Errorf("syntax: %s must not be empty", name)
		}
	}

	starts := map[string]string{
		s.BlockStart:   "block_start",
		s.ExprStart:    "expr_start",
		s.CommentStart: "comment_start",
	}
	if len(starts) != 3 {
		return errors.Errorf("syntax: block_start, expr_start and comment_start must be distinct")
	}

	return nil
}

// Load reads a YAML syntax file from fs. Markers absent from the file keep
// their default values.
func Load(fs afero.Fs, path string) (*Syntax, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Errorf("reading syntax file %q: %w", path, err)
	}

	s := Default()
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, errors.Errorf("parsing syntax file %q: %w", path, err)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}

	return s, nil
}
