package spec

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Option adjusts how a document is parsed.
type Option func(*options)

type options struct {
	format         Format
	defaultPackage string
}

// WithFormat sets the document syntax. The default is TOML.
func WithFormat(f Format) Option {
	return func(o *options) { o.format = f }
}

// WithDefaultPackage sets the package used when the document names none.
// Without it the package defaults to the namespace.
func WithDefaultPackage(name string) Option {
	return func(o *options) { o.defaultPackage = name }
}

// LoadFile loads and parses a specification file. The format follows the
// file extension unless an option overrides it.
func LoadFile(path string, opts ...Option) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read spec file %s: %w", path, err)
	}

	s, err := Parse(data, append([]Option{WithFormat(FormatFromPath(path))}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return s, nil
}

// Parse parses and validates a specification document. Identical input
// always gives the identical Spec or error.
func Parse(text []byte, opts ...Option) (*Spec, error) {
	o := options{format: FormatTOML}
	for _, opt := range opts {
		opt(&o)
	}

	var (
		doc map[string]any
		err error
	)

	switch o.format {
	case FormatYAML:
		doc, err = decodeYAML(text)
	default:
		doc, err = decodeTOML(text)
	}

	if err != nil {
		return nil, err
	}

	s, err := fromDocument(doc)
	if err != nil {
		return nil, err
	}

	applyDefaults(s, o)

	if err := s.Validate(); err != nil {
		return nil, err
	}

	return s, nil
}

func decodeTOML(text []byte) (map[string]any, error) {
	doc := map[string]any{}

	if _, err := toml.Decode(string(text), &doc); err != nil {
		var perr toml.ParseError
		if errors.As(err, &perr) {
			return nil, &Error{
				Kind:   SyntaxError,
				Line:   perr.Position.Line,
				Column: column(text, perr.Position.Line, perr.Position.Start),
				Detail: perr.Message,
				Err:    err,
			}
		}

		return nil, &Error{Kind: SyntaxError, Detail: err.Error(), Err: err}
	}

	return doc, nil
}

var yamlLineRe = regexp.MustCompile(`line (\d+)`)

func decodeYAML(text []byte) (map[string]any, error) {
	var doc map[string]any

	if err := yaml.Unmarshal(text, &doc); err != nil {
		serr := &Error{
			Kind:   SyntaxError,
			Detail: strings.TrimPrefix(err.Error(), "yaml: "),
			Err:    err,
		}

		if m := yamlLineRe.FindStringSubmatch(err.Error()); m != nil {
			serr.Line, _ = strconv.Atoi(m[1])
		}

		return nil, serr
	}

	return doc, nil
}

// column converts a byte offset into a 1-based column on the given line.
// Returns 0 if the offset does not fall on that line.
func column(text []byte, line, offset int) int {
	if line <= 0 || offset < 0 || offset > len(text) {
		return 0
	}

	prefix := text[:offset]
	if strings.Count(string(prefix), "\n")+1 != line {
		return 0
	}

	return offset - strings.LastIndexByte(string(prefix), '\n')
}

// knownKeys are the document keys a Spec is read from.
var knownKeys = []string{"name", "namespace", "package", "self", "imports", "fields"}

// fromDocument checks the shape of a decoded document and copies it into a
// Spec. Semantic checks are left to Validate.
func fromDocument(doc map[string]any) (*Spec, error) {
	s := &Spec{}

	for key := range doc {
		if !slices.Contains(knownKeys, key) {
			s.Unknown = append(s.Unknown, key)
		}
	}

	slices.Sort(s.Unknown)

	name, ok := doc["name"].(string)
	if !ok || name == "" {
		return nil, errorf(InvalidName, "name", "missing or not a non-empty string")
	}

	s.Name = name

	for _, opt := range []struct {
		key string
		dst *string
	}{
		{"namespace", &s.Namespace},
		{"package", &s.Package},
		{"self", &s.Self},
	} {
		raw, present := doc[opt.key]
		if !present {
			continue
		}

		v, ok := raw.(string)
		if !ok {
			return nil, errorf(InvalidName, opt.key, "must be a string")
		}

		*opt.dst = v
	}

	if raw, present := doc["imports"]; present {
		list, ok := raw.([]any)
		if !ok {
			return nil, errorf(InvalidImport, "imports", "must be a list of strings")
		}

		for i, item := range list {
			v, ok := item.(string)
			if !ok {
				return nil, errorf(InvalidImport, fmt.Sprintf("imports[%d]", i), "must be a string")
			}

			s.Imports = append(s.Imports, v)
		}
	}

	list, ok := doc["fields"].([]any)
	if !ok {
		return nil, errorf(InvalidFields, "fields", "missing or not a list")
	}

	if len(list) == 0 {
		return nil, errorf(InvalidFields, "fields", "must not be empty")
	}

	for i, item := range list {
		pair, ok := item.([]any)
		if !ok || len(pair) != 2 {
			return nil, errorf(InvalidFieldEntry, fmt.Sprintf("fields[%d]", i), "must be a pair of strings [name, type]")
		}

		ident, ok1 := pair[0].(string)
		typ, ok2 := pair[1].(string)

		if !ok1 || !ok2 {
			return nil, errorf(InvalidFieldEntry, fmt.Sprintf("fields[%d]", i), "must be a pair of strings [name, type]")
		}

		s.Fields = append(s.Fields, Field{Name: ident, Type: typ})
	}

	return s, nil
}

// applyDefaults fills in default values for optional keys.
func applyDefaults(s *Spec, o options) {
	if s.Namespace == "" {
		s.Namespace = strings.ToLower(s.Name)
	}

	if s.Package == "" {
		s.Package = o.defaultPackage
	}

	if s.Package == "" {
		s.Package = s.Namespace
	}

	if s.Self == "" {
		s.Self = s.Namespace
	}
}
