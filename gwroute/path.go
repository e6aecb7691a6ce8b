package gwroute

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrInvalidPath is returned for path templates that cannot be normalized.
var ErrInvalidPath = errors.New("invalid path template")

// Segment is one element of a path. Literal segments carry their text in Name,
// parameter segments carry the parameter name.
type Segment struct {
	Name   string
	Param  bool
	Greedy bool
}

// PathPart renders the segment the way API Gateway expects it.
func (s Segment) PathPart() string {
	switch {
	case s.Greedy:
		return "{" + s.Name + "+}"
	case s.Param:
		return "{" + s.Name + "}"
	default:
		return s.Name
	}
}

// shape renders the segment with the parameter name elided.
func (s Segment) shape() string {
	switch {
	case s.Greedy:
		return "{+}"
	case s.Param:
		return "{}"
	default:
		return s.Name
	}
}

// Path is a normalized sequence of segments. The root path is empty.
type Path []Segment

// ParsePath normalizes a path template. Duplicate slashes collapse and a trailing
// slash is dropped, so "/items/{id}/" and "/items/{id}" parse to the same Path.
func ParsePath(template string) (Path, error) {
	var path Path
	seen := map[string]bool{}

	parts := strings.Split(template, "/")
	for i, part := range parts {
		if part == "" {
			continue
		}

		seg, err := parseSegment(part)
		if err != nil {
			return nil, errors.Wrapf(err, "path %q", template)
		}

		if seg.Param {
			if seen[seg.Name] {
				return nil, errors.Wrapf(ErrInvalidPath, "path %q: duplicate parameter %q", template, seg.Name)
			}
			seen[seg.Name] = true
		}

		if seg.Greedy && hasMore(parts[i+1:]) {
			return nil, errors.Wrapf(ErrInvalidPath, "path %q: greedy parameter %q must be last", template, seg.Name)
		}

		path = append(path, seg)
	}

	return path, nil
}

// MustParsePath is like ParsePath but panics on error.
func MustParsePath(template string) Path {
	p, err := ParsePath(template)
	if err != nil {
		panic(err)
	}
	return p
}

func hasMore(parts []string) bool {
	for _, p := range parts {
		if p != "" {
			return true
		}
	}
	return false
}

func parseSegment(part string) (Segment, error) {
	opens, closes := strings.Count(part, "{"), strings.Count(part, "}")
	if opens == 0 && closes == 0 {
		return Segment{Name: part}, nil
	}

	if opens != 1 || closes != 1 || !strings.HasPrefix(part, "{") || !strings.HasSuffix(part, "}") {
		return Segment{}, errors.Wrapf(ErrInvalidPath, "malformed segment %q", part)
	}

	name := part[1 : len(part)-1]
	greedy := false
	if strings.HasSuffix(name, "+") {
		greedy = true
		name = strings.TrimSuffix(name, "+")
	}

	if name == "" {
		return Segment{}, errors.Wrapf(ErrInvalidPath, "unnamed parameter in segment %q", part)
	}

	return Segment{Name: name, Param: true, Greedy: greedy}, nil
}

// String renders the canonical template, e.g. "/items/{id}".
func (p Path) String() string {
	if len(p) == 0 {
		return "/"
	}

	var sb strings.Builder
	for _, s := range p {
		sb.WriteByte('/')
		sb.WriteString(s.PathPart())
	}
	return sb.String()
}

// Shape renders the path with parameter names elided. Two paths with the same
// shape map onto the same API Gateway resource.
func (p Path) Shape() string {
	if len(p) == 0 {
		return "/"
	}

	var sb strings.Builder
	for _, s := range p {
		sb.WriteByte('/')
		sb.WriteString(s.shape())
	}
	return sb.String()
}

// Params returns the parameter names in path order.
func (p Path) Params() []string {
	var names []string
	for _, s := range p {
		if s.Param {
			names = append(names, s.Name)
		}
	}
	return names
}

// HasParam reports whether the path declares the named parameter.
func (p Path) HasParam(name string) bool {
	for _, s := range p {
		if s.Param && s.Name == name {
			return true
		}
	}
	return false
}
