package gwroute

import (
	"slices"
)

// TagGroup is the set of routes sharing a tag.
type TagGroup struct {
	Tag    string
	Routes []Route
}

// GroupByTag groups routes by tag. Groups are ordered by the first appearance of
// their tag; routes keep their input order. Untagged routes are omitted.
func GroupByTag(routes []Route) []TagGroup {
	var groups []TagGroup
	index := map[string]int{}

	for _, r := range routes {
		for _, tag := range r.Tags {
			i, ok := index[tag]
			if !ok {
				i = len(groups)
				index[tag] = i
				groups = append(groups, TagGroup{Tag: tag})
			}
			groups[i].Routes = append(groups[i].Routes, r)
		}
	}

	return groups
}

// UniquePaths returns the distinct canonical paths, sorted.
func UniquePaths(routes []Route) []string {
	paths := make([]string, 0, len(routes))
	for _, r := range routes {
		paths = append(paths, r.Path.String())
	}
	slices.Sort(paths)
	return slices.Compact(paths)
}

// ForPath returns the routes registered on the given path template. The template
// is normalized first, so "/items/" matches routes on "/items".
func ForPath(routes []Route, template string) []Route {
	p, err := ParsePath(template)
	if err != nil {
		return nil
	}

	var out []Route
	for _, r := range routes {
		if r.Path.String() == p.String() {
			out = append(out, r)
		}
	}
	return out
}
