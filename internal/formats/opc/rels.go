package opc

import (
	"fmt"
	"path"
	"strconv"
	"strings"
)

// Relationship is a typed edge from a source part to a target part or URI.
type Relationship struct {
	ID       string
	Type     string
	Target   string
	External bool
}

// Relationships is the relationship set owned by one source part.
type Relationships struct {
	source string
	items  []*Relationship
}

func newRelationships(source string) *Relationships {
	return &Relationships{source: source}
}

// Source returns the part name that owns the set ("/" for the package).
func (r *Relationships) Source() string { return r.source }

// All returns the relationships in document order.
func (r *Relationships) All() []*Relationship { return r.items }

func (r *Relationships) Len() int { return len(r.items) }

// Get returns the relationship with the given id, or nil.
func (r *Relationships) Get(id string) *Relationship {
	for _, rel := range r.items {
		if rel.ID == id {
			return rel
		}
	}
	return nil
}

// ByType returns every relationship of relType.
func (r *Relationships) ByType(relType string) []*Relationship {
	var out []*Relationship
	for _, rel := range r.items {
		if rel.Type == relType {
			out = append(out, rel)
		}
	}
	return out
}

// nextID returns rId<max+1> over the ids already in the set.
func (r *Relationships) nextID() string {
	max := 0
	for _, rel := range r.items {
		if !strings.HasPrefix(rel.ID, "rId") {
			continue
		}
		if n, err := strconv.Atoi(rel.ID[3:]); err == nil && n > max {
			max = n
		}
	}
	return fmt.Sprintf("rId%d", max+1)
}

func (r *Relationships) add(relType, target string, external bool) *Relationship {
	rel := &Relationship{ID: r.nextID(), Type: relType, Target: target, External: external}
	r.items = append(r.items, rel)
	return rel
}

func (r *Relationships) remove(id string) bool {
	for i, rel := range r.items {
		if rel.ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return true
		}
	}
	return false
}

func (r *Relationships) clone(source string) *Relationships {
	out := newRelationships(source)
	for _, rel := range r.items {
		cp := *rel
		out.items = append(out.items, &cp)
	}
	return out
}

// relsName returns the name of the rels part for a source part.
func relsName(source string) string {
	if source == "/" {
		return "/_rels/.rels"
	}
	dir, file := path.Split(source)
	return dir + "_rels/" + file + ".rels"
}

// sourceOfRels is the inverse of relsName. ok is false for names that are
// not rels parts.
func sourceOfRels(name string) (string, bool) {
	if !strings.HasSuffix(name, ".rels") {
		return "", false
	}
	dir, file := path.Split(name)
	if path.Base(dir) != "_rels" {
		return "", false
	}
	parent := path.Dir(strings.TrimSuffix(dir, "/"))
	file = strings.TrimSuffix(file, ".rels")
	if file == "" {
		return "/", true
	}
	if parent == "/" {
		return "/" + file, true
	}
	return parent + "/" + file, true
}

// ResolveTarget returns the absolute part name a relative target points to.
func ResolveTarget(source, target string) string {
	if strings.HasPrefix(target, "/") {
		return path.Clean(target)
	}
	base := "/"
	if source != "/" {
		base = path.Dir(source)
	}
	return path.Join(base, target)
}

// RelativeTarget returns the target string a relationship from source should
// carry to reach partName.
func RelativeTarget(source, partName string) string {
	if source == "/" {
		return strings.TrimPrefix(partName, "/")
	}
	from := strings.Split(strings.Trim(path.Dir(source), "/"), "/")
	to := strings.Split(strings.TrimPrefix(partName, "/"), "/")
	if len(from) == 1 && from[0] == "" {
		from = nil
	}
	i := 0
	for i < len(from) && i < len(to)-1 && from[i] == to[i] {
		i++
	}
	var parts []string
	for range from[i:] {
		parts = append(parts, "..")
	}
	parts = append(parts, to[i:]...)
	return strings.Join(parts, "/")
}
