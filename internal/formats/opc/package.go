// Package opc reads and writes Open Packaging Convention archives: the ZIP
// container, its content-type declarations and its relationship graph.
package opc

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/klytics/slidekit/internal/errinfo"
)

// Part is a named blob inside the package.
type Part struct {
	Name        string
	ContentType string
	Data        []byte
}

// Ext returns the lower-case extension of the part name without the dot.
func (p *Part) Ext() string {
	return strings.ToLower(strings.TrimPrefix(path.Ext(p.Name), "."))
}

// Package is an in-memory OPC package.
type Package struct {
	parts    map[string]*Part
	order    []string
	rels     map[string]*Relationships
	defaults map[string]string

	// highest media number handed out, so freed numbers are never reused
	mediaHigh int
}

// New returns an empty package.
func New() *Package {
	return &Package{
		parts:    make(map[string]*Part),
		rels:     make(map[string]*Relationships),
		defaults: make(map[string]string),
	}
}

// Open reads the package at path.
func Open(filePath string) (*Package, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errinfo.NotFound("open", "file not found: %s", filePath)
		}
		return nil, fmt.Errorf("could not read %s: %w", filePath, err)
	}
	return OpenBytes(data)
}

// OpenBytes reads a package from memory.
func OpenBytes(data []byte) (*Package, error) {
	return OpenReader(bytes.NewReader(data), int64(len(data)))
}

// OpenReader reads a package from r.
func OpenReader(r io.ReaderAt, size int64) (*Package, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("invalid package — the file does not appear to be a valid ZIP archive: %w", err)
	}

	pkg := New()
	var types *xmlContentTypes
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		content, err := readZipFile(f)
		if err != nil {
			return nil, err
		}
		name := "/" + strings.TrimPrefix(f.Name, "/")

		if f.Name == contentTypesName {
			types = &xmlContentTypes{}
			if err := xml.Unmarshal(content, types); err != nil {
				return nil, fmt.Errorf("could not parse %s: %w", contentTypesName, err)
			}
			continue
		}
		if source, ok := sourceOfRels(name); ok {
			rels, err := parseRels(source, content)
			if err != nil {
				return nil, fmt.Errorf("could not parse %s: %w", f.Name, err)
			}
			pkg.rels[source] = rels
			continue
		}
		pkg.parts[name] = &Part{Name: name, Data: content}
		pkg.order = append(pkg.order, name)
	}
	if types == nil {
		return nil, fmt.Errorf("invalid package: %s is missing", contentTypesName)
	}

	overrides := make(map[string]string, len(types.Overrides))
	for _, o := range types.Overrides {
		overrides[strings.ToLower(o.PartName)] = o.ContentType
	}
	for _, d := range types.Defaults {
		pkg.defaults[strings.ToLower(d.Extension)] = d.ContentType
	}
	for _, p := range pkg.parts {
		if ct, ok := overrides[strings.ToLower(p.Name)]; ok {
			p.ContentType = ct
		} else if ct, ok := pkg.defaults[p.Ext()]; ok {
			p.ContentType = ct
		} else {
			p.ContentType = ContentTypeForExt(p.Ext())
		}
	}
	pkg.mediaHigh = pkg.maxMediaNumber()
	return pkg, nil
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("could not open %s in archive: %w", f.Name, err)
	}
	defer rc.Close()
	content, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("could not read %s: %w", f.Name, err)
	}
	return content, nil
}

func parseRels(source string, data []byte) (*Relationships, error) {
	var x xmlRelationships
	if err := xml.Unmarshal(data, &x); err != nil {
		return nil, err
	}
	rels := newRelationships(source)
	for _, r := range x.Relationships {
		rels.items = append(rels.items, &Relationship{
			ID:       r.ID,
			Type:     r.Type,
			Target:   r.Target,
			External: strings.EqualFold(r.TargetMode, "External"),
		})
	}
	return rels, nil
}

// Part returns the part with the given name, or nil.
func (p *Package) Part(name string) *Part {
	return p.parts[name]
}

// Parts returns all parts in insertion order.
func (p *Package) Parts() []*Part {
	out := make([]*Part, 0, len(p.order))
	for _, name := range p.order {
		if part, ok := p.parts[name]; ok {
			out = append(out, part)
		}
	}
	return out
}

// AddPart stores a new part, replacing any part with the same name.
func (p *Package) AddPart(name, contentType string, data []byte) *Part {
	if _, exists := p.parts[name]; !exists {
		p.order = append(p.order, name)
	}
	part := &Part{Name: name, ContentType: contentType, Data: data}
	p.parts[name] = part
	return part
}

// Rels returns the relationship set of source, creating an empty one if needed.
func (p *Package) Rels(source string) *Relationships {
	rels, ok := p.rels[source]
	if !ok {
		rels = newRelationships(source)
		p.rels[source] = rels
	}
	return rels
}

// Relate returns the id of an internal relationship from source to target of
// relType, reusing an identical edge when one exists.
func (p *Package) Relate(source, target, relType string) string {
	rels := p.Rels(source)
	for _, rel := range rels.items {
		if rel.Type == relType && !rel.External && ResolveTarget(source, rel.Target) == target {
			return rel.ID
		}
	}
	return rels.add(relType, RelativeTarget(source, target), false).ID
}

// AddRel always creates a new relationship and returns its id.
func (p *Package) AddRel(source, target, relType string) string {
	return p.Rels(source).add(relType, RelativeTarget(source, target), false).ID
}

// AddExternalRel creates a relationship to an external URI.
func (p *Package) AddExternalRel(source, uri, relType string) string {
	return p.Rels(source).add(relType, uri, true).ID
}

// DropRel removes a relationship. The target part stays in memory and is
// dropped at save time if nothing else reaches it.
func (p *Package) DropRel(source, id string) bool {
	rels, ok := p.rels[source]
	if !ok {
		return false
	}
	return rels.remove(id)
}

// CopyRels replaces the relationships of dst with a copy of src's, resolving
// targets relative to dst.
func (p *Package) CopyRels(src, dst string) {
	rels, ok := p.rels[src]
	if !ok {
		delete(p.rels, dst)
		return
	}
	cp := rels.clone(dst)
	for _, rel := range cp.items {
		if !rel.External {
			rel.Target = RelativeTarget(dst, ResolveTarget(src, rel.Target))
		}
	}
	p.rels[dst] = cp
}

// RelatedPart resolves relationship id of source to its target part.
func (p *Package) RelatedPart(source, id string) (*Part, error) {
	rel := p.Rels(source).Get(id)
	if rel == nil {
		return nil, errinfo.NotFound("resolve relationship", "relationship %s not found in %s", id, source)
	}
	if rel.External {
		return nil, errinfo.InvalidArgument("resolve relationship", "relationship %s is external", id)
	}
	part := p.parts[ResolveTarget(source, rel.Target)]
	if part == nil {
		return nil, errinfo.NotFound("resolve relationship", "part %s referenced by %s is missing", rel.Target, id)
	}
	return part, nil
}

// PartByRelType returns the first part source relates to with relType.
func (p *Package) PartByRelType(source, relType string) *Part {
	for _, rel := range p.Rels(source).ByType(relType) {
		if rel.External {
			continue
		}
		if part := p.parts[ResolveTarget(source, rel.Target)]; part != nil {
			return part
		}
	}
	return nil
}

// NextPartName fills format's single %d with the smallest unused positive number.
func (p *Package) NextPartName(format string) string {
	for n := 1; ; n++ {
		name := fmt.Sprintf(format, n)
		if _, used := p.parts[name]; !used {
			return name
		}
	}
}

var mediaPartRe = regexp.MustCompile(`^/ppt/media/image(\d+)\.[^/]+$`)

func (p *Package) maxMediaNumber() int {
	max := 0
	for name := range p.parts {
		m := mediaPartRe.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		if n, err := strconv.Atoi(m[1]); err == nil && n > max {
			max = n
		}
	}
	return max
}

// NextMediaName allocates /ppt/media/image<N>.<ext> with N one past the
// highest number present or previously handed out by this package.
func (p *Package) NextMediaName(ext string) string {
	n := p.maxMediaNumber()
	if p.mediaHigh > n {
		n = p.mediaHigh
	}
	n++
	p.mediaHigh = n
	return fmt.Sprintf("/ppt/media/image%d.%s", n, strings.ToLower(strings.TrimPrefix(ext, ".")))
}

// reachable walks the relationship graph from the package root.
func (p *Package) reachable() map[string]bool {
	seen := make(map[string]bool)
	var walk func(source string)
	walk = func(source string) {
		rels, ok := p.rels[source]
		if !ok {
			return
		}
		for _, rel := range rels.items {
			if rel.External {
				continue
			}
			target := ResolveTarget(source, rel.Target)
			if seen[target] {
				continue
			}
			if _, ok := p.parts[target]; !ok {
				continue
			}
			seen[target] = true
			walk(target)
		}
	}
	walk("/")
	return seen
}

// Prune drops parts no relationship chain reaches and returns their names.
func (p *Package) Prune() []string {
	keep := p.reachable()
	var dropped []string
	order := p.order[:0]
	for _, name := range p.order {
		if _, ok := p.parts[name]; !ok {
			continue
		}
		if !keep[name] {
			dropped = append(dropped, name)
			delete(p.parts, name)
			delete(p.rels, name)
			continue
		}
		order = append(order, name)
	}
	p.order = order
	return dropped
}

func (p *Package) contentTypesXML() ([]byte, error) {
	defaults := make(map[string]string, len(p.defaults)+2)
	for ext, ct := range p.defaults {
		defaults[ext] = ct
	}
	defaults["rels"] = CTRelationships
	defaults["xml"] = CTXML

	var overrides []xmlOverride
	for _, part := range p.Parts() {
		ext := part.Ext()
		if ct, ok := defaults[ext]; ok && ct == part.ContentType {
			continue
		}
		if _, declared := defaults[ext]; !declared {
			if ct, known := defaultContentTypes[ext]; known && ct == part.ContentType {
				defaults[ext] = ct
				continue
			}
		}
		overrides = append(overrides, xmlOverride{PartName: part.Name, ContentType: part.ContentType})
	}

	exts := make([]string, 0, len(defaults))
	for ext := range defaults {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	types := xmlContentTypes{Xmlns: NSContentTypes, Overrides: overrides}
	for _, ext := range exts {
		types.Defaults = append(types.Defaults, xmlDefault{Extension: ext, ContentType: defaults[ext]})
	}
	return marshalXML(types)
}

func relsXML(rels *Relationships) ([]byte, error) {
	x := xmlRelationships{Xmlns: NSRelationships}
	for _, rel := range rels.items {
		r := xmlRelationship{ID: rel.ID, Type: rel.Type, Target: rel.Target}
		if rel.External {
			r.TargetMode = "External"
		}
		x.Relationships = append(x.Relationships, r)
	}
	return marshalXML(x)
}

// Save prunes unreachable parts and writes the package to w.
func (p *Package) Save(w io.Writer) error {
	p.Prune()

	zw := zip.NewWriter(w)
	now := time.Now()
	write := func(name string, data []byte) error {
		header := &zip.FileHeader{
			Name:   strings.TrimPrefix(name, "/"),
			Method: zip.Deflate,
		}
		header.SetModTime(now)
		fw, err := zw.CreateHeader(header)
		if err != nil {
			return fmt.Errorf("could not create %s in output: %w", name, err)
		}
		if _, err := fw.Write(data); err != nil {
			return fmt.Errorf("could not write %s: %w", name, err)
		}
		return nil
	}

	ct, err := p.contentTypesXML()
	if err != nil {
		return fmt.Errorf("could not build content types: %w", err)
	}
	if err := write(contentTypesName, ct); err != nil {
		return err
	}
	if err := p.writeRels(write, "/"); err != nil {
		return err
	}
	for _, part := range p.Parts() {
		if err := write(part.Name, part.Data); err != nil {
			return err
		}
		if err := p.writeRels(write, part.Name); err != nil {
			return err
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("could not finalize output archive: %w", err)
	}
	return nil
}

func (p *Package) writeRels(write func(string, []byte) error, source string) error {
	rels, ok := p.rels[source]
	if !ok || rels.Len() == 0 {
		return nil
	}
	data, err := relsXML(rels)
	if err != nil {
		return fmt.Errorf("could not build relationships for %s: %w", source, err)
	}
	return write(relsName(source), data)
}

// Bytes returns the saved package.
func (p *Package) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := p.Save(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SaveFile writes the package to path.
func (p *Package) SaveFile(filePath string) error {
	data, err := p.Bytes()
	if err != nil {
		return err
	}
	if err := os.WriteFile(filePath, data, 0o644); err != nil {
		return fmt.Errorf("could not write %s: %w", filePath, err)
	}
	return nil
}
