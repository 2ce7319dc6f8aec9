package pptx

import (
	"github.com/klytics/slidekit/internal/errinfo"
	"github.com/klytics/slidekit/internal/formats/opc"
	"github.com/klytics/slidekit/internal/formats/pptx/oxml"
)

// AttachVectorAsset stores data as a new media part, relates it to the
// shape's slide and hangs an asvg:svgBlip extension off the shape's a:blip,
// so the bitmap already in place becomes the fallback of the vector image.
// It returns the new relationship id.
//
// The shape must already carry an a:blip. Nothing is written otherwise.
func AttachVectorAsset(sh *Shape, data []byte, contentType string) (string, error) {
	const op = "attach vector asset"
	if sh == nil || sh.slide == nil {
		return "", errinfo.MalformedShape(op, "shape is not on a slide")
	}
	blip := sh.Blip()
	if blip == nil {
		return "", errinfo.MalformedShape(op, "shape %d has no image reference (a:blip) to extend", sh.ID())
	}
	ext := opc.ExtForContentType(contentType)
	if ext == "" {
		return "", errinfo.InvalidArgument(op, "unsupported asset type %q", contentType)
	}
	if len(data) == 0 {
		return "", errinfo.InvalidArgument(op, "asset is empty")
	}

	extLst := blip.Child(NSA, "extLst")
	if extLst == nil {
		extLst = newA("extLst")
		blip.Append(extLst)
	}
	// A previous vector twin goes together with its relationship.
	var stale []string
	for _, e := range extLst.ChildrenNamed(NSA, "ext") {
		if e.AttrOr("", "uri", "") != SVGExtURI {
			continue
		}
		if old := e.Child(NSASVG, "svgBlip"); old != nil {
			if id, ok := old.Attr(NSR, "embed"); ok {
				stale = append(stale, id)
			}
		}
		extLst.Remove(e)
	}

	pkg := sh.slide.deck.pkg
	name := pkg.NextMediaName(ext)
	pkg.AddPart(name, contentType, data)
	rid := pkg.AddRel(sh.slide.part.Name, name, opc.RelTypeImage)
	sh.slide.dropUnusedRels(stale)

	entry := newA("ext")
	entry.SetAttr("", "", "uri", SVGExtURI)
	svgBlip := oxml.NewElement("asvg", NSASVG, "svgBlip")
	svgBlip.DeclareNS("asvg", NSASVG)
	svgBlip.SetAttr("r", NSR, "embed", rid)
	entry.Append(svgBlip)
	extLst.Append(entry)
	return rid, nil
}

// VectorAsset returns the relationship id of the vector twin attached to the
// shape's image, if any.
func VectorAsset(sh *Shape) (string, bool) {
	blip := sh.Blip()
	if blip == nil {
		return "", false
	}
	extLst := blip.Child(NSA, "extLst")
	if extLst == nil {
		return "", false
	}
	for _, e := range extLst.ChildrenNamed(NSA, "ext") {
		if e.AttrOr("", "uri", "") != SVGExtURI {
			continue
		}
		if svg := e.Child(NSASVG, "svgBlip"); svg != nil {
			return svg.Attr(NSR, "embed")
		}
	}
	return "", false
}
