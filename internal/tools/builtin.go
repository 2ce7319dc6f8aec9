package tools

import (
	"github.com/klytics/slidekit/internal/editor"
)

func registerBuiltins(r *Registry, ed *editor.Editor) {
	registerPresentationTools(r, ed)
	registerContentTools(r, ed)
	registerIconTools(r, ed)
	registerModifyTools(r, ed)
	registerGeometryTools(r, ed)
}

func slideParam(desc string) Param {
	return Param{Name: "slide_number", Type: Integer, Required: true, Description: desc}
}

func boxParams(what string, defaults [4]string) []Param {
	return []Param{
		{Name: "left", Type: Number, Description: "Left position in inches (" + defaults[0] + ")"},
		{Name: "top", Type: Number, Description: "Top position in inches (" + defaults[1] + ")"},
		{Name: "width", Type: Number, Description: what + " width in inches (" + defaults[2] + ")"},
		{Name: "height", Type: Number, Description: what + " height in inches (" + defaults[3] + ")"},
	}
}

func shapeParams(verb string) []Param {
	return []Param{
		{Name: "shape_id", Type: Integer, Description: "ID of the shape to " + verb + " (use get_slide_snapshot to find IDs)"},
		{Name: "shape_name", Type: String, Description: "Name of the shape to " + verb + " (alternative to shape_id)"},
	}
}

func replaceParams(what string) []Param {
	return []Param{
		{Name: "replace_shape_id", Type: Integer, Description: "ID of shape to replace (" + what + " inherits its position/size)"},
		{Name: "replace_shape_name", Type: String, Description: "Name of shape to replace (alternative to replace_shape_id)"},
	}
}

func params(groups ...[]Param) []Param {
	var out []Param
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// ref reads a shape reference from idKey and nameKey. The id wins when
// both are given.
func ref(args Args, idKey, nameKey string) (editor.ShapeRef, error) {
	id, err := args.OptInt(idKey, 0)
	if err != nil {
		return editor.ShapeRef{}, err
	}
	if id != 0 {
		return editor.ShapeRef{ID: id}, nil
	}
	return editor.ShapeRef{Name: args.OptString(nameKey, "")}, nil
}

func text(v interface{ String() string }, err error) (string, error) {
	if err != nil {
		return "", err
	}
	return v.String(), nil
}
