package pptx

import (
	"fmt"
	"regexp"

	"github.com/klytics/slidekit/internal/errinfo"
)

// ReplaceResult reports a find-and-replace pass. Matches counts runs
// changed; Locations names each one in document order.
type ReplaceResult struct {
	Matches   int
	Locations []string
}

// FindAndReplace substitutes find with repl inside each run's text, across
// text frames and table cells. slideNum 0 means every slide. Each run is
// matched on its own, so occurrences split across runs are left alone.
func FindAndReplace(d *Deck, slideNum int, find, repl string, caseSensitive bool) (ReplaceResult, error) {
	var res ReplaceResult
	if find == "" {
		return res, errinfo.InvalidArgument("find_and_replace", "find text must not be empty")
	}
	pattern := regexp.QuoteMeta(find)
	if !caseSensitive {
		pattern = "(?i)" + pattern
	}
	re := regexp.MustCompile(pattern)

	slides := d.Slides()
	first := 1
	if slideNum != 0 {
		if slideNum < 1 || slideNum > len(slides) {
			return res, errinfo.NotFound("find_and_replace", "slide_number %d is out of range (1-%d)", slideNum, len(slides))
		}
		slides = slides[slideNum-1 : slideNum]
		first = slideNum
	}

	replaceIn := func(c TextContainer, where string) {
		for _, p := range c.Paragraphs() {
			for _, r := range p.Runs() {
				text := r.Text()
				if !re.MatchString(text) {
					continue
				}
				r.SetText(re.ReplaceAllLiteralString(text, repl))
				res.Matches++
				res.Locations = append(res.Locations, where)
			}
		}
	}

	for i, s := range slides {
		n := first + i
		for _, sh := range s.AllShapes() {
			if tf := sh.TextFrame(); tf != nil {
				replaceIn(tf, fmt.Sprintf("Slide %d, Shape '%s'", n, sh.Name()))
			}
			if tbl := sh.Table(); tbl != nil {
				for r := 0; r < tbl.Rows(); r++ {
					for c := 0; c < tbl.Cols(); c++ {
						cell, err := tbl.Cell(r, c)
						if err != nil {
							continue
						}
						replaceIn(cell, fmt.Sprintf("Slide %d, Table row %d col %d", n, r+1, c+1))
					}
				}
			}
		}
	}
	return res, nil
}
