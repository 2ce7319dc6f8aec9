package pptx

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/klytics/slidekit/internal/errinfo"
	"github.com/klytics/slidekit/internal/formats/opc"
	"github.com/klytics/slidekit/internal/formats/xlsx"
)

// ChartTypes lists the names accepted by AddChart.
var ChartTypes = []string{"bar", "column", "line", "pie", "area", "scatter"}

// ChartSpec describes a new chart.
type ChartSpec struct {
	Type  string
	Title string
	Data  xlsx.ChartData
}

// AddChart writes a chart part with its embedded workbook and places a
// graphic frame for it on the slide.
func AddChart(s *Slide, spec ChartSpec, r Rect) (*Shape, error) {
	const op = "add chart"
	typ := strings.ToLower(spec.Type)
	known := false
	for _, t := range ChartTypes {
		if t == typ {
			known = true
		}
	}
	if !known {
		return nil, errinfo.InvalidArgument(op, "unknown chart type '%s'. Valid types: %s", spec.Type, strings.Join(ChartTypes, ", "))
	}
	if err := spec.Data.Validate(); err != nil {
		return nil, errinfo.InvalidArgument(op, "%v", err)
	}
	if err := validateBox(op, r); err != nil {
		return nil, err
	}

	workbook, err := xlsx.WriteBytes(&spec.Data)
	if err != nil {
		return nil, fmt.Errorf("could not build chart workbook: %w", err)
	}

	pkg := s.deck.pkg
	chartName := pkg.NextPartName("/ppt/charts/chart%d.xml")
	embedName := pkg.NextPartName("/ppt/embeddings/Microsoft_Excel_Worksheet%d.xlsx")
	pkg.AddPart(embedName, opc.CTXLSX, workbook)
	embedRID := pkg.AddRel(chartName, embedName, opc.RelTypePackage)
	pkg.AddPart(chartName, opc.CTChart, []byte(chartSpaceXML(typ, spec, embedRID)))
	chartRID := pkg.AddRel(s.part.Name, chartName, opc.RelTypeChart)

	id := s.NextShapeID()
	el := fragment(`<p:graphicFrame><p:nvGraphicFramePr><p:cNvPr id="%d" name="Chart %d"/><p:cNvGraphicFramePr><a:graphicFrameLocks noGrp="1"/></p:cNvGraphicFramePr><p:nvPr/></p:nvGraphicFramePr>`+
		`<p:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></p:xfrm>`+
		`<a:graphic><a:graphicData uri="%s"><c:chart xmlns:c="%s" r:id="%s"/></a:graphicData></a:graphic></p:graphicFrame>`,
		id, id-1, r.X, r.Y, r.CX, r.CY, graphicChart, NSC, esc(chartRID))
	return s.appendShape(el), nil
}

// ChartData reads the workbook embedded behind a chart frame.
func (sh *Shape) ChartData() (*xlsx.ChartData, error) {
	if sh.Kind() != KindChart || sh.slide == nil {
		return nil, errinfo.InvalidArgument("chart data", "shape %d is not a chart", sh.ID())
	}
	ref := sh.el.Find(NSC, "chart")
	if ref == nil {
		return nil, errinfo.MalformedShape("chart data", "chart frame %d has no chart reference", sh.ID())
	}
	rid, _ := ref.Attr(NSR, "id")
	pkg := sh.slide.deck.pkg
	chart, err := pkg.RelatedPart(sh.slide.part.Name, rid)
	if err != nil {
		return nil, err
	}
	embed := pkg.PartByRelType(chart.Name, opc.RelTypePackage)
	if embed == nil {
		return nil, errinfo.NotFound("chart data", "chart %s has no embedded workbook", chart.Name)
	}
	return xlsx.ReadBytes(embed.Data)
}

func chartSpaceXML(typ string, spec ChartSpec, embedRID string) string {
	d := spec.Data
	var plot strings.Builder
	switch typ {
	case "bar", "column":
		dir := "bar"
		if typ == "column" {
			dir = "col"
		}
		fmt.Fprintf(&plot, `<c:barChart><c:barDir val="%s"/><c:grouping val="clustered"/><c:varyColors val="0"/>%s<c:gapWidth val="150"/><c:axId val="1"/><c:axId val="2"/></c:barChart>`,
			dir, seriesXML(d, false))
	case "line":
		fmt.Fprintf(&plot, `<c:lineChart><c:grouping val="standard"/><c:varyColors val="0"/>%s<c:marker val="1"/><c:axId val="1"/><c:axId val="2"/></c:lineChart>`,
			seriesXML(d, true))
	case "area":
		fmt.Fprintf(&plot, `<c:areaChart><c:grouping val="standard"/><c:varyColors val="0"/>%s<c:axId val="1"/><c:axId val="2"/></c:areaChart>`,
			seriesXML(d, false))
	case "pie":
		fmt.Fprintf(&plot, `<c:pieChart><c:varyColors val="1"/>%s<c:firstSliceAng val="0"/></c:pieChart>`,
			seriesXML(d, false))
	case "scatter":
		fmt.Fprintf(&plot, `<c:scatterChart><c:scatterStyle val="lineMarker"/><c:varyColors val="0"/>%s<c:axId val="1"/><c:axId val="2"/></c:scatterChart>`,
			scatterSeriesXML(d))
	}

	axes := ""
	switch typ {
	case "pie":
	case "scatter":
		axes = valAxXML(1, 2, "b") + valAxXML(2, 1, "l")
	default:
		catPos, valPos := "b", "l"
		if typ == "bar" {
			catPos, valPos = "l", "b"
		}
		axes = fmt.Sprintf(`<c:catAx><c:axId val="1"/><c:scaling><c:orientation val="minMax"/></c:scaling><c:delete val="0"/><c:axPos val="%s"/><c:numFmt formatCode="General" sourceLinked="1"/><c:tickLblPos val="nextTo"/><c:crossAx val="2"/><c:crosses val="autoZero"/><c:auto val="1"/><c:lblAlgn val="ctr"/><c:lblOffset val="100"/></c:catAx>`, catPos) +
			valAxXML(2, 1, valPos)
	}

	title := `<c:autoTitleDeleted val="1"/>`
	if spec.Title != "" {
		title = fmt.Sprintf(`<c:title><c:tx><c:rich><a:bodyPr/><a:lstStyle/><a:p><a:r><a:t>%s</a:t></a:r></a:p></c:rich></c:tx><c:overlay val="0"/></c:title><c:autoTitleDeleted val="0"/>`, esc(spec.Title))
	}
	legend := ""
	if len(d.Series) > 1 || typ == "pie" {
		legend = `<c:legend><c:legendPos val="r"/><c:overlay val="0"/></c:legend>`
	}

	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n" +
		fmt.Sprintf(`<c:chartSpace xmlns:c="%s" xmlns:a="%s" xmlns:r="%s"><c:roundedCorners val="0"/><c:chart>%s<c:plotArea><c:layout/>%s%s</c:plotArea>%s<c:plotVisOnly val="1"/><c:dispBlanksAs val="gap"/></c:chart><c:externalData r:id="%s"><c:autoUpdate val="0"/></c:externalData></c:chartSpace>`,
			NSC, NSA, NSR, title, plot.String(), axes, legend, esc(embedRID))
}

func valAxXML(id, cross int, pos string) string {
	return fmt.Sprintf(`<c:valAx><c:axId val="%d"/><c:scaling><c:orientation val="minMax"/></c:scaling><c:delete val="0"/><c:axPos val="%s"/><c:majorGridlines/><c:numFmt formatCode="General" sourceLinked="1"/><c:tickLblPos val="nextTo"/><c:crossAx val="%d"/><c:crosses val="autoZero"/></c:valAx>`,
		id, pos, cross)
}

func strCache(ref string, values []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<c:strRef><c:f>%s</c:f><c:strCache><c:ptCount val="%d"/>`, ref, len(values))
	for i, v := range values {
		fmt.Fprintf(&b, `<c:pt idx="%d"><c:v>%s</c:v></c:pt>`, i, esc(v))
	}
	b.WriteString(`</c:strCache></c:strRef>`)
	return b.String()
}

func numCache(ref string, values []float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<c:numRef><c:f>%s</c:f><c:numCache><c:formatCode>General</c:formatCode><c:ptCount val="%d"/>`, ref, len(values))
	for i, v := range values {
		fmt.Fprintf(&b, `<c:pt idx="%d"><c:v>%s</c:v></c:pt>`, i, strconv.FormatFloat(v, 'g', -1, 64))
	}
	b.WriteString(`</c:numCache></c:numRef>`)
	return b.String()
}

func seriesRefs(d xlsx.ChartData, i int) (name, cats, vals string) {
	col := xlsx.ColumnRef(i)
	last := len(d.Categories) + 1
	return fmt.Sprintf("%s!%s$1", xlsx.SheetName, col),
		fmt.Sprintf("%s!$A$2:$A$%d", xlsx.SheetName, last),
		fmt.Sprintf("%s!%s$2:%s$%d", xlsx.SheetName, col, col, last)
}

func seriesXML(d xlsx.ChartData, noMarker bool) string {
	var b strings.Builder
	for i, s := range d.Series {
		nameRef, catRef, valRef := seriesRefs(d, i)
		fmt.Fprintf(&b, `<c:ser><c:idx val="%d"/><c:order val="%d"/><c:tx>%s</c:tx>`, i, i, strCache(nameRef, []string{s.Name}))
		if noMarker {
			b.WriteString(`<c:marker><c:symbol val="none"/></c:marker>`)
		}
		fmt.Fprintf(&b, `<c:cat>%s</c:cat><c:val>%s</c:val>`, strCache(catRef, d.Categories), numCache(valRef, s.Values))
		if noMarker {
			b.WriteString(`<c:smooth val="0"/>`)
		}
		b.WriteString(`</c:ser>`)
	}
	return b.String()
}

// scatterSeriesXML uses the categories as x values. Non-numeric categories
// fall back to their 1-based position.
func scatterSeriesXML(d xlsx.ChartData) string {
	xs := make([]float64, len(d.Categories))
	for i, c := range d.Categories {
		v, err := strconv.ParseFloat(strings.TrimSpace(c), 64)
		if err != nil {
			v = float64(i + 1)
		}
		xs[i] = v
	}
	var b strings.Builder
	for i, s := range d.Series {
		nameRef, catRef, valRef := seriesRefs(d, i)
		fmt.Fprintf(&b, `<c:ser><c:idx val="%d"/><c:order val="%d"/><c:tx>%s</c:tx><c:marker><c:symbol val="circle"/><c:size val="5"/></c:marker><c:xVal>%s</c:xVal><c:yVal>%s</c:yVal><c:smooth val="0"/></c:ser>`,
			i, i, strCache(nameRef, []string{s.Name}), numCache(catRef, xs), numCache(valRef, s.Values))
	}
	return b.String()
}
