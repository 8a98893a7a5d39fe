package letter

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
)

const contentType = "application/pdf"

// Document is a rendered letter ready to be served as a download.
type Document struct {
	Filename    string
	ContentType string
	Body        []byte
}

// PDFRenderer draws letters on a single A4 page with the core Helvetica
// fonts. Text is translated to cp1252 before drawing.
type PDFRenderer struct{}

func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

// Document composes and renders in, returning ErrNotApproved for requests
// that are not approved.
func (r *PDFRenderer) Document(in Input) (*Document, error) {
	l, err := Compose(in)
	if err != nil {
		return nil, err
	}
	body, err := r.Render(l)
	if err != nil {
		return nil, err
	}
	return &Document{
		Filename:    fmt.Sprintf("mtaa-letter-%s.pdf", l.RequestID),
		ContentType: contentType,
		Body:        body,
	}, nil
}

type page struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func (p page) font(bold bool, size float64) {
	style := ""
	if bold {
		style = "B"
	}
	p.pdf.SetFont(fontFamily, style, size)
}

func (p page) text(x, y float64, s string) {
	p.pdf.Text(x, y, p.tr(s))
}

func (p page) center(y float64, s string) {
	s = p.tr(s)
	p.pdf.Text((pageWidth-p.pdf.GetStringWidth(s))/2, y, s)
}

// wrapped draws s word-wrapped to the content width and returns the
// baseline below the last line.
func (p page) wrapped(y float64, s string) float64 {
	p.font(false, sizeBody)
	for _, line := range p.pdf.SplitText(p.tr(s), contentW) {
		p.pdf.Text(marginX, y, line)
		y += leading
	}
	return y
}

func (p page) field(y float64, f Field) float64 {
	p.font(true, sizeBody)
	p.text(marginX, y, f.Label+":")
	p.font(false, sizeBody)
	p.text(fieldValueX, y, f.Value)
	p.pdf.SetLineWidth(0.3 * pt)
	p.pdf.Line(fieldValueX, y+1.5*pt, marginRight, y+1.5*pt)
	return y + fieldStep
}

// Render draws l and returns the PDF bytes.
func (r *PDFRenderer) Render(l *Letter) ([]byte, error) {
	pdf := fpdf.New("P", "cm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(l.Subject, true)
	pdf.SetCreator("huduma", false)
	pdf.AddPage()
	p := page{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}

	for i, line := range l.Header {
		size := sizeHeader
		if i == 0 {
			size = sizeTitle
		}
		p.font(true, size)
		p.center(headerY+float64(i)*headerStep, line)
	}
	pdf.SetLineWidth(0.6 * pt)
	pdf.Line(marginX, ruleY, marginRight, ruleY)

	pdf.Rect(marginX, photoTop, photoW, photoH, "D")
	p.font(false, sizePhoto)
	for i, line := range l.PhotoLabel {
		s := p.tr(line)
		pdf.Text(marginX+(photoW-pdf.GetStringWidth(s))/2, photoLabelY+float64(i)*photoStep, s)
	}

	p.font(false, sizeAddress)
	for i, line := range l.AddressBlock {
		p.text(addressX, addressY+float64(i)*addressStep, line)
	}
	p.text(addressX, dateY, l.Date)

	p.font(true, sizeReference)
	p.text(marginX, referenceY, l.Reference)
	p.font(false, sizeBody)
	p.text(marginX, addresseeY, l.Addressee)

	p.font(true, sizeSubject)
	p.center(subjectY, l.Subject)

	y := bodyY
	for i, line := range l.Intro {
		if i > 0 {
			y += 2 * pt
		}
		y = p.wrapped(y, line)
	}

	y += 12 * pt
	for _, f := range l.Fields {
		y = p.field(y, f)
	}

	y = p.wrapped(y+4*pt, l.Purpose)
	for _, line := range l.Closing {
		y = p.wrapped(y+2*pt, line)
	}

	p.font(false, sizeBody)
	for i, line := range l.Signatures {
		p.text(marginX, y+float64(i+1)*12*pt, line)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render letter: %w", err)
	}
	return buf.Bytes(), nil
}
