package chart

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"io"

	svg "github.com/ajstarks/svgo/float"
)

// WriteSVG serializes the surface as a standalone SVG document.
func WriteSVG(w io.Writer, s *Surface) error {
	doc, err := encodeSVG(s)
	if err != nil {
		return err
	}
	if _, err := w.Write(doc); err != nil {
		return fmt.Errorf("failed to write svg: %w", err)
	}
	return nil
}

// InlineSVG returns the surface as an <svg> element suitable for embedding
// in an HTML page, without the XML prolog.
func InlineSVG(s *Surface) (string, error) {
	doc, err := encodeSVG(s)
	if err != nil {
		return "", err
	}
	if i := bytes.Index(doc, []byte("<svg")); i > 0 {
		doc = doc[i:]
	}
	return string(doc), nil
}

func encodeSVG(s *Surface) ([]byte, error) {
	root := s.Root()
	if root == nil {
		return nil, errors.New("surface has not been initialized")
	}

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Start(root.Width, root.Height, attrs(root)...)
	for _, child := range root.Children {
		if err := writeElement(canvas, child); err != nil {
			return nil, err
		}
	}
	canvas.End()
	return buf.Bytes(), nil
}

func writeElement(canvas *svg.SVG, e *Element) error {
	switch e.Tag {
	case "g":
		canvas.Group(attrs(e)...)
		for _, child := range e.Children {
			if err := writeElement(canvas, child); err != nil {
				return err
			}
		}
		canvas.Gend()
	case "rect":
		canvas.Rect(e.X, e.Y, e.Width, e.Height, attrs(e)...)
	case "text":
		canvas.Text(e.X, e.Y, e.Text, attrs(e)...)
	case "line":
		canvas.Line(e.X, e.Y, e.X2, e.Y2, attrs(e)...)
	default:
		return fmt.Errorf("unsupported surface element <%s>", e.Tag)
	}
	return nil
}

// attrs formats id, class and extra attributes as name="value" pairs,
// which svgo copies verbatim into the tag.
func attrs(e *Element) []string {
	var out []string
	if e.ID != "" {
		out = append(out, attr("id", e.ID))
	}
	if e.Class != "" {
		out = append(out, attr("class", e.Class))
	}
	for _, a := range e.Attrs {
		out = append(out, attr(a.Name, a.Value))
	}
	return out
}

func attr(name, value string) string {
	return fmt.Sprintf(`%s="%s"`, name, html.EscapeString(value))
}
