package nuget

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/rios0rios0/autobump/internal/domain/entities"
)

// xmlElement is one element found by the scanner, with exact byte spans.
type xmlElement struct {
	name   string
	parent string
	// span covers the whole element, tags included.
	span entities.Span
	// inner covers the content between the tags, empty for self-closing elements.
	inner entities.Span
}

type openElement struct {
	name       string
	parent     string
	start      int
	innerStart int
}

// scanElements runs a token pass over content and returns every element that
// wanted accepts, ordered by position. An element nested inside another accepted
// element is returned on its own as well as inside its parent's span.
func scanElements(content string, wanted func(name, parent string) bool) ([]xmlElement, error) {
	decoder := xml.NewDecoder(strings.NewReader(content))
	decoder.Strict = false

	var stack []openElement
	var found []xmlElement
	for {
		offset := int(decoder.InputOffset())
		token, err := decoder.RawToken()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to scan XML at byte %d: %w", offset, err)
		}

		switch element := token.(type) {
		case xml.StartElement:
			parent := ""
			if len(stack) > 0 {
				parent = stack[len(stack)-1].name
			}
			stack = append(stack, openElement{
				name:       element.Name.Local,
				parent:     parent,
				start:      offset,
				innerStart: int(decoder.InputOffset()),
			})
		case xml.EndElement:
			if len(stack) == 0 {
				return nil, fmt.Errorf("unexpected closing tag %q at byte %d", element.Name.Local, offset)
			}
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if !wanted(top.name, top.parent) {
				continue
			}
			found = append(found, xmlElement{
				name:   top.name,
				parent: top.parent,
				span:   entities.Span{Start: top.start, End: int(decoder.InputOffset())},
				inner:  entities.Span{Start: top.innerStart, End: max(offset, top.innerStart)},
			})
		}
	}

	sort.SliceStable(found, func(i, j int) bool { return found[i].span.Start < found[j].span.Start })
	return found, nil
}
