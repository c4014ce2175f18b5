package xmltree

import (
	"bufio"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"regexp"

	"golang.org/x/net/html/charset"
)

// ErrMalformed is wrapped by every error returned from Parse.
var ErrMalformed = errors.New("malformed xml")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// entityDeclRe matches internal general entity declarations with a literal
// value. Parameter and external entities are left to the decoder to reject.
var entityDeclRe = regexp.MustCompile(`<!ENTITY\s+([A-Za-z_:][-A-Za-z0-9_.:]*)\s+(?:"([^"]*)"|'([^']*)')\s*>`)

// Node is one element of a parsed document.
//
// Text holds the character data that appears before the element's first
// child element, which is what a caller usually means by "the text of" an
// element in a document-centric format.
type Node struct {
	Name     xml.Name
	Attrs    []xml.Attr
	Children []*Node
	Parent   *Node

	text    []byte
	hasText bool
}

// TextOK returns the element's leading text and whether any character data
// was present at all. An element written as <x></x> or <x/> has no text.
func (n *Node) TextOK() (string, bool) {
	if n == nil || !n.hasText {
		return "", false
	}
	return string(n.text), true
}

// Text returns the element's leading text, or "" when there is none.
func (n *Node) Text() string {
	s, _ := n.TextOK()
	return s
}

// Attr returns the value of the first attribute with the given local name.
func (n *Node) Attr(local string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attrs {
		if a.Name.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

// Walk visits n and its descendants in document order. Returning false from
// fn stops the walk; Walk reports whether it ran to completion.
func (n *Node) Walk(fn func(*Node) bool) bool {
	if n == nil {
		return true
	}
	if !fn(n) {
		return false
	}
	for _, c := range n.Children {
		if !c.Walk(fn) {
			return false
		}
	}
	return true
}

// FindFirst returns the first descendant of n, depth first, whose local name
// is local and which is not in any namespace. n itself is never matched.
func (n *Node) FindFirst(local string) *Node {
	if n == nil {
		return nil
	}
	var res *Node
	for _, c := range n.Children {
		c.Walk(func(cur *Node) bool {
			if cur.Name.Space == "" && cur.Name.Local == local {
				res = cur
				return false
			}
			return true
		})
		if res != nil {
			break
		}
	}
	return res
}

// ParseBytes is Parse over an in-memory payload.
func ParseBytes(b []byte) (*Node, error) {
	return Parse(bytes.NewReader(b))
}

// Parse reads a single well-formed XML document and returns its root element.
// A leading UTF-8 byte order mark is skipped, encodings other than UTF-8 are
// decoded when the XML declaration names one, and entities declared in the
// internal DTD subset are expanded.
func Parse(r io.Reader) (*Node, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	dec := xml.NewDecoder(br)
	dec.Strict = true
	dec.CharsetReader = charset.NewReaderLabel
	dec.Entity = map[string]string{}

	var root, cur *Node
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			el := t.Copy()
			n := &Node{Name: el.Name, Attrs: el.Attr}
			if cur == nil {
				if root != nil {
					return nil, fmt.Errorf("%w: content after root element <%s>", ErrMalformed, root.Name.Local)
				}
				root = n
			} else {
				n.Parent = cur
				cur.Children = append(cur.Children, n)
			}
			cur = n
		case xml.EndElement:
			if cur != nil {
				cur = cur.Parent
			}
		case xml.Directive:
			if cur == nil && root == nil && bytes.HasPrefix(t, []byte("DOCTYPE")) {
				for _, m := range entityDeclRe.FindAllSubmatch(t, -1) {
					if _, ok := dec.Entity[string(m[1])]; ok {
						continue // first declaration wins
					}
					dec.Entity[string(m[1])] = string(m[2]) + string(m[3])
				}
			}
		case xml.CharData:
			if cur == nil {
				if len(bytes.TrimSpace(t)) > 0 {
					return nil, fmt.Errorf("%w: text outside root element", ErrMalformed)
				}
				continue
			}
			if len(cur.Children) == 0 {
				cur.text = append(cur.text, t...)
				cur.hasText = true
			}
		}
	}
	if root == nil {
		return nil, fmt.Errorf("%w: no root element", ErrMalformed)
	}
	if cur != nil {
		return nil, fmt.Errorf("%w: unclosed element <%s>", ErrMalformed, cur.Name.Local)
	}
	return root, nil
}
