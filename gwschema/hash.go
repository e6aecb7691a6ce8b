package gwschema

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"io"
	"slices"
	"strings"
)

const hashLength = 16

// Hash returns the structural hash of the tree. Two trees with the same kinds,
// formats, enums, property names, required flags and item schemas hash equally
// regardless of property order, titles or descriptions.
func (n *Node) Hash() string {
	h := sha256.New()
	n.writeCanonical(h)
	return fmt.Sprintf("%x", h.Sum(nil))[:hashLength]
}

// Equal reports whether two trees are structurally identical.
func (n *Node) Equal(o *Node) bool {
	if n == nil || o == nil {
		return n == o
	}

	var a, b bytes.Buffer
	n.writeCanonical(&a)
	o.writeCanonical(&b)
	return bytes.Equal(a.Bytes(), b.Bytes())
}

func (n *Node) writeCanonical(w io.Writer) {
	if n == nil {
		io.WriteString(w, "~")
		return
	}

	io.WriteString(w, n.Kind.String())
	if n.Format != "" {
		io.WriteString(w, "|f:"+n.Format)
	}
	if len(n.Enum) > 0 {
		enum := slices.Clone(n.Enum)
		slices.Sort(enum)
		io.WriteString(w, "|e:"+strings.Join(enum, "\x1f"))
	}

	switch n.Kind {
	case Object:
		props := slices.Clone(n.Properties)
		slices.SortFunc(props, func(a, b Property) int { return strings.Compare(a.Name, b.Name) })

		io.WriteString(w, "{")
		for _, p := range props {
			io.WriteString(w, p.Name)
			w.Write([]byte{0})
			if p.Required {
				io.WriteString(w, "!")
			}
			p.Node.writeCanonical(w)
			io.WriteString(w, ";")
		}
		io.WriteString(w, "}")
	case Array:
		io.WriteString(w, "[")
		n.Items.writeCanonical(w)
		io.WriteString(w, "]")
	}
}
