package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/G-Node/pandora/pkg/pandora"
	"github.com/G-Node/pandora/pkg/types"
)

// treeNode is one printed entity.
type treeNode struct {
	Kind     string      `json:"kind"`
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Type     string      `json:"type"`
	Link     string      `json:"link,omitempty"`
	Shape    []int       `json:"shape,omitempty"`
	Values   []string    `json:"values,omitempty"`
	Children []*treeNode `json:"children,omitempty"`
}

func newNode(kind string, e pandora.Node) (*treeNode, error) {
	name, err := e.Name()
	if err != nil {
		return nil, err
	}
	typ, err := e.Type()
	if err != nil {
		return nil, err
	}
	return &treeNode{Kind: kind, ID: e.ID(), Name: name, Type: typ}, nil
}

func (a *app) newTreeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tree <root>",
		Short: "Print the blocks and the metadata section tree of a root",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withRoot(args[0], types.ReadOnly, func(f *pandora.File) error {
				blocks, err := blockNodes(f)
				if err != nil {
					return fail("tree", err)
				}
				sections, err := f.Sections()
				if err != nil {
					return fail("tree", err)
				}
				var metadata []*treeNode
				for _, s := range sections {
					n, err := sectionNode(s)
					if err != nil {
						return fail("tree", err)
					}
					metadata = append(metadata, n)
				}

				if a.flags.jsonMode {
					return printJSON(cmd, map[string][]*treeNode{"blocks": blocks, "sections": metadata})
				}
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, "blocks:")
				printNodes(out, blocks, 1)
				fmt.Fprintln(out, "sections:")
				printNodes(out, metadata, 1)
				return nil
			})
		},
	}
}

func blockNodes(f *pandora.File) ([]*treeNode, error) {
	blocks, err := f.Blocks()
	if err != nil {
		return nil, err
	}
	var out []*treeNode
	for _, b := range blocks {
		n, err := newNode("block", b)
		if err != nil {
			return nil, err
		}
		sources, err := b.Sources()
		if err != nil {
			return nil, err
		}
		for _, s := range sources {
			c, err := sourceNode(s)
			if err != nil {
				return nil, err
			}
			n.Children = append(n.Children, c)
		}
		arrays, err := b.DataArrays()
		if err != nil {
			return nil, err
		}
		for _, d := range arrays {
			c, err := newNode("data_array", d)
			if err != nil {
				return nil, err
			}
			if c.Shape, err = d.Shape(); err != nil {
				return nil, err
			}
			n.Children = append(n.Children, c)
		}
		tags, err := b.Tags()
		if err != nil {
			return nil, err
		}
		for _, t := range tags {
			c, err := newNode("tag", t)
			if err != nil {
				return nil, err
			}
			n.Children = append(n.Children, c)
		}
		out = append(out, n)
	}
	return out, nil
}

func sourceNode(s *pandora.Source) (*treeNode, error) {
	n, err := newNode("source", s)
	if err != nil {
		return nil, err
	}
	children, err := s.Sources()
	if err != nil {
		return nil, err
	}
	for _, c := range children {
		cn, err := sourceNode(c)
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, cn)
	}
	return n, nil
}

func sectionNode(s *pandora.Section) (*treeNode, error) {
	n, err := newNode("section", s)
	if err != nil {
		return nil, err
	}
	link, err := s.Link()
	if err != nil {
		return nil, err
	}
	if link != nil {
		n.Link = link.ID()
	}

	props, err := s.Properties()
	if err != nil {
		return nil, err
	}
	for _, p := range props {
		pn, err := propertyNode(p)
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, pn)
	}

	children, err := s.Sections()
	if err != nil {
		return nil, err
	}
	for _, c := range children {
		cn, err := sectionNode(c)
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, cn)
	}
	return n, nil
}

func propertyNode(p *pandora.Property) (*treeNode, error) {
	name, err := p.Name()
	if err != nil {
		return nil, err
	}
	dt, err := p.DataType()
	if err != nil {
		return nil, err
	}
	values, err := p.Values()
	if err != nil {
		return nil, err
	}
	n := &treeNode{Kind: "property", ID: p.ID(), Name: name, Type: string(dt)}
	for _, v := range values {
		n.Values = append(n.Values, v.String())
	}
	return n, nil
}

func printNodes(w io.Writer, nodes []*treeNode, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, n := range nodes {
		line := fmt.Sprintf("%s%s %s (%s) %s", indent, n.Kind, n.Name, n.Type, n.ID)
		switch {
		case n.Link != "":
			line += " -> " + n.Link
		case n.Shape != nil:
			line += fmt.Sprintf(" %v", n.Shape)
		case n.Kind == "property":
			line += " = " + strings.Join(n.Values, ", ")
		}
		fmt.Fprintln(w, line)
		printNodes(w, n.Children, depth+1)
	}
}
