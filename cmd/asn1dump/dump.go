// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/asn1kit/asn1"
	"github.com/asn1kit/asn1/ber"
	"github.com/asn1kit/asn1/tlv"
)

// A node is a single data value of the input.
type node struct {
	Offset   int     `yaml:"offset"`
	Tag      string  `yaml:"tag"`
	Type     string  `yaml:"type,omitempty"`
	Length   *int    `yaml:"length,omitempty"` // nil for the indefinite-length format
	Value    string  `yaml:"value,omitempty"`
	Error    string  `yaml:"error,omitempty"`
	Children []*node `yaml:"children,omitempty"`

	tag         asn1.Tag
	constructed bool
}

// scan builds the tree of data values in data. If the input is malformed,
// scan returns the values up to the error together with the error.
func scan(data []byte, opts ber.Options) ([]*node, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := tlv.NewScanner(data, opts.MaxDepth)
	var roots, stack []*node
	for {
		tok, err := s.Next()
		if err == io.EOF {
			return roots, nil
		}
		if err != nil {
			return roots, err
		}
		if tok.IsEOC() {
			stack = stack[:len(stack)-1]
			continue
		}

		n := &node{Offset: tok.Offset, Tag: tok.Tag.String(), tag: tok.Tag, constructed: tok.Constructed}
		if tok.Length != tlv.LengthIndefinite {
			n.Length = &tok.Length
		}
		var parent *node
		if len(stack) > 0 {
			parent = stack[len(stack)-1]
			parent.Children = append(parent.Children, n)
		} else {
			roots = append(roots, n)
		}
		u, known := universal[tok.Tag.Number]
		if tok.Tag.Class == asn1.ClassUniversal && known {
			n.Type = u.name
		}

		switch {
		case tok.Constructed:
			stack = append(stack, n)
		case parent != nil && parent.constructed && parent.tag == tok.Tag:
			// segment of a constructed string
			n.Value = fmt.Sprintf("%X", tok.Value)
		case n.Type != "" && u.format != nil:
			raw := data[tok.Offset : tok.Offset+tok.HeaderLen+len(tok.Value)]
			v, err := u.format(opts, raw)
			if err != nil {
				logger.Debug("cannot interpret value", "offset", tok.Offset, "tag", tok.Tag, "error", err)
				n.Value = fmt.Sprintf("%X", tok.Value)
				n.Error = err.Error()
				break
			}
			n.Value = v
		default:
			n.Value = fmt.Sprintf("%X", tok.Value)
		}
	}
}

// A universalType names a UNIVERSAL tag and formats its primitive values.
type universalType struct {
	name   string
	format func(opts ber.Options, raw []byte) (string, error)
}

var universal = map[uint]universalType{
	asn1.TagBoolean: {asn1.BooleanType.Identifier, format(func(v asn1.Boolean) string {
		return strconv.FormatBool(bool(v))
	})},
	asn1.TagInteger: {asn1.IntegerType.Identifier, format(asn1.Integer.String)},
	asn1.TagBitString: {asn1.BitStringType.Identifier, format(func(v asn1.BitString) string {
		return fmt.Sprintf("%X (%d bits)", v.Bytes, v.BitLength)
	})},
	asn1.TagOctetString: {asn1.OctetStringType.Identifier, nil},
	asn1.TagNull: {asn1.NullType.Identifier, format(func(asn1.Null) string {
		return "NULL"
	})},
	asn1.TagOID:              {asn1.ObjectIdentifierType.Identifier, format(asn1.ObjectIdentifier.String)},
	asn1.TagObjectDescriptor: {"ObjectDescriptor", nil},
	asn1.TagExternal:         {"EXTERNAL", nil},
	asn1.TagReal: {asn1.RealType.Identifier, format(func(v asn1.Real) string {
		return strconv.FormatFloat(float64(v), 'g', -1, 64)
	})},
	asn1.TagEnumerated: {asn1.EnumeratedType.Identifier, format(func(v asn1.Enumerated) string {
		return strconv.FormatInt(int64(v), 10)
	})},
	asn1.TagEmbeddedPDV:      {"EMBEDDED PDV", nil},
	asn1.TagUTF8String:       {asn1.UTF8StringType.Identifier, quote[asn1.UTF8String]()},
	asn1.TagRelativeOID:      {asn1.RelativeOIDType.Identifier, format(asn1.RelativeOID.String)},
	asn1.TagSequence:         {"SEQUENCE", nil},
	asn1.TagSet:              {"SET", nil},
	asn1.TagNumericString:    {asn1.NumericStringType.Identifier, quote[asn1.NumericString]()},
	asn1.TagPrintableString:  {asn1.PrintableStringType.Identifier, quote[asn1.PrintableString]()},
	asn1.TagTeletexString:    {asn1.TeletexStringType.Identifier, quote[asn1.TeletexString]()},
	asn1.TagVideotexString:   {asn1.VideotexStringType.Identifier, quote[asn1.VideotexString]()},
	asn1.TagIA5String:        {asn1.IA5StringType.Identifier, quote[asn1.IA5String]()},
	asn1.TagUTCTime: {asn1.UTCTimeType.Identifier, format(func(v asn1.UTCTime) string {
		return formatTime(time.Time(v))
	})},
	asn1.TagGeneralizedTime: {asn1.GeneralizedTimeType.Identifier, format(func(v asn1.GeneralizedTime) string {
		return formatTime(time.Time(v))
	})},
	asn1.TagGraphicString:    {asn1.GraphicStringType.Identifier, quote[asn1.GraphicString]()},
	asn1.TagVisibleString:    {asn1.VisibleStringType.Identifier, quote[asn1.VisibleString]()},
	asn1.TagGeneralString:    {asn1.GeneralStringType.Identifier, quote[asn1.GeneralString]()},
	asn1.TagUniversalString:  {asn1.UniversalStringType.Identifier, quote[asn1.UniversalString]()},
	asn1.TagBMPString:        {asn1.BMPStringType.Identifier, quote[asn1.BMPString]()},
}

// format returns a function that decodes a value of type T and formats it
// with fn.
func format[T any, P asn1.Pointer[T]](fn func(T) string) func(ber.Options, []byte) (string, error) {
	return func(opts ber.Options, raw []byte) (string, error) {
		var v T
		if err := opts.Unmarshal(raw, P(&v)); err != nil {
			return "", err
		}
		return fn(v), nil
	}
}

func quote[T ~string, P asn1.Pointer[T]]() func(ber.Options, []byte) (string, error) {
	return format[T, P](func(v T) string {
		return strconv.Quote(string(v))
	})
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// writeText writes one line per data value, indented by nesting depth.
func writeText(w io.Writer, nodes []*node) error {
	var b strings.Builder
	var walk func(n *node, depth int)
	walk = func(n *node, depth int) {
		label := n.Type
		if label == "" {
			label = n.Tag
		}
		fmt.Fprintf(&b, "%6d %s%s", n.Offset, strings.Repeat("  ", depth), label)
		if n.Length == nil {
			b.WriteString(" (indefinite)")
		} else {
			fmt.Fprintf(&b, " (%d)", *n.Length)
		}
		if n.Value != "" {
			b.WriteString(": ")
			b.WriteString(n.Value)
		}
		if n.Error != "" {
			b.WriteString(" [")
			b.WriteString(n.Error)
			b.WriteString("]")
		}
		b.WriteByte('\n')
		for _, c := range n.Children {
			walk(c, depth+1)
		}
	}
	for _, n := range nodes {
		walk(n, 0)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// writeYAML writes the tree as a YAML sequence.
func writeYAML(w io.Writer, nodes []*node) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if nodes == nil {
		nodes = []*node{}
	}
	if err := enc.Encode(nodes); err != nil {
		return err
	}
	return enc.Close()
}
