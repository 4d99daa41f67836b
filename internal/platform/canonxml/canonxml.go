// Package canonxml serializes tagged structs to canonical XML suitable for
// digital signature digests. Element order follows struct field order,
// attributes are sorted with xmlns first, whitespace runs in attribute
// values collapse to single spaces and every element is written with an
// explicit closing tag.
package canonxml

import (
	"encoding/xml"
	"fmt"
	"io"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// Raw is pre-serialized XML inserted verbatim in place of an element body.
type Raw string

// CheckWellFormed reports an error if doc is not well-formed XML. Callers
// embedding externally supplied markup as Raw should validate it first.
func CheckWellFormed(doc string) error {
	decoder := xml.NewDecoder(strings.NewReader(doc))
	for {
		_, err := decoder.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// Marshal writes the exported element fields of v, in declaration order,
// with no surrounding element.
func Marshal(v any) (string, error) {
	var sb strings.Builder
	if err := writeFields(&sb, reflect.ValueOf(v)); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// MarshalElement writes v as a single element called name.
func MarshalElement(name string, v any) (string, error) {
	var sb strings.Builder
	if err := writeElement(&sb, name, reflect.ValueOf(v)); err != nil {
		return "", err
	}
	return sb.String(), nil
}

type tagInfo struct {
	name      string
	attr      bool
	chardata  bool
	omitempty bool
	skip      bool
}

func parseTag(f reflect.StructField) tagInfo {
	tag := f.Tag.Get("xml")
	if tag == "-" {
		return tagInfo{skip: true}
	}
	parts := strings.Split(tag, ",")
	info := tagInfo{name: parts[0]}
	if info.name == "" {
		info.name = f.Name
	}
	for _, opt := range parts[1:] {
		switch opt {
		case "attr":
			info.attr = true
		case "chardata":
			info.chardata = true
		case "omitempty":
			info.omitempty = true
		}
	}
	return info
}

func writeFields(sb *strings.Builder, v reflect.Value) error {
	v = indirect(v)
	if !v.IsValid() {
		return nil
	}
	if v.Kind() != reflect.Struct {
		return fmt.Errorf("canonxml: cannot marshal %s as element list", v.Kind())
	}
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		info := parseTag(f)
		if info.skip || info.attr || info.chardata {
			continue
		}
		if err := writeChild(sb, info, v.Field(i)); err != nil {
			return err
		}
	}
	return nil
}

func writeChild(sb *strings.Builder, info tagInfo, fv reflect.Value) error {
	fv = indirect(fv)
	if !fv.IsValid() {
		return nil
	}
	if fv.Kind() == reflect.Slice {
		for i := 0; i < fv.Len(); i++ {
			if err := writeElement(sb, info.name, fv.Index(i)); err != nil {
				return err
			}
		}
		return nil
	}
	if info.omitempty && fv.IsZero() {
		return nil
	}
	return writeElement(sb, info.name, fv)
}

func writeElement(sb *strings.Builder, name string, v reflect.Value) error {
	v = indirect(v)
	if !v.IsValid() {
		return nil
	}
	if raw, ok := v.Interface().(Raw); ok {
		sb.WriteString(string(raw))
		return nil
	}
	if v.Kind() != reflect.Struct {
		sb.WriteString("<" + name + ">")
		sb.WriteString(escapeText(stringify(v)))
		sb.WriteString("</" + name + ">")
		return nil
	}

	type attr struct{ name, value string }
	var attrs []attr
	var chardata string
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		info := parseTag(f)
		if info.skip {
			continue
		}
		fv := indirect(v.Field(i))
		switch {
		case info.attr:
			if !fv.IsValid() || (info.omitempty && fv.IsZero()) {
				continue
			}
			attrs = append(attrs, attr{info.name, stringify(fv)})
		case info.chardata:
			if fv.IsValid() {
				chardata = stringify(fv)
			}
		}
	}

	// xmlns sorts ahead of every other attribute name anyway, but keep the
	// rule explicit so a lowercase attribute can never displace it.
	sort.SliceStable(attrs, func(i, j int) bool {
		if (attrs[i].name == "xmlns") != (attrs[j].name == "xmlns") {
			return attrs[i].name == "xmlns"
		}
		return attrs[i].name < attrs[j].name
	})

	sb.WriteString("<" + name)
	for _, a := range attrs {
		sb.WriteString(" " + a.name + `="` + escapeAttr(a.value) + `"`)
	}
	sb.WriteString(">")
	sb.WriteString(escapeText(chardata))
	if err := writeFields(sb, v); err != nil {
		return err
	}
	sb.WriteString("</" + name + ">")
	return nil
}

func indirect(v reflect.Value) reflect.Value {
	for v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

func stringify(v reflect.Value) string {
	switch v.Kind() {
	case reflect.String:
		return v.String()
	case reflect.Bool:
		return strconv.FormatBool(v.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(v.Uint(), 10)
	default:
		return fmt.Sprint(v.Interface())
	}
}

var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

func escapeText(s string) string {
	return escaper.Replace(s)
}

func escapeAttr(s string) string {
	return escaper.Replace(collapseWhitespace(s))
}

// collapseWhitespace canonicalizes runs of whitespace inside attribute
// values to a single space without trimming the ends.
func collapseWhitespace(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	inRun := false
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			if !inRun {
				sb.WriteByte(' ')
				inRun = true
			}
			continue
		}
		inRun = false
		sb.WriteRune(r)
	}
	return sb.String()
}
