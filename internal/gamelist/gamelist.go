package gamelist

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"
)

// Field 是 <game>/<provider> 下的一个子节点（按出现顺序保存）。
//
// 类别推断需要扫描任意字段而不预设 schema，所以这里用有序 (name, text)
// 列表建模，而不是固定结构体。
type Field struct {
	Name string
	Attr []xml.Attr
	Text string
}

// Game 是 gamelist 中一条游戏记录。
// 在比对过程中只读；被保留的条目按原字段顺序重新写出。
type Game struct {
	Attr   []xml.Attr
	Fields []Field
}

// Field 返回第一个同名字段的文本。
func (g Game) Field(name string) (string, bool) {
	for _, f := range g.Fields {
		if f.Name == name {
			return f.Text, true
		}
	}
	return "", false
}

// Path 返回 <path> 字段文本；没有 path 的条目在匹配时被忽略。
func (g Game) Path() string {
	p, _ := g.Field("path")
	return p
}

// Document 是一份 gamelist.xml 的解析结果。
// Provider 节点（若存在）在输出时原样保留。
type Document struct {
	Provider *Game
	Games    []Game
}

// ParseFile 读取并解析一份 gamelist.xml。
func ParseFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// Parse 解析 gamelist 文档。根元素名不做强约束（输出时统一写 gameList）；
// 根下除 provider/game 以外的节点被跳过。
func Parse(r io.Reader) (*Document, error) {
	dec := xml.NewDecoder(r)

	var root *xml.StartElement
	for {
		tok, err := dec.Token()
		if err != nil {
			if err == io.EOF {
				return nil, fmt.Errorf("文档为空（没有根元素）")
			}
			return nil, err
		}
		if se, ok := tok.(xml.StartElement); ok {
			root = &se
			break
		}
	}

	doc := &Document{Games: make([]Game, 0, 64)}
	for {
		tok, err := dec.Token()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "game":
				g, err := parseElement(dec, t)
				if err != nil {
					return nil, err
				}
				doc.Games = append(doc.Games, g)
			case "provider":
				g, err := parseElement(dec, t)
				if err != nil {
					return nil, err
				}
				// 只保留第一个 provider；后续的按未知节点处理。
				if doc.Provider == nil {
					doc.Provider = &g
				}
			default:
				if err := dec.Skip(); err != nil {
					return nil, err
				}
			}
		case xml.EndElement:
			if t.Name == root.Name {
				return doc, nil
			}
		}
	}
	return doc, nil
}

// parseElement 把一个元素的直接子元素收集为有序字段列表。
// 字段文本取其全部字符数据（实际 gamelist 字段都是扁平文本）。
func parseElement(dec *xml.Decoder, start xml.StartElement) (Game, error) {
	g := Game{
		Attr:   append([]xml.Attr(nil), start.Attr...),
		Fields: make([]Field, 0, 8),
	}

	for {
		tok, err := dec.Token()
		if err != nil {
			return Game{}, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			text, err := collectText(dec, t.Name)
			if err != nil {
				return Game{}, err
			}
			g.Fields = append(g.Fields, Field{
				Name: t.Name.Local,
				Attr: append([]xml.Attr(nil), t.Attr...),
				Text: text,
			})
		case xml.EndElement:
			if t.Name == start.Name {
				return g, nil
			}
		}
	}
}

func collectText(dec *xml.Decoder, name xml.Name) (string, error) {
	var b strings.Builder
	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		case xml.CharData:
			if depth == 1 {
				b.Write(t)
			}
		}
	}
	return b.String(), nil
}

// header 与刮削器常见产物保持一致。
const header = `<?xml version="1.0" encoding="UTF-8"?>` + "\n"

// Encode 把文档序列化为 gamelist.xml 字节流。
//
// 规则：
// - 根元素固定为 <gameList>
// - provider（若有）先于所有 game 输出
// - 字段顺序、属性、文本原样保留（文本做 XML 转义）
func (d *Document) Encode() ([]byte, error) {
	var b bytes.Buffer
	b.WriteString(header)
	b.WriteString("<gameList>\n")

	if d.Provider != nil {
		if err := encodeElement(&b, "provider", *d.Provider); err != nil {
			return nil, err
		}
	}
	for i := range d.Games {
		if err := encodeElement(&b, "game", d.Games[i]); err != nil {
			return nil, err
		}
	}

	b.WriteString("</gameList>\n")
	return b.Bytes(), nil
}

func encodeElement(b *bytes.Buffer, name string, g Game) error {
	b.WriteString("  <")
	b.WriteString(name)
	if err := writeAttrs(b, g.Attr); err != nil {
		return err
	}
	b.WriteString(">\n")

	for _, f := range g.Fields {
		b.WriteString("    <")
		b.WriteString(f.Name)
		if err := writeAttrs(b, f.Attr); err != nil {
			return err
		}
		if f.Text == "" {
			b.WriteString(" />\n")
			continue
		}
		b.WriteString(">")
		if err := xml.EscapeText(b, []byte(f.Text)); err != nil {
			return err
		}
		b.WriteString("</")
		b.WriteString(f.Name)
		b.WriteString(">\n")
	}

	b.WriteString("  </")
	b.WriteString(name)
	b.WriteString(">\n")
	return nil
}

func writeAttrs(b *bytes.Buffer, attrs []xml.Attr) error {
	for _, a := range attrs {
		b.WriteString(" ")
		b.WriteString(a.Name.Local)
		b.WriteString(`="`)
		if err := xml.EscapeText(b, []byte(a.Value)); err != nil {
			return err
		}
		b.WriteString(`"`)
	}
	return nil
}
